package types

import "crypto/rsa"

// Purpose says what a key pair was generated for. The two purposes are never
// interchangeable.
type Purpose string

const (
	PurposeEncryption Purpose = "encryption"
	PurposeSigning    Purpose = "signing"
)

// Role says which half of a key pair a key is.
type Role string

const (
	RolePublic  Role = "public"
	RolePrivate Role = "private"
)

// Usage is an operation a caller intends to perform with an imported key.
type Usage string

const (
	UsageEncrypt Usage = "encrypt"
	UsageDecrypt Usage = "decrypt"
	UsageSign    Usage = "sign"
	UsageVerify  Usage = "verify"
)

// Key is implemented by the four purpose-bound key types below.
type Key interface {
	Purpose() Purpose
	Role() Role
}

// EncryptionPublicKey is an RSA-OAEP/SHA-256 public key.
type EncryptionPublicKey struct{ RSA *rsa.PublicKey }

func (EncryptionPublicKey) Purpose() Purpose { return PurposeEncryption }
func (EncryptionPublicKey) Role() Role       { return RolePublic }

// EncryptionPrivateKey is an RSA-OAEP/SHA-256 private key.
type EncryptionPrivateKey struct{ RSA *rsa.PrivateKey }

func (EncryptionPrivateKey) Purpose() Purpose { return PurposeEncryption }
func (EncryptionPrivateKey) Role() Role       { return RolePrivate }

// SigningPublicKey is an RSASSA-PKCS1-v1_5/SHA-256 public key.
type SigningPublicKey struct{ RSA *rsa.PublicKey }

func (SigningPublicKey) Purpose() Purpose { return PurposeSigning }
func (SigningPublicKey) Role() Role       { return RolePublic }

// SigningPrivateKey is an RSASSA-PKCS1-v1_5/SHA-256 private key.
type SigningPrivateKey struct{ RSA *rsa.PrivateKey }

func (SigningPrivateKey) Purpose() Purpose { return PurposeSigning }
func (SigningPrivateKey) Role() Role       { return RolePrivate }

// EncodedKey is the armored text form of one key half. Purpose is an
// application-level tag; the armor itself does not carry it.
type EncodedKey struct {
	Role    Role    `json:"role"`
	Purpose Purpose `json:"purpose,omitempty"`
	Armor   string  `json:"armor"`
}
