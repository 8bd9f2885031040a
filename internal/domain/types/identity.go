package types

// EncryptionKeyPair is the confidentiality key pair of an identity.
type EncryptionKeyPair struct {
	Public  EncryptionPublicKey
	Private EncryptionPrivateKey
}

// SigningKeyPair is the authenticity key pair of an identity.
type SigningKeyPair struct {
	Public  SigningPublicKey
	Private SigningPrivateKey
}

// Identity holds your long-term encryption and signing key pairs. The private
// halves never leave the local keystore.
type Identity struct {
	Encryption EncryptionKeyPair
	Signing    SigningKeyPair
}

// PublicIdentity is the armored public half of an identity as published on
// the relay.
type PublicIdentity struct {
	UserID        UserID     `json:"user_id"`
	EncryptionKey EncodedKey `json:"encryption_key"`
	SigningKey    EncodedKey `json:"signing_key"`
}
