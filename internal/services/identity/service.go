package identity

import (
	"context"
	"fmt"
	"unicode"

	"github.com/pkg/errors"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// KeyGenerator produces a fresh identity. *crypto.KeyFactory satisfies it.
type KeyGenerator interface {
	GenerateIdentityKeys(ctx context.Context) (domain.Identity, error)
}

// Service manages identity key creation and access using a backing store.
//
// The identity contains:
//   - An RSA-OAEP/SHA-256 key pair that peers encrypt message bodies to.
//   - An RSASSA-PKCS1-v1_5/SHA-256 key pair we sign every message with.
type Service struct {
	store domain.IdentityStore
	keys  KeyGenerator
	codec crypto.Codec
}

// New returns an identity service backed by the given store and generator.
func New(s domain.IdentityStore, keys KeyGenerator) *Service {
	return &Service{store: s, keys: keys, codec: crypto.NewCodec()}
}

// GenerateIdentity creates a new identity, saves it encrypted with the passphrase,
// and returns the identity plus a short fingerprint of the encryption public key.
func (s *Service) GenerateIdentity(
	ctx context.Context,
	passphrase string,
) (domain.Identity, domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, "", ErrWeakPassphrase
	}

	id, err := s.keys.GenerateIdentityKeys(ctx)
	if err != nil {
		return domain.Identity{}, "", err
	}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, "", errors.Wrap(err, "save identity")
	}
	fp, err := crypto.Fingerprint(id.Encryption.Public)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return id, fp, nil
}

// LoadIdentity decrypts and returns the local identity.
func (s *Service) LoadIdentity(passphrase string) (domain.Identity, error) {
	return s.store.LoadIdentity(passphrase)
}

// FingerprintIdentity returns short fingerprints of both local public keys.
func (s *Service) FingerprintIdentity(
	passphrase string,
) (encryption domain.Fingerprint, signing domain.Fingerprint, err error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return "", "", err
	}
	if encryption, err = crypto.Fingerprint(id.Encryption.Public); err != nil {
		return "", "", err
	}
	if signing, err = crypto.Fingerprint(id.Signing.Public); err != nil {
		return "", "", err
	}
	return encryption, signing, nil
}

// ExportPublicIdentity returns the armored public halves for publication.
func (s *Service) ExportPublicIdentity(passphrase string) (domain.PublicIdentity, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	enc, err := s.codec.Export(id.Encryption.Public, domain.RolePublic)
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	sig, err := s.codec.Export(id.Signing.Public, domain.RolePublic)
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	return domain.PublicIdentity{EncryptionKey: enc, SigningKey: sig}, nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
