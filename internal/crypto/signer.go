package crypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"

	"github.com/pkg/errors"

	"sealchat/internal/domain"
)

// Signer produces and checks detached RSASSA-PKCS1-v1_5/SHA-256 signatures
// over the exact plaintext bytes.
type Signer struct {
	provider Provider
}

// NewSigner returns a Signer backed by p.
func NewSigner(p Provider) *Signer { return &Signer{provider: p} }

// Sign returns the base64 signature of plaintext under key.
func (s *Signer) Sign(key domain.Key, plaintext string) (string, error) {
	if key == nil {
		return "", errors.Wrap(ErrSigningKeyInvalid, "no signing key")
	}
	k, err := As[domain.SigningPrivateKey](key)
	if err != nil {
		return "", err
	}
	if k.RSA == nil {
		return "", errors.Wrap(ErrSigningKeyInvalid, "empty signing key")
	}
	if err := checkPolicy(&k.RSA.PublicKey); err != nil {
		return "", errors.Wrap(ErrSigningKeyInvalid, err.Error())
	}

	digest := sha256.Sum256([]byte(plaintext))
	sig, err := rsa.SignPKCS1v15(s.provider.Random(), k.RSA, crypto.SHA256, digest[:])
	if err != nil {
		return "", errors.Wrapf(ErrSigningKeyInvalid, "pkcs1v15: %v", err)
	}
	return B64(sig), nil
}

// Verify reports whether signature is a valid signature of plaintext by the
// holder of key. A forged or mismatched signature is false with a nil error.
func (s *Signer) Verify(key domain.Key, signature, plaintext string) (bool, error) {
	if key == nil {
		return false, errors.Wrap(ErrSigningKeyInvalid, "no verification key")
	}
	k, err := As[domain.SigningPublicKey](key)
	if err != nil {
		return false, err
	}
	if err := checkPolicy(k.RSA); err != nil {
		return false, errors.Wrap(ErrSigningKeyInvalid, err.Error())
	}
	sig, err := UnB64(signature)
	if err != nil {
		return false, err
	}

	digest := sha256.Sum256([]byte(plaintext))
	return rsa.VerifyPKCS1v15(k.RSA, crypto.SHA256, digest[:], sig) == nil, nil
}
