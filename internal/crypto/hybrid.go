package crypto

import (
	"crypto/rsa"
	"crypto/sha256"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"

	"sealchat/internal/domain"
	"sealchat/internal/util/memzero"
)

// HybridCipher encrypts bodies of any length. Each message gets a fresh
// content key that seals the body with XChaCha20-Poly1305 and is itself
// wrapped for the recipient with RSA-OAEP/SHA-256.
//
// Wire layout, base64 encoded: wrapped key (modulus size) || nonce (24) ||
// AEAD ciphertext. The wrapped key is the associated data.
type HybridCipher struct {
	provider Provider
}

// NewHybridCipher returns a HybridCipher drawing randomness from p.
func NewHybridCipher(p Provider) *HybridCipher { return &HybridCipher{provider: p} }

// Encrypt seals plaintext for the holder of key.
func (h *HybridCipher) Encrypt(key domain.Key, plaintext string) (string, error) {
	pub, err := recipientKey(key)
	if err != nil {
		return "", err
	}

	rnd := h.provider.Random()
	cek := make([]byte, chacha20poly1305.KeySize)
	defer memzero.Zero(cek)
	if _, err := io.ReadFull(rnd, cek); err != nil {
		return "", errors.Wrap(err, "content key")
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rnd, pub, cek, nil)
	if err != nil {
		return "", errors.Wrapf(ErrRecipientKeyInvalid, "oaep: %v", err)
	}

	aead, err := chacha20poly1305.NewX(cek)
	if err != nil {
		return "", errors.Wrap(err, "aead")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rnd, nonce); err != nil {
		return "", errors.Wrap(err, "nonce")
	}

	out := make([]byte, 0, len(wrapped)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, wrapped...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(plaintext), wrapped)
	return B64(out), nil
}

// Decrypt opens a blob produced by Encrypt. As with Cipher, every failure
// caused by the blob is ErrDecryptionFailed.
func (h *HybridCipher) Decrypt(key domain.Key, ciphertext string) (string, error) {
	priv, err := decryptionKey(key)
	if err != nil {
		return "", err
	}
	raw, err := UnB64(ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	wrapLen := priv.Size()
	if len(raw) < wrapLen+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return "", ErrDecryptionFailed
	}
	wrapped := raw[:wrapLen]
	nonce := raw[wrapLen : wrapLen+chacha20poly1305.NonceSizeX]
	body := raw[wrapLen+chacha20poly1305.NonceSizeX:]

	cek, err := rsa.DecryptOAEP(sha256.New(), nil, priv, wrapped, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	defer memzero.Zero(cek)

	aead, err := chacha20poly1305.NewX(cek)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	pt, err := aead.Open(nil, nonce, body, wrapped)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(pt), nil
}

// BodyCipher is satisfied by Cipher and HybridCipher.
type BodyCipher interface {
	Encrypt(key domain.Key, plaintext string) (string, error)
	Decrypt(key domain.Key, ciphertext string) (string, error)
}

var (
	_ BodyCipher = (*Cipher)(nil)
	_ BodyCipher = (*HybridCipher)(nil)
)

// ForScheme returns the body cipher for a scheme tag.
func ForScheme(p Provider, s domain.Scheme) (BodyCipher, error) {
	switch s {
	case domain.SchemeRSAOAEP, "":
		return NewCipher(p), nil
	case domain.SchemeHybrid:
		return NewHybridCipher(p), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", s)
	}
}
