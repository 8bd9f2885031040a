package crypto

import (
	"crypto/rsa"
	"crypto/sha256"

	"github.com/pkg/errors"

	"sealchat/internal/domain"
)

// oaepOverhead is the OAEP padding cost for SHA-256: two digests plus two bytes.
const oaepOverhead = 2*sha256.Size + 2

// MaxPlaintextSize is the largest plaintext one RSA-OAEP/SHA-256 block can
// carry under a modulus of the given byte size.
func MaxPlaintextSize(modulusBytes int) int { return modulusBytes - oaepOverhead }

// Cipher encrypts short message bodies directly with RSA-OAEP/SHA-256 and an
// empty label.
type Cipher struct {
	provider Provider
}

// NewCipher returns a Cipher drawing padding randomness from p.
func NewCipher(p Provider) *Cipher { return &Cipher{provider: p} }

// Encrypt seals plaintext for the holder of key and returns base64 ciphertext.
func (c *Cipher) Encrypt(key domain.Key, plaintext string) (string, error) {
	pub, err := recipientKey(key)
	if err != nil {
		return "", err
	}
	msg := []byte(plaintext)
	if limit := MaxPlaintextSize(pub.Size()); len(msg) > limit {
		return "", errors.Wrapf(ErrMessageTooLong, "%d bytes, limit %d", len(msg), limit)
	}
	ct, err := rsa.EncryptOAEP(sha256.New(), c.provider.Random(), pub, msg, nil)
	if err != nil {
		return "", errors.Wrapf(ErrRecipientKeyInvalid, "oaep: %v", err)
	}
	return B64(ct), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Any problem with the
// ciphertext yields ErrDecryptionFailed and nothing else.
func (c *Cipher) Decrypt(key domain.Key, ciphertext string) (string, error) {
	priv, err := decryptionKey(key)
	if err != nil {
		return "", err
	}
	raw, err := UnB64(ciphertext)
	if err != nil || len(raw) != priv.Size() {
		return "", ErrDecryptionFailed
	}
	pt, err := rsa.DecryptOAEP(sha256.New(), nil, priv, raw, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(pt), nil
}

// recipientKey returns the RSA key behind an encryption public key.
func recipientKey(key domain.Key) (*rsa.PublicKey, error) {
	if key == nil {
		return nil, errors.Wrap(ErrRecipientKeyInvalid, "no recipient key")
	}
	k, err := As[domain.EncryptionPublicKey](key)
	if err != nil {
		return nil, err
	}
	if err := checkPolicy(k.RSA); err != nil {
		return nil, errors.Wrap(ErrRecipientKeyInvalid, err.Error())
	}
	return k.RSA, nil
}

// decryptionKey returns the RSA key behind an encryption private key.
func decryptionKey(key domain.Key) (*rsa.PrivateKey, error) {
	if key == nil {
		return nil, errors.Wrap(ErrOperationMismatch, "no decryption key")
	}
	k, err := As[domain.EncryptionPrivateKey](key)
	if err != nil {
		return nil, err
	}
	if k.RSA == nil || checkPolicy(&k.RSA.PublicKey) != nil {
		return nil, errors.Wrap(ErrOperationMismatch, "decryption key below policy")
	}
	return k.RSA, nil
}
