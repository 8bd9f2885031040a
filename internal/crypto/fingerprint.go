package crypto

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"

	"github.com/pkg/errors"

	"sealchat/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes the SPKI encoding with SHA-256 and truncates to 10 bytes (20 hex
// chars), so the value is stable across export and import.
func Fingerprint(key domain.Key) (domain.Fingerprint, error) {
	var der []byte
	var err error
	switch k := key.(type) {
	case domain.EncryptionPublicKey:
		der, err = marshalPublic(k.RSA)
	case domain.SigningPublicKey:
		der, err = marshalPublic(k.RSA)
	default:
		return "", errors.Wrapf(ErrUnsupportedKey, "fingerprint of %T", key)
	}
	if err != nil {
		return "", err
	}
	return fingerprintDER(der), nil
}

// FingerprintArmor fingerprints an armored public key without knowing its
// purpose.
func FingerprintArmor(armor string) (domain.Fingerprint, error) {
	der, err := decodeArmor(armor, domain.RolePublic)
	if err != nil {
		return "", err
	}
	if _, err := x509.ParsePKIXPublicKey(der); err != nil {
		return "", errors.Wrapf(ErrMalformedEncoding, "spki: %v", err)
	}
	return fingerprintDER(der), nil
}

func fingerprintDER(der []byte) domain.Fingerprint {
	sum := sha256.Sum256(der)
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}
