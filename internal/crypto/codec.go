package crypto

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"

	"github.com/pkg/errors"

	"sealchat/internal/domain"
	"sealchat/internal/util/memzero"
)

const (
	publicArmorType  = "PUBLIC KEY"
	privateArmorType = "PRIVATE KEY"
)

// Codec converts typed keys to and from PEM armor. Public halves use SPKI,
// private halves use PKCS#8. Encoding is deterministic, so re-exporting an
// imported key yields the same armor.
type Codec struct{}

// NewCodec returns a Codec.
func NewCodec() Codec { return Codec{} }

// Export serialises key into the container for role.
func (Codec) Export(key domain.Key, role domain.Role) (domain.EncodedKey, error) {
	if key == nil {
		return domain.EncodedKey{}, errors.Wrap(ErrUnsupportedKey, "nil key")
	}
	if key.Role() != role {
		return domain.EncodedKey{}, errors.Wrapf(ErrUnsupportedKey, "%s key cannot be exported as %s", key.Role(), role)
	}

	var (
		der       []byte
		armorType string
		err       error
	)
	switch k := key.(type) {
	case domain.EncryptionPublicKey:
		der, err = marshalPublic(k.RSA)
		armorType = publicArmorType
	case domain.SigningPublicKey:
		der, err = marshalPublic(k.RSA)
		armorType = publicArmorType
	case domain.EncryptionPrivateKey:
		der, err = marshalPrivate(k.RSA)
		armorType = privateArmorType
	case domain.SigningPrivateKey:
		der, err = marshalPrivate(k.RSA)
		armorType = privateArmorType
	default:
		return domain.EncodedKey{}, errors.Wrapf(ErrUnsupportedKey, "key type %T", key)
	}
	if err != nil {
		return domain.EncodedKey{}, err
	}

	armor := pem.EncodeToMemory(&pem.Block{Type: armorType, Bytes: der})
	if role == domain.RolePrivate {
		memzero.Zero(der)
	}
	return domain.EncodedKey{
		Role:    role,
		Purpose: key.Purpose(),
		Armor:   string(armor),
	}, nil
}

func marshalPublic(pub *rsa.PublicKey) ([]byte, error) {
	if pub == nil || pub.N == nil {
		return nil, errors.Wrap(ErrUnsupportedKey, "empty public key")
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedKey, "spki: %v", err)
	}
	return der, nil
}

func marshalPrivate(priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil || priv.N == nil {
		return nil, errors.Wrap(ErrUnsupportedKey, "empty private key")
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedKey, "pkcs8: %v", err)
	}
	return der, nil
}

// Import parses enc as a key of the given role for the requested usages. The
// algorithm and purpose are derived from the usages; any tag carried on enc
// must agree with them.
func (Codec) Import(enc domain.EncodedKey, role domain.Role, usages ...domain.Usage) (domain.Key, error) {
	purpose, err := purposeFor(role, usages)
	if err != nil {
		return nil, err
	}
	if enc.Role != "" && enc.Role != role {
		return nil, errors.Wrapf(ErrOperationMismatch, "key is tagged %s, requested %s", enc.Role, role)
	}
	if enc.Purpose != "" && enc.Purpose != purpose {
		return nil, errors.Wrapf(ErrOperationMismatch, "key is tagged for %s, requested %s", enc.Purpose, purpose)
	}

	der, err := decodeArmor(enc.Armor, role)
	if err != nil {
		return nil, err
	}

	switch role {
	case domain.RolePublic:
		pub, err := parsePublic(der)
		if err != nil {
			return nil, err
		}
		if purpose == domain.PurposeEncryption {
			return domain.EncryptionPublicKey{RSA: pub}, nil
		}
		return domain.SigningPublicKey{RSA: pub}, nil
	default:
		defer memzero.Zero(der)
		priv, err := parsePrivate(der)
		if err != nil {
			return nil, err
		}
		if purpose == domain.PurposeEncryption {
			return domain.EncryptionPrivateKey{RSA: priv}, nil
		}
		return domain.SigningPrivateKey{RSA: priv}, nil
	}
}

// purposeFor checks usages against role and returns the purpose they imply.
func purposeFor(role domain.Role, usages []domain.Usage) (domain.Purpose, error) {
	if role != domain.RolePublic && role != domain.RolePrivate {
		return "", errors.Wrapf(ErrUsageAmbiguity, "unknown role %q", role)
	}
	if len(usages) == 0 {
		return "", errors.Wrap(ErrUsageAmbiguity, "no usages requested")
	}

	var purpose domain.Purpose
	for _, u := range usages {
		var (
			p    domain.Purpose
			need domain.Role
		)
		switch u {
		case domain.UsageEncrypt:
			p, need = domain.PurposeEncryption, domain.RolePublic
		case domain.UsageDecrypt:
			p, need = domain.PurposeEncryption, domain.RolePrivate
		case domain.UsageVerify:
			p, need = domain.PurposeSigning, domain.RolePublic
		case domain.UsageSign:
			p, need = domain.PurposeSigning, domain.RolePrivate
		default:
			return "", errors.Wrapf(ErrUsageAmbiguity, "unknown usage %q", u)
		}
		if purpose != "" && purpose != p {
			return "", errors.Wrap(ErrUsageAmbiguity, "usages mix encryption and signing")
		}
		purpose = p
		if need != role {
			return "", errors.Wrapf(ErrOperationMismatch, "%s needs a %s key, got %s", u, need, role)
		}
	}
	return purpose, nil
}

// decodeArmor returns the DER body of a single armored block of the type
// expected for role.
func decodeArmor(armor string, role domain.Role) ([]byte, error) {
	text := strings.TrimSpace(armor)
	if !strings.HasPrefix(text, "-----BEGIN ") {
		return nil, errors.Wrap(ErrMalformedEncoding, "missing armor header")
	}
	block, rest := pem.Decode([]byte(text))
	if block == nil {
		return nil, errors.Wrap(ErrMalformedEncoding, "armor does not decode")
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return nil, errors.Wrap(ErrMalformedEncoding, "trailing data after armor")
	}
	if len(block.Headers) != 0 {
		return nil, errors.Wrap(ErrMalformedEncoding, "unexpected armor headers")
	}

	want := publicArmorType
	if role == domain.RolePrivate {
		want = privateArmorType
	}
	if block.Type != want {
		return nil, errors.Wrapf(ErrMalformedEncoding, "armor type %q, want %q", block.Type, want)
	}
	return block.Bytes, nil
}

func parsePublic(der []byte) (*rsa.PublicKey, error) {
	k, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedEncoding, "spki: %v", err)
	}
	pub, ok := k.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedKey, "%T is not an RSA key", k)
	}
	if err := checkPolicy(pub); err != nil {
		return nil, errors.Wrap(ErrUnsupportedKey, err.Error())
	}
	return pub, nil
}

func parsePrivate(der []byte) (*rsa.PrivateKey, error) {
	k, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedEncoding, "pkcs8: %v", err)
	}
	priv, ok := k.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedKey, "%T is not an RSA key", k)
	}
	if err := checkPolicy(&priv.PublicKey); err != nil {
		return nil, errors.Wrap(ErrUnsupportedKey, err.Error())
	}
	return priv, nil
}

// As narrows a Key to the concrete type T.
func As[T domain.Key](k domain.Key) (T, error) {
	var zero T
	if k == nil {
		return zero, errors.Wrap(ErrOperationMismatch, "nil key")
	}
	t, ok := k.(T)
	if !ok {
		return zero, errors.Wrapf(ErrOperationMismatch, "have %s %s key, want %s %s",
			k.Purpose(), k.Role(), zero.Purpose(), zero.Role())
	}
	return t, nil
}
