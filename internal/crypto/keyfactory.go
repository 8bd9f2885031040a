package crypto

import (
	"context"
	"crypto/rsa"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"sealchat/internal/domain"
)

const (
	// ModulusBits is the fixed RSA modulus size for both key pairs.
	ModulusBits = 2048
	// PublicExponent is the fixed RSA public exponent.
	PublicExponent = 65537
)

// KeyFactory generates identity key pairs using a Provider.
type KeyFactory struct {
	provider Provider
}

// NewKeyFactory returns a factory backed by p.
func NewKeyFactory(p Provider) *KeyFactory { return &KeyFactory{provider: p} }

// GenerateIdentityKeys returns a fresh encryption key pair and a fresh signing
// key pair. The two are generated independently and concurrently.
func (f *KeyFactory) GenerateIdentityKeys(ctx context.Context) (domain.Identity, error) {
	var enc, sig *rsa.PrivateKey

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		k, err := f.generate(ctx, "encryption")
		enc = k
		return err
	})
	g.Go(func() error {
		k, err := f.generate(ctx, "signing")
		sig = k
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Identity{}, err
	}

	// Independent generation must never yield a shared modulus.
	if enc.N.Cmp(sig.N) == 0 {
		return domain.Identity{}, errors.Wrap(ErrKeyGeneration, "encryption and signing keys share a modulus")
	}

	return domain.Identity{
		Encryption: domain.EncryptionKeyPair{
			Public:  domain.EncryptionPublicKey{RSA: &enc.PublicKey},
			Private: domain.EncryptionPrivateKey{RSA: enc},
		},
		Signing: domain.SigningKeyPair{
			Public:  domain.SigningPublicKey{RSA: &sig.PublicKey},
			Private: domain.SigningPrivateKey{RSA: sig},
		},
	}, nil
}

func (f *KeyFactory) generate(ctx context.Context, what string) (*rsa.PrivateKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(ErrKeyGeneration, "%s key: %v", what, err)
	}
	k, err := f.provider.GenerateRSAKey(ModulusBits)
	if err != nil {
		return nil, errors.Wrapf(ErrKeyGeneration, "%s key: %v", what, err)
	}
	if err := checkPolicy(&k.PublicKey); err != nil {
		return nil, errors.Wrapf(ErrKeyGeneration, "%s key: %v", what, err)
	}
	return k, nil
}

// checkPolicy rejects keys below the fixed strength parameters.
func checkPolicy(pub *rsa.PublicKey) error {
	if pub == nil || pub.N == nil {
		return errors.New("missing modulus")
	}
	if bits := pub.N.BitLen(); bits < ModulusBits {
		return errors.Errorf("modulus is %d bits, need at least %d", bits, ModulusBits)
	}
	if pub.E != PublicExponent {
		return errors.Errorf("public exponent is %d, need %d", pub.E, PublicExponent)
	}
	return nil
}
