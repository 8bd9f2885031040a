package directory

import (
	"context"

	"github.com/pkg/errors"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// Service resolves counterpart keys through a local cache backed by the relay.
type Service struct {
	cache domain.PeerKeyStore
	relay domain.RelayClient
	codec crypto.Codec
}

// New constructs a directory Service.
func New(cache domain.PeerKeyStore, relay domain.RelayClient) *Service {
	return &Service{cache: cache, relay: relay, codec: crypto.NewCodec()}
}

// PeerKeys returns the encryption and signing public keys of id.
func (s *Service) PeerKeys(
	ctx context.Context,
	id domain.UserID,
) (domain.EncryptionPublicKey, domain.SigningPublicKey, error) {
	pub, ok, err := s.cache.LoadPeerKeys(id)
	if err != nil {
		return domain.EncryptionPublicKey{}, domain.SigningPublicKey{}, err
	}
	if !ok {
		keys, err := s.relay.FetchPublicKeys(ctx, id)
		if err != nil {
			return domain.EncryptionPublicKey{}, domain.SigningPublicKey{}, errors.Wrapf(err, "fetch keys of %s", id)
		}
		pub = domain.PublicIdentity{
			UserID: id,
			EncryptionKey: domain.EncodedKey{
				Role:    domain.RolePublic,
				Purpose: domain.PurposeEncryption,
				Armor:   keys.EncryptionPublicKey,
			},
			SigningKey: domain.EncodedKey{
				Role:    domain.RolePublic,
				Purpose: domain.PurposeSigning,
				Armor:   keys.SigningPublicKey,
			},
		}
	}

	enc, sig, err := s.decode(pub)
	if err != nil {
		return domain.EncryptionPublicKey{}, domain.SigningPublicKey{}, errors.Wrapf(err, "keys of %s", id)
	}
	if !ok {
		if err := s.cache.SavePeerKeys(pub); err != nil {
			return domain.EncryptionPublicKey{}, domain.SigningPublicKey{}, err
		}
	}
	return enc, sig, nil
}

func (s *Service) decode(pub domain.PublicIdentity) (domain.EncryptionPublicKey, domain.SigningPublicKey, error) {
	k, err := s.codec.Import(pub.EncryptionKey, domain.RolePublic, domain.UsageEncrypt)
	if err != nil {
		return domain.EncryptionPublicKey{}, domain.SigningPublicKey{}, err
	}
	enc, err := crypto.As[domain.EncryptionPublicKey](k)
	if err != nil {
		return domain.EncryptionPublicKey{}, domain.SigningPublicKey{}, err
	}

	k, err = s.codec.Import(pub.SigningKey, domain.RolePublic, domain.UsageVerify)
	if err != nil {
		return domain.EncryptionPublicKey{}, domain.SigningPublicKey{}, err
	}
	sig, err := crypto.As[domain.SigningPublicKey](k)
	if err != nil {
		return domain.EncryptionPublicKey{}, domain.SigningPublicKey{}, err
	}
	return enc, sig, nil
}

// Compile-time assertion that Service implements domain.DirectoryService.
var _ domain.DirectoryService = (*Service)(nil)
