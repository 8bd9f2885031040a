package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/util/memzero"
)

const idFilename = "identity.json.enc"

// ErrNoIdentity is returned by LoadIdentity before an identity has been saved.
var ErrNoIdentity = errors.New("no identity; run init first")

// identityRecord is the plaintext inside the keystore envelope. Every half is
// kept as tagged armor so the file is readable by any PKCS#8/SPKI tooling
// once decrypted.
type identityRecord struct {
	EncryptionPublic  domain.EncodedKey `json:"encryption_public"`
	EncryptionPrivate domain.EncodedKey `json:"encryption_private"`
	SigningPublic     domain.EncodedKey `json:"signing_public"`
	SigningPrivate    domain.EncodedKey `json:"signing_private"`
}

// IdentityFileStore persists the local identity to disk.
type IdentityFileStore struct {
	dir   string
	codec crypto.Codec
	mu    sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir, codec: crypto.NewCodec()}
}

// SaveIdentity writes the encrypted identity to disk.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec identityRecord
	var err error
	if rec.EncryptionPublic, err = s.codec.Export(id.Encryption.Public, domain.RolePublic); err != nil {
		return errors.Wrap(err, "export encryption public key")
	}
	if rec.EncryptionPrivate, err = s.codec.Export(id.Encryption.Private, domain.RolePrivate); err != nil {
		return errors.Wrap(err, "export encryption private key")
	}
	if rec.SigningPublic, err = s.codec.Export(id.Signing.Public, domain.RolePublic); err != nil {
		return errors.Wrap(err, "export signing public key")
	}
	if rec.SigningPrivate, err = s.codec.Export(id.Signing.Private, domain.RolePrivate); err != nil {
		return errors.Wrap(err, "export signing private key")
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	n, r, p := scryptParamsDefault()
	ct, err := encrypt(passphrase, raw, n, r, p)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, idFilename), ct, 0o600)
}

// LoadIdentity reads and decrypts the identity.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, idFilename))
	if err != nil {
		return domain.Identity{}, err
	}
	if b == nil {
		return domain.Identity{}, ErrNoIdentity
	}
	pt, err := decrypt(passphrase, b)
	if err != nil {
		return domain.Identity{}, err
	}
	defer memzero.Zero(pt)

	var rec identityRecord
	if err := json.Unmarshal(pt, &rec); err != nil {
		return domain.Identity{}, errors.Wrap(err, "decode identity")
	}
	return s.decode(rec)
}

// Exists reports whether an identity file is present.
func (s *IdentityFileStore) Exists() bool {
	_, err := os.Stat(filepath.Join(s.dir, idFilename))
	return err == nil
}

func (s *IdentityFileStore) decode(rec identityRecord) (domain.Identity, error) {
	var id domain.Identity

	k, err := s.codec.Import(rec.EncryptionPublic, domain.RolePublic, domain.UsageEncrypt)
	if err != nil {
		return id, errors.Wrap(err, "encryption public key")
	}
	id.Encryption.Public = k.(domain.EncryptionPublicKey)

	if k, err = s.codec.Import(rec.EncryptionPrivate, domain.RolePrivate, domain.UsageDecrypt); err != nil {
		return id, errors.Wrap(err, "encryption private key")
	}
	id.Encryption.Private = k.(domain.EncryptionPrivateKey)

	if k, err = s.codec.Import(rec.SigningPublic, domain.RolePublic, domain.UsageVerify); err != nil {
		return id, errors.Wrap(err, "signing public key")
	}
	id.Signing.Public = k.(domain.SigningPublicKey)

	if k, err = s.codec.Import(rec.SigningPrivate, domain.RolePrivate, domain.UsageSign); err != nil {
		return id, errors.Wrap(err, "signing private key")
	}
	id.Signing.Private = k.(domain.SigningPrivateKey)

	return id, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
