package store

import (
	"path/filepath"
	"sync"

	"sealchat/internal/domain"
)

const peersFile = "peers.json"

// PeerKeyFileStore caches counterpart public keys by user id.
type PeerKeyFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPeerKeyFileStore returns a PeerKeyFileStore rooted at dir.
func NewPeerKeyFileStore(dir string) *PeerKeyFileStore {
	return &PeerKeyFileStore{dir: dir}
}

// SavePeerKeys records the armored keys of one user.
func (s *PeerKeyFileStore) SavePeerKeys(keys domain.PublicIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, peersFile)
	m := map[domain.UserID]domain.PublicIdentity{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[keys.UserID] = keys
	return writeJSON(path, m, 0o600)
}

// LoadPeerKeys returns the cached keys of id and whether they were present.
func (s *PeerKeyFileStore) LoadPeerKeys(id domain.UserID) (domain.PublicIdentity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, peersFile)
	m := map[domain.UserID]domain.PublicIdentity{}
	if err := readJSON(path, &m); err != nil {
		return domain.PublicIdentity{}, false, err
	}
	keys, ok := m[id]
	return keys, ok, nil
}

// Compile-time assertion that PeerKeyFileStore implements domain.PeerKeyStore.
var _ domain.PeerKeyStore = (*PeerKeyFileStore)(nil)
