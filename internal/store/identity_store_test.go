package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/store"
)

func newIdentity(t *testing.T) domain.Identity {
	t.Helper()
	id, err := crypto.NewKeyFactory(crypto.NewSystemProvider()).GenerateIdentityKeys(context.Background())
	require.NoError(t, err)
	return id
}

func TestIdentitySaveLoad(t *testing.T) {
	home := t.TempDir()
	var ids domain.IdentityStore = store.NewIdentityFileStore(home)
	id := newIdentity(t)

	require.NoError(t, ids.SaveIdentity("correct horse", id))

	got, err := ids.LoadIdentity("correct horse")
	require.NoError(t, err)
	assert.Equal(t, 0, id.Encryption.Public.RSA.N.Cmp(got.Encryption.Public.RSA.N))
	assert.Equal(t, 0, id.Signing.Private.RSA.D.Cmp(got.Signing.Private.RSA.D))

	// The loaded keys are usable for their own purpose.
	c := crypto.NewCipher(crypto.NewSystemProvider())
	ct, err := c.Encrypt(id.Encryption.Public, "ping")
	require.NoError(t, err)
	pt, err := c.Decrypt(got.Encryption.Private, ct)
	require.NoError(t, err)
	assert.Equal(t, "ping", pt)

	info, err := os.Stat(filepath.Join(home, "identity.json.enc"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestIdentityWrongPassphrase(t *testing.T) {
	ids := store.NewIdentityFileStore(t.TempDir())
	require.NoError(t, ids.SaveIdentity("correct", newIdentity(t)))

	_, err := ids.LoadIdentity("wrong")
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestIdentityMissing(t *testing.T) {
	ids := store.NewIdentityFileStore(t.TempDir())
	assert.False(t, ids.Exists())

	_, err := ids.LoadIdentity("anything")
	require.ErrorIs(t, err, store.ErrNoIdentity)
}

func TestIdentityFileHoldsNoPlainArmor(t *testing.T) {
	home := t.TempDir()
	ids := store.NewIdentityFileStore(home)
	require.NoError(t, ids.SaveIdentity("pass", newIdentity(t)))

	b, err := os.ReadFile(filepath.Join(home, "identity.json.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "PRIVATE KEY")
}
