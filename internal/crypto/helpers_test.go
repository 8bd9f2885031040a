package crypto_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

var (
	fixtureOnce  sync.Once
	alice, bob   domain.Identity
	fixtureError error
)

// identities returns two identities shared by every test in the package.
// RSA-2048 generation is slow enough that generating per test hurts.
func identities(t *testing.T) (domain.Identity, domain.Identity) {
	t.Helper()
	fixtureOnce.Do(func() {
		f := crypto.NewKeyFactory(crypto.NewSystemProvider())
		alice, fixtureError = f.GenerateIdentityKeys(context.Background())
		if fixtureError != nil {
			return
		}
		bob, fixtureError = f.GenerateIdentityKeys(context.Background())
	})
	require.NoError(t, fixtureError)
	return alice, bob
}

type failingProvider struct{}

func (failingProvider) Random() io.Reader { return rand.Reader }
func (failingProvider) GenerateRSAKey(int) (*rsa.PrivateKey, error) {
	return nil, errors.New("provider unavailable")
}

// fixedProvider hands out the same key for every request.
type fixedProvider struct{ key *rsa.PrivateKey }

func (fixedProvider) Random() io.Reader { return rand.Reader }
func (p fixedProvider) GenerateRSAKey(int) (*rsa.PrivateKey, error) {
	return p.key, nil
}

// weakProvider ignores the requested size.
type weakProvider struct{ bits int }

func (weakProvider) Random() io.Reader { return rand.Reader }
func (p weakProvider) GenerateRSAKey(int) (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, p.bits)
}
