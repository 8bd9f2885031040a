package envelope_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/protocol/envelope"
)

var (
	once       sync.Once
	alice, bob domain.Identity
	genErr     error
)

func identities(t *testing.T) (domain.Identity, domain.Identity) {
	t.Helper()
	once.Do(func() {
		f := crypto.NewKeyFactory(crypto.NewSystemProvider())
		if alice, genErr = f.GenerateIdentityKeys(context.Background()); genErr != nil {
			return
		}
		bob, genErr = f.GenerateIdentityKeys(context.Background())
	})
	require.NoError(t, genErr)
	return alice, bob
}

// Alice sends "hello" to Bob over a transport that only carries the sealed
// fields, then the ciphertext is corrupted in transit.
func TestAliceToBobScenario(t *testing.T) {
	a, b := identities(t)
	env := envelope.New(crypto.NewSystemProvider())

	sealed, err := env.Seal(context.Background(), domain.SchemeRSAOAEP, "hello", b.Encryption.Public, a.Signing.Private)
	require.NoError(t, err)
	assert.Equal(t, domain.SchemeRSAOAEP, sealed.Scheme)

	transmitted := domain.Sealed{Scheme: sealed.Scheme, Ciphertext: sealed.Ciphertext, Signature: sealed.Signature}
	opened := env.Open(b.Encryption.Private, a.Signing.Public, transmitted)
	require.NoError(t, opened.Err)
	assert.Equal(t, domain.StatusVerified, opened.Status)
	assert.Equal(t, "hello", opened.Plaintext)

	cipher := crypto.NewCipher(crypto.NewSystemProvider())
	signer := crypto.NewSigner(crypto.NewSystemProvider())
	pt, err := cipher.Decrypt(b.Encryption.Private, transmitted.Ciphertext)
	require.NoError(t, err)
	ok, err := signer.Verify(a.Signing.Public, transmitted.Signature, pt)
	require.NoError(t, err)
	assert.True(t, ok)

	corrupted := transmitted
	corrupted.Ciphertext = flipChar(transmitted.Ciphertext, 5)
	_, err = cipher.Decrypt(b.Encryption.Private, corrupted.Ciphertext)
	require.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	opened = env.Open(b.Encryption.Private, a.Signing.Public, corrupted)
	assert.Equal(t, domain.StatusUnreadable, opened.Status)
	assert.Empty(t, opened.Plaintext)
	assert.ErrorIs(t, opened.Err, crypto.ErrDecryptionFailed)
}

func TestOpenFlagsWrongSigner(t *testing.T) {
	a, b := identities(t)
	env := envelope.New(crypto.NewSystemProvider())

	sealed, err := env.Seal(context.Background(), domain.SchemeRSAOAEP, "hi bob", b.Encryption.Public, a.Signing.Private)
	require.NoError(t, err)

	// Bob believes the message came from himself.
	opened := env.Open(b.Encryption.Private, b.Signing.Public, sealed)
	assert.Equal(t, domain.StatusUntrusted, opened.Status)
	assert.Equal(t, "hi bob", opened.Plaintext)
	assert.ErrorIs(t, opened.Err, envelope.ErrSignatureInvalid)

	sealed.Signature = "@@not base64@@"
	opened = env.Open(b.Encryption.Private, a.Signing.Public, sealed)
	assert.Equal(t, domain.StatusUntrusted, opened.Status)
	assert.ErrorIs(t, opened.Err, crypto.ErrMalformedEncoding)
}

func TestHybridScheme(t *testing.T) {
	a, b := identities(t)
	env := envelope.New(crypto.NewSystemProvider())

	long := strings.Repeat("lorem ipsum ", 100)
	sealed, err := env.Seal(context.Background(), domain.SchemeHybrid, long, b.Encryption.Public, a.Signing.Private)
	require.NoError(t, err)
	assert.Equal(t, domain.SchemeHybrid, sealed.Scheme)

	opened := env.Open(b.Encryption.Private, a.Signing.Public, sealed)
	assert.Equal(t, domain.StatusVerified, opened.Status)
	assert.Equal(t, long, opened.Plaintext)

	// The tag selects the construction, so a mislabelled message is unreadable.
	sealed.Scheme = domain.SchemeRSAOAEP
	opened = env.Open(b.Encryption.Private, a.Signing.Public, sealed)
	assert.Equal(t, domain.StatusUnreadable, opened.Status)
}

func TestSealFailsWhenEitherHalfFails(t *testing.T) {
	a, b := identities(t)
	env := envelope.New(crypto.NewSystemProvider())

	_, err := env.Seal(context.Background(), domain.SchemeRSAOAEP, strings.Repeat("x", 500), b.Encryption.Public, a.Signing.Private)
	require.ErrorIs(t, err, crypto.ErrMessageTooLong)

	_, err = env.Seal(context.Background(), domain.SchemeRSAOAEP, "x", b.Encryption.Public, domain.SigningPrivateKey{})
	require.ErrorIs(t, err, crypto.ErrSigningKeyInvalid)

	_, err = env.Seal(context.Background(), domain.Scheme("plain"), "x", b.Encryption.Public, a.Signing.Private)
	require.ErrorIs(t, err, crypto.ErrUnsupportedScheme)
}

func TestOpenBatchIsolation(t *testing.T) {
	a, b := identities(t)
	env := envelope.New(crypto.NewSystemProvider())

	var batch []domain.Sealed
	for _, msg := range []string{"one", "two", "three"} {
		s, err := env.Seal(context.Background(), domain.SchemeRSAOAEP, msg, b.Encryption.Public, a.Signing.Private)
		require.NoError(t, err)
		batch = append(batch, s)
	}
	batch[1].Ciphertext = "garbage"

	var statuses []domain.Status
	for _, s := range batch {
		statuses = append(statuses, env.Open(b.Encryption.Private, a.Signing.Public, s).Status)
	}
	assert.Equal(t, []domain.Status{domain.StatusVerified, domain.StatusUnreadable, domain.StatusVerified}, statuses)
}

func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
