package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

func TestSignVerify(t *testing.T) {
	a, b := identities(t)
	s := crypto.NewSigner(crypto.NewSystemProvider())

	sig, err := s.Sign(a.Signing.Private, "hello")
	require.NoError(t, err)

	ok, err := s.Verify(a.Signing.Public, sig, "hello")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(a.Signing.Public, sig, "hello!")
	require.NoError(t, err)
	assert.False(t, ok, "different plaintext")

	ok, err = s.Verify(b.Signing.Public, sig, "hello")
	require.NoError(t, err)
	assert.False(t, ok, "different signer")
}

func TestVerifyTamperedSignature(t *testing.T) {
	a, _ := identities(t)
	s := crypto.NewSigner(crypto.NewSystemProvider())

	sig, err := s.Sign(a.Signing.Private, "hello")
	require.NoError(t, err)
	raw, err := crypto.UnB64(sig)
	require.NoError(t, err)

	for _, i := range []int{0, len(raw) / 2, len(raw) - 1} {
		tampered := append([]byte(nil), raw...)
		tampered[i] ^= 0x01
		ok, err := s.Verify(a.Signing.Public, crypto.B64(tampered), "hello")
		require.NoError(t, err)
		assert.False(t, ok, "byte %d flipped", i)
	}

	ok, err := s.Verify(a.Signing.Public, crypto.B64(raw[:10]), "hello")
	require.NoError(t, err)
	assert.False(t, ok, "short signature")
}

func TestVerifyMalformedSignature(t *testing.T) {
	a, _ := identities(t)
	s := crypto.NewSigner(crypto.NewSystemProvider())

	_, err := s.Verify(a.Signing.Public, "not*base64", "hello")
	require.ErrorIs(t, err, crypto.ErrMalformedEncoding)
}

func TestSignerUsageIsolation(t *testing.T) {
	a, _ := identities(t)
	s := crypto.NewSigner(crypto.NewSystemProvider())

	_, err := s.Sign(a.Encryption.Private, "hello")
	assert.ErrorIs(t, err, crypto.ErrOperationMismatch)

	_, err = s.Verify(a.Encryption.Public, "AAAA", "hello")
	assert.ErrorIs(t, err, crypto.ErrOperationMismatch)

	_, err = s.Sign(nil, "hello")
	assert.ErrorIs(t, err, crypto.ErrSigningKeyInvalid)

	_, err = s.Sign(domain.SigningPrivateKey{}, "hello")
	assert.ErrorIs(t, err, crypto.ErrSigningKeyInvalid)
}

func TestSignatureDeterministic(t *testing.T) {
	a, _ := identities(t)
	s := crypto.NewSigner(crypto.NewSystemProvider())

	one, err := s.Sign(a.Signing.Private, "same")
	require.NoError(t, err)
	two, err := s.Sign(a.Signing.Private, "same")
	require.NoError(t, err)
	assert.Equal(t, one, two, "PKCS#1 v1.5 signatures are deterministic")
}
