package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

func TestHybridRoundTripLongBody(t *testing.T) {
	_, b := identities(t)
	h := crypto.NewHybridCipher(crypto.NewSystemProvider())

	long := strings.Repeat("a long message body ", 500)
	ct, err := h.Encrypt(b.Encryption.Public, long)
	require.NoError(t, err)

	pt, err := h.Decrypt(b.Encryption.Private, ct)
	require.NoError(t, err)
	assert.Equal(t, long, pt)
}

func TestHybridFailures(t *testing.T) {
	a, b := identities(t)
	h := crypto.NewHybridCipher(crypto.NewSystemProvider())

	ct, err := h.Encrypt(b.Encryption.Public, "hello")
	require.NoError(t, err)

	raw := []byte(ct)
	last := len(raw) - 4
	if raw[last] == 'A' {
		raw[last] = 'B'
	} else {
		raw[last] = 'A'
	}

	direct, err := crypto.NewCipher(crypto.NewSystemProvider()).Encrypt(b.Encryption.Public, "hello")
	require.NoError(t, err)

	cases := []struct {
		name string
		ct   string
		key  domain.EncryptionPrivateKey
	}{
		{"wrong key", ct, a.Encryption.Private},
		{"body tampered", string(raw), b.Encryption.Private},
		{"truncated", ct[:100], b.Encryption.Private},
		{"direct ciphertext", direct, b.Encryption.Private},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Decrypt(tc.key, tc.ct)
			require.Equal(t, crypto.ErrDecryptionFailed, err)
		})
	}

	_, err = h.Encrypt(a.Signing.Public, "x")
	assert.ErrorIs(t, err, crypto.ErrOperationMismatch)
}
