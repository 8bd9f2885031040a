package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
)

// Provider is the cryptographic capability handed to the factory, ciphers
// and signer.
type Provider interface {
	// Random returns the randomness source for padding and key material.
	Random() io.Reader
	// GenerateRSAKey returns a fresh RSA key with the given modulus size.
	GenerateRSAKey(bits int) (*rsa.PrivateKey, error)
}

// SystemProvider uses the operating system CSPRNG.
type SystemProvider struct{}

// NewSystemProvider returns the production provider.
func NewSystemProvider() SystemProvider { return SystemProvider{} }

// Random returns crypto/rand.Reader.
func (SystemProvider) Random() io.Reader { return rand.Reader }

// GenerateRSAKey generates an RSA key with e = 65537.
func (SystemProvider) GenerateRSAKey(bits int) (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, bits)
}

var _ Provider = SystemProvider{}
