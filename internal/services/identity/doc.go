// Package identity manages creation, encryption and loading of the local identity.
//
// It enforces passphrase policy, generates the RSA encryption and signing key
// pairs through a KeyGenerator, and persists them via the domain.IdentityStore.
// The public halves can be exported as tagged PEM armor for registration.
package identity
