package crypto

import "github.com/pkg/errors"

var (
	// ErrKeyGeneration is returned when the provider fails or produces keys
	// that do not meet policy.
	ErrKeyGeneration = errors.New("key generation failed")
	// ErrMalformedEncoding is returned for corrupt or truncated armor or
	// base64 input.
	ErrMalformedEncoding = errors.New("malformed encoding")
	// ErrUsageAmbiguity is returned when requested usages are empty, unknown,
	// or mix encryption with signing.
	ErrUsageAmbiguity = errors.New("ambiguous key usage")
	// ErrOperationMismatch is returned when a key is used for an operation
	// its purpose or role does not allow.
	ErrOperationMismatch = errors.New("key does not match operation")
	// ErrUnsupportedKey is returned when a key cannot be serialised into or
	// parsed from the requested container, or is below policy.
	ErrUnsupportedKey = errors.New("unsupported key")
	// ErrRecipientKeyInvalid is returned when encrypting to a missing or
	// unusable public key.
	ErrRecipientKeyInvalid = errors.New("recipient key invalid")
	// ErrSigningKeyInvalid is returned when signing or verifying with a
	// missing or unusable key.
	ErrSigningKeyInvalid = errors.New("signing key invalid")
	// ErrMessageTooLong is returned when a plaintext exceeds what one
	// RSA-OAEP block can carry.
	ErrMessageTooLong = errors.New("message too long for direct encryption")
	// ErrDecryptionFailed is the only error a decryption returns for bad
	// input. Its text is what users see.
	ErrDecryptionFailed = errors.New("message unreadable")
	// ErrUnsupportedScheme is returned for an unknown message scheme tag.
	ErrUnsupportedScheme = errors.New("unsupported message scheme")
)
