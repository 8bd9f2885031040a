// Package crypto implements the end-to-end messaging primitives used by sealchat.
//
// Contents
//
//   - Provider, the injected source of randomness and RSA key generation
//   - KeyFactory, which generates the two independent key pairs of an identity
//     (RSA-OAEP/SHA-256 for confidentiality, RSASSA-PKCS1-v1_5/SHA-256 for
//     authenticity)
//   - Codec, which converts keys to and from PEM armor (SPKI / PKCS#8)
//   - Cipher and HybridCipher, which encrypt message bodies for one recipient
//   - Signer, which produces and checks detached signatures over plaintext
//   - Short public-key fingerprints for display (Fingerprint)
//
// # Errors
//
// Every failure matches one of the sentinel errors in errors.go via errors.Is.
// Decryption failures are always the single ErrDecryptionFailed value so that
// callers cannot tell a padding failure from truncation or a wrong key.
//
// # Notes
//
// Keys are read-only after generation or import and every operation is pure
// given its arguments, so all functions are safe for concurrent use.
package crypto
