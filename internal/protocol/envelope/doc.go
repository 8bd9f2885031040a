// Package envelope seals and opens individual chat messages.
//
// # Overview
//
// A message moves through these states:
//
//	Composed -> Sealed(ciphertext, signature) -> Transmitted -> Received
//	         -> Decrypted -> Verified(true|false)
//
// Seal encrypts the plaintext for the recipient and signs the same plaintext
// with the sender's signing key. The two operations run concurrently over one
// immutable string and both must succeed.
//
// Open decrypts first and then checks the signature against the decrypted
// bytes. The outcome is a Status, never a panic:
//   - verified: decrypted and the signature matched
//   - untrusted: decrypted but the signature was false or undecodable; the
//     plaintext is still returned so it can be shown flagged
//   - unreadable: decryption failed; no plaintext
//
// # Errors
//
// Seal returns the crypto package sentinels. Open never returns an error;
// the cause of a non-verified outcome is kept on Opened.Err for logging.
package envelope
