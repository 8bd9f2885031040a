// Package message seals, sends, fetches and opens chat messages.
//
// Sending loads the local identity, resolves the peer's encryption key,
// seals the plaintext (encrypt and sign) and posts the ciphertext and
// signature to the relay.
//
// Receiving fetches sealed messages for a chat and opens each one on its
// own. A message that cannot be decrypted or whose signature does not match
// is returned with a status instead of failing the batch, and the cause is
// logged at warn level without plaintext or key material.
package message
