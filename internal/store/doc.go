// Package store provides file-based persistence for the sealchat client.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk with atomic temp-file writes. All methods
// are concurrency-safe via internal locking. Files live under the user's
// configured home directory with mode 0600.
//
// The package includes stores for:
//   - Identity keys (IdentityFileStore), encrypted under a passphrase with
//     scrypt and ChaCha20-Poly1305
//   - Account profiles per relay (AccountFileStore)
//   - Cached counterpart public keys (PeerKeyFileStore)
//   - Opened chats (ChatFileStore)
package store
