// Package directory resolves the public keys of other users.
//
// Keys are fetched from the relay by user id, validated by importing them
// for their single intended usage, and cached locally. A cached entry is
// trusted as-is; there is no pinning or rotation check.
package directory
