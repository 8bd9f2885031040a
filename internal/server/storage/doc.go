// Package storage persists relay state in SQLite through bun.
//
// Tables: users (email unique, two armored public keys stored verbatim),
// tokens (hashed bearer tokens), chats (one row per unordered member pair)
// and messages (sealed bodies; whole-row delete only, never updated).
package storage
