// Package server implements the sealchat relay: account registration and
// login, public key lookup, two-party chats, and store-and-forward of sealed
// messages over JSON/HTTP and websockets.
//
// The relay never sees plaintext or private keys. Public keys, ciphertexts
// and signatures are stored verbatim and handed back unchanged; only a
// message's sender may delete it.
//
// Errors are answered as {"success":false,"code":...,"message":...} with the
// HTTP status of the AppError code. Every request is access-logged through
// zap and counted in Prometheus metrics served at /metrics.
package server
