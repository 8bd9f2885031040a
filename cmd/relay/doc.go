// Package main runs the sealchat relay: a store-and-forward server that keeps
// accounts, published public keys, two-party chats and sealed messages in
// SQLite.
//
// HTTP API (prefix /api/v1)
//
//	POST   /users/register         Create an account with both public keys
//	POST   /users/login            Exchange credentials for a bearer token
//	GET    /users/search?email=    Look up a user by exact email
//	GET    /users/{id}/keys        Return a user's armored public keys
//	POST   /chats                  Create or fetch the chat with {peer_id}
//	GET    /chats                  List the caller's chats
//	GET    /chats/{id}             Return one chat; members only
//	POST   /chats/{id}/messages    Store a sealed message and broadcast it
//	GET    /chats/{id}/messages    List messages, ?after=<unix nanos>&limit=N
//	GET    /chats/{id}/ws          Websocket stream of new sealed messages
//	DELETE /messages/{id}          Delete a message; sender only
//
// GET /metrics serves Prometheus metrics and GET /healthz a liveness check.
//
// Behaviour
//
//   - Configuration comes from config.yaml and SEALCHAT_* variables; see
//     internal/config. -addr overrides relay.addr.
//   - Responses are JSON. Errors carry {"success":false,"code","message"}.
//   - A structured access log records method, path, remote, status, bytes and
//     duration for each request.
//   - SIGINT or SIGTERM drains connections before exit.
//
// The relay never sees plaintext or private keys; it only stores public keys,
// ciphertext and detached signatures.
package main
