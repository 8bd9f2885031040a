// Package relay provides an HTTP implementation of the domain.RelayClient
// interface used by sealchat.
//
// The relay stores and forwards sealed messages between the two members of a
// chat and publishes each user's armored public keys. It never sees
// plaintext or private keys.
//
// Supported operations include:
//   - Registering and logging in (bearer token issued by the relay).
//   - Fetching a user's public keys and looking users up by email.
//   - Opening and listing two-party chats.
//   - Posting, listing and deleting sealed messages.
//   - Subscribing to new messages of a chat over a websocket.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as *StatusError carrying the
// method, full URL, status code and the relay's message.
package relay
