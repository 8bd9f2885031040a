// Package chat opens and lists two-party chats on the relay.
//
// A chat is opened by the peer's email: the relay resolves the email to a
// user id and returns the existing chat between the two users or creates
// one. Chats are cached locally so messages can be addressed by chat id.
package chat
