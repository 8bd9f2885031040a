package types

// UserID is the relay-issued stable identifier of a user.
type UserID string

// String returns the string form of the user identifier.
func (id UserID) String() string { return string(id) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// ChatID identifies a two-party conversation on the relay.
type ChatID string

// String returns the string form of the chat identifier.
func (id ChatID) String() string { return string(id) }

// MessageID identifies a single stored SealedMessage.
type MessageID string

// String returns the string form of the message identifier.
func (id MessageID) String() string { return string(id) }
