package types

// Scheme names the confidentiality construction used for a message body.
type Scheme string

const (
	// SchemeRSAOAEP encrypts the body directly with RSA-OAEP/SHA-256.
	SchemeRSAOAEP Scheme = "rsa-oaep-sha256"
	// SchemeHybrid wraps a per-message content key with RSA-OAEP/SHA-256 and
	// seals the body with XChaCha20-Poly1305.
	SchemeHybrid Scheme = "rsa-oaep-sha256+xchacha20poly1305"
)

// Sealed is the output of sealing one composed plaintext: the ciphertext and
// a detached signature over the original plaintext.
type Sealed struct {
	Scheme     Scheme `json:"scheme"`
	Ciphertext string `json:"ciphertext"`
	Signature  string `json:"signature"`
}

// SealedMessage is the unit stored and relayed per chat message. It is
// immutable once created; only whole-record deletion is allowed.
type SealedMessage struct {
	ID         MessageID `json:"id"`
	ChatID     ChatID    `json:"chat_id"`
	SenderID   UserID    `json:"sender_id"`
	Scheme     Scheme    `json:"scheme"`
	Ciphertext string    `json:"ciphertext"`
	Signature  string    `json:"signature"`
	CreatedAt  int64     `json:"created_at"`
}

// SendMessageRequest is posted to the relay for a chat.
type SendMessageRequest struct {
	SenderID   UserID `json:"sender_id"`
	Scheme     Scheme `json:"scheme"`
	Ciphertext string `json:"ciphertext"`
	Signature  string `json:"signature"`
}

// Status is the client-observed outcome of opening a received message.
type Status string

const (
	// StatusVerified means the body decrypted and the signature matched.
	StatusVerified Status = "verified"
	// StatusUntrusted means the body decrypted but the signature did not
	// match the claimed sender. The plaintext is shown flagged.
	StatusUntrusted Status = "untrusted"
	// StatusUnreadable means decryption failed.
	StatusUnreadable Status = "unreadable"
	// StatusOutgoing marks messages we sent; they are encrypted for the peer.
	StatusOutgoing Status = "outgoing"
	// StatusSenderUnknown means the sender's public keys could not be loaded.
	StatusSenderUnknown Status = "sender-unknown"
)

// ReceivedMessage is what MessageService.ReceiveMessages returns.
type ReceivedMessage struct {
	ID        MessageID `json:"id"`
	ChatID    ChatID    `json:"chat_id"`
	SenderID  UserID    `json:"sender_id"`
	Plaintext string    `json:"plaintext,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt int64     `json:"created_at"`
}
