package types

// Chat is a two-party conversation. Group chats have no defined encryption
// and are not supported.
type Chat struct {
	ID        ChatID   `json:"id"`
	Members   []UserID `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

// Peer returns the member of c that is not me.
func (c Chat) Peer(me UserID) (UserID, bool) {
	for _, m := range c.Members {
		if m != me {
			return m, true
		}
	}
	return "", false
}

// OpenChatRequest asks the relay to create or fetch the chat with a peer.
type OpenChatRequest struct {
	PeerID UserID `json:"peer_id"`
}
