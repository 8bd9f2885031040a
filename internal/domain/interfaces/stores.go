package interfaces

import domaintypes "sealchat/internal/domain/types"

// IdentityStore persists your long-term key pairs. Private halves are kept
// encrypted under a passphrase and never leave the device.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.Identity) error
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
}

// PeerKeyStore caches counterpart public keys fetched from the relay.
// Keys are trusted on first fetch.
type PeerKeyStore interface {
	SavePeerKeys(keys domaintypes.PublicIdentity) error
	LoadPeerKeys(id domaintypes.UserID) (domaintypes.PublicIdentity, bool, error)
}

// ChatStore remembers the chats opened from this device.
type ChatStore interface {
	SaveChat(chat domaintypes.Chat) error
	LoadChat(id domaintypes.ChatID) (domaintypes.Chat, bool, error)
	ListChats() ([]domaintypes.Chat, error)
}
