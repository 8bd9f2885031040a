package interfaces

import (
	"context"

	domaintypes "sealchat/internal/domain/types"
)

// IdentityService creates, retrieves, and inspects your identity keys.
type IdentityService interface {
	GenerateIdentity(ctx context.Context, passphrase string) (
		domaintypes.Identity,
		domaintypes.Fingerprint,
		error,
	)
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
	FingerprintIdentity(passphrase string) (
		encryption domaintypes.Fingerprint,
		signing domaintypes.Fingerprint,
		err error,
	)
	ExportPublicIdentity(passphrase string) (domaintypes.PublicIdentity, error)
}

// AccountService registers and logs in against the relay.
type AccountService interface {
	Register(ctx context.Context, passphrase, email, name, password string) (domaintypes.AccountProfile, error)
	Login(ctx context.Context, email, password string) (domaintypes.AccountProfile, error)
	Current() (domaintypes.AccountProfile, error)
}

// DirectoryService resolves counterpart public keys by user id.
type DirectoryService interface {
	PeerKeys(ctx context.Context, id domaintypes.UserID) (
		domaintypes.EncryptionPublicKey,
		domaintypes.SigningPublicKey,
		error,
	)
}

// ChatService opens and lists two-party chats.
type ChatService interface {
	OpenChat(ctx context.Context, peerEmail string) (domaintypes.Chat, error)
	ListChats(ctx context.Context) ([]domaintypes.Chat, error)
	Resolve(ctx context.Context, id domaintypes.ChatID) (domaintypes.Chat, error)
}

// MessageService seals, sends, fetches and opens messages.
type MessageService interface {
	SendMessage(
		ctx context.Context,
		passphrase string,
		chat domaintypes.ChatID,
		plaintext string,
	) (domaintypes.SealedMessage, error)
	ReceiveMessages(
		ctx context.Context,
		passphrase string,
		chat domaintypes.ChatID,
		after int64,
		limit int,
	) ([]domaintypes.ReceivedMessage, error)
	Watch(
		ctx context.Context,
		passphrase string,
		chat domaintypes.ChatID,
	) (<-chan domaintypes.ReceivedMessage, error)
	DeleteMessage(ctx context.Context, id domaintypes.MessageID) error
}
