package interfaces

import (
	"context"

	domaintypes "sealchat/internal/domain/types"
)

// RelayClient is how we talk to the relay server, all with context.
type RelayClient interface {
	Register(ctx context.Context, req domaintypes.RegisterRequest) (domaintypes.Session, error)
	Login(ctx context.Context, req domaintypes.LoginRequest) (domaintypes.Session, error)
	FetchPublicKeys(ctx context.Context, id domaintypes.UserID) (domaintypes.PublicKeys, error)
	FindUser(ctx context.Context, email string) (domaintypes.UserSummary, error)

	OpenChat(ctx context.Context, peer domaintypes.UserID) (domaintypes.Chat, error)
	FetchChat(ctx context.Context, id domaintypes.ChatID) (domaintypes.Chat, error)
	ListChats(ctx context.Context) ([]domaintypes.Chat, error)

	SendMessage(
		ctx context.Context,
		chat domaintypes.ChatID,
		req domaintypes.SendMessageRequest,
	) (domaintypes.SealedMessage, error)
	FetchMessages(
		ctx context.Context,
		chat domaintypes.ChatID,
		after int64,
		limit int,
	) ([]domaintypes.SealedMessage, error)
	DeleteMessage(ctx context.Context, id domaintypes.MessageID) error
	Subscribe(ctx context.Context, chat domaintypes.ChatID) (<-chan domaintypes.SealedMessage, error)
}
