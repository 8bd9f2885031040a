package chat

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"sealchat/internal/domain"
)

// ErrSelfChat is returned when asked to open a chat with ourselves.
var ErrSelfChat = errors.New("cannot open a chat with yourself")

// Service opens chats through the relay and remembers them locally.
type Service struct {
	accounts domain.AccountService
	chats    domain.ChatStore
	relay    domain.RelayClient
}

// New constructs a chat Service.
func New(accounts domain.AccountService, chats domain.ChatStore, relay domain.RelayClient) *Service {
	return &Service{accounts: accounts, chats: chats, relay: relay}
}

// OpenChat returns the chat with the user registered under peerEmail.
func (s *Service) OpenChat(ctx context.Context, peerEmail string) (domain.Chat, error) {
	me, err := s.accounts.Current()
	if err != nil {
		return domain.Chat{}, err
	}
	if strings.EqualFold(strings.TrimSpace(peerEmail), me.Email) {
		return domain.Chat{}, ErrSelfChat
	}

	peer, err := s.relay.FindUser(ctx, strings.TrimSpace(peerEmail))
	if err != nil {
		return domain.Chat{}, errors.Wrapf(err, "find %s", peerEmail)
	}
	if peer.UserID == me.UserID {
		return domain.Chat{}, ErrSelfChat
	}

	c, err := s.relay.OpenChat(ctx, peer.UserID)
	if err != nil {
		return domain.Chat{}, errors.Wrap(err, "open chat")
	}
	if err := s.chats.SaveChat(c); err != nil {
		return domain.Chat{}, err
	}
	return c, nil
}

// ListChats returns the caller's chats from the relay and refreshes the cache.
func (s *Service) ListChats(ctx context.Context) ([]domain.Chat, error) {
	if _, err := s.accounts.Current(); err != nil {
		return nil, err
	}
	chats, err := s.relay.ListChats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list chats")
	}
	for _, c := range chats {
		if err := s.chats.SaveChat(c); err != nil {
			return nil, err
		}
	}
	return chats, nil
}

// Resolve returns a chat by id, consulting the relay when it is not cached.
func (s *Service) Resolve(ctx context.Context, id domain.ChatID) (domain.Chat, error) {
	c, ok, err := s.chats.LoadChat(id)
	if err != nil {
		return domain.Chat{}, err
	}
	if ok {
		return c, nil
	}
	if _, err := s.accounts.Current(); err != nil {
		return domain.Chat{}, err
	}
	c, err = s.relay.FetchChat(ctx, id)
	if err != nil {
		return domain.Chat{}, errors.Wrapf(err, "fetch chat %s", id)
	}
	if err := s.chats.SaveChat(c); err != nil {
		return domain.Chat{}, err
	}
	return c, nil
}

// Compile-time assertion that Service implements domain.ChatService.
var _ domain.ChatService = (*Service)(nil)
