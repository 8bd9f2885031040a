package message

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/protocol/envelope"
)

// ErrNotMember is returned when the current account is not in the chat.
var ErrNotMember = errors.New("not a member of this chat")

// Service sends and receives messages over the relay.
//
// High-level flow:
//   - Send: resolve the chat peer, fetch their encryption key, seal with our
//     signing key and post the result.
//   - Receive: fetch sealed messages, open each with our encryption key and
//     the sender's signing key, and report a per-message status.
type Service struct {
	identity  domain.IdentityService
	accounts  domain.AccountService
	chats     domain.ChatService
	directory domain.DirectoryService
	relay     domain.RelayClient
	envelope  *envelope.Envelope
	scheme    domain.Scheme
	log       *zap.Logger
}

// Options tune how bodies are sealed.
type Options struct {
	// Hybrid seals bodies with a wrapped content key so they may be any length.
	Hybrid bool
}

// New constructs a message Service.
func New(
	identity domain.IdentityService,
	accounts domain.AccountService,
	chats domain.ChatService,
	directory domain.DirectoryService,
	relay domain.RelayClient,
	provider crypto.Provider,
	log *zap.Logger,
	opts Options,
) *Service {
	scheme := domain.SchemeRSAOAEP
	if opts.Hybrid {
		scheme = domain.SchemeHybrid
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		identity:  identity,
		accounts:  accounts,
		chats:     chats,
		directory: directory,
		relay:     relay,
		envelope:  envelope.New(provider),
		scheme:    scheme,
		log:       log.Named("message"),
	}
}

// SendMessage seals plaintext for the other member of chat and posts it.
func (s *Service) SendMessage(
	ctx context.Context,
	passphrase string,
	chat domain.ChatID,
	plaintext string,
) (domain.SealedMessage, error) {
	me, err := s.accounts.Current()
	if err != nil {
		return domain.SealedMessage{}, err
	}
	peer, err := s.peer(ctx, chat, me.UserID)
	if err != nil {
		return domain.SealedMessage{}, err
	}
	id, err := s.identity.LoadIdentity(passphrase)
	if err != nil {
		return domain.SealedMessage{}, err
	}
	encKey, _, err := s.directory.PeerKeys(ctx, peer)
	if err != nil {
		return domain.SealedMessage{}, err
	}

	sealed, err := s.envelope.Seal(ctx, s.scheme, plaintext, encKey, id.Signing.Private)
	if err != nil {
		return domain.SealedMessage{}, errors.Wrap(err, "seal message")
	}

	msg, err := s.relay.SendMessage(ctx, chat, domain.SendMessageRequest{
		SenderID:   me.UserID,
		Scheme:     sealed.Scheme,
		Ciphertext: sealed.Ciphertext,
		Signature:  sealed.Signature,
	})
	if err != nil {
		return domain.SealedMessage{}, errors.Wrap(err, "send message")
	}
	return msg, nil
}

// ReceiveMessages fetches and opens messages of chat created after the given
// timestamp. Individual failures are reported by status, never as an error.
func (s *Service) ReceiveMessages(
	ctx context.Context,
	passphrase string,
	chat domain.ChatID,
	after int64,
	limit int,
) ([]domain.ReceivedMessage, error) {
	me, err := s.accounts.Current()
	if err != nil {
		return nil, err
	}
	id, err := s.identity.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	msgs, err := s.relay.FetchMessages(ctx, chat, after, limit)
	if err != nil {
		return nil, errors.Wrap(err, "fetch messages")
	}

	out := make([]domain.ReceivedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, s.open(ctx, me.UserID, id, m))
	}
	return out, nil
}

// Watch streams newly posted messages of chat, opened as they arrive.
func (s *Service) Watch(
	ctx context.Context,
	passphrase string,
	chat domain.ChatID,
) (<-chan domain.ReceivedMessage, error) {
	me, err := s.accounts.Current()
	if err != nil {
		return nil, err
	}
	id, err := s.identity.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	in, err := s.relay.Subscribe(ctx, chat)
	if err != nil {
		return nil, err
	}

	out := make(chan domain.ReceivedMessage)
	go func() {
		defer close(out)
		for m := range in {
			rm := s.open(ctx, me.UserID, id, m)
			select {
			case out <- rm:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// DeleteMessage removes a message we sent.
func (s *Service) DeleteMessage(ctx context.Context, id domain.MessageID) error {
	if _, err := s.accounts.Current(); err != nil {
		return err
	}
	return s.relay.DeleteMessage(ctx, id)
}

func (s *Service) open(
	ctx context.Context,
	me domain.UserID,
	id domain.Identity,
	m domain.SealedMessage,
) domain.ReceivedMessage {
	rm := domain.ReceivedMessage{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		CreatedAt: m.CreatedAt,
	}
	// Our own messages are encrypted to the peer's key.
	if m.SenderID == me {
		rm.Status = domain.StatusOutgoing
		return rm
	}

	_, sigKey, err := s.directory.PeerKeys(ctx, m.SenderID)
	if err != nil {
		s.log.Warn("sender keys unavailable",
			zap.String("message_id", m.ID.String()),
			zap.String("sender_id", m.SenderID.String()),
			zap.Error(err))
		rm.Status = domain.StatusSenderUnknown
		return rm
	}

	opened := s.envelope.Open(id.Encryption.Private, sigKey, domain.Sealed{
		Scheme:     m.Scheme,
		Ciphertext: m.Ciphertext,
		Signature:  m.Signature,
	})
	rm.Plaintext = opened.Plaintext
	rm.Status = opened.Status
	if opened.Status != domain.StatusVerified {
		s.log.Warn("message not verified",
			zap.String("message_id", m.ID.String()),
			zap.String("sender_id", m.SenderID.String()),
			zap.String("status", string(opened.Status)),
			zap.Error(opened.Err))
	}
	return rm
}

func (s *Service) peer(ctx context.Context, id domain.ChatID, me domain.UserID) (domain.UserID, error) {
	c, err := s.chats.Resolve(ctx, id)
	if err != nil {
		return "", err
	}
	member := false
	for _, m := range c.Members {
		member = member || m == me
	}
	if !member {
		return "", ErrNotMember
	}
	peer, ok := c.Peer(me)
	if !ok {
		return "", errors.Errorf("chat %s has no peer", id)
	}
	return peer, nil
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
