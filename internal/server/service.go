package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sealchat/internal/apperror"
	"sealchat/internal/domain"
	"sealchat/internal/server/storage"
)

// Relay implements the relay's use cases on top of storage. It treats every
// key, ciphertext and signature as opaque text.
type Relay struct {
	// postMu keeps broadcast order equal to created_at order.
	postMu sync.Mutex

	store    *storage.Store
	hub      *Hub
	metrics  *Metrics
	log      *zap.Logger
	maxBytes int
	cost     int
}

// Options tune a Relay.
type Options struct {
	// MaxMessageBytes caps ciphertext plus signature length.
	MaxMessageBytes int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func NewRelay(store *storage.Store, hub *Hub, metrics *Metrics, log *zap.Logger, opts Options) *Relay {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Relay{
		store:    store,
		hub:      hub,
		metrics:  metrics,
		log:      log,
		maxBytes: opts.MaxMessageBytes,
		cost:     cost,
	}
}

func (r *Relay) Register(ctx context.Context, req domain.RegisterRequest) (domain.Session, error) {
	email, name, err := validateRegistration(req.Email, req.Name, req.Password)
	if err != nil {
		return domain.Session{}, err
	}
	if !looksLikePublicKey(req.EncryptionPublicKey) || !looksLikePublicKey(req.SigningPublicKey) {
		return domain.Session{}, apperror.ErrInvalidPublicKey
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), r.cost)
	if err != nil {
		return domain.Session{}, apperror.Internal(err)
	}
	u := &storage.User{
		Email:               email,
		Name:                name,
		PasswordHash:        hash,
		EncryptionPublicKey: req.EncryptionPublicKey,
		SigningPublicKey:    req.SigningPublicKey,
	}
	if err := r.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return domain.Session{}, apperror.ErrEmailTaken
		}
		return domain.Session{}, apperror.Internal(err)
	}
	r.metrics.Registrations.Inc()
	r.log.Info("user registered", zap.String("user_id", u.ID))
	return r.issueToken(ctx, u.ID)
}

func (r *Relay) Login(ctx context.Context, req domain.LoginRequest) (domain.Session, error) {
	email, err := normaliseEmail(req.Email)
	if err != nil || req.Password == "" {
		return domain.Session{}, apperror.ErrInvalidCredentials
	}
	u, err := r.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Session{}, apperror.ErrInvalidCredentials
		}
		return domain.Session{}, apperror.Internal(err)
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		return domain.Session{}, apperror.ErrInvalidCredentials
	}
	return r.issueToken(ctx, u.ID)
}

// Authenticate resolves a bearer token to its user.
func (r *Relay) Authenticate(ctx context.Context, token string) (domain.UserID, error) {
	if token == "" {
		return "", apperror.ErrMissingToken
	}
	id, err := r.store.UserIDByToken(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperror.ErrMissingToken
		}
		return "", apperror.Internal(err)
	}
	return domain.UserID(id), nil
}

func (r *Relay) PublicKeys(ctx context.Context, id domain.UserID) (domain.PublicKeys, error) {
	u, err := r.user(ctx, id)
	if err != nil {
		return domain.PublicKeys{}, err
	}
	return domain.PublicKeys{
		UserID:              domain.UserID(u.ID),
		EncryptionPublicKey: u.EncryptionPublicKey,
		SigningPublicKey:    u.SigningPublicKey,
	}, nil
}

func (r *Relay) FindUser(ctx context.Context, email string) (domain.UserSummary, error) {
	email, err := normaliseEmail(email)
	if err != nil {
		return domain.UserSummary{}, err
	}
	u, err := r.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.UserSummary{}, apperror.ErrUserNotFound
		}
		return domain.UserSummary{}, apperror.Internal(err)
	}
	return domain.UserSummary{UserID: domain.UserID(u.ID), Name: u.Name, Email: u.Email}, nil
}

func (r *Relay) OpenChat(ctx context.Context, me, peer domain.UserID) (domain.Chat, error) {
	if peer == "" || peer == me {
		return domain.Chat{}, apperror.ErrSelfChat
	}
	if _, err := r.user(ctx, peer); err != nil {
		return domain.Chat{}, err
	}
	c, err := r.store.ChatBetween(ctx, me.String(), peer.String())
	if err != nil {
		return domain.Chat{}, apperror.Internal(err)
	}
	return toChat(*c), nil
}

func (r *Relay) ListChats(ctx context.Context, me domain.UserID) ([]domain.Chat, error) {
	rows, err := r.store.ChatsOf(ctx, me.String())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := make([]domain.Chat, 0, len(rows))
	for _, c := range rows {
		out = append(out, toChat(c))
	}
	return out, nil
}

// Member returns the chat if me belongs to it.
func (r *Relay) Member(ctx context.Context, me domain.UserID, id domain.ChatID) (domain.Chat, error) {
	c, err := r.store.ChatByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Chat{}, apperror.ErrChatNotFound
		}
		return domain.Chat{}, apperror.Internal(err)
	}
	if c.MemberA != me.String() && c.MemberB != me.String() {
		return domain.Chat{}, apperror.ErrNotChatMember
	}
	return toChat(*c), nil
}

func (r *Relay) PostMessage(
	ctx context.Context,
	me domain.UserID,
	chat domain.ChatID,
	req domain.SendMessageRequest,
) (domain.SealedMessage, error) {
	if _, err := r.Member(ctx, me, chat); err != nil {
		return domain.SealedMessage{}, err
	}
	if req.SenderID != "" && req.SenderID != me {
		return domain.SealedMessage{}, apperror.ErrSenderMismatch
	}
	if strings.TrimSpace(req.Ciphertext) == "" || strings.TrimSpace(req.Signature) == "" {
		return domain.SealedMessage{}, apperror.ErrEmptyMessage
	}
	scheme := req.Scheme
	switch scheme {
	case "":
		scheme = domain.SchemeRSAOAEP
	case domain.SchemeRSAOAEP, domain.SchemeHybrid:
	default:
		return domain.SealedMessage{}, apperror.ErrUnknownScheme
	}
	if r.maxBytes > 0 && len(req.Ciphertext)+len(req.Signature) > r.maxBytes {
		return domain.SealedMessage{}, apperror.ErrMessageTooLarge
	}

	m := &storage.Message{
		ChatID:     chat.String(),
		SenderID:   me.String(),
		Scheme:     string(scheme),
		Ciphertext: req.Ciphertext,
		Signature:  req.Signature,
	}
	r.postMu.Lock()
	defer r.postMu.Unlock()
	if err := r.store.CreateMessage(ctx, m); err != nil {
		return domain.SealedMessage{}, apperror.Internal(err)
	}
	out := toSealed(*m)
	r.metrics.MessagesStored.Inc()
	r.hub.Broadcast(out)
	return out, nil
}

func (r *Relay) Messages(
	ctx context.Context,
	me domain.UserID,
	chat domain.ChatID,
	after int64,
	limit int,
) ([]domain.SealedMessage, error) {
	if _, err := r.Member(ctx, me, chat); err != nil {
		return nil, err
	}
	rows, err := r.store.MessagesAfter(ctx, chat.String(), after, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := make([]domain.SealedMessage, 0, len(rows))
	for _, m := range rows {
		out = append(out, toSealed(m))
	}
	return out, nil
}

// DeleteMessage removes a whole message record. Only its sender may do so.
func (r *Relay) DeleteMessage(ctx context.Context, me domain.UserID, id domain.MessageID) error {
	m, err := r.store.MessageByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperror.ErrMessageNotFound
		}
		return apperror.Internal(err)
	}
	if m.SenderID != me.String() {
		return apperror.ErrNotMessageSender
	}
	if err := r.store.DeleteMessage(ctx, m.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperror.ErrMessageNotFound
		}
		return apperror.Internal(err)
	}
	r.metrics.MessagesDeleted.Inc()
	return nil
}

func (r *Relay) user(ctx context.Context, id domain.UserID) (*storage.User, error) {
	u, err := r.store.UserByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Internal(err)
	}
	return u, nil
}

func (r *Relay) issueToken(ctx context.Context, userID string) (domain.Session, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return domain.Session{}, apperror.Internal(err)
	}
	token := hex.EncodeToString(raw[:])
	if err := r.store.CreateToken(ctx, hashToken(token), userID); err != nil {
		return domain.Session{}, apperror.Internal(err)
	}
	return domain.Session{UserID: domain.UserID(userID), Token: token}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func toChat(c storage.Chat) domain.Chat {
	return domain.Chat{
		ID:        domain.ChatID(c.ID),
		Members:   []domain.UserID{domain.UserID(c.MemberA), domain.UserID(c.MemberB)},
		CreatedAt: c.CreatedAt,
	}
}

func toSealed(m storage.Message) domain.SealedMessage {
	return domain.SealedMessage{
		ID:         domain.MessageID(m.ID),
		ChatID:     domain.ChatID(m.ChatID),
		SenderID:   domain.UserID(m.SenderID),
		Scheme:     domain.Scheme(m.Scheme),
		Ciphertext: m.Ciphertext,
		Signature:  m.Signature,
		CreatedAt:  m.CreatedAt,
	}
}
