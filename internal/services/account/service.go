package account

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"sealchat/internal/domain"
)

// ErrNotLoggedIn is returned when no profile is stored for the relay.
var ErrNotLoggedIn = errors.New("not logged in; run register or login first")

type tokenSetter interface {
	SetToken(token string)
}

// Service manages the account on one relay.
type Service struct {
	serverURL string
	identity  domain.IdentityService
	accounts  domain.AccountStore
	relay     domain.RelayClient
}

// New constructs an account Service for the relay at serverURL.
func New(
	serverURL string,
	identity domain.IdentityService,
	accounts domain.AccountStore,
	relay domain.RelayClient,
) *Service {
	return &Service{
		serverURL: strings.TrimRight(serverURL, "/"),
		identity:  identity,
		accounts:  accounts,
		relay:     relay,
	}
}

// Register publishes our public keys and creates an account.
func (s *Service) Register(
	ctx context.Context,
	passphrase, email, name, password string,
) (domain.AccountProfile, error) {
	pub, err := s.identity.ExportPublicIdentity(passphrase)
	if err != nil {
		return domain.AccountProfile{}, err
	}
	sess, err := s.relay.Register(ctx, domain.RegisterRequest{
		Email:               strings.TrimSpace(email),
		Name:                strings.TrimSpace(name),
		Password:            password,
		EncryptionPublicKey: pub.EncryptionKey.Armor,
		SigningPublicKey:    pub.SigningKey.Armor,
	})
	if err != nil {
		return domain.AccountProfile{}, errors.Wrap(err, "register")
	}
	return s.save(sess, email, name)
}

// Login obtains a new session token for an existing account.
func (s *Service) Login(ctx context.Context, email, password string) (domain.AccountProfile, error) {
	sess, err := s.relay.Login(ctx, domain.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return domain.AccountProfile{}, errors.Wrap(err, "login")
	}
	name := ""
	if prev, ok, _ := s.accounts.LoadAccountProfile(s.serverURL); ok && prev.UserID == sess.UserID {
		name = prev.Name
	}
	return s.save(sess, email, name)
}

// Current returns the stored profile and primes the relay client with its token.
func (s *Service) Current() (domain.AccountProfile, error) {
	p, ok, err := s.accounts.LoadAccountProfile(s.serverURL)
	if err != nil {
		return domain.AccountProfile{}, err
	}
	if !ok || p.Token == "" {
		return domain.AccountProfile{}, ErrNotLoggedIn
	}
	s.useToken(p.Token)
	return p, nil
}

func (s *Service) save(sess domain.Session, email, name string) (domain.AccountProfile, error) {
	p := domain.AccountProfile{
		ServerURL: s.serverURL,
		UserID:    sess.UserID,
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		Token:     sess.Token,
	}
	if err := s.accounts.SaveAccountProfile(p); err != nil {
		return domain.AccountProfile{}, errors.Wrap(err, "save account profile")
	}
	s.useToken(p.Token)
	return p, nil
}

func (s *Service) useToken(token string) {
	if ts, ok := s.relay.(tokenSetter); ok {
		ts.SetToken(token)
	}
}

// Compile-time assertion that Service implements domain.AccountService.
var _ domain.AccountService = (*Service)(nil)
