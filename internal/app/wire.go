package app

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/relay"
	accountsvc "sealchat/internal/services/account"
	chatsvc "sealchat/internal/services/chat"
	directorysvc "sealchat/internal/services/directory"
	identitysvc "sealchat/internal/services/identity"
	messagesvc "sealchat/internal/services/message"
	"sealchat/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	IdentityStore *store.IdentityFileStore
	Identity      domain.IdentityService
	Accounts      domain.AccountService
	Directory     domain.DirectoryService
	Chats         domain.ChatService
	Messages      domain.MessageService
	Relay         *relay.HTTP
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if cfg.Home == "" {
		return nil, errors.New("home directory is required")
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, errors.Wrap(err, "create home")
	}
	provider := cfg.Provider
	if provider == nil {
		provider = crypto.NewSystemProvider()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// File-based stores
	identityStore := store.NewIdentityFileStore(cfg.Home)
	accountStore := store.NewAccountFileStore(cfg.Home)
	peerStore := store.NewPeerKeyFileStore(cfg.Home)
	chatStore := store.NewChatFileStore(cfg.Home)

	rc := relay.NewHTTP(cfg.RelayURL, cfg.Timeout)
	if cfg.HTTP != nil {
		rc.HTTP = cfg.HTTP
	}

	// High-level services
	identity := identitysvc.New(identityStore, crypto.NewKeyFactory(provider))
	accounts := accountsvc.New(cfg.RelayURL, identity, accountStore, rc)
	directory := directorysvc.New(peerStore, rc)
	chats := chatsvc.New(accounts, chatStore, rc)
	messages := messagesvc.New(identity, accounts, chats, directory, rc, provider, log,
		messagesvc.Options{Hybrid: cfg.HybridBodies})

	return &Wire{
		IdentityStore: identityStore,
		Identity:      identity,
		Accounts:      accounts,
		Directory:     directory,
		Chats:         chats,
		Messages:      messages,
		Relay:         rc,
	}, nil
}
