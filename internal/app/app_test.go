package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sealchat/internal/app"
	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/relay"
	"sealchat/internal/server"
	"sealchat/internal/server/storage"
	accountsvc "sealchat/internal/services/account"
	chatsvc "sealchat/internal/services/chat"
	"sealchat/internal/store"
)

const (
	passphrase = "Correct-Horse-9"
	password   = "Passw0rd!"
)

func startRelay(t *testing.T) string {
	t.Helper()
	st, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	log := zap.NewNop()
	metrics := server.NewMetrics()
	hub := server.NewHub(metrics, log)
	rel := server.NewRelay(st, hub, metrics, log, server.Options{
		MaxMessageBytes: 64 * 1024,
		BcryptCost:      bcrypt.MinCost,
	})
	srv := httptest.NewServer(server.New(rel, hub, metrics, log).Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		_ = st.Close()
	})
	return srv.URL
}

func wire(t *testing.T, relayURL, home string, hybrid bool) *app.Wire {
	t.Helper()
	w, err := app.NewWire(app.Config{
		Home:         home,
		RelayURL:     relayURL,
		Timeout:      10 * time.Second,
		HybridBodies: hybrid,
	})
	require.NoError(t, err)
	return w
}

func signUp(t *testing.T, w *app.Wire, email, name string) domain.AccountProfile {
	t.Helper()
	ctx := context.Background()
	_, fp, err := w.Identity.GenerateIdentity(ctx, passphrase)
	require.NoError(t, err)
	assert.Len(t, fp.String(), 20)
	p, err := w.Accounts.Register(ctx, passphrase, email, name, password)
	require.NoError(t, err)
	return p
}

func statuses(msgs []domain.ReceivedMessage) []domain.Status {
	out := make([]domain.Status, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Status)
	}
	return out
}

func TestAliceAndBob(t *testing.T) {
	ctx := context.Background()
	url := startRelay(t)
	aliceHome, bobHome := t.TempDir(), t.TempDir()
	alice := wire(t, url, aliceHome, false)
	bob := wire(t, url, bobHome, false)

	a := signUp(t, alice, "alice@example.com", "Alice")
	b := signUp(t, bob, "bob@example.com", "Bob")

	chat, err := alice.Chats.OpenChat(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.UserID{a.UserID, b.UserID}, chat.Members)

	_, err = alice.Chats.OpenChat(ctx, "alice@example.com")
	assert.ErrorIs(t, err, chatsvc.ErrSelfChat)

	sent, err := alice.Messages.SendMessage(ctx, passphrase, chat.ID, "Hello Bob")
	require.NoError(t, err)
	assert.Equal(t, a.UserID, sent.SenderID)
	assert.Equal(t, domain.SchemeRSAOAEP, sent.Scheme)
	assert.NotContains(t, sent.Ciphertext, "Hello")

	got, err := bob.Messages.ReceiveMessages(ctx, passphrase, chat.ID, 0, 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusVerified, got[0].Status)
	assert.Equal(t, "Hello Bob", got[0].Plaintext)
	assert.Equal(t, a.UserID, got[0].SenderID)

	mine, err := alice.Messages.ReceiveMessages(ctx, passphrase, chat.ID, 0, 50)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.StatusOutgoing, mine[0].Status)
	assert.Empty(t, mine[0].Plaintext)

	_, err = alice.Messages.SendMessage(ctx, passphrase, chat.ID, strings.Repeat("x", 191))
	assert.ErrorIs(t, err, crypto.ErrMessageTooLong)

	// Bob opened nothing himself but can resolve the chat through the relay.
	chats, err := bob.Chats.ListChats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, chat.ID, chats[0].ID)

	err = bob.Messages.DeleteMessage(ctx, sent.ID)
	var se *relay.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Status)
	require.NoError(t, alice.Messages.DeleteMessage(ctx, sent.ID))

	got, err = bob.Messages.ReceiveMessages(ctx, passphrase, chat.ID, 0, 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHybridBodies(t *testing.T) {
	ctx := context.Background()
	url := startRelay(t)
	aliceHome := t.TempDir()
	alice := wire(t, url, aliceHome, false)
	bob := wire(t, url, t.TempDir(), false)
	signUp(t, alice, "alice@example.com", "Alice")
	signUp(t, bob, "bob@example.com", "Bob")

	chat, err := alice.Chats.OpenChat(ctx, "bob@example.com")
	require.NoError(t, err)

	long := strings.Repeat("a long letter ", 200)
	hybrid := wire(t, url, aliceHome, true)
	sent, err := hybrid.Messages.SendMessage(ctx, passphrase, chat.ID, long)
	require.NoError(t, err)
	assert.Equal(t, domain.SchemeHybrid, sent.Scheme)

	got, err := bob.Messages.ReceiveMessages(ctx, passphrase, chat.ID, 0, 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusVerified, got[0].Status)
	assert.Equal(t, long, got[0].Plaintext)
}

func TestReceiveReportsPerMessageStatus(t *testing.T) {
	ctx := context.Background()
	url := startRelay(t)
	alice := wire(t, url, t.TempDir(), false)
	bobHome := t.TempDir()
	bob := wire(t, url, bobHome, false)
	a := signUp(t, alice, "alice@example.com", "Alice")
	signUp(t, bob, "bob@example.com", "Bob")

	chat, err := alice.Chats.OpenChat(ctx, "bob@example.com")
	require.NoError(t, err)

	bobID, err := bob.Identity.LoadIdentity(passphrase)
	require.NoError(t, err)
	other, err := crypto.NewKeyFactory(crypto.NewSystemProvider()).GenerateIdentityKeys(ctx)
	require.NoError(t, err)

	p := crypto.NewSystemProvider()
	forgedBody, err := crypto.NewCipher(p).Encrypt(bobID.Encryption.Public, "pay mallory")
	require.NoError(t, err)
	forgedSig, err := crypto.NewSigner(p).Sign(other.Signing.Private, "pay mallory")
	require.NoError(t, err)

	_, err = alice.Messages.SendMessage(ctx, passphrase, chat.ID, "first")
	require.NoError(t, err)
	_, err = alice.Accounts.Current()
	require.NoError(t, err)
	_, err = alice.Relay.SendMessage(ctx, chat.ID, domain.SendMessageRequest{
		Ciphertext: forgedBody,
		Signature:  forgedSig,
	})
	require.NoError(t, err)
	_, err = alice.Relay.SendMessage(ctx, chat.ID, domain.SendMessageRequest{
		Ciphertext: "AAAA",
		Signature:  forgedSig,
	})
	require.NoError(t, err)
	_, err = alice.Messages.SendMessage(ctx, passphrase, chat.ID, "last")
	require.NoError(t, err)

	got, err := bob.Messages.ReceiveMessages(ctx, passphrase, chat.ID, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, []domain.Status{
		domain.StatusVerified,
		domain.StatusUntrusted,
		domain.StatusUnreadable,
		domain.StatusVerified,
	}, statuses(got))
	assert.Equal(t, "first", got[0].Plaintext)
	assert.Equal(t, "pay mallory", got[1].Plaintext)
	assert.Empty(t, got[2].Plaintext)
	assert.Equal(t, "last", got[3].Plaintext)

	after, err := bob.Messages.ReceiveMessages(ctx, passphrase, chat.ID, got[1].CreatedAt, 50)
	require.NoError(t, err)
	assert.Len(t, after, 2)

	// A corrupt cache entry leaves the sender unknown without failing the batch.
	require.NoError(t, store.NewPeerKeyFileStore(bobHome).SavePeerKeys(domain.PublicIdentity{
		UserID:        a.UserID,
		EncryptionKey: domain.EncodedKey{Role: domain.RolePublic, Armor: "garbage"},
		SigningKey:    domain.EncodedKey{Role: domain.RolePublic, Armor: "garbage"},
	}))
	got, err = bob.Messages.ReceiveMessages(ctx, passphrase, chat.ID, 0, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusSenderUnknown, got[0].Status)
}

func TestWatchStreamsNewMessages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	url := startRelay(t)
	alice := wire(t, url, t.TempDir(), false)
	bob := wire(t, url, t.TempDir(), false)
	signUp(t, alice, "alice@example.com", "Alice")
	signUp(t, bob, "bob@example.com", "Bob")

	chat, err := alice.Chats.OpenChat(ctx, "bob@example.com")
	require.NoError(t, err)

	stream, err := bob.Messages.Watch(ctx, passphrase, chat.ID)
	require.NoError(t, err)

	_, err = alice.Messages.SendMessage(ctx, passphrase, chat.ID, "are you there?")
	require.NoError(t, err)

	select {
	case m, ok := <-stream:
		require.True(t, ok)
		assert.Equal(t, domain.StatusVerified, m.Status)
		assert.Equal(t, "are you there?", m.Plaintext)
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestNotLoggedIn(t *testing.T) {
	w := wire(t, "http://127.0.0.1:1", t.TempDir(), false)
	_, err := w.Chats.ListChats(context.Background())
	assert.ErrorIs(t, err, accountsvc.ErrNotLoggedIn)
}
