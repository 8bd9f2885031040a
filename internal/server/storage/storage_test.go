package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/server/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createUser(t *testing.T, s *storage.Store, email string) *storage.User {
	t.Helper()
	u := &storage.User{
		Email:               email,
		Name:                email,
		PasswordHash:        []byte("hash"),
		EncryptionPublicKey: "enc",
		SigningPublicKey:    "sig",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	u := createUser(t, s, "alice@example.com")
	assert.NotEmpty(t, u.ID)

	got, err := s.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "enc", got.EncryptionPublicKey)
	assert.Equal(t, "sig", got.SigningPublicKey)

	err = s.CreateUser(ctx, &storage.User{Email: "alice@example.com", Name: "x", PasswordHash: []byte("h")})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	_, err = s.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	u := createUser(t, s, "alice@example.com")

	require.NoError(t, s.CreateToken(ctx, "abc", u.ID))
	id, err := s.UserIDByToken(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = s.UserIDByToken(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChatBetweenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	a := createUser(t, s, "a@example.com")
	b := createUser(t, s, "b@example.com")
	c := createUser(t, s, "c@example.com")

	first, err := s.ChatBetween(ctx, a.ID, b.ID)
	require.NoError(t, err)
	again, err := s.ChatBetween(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := s.ChatBetween(ctx, a.ID, c.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	chats, err := s.ChatsOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 2)

	chats, err = s.ChatsOf(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, first.ID, chats[0].ID)
}

func TestMessages(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	a := createUser(t, s, "a@example.com")
	b := createUser(t, s, "b@example.com")
	chat, err := s.ChatBetween(ctx, a.ID, b.ID)
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 3; i++ {
		m := &storage.Message{ChatID: chat.ID, SenderID: a.ID, Scheme: "rsa-oaep-sha256", Ciphertext: "ct", Signature: "sig"}
		require.NoError(t, s.CreateMessage(ctx, m))
		ids = append(ids, m.ID)
	}

	all, err := s.MessagesAfter(ctx, chat.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := range all {
		assert.Equal(t, ids[i], all[i].ID)
		if i > 0 {
			assert.Greater(t, all[i].CreatedAt, all[i-1].CreatedAt)
		}
	}

	rest, err := s.MessagesAfter(ctx, chat.ID, all[0].CreatedAt, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[1], rest[0].ID)

	require.NoError(t, s.DeleteMessage(ctx, ids[1]))
	assert.ErrorIs(t, s.DeleteMessage(ctx, ids[1]), storage.ErrNotFound)
	_, err = s.MessageByID(ctx, ids[1])
	assert.ErrorIs(t, err, storage.ErrNotFound)

	n, err := s.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestChatMemberIndexCoversMemberColumns(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	rows, err := s.DB().QueryContext(ctx, "PRAGMA index_info('chats_members_idx')")
	require.NoError(t, err)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var (
			seq, cid int
			name     string
		)
		require.NoError(t, rows.Scan(&seq, &cid, &name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"member_a", "member_b"}, cols)

	// Many distinct pairs must coexist under the unique index.
	users := make([]*storage.User, 4)
	for i := range users {
		users[i] = createUser(t, s, string(rune('a'+i))+"@example.com")
	}
	seen := map[string]bool{}
	for i := range users {
		for j := i + 1; j < len(users); j++ {
			c, err := s.ChatBetween(ctx, users[i].ID, users[j].ID)
			require.NoError(t, err)
			assert.LessOrEqual(t, c.MemberA, c.MemberB)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, 6)
}
