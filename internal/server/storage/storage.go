package storage

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store is the relay's SQLite persistence.
type Store struct {
	db *bun.DB

	clockMu sync.Mutex
	last    int64
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	sqldb, err := sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "storage.Open.sql")
	}
	// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY.
	sqldb.SetMaxOpenConns(1)

	s := &Store{db: bun.NewDB(sqldb, sqlitedialect.New())}
	if err := s.migrate(ctx); err != nil {
		_ = s.db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the bun handle for diagnostics.
func (s *Store) DB() *bun.DB { return s.db }

func (s *Store) migrate(ctx context.Context) error {
	for _, m := range []any{(*User)(nil), (*Token)(nil), (*Chat)(nil), (*Message)(nil)} {
		if _, err := s.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "storage.migrate.%T", m)
		}
	}
	if _, err := s.db.NewCreateIndex().
		Model((*Chat)(nil)).
		Index("chats_members_idx").
		Unique().
		Column("member_a", "member_b").
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, "storage.migrate.chats_members_idx")
	}
	if _, err := s.db.NewCreateIndex().
		Model((*Message)(nil)).
		Index("messages_chat_created_idx").
		Column("chat_id", "created_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, "storage.migrate.messages_chat_created_idx")
	}
	return nil
}

// now returns a unix-nano timestamp strictly greater than any returned before.
func (s *Store) now() int64 {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	t := time.Now().UnixNano()
	if t <= s.last {
		t = s.last + 1
	}
	s.last = t
	return t
}

func newID() string { return uuid.NewString() }

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ---------- Users ----------

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	u.CreatedAt = s.now()
	if _, err := s.db.NewInsert().Model(u).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "storage.CreateUser.Insert")
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	u := new(User)
	if err := s.db.NewSelect().Model(u).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	u := new(User)
	if err := s.db.NewSelect().Model(u).Where("email = ?", email).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// ---------- Tokens ----------

func (s *Store) CreateToken(ctx context.Context, hash, userID string) error {
	t := &Token{Hash: hash, UserID: userID, CreatedAt: s.now()}
	if _, err := s.db.NewInsert().Model(t).Exec(ctx); err != nil {
		return errors.Wrap(err, "storage.CreateToken.Insert")
	}
	return nil
}

func (s *Store) UserIDByToken(ctx context.Context, hash string) (string, error) {
	t := new(Token)
	if err := s.db.NewSelect().Model(t).Where("hash = ?", hash).Scan(ctx); err != nil {
		return "", notFound(err)
	}
	return t.UserID, nil
}

// ---------- Chats ----------

// ChatBetween returns the chat of the two users, creating it on first use.
func (s *Store) ChatBetween(ctx context.Context, a, b string) (*Chat, error) {
	if b < a {
		a, b = b, a
	}
	c := &Chat{ID: newID(), MemberA: a, MemberB: b, CreatedAt: s.now()}
	if _, err := s.db.NewInsert().
		Model(c).
		On("CONFLICT (member_a, member_b) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "storage.ChatBetween.Insert")
	}

	out := new(Chat)
	if err := s.db.NewSelect().
		Model(out).
		Where("member_a = ?", a).
		Where("member_b = ?", b).
		Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "storage.ChatBetween.Select")
	}
	return out, nil
}

func (s *Store) ChatByID(ctx context.Context, id string) (*Chat, error) {
	c := new(Chat)
	if err := s.db.NewSelect().Model(c).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *Store) ChatsOf(ctx context.Context, userID string) ([]Chat, error) {
	var chats []Chat
	err := s.db.NewSelect().
		Model(&chats).
		WhereOr("member_a = ?", userID).
		WhereOr("member_b = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "storage.ChatsOf.Select")
	}
	return chats, nil
}

// ---------- Messages ----------

func (s *Store) CreateMessage(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = newID()
	}
	m.CreatedAt = s.now()
	if _, err := s.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return errors.Wrap(err, "storage.CreateMessage.Insert")
	}
	return nil
}

// MessagesAfter lists messages of chat created strictly after the given
// timestamp, oldest first.
func (s *Store) MessagesAfter(ctx context.Context, chatID string, after int64, limit int) ([]Message, error) {
	var msgs []Message
	q := s.db.NewSelect().
		Model(&msgs).
		Where("chat_id = ?", chatID).
		Where("created_at > ?", after).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "storage.MessagesAfter.Select")
	}
	return msgs, nil
}

func (s *Store) MessageByID(ctx context.Context, id string) (*Message, error) {
	m := new(Message)
	if err := s.db.NewSelect().Model(m).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*Message)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "storage.DeleteMessage.Delete")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountMessages(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*Message)(nil)).Count(ctx)
	return n, errors.Wrap(err, "storage.CountMessages")
}
