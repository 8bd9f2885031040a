package storage

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID    string `bun:",pk"`
	Email string `bun:",unique,notnull"`
	Name  string `bun:",notnull"`

	PasswordHash []byte `bun:",notnull"`

	// Stored verbatim as submitted; the relay never parses them.
	EncryptionPublicKey string `bun:",notnull"`
	SigningPublicKey    string `bun:",notnull"`

	CreatedAt int64 `bun:",notnull"`
}

type Token struct {
	bun.BaseModel `bun:"table:tokens"`

	// Hash is the hex SHA-256 of the bearer token.
	Hash      string `bun:",pk"`
	UserID    string `bun:",notnull"`
	CreatedAt int64  `bun:",notnull"`
}

// Chat members are stored ordered so each pair maps to one row.
type Chat struct {
	bun.BaseModel `bun:"table:chats"`

	ID        string `bun:",pk"`
	MemberA   string `bun:"member_a,notnull"`
	MemberB   string `bun:"member_b,notnull"`
	CreatedAt int64  `bun:",notnull"`
}

type Message struct {
	bun.BaseModel `bun:"table:messages"`

	ID         string `bun:",pk"`
	ChatID     string `bun:",notnull"`
	SenderID   string `bun:",notnull"`
	Scheme     string `bun:",notnull"`
	Ciphertext string `bun:",notnull"`
	Signature  string `bun:",notnull"`
	// CreatedAt is unix nanoseconds, strictly increasing across the store.
	CreatedAt int64 `bun:",notnull"`
}
