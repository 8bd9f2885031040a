package types

// AccountProfile identifies a sealchat account on a specific relay server.
type AccountProfile struct {
	ServerURL string `json:"server_url"`
	UserID    UserID `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Token     string `json:"token"`
}

// RegisterRequest is posted to the relay to create an account. Both public
// keys travel armored and are stored verbatim.
type RegisterRequest struct {
	Email               string `json:"email"`
	Name                string `json:"name"`
	Password            string `json:"password"`
	EncryptionPublicKey string `json:"encryption_public_key"`
	SigningPublicKey    string `json:"signing_public_key"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by register and login.
type Session struct {
	UserID UserID `json:"user_id"`
	Token  string `json:"token"`
}

// PublicKeys is the relay's view of a user's published keys.
type PublicKeys struct {
	UserID              UserID `json:"user_id"`
	EncryptionPublicKey string `json:"encryption_public_key"`
	SigningPublicKey    string `json:"signing_public_key"`
}

// UserSummary is the public profile returned by user lookup.
type UserSummary struct {
	UserID UserID `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
