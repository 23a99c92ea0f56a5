package domain

import "time"

// Session is one active login. The JTI mirrors the jti claim of the current
// refresh token; it is unique across all sessions, immutable once created, and
// never reused after deletion. RefreshTokenHash is the SHA-256 hash of the
// current refresh token and changes on every rotation.
type Session struct {
	ID               string
	UserID           string
	JTI              string
	RefreshTokenHash string
	UserAgent        string
	IPAddress        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
