package security

import "time"

// NewTestTokenCodec returns a TokenCodec with fixed secrets and short TTLs.
// For unit tests only.
func NewTestTokenCodec() *TokenCodec {
	return NewTokenCodec(
		[]byte("test-access-secret-0123456789abcdef"),
		[]byte("test-refresh-secret-0123456789abcdef"),
		"test-issuer",
		"test-audience",
		15*time.Minute,
		7*24*time.Hour,
	)
}
