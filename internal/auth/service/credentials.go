package service

import (
	"context"
	"strings"

	"session-gate/internal/security"
	"session-gate/internal/user/domain"
)

// CredentialVerifier checks an email/password pair against the stored bcrypt
// hash. It is stateless; lookup and hashing are delegated. A missing user and
// a wrong password produce the same error so callers cannot probe for
// registered emails.
type CredentialVerifier struct {
	users  UserRepo
	hasher *security.Hasher
}

// NewCredentialVerifier returns a CredentialVerifier over the given user
// repository and hasher.
func NewCredentialVerifier(users UserRepo, hasher *security.Hasher) *CredentialVerifier {
	return &CredentialVerifier{users: users, hasher: hasher}
}

// Verify returns the user when email and password match, ErrInvalidCredentials
// otherwise. Storage failures propagate as ErrStorageUnavailable, never as an
// authentication failure.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := v.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
