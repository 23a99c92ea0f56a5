package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"session-gate/internal/audit"
	auditdomain "session-gate/internal/audit/domain"
	"session-gate/internal/events"
	"session-gate/internal/security"
	sessiondomain "session-gate/internal/session/domain"
	userdomain "session-gate/internal/user/domain"
	userrepo "session-gate/internal/user/repository"
)

// Sentinel errors for the auth service; the HTTP layer maps them to status codes.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized covers refresh tokens that verify cryptographically but
	// resolve to no live session, and tokens that fail verification outright.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a session exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
	// ErrValidation wraps rejected registration input.
	ErrValidation = errors.New("validation failed")
	// ErrStorageUnavailable marks collaborator storage failures. It is never
	// conflated with an authentication failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	GetByJTI(ctx context.Context, jti string) (*sessiondomain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Rotate(ctx context.Context, jti, refreshTokenHash string) (*sessiondomain.Session, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

// Metrics records auth outcomes. Implemented by the metrics package; a nil
// implementation is not allowed, use NopMetrics.
type Metrics interface {
	RecordLogin(success bool)
	RecordRefresh(success bool)
	RecordRevocations(count int64)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) RecordLogin(bool)       {}
func (NopMetrics) RecordRefresh(bool)     {}
func (NopMetrics) RecordRevocations(int64) {}

// AuthResult holds the outcome of Register, Login, or Refresh.
type AuthResult struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             *userdomain.User
	SessionID        string
}

// SessionInfo is the redacted session view returned by ListSessions. The raw
// refresh token and its hash are never surfaced.
type SessionInfo struct {
	ID        string
	UserAgent string
	IPAddress string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthService composes the credential verifier, token codec, and session
// ledger into the user-facing auth operations. It owns token lifetimes, the
// in-place rotation rule, and revocation semantics.
type AuthService struct {
	users    UserRepo
	sessions SessionRepo
	creds    *CredentialVerifier
	hasher   *security.Hasher
	codec    *security.TokenCodec
	auditor  audit.Logger
	producer events.Producer
	metrics  Metrics
}

// NewAuthService returns an AuthService with the given collaborators.
// auditor, producer, and metrics may be the Nop implementations but not nil.
func NewAuthService(
	users UserRepo,
	sessions SessionRepo,
	creds *CredentialVerifier,
	hasher *security.Hasher,
	codec *security.TokenCodec,
	auditor audit.Logger,
	producer events.Producer,
	metrics Metrics,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		creds:    creds,
		hasher:   hasher,
		codec:    codec,
		auditor:  auditor,
		producer: producer,
		metrics:  metrics,
	}
}

// Register creates a user with the given email and password, then issues a
// token pair and records a session exactly as Login does. Returns ErrEmailTaken
// when the email is already registered.
func (s *AuthService) Register(ctx context.Context, email, password, name, userAgent, ip string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storageErr(err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, storageErr(err)
	}
	s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionRegister, ip, "")
	return s.issueSession(ctx, user, userAgent, ip)
}

// Login authenticates with email/password, creates a session, and returns a
// token pair. Which of email or password was wrong is never revealed.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ip string) (*AuthResult, error) {
	user, err := s.creds.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.metrics.RecordLogin(false)
			s.auditor.LogEvent(ctx, "", auditdomain.ActionLoginFailure, ip, "")
		}
		return nil, err
	}
	res, err := s.issueSession(ctx, user, userAgent, ip)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLogin(true)
	s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionLogin, ip, "")
	return res, nil
}

// Refresh validates the presented refresh token, checks that its jti resolves
// to a live session holding the same token, mints a new pair reusing the jti,
// and rotates the stored hash in place. Any failure is ErrUnauthorized; the
// caller must re-authenticate.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		s.metrics.RecordRefresh(false)
		return nil, ErrUnauthorized
	}
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		s.metrics.RecordRefresh(false)
		return nil, ErrUnauthorized
	}
	sess, err := s.sessions.GetByJTI(ctx, claims.JTI)
	if err != nil {
		return nil, storageErr(err)
	}
	if sess == nil || sess.UserID != claims.UserID {
		// Revoked or logged-out session; the token is dead regardless of expiry.
		s.metrics.RecordRefresh(false)
		return nil, ErrUnauthorized
	}
	if !security.RefreshTokenHashEqual(refreshToken, sess.RefreshTokenHash) {
		// A stale pre-rotation token was replayed after rotation landed.
		s.metrics.RecordRefresh(false)
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil {
		s.metrics.RecordRefresh(false)
		return nil, ErrUnauthorized
	}

	newRefresh, refreshExp, err := s.codec.MintRefresh(user.ID, sess.JTI)
	if err != nil {
		return nil, err
	}
	rotated, err := s.sessions.Rotate(ctx, sess.JTI, security.HashRefreshToken(newRefresh))
	if err != nil {
		return nil, storageErr(err)
	}
	if rotated == nil {
		// Session deleted between lookup and rotation.
		s.metrics.RecordRefresh(false)
		return nil, ErrUnauthorized
	}
	accessToken, accessExp, err := s.codec.MintAccess(user.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRefresh(true)
	s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionRefresh, sess.IPAddress, "")
	s.emit(ctx, events.TypeSessionRotated, rotated.ID, user.ID)
	return &AuthResult{
		AccessToken:      accessToken,
		RefreshToken:     newRefresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		User:             user,
		SessionID:        rotated.ID,
	}, nil
}

// Logout revokes the session identified by the presented refresh token.
// Best-effort: an invalid or already-revoked token is a no-op, not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}
	sess, err := s.sessions.GetByJTI(ctx, claims.JTI)
	if err != nil {
		return storageErr(err)
	}
	if sess == nil {
		return nil
	}
	deleted, err := s.sessions.Delete(ctx, sess.ID)
	if err != nil {
		return storageErr(err)
	}
	if deleted {
		s.metrics.RecordRevocations(1)
		s.auditor.LogEvent(ctx, sess.UserID, auditdomain.ActionLogout, sess.IPAddress, "")
		s.emit(ctx, events.TypeSessionRevoked, sess.ID, sess.UserID)
	}
	return nil
}

// LogoutSession revokes one session by id on behalf of requesterID. Returns
// ErrNotFound when the session does not exist and ErrForbidden when it belongs
// to another user, leaving it intact.
func (s *AuthService) LogoutSession(ctx context.Context, sessionID, requesterID string) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return storageErr(err)
	}
	if sess == nil {
		return ErrNotFound
	}
	if sess.UserID != requesterID {
		return ErrForbidden
	}
	deleted, err := s.sessions.Delete(ctx, sessionID)
	if err != nil {
		return storageErr(err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.metrics.RecordRevocations(1)
	s.auditor.LogEvent(ctx, requesterID, auditdomain.ActionLogout, sess.IPAddress, "session="+sessionID)
	s.emit(ctx, events.TypeSessionRevoked, sessionID, requesterID)
	return nil
}

// LogoutAll revokes every session of the user and returns the count. Zero
// deletions is not an error.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	count, err := s.sessions.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, storageErr(err)
	}
	if count > 0 {
		s.metrics.RecordRevocations(count)
	}
	s.auditor.LogEvent(ctx, userID, auditdomain.ActionLogoutAll, "", fmt.Sprintf("count=%d", count))
	s.emit(ctx, events.TypeSessionRevoked, "", userID)
	return count, nil
}

// ListSessions returns the user's sessions in creation order with token
// material redacted.
func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]SessionInfo, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]SessionInfo, len(sessions))
	for i, sess := range sessions {
		out[i] = SessionInfo{
			ID:        sess.ID,
			UserAgent: sess.UserAgent,
			IPAddress: sess.IPAddress,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		}
	}
	return out, nil
}

// GetProfile returns the user's public fields, or ErrNotFound when the user no
// longer exists.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*userdomain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// issueSession mints an access/refresh pair with a fresh jti and records the
// session atomically with issuance from the caller's point of view: the
// session row always reflects the refresh token that was handed out.
func (s *AuthService) issueSession(ctx context.Context, user *userdomain.User, userAgent, ip string) (*AuthResult, error) {
	jti := uuid.New().String()
	refreshToken, refreshExp, err := s.codec.MintRefresh(user.ID, jti)
	if err != nil {
		return nil, err
	}
	accessToken, accessExp, err := s.codec.MintAccess(user.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &sessiondomain.Session{
		ID:               uuid.New().String(),
		UserID:           user.ID,
		JTI:              jti,
		RefreshTokenHash: security.HashRefreshToken(refreshToken),
		UserAgent:        userAgent,
		IPAddress:        ip,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, storageErr(err)
	}
	s.emit(ctx, events.TypeSessionCreated, sess.ID, user.ID)
	return &AuthResult{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		User:             user,
		SessionID:        sess.ID,
	}, nil
}

func (s *AuthService) emit(ctx context.Context, eventType, sessionID, userID string) {
	err := s.producer.Emit(ctx, &events.SessionEvent{
		Type:      eventType,
		SessionID: sessionID,
		UserID:    userID,
		At:        time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("auth: event emit failed",
			slog.String("type", eventType),
			slog.String("error", err.Error()))
	}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return errors.New("password must contain at least one letter and one number")
	}
	return nil
}
