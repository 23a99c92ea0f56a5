package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid is returned when a token is malformed, carries a bad
	// signature, or was signed for the other token kind.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a token is well-formed but past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// AccessClaims holds JWT claims for the access token. Subject is the user id.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// RefreshClaims holds JWT claims for the refresh token. The jti (ID) binds the
// token to its session row for server-side revocation.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenClaims is the verified claim set returned by VerifyAccess and VerifyRefresh.
type TokenClaims struct {
	UserID    string
	JTI       string // empty for access tokens
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec mints and verifies HS256 access and refresh JWTs. Access and
// refresh tokens are signed with separate secrets so a compromise of one
// cannot forge the other; a token presented to the wrong verifier fails the
// signature check. The codec is stateless and never consults session storage.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenCodec returns a TokenCodec signing with the given per-kind secrets.
// issuer and audience are set on claims and validated on every verify.
func NewTokenCodec(accessSecret, refreshSecret []byte, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		issuer:        issuer,
		audience:      audience,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *TokenCodec) RefreshTTL() time.Duration { return c.refreshTTL }

// MintAccess issues a short-lived access JWT for the given user.
// Returns the token string and its expiration time.
func (c *TokenCodec) MintAccess(userID string) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(c.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(c.accessSecret)
	return token, expiresAt, err
}

// MintRefresh issues a long-lived refresh JWT carrying the caller-supplied jti.
// The caller passes a fresh jti at login and the session's existing jti when
// rotating in place. Returns the token string and its expiration time.
func (c *TokenCodec) MintRefresh(userID, jti string) (token string, expiresAt time.Time, err error) {
	if jti == "" {
		return "", time.Time{}, ErrTokenInvalid
	}
	now := time.Now().UTC()
	expiresAt = now.Add(c.refreshTTL)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(c.refreshSecret)
	return token, expiresAt, err
}

// VerifyAccess parses and validates an access token (signature, exp, iss, aud).
// Returns ErrTokenExpired for expired tokens and ErrTokenInvalid for anything
// else that fails, including refresh tokens presented as access tokens.
func (c *TokenCodec) VerifyAccess(tokenString string) (*TokenClaims, error) {
	claims := &AccessClaims{}
	if err := c.parse(tokenString, claims, c.accessSecret); err != nil {
		return nil, err
	}
	return &TokenClaims{
		UserID:    claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// VerifyRefresh parses and validates a refresh token (signature, exp, iss, aud)
// and requires a non-empty jti. It does not check whether the jti resolves to a
// live session; that is the orchestrator's job.
func (c *TokenCodec) VerifyRefresh(tokenString string) (*TokenClaims, error) {
	claims := &RefreshClaims{}
	if err := c.parse(tokenString, claims, c.refreshSecret); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	return &TokenClaims{
		UserID:    claims.Subject,
		JTI:       claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (c *TokenCodec) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
