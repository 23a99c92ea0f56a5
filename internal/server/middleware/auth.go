package middleware

import (
	"net/http"
	"strings"

	"session-gate/internal/security"
)

// Authenticator verifies bearer access tokens and attaches the caller's
// identity to the request context. Handlers behind it can rely on
// UserIDFromContext succeeding.
type Authenticator struct {
	codec *security.TokenCodec
}

func NewAuthenticator(codec *security.TokenCodec) *Authenticator {
	return &Authenticator{codec: codec}
}

// RequireAccessToken rejects requests without a valid bearer access token.
func (a *Authenticator) RequireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearer(r.Header.Get("Authorization"))
		if !ok {
			writeUnauthorized(w)
			return
		}
		claims, err := a.codec.VerifyAccess(token)
		if err != nil {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
	})
}

func extractBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
