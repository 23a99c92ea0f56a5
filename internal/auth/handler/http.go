package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"session-gate/internal/auth/service"
	"session-gate/internal/server/middleware"
	userdomain "session-gate/internal/user/domain"
)

// RefreshCookieName holds the refresh token between calls. The cookie is
// HttpOnly and path-scoped to the refresh and logout endpoints' common prefix
// so browser scripts and unrelated routes never see it.
const (
	RefreshCookieName = "refresh_token"
	refreshCookiePath = "/api/auth"
)

// HTTPHandler exposes the auth operations over REST. Refresh tokens travel in
// a cookie, access tokens in the Authorization header and response body.
type HTTPHandler struct {
	svc          *service.AuthService
	logger       *slog.Logger
	cookieSecure bool
	refreshTTL   time.Duration
}

func NewHTTPHandler(svc *service.AuthService, logger *slog.Logger, cookieSecure bool, refreshTTL time.Duration) *HTTPHandler {
	return &HTTPHandler{
		svc:          svc,
		logger:       logger,
		cookieSecure: cookieSecure,
		refreshTTL:   refreshTTL,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken     string       `json:"access_token"`
	TokenType       string       `json:"token_type"`
	AccessExpiresAt time.Time    `json:"access_expires_at"`
	SessionID       string       `json:"session_id"`
	User            userResponse `json:"user"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type revokedResponse struct {
	Revoked int64 `json:"revoked"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Register handles POST /api/auth/register.
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name, r.UserAgent(), middleware.ClientIP(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.setRefreshCookie(w, result.RefreshToken)
	h.writeJSON(w, http.StatusCreated, newTokenResponse(result))
}

// Login handles POST /api/auth/login.
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Login(r.Context(), req.Email, req.Password, r.UserAgent(), middleware.ClientIP(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.setRefreshCookie(w, result.RefreshToken)
	h.writeJSON(w, http.StatusOK, newTokenResponse(result))
}

// Refresh handles POST /api/auth/refresh. The refresh token comes from the
// cookie; a rotated token replaces it in the response cookie.
func (h *HTTPHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := h.refreshTokenFrom(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	result, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.setRefreshCookie(w, result.RefreshToken)
	h.writeJSON(w, http.StatusOK, newTokenResponse(result))
}

// Logout handles POST /api/auth/logout. Revocation is keyed off the refresh
// cookie and is best effort; the cookie is cleared either way.
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.refreshTokenFrom(r); ok {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}
	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// LogoutSession handles DELETE /api/auth/sessions/{sessionID}.
func (h *HTTPHandler) LogoutSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.svc.LogoutSession(r.Context(), sessionID, userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll handles DELETE /api/auth/sessions.
func (h *HTTPHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	count, err := h.svc.LogoutAll(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.clearRefreshCookie(w)
	h.writeJSON(w, http.StatusOK, revokedResponse{Revoked: count})
}

// ListSessions handles GET /api/auth/sessions.
func (h *HTTPHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sessions, err := h.svc.ListSessions(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			ID:        s.ID,
			UserAgent: s.UserAgent,
			IPAddress: s.IPAddress,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// Me handles GET /api/auth/me.
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newUserResponse(user))
}

func newTokenResponse(result *service.AuthResult) tokenResponse {
	return tokenResponse{
		AccessToken:     result.AccessToken,
		TokenType:       "Bearer",
		AccessExpiresAt: result.AccessExpiresAt,
		SessionID:       result.SessionID,
		User:            newUserResponse(result.User),
	}
}

func newUserResponse(user *userdomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func (h *HTTPHandler) refreshTokenFrom(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (h *HTTPHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *HTTPHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrEmailTaken):
		h.writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	default:
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}
