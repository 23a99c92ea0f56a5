package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authhandler "session-gate/internal/auth/handler"
	"session-gate/internal/metrics"
	"session-gate/internal/security"
	"session-gate/internal/server/middleware"
)

// Pinger reports backing-store health for the readiness probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options collects the collaborators the router wires together.
type Options struct {
	AuthHandler *authhandler.HTTPHandler
	Codec       *security.TokenCodec
	Logger      *slog.Logger
	Collector   *metrics.Collector
	RateLimiter *middleware.RateLimiter
	DB          Pinger
}

// NewRouter assembles the HTTP surface. Public auth endpoints sit behind the
// per-IP rate limiter; session management requires a bearer access token.
func NewRouter(opts Options) chi.Router {
	auth := middleware.NewAuthenticator(opts.Codec)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.Logging(opts.Logger, opts.Collector))

	r.Get("/healthz", livenessHandler)
	r.Get("/readyz", readinessHandler(opts.DB))
	r.Method(http.MethodGet, "/metrics", opts.Collector.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.RateLimiter != nil {
				r.Use(opts.RateLimiter.Limit)
			}
			r.Post("/register", opts.AuthHandler.Register)
			r.Post("/login", opts.AuthHandler.Login)
			r.Post("/refresh", opts.AuthHandler.Refresh)
		})

		r.Post("/logout", opts.AuthHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAccessToken)
			r.Get("/me", opts.AuthHandler.Me)
			r.Get("/sessions", opts.AuthHandler.ListSessions)
			r.Delete("/sessions", opts.AuthHandler.LogoutAll)
			r.Delete("/sessions/{sessionID}", opts.AuthHandler.LogoutSession)
		})
	})

	return r
}

func livenessHandler(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, http.StatusOK, "ok")
}

func readinessHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeHealth(w, http.StatusOK, "ok")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			writeHealth(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		writeHealth(w, http.StatusOK, "ok")
	}
}

func writeHealth(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": msg})
}
