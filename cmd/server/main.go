package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"session-gate/internal/audit"
	auditrepo "session-gate/internal/audit/repository"
	authhandler "session-gate/internal/auth/handler"
	"session-gate/internal/auth/service"
	"session-gate/internal/config"
	"session-gate/internal/db"
	"session-gate/internal/events"
	"session-gate/internal/metrics"
	"session-gate/internal/security"
	"session-gate/internal/server"
	"session-gate/internal/server/middleware"
	sessionrepo "session-gate/internal/session/repository"
	"session-gate/internal/telemetry/otel"
	userrepo "session-gate/internal/user/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "session-gate", cfg.OTLPInsecure)
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown", slog.Any("error", err))
		}
	}()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	var producer events.Producer = events.NopProducer{}
	if kafkaProducer, err := events.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.KafkaTopic); err != nil {
		return err
	} else if kafkaProducer != nil {
		producer = kafkaProducer
	}
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error("close event producer", slog.Any("error", err))
		}
	}()

	codec := security.NewTokenCodec(
		[]byte(cfg.JWTAccessSecret),
		[]byte(cfg.JWTRefreshSecret),
		cfg.JWTIssuer,
		cfg.JWTAudience,
		cfg.AccessTTL(),
		cfg.RefreshTTL(),
	)
	hasher := security.NewHasher(cfg.BcryptCost)
	collector := metrics.NewCollector()

	users := userrepo.NewPostgresRepository(database)
	sessions := sessionrepo.NewPostgresRepository(database)
	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(database))

	creds := service.NewCredentialVerifier(users, hasher)
	svc := service.NewAuthService(users, sessions, creds, hasher, codec, auditor, producer, collector)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	router := server.NewRouter(server.Options{
		AuthHandler: authhandler.NewHTTPHandler(svc, logger, cfg.CookieSecure, cfg.RefreshTTL()),
		Codec:       codec,
		Logger:      logger,
		Collector:   collector,
		RateLimiter: rateLimiter,
		DB:          database,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
