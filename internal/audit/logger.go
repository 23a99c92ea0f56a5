package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"session-gate/internal/audit/domain"
	auditrepo "session-gate/internal/audit/repository"
)

// Logger writes a single audit event per auth operation. LogEvent is
// best-effort: failures are logged and do not affect the caller.
type Logger interface {
	LogEvent(ctx context.Context, userID, action, ip, metadata string)
}

// RepoLogger implements Logger using the audit repository.
type RepoLogger struct {
	repo auditrepo.Repository
}

// NewLogger returns a Logger that persists to repo.
func NewLogger(repo auditrepo.Repository) *RepoLogger {
	return &RepoLogger{repo: repo}
}

// LogEvent writes one audit log entry. Errors are logged, not returned.
func (l *RepoLogger) LogEvent(ctx context.Context, userID, action, ip, metadata string) {
	if l.repo == nil {
		return
	}
	if ip == "" {
		ip = "unknown"
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Save(ctx, entry); err != nil {
		slog.Error("audit: failed to log event",
			slog.String("action", action),
			slog.String("error", err.Error()))
	}
}

// NopLogger discards all events. Used when auditing is disabled and in tests.
type NopLogger struct{}

func (NopLogger) LogEvent(context.Context, string, string, string, string) {}
