package repository

import (
	"context"

	"session-gate/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Save(ctx context.Context, a *domain.AuditLog) error
	// ListByUser returns the user's audit logs, newest first, paginated.
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error)
}
