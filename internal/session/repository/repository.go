package repository

import (
	"context"

	"session-gate/internal/session/domain"
)

// Repository defines persistence for sessions. Get methods return (nil, nil)
// for missing rows; errors are database failures only. Rotate and Delete
// report whether a row was affected so callers can map absence to their own
// error taxonomy.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	GetByJTI(ctx context.Context, jti string) (*domain.Session, error)
	// ListByUser returns the user's sessions in creation order.
	ListByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// Rotate atomically replaces the refresh token hash of the session whose
	// jti matches, bumping updated_at. Returns the updated session, or nil
	// when no session carries that jti.
	Rotate(ctx context.Context, jti, refreshTokenHash string) (*domain.Session, error)
	// Delete removes the session by id. Returns false when no row existed.
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteAllByUser removes every session of the user and returns the count.
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}
