package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"session-gate/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, jti, refresh_token_hash, user_agent, ip_address, created_at, updated_at`

// GetByID returns the session for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	return r.getOne(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
}

// GetByJTI returns the session whose jti matches, or nil if not found.
// This is the hot path for every refresh; sessions.jti carries a unique index.
func (r *PostgresRepository) GetByJTI(ctx context.Context, jti string) (*domain.Session, error) {
	return r.getOne(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE jti = $1`, jti)
}

// ListByUser returns all sessions for the user in creation order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		s := &domain.Session{}
		if err := scanSession(rows, s); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// Create persists the session. The session must have ID and JTI set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, jti, refresh_token_hash, user_agent, ip_address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.JTI, s.RefreshTokenHash, s.UserAgent, s.IPAddress, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Rotate replaces the refresh token hash for the session with the given jti in
// a single conditional update, keeping the jti. Concurrent rotations for the
// same jti are last-writer-wins. Returns nil when the session is gone.
func (r *PostgresRepository) Rotate(ctx context.Context, jti, refreshTokenHash string) (*domain.Session, error) {
	s := &domain.Session{}
	row := r.db.QueryRowContext(ctx,
		`UPDATE sessions SET refresh_token_hash = $2, updated_at = now()
		 WHERE jti = $1
		 RETURNING `+sessionColumns,
		jti, refreshTokenHash,
	)
	if err := scanSession(row, s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("rotate session: %w", err)
	}
	return s, nil
}

// Delete removes the session by id. Returns false when no row existed, so a
// second delete of the same session fails cleanly at the caller.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

// DeleteAllByUser removes every session of the user. Zero deletions is not an
// error; the count is returned.
func (r *PostgresRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner, s *domain.Session) error {
	return row.Scan(&s.ID, &s.UserID, &s.JTI, &s.RefreshTokenHash,
		&s.UserAgent, &s.IPAddress, &s.CreatedAt, &s.UpdatedAt)
}

func (r *PostgresRepository) getOne(ctx context.Context, query, arg string) (*domain.Session, error) {
	s := &domain.Session{}
	err := scanSession(r.db.QueryRowContext(ctx, query, arg), s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return s, nil
}

var _ Repository = (*PostgresRepository)(nil)
