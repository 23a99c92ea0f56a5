// Package events defines the interface for emitting session lifecycle events
// (e.g. to Kafka) so downstream consumers can react to logins and revocations.
package events

import (
	"context"
	"time"
)

// Session lifecycle event types.
const (
	TypeSessionCreated = "session.created"
	TypeSessionRotated = "session.rotated"
	TypeSessionRevoked = "session.revoked"
)

// SessionEvent describes one session lifecycle transition.
type SessionEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	At        time.Time `json:"at"`
}

// Producer emits session events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	// Emit sends a single event. Implementations may block briefly.
	// Returns an error only on write failure; callers typically log and ignore.
	Emit(ctx context.Context, event *SessionEvent) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}

// NopProducer discards all events. Used when no brokers are configured and in tests.
type NopProducer struct{}

func (NopProducer) Emit(context.Context, *SessionEvent) error { return nil }
func (NopProducer) Close() error                              { return nil }
