package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"session-gate/internal/audit/domain"
	auditrepo "session-gate/internal/audit/repository"
	"session-gate/internal/events"
)

// EventSink persists session lifecycle events consumed from the event stream
// as audit log entries, one row per event.
type EventSink struct {
	repo auditrepo.Repository
}

func NewEventSink(repo auditrepo.Repository) *EventSink {
	return &EventSink{repo: repo}
}

// HandleSessionEvent records the event under its stream type as the action.
func (s *EventSink) HandleSessionEvent(ctx context.Context, event *events.SessionEvent) error {
	metadata, err := json.Marshal(map[string]string{
		"session_id": event.SessionID,
		"at":         event.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    event.UserID,
		Action:    event.Type,
		IP:        "unknown",
		Metadata:  string(metadata),
		CreatedAt: time.Now().UTC(),
	})
}

var _ events.Sink = (*EventSink)(nil)
