package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"session-gate/internal/audit/domain"
	"session-gate/internal/events"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	saveErr error
}

func (m *memAuditRepo) Save(_ context.Context, a *domain.AuditLog) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memAuditRepo) ListByUser(_ context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AuditLog
	for _, e := range m.entries {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestRepoLoggerPersistsEntry(t *testing.T) {
	repo := &memAuditRepo{}
	logger := NewLogger(repo)

	logger.LogEvent(context.Background(), "user-1", domain.ActionLogin, "203.0.113.9", "")

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.Action != domain.ActionLogin || entry.UserID != "user-1" || entry.IP != "203.0.113.9" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.ID == "" {
		t.Error("entry must get an id")
	}
}

func TestRepoLoggerSwallowsSaveError(t *testing.T) {
	logger := NewLogger(&memAuditRepo{saveErr: errors.New("db down")})

	// Must not panic or propagate.
	logger.LogEvent(context.Background(), "user-1", domain.ActionLogout, "", "")
}

func TestEventSinkRecordsSessionEvent(t *testing.T) {
	repo := &memAuditRepo{}
	sink := NewEventSink(repo)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := sink.HandleSessionEvent(context.Background(), &events.SessionEvent{
		Type:      events.TypeSessionRotated,
		SessionID: "sess-1",
		UserID:    "user-1",
		At:        at,
	})
	if err != nil {
		t.Fatalf("HandleSessionEvent: %v", err)
	}

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.Action != events.TypeSessionRotated || entry.UserID != "user-1" {
		t.Errorf("unexpected entry %+v", entry)
	}
	var metadata map[string]string
	if err := json.Unmarshal([]byte(entry.Metadata), &metadata); err != nil {
		t.Fatalf("metadata not json: %v", err)
	}
	if metadata["session_id"] != "sess-1" {
		t.Errorf("metadata session_id = %q", metadata["session_id"])
	}
}

func TestEventSinkPropagatesSaveError(t *testing.T) {
	sink := NewEventSink(&memAuditRepo{saveErr: errors.New("db down")})

	err := sink.HandleSessionEvent(context.Background(), &events.SessionEvent{
		Type:      events.TypeSessionRevoked,
		SessionID: "sess-1",
		UserID:    "user-1",
		At:        time.Now(),
	})
	if err == nil {
		t.Fatal("expected save error to propagate")
	}
}
