package domain

import "time"

// Audit actions recorded by the auth flows.
const (
	ActionRegister     = "register"
	ActionLogin        = "login"
	ActionLoginFailure = "login_failure"
	ActionRefresh      = "refresh"
	ActionLogout       = "logout"
	ActionLogoutAll    = "logout_all"
)

// AuditLog represents one audit event.
type AuditLog struct {
	ID        string
	UserID    string // empty for failures where no user resolved
	Action    string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
