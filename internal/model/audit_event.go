package model

import "time"

const (
	AuditUserCreated      = "user.created"
	AuditLoginSucceeded   = "auth.login.succeeded"
	AuditLoginFailed      = "auth.login.failed"
	AuditSessionCreated   = "session.created"
	AuditSessionUpdated   = "session.updated"
	AuditSessionDeleted   = "session.deleted"
	AuditCharacterCreated = "character.created"
	AuditCharacterUpdated = "character.updated"
	AuditCharacterDeleted = "character.deleted"
)

// AuditEvent records a mutation or login attempt. UserID is 0 for failed logins of unknown
// users; ResourceID is 0 when the action has no target row.
type AuditEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Action     string    `gorm:"size:64;not null;index" json:"action"`
	UserID     uint      `gorm:"index" json:"user_id"`
	ResourceID uint      `json:"resource_id"`
	Detail     string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// All lists every model managed by AutoMigrate, parents first.
func All() []any {
	return []any{&User{}, &Session{}, &Character{}, &AuditEvent{}}
}
