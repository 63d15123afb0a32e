package app

import (
	"context"
	"log/slog"
	"time"

	"cronicas-api/internal/model"
)

// EventPublisher delivers audit events asynchronously.
type EventPublisher interface {
	Publish(ctx context.Context, event model.AuditEvent) error
}

type auditor struct {
	publisher EventPublisher
	log       *slog.Logger
}

func newAuditor(publisher EventPublisher, log *slog.Logger) auditor {
	if log == nil {
		log = slog.Default()
	}
	return auditor{publisher: publisher, log: log}
}

// record never fails the caller: the mutation it describes is already committed.
func (a auditor) record(ctx context.Context, action string, userID, resourceID uint, detail string) {
	if a.publisher == nil {
		return
	}
	event := model.AuditEvent{
		Action:     action,
		UserID:     userID,
		ResourceID: resourceID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.log.WarnContext(ctx, "audit.publish_failed", "action", action, "user_id", userID, "err", err)
	}
}
