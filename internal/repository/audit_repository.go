package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cronicas-api/internal/model"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, event *model.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create audit event failed: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByUserID(ctx context.Context, userID uint, limit int) ([]model.AuditEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var events []model.AuditEvent
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list audit events failed: %w", err)
	}
	return events, nil
}
