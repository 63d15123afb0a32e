package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cronicas-api/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Transaction runs fn with a repository bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (r *SessionRepository) Transaction(ctx context.Context, fn func(repo *SessionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SessionRepository{db: tx})
	})
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Session, error) {
	sessions := make([]model.Session, 0)
	if err := r.db.WithContext(ctx).
		Where("iduser = ?", userID).
		Order("fecha DESC").
		Order("idsesion DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions failed: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) GetByIDAndUserID(ctx context.Context, sessionID, userID uint) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).Where("idsesion = ? AND iduser = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	return &session, nil
}

// Save writes every column of an already loaded session.
func (r *SessionRepository) Save(ctx context.Context, session *model.Session) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("update session failed: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID reports whether a row owned by userID was removed.
func (r *SessionRepository) DeleteByIDAndUserID(ctx context.Context, sessionID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("idsesion = ? AND iduser = ?", sessionID, userID).Delete(&model.Session{})
	if result.Error != nil {
		return false, fmt.Errorf("delete session failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
