package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cronicas-api/internal/model"
)

type CharacterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func (r *CharacterRepository) Transaction(ctx context.Context, fn func(repo *CharacterRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CharacterRepository{db: tx})
	})
}

func (r *CharacterRepository) Create(ctx context.Context, character *model.Character) error {
	if err := r.db.WithContext(ctx).Create(character).Error; err != nil {
		return fmt.Errorf("create character failed: %w", err)
	}
	return nil
}

func (r *CharacterRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Character, error) {
	characters := make([]model.Character, 0)
	if err := r.db.WithContext(ctx).Where("iduser = ?", userID).Order("idpersonaje ASC").Find(&characters).Error; err != nil {
		return nil, fmt.Errorf("list characters failed: %w", err)
	}
	return characters, nil
}

func (r *CharacterRepository) GetByIDAndUserID(ctx context.Context, characterID, userID uint) (*model.Character, error) {
	var character model.Character
	if err := r.db.WithContext(ctx).Where("idpersonaje = ? AND iduser = ?", characterID, userID).First(&character).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get character failed: %w", err)
	}
	return &character, nil
}

func (r *CharacterRepository) Save(ctx context.Context, character *model.Character) error {
	if err := r.db.WithContext(ctx).Save(character).Error; err != nil {
		return fmt.Errorf("update character failed: %w", err)
	}
	return nil
}

func (r *CharacterRepository) DeleteByIDAndUserID(ctx context.Context, characterID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("idpersonaje = ? AND iduser = ?", characterID, userID).Delete(&model.Character{})
	if result.Error != nil {
		return false, fmt.Errorf("delete character failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
