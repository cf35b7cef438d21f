//go:generate mockery --name CardProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"arcade_gate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.CardProgress) error
	FindByCardID(ctx context.Context, db *gorm.DB, playerID, cardID uuid.UUID) (*model.CardProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *model.CardProgress) error
}

type gormCardProgressRepository struct{}

func NewGormCardProgressRepository() CardProgressRepository {
	return &gormCardProgressRepository{}
}

func (r *gormCardProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.CardProgress) error {
	// UUIDはService層で設定済み想定
	result := tx.WithContext(ctx).Create(progress)
	if result.Error != nil {
		return fmt.Errorf("gormCardProgressRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCardProgressRepository) FindByCardID(ctx context.Context, db *gorm.DB, playerID, cardID uuid.UUID) (*model.CardProgress, error) {
	var progress model.CardProgress
	result := db.WithContext(ctx).
		Preload("Card").
		Where("player_id = ? AND card_id = ?", playerID, cardID).
		First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormCardProgressRepository.FindByCardID: %w", result.Error)
	}
	// Preloadしたカードが論理削除済みなら進捗も無効とみなす
	if progress.Card != nil && progress.Card.DeletedAt.Valid {
		return nil, model.ErrNotFound
	}
	return &progress, nil
}

func (r *gormCardProgressRepository) Update(ctx context.Context, tx *gorm.DB, progress *model.CardProgress) error {
	result := tx.WithContext(ctx).Save(progress)
	if result.Error != nil {
		return fmt.Errorf("gormCardProgressRepository.Update: %w", result.Error)
	}
	return nil
}
