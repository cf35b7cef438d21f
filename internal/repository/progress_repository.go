//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"arcade_gate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressRepository はプレイヤーのハイスコア・復習義務レコードの永続化を担います。
// プレイヤーにつき1レコードで、load/saveはいずれも冪等です。
type ProgressRepository interface {
	Get(ctx context.Context, db *gorm.DB, playerID uuid.UUID) (*model.PlayerProgress, error)
	Save(ctx context.Context, tx *gorm.DB, progress *model.PlayerProgress) error
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Get(ctx context.Context, db *gorm.DB, playerID uuid.UUID) (*model.PlayerProgress, error) {
	var progress model.PlayerProgress
	result := db.WithContext(ctx).Where("player_id = ?", playerID).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormProgressRepository.Get: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) Save(ctx context.Context, tx *gorm.DB, progress *model.PlayerProgress) error {
	// 主キー(player_id)に基づく upsert
	result := tx.WithContext(ctx).Save(progress)
	if result.Error != nil {
		return fmt.Errorf("gormProgressRepository.Save: %w", result.Error)
	}
	return nil
}
