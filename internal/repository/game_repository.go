//go:generate mockery --name GameRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"arcade_gate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GameRepository interface {
	Create(ctx context.Context, db *gorm.DB, session *model.GameSession) error
	FindByID(ctx context.Context, db *gorm.DB, playerID, gameID uuid.UUID) (*model.GameSession, error)
	Update(ctx context.Context, tx *gorm.DB, session *model.GameSession) error
}

type gormGameRepository struct{}

func NewGormGameRepository() GameRepository {
	return &gormGameRepository{}
}

func (r *gormGameRepository) Create(ctx context.Context, db *gorm.DB, session *model.GameSession) error {
	result := db.WithContext(ctx).Create(session)
	if result.Error != nil {
		return fmt.Errorf("gormGameRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormGameRepository) FindByID(ctx context.Context, db *gorm.DB, playerID, gameID uuid.UUID) (*model.GameSession, error) {
	var session model.GameSession
	result := db.WithContext(ctx).Where("player_id = ? AND game_id = ?", playerID, gameID).First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormGameRepository.FindByID: %w", result.Error)
	}
	return &session, nil
}

func (r *gormGameRepository) Update(ctx context.Context, tx *gorm.DB, session *model.GameSession) error {
	result := tx.WithContext(ctx).Save(session)
	if result.Error != nil {
		return fmt.Errorf("gormGameRepository.Update: %w", result.Error)
	}
	return nil
}
