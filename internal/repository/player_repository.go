//go:generate mockery --name PlayerRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type PlayerRepository interface {
	Create(ctx context.Context, db *gorm.DB, player *model.Player) error
	FindByID(ctx context.Context, db *gorm.DB, playerID uuid.UUID) (*model.Player, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*model.Player, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Player, error)
}

type gormPlayerRepository struct{}

func NewGormPlayerRepository() PlayerRepository {
	return &gormPlayerRepository{}
}

func (r *gormPlayerRepository) Create(ctx context.Context, db *gorm.DB, player *model.Player) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(player)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Duplicate key error on create player",
				"error", result.Error,
				"player_name", player.Name,
			)
			return model.ErrConflict
		}
		logger.Error("Error creating player in DB", "error", result.Error)
		return fmt.Errorf("gormPlayerRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormPlayerRepository) FindByID(ctx context.Context, db *gorm.DB, playerID uuid.UUID) (*model.Player, error) {
	var player model.Player
	result := db.WithContext(ctx).Where("player_id = ?", playerID).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormPlayerRepository.FindByID: %w", result.Error)
	}
	return &player, nil
}

func (r *gormPlayerRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*model.Player, error) {
	var player model.Player
	result := db.WithContext(ctx).Where("name = ?", name).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormPlayerRepository.FindByName: %w", result.Error)
	}
	return &player, nil
}

func (r *gormPlayerRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Player, error) {
	var player model.Player
	result := db.WithContext(ctx).Where("email = ?", email).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormPlayerRepository.FindByEmail: %w", result.Error)
	}
	return &player, nil
}
