//go:generate mockery --name DeckRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"arcade_gate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeckRepository interface {
	Create(ctx context.Context, db *gorm.DB, deck *model.Deck) error
	FindByID(ctx context.Context, db *gorm.DB, playerID, deckID uuid.UUID) (*model.Deck, error)
	FindByPlayer(ctx context.Context, db *gorm.DB, playerID uuid.UUID) ([]*model.Deck, error)
	CheckNameExists(ctx context.Context, db *gorm.DB, playerID uuid.UUID, name string, excludeDeckID *uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, deck *model.Deck) error
	Delete(ctx context.Context, tx *gorm.DB, playerID, deckID uuid.UUID) error
}

type gormDeckRepository struct{}

func NewGormDeckRepository() DeckRepository {
	return &gormDeckRepository{}
}

func (r *gormDeckRepository) Create(ctx context.Context, db *gorm.DB, deck *model.Deck) error {
	result := db.WithContext(ctx).Create(deck)
	if result.Error != nil {
		return fmt.Errorf("gormDeckRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormDeckRepository) FindByID(ctx context.Context, db *gorm.DB, playerID, deckID uuid.UUID) (*model.Deck, error) {
	var deck model.Deck
	result := db.WithContext(ctx).Where("player_id = ? AND deck_id = ?", playerID, deckID).First(&deck)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormDeckRepository.FindByID: %w", result.Error)
	}
	return &deck, nil
}

func (r *gormDeckRepository) FindByPlayer(ctx context.Context, db *gorm.DB, playerID uuid.UUID) ([]*model.Deck, error) {
	var decks []*model.Deck
	result := db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at ASC").
		Find(&decks)
	if result.Error != nil {
		return nil, fmt.Errorf("gormDeckRepository.FindByPlayer: %w", result.Error)
	}
	return decks, nil
}

func (r *gormDeckRepository) CheckNameExists(ctx context.Context, db *gorm.DB, playerID uuid.UUID, name string, excludeDeckID *uuid.UUID) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(&model.Deck{}).
		Where("player_id = ? AND name = ?", playerID, name)
	if excludeDeckID != nil {
		query = query.Where("deck_id != ?", *excludeDeckID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("gormDeckRepository.CheckNameExists: %w", err)
	}
	return count > 0, nil
}

func (r *gormDeckRepository) Update(ctx context.Context, tx *gorm.DB, deck *model.Deck) error {
	result := tx.WithContext(ctx).Save(deck)
	if result.Error != nil {
		return fmt.Errorf("gormDeckRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormDeckRepository) Delete(ctx context.Context, tx *gorm.DB, playerID, deckID uuid.UUID) error {
	// デッキ配下のカードもまとめて論理削除する
	result := tx.WithContext(ctx).Where("player_id = ? AND deck_id = ?", playerID, deckID).Delete(&model.Deck{})
	if result.Error != nil {
		return fmt.Errorf("gormDeckRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	if err := tx.WithContext(ctx).Where("player_id = ? AND deck_id = ?", playerID, deckID).Delete(&model.Card{}).Error; err != nil {
		return fmt.Errorf("gormDeckRepository.Delete cards: %w", err)
	}
	return nil
}
