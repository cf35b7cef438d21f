//go:generate mockery --name CardRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arcade_gate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardRepository interface {
	Create(ctx context.Context, db *gorm.DB, card *model.Card) error
	FindByID(ctx context.Context, db *gorm.DB, playerID, cardID uuid.UUID) (*model.Card, error)
	FindByDeck(ctx context.Context, db *gorm.DB, playerID, deckID uuid.UUID) ([]*model.Card, error)
	Update(ctx context.Context, tx *gorm.DB, card *model.Card) error
	Delete(ctx context.Context, tx *gorm.DB, playerID, cardID uuid.UUID) error

	// FindNew は進捗レコードがまだ無い（＝未学習の）カードを返します。
	// deckID が nil の場合は全デッキが対象です。
	FindNew(ctx context.Context, db *gorm.DB, playerID uuid.UUID, deckID *uuid.UUID, limit int) ([]*model.Card, error)
	// FindDue は復習期限が来たカードを進捗つきで返します。
	FindDue(ctx context.Context, db *gorm.DB, playerID uuid.UUID, deckID *uuid.UUID, today time.Time, limit int) ([]*model.CardProgress, error)
}

type gormCardRepository struct{}

func NewGormCardRepository() CardRepository {
	return &gormCardRepository{}
}

func (r *gormCardRepository) Create(ctx context.Context, db *gorm.DB, card *model.Card) error {
	result := db.WithContext(ctx).Create(card)
	if result.Error != nil {
		return fmt.Errorf("gormCardRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCardRepository) FindByID(ctx context.Context, db *gorm.DB, playerID, cardID uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := db.WithContext(ctx).Where("player_id = ? AND card_id = ?", playerID, cardID).First(&card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormCardRepository.FindByID: %w", result.Error)
	}
	return &card, nil
}

func (r *gormCardRepository) FindByDeck(ctx context.Context, db *gorm.DB, playerID, deckID uuid.UUID) ([]*model.Card, error) {
	var cards []*model.Card
	result := db.WithContext(ctx).
		Where("player_id = ? AND deck_id = ?", playerID, deckID).
		Order("created_at ASC").
		Find(&cards)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCardRepository.FindByDeck: %w", result.Error)
	}
	return cards, nil
}

func (r *gormCardRepository) Update(ctx context.Context, tx *gorm.DB, card *model.Card) error {
	result := tx.WithContext(ctx).Save(card)
	if result.Error != nil {
		return fmt.Errorf("gormCardRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormCardRepository) Delete(ctx context.Context, tx *gorm.DB, playerID, cardID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("player_id = ? AND card_id = ?", playerID, cardID).Delete(&model.Card{})
	if result.Error != nil {
		return fmt.Errorf("gormCardRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCardRepository) FindNew(ctx context.Context, db *gorm.DB, playerID uuid.UUID, deckID *uuid.UUID, limit int) ([]*model.Card, error) {
	var cards []*model.Card
	query := db.WithContext(ctx).
		Joins("LEFT JOIN card_progress ON card_progress.card_id = cards.card_id AND card_progress.player_id = ?", playerID).
		Where("cards.player_id = ? AND cards.deleted_at IS NULL AND card_progress.progress_id IS NULL", playerID)
	if deckID != nil {
		query = query.Where("cards.deck_id = ?", *deckID)
	}
	result := query.
		Order("cards.created_at ASC").
		Limit(limit).
		Find(&cards)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCardRepository.FindNew: %w", result.Error)
	}
	return cards, nil
}

func (r *gormCardRepository) FindDue(ctx context.Context, db *gorm.DB, playerID uuid.UUID, deckID *uuid.UUID, today time.Time, limit int) ([]*model.CardProgress, error) {
	var progresses []*model.CardProgress
	todayDate := today.Truncate(24 * time.Hour)

	// カードが論理削除されていないものだけを対象にする
	query := db.WithContext(ctx).
		Preload("Card", "deleted_at IS NULL").
		Joins("JOIN cards ON cards.card_id = card_progress.card_id AND cards.deleted_at IS NULL").
		Where("card_progress.player_id = ? AND card_progress.next_review_date <= ?", playerID, todayDate)
	if deckID != nil {
		query = query.Where("cards.deck_id = ?", *deckID)
	}
	result := query.
		Order("card_progress.next_review_date ASC, card_progress.level ASC").
		Limit(limit).
		Find(&progresses)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCardRepository.FindDue: %w", result.Error)
	}
	return progresses, nil
}
