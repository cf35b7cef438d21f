// internal/service/card_service.go
package service

import (
	"context"
	"errors"

	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardService interface {
	CreateCard(ctx context.Context, playerID, deckID uuid.UUID, req *model.CreateCardRequest) (*model.Card, error)
	GetCard(ctx context.Context, playerID, cardID uuid.UUID) (*model.Card, error)
	ListCards(ctx context.Context, playerID, deckID uuid.UUID) ([]*model.Card, error)
	UpdateCard(ctx context.Context, playerID, cardID uuid.UUID, req *model.UpdateCardRequest) (*model.Card, error)
	DeleteCard(ctx context.Context, playerID, cardID uuid.UUID) error
}

type cardService struct {
	db       *gorm.DB
	cardRepo repository.CardRepository
	deckRepo repository.DeckRepository
}

func NewCardService(db *gorm.DB, cardRepo repository.CardRepository, deckRepo repository.DeckRepository) CardService {
	return &cardService{
		db:       db,
		cardRepo: cardRepo,
		deckRepo: deckRepo,
	}
}

func (s *cardService) CreateCard(ctx context.Context, playerID, deckID uuid.UUID, req *model.CreateCardRequest) (*model.Card, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID, "deck_id", deckID)

	var created *model.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// デッキの所有確認
		if _, err := s.deckRepo.FindByID(ctx, tx, playerID, deckID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "デッキが見つかりませんでした。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの確認中にエラーが発生しました。", "", err)
		}

		card := &model.Card{
			CardID:   uuid.New(),
			DeckID:   deckID,
			PlayerID: playerID,
			Front:    req.Front,
			Back:     req.Back,
		}
		if err := s.cardRepo.Create(ctx, tx, card); err != nil {
			logger.Error("Error creating card", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "カードの作成に失敗しました。", "", err)
		}
		created = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *cardService) GetCard(ctx context.Context, playerID, cardID uuid.UUID) (*model.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, s.db, playerID, cardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "カードが見つかりませんでした。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "カードの取得に失敗しました。", "", err)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, playerID, deckID uuid.UUID) ([]*model.Card, error) {
	// 存在しないデッキと空のデッキを区別する
	if _, err := s.deckRepo.FindByID(ctx, s.db, playerID, deckID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "デッキが見つかりませんでした。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの確認中にエラーが発生しました。", "", err)
	}

	cards, err := s.cardRepo.FindByDeck(ctx, s.db, playerID, deckID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "カード一覧の取得に失敗しました。", "", err)
	}
	return cards, nil
}

func (s *cardService) UpdateCard(ctx context.Context, playerID, cardID uuid.UUID, req *model.UpdateCardRequest) (*model.Card, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID, "card_id", cardID)

	var updated *model.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := s.cardRepo.FindByID(ctx, tx, playerID, cardID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "カードが見つかりませんでした。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "カードの取得に失敗しました。", "", err)
		}

		if req.Front != nil {
			card.Front = *req.Front
		}
		if req.Back != nil {
			card.Back = *req.Back
		}

		if err := s.cardRepo.Update(ctx, tx, card); err != nil {
			logger.Error("Error updating card", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "カードの更新に失敗しました。", "", err)
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *cardService) DeleteCard(ctx context.Context, playerID, cardID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cardRepo.Delete(ctx, tx, playerID, cardID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "カードが見つかりませんでした。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "カードの削除に失敗しました。", "", err)
		}
		return nil
	})
	return err
}
