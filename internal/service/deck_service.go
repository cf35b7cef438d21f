// internal/service/deck_service.go
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

type DeckService interface {
	CreateDeck(ctx context.Context, playerID uuid.UUID, req *model.CreateDeckRequest) (*model.Deck, error)
	GetDeck(ctx context.Context, playerID, deckID uuid.UUID) (*model.Deck, error)
	ListDecks(ctx context.Context, playerID uuid.UUID) ([]*model.Deck, error)
	UpdateDeck(ctx context.Context, playerID, deckID uuid.UUID, req *model.UpdateDeckRequest) (*model.Deck, error)
	DeleteDeck(ctx context.Context, playerID, deckID uuid.UUID) error
}

type deckService struct {
	db       *gorm.DB
	deckRepo repository.DeckRepository
}

func NewDeckService(db *gorm.DB, deckRepo repository.DeckRepository) DeckService {
	return &deckService{
		db:       db,
		deckRepo: deckRepo,
	}
}

func (s *deckService) CreateDeck(ctx context.Context, playerID uuid.UUID, req *model.CreateDeckRequest) (*model.Deck, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID)

	var created *model.Deck
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.deckRepo.CheckNameExists(ctx, tx, playerID, req.Name, nil)
		if err != nil {
			logger.Error("Error checking deck name existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "デッキ名の確認中にエラーが発生しました。", "", err)
		}
		if exists {
			return model.NewAppError("DUPLICATE_NAME", "同じ名前のデッキが既に存在します。", "name", model.ErrConflict)
		}

		deck := &model.Deck{
			DeckID:   uuid.New(),
			PlayerID: playerID,
			Name:     req.Name,
		}
		if err := s.deckRepo.Create(ctx, tx, deck); err != nil {
			logger.Error("Error creating deck", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの作成に失敗しました。", "", err)
		}
		created = deck
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *deckService) GetDeck(ctx context.Context, playerID, deckID uuid.UUID) (*model.Deck, error) {
	deck, err := s.deckRepo.FindByID(ctx, s.db, playerID, deckID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "デッキが見つかりませんでした。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの取得に失敗しました。", "", err)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, playerID uuid.UUID) ([]*model.Deck, error) {
	decks, err := s.deckRepo.FindByPlayer(ctx, s.db, playerID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "デッキ一覧の取得に失敗しました。", "", err)
	}
	return decks, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, playerID, deckID uuid.UUID, req *model.UpdateDeckRequest) (*model.Deck, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID, "deck_id", deckID)

	var updated *model.Deck
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := s.deckRepo.FindByID(ctx, tx, playerID, deckID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "デッキが見つかりませんでした。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの取得に失敗しました。", "", err)
		}

		exists, err := s.deckRepo.CheckNameExists(ctx, tx, playerID, req.Name, &deckID)
		if err != nil {
			logger.Error("Error checking deck name existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "デッキ名の確認中にエラーが発生しました。", "", err)
		}
		if exists {
			return model.NewAppError("DUPLICATE_NAME", "同じ名前のデッキが既に存在します。", "name", model.ErrConflict)
		}

		deck.Name = req.Name
		if err := s.deckRepo.Update(ctx, tx, deck); err != nil {
			logger.Error("Error updating deck", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの更新に失敗しました。", "", err)
		}
		updated = deck
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, playerID, deckID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.deckRepo.Delete(ctx, tx, playerID, deckID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "デッキが見つかりませんでした。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの削除に失敗しました。", "", err)
		}
		return nil
	})
	return err
}
