// internal/service/review_service.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"arcade_gate/internal/config"
	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewService は復習カードの抽出と復習結果の反映を担います。
// 復習が1枚完了するごとに GateService へ通知して義務を消化します。
type ReviewService interface {
	GetReviewCards(ctx context.Context, playerID uuid.UUID, deckID *uuid.UUID, filter model.CardFilter) ([]*model.ReviewCardResponse, error)
	SubmitReview(ctx context.Context, playerID, cardID uuid.UUID, isCorrect bool) (*model.PlayerProgress, error)
}

type reviewService struct {
	db           *gorm.DB
	cardRepo     repository.CardRepository
	cardProgRepo repository.CardProgressRepository
	gate         GateService
	cfg          *config.Config
}

func NewReviewService(db *gorm.DB, cardRepo repository.CardRepository, cardProgRepo repository.CardProgressRepository, gate GateService, cfg *config.Config) ReviewService {
	return &reviewService{
		db:           db,
		cardRepo:     cardRepo,
		cardProgRepo: cardProgRepo,
		gate:         gate,
		cfg:          cfg,
	}
}

func (s *reviewService) GetReviewCards(ctx context.Context, playerID uuid.UUID, deckID *uuid.UUID, filter model.CardFilter) ([]*model.ReviewCardResponse, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID, "filter", filter.String())

	if !filter.IsValid() {
		return nil, model.NewAppError("INVALID_INPUT", "カード種別に指定できない値が設定されています。", "card_filter", model.ErrInvalidInput)
	}

	limit := s.cfg.App.ReviewLimit
	responses := make([]*model.ReviewCardResponse, 0, limit)

	appendNew := func(remaining int) error {
		cards, err := s.cardRepo.FindNew(ctx, s.db, playerID, deckID, remaining)
		if err != nil {
			return err
		}
		for _, c := range cards {
			responses = append(responses, &model.ReviewCardResponse{
				CardID: c.CardID,
				DeckID: c.DeckID,
				Front:  c.Front,
				Back:   c.Back,
				Level:  int(model.Level1),
				IsNew:  true,
			})
		}
		return nil
	}

	appendDue := func(remaining int) error {
		progresses, err := s.cardRepo.FindDue(ctx, s.db, playerID, deckID, time.Now(), remaining)
		if err != nil {
			return err
		}
		for _, p := range progresses {
			if p.Card == nil {
				logger.Warn("Found progress with nil Card during review generation, skipping", "progress_id", p.ProgressID)
				continue
			}
			responses = append(responses, &model.ReviewCardResponse{
				CardID: p.CardID,
				DeckID: p.Card.DeckID,
				Front:  p.Card.Front,
				Back:   p.Card.Back,
				Level:  int(p.Level),
			})
		}
		return nil
	}

	var err error
	switch filter {
	case model.FilterNew:
		err = appendNew(limit)
		// 指定種別にカードが無ければもう一方の種別で代替する
		if err == nil && len(responses) == 0 {
			err = appendDue(limit)
		}
	case model.FilterDue:
		err = appendDue(limit)
		if err == nil && len(responses) == 0 {
			err = appendNew(limit)
		}
	case model.FilterBoth:
		err = appendDue(limit)
		if err == nil && len(responses) < limit {
			err = appendNew(limit - len(responses))
		}
	}
	if err != nil {
		logger.Error("Failed to find review cards from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習カードの取得に失敗しました。", "", err)
	}

	logger.Info("Successfully retrieved review cards", "count", len(responses))
	return responses, nil
}

func (s *reviewService) SubmitReview(ctx context.Context, playerID, cardID uuid.UUID, isCorrect bool) (*model.PlayerProgress, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID, "card_id", cardID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// カードの存在確認（論理削除済みは対象外）
		if _, err := s.cardRepo.FindByID(ctx, tx, playerID, cardID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "対象のカードが見つかりませんでした。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "カードの確認中にエラーが発生しました。", "", err)
		}

		progress, err := s.cardProgRepo.FindByCardID(ctx, tx, playerID, cardID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error finding card progress in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "復習進捗の確認中にエラーが発生しました。", "", err)
		}
		isFound := !errors.Is(err, model.ErrNotFound)

		newLevel, nextReviewDate := calculateNextProgress(progress, isCorrect, logger)
		now := time.Now()

		if !isFound {
			logger.Info("Card progress not found, creating new progress.", "is_correct", isCorrect)
			newProgress := &model.CardProgress{
				ProgressID:     uuid.New(),
				PlayerID:       playerID,
				CardID:         cardID,
				Level:          newLevel,
				NextReviewDate: nextReviewDate,
				LastReviewedAt: &now,
			}
			if createErr := s.cardProgRepo.Create(ctx, tx, newProgress); createErr != nil {
				logger.Error("Error creating new card progress", "error", createErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "復習進捗の作成に失敗しました。", "", createErr)
			}
		} else {
			logger.Info("Updating existing card progress.", "is_correct", isCorrect)
			progress.Level = newLevel
			progress.NextReviewDate = nextReviewDate
			progress.LastReviewedAt = &now
			if updateErr := s.cardProgRepo.Update(ctx, tx, progress); updateErr != nil {
				logger.Error("Error updating card progress", "error", updateErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "復習進捗の更新に失敗しました。", "", updateErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 正誤に関わらず、1枚完了ごとに義務を1つ消化する
	return s.gate.ReportReviewCompleted(ctx, playerID)
}

// calculateNextProgress は、次のレベルと復習日を計算するヘルパー関数
func calculateNextProgress(progress *model.CardProgress, isCorrect bool, logger *slog.Logger) (model.ReviewLevel, time.Time) {
	now := time.Now()

	if !isCorrect {
		// 間違えたらレベル1に戻り、すぐに再出題されるよう前日扱いにする
		return model.Level1, now.AddDate(0, 0, -1)
	}

	currentLevel := model.Level1
	if progress != nil {
		currentLevel = progress.Level
	}

	switch currentLevel {
	case model.Level1:
		return model.Level2, now.AddDate(0, 0, 3)
	case model.Level2:
		return model.Level3, now.AddDate(0, 0, 7)
	case model.Level3:
		return model.Level3, now.AddDate(0, 0, 14) // 最高レベル維持
	default:
		logger.Warn("Invalid review level found, resetting to Level 1", "invalid_level", int(currentLevel))
		return model.Level1, now.AddDate(0, 0, 1)
	}
}
