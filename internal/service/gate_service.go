// internal/service/gate_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/policy"
	"arcade_gate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GateService はゲーム開始可否の判定と復習義務の管理を担います。
// ゲーム終了時にスコア帯からノルマを計算し、復習1枚ごとに消化します。
type GateService interface {
	CanStartGame(ctx context.Context, playerID uuid.UUID) (bool, error)
	OnGameEnd(ctx context.Context, playerID uuid.UUID, result model.GameResult) (*model.PlayerProgress, error)
	ReportReviewCompleted(ctx context.Context, playerID uuid.UUID) (*model.PlayerProgress, error)
	Waive(ctx context.Context, playerID uuid.UUID) (*model.PlayerProgress, error)
	GetProgress(ctx context.Context, playerID uuid.UUID) (*model.PlayerProgress, error)
	SelectReviewTarget(ctx context.Context, playerID uuid.UUID, deckID *uuid.UUID, filter model.CardFilter) (*model.PlayerProgress, error)
}

type gateService struct {
	db       *gorm.DB
	progRepo repository.ProgressRepository
}

func NewGateService(db *gorm.DB, progRepo repository.ProgressRepository) GateService {
	return &gateService{
		db:       db,
		progRepo: progRepo,
	}
}

// newDefaultProgress は初回プレイ用の進捗レコードを返します。
// 初回は義務なしで必ずプレイ可能です。
func newDefaultProgress(playerID uuid.UUID) *model.PlayerProgress {
	return &model.PlayerProgress{
		PlayerID:   playerID,
		CanPlay:    true,
		CardFilter: model.FilterDue,
	}
}

func (s *gateService) loadOrInit(ctx context.Context, db *gorm.DB, playerID uuid.UUID) (*model.PlayerProgress, error) {
	progress, err := s.progRepo.Get(ctx, db, playerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return newDefaultProgress(playerID), nil
		}
		return nil, err
	}
	return progress, nil
}

func (s *gateService) CanStartGame(ctx context.Context, playerID uuid.UUID) (bool, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID)

	progress, err := s.loadOrInit(ctx, s.db, playerID)
	if err != nil {
		// 読み込み失敗は致命的にしない。その場はプレイ可として扱い、
		// ハイスコアの永続化だけが保証されない状態になる。
		logger.Warn("Failed to load progress, falling back to in-memory default", "error", err)
		return true, nil
	}
	return progress.Remaining() == 0, nil
}

func (s *gateService) OnGameEnd(ctx context.Context, playerID uuid.UUID, result model.GameResult) (*model.PlayerProgress, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID, "score", result.Score, "won", result.Won)

	// 状態を変更する前にスコアを検証する
	quota, err := policy.ComputeRequiredReviews(result)
	if err != nil {
		logger.Warn("Invalid game result", "error", err)
		return nil, model.NewAppError("INVALID_INPUT", "ゲーム結果のスコアが不正です。", "score", model.ErrInvalidInput)
	}

	var saved *model.PlayerProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := s.loadOrInit(ctx, tx, playerID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の読み込みに失敗しました。", "", err)
		}

		// ハイスコアは単調増加
		if result.Score > progress.HighScore {
			progress.HighScore = result.Score
		}
		progress.LastGameScore = result.Score

		if result.Won {
			// 勝利時は義務なし
			progress.RequiredCount = 0
			progress.CompletedCount = 0
			progress.CanPlay = true
		} else {
			progress.RequiredCount = quota
			progress.CompletedCount = 0
			progress.CanPlay = false
		}

		if err := s.progRepo.Save(ctx, tx, progress); err != nil {
			return model.NewAppError("PERSISTENCE_FAILURE", "進捗の保存に失敗しました。", "", err)
		}
		saved = progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Game end recorded", "required_count", saved.RequiredCount, "high_score", saved.HighScore)
	return saved, nil
}

func (s *gateService) ReportReviewCompleted(ctx context.Context, playerID uuid.UUID) (*model.PlayerProgress, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID)

	var saved *model.PlayerProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := s.loadOrInit(ctx, tx, playerID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の読み込みに失敗しました。", "", err)
		}

		// 消化済み枚数はノルマを超えない（残数が負にならない）
		if progress.CompletedCount < progress.RequiredCount {
			progress.CompletedCount++
		}
		if progress.Remaining() == 0 && !progress.CanPlay {
			progress.CanPlay = true
			logger.Info("Review quota met, game unlocked")
		}

		if err := s.progRepo.Save(ctx, tx, progress); err != nil {
			return model.NewAppError("PERSISTENCE_FAILURE", "進捗の保存に失敗しました。", "", err)
		}
		saved = progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Waive は復習対象のカードが1枚もない場合などに、
// ユーザの明示的な操作で義務を免除します。
func (s *gateService) Waive(ctx context.Context, playerID uuid.UUID) (*model.PlayerProgress, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID)

	var saved *model.PlayerProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := s.loadOrInit(ctx, tx, playerID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の読み込みに失敗しました。", "", err)
		}

		progress.CompletedCount = progress.RequiredCount
		progress.CanPlay = true

		if err := s.progRepo.Save(ctx, tx, progress); err != nil {
			return model.NewAppError("PERSISTENCE_FAILURE", "進捗の保存に失敗しました。", "", err)
		}
		saved = progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Review obligation waived")
	return saved, nil
}

func (s *gateService) GetProgress(ctx context.Context, playerID uuid.UUID) (*model.PlayerProgress, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID)

	progress, err := s.loadOrInit(ctx, s.db, playerID)
	if err != nil {
		// 読み込み失敗でもプレイは継続できる（スコアは揮発する）
		logger.Warn("Failed to load progress, returning in-memory default", "error", err)
		return newDefaultProgress(playerID), nil
	}
	return progress, nil
}

// SelectReviewTarget はデッキとカード種別の選択を保存します。
// 義務の途中で変更しても RequiredCount は変わりません。
func (s *gateService) SelectReviewTarget(ctx context.Context, playerID uuid.UUID, deckID *uuid.UUID, filter model.CardFilter) (*model.PlayerProgress, error) {
	if !filter.IsValid() {
		return nil, model.NewAppError("INVALID_INPUT", fmt.Sprintf("カード種別 %q は指定できません。", filter), "card_filter", model.ErrInvalidInput)
	}

	var saved *model.PlayerProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := s.loadOrInit(ctx, tx, playerID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の読み込みに失敗しました。", "", err)
		}

		progress.SelectedDeckID = deckID
		progress.CardFilter = filter

		if err := s.progRepo.Save(ctx, tx, progress); err != nil {
			return model.NewAppError("PERSISTENCE_FAILURE", "進捗の保存に失敗しました。", "", err)
		}
		saved = progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
