// internal/service/game_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"arcade_gate/internal/config"
	"arcade_gate/internal/game"
	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameService はゲームセッションのライフサイクルを管理します。
// 開始時にゲートの判定を受け、終了時に結果をゲートへ引き渡します。
type GameService interface {
	StartGame(ctx context.Context, playerID uuid.UUID) (*model.GameStartResponse, error)
	SetDirection(ctx context.Context, playerID, gameID uuid.UUID, direction string) error
	Pause(ctx context.Context, playerID, gameID uuid.UUID) error
	Resume(ctx context.Context, playerID, gameID uuid.UUID) error
	Step(ctx context.Context, playerID, gameID uuid.UUID) (*game.Snapshot, error)
	Snapshot(ctx context.Context, playerID, gameID uuid.UUID) (*game.Snapshot, error)
	Finish(ctx context.Context, playerID, gameID uuid.UUID) (*model.GameEndResponse, error)
	ReapIdleGames(ctx context.Context) int
}

// activeGame はメモリ上で進行中のゲーム1つを保持します。
// Engine自体は同期を持たないため、mu で直列化します。
type activeGame struct {
	mu         sync.Mutex
	engine     *game.Engine
	playerID   uuid.UUID
	lastActive time.Time
}

type gameService struct {
	db       *gorm.DB
	gameRepo repository.GameRepository
	gate     GateService
	cfg      *config.Config
	logger   *slog.Logger

	mu    sync.Mutex
	games map[uuid.UUID]*activeGame
}

func NewGameService(db *gorm.DB, gameRepo repository.GameRepository, gate GateService, cfg *config.Config, logger *slog.Logger) GameService {
	return &gameService{
		db:       db,
		gameRepo: gameRepo,
		gate:     gate,
		cfg:      cfg,
		logger:   logger,
		games:    make(map[uuid.UUID]*activeGame),
	}
}

func (s *gameService) StartGame(ctx context.Context, playerID uuid.UUID) (*model.GameStartResponse, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID)

	ok, err := s.gate.CanStartGame(ctx, playerID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "プレイ可否の判定に失敗しました。", "", err)
	}
	if !ok {
		progress, err := s.gate.GetProgress(ctx, playerID)
		remaining := 0
		if err == nil {
			remaining = progress.Remaining()
		}
		return nil, model.NewAppError("GAME_LOCKED",
			fmt.Sprintf("復習があと%d枚残っています。復習を完了するとプレイできます。", remaining),
			"", model.ErrGameLocked)
	}

	session := &model.GameSession{
		GameID:    uuid.New(),
		PlayerID:  playerID,
		State:     model.GameStateRunning,
		StartedAt: time.Now(),
	}
	if err := s.gameRepo.Create(ctx, s.db, session); err != nil {
		logger.Error("Failed to create game session", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ゲームセッションの作成に失敗しました。", "", err)
	}

	engine := game.New()
	ag := &activeGame{
		engine:     engine,
		playerID:   playerID,
		lastActive: time.Now(),
	}
	s.mu.Lock()
	s.games[session.GameID] = ag
	s.mu.Unlock()

	progress, gerr := s.gate.GetProgress(ctx, playerID)
	highScore := 0
	if gerr == nil {
		highScore = progress.HighScore
	}

	logger.Info("Game started", "game_id", session.GameID)
	return &model.GameStartResponse{
		GameID:    session.GameID,
		HighScore: highScore,
		Lives:     engine.Lives(),
	}, nil
}

// lookup は進行中ゲームを取得します。他プレイヤーのゲームは存在しない扱いです。
func (s *gameService) lookup(playerID, gameID uuid.UUID) (*activeGame, error) {
	s.mu.Lock()
	ag, ok := s.games[gameID]
	s.mu.Unlock()
	if !ok || ag.playerID != playerID {
		return nil, model.NewAppError("NOT_FOUND", "進行中のゲームが見つかりませんでした。", "", model.ErrNotFound)
	}
	return ag, nil
}

func (s *gameService) SetDirection(ctx context.Context, playerID, gameID uuid.UUID, direction string) error {
	d, err := game.ParseDirection(direction)
	if err != nil {
		return model.NewAppError("INVALID_INPUT", "方向に指定できない値が設定されています。", "direction", model.ErrInvalidInput)
	}

	ag, err := s.lookup(playerID, gameID)
	if err != nil {
		return err
	}

	ag.mu.Lock()
	ag.engine.SetDirection(d)
	ag.lastActive = time.Now()
	ag.mu.Unlock()
	return nil
}

func (s *gameService) Pause(ctx context.Context, playerID, gameID uuid.UUID) error {
	ag, err := s.lookup(playerID, gameID)
	if err != nil {
		return err
	}
	ag.mu.Lock()
	ag.engine.Pause()
	ag.lastActive = time.Now()
	ag.mu.Unlock()
	return nil
}

func (s *gameService) Resume(ctx context.Context, playerID, gameID uuid.UUID) error {
	ag, err := s.lookup(playerID, gameID)
	if err != nil {
		return err
	}
	ag.mu.Lock()
	ag.engine.Resume()
	ag.lastActive = time.Now()
	ag.mu.Unlock()
	return nil
}

// Step はゲームを1フレーム進め、最新のスナップショットを返します。
func (s *gameService) Step(ctx context.Context, playerID, gameID uuid.UUID) (*game.Snapshot, error) {
	ag, err := s.lookup(playerID, gameID)
	if err != nil {
		return nil, err
	}

	ag.mu.Lock()
	ag.engine.Step()
	ag.lastActive = time.Now()
	snap := ag.engine.Snapshot()
	ag.mu.Unlock()
	return &snap, nil
}

func (s *gameService) Snapshot(ctx context.Context, playerID, gameID uuid.UUID) (*game.Snapshot, error) {
	ag, err := s.lookup(playerID, gameID)
	if err != nil {
		return nil, err
	}
	ag.mu.Lock()
	snap := ag.engine.Snapshot()
	ag.mu.Unlock()
	return &snap, nil
}

// Finish はゲームを終了し、結果をゲートへ反映します。
// まだ終わっていないゲームを指定した場合はギブアップ扱いになります。
func (s *gameService) Finish(ctx context.Context, playerID, gameID uuid.UUID) (*model.GameEndResponse, error) {
	logger := middleware.GetLogger(ctx).With("player_id", playerID, "game_id", gameID)

	ag, err := s.lookup(playerID, gameID)
	if err != nil {
		return nil, err
	}

	ag.mu.Lock()
	if !ag.engine.Finished() {
		ag.engine.Forfeit()
	}
	score := ag.engine.Score()
	won := ag.engine.Won()
	ag.mu.Unlock()

	s.mu.Lock()
	delete(s.games, gameID)
	s.mu.Unlock()

	if err := s.persistSessionEnd(ctx, playerID, gameID, model.GameStateFinished, score, won); err != nil {
		// セッション記録の失敗ではゲーム結果を失わせない
		logger.Warn("Failed to persist game session result", "error", err)
	}

	progress, err := s.gate.OnGameEnd(ctx, playerID, model.GameResult{Score: score, Won: won})
	if err != nil {
		return nil, err
	}

	logger.Info("Game finished", "score", score, "won", won, "required_count", progress.RequiredCount)
	return &model.GameEndResponse{
		Score:         score,
		HighScore:     progress.HighScore,
		Won:           won,
		RequiredCount: progress.RequiredCount,
		Remaining:     progress.Remaining(),
		CanPlay:       progress.CanPlay,
	}, nil
}

func (s *gameService) persistSessionEnd(ctx context.Context, playerID, gameID uuid.UUID, state model.GameSessionState, score int, won bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := s.gameRepo.FindByID(ctx, tx, playerID, gameID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil // セッション行が無くても結果処理は続行する
			}
			return err
		}
		now := time.Now()
		session.State = state
		session.Score = score
		session.Won = won
		session.EndedAt = &now
		return s.gameRepo.Update(ctx, tx, session)
	})
}

// ReapIdleGames は一定時間操作の無いゲームを破棄し、破棄した件数を返します。
// 破棄されたゲームはスコア0の敗北としては扱わず、単に消滅します。
func (s *gameService) ReapIdleGames(ctx context.Context) int {
	timeout := time.Duration(s.cfg.App.GameIdleTimeoutMS) * time.Millisecond
	cutoff := time.Now().Add(-timeout)

	type expired struct {
		gameID   uuid.UUID
		playerID uuid.UUID
	}
	var victims []expired

	s.mu.Lock()
	for id, ag := range s.games {
		ag.mu.Lock()
		idle := ag.lastActive.Before(cutoff)
		ag.mu.Unlock()
		if idle {
			victims = append(victims, expired{gameID: id, playerID: ag.playerID})
			delete(s.games, id)
		}
	}
	s.mu.Unlock()

	for _, v := range victims {
		if err := s.persistSessionEnd(ctx, v.playerID, v.gameID, model.GameStateExpired, 0, false); err != nil {
			s.logger.Warn("Failed to mark idle game session as expired", "game_id", v.gameID, "error", err)
		}
		s.logger.Info("Reaped idle game", "game_id", v.gameID, "player_id", v.playerID)
	}
	return len(victims)
}

// RunJanitor は一定間隔でアイドルゲームの破棄を行うループです。
// ctx がキャンセルされるまでブロックします。
func RunJanitor(ctx context.Context, svc GameService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Game janitor stopped")
			return
		case <-ticker.C:
			if n := svc.ReapIdleGames(ctx); n > 0 {
				logger.Info("Idle games reaped", "count", n)
			}
		}
	}
}
