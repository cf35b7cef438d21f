// internal/service/game_service_test.go
package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"arcade_gate/internal/config"
	"arcade_gate/internal/model"
	"arcade_gate/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBGame(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PlayerProgress{}, &model.GameSession{}))
	return db
}

func newTestGameService(t *testing.T, idleTimeoutMS int) (GameService, GateService, *gorm.DB) {
	t.Helper()
	db := setupTestDBGame(t)
	cfg := &config.Config{}
	cfg.App.GameTickMS = 150
	cfg.App.GameIdleTimeoutMS = idleTimeoutMS

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gate := NewGateService(db, repository.NewGormProgressRepository())
	svc := NewGameService(db, repository.NewGormGameRepository(), gate, cfg, testLogger)
	return svc, gate, db
}

func Test_gameService_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 初回プレイヤーはゲームを開始できる", func(t *testing.T) {
		svc, _, db := newTestGameService(t, 60000)
		playerID := uuid.New()

		resp, err := svc.StartGame(ctx, playerID)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.GameID)
		assert.Equal(t, 3, resp.Lives)
		assert.Equal(t, 0, resp.HighScore)

		// セッションが永続化されていること
		var session model.GameSession
		require.NoError(t, db.First(&session, "game_id = ?", resp.GameID).Error)
		assert.Equal(t, model.GameStateRunning, session.State)
	})

	t.Run("異常系: 復習義務が残っていると開始できない", func(t *testing.T) {
		svc, _, db := newTestGameService(t, 60000)
		playerID := uuid.New()
		require.NoError(t, db.Create(&model.PlayerProgress{
			PlayerID: playerID, RequiredCount: 20, CompletedCount: 5,
			CanPlay: false, CardFilter: model.FilterDue,
		}).Error)

		_, err := svc.StartGame(ctx, playerID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrGameLocked)
	})

	t.Run("正常系: 義務を消化しきっていれば再び開始できる", func(t *testing.T) {
		svc, _, db := newTestGameService(t, 60000)
		playerID := uuid.New()
		require.NoError(t, db.Create(&model.PlayerProgress{
			PlayerID: playerID, HighScore: 700, RequiredCount: 20, CompletedCount: 20,
			CanPlay: true, CardFilter: model.FilterDue,
		}).Error)

		resp, err := svc.StartGame(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 700, resp.HighScore)
	})
}

func Test_gameService_Finish(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: ギブアップするとスコア0の敗北として義務が課される", func(t *testing.T) {
		svc, _, db := newTestGameService(t, 60000)
		playerID := uuid.New()

		start, err := svc.StartGame(ctx, playerID)
		require.NoError(t, err)

		resp, err := svc.Finish(ctx, playerID, start.GameID)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Score)
		assert.False(t, resp.Won)
		assert.Equal(t, 20, resp.RequiredCount) // スコア帯[0,500)
		assert.Equal(t, 20, resp.Remaining)
		assert.False(t, resp.CanPlay)

		// セッションが終了状態で記録されていること
		var session model.GameSession
		require.NoError(t, db.First(&session, "game_id = ?", start.GameID).Error)
		assert.Equal(t, model.GameStateFinished, session.State)
		require.NotNil(t, session.EndedAt)

		// 同じゲームを二重に終了することはできない
		_, err = svc.Finish(ctx, playerID, start.GameID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 存在しないゲームは終了できない", func(t *testing.T) {
		svc, _, _ := newTestGameService(t, 60000)
		_, err := svc.Finish(ctx, uuid.New(), uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 他プレイヤーのゲームは見えない", func(t *testing.T) {
		svc, _, _ := newTestGameService(t, 60000)
		owner := uuid.New()
		other := uuid.New()

		start, err := svc.StartGame(ctx, owner)
		require.NoError(t, err)

		_, err = svc.Finish(ctx, other, start.GameID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)

		// 所有者は引き続き操作できる
		_, err = svc.Snapshot(ctx, owner, start.GameID)
		require.NoError(t, err)
	})
}

func Test_gameService_Controls(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestGameService(t, 60000)
	playerID := uuid.New()

	start, err := svc.StartGame(ctx, playerID)
	require.NoError(t, err)

	t.Run("正常系: 方向変更とステップ実行", func(t *testing.T) {
		require.NoError(t, svc.SetDirection(ctx, playerID, start.GameID, "left"))

		snap, err := svc.Step(ctx, playerID, start.GameID)
		require.NoError(t, err)
		assert.Equal(t, "running", snap.State)
	})

	t.Run("正常系: 一時停止中はステップしても状態が進まない", func(t *testing.T) {
		require.NoError(t, svc.Pause(ctx, playerID, start.GameID))

		before, err := svc.Snapshot(ctx, playerID, start.GameID)
		require.NoError(t, err)
		assert.Equal(t, "paused", before.State)

		after, err := svc.Step(ctx, playerID, start.GameID)
		require.NoError(t, err)
		assert.Equal(t, before.PacmanX, after.PacmanX)
		assert.Equal(t, before.PacmanY, after.PacmanY)

		require.NoError(t, svc.Resume(ctx, playerID, start.GameID))
		resumed, err := svc.Snapshot(ctx, playerID, start.GameID)
		require.NoError(t, err)
		assert.Equal(t, "running", resumed.State)
	})

	t.Run("異常系: 不正な方向はエラー", func(t *testing.T) {
		err := svc.SetDirection(ctx, playerID, start.GameID, "diagonal")
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func Test_gameService_ReapIdleGames(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: タイムアウトしたゲームは破棄される", func(t *testing.T) {
		// タイムアウト0msなので、開始直後のゲームも即座に回収対象になる
		svc, gate, db := newTestGameService(t, 0)
		playerID := uuid.New()

		start, err := svc.StartGame(ctx, playerID)
		require.NoError(t, err)

		n := svc.ReapIdleGames(ctx)
		assert.Equal(t, 1, n)

		_, err = svc.Snapshot(ctx, playerID, start.GameID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)

		// セッションは期限切れとして記録され、義務は課されない
		var session model.GameSession
		require.NoError(t, db.First(&session, "game_id = ?", start.GameID).Error)
		assert.Equal(t, model.GameStateExpired, session.State)

		ok, err := gate.CanStartGame(ctx, playerID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("正常系: タイムアウト前のゲームは残る", func(t *testing.T) {
		svc, _, _ := newTestGameService(t, 60000)
		playerID := uuid.New()

		start, err := svc.StartGame(ctx, playerID)
		require.NoError(t, err)

		n := svc.ReapIdleGames(ctx)
		assert.Equal(t, 0, n)

		_, err = svc.Snapshot(ctx, playerID, start.GameID)
		require.NoError(t, err)
	})
}
