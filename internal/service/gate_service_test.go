// internal/service/gate_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"arcade_gate/internal/model"
	"arcade_gate/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 (インメモリDBセットアップ) ---
func setupTestDBGate(t *testing.T) *gorm.DB {
	t.Helper()
	// テスト間でデータを共有しないよう、テストごとに固有のDSNを使う
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // テスト中はログを抑制
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PlayerProgress{}))
	return db
}

func newTestGateService(t *testing.T) (GateService, *gorm.DB, repository.ProgressRepository) {
	t.Helper()
	db := setupTestDBGate(t)
	progRepo := repository.NewGormProgressRepository()
	return NewGateService(db, progRepo), db, progRepo
}

func Test_gateService_CanStartGame(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		progress *model.PlayerProgress // nilなら未登録プレイヤー
		want     bool
	}{
		{
			name:     "正常系: 進捗レコードが無い初回プレイヤーはプレイ可能",
			progress: nil,
			want:     true,
		},
		{
			name: "正常系: 義務が残っていないプレイヤーはプレイ可能",
			progress: &model.PlayerProgress{
				RequiredCount: 20, CompletedCount: 20, CanPlay: true, CardFilter: model.FilterDue,
			},
			want: true,
		},
		{
			name: "正常系: 義務が1枚でも残っていればプレイ不可",
			progress: &model.PlayerProgress{
				RequiredCount: 20, CompletedCount: 19, CanPlay: false, CardFilter: model.FilterDue,
			},
			want: false,
		},
		{
			name: "正常系: 消化数がノルマを超えていてもプレイ可能",
			progress: &model.PlayerProgress{
				RequiredCount: 20, CompletedCount: 25, CanPlay: true, CardFilter: model.FilterDue,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db, _ := newTestGateService(t)
			playerID := uuid.New()
			if tt.progress != nil {
				tt.progress.PlayerID = playerID
				require.NoError(t, db.Create(tt.progress).Error)
			}

			got, err := svc.CanStartGame(ctx, playerID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_gateService_OnGameEnd(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name              string
		before            *model.PlayerProgress
		result            model.GameResult
		wantErrIs         error
		wantRequiredCount int
		wantHighScore     int
		wantCanPlay       bool
	}{
		{
			name:              "正常系: スコア帯[0,500)は20枚のノルマ",
			result:            model.GameResult{Score: 450, Won: false},
			wantRequiredCount: 20,
			wantHighScore:     450,
			wantCanPlay:       false,
		},
		{
			name:              "正常系: スコア帯[500,1000)は30枚のノルマ",
			result:            model.GameResult{Score: 500, Won: false},
			wantRequiredCount: 30,
			wantHighScore:     500,
			wantCanPlay:       false,
		},
		{
			name:              "正常系: スコア帯[1000,∞)は40枚のノルマ",
			result:            model.GameResult{Score: 3000, Won: false},
			wantRequiredCount: 40,
			wantHighScore:     3000,
			wantCanPlay:       false,
		},
		{
			name:              "正常系: 勝利時はノルマなしでプレイ可能のまま",
			result:            model.GameResult{Score: 1570, Won: true},
			wantRequiredCount: 0,
			wantHighScore:     1570,
			wantCanPlay:       true,
		},
		{
			name: "正常系: ハイスコアは更新されるが下回っても維持",
			before: &model.PlayerProgress{
				HighScore: 2000, CanPlay: true, CardFilter: model.FilterDue,
			},
			result:            model.GameResult{Score: 100, Won: false},
			wantRequiredCount: 20,
			wantHighScore:     2000,
			wantCanPlay:       false,
		},
		{
			name: "正常系: 消化途中の義務は新しいノルマで上書き",
			before: &model.PlayerProgress{
				RequiredCount: 30, CompletedCount: 12, CanPlay: false, CardFilter: model.FilterDue,
			},
			result:            model.GameResult{Score: 10, Won: false},
			wantRequiredCount: 20,
			wantHighScore:     10,
			wantCanPlay:       false,
		},
		{
			name:      "異常系: 負のスコアはエラーで状態を変更しない",
			result:    model.GameResult{Score: -10, Won: false},
			wantErrIs: model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db, _ := newTestGateService(t)
			playerID := uuid.New()
			if tt.before != nil {
				tt.before.PlayerID = playerID
				require.NoError(t, db.Create(tt.before).Error)
			}

			progress, err := svc.OnGameEnd(ctx, playerID, tt.result)

			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRequiredCount, progress.RequiredCount)
			assert.Equal(t, 0, progress.CompletedCount)
			assert.Equal(t, tt.wantHighScore, progress.HighScore)
			assert.Equal(t, tt.result.Score, progress.LastGameScore)
			assert.Equal(t, tt.wantCanPlay, progress.CanPlay)

			// 永続化されていること
			var stored model.PlayerProgress
			require.NoError(t, db.First(&stored, "player_id = ?", playerID).Error)
			assert.Equal(t, tt.wantRequiredCount, stored.RequiredCount)
			assert.Equal(t, tt.wantHighScore, stored.HighScore)
		})
	}
}

func Test_gateService_OnGameEnd_InvalidScoreKeepsState(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestGateService(t)
	playerID := uuid.New()

	before := &model.PlayerProgress{
		PlayerID: playerID, HighScore: 800, RequiredCount: 30, CompletedCount: 5,
		CanPlay: false, CardFilter: model.FilterDue,
	}
	require.NoError(t, db.Create(before).Error)

	_, err := svc.OnGameEnd(ctx, playerID, model.GameResult{Score: -1, Won: false})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	var stored model.PlayerProgress
	require.NoError(t, db.First(&stored, "player_id = ?", playerID).Error)
	assert.Equal(t, 800, stored.HighScore)
	assert.Equal(t, 30, stored.RequiredCount)
	assert.Equal(t, 5, stored.CompletedCount)
}

func Test_gateService_ReportReviewCompleted(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 1枚消化するごとに残数が減り、0でプレイ可能になる", func(t *testing.T) {
		svc, db, _ := newTestGateService(t)
		playerID := uuid.New()
		require.NoError(t, db.Create(&model.PlayerProgress{
			PlayerID: playerID, RequiredCount: 3, CompletedCount: 0,
			CanPlay: false, CardFilter: model.FilterDue,
		}).Error)

		for i := 1; i <= 2; i++ {
			progress, err := svc.ReportReviewCompleted(ctx, playerID)
			require.NoError(t, err)
			assert.Equal(t, 3-i, progress.Remaining())
			assert.False(t, progress.CanPlay)
		}

		progress, err := svc.ReportReviewCompleted(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 0, progress.Remaining())
		assert.True(t, progress.CanPlay)
	})

	t.Run("正常系: ノルマ達成後の復習では消化数が増えない", func(t *testing.T) {
		svc, _, _ := newTestGateService(t)
		playerID := uuid.New()

		// 進捗レコードが無い状態(ノルマ0)で復習しても残数は0のまま
		progress, err := svc.ReportReviewCompleted(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 0, progress.Remaining())
		assert.Equal(t, 0, progress.CompletedCount)
		assert.True(t, progress.CanPlay)
	})
}

func Test_gateService_Waive(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestGateService(t)
	playerID := uuid.New()
	require.NoError(t, db.Create(&model.PlayerProgress{
		PlayerID: playerID, RequiredCount: 20, CompletedCount: 3,
		CanPlay: false, CardFilter: model.FilterDue,
	}).Error)

	progress, err := svc.Waive(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Remaining())
	assert.True(t, progress.CanPlay)

	ok, err := svc.CanStartGame(ctx, playerID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func Test_gateService_SelectReviewTarget(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: デッキと種別の変更は義務に影響しない", func(t *testing.T) {
		svc, db, _ := newTestGateService(t)
		playerID := uuid.New()
		require.NoError(t, db.Create(&model.PlayerProgress{
			PlayerID: playerID, RequiredCount: 30, CompletedCount: 10,
			CanPlay: false, CardFilter: model.FilterDue,
		}).Error)

		deckID := uuid.New()
		progress, err := svc.SelectReviewTarget(ctx, playerID, &deckID, model.FilterNew)
		require.NoError(t, err)

		assert.Equal(t, 30, progress.RequiredCount)
		assert.Equal(t, 10, progress.CompletedCount)
		assert.Equal(t, 20, progress.Remaining())
		require.NotNil(t, progress.SelectedDeckID)
		assert.Equal(t, deckID, *progress.SelectedDeckID)
		assert.Equal(t, model.FilterNew, progress.CardFilter)
	})

	t.Run("正常系: デッキをnilに戻すと全デッキ対象になる", func(t *testing.T) {
		svc, _, _ := newTestGateService(t)
		playerID := uuid.New()

		deckID := uuid.New()
		_, err := svc.SelectReviewTarget(ctx, playerID, &deckID, model.FilterBoth)
		require.NoError(t, err)

		progress, err := svc.SelectReviewTarget(ctx, playerID, nil, model.FilterBoth)
		require.NoError(t, err)
		assert.Nil(t, progress.SelectedDeckID)
	})

	t.Run("異常系: 不正なカード種別はエラー", func(t *testing.T) {
		svc, _, _ := newTestGateService(t)
		_, err := svc.SelectReviewTarget(ctx, uuid.New(), nil, model.CardFilter("random"))
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func Test_gateService_GetProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 未登録プレイヤーには初期値を返す", func(t *testing.T) {
		svc, _, _ := newTestGateService(t)
		progress, err := svc.GetProgress(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, progress.CanPlay)
		assert.Equal(t, 0, progress.HighScore)
		assert.Equal(t, 0, progress.Remaining())
		assert.Equal(t, model.FilterDue, progress.CardFilter)
	})

	t.Run("正常系: 保存済みの進捗をそのまま返す", func(t *testing.T) {
		svc, db, _ := newTestGateService(t)
		playerID := uuid.New()
		require.NoError(t, db.Create(&model.PlayerProgress{
			PlayerID: playerID, HighScore: 1230, RequiredCount: 40, CompletedCount: 40,
			CanPlay: true, CardFilter: model.FilterBoth,
		}).Error)

		progress, err := svc.GetProgress(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 1230, progress.HighScore)
		assert.Equal(t, 0, progress.Remaining())
		assert.Equal(t, model.FilterBoth, progress.CardFilter)
	})
}
