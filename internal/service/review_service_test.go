// internal/service/review_service_test.go
package service

import (
	"context"
	"testing"
	"time"

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

// --- テストヘルパー関数 (インメモリDBセットアップ) ---
func setupTestDBReview(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Deck{},
		&model.Card{},
		&model.CardProgress{},
		&model.PlayerProgress{},
	))
	return db
}

// ゲートも実装で組み、復習1枚ごとの義務消化まで含めて検証する
func newTestReviewService(t *testing.T) (ReviewService, GateService, *gorm.DB) {
	t.Helper()
	db := setupTestDBReview(t)
	cfg := &config.Config{}
	cfg.App.ReviewLimit = 10

	gate := NewGateService(db, repository.NewGormProgressRepository())
	svc := NewReviewService(db, repository.NewGormCardRepository(), repository.NewGormCardProgressRepository(), gate, cfg)
	return svc, gate, db
}

func createTestCard(t *testing.T, db *gorm.DB, playerID, deckID uuid.UUID, front string) *model.Card {
	t.Helper()
	card := &model.Card{
		CardID:   uuid.New(),
		DeckID:   deckID,
		PlayerID: playerID,
		Front:    front,
		Back:     front + "の答え",
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

func createDueProgress(t *testing.T, db *gorm.DB, playerID, cardID uuid.UUID, level model.ReviewLevel) {
	t.Helper()
	require.NoError(t, db.Create(&model.CardProgress{
		ProgressID:     uuid.New(),
		PlayerID:       playerID,
		CardID:         cardID,
		Level:          level,
		NextReviewDate: time.Now().AddDate(0, 0, -2), // 期限切れにしておく
	}).Error)
}

func Test_reviewService_GetReviewCards(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: newフィルタは未学習カードだけを返す", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		deckID := uuid.New()

		newCard := createTestCard(t, db, playerID, deckID, "新規")
		learned := createTestCard(t, db, playerID, deckID, "学習済み")
		createDueProgress(t, db, playerID, learned.CardID, model.Level1)

		cards, err := svc.GetReviewCards(ctx, playerID, nil, model.FilterNew)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, newCard.CardID, cards[0].CardID)
		assert.True(t, cards[0].IsNew)
	})

	t.Run("正常系: dueフィルタは期限切れカードだけを返す", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		deckID := uuid.New()

		createTestCard(t, db, playerID, deckID, "新規")
		due := createTestCard(t, db, playerID, deckID, "期限切れ")
		createDueProgress(t, db, playerID, due.CardID, model.Level2)

		// 期限がまだ先のカードは含まれない
		future := createTestCard(t, db, playerID, deckID, "期限まだ")
		require.NoError(t, db.Create(&model.CardProgress{
			ProgressID: uuid.New(), PlayerID: playerID, CardID: future.CardID,
			Level: model.Level1, NextReviewDate: time.Now().AddDate(0, 0, 7),
		}).Error)

		cards, err := svc.GetReviewCards(ctx, playerID, nil, model.FilterDue)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, due.CardID, cards[0].CardID)
		assert.False(t, cards[0].IsNew)
		assert.Equal(t, int(model.Level2), cards[0].Level)
	})

	t.Run("正常系: newフィルタで新規が無ければdueで代替する", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		deckID := uuid.New()

		due := createTestCard(t, db, playerID, deckID, "期限切れ")
		createDueProgress(t, db, playerID, due.CardID, model.Level1)

		cards, err := svc.GetReviewCards(ctx, playerID, nil, model.FilterNew)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, due.CardID, cards[0].CardID)
	})

	t.Run("正常系: dueフィルタで期限切れが無ければnewで代替する", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		deckID := uuid.New()

		newCard := createTestCard(t, db, playerID, deckID, "新規")

		cards, err := svc.GetReviewCards(ctx, playerID, nil, model.FilterDue)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, newCard.CardID, cards[0].CardID)
	})

	t.Run("正常系: bothフィルタは期限切れを優先して新規で埋める", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		deckID := uuid.New()

		createTestCard(t, db, playerID, deckID, "新規1")
		createTestCard(t, db, playerID, deckID, "新規2")
		due := createTestCard(t, db, playerID, deckID, "期限切れ")
		createDueProgress(t, db, playerID, due.CardID, model.Level1)

		cards, err := svc.GetReviewCards(ctx, playerID, nil, model.FilterBoth)
		require.NoError(t, err)
		require.Len(t, cards, 3)
		assert.Equal(t, due.CardID, cards[0].CardID) // 期限切れが先頭
	})

	t.Run("正常系: デッキ指定でそのデッキのカードに限定される", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		deckA := uuid.New()
		deckB := uuid.New()

		inA := createTestCard(t, db, playerID, deckA, "A")
		createTestCard(t, db, playerID, deckB, "B")

		cards, err := svc.GetReviewCards(ctx, playerID, &deckA, model.FilterNew)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, inA.CardID, cards[0].CardID)
	})

	t.Run("正常系: 対象カードが1枚も無ければ空スライス", func(t *testing.T) {
		svc, _, _ := newTestReviewService(t)
		cards, err := svc.GetReviewCards(ctx, uuid.New(), nil, model.FilterBoth)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("異常系: 不正なフィルタ値はエラー", func(t *testing.T) {
		svc, _, _ := newTestReviewService(t)
		_, err := svc.GetReviewCards(ctx, uuid.New(), nil, model.CardFilter("invalid"))
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func Test_reviewService_SubmitReview(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 正解すると進捗がレベルアップし義務を1枚消化する", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		card := createTestCard(t, db, playerID, uuid.New(), "問題")
		createDueProgress(t, db, playerID, card.CardID, model.Level1)
		require.NoError(t, db.Create(&model.PlayerProgress{
			PlayerID: playerID, RequiredCount: 20, CompletedCount: 0,
			CanPlay: false, CardFilter: model.FilterDue,
		}).Error)

		progress, err := svc.SubmitReview(ctx, playerID, card.CardID, true)
		require.NoError(t, err)
		assert.Equal(t, 19, progress.Remaining())
		assert.False(t, progress.CanPlay)

		var cp model.CardProgress
		require.NoError(t, db.First(&cp, "card_id = ?", card.CardID).Error)
		assert.Equal(t, model.Level2, cp.Level)
		assert.True(t, cp.NextReviewDate.After(time.Now()))
	})

	t.Run("正常系: 不正解でもレベル1に戻った上で義務を1枚消化する", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		card := createTestCard(t, db, playerID, uuid.New(), "問題")
		createDueProgress(t, db, playerID, card.CardID, model.Level3)
		require.NoError(t, db.Create(&model.PlayerProgress{
			PlayerID: playerID, RequiredCount: 2, CompletedCount: 1,
			CanPlay: false, CardFilter: model.FilterDue,
		}).Error)

		progress, err := svc.SubmitReview(ctx, playerID, card.CardID, false)
		require.NoError(t, err)
		assert.Equal(t, 0, progress.Remaining())
		assert.True(t, progress.CanPlay) // 最後の1枚を消化したので解放

		var cp model.CardProgress
		require.NoError(t, db.First(&cp, "card_id = ?", card.CardID).Error)
		assert.Equal(t, model.Level1, cp.Level)
	})

	t.Run("正常系: 新規カードの初回復習で進捗レコードが作られる", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		playerID := uuid.New()
		card := createTestCard(t, db, playerID, uuid.New(), "新規")

		_, err := svc.SubmitReview(ctx, playerID, card.CardID, true)
		require.NoError(t, err)

		var cp model.CardProgress
		require.NoError(t, db.First(&cp, "card_id = ?", card.CardID).Error)
		assert.Equal(t, model.Level2, cp.Level)
		require.NotNil(t, cp.LastReviewedAt)
	})

	t.Run("異常系: 存在しないカードはエラーで義務は減らない", func(t *testing.T) {
		svc, gate, db := newTestReviewService(t)
		playerID := uuid.New()
		require.NoError(t, db.Create(&model.PlayerProgress{
			PlayerID: playerID, RequiredCount: 5, CompletedCount: 0,
			CanPlay: false, CardFilter: model.FilterDue,
		}).Error)

		_, err := svc.SubmitReview(ctx, playerID, uuid.New(), true)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)

		progress, err := gate.GetProgress(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 5, progress.Remaining())
	})

	t.Run("異常系: 他プレイヤーのカードは見えない", func(t *testing.T) {
		svc, _, db := newTestReviewService(t)
		owner := uuid.New()
		other := uuid.New()
		card := createTestCard(t, db, owner, uuid.New(), "所有者のカード")

		_, err := svc.SubmitReview(ctx, other, card.CardID, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
