// internal/model/review.go
package model

import "github.com/google/uuid"

// ReviewCardResponse は復習カードリストのレスポンスDTO
type ReviewCardResponse struct {
	CardID uuid.UUID `json:"card_id"`
	DeckID uuid.UUID `json:"deck_id"`
	Front  string    `json:"front"`
	Back   string    `json:"back"` // 正解表示用に含める
	Level  int       `json:"level"`
	IsNew  bool      `json:"is_new"` // 進捗レコードが無い新規カードか
}

// SubmitReviewRequest は復習結果送信リクエストのDTO
type SubmitReviewRequest struct {
	IsCorrect *bool `json:"is_correct" validate:"required"`
}

// SubmitReviewResponse は復習結果送信後の義務の状態を返すDTO
type SubmitReviewResponse struct {
	Remaining int  `json:"remaining"`
	CanPlay   bool `json:"can_play"`
}
