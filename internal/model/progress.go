// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// GameResult は1回のゲーム終了時の結果を表す不変値です
type GameResult struct {
	Score int  // 最終スコア (非負)
	Won   bool // 全ドットを食べきって勝利したか
}

// PlayerProgress はプレイヤーごとのハイスコアと復習義務の状態を表します。
// プレイヤーにつき1レコードで、アプリ再起動をまたいで永続化されます。
type PlayerProgress struct {
	PlayerID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"player_id"`
	HighScore      int        `gorm:"not null;default:0" json:"high_score"`
	LastGameScore  int        `gorm:"not null;default:0" json:"last_game_score"`
	RequiredCount  int        `gorm:"not null;default:0" json:"required_count"`  // 課された復習枚数
	CompletedCount int        `gorm:"not null;default:0" json:"completed_count"` // 消化済み枚数
	CanPlay        bool       `gorm:"not null;default:true" json:"can_play"`
	SelectedDeckID *uuid.UUID `gorm:"type:uuid" json:"selected_deck_id,omitempty"` // nilなら全デッキ対象
	CardFilter     CardFilter `gorm:"type:varchar(10);not null;default:due" json:"card_filter"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (PlayerProgress) TableName() string {
	return "player_progress"
}

// Remaining は復習義務の残り枚数を返します。0未満にはなりません。
func (p *PlayerProgress) Remaining() int {
	rest := p.RequiredCount - p.CompletedCount
	if rest < 0 {
		return 0
	}
	return rest
}

// 復習対象（デッキ・カード種別）変更リクエストDTO。
// 義務の途中で変更しても RequiredCount には影響しません。
type SelectReviewTargetRequest struct {
	DeckID     *uuid.UUID `json:"deck_id,omitempty"`
	CardFilter CardFilter `json:"card_filter" validate:"required,oneof=new due both"`
}

// ProgressResponse は進捗照会APIのレスポンスDTO
type ProgressResponse struct {
	HighScore      int        `json:"high_score"`
	LastGameScore  int        `json:"last_game_score"`
	RequiredCount  int        `json:"required_count"`
	CompletedCount int        `json:"completed_count"`
	Remaining      int        `json:"remaining"`
	CanPlay        bool       `json:"can_play"`
	SelectedDeckID *uuid.UUID `json:"selected_deck_id,omitempty"`
	CardFilter     CardFilter `json:"card_filter"`
}
