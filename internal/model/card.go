// internal/model/card.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card はフラッシュカード1枚（表面と裏面）を表します
type Card struct {
	CardID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"card_id"`
	DeckID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"deck_id"`
	PlayerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Front     string         `gorm:"not null" json:"front"` // 問題面
	Back      string         `gorm:"not null" json:"back"`  // 解答面
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除用

	// 関連 (Preload用)
	Progress *CardProgress `gorm:"foreignKey:CardID;references:CardID" json:"-"`
}

func (Card) TableName() string {
	return "cards"
}

type ReviewLevel int

const (
	Level1 ReviewLevel = iota + 1 // 1
	Level2                        // 2
	Level3                        // 3
)

// CardProgress はカードの復習進捗を表します。
// 進捗レコードが存在しないカードは「新規カード」として扱われます。
type CardProgress struct {
	ProgressID     uuid.UUID   `gorm:"type:uuid;primaryKey"`
	PlayerID       uuid.UUID   `gorm:"type:uuid;not null;index:idx_player_card,unique"` // 複合ユニークインデックスの一部
	CardID         uuid.UUID   `gorm:"type:uuid;not null;index:idx_player_card,unique"` // 複合ユニークインデックスの一部
	Level          ReviewLevel `gorm:"not null;default:1"`
	NextReviewDate time.Time   `gorm:"not null;index"`
	LastReviewedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// 関連 (Preload用)
	Card *Card `gorm:"foreignKey:CardID;references:CardID" json:"-"`
}

func (CardProgress) TableName() string {
	return "card_progress"
}

// カード作成リクエストDTO
type CreateCardRequest struct {
	Front string `json:"front" validate:"required,min=1"`
	Back  string `json:"back" validate:"required,min=1"`
}

// カード更新リクエストDTO
type UpdateCardRequest struct {
	Front *string `json:"front,omitempty" validate:"omitempty,min=1"`
	Back  *string `json:"back,omitempty" validate:"omitempty,min=1"`
}
