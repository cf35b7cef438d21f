// internal/model/deck.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deck はフラッシュカードの束（デッキ）を表します
type Deck struct {
	DeckID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"deck_id"`
	PlayerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除用
}

func (Deck) TableName() string {
	return "decks"
}

// デッキ作成リクエストDTO
type CreateDeckRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// デッキ更新リクエストDTO
type UpdateDeckRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
