// internal/model/player.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Player はゲームとフラッシュカードを利用するユーザを表します
type Player struct {
	PlayerID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"player_id"`
	Name         string         `gorm:"not null;uniqueIndex" json:"name"`
	Email        string         `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除用
}

func (Player) TableName() string {
	return "players"
}
