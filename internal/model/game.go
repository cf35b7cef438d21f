// internal/model/game.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// GameSessionState はゲームセッションの永続化上の状態です
type GameSessionState string

const (
	GameStateRunning  GameSessionState = "running"
	GameStateFinished GameSessionState = "finished"
	GameStateExpired  GameSessionState = "expired" // 一定時間操作がなく破棄されたもの
)

// GameSession は1回のゲーム試行の記録を表します
type GameSession struct {
	GameID    uuid.UUID        `gorm:"type:uuid;primaryKey" json:"game_id"`
	PlayerID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"-"`
	State     GameSessionState `gorm:"type:varchar(10);not null" json:"state"`
	Score     int              `gorm:"not null;default:0" json:"score"`
	Won       bool             `gorm:"not null;default:false" json:"won"`
	StartedAt time.Time        `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time       `json:"ended_at,omitempty"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}

// 方向変更リクエストDTO
type SetDirectionRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down left right"`
}

// GameStartResponse はゲーム開始APIのレスポンスDTO
type GameStartResponse struct {
	GameID    uuid.UUID `json:"game_id"`
	HighScore int       `json:"high_score"`
	Lives     int       `json:"lives"`
}

// GameEndResponse はゲーム終了時のレスポンスDTO。
// 次のゲームまでに必要な復習枚数を含みます。
type GameEndResponse struct {
	Score         int  `json:"score"`
	HighScore     int  `json:"high_score"`
	Won           bool `json:"won"`
	RequiredCount int  `json:"required_count"`
	Remaining     int  `json:"remaining"`
	CanPlay       bool `json:"can_play"`
}
