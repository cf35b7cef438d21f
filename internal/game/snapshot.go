// internal/game/snapshot.go
package game

// GhostView はスナップショット内のゴースト1体の状態です
type GhostView struct {
	X          int  `json:"x"`
	Y          int  `json:"y"`
	Frightened bool `json:"frightened"`
	Eaten      bool `json:"eaten"`
}

// Snapshot はクライアント描画用のゲーム状態のコピーです
type Snapshot struct {
	State        string      `json:"state"`
	Score        int         `json:"score"`
	Lives        int         `json:"lives"`
	DotsLeft     int         `json:"dots_left"`
	PacmanX      int         `json:"pacman_x"`
	PacmanY      int         `json:"pacman_y"`
	Direction    string      `json:"direction"`
	PelletActive bool        `json:"pellet_active"`
	Ghosts       []GhostView `json:"ghosts"`
	Maze         [][]int     `json:"maze"`
}

// Snapshot は現在のゲーム状態のコピーを返します
func (e *Engine) Snapshot() Snapshot {
	ghosts := make([]GhostView, 0, len(e.ghosts))
	for _, g := range e.ghosts {
		ghosts = append(ghosts, GhostView{
			X:          g.pos.x,
			Y:          g.pos.y,
			Frightened: g.frightened,
			Eaten:      g.eaten,
		})
	}
	return Snapshot{
		State:        e.state.String(),
		Score:        e.score,
		Lives:        e.lives,
		DotsLeft:     e.dotsLeft,
		PacmanX:      e.pacman.x,
		PacmanY:      e.pacman.y,
		Direction:    e.dir.String(),
		PelletActive: e.pelletActive,
		Ghosts:       ghosts,
		Maze:         e.maze.Grid(),
	}
}
