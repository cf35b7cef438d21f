// internal/game/engine_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 横一直線の小さな通路。パックマンは右端からドットを食べながら左へ進む。
var corridorLayout = [][]int{
	{0, 0, 0, 0, 0},
	{0, 1, 1, 2, 0},
	{0, 0, 0, 0, 0},
}

func newCorridorEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithLayout(corridorLayout),
		WithoutGhosts(),
		WithPacmanStart(3, 1),
		WithRand(rand.New(rand.NewSource(1))),
	}
	return New(append(base, opts...)...)
}

func TestEngine_EatDotsAndWin(t *testing.T) {
	e := newCorridorEngine(t)
	require.Equal(t, StateRunning, e.State())
	require.Equal(t, 2, e.DotsLeft())

	// 1歩目: (2,1) のドットを食べる
	state := e.Step()
	assert.Equal(t, StateRunning, state)
	assert.Equal(t, 10, e.Score())
	assert.Equal(t, 1, e.DotsLeft())

	// 2歩目: 最後のドットを食べて勝利
	state = e.Step()
	assert.Equal(t, StateWon, state)
	assert.Equal(t, 20, e.Score())
	assert.Equal(t, 0, e.DotsLeft())
	assert.True(t, e.Won())
	assert.True(t, e.Finished())

	// 終了後は Step しても状態が変わらない
	assert.Equal(t, StateWon, e.Step())
}

func TestEngine_WallBlocksMovement(t *testing.T) {
	e := newCorridorEngine(t)

	// 左端まで進んだ後は壁で止まる
	e.Step()
	e.Step()
	snap := e.Snapshot()
	require.Equal(t, 1, snap.PacmanX)

	e2 := New(WithLayout(corridorLayout), WithoutGhosts(), WithPacmanStart(1, 1))
	e2.SetDirection(Up) // 壁方向への転換は無視される
	e2.Step()
	snap = e2.Snapshot()
	assert.Equal(t, 1, snap.PacmanY)
	assert.Equal(t, "left", snap.Direction)
}

func TestEngine_DirectionChange(t *testing.T) {
	layout := [][]int{
		{0, 0, 0, 0},
		{0, 2, 2, 0},
		{0, 2, 0, 0},
		{0, 0, 0, 0},
	}
	e := New(WithLayout(layout), WithoutGhosts(), WithPacmanStart(2, 1))
	e.SetDirection(Left)
	e.Step()
	snap := e.Snapshot()
	require.Equal(t, 1, snap.PacmanX)

	e.SetDirection(Down)
	e.Step()
	snap = e.Snapshot()
	assert.Equal(t, 1, snap.PacmanX)
	assert.Equal(t, 2, snap.PacmanY)
	assert.Equal(t, "down", snap.Direction)
}

func TestEngine_TunnelWrap(t *testing.T) {
	// 標準レイアウトの10行目は左右端がワープでつながっている
	e := New(WithoutGhosts(), WithPacmanStart(0, 10))
	e.SetDirection(Left)
	e.Step()
	snap := e.Snapshot()
	assert.Equal(t, 18, snap.PacmanX)
	assert.Equal(t, 10, snap.PacmanY)

	e.Step()
	snap = e.Snapshot()
	assert.Equal(t, 17, snap.PacmanX)
}

func TestEngine_PowerPelletFrightensGhosts(t *testing.T) {
	// 標準レイアウトで (1,2) がパワーペレット
	e := New(WithPacmanStart(1, 1), WithRand(rand.New(rand.NewSource(1))))
	e.SetDirection(Down)
	e.Step()

	snap := e.Snapshot()
	require.Equal(t, 1, snap.PacmanX)
	require.Equal(t, 2, snap.PacmanY)
	assert.Equal(t, 50, e.Score())
	assert.True(t, snap.PelletActive)
	for _, g := range snap.Ghosts {
		assert.True(t, g.Frightened)
	}
}

func TestEngine_PelletExpires(t *testing.T) {
	e := New(WithPacmanStart(1, 1), WithPelletDuration(2), WithRand(rand.New(rand.NewSource(1))))
	e.SetDirection(Down)
	e.Step() // ペレットを食べる
	require.True(t, e.Snapshot().PelletActive)

	e.SetDirection(Up) // 引き返してドットのないマスを往復させない程度に動かす
	e.Step()
	e.Step()
	assert.False(t, e.Snapshot().PelletActive)
}

func TestEngine_GhostCollisionLosesLife(t *testing.T) {
	// 一本道の反対側からゴーストが迫ってくる。
	// 到達できないドットを1つ残して即勝利にならないようにする。
	layout := [][]int{
		{0, 0, 0, 0, 0, 0},
		{0, 2, 2, 2, 1, 0},
		{0, 0, 0, 0, 0, 0},
	}
	e := New(
		WithLayout(layout),
		WithPacmanStart(1, 1),
		WithGhostAt(4, 1, Left),
		WithLives(1),
		WithRand(rand.New(rand.NewSource(1))),
	)
	e.SetDirection(Right)

	// 双方が向かい合って進むのですれ違いか同一マスで必ず衝突する
	var state State
	for i := 0; i < 4; i++ {
		state = e.Step()
		if state != StateRunning {
			break
		}
	}
	assert.Equal(t, StateGameOver, state)
	assert.True(t, e.Finished())
	assert.False(t, e.Won())
}

func TestEngine_CollisionResetsPositionsWhenLivesRemain(t *testing.T) {
	layout := [][]int{
		{0, 0, 0, 0, 0, 0},
		{0, 2, 2, 2, 1, 0},
		{0, 0, 0, 0, 0, 0},
	}
	e := New(
		WithLayout(layout),
		WithPacmanStart(1, 1),
		WithGhostAt(4, 1, Left),
		WithLives(3),
		WithRand(rand.New(rand.NewSource(1))),
	)
	e.SetDirection(Right)

	for i := 0; i < 4; i++ {
		if e.Lives() < 3 {
			break
		}
		e.Step()
	}
	require.Equal(t, 2, e.Lives())
	assert.Equal(t, StateRunning, e.State())

	// 初期配置に戻っている
	snap := e.Snapshot()
	assert.Equal(t, 1, snap.PacmanX)
	assert.Equal(t, 1, snap.PacmanY)
	require.Len(t, snap.Ghosts, 1)
	assert.Equal(t, 4, snap.Ghosts[0].X)
}

func TestEngine_PauseAndResume(t *testing.T) {
	e := newCorridorEngine(t)
	e.Pause()
	assert.Equal(t, StatePaused, e.Step()) // 一時停止中は進まない
	assert.Equal(t, 0, e.Score())

	e.Resume()
	assert.Equal(t, StateRunning, e.State())
	e.Step()
	assert.Equal(t, 10, e.Score())
}

func TestEngine_Forfeit(t *testing.T) {
	e := newCorridorEngine(t)
	e.Step()
	e.Forfeit()
	assert.Equal(t, StateGameOver, e.State())
	assert.Equal(t, 10, e.Score())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, Up, d)

	_, err = ParseDirection("diagonal")
	assert.Error(t, err)
}

func TestMaze_CountDots(t *testing.T) {
	m := newMaze(defaultLayout)
	// ドット+ペレットの合計。レイアウト変更時はここも追従する。
	assert.Equal(t, 157, m.CountDots())
	assert.Equal(t, CellWall, m.At(-1, 0))
	assert.Equal(t, CellWall, m.At(0, 999))
}
