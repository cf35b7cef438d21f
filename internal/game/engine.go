// internal/game/engine.go
package game

import (
	"math/rand"
	"time"
)

// State はゲームエンジンの状態です
type State int

const (
	StateRunning State = iota
	StatePaused
	StateGameOver
	StateWon
)

var stateNames = [...]string{
	StateRunning:  "running",
	StatePaused:   "paused",
	StateGameOver: "game_over",
	StateWon:      "won",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// 得点テーブル
const (
	dotPoints    = 10
	pelletPoints = 50
	ghostPoints  = 200
)

const (
	defaultLives          = 3
	defaultPelletDuration = 30 // ペレット効果が続くステップ数
	ghostChaseChance      = 0.4
	tunnelRow             = 10 // 左右端がワープでつながる行
)

type point struct {
	x, y int
}

type ghost struct {
	pos        point
	prevPos    point
	dir        Direction
	frightened bool
	eaten      bool
	returnPath []point
}

// Engine はパックマン風ゲームの純粋な状態機械です。
// 描画や入力デバイスには関知せず、Step() を1回呼ぶごとに
// 移動1ステップぶん状態が進みます。goroutineセーフではないため、
// 呼び出し側で直列化してください。
type Engine struct {
	maze     *Maze
	state    State
	score    int
	lives    int
	dotsLeft int

	pacman      point
	pacmanPrev  point
	pacmanStart point
	dir         Direction
	nextDir     Direction

	ghosts []*ghost
	house  point // ゴーストハウス（食べられたゴーストの帰還先）

	pelletActive   bool
	pelletTimer    int
	pelletDuration int

	customGhosts bool
	ghostStarts  []ghost // 残機喪失時の復帰用初期配置

	rng *rand.Rand
}

// Option は Engine の生成時設定です
type Option func(*Engine)

// WithRand は乱数源を差し替えます（テスト用）
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLayout は迷路レイアウトを差し替えます
func WithLayout(layout [][]int) Option {
	return func(e *Engine) { e.maze = newMaze(layout) }
}

// WithoutGhosts はゴーストなしで開始します（テスト用）
func WithoutGhosts() Option {
	return func(e *Engine) { e.ghosts = nil }
}

// WithGhostAt は既定のゴースト配置を置き換えて1体追加します。
// 最初の呼び出しで既定の4体はクリアされます。
func WithGhostAt(x, y int, d Direction) Option {
	return func(e *Engine) {
		if !e.customGhosts {
			e.ghosts = nil
			e.customGhosts = true
		}
		e.ghosts = append(e.ghosts, &ghost{pos: point{x, y}, prevPos: point{x, y}, dir: d})
	}
}

// WithPacmanStart はパックマンの初期位置を指定します
func WithPacmanStart(x, y int) Option {
	return func(e *Engine) {
		e.pacman = point{x, y}
		e.pacmanPrev = point{x, y}
		e.pacmanStart = point{x, y}
	}
}

// WithLives は初期残機数を指定します
func WithLives(n int) Option {
	return func(e *Engine) { e.lives = n }
}

// WithPelletDuration はペレット効果の継続ステップ数を指定します
func WithPelletDuration(steps int) Option {
	return func(e *Engine) { e.pelletDuration = steps }
}

// New は標準レイアウトのエンジンを生成します
func New(opts ...Option) *Engine {
	e := &Engine{
		maze:           newMaze(defaultLayout),
		state:          StateRunning,
		lives:          defaultLives,
		pacman:         point{9, 15},
		pacmanPrev:     point{9, 15},
		pacmanStart:    point{9, 15},
		dir:            Left,
		nextDir:        Left,
		house:          point{9, 9},
		ghosts:         newGhosts(),
		pelletDuration: defaultPelletDuration,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dotsLeft = e.maze.CountDots()
	e.ghostStarts = make([]ghost, len(e.ghosts))
	for i, g := range e.ghosts {
		e.ghostStarts[i] = *g
	}
	return e
}

func newGhosts() []*ghost {
	return []*ghost{
		{pos: point{9, 9}, prevPos: point{9, 9}, dir: Left},
		{pos: point{10, 9}, prevPos: point{10, 9}, dir: Up},
		{pos: point{8, 9}, prevPos: point{8, 9}, dir: Down},
		{pos: point{11, 9}, prevPos: point{11, 9}, dir: Right},
	}
}

// State は現在の状態を返します
func (e *Engine) State() State { return e.state }

// Score は現在のスコアを返します
func (e *Engine) Score() int { return e.score }

// Lives は残機数を返します
func (e *Engine) Lives() int { return e.lives }

// DotsLeft は残りドット数を返します
func (e *Engine) DotsLeft() int { return e.dotsLeft }

// Won は勝利（全ドット取得）で終了したかを返します
func (e *Engine) Won() bool { return e.state == StateWon }

// Finished はゲームが終了状態かを返します
func (e *Engine) Finished() bool {
	return e.state == StateGameOver || e.state == StateWon
}

// SetDirection は次の移動方向を予約します。
// 壁の中への方向転換は次のステップで無視されます。
func (e *Engine) SetDirection(d Direction) {
	if e.state == StateRunning {
		e.nextDir = d
	}
}

// Pause はゲームを一時停止します
func (e *Engine) Pause() {
	if e.state == StateRunning {
		e.state = StatePaused
	}
}

// Resume は一時停止を解除します
func (e *Engine) Resume() {
	if e.state == StatePaused {
		e.state = StateRunning
	}
}

// Forfeit はゲームを途中終了（ギブアップ）扱いにします
func (e *Engine) Forfeit() {
	if !e.Finished() {
		e.state = StateGameOver
	}
}

// Step はゲームを1ステップ進めます。終了状態・一時停止中は何もしません。
func (e *Engine) Step() State {
	if e.state != StateRunning {
		return e.state
	}

	// ペレット効果の残り時間を更新
	if e.pelletActive {
		e.pelletTimer--
		if e.pelletTimer <= 0 {
			e.pelletActive = false
			for _, g := range e.ghosts {
				g.frightened = false
			}
		}
	}

	e.movePacman()
	e.eatCell()

	for _, g := range e.ghosts {
		e.moveGhost(g)
		if !e.checkCollision(g) {
			break // 残機を失ったらこのステップは打ち切り
		}
	}
	if e.state != StateRunning {
		return e.state
	}

	if e.dotsLeft == 0 {
		e.state = StateWon
	}
	return e.state
}

func (e *Engine) movePacman() {
	e.pacmanPrev = e.pacman

	// 予約された方向転換が可能なら反映する
	if e.nextDir != e.dir {
		nx := e.pacman.x + e.nextDir.DX()
		ny := e.pacman.y + e.nextDir.DY()
		if e.maze.Walkable(nx, ny) {
			e.dir = e.nextDir
		}
	}

	nx := e.pacman.x + e.dir.DX()
	ny := e.pacman.y + e.dir.DY()
	switch {
	case e.maze.Walkable(nx, ny):
		e.pacman = point{nx, ny}
	case nx < 0 && e.pacman.y == tunnelRow: // 左トンネル
		e.pacman = point{e.maze.width - 1, tunnelRow}
	case nx >= e.maze.width && e.pacman.y == tunnelRow: // 右トンネル
		e.pacman = point{0, tunnelRow}
	}
}

func (e *Engine) eatCell() {
	switch e.maze.At(e.pacman.x, e.pacman.y) {
	case CellDot:
		e.maze.set(e.pacman.x, e.pacman.y, CellEmpty)
		e.score += dotPoints
		e.dotsLeft--
	case CellPellet:
		e.maze.set(e.pacman.x, e.pacman.y, CellEmpty)
		e.score += pelletPoints
		e.dotsLeft--
		e.pelletActive = true
		e.pelletTimer = e.pelletDuration
		for _, g := range e.ghosts {
			if !g.eaten {
				g.frightened = true
			}
		}
	}
}

// checkCollision はゴーストとの衝突を処理します。
// 残機を失った場合は false を返します。
func (e *Engine) checkCollision(g *ghost) bool {
	// すれ違い（位置交換）も衝突として扱う
	hit := g.pos == e.pacman ||
		(g.prevPos == e.pacman && e.pacmanPrev == g.pos)
	if !hit {
		return true
	}
	if g.frightened {
		g.frightened = false
		g.eaten = true
		g.returnPath = nil
		e.score += ghostPoints
		return true
	}
	if g.eaten {
		return true
	}
	e.loseLife()
	return false
}

func (e *Engine) loseLife() {
	e.lives--
	if e.lives <= 0 {
		e.state = StateGameOver
		return
	}
	// 配置をリセットして継続
	e.pacman = e.pacmanStart
	e.pacmanPrev = e.pacmanStart
	e.dir = Left
	e.nextDir = Left
	e.ghosts = make([]*ghost, len(e.ghostStarts))
	for i := range e.ghostStarts {
		g := e.ghostStarts[i]
		e.ghosts[i] = &g
	}
	e.pelletActive = false
	e.pelletTimer = 0
}

func (e *Engine) moveGhost(g *ghost) {
	g.prevPos = g.pos

	// 食べられたゴーストはゴーストハウスへ帰還する
	if g.eaten {
		if len(g.returnPath) == 0 {
			g.returnPath = e.pathToHouse(g.pos)
		}
		if len(g.returnPath) > 0 {
			g.pos = g.returnPath[0]
			g.returnPath = g.returnPath[1:]
			if g.pos == e.house {
				g.eaten = false
			}
		}
		return
	}

	validDirs := e.validDirections(g)
	if len(validDirs) > 0 {
		switch {
		case g.frightened:
			g.dir = validDirs[e.rng.Intn(len(validDirs))]
		case e.rng.Float64() < ghostChaseChance:
			// パックマンへのマンハッタン距離が最小になる方向を選ぶ
			best := validDirs[0]
			bestDist := int(^uint(0) >> 1)
			for _, d := range validDirs {
				nx := g.pos.x + d.DX()
				ny := g.pos.y + d.DY()
				dist := abs(nx-e.pacman.x) + abs(ny-e.pacman.y)
				if dist < bestDist {
					bestDist = dist
					best = d
				}
			}
			g.dir = best
		default:
			g.dir = validDirs[e.rng.Intn(len(validDirs))]
		}
	}

	nx := g.pos.x + g.dir.DX()
	ny := g.pos.y + g.dir.DY()
	switch {
	case e.maze.Walkable(nx, ny):
		g.pos = point{nx, ny}
	case nx < 0 && g.pos.y == tunnelRow:
		g.pos = point{e.maze.width - 1, tunnelRow}
	case nx >= e.maze.width && g.pos.y == tunnelRow:
		g.pos = point{0, tunnelRow}
	default:
		g.dir = Direction(e.rng.Intn(4))
	}
}

// validDirections は移動可能な方向を返します。
// 通常時は直前の逆方向（反転）を含めません。
func (e *Engine) validDirections(g *ghost) []Direction {
	dirs := make([]Direction, 0, 4)
	for d := Up; d <= Right; d++ {
		if d == g.dir.Reverse() && !g.frightened {
			continue
		}
		if e.maze.Walkable(g.pos.x+d.DX(), g.pos.y+d.DY()) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// pathToHouse はゴーストハウスへの簡易経路を計算します
func (e *Engine) pathToHouse(from point) []point {
	var path []point
	curr := from
	for curr != e.house && len(path) < 100 {
		var next point
		switch {
		case curr.x < e.house.x:
			next = point{curr.x + 1, curr.y}
		case curr.x > e.house.x:
			next = point{curr.x - 1, curr.y}
		case curr.y < e.house.y:
			next = point{curr.x, curr.y + 1}
		default:
			next = point{curr.x, curr.y - 1}
		}
		if e.maze.Walkable(next.x, next.y) {
			path = append(path, next)
			curr = next
			continue
		}
		// 壁に阻まれたら通れる方向へ迂回する
		moved := false
		for d := Up; d <= Right; d++ {
			ax := curr.x + d.DX()
			ay := curr.y + d.DY()
			if e.maze.Walkable(ax, ay) {
				path = append(path, point{ax, ay})
				curr = point{ax, ay}
				moved = true
				break
			}
		}
		if !moved {
			break
		}
	}
	return path
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
