// internal/game/maze.go
package game

// Cell は迷路の1マスの種類を表します
type Cell int

const (
	CellWall   Cell = iota // 壁
	CellDot                // ドットあり通路
	CellEmpty              // 空の通路
	CellPellet             // パワーペレット
)

// defaultLayout は標準の迷路レイアウト (19x22) です。
// 0=壁, 1=ドット, 2=空の通路, 3=パワーペレット。
// 10行目の左右端はトンネルで反対側にワープします。
var defaultLayout = [][]int{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 3, 0, 0, 1, 0, 0, 0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 3, 0},
	{0, 1, 0, 0, 1, 0, 0, 0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 1, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 1, 0},
	{0, 1, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 1, 0},
	{0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 2, 0, 0, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 2, 2, 2, 2, 2, 2, 2, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 2, 0, 0, 2, 0, 0, 2, 0, 1, 0, 0, 0, 0},
	{2, 2, 2, 2, 1, 2, 2, 0, 2, 2, 2, 0, 2, 2, 1, 2, 2, 2, 2},
	{0, 0, 0, 0, 1, 0, 2, 0, 0, 0, 0, 0, 2, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 2, 2, 2, 2, 2, 2, 2, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 2, 0, 0, 0, 0, 0, 2, 0, 1, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 1, 0, 0, 1, 0, 0, 0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 1, 0},
	{0, 3, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 3, 0},
	{0, 0, 1, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 1, 0, 0},
	{0, 1, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 1, 0},
	{0, 1, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0, 1, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

// Maze は迷路の状態を保持します
type Maze struct {
	cells  [][]Cell
	width  int
	height int
}

func newMaze(layout [][]int) *Maze {
	h := len(layout)
	w := len(layout[0])
	cells := make([][]Cell, h)
	for y, row := range layout {
		cells[y] = make([]Cell, w)
		for x, v := range row {
			cells[y][x] = Cell(v)
		}
	}
	return &Maze{cells: cells, width: w, height: h}
}

// At は座標のセルを返します。範囲外は壁扱いです。
func (m *Maze) At(x, y int) Cell {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return CellWall
	}
	return m.cells[y][x]
}

func (m *Maze) set(x, y int, c Cell) {
	m.cells[y][x] = c
}

// Walkable は座標が通路（壁でない）かを返します
func (m *Maze) Walkable(x, y int) bool {
	return m.At(x, y) != CellWall
}

// CountDots は残っているドット・ペレットの数を返します
func (m *Maze) CountDots() int {
	n := 0
	for _, row := range m.cells {
		for _, c := range row {
			if c == CellDot || c == CellPellet {
				n++
			}
		}
	}
	return n
}

// Grid は描画用に迷路全体を整数の二次元スライスで返します
func (m *Maze) Grid() [][]int {
	grid := make([][]int, m.height)
	for y, row := range m.cells {
		grid[y] = make([]int, m.width)
		for x, c := range row {
			grid[y][x] = int(c)
		}
	}
	return grid
}
