// internal/game/direction.go
package game

import "fmt"

// Direction はパックマン・ゴーストの進行方向を表します
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{Up: "up", Down: "down", Left: "left", Right: "right"}

var directionByName = map[string]Direction{
	"up":    Up,
	"down":  Down,
	"left":  Left,
	"right": Right,
}

// delta は各方向のグリッド上の移動量です
var delta = [...][2]int{
	Up:    {0, -1},
	Down:  {0, 1},
	Left:  {-1, 0},
	Right: {1, 0},
}

func (d Direction) String() string {
	if d >= Up && d <= Right {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// DX は方向のX成分を返します
func (d Direction) DX() int { return delta[d][0] }

// DY は方向のY成分を返します
func (d Direction) DY() int { return delta[d][1] }

// Reverse は逆方向を返します
func (d Direction) Reverse() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// ParseDirection は文字列 ("up"/"down"/"left"/"right") を方向に変換します
func ParseDirection(s string) (Direction, error) {
	d, ok := directionByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown direction %q", s)
	}
	return d, nil
}
