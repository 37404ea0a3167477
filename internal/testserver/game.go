package testserver

import "github.com/mcoot/gomokuclient-go/internal/model"

// game is the authoritative match state for one room
type game struct {
	board  [][]int
	turn   int // index into the room's seats
	active bool
}

func newGame() *game {
	board := make([][]int, model.BoardSize)
	for i := range board {
		board[i] = make([]int, model.BoardSize)
	}
	return &game{board: board, active: true}
}

func (g *game) inBounds(x, y int) bool {
	return x >= 0 && x < model.BoardSize && y >= 0 && y < model.BoardSize
}

// place puts the given seat's stone at (x, y). Seat 0 plays stone 1,
// seat 1 plays stone 2.
func (g *game) place(seat, x, y int) {
	g.board[x][y] = seat + 1
}

// snapshot returns a copy of the grid for broadcasting
func (g *game) snapshot() [][]int {
	out := make([][]int, len(g.board))
	for i, col := range g.board {
		out[i] = append([]int(nil), col...)
	}
	return out
}

// winLine returns the five-cell line through (x, y) if the stone there
// completes five in a row, flattened as x1,y1,...,x5,y5. It returns nil
// when there is no win.
func (g *game) winLine(x, y int) []int {
	stone := g.board[x][y]
	if stone == 0 {
		return nil
	}

	dirs := [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		cells := [][2]int{{x, y}}
		for _, sign := range []int{1, -1} {
			cx, cy := x+d[0]*sign, y+d[1]*sign
			for g.inBounds(cx, cy) && g.board[cx][cy] == stone {
				cells = append(cells, [2]int{cx, cy})
				cx += d[0] * sign
				cy += d[1] * sign
			}
		}
		if len(cells) >= 5 {
			line := make([]int, 0, 10)
			for _, c := range cells[:5] {
				line = append(line, c[0], c[1])
			}
			return line
		}
	}
	return nil
}
