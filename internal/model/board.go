package model

// BoardSize is the fixed grid dimension
const BoardSize = 15

// Stone is the state of one board cell
type Stone int

const (
	Empty Stone = iota
	Black
	White
)

// Board is the BoardSize x BoardSize grid for a match, indexed [x][y].
// It always holds exactly the most recently received server snapshot;
// the client never mutates it locally.
type Board [][]Stone

// NewBoard creates an all-empty board
func NewBoard() Board {
	b := make(Board, BoardSize)
	for i := range b {
		b[i] = make([]Stone, BoardSize)
	}
	return b
}

// BoardFromInts converts a wire-format grid into a Board. Rows and cells
// beyond BoardSize are ignored; missing ones are empty.
func BoardFromInts(grid [][]int) Board {
	b := NewBoard()
	for x := 0; x < len(grid) && x < BoardSize; x++ {
		for y := 0; y < len(grid[x]) && y < BoardSize; y++ {
			b[x][y] = Stone(grid[x][y])
		}
	}
	return b
}

// At returns the stone at (x, y), or Empty when out of bounds
func (b Board) At(x, y int) Stone {
	if !b.InBounds(x, y) {
		return Empty
	}
	return b[x][y]
}

// InBounds reports whether (x, y) is a valid cell
func (b Board) InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// IsEmpty reports whether the cell at (x, y) holds no stone
func (b Board) IsEmpty(x, y int) bool {
	return b.At(x, y) == Empty
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	c := make(Board, len(b))
	for i := range b {
		c[i] = make([]Stone, len(b[i]))
		copy(c[i], b[i])
	}
	return c
}
