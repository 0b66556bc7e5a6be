package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2

	Size = BorderMax - BorderMin + 1
)

var (
	ErrInvalidBoard = errors.New("board must be 3x3")
	ErrInvalidMark  = errors.New("invalid mark")
)

// Board is the 3x3 grid. It is an array, so assigning it copies every cell.
type Board [Size][Size]PlayerMark

// Position addresses a single cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Center is the middle cell.
var Center = Position{Row: 1, Col: 1}

// Corners in the order the bot tries them.
var Corners = [4]Position{{0, 0}, {0, 2}, {2, 0}, {2, 2}}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// At returns the mark stored at p.
func (b Board) At(p Position) PlayerMark {
	return b[p.Row][p.Col]
}

// With returns a copy of b with mark placed at p. b itself is untouched.
func (b Board) With(p Position, mark PlayerMark) Board {
	b[p.Row][p.Col] = mark
	return b
}

// Rows converts the board to a dynamic slice of slices, the shape used on the wire.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, Size)
	for i := range Size {
		rows[i] = make([]PlayerMark, Size)
		copy(rows[i], b[i][:])
	}
	return rows
}

// BoardFromRows builds a Board from its wire shape, rejecting anything that is
// not exactly 3x3 or holds a mark other than X, O or empty.
func BoardFromRows(rows [][]PlayerMark) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: got %d rows", ErrInvalidBoard, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, r, len(row))
		}
		for c, cell := range row {
			if !cell.IsValid() {
				return b, fmt.Errorf("%w: %q at (%d,%d)", ErrInvalidMark, cell, r, c)
			}
			b[r][c] = cell
		}
	}
	return b, nil
}

// IsValid reports whether m is X, O or empty.
func (m PlayerMark) IsValid() bool {
	return m == None || m == PlayerX || m == PlayerO
}

// IsPlayer reports whether m is X or O.
func (m PlayerMark) IsPlayer() bool {
	return m == PlayerX || m == PlayerO
}

// Opponent returns the other player's mark. Anything that is not X maps to X.
func Opponent(mark PlayerMark) PlayerMark {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// EmptyCells lists the empty cells in row-major order.
func EmptyCells(b Board) []Position {
	cells := make([]Position, 0, Size*Size)
	for r := range Size {
		for c := range Size {
			if b[r][c] == None {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}
