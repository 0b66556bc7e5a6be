package game

// WinningLine is one of the eight three-cell patterns that wins the game.
type WinningLine [3]Position

// winningLines is checked in this order: rows top to bottom, columns left to
// right, then the main and anti diagonals.
var winningLines = [8]WinningLine{
	// Rows
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	// Columns
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	// Diagonals
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// WinningLines returns a copy of the line catalogue in evaluation order.
func WinningLines() [8]WinningLine {
	return winningLines
}

// Outcome is the result of evaluating a board.
type Outcome struct {
	Winner PlayerMark
	Line   *WinningLine
}

// HasWinner reports whether some line is complete.
func (o Outcome) HasWinner() bool {
	return o.Winner != None
}

// CheckWinner returns the first completed line, or an empty Outcome.
func CheckWinner(b Board) Outcome {
	for _, line := range winningLines {
		a := b.At(line[0])
		if a != None && a == b.At(line[1]) && a == b.At(line[2]) {
			return Outcome{Winner: a, Line: &line}
		}
	}
	return Outcome{}
}

// IsBoardFull checks if every cell holds a mark. A full board may still be won,
// so check the winner first.
func IsBoardFull(b Board) bool {
	for r := range Size {
		for c := range Size {
			if b[r][c] == None {
				return false
			}
		}
	}
	return true
}

// IsDraw checks if the board is full with no winner.
func IsDraw(b Board) bool {
	return !CheckWinner(b).HasWinner() && IsBoardFull(b)
}
