package bot

//go:generate mockgen -source=logic.go -destination=../mocks/mock_logic.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"ctchen222/tictactoe-engine/internal/game"
)

// Difficulty selects which move policy the bot plays.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty maps a query or config value to a Difficulty. Empty means Hard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	case "":
		return Hard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// Rule names the heuristic step that produced a move.
type Rule string

const (
	RuleWin    Rule = "win"
	RuleBlock  Rule = "block"
	RuleCenter Rule = "center"
	RuleCorner Rule = "corner"
	RuleRandom Rule = "random"
)

// Decision is a chosen cell and the rule that chose it.
type Decision struct {
	Position game.Position
	Rule     Rule
}

// Source is the randomness the selector draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource uses the package-level math/rand/v2 functions, which are safe
// for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark, difficulty Difficulty) (Decision, bool)
}

// Selector picks moves for the bot. It holds no game state; every call is
// judged on the board it is given.
type Selector struct {
	rng Source
}

var _ MoveCalculator = (*Selector)(nil)

// NewSelector returns a Selector drawing from rng, or from the shared
// math/rand/v2 source when rng is nil.
func NewSelector(rng Source) *Selector {
	if rng == nil {
		rng = globalSource{}
	}
	return &Selector{rng: rng}
}

// CalculateNextMove determines the bot's next move based on the specified difficulty.
// Unknown difficulties play Hard.
func (s *Selector) CalculateNextMove(_ context.Context, board game.Board, mark game.PlayerMark, difficulty Difficulty) (Decision, bool) {
	switch difficulty {
	case Easy:
		return s.randomDecision(board)
	case Medium:
		return s.mediumMove(board, mark)
	default:
		return s.Decide(board, mark)
	}
}

// RandomMove picks uniformly among the empty cells. It reports false, without
// drawing, when the board is full.
func (s *Selector) RandomMove(board game.Board) (game.Position, bool) {
	available := game.EmptyCells(board)
	if len(available) == 0 {
		return game.Position{}, false
	}
	return available[s.rng.IntN(len(available))], true
}

// BestMove returns the move chosen by Decide.
func (s *Selector) BestMove(board game.Board, mark game.PlayerMark) (game.Position, bool) {
	d, ok := s.Decide(board, mark)
	return d.Position, ok
}

// Decide runs the fixed priority list: win, block, center, first free corner,
// random. It looks one move ahead only and does not see forks.
func (s *Selector) Decide(board game.Board, mark game.PlayerMark) (Decision, bool) {
	// 1. Win
	if p, ok := findWinningMove(board, mark); ok {
		return Decision{Position: p, Rule: RuleWin}, true
	}

	// 2. Block
	if p, ok := findWinningMove(board, game.Opponent(mark)); ok {
		return Decision{Position: p, Rule: RuleBlock}, true
	}

	// 3. Center
	if board.At(game.Center) == game.None {
		return Decision{Position: game.Center, Rule: RuleCenter}, true
	}

	// 4. Corners
	for _, corner := range game.Corners {
		if board.At(corner) == game.None {
			return Decision{Position: corner, Rule: RuleCorner}, true
		}
	}

	// 5. Random
	return s.randomDecision(board)
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func (s *Selector) mediumMove(board game.Board, mark game.PlayerMark) (Decision, bool) {
	if p, ok := findWinningMove(board, mark); ok {
		return Decision{Position: p, Rule: RuleWin}, true
	}
	if p, ok := findWinningMove(board, game.Opponent(mark)); ok {
		return Decision{Position: p, Rule: RuleBlock}, true
	}
	return s.randomDecision(board)
}

func (s *Selector) randomDecision(board game.Board) (Decision, bool) {
	p, ok := s.RandomMove(board)
	if !ok {
		return Decision{}, false
	}
	return Decision{Position: p, Rule: RuleRandom}, true
}

// findWinningMove returns the first empty cell, row-major, where mark would
// complete a line. Each candidate is played on a copy of the board.
func findWinningMove(board game.Board, mark game.PlayerMark) (game.Position, bool) {
	for _, p := range game.EmptyCells(board) {
		if game.CheckWinner(board.With(p, mark)).Winner == mark {
			return p, true
		}
	}
	return game.Position{}, false
}
