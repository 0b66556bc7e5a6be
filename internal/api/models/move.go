package models

import "ctchen222/tictactoe-engine/internal/game"

// EvaluateRequest defines the structure for a board evaluation request.
type EvaluateRequest struct {
	Board [][]game.PlayerMark `json:"board" binding:"required"`
}

// EvaluateResponse reports the state of a board.
type EvaluateResponse struct {
	Winner game.PlayerMark `json:"winner"`
	Line   []game.Position `json:"line"`
	Full   bool            `json:"full"`
	Draw   bool            `json:"draw"`
}

// MoveRequest defines the structure for a bot move request.
type MoveRequest struct {
	Board      [][]game.PlayerMark `json:"board" binding:"required"`
	Mark       game.PlayerMark     `json:"mark" binding:"required,oneof=X O"`
	Difficulty string              `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// MoveResponse carries the chosen cell. Position is nil when the board is full.
type MoveResponse struct {
	Position *game.Position `json:"position"`
	Rule     string         `json:"rule,omitempty"`
}
