package proto

import "ctchen222/tictactoe-engine/internal/game"

// Message types exchanged with a bot connection.
const (
	TypeAssignment = "assignment"
	TypeUpdate     = "update"
	TypeMove       = "move"
	TypeError      = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string `json:"type" validate:"required"`
	Position []int  `json:"position,omitempty" validate:"omitempty,len=2,dive,min=0,max=2"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type   string              `json:"type" validate:"required"`
	Reason string              `json:"reason,omitempty"`
	Board  [][]game.PlayerMark `json:"board,omitempty" validate:"omitempty,len=3,dive,len=3,dive,mark"`
	Next   game.PlayerMark     `json:"next,omitempty" validate:"mark"`
	Winner game.PlayerMark     `json:"winner,omitempty" validate:"mark"`
}

// PlayerAssignmentMessage informs a player of their assigned mark.
type PlayerAssignmentMessage struct {
	Type     string          `json:"type" validate:"required"`
	PlayerID string          `json:"playerId,omitempty"`
	Mark     game.PlayerMark `json:"mark" validate:"required,mark"`
}
