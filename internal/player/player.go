package player

//go:generate mockgen -source=player.go -destination=../mocks/mock_player.go -package=mocks

import "ctchen222/tictactoe-engine/internal/game"

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is one side of a connection: a remote client or a bot.
type Player struct {
	ID    string
	Conn  Connection
	Mark  game.PlayerMark
	IsBot bool
}

// NewPlayer creates a new player.
func NewPlayer(id string, conn Connection) *Player {
	return &Player{
		ID:   id,
		Conn: conn,
	}
}
