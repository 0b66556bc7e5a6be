package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/player"
	"ctchen222/tictactoe-engine/internal/validator"
	"ctchen222/tictactoe-engine/pkg/proto"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("bot")

var (
	ErrNoMarkAssigned = errors.New("bot has no mark assigned")
	ErrNoMovesLeft    = errors.New("no moves left")
	ErrUnknownMessage = errors.New("unknown message type")
)

// BotConnection answers game updates arriving on a connection with moves.
// The only state it keeps is the mark it was assigned.
type BotConnection struct {
	player     *player.Player
	calculator MoveCalculator
	difficulty Difficulty
	thinkDelay time.Duration
}

// NewBotConnection creates a bot serving p.Conn.
func NewBotConnection(p *player.Player, calculator MoveCalculator, difficulty Difficulty, thinkDelay time.Duration) *BotConnection {
	return &BotConnection{
		player:     p,
		calculator: calculator,
		difficulty: difficulty,
		thinkDelay: thinkDelay,
	}
}

// NewBotPlayer creates a new player instance that is a bot.
func NewBotPlayer(conn player.Connection) *player.Player {
	botID := "bot-" + uuid.New().String()[:8]
	p := player.NewPlayer(botID, conn)
	p.IsBot = true
	return p
}

// Serve reads messages until the connection fails or ctx is done. A clean
// close by the peer returns nil.
func (bc *BotConnection) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		bc.player.Conn.Close()
	})
	defer stop()

	for {
		_, data, err := bc.player.Conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("bot %s read: %w", bc.player.ID, err)
		}

		reply, err := bc.HandleMessage(ctx, data)
		if err != nil {
			slog.WarnContext(ctx, "bot rejected message", "player.id", bc.player.ID, "error", err)
			reply = errorMessage(err)
		}
		if reply == nil {
			continue
		}

		out, err := json.Marshal(reply)
		if err != nil {
			return fmt.Errorf("failed to marshal bot reply: %w", err)
		}
		if err := bc.player.Conn.WriteMessage(websocket.TextMessage, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("bot %s write: %w", bc.player.ID, err)
		}
	}
}

// HandleMessage processes one raw message and returns the reply to send, if any.
func (bc *BotConnection) HandleMessage(ctx context.Context, data []byte) (any, error) {
	ctx, span := tracer.Start(ctx, "bot.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", bc.player.ID),
	))
	defer span.End()

	// First, try to unmarshal as a generic message to find the type
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	span.SetAttributes(attribute.String("message.type", envelope.Type))

	var (
		reply any
		err   error
	)
	switch envelope.Type {
	case proto.TypeAssignment:
		err = bc.handleAssignment(ctx, data)
	case proto.TypeUpdate:
		var move *proto.ClientToServerMessage
		if move, err = bc.handleUpdate(ctx, data); move != nil {
			reply = move
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMessage, envelope.Type)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Message rejected")
	}
	return reply, err
}

func (bc *BotConnection) handleAssignment(ctx context.Context, data []byte) error {
	var msg proto.PlayerAssignmentMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to decode assignment: %w", err)
	}
	if err := validator.GetValidator().Struct(msg); err != nil {
		return fmt.Errorf("invalid assignment: %w", err)
	}

	bc.player.Mark = msg.Mark
	slog.InfoContext(ctx, "Bot assigned mark", "player.id", bc.player.ID, "mark", msg.Mark)
	return nil
}

func (bc *BotConnection) handleUpdate(ctx context.Context, data []byte) (*proto.ClientToServerMessage, error) {
	var msg proto.ServerToClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode update: %w", err)
	}
	if err := validator.GetValidator().Struct(msg); err != nil {
		return nil, fmt.Errorf("invalid update: %w", err)
	}

	mark := bc.player.Mark
	if mark == game.None {
		return nil, ErrNoMarkAssigned
	}
	// The bot only acts when it is its turn and nobody has won yet.
	if msg.Next != mark || msg.Winner != game.None {
		return nil, nil
	}

	board, err := game.BoardFromRows(msg.Board)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Bot is thinking", "player.id", bc.player.ID, "mark", mark)
	if bc.thinkDelay > 0 {
		select {
		case <-time.After(bc.thinkDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	decision, ok := bc.calculator.CalculateNextMove(ctx, board, mark, bc.difficulty)
	if !ok {
		return nil, ErrNoMovesLeft
	}

	return &proto.ClientToServerMessage{
		Type:     proto.TypeMove,
		Position: []int{decision.Position.Row, decision.Position.Col},
	}, nil
}

func errorMessage(err error) *proto.ServerToClientMessage {
	return &proto.ServerToClientMessage{Type: proto.TypeError, Reason: err.Error()}
}
