package service

import (
	"context"
	"fmt"
	"log/slog"

	"ctchen222/tictactoe-engine/internal/api/models"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/events"
	"ctchen222/tictactoe-engine/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("service.move")
	meter  = otel.Meter("service.move")
)

// MoveService defines the interface for board evaluation and bot moves.
type MoveService interface {
	Evaluate(ctx context.Context, rows [][]game.PlayerMark) (*models.EvaluateResponse, error)
	SelectMove(ctx context.Context, req *models.MoveRequest) (*models.MoveResponse, error)
	bot.MoveCalculator
}

type moveService struct {
	selector  *bot.Selector
	publisher events.Publisher
	decisions metric.Int64Counter
}

// NewMoveService creates a new MoveService. A nil publisher drops events.
func NewMoveService(selector *bot.Selector, publisher events.Publisher) MoveService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	decisions, err := meter.Int64Counter("bot.decisions",
		metric.WithDescription("Moves chosen by the bot, by rule and difficulty"),
	)
	if err != nil {
		otel.Handle(err)
	}
	return &moveService{
		selector:  selector,
		publisher: publisher,
		decisions: decisions,
	}
}

// Evaluate reports the winner, winning line and fullness of a board.
func (s *moveService) Evaluate(ctx context.Context, rows [][]game.PlayerMark) (*models.EvaluateResponse, error) {
	_, span := tracer.Start(ctx, "MoveService.Evaluate")
	defer span.End()

	board, err := game.BoardFromRows(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid board")
		return nil, err
	}

	outcome := game.CheckWinner(board)
	resp := &models.EvaluateResponse{
		Winner: outcome.Winner,
		Full:   game.IsBoardFull(board),
		Draw:   game.IsDraw(board),
	}
	if outcome.Line != nil {
		resp.Line = outcome.Line[:]
	}

	span.SetAttributes(attribute.String("game.winner", string(outcome.Winner)), attribute.Bool("game.draw", resp.Draw))
	return resp, nil
}

// SelectMove validates the request and asks the bot for a move.
func (s *moveService) SelectMove(ctx context.Context, req *models.MoveRequest) (*models.MoveResponse, error) {
	if !req.Mark.IsPlayer() {
		return nil, fmt.Errorf("%w: bot must play X or O, got %q", game.ErrInvalidMark, req.Mark)
	}
	board, err := game.BoardFromRows(req.Board)
	if err != nil {
		return nil, err
	}
	difficulty, err := bot.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}

	decision, ok := s.CalculateNextMove(ctx, board, req.Mark, difficulty)
	if !ok {
		return &models.MoveResponse{}, nil
	}
	return &models.MoveResponse{
		Position: &decision.Position,
		Rule:     string(decision.Rule),
	}, nil
}

// CalculateNextMove wraps the selector with tracing, metrics and a
// move_selected event.
func (s *moveService) CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark, difficulty bot.Difficulty) (bot.Decision, bool) {
	ctx, span := tracer.Start(ctx, "MoveService.CalculateNextMove", trace.WithAttributes(
		attribute.String("bot.mark", string(mark)),
		attribute.String("bot.difficulty", string(difficulty)),
	))
	defer span.End()

	decision, ok := s.selector.CalculateNextMove(ctx, board, mark, difficulty)
	if !ok {
		slog.InfoContext(ctx, "No moves left on board", "bot.mark", mark)
		span.SetAttributes(attribute.Bool("move.found", false))
		return decision, false
	}

	span.SetAttributes(
		attribute.Bool("move.found", true),
		attribute.String("move.rule", string(decision.Rule)),
		attribute.Int("move.row", decision.Position.Row),
		attribute.Int("move.col", decision.Position.Col),
	)
	if s.decisions != nil {
		s.decisions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("rule", string(decision.Rule)),
			attribute.String("difficulty", string(difficulty)),
		))
	}
	slog.DebugContext(ctx, "Bot selected move", "bot.mark", mark, "move.rule", decision.Rule, "move.row", decision.Position.Row, "move.col", decision.Position.Col)

	event, err := events.NewEvent(events.TypeMoveSelected, events.MoveSelectedPayload{
		Mark:       string(mark),
		Difficulty: string(difficulty),
		Rule:       string(decision.Rule),
		Row:        decision.Position.Row,
		Col:        decision.Position.Col,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to publish move_selected event", "error", err)
		span.RecordError(err)
	}

	return decision, true
}
