package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"

	"ctchen222/tictactoe-engine/internal/api/models"
	"ctchen222/tictactoe-engine/internal/api/service"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/events"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	X = game.PlayerX
	O = game.PlayerO
	E = game.None
)

func newService(t *testing.T, publisher events.Publisher) service.MoveService {
	t.Helper()
	return service.NewMoveService(bot.NewSelector(rand.New(rand.NewPCG(7, 7))), publisher)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]game.PlayerMark
		expected *models.EvaluateResponse
	}{
		{
			name: "Diagonal win",
			rows: [][]game.PlayerMark{{O, X, X}, {E, O, X}, {E, E, O}},
			expected: &models.EvaluateResponse{
				Winner: O,
				Line:   []game.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}},
			},
		},
		{
			name:     "Draw",
			rows:     [][]game.PlayerMark{{X, O, X}, {X, O, O}, {O, X, X}},
			expected: &models.EvaluateResponse{Winner: E, Full: true, Draw: true},
		},
		{
			name:     "In progress",
			rows:     [][]game.PlayerMark{{X, E, E}, {E, E, E}, {E, E, E}},
			expected: &models.EvaluateResponse{Winner: E},
		},
	}

	svc := newService(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Evaluate(context.Background(), tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEvaluateInvalidBoard(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.Evaluate(context.Background(), [][]game.PlayerMark{{X, O, X}})
	assert.ErrorIs(t, err, game.ErrInvalidBoard)

	_, err = svc.Evaluate(context.Background(), [][]game.PlayerMark{{"Z", E, E}, {E, E, E}, {E, E, E}})
	assert.ErrorIs(t, err, game.ErrInvalidMark)
}

func TestSelectMovePublishesDecision(t *testing.T) {
	// Given: X can complete the top row
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	var published events.Event
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e events.Event) error {
		published = e
		return nil
	}).Times(1)

	svc := newService(t, publisher)
	req := &models.MoveRequest{
		Board: [][]game.PlayerMark{{X, X, E}, {O, O, E}, {E, E, E}},
		Mark:  X,
	}

	// When: the bot picks a move
	got, err := svc.SelectMove(context.Background(), req)

	// Then: it wins and the decision is published
	require.NoError(t, err)
	require.NotNil(t, got.Position)
	assert.Equal(t, game.Position{Row: 0, Col: 2}, *got.Position)
	assert.Equal(t, string(bot.RuleWin), got.Rule)

	assert.Equal(t, events.TypeMoveSelected, published.Type)
	var payload events.MoveSelectedPayload
	require.NoError(t, json.Unmarshal(published.Payload, &payload))
	assert.Equal(t, events.MoveSelectedPayload{Mark: "X", Difficulty: "hard", Rule: "win", Row: 0, Col: 2}, payload)
}

func TestSelectMoveFullBoard(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	svc := newService(t, publisher)
	got, err := svc.SelectMove(context.Background(), &models.MoveRequest{
		Board: [][]game.PlayerMark{{X, O, X}, {X, O, O}, {O, X, X}},
		Mark:  O,
	})

	require.NoError(t, err)
	assert.Nil(t, got.Position)
	assert.Empty(t, got.Rule)
}

func TestSelectMovePublishFailureKeepsDecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := newService(t, publisher)
	got, err := svc.SelectMove(context.Background(), &models.MoveRequest{
		Board: [][]game.PlayerMark{{E, E, E}, {E, E, E}, {E, E, E}},
		Mark:  O,
	})

	require.NoError(t, err)
	require.NotNil(t, got.Position)
	assert.Equal(t, game.Center, *got.Position)
	assert.Equal(t, string(bot.RuleCenter), got.Rule)
}

func TestSelectMoveRejectsBadInput(t *testing.T) {
	empty := [][]game.PlayerMark{{E, E, E}, {E, E, E}, {E, E, E}}
	tests := []struct {
		name string
		req  *models.MoveRequest
		err  error
	}{
		{"Empty mark", &models.MoveRequest{Board: empty, Mark: E}, game.ErrInvalidMark},
		{"Short board", &models.MoveRequest{Board: empty[:2], Mark: X}, game.ErrInvalidBoard},
		{"Unknown difficulty", &models.MoveRequest{Board: empty, Mark: X, Difficulty: "godlike"}, bot.ErrUnknownDifficulty},
	}

	svc := newService(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SelectMove(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
