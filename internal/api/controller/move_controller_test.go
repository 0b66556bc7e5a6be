package controller

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"ctchen222/tictactoe-engine/internal/api/service"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Invalid board", fmt.Errorf("%w: got 2 rows", game.ErrInvalidBoard), http.StatusBadRequest},
		{"Invalid mark", fmt.Errorf("%w: %q", game.ErrInvalidMark, "Z"), http.StatusBadRequest},
		{"Unknown difficulty", fmt.Errorf("%w: %q", bot.ErrUnknownDifficulty, "godlike"), http.StatusBadRequest},
		{"Anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestMoveControllerHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mc := NewMoveController(service.NewMoveService(bot.NewSelector(rand.New(rand.NewPCG(3, 4))), nil))

	tests := []struct {
		name     string
		handler  gin.HandlerFunc
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "Evaluate winner",
			handler:  mc.Evaluate,
			body:     `{"board":[["O","",""],["O","X",""],["O","X","X"]]}`,
			wantCode: http.StatusOK,
			wantBody: `"winner":"O"`,
		},
		{
			name:     "Evaluate missing board",
			handler:  mc.Evaluate,
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Evaluate bad cell",
			handler:  mc.Evaluate,
			body:     `{"board":[["?","",""],["","",""],["","",""]]}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Move corner after center taken",
			handler:  mc.Move,
			body:     `{"board":[["","",""],["","X",""],["","",""]],"mark":"O"}`,
			wantCode: http.StatusOK,
			wantBody: `"position":{"row":0,"col":0}`,
		},
		{
			name:     "Move missing mark",
			handler:  mc.Move,
			body:     `{"board":[["","",""],["","",""],["","",""]]}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			tt.handler(c)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)

	NewMoveController(nil).Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
