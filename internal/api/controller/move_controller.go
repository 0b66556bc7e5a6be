package controller

import (
	"errors"
	"net/http"

	"ctchen222/tictactoe-engine/internal/api/models"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/api/service"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"

	"github.com/gin-gonic/gin"
)

// MoveController handles board evaluation and bot move HTTP requests.
type MoveController struct {
	moveService service.MoveService
}

// NewMoveController creates a new MoveController.
func NewMoveController(moveService service.MoveService) *MoveController {
	return &MoveController{
		moveService: moveService,
	}
}

// Evaluate handles the board evaluation endpoint.
func (mc *MoveController) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := mc.moveService.Evaluate(c.Request.Context(), req.Board)
	if err != nil {
		response.ErrorResponse(c, statusFor(err), err.Error())
		return
	}

	response.SuccessResponse(c, result)
}

// Move handles the bot move endpoint.
func (mc *MoveController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := mc.moveService.SelectMove(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, statusFor(err), err.Error())
		return
	}

	response.SuccessResponse(c, result)
}

// Health reports that the process is serving.
func (mc *MoveController) Health(c *gin.Context) {
	response.SuccessResponse(c, gin.H{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidBoard),
		errors.Is(err, game.ErrInvalidMark),
		errors.Is(err, bot.ErrUnknownDifficulty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
