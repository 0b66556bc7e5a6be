package server

import (
	"log/slog"
	"net/http"
	"time"

	"ctchen222/tictactoe-engine/internal/api/controller"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/bot"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// BotOptions are the defaults for bots served over websocket.
type BotOptions struct {
	Difficulty bot.Difficulty
	ThinkDelay time.Duration
}

type Server struct {
	engine         *gin.Engine
	moveController *controller.MoveController
	calculator     bot.MoveCalculator
	botOptions     BotOptions
	upgrader       websocket.Upgrader
}

func NewServer(moveController *controller.MoveController, calculator bot.MoveCalculator, opts BotOptions) *Server {
	if opts.Difficulty == "" {
		opts.Difficulty = bot.Hard
	}
	s := &Server{
		engine:         gin.New(),
		moveController: moveController,
		calculator:     calculator,
		botOptions:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.registerHandlers()
	return s
}

// Engine returns the underlying http.Handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers() {
	s.engine.Use(response.Recovery(), tracing())

	s.engine.GET("/healthz", s.moveController.Health)

	api := s.engine.Group("/api/v1")
	api.POST("/evaluate", s.moveController.Evaluate)
	api.POST("/move", s.moveController.Move)

	s.engine.GET("/ws/bot", s.handleWebSocket)
}

// tracing starts a span per request and logs the result.
func tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "server."+c.Request.Method+" "+c.FullPath(), trace.WithAttributes(
			attribute.String("http.url", c.Request.URL.String()),
			attribute.String("http.method", c.Request.Method),
		))
		defer span.End()

		start := time.Now()
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		slog.InfoContext(ctx, "request handled", "http.method", c.Request.Method, "http.path", c.FullPath(), "http.status_code", status, "duration", time.Since(start))
	}
}

// handleWebSocket upgrades the connection and hands it to a bot that answers
// updates with moves until the client goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket")
	defer span.End()

	difficulty := s.botOptions.Difficulty
	if q := c.Query("difficulty"); q != "" {
		d, err := bot.ParseDifficulty(q)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Invalid difficulty")
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		difficulty = d
	}
	span.SetAttributes(attribute.String("game.difficulty", string(difficulty)))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}
	defer conn.Close()

	p := bot.NewBotPlayer(conn)
	span.SetAttributes(attribute.String("player.id", p.ID), attribute.Bool("player.is_bot", p.IsBot))
	slog.InfoContext(ctx, "Bot connected", "player.id", p.ID, "player.is_bot", p.IsBot, "game.difficulty", difficulty)

	bc := bot.NewBotConnection(p, s.calculator, difficulty, s.botOptions.ThinkDelay)
	if err := bc.Serve(ctx); err != nil {
		slog.WarnContext(ctx, "Bot connection closed with error", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bot connection error")
		return
	}
	slog.InfoContext(ctx, "Bot disconnected", "player.id", p.ID)
}
