// Package api serves leaderboards over HTTP and provides a client that
// turns a remote board back into a leaderboard.Store.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

const (
	// MaxLimit caps the entries a single request may ask for.
	MaxLimit = 100

	requestTimeout  = 5 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Resolver hands out the board for a game.
type Resolver interface {
	Leaderboard(gameID string) leaderboard.Store
}

// EntryJSON is the wire form of a leaderboard entry.
type EntryJSON struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoresResponse is returned by both listing endpoints.
type ScoresResponse struct {
	Game    string      `json:"game"`
	Entries []EntryJSON `json:"entries"`
}

// SubmitRequest is the body of POST .../scores.
type SubmitRequest struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes the boards of the registered games.
type Server struct {
	boards Resolver
	games  map[string]bool
	logger *log.Logger
	engine *gin.Engine
}

// NewServer builds the router. Requests for games outside games get 404.
func NewServer(boards Resolver, games []string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		boards: boards,
		games:  make(map[string]bool, len(games)),
		logger: logger.WithPrefix("api"),
	}
	for _, g := range games {
		s.games[g] = true
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	v1 := r.Group("/api/v1/boards/:game")
	v1.Use(s.knownGame())
	{
		v1.GET("/scores", s.handleTop)
		v1.GET("/scores/range", s.handleRange)
		v1.POST("/scores", s.handleSubmit)
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Stopping HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		start := time.Now()

		c.Next()

		s.logger.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) knownGame() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.games[c.Param("game")] {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "unknown game"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleTop(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	game := c.Param("game")
	entries, err := s.boards.Leaderboard(game).TopScores(ctx, limit)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScoresResponse{Game: game, Entries: toJSON(entries)})
}

func (s *Server) handleRange(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	from, err := time.Parse(time.RFC3339Nano, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "from must be an RFC 3339 time"})
		return
	}
	to, err := time.Parse(time.RFC3339Nano, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "to must be an RFC 3339 time"})
		return
	}
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "from must be before to"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	game := c.Param("game")
	entries, err := s.boards.Leaderboard(game).TopScoresBetween(ctx, from, to, limit)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScoresResponse{Game: game, Entries: toJSON(entries)})
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "body must be {\"name\": string, \"score\": int}"})
		return
	}
	if _, err := leaderboard.ValidateSubmission(req.Name, req.Score, leaderboard.DefaultNameMaxLen); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := s.boards.Leaderboard(c.Param("game")).SubmitScore(ctx, req.Name, req.Score); err != nil {
		s.storeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) storeError(c *gin.Context, err error) {
	s.logger.Warn("store request failed", "game", c.Param("game"), "error", err)
	c.JSON(http.StatusBadGateway, errorResponse{Error: "leaderboard store unavailable"})
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return leaderboard.DefaultTopN, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > MaxLimit {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and " + strconv.Itoa(MaxLimit)})
		return 0, false
	}
	return n, true
}

func toJSON(entries []leaderboard.Entry) []EntryJSON {
	out := make([]EntryJSON, len(entries))
	for i, e := range entries {
		out[i] = EntryJSON{Name: e.Name, Score: e.Score, CreatedAt: e.CreatedAt}
	}
	return out
}
