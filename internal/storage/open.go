package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/vovakirdan/flappy-wall/internal/api"
	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

// ErrUnknownScheme is returned by Connect for DSNs it cannot route.
var ErrUnknownScheme = errors.New("storage: unknown store scheme")

// ErrUnsupported is returned by ClearScores on backends that cannot clear.
var ErrUnsupported = errors.New("storage: operation not supported by this store")

// Backend hands out per-game boards from one connection.
type Backend interface {
	Leaderboard(gameID string) leaderboard.Store
	Close() error
}

// Connect opens the backend named by dsn:
//
//	redis://host:6379/0    shared Redis boards
//	http(s)://host:8080    remote `flappy serve --http`
//	memory://              process-local boards
//	sqlite:///path or path SQLite file (default)
func Connect(ctx context.Context, dsn string) (Backend, error) {
	scheme, rest, found := strings.Cut(dsn, "://")
	if !found {
		return openSQLite(dsn)
	}

	switch strings.ToLower(scheme) {
	case "redis", "rediss":
		r, err := OpenRedis(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "http", "https":
		c, err := api.NewClient(dsn, nil)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "memory":
		return NewMemoryBackend(), nil
	case "sqlite", "file":
		path, err := url.PathUnescape(rest)
		if err != nil {
			return nil, fmt.Errorf("storage: invalid sqlite path: %w", err)
		}
		return openSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

func openSQLite(path string) (Backend, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ClearScores clears a game's board when the backend supports it.
func ClearScores(ctx context.Context, b Backend, gameID string) error {
	c, ok := b.(interface {
		ClearScores(ctx context.Context, gameID string) error
	})
	if !ok {
		return ErrUnsupported
	}
	return c.ClearScores(ctx, gameID)
}

// MemoryBackend keeps one leaderboard.MemoryStore per game.
type MemoryBackend struct {
	mu     sync.Mutex
	boards map[string]*leaderboard.MemoryStore
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{boards: make(map[string]*leaderboard.MemoryStore)}
}

// Leaderboard returns the game's board, creating it on first use.
func (m *MemoryBackend) Leaderboard(gameID string) leaderboard.Store {
	return m.board(gameID)
}

func (m *MemoryBackend) board(gameID string) *leaderboard.MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[gameID]
	if !ok {
		b = leaderboard.NewMemoryStore()
		m.boards[gameID] = b
	}
	return b
}

// ClearScores empties one game's board.
func (m *MemoryBackend) ClearScores(_ context.Context, gameID string) error {
	m.board(gameID).Clear()
	return nil
}

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }
