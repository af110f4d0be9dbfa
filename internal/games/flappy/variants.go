package flappy

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
	"github.com/vovakirdan/flappy-wall/internal/registry"
)

// DefaultVariant is played when none is named.
const DefaultVariant = "classic"

// Variant is one configuration of the engine: which boards qualify a
// score and whether a target score unlocks the session.
type Variant struct {
	ID          string
	Title       string
	Description string
	Board       string // Store key of the leaderboard; empty for none
	Daily       bool   // Also qualify against today's best
	Gated       bool   // Unlock at the configured target score
}

var variants = registry.New[Variant]()

func register(v Variant) {
	variants.Register(registry.Info{ID: v.ID, Title: v.Title, Description: v.Description}, v)
}

func init() {
	register(Variant{
		ID:          "classic",
		Title:       "Flappy",
		Description: "Endless run against the all-time top 10",
		Board:       "flappy",
	})
	register(Variant{
		ID:          "daily",
		Title:       "Flappy Daily",
		Description: "All-time top 10 plus today's best 3",
		Board:       "flappy",
		Daily:       true,
	})
	register(Variant{
		ID:          "gate",
		Title:       "Flappy Wall",
		Description: "Reach the target score to get in",
		Gated:       true,
	})
}

// Variants lists the registered variants sorted by ID.
func Variants() []registry.Info {
	return variants.List()
}

// Lookup returns the variant registered under id.
func Lookup(id string) (Variant, error) {
	v, err := variants.Get(id)
	if err != nil {
		return Variant{}, fmt.Errorf("flappy: %w", err)
	}
	return v, nil
}

// Qualifier returns the qualification strategy of the variant over store,
// or nil when the variant keeps no leaderboard.
func (v Variant) Qualifier(cfg config.FlappyConfig, store leaderboard.Store) leaderboard.Qualifier {
	if v.Board == "" || store == nil {
		return nil
	}
	top := leaderboard.NewTopN(store, cfg.Leaderboard.TopN)
	if !v.Daily {
		return top
	}
	return leaderboard.AnyOf(top, leaderboard.NewDaily(store, cfg.Leaderboard.DailyN))
}

// Build creates an engine for the variant. store is the variant's board
// and may be nil; opts are applied after the variant's own options.
func (v Variant) Build(cfg config.FlappyConfig, store leaderboard.Store, opts ...Option) (*Engine, error) {
	base := []Option{WithTitle(strings.ToUpper(v.Title))}
	if q := v.Qualifier(cfg, store); q != nil {
		base = append(base, WithLeaderboard(store, q))
	}
	if v.Gated {
		base = append(base, WithTargetScore(cfg.Gate.TargetScore))
	}
	return New(cfg, append(base, opts...)...)
}
