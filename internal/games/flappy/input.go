package flappy

import (
	"time"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/core"
)

// Flapper is what the input adapter drives.
type Flapper interface {
	Flap()
	AcceptsFlap() bool
}

// InputAdapter folds keyboard, pointer and touch gestures into flaps. A
// single physical gesture reported by several sources counts once.
type InputAdapter struct {
	key    string
	window time.Duration
	bounds core.Rect

	last    core.Gesture
	hasLast bool
}

// NewInputAdapter creates an adapter for the given flap key.
func NewInputAdapter(cfg config.InputConfig) *InputAdapter {
	return &InputAdapter{
		key:    cfg.FlapKey,
		window: time.Duration(cfg.DedupeWindowMs) * time.Millisecond,
	}
}

// SetBounds sets the play surface, in cells. Pointer and touch gestures
// outside it are left to the host.
func (a *InputAdapter) SetBounds(r core.Rect) {
	a.bounds = r
}

// Handle offers one gesture to t. It reports whether the gesture was
// consumed by the play surface; unconsumed gestures belong to the host.
func (a *InputAdapter) Handle(g core.Gesture, t Flapper) bool {
	switch g.Source {
	case core.SourceKeyboard:
		if g.Key != a.key {
			return false
		}
	case core.SourcePointer, core.SourceTouch:
		if !a.bounds.Contains(g.X, g.Y) {
			return false
		}
	default:
		return false
	}

	if !t.AcceptsFlap() {
		return false
	}

	if a.duplicate(g) {
		return true
	}
	a.last, a.hasLast = g, true
	t.Flap()
	return true
}

// duplicate reports whether g is the same physical gesture as the last
// accepted one, seen through a different source.
func (a *InputAdapter) duplicate(g core.Gesture) bool {
	if !a.hasLast || g.Source == a.last.Source {
		return false
	}
	d := g.At.Sub(a.last.At)
	return d >= 0 && d < a.window
}
