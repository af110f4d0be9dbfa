package flappy

import (
	"math/rand"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/core"
)

// Cloud is one parallax decoration. Its position is a pure function of
// elapsed reference frames, so the renderer never mutates it.
type Cloud struct {
	X0, Y float64
	Width float64
	Speed float64 // World units per reference frame
}

// Decor is the background cloud layer.
type Decor struct {
	cfg    config.FlappyConfig
	clouds []Cloud
}

// NewDecor lays out the clouds from seed.
func NewDecor(cfg config.FlappyConfig, seed int64) *Decor {
	rng := rand.New(rand.NewSource(seed))
	d := cfg.Decor

	clouds := make([]Cloud, d.Clouds)
	for i := range clouds {
		clouds[i] = Cloud{
			X0:    rng.Float64() * cfg.World.Width,
			Y:     d.MinY + rng.Float64()*(d.MaxY-d.MinY),
			Width: d.MinWidth + rng.Float64()*(d.MaxWidth-d.MinWidth),
			Speed: d.MinSpeed + rng.Float64()*(d.MaxSpeed-d.MinSpeed),
		}
	}
	return &Decor{cfg: cfg, clouds: clouds}
}

// At returns the cloud boxes after frames reference frames. Each box is
// 30 units tall around the cloud's center line. A cloud that drifts past
// the left edge re-enters from the right.
func (d *Decor) At(frames float64) []core.Box {
	wrap := d.cfg.Decor.OffscreenWrap
	out := make([]core.Box, len(d.clouds))
	for i, c := range d.clouds {
		lo := -wrap - c.Width
		span := d.cfg.World.Width + 2*wrap + c.Width
		out[i] = core.Box{
			X: core.Wrap(c.X0-c.Speed*frames, lo, span),
			Y: c.Y - 15,
			W: c.Width,
			H: 30,
		}
	}
	return out
}
