package flappy

import (
	"math"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/core"
)

// Frame is the pacing decision for one host frame.
type Frame struct {
	Delta     float64 // Smoothed frame duration in ms
	TimeScale float64 // Delta relative to the reference frame; 0 means no motion
	Skip      bool    // Sub-frame jitter: do not simulate, ask for another frame
	Now       float64 // Last accepted timestamp in ms
}

// Pacer turns wall-clock timestamps into a smoothed, clamped simulation
// delta. The zero value is not usable; create one with NewPacer.
type Pacer struct {
	cfg      config.ClockConfig
	last     float64
	smoothed float64
	seeded   bool
}

// NewPacer creates a pacer with no history.
func NewPacer(cfg config.ClockConfig) *Pacer {
	p := &Pacer{cfg: cfg}
	p.Reset()
	return p
}

// Reset forgets all history. The next Tick seeds the clock again.
func (p *Pacer) Reset() {
	p.last = 0
	p.smoothed = p.cfg.ReferenceFrameMs
	p.seeded = false
}

// Smoothed returns the current moving average of frame gaps.
func (p *Pacer) Smoothed() float64 {
	return p.smoothed
}

// Tick consumes one host timestamp in milliseconds.
func (p *Pacer) Tick(nowMs float64) Frame {
	if math.IsNaN(nowMs) || math.IsInf(nowMs, 0) || nowMs < 0 {
		return Frame{Delta: p.smoothed, Now: p.last}
	}
	if !p.seeded {
		p.seeded = true
		p.last = nowMs
		p.smoothed = p.cfg.ReferenceFrameMs
		return Frame{Delta: p.smoothed, Now: nowMs}
	}

	gap := nowMs - p.last
	if gap < 0 {
		// Clock went backwards; keep the old anchor.
		return Frame{Delta: p.smoothed, Now: p.last}
	}
	if gap < p.cfg.MinFrameMs {
		return Frame{Delta: p.smoothed, Skip: true, Now: p.last}
	}

	p.last = nowMs
	a := p.cfg.Smoothing
	p.smoothed = core.ClampF(p.smoothed*a+gap*(1-a), p.cfg.MinFrameMs, p.cfg.MaxDeltaMs)

	return Frame{
		Delta:     p.smoothed,
		TimeScale: p.smoothed / p.cfg.ReferenceFrameMs,
		Now:       nowMs,
	}
}
