package flappy

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/core"
)

// Obstacle is a pair of barriers with a gap the player must fly through.
type Obstacle struct {
	ID     uint64
	X      float64 // Rendered left edge, floored from the exact position
	GapTop float64 // Height of the upper barrier
	Passed bool
}

// Stream spawns obstacles on a wall-clock cadence, moves them left and
// retires them once they are off the world.
type Stream struct {
	cfg config.FlappyConfig
	rng *rand.Rand

	live   []Obstacle
	exact  map[uint64]float64 // Sub-pixel positions by obstacle ID
	nextID uint64

	anchor   float64
	anchored bool
}

// NewStream creates an empty stream drawing gaps from seed.
func NewStream(cfg config.FlappyConfig, seed int64) *Stream {
	return &Stream{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		live:  make([]Obstacle, 0, 8),
		exact: make(map[uint64]float64),
	}
}

// Reset removes every obstacle and un-anchors the spawn timer.
func (s *Stream) Reset() {
	s.live = s.live[:0]
	clear(s.exact)
	s.ResetTimer()
}

// ResetTimer makes the next MaybeSpawn anchor the cadence at its timestamp.
func (s *Stream) ResetTimer() {
	s.anchor = 0
	s.anchored = false
}

// Obstacles returns a copy of the live set, oldest first.
func (s *Stream) Obstacles() []Obstacle {
	out := make([]Obstacle, len(s.live))
	copy(out, s.live)
	return out
}

// Len returns the number of live obstacles.
func (s *Stream) Len() int {
	return len(s.live)
}

// MaybeSpawn adds an obstacle at the right edge when a full spawn interval
// has elapsed since the anchor. At most one obstacle spawns per call; the
// anchor moves by whole intervals so the cadence stays on a fixed grid.
func (s *Stream) MaybeSpawn(nowMs float64) bool {
	if !s.anchored {
		s.anchor = nowMs
		s.anchored = true
		return false
	}

	interval := s.cfg.Obstacles.SpawnIntervalMs
	elapsed := nowMs - s.anchor
	if interval <= 0 || elapsed < interval {
		return false
	}
	s.anchor += math.Floor(elapsed/interval) * interval

	s.spawn()
	return true
}

func (s *Stream) spawn() {
	lo := s.cfg.Obstacles.MinTop
	hi := s.cfg.MaxGapTop()
	gapTop := lo
	if hi > lo {
		gapTop = lo + s.rng.Float64()*(hi-lo)
	}

	s.nextID++
	x := s.cfg.World.Width
	s.exact[s.nextID] = x
	s.live = append(s.live, Obstacle{ID: s.nextID, X: math.Floor(x), GapTop: gapTop})
}

// Advance moves every obstacle left by one time-scaled step, marks the
// ones whose trailing edge cleared the player's slot and evicts the ones
// fully off the left edge. It returns the IDs passed during this call.
func (s *Stream) Advance(timeScale float64) []uint64 {
	var passed []uint64
	w := s.cfg.Obstacles.Width
	slot := s.cfg.Player.SlotLeft
	evictAt := -s.cfg.Obstacles.EvictMargin

	kept := s.live[:0]
	for _, o := range s.live {
		x := s.exact[o.ID] - s.cfg.Obstacles.Speed*timeScale
		s.exact[o.ID] = x
		o.X = math.Floor(x)

		if !o.Passed && o.X+w < slot {
			o.Passed = true
			passed = append(passed, o.ID)
		}
		if o.X+w <= evictAt {
			delete(s.exact, o.ID)
			continue
		}
		kept = append(kept, o)
	}
	s.live = kept

	return passed
}

// box returns the obstacle's horizontal span as a full-height world box.
func (o Obstacle) box(cfg config.FlappyConfig) core.Box {
	return core.Box{X: o.X, Y: 0, W: cfg.Obstacles.Width, H: cfg.World.Height}
}
