package flappy

import (
	"testing"

	"github.com/vovakirdan/flappy-wall/internal/config"
)

func TestStreamFirstCallAnchors(t *testing.T) {
	s := NewStream(config.DefaultFlappyConfig(), 1)

	if s.MaybeSpawn(123456) {
		t.Error("the first MaybeSpawn should only anchor the cadence")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", s.Len())
	}
}

// One obstacle per 2000ms, however many frames fall in between.
func TestStreamSpawnCadence(t *testing.T) {
	s := NewStream(config.DefaultFlappyConfig(), 1)

	now := 0.0
	s.MaybeSpawn(now)
	for step := 1; step <= 5; step++ {
		spawned := 0
		for now < float64(step*2000) {
			now += 16
			if s.MaybeSpawn(now) {
				spawned++
			}
		}
		if spawned != 1 {
			t.Errorf("step %d: spawned %d obstacles, expected 1", step, spawned)
		}
	}
}

func TestStreamSpawnAfterStall(t *testing.T) {
	s := NewStream(config.DefaultFlappyConfig(), 1)
	s.MaybeSpawn(0)

	if !s.MaybeSpawn(7000) {
		t.Fatal("expected a spawn after a 7s stall")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d after a stall, expected 1", s.Len())
	}
	// The cadence stays on the 2000ms grid.
	if s.MaybeSpawn(7999) {
		t.Error("spawned before the next grid point")
	}
	if !s.MaybeSpawn(8000) {
		t.Error("expected a spawn on the next grid point")
	}
}

func TestStreamGapRange(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	s := NewStream(cfg, 99)

	for i := 0; i < 500; i++ {
		s.spawn()
	}
	for _, o := range s.Obstacles() {
		if o.GapTop < 80 || o.GapTop > cfg.MaxGapTop() {
			t.Fatalf("GapTop = %v, expected within [80, %v]", o.GapTop, cfg.MaxGapTop())
		}
		if o.X != cfg.World.Width {
			t.Fatalf("spawned at X = %v, expected %v", o.X, cfg.World.Width)
		}
	}
}

func TestStreamDeterministic(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	a, b := NewStream(cfg, 42), NewStream(cfg, 42)
	for i := 0; i < 10; i++ {
		a.spawn()
		b.spawn()
	}

	oa, ob := a.Obstacles(), b.Obstacles()
	for i := range oa {
		if oa[i] != ob[i] {
			t.Errorf("obstacle %d differs: %+v vs %+v", i, oa[i], ob[i])
		}
	}
}

func TestStreamRenderedPositionIsFloored(t *testing.T) {
	s := NewStream(config.DefaultFlappyConfig(), 1)
	s.spawn()

	s.Advance(0.5) // 1.5 units
	o := s.Obstacles()[0]
	if o.X != 498 {
		t.Errorf("X = %v, expected 498", o.X)
	}

	// Rounding does not accumulate: two more half steps land exactly on 495.
	s.Advance(0.5)
	s.Advance(0.5)
	if o := s.Obstacles()[0]; o.X != 495 {
		t.Errorf("X = %v, expected 495", o.X)
	}
}

func TestStreamPassAndEvict(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	s := NewStream(cfg, 1)
	s.spawn()
	id := s.Obstacles()[0].ID

	passes := 0
	for i := 0; i < 400 && s.Len() > 0; i++ {
		before := s.Obstacles()[0]
		passed := s.Advance(1)
		for _, pid := range passed {
			if pid != id {
				t.Fatalf("passed unknown id %d", pid)
			}
			passes++
			if before.Passed {
				t.Fatal("obstacle passed twice")
			}
		}
		if s.Len() == 0 {
			break
		}
		o := s.Obstacles()[0]
		if o.Passed != (o.X+cfg.Obstacles.Width < cfg.Player.SlotLeft) {
			t.Fatalf("X = %v: Passed = %v, expected passed exactly when the trailing edge is left of the slot", o.X, o.Passed)
		}
	}

	if passes != 1 {
		t.Errorf("obstacle passed %d times, expected 1", passes)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, expected the obstacle to be evicted", s.Len())
	}
	if len(s.exact) != 0 {
		t.Errorf("%d exact positions still tracked after eviction", len(s.exact))
	}
}

func TestStreamReset(t *testing.T) {
	s := NewStream(config.DefaultFlappyConfig(), 1)
	s.MaybeSpawn(0)
	s.MaybeSpawn(2000)
	s.Reset()

	if s.Len() != 0 || len(s.exact) != 0 {
		t.Errorf("after Reset: Len() = %d, tracked = %d; expected 0, 0", s.Len(), len(s.exact))
	}
	if s.MaybeSpawn(10000) {
		t.Error("the first MaybeSpawn after Reset should only anchor")
	}
}
