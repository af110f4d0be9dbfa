package flappy

import (
	"testing"

	"github.com/vovakirdan/flappy-wall/internal/config"
)

func TestBodyGravity(t *testing.T) {
	b := NewBody(config.DefaultFlappyConfig())

	b.ApplyGravity(1)
	if !approx(b.Velocity, 0.6) {
		t.Errorf("Velocity = %v, expected 0.6", b.Velocity)
	}
	if !approx(b.Y, 250.6) {
		t.Errorf("Y = %v, expected 250.6", b.Y)
	}

	// Half a reference frame scales both the acceleration and the move.
	b.ApplyGravity(0.5)
	if !approx(b.Velocity, 0.9) {
		t.Errorf("Velocity = %v, expected 0.9", b.Velocity)
	}
	if !approx(b.Y, 250.6+0.45) {
		t.Errorf("Y = %v, expected %v", b.Y, 250.6+0.45)
	}
}

func TestBodyImpulseOverrides(t *testing.T) {
	b := NewBody(config.DefaultFlappyConfig())

	for _, v := range []float64{12, -3, 0, -10} {
		b.Velocity = v
		b.ApplyImpulse()
		if b.Velocity != -10 {
			t.Errorf("after impulse from %v: Velocity = %v, expected -10", v, b.Velocity)
		}
	}
}

func TestBodyFlapAnimation(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	b := NewBody(cfg)

	if b.Flapping() {
		t.Fatal("new body should not be flapping")
	}
	b.ApplyImpulse()
	if !b.Flapping() {
		t.Fatal("impulse should start the flap animation")
	}

	b.Animate(cfg.FlapDurationMs() - 1)
	if !b.Flapping() {
		t.Error("flap animation ended early")
	}
	b.Animate(2)
	if b.Flapping() {
		t.Error("flap animation should end after its duration")
	}
}

func TestBodyReset(t *testing.T) {
	b := NewBody(config.DefaultFlappyConfig())
	b.ApplyImpulse()
	b.ApplyGravity(3)
	b.Reset()

	if b.Y != 250 || b.Velocity != 0 || b.Flapping() {
		t.Errorf("after Reset: Y=%v Velocity=%v Flapping=%v, expected 250, 0, false", b.Y, b.Velocity, b.Flapping())
	}
}
