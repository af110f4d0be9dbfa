package flappy

import "github.com/vovakirdan/flappy-wall/internal/config"

// Body is the player entity: vertical position and velocity under constant
// gravity plus discrete impulses. Y is the top of the body in world units.
type Body struct {
	Y        float64
	Velocity float64

	flapLeft float64 // Remaining flap animation time in ms
	cfg      config.FlappyConfig
}

// NewBody creates a body at its start position.
func NewBody(cfg config.FlappyConfig) *Body {
	b := &Body{cfg: cfg}
	b.Reset()
	return b
}

// Reset restores the construction-time defaults.
func (b *Body) Reset() {
	b.Y = b.cfg.Player.StartY
	b.Velocity = 0
	b.flapLeft = 0
}

// ApplyGravity integrates one time-scaled step.
func (b *Body) ApplyGravity(timeScale float64) {
	b.Velocity += b.cfg.Physics.Gravity * timeScale
	b.Y += b.Velocity * timeScale
}

// ApplyImpulse overrides the velocity with the jump constant and starts
// the flap animation. Impulses do not stack.
func (b *Body) ApplyImpulse() {
	b.Velocity = b.cfg.Physics.JumpImpulse
	b.flapLeft = b.cfg.FlapDurationMs()
}

// Animate advances the flap animation by deltaMs.
func (b *Body) Animate(deltaMs float64) {
	if b.flapLeft <= 0 {
		return
	}
	b.flapLeft -= deltaMs
	if b.flapLeft < 0 {
		b.flapLeft = 0
	}
}

// Flapping reports whether the flap animation frame should be shown.
func (b *Body) Flapping() bool {
	return b.flapLeft > 0
}
