package flappy

import (
	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/core"
)

// Detector tests the player against the world bounds and the live
// obstacles. It is stateless and edge-exact.
type Detector struct {
	cfg config.FlappyConfig
}

// NewDetector creates a detector for the given world.
func NewDetector(cfg config.FlappyConfig) Detector {
	return Detector{cfg: cfg}
}

// Slot returns the player's collision box at height y.
func (d Detector) Slot(y float64) core.Box {
	return core.Box{
		X: d.cfg.Player.SlotLeft,
		Y: y,
		W: d.cfg.Player.SlotRight - d.cfg.Player.SlotLeft,
		H: d.cfg.Player.Size,
	}
}

// OutOfBounds reports whether a body at y touches the top or bottom of
// the world.
func (d Detector) OutOfBounds(y float64) bool {
	return y <= 0 || y+d.cfg.Player.Size >= d.cfg.World.Height
}

// Check reports whether a body at playerY collides with anything.
func (d Detector) Check(playerY float64, obstacles []Obstacle) bool {
	if d.OutOfBounds(playerY) {
		return true
	}

	slot := d.Slot(playerY)
	for _, o := range obstacles {
		if !slot.OverlapsX(o.box(d.cfg)) {
			continue
		}
		if slot.Y < o.GapTop || slot.Bottom() > o.GapTop+d.cfg.Obstacles.Gap {
			return true
		}
	}
	return false
}
