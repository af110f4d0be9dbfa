package flappy

import (
	"testing"

	"github.com/vovakirdan/flappy-wall/internal/config"
)

func TestDetectorBounds(t *testing.T) {
	d := NewDetector(config.DefaultFlappyConfig())

	tests := []struct {
		y    float64
		want bool
	}{
		{0, true},
		{-3, true},
		{0.5, false},
		{599, false},
		{600, true},
		{650, true},
	}
	for _, tc := range tests {
		if got := d.Check(tc.y, nil); got != tc.want {
			t.Errorf("Check(%v, nil) = %v, expected %v", tc.y, got, tc.want)
		}
	}
}

func TestDetectorGapEdges(t *testing.T) {
	d := NewDetector(config.DefaultFlappyConfig())
	obs := []Obstacle{{ID: 1, X: 40, GapTop: 200}}

	// Gap spans [200, 400); the body is 100 tall.
	tests := []struct {
		name string
		y    float64
		want bool
	}{
		{"flush with gap top", 200, false},
		{"one above gap top", 199, true},
		{"flush with gap bottom", 300, false},
		{"one below gap bottom", 301, true},
		{"centered", 250, false},
	}
	for _, tc := range tests {
		if got := d.Check(tc.y, obs); got != tc.want {
			t.Errorf("%s: Check(%v) = %v, expected %v", tc.name, tc.y, got, tc.want)
		}
	}
}

func TestDetectorHorizontalOverlap(t *testing.T) {
	d := NewDetector(config.DefaultFlappyConfig())

	// Slot is [50, 80); obstacles are 80 wide. A body at y=100 is above
	// every gap, so it collides exactly when the spans overlap.
	tests := []struct {
		x    float64
		want bool
	}{
		{80, false},  // leading edge touches the slot's right edge
		{79, true},   // one unit of overlap
		{-30, false}, // trailing edge touches the slot's left edge
		{-29, true},
		{200, false},
	}
	for _, tc := range tests {
		obs := []Obstacle{{ID: 1, X: tc.x, GapTop: 300}}
		if got := d.Check(100, obs); got != tc.want {
			t.Errorf("obstacle at X=%v: Check() = %v, expected %v", tc.x, got, tc.want)
		}
	}
}
