package core

import "time"

// Source identifies the kind of device a gesture came from.
type Source int

const (
	SourceKeyboard Source = iota
	SourcePointer
	SourceTouch
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourcePointer:
		return "pointer"
	case SourceTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// Gesture is a single discrete input event delivered by the host:
// a key-down, pointer-down or touch-start. X and Y are surface cell
// coordinates and are only meaningful for pointer and touch gestures.
type Gesture struct {
	Source Source
	Key    string
	X, Y   int
	At     time.Time
}
