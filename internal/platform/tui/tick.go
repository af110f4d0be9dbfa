// Package tui hosts the flappy engine in a terminal: Bubble Tea drives the
// frame loop and input, lipgloss paints the engine's raster, and Wish
// serves the same program over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is the animation-frame callback. It carries the time the frame
// was scheduled for.
type FrameMsg time.Time

// frameCmd requests the next frame at the given rate.
func frameCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
