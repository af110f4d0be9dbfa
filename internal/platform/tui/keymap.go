package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-wall/internal/core"
)

// KeyMap holds the key bindings of the game screen.
type KeyMap struct {
	Flap    key.Binding
	Restart key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Skip    key.Binding
}

// DefaultKeyMap returns the default bindings. flapKey is the engine's
// configured flap key.
func DefaultKeyMap(flapKey string) KeyMap {
	flapHelp := flapKey
	if flapKey == " " {
		flapHelp = "space"
	}
	return KeyMap{
		Flap: key.NewBinding(
			key.WithKeys(flapKey),
			key.WithHelp(flapHelp+"/click", "flap"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save score"),
		),
		Skip: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "skip"),
		),
	}
}

// playHelp is the footer while flying.
type playHelp KeyMap

func (k playHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Flap, k.Restart, k.Quit}
}

func (k playHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// promptHelp is the footer while entering a name.
type promptHelp KeyMap

func (k promptHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Skip}
}

func (k promptHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// keyGesture converts a key press into a gesture.
func keyGesture(msg tea.KeyMsg, at time.Time) core.Gesture {
	return core.Gesture{Source: core.SourceKeyboard, Key: msg.String(), At: at}
}

// mouseGesture converts a left-button press into a pointer gesture. Other
// mouse events are not gestures.
func mouseGesture(msg tea.MouseMsg, at time.Time) (core.Gesture, bool) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return core.Gesture{}, false
	}
	return core.Gesture{Source: core.SourcePointer, X: msg.X, Y: msg.Y, At: at}, true
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionScores
	MenuActionQuit
)

// mapMenuKey translates a key to a menu action.
func mapMenuKey(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScores
	}
	return MenuActionNone
}
