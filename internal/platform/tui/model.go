package tui

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/core"
	"github.com/vovakirdan/flappy-wall/internal/games/flappy"
	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
	"github.com/vovakirdan/flappy-wall/internal/storage"
)

// footerHeight is the rows below the play surface kept for help and the
// name prompt.
const footerHeight = 1

// Options configure a game Model.
type Options struct {
	Variant flappy.Variant
	Config  config.FlappyConfig
	Backend storage.Backend // nil plays without a leaderboard
	Sprites *flappy.Sprites // nil draws the fallback bird
	Painter *Painter        // nil uses the default renderer
	Logger  *log.Logger
	FPS     int
	Seed    int64
	Width   int
	Height  int

	// OnUnlock runs once when a gated session unlocks, before the program
	// quits.
	OnUnlock func()

	// Embedded models report Done instead of quitting the program, so a
	// session can go back to its menu.
	Embedded bool
}

// session holds what must survive Bubble Tea's value copies.
type session struct {
	unlocked bool
}

// Model is the Bubble Tea model for one engine.
type Model struct {
	engine   *flappy.Engine
	renderer *flappy.Renderer
	adapter  *flappy.InputAdapter
	screen   *core.Screen
	painter  *Painter
	sess     *session

	input     textinput.Model
	inputErr  error
	help      help.Model
	keys      KeyMap
	hintStyle lipgloss.Style
	errStyle  lipgloss.Style

	start    time.Time
	fps      int
	width    int
	height   int
	embedded bool
	done     bool
}

// NewModel builds the engine for opts.Variant and wraps it.
func NewModel(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	painter := opts.Painter
	if painter == nil {
		painter = NewPainter(nil)
	}

	var store leaderboard.Store
	if opts.Backend != nil && opts.Variant.Board != "" {
		store = opts.Backend.Leaderboard(opts.Variant.Board)
	}

	sess := &session{}
	onUnlock := opts.OnUnlock
	engine, err := opts.Variant.Build(opts.Config, store,
		flappy.WithSeed(opts.Seed),
		flappy.WithLogger(logger),
		flappy.WithUnlockHandler(func() {
			sess.unlocked = true
			if onUnlock != nil {
				onUnlock()
			}
		}),
	)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "YOUR NAME"
	ti.Prompt = "NAME: "
	ti.CharLimit = opts.Config.Leaderboard.NameMaxLen
	ti.Width = opts.Config.Leaderboard.NameMaxLen + 1

	m := Model{
		engine:    engine,
		renderer:  flappy.NewRenderer(opts.Config, opts.Sprites),
		adapter:   flappy.NewInputAdapter(opts.Config.Input),
		screen:    core.NewScreen(0, 0),
		painter:   painter,
		sess:      sess,
		input:     ti,
		help:      help.New(),
		keys:      DefaultKeyMap(opts.Config.Input.FlapKey),
		hintStyle: painter.renderer.NewStyle().Foreground(lipgloss.Color("241")),
		errStyle:  painter.renderer.NewStyle().Foreground(lipgloss.Color("196")),
		start:     time.Now(),
		fps:       opts.FPS,
		embedded:  opts.Embedded,
	}
	m.resize(opts.Width, opts.Height)
	return m, nil
}

// Engine returns the hosted engine.
func (m Model) Engine() *flappy.Engine {
	return m.engine
}

// Unlocked reports whether the gated session was unlocked.
func (m Model) Unlocked() bool {
	return m.sess.unlocked
}

// Done reports whether an embedded model has finished.
func (m Model) Done() bool {
	return m.done
}

// Close stops the engine and abandons its in-flight work.
func (m Model) Close() {
	m.engine.Stop()
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case FrameMsg:
		return m.handleFrame(time.Time(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if g, ok := mouseGesture(msg, time.Now()); ok {
			m.adapter.Handle(g, m.engine)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	h := max(height-footerHeight, 0)
	m.screen.Resize(width, h)
	m.engine.Resize(width, h)
	m.adapter.SetBounds(m.renderer.Viewport(width, h))
	m.help.Width = width
}

// now converts t to the engine clock: milliseconds since the model started.
func (m Model) now(t time.Time) float64 {
	return float64(t.Sub(m.start).Microseconds()) / 1000
}

func (m Model) handleFrame(t time.Time) (tea.Model, tea.Cmd) {
	m.engine.Tick(m.now(t))
	m.syncPrompt()

	if m.sess.unlocked {
		return m.finish()
	}
	return m, frameCmd(m.fps)
}

// syncPrompt focuses the name field while the engine waits for a name.
func (m *Model) syncPrompt() {
	prompting := m.engine.Phase() == flappy.PhasePrompt
	switch {
	case prompting && !m.input.Focused():
		m.input.Reset()
		m.inputErr = nil
		m.input.Focus()
	case !prompting && m.input.Focused():
		m.input.Blur()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.finish()
	}

	if m.input.Focused() {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.finish()
	case key.Matches(msg, m.keys.Restart):
		m.engine.Restart()
		return m, nil
	}

	m.adapter.Handle(keyGesture(msg, time.Now()), m.engine)
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		err := m.engine.SubmitName(m.input.Value())
		switch {
		case err == nil:
			m.input.Blur()
		case errors.Is(err, leaderboard.ErrEmptyName):
			m.inputErr = err
		default:
			m.inputErr = err
			m.input.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keys.Skip):
		m.engine.Decline()
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = nil
	return m, cmd
}

func (m Model) finish() (tea.Model, tea.Cmd) {
	if m.embedded {
		m.done = true
		return m, nil
	}
	return m, tea.Quit
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.done {
		return ""
	}
	m.renderer.Render(m.screen, m.engine.View())
	if m.height <= footerHeight {
		return m.painter.Paint(m.screen)
	}
	return m.painter.Paint(m.screen) + "\n" + m.footer()
}

func (m Model) footer() string {
	if m.input.Focused() {
		line := m.input.View() + "  " + m.help.View(promptHelp(m.keys))
		if m.inputErr != nil {
			line += "  " + m.errStyle.Render(m.inputErr.Error())
		}
		return line
	}
	if m.engine.State() == flappy.StateUnlocked {
		return m.hintStyle.Render("unlocked")
	}
	return m.help.View(playHelp(m.keys))
}

// Run plays opts.Variant in the current terminal. It reports whether a
// gated session was unlocked.
func Run(opts Options) (bool, error) {
	model, err := NewModel(opts)
	if err != nil {
		return false, err
	}
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return false, err
	}
	return model.Unlocked(), nil
}
