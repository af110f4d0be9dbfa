// Package tui hosts the flappy engine in a terminal, locally or over SSH
// via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/games/flappy"
	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
	"github.com/vovakirdan/flappy-wall/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.flappy/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Backend is shared by every session; nil plays without leaderboards.
	Backend storage.Backend

	Flappy  config.FlappyConfig
	Sprites *flappy.Sprites
	FPS     int
	Seed    int64 // 0 seeds each session from the clock
	Logger  *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Flappy:      config.DefaultFlappyConfig(),
		FPS:         60,
	}
}

// SSHServer wraps a Wish SSH server serving flappy sessions.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "flappy-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(config.StateDir(), "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	// Middlewares run last to first: logging wraps the command check,
	// which guards the program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.commandMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// commandMiddleware rejects sessions asking for an unknown variant.
func (s *SSHServer) commandMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		if cmd := sess.Command(); len(cmd) > 0 {
			if _, err := flappy.Lookup(cmd[0]); err != nil {
				wish.Fatalln(sess, fmt.Sprintf("unknown mode %q; try: ssh -t host classic", cmd[0]))
				return
			}
		}
		next(sess)
	}
}

// teaHandler creates a Bubble Tea program for each SSH session. A command
// names the variant to play directly; without one the session opens the
// menu.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "no active terminal, use ssh -t")
		return nil, nil
	}

	id := uuid.NewString()
	logger := s.logger.With("session", id, "user", sess.User())

	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := Options{
		Config:  s.config.Flappy,
		Backend: s.config.Backend,
		Sprites: s.config.Sprites,
		Painter: NewPainter(bubbletea.MakeRenderer(sess)),
		Logger:  logger,
		FPS:     s.config.FPS,
		Seed:    seed,
		Width:   pty.Window.Width,
		Height:  pty.Window.Height,
		OnUnlock: func() {
			logger.Info("session unlocked")
		},
	}

	model := NewSessionModel(opts)
	live := model.live
	go func() {
		<-sess.Context().Done()
		live.set(nil)
	}()

	if cmd := sess.Command(); len(cmd) > 0 {
		// Checked by commandMiddleware.
		v, _ := flappy.Lookup(cmd[0])
		if err := model.play(v); err != nil {
			logger.Warn("could not start game", "error", err)
			return nil, nil
		}
		model.direct = true
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"command", sess.Command(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// liveEngine tracks the session's running engine so a dropped connection
// can stop it.
type liveEngine struct {
	mu     sync.Mutex
	engine *flappy.Engine
}

func (l *liveEngine) set(e *flappy.Engine) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.engine != nil && l.engine != e {
		l.engine.Stop()
	}
	l.engine = e
}

// SessionModel manages the session flow: menu -> game or scoreboard -> menu.
type SessionModel struct {
	opts   Options
	live   *liveEngine
	menu   MenuModel
	game   *Model
	board  *ScoreboardModel
	width  int
	height int

	// direct sessions were started with a variant and end with the game.
	direct   bool
	quitting bool
}

// NewSessionModel creates a session starting at the menu.
func NewSessionModel(opts Options) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		opts:   opts,
		live:   &liveEngine{},
		menu:   NewMenuModel(opts.Width, opts.Height),
		width:  opts.Width,
		height: opts.Height,
	}
}

// Close stops the running engine, if any.
func (m SessionModel) Close() {
	m.live.set(nil)
}

// play replaces the current screen with a game of v.
func (m *SessionModel) play(v flappy.Variant) error {
	opts := m.opts
	opts.Variant = v
	opts.Width, opts.Height = m.width, m.height
	opts.Embedded = true

	game, err := NewModel(opts)
	if err != nil {
		return err
	}
	m.live.set(game.Engine())
	m.game = &game
	return nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.game != nil {
		return m.game.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.live.set(nil)
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.board != nil:
		return m.updateBoard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	// The menu quits on selection; the session stays.
	v, err := flappy.Lookup(selected.Variant)
	if err != nil {
		m.menu = NewMenuModel(m.width, m.height)
		return m, nil
	}

	if m.menu.WantsScoreboard() {
		var store leaderboard.Store
		if m.opts.Backend != nil {
			store = m.opts.Backend.Leaderboard(v.Board)
		}
		dailyN := 0
		if v.Daily {
			dailyN = m.opts.Config.Leaderboard.DailyN
		}
		board := NewScoreboardModel(v.Title, store, m.opts.Config.Leaderboard.TopN, dailyN, m.width, m.height)
		m.board = &board
		return m, m.board.Init()
	}

	if err := m.play(v); err != nil {
		m.opts.Logger.Warn("could not start game", "error", err)
		m.menu = NewMenuModel(m.width, m.height)
		return m, nil
	}
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if !m.game.Done() {
		return m, cmd
	}

	m.live.set(nil)
	m.game = nil
	if m.direct {
		m.quitting = true
		return m, tea.Quit
	}
	m.menu = NewMenuModel(m.width, m.height)
	return m, m.menu.Init()
}

// updateBoard handles updates while the scoreboard is open. Its quit keys
// return to the menu.
func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.board.keys.Quit) {
		m.board = nil
		m.menu = NewMenuModel(m.width, m.height)
		return m, m.menu.Init()
	}

	newModel, cmd := m.board.Update(msg)
	if boardModel, ok := newModel.(ScoreboardModel); ok {
		m.board = &boardModel
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.game != nil:
		return m.game.View()
	case m.board != nil:
		return m.board.View()
	}
	return m.menu.View()
}
