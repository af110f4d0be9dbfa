// Package flappy implements a real-time obstacle-dodging engine: a paced
// simulation of a flapping player and a stream of gapped barriers, a game
// lifecycle with an optional score gate, and asynchronous leaderboard
// qualification that never blocks the frame loop.
//
// An Engine is driven from a single goroutine by the host: Tick once per
// display refresh, Flap for input, Render through a Renderer. The only
// concurrent work is leaderboard I/O, whose results are applied at the
// start of the next engine call.
package flappy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/core"
	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

// State is the lifecycle state of a session.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateGameOver
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game-over"
	case StateUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Phase tracks leaderboard qualification of a finished session.
type Phase int

const (
	PhaseNone       Phase = iota
	PhaseChecking         // Qualification check in flight
	PhasePrompt           // Waiting for a name or a decline
	PhaseSubmitting       // Submission in flight
	PhaseResolved         // Nothing left to do; restart allowed
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseChecking:
		return "checking"
	case PhasePrompt:
		return "prompt"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResolved:
		return "resolved"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrNotPrompting is returned by SubmitName and Decline outside the
// name-entry prompt.
var ErrNotPrompting = errors.New("flappy: no name entry pending")

// Option configures an Engine.
type Option func(*Engine)

// WithLeaderboard enables qualification against q and submission to store.
func WithLeaderboard(store leaderboard.Store, q leaderboard.Qualifier) Option {
	return func(e *Engine) {
		e.store = store
		e.qualifier = q
	}
}

// WithTargetScore gates the session: reaching n unlocks instead of
// continuing. Zero disables the gate.
func WithTargetScore(n int) Option {
	return func(e *Engine) { e.target = n }
}

// WithUnlockHandler sets the callback fired once after unlocking.
func WithUnlockHandler(fn func()) Option {
	return func(e *Engine) { e.onUnlock = fn }
}

// WithObserver receives a Snapshot on every state or phase transition.
// It is called on the engine's goroutine and must not call back into it.
func WithObserver(fn func(Snapshot)) Option {
	return func(e *Engine) { e.observer = fn }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.WithPrefix("engine")
		}
	}
}

// WithSeed fixes the obstacle and decoration RNG seed. Zero picks one from
// the clock.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithTitle sets the title shown on the start screen.
func WithTitle(title string) Option {
	return func(e *Engine) { e.title = title }
}

// Engine is one game session host: it owns the simulation and the
// qualification flow for the sessions played on it.
type Engine struct {
	cfg    config.FlappyConfig
	logger *log.Logger
	title  string
	seed   int64

	pacer    *Pacer
	body     *Body
	stream   *Stream
	detector Detector
	decor    *Decor

	state  State
	score  int
	frames float64 // Reference frames elapsed, drives decoration
	width  int
	height int

	target      int
	onUnlock    func()
	unlockedAt  float64
	unlockFired bool

	store     leaderboard.Store
	qualifier leaderboard.Qualifier
	phase     Phase
	failOpen  bool
	submitErr error
	boards    []leaderboard.Board
	boardsErr error

	observer  func(Snapshot)
	published Snapshot
	hasPub    bool

	async
}

// New creates an engine in the idle state.
func New(cfg config.FlappyConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flappy: invalid config: %w", err)
	}

	e := &Engine{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.qualifier != nil && e.store == nil {
		return nil, errors.New("flappy: leaderboard qualifier needs a store")
	}
	if e.target < 0 {
		return nil, fmt.Errorf("flappy: target score %d is negative", e.target)
	}
	if e.seed == 0 {
		e.seed = time.Now().UnixNano()
	}

	e.pacer = NewPacer(cfg.Clock)
	e.body = NewBody(cfg)
	e.stream = NewStream(cfg, e.seed)
	e.detector = NewDetector(cfg)
	e.decor = NewDecor(cfg, e.seed)
	e.async.init(time.Duration(cfg.Leaderboard.TimeoutMs) * time.Millisecond)
	e.state = StateIdle
	e.publish()

	return e, nil
}

// Config returns the engine tuning.
func (e *Engine) Config() config.FlappyConfig {
	return e.cfg
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Phase returns the qualification phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Score returns the running score.
func (e *Engine) Score() int {
	return e.score
}

// Gated reports whether the engine unlocks at a target score.
func (e *Engine) Gated() bool {
	return e.target > 0
}

// AcceptsFlap reports whether a flap would be meaningful right now. Hosts
// use it to leave input to a name-entry overlay.
func (e *Engine) AcceptsFlap() bool {
	switch e.state {
	case StateUnlocked:
		return false
	case StateGameOver:
		return e.phase != PhasePrompt && e.phase != PhaseSubmitting
	default:
		return true
	}
}

// Flap is the single player command.
func (e *Engine) Flap() {
	e.drain()

	switch e.state {
	case StateIdle:
		e.body.ApplyImpulse()
		e.stream.ResetTimer()
		e.state = StatePlaying
		e.publish()
	case StatePlaying:
		e.body.ApplyImpulse()
	case StateGameOver:
		switch e.phase {
		case PhaseChecking, PhasePrompt, PhaseSubmitting:
			return
		}
		e.reset()
	}
}

// Restart abandons the current session and returns to idle. In-flight
// leaderboard work for the old session is discarded. Unlocked engines
// stay unlocked.
func (e *Engine) Restart() {
	e.drain()
	if e.state == StateUnlocked {
		return
	}
	e.reset()
}

// Resize records the host surface size in cells. The world keeps its
// fixed size; the renderer scales it.
func (e *Engine) Resize(width, height int) {
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	e.logger.Debug("surface resized", "width", width, "height", height)
}

// Size returns the last surface size passed to Resize.
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

// Tick advances the engine to nowMs (host clock, milliseconds). It returns
// false when the frame was discarded as jitter and nothing changed.
func (e *Engine) Tick(nowMs float64) bool {
	if e.stopped() {
		return false
	}
	e.drain()

	f := e.pacer.Tick(nowMs)
	if f.Skip {
		return false
	}
	e.body.Animate(f.TimeScale * e.cfg.Clock.ReferenceFrameMs)
	e.frames += f.TimeScale

	switch e.state {
	case StatePlaying:
		e.step(f)
	case StateUnlocked:
		if !e.unlockFired && f.Now-e.unlockedAt >= e.cfg.Gate.UnlockDelayMs {
			e.unlockFired = true
			e.logger.Info("gate unlocked", "score", e.score)
			if e.onUnlock != nil {
				e.onUnlock()
			}
		}
	}
	return true
}

func (e *Engine) step(f Frame) {
	e.body.ApplyGravity(f.TimeScale)
	e.stream.MaybeSpawn(f.Now)

	for range e.stream.Advance(f.TimeScale) {
		e.score++
		if e.target > 0 && e.score >= e.target {
			e.state = StateUnlocked
			e.unlockedAt = f.Now
			e.publish()
			return
		}
	}

	if e.detector.Check(e.body.Y, e.stream.live) {
		e.endSession()
	}
}

// endSession moves a playing session to game over. Repeated calls are
// no-ops, so exactly one qualification check is issued per session.
func (e *Engine) endSession() {
	if e.state != StatePlaying {
		return
	}
	e.state = StateGameOver
	e.logger.Debug("session over", "score", e.score, "generation", e.generation)

	switch {
	case e.qualifier == nil:
		e.phase = PhaseResolved
	case e.score > 0:
		e.phase = PhaseChecking
		e.checkScore()
	default:
		e.phase = PhaseResolved
		e.refreshBoards()
	}
	e.publish()
}

func (e *Engine) reset() {
	e.invalidate()

	e.body.Reset()
	e.stream.Reset()
	e.pacer.Reset()
	e.score = 0
	e.phase = PhaseNone
	e.failOpen = false
	e.submitErr = nil
	e.state = StateIdle
	e.publish()
}

// View is a read-only copy of everything the renderer draws.
type View struct {
	State     State
	Phase     Phase
	Title     string
	Score     int
	Target    int
	PlayerY   float64
	Flapping  bool
	Obstacles []Obstacle
	Clouds    []core.Box

	Leaderboard bool
	Boards      []leaderboard.Board
	FailOpen    bool
	SubmitErr   error
}

// View returns the current presentation state.
func (e *Engine) View() View {
	return View{
		State:       e.state,
		Phase:       e.phase,
		Title:       e.title,
		Score:       e.score,
		Target:      e.target,
		PlayerY:     e.body.Y,
		Flapping:    e.body.Flapping(),
		Obstacles:   e.stream.Obstacles(),
		Clouds:      e.decor.At(e.frames),
		Leaderboard: e.qualifier != nil,
		Boards:      e.boards,
		FailOpen:    e.failOpen,
		SubmitErr:   e.submitErr,
	}
}

// Snapshot is the coarse presentation state published to observers. It
// changes only on transitions, never per frame.
type Snapshot struct {
	State        State
	Phase        Phase
	Score        int
	Generation   uint64
	FailOpen     bool
	SubmitFailed bool
	BoardsLoaded bool
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:        e.state,
		Phase:        e.phase,
		Score:        e.score,
		Generation:   e.generation,
		FailOpen:     e.failOpen,
		SubmitFailed: e.submitErr != nil,
		BoardsLoaded: len(e.boards) > 0,
	}
}

func (e *Engine) publish() {
	s := e.Snapshot()
	if e.hasPub && s == e.published {
		return
	}
	e.published, e.hasPub = s, true
	if e.observer != nil {
		e.observer(s)
	}
}

// Stop cancels all leaderboard work. The engine ignores ticks afterwards.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.done)
		e.rootCancel()
	})
}

// async holds the engine's in-flight leaderboard operations. Everything
// except the goroutines spawned by launch is touched only from the
// engine's goroutine.
type async struct {
	generation uint64
	timeout    time.Duration

	rootCtx    context.Context
	rootCancel context.CancelFunc
	sessCtx    context.Context
	sessCancel context.CancelFunc

	inbox    chan result
	pending  int
	done     chan struct{}
	stopOnce sync.Once
}

func (a *async) init(timeout time.Duration) {
	a.timeout = timeout
	a.rootCtx, a.rootCancel = context.WithCancel(context.Background())
	a.sessCtx, a.sessCancel = context.WithCancel(a.rootCtx)
	a.inbox = make(chan result, 4)
	a.done = make(chan struct{})
}

// invalidate starts a new generation; results from older ones are dropped.
func (a *async) invalidate() {
	a.generation++
	a.sessCancel()
	a.sessCtx, a.sessCancel = context.WithCancel(a.rootCtx)
}

func (a *async) stopped() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}
