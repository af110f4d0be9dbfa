package flappy

import (
	"context"

	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

type opKind int

const (
	opCheck opKind = iota
	opSubmit
	opRefresh
)

func (k opKind) String() string {
	switch k {
	case opCheck:
		return "check"
	case opSubmit:
		return "submit"
	default:
		return "refresh"
	}
}

// result is the outcome of one leaderboard operation, tagged with the
// generation that issued it.
type result struct {
	op      opKind
	gen     uint64
	verdict leaderboard.Verdict
	boards  []leaderboard.Board
	err     error
}

// launch runs fn in its own goroutine under the current session context.
func (e *Engine) launch(op opKind, fn func(ctx context.Context) result) {
	gen := e.generation
	parent := e.sessCtx
	e.pending++

	go func() {
		ctx, cancel := context.WithTimeout(parent, e.timeout)
		defer cancel()

		r := fn(ctx)
		r.op, r.gen = op, gen
		select {
		case e.inbox <- r:
		case <-e.done:
		}
	}()
}

// drain applies every result that has already arrived.
func (e *Engine) drain() {
	for {
		select {
		case r := <-e.inbox:
			e.receive(r)
		default:
			return
		}
	}
}

// Settle blocks until no leaderboard operation is in flight, applying each
// result as it arrives. It must be called from the engine's goroutine.
func (e *Engine) Settle(ctx context.Context) error {
	for e.pending > 0 {
		select {
		case r := <-e.inbox:
			e.receive(r)
		case <-e.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Pending returns the number of leaderboard operations in flight.
func (e *Engine) Pending() int {
	return e.pending
}

func (e *Engine) receive(r result) {
	e.pending--
	if r.gen != e.generation {
		e.logger.Debug("dropping stale result", "op", r.op, "generation", r.gen, "current", e.generation)
		return
	}
	e.apply(r)
	e.publish()
}

func (e *Engine) apply(r result) {
	switch r.op {
	case opCheck:
		if e.phase != PhaseChecking {
			return
		}
		if len(r.verdict.Boards) > 0 {
			e.boards = r.verdict.Boards
		}
		switch {
		case r.err != nil:
			// Fail open: a read error must not cost the player a score.
			e.logger.Warn("score check failed, offering submission anyway", "score", e.score, "error", r.err)
			e.failOpen = true
			e.phase = PhasePrompt
		case r.verdict.Qualifies:
			e.phase = PhasePrompt
		default:
			e.phase = PhaseResolved
		}

	case opSubmit:
		if e.phase != PhaseSubmitting {
			return
		}
		if r.err != nil {
			e.logger.Warn("score submission failed", "score", e.score, "error", r.err)
			e.submitErr = r.err
			e.phase = PhasePrompt
			return
		}
		e.logger.Info("score submitted", "score", e.score)
		e.submitErr = nil
		e.phase = PhaseResolved
		e.refreshBoards()

	case opRefresh:
		e.boardsErr = r.err
		if r.err != nil {
			e.logger.Warn("leaderboard refresh failed", "error", r.err)
		}
		if len(r.boards) > 0 {
			e.boards = r.boards
		}
	}
}

// checkScore issues the single qualification check of a finished session.
func (e *Engine) checkScore() {
	q, score := e.qualifier, e.score
	e.launch(opCheck, func(ctx context.Context) result {
		v, err := q.Evaluate(ctx, score)
		return result{verdict: v, err: err}
	})
}

// refreshBoards re-reads the boards for the game-over panel.
func (e *Engine) refreshBoards() {
	if e.qualifier == nil {
		return
	}
	q := e.qualifier
	e.launch(opRefresh, func(ctx context.Context) result {
		boards, err := q.Boards(ctx)
		return result{boards: boards, err: err}
	})
}

// Boards returns the last fetched leaderboard listings.
func (e *Engine) Boards() []leaderboard.Board {
	return e.boards
}

// BoardsErr returns the error of the last board refresh, if any.
func (e *Engine) BoardsErr() error {
	return e.boardsErr
}

// SubmitErr returns the error of the last failed submission, if any.
func (e *Engine) SubmitErr() error {
	return e.submitErr
}

// SubmitName submits the session score under name. Invalid names are
// rejected without touching the store or the session.
func (e *Engine) SubmitName(name string) error {
	e.drain()
	if e.state != StateGameOver || e.phase != PhasePrompt {
		return ErrNotPrompting
	}
	name, err := leaderboard.NormalizeName(name, e.cfg.Leaderboard.NameMaxLen)
	if err != nil {
		return err
	}

	e.phase = PhaseSubmitting
	e.submitErr = nil
	store, score := e.store, e.score
	e.launch(opSubmit, func(ctx context.Context) result {
		return result{err: store.SubmitScore(ctx, name, score)}
	})
	e.publish()
	return nil
}

// Decline closes the name prompt without submitting.
func (e *Engine) Decline() error {
	e.drain()
	if e.state != StateGameOver || e.phase != PhasePrompt {
		return ErrNotPrompting
	}
	e.phase = PhaseResolved
	e.publish()
	return nil
}
