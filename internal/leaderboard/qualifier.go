package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BoardKind distinguishes the boards a qualifier reads.
type BoardKind string

const (
	BoardAllTime BoardKind = "all-time"
	BoardDaily   BoardKind = "daily"
)

// Board is one fetched leaderboard listing.
type Board struct {
	Kind    BoardKind
	Title   string
	Limit   int
	Entries []Entry
}

// Verdict is the outcome of a qualification check. Boards carries whatever
// listings were fetched on the way, for display on the game-over panel.
type Verdict struct {
	Qualifies bool
	Boards    []Board
}

// Qualifier decides whether a finished session's score should be offered
// for submission. Implementations always read fresh data from the store;
// other players write concurrently.
type Qualifier interface {
	Evaluate(ctx context.Context, score int) (Verdict, error)
	Boards(ctx context.Context) ([]Board, error)
}

// TopN qualifies scores that make the all-time top Limit.
type TopN struct {
	Store Store
	Limit int
	Title string
}

// NewTopN creates an all-time qualifier.
func NewTopN(store Store, limit int) *TopN {
	return &TopN{Store: store, Limit: limit, Title: "HIGH SCORES"}
}

// Boards fetches the all-time board.
func (q *TopN) Boards(ctx context.Context) ([]Board, error) {
	entries, err := q.Store.TopScores(ctx, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot fetch top %d: %w", q.Limit, err)
	}
	return []Board{{Kind: BoardAllTime, Title: q.Title, Limit: q.Limit, Entries: entries}}, nil
}

// Evaluate fetches the board and compares score against it.
func (q *TopN) Evaluate(ctx context.Context, score int) (Verdict, error) {
	boards, err := q.Boards(ctx)
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{
		Qualifies: Qualifies(boards[0].Entries, q.Limit, score),
		Boards:    boards,
	}, nil
}

// Daily qualifies scores that make the top Limit of the current local day.
type Daily struct {
	Store Store
	Limit int
	Title string
	Now   func() time.Time
}

// NewDaily creates a qualifier over today's window.
func NewDaily(store Store, limit int) *Daily {
	return &Daily{Store: store, Limit: limit, Title: "TODAY'S BEST", Now: time.Now}
}

// Boards fetches today's board.
func (q *Daily) Boards(ctx context.Context) ([]Board, error) {
	now := time.Now
	if q.Now != nil {
		now = q.Now
	}
	from, to := DayWindow(now())

	entries, err := q.Store.TopScoresBetween(ctx, from, to, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot fetch daily top %d: %w", q.Limit, err)
	}
	return []Board{{Kind: BoardDaily, Title: q.Title, Limit: q.Limit, Entries: entries}}, nil
}

// Evaluate fetches today's board and compares score against it.
func (q *Daily) Evaluate(ctx context.Context, score int) (Verdict, error) {
	boards, err := q.Boards(ctx)
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{
		Qualifies: Qualifies(boards[0].Entries, q.Limit, score),
		Boards:    boards,
	}, nil
}

type anyOf []Qualifier

// AnyOf combines qualifiers: a score qualifies if any member says so.
// Member errors are joined and returned alongside whatever boards and
// verdicts the other members produced.
func AnyOf(qs ...Qualifier) Qualifier {
	return anyOf(qs)
}

func (a anyOf) Evaluate(ctx context.Context, score int) (Verdict, error) {
	var (
		out  Verdict
		errs []error
	)
	for _, q := range a {
		v, err := q.Evaluate(ctx, score)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.Boards = append(out.Boards, v.Boards...)
		out.Qualifies = out.Qualifies || v.Qualifies
	}
	return out, errors.Join(errs...)
}

func (a anyOf) Boards(ctx context.Context) ([]Board, error) {
	var (
		boards []Board
		errs   []error
	)
	for _, q := range a {
		b, err := q.Boards(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		boards = append(boards, b...)
	}
	return boards, errors.Join(errs...)
}
