package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

// failingStore fails every read with err.
type failingStore struct {
	err error
}

func (f failingStore) TopScores(context.Context, int) ([]Entry, error) { return nil, f.err }

func (f failingStore) TopScoresBetween(context.Context, time.Time, time.Time, int) ([]Entry, error) {
	return nil, f.err
}

func (f failingStore) SubmitScore(context.Context, string, int) error { return f.err }

func seeded(t *testing.T, at time.Time, scores ...int) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	store.SetClock(func() time.Time { return at })
	for _, s := range scores {
		if err := store.SubmitScore(context.Background(), "P", s); err != nil {
			t.Fatalf("SubmitScore(%d) failed: %v", s, err)
		}
	}
	return store
}

func TestTopNEvaluate(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store := seeded(t, now, 100, 90, 80, 70, 60, 50, 40, 30, 20, 11)
	q := NewTopN(store, 10)

	tests := []struct {
		score int
		want  bool
	}{
		{11, false},
		{12, true},
		{0, false},
	}
	for _, tc := range tests {
		v, err := q.Evaluate(context.Background(), tc.score)
		if err != nil {
			t.Fatalf("Evaluate(%d) failed: %v", tc.score, err)
		}
		if v.Qualifies != tc.want {
			t.Errorf("Evaluate(%d).Qualifies = %v, expected %v", tc.score, v.Qualifies, tc.want)
		}
		if len(v.Boards) != 1 || v.Boards[0].Kind != BoardAllTime {
			t.Errorf("Evaluate(%d).Boards = %+v, expected one all-time board", tc.score, v.Boards)
		}
	}
}

func TestDailyEvaluateIgnoresOlderDays(t *testing.T) {
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	store := seeded(t, now.Add(-24*time.Hour), 500, 400, 300)
	store.SetClock(func() time.Time { return now })
	_ = store.SubmitScore(context.Background(), "TODAY", 5)

	q := NewDaily(store, 3)
	q.Now = func() time.Time { return now }

	v, err := q.Evaluate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if !v.Qualifies {
		t.Error("Evaluate(1) = false, expected true on a daily board with free slots")
	}
	if len(v.Boards[0].Entries) != 1 {
		t.Errorf("daily board has %d entries, expected 1", len(v.Boards[0].Entries))
	}
}

func TestAnyOf(t *testing.T) {
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	// All-time board full of high scores, today's board nearly empty.
	store := seeded(t, now.Add(-48*time.Hour), 100, 90, 80, 70, 60, 50, 40, 30, 20, 15)
	daily := NewDaily(store, 3)
	daily.Now = func() time.Time { return now }

	q := AnyOf(NewTopN(store, 10), daily)

	v, err := q.Evaluate(context.Background(), 3)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if !v.Qualifies {
		t.Error("Evaluate(3) = false, expected true via the daily board")
	}
	if len(v.Boards) != 2 {
		t.Errorf("Evaluate() returned %d boards, expected 2", len(v.Boards))
	}

	boards, err := q.Boards(context.Background())
	if err != nil {
		t.Fatalf("Boards() failed: %v", err)
	}
	if boards[0].Kind != BoardAllTime || boards[1].Kind != BoardDaily {
		t.Errorf("Boards() kinds = %s, %s; expected all-time then daily", boards[0].Kind, boards[1].Kind)
	}
}

func TestAnyOfJoinsErrors(t *testing.T) {
	errDown := errors.New("store down")
	store := seeded(t, time.Now())

	q := AnyOf(NewTopN(failingStore{err: errDown}, 10), NewDaily(store, 3))

	v, err := q.Evaluate(context.Background(), 7)
	if !errors.Is(err, errDown) {
		t.Errorf("Evaluate() error = %v, expected to wrap %v", err, errDown)
	}
	if !v.Qualifies {
		t.Error("the healthy member's verdict should still be reported")
	}
	if len(v.Boards) != 1 {
		t.Errorf("Evaluate() returned %d boards, expected 1", len(v.Boards))
	}
}

func TestTopNStoreError(t *testing.T) {
	errDown := errors.New("timeout")
	_, err := NewTopN(failingStore{err: errDown}, 10).Evaluate(context.Background(), 50)
	if !errors.Is(err, errDown) {
		t.Errorf("Evaluate() error = %v, expected to wrap %v", err, errDown)
	}
}
