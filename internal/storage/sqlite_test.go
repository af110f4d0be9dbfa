package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	store.SetClock(stepClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	for _, s := range []struct {
		game  string
		name  string
		score int
	}{
		{"flappy", "ada", 100},
		{"flappy", "bob", 50},
		{"flappy", "cy", 200},
		{"flappy", "dee", 100},
		{"daily", "eve", 500},
	} {
		if _, err := store.SaveScore(ctx, s.game, s.name, s.score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(ctx, "flappy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	want := []struct {
		name  string
		score int
	}{{"CY", 200}, {"ADA", 100}, {"DEE", 100}, {"BOB", 50}}
	if len(scores) != len(want) {
		t.Fatalf("TopScores() returned %d entries, expected %d", len(scores), len(want))
	}
	for i, w := range want {
		if scores[i].Name != w.name || scores[i].Score != w.score {
			t.Errorf("TopScores()[%d] = %s/%d, expected %s/%d", i, scores[i].Name, scores[i].Score, w.name, w.score)
		}
		if scores[i].CreatedAt.IsZero() {
			t.Errorf("TopScores()[%d].CreatedAt is zero", i)
		}
	}
}

func TestStoreRejectsInvalidSubmission(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tests := []struct {
		name  string
		score int
		want  error
	}{
		{"   ", 5, leaderboard.ErrEmptyName},
		{"ada", 0, leaderboard.ErrInvalidScore},
		{"ada", -3, leaderboard.ErrInvalidScore},
	}
	for _, tc := range tests {
		if _, err := store.SaveScore(ctx, "flappy", tc.name, tc.score); !errors.Is(err, tc.want) {
			t.Errorf("SaveScore(%q, %d) error = %v, expected %v", tc.name, tc.score, err, tc.want)
		}
	}

	if high, _ := store.HighScore(ctx, "flappy"); high != 0 {
		t.Errorf("HighScore() = %d after rejected submissions, expected 0", high)
	}
}

func TestStoreNameNormalized(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.SaveScore(ctx, "flappy", "  averyveryverylongname ", 9); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	scores, _ := store.TopScores(ctx, "flappy", 1)
	if len(scores) != 1 || scores[0].Name != "AVERYVERYVER" {
		t.Errorf("TopScores() = %+v, expected name AVERYVERYVER", scores)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 1; i <= 20; i++ {
		if _, err := store.SaveScore(ctx, "flappy", "p", i*10); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(ctx, "flappy", 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Fatalf("TopScores() returned %d entries, expected 5", len(scores))
	}
	if scores[0].Score != 200 || scores[4].Score != 160 {
		t.Errorf("TopScores() = %d..%d, expected 200..160", scores[0].Score, scores[4].Score)
	}

	// A non-positive limit falls back to the default board size.
	scores, _ = store.TopScores(ctx, "flappy", 0)
	if len(scores) != leaderboard.DefaultTopN {
		t.Errorf("TopScores(0) returned %d entries, expected %d", len(scores), leaderboard.DefaultTopN)
	}
}

func TestStoreTopScoresBetween(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	stamps := []struct {
		at    time.Time
		score int
	}{
		{day.Add(-time.Millisecond), 90},
		{day, 10},
		{day.Add(12 * time.Hour), 30},
		{day.Add(24*time.Hour - time.Millisecond), 20},
		{day.Add(24 * time.Hour), 80},
	}
	for _, s := range stamps {
		at := s.at
		store.SetClock(func() time.Time { return at })
		if _, err := store.SaveScore(ctx, "flappy", "p", s.score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScoresBetween(ctx, "flappy", day, day.Add(24*time.Hour), 10)
	if err != nil {
		t.Fatalf("TopScoresBetween() failed: %v", err)
	}
	got := make([]int, len(scores))
	for i, s := range scores {
		got[i] = s.Score
	}
	want := []int{30, 20, 10}
	if len(got) != len(want) {
		t.Fatalf("TopScoresBetween() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TopScoresBetween() = %v, expected %v", got, want)
			break
		}
	}
}

func TestStoreHighScore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	high, err := store.HighScore(ctx, "flappy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() = %d, expected 0 for empty board", high)
	}

	for _, s := range []int{40, 120, 75} {
		store.SaveScore(ctx, "flappy", "p", s)
	}
	high, _ = store.HighScore(ctx, "flappy")
	if high != 120 {
		t.Errorf("HighScore() = %d, expected 120", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	store.SaveScore(ctx, "flappy", "a", 100)
	store.SaveScore(ctx, "daily", "b", 200)

	if err := store.ClearScores(ctx, "flappy"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores(ctx, "flappy", 10); len(scores) != 0 {
		t.Errorf("flappy board has %d entries after clear, expected 0", len(scores))
	}
	if scores, _ := store.TopScores(ctx, "daily", 10); len(scores) != 1 {
		t.Errorf("daily board has %d entries, expected 1", len(scores))
	}
}

func TestStoreStats(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	last := time.Date(2026, 3, 4, 8, 30, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return last })
	for _, s := range []int{10, 20, 30} {
		store.SaveScore(ctx, "flappy", "p", s)
	}

	stats, err := store.Stats(ctx, "flappy")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 3 || stats.HighScore != 30 || stats.TotalScore != 60 || stats.AvgScore != 20 {
		t.Errorf("Stats() = %+v, expected 3 games, high 30, total 60, avg 20", stats)
	}
	if !stats.LastPlayed.Equal(last) {
		t.Errorf("Stats().LastPlayed = %v, expected %v", stats.LastPlayed, last)
	}

	empty, err := store.Stats(ctx, "nobody")
	if err != nil {
		t.Fatalf("Stats() on an empty board failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Stats() = %+v, expected zero stats", empty)
	}
}

func TestStoreLeaderboardView(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	board := store.Leaderboard("flappy")

	if err := board.SubmitScore(ctx, "ada", 12); err != nil {
		t.Fatalf("SubmitScore() failed: %v", err)
	}
	if err := board.SubmitScore(ctx, "", 12); !errors.Is(err, leaderboard.ErrEmptyName) {
		t.Errorf("SubmitScore(\"\") error = %v, expected ErrEmptyName", err)
	}

	entries, err := board.TopScores(ctx, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "ADA" || entries[0].Score != 12 {
		t.Errorf("TopScores() = %+v, expected one ADA/12 entry", entries)
	}

	from, to := leaderboard.DayWindow(time.Now())
	today, err := board.TopScoresBetween(ctx, from, to, 3)
	if err != nil {
		t.Fatalf("TopScoresBetween() failed: %v", err)
	}
	if len(today) != 1 {
		t.Errorf("TopScoresBetween() returned %d entries, expected 1", len(today))
	}

	// The board plugs into qualification as-is.
	verdict, err := leaderboard.NewTopN(board, 10).Evaluate(ctx, 5)
	if err != nil || !verdict.Qualifies {
		t.Errorf("Evaluate() = %+v, %v; expected a qualifying verdict", verdict, err)
	}
}

func TestStoreConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	board := store.Leaderboard("flappy")

	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if err := board.SubmitScore(ctx, "p", score); err != nil {
				t.Errorf("SubmitScore() failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	stats, _ := store.Stats(ctx, "flappy")
	if stats.GamesCount != 16 {
		t.Errorf("Stats().GamesCount = %d, expected 16", stats.GamesCount)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.flappy/scores.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".flappy", "scores.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}
