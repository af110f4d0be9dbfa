package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

func TestMemberEncoding(t *testing.T) {
	at := time.Date(2026, 7, 9, 10, 11, 12, 345_000_000, time.UTC)
	earlier := at.Add(-time.Second)

	a := encodeMember(at.UnixMilli(), uuid.NewString())
	b := encodeMember(earlier.UnixMilli(), uuid.NewString())

	got, ok := decodeMember(a)
	if !ok || !got.Equal(at) {
		t.Errorf("decodeMember() = %v, %v; expected %v", got, ok, at)
	}
	// ZREVRANGE puts the larger member first on equal scores.
	if b <= a {
		t.Errorf("earlier member %q should sort after %q", b, a)
	}

	if _, ok := decodeMember("garbage"); ok {
		t.Error("decodeMember() accepted a member without a stamp")
	}
}

// openTestRedis connects to FLAPPY_TEST_REDIS (e.g. redis://localhost:6379/15)
// and namespaces keys per test.
func openTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	url := os.Getenv("FLAPPY_TEST_REDIS")
	if url == "" {
		t.Skip("FLAPPY_TEST_REDIS not set")
	}
	r, err := OpenRedis(context.Background(), url)
	if err != nil {
		t.Fatalf("OpenRedis() failed: %v", err)
	}
	r.prefix = "flappytest-" + uuid.NewString()
	t.Cleanup(func() {
		r.ClearScores(context.Background(), "flappy")
		r.Close()
	})
	return r
}

func TestRedisOrderingAndWindow(t *testing.T) {
	ctx := context.Background()
	r := openTestRedis(t)
	board := r.Leaderboard("flappy")

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	subs := []struct {
		at    time.Time
		name  string
		score int
	}{
		{day.Add(-time.Millisecond), "old", 90},
		{day.Add(time.Hour), "ada", 30},
		{day.Add(2 * time.Hour), "bob", 30},
		{day.Add(3 * time.Hour), "cy", 10},
		{day.Add(24 * time.Hour), "new", 80},
	}
	for _, s := range subs {
		at := s.at
		r.SetClock(func() time.Time { return at })
		if err := board.SubmitScore(ctx, s.name, s.score); err != nil {
			t.Fatalf("SubmitScore() failed: %v", err)
		}
	}

	all, err := board.TopScores(ctx, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	wantAll := []string{"OLD", "NEW", "ADA"}
	for i, name := range wantAll {
		if i >= len(all) || all[i].Name != name {
			t.Fatalf("TopScores() = %+v, expected %v", all, wantAll)
		}
	}

	today, err := board.TopScoresBetween(ctx, day, day.Add(24*time.Hour), 3)
	if err != nil {
		t.Fatalf("TopScoresBetween() failed: %v", err)
	}
	wantToday := []string{"ADA", "BOB", "CY"}
	if len(today) != len(wantToday) {
		t.Fatalf("TopScoresBetween() = %+v, expected %v", today, wantToday)
	}
	for i, name := range wantToday {
		if today[i].Name != name {
			t.Errorf("TopScoresBetween()[%d] = %s, expected %s", i, today[i].Name, name)
		}
	}
}

func TestRedisRejectsInvalid(t *testing.T) {
	r := openTestRedis(t)
	err := r.Leaderboard("flappy").SubmitScore(context.Background(), "  ", 5)
	if err != leaderboard.ErrEmptyName {
		t.Errorf("SubmitScore() error = %v, expected ErrEmptyName", err)
	}
}
