package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func entriesWithScores(scores ...int) []Entry {
	out := make([]Entry, len(scores))
	for i, s := range scores {
		out[i] = Entry{Name: "P", Score: s}
	}
	return out
}

func TestQualifies(t *testing.T) {
	full := entriesWithScores(100, 90, 80, 70, 60, 50, 40, 30, 20, 11)

	tests := []struct {
		name    string
		entries []Entry
		limit   int
		score   int
		want    bool
	}{
		{"ties last place on full board", full, 10, 11, false},
		{"beats last place on full board", full, 10, 12, true},
		{"below last place", full, 10, 5, false},
		{"free slot accepts any positive score", entriesWithScores(50, 40), 10, 1, true},
		{"empty board", nil, 10, 1, true},
		{"zero score never qualifies", nil, 10, 0, false},
		{"zero limit", nil, 0, 100, false},
		{"board longer than limit uses limit-th place", entriesWithScores(9, 8, 7, 6), 3, 7, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Qualifies(tc.entries, tc.limit, tc.score); got != tc.want {
				t.Errorf("Qualifies(%d) = %v, expected %v", tc.score, got, tc.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"  ada  ", "ADA", nil},
		{"grace hopper the great", "GRACE HOPPER", nil},
		{"   ", "", ErrEmptyName},
		{"", "", ErrEmptyName},
		{"bob\x07", "BOB", nil},
		{"ünïcode", "ÜNÏCODE", nil},
		{"abcdefghijk lmnop", "ABCDEFGHIJK", nil},
	}

	for _, tc := range tests {
		got, err := NormalizeName(tc.in, 12)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("NormalizeName(%q) error = %v, expected %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateSubmission(t *testing.T) {
	if _, err := ValidateSubmission("ADA", 0, 12); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("ValidateSubmission(score=0) = %v, expected ErrInvalidScore", err)
	}
	if _, err := ValidateSubmission(" ", 5, 12); !errors.Is(err, ErrEmptyName) {
		t.Errorf("ValidateSubmission(blank) = %v, expected ErrEmptyName", err)
	}
}

func TestDayWindow(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2026, 3, 14, 23, 59, 0, 0, loc)

	from, to := DayWindow(now)
	if want := time.Date(2026, 3, 14, 0, 0, 0, 0, loc); !from.Equal(want) {
		t.Errorf("from = %v, expected %v", from, want)
	}
	if want := time.Date(2026, 3, 15, 0, 0, 0, 0, loc); !to.Equal(want) {
		t.Errorf("to = %v, expected %v", to, want)
	}
	if from.Location() != loc {
		t.Errorf("window location = %v, expected %v", from.Location(), loc)
	}
}

func TestMemoryStoreOrderingAndWindow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	clock := base
	store.SetClock(func() time.Time { return clock })

	submit := func(name string, score int, at time.Time) {
		t.Helper()
		clock = at
		if err := store.SubmitScore(ctx, name, score); err != nil {
			t.Fatalf("SubmitScore(%q, %d) failed: %v", name, score, err)
		}
	}
	submit("yesterday", 99, base.Add(-24*time.Hour))
	submit("first", 20, base)
	submit("second", 20, base.Add(time.Minute))
	submit("third", 30, base.Add(2*time.Minute))

	all, err := store.TopScores(ctx, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	wantAll := []string{"YESTERDAY", "THIRD", "FIRST", "SECOND"}
	for i, name := range wantAll {
		if all[i].Name != name {
			t.Errorf("TopScores()[%d].Name = %q, expected %q", i, all[i].Name, name)
		}
	}

	from, to := DayWindow(base)
	today, err := store.TopScoresBetween(ctx, from, to, 2)
	if err != nil {
		t.Fatalf("TopScoresBetween() failed: %v", err)
	}
	if len(today) != 2 || today[0].Name != "THIRD" || today[1].Name != "FIRST" {
		t.Errorf("TopScoresBetween() = %+v, expected THIRD then FIRST", today)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SubmitScore(context.Background(), "  ", 10); !errors.Is(err, ErrEmptyName) {
		t.Errorf("SubmitScore(blank) = %v, expected ErrEmptyName", err)
	}
	entries, _ := store.TopScores(context.Background(), 10)
	if len(entries) != 0 {
		t.Errorf("store has %d entries after a rejected submit, expected 0", len(entries))
	}
}
