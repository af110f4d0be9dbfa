// Package leaderboard defines the score store contract the engine talks to,
// the name rules for submissions, and the qualification strategies that
// decide whether a finished session earns a place on a board.
package leaderboard

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
)

const (
	// DefaultNameMaxLen is the name length limit stores enforce on their own.
	DefaultNameMaxLen = 12

	// DefaultTopN is the board size used when a caller passes no limit.
	DefaultTopN = 10
)

var (
	// ErrEmptyName is returned when a submitted name is blank after trimming.
	ErrEmptyName = errors.New("leaderboard: name is empty")

	// ErrInvalidScore is returned for scores that can never be recorded.
	ErrInvalidScore = errors.New("leaderboard: score must be positive")
)

// Entry is a single leaderboard record.
type Entry struct {
	Name      string
	Score     int
	CreatedAt time.Time
}

// Store is a leaderboard backend. Implementations must return entries
// ordered by score descending and must tolerate concurrent writers.
type Store interface {
	// TopScores returns up to limit entries across all time.
	TopScores(ctx context.Context, limit int) ([]Entry, error)

	// TopScoresBetween returns up to limit entries created in [from, to).
	TopScoresBetween(ctx context.Context, from, to time.Time, limit int) ([]Entry, error)

	// SubmitScore records a new entry.
	SubmitScore(ctx context.Context, name string, score int) error
}

// NormalizeName trims, upper-cases and truncates a player name to at most
// maxLen runes. Non-printable runes are dropped.
func NormalizeName(name string, maxLen int) (string, error) {
	name = strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, name)
	name = strings.ToUpper(strings.TrimSpace(name))

	if maxLen > 0 {
		if runes := []rune(name); len(runes) > maxLen {
			name = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// ValidateSubmission checks a name and score the way every store expects
// them, returning the normalized name.
func ValidateSubmission(name string, score, maxLen int) (string, error) {
	if score <= 0 {
		return "", ErrInvalidScore
	}
	return NormalizeName(name, maxLen)
}

// DayWindow returns the half-open window [start of day, start of next day)
// containing now, in now's location.
func DayWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// Qualifies reports whether score earns a place on a board of the given
// size. entries must be ordered by score descending. A board with free
// slots accepts any positive score; a full board requires strictly beating
// the last place.
func Qualifies(entries []Entry, limit, score int) bool {
	if score <= 0 || limit <= 0 {
		return false
	}
	if len(entries) < limit {
		return true
	}
	return score > entries[limit-1].Score
}
