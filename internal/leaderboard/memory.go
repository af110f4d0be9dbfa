package leaderboard

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. Scores vanish with the process;
// it backs `--store memory://` and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SetClock replaces the clock used to stamp new entries.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// TopScores returns the best entries across all time.
func (m *MemoryStore) TopScores(ctx context.Context, limit int) ([]Entry, error) {
	return m.top(ctx, limit, func(Entry) bool { return true })
}

// TopScoresBetween returns the best entries created in [from, to).
func (m *MemoryStore) TopScoresBetween(ctx context.Context, from, to time.Time, limit int) ([]Entry, error) {
	return m.top(ctx, limit, func(e Entry) bool {
		return !e.CreatedAt.Before(from) && e.CreatedAt.Before(to)
	})
}

func (m *MemoryStore) top(ctx context.Context, limit int, keep func(Entry) bool) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, e := range m.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	SortEntries(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SubmitScore validates and records an entry.
func (m *MemoryStore) SubmitScore(ctx context.Context, name string, score int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := ValidateSubmission(name, score, DefaultNameMaxLen)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Name: name, Score: score, CreatedAt: m.now()})
	return nil
}

// Clear drops every entry.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}

// SortEntries orders entries by score descending; ties keep the earlier
// entry first.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}
