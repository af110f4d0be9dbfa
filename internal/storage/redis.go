package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

// maxStamp bounds millisecond timestamps stored in member keys (year 2286).
const maxStamp = 9_999_999_999_999

// RedisStore keeps boards in Redis so several servers can share them.
//
// Per game it uses:
//
//	flappy:{game}:scores      ZSET member -> score
//	flappy:{game}:created     ZSET member -> created_at (unix ms)
//	flappy:{game}:entry:{m}   HASH name
//
// Members are "{inverted ms}:{uuid}", so ties on score come back oldest
// first from ZREVRANGE.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// OpenRedis connects to the server named by a redis:// or rediss:// URL.
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: redis connect failed: %w", err)
	}

	return NewRedisStore(client, "flappy"), nil
}

// NewRedisStore wraps an existing client. Keys are namespaced by prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// SetClock replaces the clock used to stamp new scores.
func (r *RedisStore) SetClock(now func() time.Time) {
	r.now = now
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(gameID string, parts ...string) string {
	return r.prefix + ":" + gameID + ":" + strings.Join(parts, ":")
}

// SaveScore validates and records a new score.
func (r *RedisStore) SaveScore(ctx context.Context, gameID, name string, score int) error {
	name, err := leaderboard.ValidateSubmission(name, score, leaderboard.DefaultNameMaxLen)
	if err != nil {
		return err
	}

	created := r.now().UnixMilli()
	member := encodeMember(created, uuid.NewString())

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.key(gameID, "entry", member), "name", name)
	pipe.ZAdd(ctx, r.key(gameID, "scores"), redis.Z{Score: float64(score), Member: member})
	pipe.ZAdd(ctx, r.key(gameID, "created"), redis.Z{Score: float64(created), Member: member})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}
	return nil
}

// TopScores returns the best entries across all time.
func (r *RedisStore) TopScores(ctx context.Context, gameID string, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = leaderboard.DefaultTopN
	}

	zs, err := r.client.ZRevRangeWithScores(ctx, r.key(gameID, "scores"), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return r.entries(ctx, gameID, zs)
}

// TopScoresBetween returns the best entries created in [from, to).
func (r *RedisStore) TopScoresBetween(ctx context.Context, gameID string, from, to time.Time, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = leaderboard.DefaultTopN
	}

	members, err := r.client.ZRangeByScore(ctx, r.key(gameID, "created"), &redis.ZRangeBy{
		Min: strconv.FormatInt(from.UnixMilli(), 10),
		Max: "(" + strconv.FormatInt(to.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query window: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	scores, err := r.client.ZMScore(ctx, r.key(gameID, "scores"), members...).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	zs := make([]redis.Z, len(members))
	for i, m := range members {
		zs[i] = redis.Z{Score: scores[i], Member: m}
	}

	out, err := r.entries(ctx, gameID, zs)
	if err != nil {
		return nil, err
	}
	leaderboard.SortEntries(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// entries resolves names for the given members in one round trip.
func (r *RedisStore) entries(ctx context.Context, gameID string, zs []redis.Z) ([]leaderboard.Entry, error) {
	if len(zs) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	names := make([]*redis.StringCmd, len(zs))
	for i, z := range zs {
		names[i] = pipe.HGet(ctx, r.key(gameID, "entry", z.Member.(string)), "name")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("storage: cannot load entries: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(zs))
	for i, z := range zs {
		created, ok := decodeMember(z.Member.(string))
		if !ok {
			continue
		}
		out = append(out, leaderboard.Entry{
			Name:      names[i].Val(),
			Score:     int(z.Score),
			CreatedAt: created,
		})
	}
	return out, nil
}

// ClearScores deletes every entry of the given game.
func (r *RedisStore) ClearScores(ctx context.Context, gameID string) error {
	members, err := r.client.ZRange(ctx, r.key(gameID, "scores"), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, m := range members {
		pipe.Del(ctx, r.key(gameID, "entry", m))
	}
	pipe.Del(ctx, r.key(gameID, "scores"), r.key(gameID, "created"))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Leaderboard returns a view of one game's board as a leaderboard.Store.
func (r *RedisStore) Leaderboard(gameID string) leaderboard.Store {
	return &redisBoard{store: r, gameID: gameID}
}

type redisBoard struct {
	store  *RedisStore
	gameID string
}

func (b *redisBoard) TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	return b.store.TopScores(ctx, b.gameID, limit)
}

func (b *redisBoard) TopScoresBetween(ctx context.Context, from, to time.Time, limit int) ([]leaderboard.Entry, error) {
	return b.store.TopScoresBetween(ctx, b.gameID, from, to, limit)
}

func (b *redisBoard) SubmitScore(ctx context.Context, name string, score int) error {
	return b.store.SaveScore(ctx, b.gameID, name, score)
}

func encodeMember(createdMs int64, id string) string {
	return fmt.Sprintf("%013d:%s", maxStamp-createdMs, id)
}

func decodeMember(member string) (time.Time, bool) {
	inv, _, ok := strings.Cut(member, ":")
	if !ok {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(inv, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(maxStamp - n).UTC(), true
}
