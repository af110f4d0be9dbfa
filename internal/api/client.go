package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: server returned %d", e.Code)
	}
	return fmt.Sprintf("api: server returned %d: %s", e.Code, e.Message)
}

// Client talks to a Server.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a client for the server at baseURL. A nil httpClient
// uses one with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q", u.Scheme)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: u, http: httpClient}, nil
}

// Leaderboard returns the remote board of one game.
func (c *Client) Leaderboard(gameID string) leaderboard.Store {
	return &remoteBoard{client: c, gameID: gameID}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) endpoint(gameID, suffix string, q url.Values) string {
	u := *c.base
	u.Path += "/api/v1/boards/" + url.PathEscape(gameID) + "/scores" + suffix
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
		return &StatusError{Code: resp.StatusCode, Message: body.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: cannot decode response: %w", err)
	}
	return nil
}

func (c *Client) list(ctx context.Context, gameID, suffix string, q url.Values) ([]leaderboard.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(gameID, suffix, q), nil)
	if err != nil {
		return nil, fmt.Errorf("api: cannot build request: %w", err)
	}

	var resp ScoresResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, nil
	}
	out := make([]leaderboard.Entry, len(resp.Entries))
	for i, e := range resp.Entries {
		out[i] = leaderboard.Entry{Name: e.Name, Score: e.Score, CreatedAt: e.CreatedAt}
	}
	return out, nil
}

type remoteBoard struct {
	client *Client
	gameID string
}

func (b *remoteBoard) TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	return b.client.list(ctx, b.gameID, "", limitQuery(limit))
}

func (b *remoteBoard) TopScoresBetween(ctx context.Context, from, to time.Time, limit int) ([]leaderboard.Entry, error) {
	q := limitQuery(limit)
	q.Set("from", from.Format(time.RFC3339Nano))
	q.Set("to", to.Format(time.RFC3339Nano))
	return b.client.list(ctx, b.gameID, "/range", q)
}

// SubmitScore validates locally first so bad names fail with the same
// sentinel errors as a local store, without a round trip.
func (b *remoteBoard) SubmitScore(ctx context.Context, name string, score int) error {
	name, err := leaderboard.ValidateSubmission(name, score, leaderboard.DefaultNameMaxLen)
	if err != nil {
		return err
	}

	body, err := json.Marshal(SubmitRequest{Name: name, Score: score})
	if err != nil {
		return fmt.Errorf("api: cannot encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.client.endpoint(b.gameID, "", nil), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return b.client.do(req, nil)
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(min(limit, MaxLimit)))
	}
	return q
}
