package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Fetcher loads the full server state for a seed.
type Fetcher interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// APIFetcher reads stories and tags from the REST API.
type APIFetcher struct {
	baseURL string
	hc      *http.Client
}

// NewAPIFetcher expects the server root, e.g. http://localhost:8080. A nil hc uses a
// client with a 10s timeout.
func NewAPIFetcher(baseURL string, hc *http.Client) *APIFetcher {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	return &APIFetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		hc:      hc,
	}
}

func (f *APIFetcher) Fetch(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	if err := f.get(ctx, "/api/v1/stories", &snap.Stories); err != nil {
		return Snapshot{}, err
	}
	if err := f.get(ctx, "/api/v1/tags", &snap.Tags); err != nil {
		return Snapshot{}, err
	}

	for i := range snap.Stories {
		if snap.Stories[i].Tags == nil {
			snap.Stories[i].Tags = []string{}
		}
	}

	return snap, nil
}

func (f *APIFetcher) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.hc.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("get %s: status %d: %s", path, resp.StatusCode, body.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

// WebSocketURL derives the real-time endpoint from the server root.
func WebSocketURL(baseURL string) string {
	u := strings.TrimSuffix(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/api/v1/ws"
}

var _ Fetcher = (*APIFetcher)(nil)

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (Snapshot, error)

func (f FetcherFunc) Fetch(ctx context.Context) (Snapshot, error) { return f(ctx) }
