package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"newsroom/internal/domain"
	"newsroom/internal/source"
)

const defaultHackerNewsBaseURL = "https://hacker-news.firebaseio.com/v0"

// HackerNewsFetcher pulls top stories from the Hacker News Firebase API.
type HackerNewsFetcher struct {
	baseURL   string
	client    *http.Client
	userAgent string
	// maxIDs bounds how many top-story ids get hydrated per request.
	maxIDs int
}

var _ source.Fetcher = (*HackerNewsFetcher)(nil)

// NewHackerNewsFetcher wires an HTTP client; baseURL defaults to the public API.
func NewHackerNewsFetcher(client *http.Client, baseURL, userAgent string) *HackerNewsFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultHackerNewsBaseURL
	}
	return &HackerNewsFetcher{baseURL: baseURL, client: client, userAgent: userAgent, maxIDs: 40}
}

// Name identifies the fetcher inside the registry.
func (h *HackerNewsFetcher) Name() string {
	return string(domain.SourceHackerNews)
}

type hnItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
	Dead        bool   `json:"dead"`
	Deleted     bool   `json:"deleted"`
}

// Fetch loads the top-story id list and hydrates items one by one until the
// request limit is satisfied.
func (h *HackerNewsFetcher) Fetch(ctx context.Context, req source.Request) ([]domain.NewsItem, error) {
	var ids []int
	if err := h.getJSON(ctx, h.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}

	limit := req.Limit
	if limit <= 0 || limit > h.maxIDs {
		limit = h.maxIDs
	}

	items := make([]domain.NewsItem, 0, limit)
	for _, id := range ids {
		if len(items) >= limit {
			break
		}

		var raw hnItem
		if err := h.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.baseURL, id), &raw); err != nil {
			return items, fmt.Errorf("item %d: %w", id, err)
		}
		if raw.Dead || raw.Deleted || raw.Type != "story" || raw.Title == "" {
			continue
		}

		itemURL := raw.URL
		if itemURL == "" {
			itemURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", raw.ID)
		}

		items = append(items, domain.NewsItem{
			Title:       raw.Title,
			URL:         itemURL,
			Source:      domain.SourceHackerNews,
			Score:       raw.Score,
			Comments:    raw.Descendants,
			PublishedAt: time.Unix(raw.Time, 0).UTC(),
		})
	}

	return items, nil
}

func (h *HackerNewsFetcher) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hacker news returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
