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

const defaultRedditBaseURL = "https://www.reddit.com"

// RedditFetcher reads public subreddit listings via the JSON endpoints.
// Reddit rejects requests without a descriptive User-Agent.
type RedditFetcher struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

var _ source.Fetcher = (*RedditFetcher)(nil)

// NewRedditFetcher wires an HTTP client and the mandatory User-Agent string.
func NewRedditFetcher(client *http.Client, baseURL, userAgent string) *RedditFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultRedditBaseURL
	}
	return &RedditFetcher{baseURL: baseURL, client: client, userAgent: userAgent}
}

// Name identifies the fetcher inside the registry.
func (r *RedditFetcher) Name() string {
	return string(domain.SourceReddit)
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Selftext    string  `json:"selftext"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
}

// Fetch walks the category's subreddits and merges their hot listings.
func (r *RedditFetcher) Fetch(ctx context.Context, req source.Request) ([]domain.NewsItem, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 25
	}

	var items []domain.NewsItem
	for _, sub := range req.Category.Subreddits {
		listing, err := r.fetchListing(ctx, sub, limit)
		if err != nil {
			return items, fmt.Errorf("subreddit %s: %w", sub, err)
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Stickied || post.Title == "" {
				continue
			}

			itemURL := post.URL
			if itemURL == "" && post.Permalink != "" {
				itemURL = r.baseURL + post.Permalink
			}

			items = append(items, domain.NewsItem{
				Title:       post.Title,
				URL:         itemURL,
				Source:      domain.SourceReddit,
				Score:       post.Score,
				Comments:    post.NumComments,
				Summary:     post.Selftext,
				PublishedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
			})
		}
	}

	return items, nil
}

func (r *RedditFetcher) fetchListing(ctx context.Context, subreddit string, limit int) (*redditListing, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", r.baseURL, subreddit, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned %s", resp.Status)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return &listing, nil
}
