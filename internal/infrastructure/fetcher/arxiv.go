package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"newsroom/internal/domain"
	"newsroom/internal/source"
)

const defaultArxivBaseURL = "http://export.arxiv.org/api/query"

// ArxivFetcher queries the ArXiv Atom API for recent papers matching a
// category's configured search query.
type ArxivFetcher struct {
	baseURL   string
	client    *http.Client
	userAgent string
	parser    *gofeed.Parser
}

var _ source.Fetcher = (*ArxivFetcher)(nil)

// NewArxivFetcher wires an HTTP client; baseURL defaults to the public API.
func NewArxivFetcher(client *http.Client, baseURL, userAgent string) *ArxivFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultArxivBaseURL
	}
	return &ArxivFetcher{
		baseURL:   baseURL,
		client:    client,
		userAgent: userAgent,
		parser:    gofeed.NewParser(),
	}
}

// Name identifies the fetcher inside the registry.
func (a *ArxivFetcher) Name() string {
	return string(domain.SourceArxiv)
}

// Fetch runs the category's ArXiv query, newest submissions first.
// Categories without a query are not ArXiv-backed and yield nothing.
func (a *ArxivFetcher) Fetch(ctx context.Context, req source.Request) ([]domain.NewsItem, error) {
	if req.Category.ArxivQuery == "" {
		return nil, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("search_query", req.Category.ArxivQuery)
	query.Set("sortBy", "submittedDate")
	query.Set("sortOrder", "descending")
	query.Set("max_results", fmt.Sprintf("%d", limit))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if a.userAgent != "" {
		httpReq.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	feed, err := a.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}

	items := make([]domain.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil || entry.Title == "" {
			continue
		}

		item := domain.NewsItem{
			Title:   entry.Title,
			URL:     entry.Link,
			Source:  domain.SourceArxiv,
			Summary: plainText(entry.Description),
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed.UTC()
		}
		items = append(items, item)
	}

	return items, nil
}
