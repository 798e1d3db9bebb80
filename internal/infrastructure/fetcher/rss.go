package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"newsroom/internal/domain"
	"newsroom/internal/source"
)

// RSSFetcher reads the generic RSS/Atom feeds configured per category.
type RSSFetcher struct {
	client    *http.Client
	userAgent string
	parser    *gofeed.Parser
	// maxBodySize caps feed payloads so a misbehaving feed cannot
	// balloon memory.
	maxBodySize int64
}

var _ source.Fetcher = (*RSSFetcher)(nil)

// NewRSSFetcher wires an HTTP client for feed retrieval.
func NewRSSFetcher(client *http.Client, userAgent string) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RSSFetcher{
		client:      client,
		userAgent:   userAgent,
		parser:      gofeed.NewParser(),
		maxBodySize: 5 << 20,
	}
}

// Name identifies the fetcher inside the registry.
func (f *RSSFetcher) Name() string {
	return string(domain.SourceRSS)
}

// Fetch collects entries from every configured feed. A single unreachable
// feed does not fail the whole fetch; its error is joined into the return
// value for the caller's log while the other feeds' items are kept.
func (f *RSSFetcher) Fetch(ctx context.Context, req source.Request) ([]domain.NewsItem, error) {
	perFeed := req.Limit
	if perFeed <= 0 {
		perFeed = 10
	}

	var (
		items []domain.NewsItem
		errs  []error
	)
	for _, feedURL := range req.Category.Feeds {
		feed, err := f.fetchFeed(ctx, feedURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", feedURL, err))
			continue
		}

		count := 0
		for _, entry := range feed.Items {
			if entry == nil || entry.Title == "" || entry.Link == "" {
				continue
			}
			if count >= perFeed {
				break
			}

			item := domain.NewsItem{
				Title:   entry.Title,
				URL:     entry.Link,
				Source:  domain.SourceRSS,
				Summary: plainText(entry.Description),
			}
			if entry.PublishedParsed != nil {
				item.PublishedAt = entry.PublishedParsed.UTC()
			} else if entry.UpdatedParsed != nil {
				item.PublishedAt = entry.UpdatedParsed.UTC()
			}

			items = append(items, item)
			count++
		}
	}

	return items, errors.Join(errs...)
}

func (f *RSSFetcher) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := f.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}
