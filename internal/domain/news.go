package domain

import "time"

// Source identifies which upstream provider produced a news item.
type Source string

const (
	SourceHackerNews Source = "hackernews"
	SourceReddit     Source = "reddit"
	SourceArxiv      Source = "arxiv"
	SourceRSS        Source = "rss"
)

// NewsItem is a single external article/discussion/paper record ingested by a fetcher.
// Immutable once fetched; its lifetime is one pipeline run.
type NewsItem struct {
	Title       string
	URL         string
	Source      Source
	Score       int
	Comments    int
	Summary     string
	PublishedAt time.Time
}

// GeneratedSection is one structural block of a digest document together with
// the items it was derived from.
type GeneratedSection struct {
	Heading string
	Body    string
	Items   []NewsItem
}
