package aggregator

import (
	"testing"

	"newsroom/internal/domain"
)

func TestAggregateFiltersByKeyword(t *testing.T) {
	t.Parallel()

	items := []domain.NewsItem{
		{Title: "Kubernetes 1.30 released", URL: "https://example.com/k8s", Source: domain.SourceHackerNews, Score: 500},
		{Title: "My sourdough starter journey", URL: "https://example.com/bread", Source: domain.SourceHackerNews, Score: 900},
	}

	got := New().Aggregate(items, []string{"kubernetes", "docker"})

	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Title != "Kubernetes 1.30 released" {
		t.Fatalf("unexpected item: %s", got[0].Title)
	}
}

func TestAggregateEmptyWhenNothingMatches(t *testing.T) {
	t.Parallel()

	items := []domain.NewsItem{
		{Title: "Cooking tips", URL: "https://example.com/a", Score: 10},
	}

	got := New().Aggregate(items, []string{"kubernetes"})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d items", len(got))
	}
}

func TestAggregateDedupsNormalizedURLs(t *testing.T) {
	t.Parallel()

	items := []domain.NewsItem{
		{Title: "Docker update", URL: "https://Example.com/Docker/", Source: domain.SourceHackerNews, Score: 100},
		{Title: "Docker update mirror", URL: "https://example.com/Docker", Source: domain.SourceRSS, Score: 50},
	}

	got := New().Aggregate(items, []string{"docker"})
	if len(got) != 1 {
		t.Fatalf("expected dedup to 1 item, got %d", len(got))
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b string
	}{
		{"trailing slash", "https://example.com/post/", "https://example.com/post"},
		{"host casing", "https://EXAMPLE.com/post", "https://example.com/post"},
		{"utm params", "https://example.com/post?utm_source=rss", "https://example.com/post"},
		{"fragment", "https://example.com/post#section", "https://example.com/post"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if NormalizeURL(tc.a) != NormalizeURL(tc.b) {
				t.Fatalf("expected %q and %q to normalize equal, got %q vs %q",
					tc.a, tc.b, NormalizeURL(tc.a), NormalizeURL(tc.b))
			}
		})
	}
}

func TestAggregateRanksByScore(t *testing.T) {
	t.Parallel()

	items := []domain.NewsItem{
		{Title: "docker small", URL: "https://example.com/1", Source: domain.SourceHackerNews, Score: 10},
		{Title: "docker big", URL: "https://example.com/2", Source: domain.SourceHackerNews, Score: 400},
		{Title: "docker mid", URL: "https://example.com/3", Source: domain.SourceHackerNews, Score: 200},
	}

	got := New().Aggregate(items, []string{"docker"})
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if got[0].Title != "docker big" || got[1].Title != "docker mid" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestAggregateMixBoundsPerSource(t *testing.T) {
	t.Parallel()

	var items []domain.NewsItem
	for i := 0; i < 8; i++ {
		items = append(items, domain.NewsItem{
			Title:  "docker hn story",
			URL:    "https://example.com/hn/" + string(rune('a'+i)),
			Source: domain.SourceHackerNews,
			Score:  1000 - i,
		})
	}
	items = append(items, domain.NewsItem{
		Title: "docker blog post", URL: "https://example.com/rss", Source: domain.SourceRSS, Score: 1,
	})

	got := New().Aggregate(items, []string{"docker"})

	// The RSS item must survive even though every HN item outscores it.
	foundRSS := false
	for _, item := range got {
		if item.Source == domain.SourceRSS {
			foundRSS = true
		}
	}
	if !foundRSS {
		t.Fatalf("expected the RSS item to be included in the mix")
	}

	// HN fills its quota first; the first three results come from it.
	for i := 0; i < 3; i++ {
		if got[i].Source != domain.SourceHackerNews {
			t.Fatalf("expected position %d to be a hackernews item, got %s", i, got[i].Source)
		}
	}
}
