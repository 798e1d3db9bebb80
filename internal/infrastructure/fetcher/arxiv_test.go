package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsroom/internal/config"
	"newsroom/internal/domain"
	"newsroom/internal/source"
)

const sampleAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query Results</title>
  <entry>
    <id>http://arxiv.org/abs/2509.00001v1</id>
    <title>Scheduling in Distributed Systems: A Survey</title>
    <link href="http://arxiv.org/abs/2509.00001v1" rel="alternate"/>
    <summary>We survey scheduling approaches across modern clusters.</summary>
    <published>2025-09-01T00:00:00Z</published>
    <updated>2025-09-01T00:00:00Z</updated>
  </entry>
</feed>`

func TestArxivFetch(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, sampleAtom)
	}))
	defer server.Close()

	f := NewArxivFetcher(server.Client(), server.URL, "test-agent")
	items, err := f.Fetch(context.Background(), source.Request{
		Category: config.Category{ArxivQuery: "cat:cs.DC"},
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if gotQuery != "cat:cs.DC" {
		t.Fatalf("search_query not forwarded, got %q", gotQuery)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Title != "Scheduling in Distributed Systems: A Survey" {
		t.Fatalf("unexpected title: %q", item.Title)
	}
	if item.Source != domain.SourceArxiv {
		t.Fatalf("unexpected source: %s", item.Source)
	}
	if item.PublishedAt.IsZero() {
		t.Fatal("published date not parsed")
	}
}

func TestArxivFetchWithoutQuery(t *testing.T) {
	t.Parallel()

	f := NewArxivFetcher(nil, "http://127.0.0.1:0", "agent")
	items, err := f.Fetch(context.Background(), source.Request{Category: config.Category{}})
	if err != nil {
		t.Fatalf("expected no error for categories without an arxiv query, got %v", err)
	}
	if items != nil {
		t.Fatalf("expected nil items, got %v", items)
	}
}
