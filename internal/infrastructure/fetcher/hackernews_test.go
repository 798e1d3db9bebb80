package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsroom/internal/domain"
	"newsroom/internal/source"
)

func TestHackerNewsFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/topstories.json":
			fmt.Fprint(w, `[1, 2, 3]`)
		case "/item/1.json":
			fmt.Fprint(w, `{"id":1,"type":"story","title":"Kubernetes 1.30 released","url":"https://example.com/k8s","score":500,"descendants":120,"time":1757200000}`)
		case "/item/2.json":
			fmt.Fprint(w, `{"id":2,"type":"comment","text":"nice"}`)
		case "/item/3.json":
			fmt.Fprint(w, `{"id":3,"type":"story","title":"Ask HN: anything","score":42,"descendants":10,"time":1757200000}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewHackerNewsFetcher(server.Client(), server.URL, "test-agent")
	items, err := f.Fetch(context.Background(), source.Request{Limit: 10})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 story items, got %d", len(items))
	}
	if items[0].Title != "Kubernetes 1.30 released" || items[0].Score != 500 || items[0].Comments != 120 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[0].Source != domain.SourceHackerNews {
		t.Fatalf("unexpected source: %s", items[0].Source)
	}
	// Self posts without a URL link back to the HN discussion.
	if items[1].URL != "https://news.ycombinator.com/item?id=3" {
		t.Fatalf("unexpected self-post url: %s", items[1].URL)
	}
}

func TestHackerNewsFetchUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewHackerNewsFetcher(server.Client(), server.URL, "test-agent")
	items, err := f.Fetch(context.Background(), source.Request{Limit: 5})
	if err == nil {
		t.Fatal("expected error from unavailable API")
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}
