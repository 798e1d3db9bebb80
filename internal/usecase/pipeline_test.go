package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"newsroom/internal/aggregator"
	"newsroom/internal/config"
	"newsroom/internal/domain"
	"newsroom/internal/generator"
	"newsroom/internal/post"
	"newsroom/internal/source"
)

type fakeFetcher struct {
	name  string
	items []domain.NewsItem
	err   error
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(context.Context, source.Request) ([]domain.NewsItem, error) {
	return f.items, f.err
}

type fakeText struct{}

func (fakeText) Complete(context.Context, string, int) (string, error) {
	return "Generated prose.", nil
}

type capturingPostRepo struct {
	upserted []domain.Post
	err      error
}

func (r *capturingPostRepo) UpsertPost(_ context.Context, p domain.Post) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.upserted = append(r.upserted, p)
	return "id-1", nil
}

func (r *capturingPostRepo) RecentPublished(context.Context, time.Time) ([]domain.Post, error) {
	return nil, nil
}

type capturingStaging struct {
	staged []domain.Post
}

func (s *capturingStaging) Stage(_ context.Context, p domain.Post) error {
	s.staged = append(s.staged, p)
	return nil
}

func kubernetesItem(url string, score int) domain.NewsItem {
	return domain.NewsItem{
		Title:       "Kubernetes release notes",
		URL:         url,
		Source:      domain.SourceHackerNews,
		Score:       score,
		PublishedAt: time.Now().UTC(),
	}
}

func newTestPipeline(fetchers []source.Fetcher, posts *capturingPostRepo, staging *capturingStaging, cats []config.Category) *Pipeline {
	registry := source.NewRegistry()
	for _, f := range fetchers {
		registry.Register(f)
	}
	return NewPipeline(PipelineDeps{
		Sources:    registry,
		Aggregator: aggregator.New(),
		Generator:  generator.New(fakeText{}, config.ChatConfig{MaxTokens: 500}, nil),
		Builder:    post.NewBuilder("Editorial Team"),
		Posts:      posts,
		Staging:    staging,
		Categories: cats,
		FetchLimit: 10,
	})
}

func devopsCategory() config.Category {
	return config.Category{
		Name:     "devops",
		Label:    "DevOps & Tools",
		Keywords: []string{"kubernetes"},
	}
}

func TestRunPersistsMatchingCategory(t *testing.T) {
	t.Parallel()

	posts := &capturingPostRepo{}
	staging := &capturingStaging{}
	fetchers := []source.Fetcher{
		&fakeFetcher{name: "hackernews", items: []domain.NewsItem{kubernetesItem("https://example.com/a", 50)}},
	}
	p := newTestPipeline(fetchers, posts, staging, []config.Category{devopsCategory()})

	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	if err := p.Run(context.Background(), now); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(posts.upserted) != 1 {
		t.Fatalf("expected 1 persisted post, got %d", len(posts.upserted))
	}
	record := posts.upserted[0]
	_, week := now.ISOWeek()
	if !strings.HasSuffix(record.Slug, "-week-"+strconv.Itoa(week)) {
		t.Fatalf("slug missing week suffix: %q", record.Slug)
	}
	if record.Image == "" {
		t.Fatal("post must carry an image URL even without an image generator")
	}
	if len(staging.staged) != 0 {
		t.Fatalf("nothing should be staged on success, got %d", len(staging.staged))
	}
}

func TestRunSkipsCategoryWithoutMatches(t *testing.T) {
	t.Parallel()

	posts := &capturingPostRepo{}
	fetchers := []source.Fetcher{
		&fakeFetcher{name: "hackernews", items: []domain.NewsItem{{
			Title: "Gardening tips", URL: "https://example.com/g", Source: domain.SourceHackerNews,
		}}},
	}
	p := newTestPipeline(fetchers, posts, &capturingStaging{}, []config.Category{devopsCategory()})

	if err := p.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("empty week must not be an error: %v", err)
	}
	if len(posts.upserted) != 0 {
		t.Fatalf("no post expected, got %d", len(posts.upserted))
	}
}

func TestRunDegradesOnFetcherFailure(t *testing.T) {
	t.Parallel()

	posts := &capturingPostRepo{}
	fetchers := []source.Fetcher{
		&fakeFetcher{name: "hackernews", err: errors.New("upstream down")},
		&fakeFetcher{name: "rss", items: []domain.NewsItem{kubernetesItem("https://example.com/r", 10)}},
	}
	p := newTestPipeline(fetchers, posts, &capturingStaging{}, []config.Category{devopsCategory()})

	if err := p.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("one broken source must not fail the run: %v", err)
	}
	if len(posts.upserted) != 1 {
		t.Fatalf("surviving source ignored: %d posts", len(posts.upserted))
	}
}

func TestRunStagesPostWhenPersistenceFails(t *testing.T) {
	t.Parallel()

	posts := &capturingPostRepo{err: errors.New("connection refused")}
	staging := &capturingStaging{}
	fetchers := []source.Fetcher{
		&fakeFetcher{name: "hackernews", items: []domain.NewsItem{kubernetesItem("https://example.com/a", 50)}},
	}
	p := newTestPipeline(fetchers, posts, staging, []config.Category{devopsCategory()})

	err := p.Run(context.Background(), time.Now())
	if err == nil {
		t.Fatal("persistence failure must surface as a run error")
	}
	if len(staging.staged) != 1 {
		t.Fatalf("post not staged on persistence failure: %d", len(staging.staged))
	}
	if staging.staged[0].Slug == "" {
		t.Fatal("staged post missing slug")
	}
}

func TestRunContinuesAfterFailedCategory(t *testing.T) {
	t.Parallel()

	posts := &capturingPostRepo{}
	fetchers := []source.Fetcher{
		&fakeFetcher{name: "hackernews", items: []domain.NewsItem{kubernetesItem("https://example.com/a", 50)}},
	}
	cats := []config.Category{
		{Name: "web", Label: "Web Development", Keywords: []string{"javascript"}},
		devopsCategory(),
	}
	p := newTestPipeline(fetchers, posts, &capturingStaging{}, cats)

	if err := p.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(posts.upserted) != 1 {
		t.Fatalf("matching category skipped: %d posts", len(posts.upserted))
	}
	if posts.upserted[0].Category != "devops" {
		t.Fatalf("wrong category persisted: %q", posts.upserted[0].Category)
	}
}
