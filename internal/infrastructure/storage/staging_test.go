package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"newsroom/internal/domain"
)

func TestStagingFileLoadMissing(t *testing.T) {
	t.Parallel()

	sink := NewStagingFile(filepath.Join(t.TempDir(), "posts.json"))
	posts, err := sink.Load()
	if err != nil {
		t.Fatalf("missing file must load as empty stage: %v", err)
	}
	if posts != nil {
		t.Fatalf("expected nil posts, got %v", posts)
	}
}

func TestStagingFileStageAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stage", "posts.json")
	sink := NewStagingFile(path)
	ctx := context.Background()

	if err := sink.Stage(ctx, domain.Post{Slug: "ai-week-3", Title: "AI Weekly Digest: Week 3"}); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := sink.Stage(ctx, domain.Post{Slug: "web-week-3", Title: "Web Weekly Digest: Week 3"}); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	posts, err := sink.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 staged posts, got %d", len(posts))
	}
	if posts[0].Slug != "ai-week-3" || posts[1].Slug != "web-week-3" {
		t.Fatalf("unexpected slugs: %s, %s", posts[0].Slug, posts[1].Slug)
	}
}

func TestStagingFileReplacesBySlug(t *testing.T) {
	t.Parallel()

	sink := NewStagingFile(filepath.Join(t.TempDir(), "posts.json"))
	ctx := context.Background()

	if err := sink.Stage(ctx, domain.Post{Slug: "devops-week-10", Content: "first draft"}); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := sink.Stage(ctx, domain.Post{Slug: "devops-week-10", Content: "second draft"}); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	posts, err := sink.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("same slug must replace, not append: %d entries", len(posts))
	}
	if posts[0].Content != "second draft" {
		t.Fatalf("stale content kept: %q", posts[0].Content)
	}
}

func TestStagingFileLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink := NewStagingFile(filepath.Join(dir, "posts.json"))

	if err := sink.Stage(context.Background(), domain.Post{Slug: "a"}); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "posts.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
