package post

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"newsroom/internal/config"
)

var slugCharset = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestSlugifyCharsetAndDeterminism(t *testing.T) {
	t.Parallel()

	a := Slugify("DevOps & Tools Weekly Digest: Week 37", 37)
	b := Slugify("DevOps & Tools Weekly Digest: Week 37", 37)

	if a != b {
		t.Fatalf("slug not deterministic: %q vs %q", a, b)
	}
	if a == "" {
		t.Fatal("slug is empty")
	}
	if !slugCharset.MatchString(a) {
		t.Fatalf("slug contains invalid characters: %q", a)
	}
}

func TestSlugifyBoundsOverlongTitle(t *testing.T) {
	t.Parallel()

	slug := Slugify(strings.Repeat("A", 150), 5)

	if len(slug) > 100 {
		t.Fatalf("slug exceeds 100 chars: %d", len(slug))
	}
	if !slugCharset.MatchString(slug) {
		t.Fatalf("slug contains invalid characters: %q", slug)
	}
	if !strings.HasSuffix(slug, "-week-5") {
		t.Fatalf("slug lost its week disambiguator: %q", slug)
	}
}

func TestSlugifyDistinctWeeksDistinctSlugs(t *testing.T) {
	t.Parallel()

	a := Slugify("Same Title", 4)
	b := Slugify("Same Title", 5)
	if a == b {
		t.Fatalf("expected different slugs for different weeks, got %q", a)
	}
}

func TestTitleCapped(t *testing.T) {
	t.Parallel()

	title := Title(strings.Repeat("Very Long Label ", 20), 9)
	if got := len([]rune(title)); got > 120 {
		t.Fatalf("title exceeds 120 runes: %d", got)
	}
}

func TestExcerptBounded(t *testing.T) {
	t.Parallel()

	md := "## Heading\n\n" + strings.Repeat("word ", 200)
	excerpt := Excerpt(md, 200)

	if got := len([]rune(excerpt)); got > 201 { // bound plus ellipsis rune
		t.Fatalf("excerpt too long: %d runes", got)
	}
	if strings.Contains(excerpt, "#") {
		t.Fatalf("excerpt contains markdown: %q", excerpt)
	}
}

func TestExcerptStripsLinks(t *testing.T) {
	t.Parallel()

	excerpt := Excerpt("See [the docs](https://example.com) for details.", 200)
	if strings.Contains(excerpt, "https://example.com") || strings.Contains(excerpt, "[") {
		t.Fatalf("link markup leaked into excerpt: %q", excerpt)
	}
	if !strings.Contains(excerpt, "the docs") {
		t.Fatalf("link text missing from excerpt: %q", excerpt)
	}
}

func TestReadTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{150, 1},
		{201, 2},
		{1000, 5},
	}

	for _, tc := range cases {
		content := strings.TrimSpace(strings.Repeat("word ", tc.words))
		if got := ReadTime(content); got != tc.want {
			t.Fatalf("ReadTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}

func TestBuildPopulatesRecord(t *testing.T) {
	t.Parallel()

	category := config.Category{Name: "devops", Label: "DevOps & Tools"}
	now := time.Date(2026, time.September, 7, 12, 0, 0, 0, time.UTC)

	p := NewBuilder("Editorial Team").Build("## Lead Story\n\nBody text here.", category, 37, now)

	if p.ID == "" {
		t.Fatal("post id not assigned")
	}
	if p.Slug == "" || !slugCharset.MatchString(p.Slug) {
		t.Fatalf("bad slug: %q", p.Slug)
	}
	if p.Category != "devops" {
		t.Fatalf("unexpected category: %q", p.Category)
	}
	if !p.Published {
		t.Fatal("expected post to be published")
	}
	if p.ReadTime < 1 {
		t.Fatalf("read time below 1: %d", p.ReadTime)
	}
	if !strings.Contains(p.Title, "Week 37") {
		t.Fatalf("title missing week: %q", p.Title)
	}
}
