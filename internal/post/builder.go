// Package post wraps generated Markdown and metadata into a persistable
// post record, enforcing display bounds at creation time.
package post

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"newsroom/internal/config"
	"newsroom/internal/domain"
)

const (
	maxTitleLen   = 120
	maxSlugLen    = 100
	excerptLen    = 200
	wordsPerMin   = 200
	defaultAuthor = "Editorial Team"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Builder derives post metadata from generated content.
type Builder struct {
	author string
}

// NewBuilder sets the byline used for generated posts.
func NewBuilder(author string) *Builder {
	if author == "" {
		author = defaultAuthor
	}
	return &Builder{author: author}
}

// Build assembles a Post from the generated Markdown. Slug uniqueness across
// weeks comes from the week suffix; within a week the persistence layer's
// upsert-by-slug makes re-runs idempotent instead of duplicating.
func (b *Builder) Build(markdown string, category config.Category, week int, now time.Time) domain.Post {
	title := Title(category.Label, week)

	return domain.Post{
		ID:        uuid.NewString(),
		Slug:      Slugify(title, week),
		Title:     title,
		Excerpt:   Excerpt(markdown, excerptLen),
		Content:   markdown,
		Category:  category.Name,
		Author:    b.author,
		Date:      now.UTC(),
		ReadTime:  ReadTime(markdown),
		Published: true,
	}
}

// Title renders the display title, hard-capped so overlong labels cannot
// break downstream rendering.
func Title(label string, week int) string {
	title := fmt.Sprintf("%s Weekly Digest: Week %d", label, week)
	return truncateRunesafe(title, maxTitleLen)
}

// Slugify lowercases the title, collapses non-alphanumerics to hyphens, and
// appends the week number. Same title and week always produce the same slug,
// and the result never exceeds maxSlugLen.
func Slugify(title string, week int) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = nonAlnum.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	suffix := fmt.Sprintf("-week-%d", week)
	if strings.HasSuffix(base, strings.TrimPrefix(suffix, "-")) {
		suffix = ""
	}

	budget := maxSlugLen - len(suffix)
	if len(base) > budget {
		base = strings.Trim(base[:budget], "-")
	}
	if base == "" {
		base = fmt.Sprintf("post-%d", week)
	}

	return base + suffix
}

// Excerpt returns a bounded plain-text prefix of the content.
func Excerpt(markdown string, max int) string {
	text := stripMarkdown(markdown)
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}

// ReadTime estimates reading minutes from the word count, never below one.
func ReadTime(content string) int {
	words := len(strings.Fields(stripMarkdown(content)))
	minutes := (words + wordsPerMin - 1) / wordsPerMin
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

var (
	mdHeading = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	mdLink    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEmph    = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
)

func stripMarkdown(markdown string) string {
	text := mdHeading.ReplaceAllString(markdown, "")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdEmph.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "`", "")
	return strings.Join(strings.Fields(text), " ")
}

func truncateRunesafe(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
