// Package generator turns an aggregated shortlist into a Markdown digest
// document through a generative-text API, degrading each section to
// deterministic facts when the API fails.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"newsroom/internal/config"
	"newsroom/internal/domain"
	"newsroom/internal/ports"
)

const (
	headingLead      = "Lead Story"
	headingSecondary = "Around the Ecosystem"
	headingResearch  = "Research Highlights"
	headingCommunity = "Community Pulse"
	headingEditorial = "Editor's Perspective"
)

// Generator assembles the digest document section by section.
// Calls to the text API are paced by the limiter so the pipeline stays
// under third-party quotas; there is no parallel fan-out.
type Generator struct {
	text      ports.TextGenerator
	limiter   *rate.Limiter
	logger    *slog.Logger
	maxTokens int
}

// New builds a generator. A nil limiter disables pacing (tests).
func New(text ports.TextGenerator, cfg config.ChatConfig, logger *slog.Logger) *Generator {
	var limiter *rate.Limiter
	if cfg.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 700
	}
	return &Generator{
		text:      text,
		limiter:   limiter,
		logger:    logger,
		maxTokens: maxTokens,
	}
}

// Generate produces the category's weekly Markdown document. Section order
// is fixed: intro, lead, secondary, research, community, editorial.
// A failed generative call degrades that one section to templated facts.
func (g *Generator) Generate(ctx context.Context, items []domain.NewsItem, category config.Category, week int) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no items for category %s", category.Name)
	}

	lead := items[0]
	secondary := sliceAfter(items, 1, 3)
	research := bySource(items, domain.SourceArxiv)
	community := discussionItems(items)

	doc := &Document{Intro: intro(category.Label, week, len(items))}

	doc.Add(headingLead, g.section(ctx, leadPrompt(lead, category.Label), fallbackLead(lead)))

	if len(secondary) > 0 {
		doc.Add(headingSecondary, g.section(ctx, secondaryPrompt(secondary, category.Label), fallbackList(secondary)))
	}
	if len(research) > 0 {
		doc.Add(headingResearch, g.section(ctx, researchPrompt(research, category.Label), fallbackList(research)))
	}
	if len(community) > 0 {
		doc.Add(headingCommunity, g.section(ctx, communityPrompt(community, category.Label), fallbackList(community)))
	}

	doc.Add(headingEditorial, g.section(ctx, editorialPrompt(items, category.Label), fallbackEditorial(category.Label, len(items))))

	return doc.Render(), nil
}

// section runs one paced generative call, falling back to the deterministic
// text on any failure. Analysis degrades to facts, never to a missing block.
func (g *Generator) section(ctx context.Context, prompt, fallback string) string {
	if g.text == nil {
		return fallback
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.warn("rate limiter interrupted", "error", err)
			return fallback
		}
	}

	body, err := g.text.Complete(ctx, prompt, g.maxTokens)
	if err != nil {
		g.warn("generative call failed, using fallback text", "error", err)
		return fallback
	}
	return body
}

func intro(label string, week, count int) string {
	return fmt.Sprintf("Welcome to this week's %s digest (week %d). "+
		"We tracked %d noteworthy items across Hacker News, Reddit, ArXiv, and the wider blogosphere.",
		label, week, count)
}

func fallbackLead(item domain.NewsItem) string {
	return fmt.Sprintf("**[%s](%s)** drew the most attention this week with a score of %d and %d comments.",
		item.Title, item.URL, item.Score, item.Comments)
}

func fallbackList(items []domain.NewsItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s](%s) — score %d, %d comments\n",
			item.Title, item.URL, item.Score, item.Comments)
	}
	return strings.TrimRight(b.String(), "\n")
}

func fallbackEditorial(label string, count int) string {
	return fmt.Sprintf("That wraps up the week in %s: %d stories worth your attention. See you next week.",
		label, count)
}

func sliceAfter(items []domain.NewsItem, start, max int) []domain.NewsItem {
	if start >= len(items) {
		return nil
	}
	end := start + max
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func bySource(items []domain.NewsItem, src domain.Source) []domain.NewsItem {
	var out []domain.NewsItem
	for _, item := range items {
		if item.Source == src {
			out = append(out, item)
		}
	}
	return out
}

// discussionItems returns forum-style entries with actual comment activity.
func discussionItems(items []domain.NewsItem) []domain.NewsItem {
	var out []domain.NewsItem
	for _, item := range items {
		if item.Source != domain.SourceHackerNews && item.Source != domain.SourceReddit {
			continue
		}
		if item.Comments > 0 {
			out = append(out, item)
		}
	}
	return out
}

func (g *Generator) warn(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
