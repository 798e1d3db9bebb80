// Package usecase orchestrates the weekly content pipeline: fetch,
// aggregate, generate, build, persist — sequentially, one category at a
// time, degrading per stage instead of aborting the run.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsroom/internal/aggregator"
	"newsroom/internal/config"
	"newsroom/internal/domain"
	"newsroom/internal/generator"
	"newsroom/internal/infrastructure/imagegen"
	"newsroom/internal/ports"
	"newsroom/internal/post"
	"newsroom/internal/source"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Sources    *source.Registry
	Aggregator *aggregator.Aggregator
	Generator  *generator.Generator
	Builder    *post.Builder
	Posts      ports.PostRepository
	Images     ports.ImageGenerator
	Staging    ports.StagingSink
	Categories []config.Category
	FetchLimit int
	Logger     *slog.Logger
}

// Pipeline implements the weekly digest workflow.
type Pipeline struct {
	sources    *source.Registry
	aggregator *aggregator.Aggregator
	generator  *generator.Generator
	builder    *post.Builder
	posts      ports.PostRepository
	images     ports.ImageGenerator
	staging    ports.StagingSink
	categories []config.Category
	fetchLimit int
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		sources:    deps.Sources,
		aggregator: deps.Aggregator,
		generator:  deps.Generator,
		builder:    deps.Builder,
		posts:      deps.Posts,
		images:     deps.Images,
		staging:    deps.Staging,
		categories: deps.Categories,
		fetchLimit: deps.FetchLimit,
		logger:     deps.Logger,
	}
}

// Run executes one pipeline pass for every configured category. Source and
// generation failures degrade per category; persistence failures end that
// category (after staging the post) and are reported together at the end.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	_, week := now.UTC().ISOWeek()
	p.info("pipeline run started", "week", week, "categories", len(p.categories))

	var errs []error
	for _, category := range p.categories {
		if err := p.runCategory(ctx, category, week, now); err != nil {
			errs = append(errs, fmt.Errorf("category %s: %w", category.Name, err))
		}
	}

	p.info("pipeline run finished", "week", week, "failed_categories", len(errs))
	return errors.Join(errs...)
}

func (p *Pipeline) runCategory(ctx context.Context, category config.Category, week int, now time.Time) error {
	items := p.collectItems(ctx, category)

	shortlist := p.aggregator.Aggregate(items, category.Keywords)
	if len(shortlist) == 0 {
		// Nothing matched this week; skipping is the intended behavior.
		p.info("no matching items, skipping category", "category", category.Name)
		return nil
	}

	markdown, err := p.generator.Generate(ctx, shortlist, category, week)
	if err != nil {
		return fmt.Errorf("generate document: %w", err)
	}

	record := p.builder.Build(markdown, category, week, now)
	record.Image = p.resolveImage(ctx, record)

	id, err := p.posts.UpsertPost(ctx, record)
	if err != nil {
		p.warn("persistence failed, staging post",
			"category", category.Name, "slug", record.Slug, "error", err)
		if stageErr := p.staging.Stage(ctx, record); stageErr != nil {
			return errors.Join(
				fmt.Errorf("upsert post: %w", err),
				fmt.Errorf("stage post: %w", stageErr),
			)
		}
		return fmt.Errorf("upsert post (staged locally): %w", err)
	}

	p.info("post persisted",
		"category", category.Name, "slug", record.Slug, "id", id, "read_time", record.ReadTime)
	return nil
}

// collectItems queries every registered fetcher. A failing source logs a
// warning and contributes whatever partial items it returned; the run
// continues with the remaining sources.
func (p *Pipeline) collectItems(ctx context.Context, category config.Category) []domain.NewsItem {
	req := source.Request{Category: category, Limit: p.fetchLimit}

	var items []domain.NewsItem
	for _, fetcher := range p.sources.All() {
		fetched, err := fetcher.Fetch(ctx, req)
		if err != nil {
			p.warn("source fetch degraded",
				"source", fetcher.Name(), "category", category.Name, "error", err)
		}
		items = append(items, fetched...)
	}

	p.info("sources collected", "category", category.Name, "items", len(items))
	return items
}

// resolveImage asks the image generator for a header image and falls back
// to a templated placeholder on any failure.
func (p *Pipeline) resolveImage(ctx context.Context, record domain.Post) string {
	if p.images == nil {
		return imagegen.PlaceholderURL(record.Title)
	}

	prompt := fmt.Sprintf(
		"Abstract editorial illustration for a technology article titled %q, category %s. No text in the image.",
		record.Title, record.Category)

	url, err := p.images.Generate(ctx, prompt)
	if err != nil {
		p.warn("image generation failed, using placeholder",
			"slug", record.Slug, "error", err)
		return imagegen.PlaceholderURL(record.Title)
	}
	return url
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
