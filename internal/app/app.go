// Package app wires configuration to use cases and command execution.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"newsroom/internal/aggregator"
	"newsroom/internal/config"
	"newsroom/internal/generator"
	"newsroom/internal/httpapi"
	"newsroom/internal/infrastructure/email"
	"newsroom/internal/infrastructure/fetcher"
	"newsroom/internal/infrastructure/imagegen"
	"newsroom/internal/infrastructure/llm"
	"newsroom/internal/infrastructure/scheduler"
	"newsroom/internal/infrastructure/storage"
	"newsroom/internal/logging"
	"newsroom/internal/newsletter"
	"newsroom/internal/ports"
	"newsroom/internal/post"
	"newsroom/internal/source"
	"newsroom/internal/subscriber"
	"newsroom/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
}

// New builds a runnable application instance and opens the database.
func New(ctx context.Context, cfg *config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &Application{cfg: cfg, logger: baseLogger, db: db}, nil
}

// Close releases the database connection.
func (a *Application) Close() error {
	return a.db.Close()
}

// Migrate applies pending schema migrations.
func (a *Application) Migrate() error {
	return storage.RunMigrations(a.cfg.DatabaseURL)
}

// RunPipeline executes one content-generation pass across all categories.
func (a *Application) RunPipeline(ctx context.Context) error {
	pipeline, err := a.buildPipeline()
	if err != nil {
		return err
	}
	return pipeline.Run(ctx, time.Now())
}

// RunScheduled keeps the pipeline running on the configured interval until
// the context is canceled.
func (a *Application) RunScheduled(ctx context.Context) error {
	pipeline, err := a.buildPipeline()
	if err != nil {
		return err
	}

	driver := scheduler.NewIntervalScheduler(a.cfg.PipelineInterval)
	runner := usecase.NewScheduler(driver, pipeline)
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("pipeline scheduler started", "interval", a.cfg.PipelineInterval)

	<-ctx.Done()
	return runner.Stop(context.Background())
}

func (a *Application) buildPipeline() (*usecase.Pipeline, error) {
	if err := a.cfg.ValidatePipeline(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: a.cfg.Fetch.Timeout}
	ua := a.cfg.Fetch.UserAgent

	registry := source.NewRegistry()
	registry.Register(fetcher.NewHackerNewsFetcher(httpClient, "", ua))
	registry.Register(fetcher.NewRedditFetcher(httpClient, "", ua))
	registry.Register(fetcher.NewArxivFetcher(httpClient, "", ua))
	registry.Register(fetcher.NewRSSFetcher(httpClient, ua))

	var images ports.ImageGenerator
	if a.cfg.Image.APIKey != "" {
		images = imagegen.NewClient(a.cfg.Image)
	}

	return usecase.NewPipeline(usecase.PipelineDeps{
		Sources:    registry,
		Aggregator: aggregator.New(),
		Generator: generator.New(
			llm.NewChatGPTClient(a.cfg.Chat),
			a.cfg.Chat,
			a.logger.With("component", "generator"),
		),
		Builder:    post.NewBuilder(a.cfg.Author),
		Posts:      storage.NewPostRepository(a.db),
		Images:     images,
		Staging:    storage.NewStagingFile(a.cfg.StagingPath),
		Categories: a.cfg.Categories,
		FetchLimit: a.cfg.Fetch.PerSourceLimit,
		Logger:     a.logger.With("component", "pipeline"),
	}), nil
}

// Dispatch runs one newsletter batch.
func (a *Application) Dispatch(ctx context.Context) error {
	if err := a.cfg.ValidateDispatch(); err != nil {
		return err
	}

	dispatcher := newsletter.NewDispatcher(
		storage.NewPostRepository(a.db),
		storage.NewSubscriberRepository(a.db),
		storage.NewSendLogRepository(a.db),
		email.NewClient(a.cfg.Email),
		a.cfg.Email,
		a.cfg.BaseURL,
		a.logger.With("component", "newsletter"),
	)

	_, err := dispatcher.Dispatch(ctx)
	return err
}

// Serve blocks running the public HTTP API until the context is canceled.
func (a *Application) Serve(ctx context.Context) error {
	subService := subscriber.NewService(
		storage.NewSubscriberRepository(a.db),
		a.logger.With("component", "subscriber"),
	)
	handlers := httpapi.NewHandlers(
		subService,
		storage.NewContactRepository(a.db),
		a.logger.With("component", "httpapi"),
	)

	server := &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           httpapi.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "port", a.cfg.ServerPort)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
