package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"CompanyNewsScanner/internal/config"
	"CompanyNewsScanner/internal/infrastructure/llm"
	"CompanyNewsScanner/internal/infrastructure/notify"
	"CompanyNewsScanner/internal/infrastructure/scheduler"
	"CompanyNewsScanner/internal/infrastructure/scraper"
	infrasource "CompanyNewsScanner/internal/infrastructure/source"
	"CompanyNewsScanner/internal/infrastructure/storage"
	"CompanyNewsScanner/internal/logging"
	"CompanyNewsScanner/internal/source"
	"CompanyNewsScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.New(cfg.Elasticsearch, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}

	registry := source.NewRegistry()
	registry.Register(infrasource.NewRSSReader(nil, baseLogger.With("component", "source.rss")))
	registry.Register(infrasource.NewNewsAPIReader(cfg.NewsAPI, nil, baseLogger.With("component", "source.newsapi")))

	candidates := infrasource.NewMultiSource(registry, cfg.Sources, baseLogger.With("component", "source"))

	backend := llm.NewClient(cfg.LLM)
	classifier := llm.NewClassifier(backend, baseLogger.With("component", "classifier"))
	comparator := llm.NewComparator(backend, baseLogger.With("component", "comparator"))
	confirmer := scraper.New(nil, backend, baseLogger.With("component", "scraper"))

	notifier := notify.NewEmailNotifier(
		store,
		notify.NewSMTPSender(cfg.SMTP),
		baseLogger.With("component", "notifier"),
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     candidates,
		Classifier: classifier,
		Confirmer:  confirmer,
		Judge:      comparator,
		News:       store,
		Companies:  store,
		Watermark:  store,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline}, nil
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	return a.pipeline.Run(ctx)
}

// Watch keeps the pipeline running on the configured interval until the
// context is cancelled.
func (a *Application) Watch(ctx context.Context) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval)
	runner := usecase.NewScheduler(driver, a.pipeline)

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return runner.Stop(stopCtx)
}
