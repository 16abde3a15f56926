package cli

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/turtacn/PatentVault/internal/application/assistant"
	"github.com/turtacn/PatentVault/internal/application/importing"
	"github.com/turtacn/PatentVault/internal/application/portfolio"
	"github.com/turtacn/PatentVault/internal/application/reporting"
	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/database/memory"
	"github.com/turtacn/PatentVault/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentVault/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/PatentVault/internal/infrastructure/database/redis"
	"github.com/turtacn/PatentVault/internal/infrastructure/document"
	"github.com/turtacn/PatentVault/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PatentVault/internal/infrastructure/storage/minio"
	"github.com/turtacn/PatentVault/internal/intelligence/llm"
	"github.com/turtacn/PatentVault/internal/interfaces/http/handlers"
)

const seedLockName = "seed"

// AppOptions adjust how NewApp assembles the application.
type AppOptions struct {
	// Now overrides the clock of the portfolio and import services.
	Now func() time.Time
	// SkipAI leaves the LLM provider unset.
	SkipAI bool
}

// App holds the assembled application services and the infrastructure they
// run on.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Portfolio portfolio.Service
	Reports   reporting.Service
	Importer  *importing.Service
	Assistant *assistant.Assistant

	// Metrics and Collector are nil when metrics are disabled.
	Metrics   *prometheus.AppMetrics
	Collector prometheus.MetricsCollector
	Checkers  []handlers.HealthChecker

	closers []func() error
}

// NewApp connects the configured backends and builds the services. Backends
// that are disabled in cfg are left out; the memory repository is used unless
// storage.driver is postgres.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger, opts AppOptions) (_ *App, err error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	app := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	if cfg.Metrics.Enabled {
		app.Collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		app.Metrics = prometheus.NewAppMetrics(app.Collector)
	}

	repo, err := app.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	var cache importing.Cache
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, redisClient.Close)
		cache = redis.NewRedisCache(redisClient, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix), redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		app.Checkers = append(app.Checkers, handlers.CheckFunc("redis", redisClient.Ping))
	}

	var publisher *kafka.EventPublisher
	if cfg.Kafka.Enabled {
		publisher, err = app.openPublisher(ctx)
		if err != nil {
			return nil, err
		}
	}

	var store importing.DocumentStore
	if cfg.MinIO.Enabled {
		api, err := minio.NewAPI(ctx, cfg.MinIO, logger)
		if err != nil {
			return nil, err
		}
		docs := minio.NewDocumentStore(api, cfg.MinIO.Bucket, logger)
		store = docs
		app.Checkers = append(app.Checkers, handlers.CheckFunc("minio", docs.HealthCheck))
	}

	var provider llm.Provider
	if !opts.SkipAI {
		provider = app.openProvider(ctx)
	}

	var portfolioOpts []portfolio.Option
	if opts.Now != nil {
		portfolioOpts = append(portfolioOpts, portfolio.WithClock(opts.Now))
	}
	if publisher != nil {
		app.Portfolio = portfolio.NewService(repo, publisher, logger, portfolioOpts...)
		app.Reports = reporting.NewService(publisher, logger)
	} else {
		app.Portfolio = portfolio.NewService(repo, nil, logger, portfolioOpts...)
		app.Reports = reporting.NewService(nil, logger)
	}

	if cfg.Storage.SeedFile != "" {
		if err := app.loadSeed(ctx, redisClient); err != nil {
			return nil, err
		}
	}

	deps := importing.Deps{
		Provider:  provider,
		Cache:     cache,
		Store:     store,
		Extractor: document.NewTextExtractor(0, logger),
		Committer: app.Portfolio,
		Logger:    logger,
		Now:       now,
	}
	if app.Metrics != nil {
		deps.Metrics = app.Metrics
	}
	app.Importer = importing.NewService(importing.Config{
		MaxDocumentBytes: cfg.Import.MaxDocumentBytes,
		BatchConcurrency: cfg.Import.BatchConcurrency,
		HeuristicOnly:    cfg.Import.HeuristicOnly,
		CacheTTL:         cfg.Redis.DefaultTTL,
	}, deps)

	app.Assistant = assistant.New(provider, app.Portfolio, assistant.Config{
		ContextPatents: cfg.Assistant.ContextPatents,
		MaxHistory:     cfg.Assistant.MaxHistory,
	}, logger)

	return app, nil
}

func (a *App) openRepository(ctx context.Context) (patent.Repository, error) {
	if a.Config.Storage.Driver != "postgres" {
		a.Logger.Info("using in-memory patent repository")
		return memory.NewPatentRepository(), nil
	}

	conn, err := postgres.NewConnection(ctx, a.Config.Database, a.Logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn.Close)
	if a.Config.Database.AutoMigrate {
		if err := conn.RunMigrations(); err != nil {
			return nil, err
		}
	}
	if a.Collector != nil {
		a.Collector.MustRegister(collectors.NewDBStatsCollector(conn.DB(), a.Config.Database.DBName))
	}
	a.Checkers = append(a.Checkers, handlers.CheckFunc("postgres", conn.HealthCheck))
	return repositories.NewPostgresPatentRepo(conn, a.Logger), nil
}

func (a *App) openPublisher(ctx context.Context) (*kafka.EventPublisher, error) {
	cfg := a.Config.Kafka
	producer, err := kafka.NewProducer(cfg, a.Logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, producer.Close)

	topics, err := kafka.NewTopicManager(ctx, cfg.Brokers, a.Logger)
	if err != nil {
		a.Logger.Warn("kafka topic manager unavailable, assuming topic exists", logging.Err(err))
	} else {
		if err := topics.EnsureTopic(ctx, kafka.EventTopic(cfg.Topic)); err != nil {
			a.Logger.Warn("failed to ensure event topic", logging.String("topic", cfg.Topic), logging.Err(err))
		}
		_ = topics.Close()
	}
	return kafka.NewEventPublisher(producer, cfg.Topic, a.Logger), nil
}

// openProvider returns nil when no provider is configured or it cannot be
// built; imports then fall back to the heuristic extractor.
func (a *App) openProvider(ctx context.Context) llm.Provider {
	provider, err := llm.New(ctx, a.Config.LLM, a.Logger)
	switch {
	case stderrors.Is(err, llm.ErrNotConfigured):
		a.Logger.Info("AI provider not configured, heuristic extraction only")
		return nil
	case err != nil:
		a.Logger.Warn("AI provider unavailable, heuristic extraction only", logging.Err(err))
		return nil
	}
	a.Logger.Info("AI provider ready", logging.String("provider", provider.Name()))
	if a.Metrics != nil {
		return llm.Instrument(provider, a.Metrics)
	}
	return provider
}

// loadSeed imports the seed file once. With redis available the load is
// serialized across replicas.
func (a *App) loadSeed(ctx context.Context, client *redis.Client) error {
	path := a.Config.Storage.SeedFile
	load := func(ctx context.Context) error {
		n, err := portfolio.LoadSeed(ctx, a.Portfolio, path)
		if err != nil {
			return err
		}
		a.Logger.Info("seed file processed", logging.String("path", path), logging.Int("imported", n))
		return nil
	}
	if client == nil {
		return load(ctx)
	}
	return redis.NewMutex(client, seedLockName, a.Logger).WithLock(ctx, load)
}

// Close releases every backend connection in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return stderrors.Join(errs...)
}

//Personal.AI order the ending
