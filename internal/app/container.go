// Package app wires the application together.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	assessmentCommands "github.com/felixgeelhaar/cmas/internal/assessment/application/commands"
	assessmentQueries "github.com/felixgeelhaar/cmas/internal/assessment/application/queries"
	assessmentServices "github.com/felixgeelhaar/cmas/internal/assessment/application/services"
	assessmentDomain "github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/felixgeelhaar/cmas/internal/assessment/infrastructure/cache"
	"github.com/felixgeelhaar/cmas/internal/assessment/infrastructure/dispatch"
	"github.com/felixgeelhaar/cmas/internal/assessment/infrastructure/persistence"
	"github.com/felixgeelhaar/cmas/internal/assessment/infrastructure/remote"
	identityServices "github.com/felixgeelhaar/cmas/internal/identity/application/services"
	identityDomain "github.com/felixgeelhaar/cmas/internal/identity/domain"
	"github.com/felixgeelhaar/cmas/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/cmas/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cmas/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cmas/pkg/config"
)

// Container holds all application dependencies.
//
// The local SQLite database is always opened: it carries the session slot,
// the outbox, and, when no clinic store is configured, measurement history.
// Postgres, the remote HTTP store, Redis, and RabbitMQ are all optional and
// configured purely through the environment.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	DB          *sql.DB
	Pool        *pgxpool.Pool
	RedisClient *redis.Client

	// Repositories
	SessionRepo      assessmentDomain.SessionRepository
	MeasurementStore assessmentDomain.MeasurementStore
	ScoreSubmitter   *remote.Client
	OutboxRepo       outbox.Repository

	// Messaging
	EventPublisher eventbus.Publisher

	// Assessment
	Catalog        *assessmentDomain.Catalog
	SessionStore   *assessmentServices.SessionStore
	Flow           *assessmentServices.FlowController
	SubmitHandler  *assessmentCommands.SubmitSessionHandler
	SummaryHandler *assessmentQueries.GetSummaryHandler
	HistoryHandler *assessmentQueries.GetHistoryHandler
	HistoryCache   *cache.RedisHistoryCache

	// Identity
	Authenticator identityDomain.Authenticator

	// Outbox processing
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and initializes all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	db, err := database.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	c.DB = db

	sessionRepo := persistence.NewSQLiteSessionRepository(db)
	if err := sessionRepo.Migrate(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.SessionRepo = sessionRepo

	outboxRepo := outbox.NewSQLiteRepository(db)
	if err := outboxRepo.Migrate(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.OutboxRepo = outboxRepo

	if err := c.initMeasurementStore(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.initRedis(ctx)
	c.initPublisher()

	catalog := assessmentDomain.StandardCatalog()
	c.Catalog = catalog

	c.SessionStore = assessmentServices.NewSessionStore(c.SessionRepo, logger)
	c.SessionStore.Load(ctx)

	c.Flow = assessmentServices.NewFlowController(catalog, c.SessionStore, logger)
	c.SubmitHandler = assessmentCommands.NewSubmitSessionHandler(c.SessionStore, c.OutboxRepo, logger)
	c.SummaryHandler = assessmentQueries.NewGetSummaryHandler(catalog, c.SessionStore)

	var historyCache assessmentQueries.HistoryCache
	if c.HistoryCache != nil {
		historyCache = c.HistoryCache
	}
	c.HistoryHandler = assessmentQueries.NewGetHistoryHandler(c.MeasurementStore, historyCache, logger)

	c.Authenticator = identityServices.NewStaticAuthenticator(logger)

	dispatcher := dispatch.NewMeasurementDispatcher(c.MeasurementStore, c.EventPublisher, c.dispatchInvalidator(), logger)
	processorConfig := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorConfig.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorConfig.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		processorConfig.MaxRetries = cfg.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, dispatcher, processorConfig, logger)

	return c, nil
}

// initMeasurementStore picks the history store: clinic Postgres when
// DATABASE_URL is set, else the remote HTTP endpoint, else local SQLite.
func (c *Container) initMeasurementStore(ctx context.Context) error {
	cfg := c.Config

	if cfg.DatabaseURL != "" {
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect clinic database: %w", err)
		}
		c.Pool = pool

		repo := persistence.NewPostgresMeasurementRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		c.MeasurementStore = repo
		c.Logger.Info("using clinic Postgres measurement store")
		return nil
	}

	if cfg.RemoteStoreURL != "" {
		client := remote.NewClient(remote.DefaultConfig(cfg.RemoteStoreURL), c.Logger)
		c.MeasurementStore = client
		c.ScoreSubmitter = client
		c.Logger.Info("using remote measurement store", "url", cfg.RemoteStoreURL)
		return nil
	}

	repo := persistence.NewSQLiteMeasurementRepository(c.DB)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	c.MeasurementStore = repo
	c.Logger.Info("using local measurement store")
	return nil
}

// initRedis connects the optional history cache. Failures degrade to an
// uncached handler, never to a startup error.
func (c *Container) initRedis(ctx context.Context) {
	cfg := c.Config
	if cfg.RedisURL == "" {
		return
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid Redis URL, history cache disabled", "error", err)
		return
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Redis not available, history cache disabled", "error", err)
		_ = client.Close()
		return
	}

	c.RedisClient = client
	c.HistoryCache = cache.NewRedisHistoryCache(client, cfg.HistoryCacheTTL, c.Logger)
	c.Logger.Info("connected to Redis")
}

// initPublisher connects RabbitMQ when configured, else installs the noop
// publisher.
func (c *Container) initPublisher() {
	cfg := c.Config
	if cfg.RabbitMQURL == "" {
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
	if err != nil {
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return
	}

	c.EventPublisher = publisher
	c.Logger.Info("connected to RabbitMQ")
}

func (c *Container) dispatchInvalidator() dispatch.HistoryInvalidator {
	if c.HistoryCache == nil {
		return nil
	}
	return c.HistoryCache
}

// Close releases all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
