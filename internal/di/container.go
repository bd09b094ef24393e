package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goliatone/go-quizbox/internal/adapters/storage"
	"github.com/goliatone/go-quizbox/internal/bulk"
	"github.com/goliatone/go-quizbox/internal/catalog"
	"github.com/goliatone/go-quizbox/internal/commands"
	bulkcmd "github.com/goliatone/go-quizbox/internal/commands/bulk"
	catalogcmd "github.com/goliatone/go-quizbox/internal/commands/catalog"
	"github.com/goliatone/go-quizbox/internal/logging"
	"github.com/goliatone/go-quizbox/internal/logging/gologger"
	"github.com/goliatone/go-quizbox/internal/runtimeconfig"
	"github.com/goliatone/go-quizbox/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// ErrDatabaseUnavailable is returned by operations that need SQL storage when
// the container was built around an injected registry.
var ErrDatabaseUnavailable = errors.New("di: database not configured")

// Container wires configuration, storage, cache, engine and command handlers.
type Container struct {
	Config runtimeconfig.Config

	bunDB    *bun.DB
	ownsDB   bool
	queryLog io.Writer

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	clock    func() time.Time
	registry *catalog.Registry
	targets  bulkcmd.Targets
	engine   *bulk.Engine

	bulkHandler    *bulkcmd.BulkStatusHandler
	countsHandler  *bulkcmd.StatusCountsHandler
	migrateHandler *catalogcmd.MigrateHandler
	seedHandler    *catalogcmd.SeedHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an open database. The container will not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default go-repository-cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithTargets replaces the bun-backed registry, leaving the container
// without SQL storage.
func WithTargets(targets bulkcmd.Targets) Option {
	return func(c *Container) {
		c.targets = targets
	}
}

// WithClock injects the clock used to stamp status changes.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithQueryLog writes executed SQL to w when the container opens the database.
func WithQueryLog(w io.Writer) Option {
	return func(c *Container) {
		c.queryLog = w
	}
}

// NewContainer validates cfg and wires every dependency.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configureCommands()
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure logger: %w", err)
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "")
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		c.cacheService = nil
		c.keySerializer = nil
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("cache.configure.failed", "error", err)
			return
		}
		c.cacheService = service
	}

	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.targets != nil {
		return nil
	}

	if c.bunDB == nil {
		var opts []storage.Option
		if c.queryLog != nil {
			opts = append(opts, storage.WithQueryLog(c.queryLog))
		}
		db, err := storage.Open(ctx, c.Config.Storage, opts...)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	c.registry = catalog.NewBunRegistry(c.bunDB, c.cacheService, c.keySerializer)
	c.targets = c.registry
	logging.CatalogLogger(c.loggerProvider).Debug("catalog.registry.ready",
		"driver", c.Config.Storage.Driver,
		"cache", c.cacheService != nil,
	)
	return nil
}

func (c *Container) configureCommands() {
	var engineOpts []bulk.EngineOption
	if c.clock != nil {
		engineOpts = append(engineOpts, bulk.WithClock(c.clock))
	}
	c.engine = bulk.NewEngine(engineOpts...)

	timeout := c.Config.Bulk.CommandTimeout
	c.bulkHandler = bulkcmd.NewBulkStatusHandler(
		c.targets,
		c.engine,
		logging.BulkLogger(c.loggerProvider),
		c.Config.Bulk.MaxBatchSize,
		commands.WithTimeout[bulkcmd.BulkStatusCommand](timeout),
	)
	c.countsHandler = bulkcmd.NewStatusCountsHandler(
		c.targets,
		commands.CommandLogger(c.loggerProvider, "bulk"),
		commands.WithTimeout[bulkcmd.StatusCountsQuery](timeout),
	)

	if c.bunDB != nil {
		c.migrateHandler = catalogcmd.NewMigrateHandler(c.bunDB, logging.CatalogLogger(c.loggerProvider))
	}
	if c.registry != nil {
		c.seedHandler = catalogcmd.NewSeedHandler(
			c.registry,
			logging.CatalogLogger(c.loggerProvider),
			commands.WithTimeout[catalogcmd.SeedCommand](timeout),
		)
	}
}

// Migrate creates the catalog schema.
func (c *Container) Migrate(ctx context.Context) error {
	if c.migrateHandler == nil {
		return ErrDatabaseUnavailable
	}
	return c.migrateHandler.Execute(ctx, catalogcmd.MigrateCommand{})
}

// Seed inserts fixtures into the bun-backed stores.
func (c *Container) Seed(ctx context.Context, fixtures catalog.Fixtures) (catalog.SeedSummary, error) {
	if c.seedHandler == nil {
		return nil, ErrDatabaseUnavailable
	}
	return c.seedHandler.Run(ctx, catalogcmd.SeedCommand{Fixtures: fixtures})
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	return c.bunDB.Close()
}

// DB returns the database, or nil when the container runs on injected targets.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) Registry() *catalog.Registry {
	return c.registry
}

func (c *Container) Engine() *bulk.Engine {
	return c.engine
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) BulkStatusHandler() *bulkcmd.BulkStatusHandler {
	return c.bulkHandler
}

func (c *Container) StatusCountsHandler() *bulkcmd.StatusCountsHandler {
	return c.countsHandler
}

func (c *Container) MigrateHandler() *catalogcmd.MigrateHandler {
	return c.migrateHandler
}

func (c *Container) SeedHandler() *catalogcmd.SeedHandler {
	return c.seedHandler
}
