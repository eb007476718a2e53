package publishing

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-publishing/content"
	"github.com/goliatone/go-publishing/internal/logging"
	"github.com/goliatone/go-publishing/internal/logging/gologger"
	"github.com/goliatone/go-publishing/pkg/activity"
	"github.com/goliatone/go-publishing/pkg/activity/usersink"
	"github.com/goliatone/go-publishing/pkg/interfaces"
	"github.com/goliatone/go-publishing/users"
)

// ContentService exports the content service contract for consumers of the
// publishing package.
type ContentService = content.Service

// UserService exports the user admin service contract.
type UserService = users.Service

// Option overrides pieces of the module wiring.
type Option func(*Module)

// WithDB injects an existing bun database instead of opening one from the
// storage configuration.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		if db != nil {
			m.db = db
			m.ownsDB = false
		}
	}
}

// WithLoggerProvider injects the logger provider used for every module logger.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.loggerProvider = provider
		}
	}
}

// WithActivityHooks appends hooks that receive every emitted audit event.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return func(m *Module) {
		m.activityHooks = append(m.activityHooks, hooks...)
	}
}

// WithActivitySink forwards audit events to an external activity store.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(m *Module) {
		if sink != nil {
			m.activityHooks = append(m.activityHooks, usersink.Hook{Sink: sink})
		}
	}
}

// WithCache enables read caching on the bun repositories.
func WithCache(service cache.CacheService, serializer cache.KeySerializer) Option {
	return func(m *Module) {
		m.cacheService = service
		m.keySerializer = serializer
	}
}

// WithClock overrides the clock used by every service.
func WithClock(clock func() time.Time) Option {
	return func(m *Module) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// Module is the top level publishing runtime facade.
type Module struct {
	cfg    Config
	db     *bun.DB
	ownsDB bool

	loggerProvider interfaces.LoggerProvider
	activityHooks  activity.Hooks
	cacheService   cache.CacheService
	keySerializer  cache.KeySerializer
	clock          func() time.Time

	emitter     *activity.Emitter
	contents    content.Service
	users       users.Service
	contentRepo content.Repository
	userRepo    users.Repository
}

// New constructs a publishing module from the configuration, opening the
// database and wiring the content and user services.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg, ownsDB: true, clock: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	if m.loggerProvider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		m.loggerProvider = provider
	}

	if m.db == nil {
		db, err := openDatabase(cfg.Storage)
		if err != nil {
			return nil, err
		}
		m.db = db
	}

	m.emitter = activity.NewEmitter(m.activityHooks, activity.Config{
		Enabled: cfg.Activity.Enabled,
		Channel: cfg.Activity.Channel,
	})

	contentRepo := content.NewBunRepositoryWithCache(m.db, m.cacheService, m.keySerializer)
	m.contentRepo = contentRepo
	m.contents = content.NewService(contentRepo,
		content.WithLogger(logging.ContentLogger(m.loggerProvider)),
		content.WithActivityEmitter(m.emitter),
		content.WithClock(m.clock),
	)

	userRepo := users.NewBunRepositoryWithCache(m.db, m.cacheService, m.keySerializer)
	m.userRepo = userRepo
	m.users = users.NewService(userRepo,
		users.WithLogger(logging.UsersLogger(m.loggerProvider)),
		users.WithActivityEmitter(m.emitter),
		users.WithClock(m.clock),
	)

	return m, nil
}

// Content returns the configured content service.
func (m *Module) Content() ContentService {
	return m.contents
}

// Users returns the configured user admin service.
func (m *Module) Users() UserService {
	return m.users
}

// DB exposes the underlying bun database for advanced integrations.
func (m *Module) DB() *bun.DB {
	return m.db
}

// ActivityEmitter exposes the audit emitter shared by the services.
func (m *Module) ActivityEmitter() *activity.Emitter {
	return m.emitter
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(m.loggerProvider, module)
}

// Migrate applies the embedded SQL migrations in lexical order. Statements are
// idempotent so calling Migrate on an already migrated database is safe.
func (m *Module) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, m.db)
}

// Close releases the database when the module opened it. Databases injected
// through WithDB stay open; their owner closes them.
func (m *Module) Close() error {
	if m == nil || m.db == nil || !m.ownsDB {
		return nil
	}
	return m.db.Close()
}

// RunMigrations executes every embedded migration file against the database.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("publishing: database not configured")
	}

	names, err := fs.Glob(migrationsFS, "data/sql/migrations/*.sql")
	if err != nil {
		return fmt.Errorf("publishing: list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		payload, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			return fmt.Errorf("publishing: read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(payload)); err != nil {
			return fmt.Errorf("publishing: apply migration %s: %w", name, err)
		}
	}
	return nil
}

func openDatabase(cfg StorageConfig) (*bun.DB, error) {
	driver := normalizeDriver(cfg.Driver)

	var (
		sqlDB   *sql.DB
		dialect schema.Dialect
		err     error
	)
	switch driver {
	case "sqlite":
		sqlDB, err = sql.Open("sqlite3", cfg.DSN)
		dialect = sqlitedialect.New()
	case "postgres":
		// Expects the host application to have registered a database/sql
		// driver named "postgres".
		sqlDB, err = sql.Open("postgres", cfg.DSN)
		dialect = pgdialect.New()
	default:
		return nil, ErrStorageDriverUnknown
	}
	if err != nil {
		return nil, fmt.Errorf("publishing: open database: %w", err)
	}

	if driver == "sqlite" {
		// Shared-cache sqlite needs a single connection to keep the in-memory
		// database alive across transactions.
		sqlDB.SetMaxOpenConns(1)
	}

	return bun.NewDB(sqlDB, dialect), nil
}
