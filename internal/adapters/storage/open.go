package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-quizbox/internal/runtimeconfig"
)

const defaultPingTimeout = 2 * time.Second

// ErrUnsupportedDriver reports a storage driver Open cannot serve.
var ErrUnsupportedDriver = errors.New("storage: unsupported driver")

// Option tweaks Open.
type Option func(*options)

type options struct {
	queryLog    io.Writer
	pingTimeout time.Duration
}

// WithQueryLog writes every executed query to w.
func WithQueryLog(w io.Writer) Option {
	return func(o *options) {
		o.queryLog = w
	}
}

// WithPingTimeout bounds the connectivity check run by Open.
func WithPingTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.pingTimeout = timeout
		}
	}
}

// Open connects to the configured database and returns a bun handle with the
// matching dialect. The connection is pinged before returning.
func Open(ctx context.Context, cfg runtimeconfig.StorageConfig, opts ...Option) (*bun.DB, error) {
	o := options{pingTimeout: defaultPingTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	driver, dialect, err := resolveDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, o.pingTimeout)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driver, err)
	}

	db := bun.NewDB(sqldb, dialect)
	if o.queryLog != nil {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.WithWriter(o.queryLog),
		))
	}
	return db, nil
}

func resolveDriver(name string) (string, schema.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return "sqlite3", sqlitedialect.New(), nil
	case "postgres", "pgx":
		return "pgx", pgdialect.New(), nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, name)
	}
}
