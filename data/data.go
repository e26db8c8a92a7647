// Package data wires the persistence layer: the relational database
// (SQLite by default, PostgreSQL in production) and the optional redis
// client used for caching and rate limiting.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/logging/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registered as "pgx"
	_ "github.com/mattn/go-sqlite3"    // SQLite driver, registered as "sqlite3"
)

// Data encapsulates all data layer dependencies.
type Data struct {
	db     *sql.DB
	rc     *redis.Client
	driver string
	logger *logger.Logger
}

// New opens the database, applies the schema and connects redis when
// configured. Redis being unreachable is not fatal; redis-backed
// features degrade to no-ops.
func New(ctx context.Context, cfg *config.Data, log *logger.Logger) (*Data, error) {
	if cfg == nil || cfg.Database == nil {
		return nil, fmt.Errorf("data: missing database configuration")
	}

	driver := cfg.Database.Driver
	sqlDriver := driver
	if driver == "postgres" {
		sqlDriver = "pgx"
	}

	db, err := sql.Open(sqlDriver, cfg.Database.Source)
	if err != nil {
		return nil, fmt.Errorf("data: failed to open database: %w", err)
	}

	if cfg.Database.MaxOpenConn > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConn)
	}
	if cfg.Database.MaxIdleConn > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConn)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("data: failed to ping database: %w", err)
	}

	d := &Data{db: db, driver: driver, logger: log}

	if err := d.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn(ctx, "redis unreachable, continuing without cache", "addr", cfg.Redis.Addr, "error", err)
		} else {
			d.rc = rc
		}
	}

	return d, nil
}

// DB returns the underlying sql.DB.
func (d *Data) DB() *sql.DB {
	return d.db
}

// Redis returns the redis client, or nil when redis is not configured.
func (d *Data) Redis() *redis.Client {
	return d.rc
}

// Rebind converts "?" placeholders to the driver's positional form.
// Queries are written with "?" throughout; PostgreSQL needs "$n".
func (d *Data) Rebind(query string) string {
	if d.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ping verifies both backing stores are reachable.
func (d *Data) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return err
	}
	if d.rc != nil {
		return d.rc.Ping(ctx).Err()
	}
	return nil
}

// Close closes all connections.
func (d *Data) Close() error {
	if d.rc != nil {
		_ = d.rc.Close()
	}
	return d.db.Close()
}
