// Package sqlstore is the relational persistence gateway for the catalog.
// It runs on PostgreSQL in production and on SQLite for local use and tests.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/config"
	"catalog-service/internal/core"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var _ core.Database = (*DB)(nil)

// DB hands out transactional sessions over a connection pool.
type DB struct {
	conn    *sqlx.DB
	dialect Dialect
	log     *zap.Logger
}

// Open connects to the configured database, sizes the pool and verifies the
// connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.URL
	if dialect.Name == SQLite.Name {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sqlx.Open(dialect.Name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	if dialect.Name == SQLite.Name {
		// SQLite serializes writers; a single connection also keeps
		// in-memory databases alive for the pool's lifetime.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	} else {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	return New(conn, dialect, log), nil
}

// New wraps an existing connection pool.
func New(conn *sqlx.DB, dialect Dialect, log *zap.Logger) *DB {
	return &DB{conn: conn, dialect: dialect, log: log}
}

func (db *DB) Dialect() Dialect { return db.dialect }

// Begin starts a session backed by a database transaction.
func (db *DB) Begin(ctx context.Context) (core.Session, error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &session{tx: tx, dialect: db.dialect, sq: db.dialect.builder()}, nil
}

// Migrate brings the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	return NewMigrator(db, db.log).Up(ctx)
}

func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}
