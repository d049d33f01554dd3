package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

//go:embed migrations
var migrationFiles embed.FS

const migrationsTable = "schema_migrations"

type Migrator struct {
	db     *DB
	log    *zap.Logger
	source fs.FS
}

// NewMigrator returns a migrator for the scripts embedded for db's dialect.
func NewMigrator(db *DB, log *zap.Logger) *Migrator {
	source, err := fs.Sub(migrationFiles, db.dialect.migrations)
	if err != nil {
		// the embedded tree is fixed at build time
		panic(err)
	}
	return &Migrator{db: db, log: log, source: source}
}

// Up applies every script newer than the recorded schema version. Each
// script runs in its own transaction together with its version record.
func (m *Migrator) Up(ctx context.Context) error {
	list, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return err
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	if len(list) == 0 {
		return nil
	}

	if _, err := m.db.conn.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (version INTEGER PRIMARY KEY, name TEXT NOT NULL)", migrationsTable,
	)); err != nil {
		return fmt.Errorf("create %s: %w", migrationsTable, err)
	}

	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	final, err := scriptVersion(list[len(list)-1].Name())
	if err != nil {
		return err
	}
	if final > current {
		m.log.Info("Bringing up schema migrations",
			zap.String("dialect", m.db.dialect.Name),
			zap.Int("migration_count", final-current),
		)
	}

	for _, f := range list {
		n := f.Name()
		v, err := scriptVersion(n)
		if err != nil {
			return err
		}
		if v <= current {
			continue
		}

		m.log.Debug("Executing schema migration", zap.String("migration_name", n))
		script, err := fs.ReadFile(m.source, n)
		if err != nil {
			return err
		}
		if err := m.apply(ctx, v, n, string(script)); err != nil {
			return fmt.Errorf("migration %s: %w", n, err)
		}
		current = v
	}

	return nil
}

// Version reports the highest applied migration, or 0 on a fresh database.
func (m *Migrator) Version(ctx context.Context) (int, error) {
	query, args, err := m.db.dialect.builder().
		Select("COALESCE(MAX(version), 0)").
		From(migrationsTable).
		ToSql()
	if err != nil {
		return 0, err
	}

	var v int
	if err := m.db.conn.GetContext(ctx, &v, query, args...); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func (m *Migrator) apply(ctx context.Context, version int, name, script string) error {
	tx, err := m.db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}

	query, args, err := m.db.dialect.builder().
		Insert(migrationsTable).
		SetMap(map[string]interface{}{"version": version, "name": name}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit()
}

// scriptVersion extracts the version from a file named like "0002_create_products.sql".
func scriptVersion(filename string) (int, error) {
	vString := strings.Split(filename, "_")[0]
	vInt, err := strconv.Atoi(vString)
	if err != nil {
		return 0, fmt.Errorf("invalid migration name %q: %w", filename, err)
	}
	return vInt, nil
}
