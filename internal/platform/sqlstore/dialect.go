package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect captures what differs between the supported SQL engines.
type Dialect struct {
	Name        string
	placeholder sq.PlaceholderFormat
	migrations  string // directory of this dialect's schema scripts

	isUniqueViolation     func(error) bool
	isForeignKeyViolation func(error) bool
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		placeholder: sq.Dollar,
		migrations:  "migrations/postgres",
		isUniqueViolation: func(err error) bool {
			return pqErrorName(err) == "unique_violation"
		},
		isForeignKeyViolation: func(err error) bool {
			return pqErrorName(err) == "foreign_key_violation"
		},
	}

	SQLite = Dialect{
		Name:        "sqlite3",
		placeholder: sq.Question,
		migrations:  "migrations/sqlite",
		isUniqueViolation: func(err error) bool {
			code := sqliteExtendedCode(err)
			return code == sqlite3.ErrConstraintUnique || code == sqlite3.ErrConstraintPrimaryKey
		},
		isForeignKeyViolation: func(err error) bool {
			switch sqliteExtendedCode(err) {
			case sqlite3.ErrConstraintForeignKey:
				return true
			case sqlite3.ErrConstraintTrigger:
				// RESTRICT actions fire as triggers and surface with this code.
				return strings.Contains(err.Error(), "FOREIGN KEY")
			default:
				return false
			}
		},
	}
)

// DialectFor resolves a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.placeholder)
}

// translate maps constraint violations to domain errors. A nil replacement
// leaves that class of violation untouched.
func (d Dialect) translate(err, onUnique, onForeignKey error) error {
	switch {
	case err == nil:
		return nil
	case onUnique != nil && d.isUniqueViolation(err):
		return onUnique
	case onForeignKey != nil && d.isForeignKeyViolation(err):
		return onForeignKey
	default:
		return err
	}
}

func pqErrorName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name()
	}
	return ""
}

func sqliteExtendedCode(err error) sqlite3.ErrNoExtended {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode
	}
	return -1
}

// sqliteDSN makes sure foreign keys are enforced on every connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}
