package sqlstore

import (
	"database/sql"
	"errors"

	"catalog-service/internal/core"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// session implements core.Session on top of a single transaction.
type session struct {
	tx      *sqlx.Tx
	dialect Dialect
	sq      sq.StatementBuilderType
}

func (s *session) Companies() core.CompanyRepository { return companyRepo{s} }

func (s *session) Stores() core.StoreRepository { return storeRepo{s} }

func (s *session) Products() core.ProductRepository { return productRepo{s} }

// Commit makes the session's writes durable. Constraint violations raised
// by deferred checks still map onto the domain taxonomy.
func (s *session) Commit() error {
	return s.dialect.translate(s.tx.Commit(),
		core.AlreadyExistsf("Entity already exists"),
		core.DeleteConflictf("Entity is still referenced by other entities"),
	)
}

// Rollback discards the session's writes. It is a no-op after Commit.
func (s *session) Rollback() error {
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
