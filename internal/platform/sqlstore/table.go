package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-service/internal/core"

	sq "github.com/Masterminds/squirrel"
)

// table is the generic gateway for one entity type. Repositories compose
// its operations with fixed predicates instead of ad-hoc queries.
type table[T any] struct {
	name   string
	entity string

	// columns backs selectAll for tables read without joins.
	columns []string
}

func (t table[T]) selectAll(s *session) sq.SelectBuilder {
	return s.sq.Select(t.columns...).From(t.name)
}

func (t table[T]) insert(ctx context.Context, s *session, values map[string]interface{}) error {
	query, args, err := s.sq.Insert(t.name).SetMap(values).ToSql()
	if err != nil {
		return err
	}
	if _, err := s.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", t.name, err)
	}
	return nil
}

func (t table[T]) exists(ctx context.Context, s *session, pred sq.Sqlizer) (bool, error) {
	query, args, err := s.sq.Select("1").From(t.name).Where(pred).Limit(1).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var found bool
	if err := s.tx.GetContext(ctx, &found, query, args...); err != nil {
		return false, fmt.Errorf("exists in %s: %w", t.name, err)
	}
	return found, nil
}

// findOne returns nil when no row matches.
func (t table[T]) findOne(ctx context.Context, s *session, q sq.SelectBuilder) (*T, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	var row T
	err = s.tx.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", t.name, err)
	}
	return &row, nil
}

func (t table[T]) findAll(ctx context.Context, s *session, q sq.SelectBuilder) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows := []T{}
	if err := s.tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select from %s: %w", t.name, err)
	}
	return rows, nil
}

func (t table[T]) update(ctx context.Context, s *session, values map[string]interface{}, pred sq.Sqlizer) error {
	query, args, err := s.sq.Update(t.name).SetMap(values).Where(pred).ToSql()
	if err != nil {
		return err
	}

	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	return t.expectRow(result)
}

func (t table[T]) delete(ctx context.Context, s *session, pred sq.Sqlizer) error {
	query, args, err := s.sq.Delete(t.name).Where(pred).ToSql()
	if err != nil {
		return err
	}

	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", t.name, err)
	}
	return t.expectRow(result)
}

func (t table[T]) expectRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return core.NotFoundf("%s was not found", t.entity)
	}
	return nil
}
