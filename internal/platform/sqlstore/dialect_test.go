package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"catalog-service/internal/core"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"postgres", "PostgreSQL"} {
		d, err := DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, Postgres.Name, d.Name)
	}
	for _, name := range []string{"sqlite", "sqlite3"} {
		d, err := DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, SQLite.Name, d.Name)
	}

	_, err := DialectFor("mysql")
	assert.Error(t, err)
}

func TestDialect_Translate(t *testing.T) {
	onUnique := core.AlreadyExistsf("dup")
	onFK := core.DeleteConflictf("in use")
	other := errors.New("boom")

	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    error
	}{
		{"nil stays nil", Postgres, nil, nil},
		{"pq unique", Postgres, &pq.Error{Code: "23505"}, onUnique},
		{"pq foreign key", Postgres, fmt.Errorf("exec: %w", &pq.Error{Code: "23503"}), onFK},
		{"pq other", Postgres, &pq.Error{Code: "42P01"}, nil},
		{"sqlite unique", SQLite, sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, onUnique},
		{"sqlite primary key", SQLite, sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, onUnique},
		{"sqlite trigger without foreign key", SQLite, sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger}, nil},
		{"unrelated error", SQLite, other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dialect.translate(tt.err, onUnique, onFK)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				assert.Equal(t, tt.err, got)
			default:
				assert.Equal(t, tt.want, got)
			}
		})
	}

	t.Run("nil replacement keeps the original", func(t *testing.T) {
		err := &pq.Error{Code: "23505"}
		assert.Equal(t, error(err), Postgres.translate(err, nil, onFK))
	})
}

// SQLite reports a parent delete blocked by NO ACTION as a foreign key
// violation and one blocked by RESTRICT as a trigger violation.
func TestSQLite_DeleteReferencedParent(t *testing.T) {
	onFK := core.DeleteConflictf("in use")

	tests := []struct {
		name     string
		action   string
		wantCode sqlite3.ErrNoExtended
	}{
		{"no action", "", sqlite3.ErrConstraintForeignKey},
		{"restrict", "ON DELETE RESTRICT", sqlite3.ErrConstraintTrigger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := NewTestDB(t)

			for _, stmt := range []string{
				"CREATE TABLE parents (id INTEGER PRIMARY KEY)",
				"CREATE TABLE children (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parents (id) " + tt.action + ")",
				"INSERT INTO parents (id) VALUES (1)",
				"INSERT INTO children (id, parent_id) VALUES (1, 1)",
			} {
				_, err := db.conn.ExecContext(ctx, stmt)
				require.NoError(t, err)
			}

			_, err := db.conn.ExecContext(ctx, "DELETE FROM parents WHERE id = 1")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, sqliteExtendedCode(err))
			assert.Equal(t, onFK, SQLite.translate(fmt.Errorf("delete from parents: %w", err), nil, onFK))
		})
	}
}

func TestSQLite_DeleteCompanyWithStore(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)

	sess, err := db.Begin(ctx)
	require.NoError(t, err)
	defer sess.Rollback()

	company := &core.Company{ID: uuid.New(), Code: 1, Name: "Acme", CountryCode: "USA"}
	require.NoError(t, sess.Companies().Create(ctx, company))
	require.NoError(t, sess.Stores().Create(ctx, &core.Store{
		ID: uuid.New(), Code: 10, Name: "Downtown", Address: "Main St", CompanyID: company.ID, CompanyCode: 1,
	}))

	err = sess.Companies().Delete(ctx, company)
	assert.True(t, errors.Is(err, core.ErrDeleteConflict), "got %v", err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:x.db?_foreign_keys=on", sqliteDSN("file:x.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "file:x?_fk=1", sqliteDSN("file:x?_fk=1"))
}
