package dialects

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-db/transpiler/pkg/core/introspect"
	"github.com/nexus-db/transpiler/pkg/dialects/postgres"
	"github.com/nexus-db/transpiler/pkg/errors"
)

func TestForName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"sqlite", "sqlite"},
		{"SQLite3", "sqlite"},
		{"postgresql", "postgres"},
		{"pgsql", "postgres"},
		{"mariadb", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ForName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Name())
		})
	}
}

func TestForNameUnsupported(t *testing.T) {
	_, err := ForName("postgress")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrDialectUnsupported))

	var te *errors.TranspileError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Did you mean 'postgres'?", te.Suggestion)

	_, err = ForName("oracle")
	require.ErrorAs(t, err, &te)
	assert.Equal(t, errors.Suggestions[errors.ErrDialectUnsupported], te.Suggestion)
}

func TestConnectionSQLite(t *testing.T) {
	ctx := context.Background()
	d, err := ForName("sqlite")
	require.NoError(t, err)

	conn, err := Open(ctx, d, filepath.Join(t.TempDir(), "app.db"), DefaultPoolConfig())
	require.NoError(t, err)
	defer conn.Close()

	conn.DB.MustExecContext(ctx, `CREATE TABLE blog_posts (id INTEGER PRIMARY KEY, title VARCHAR(200), body TEXT)`)

	tables, err := conn.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"blog_posts"}, tables)

	require.NoError(t, conn.RequireTable(ctx, "blog_posts"))

	err = conn.RequireTable(ctx, "blog_post")
	assert.True(t, errors.HasCode(err, errors.ErrTableNotFound))

	columns, pk, err := conn.Columns(ctx, "blog_posts")
	require.NoError(t, err)
	assert.Equal(t, "id", pk)
	assert.Equal(t, []introspect.Column{
		{Name: "id", Type: "integer"},
		{Name: "title", Type: "string"},
		{Name: "body", Type: "text"},
	}, columns)
}

func TestOpenRejectsBadMySQLURL(t *testing.T) {
	d, err := ForName("mysql")
	require.NoError(t, err)

	_, err = Open(context.Background(), d, "not a dsn", DefaultPoolConfig())
	assert.Error(t, err)
}

func TestOpenAppliesPool(t *testing.T) {
	d, err := ForName("sqlite")
	require.NoError(t, err)

	pool := DefaultPoolConfig()
	pool.MaxOpenConns = 1
	conn, err := Open(context.Background(), d, filepath.Join(t.TempDir(), "app.db"), pool)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, 1, conn.DB.Stats().MaxOpenConnections)
}

func TestInSchema(t *testing.T) {
	pg, err := ForName("postgres")
	require.NoError(t, err)

	d, err := InSchema(pg, "")
	require.NoError(t, err)
	assert.Equal(t, postgres.DefaultSchema, d.(*postgres.Dialect).Schema())

	d, err = InSchema(pg, "billing")
	require.NoError(t, err)
	assert.Equal(t, "billing", d.(*postgres.Dialect).Schema())

	lite, err := ForName("sqlite")
	require.NoError(t, err)
	d, err = InSchema(lite, "")
	require.NoError(t, err)
	assert.Same(t, lite, d)

	_, err = InSchema(lite, "billing")
	assert.True(t, errors.HasCode(err, errors.ErrConfigInvalid))
	assert.Contains(t, err.Error(), "sqlite")
}
