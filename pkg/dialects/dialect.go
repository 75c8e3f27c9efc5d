// Package dialects provides database dialect interfaces and implementations.
package dialects

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/nexus-db/transpiler/pkg/core/introspect"
)

// Dialect defines the interface that all database dialects must implement.
type Dialect interface {
	// Name returns the dialect name (e.g., "postgres", "sqlite", "mysql").
	Name() string

	// DriverName returns the Go sql driver name.
	DriverName() string

	// PlaceholderFormat returns the squirrel placeholder format of the database.
	// PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	PlaceholderFormat() sq.PlaceholderFormat

	// The dialect reads tables and columns and names their host types.
	introspect.Introspector
}

// Connection represents a database connection with dialect awareness.
type Connection struct {
	DB      *sqlx.DB
	Dialect Dialect
	Logger  *slog.Logger // Catalog query timings at debug level; nil is silent
}

// DSNConverter is implemented by dialects whose driver does not accept a
// connection URL as is.
type DSNConverter interface {
	DSN(url string) (string, error)
}

// Open connects to url with the dialect's driver, applies the pool limits
// and checks the connection.
func Open(ctx context.Context, dialect Dialect, url string, pool PoolConfig) (*Connection, error) {
	if conv, ok := dialect.(DSNConverter); ok {
		dsn, err := conv.DSN(url)
		if err != nil {
			return nil, err
		}
		url = dsn
	}

	db, err := sqlx.Open(dialect.DriverName(), url)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect.Name(), err)
	}
	pool.apply(db)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", dialect.Name(), err)
	}
	return &Connection{DB: db, Dialect: dialect}, nil
}

// Tables returns the user tables of the database.
func (c *Connection) Tables(ctx context.Context) ([]string, error) {
	return c.Dialect.IntrospectTables(ctx, c.DB)
}

// RequireTable fails with TABLE_NOT_FOUND unless the table exists.
func (c *Connection) RequireTable(ctx context.Context, tableName string) error {
	return introspect.RequireTable(ctx, c.DB, c.Dialect, tableName)
}

// Columns returns the ordered columns of a table with their host types, and
// the table's primary key column.
func (c *Connection) Columns(ctx context.Context, tableName string) ([]introspect.Column, string, error) {
	start := time.Now()
	columns, primaryKey, err := introspect.ColumnTypes(ctx, c.DB, c.Dialect, tableName)
	if c.Logger != nil && err == nil {
		c.Logger.Debug("introspected table",
			slog.String("dialect", c.Dialect.Name()),
			slog.String("table", tableName),
			slog.Int("columns", len(columns)),
			slog.Duration("duration", time.Since(start)))
	}
	return columns, primaryKey, err
}

// Close closes the database connection.
func (c *Connection) Close() error {
	return c.DB.Close()
}
