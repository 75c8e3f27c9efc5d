// Package introspect defines the column metadata read from a live database
// and the interface each dialect implements to read it.
package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nexus-db/transpiler/pkg/errors"
)

// ColumnInfo represents metadata about a database column.
type ColumnInfo struct {
	Name         string `db:"name"`
	Type         string `db:"type"`     // The SQL type as returned by the database
	UDTName      string `db:"udt_name"` // User-defined type name (PostgreSQL)
	Nullable     bool   `db:"nullable"`
	IsPrimaryKey bool   `db:"is_primary_key"`
	Default      string `db:"default_value"`
	AutoInc      bool   `db:"auto_inc"`
}

// Column pairs a column name with its host type name, e.g. ("created_at", "datetime").
type Column struct {
	Name string
	Type string
}

// Introspector reads schema metadata and names column types.
type Introspector interface {
	// IntrospectTables returns all user table names in the database.
	IntrospectTables(ctx context.Context, db *sqlx.DB) ([]string, error)

	// IntrospectColumns returns column metadata for a table in ordinal order.
	IntrospectColumns(ctx context.Context, db *sqlx.DB, tableName string) ([]*ColumnInfo, error)

	// HostType normalizes a raw column type to a host type name such as
	// "integer", "string" or "datetimetz".
	HostType(col *ColumnInfo) string
}

// ColumnTypes returns the ordered (name, host type) pairs of a table and its
// primary key column, if the database reports one.
func ColumnTypes(ctx context.Context, db *sqlx.DB, in Introspector, tableName string) ([]Column, string, error) {
	infos, err := in.IntrospectColumns(ctx, db, tableName)
	if err != nil {
		return nil, "", fmt.Errorf("introspecting columns of %s: %w", tableName, err)
	}

	columns := make([]Column, 0, len(infos))
	var primaryKey string
	for _, info := range infos {
		columns = append(columns, Column{Name: info.Name, Type: in.HostType(info)})
		if info.IsPrimaryKey && primaryKey == "" {
			primaryKey = info.Name
		}
	}
	return columns, primaryKey, nil
}

// RequireTable returns a TABLE_NOT_FOUND error unless tableName exists.
func RequireTable(ctx context.Context, db *sqlx.DB, in Introspector, tableName string) error {
	tables, err := in.IntrospectTables(ctx, db)
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}
	for _, t := range tables {
		if t == tableName {
			return nil
		}
	}
	return errors.Newf(errors.ErrTableNotFound, "table %q does not exist", tableName).
		WithSuggestion(errors.SuggestSimilar(tableName, tables))
}

// BaseType lowercases a declared SQL type and drops its length, precision
// and sign modifiers: "VARCHAR(255)" -> "varchar", "INT UNSIGNED" -> "int".
func BaseType(declared string) string {
	t := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i] + t[strings.IndexByte(t[i:], ')')+i+1:]
	}
	for _, modifier := range []string{" unsigned", " zerofill", " signed"} {
		t = strings.ReplaceAll(t, modifier, "")
	}
	return strings.TrimSpace(t)
}
