package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/nexus-db/transpiler/pkg/core/introspect"
)

// hostTypes maps information_schema data_type values to host type names.
var hostTypes = map[string]string{
	"smallint":                    "smallint",
	"integer":                     "integer",
	"bigint":                      "bigint",
	"boolean":                     "boolean",
	"numeric":                     "decimal",
	"decimal":                     "decimal",
	"real":                        "float",
	"double precision":            "float",
	"character varying":           "string",
	"character":                   "string",
	"text":                        "text",
	"uuid":                        "guid",
	"date":                        "date",
	"timestamp without time zone": "datetime",
	"timestamp with time zone":    "datetimetz",
	"time without time zone":      "time",
	"time with time zone":         "timetz",
	"json":                        "json",
	"jsonb":                       "json",
	"bytea":                       "blob",
}

const primaryKeyColumns = `(SELECT ku.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage ku
		ON tc.constraint_name = ku.constraint_name
		AND tc.table_schema = ku.table_schema
	WHERE tc.table_name = ?
	AND tc.table_schema = ?
	AND tc.constraint_type = 'PRIMARY KEY') pk ON c.column_name = pk.column_name`

// IntrospectTables returns all user table names in the database.
func (d *Dialect) IntrospectTables(ctx context.Context, db *sqlx.DB) ([]string, error) {
	query, args, err := sq.Select("table_name").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": d.schema, "table_type": "BASE TABLE"}).
		OrderBy("table_name").
		PlaceholderFormat(d.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return nil, err
	}

	var tables []string
	if err := db.SelectContext(ctx, &tables, query, args...); err != nil {
		return nil, err
	}
	return tables, nil
}

// IntrospectColumns returns column metadata for a table.
func (d *Dialect) IntrospectColumns(ctx context.Context, db *sqlx.DB, tableName string) ([]*introspect.ColumnInfo, error) {
	query, args, err := sq.Select(
		"c.column_name AS name",
		"c.data_type AS type",
		"c.udt_name AS udt_name",
		"c.is_nullable = 'YES' AS nullable",
		"pk.column_name IS NOT NULL AS is_primary_key",
		"COALESCE(c.column_default, '') AS default_value",
		"COALESCE(c.column_default, '') LIKE 'nextval%' AS auto_inc",
	).
		From("information_schema.columns c").
		LeftJoin(primaryKeyColumns, tableName, d.schema).
		Where(sq.Eq{"c.table_name": tableName, "c.table_schema": d.schema}).
		OrderBy("c.ordinal_position").
		PlaceholderFormat(d.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return nil, err
	}

	var columns []*introspect.ColumnInfo
	if err := db.SelectContext(ctx, &columns, query, args...); err != nil {
		return nil, err
	}
	return columns, nil
}

// HostType normalizes a PostgreSQL column type. Extension and array types
// report "USER-DEFINED" or "ARRAY" as data_type and are named by udt_name.
func (d *Dialect) HostType(col *introspect.ColumnInfo) string {
	udt := strings.ToLower(col.UDTName)
	if t, ok := d.typeOverrides[udt]; ok {
		return t
	}

	dataType := strings.ToLower(col.Type)
	if t, ok := hostTypes[dataType]; ok {
		return t
	}
	if udt != "" {
		return udt
	}
	return dataType
}
