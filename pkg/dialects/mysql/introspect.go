package mysql

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/nexus-db/transpiler/pkg/core/introspect"
)

// hostTypes maps MySQL base column types to host type names.
var hostTypes = map[string]string{
	"tinyint":    "smallint",
	"smallint":   "smallint",
	"mediumint":  "integer",
	"int":        "integer",
	"integer":    "integer",
	"bigint":     "bigint",
	"decimal":    "decimal",
	"numeric":    "decimal",
	"float":      "float",
	"double":     "float",
	"real":       "float",
	"bool":       "boolean",
	"boolean":    "boolean",
	"char":       "string",
	"varchar":    "string",
	"enum":       "string",
	"set":        "string",
	"tinytext":   "text",
	"text":       "text",
	"mediumtext": "text",
	"longtext":   "text",
	"date":       "date",
	"datetime":   "datetime",
	"timestamp":  "datetime",
	"time":       "time",
	"json":       "json",
	"blob":       "blob",
	"binary":     "binary",
	"varbinary":  "binary",
}

// IntrospectTables returns all user table names in the database.
func (d *Dialect) IntrospectTables(ctx context.Context, db *sqlx.DB) ([]string, error) {
	query, args, err := sq.Select("table_name AS name").
		From("information_schema.tables").
		Where("table_schema = DATABASE()").
		Where(sq.Eq{"table_type": "BASE TABLE"}).
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
		"column_name AS name",
		"column_type AS type",
		"is_nullable = 'YES' AS nullable",
		"column_key = 'PRI' AS is_primary_key",
		"COALESCE(column_default, '') AS default_value",
		"extra LIKE '%auto_increment%' AS auto_inc",
	).
		From("information_schema.columns").
		Where("table_schema = DATABASE()").
		Where(sq.Eq{"table_name": tableName}).
		OrderBy("ordinal_position").
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

// HostType normalizes a MySQL column_type such as "varchar(255)" or
// "int(10) unsigned". tinyint(1) is the conventional boolean column.
func (d *Dialect) HostType(col *introspect.ColumnInfo) string {
	if strings.HasPrefix(strings.ToLower(col.Type), "tinyint(1)") {
		return "boolean"
	}
	base := introspect.BaseType(col.Type)
	if t, ok := hostTypes[base]; ok {
		return t
	}
	return base
}
