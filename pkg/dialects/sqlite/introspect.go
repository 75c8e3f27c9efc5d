package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/nexus-db/transpiler/pkg/core/introspect"
)

// hostTypes maps declared SQLite column types to host type names.
// SQLite accepts any declared type, so only the common spellings are listed;
// anything else is passed through lowercased.
var hostTypes = map[string]string{
	"integer":           "integer",
	"int":               "integer",
	"mediumint":         "integer",
	"bigint":            "bigint",
	"smallint":          "smallint",
	"tinyint":           "smallint",
	"boolean":           "boolean",
	"bool":              "boolean",
	"real":              "float",
	"double":            "float",
	"double precision":  "float",
	"float":             "float",
	"numeric":           "decimal",
	"decimal":           "decimal",
	"varchar":           "string",
	"char":              "string",
	"character":         "string",
	"nvarchar":          "string",
	"nchar":             "string",
	"varying character": "string",
	"text":              "text",
	"clob":              "text",
	"":                  "text",
	"datetime":          "datetime",
	"timestamp":         "datetime",
	"date":              "date",
	"time":              "time",
	"json":              "json",
	"uuid":              "guid",
	"blob":              "blob",
}

type pragmaColumn struct {
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

// IntrospectTables returns all user table names in the database.
func (d *Dialect) IntrospectTables(ctx context.Context, db *sqlx.DB) ([]string, error) {
	query, args, err := sq.Select("name").
		From("sqlite_master").
		Where(sq.Eq{"type": "table"}).
		Where(sq.NotLike{"name": "sqlite_%"}).
		OrderBy("name").
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
	var rows []pragmaColumn
	query := `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`
	if err := db.SelectContext(ctx, &rows, query, tableName); err != nil {
		return nil, err
	}

	columns := make([]*introspect.ColumnInfo, 0, len(rows))
	for _, r := range rows {
		col := &introspect.ColumnInfo{
			Name:         r.Name,
			Type:         r.Type,
			Nullable:     r.NotNull == 0,
			IsPrimaryKey: r.PK > 0,
			Default:      r.Default.String,
		}

		// INTEGER PRIMARY KEY aliases the rowid
		if r.PK > 0 && introspect.BaseType(r.Type) == "integer" {
			col.AutoInc = true
		}

		columns = append(columns, col)
	}
	return columns, nil
}

// HostType normalizes a declared SQLite type.
func (d *Dialect) HostType(col *introspect.ColumnInfo) string {
	base := introspect.BaseType(col.Type)
	if t, ok := hostTypes[base]; ok {
		return t
	}
	return base
}
