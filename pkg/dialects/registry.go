package dialects

import (
	"strings"

	"github.com/nexus-db/transpiler/pkg/dialects/mysql"
	"github.com/nexus-db/transpiler/pkg/dialects/postgres"
	"github.com/nexus-db/transpiler/pkg/dialects/sqlite"
	"github.com/nexus-db/transpiler/pkg/errors"
)

var aliases = map[string]string{
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"pgsql":      "postgres",
	"mysql":      "mysql",
	"mariadb":    "mysql",
}

// ForName returns the dialect registered under name.
func ForName(name string) (Dialect, error) {
	switch aliases[strings.ToLower(name)] {
	case "sqlite":
		return sqlite.New(), nil
	case "postgres":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	}
	suggestion := errors.SuggestSimilar(name, Names())
	if suggestion == "" {
		suggestion = errors.Suggestions[errors.ErrDialectUnsupported]
	}
	return nil, errors.Newf(errors.ErrDialectUnsupported, "unsupported dialect: %s", name).
		WithSuggestion(suggestion)
}

// InSchema points d at schema. Only PostgreSQL searches a schema other than
// the connection's database; an empty schema leaves d unchanged.
func InSchema(d Dialect, schema string) (Dialect, error) {
	if schema == "" {
		return d, nil
	}
	if pg, ok := d.(*postgres.Dialect); ok {
		return pg.WithSchema(schema), nil
	}
	return nil, errors.Newf(errors.ErrConfigInvalid, "database.schema is not supported by the %s dialect", d.Name()).
		WithSuggestion("Remove database.schema; tables are read from the database in the URL")
}

// Names returns the canonical dialect names.
func Names() []string {
	return []string{"sqlite", "postgres", "mysql"}
}
