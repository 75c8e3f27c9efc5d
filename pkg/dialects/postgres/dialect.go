// Package postgres provides PostgreSQL dialect implementation.
package postgres

import (
	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultSchema is the schema searched for tables unless WithSchema is used.
const DefaultSchema = "public"

// Dialect implements the PostgreSQL dialect.
type Dialect struct {
	schema string

	// typeOverrides maps udt_name values to host type names. It is consulted
	// before the data_type table so extension types can be named.
	typeOverrides map[string]string
}

// New creates a new PostgreSQL dialect. The citext extension type is
// registered as the "citext" host type.
func New() *Dialect {
	d := &Dialect{
		schema:        DefaultSchema,
		typeOverrides: make(map[string]string),
	}
	d.RegisterTypeOverride("citext", "citext")
	return d
}

// WithSchema sets the schema searched for tables.
func (d *Dialect) WithSchema(schema string) *Dialect {
	d.schema = schema
	return d
}

// Schema returns the schema searched for tables.
func (d *Dialect) Schema() string {
	return d.schema
}

// RegisterTypeOverride names the host type of columns whose udt_name is udt.
func (d *Dialect) RegisterTypeOverride(udt, hostType string) {
	d.typeOverrides[udt] = hostType
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "postgres"
}

// DriverName returns the Go sql driver name.
func (d *Dialect) DriverName() string {
	return "pgx"
}

// PlaceholderFormat returns PostgreSQL's placeholder format ($1, $2, ...).
func (d *Dialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Dollar
}
