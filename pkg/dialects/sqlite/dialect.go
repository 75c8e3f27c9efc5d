// Package sqlite provides SQLite dialect implementation.
package sqlite

import (
	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect implements the SQLite dialect.
type Dialect struct{}

// New creates a new SQLite dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "sqlite"
}

// DriverName returns the Go sql driver name.
func (d *Dialect) DriverName() string {
	return "sqlite3"
}

// PlaceholderFormat returns SQLite's placeholder format (?).
func (d *Dialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}
