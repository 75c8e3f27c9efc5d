// Package mysql provides MySQL dialect implementation.
package mysql

import (
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
)

// Dialect implements the MySQL dialect.
type Dialect struct{}

// New creates a new MySQL dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "mysql"
}

// DriverName returns the Go sql driver name.
func (d *Dialect) DriverName() string {
	return "mysql"
}

// PlaceholderFormat returns MySQL's placeholder format (?).
func (d *Dialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

// DSN converts a mysql:// URL into a driver DSN. Anything else must already
// be a valid DSN ("user:pass@tcp(host:3306)/db").
func (d *Dialect) DSN(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "mysql://") {
		if _, err := mysql.ParseDSN(rawURL); err != nil {
			return "", fmt.Errorf("parsing mysql dsn: %w", err)
		}
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing mysql url: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	return cfg.FormatDSN(), nil
}
