// Package graphtype maps host column type names to GraphQL scalar types.
package graphtype

import (
	"log/slog"

	"github.com/nexus-db/transpiler/pkg/core/introspect"
	"github.com/nexus-db/transpiler/pkg/errors"
)

// GraphQL scalar names produced by the mapper.
const (
	ID         = "ID"
	Boolean    = "Boolean"
	Float      = "Float"
	DateTime   = "DateTime"
	DateTimeTz = "DateTimeTz"
	Date       = "Date"
	Int        = "Int"
	String     = "String"
	JSON       = "JSON"
)

// Table maps every supported host type to its GraphQL scalar.
var Table = map[string]string{
	"boolean":    Boolean,
	"decimal":    Float,
	"float":      Float,
	"datetime":   DateTime,
	"integer":    Int,
	"smallint":   Int,
	"guid":       String,
	"string":     String,
	"text":       String,
	"citext":     String,
	"datetimetz": DateTimeTz,
	"date":       Date,
	"json":       JSON,
}

// Field is a column name paired with its GraphQL type.
type Field struct {
	Name string
	Type string
}

// Mapper converts column types, reporting the ones it cannot map.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper creates a mapper logging unmapped types to logger.
func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

// ColumnTypeToGraphType returns the GraphQL type for a column. The primary
// key is always an ID. Unknown host types are logged and become String.
func (m *Mapper) ColumnTypeToGraphType(columnName, hostType, primaryKey string) string {
	if primaryKey != "" && columnName == primaryKey {
		return ID
	}

	if graphType, ok := Table[hostType]; ok {
		return graphType
	}

	err := UnmappedError(columnName, hostType)
	m.logger.Error(err.Message,
		slog.String("code", string(err.Code)),
		slog.String("column", columnName),
		slog.String("type", hostType))
	return String
}

// ColumnTypesToGraphTypes maps every column, keeping the column order.
func (m *Mapper) ColumnTypesToGraphTypes(columns []introspect.Column, primaryKey string) []Field {
	fields := make([]Field, 0, len(columns))
	for _, col := range columns {
		fields = append(fields, Field{
			Name: col.Name,
			Type: m.ColumnTypeToGraphType(col.Name, col.Type, primaryKey),
		})
	}
	return fields
}

// UnmappedError describes a column whose type has no GraphQL mapping.
func UnmappedError(columnName, hostType string) *errors.TranspileError {
	return errors.Newf(errors.ErrUnmappedColumnType,
		"column %s has type of %s which could not be mapped, defaulting to String (something is probably wrong)",
		columnName, hostType)
}
