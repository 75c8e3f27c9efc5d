// Package model provides the table and key conventions for registered models.
package model

import (
	"reflect"

	"github.com/go-openapi/inflect"

	"github.com/nexus-db/transpiler/pkg/core/metadata"
)

// DefaultKeyName is the primary key column assumed when a model does not
// declare one.
const DefaultKeyName = "id"

// Tabler is implemented by models that name their own table.
type Tabler interface {
	TableName() string
}

// Keyer is implemented by models whose primary key column is not "id".
type Keyer interface {
	KeyName() string
}

// TypeName returns the Go type name of a model instance.
func TypeName(m any) string {
	return metadata.Indirect(reflect.TypeOf(m)).Name()
}

// TableName returns the model's table: its own TableName if it has one,
// otherwise the snake-cased plural of the type name (BlogPost -> blog_posts).
func TableName(m any) string {
	if t, ok := m.(Tabler); ok {
		return t.TableName()
	}
	return inflect.Underscore(inflect.Pluralize(TypeName(m)))
}

// KeyName returns the model's primary key column.
func KeyName(m any) string {
	if k, ok := m.(Keyer); ok {
		return k.KeyName()
	}
	return DefaultKeyName
}

// IsConventionMethod reports whether name is one of the convention methods
// above rather than a method describing the model's data.
func IsConventionMethod(name string) bool {
	return name == "TableName" || name == "KeyName"
}
