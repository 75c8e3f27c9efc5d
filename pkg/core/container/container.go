// Package container binds model names to factories, standing in for the
// application container that knows how to build each model.
package container

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/nexus-db/transpiler/pkg/core/metadata"
)

// Factory builds a fresh model instance.
type Factory func() any

// Container resolves fully qualified model names to instances.
type Container struct {
	bindings map[string]Factory
	order    []string
}

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings: make(map[string]Factory),
	}
}

// Bind registers a factory under an explicit name.
func (c *Container) Bind(name string, factory Factory) {
	if _, exists := c.bindings[name]; !exists {
		c.order = append(c.order, name)
	}
	c.bindings[name] = factory
}

// Register binds each model under its qualified Go name, e.g.
// "github.com/acme/app/models.User". Each Make call returns a new *T.
func (c *Container) Register(models ...any) {
	for _, m := range models {
		t := metadata.Indirect(reflect.TypeOf(m))
		c.Bind(QualifiedName(t), func() any {
			return reflect.New(t).Interface()
		})
	}
}

// Make builds the model bound to name.
func (c *Container) Make(name string) (any, error) {
	factory, ok := c.bindings[name]
	if !ok {
		return nil, fmt.Errorf("target [%s] is not bound", name)
	}
	return factory(), nil
}

// Names returns all bound names in registration order.
func (c *Container) Names() []string {
	return append([]string(nil), c.order...)
}

// ShortNames returns the last segment of every bound name.
func (c *Container) ShortNames() []string {
	names := make([]string, len(c.order))
	for i, name := range c.order {
		names[i] = ShortName(name)
	}
	return names
}

// Each calls fn with a fresh instance of every bound model.
func (c *Container) Each(fn func(name string, model any)) {
	for _, name := range c.order {
		fn(name, c.bindings[name]())
	}
}

// QualifiedName returns "<import path>.<Type>" for named types.
func QualifiedName(t reflect.Type) string {
	t = metadata.Indirect(t)
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// ShortName returns the part of a qualified name after the last "." or "/".
func ShortName(name string) string {
	if i := strings.LastIndexAny(name, "./"); i >= 0 {
		return name[i+1:]
	}
	return name
}
