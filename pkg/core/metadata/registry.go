package metadata

import (
	"reflect"
	"strings"

	"github.com/nexus-db/transpiler/pkg/errors"
)

// Factory creates a new instance of a registered type.
type Factory func() any

// TypeRegistry maps type names to factories so names found in doc comments
// can be turned into real Go types.
type TypeRegistry struct {
	factories map[string]Factory
	types     map[string]reflect.Type
	order     []string
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		factories: make(map[string]Factory),
		types:     make(map[string]reflect.Type),
	}
}

// Register binds name to a factory. Registering the same name again replaces
// the previous factory but keeps its position.
func (r *TypeRegistry) Register(name string, factory Factory) {
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
	r.types[name] = Indirect(reflect.TypeOf(factory()))
}

// RegisterValue registers the type of v under its Go type name.
func (r *TypeRegistry) RegisterValue(v any) {
	t := Indirect(reflect.TypeOf(v))
	r.Register(t.Name(), func() any {
		return reflect.New(t).Interface()
	})
}

// New instantiates the type registered under name. A qualified name such as
// "models.Post" falls back to its last segment.
func (r *TypeRegistry) New(name string) (any, error) {
	factory, ok := r.factories[name]
	if !ok {
		factory, ok = r.factories[shortName(name)]
	}
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownType, "unknown type %s", name).
			WithSuggestion(errors.SuggestSimilar(name, r.order))
	}
	return factory(), nil
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	if t, ok := r.types[name]; ok {
		return t, true
	}
	t, ok := r.types[shortName(name)]
	return t, ok
}

// Has reports whether t (after dereferencing pointers) is registered.
func (r *TypeRegistry) Has(t reflect.Type) bool {
	t = Indirect(t)
	registered, ok := r.types[t.Name()]
	return ok && registered == t
}

// Names returns registered names in registration order.
func (r *TypeRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

// Indirect strips any number of pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func shortName(name string) string {
	if i := strings.LastIndexAny(name, "./"); i >= 0 {
		return name[i+1:]
	}
	return name
}
