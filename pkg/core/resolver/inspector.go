package resolver

import (
	"fmt"
	"reflect"

	"github.com/nexus-db/transpiler/pkg/core/metadata"
	"github.com/nexus-db/transpiler/pkg/core/model"
	"github.com/nexus-db/transpiler/pkg/errors"
)

// Method identifies a method declared on a model type.
type Method struct {
	Owner reflect.Type // The model's struct type, never a pointer
	Name  string
}

// String returns "Type.Method".
func (m Method) String() string {
	if m.Owner == nil {
		return m.Name
	}
	return m.Owner.Name() + "." + m.Name
}

// MethodOf returns the named method of model's method set.
func MethodOf(model any, name string) (Method, bool) {
	owner := metadata.Indirect(reflect.TypeOf(model))
	if owner == nil {
		return Method{}, false
	}
	if _, ok := reflect.PointerTo(owner).MethodByName(name); !ok {
		return Method{}, false
	}
	return Method{Owner: owner, Name: name}, true
}

// Inspector is the reflection capability the resolver is written against.
type Inspector interface {
	// HasZeroParameters reports whether the method takes no arguments.
	HasZeroParameters(m Method) bool

	// DeclaredReturnType returns the method's first result type.
	DeclaredReturnType(m Method) (reflect.Type, bool)

	// IsPromoted reports whether the method comes from an embedded field
	// instead of being declared with the model as its receiver.
	IsPromoted(m Method) bool

	// DocumentationText returns the method's doc comment, or "".
	DocumentationText(m Method) string

	// Invoke calls the method on instance and returns its first result.
	// Calling application code can have side effects.
	Invoke(instance any, m Method) (any, error)
}

// ReflectInspector implements Inspector with package reflect and doc
// comments parsed from the model sources.
type ReflectInspector struct {
	docs *DocIndex
}

// NewReflectInspector creates an inspector. docs may be nil, in which case
// no method has documentation.
func NewReflectInspector(docs *DocIndex) *ReflectInspector {
	return &ReflectInspector{docs: docs}
}

func (i *ReflectInspector) method(m Method) (reflect.Method, bool) {
	if m.Owner == nil {
		return reflect.Method{}, false
	}
	return reflect.PointerTo(m.Owner).MethodByName(m.Name)
}

// HasZeroParameters reports whether the method takes only its receiver.
func (i *ReflectInspector) HasZeroParameters(m Method) bool {
	rm, ok := i.method(m)
	if !ok {
		return false
	}
	return rm.Type.NumIn() == 1
}

// DeclaredReturnType returns the first declared result type.
func (i *ReflectInspector) DeclaredReturnType(m Method) (reflect.Type, bool) {
	rm, ok := i.method(m)
	if !ok || rm.Type.NumOut() == 0 {
		return nil, false
	}
	return rm.Type.Out(0), true
}

// DocumentationText returns the doc comment found for the method.
func (i *ReflectInspector) DocumentationText(m Method) string {
	if i.docs == nil || m.Owner == nil {
		return ""
	}
	return i.docs.Lookup(TypeKey(m.Owner), m.Name)
}

// IsPromoted reports whether an embedded field supplies the method. A model
// method that shadows an embedded one is only recognized as the model's own
// when the model sources are indexed.
func (i *ReflectInspector) IsPromoted(m Method) bool {
	if m.Owner == nil || m.Owner.Kind() != reflect.Struct {
		return false
	}
	if i.docs != nil && i.docs.Declares(TypeKey(m.Owner), m.Name) {
		return false
	}
	for n := 0; n < m.Owner.NumField(); n++ {
		f := m.Owner.Field(n)
		if f.Anonymous && hasMethod(f.Type, m.Name) {
			return true
		}
	}
	return false
}

func hasMethod(t reflect.Type, name string) bool {
	if _, ok := t.MethodByName(name); ok {
		return true
	}
	if t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface {
		return false
	}
	_, ok := reflect.PointerTo(t).MethodByName(name)
	return ok
}

// Invoke calls the method. A panic or a non-nil trailing error result is
// returned as an INVOKE_FAILED error.
func (i *ReflectInspector) Invoke(instance any, m Method) (result any, err error) {
	fn := reflect.ValueOf(instance).MethodByName(m.Name)
	if !fn.IsValid() {
		return nil, errors.Newf(errors.ErrInvokeFailed, "%s has no method %s", reflect.TypeOf(instance), m.Name)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Newf(errors.ErrInvokeFailed, "calling %s panicked: %v", m, r)
		}
	}()

	out := fn.Call(nil)
	if len(out) == 0 {
		return nil, nil
	}
	if last := out[len(out)-1]; last.Type() == errorType && !last.IsNil() {
		return nil, errors.Newf(errors.ErrInvokeFailed, "calling %s: %v", m, last.Interface())
	}
	if len(out) == 1 && out[0].Type() == errorType {
		return nil, nil
	}
	return out[0].Interface(), nil
}

// Methods lists the exported zero-argument methods declared on model that
// return a value, skipping the table and key convention methods and methods
// promoted from embedded fields.
// The order is the lexical order of the method names.
func (i *ReflectInspector) Methods(m any) []Method {
	owner := metadata.Indirect(reflect.TypeOf(m))
	if owner == nil {
		return nil
	}
	ptr := reflect.PointerTo(owner)

	var methods []Method
	for n := 0; n < ptr.NumMethod(); n++ {
		rm := ptr.Method(n)
		if model.IsConventionMethod(rm.Name) || rm.Name == entryMethod {
			continue
		}
		if rm.Type.NumIn() != 1 || rm.Type.NumOut() == 0 {
			continue
		}
		method := Method{Owner: owner, Name: rm.Name}
		if i.IsPromoted(method) {
			continue
		}
		methods = append(methods, method)
	}
	return methods
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

var _ Inspector = (*ReflectInspector)(nil)

// describe renders a type for log output.
func describe(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprint(t)
}
