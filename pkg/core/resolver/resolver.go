// Package resolver works out what a model's zero-argument methods return.
//
// Three sources are tried in order and the first one naming at least one
// type wins:
//
//  1. an "@return" line in the method's doc comment, e.g. "@return Post[]|null";
//  2. the method's declared Go result type;
//  3. calling the method and looking at the value (opt-in, see WithInvocation).
//
// A method none of them can describe has no relationship information; that
// is not an error.
package resolver

import (
	"context"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/nexus-db/transpiler/pkg/core/metadata"
	"github.com/nexus-db/transpiler/pkg/errors"
)

// entryMethod may never be resolved, so a model mirroring the resolver's
// API cannot send it into itself.
const entryMethod = "ResolveReturnType"

var returnTag = regexp.MustCompile(`(?m)@return\s*(.*)$`)

// Relationship is a model method together with its resolved signature.
type Relationship struct {
	Method    Method
	Signature *metadata.Signature
}

// Resolver resolves method return types against a type registry.
type Resolver struct {
	inspector Inspector
	types     *metadata.TypeRegistry
	logger    *slog.Logger
	invoke    bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for discarded strategies.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithInvocation enables calling model methods as the last strategy.
// Methods run against a freshly built model and may have side effects.
func WithInvocation(enabled bool) Option {
	return func(r *Resolver) {
		r.invoke = enabled
	}
}

// New creates a resolver.
func New(inspector Inspector, types *metadata.TypeRegistry, opts ...Option) *Resolver {
	r := &Resolver{
		inspector: inspector,
		types:     types,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveReturnType returns the signature of m, or nil when nothing is known
// about it. The only error is METHOD_MISMATCH, returned when m is not a
// zero-argument method of model's own type.
func (r *Resolver) ResolveReturnType(model any, m Method) (*metadata.Signature, error) {
	if err := r.checkMethod(model, m); err != nil {
		return nil, err
	}

	strategies := []struct {
		name string
		fn   func(any, Method) *metadata.Signature
	}{
		{"doc comment", r.fromDocComment},
		{"type hint", r.fromTypeHint},
		{"invocation", r.fromInvocation},
	}

	for _, s := range strategies {
		sig := s.fn(model, m)
		if sig.Resolved() {
			r.logger.Debug("resolved method return type",
				slog.String("method", m.String()),
				slog.String("strategy", s.name),
				slog.String("signature", sig.String()))
			return sig, nil
		}
	}
	return nil, nil
}

// Relationships resolves each method and returns the ones with a signature.
func (r *Resolver) Relationships(model any, methods []Method) ([]Relationship, error) {
	var rels []Relationship
	for _, m := range methods {
		sig, err := r.ResolveReturnType(model, m)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			rels = append(rels, Relationship{Method: m, Signature: sig})
		}
	}
	return rels, nil
}

func (r *Resolver) checkMethod(model any, m Method) error {
	owner := metadata.Indirect(reflect.TypeOf(model))
	if owner == nil || m.Owner != owner {
		return errors.Newf(errors.ErrMethodMismatch,
			"method %s does not match model %s", m, describe(owner))
	}
	if r.inspector.IsPromoted(m) {
		return errors.Newf(errors.ErrMethodMismatch,
			"method %s is promoted from an embedded field, not declared on %s", m, describe(owner))
	}
	if m.Name == entryMethod {
		return errors.Newf(errors.ErrMethodMismatch,
			"method %s cannot be resolved by itself", m)
	}
	if !r.inspector.HasZeroParameters(m) {
		return errors.Newf(errors.ErrMethodMismatch,
			"method %s must exist and take no parameters", m)
	}
	return nil
}

// fromDocComment reads "@return A|B[]|null". Every non-null token must name
// a registered type and all of them must agree on being a collection.
func (r *Resolver) fromDocComment(_ any, m Method) *metadata.Signature {
	doc := r.inspector.DocumentationText(m)
	if doc == "" {
		return nil
	}

	sig := metadata.NewSignature()
	match := returnTag.FindStringSubmatch(doc)
	if match == nil {
		return sig
	}
	annotation := strings.TrimSpace(match[0])

	for _, token := range strings.Split(match[1], "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if token == "null" {
			sig.Nullable = true
			continue
		}

		name, iterable := stripArrayMarker(token)
		if err := sig.SetIterable(iterable); err != nil {
			r.discard(m, "doc comment", slog.LevelWarn, err, annotation)
			return nil
		}

		instance, err := r.types.New(name)
		if err != nil {
			r.discard(m, "doc comment", slog.LevelWarn, err, annotation)
			return nil
		}
		sig.AddType(metadata.Indirect(reflect.TypeOf(instance)))
	}
	return sig
}

// fromTypeHint uses the declared result type. Built-in scalars are skipped:
// only registered model types describe relationships.
func (r *Resolver) fromTypeHint(_ any, m Method) *metadata.Signature {
	t, ok := r.inspector.DeclaredReturnType(m)
	if !ok {
		return nil
	}

	base := metadata.Indirect(t)
	iterable := isCollection(base)
	elem := base
	if iterable {
		elem = metadata.Indirect(base.Elem())
	}
	if isBuiltin(elem) {
		return nil
	}

	instance, err := r.types.New(elem.Name())
	if err == nil && metadata.Indirect(reflect.TypeOf(instance)) != elem {
		err = errors.Newf(errors.ErrUnknownType, "unknown type %s", describe(elem))
	}
	if err != nil {
		r.discard(m, "type hint", slog.LevelDebug, err, describe(t))
		return nil
	}

	sig := metadata.NewSignature()
	sig.Nullable = t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface
	_ = sig.SetIterable(iterable) // fresh signature, cannot conflict
	sig.AddType(elem)
	return sig
}

// fromInvocation calls the method and inspects the value it returns.
func (r *Resolver) fromInvocation(model any, m Method) *metadata.Signature {
	if !r.invoke {
		return nil
	}

	value, err := r.inspector.Invoke(model, m)
	if err != nil {
		r.discard(m, "invocation", slog.LevelWarn, err, "")
		return nil
	}

	v, ok := deref(reflect.ValueOf(value))
	if !ok {
		return nil
	}

	iterable := isCollection(v.Type())
	if iterable {
		if v.Len() == 0 {
			return nil
		}
		if v, ok = deref(v.Index(0)); !ok {
			return nil
		}
	}

	if !r.types.Has(v.Type()) {
		r.discard(m, "invocation", slog.LevelDebug,
			errors.Newf(errors.ErrUnknownType, "unknown type %s", describe(v.Type())), "")
		return nil
	}

	sig := metadata.NewSignature()
	_ = sig.SetIterable(iterable)
	sig.AddType(v.Type())
	return sig
}

func (r *Resolver) discard(m Method, strategy string, level slog.Level, err error, source string) {
	attrs := []slog.Attr{
		slog.String("method", m.String()),
		slog.String("strategy", strategy),
		slog.String("code", string(errors.CodeOf(err))),
		slog.String("error", err.Error()),
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	r.logger.LogAttrs(context.Background(), level, "skipping return type source", attrs...)
}

// stripArrayMarker removes a "[]" suffix ("Post[]") or prefix ("[]Post").
func stripArrayMarker(token string) (string, bool) {
	if name, ok := strings.CutSuffix(token, "[]"); ok {
		return strings.TrimSpace(name), true
	}
	if name, ok := strings.CutPrefix(token, "[]"); ok {
		return strings.TrimSpace(name), true
	}
	return token, false
}

func isCollection(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

// isBuiltin reports whether t is a predeclared or unnamed type, which can
// never be a registered model.
func isBuiltin(t reflect.Type) bool {
	return t.PkgPath() == "" || t.Name() == ""
}

// deref follows pointers and interfaces, reporting false for nil or zero values.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if isCollection(v.Type()) {
		return v, true
	}
	return v, !v.IsZero() || v.Kind() == reflect.Struct
}
