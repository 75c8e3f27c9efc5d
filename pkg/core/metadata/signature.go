// Package metadata holds the resolved return-type model for model methods and
// the registry used to turn type names back into Go types.
package metadata

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/nexus-db/transpiler/pkg/errors"
)

// Signature describes what a zero-argument model method returns.
type Signature struct {
	// Types holds the resolved element types, deduplicated in insertion order.
	Types []reflect.Type

	// Nullable is true when the method may return nothing.
	Nullable bool

	iterable    bool
	iterableSet bool
}

// NewSignature creates an empty signature with the iterable flag unset.
func NewSignature() *Signature {
	return &Signature{}
}

// SetIterable records whether the method returns a collection.
// A signature is either a collection for all of its types or for none of
// them, so once set the flag can only be set again to the same value.
func (s *Signature) SetIterable(iterable bool) error {
	if s.iterableSet && s.iterable != iterable {
		return errors.Newf(errors.ErrIterableConflict,
			"iterable has been set already to %t", s.iterable)
	}
	s.iterable = iterable
	s.iterableSet = true
	return nil
}

// Iterable returns the iterable flag and whether it has been set.
func (s *Signature) Iterable() (iterable bool, set bool) {
	return s.iterable, s.iterableSet
}

// IsIterable reports whether the flag is set to true.
func (s *Signature) IsIterable() bool {
	return s.iterableSet && s.iterable
}

// AddType appends t unless it is already present.
func (s *Signature) AddType(t reflect.Type) {
	for _, existing := range s.Types {
		if existing == t {
			return
		}
	}
	s.Types = append(s.Types, t)
}

// Resolved reports whether at least one type was found.
func (s *Signature) Resolved() bool {
	return s != nil && len(s.Types) > 0
}

// TypeNames returns the names of the resolved types.
func (s *Signature) TypeNames() []string {
	names := make([]string, len(s.Types))
	for i, t := range s.Types {
		names[i] = t.Name()
	}
	return names
}

// String renders the signature in GraphQL notation, e.g. "[Post!]!" or "User".
func (s *Signature) String() string {
	if !s.Resolved() {
		return "<unresolved>"
	}
	name := strings.Join(s.TypeNames(), " | ")
	if s.IsIterable() {
		name = fmt.Sprintf("[%s!]", name)
	}
	if !s.Nullable {
		name += "!"
	}
	return name
}
