package meta

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateType is returned by [Static.Define] when a type name is reused.
var ErrDuplicateType = errors.New("duplicate type")

// Type is a hand-written type descriptor.
type Type struct {
	Name       string // qualified name, also used as the handle
	Extends    string // qualified name of the superclass, empty for none
	Attributes []Attribute
	Behaviors  []Behavior
}

// Static is a [Provider] backed by explicit descriptors. Handles are the
// qualified type names, so a superclass may reference a type that was never
// defined; its name still resolves.
//
// The zero value is not usable - create instances with [NewStatic].
type Static struct {
	types map[Handle]*Type
	order []Handle
	root  string
}

// NewStatic creates an empty provider. root names the universal root type;
// pass "" if the described type system has none.
func NewStatic(root string) *Static {
	return &Static{types: make(map[Handle]*Type), root: root}
}

// Define adds a descriptor and returns its handle.
func (s *Static) Define(t Type) (Handle, error) {
	if t.Name == "" {
		return "", fmt.Errorf("define: %w: empty name", ErrUnknownType)
	}
	h := Handle(t.Name)
	if _, exists := s.types[h]; exists {
		return "", fmt.Errorf("define %s: %w", t.Name, ErrDuplicateType)
	}
	t.Attributes = slices.Clone(t.Attributes)
	t.Behaviors = slices.Clone(t.Behaviors)
	s.types[h] = &t
	s.order = append(s.order, h)
	return h, nil
}

// Handles returns the defined handles in definition order.
func (s *Static) Handles() []Handle { return slices.Clone(s.order) }

// Lookup returns the descriptor for h.
func (s *Static) Lookup(h Handle) (Type, bool) {
	t, ok := s.types[h]
	if !ok {
		return Type{}, false
	}
	return *t, true
}

// RootType implements [Rooted].
func (s *Static) RootType() string { return s.root }

// QualifiedName implements [Provider].
func (s *Static) QualifiedName(h Handle) (string, error) {
	if h == "" {
		return "", ErrUnknownType
	}
	return string(h), nil
}

// Superclass implements [Provider].
func (s *Static) Superclass(h Handle) (Handle, bool, error) {
	t, ok := s.types[h]
	if !ok {
		return "", false, fmt.Errorf("%s: %w", h, ErrNoSuperclass)
	}
	if t.Extends == "" {
		return "", false, nil
	}
	return Handle(t.Extends), true, nil
}

// Attributes implements [Provider].
func (s *Static) Attributes(h Handle) ([]Attribute, error) {
	t, ok := s.types[h]
	if !ok {
		return nil, fmt.Errorf("%s: %w", h, ErrUnknownType)
	}
	return slices.Clone(t.Attributes), nil
}

// Behaviors implements [Provider].
func (s *Static) Behaviors(h Handle) ([]Behavior, error) {
	t, ok := s.types[h]
	if !ok {
		return nil, fmt.Errorf("%s: %w", h, ErrUnknownType)
	}
	return slices.Clone(t.Behaviors), nil
}

var (
	_ Provider = (*Static)(nil)
	_ Rooted   = (*Static)(nil)
)
