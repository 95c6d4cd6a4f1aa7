package meta

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownType is returned when a provider has no metadata for a handle.
	ErrUnknownType = errors.New("unknown type")

	// ErrNoSuperclass is returned by providers that cannot determine a
	// superclass. Consumers treat it as "no superclass".
	ErrNoSuperclass = errors.New("superclass not resolvable")
)

// Handle identifies a type to a [Provider]. Its contents are provider specific.
type Handle string

// Visibility is the declared access level of an attribute.
type Visibility int

const (
	// VisibilityOther covers package-private and unknown access levels.
	VisibilityOther Visibility = iota
	VisibilityPublic
	VisibilityPrivate
	VisibilityProtected
)

var visibilityNames = map[Visibility]string{
	VisibilityOther:     "other",
	VisibilityPublic:    "public",
	VisibilityPrivate:   "private",
	VisibilityProtected: "protected",
}

// String returns the lowercase name of the visibility.
func (v Visibility) String() string {
	if s, ok := visibilityNames[v]; ok {
		return s
	}
	return "other"
}

// ParseVisibility maps "public", "private" and "protected" (case-insensitive)
// to their constants. Anything else, including the empty string, is
// [VisibilityOther].
func ParseVisibility(s string) Visibility {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return VisibilityPublic
	case "private":
		return VisibilityPrivate
	case "protected":
		return VisibilityProtected
	default:
		return VisibilityOther
	}
}

// Attribute is a declared field of a type.
type Attribute struct {
	Name       string
	Type       string // declared type name as it should appear in the diagram
	Visibility Visibility
}

// Behavior is a declared method of a type.
type Behavior struct {
	Name       string
	ReturnType string
}

// Provider supplies type metadata to the diagram core.
type Provider interface {
	// QualifiedName returns the fully qualified, dot-separated name of t.
	QualifiedName(t Handle) (string, error)

	// Superclass returns the superclass of t. ok is false when t has none.
	Superclass(t Handle) (super Handle, ok bool, err error)

	// Attributes returns the declared attributes of t in declaration order.
	Attributes(t Handle) ([]Attribute, error)

	// Behaviors returns the declared behaviors of t in declaration order.
	Behaviors(t Handle) ([]Behavior, error)
}

// Rooted is implemented by providers whose type system has a universal root
// type. Inheritance from the root is never drawn.
type Rooted interface {
	// RootType returns the qualified name of the universal root type.
	RootType() string
}

// SimpleName returns the last dot-separated segment of a qualified name.
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
