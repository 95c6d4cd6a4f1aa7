package diagram

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned in strict mode for unrecognized kind names.
	ErrUnknownKind = errors.New("unknown relationship kind")

	// ErrUndeclaredRelationship is returned when an operation needs a
	// relationship that was never declared.
	ErrUndeclaredRelationship = errors.New("relationship not declared")

	// ErrNoConnector is returned when a line style is applied to a
	// relationship whose connector has no line to style.
	ErrNoConnector = errors.New("relationship has no connector line")
)

// Kind is the kind of a relationship between two types.
type Kind int

const (
	// KindUnspecified renders as an empty connector token.
	KindUnspecified Kind = iota
	KindExtension
	KindComposition
	KindAggregation
)

var kindNames = map[Kind]string{
	KindExtension:   "Extension",
	KindComposition: "Composition",
	KindAggregation: "Aggregation",
}

// arrowheads holds the glyph drawn at the target end of each kind.
var arrowheads = map[Kind]string{
	KindExtension:   "<|",
	KindComposition: "*",
	KindAggregation: "o",
}

// String returns the kind name, or "Unspecified".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unspecified"
}

// ParseKind maps a kind name to its constant. Names are matched exactly, as in
// "Extension". Unknown names yield [KindUnspecified].
func ParseKind(s string) Kind {
	k, _ := lookupKind(s)
	return k
}

// ParseKindStrict is like [ParseKind] but rejects unknown names with
// [ErrUnknownKind].
func ParseKindStrict(s string) (Kind, error) {
	k, ok := lookupKind(s)
	if !ok {
		return KindUnspecified, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

func lookupKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindUnspecified, false
}

// Connector is the structured form of a connector token: the relationship
// kind plus an optional line-style annotation. It is only turned into text
// by [Connector.Token].
type Connector struct {
	Kind  Kind
	Style string
}

// HasLine reports whether the connector draws a line that can carry a style.
func (c Connector) HasLine() bool {
	_, ok := arrowheads[c.Kind]
	return ok
}

// Token renders the connector, padded with single spaces:
//
//	Extension            " <|-- "
//	Extension + dashed   " <|-[dashed]- "
//	Unspecified          ""
func (c Connector) Token() string {
	head, ok := arrowheads[c.Kind]
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteByte(' ')
	b.WriteString(head)
	b.WriteByte('-')
	if c.Style != "" {
		b.WriteByte('[')
		b.WriteString(c.Style)
		b.WriteByte(']')
	}
	b.WriteString("- ")
	return b.String()
}

// String implements fmt.Stringer.
func (c Connector) String() string { return c.Token() }
