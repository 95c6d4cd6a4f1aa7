package diagram

import (
	"fmt"
	"slices"

	"github.com/matzehuels/classdiagram/pkg/meta"
)

// DefaultLayout is the layout engine requested in the diagram header.
const DefaultLayout = "smetana"

// Qualification selects how type names are displayed.
type Qualification int

const (
	// SimpleNames drops everything up to the last dot.
	SimpleNames Qualification = iota
	// QualifiedNames keeps the fully qualified name.
	QualifiedNames
)

// Apply derives the display name of a qualified type name.
func (q Qualification) Apply(qualified string) string {
	if q == QualifiedNames {
		return qualified
	}
	return meta.SimpleName(qualified)
}

// String returns "simple" or "qualified".
func (q Qualification) String() string {
	if q == QualifiedNames {
		return "qualified"
	}
	return "simple"
}

// Option configures a [Model].
type Option func(*Model)

// WithTitle sets the diagram title.
func WithTitle(title string) Option { return func(m *Model) { m.title = title } }

// WithQualification sets the name qualification policy.
func WithQualification(q Qualification) Option { return func(m *Model) { m.qualification = q } }

// WithLayout overrides [DefaultLayout].
func WithLayout(layout string) Option { return func(m *Model) { m.layout = layout } }

// WithRootType names the universal root type explicitly, overriding
// whatever the provider reports through [meta.Rooted].
func WithRootType(name string) Option {
	return func(m *Model) {
		m.root = name
		m.rootSet = true
	}
}

// WithStrictKinds makes [Model.RelateNamed] reject unknown kind names instead
// of degrading them to [KindUnspecified].
func WithStrictKinds() Option { return func(m *Model) { m.strict = true } }

// Model aggregates everything a class diagram is encoded from: the
// registered types, their relationships, notes, a title and the name
// qualification policy.
//
// Relationships and note targets are stored under qualified names and only
// turned into display names by the encoder, so changing the qualification
// policy at any point before encoding renames every reference consistently.
// Pairs whose display names coincide are merged when the model is resolved.
//
// The zero value is not usable - create instances with [New].
// Model is not safe for concurrent use.
type Model struct {
	provider      meta.Provider
	title         string
	layout        string
	qualification Qualification
	strict        bool
	root          string
	rootSet       bool

	types     []meta.Handle
	seen      map[meta.Handle]bool
	relations *RelationshipGraph
	notes     NoteSet
}

// New creates an empty model reading type metadata from p.
func New(p meta.Provider, opts ...Option) *Model {
	m := &Model{
		provider:  p,
		layout:    DefaultLayout,
		seen:      make(map[meta.Handle]bool),
		relations: NewRelationshipGraph(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Provider returns the metadata provider.
func (m *Model) Provider() meta.Provider { return m.provider }

// Add registers types. Types already registered keep their first position.
func (m *Model) Add(types ...meta.Handle) {
	for _, t := range types {
		if m.seen[t] {
			continue
		}
		m.seen[t] = true
		m.types = append(m.types, t)
	}
}

// Types returns the registered types in registration order.
func (m *Model) Types() []meta.Handle { return slices.Clone(m.types) }

// Title returns the diagram title.
func (m *Model) Title() string { return m.title }

// SetTitle sets the diagram title.
func (m *Model) SetTitle(title string) { m.title = title }

// Layout returns the layout engine named in the header.
func (m *Model) Layout() string { return m.layout }

// Qualification returns the active name qualification policy.
func (m *Model) Qualification() Qualification { return m.qualification }

// SetQualification changes the name qualification policy.
func (m *Model) SetQualification(q Qualification) { m.qualification = q }

// IncludePackages switches between qualified (true) and simple (false) names.
func (m *Model) IncludePackages(include bool) {
	if include {
		m.qualification = QualifiedNames
		return
	}
	m.qualification = SimpleNames
}

// RootType returns the qualified name of the universal root type, or "".
func (m *Model) RootType() string {
	if m.rootSet {
		return m.root
	}
	if r, ok := m.provider.(meta.Rooted); ok {
		return r.RootType()
	}
	return ""
}

// Name derives the display name of a qualified name under the active policy.
// It is the derivation the encoder uses for every reference.
func (m *Model) Name(qualified string) string { return m.qualification.Apply(qualified) }

// DisplayName returns the name t is rendered under.
func (m *Model) DisplayName(t meta.Handle) (string, error) {
	qn, err := m.provider.QualifiedName(t)
	if err != nil {
		return "", fmt.Errorf("qualified name of %s: %w", t, err)
	}
	return m.Name(qn), nil
}

// Relate declares an Extension relationship from source to target unless the
// pair already has a relationship.
func (m *Model) Relate(source, target meta.Handle) error {
	src, dst, err := m.pair(source, target)
	if err != nil {
		return err
	}
	m.relations.Declare(src, dst)
	return nil
}

// RelateKind declares a relationship of the given kind, replacing any
// existing relationship between the pair.
func (m *Model) RelateKind(source, target meta.Handle, kind Kind) error {
	src, dst, err := m.pair(source, target)
	if err != nil {
		return err
	}
	m.relations.DeclareKind(src, dst, kind)
	return nil
}

// RelateNamed is [Model.RelateKind] with the kind given by name. Unknown
// names produce an empty connector, or [ErrUnknownKind] in strict mode.
func (m *Model) RelateNamed(source, target meta.Handle, kind string) error {
	k := ParseKind(kind)
	if m.strict {
		var err error
		if k, err = ParseKindStrict(kind); err != nil {
			return err
		}
	}
	return m.RelateKind(source, target, k)
}

// SetLineStyle changes the line style of a declared relationship.
func (m *Model) SetLineStyle(source, target meta.Handle, style string) error {
	src, dst, err := m.pair(source, target)
	if err != nil {
		return err
	}
	return m.relations.SetLineStyle(src, dst, style)
}

// AddNote adds a note attached to targets, or a free note when targets is
// empty, and returns the note id.
func (m *Model) AddNote(text string, targets ...meta.Handle) (string, error) {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		qn, err := m.provider.QualifiedName(t)
		if err != nil {
			return "", fmt.Errorf("note target %s: %w", t, err)
		}
		names = append(names, qn)
	}
	return m.notes.AddAttached(text, names...), nil
}

// Relationships returns a copy of the declared relationships, keyed by
// qualified names. Implicit superclass relationships are not included.
func (m *Model) Relationships() *RelationshipGraph { return m.relations.Clone() }

// Notes returns a copy of the notes with targets as qualified names.
func (m *Model) Notes() []Note { return m.notes.Notes() }

func (m *Model) pair(source, target meta.Handle) (string, string, error) {
	src, err := m.provider.QualifiedName(source)
	if err != nil {
		return "", "", fmt.Errorf("relationship source %s: %w", source, err)
	}
	dst, err := m.provider.QualifiedName(target)
	if err != nil {
		return "", "", fmt.Errorf("relationship target %s: %w", target, err)
	}
	return src, dst, nil
}
