package io

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/classdiagram/pkg/diagram"
	"github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/meta"
)

// Manifest formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Manifest is a hand-written description of a class diagram.
type Manifest struct {
	Title         string             `toml:"title,omitempty" json:"title,omitempty"`
	Layout        string             `toml:"layout,omitempty" json:"layout,omitempty"`
	Qualified     bool               `toml:"qualified,omitempty" json:"qualified,omitempty"`
	Root          string             `toml:"root,omitempty" json:"root,omitempty"`
	Strict        bool               `toml:"strict,omitempty" json:"strict,omitempty"`
	Types         []TypeSpec         `toml:"types" json:"types"`
	Relationships []RelationshipSpec `toml:"relationships,omitempty" json:"relationships,omitempty"`
	Notes         []NoteSpec         `toml:"notes,omitempty" json:"notes,omitempty"`
}

// TypeSpec describes one type. Hidden types are known to the provider, so
// they can be referenced, but are not drawn as blocks.
type TypeSpec struct {
	Name       string          `toml:"name" json:"name"`
	Extends    string          `toml:"extends,omitempty" json:"extends,omitempty"`
	Hidden     bool            `toml:"hidden,omitempty" json:"hidden,omitempty"`
	Attributes []AttributeSpec `toml:"attributes,omitempty" json:"attributes,omitempty"`
	Behaviors  []BehaviorSpec  `toml:"behaviors,omitempty" json:"behaviors,omitempty"`
}

// AttributeSpec describes an attribute. Visibility is "public", "private",
// "protected" or anything else for no marker.
type AttributeSpec struct {
	Name       string `toml:"name" json:"name"`
	Type       string `toml:"type,omitempty" json:"type,omitempty"`
	Visibility string `toml:"visibility,omitempty" json:"visibility,omitempty"`
}

// BehaviorSpec describes a behavior.
type BehaviorSpec struct {
	Name    string `toml:"name" json:"name"`
	Returns string `toml:"returns,omitempty" json:"returns,omitempty"`
}

// RelationshipSpec declares a relationship. An empty Kind declares an
// Extension that never replaces an existing relationship.
type RelationshipSpec struct {
	Source string `toml:"source" json:"source"`
	Target string `toml:"target" json:"target"`
	Kind   string `toml:"kind,omitempty" json:"kind,omitempty"`
	Style  string `toml:"style,omitempty" json:"style,omitempty"`
}

// NoteSpec declares a note, attached to Targets when non-empty.
type NoteSpec struct {
	Text    string   `toml:"text" json:"text"`
	Targets []string `toml:"targets,omitempty" json:"targets,omitempty"`
}

// DetectFormat returns the manifest format for a file name, defaulting to TOML.
func DetectFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// ReadManifest decodes and validates a manifest in the given format.
func ReadManifest(r io.Reader, format string) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json")
		}
	case FormatTOML, "":
		if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format: %s", format)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ImportManifest reads a manifest file, choosing the format from its extension.
func ImportManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "open %s", path)
	}
	defer f.Close()
	return ReadManifest(f, DetectFormat(path))
}

// WriteManifest encodes m to w.
func WriteManifest(m *Manifest, w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML, "":
		if err := toml.NewEncoder(w).Encode(m); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format: %s", format)
	}
	return nil
}

// Validate checks names, references, styles and note text.
func (m *Manifest) Validate() error {
	defined := make(map[string]bool, len(m.Types))
	for _, t := range m.Types {
		if err := errors.ValidateTypeName(t.Name); err != nil {
			return err
		}
		if defined[t.Name] {
			return errors.New(errors.ErrCodeInvalidManifest, "type %s defined twice", t.Name)
		}
		defined[t.Name] = true
		if t.Extends != "" {
			if err := errors.ValidateTypeName(t.Extends); err != nil {
				return err
			}
		}
	}

	for _, r := range m.Relationships {
		for _, name := range []string{r.Source, r.Target} {
			if !defined[name] {
				return errors.New(errors.ErrCodeInvalidManifest, "relationship %s -> %s references undefined type %q", r.Source, r.Target, name)
			}
		}
		if r.Style != "" {
			if err := errors.ValidateLineStyle(r.Style); err != nil {
				return err
			}
		}
	}

	for _, n := range m.Notes {
		if err := errors.ValidateNoteText(n.Text); err != nil {
			return err
		}
		for _, t := range n.Targets {
			if !defined[t] {
				return errors.New(errors.ErrCodeInvalidManifest, "note %q references undefined type %q", n.Text, t)
			}
		}
	}
	return nil
}

// TypeNames returns the names of the visible types in manifest order.
func (m *Manifest) TypeNames() []string {
	var names []string
	for _, t := range m.Types {
		if !t.Hidden {
			names = append(names, t.Name)
		}
	}
	return names
}

// BuildOptions adjusts how a manifest becomes a model.
type BuildOptions struct {
	// Only restricts registration to the named types. Nil registers every
	// visible type.
	Only []string
}

// Build turns the manifest into a diagram model backed by a [meta.Static]
// provider.
func (m *Manifest) Build(opts BuildOptions) (*diagram.Model, error) {
	p := meta.NewStatic(m.Root)
	for _, t := range m.Types {
		if _, err := p.Define(t.descriptor()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "define %s", t.Name)
		}
	}

	modelOpts := []diagram.Option{diagram.WithTitle(m.Title)}
	if m.Layout != "" {
		modelOpts = append(modelOpts, diagram.WithLayout(m.Layout))
	}
	if m.Qualified {
		modelOpts = append(modelOpts, diagram.WithQualification(diagram.QualifiedNames))
	}
	if m.Strict {
		modelOpts = append(modelOpts, diagram.WithStrictKinds())
	}
	model := diagram.New(p, modelOpts...)

	for _, name := range m.TypeNames() {
		if opts.Only != nil && !slices.Contains(opts.Only, name) {
			continue
		}
		model.Add(meta.Handle(name))
	}

	for _, r := range m.Relationships {
		src, dst := meta.Handle(r.Source), meta.Handle(r.Target)
		var err error
		if r.Kind == "" {
			err = model.Relate(src, dst)
		} else {
			err = model.RelateNamed(src, dst, r.Kind)
		}
		if err != nil {
			return nil, errors.Wrap(relateCode(err), err, "relationship %s -> %s", r.Source, r.Target)
		}
		if r.Style == "" {
			continue
		}
		if err := model.SetLineStyle(src, dst, r.Style); err != nil {
			return nil, errors.Wrap(errors.ErrCodeModelInconsistency, err, "relationship %s -> %s", r.Source, r.Target)
		}
	}

	for _, n := range m.Notes {
		targets := make([]meta.Handle, len(n.Targets))
		for i, t := range n.Targets {
			targets[i] = meta.Handle(t)
		}
		if _, err := model.AddNote(n.Text, targets...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeModelInconsistency, err, "note %q", n.Text)
		}
	}
	return model, nil
}

// relateCode classifies a failed relationship declaration.
func relateCode(err error) errors.Code {
	switch {
	case stderrors.Is(err, diagram.ErrUnknownKind):
		return errors.ErrCodeUnknownKind
	case stderrors.Is(err, meta.ErrUnknownType):
		return errors.ErrCodeInvalidManifest
	default:
		return errors.ErrCodeProvider
	}
}

func (t TypeSpec) descriptor() meta.Type {
	out := meta.Type{Name: t.Name, Extends: t.Extends}
	for _, a := range t.Attributes {
		out.Attributes = append(out.Attributes, meta.Attribute{
			Name:       a.Name,
			Type:       a.Type,
			Visibility: meta.ParseVisibility(a.Visibility),
		})
	}
	for _, b := range t.Behaviors {
		out.Behaviors = append(out.Behaviors, meta.Behavior{Name: b.Name, ReturnType: b.Returns})
	}
	return out
}

// FromProvider builds a manifest describing the given types as p reports
// them. It is how parsed sources are saved for later editing.
func FromProvider(p meta.Provider, types []meta.Handle) (*Manifest, error) {
	m := &Manifest{}
	if r, ok := p.(meta.Rooted); ok {
		m.Root = r.RootType()
	}
	for _, h := range types {
		spec, err := describe(p, h)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeProvider, err, "describe %s", h)
		}
		m.Types = append(m.Types, spec)
	}
	return m, nil
}

func describe(p meta.Provider, h meta.Handle) (TypeSpec, error) {
	name, err := p.QualifiedName(h)
	if err != nil {
		return TypeSpec{}, err
	}
	spec := TypeSpec{Name: name}

	super, ok, err := p.Superclass(h)
	switch {
	case err != nil && !stderrors.Is(err, meta.ErrNoSuperclass):
		return TypeSpec{}, err
	case err == nil && ok:
		if spec.Extends, err = p.QualifiedName(super); err != nil {
			return TypeSpec{}, err
		}
	}

	attrs, err := p.Attributes(h)
	if err != nil {
		return TypeSpec{}, err
	}
	for _, a := range attrs {
		as := AttributeSpec{Name: a.Name, Type: a.Type}
		if a.Visibility != meta.VisibilityOther {
			as.Visibility = a.Visibility.String()
		}
		spec.Attributes = append(spec.Attributes, as)
	}

	behaviors, err := p.Behaviors(h)
	if err != nil {
		return TypeSpec{}, err
	}
	for _, b := range behaviors {
		spec.Behaviors = append(spec.Behaviors, BehaviorSpec{Name: b.Name, Returns: b.ReturnType})
	}
	return spec, nil
}
