package diagram

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/classdiagram/pkg/meta"
)

// Diagram markers.
const (
	startMarker = "@startuml"
	endMarker   = "@enduml"
)

var visibilityMarkers = map[meta.Visibility]string{
	meta.VisibilityPublic:    "+",
	meta.VisibilityPrivate:   "-",
	meta.VisibilityProtected: "#",
}

// Marker returns the attribute prefix for v, empty when v has none.
func Marker(v meta.Visibility) string { return visibilityMarkers[v] }

// Class is a resolved type block.
type Class struct {
	Name       string
	Attributes []meta.Attribute
	Behaviors  []meta.Behavior
}

// Diagram is a model resolved against its provider: every name is a display
// name and implicit superclass relationships are included. It is what the
// encoder writes and what other renderers (such as pkg/render/nodelink)
// consume.
type Diagram struct {
	Title     string
	Layout    string
	Classes   []Class
	Relations []Relation
	Notes     []Note
}

// Resolve queries the provider for every registered type and returns the
// resolved diagram. The model is not modified; implicit relationships are
// derived on a copy of its relationship graph.
//
// Relationships are keyed by display name in the result: two pairs that
// share display names under [SimpleNames] produce a single line.
//
// Provider faults are returned wrapped. A superclass lookup failing with
// [meta.ErrNoSuperclass] counts as no superclass.
func Resolve(m *Model) (*Diagram, error) {
	p := m.provider
	d := &Diagram{
		Title:   m.title,
		Layout:  m.layout,
		Classes: make([]Class, 0, len(m.types)),
	}

	qualified := make([]string, len(m.types))
	for i, t := range m.types {
		qn, err := p.QualifiedName(t)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", t, err)
		}
		attrs, err := p.Attributes(t)
		if err != nil {
			return nil, fmt.Errorf("resolve %s attributes: %w", qn, err)
		}
		behaviors, err := p.Behaviors(t)
		if err != nil {
			return nil, fmt.Errorf("resolve %s behaviors: %w", qn, err)
		}
		qualified[i] = qn
		d.Classes = append(d.Classes, Class{Name: m.Name(qn), Attributes: attrs, Behaviors: behaviors})
	}

	graph := m.relations.Clone()
	root := m.RootType()
	for i, t := range m.types {
		super, ok, err := p.Superclass(t)
		if errors.Is(err, meta.ErrNoSuperclass) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve %s superclass: %w", qualified[i], err)
		}
		if !ok {
			continue
		}
		sqn, err := p.QualifiedName(super)
		if err != nil {
			return nil, fmt.Errorf("resolve %s superclass: %w", qualified[i], err)
		}
		if sqn == "" || sqn == root {
			continue
		}
		graph.Declare(qualified[i], sqn)
	}

	for r := range graph.rename(m.Name).Entries() {
		d.Relations = append(d.Relations, r)
	}

	for _, n := range m.notes.Notes() {
		for i, t := range n.Targets {
			n.Targets[i] = m.Name(t)
		}
		d.Notes = append(d.Notes, n)
	}
	return d, nil
}

// Encode resolves m and returns its description. Encoding the same model
// twice yields byte-identical output.
func Encode(m *Model) (string, error) {
	d, err := Resolve(m)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// Write encodes m to w.
func Write(w io.Writer, m *Model) error {
	d, err := Resolve(m)
	if err != nil {
		return err
	}
	_, err = d.WriteTo(w)
	return err
}

// WriteTo implements io.WriterTo.
func (d *Diagram) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

// String renders the description in a single pass: header, type blocks,
// relationship lines, note blocks, footer.
func (d *Diagram) String() string {
	var b strings.Builder

	b.WriteString(startMarker + "\n")
	if d.Layout != "" {
		b.WriteString("!pragma layout " + d.Layout + "\n")
	}
	if d.Title != "" {
		b.WriteString("title " + d.Title + "\n")
	}

	for _, c := range d.Classes {
		writeClass(&b, c)
	}

	// Target first: the connector token encodes the arrow direction.
	for _, r := range d.Relations {
		b.WriteString(r.Target + r.Connector.Token() + r.Source + "\n")
	}

	for _, n := range d.Notes {
		b.WriteString(formatNote(n, nil))
	}

	b.WriteString(endMarker + "\n")
	return b.String()
}

func writeClass(b *strings.Builder, c Class) {
	b.WriteString("class " + c.Name + " {\n")
	for _, a := range c.Attributes {
		b.WriteString("\t" + visibilityMarkers[a.Visibility])
		if a.Type != "" {
			b.WriteString(a.Type + " ")
		}
		b.WriteString(a.Name + "\n")
	}
	for _, m := range c.Behaviors {
		b.WriteString("\t+" + m.Name + "()")
		if m.ReturnType != "" {
			b.WriteString(" " + m.ReturnType)
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
}
