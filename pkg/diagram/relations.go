package diagram

import (
	"fmt"
	"iter"
)

// origin records how a relationship entered the graph.
type origin int

const (
	// originImplicit entries come from superclass derivation or from a
	// declaration without a kind. They never replace an existing entry.
	originImplicit origin = iota
	// originExplicit entries were declared with a kind and replace anything.
	originExplicit
)

type descriptor struct {
	connector Connector
	origin    origin
}

// Relation is one entry of a [RelationshipGraph].
type Relation struct {
	Source    string
	Target    string
	Connector Connector
}

// RelationshipGraph maps source type names to target type names, holding one
// connector per ordered pair. Iteration follows insertion order of sources,
// then of targets within a source.
//
// The zero value is not usable - create instances with [NewRelationshipGraph].
// RelationshipGraph is not safe for concurrent use.
type RelationshipGraph struct {
	sources []string
	targets map[string][]string
	entries map[string]map[string]*descriptor
}

// NewRelationshipGraph creates an empty graph.
func NewRelationshipGraph() *RelationshipGraph {
	return &RelationshipGraph{
		targets: make(map[string][]string),
		entries: make(map[string]map[string]*descriptor),
	}
}

// Declare adds an Extension relationship from source to target unless the
// pair already has one. Existing kinds and styles are left untouched.
func (g *RelationshipGraph) Declare(source, target string) {
	if _, ok := g.lookup(source, target); ok {
		return
	}
	g.put(source, target, &descriptor{connector: Connector{Kind: KindExtension}, origin: originImplicit})
}

// DeclareKind sets the relationship from source to target to kind, replacing
// any existing connector including its line style.
func (g *RelationshipGraph) DeclareKind(source, target string, kind Kind) {
	g.put(source, target, &descriptor{connector: Connector{Kind: kind}, origin: originExplicit})
}

// SetLineStyle attaches a line-style annotation to an existing relationship.
// It returns [ErrUndeclaredRelationship] if the pair was never declared and
// [ErrNoConnector] if its kind draws no line.
func (g *RelationshipGraph) SetLineStyle(source, target, style string) error {
	d, ok := g.lookup(source, target)
	if !ok {
		return fmt.Errorf("set line style %s -> %s: %w", source, target, ErrUndeclaredRelationship)
	}
	if !d.connector.HasLine() {
		return fmt.Errorf("set line style %s -> %s: %w", source, target, ErrNoConnector)
	}
	d.connector.Style = style
	return nil
}

// Lookup returns the connector for the pair, if declared.
func (g *RelationshipGraph) Lookup(source, target string) (Connector, bool) {
	d, ok := g.lookup(source, target)
	if !ok {
		return Connector{}, false
	}
	return d.connector, true
}

// Explicit reports whether the pair was declared with an explicit kind.
func (g *RelationshipGraph) Explicit(source, target string) bool {
	d, ok := g.lookup(source, target)
	return ok && d.origin == originExplicit
}

// Entries yields every relationship in deterministic insertion order.
func (g *RelationshipGraph) Entries() iter.Seq[Relation] {
	return func(yield func(Relation) bool) {
		for _, src := range g.sources {
			for _, dst := range g.targets[src] {
				d := g.entries[src][dst]
				if !yield(Relation{Source: src, Target: dst, Connector: d.connector}) {
					return
				}
			}
		}
	}
}

// Len returns the number of relationships.
func (g *RelationshipGraph) Len() int {
	n := 0
	for _, ts := range g.targets {
		n += len(ts)
	}
	return n
}

// Clone returns an independent copy of the graph.
func (g *RelationshipGraph) Clone() *RelationshipGraph {
	c := NewRelationshipGraph()
	for _, src := range g.sources {
		for _, dst := range g.targets[src] {
			d := *g.entries[src][dst]
			c.put(src, dst, &d)
		}
	}
	return c
}

// rename returns a copy of the graph with every type name passed through
// name. Pairs that collide after renaming merge the way declarations do: an
// implicit entry never replaces one already present, an explicit entry does.
func (g *RelationshipGraph) rename(name func(string) string) *RelationshipGraph {
	c := NewRelationshipGraph()
	for _, src := range g.sources {
		for _, dst := range g.targets[src] {
			d := *g.entries[src][dst]
			s, t := name(src), name(dst)
			if _, ok := c.lookup(s, t); ok && d.origin == originImplicit {
				continue
			}
			c.put(s, t, &d)
		}
	}
	return c
}

func (g *RelationshipGraph) lookup(source, target string) (*descriptor, bool) {
	d, ok := g.entries[source][target]
	return d, ok
}

func (g *RelationshipGraph) put(source, target string, d *descriptor) {
	inner, ok := g.entries[source]
	if !ok {
		inner = make(map[string]*descriptor)
		g.entries[source] = inner
		g.sources = append(g.sources, source)
	}
	if _, exists := inner[target]; !exists {
		g.targets[source] = append(g.targets[source], target)
	}
	inner[target] = d
}
