// Package diagram builds class-diagram models and encodes them as PlantUML
// class-diagram descriptions.
//
// # Overview
//
// A [Model] collects registered types, the relationships between them, notes,
// a title and a name qualification policy. Type details come from a
// [meta.Provider]; the model never introspects types itself.
//
//	p := meta.NewStatic("")
//	animal, _ := p.Define(meta.Type{Name: "zoo.Animal"})
//	dog, _ := p.Define(meta.Type{Name: "zoo.Dog", Extends: "zoo.Animal"})
//
//	m := diagram.New(p, diagram.WithTitle("Zoo"))
//	m.Add(animal, dog)
//	out, err := diagram.Encode(m)
//
// # Relationships
//
// A [RelationshipGraph] holds at most one connector per ordered (source,
// target) pair. Declarations without a kind ([RelationshipGraph.Declare],
// [Model.Relate]) only insert; declarations with a kind always overwrite.
// When encoding, an Extension relationship is derived from every registered
// type's superclass unless the superclass is the universal root type or the
// pair already has a relationship.
//
// Relationship lines list the target first, as in "Animal <|-- Dog"; the
// connector token carries the arrow direction.
//
// # Connectors
//
// A [Connector] is a kind plus an optional line style. Styles are placed
// after the dash that follows the arrowhead:
//
//	Animal <|-[dashed]- Dog
//
// Kinds outside Extension, Composition and Aggregation render as an empty
// token. Build the model with [WithStrictKinds] to reject them instead.
//
// # Names
//
// Relationships and note targets are stored under qualified names. The
// encoder derives display names through [Model.Name], so toggling the
// qualification policy before encoding renames every reference at once.
//
// # Concurrency
//
// Models are not safe for concurrent mutation. Encoding only reads the model,
// so independent models can be encoded from separate goroutines.
package diagram
