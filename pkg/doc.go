// Package pkg holds the classdiagram libraries.
//
// # Overview
//
// classdiagram builds UML class diagrams and writes them as PlantUML
// descriptions. Type information comes from a [meta.Provider]: a hand-written
// manifest, or classes parsed from Python and TypeScript sources.
//
// The typical data flow:
//
//	manifest (.toml/.json) or source tree
//	         ↓
//	    [io] / [meta/source]   (type descriptors)
//	         ↓
//	    [diagram]              (model, relationships, notes → PlantUML text)
//	         ↓
//	    [io] .puml file → [render/plantuml] image
//	                   → [render/nodelink] Graphviz preview
//
// [pipeline] runs these stages with [cache] in front of encoding. [store]
// and [artifact] back the HTTP service's saved and published diagrams.
//
// # Quick Start
//
//	p := meta.NewStatic("java.lang.Object")
//	p.Define(meta.Type{Name: "zoo.Animal"})
//	p.Define(meta.Type{Name: "zoo.Dog", Extends: "zoo.Animal"})
//
//	m := diagram.New(p, diagram.WithTitle("Zoo"))
//	m.Add("zoo.Animal", "zoo.Dog")
//	text, err := diagram.Encode(m)
package pkg
