// Package source provides a [meta.Provider] that reads class declarations
// from source code using tree-sitter grammars.
//
// Python and TypeScript are supported. Each file becomes a module whose name
// is its path relative to the scanned directory, so "zoo/animals.py" declares
// classes named "zoo.animals.Dog":
//
//	p := source.New(source.Python)
//	handles, err := p.ScanDir(ctx, "./src")
//	if err != nil {
//	    return err
//	}
//	m := diagram.New(p)
//	m.Add(handles...)
//
// Attributes come from field declarations, and for Python also from
// assignments to self in __init__. Behaviors are the methods in declaration
// order with their annotated return types. Base classes written by simple
// name are matched against every parsed class once scanning is done.
//
// [meta.Provider]: github.com/matzehuels/classdiagram/pkg/meta.Provider
package source
