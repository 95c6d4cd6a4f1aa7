package source

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Language pairs a tree-sitter grammar with the rules for reading classes
// out of its syntax tree.
type Language struct {
	Name       string
	Extensions []string
	Root       string // universal base type, empty when the language has none

	grammar *sitter.Language
	query   string // captures @def class nodes and their @name
	extract func(decl declaration, src []byte) *class
}

// declaration is a class node and its nesting path, outermost first.
type declaration struct {
	node *sitter.Node
	path []string
}

// Handles reports whether path has one of the language's extensions.
func (l *Language) Handles(path string) bool {
	return slices.Contains(l.Extensions, strings.ToLower(filepath.Ext(path)))
}

// languages lists every supported language.
var languages = []*Language{Python, TypeScript, TSX}

// Languages returns the supported language names.
func Languages() []string {
	names := make([]string, len(languages))
	for i, l := range languages {
		names[i] = l.Name
	}
	return names
}

// Lookup returns the language with the given name.
func Lookup(name string) (*Language, error) {
	for _, l := range languages {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, name)
}

// Detect returns the language whose extensions match path.
func Detect(path string) (*Language, error) {
	for _, l := range languages {
		if l.Handles(path) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filepath.Ext(path))
}

// classes runs the language query over root and returns class declarations
// in document order.
func (l *Language) classes(root *sitter.Node, src []byte) ([]declaration, error) {
	q, qerr := sitter.NewQuery(l.grammar, l.query)
	if qerr != nil {
		return nil, fmt.Errorf("compile %s query: %s", l.Name, qerr.Message)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	names := q.CaptureNames()
	var out []declaration
	matches := qc.Matches(q, root, src)
	for m := matches.Next(); m != nil; m = matches.Next() {
		var def *sitter.Node
		for _, c := range m.Captures {
			if names[c.Index] == "def" {
				n := c.Node
				def = &n
			}
		}
		if def == nil {
			continue
		}
		out = append(out, declaration{node: def, path: l.nesting(def, src)})
	}
	return out, nil
}

// nesting returns the names of the classes enclosing def, then def's own.
func (l *Language) nesting(def *sitter.Node, src []byte) []string {
	path := []string{text(def.ChildByFieldName("name"), src)}
	for p := def.Parent(); p != nil; p = p.Parent() {
		if l.isClass(p.Kind()) {
			path = append([]string{text(p.ChildByFieldName("name"), src)}, path...)
		}
	}
	return path
}

func (l *Language) isClass(kind string) bool {
	switch kind {
	case "class_definition", "class_declaration", "abstract_class_declaration":
		return true
	}
	return false
}
