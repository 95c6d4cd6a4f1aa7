package source

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/matzehuels/classdiagram/pkg/meta"
)

// Python reads classes from .py files. Visibility follows naming
// conventions: a double leading underscore is private, a single one
// protected, and dunder names public.
var Python = &Language{
	Name:       "python",
	Extensions: []string{".py", ".pyi"},
	Root:       "object",
	grammar:    sitter.NewLanguage(python.Language()),
	query: `
		(class_definition name: (identifier) @name) @def
	`,
	extract: extractPython,
}

func extractPython(d declaration, src []byte) *class {
	c := &class{base: pythonBase(d.node.ChildByFieldName("superclasses"), src)}
	seen := make(map[string]bool)
	addAttr := func(name, typ string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		c.attributes = append(c.attributes, meta.Attribute{Name: name, Type: typ, Visibility: pythonVisibility(name)})
	}

	for _, stmt := range namedChildren(d.node.ChildByFieldName("body")) {
		switch stmt.Kind() {
		case "expression_statement":
			if a := childOfKind(stmt, "assignment"); a != nil {
				if left := a.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
					addAttr(text(left, src), text(a.ChildByFieldName("type"), src))
				}
			}
		case "function_definition", "decorated_definition":
			fn := stmt
			if stmt.Kind() == "decorated_definition" {
				fn = stmt.ChildByFieldName("definition")
			}
			if fn == nil || fn.Kind() != "function_definition" {
				continue
			}
			name := text(fn.ChildByFieldName("name"), src)
			c.behaviors = append(c.behaviors, meta.Behavior{
				Name:       name,
				ReturnType: text(fn.ChildByFieldName("return_type"), src),
			})
			if name == "__init__" {
				selfAssignments(fn.ChildByFieldName("body"), src, addAttr)
			}
		}
	}
	return c
}

// pythonBase returns the first positional base class, skipping keyword
// arguments such as metaclass=.
func pythonBase(args *sitter.Node, src []byte) string {
	for _, a := range namedChildren(args) {
		switch a.Kind() {
		case "identifier", "attribute":
			return text(a, src)
		case "subscript":
			return text(a.ChildByFieldName("value"), src)
		}
	}
	return ""
}

// selfAssignments reports every "self.x = ..." in an initializer body.
// Nested functions and classes are not entered.
func selfAssignments(n *sitter.Node, src []byte, add func(name, typ string)) {
	for _, c := range namedChildren(n) {
		switch c.Kind() {
		case "function_definition", "class_definition", "decorated_definition":
			continue
		case "assignment":
			left := c.ChildByFieldName("left")
			if left != nil && left.Kind() == "attribute" && text(left.ChildByFieldName("object"), src) == "self" {
				add(text(left.ChildByFieldName("attribute"), src), text(c.ChildByFieldName("type"), src))
			}
		}
		selfAssignments(c, src, add)
	}
}

func pythonVisibility(name string) meta.Visibility {
	switch {
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return meta.VisibilityPublic
	case strings.HasPrefix(name, "__"):
		return meta.VisibilityPrivate
	case strings.HasPrefix(name, "_"):
		return meta.VisibilityProtected
	default:
		return meta.VisibilityPublic
	}
}
