package source

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/matzehuels/classdiagram/pkg/meta"
)

const tsClassQuery = `
	(class_declaration name: (type_identifier) @name) @def
	(abstract_class_declaration name: (type_identifier) @name) @def
`

// TypeScript reads classes from .ts files. Members without an
// accessibility modifier are public; #names are private.
var TypeScript = &Language{
	Name:       "typescript",
	Extensions: []string{".ts", ".mts", ".cts"},
	grammar:    sitter.NewLanguage(typescript.LanguageTypescript()),
	query:      tsClassQuery,
	extract:    extractTypeScript,
}

// TSX reads classes from .tsx files.
var TSX = &Language{
	Name:       "tsx",
	Extensions: []string{".tsx"},
	grammar:    sitter.NewLanguage(typescript.LanguageTSX()),
	query:      tsClassQuery,
	extract:    extractTypeScript,
}

func extractTypeScript(d declaration, src []byte) *class {
	c := &class{base: tsBase(childOfKind(d.node, "class_heritage"), src)}

	for _, m := range namedChildren(d.node.ChildByFieldName("body")) {
		switch m.Kind() {
		case "public_field_definition":
			name := m.ChildByFieldName("name")
			c.attributes = append(c.attributes, meta.Attribute{
				Name:       strings.TrimPrefix(text(name, src), "#"),
				Type:       annotation(m.ChildByFieldName("type"), src),
				Visibility: tsVisibility(m, name, src),
			})
		case "method_definition", "method_signature", "abstract_method_signature":
			name := text(m.ChildByFieldName("name"), src)
			c.behaviors = append(c.behaviors, meta.Behavior{
				Name:       strings.TrimPrefix(name, "#"),
				ReturnType: annotation(m.ChildByFieldName("return_type"), src),
			})
			if name == "constructor" {
				c.attributes = append(c.attributes, parameterProperties(m.ChildByFieldName("parameters"), src)...)
			}
		}
	}
	return c
}

// tsBase returns the extended class, without type arguments. Computed
// bases such as mixin(B) are not class names and yield no base.
func tsBase(heritage *sitter.Node, src []byte) string {
	ext := childOfKind(heritage, "extends_clause")
	if ext == nil {
		return ""
	}
	v := ext.ChildByFieldName("value")
	if v == nil {
		for _, c := range namedChildren(ext) {
			if c.Kind() != "type_arguments" {
				v = c
				break
			}
		}
	}
	if v == nil {
		return ""
	}
	switch v.Kind() {
	case "identifier", "member_expression", "nested_type_identifier", "type_identifier":
		return text(v, src)
	}
	return ""
}

// parameterProperties returns constructor parameters declared with an
// accessibility modifier or readonly, which TypeScript turns into fields.
func parameterProperties(params *sitter.Node, src []byte) []meta.Attribute {
	var out []meta.Attribute
	for _, p := range namedChildren(params) {
		if p.Kind() != "required_parameter" && p.Kind() != "optional_parameter" {
			continue
		}
		mod := childOfKind(p, "accessibility_modifier")
		if mod == nil && !strings.HasPrefix(text(p, src), "readonly ") {
			continue
		}
		out = append(out, meta.Attribute{
			Name:       text(p.ChildByFieldName("pattern"), src),
			Type:       annotation(p.ChildByFieldName("type"), src),
			Visibility: tsVisibility(p, nil, src),
		})
	}
	return out
}

func tsVisibility(member, name *sitter.Node, src []byte) meta.Visibility {
	if name != nil && name.Kind() == "private_property_identifier" {
		return meta.VisibilityPrivate
	}
	if mod := childOfKind(member, "accessibility_modifier"); mod != nil {
		return meta.ParseVisibility(text(mod, src))
	}
	return meta.VisibilityPublic
}
