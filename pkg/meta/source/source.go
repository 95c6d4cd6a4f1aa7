package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/matzehuels/classdiagram/pkg/meta"
)

// ErrUnsupportedLanguage is returned for files no grammar handles.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// class is one parsed type declaration.
type class struct {
	module     string
	name       string // qualified
	base       string // as written, resolved lazily
	attributes []meta.Attribute
	behaviors  []meta.Behavior
}

// Provider is a [meta.Provider] backed by classes parsed from source files.
// Handles are qualified names of the form "<module>.<Class>". Base classes are
// resolved when first asked for, so files may be parsed in any order.
//
// A Provider serves one language and is not safe for concurrent use.
type Provider struct {
	lang    *Language
	classes map[meta.Handle]*class
	order   []meta.Handle
}

// New creates an empty provider for lang.
func New(lang *Language) *Provider {
	return &Provider{lang: lang, classes: make(map[meta.Handle]*class)}
}

// Language returns the provider's language.
func (p *Provider) Language() *Language { return p.lang }

// RootType reports the language's universal base type.
func (p *Provider) RootType() string { return p.lang.Root }

// Handles returns every parsed class in parse order.
func (p *Provider) Handles() []meta.Handle { return slices.Clone(p.order) }

// Parse extracts the classes declared in src and returns their handles.
// module prefixes every qualified name.
func (p *Provider) Parse(module string, src []byte) ([]meta.Handle, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.lang.grammar); err != nil {
		return nil, fmt.Errorf("set %s grammar: %w", p.lang.Name, err)
	}
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree", module)
	}
	defer tree.Close()

	decls, err := p.lang.classes(tree.RootNode(), src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", module, err)
	}

	var out []meta.Handle
	for _, d := range decls {
		c := p.lang.extract(d, src)
		c.module = module
		c.name = qualify(module, d.path)
		h := meta.Handle(c.name)
		if _, dup := p.classes[h]; dup {
			continue
		}
		p.classes[h] = c
		p.order = append(p.order, h)
		out = append(out, h)
	}
	return out, nil
}

// ParseFile reads and parses one file under the given module name.
func (p *Provider) ParseFile(path, module string) ([]meta.Handle, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Parse(module, src)
}

// ScanDir parses every file below dir with one of the language's extensions.
// Module names are the slash-separated relative paths with the extension
// removed and slashes replaced by dots. Hidden directories are skipped.
func (p *Provider) ScanDir(ctx context.Context, dir string) ([]meta.Handle, error) {
	var out []meta.Handle
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !p.lang.Handles(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		handles, err := p.ParseFile(path, ModuleName(rel))
		if err != nil {
			return err
		}
		out = append(out, handles...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ModuleName converts a relative file path to a dotted module name.
func ModuleName(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	rel = strings.TrimSuffix(rel, "/__init__")
	return strings.ReplaceAll(rel, "/", ".")
}

func qualify(module string, path []string) string {
	name := strings.Join(path, ".")
	if module == "" {
		return name
	}
	return module + "." + name
}

// QualifiedName implements [meta.Provider]. Any non-empty handle resolves,
// including bases that were referenced but never parsed.
func (p *Provider) QualifiedName(h meta.Handle) (string, error) {
	if h == "" {
		return "", fmt.Errorf("qualified name: %w", meta.ErrUnknownType)
	}
	return string(h), nil
}

// Superclass implements [meta.Provider].
func (p *Provider) Superclass(h meta.Handle) (meta.Handle, bool, error) {
	c, ok := p.classes[h]
	if !ok {
		return "", false, fmt.Errorf("superclass of %s: %w", h, meta.ErrNoSuperclass)
	}
	if c.base == "" {
		return "", false, nil
	}
	return p.resolve(c.module, c.base), true, nil
}

// resolve maps a base as written to a handle: the same module first, then an
// exact match, then a unique class whose qualified name ends with it.
// Anything else stays as written.
func (p *Provider) resolve(module, base string) meta.Handle {
	if local := meta.Handle(qualify(module, []string{base})); p.classes[local] != nil {
		return local
	}
	if p.classes[meta.Handle(base)] != nil {
		return meta.Handle(base)
	}
	var match meta.Handle
	for _, h := range p.order {
		if !strings.HasSuffix(string(h), "."+base) {
			continue
		}
		if match != "" {
			return meta.Handle(base)
		}
		match = h
	}
	if match != "" {
		return match
	}
	return meta.Handle(base)
}

// Attributes implements [meta.Provider].
func (p *Provider) Attributes(h meta.Handle) ([]meta.Attribute, error) {
	c, ok := p.classes[h]
	if !ok {
		return nil, fmt.Errorf("attributes of %s: %w", h, meta.ErrUnknownType)
	}
	return slices.Clone(c.attributes), nil
}

// Behaviors implements [meta.Provider].
func (p *Provider) Behaviors(h meta.Handle) ([]meta.Behavior, error) {
	c, ok := p.classes[h]
	if !ok {
		return nil, fmt.Errorf("behaviors of %s: %w", h, meta.ErrUnknownType)
	}
	return slices.Clone(c.behaviors), nil
}

func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(src)
}

// annotation strips the leading colon of a type annotation.
func annotation(n *sitter.Node, src []byte) string {
	return strings.TrimSpace(strings.TrimPrefix(text(n, src), ":"))
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func childOfKind(n *sitter.Node, kind string) *sitter.Node {
	for _, c := range namedChildren(n) {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}
