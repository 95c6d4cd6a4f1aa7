package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/classdiagram/pkg/diagram"
	"github.com/matzehuels/classdiagram/pkg/meta"
)

func zoo() *diagram.Diagram {
	return &diagram.Diagram{
		Title: "Zoo",
		Classes: []diagram.Class{
			{
				Name:       "Animal",
				Attributes: []meta.Attribute{{Name: "name", Type: "String", Visibility: meta.VisibilityPrivate}},
				Behaviors:  []meta.Behavior{{Name: "speak", ReturnType: "void"}},
			},
			{Name: "Dog"},
			{Name: "Kennel"},
		},
		Relations: []diagram.Relation{
			{Source: "Dog", Target: "Animal", Connector: diagram.Connector{Kind: diagram.KindExtension}},
			{Source: "Dog", Target: "Kennel", Connector: diagram.Connector{Kind: diagram.KindAggregation, Style: "dashed"}},
			{Source: "Kennel", Target: "Animal", Connector: diagram.Connector{Kind: diagram.KindComposition, Style: "#red"}},
		},
		Notes: []diagram.Note{{ID: "N0", Text: `say "hi"`, Targets: []string{"Dog"}}},
	}
}

func TestToDOT(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
		not  []string
	}{
		{
			name: "simple",
			opts: Options{},
			want: []string{
				"digraph G {",
				`label="Zoo";`,
				`"Animal" [label="{Animal}"];`,
				`"Dog" -> "Animal" [arrowhead=empty];`,
				`"Dog" -> "Kennel" [arrowhead=odiamond, style=dashed];`,
				`"Kennel" -> "Animal" [arrowhead=diamond];`,
				`"N0" [shape=note, fillcolor=lightyellow, label="say \"hi\""];`,
				`"N0" -> "Dog" [style=dashed, arrowhead=none];`,
			},
			not: []string{"#red", "speak"},
		},
		{
			name: "detailed",
			opts: Options{Detailed: true},
			want: []string{
				`"Animal" [label="{Animal|-String name\l|+speak() void\l}"];`,
				`"Dog" [label="{Dog||}"];`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDOT(zoo(), tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("ToDOT() missing %q in:\n%s", w, got)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(got, n) {
					t.Errorf("ToDOT() contains %q:\n%s", n, got)
				}
			}
		})
	}
}

func TestEscapeRecord(t *testing.T) {
	got := escapeRecord("List<Map{a|b}>")
	want := `List\<Map\{a\|b\}\>`
	if got != want {
		t.Errorf("escapeRecord() = %q, want %q", got, want)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(zoo(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG() output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if plain := []byte("<svg><g/></svg>"); string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed svg without viewBox")
	}
}
