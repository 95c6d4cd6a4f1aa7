package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/classdiagram/pkg/diagram"
	"github.com/matzehuels/classdiagram/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed lists attributes and behaviors inside each class node.
	// When false, only the class name is shown.
	Detailed bool
}

// edgeAttrs maps each relationship kind to its Graphviz arrowhead.
var edgeAttrs = map[diagram.Kind]string{
	diagram.KindExtension:   "arrowhead=empty",
	diagram.KindComposition: "arrowhead=diamond",
	diagram.KindAggregation: "arrowhead=odiamond",
	diagram.KindUnspecified: "arrowhead=none",
}

// lineStyles are the PlantUML line styles Graphviz understands directly.
var lineStyles = map[string]bool{"dashed": true, "dotted": true, "bold": true}

// ToDOT converts a resolved diagram to Graphviz DOT. Edges point from
// source to target, with the arrowhead drawn at the target as PlantUML does.
// Notes become note-shaped nodes joined to their targets by dashed lines.
func ToDOT(d *diagram.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if d.Title != "" {
		fmt.Fprintf(&buf, "  label=%s;\n  labelloc=t;\n", quote(d.Title))
	}
	buf.WriteString("\n")

	for _, c := range d.Classes {
		fmt.Fprintf(&buf, "  %s [label=%s];\n", quote(c.Name), quote(classLabel(c, opts.Detailed)))
	}

	buf.WriteString("\n")
	for _, r := range d.Relations {
		attrs := []string{edgeAttrs[r.Connector.Kind]}
		if lineStyles[r.Connector.Style] {
			attrs = append(attrs, "style="+r.Connector.Style)
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(r.Source), quote(r.Target), strings.Join(attrs, ", "))
	}

	for _, n := range d.Notes {
		fmt.Fprintf(&buf, "  %s [shape=note, fillcolor=lightyellow, label=%s];\n", quote(n.ID), quote(n.Text))
		for _, t := range n.Targets {
			fmt.Fprintf(&buf, "  %s -> %s [style=dashed, arrowhead=none];\n", quote(n.ID), quote(t))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func classLabel(c diagram.Class, detailed bool) string {
	name := escapeRecord(c.Name)
	if !detailed {
		return "{" + name + "}"
	}

	var attrs, behaviors strings.Builder
	for _, a := range c.Attributes {
		line := diagram.Marker(a.Visibility)
		if a.Type != "" {
			line += a.Type + " "
		}
		attrs.WriteString(escapeRecord(line+a.Name) + `\l`)
	}
	for _, b := range c.Behaviors {
		line := "+" + b.Name + "()"
		if b.ReturnType != "" {
			line += " " + b.ReturnType
		}
		behaviors.WriteString(escapeRecord(line) + `\l`)
	}
	return "{" + name + "|" + attrs.String() + "|" + behaviors.String() + "}"
}

var recordSpecial = strings.NewReplacer(
	`{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escapeRecord(s string) string { return recordSpecial.Replace(s) }

var dotQuote = strings.NewReplacer(`"`, `\"`, "\n", `\n`)

// quote makes a DOT string literal. Backslashes are kept so record and
// label escapes such as \l reach Graphviz.
func quote(s string) string { return `"` + dotQuote.Replace(s) + `"` }

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion with [render.ToPNG].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion with [render.ToPDF].
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
