// Package render turns encoded class diagrams into images.
//
// The [plantuml] subpackage hands a description file to the external
// PlantUML renderer. The [nodelink] subpackage draws a quick Graphviz
// preview of a resolved diagram without Java.
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(d, nodelink.Options{}))
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [plantuml]: github.com/matzehuels/classdiagram/pkg/render/plantuml
// [nodelink]: github.com/matzehuels/classdiagram/pkg/render/nodelink
package render
