// Package nodelink draws class diagrams as Graphviz node-link previews.
//
// The preview needs no Java or PlantUML install, which makes it suitable for
// the HTTP service and for a quick look while editing a manifest. It renders
// the same resolved [diagram.Diagram] the PlantUML encoder writes, so names,
// implicit inheritance and notes match the description.
//
//	d, err := diagram.Resolve(model)
//	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Classes are record nodes. Extension edges end in a hollow triangle,
// composition in a filled diamond and aggregation in a hollow one. The
// dashed, dotted and bold line styles carry over; other styles are
// PlantUML-specific and are dropped.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
//
// [diagram.Diagram]: github.com/matzehuels/classdiagram/pkg/diagram.Diagram
package nodelink
