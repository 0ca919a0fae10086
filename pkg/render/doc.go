// Package render turns knowledge graphs into visual outputs.
//
// # Interactive HTML
//
// [HTML] produces a self-contained page built on vis-network. Nodes are
// colored and shaped by kind, edges are labeled with their relationship,
// and hover titles carry URL, description, and level. [WriteHTMLFile]
// renders straight to disk.
//
//	data, err := render.HTML(g, render.Options{})
//
// # Static output
//
// [ToDOT] emits Graphviz DOT for the same view, and [RenderSVG] renders
// it to SVG in-process. [ToPDF] and [ToPNG] convert SVG further using
// the external rsvg-convert tool (from librsvg).
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//
// # Filtering
//
// [Options] restricts the view by level and relationship and marks nodes
// and edges for highlighting. Highlighted nodes stay visible regardless
// of level filters, and their neighbors are pulled in when their own
// level is shown.
package render
