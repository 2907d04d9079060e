// Package render turns tree layouts into concrete output formats.
//
// # Overview
//
// Renderers only consume the geometry records of a [layout.Layout] (taxa,
// branches and vertical connectors with their extents). They never walk
// the tree themselves, with the exception of the Graphviz node-link
// renderer, which uses the read-only query API of the tree model.
//
//   - Format conversion of any SVG to PDF/PNG ([ToPDF], [ToPNG])
//   - Layout sinks: HTML, SVG, text and JSON (in the [sink] subpackage)
//   - Node-link diagrams through Graphviz (in the [nodelink] subpackage)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg):
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
