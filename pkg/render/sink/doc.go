// Package sink provides output format renderers for tree layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output
// format. This package provides renderers for:
//
//   - HTML: a CSS grid document for grid layouts ([RenderHTML])
//   - SVG: line drawing for either layout mode ([RenderSVG])
//   - Text: box-drawing characters for grid layouts ([RenderText])
//   - JSON: layout data export for external tools ([RenderJSON])
//
// PDF and PNG are produced from the SVG output with [render.ToPDF] and
// [render.ToPNG].
//
// # Coordinates
//
// In grid mode a branch covers its columns completely and a vertical
// connector sits on the right edge of its column, so the connector of a
// node touches the first cell of each child's branch. Continuous layouts
// are drawn as-is, offset by the margin.
//
// Basic usage:
//
//	l, _ := layout.Grid(t, layout.GridOptions{RowsPerTip: 2})
//	page, err := sink.RenderHTML(l, sink.WithTitle("Mammals"))
package sink
