// Package nodelink renders trees as node-link diagrams with Graphviz.
//
// # Overview
//
// Where the layout package computes its own dendrogram geometry, this
// package hands the topology to Graphviz and lets dot place the nodes.
// Named nodes appear as boxes, unnamed internal nodes as points, with
// undirected edges from each node to its children.
//
// # Usage
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Lengths: true, Precision: 2})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
