// Package pkg holds the libraries behind the dendro command.
//
// # Overview
//
// Dendro reads phylogenetic trees in Newick format and lays them out as
// rectangular dendrograms. The packages are layered:
//
//  1. [tree] - the rooted tree model and its structural queries
//  2. [newick] - parsing Newick text into a tree
//  3. [layout] - grid and continuous dendrogram geometry
//  4. [render] - HTML, SVG, text, JSON, DOT, PDF and PNG output
//  5. [pipeline] - orchestration (parse → layout → render) with caching
//
// Supporting packages: [cache] (file, Redis and no-op backends),
// [observability] (hooks for logging and metrics), [errors] (coded errors
// shared by the CLI and the HTTP API) and [buildinfo].
//
// # Data Flow
//
//	Newick text
//	     ↓ newick.Parse
//	tree.Tree
//	     ↓ layout.Grid / layout.Continuous
//	layout.Layout (taxa, branches, vertical connectors)
//	     ↓ sink.RenderHTML / sink.RenderSVG / ...
//	artifact bytes
//
// [tree]: github.com/matzehuels/dendro/pkg/tree
// [newick]: github.com/matzehuels/dendro/pkg/newick
// [layout]: github.com/matzehuels/dendro/pkg/layout
// [render]: github.com/matzehuels/dendro/pkg/render
// [pipeline]: github.com/matzehuels/dendro/pkg/pipeline
// [cache]: github.com/matzehuels/dendro/pkg/cache
// [observability]: github.com/matzehuels/dendro/pkg/observability
// [errors]: github.com/matzehuels/dendro/pkg/errors
// [buildinfo]: github.com/matzehuels/dendro/pkg/buildinfo
package pkg
