package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/render"
	"github.com/matzehuels/dendro/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Lengths labels every edge with the branch length of its child.
	Lengths bool
	// Precision is the number of decimals used for edge labels.
	Precision int
}

// ToDOT converts a tree to Graphviz DOT format, drawn left to right with
// the root on the left. Named nodes become boxes; unnamed internal nodes
// become points. Edges follow child order.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	root := t.Root()
	if root == tree.None {
		buf.WriteString("}\n")
		return buf.String()
	}

	order := t.PreOrder(root)
	for _, id := range order {
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, fmtAttrs(t, id))
	}

	buf.WriteString("\n")
	for _, id := range order {
		for _, c := range t.Children(id) {
			if opts.Lengths {
				label := strconv.FormatFloat(t.BranchLength(c), 'f', opts.Precision, 64)
				fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", id, c, label)
				continue
			}
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(t *tree.Tree, id tree.NodeID) string {
	name := t.Name(id)
	if name == "" && !t.IsTip(id) {
		return `shape=point, width=0.08, label=""`
	}
	return fmt.Sprintf("label=%q", name)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "render DOT")
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

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
