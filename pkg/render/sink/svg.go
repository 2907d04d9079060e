package sink

import (
	"bytes"
	"fmt"
	"html"
	"unicode/utf8"

	"github.com/matzehuels/dendro/pkg/layout"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin       float64
	labelPadding float64
	fontSize     float64
	strokeWidth  float64
	cellWidth    float64
	cellHeight   float64
	labels       bool
}

// WithMargin sets the blank border around the drawing.
func WithMargin(px float64) SVGOption { return func(r *svgRenderer) { r.margin = px } }

// WithLabelPadding sets the gap between a tip and its label.
func WithLabelPadding(px float64) SVGOption { return func(r *svgRenderer) { r.labelPadding = px } }

// WithFontSize sets the label font size.
func WithFontSize(px float64) SVGOption { return func(r *svgRenderer) { r.fontSize = px } }

// WithGridCell sets the pixel size of one grid cell. It only affects grid layouts.
func WithGridCell(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.cellWidth, r.cellHeight = w, h }
}

// WithoutLabels suppresses tip labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws a layout as SVG line segments with tip labels. Grid
// layouts are scaled by the cell size; continuous layouts use their pixel
// coordinates directly.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{
		margin:       10,
		labelPadding: 10,
		fontSize:     12,
		strokeWidth:  1.5,
		cellWidth:    24,
		cellHeight:   8,
		labels:       true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	p := r.projection(l)

	width := p.x(l.Width) + 2*r.margin
	height := p.y(l.Height) + 2*r.margin
	if r.labels {
		width += r.labelPadding + labelWidth(l, r.fontSize)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <g stroke="black" stroke-width="%.1f" stroke-linecap="square" transform="translate(%.1f %.1f)">`+"\n",
		r.strokeWidth, r.margin, r.margin)

	for _, b := range l.Branches {
		x1, x2 := p.branch(b)
		y := p.row(b.Row)
		fmt.Fprintf(&buf, `    <line class="branch" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y, x2, y)
	}
	for _, v := range l.VLines {
		x := p.vline(v)
		fmt.Fprintf(&buf, `    <line class="vline" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			x, p.row(v.Row), x, p.row(v.End()))
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		fmt.Fprintf(&buf, `  <g font-family="sans-serif" font-size="%.1f" dominant-baseline="middle" transform="translate(%.1f %.1f)">`+"\n",
			r.fontSize, r.margin, r.margin)
		for _, tx := range l.Taxa {
			fmt.Fprintf(&buf, `    <text class="taxon" x="%.1f" y="%.1f">%s</text>`+"\n",
				p.label(tx)+r.labelPadding, p.row(tx.Row), html.EscapeString(tx.Name))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// labelWidth estimates the width of the longest label; glyphs average a
// little over half the font size in sans-serif faces.
func labelWidth(l layout.Layout, fontSize float64) float64 {
	longest := 0
	for _, tx := range l.Taxa {
		longest = max(longest, utf8.RuneCountInString(tx.Name))
	}
	return float64(longest) * fontSize * 0.6
}

// projection maps layout coordinates to SVG user units.
type projection struct {
	grid   bool
	cw, ch float64
}

func (r *svgRenderer) projection(l layout.Layout) projection {
	if l.Mode == layout.ModeGrid {
		return projection{grid: true, cw: r.cellWidth, ch: r.cellHeight}
	}
	return projection{cw: 1, ch: 1}
}

func (p projection) x(v int) float64 { return float64(v) * p.cw }
func (p projection) y(v int) float64 { return float64(v) * p.ch }

func (p projection) row(r int) float64 {
	if p.grid {
		return (float64(r) - 0.5) * p.ch
	}
	return float64(r)
}

func (p projection) branch(b layout.Branch) (float64, float64) {
	if p.grid {
		return p.x(b.Column - 1), p.x(b.Column - 1 + b.Span)
	}
	return p.x(b.Column), p.x(b.Column + b.Span)
}

func (p projection) vline(v layout.VLine) float64 {
	return p.x(v.Column)
}

func (p projection) label(tx layout.Taxon) float64 {
	if p.grid {
		return p.x(tx.Column - 1)
	}
	return p.x(tx.Column)
}
