package sink

import (
	"bytes"
	"html/template"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/layout"
)

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title      string
	cellWidth  int
	cellHeight int
	lineWidth  int
}

// WithTitle sets the document title.
func WithTitle(s string) HTMLOption { return func(r *htmlRenderer) { r.title = s } }

// WithCellSize sets the size of one grid cell in CSS pixels.
func WithCellSize(w, h int) HTMLOption {
	return func(r *htmlRenderer) { r.cellWidth, r.cellHeight = w, h }
}

// WithLineWidth sets the border width used for branches and connectors.
func WithLineWidth(px int) HTMLOption { return func(r *htmlRenderer) { r.lineWidth = px } }

type htmlCell struct {
	Class  string
	Row    int
	Column int
	Rows   int
	Cols   int
	Text   string
}

type htmlPage struct {
	Title      string
	Rows       int
	Columns    int
	CellWidth  int
	CellHeight int
	LineWidth  int
	Cells      []htmlCell
}

var htmlTemplate = template.Must(template.New("page").Parse(`<html>
  <head>
    <title>{{.Title}}</title>
    <style>
      .phylogeny_container { overflow: auto; }
      .phylogeny {
        display: grid;
        grid-template-columns: repeat({{.Columns}}, {{.CellWidth}}px) auto;
        grid-template-rows: repeat({{.Rows}}, {{.CellHeight}}px);
      }
      .branch { border-bottom: {{.LineWidth}}px solid black; }
      .vline { border-right: {{.LineWidth}}px solid black; }
      .taxon { font-family: sans-serif; font-size: {{.CellHeight}}px; line-height: 1; white-space: nowrap; padding-left: 4px; transform: translateY(50%); }
    </style>
  </head>
  <body>
    <div class="phylogeny_container">
      <div class="phylogeny">
{{- range .Cells}}
        <div class="{{.Class}}" style="grid-row: {{.Row}} / span {{.Rows}}; grid-column: {{.Column}} / span {{.Cols}};">{{.Text}}</div>
{{- end}}
      </div>
    </div>
  </body>
</html>
`))

// RenderHTML renders a grid layout as an HTML document. Every record
// becomes a positioned CSS grid cell. A branch on row r draws the bottom
// border of row r; a connector from row a to row b draws the right border
// of rows a+1 through b, so both meet at the bottom edge of the rows they
// join. Labels are escaped.
func RenderHTML(l layout.Layout, opts ...HTMLOption) ([]byte, error) {
	if l.Mode != layout.ModeGrid {
		return nil, derrors.New(derrors.ErrCodeInvalidFormat, "html output needs a grid layout, got %s", l.Mode)
	}
	r := htmlRenderer{title: "Phylogeny", cellWidth: 24, cellHeight: 8, lineWidth: 2}
	for _, opt := range opts {
		opt(&r)
	}

	page := htmlPage{
		Title:      r.title,
		Rows:       l.Height,
		Columns:    l.Width - 1,
		CellWidth:  r.cellWidth,
		CellHeight: r.cellHeight,
		LineWidth:  r.lineWidth,
	}
	for _, b := range l.Branches {
		if b.Span <= 0 {
			continue
		}
		page.Cells = append(page.Cells, htmlCell{Class: "branch", Row: b.Row, Column: b.Column, Rows: 1, Cols: b.Span})
	}
	for _, v := range l.VLines {
		if v.Span <= 0 {
			continue
		}
		page.Cells = append(page.Cells, htmlCell{Class: "vline", Row: v.Row + 1, Column: v.Column, Rows: v.Span, Cols: 1})
	}
	for _, tx := range l.Taxa {
		page.Cells = append(page.Cells, htmlCell{Class: "taxon", Row: tx.Row, Column: tx.Column, Rows: 1, Cols: 1, Text: tx.Name})
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "render html")
	}
	return buf.Bytes(), nil
}
