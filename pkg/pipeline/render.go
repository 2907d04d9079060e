package pipeline

import (
	"context"
	"strings"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/layout"
	"github.com/matzehuels/dendro/pkg/render"
	"github.com/matzehuels/dendro/pkg/render/nodelink"
	"github.com/matzehuels/dendro/pkg/render/sink"
	"github.com/matzehuels/dendro/pkg/tree"
)

// Render generates output artifacts in the requested formats. The tree is
// only consulted by the DOT output, the nodelink style and the Newick
// field of the JSON export.
func Render(ctx context.Context, l layout.Layout, t *tree.Tree, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = renderSVG(ctx, l, t, opts)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case render.FormatHTML:
			var htmlOpts []sink.HTMLOption
			if opts.Title != "" {
				htmlOpts = append(htmlOpts, sink.WithTitle(opts.Title))
			}
			data, err = sink.RenderHTML(l, htmlOpts...)
		case render.FormatSVG:
			data, err = svgOnce()
		case render.FormatText:
			var lines []string
			lines, err = sink.RenderText(l, sink.DefaultTextCellWidth)
			if err == nil {
				data = []byte(strings.Join(lines, "\n") + "\n")
			}
		case render.FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONNewick(t.Newick(t.Root(), opts.Decimals())))
		case render.FormatDOT:
			data = []byte(nodelink.ToDOT(t, nodelink.Options{Lengths: true, Precision: opts.Decimals()}))
		case render.FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(data)
			}
		case render.FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(data, DefaultPNGScale)
			}
		default:
			return nil, derrors.New(derrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			code := derrors.GetCode(err)
			if code == "" {
				code = derrors.ErrCodeInternal
			}
			return nil, derrors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderSVG(ctx context.Context, l layout.Layout, t *tree.Tree, opts Options) ([]byte, error) {
	if opts.Style == StyleNodelink {
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(t, nodelink.Options{}))
	}
	var svgOpts []sink.SVGOption
	if opts.Margin > 0 {
		svgOpts = append(svgOpts, sink.WithMargin(opts.Margin))
	}
	if opts.LabelPadding > 0 {
		svgOpts = append(svgOpts, sink.WithLabelPadding(opts.LabelPadding))
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, sink.WithoutLabels())
	}
	return sink.RenderSVG(l, svgOpts...), nil
}
