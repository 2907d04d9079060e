package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/pipeline"
	"github.com/matzehuels/dendro/pkg/render"
)

// renderCommand creates the render command for writing output formats.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		precision  int
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a Newick tree to HTML, SVG, text, DOT, PDF or PNG",
		Long: `Render a Newick tree to one or more output formats.

Formats (comma-separated with -f):
  html  CSS grid document (grid mode)
  svg   line drawing (either mode; --style nodelink uses Graphviz)
  txt   box-drawing text (grid mode)
  json  layout records
  dot   Graphviz source of the topology
  pdf   SVG converted with rsvg-convert
  png   SVG converted with rsvg-convert

With a single format, -o names the output file. With several, -o is the base
path and each format gets its own extension. Without -o the name is derived
from the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(cmd, &opts)
			if cmd.Flags().Changed("precision") {
				opts.Precision = &precision
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), html, txt, json, dot, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "visual style for svg/pdf/png: dendrogram (default), nodelink")
	cmd.Flags().StringVar(&opts.Title, "title", "", "document title (html)")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit tip labels (svg)")
	cmd.Flags().IntVar(&precision, "precision", pipeline.DefaultPrecision, "decimals for branch lengths (dot, json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")
	layoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	in, err := openInput(path)
	if err != nil {
		return inputError(path, err)
	}
	defer in.Close()

	var spinner *Spinner
	if slices.Contains(opts.Formats, render.FormatPDF) || slices.Contains(opts.Formats, render.FormatPNG) {
		spinner = newSpinnerWithContext(ctx, "Converting SVG...")
		spinner.Start()
	}

	prog := newProgress(c.Logger)
	opts.Source = path
	result, err := runner.Execute(ctx, in, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(opts.Formats, ", ")))

	paths, err := outputPaths(output, path, opts.Formats)
	if err != nil {
		return err
	}
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	if paths[opts.Formats[0]] != "" {
		out := c.report()
		out.success("Rendered %s", path)
		out.stats(result.Stats.TipCount, result.Stats.NodeCount, result.CacheInfo.RenderHit)
		for _, format := range opts.Formats {
			out.file(paths[format])
		}
	}
	return nil
}

// outputPaths assigns a file to every format. A single format read from
// standard input without -o goes to standard output, marked by "".
// An explicit output path must pass [derrors.ValidatePath].
func outputPaths(output, input string, formats []string) (map[string]string, error) {
	if output != "" {
		if err := derrors.ValidatePath(output); err != nil {
			return nil, err
		}
	}
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 {
		switch {
		case output != "":
			paths[formats[0]] = output
		case input == "-":
			paths[formats[0]] = ""
		default:
			paths[formats[0]] = basePath("", input) + "." + formats[0]
		}
	} else {
		base := basePath(output, input)
		for _, f := range formats {
			paths[f] = base + "." + f
		}
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .html, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "tree"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if render.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
