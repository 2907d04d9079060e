// Package pipeline runs the parse → layout → render pipeline for dendro.
//
// The command line tool and the HTTP server both go through a [Runner],
// so caching, validation and defaults behave the same on every entry
// point.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, file, pipeline.Options{
//	    Mode:    "grid",
//	    Formats: []string{"html"},
//	})
//	page := result.Artifacts["html"]
//
// The stages can also be run one at a time with [Runner.Parse],
// [Runner.Layout] and [Runner.Render].
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dendro/pkg/cache"
	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/layout"
	"github.com/matzehuels/dendro/pkg/render"
	"github.com/matzehuels/dendro/pkg/tree"
)

// Visual styles for SVG, PDF and PNG output.
const (
	// StyleDendrogram draws the computed layout.
	StyleDendrogram = "dendrogram"
	// StyleNodelink hands the topology to Graphviz instead.
	StyleNodelink = "nodelink"
)

// ValidModes is the set of supported layout modes.
var ValidModes = []string{string(layout.ModeGrid), string(layout.ModeContinuous)}

// ValidStyles is the set of supported visual styles.
var ValidStyles = []string{StyleDendrogram, StyleNodelink}

// Defaults shared by the CLI, the config file and the HTTP API.
const (
	DefaultMode      = string(layout.ModeGrid)
	DefaultStyle     = StyleDendrogram
	DefaultPrecision = tree.DefaultPrecision
	DefaultPNGScale  = 2.0
)

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Source string `json:"source,omitempty"` // name of the input, for logs
	Index  int    `json:"index,omitempty"`  // tree to use from multi-tree input

	// Layout options
	Mode         string `json:"mode,omitempty"`
	RowsPerTip   int    `json:"rows_per_tip,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	LabelReserve int    `json:"label_reserve,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Style     string   `json:"style,omitempty"`
	Title     string   `json:"title,omitempty"`
	NoLabels  bool     `json:"no_labels,omitempty"`
	Precision *int     `json:"precision,omitempty"` // nil means DefaultPrecision

	// SVG spacing in pixels; zero keeps the renderer defaults.
	Margin       float64 `json:"margin,omitempty"`
	LabelPadding float64 `json:"label_padding,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Tree      *tree.Tree
	TreeHash  string
	Layout    layout.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	TipCount   int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a layout mode is valid.
func ValidateMode(mode string) error {
	if !slices.Contains(ValidModes, mode) {
		return derrors.New(derrors.ErrCodeInvalidInput, "invalid mode: %q (must be one of: grid, continuous)", mode)
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !slices.Contains(ValidStyles, style) {
		return derrors.New(derrors.ErrCodeInvalidInput, "invalid style: %q (must be one of: dendrogram, nodelink)", style)
	}
	return nil
}

// SetDefaults fills in zero-valued options. Layout sizes left at zero
// get their defaults inside the layout package.
func (o *Options) SetDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Precision == nil {
		p := DefaultPrecision
		o.Precision = &p
	}
	if o.Mode == string(layout.ModeContinuous) {
		frame := layout.DefaultFrame()
		if o.Width == 0 {
			o.Width = frame.Width
		}
		if o.Height == 0 {
			o.Height = frame.Height
		}
		if o.LabelReserve == 0 {
			o.LabelReserve = frame.LabelReserve
		}
	} else if o.RowsPerTip == 0 {
		o.RowsPerTip = layout.DefaultRowsPerTip
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every option.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if o.Index < 0 {
		return derrors.New(derrors.ErrCodeInvalidInput, "tree index must not be negative")
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{Mode: o.Mode}
	if o.Mode == string(layout.ModeContinuous) {
		k.Width, k.Height, k.LabelReserve = o.Width, o.Height, o.LabelReserve
	} else {
		k.RowsPerTip = o.RowsPerTip
	}
	return k
}

// Decimals returns the number of decimals written for branch lengths. Zero
// is a valid choice; a negative value omits lengths.
func (o *Options) Decimals() int {
	if o.Precision == nil {
		return DefaultPrecision
	}
	return *o.Precision
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Labels: !o.NoLabels}
	switch format {
	case render.FormatHTML:
		k.Title = o.Title
	case render.FormatSVG, render.FormatPDF, render.FormatPNG:
		k.Style = o.Style
		k.Margin, k.LabelPadding = o.Margin, o.LabelPadding
	case render.FormatDOT, render.FormatJSON:
		k.Precision = o.Decimals()
	}
	return k
}
