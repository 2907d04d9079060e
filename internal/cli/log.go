// Package cli implements the dendro command-line interface.
//
// The commands read Newick trees from files (or standard input with "-"),
// lay them out on a grid or in a pixel frame, and render them to HTML,
// SVG, text, JSON, DOT, PDF and PNG. A terminal viewer and an HTTP server
// expose the same pipeline. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - parse: Summarize a tree or re-serialize it as Newick
//   - layout: Compute grid or continuous geometry as JSON
//   - render: Write one or more output formats
//   - view: Browse the text rendering in the terminal
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage and cache access.
//
// # Configuration
//
// Defaults for layout, rendering, caching and the server are read from
// $XDG_CONFIG_HOME/dendro/config.toml, or the file given with --config.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the command logger. Timestamps look like "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a command step took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered svg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
