package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/dendro/pkg/buildinfo"
	"github.com/matzehuels/dendro/pkg/cache"
	"github.com/matzehuels/dendro/pkg/observability"
	"github.com/matzehuels/dendro/pkg/pipeline"
	"github.com/matzehuels/dendro/pkg/render"
)

// appName is the application name used for directories and display.
const appName = "dendro"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configFile string
	out        io.Writer

	tracer *sdktrace.TracerProvider
	span   oteltrace.Span
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Dendro lays out and renders phylogenetic trees",
		Long: `Dendro reads phylogenetic trees in Newick format and draws them as
dendrograms, either on a discrete row/column grid or in a pixel frame with
branch lengths to scale.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.out = cmd.OutOrStdout()
			if err := c.loadConfig(); err != nil {
				return err
			}
			return c.startTracing(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: "+configPath()+")")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// report returns the status writer for the running command.
func (c *CLI) report() report {
	if c.out == nil {
		return report{w: os.Stdout}
	}
	return report{w: c.out}
}

// loadConfig reads the config file and registers the logging hooks.
func (c *CLI) loadConfig() error {
	path, required := c.configFile, true
	if path == "" {
		path, required = configPath(), false
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := &logHooks{logger: c.Logger}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	return nil
}

// startTracing installs the OTLP tracer provider when an endpoint is
// configured and runs the command inside a span named after it.
func (c *CLI) startTracing(cmd *cobra.Command) error {
	ctx := cmd.Context()
	tp, err := observability.NewTracerProvider(ctx, observability.TracingOptions{
		Endpoint: c.Config.OTLPEndpoint,
		Insecure: c.Config.OTLPInsecure,
	})
	if err != nil || tp == nil {
		return err
	}
	c.tracer = tp
	otel.SetTracerProvider(tp)

	logs := &logHooks{logger: c.Logger}
	observability.SetPipelineHooks(observability.PipelineHooksList{logs, observability.TraceHooks{}})
	observability.SetCacheHooks(observability.CacheHooksList{logs, observability.TraceHooks{}})

	ctx, c.span = tp.Tracer(appName).Start(ctx, appName+" "+cmd.Name())
	cmd.SetContext(ctx)
	c.Logger.Debug("tracing enabled", "endpoint", c.Config.OTLPEndpoint)
	return nil
}

// Close ends the command span and flushes pending traces.
func (c *CLI) Close(ctx context.Context) error {
	if c.span != nil {
		c.span.End()
	}
	if c.tracer == nil {
		return nil
	}
	return c.tracer.Shutdown(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

// newCache opens the configured cache backend. An unusable file cache
// directory disables caching instead of failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	backend := c.Config.Cache
	if noCache {
		backend = cacheNone
	}

	switch backend {
	case cacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Config.RedisAddr,
			Password: c.Config.RedisPassword,
			DB:       c.Config.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("using redis cache", "addr", c.Config.RedisAddr)
		return rc, cache.NewScopedKeyer(nil, c.Config.RedisPrefix), nil
	case cacheFile:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil, nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache disabled", "dir", dir, "err", err)
			return cache.NewNullCache(), nil, nil
		}
		return fc, nil, nil
	default:
		return cache.NewNullCache(), nil, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dendro/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// openInput opens path for reading; "-" is standard input.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
