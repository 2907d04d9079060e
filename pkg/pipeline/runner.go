package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dendro/pkg/cache"
	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/layout"
	"github.com/matzehuels/dendro/pkg/observability"
	"github.com/matzehuels/dendro/pkg/render/sink"
	"github.com/matzehuels/dendro/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, src io.Reader, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}

	result := &Result{}

	parseStart := time.Now()
	t, err := r.Parse(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = t
	result.TreeHash = TreeHash(t)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = t.Len()
	result.Stats.TipCount = t.NTips(t.Root())

	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, t, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	return result, nil
}

// Parse reads one tree from src.
func (r *Runner) Parse(ctx context.Context, src io.Reader, opts Options) (*tree.Tree, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Source)
	start := time.Now()

	t, err := Parse(src, opts)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Source, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnParseComplete(ctx, opts.Source, t.Len(), time.Since(start), nil)

	opts.Logger.Info("parsed tree",
		"source", opts.Source,
		"nodes", t.Len(),
		"tips", t.NTips(t.Root()),
		"duration", time.Since(start))
	return t, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, t *tree.Tree, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

// LayoutWithCacheInfo computes a layout with caching and reports whether
// it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *tree.Tree, opts Options) (layout.Layout, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return layout.Layout{}, false, err
	}
	if err := checkTree(t); err != nil {
		return layout.Layout{}, false, err
	}

	key := r.Keyer.LayoutKey(TreeHash(t), opts.LayoutKeyOpts())
	if !opts.Refresh {
		if data, hit := r.get(ctx, "layout", key, opts.Logger); hit {
			if cached, err := sink.ReadJSON(data); err == nil {
				opts.Logger.Debug("layout from cache", "mode", cached.Mode)
				return cached, true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Mode, t.NTips(t.Root()))
	start := time.Now()

	l, err := ComputeLayout(t, opts)
	hooks.OnLayoutComplete(ctx, opts.Mode, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	opts.Logger.Info("computed layout",
		"mode", l.Mode,
		"width", l.Width,
		"height", l.Height,
		"duration", time.Since(start))

	if data, err := sink.RenderJSON(l); err == nil {
		r.set(ctx, "layout", key, data, cache.TTLLayout, opts.Logger)
	}
	return l, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, t *tree.Tree, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, t, opts)
	return artifacts, err
}

// RenderWithCacheInfo renders every requested format with caching and
// reports whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, t *tree.Tree, opts Options) (map[string][]byte, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, false, err
	}
	if err := checkTree(t); err != nil {
		return nil, false, err
	}

	layoutData, err := sink.RenderJSON(l)
	if err != nil {
		return nil, false, derrors.Wrap(derrors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	base := cache.Hash(append([]byte(TreeHash(t)), layoutData...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit := r.get(ctx, "artifact", r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format)), opts.Logger)
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := Render(ctx, l, t, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", time.Since(start))

	for format, data := range rendered {
		r.set(ctx, "artifact", r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact, opts.Logger)
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) prepare(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	return opts.ValidateAndSetDefaults()
}

// get reads from the cache. Backend errors count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string, logger *log.Logger) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// set writes to the cache. A failed write is logged and otherwise ignored.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
