package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dendro/pkg/observability"
)

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)

func (h *logHooks) OnParseStart(_ context.Context, source string) {
	h.logger.Debug("parse started", "source", source)
}

func (h *logHooks) OnParseComplete(_ context.Context, source string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("parse finished", "source", source, "nodes", nodes, "duration", d)
}

func (h *logHooks) OnLayoutStart(_ context.Context, mode string, tips int) {
	h.logger.Debug("layout started", "mode", mode, "tips", tips)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, mode string, d time.Duration, err error) {
	h.logger.Debug("layout finished", "mode", mode, "duration", d, "err", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render finished", "formats", formats, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, id, method, path string) {
	h.logger.Debug("request", "id", id, "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "id", id, "method", method, "path", path, "status", status, "duration", d)
}
