package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline, cache and HTTP events to a logger at debug level.
// Failures are logged at warn.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnParseStart(_ context.Context, path string) {
	h.logger.Debug("parse", "path", path)
}

func (h *LogHooks) OnParseComplete(_ context.Context, path string, depCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("parse failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("parsed", "path", path, "deps", depCount, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRemoteStart(_ context.Context, coordinate string) {
	h.logger.Debug("fetch parent", "coordinate", coordinate)
}

func (h *LogHooks) OnRemoteComplete(_ context.Context, coordinate string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("fetch parent failed", "coordinate", coordinate, "err", err)
		return
	}
	h.logger.Debug("fetched parent", "coordinate", coordinate, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnResolveStart(_ context.Context, fileCount int) {
	h.logger.Debug("resolve", "files", fileCount)
}

func (h *LogHooks) OnResolveComplete(_ context.Context, fileCount, depCount int, d time.Duration, err error) {
	h.logger.Debug("resolved", "files", fileCount, "deps", depCount, "took", d.Round(time.Millisecond), "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
