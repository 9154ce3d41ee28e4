package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charm logger at debug level, errors at
// warn level. It implements PipelineHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnCollapseStart(_ context.Context, network string, nodes int) {
	h.logger.Debug("collapse started", "network", network, "nodes", nodes)
}

func (h *LogHooks) OnCollapseComplete(_ context.Context, network string, s CollapseStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("collapse failed", "network", network, "err", err, "elapsed", d)
		return
	}
	h.logger.Debug("collapse finished", "network", network,
		"organisms", s.Organisms, "metabolites", s.Metabolites, "edges", s.Edges,
		"warnings", s.Warnings, "elapsed", d)
}

func (h *LogHooks) OnAnnotateStart(_ context.Context, mode string, rows int) {
	h.logger.Debug("annotate started", "mode", mode, "rows", rows)
}

func (h *LogHooks) OnAnnotateComplete(_ context.Context, mode string, crossFed int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("annotate failed", "mode", mode, "err", err, "elapsed", d)
		return
	}
	h.logger.Debug("annotate finished", "mode", mode, "cross_fed", crossFed, "elapsed", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, nodes int) {
	h.logger.Debug("layout started", "nodes", nodes)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "err", err, "elapsed", d)
		return
	}
	h.logger.Debug("layout finished", "nodes", nodes, "elapsed", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "stage", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "stage", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "stage", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "elapsed", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
