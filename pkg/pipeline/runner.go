package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scynet/scynet/pkg/cache"
	"github.com/scynet/scynet/pkg/collapse"
	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/graph"
	"github.com/scynet/scynet/pkg/layout"
	"github.com/scynet/scynet/pkg/network"
	"github.com/scynet/scynet/pkg/observability"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default().
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Collapsed is the output of the collapse stage.
type Collapsed struct {
	Graph    *community.Graph
	Warnings []error
}

// Annotated is the output of the annotate stage.
type Annotated struct {
	Graph   *community.Graph
	Summary flux.Summary
}

// LaidOut is the output of the layout stage.
type LaidOut struct {
	Graph  *community.Graph
	Layout *layout.Result
}

// Execute runs collapse → annotate → layout. Annotation is skipped when t
// is nil; layout is skipped when opts.SkipLayout is set.
func (r *Runner) Execute(ctx context.Context, n *network.Network, t *flux.Table, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	result := &Result{}

	// Stage 1: Collapse
	start := time.Now()
	collapsed, hit, err := r.CollapseWithCacheInfo(ctx, n, opts)
	if err != nil {
		return nil, fmt.Errorf("collapse: %w", err)
	}
	result.Graph = collapsed.Graph
	result.Warnings = append(result.Warnings, collapsed.Warnings...)
	result.Stats.CollapseTime = time.Since(start)
	result.CacheInfo.CollapseHit = hit
	for _, w := range collapsed.Warnings {
		if errors.IsFatal(w) {
			return nil, fmt.Errorf("collapse: %w", w)
		}
		opts.Logger.Warn(errors.UserMessage(w), "code", errors.GetCode(w))
	}
	opts.Logger.Info("collapsed network",
		"organisms", len(result.Graph.Organisms()),
		"metabolites", len(result.Graph.Metabolites()),
		"edges", result.Graph.EdgeCount(),
		"duration", result.Stats.CollapseTime)

	// Stage 2: Annotate
	if t != nil {
		start = time.Now()
		annotated, hit, err := r.AnnotateWithCacheInfo(ctx, result.Graph, t, opts)
		if err != nil {
			return nil, fmt.Errorf("annotate: %w", err)
		}
		result.Graph = annotated.Graph
		result.Flux = &annotated.Summary
		result.Stats.AnnotateTime = time.Since(start)
		result.CacheInfo.AnnotateHit = hit
		opts.Logger.Info("annotated fluxes",
			"mode", annotated.Summary.Mode,
			"edges", annotated.Summary.Edges,
			"cross_fed", annotated.Summary.CrossFed,
			"duration", result.Stats.AnnotateTime)

		if f := opts.FilterOptions(); f.active() {
			fr, err := Filter(result.Graph, f)
			if err != nil {
				return nil, fmt.Errorf("filter: %w", err)
			}
			opts.Logger.Debug("applied filters", "visible_nodes", fr.VisibleNodes, "visible_edges", fr.VisibleEdges)
		}
	}

	// Stage 3: Layout
	if !opts.SkipLayout {
		start = time.Now()
		laidOut, hit, err := r.LayoutWithCacheInfo(ctx, result.Graph, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Graph = laidOut.Graph
		result.Layout = laidOut.Layout
		result.Stats.LayoutTime = time.Since(start)
		result.CacheInfo.LayoutHit = hit
		opts.Logger.Info("computed layout",
			"positioned", len(laidOut.Layout.Positions),
			"duration", result.Stats.LayoutTime)
	}

	result.Stats.Organisms = len(result.Graph.Organisms())
	result.Stats.Metabolites = len(result.Graph.Metabolites())
	result.Stats.Edges = result.Graph.EdgeCount()
	result.Stats.VisibleNodes, result.Stats.VisibleEdges = result.Graph.VisibleCounts()
	return result, nil
}

// =============================================================================
// Collapse
// =============================================================================

// CollapseWithCacheInfo collapses n and reports whether the result came
// from the cache.
func (r *Runner) CollapseWithCacheInfo(ctx context.Context, n *network.Network, opts Options) (*Collapsed, bool, error) {
	if n == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "network is required")
	}
	r.applyLogger(&opts)
	opts.SetCollapseDefaults()

	data, err := graph.MarshalNetwork(n)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize network for cache key")
	}
	key := r.Keyer.CollapseKey(cache.Hash(data), opts.CollapseKeyOpts())

	var entry collapseEntry
	if r.lookup(ctx, stageCollapse, key, opts.Refresh, &entry) {
		if out, err := entry.decode(); err == nil {
			return out, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnCollapseStart(ctx, n.Name(), n.NodeCount())
	start := time.Now()
	res, err := collapse.Collapse(n, collapse.Options{Resolve: opts.ResolveOptions(), Logger: opts.Logger})
	if err != nil {
		hooks.OnCollapseComplete(ctx, n.Name(), observability.CollapseStats{}, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnCollapseComplete(ctx, n.Name(), observability.CollapseStats{
		Organisms:   len(res.Graph.Organisms()),
		Metabolites: len(res.Graph.Metabolites()),
		Edges:       res.Graph.EdgeCount(),
		Warnings:    len(res.Warnings),
	}, time.Since(start), nil)

	out := &Collapsed{Graph: res.Graph, Warnings: res.Warnings}
	if entry, err := encodeCollapse(out); err == nil {
		r.store(ctx, stageCollapse, key, entry, cache.TTLCollapse)
	}
	return out, false, nil
}

// Collapse calls CollapseWithCacheInfo and drops the cache hit info.
func (r *Runner) Collapse(ctx context.Context, n *network.Network, opts Options) (*Collapsed, error) {
	out, _, err := r.CollapseWithCacheInfo(ctx, n, opts)
	return out, err
}

// =============================================================================
// Annotate
// =============================================================================

// AnnotateWithCacheInfo annotates a copy of g with the fluxes of t and
// reports whether the result came from the cache. g must be collapsed.
func (r *Runner) AnnotateWithCacheInfo(ctx context.Context, g *community.Graph, t *flux.Table, opts Options) (*Annotated, bool, error) {
	if g == nil || !g.IsCollapsed() {
		return nil, false, errors.New(errors.ErrCodeLayoutPrecondition,
			"network is not a collapsed community network")
	}
	r.applyLogger(&opts)
	if t == nil {
		t = flux.NewTable(flux.ModeNone)
	}

	data, err := graph.MarshalCommunity(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph for cache key")
	}
	fluxHash, err := cache.HashJSON(tableRows(t))
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash flux table")
	}
	key := r.Keyer.AnnotateKey(cache.Hash(data), fluxHash)

	var entry annotateEntry
	if r.lookup(ctx, stageAnnotate, key, opts.Refresh, &entry) {
		if cached, err := graph.UnmarshalCommunity(entry.Graph); err == nil {
			return &Annotated{Graph: cached, Summary: entry.Summary}, true, nil
		}
	}

	work, err := graph.UnmarshalCommunity(data)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "copy graph")
	}
	hooks := observability.Pipeline()
	hooks.OnAnnotateStart(ctx, t.Mode.String(), t.Len())
	start := time.Now()
	summary := flux.Annotate(work, t)
	hooks.OnAnnotateComplete(ctx, t.Mode.String(), summary.CrossFed, time.Since(start), nil)
	if t.Empty() {
		opts.Logger.Warn("flux table is empty; no metabolite was classified")
	}

	out := &Annotated{Graph: work, Summary: summary}
	if raw, err := graph.MarshalCommunity(work); err == nil {
		r.store(ctx, stageAnnotate, key, annotateEntry{Graph: raw, Summary: summary}, cache.TTLAnnotate)
	}
	return out, false, nil
}

// Annotate calls AnnotateWithCacheInfo and drops the cache hit info.
func (r *Runner) Annotate(ctx context.Context, g *community.Graph, t *flux.Table, opts Options) (*Annotated, error) {
	out, _, err := r.AnnotateWithCacheInfo(ctx, g, t, opts)
	return out, err
}

// =============================================================================
// Layout
// =============================================================================

// LayoutWithCacheInfo lays out a copy of g and reports whether the
// positions came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *community.Graph, opts Options) (*LaidOut, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout options")
	}
	if g == nil || !g.IsCollapsed() {
		return nil, false, errors.New(errors.ErrCodeLayoutPrecondition,
			"network is not a collapsed community network")
	}

	data, err := graph.MarshalCommunity(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph for cache key")
	}
	work, err := graph.UnmarshalCommunity(data)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "copy graph")
	}
	key := r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())

	var cached layout.Result
	if r.lookup(ctx, stageLayout, key, opts.Refresh, &cached) {
		applyLayout(work, &cached)
		return &LaidOut{Graph: work, Layout: &cached}, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, work.NodeCount())
	start := time.Now()
	res, err := layout.Concentric(work, opts.LayoutOptions())
	hooks.OnLayoutComplete(ctx, work.NodeCount(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	opts.Logger.Debug("rings",
		"multi", res.Rings.Multi, "double", res.Rings.Double,
		"organism", res.Rings.Organism, "single", res.Rings.Single)

	r.store(ctx, stageLayout, key, res, cache.TTLLayout)
	return &LaidOut{Graph: work, Layout: res}, false, nil
}

// Layout calls LayoutWithCacheInfo and drops the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *community.Graph, opts Options) (*LaidOut, error) {
	out, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return out, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
