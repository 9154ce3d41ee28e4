package pipeline

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/graph"
	"github.com/scynet/scynet/pkg/layout"
	"github.com/scynet/scynet/pkg/observability"
)

// Cache key types, reported to the cache hooks.
const (
	stageCollapse = "collapse"
	stageAnnotate = "annotate"
	stageLayout   = "layout"
)

type warningEntry struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type collapseEntry struct {
	Graph    json.RawMessage `json:"graph"`
	Warnings []warningEntry  `json:"warnings,omitempty"`
}

type annotateEntry struct {
	Graph   json.RawMessage `json:"graph"`
	Summary flux.Summary    `json:"summary"`
}

func encodeCollapse(c *Collapsed) (collapseEntry, error) {
	raw, err := graph.MarshalCommunity(c.Graph)
	if err != nil {
		return collapseEntry{}, err
	}
	entry := collapseEntry{Graph: raw}
	for _, w := range c.Warnings {
		entry.Warnings = append(entry.Warnings, warningEntry{Code: errors.GetCode(w), Message: errors.UserMessage(w)})
	}
	return entry, nil
}

func (e collapseEntry) decode() (*Collapsed, error) {
	g, err := graph.UnmarshalCommunity(e.Graph)
	if err != nil {
		return nil, err
	}
	out := &Collapsed{Graph: g}
	for _, w := range e.Warnings {
		out.Warnings = append(out.Warnings, errors.New(w.Code, "%s", w.Message))
	}
	return out, nil
}

// lookup decodes the cached value of key into v. It reports a miss when
// refresh is set, on backend errors and on undecodable entries.
func (r *Runner) lookup(ctx context.Context, stage, key string, refresh bool, v any) bool {
	if refresh {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "stage", stage, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, stage)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding cache entry", "stage", stage, "err", err)
		observability.Cache().OnCacheMiss(ctx, stage)
		return false
	}
	observability.Cache().OnCacheHit(ctx, stage)
	return true
}

// store writes v under key. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, stage, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Debug("cache encode failed", "stage", stage, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", stage, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}

// tableRows renders t as strings for hashing. Values are formatted rather
// than marshalled so NaN and Inf hash too.
func tableRows(t *flux.Table) []string {
	rows := []string{t.Mode.String()}
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		rows = append(rows, k, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return rows
}

// applyLayout writes a cached layout onto g the way layout.Concentric does.
func applyLayout(g *community.Graph, res *layout.Result) {
	g.ClearPositions()
	for _, id := range res.Hidden {
		if n, ok := g.Node(id); ok {
			n.Visible = false
		}
	}
	for id, p := range res.Positions {
		if n, ok := g.Node(id); ok {
			p := p
			n.Position = &p
		}
	}
}
