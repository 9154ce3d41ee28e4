package pipeline

import (
	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
)

// Filters selects the visibility passes applied to an annotated graph, in
// field order.
type Filters struct {
	ShowAll        bool `json:"show_all,omitempty"`
	ToggleZeroFlux bool `json:"toggle_zero_flux,omitempty"`
	ToggleCrossFed bool `json:"toggle_cross_fed,omitempty"`
	HideSingletons bool `json:"hide_singletons,omitempty"`
}

// FilterResult reports the graph state after filtering.
type FilterResult struct {
	ZeroFluxVisible    *bool `json:"zero_flux_visible,omitempty"`
	NonCrossFedVisible *bool `json:"non_cross_fed_visible,omitempty"`
	VisibleNodes       int   `json:"visible_nodes"`
	VisibleEdges       int   `json:"visible_edges"`
}

// Filter applies f to g in place. Visibility toggles only make sense on an
// annotated graph; anything else is a LAYOUT_PRECONDITION error and g is
// left untouched.
func Filter(g *community.Graph, f Filters) (FilterResult, error) {
	var res FilterResult
	if g == nil || !g.IsAnnotated() {
		return res, errors.New(errors.ErrCodeLayoutPrecondition,
			"network carries no flux annotation")
	}
	if f.ShowAll {
		g.ShowAll()
	}
	if f.ToggleZeroFlux {
		v := g.ToggleZeroFlux()
		res.ZeroFluxVisible = &v
	}
	if f.ToggleCrossFed {
		v := g.ToggleOnlyCrossFed()
		res.NonCrossFedVisible = &v
	}
	if f.HideSingletons {
		g.HideSingletons()
	}
	res.VisibleNodes, res.VisibleEdges = g.VisibleCounts()
	return res, nil
}

// active reports whether any pass is selected.
func (f Filters) active() bool {
	return f.ShowAll || f.ToggleZeroFlux || f.ToggleCrossFed || f.HideSingletons
}
