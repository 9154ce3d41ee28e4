// Package pipeline runs the scynet stages with caching.
//
// A run is collapse → annotate → layout:
//
//  1. Collapse: build the community network from a multi-organism reaction network
//  2. Annotate: attach FBA/FVA fluxes and classify cross-fed metabolites
//  3. Layout: place the community network on concentric rings
//
// The CLI and the HTTP API both go through a [Runner], so defaults, caching
// and logging behave the same for every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, n, table, pipeline.Options{OnlyCrossFed: true})
//	if err != nil {
//	    return err
//	}
//	for _, w := range result.Warnings {
//	    logger.Warn(w)
//	}
//
// Stages can be run on their own:
//
//	collapsed, err := runner.Collapse(ctx, n, opts)
//	annotated, err := runner.Annotate(ctx, collapsed.Graph, table, opts)
//	laidOut, err := runner.Layout(ctx, annotated.Graph, opts)
//
// Every stage returns a fresh graph; its input is never modified.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scynet/scynet/pkg/cache"
	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/layout"
	"github.com/scynet/scynet/pkg/resolve"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultDelimiter separates the tokens of SBML identifiers.
	DefaultDelimiter = "_"

	// DefaultOrganismSize is the rendered diameter of an organism node.
	DefaultOrganismSize = layout.DefaultOrganismSize

	// DefaultMetaboliteSize is the rendered diameter of a metabolite node.
	DefaultMetaboliteSize = layout.DefaultMetaboliteSize

	// MaxNodeSize caps both node sizes; larger values produce unusable rings.
	MaxNodeSize = 10000.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Collapse options
	Delimiter         string `json:"delimiter,omitempty"`
	SharedCompartment string `json:"shared_compartment,omitempty"` // overrides marker detection

	// Annotate options
	OnlyCrossFed bool `json:"only_cross_fed,omitempty"` // hide metabolites that are not cross-fed
	ShowZeroFlux bool `json:"show_zero_flux,omitempty"` // keep zero-flux edges visible

	// Layout options
	OrganismSize   float64 `json:"org_size,omitempty"`
	MetaboliteSize float64 `json:"met_size,omitempty"`
	SkipLayout     bool    `json:"skip_layout,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the final community network.
	Graph *community.Graph

	// Warnings are non-fatal conditions from any stage.
	Warnings []error

	// Flux summarizes the annotation, nil when no flux table was given.
	Flux *flux.Summary

	// Layout describes the placement, nil when layout was skipped.
	Layout *layout.Result

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Organisms    int           `json:"organisms"`
	Metabolites  int           `json:"metabolites"`
	Edges        int           `json:"edges"`
	VisibleNodes int           `json:"visible_nodes"`
	VisibleEdges int           `json:"visible_edges"`
	CollapseTime time.Duration `json:"collapse_ns"`
	AnnotateTime time.Duration `json:"annotate_ns"`
	LayoutTime   time.Duration `json:"layout_ns"`
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	CollapseHit bool `json:"collapse"`
	AnnotateHit bool `json:"annotate"`
	LayoutHit   bool `json:"layout"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateNodeSize checks that a node size is positive and bounded.
func ValidateNodeSize(name string, size float64) error {
	if size <= 0 || size > MaxNodeSize {
		return fmt.Errorf("invalid %s: %g (must be in (0, %g])", name, size, MaxNodeSize)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults for every stage and validates the
// result. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetCollapseDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetCollapseDefaults sets defaults for collapsing.
func (o *Options) SetCollapseDefaults() {
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetLayoutDefaults sets defaults for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.OrganismSize == 0 {
		o.OrganismSize = DefaultOrganismSize
	}
	if o.MetaboliteSize == 0 {
		o.MetaboliteSize = DefaultMetaboliteSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates the node sizes.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateNodeSize("org_size", o.OrganismSize); err != nil {
		return err
	}
	return ValidateNodeSize("met_size", o.MetaboliteSize)
}

// ResolveOptions returns the options for organism resolution.
func (o *Options) ResolveOptions() resolve.Options {
	return resolve.Options{Delimiter: o.Delimiter, SharedCompartment: o.SharedCompartment}
}

// LayoutOptions returns the options for the concentric layout.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{OrganismSize: o.OrganismSize, MetaboliteSize: o.MetaboliteSize}
}

// CollapseKeyOpts returns cache key options for collapsing.
func (o *Options) CollapseKeyOpts() cache.CollapseKeyOpts {
	return cache.CollapseKeyOpts{Delimiter: o.Delimiter, SharedCompartment: o.SharedCompartment}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{OrganismSize: o.OrganismSize, MetaboliteSize: o.MetaboliteSize}
}

// FilterOptions returns the visibility filters applied after annotation.
func (o *Options) FilterOptions() Filters {
	return Filters{ToggleCrossFed: o.OnlyCrossFed, ToggleZeroFlux: o.ShowZeroFlux}
}
