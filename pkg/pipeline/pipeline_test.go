package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/scynet/scynet/pkg/cache"
	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/network"
)

// fixture is a two-organism network: ecoli takes up glucose and secretes
// acetate, bsub takes up acetate.
func fixture(t *testing.T, withMedium bool) *network.Network {
	t.Helper()
	n := network.New("community")
	n.DeclareColumns(network.ColumnSBMLType, network.ColumnSBMLID, network.ColumnCompartment, network.ColumnSharedName)

	nodes := []network.Node{
		{ID: "glc_e", Kind: network.KindSpecies, SBMLID: "M_glc__D_medium", Compartment: "medium", SharedName: "D-Glucose"},
		{ID: "ac_e", Kind: network.KindSpecies, SBMLID: "M_ac_medium", Compartment: "medium", SharedName: "Acetate"},
		{ID: "glc_ecoli", Kind: network.KindSpecies, SBMLID: "M_ecoli_glc__D_c0", Compartment: "ecoli_c0"},
		{ID: "ac_ecoli", Kind: network.KindSpecies, SBMLID: "M_ecoli_ac_c0", Compartment: "ecoli_c0"},
		{ID: "ac_bsub", Kind: network.KindSpecies, SBMLID: "M_bsub_ac_c0", Compartment: "bsub_c0"},
		{ID: "r1", Kind: network.KindReaction, SBMLID: "R_EX_glc_ecoli"},
		{ID: "r2", Kind: network.KindReaction, SBMLID: "R_EX_ac_ecoli"},
		{ID: "r3", Kind: network.KindReaction, SBMLID: "R_EX_ac_bsub"},
	}
	if withMedium {
		nodes = append(nodes, network.Node{ID: "cm", Kind: network.KindCompartment, Tag: network.TagMedium})
	}
	for _, node := range nodes {
		if err := n.AddNode(node); err != nil {
			t.Fatal(err)
		}
	}
	edges := []network.Edge{
		{Source: "glc_e", Target: "r1", Directed: true, Role: network.RoleReactant, Stoichiometry: 1},
		{Source: "r1", Target: "glc_ecoli", Directed: true, Role: network.RoleProduct, Stoichiometry: 1},
		{Source: "ac_ecoli", Target: "r2", Directed: true, Role: network.RoleReactant, Stoichiometry: 1},
		{Source: "r2", Target: "ac_e", Directed: true, Role: network.RoleProduct, Stoichiometry: 1},
		{Source: "ac_e", Target: "r3", Directed: true, Role: network.RoleReactant, Stoichiometry: 1},
		{Source: "r3", Target: "ac_bsub", Directed: true, Role: network.RoleProduct, Stoichiometry: 1},
	}
	for _, e := range edges {
		if err := n.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return n
}

func fluxTable() *flux.Table {
	tbl := flux.NewTable(flux.ModeFBA)
	tbl.Set("EX_glc_ecoli", -10)
	tbl.Set("EX_ac_ecoli", 5)
	tbl.Set("EX_ac_bsub", -3)
	return tbl
}

func memoryRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewMemoryCache(64)
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateNodeSize(t *testing.T) {
	tests := []struct {
		size    float64
		wantErr bool
	}{
		{150, false},
		{0.5, false},
		{MaxNodeSize, false},
		{0, true},
		{-1, true},
		{MaxNodeSize + 1, true},
	}
	for _, tt := range tests {
		err := ValidateNodeSize("org_size", tt.size)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNodeSize(%g) error = %v, wantErr %v", tt.size, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Delimiter != DefaultDelimiter {
		t.Errorf("Delimiter = %q, want %q", opts.Delimiter, DefaultDelimiter)
	}
	if opts.OrganismSize != DefaultOrganismSize || opts.MetaboliteSize != DefaultMetaboliteSize {
		t.Errorf("sizes = %g/%g", opts.OrganismSize, opts.MetaboliteSize)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	opts.OrganismSize = -5
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Error("second call should be a no-op")
	}
}

func TestOptionsRejectsBadSizes(t *testing.T) {
	opts := Options{MetaboliteSize: -1}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("negative metabolite size should fail")
	}
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), fixture(t, true), nil, Options{OrganismSize: -1})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := memoryRunner(t)

	res, err := r.Execute(ctx, fixture(t, true), fluxTable(), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if res.Stats.Organisms != 2 || res.Stats.Metabolites != 2 || res.Stats.Edges != 3 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Flux == nil || res.Flux.CrossFed != 1 || res.Flux.Mode != flux.ModeFBA {
		t.Errorf("flux summary = %+v", res.Flux)
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run should miss every cache: %+v", res.CacheInfo)
	}

	ac, _ := res.Graph.Node(community.MetaboliteID("ac"))
	if !ac.IsCrossFed() {
		t.Error("acetate should be cross-fed")
	}
	for _, n := range res.Graph.Nodes() {
		if n.Visible && n.Position == nil {
			t.Errorf("visible node %s has no position", n.ID)
		}
	}
	if res.Layout == nil || len(res.Layout.Order) != 2 {
		t.Fatalf("layout = %+v", res.Layout)
	}

	again, err := r.Execute(ctx, fixture(t, true), fluxTable(), Options{})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	want := CacheInfo{CollapseHit: true, AnnotateHit: true, LayoutHit: true}
	if again.CacheInfo != want {
		t.Errorf("CacheInfo = %+v, want %+v", again.CacheInfo, want)
	}
	for _, n := range res.Graph.Nodes() {
		m, ok := again.Graph.Node(n.ID)
		if !ok {
			t.Fatalf("node %s missing from cached run", n.ID)
		}
		if (n.Position == nil) != (m.Position == nil) || (n.Position != nil && *n.Position != *m.Position) {
			t.Errorf("node %s: position %v, cached %v", n.ID, n.Position, m.Position)
		}
	}
}

func TestExecuteWithoutFlux(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), fixture(t, true), nil, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Flux != nil || res.Graph.IsAnnotated() {
		t.Error("graph should not be annotated without a flux table")
	}
	if res.Stats.VisibleNodes != 4 {
		t.Errorf("visible nodes = %d, want 4", res.Stats.VisibleNodes)
	}
}

func TestExecuteOnlyCrossFed(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), fixture(t, true), fluxTable(), Options{OnlyCrossFed: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	glc, _ := res.Graph.Node(community.MetaboliteID("glc__d"))
	if glc.Visible || glc.Position != nil {
		t.Errorf("glucose should be hidden and unplaced: visible=%v pos=%v", glc.Visible, glc.Position)
	}
	if res.Stats.VisibleNodes != 3 {
		t.Errorf("visible nodes = %d, want 3", res.Stats.VisibleNodes)
	}
}

func TestExecuteSkipLayout(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), fixture(t, true), nil, Options{SkipLayout: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Layout != nil {
		t.Error("layout should be skipped")
	}
	for _, n := range res.Graph.Nodes() {
		if n.Position != nil {
			t.Errorf("node %s has a position", n.ID)
		}
	}
}

func TestCollapseCachesWarnings(t *testing.T) {
	ctx := context.Background()
	r := memoryRunner(t)

	first, hit, err := r.CollapseWithCacheInfo(ctx, fixture(t, false), Options{})
	if err != nil || hit {
		t.Fatalf("first collapse: hit=%v err=%v", hit, err)
	}
	if len(first.Warnings) != 1 || !errors.Is(first.Warnings[0], errors.ErrCodeUnresolvedSharedCompartment) {
		t.Fatalf("warnings = %v", first.Warnings)
	}

	second, hit, err := r.CollapseWithCacheInfo(ctx, fixture(t, false), Options{})
	if err != nil || !hit {
		t.Fatalf("second collapse: hit=%v err=%v", hit, err)
	}
	if len(second.Warnings) != 1 || !errors.Is(second.Warnings[0], errors.ErrCodeUnresolvedSharedCompartment) {
		t.Errorf("cached warnings = %v", second.Warnings)
	}
	if errors.UserMessage(second.Warnings[0]) != errors.UserMessage(first.Warnings[0]) {
		t.Errorf("message changed: %q", errors.UserMessage(second.Warnings[0]))
	}
}

func TestCollapseKeyDependsOnOptions(t *testing.T) {
	ctx := context.Background()
	r := memoryRunner(t)
	if _, _, err := r.CollapseWithCacheInfo(ctx, fixture(t, true), Options{}); err != nil {
		t.Fatal(err)
	}
	_, hit, err := r.CollapseWithCacheInfo(ctx, fixture(t, true), Options{SharedCompartment: "medium"})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("different shared compartment override should miss")
	}
}

func TestCollapseKeyDependsOnNetwork(t *testing.T) {
	ctx := context.Background()
	r := memoryRunner(t)

	plain, _, err := r.CollapseWithCacheInfo(ctx, fixture(t, false), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if plain.Graph.EdgeCount() != 0 {
		t.Fatalf("unresolved network collapsed to %d edges", plain.Graph.EdgeCount())
	}

	tagged, hit, err := r.CollapseWithCacheInfo(ctx, fixture(t, true), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("network with a medium compartment should not share a cache entry")
	}
	if tagged.Graph.EdgeCount() != 3 {
		t.Errorf("edges = %d, want 3", tagged.Graph.EdgeCount())
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	r := memoryRunner(t)
	_, _ = r.Collapse(ctx, fixture(t, true), Options{})
	_, hit, err := r.CollapseWithCacheInfo(ctx, fixture(t, true), Options{Refresh: true})
	if err != nil || hit {
		t.Errorf("refresh: hit=%v err=%v", hit, err)
	}
}

func TestStagesDoNotModifyInput(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	collapsed, err := r.Collapse(ctx, fixture(t, true), Options{})
	if err != nil {
		t.Fatal(err)
	}
	g := collapsed.Graph

	if _, err := r.Annotate(ctx, g, fluxTable(), Options{}); err != nil {
		t.Fatal(err)
	}
	if g.IsAnnotated() {
		t.Error("Annotate marked its input")
	}
	if _, err := r.Layout(ctx, g, Options{}); err != nil {
		t.Fatal(err)
	}
	for _, n := range g.Nodes() {
		if n.Position != nil {
			t.Errorf("Layout positioned input node %s", n.ID)
		}
	}
}

func TestStagePreconditions(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	plain := community.New("plain")

	if _, err := r.Annotate(ctx, plain, fluxTable(), Options{}); !errors.Is(err, errors.ErrCodeLayoutPrecondition) {
		t.Errorf("Annotate err = %v", err)
	}
	if _, err := r.Layout(ctx, plain, Options{}); !errors.Is(err, errors.ErrCodeLayoutPrecondition) {
		t.Errorf("Layout err = %v", err)
	}
	if _, err := r.Collapse(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Collapse(nil) err = %v", err)
	}

	bare := network.New("bare")
	_, err := r.Execute(ctx, bare, nil, Options{})
	if !errors.Is(err, errors.ErrCodeConfigurationMismatch) {
		t.Errorf("Execute err = %v, want CONFIGURATION_MISMATCH", err)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "collapse: ") {
		t.Errorf("err = %q, want a collapse: prefix", err)
	}
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	collapsed, _ := r.Collapse(ctx, fixture(t, true), Options{})

	if _, err := Filter(collapsed.Graph, Filters{ShowAll: true}); !errors.Is(err, errors.ErrCodeLayoutPrecondition) {
		t.Errorf("unannotated graph: err = %v", err)
	}

	annotated, _ := r.Annotate(ctx, collapsed.Graph, fluxTable(), Options{})
	res, err := Filter(annotated.Graph, Filters{ToggleCrossFed: true})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.NonCrossFedVisible == nil || *res.NonCrossFedVisible {
		t.Errorf("non-cross-fed metabolites should now be hidden: %+v", res)
	}
	if res.VisibleNodes != 3 {
		t.Errorf("visible nodes = %d, want 3", res.VisibleNodes)
	}

	res, _ = Filter(annotated.Graph, Filters{ToggleCrossFed: true})
	if !*res.NonCrossFedVisible || res.VisibleNodes != 4 {
		t.Errorf("second toggle should restore: %+v", res)
	}
}
