package collapse

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/network"
)

// fixture builds a two-organism network exchanging glucose and acetate
// through the medium:
//
//	ecoli:  glc[e] -> glc[c]   (R_EX_glc_ecoli)
//	        ac[c]  -> ac[e]    (R_EX_ac_ecoli)
//	bsub:   ac[e]  -> ac[c]    (R_EX_ac_bsub)
func fixture(t *testing.T) *network.Network {
	t.Helper()
	n := network.New("community")
	n.DeclareColumns(network.ColumnSBMLType, network.ColumnSBMLID, network.ColumnCompartment, network.ColumnSharedName)

	nodes := []network.Node{
		{ID: "cm", Kind: network.KindCompartment, Tag: "medium"},
		{ID: "glc_e", Kind: network.KindSpecies, SBMLID: "M_glc__D_medium", Compartment: "medium", SharedName: "D-Glucose"},
		{ID: "ac_e", Kind: network.KindSpecies, SBMLID: "M_ac_medium", Compartment: "medium", SharedName: "Acetate"},
		{ID: "glc_ecoli", Kind: network.KindSpecies, SBMLID: "M_ecoli_glc__D_c0", Compartment: "ecoli_c0"},
		{ID: "ac_ecoli", Kind: network.KindSpecies, SBMLID: "M_ecoli_ac_c0", Compartment: "ecoli_c0"},
		{ID: "ac_bsub", Kind: network.KindSpecies, SBMLID: "M_bsub_ac_c0", Compartment: "bsub_c0"},
		{ID: "gene", Kind: network.KindOther, SBMLID: "G_b0001"},
		{ID: "r1", Kind: network.KindReaction, SBMLID: "R_EX_glc_ecoli", SharedName: "glucose uptake"},
		{ID: "r2", Kind: network.KindReaction, SBMLID: "R_EX_ac_ecoli", SharedName: "acetate secretion"},
		{ID: "r3", Kind: network.KindReaction, SBMLID: "R_EX_ac_bsub", SharedName: "acetate uptake"},
		{ID: "r4", Kind: network.KindReaction, SBMLID: "R_PGI_ecoli"},
	}
	for _, node := range nodes {
		require.NoError(t, n.AddNode(node))
	}

	edges := []network.Edge{
		{Source: "glc_e", Target: "r1", Directed: true, Role: network.RoleReactant, Stoichiometry: 1},
		{Source: "r1", Target: "glc_ecoli", Directed: true, Role: network.RoleProduct, Stoichiometry: 1},
		{Source: "gene", Target: "r1", Directed: true, Role: network.RoleReactant},
		{Source: "ac_ecoli", Target: "r2", Role: network.RoleReactant, Stoichiometry: 2},
		{Source: "r2", Target: "ac_e", Role: network.RoleProduct, Stoichiometry: 2},
		{Source: "ac_e", Target: "r3", Directed: true, Role: network.RoleReactant, Stoichiometry: 1},
		{Source: "r3", Target: "ac_bsub", Directed: true, Role: network.RoleProduct, Stoichiometry: 1},
		{Source: "glc_ecoli", Target: "r4", Directed: true, Role: network.RoleReactant, Stoichiometry: 1},
	}
	for _, e := range edges {
		require.NoError(t, n.AddEdge(e))
	}
	return n
}

func TestCollapse(t *testing.T) {
	res, err := Collapse(fixture(t), Options{})
	require.NoError(t, err)
	g := res.Graph

	assert.Equal(t, "ScyNet: community", g.Name())
	assert.True(t, g.IsCollapsed())
	assert.Empty(t, res.Warnings)

	var orgs, mets []string
	for _, n := range g.Organisms() {
		orgs = append(orgs, n.Key)
	}
	for _, n := range g.Metabolites() {
		mets = append(mets, n.Key)
	}
	assert.Equal(t, []string{"ecoli", "bsub"}, orgs)
	assert.Equal(t, []string{"glc__d", "ac"}, mets)
	assert.Equal(t, []string{"r1", "r2", "r3"}, res.ExchangeReactions)

	glc := community.MetaboliteID("glc__d")
	ac := community.MetaboliteID("ac")
	ecoli := community.OrganismID("ecoli")
	bsub := community.OrganismID("bsub")

	require.Equal(t, 3, g.EdgeCount())

	uptake, ok := g.Edge(glc, ecoli)
	require.True(t, ok)
	assert.Equal(t, community.Export, uptake.Interaction)
	assert.Equal(t, "EX_glc_ecoli", uptake.FluxKey)
	assert.Equal(t, "EX_glc_ecoli", uptake.SBMLID)
	assert.Equal(t, "glucose uptake", uptake.SharedName)
	// Stoichiometry sums edges directly joining reactant and product.
	assert.Equal(t, 0.0, uptake.Stoichiometry)

	secretion, ok := g.Edge(ecoli, ac)
	require.True(t, ok)
	assert.Equal(t, community.Import, secretion.Interaction)

	_, ok = g.Edge(ac, bsub)
	assert.True(t, ok)

	assert.Equal(t, ecoli, res.Mapping["glc_ecoli"])
	assert.Equal(t, glc, res.Mapping["glc_e"])
	assert.Equal(t, []string{secretion.ID}, res.FluxKeys["EX_ac_ecoli"])
}

func TestCollapseIsRepeatable(t *testing.T) {
	n := fixture(t)
	a, err := Collapse(n, Options{})
	require.NoError(t, err)
	b, err := Collapse(n, Options{})
	require.NoError(t, err)

	require.Equal(t, a.Graph.NodeCount(), b.Graph.NodeCount())
	require.Equal(t, a.Graph.EdgeCount(), b.Graph.EdgeCount())
	for i, e := range a.Graph.Edges() {
		other := b.Graph.Edges()[i]
		assert.Equal(t, e.ID, other.ID)
		assert.Equal(t, e.Stoichiometry, other.Stoichiometry)
	}
}

func TestCollapseAggregatesStoichiometry(t *testing.T) {
	n := network.New("")
	n.DeclareColumns(network.ColumnSBMLType, network.ColumnCompartment)
	for _, node := range []network.Node{
		{ID: "p", Kind: network.KindParameter, Tag: "shared_compartment_id", SharedName: "e0"},
		{ID: "glc_e", Kind: network.KindSpecies, SBMLID: "M_glc_e0", Compartment: "e0"},
		{ID: "glc_a", Kind: network.KindSpecies, SBMLID: "M_a_glc_c", Compartment: "a_c"},
		{ID: "glc_a2", Kind: network.KindSpecies, SBMLID: "M_a_glc_p", Compartment: "a_p"},
		{ID: "r1", Kind: network.KindReaction, SBMLID: "R_T1"},
		{ID: "r2", Kind: network.KindReaction, SBMLID: "T2"},
	} {
		require.NoError(t, n.AddNode(node))
	}
	for _, e := range []network.Edge{
		{Source: "glc_e", Target: "r1", Directed: true, Role: network.RoleReactant},
		{Source: "r1", Target: "glc_a", Directed: true, Role: network.RoleProduct},
		{Source: "glc_e", Target: "glc_a", Directed: true, Stoichiometry: 1.5},
		{Source: "glc_e", Target: "r2", Directed: true, Role: network.RoleReactant},
		{Source: "r2", Target: "glc_a2", Directed: true, Role: network.RoleProduct},
		{Source: "glc_e", Target: "glc_a2", Directed: true, Stoichiometry: 2},
	} {
		require.NoError(t, n.AddEdge(e))
	}

	res, err := Collapse(n, Options{})
	require.NoError(t, err)
	g := res.Graph
	assert.Equal(t, DefaultName, g.Name())

	require.Equal(t, 1, g.EdgeCount(), "both reactions map onto the same pair")
	e := g.Edges()[0]
	assert.Equal(t, 3.5, e.Stoichiometry)
	assert.Equal(t, "T1", e.FluxKey, "first creation wins")
	assert.Equal(t, []string{e.ID}, res.FluxKeys["T1"])
	assert.NotContains(t, res.FluxKeys, "T2")
}

func TestCollapseSkipsIgnoredAndSelfLoops(t *testing.T) {
	n := network.New("x")
	n.DeclareColumns(network.ColumnSBMLType, network.ColumnCompartment)
	for _, node := range []network.Node{
		{ID: "cm", Kind: network.KindCompartment, Tag: "medium"},
		{ID: "o2_e", Kind: network.KindSpecies, SBMLID: "M_o2_medium", Compartment: "medium"},
		{ID: "o2_e_dup", Kind: network.KindSpecies, SBMLID: "M_O2_medium", Compartment: "medium"},
		{ID: "stray", Kind: network.KindSpecies, SBMLID: "M_o2_zz", Compartment: "a_c"},
		{ID: "o2_a", Kind: network.KindSpecies, SBMLID: "M_a_o2_c", Compartment: "a_c"},
		{ID: "r", Kind: network.KindReaction, SBMLID: "R_X"},
	} {
		require.NoError(t, n.AddNode(node))
	}
	for _, e := range []network.Edge{
		{Source: "o2_e", Target: "r", Directed: true, Role: network.RoleReactant},
		{Source: "stray", Target: "r", Directed: true, Role: network.RoleReactant},
		{Source: "r", Target: "o2_e_dup", Directed: true, Role: network.RoleProduct},
		{Source: "r", Target: "o2_a", Directed: true, Role: network.RoleProduct},
	} {
		require.NoError(t, n.AddEdge(e))
	}

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	res, err := Collapse(n, Options{Logger: logger})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), string(errors.ErrCodeMalformedIdentifier))
	assert.Contains(t, buf.String(), "M_o2_zz")
	assert.Contains(t, buf.String(), "ignored=1")
	assert.Len(t, res.Graph.Metabolites(), 1, "case-insensitive identity")
	assert.NotContains(t, res.Mapping, "stray")
	// o2_e -> o2_e_dup is a self loop; the dup target is consumed, so only
	// the organism edge remains.
	require.Equal(t, 1, res.Graph.EdgeCount())
	assert.Equal(t, community.EdgeID(community.MetaboliteID("o2"), community.OrganismID("a")), res.Graph.Edges()[0].ID)
}

func TestCollapseUnresolvedShared(t *testing.T) {
	n := network.New("x")
	n.DeclareColumns(network.ColumnSBMLType, network.ColumnCompartment)
	require.NoError(t, n.AddNode(network.Node{ID: "s", Kind: network.KindSpecies, SBMLID: "M_a_glc_c", Compartment: "a_c"}))
	require.NoError(t, n.AddNode(network.Node{ID: "r", Kind: network.KindReaction, SBMLID: "R_1"}))
	require.NoError(t, n.AddEdge(network.Edge{Source: "s", Target: "r", Role: network.RoleReactant}))

	res, err := Collapse(n, Options{})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.Is(res.Warnings[0], errors.ErrCodeUnresolvedSharedCompartment))
	assert.Empty(t, res.Graph.Metabolites())
	assert.Zero(t, res.Graph.EdgeCount())
	assert.Empty(t, res.ExchangeReactions)
}

func TestCollapseConfigurationMismatch(t *testing.T) {
	n := network.New("x")
	n.DeclareColumns(network.ColumnSBMLType)

	res, err := Collapse(n, Options{})
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigurationMismatch))
	assert.True(t, errors.IsFatal(err))
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		node   network.Node
		shared string
		want   string
	}{
		{network.Node{SBMLID: "M_glc__D_e0"}, "e0", "glc__d"},
		{network.Node{SBMLID: "M_GLC_medium"}, "medium", "glc"},
		{network.Node{SBMLID: "glc"}, "", "glc"},
		{network.Node{SharedName: " Glucose "}, "e0", "glucose"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Identity(&tt.node, tt.shared))
	}
}

func TestFluxKey(t *testing.T) {
	assert.Equal(t, "EX_glc_e", FluxKey("R_EX_glc_e"))
	assert.Equal(t, "EX_glc_e", FluxKey("EX_glc_e"))
	assert.Equal(t, "", FluxKey(""))
}
