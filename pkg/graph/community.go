package graph

import (
	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
)

// =============================================================================
// Community ↔ community.Graph Conversion
// =============================================================================

// FromCommunity encodes a community network. Nodes and edges keep their
// insertion order, so output is deterministic.
func FromCommunity(g *community.Graph) Community {
	out := Community{
		Data: CommunityData{
			Name:      g.Name(),
			Collapsed: g.IsCollapsed(),
			Annotated: g.IsAnnotated(),
		},
		Elements: CommunityElements{
			Nodes: make([]CommunityNode, 0, g.NodeCount()),
			Edges: make([]CommunityEdge, 0, g.EdgeCount()),
		},
	}
	for _, n := range g.Nodes() {
		out.Elements.Nodes = append(out.Elements.Nodes, CommunityNode{
			Data: NodeData{
				ID:         n.ID,
				Key:        n.Key,
				Name:       n.Name,
				SharedName: n.SharedName,
				Type:       n.Kind.String(),
				CrossFed:   n.CrossFed,
				TotalFlux:  n.TotalFlux,
				Visible:    boolPtr(n.Visible),
			},
			Position: n.Position,
		})
	}
	for _, e := range g.Edges() {
		out.Elements.Edges = append(out.Elements.Edges, CommunityEdge{Data: edgeData(g, e)})
	}
	return out
}

func edgeData(g *community.Graph, e *community.Edge) EdgeData {
	d := EdgeData{
		ID:                e.ID,
		Source:            e.Source,
		Target:            e.Target,
		EdgeID:            e.ID,
		SBMLID:            e.SBMLID,
		SharedName:        e.SharedName,
		Name:              e.FluxKey,
		Flux:              e.Flux,
		MinFlux:           e.MinFlux,
		MaxFlux:           e.MaxFlux,
		Stoichiometry:     e.Stoichiometry,
		SharedInteraction: e.Interaction.String(),
		Visible:           boolPtr(e.Visible),
	}
	if dir := e.Direction(); dir != community.DirectionUnknown {
		d.Direction = dir.String()
	}
	if n, ok := g.Node(e.Source); ok {
		d.SourceName = n.Name
	}
	if n, ok := g.Node(e.Target); ok {
		d.TargetName = n.Name
	}
	return d
}

// ToCommunity decodes a community network. A graph counts as collapsed when
// its data says so or when every node carries a community "type"; only
// collapsed graphs can be laid out.
func ToCommunity(in Community) (*community.Graph, error) {
	g := community.New(in.Data.Name)

	typed := len(in.Elements.Nodes) > 0
	for i, cn := range in.Elements.Nodes {
		d := cn.Data
		if d.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d: missing id", i)
		}
		kind, ok := community.ParseKind(d.Type)
		if !ok {
			if d.Type != "" {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "node %q: unknown type %q", d.ID, d.Type)
			}
			typed = false
			kind = community.KindExchangeMetabolite
		}
		g.AddNode(community.Node{
			ID:         d.ID,
			Kind:       kind,
			Key:        d.Key,
			Name:       d.Name,
			SharedName: d.SharedName,
			CrossFed:   d.CrossFed,
			TotalFlux:  d.TotalFlux,
			Visible:    visible(d.Visible),
			Position:   cn.Position,
		})
	}

	for _, ce := range in.Elements.Edges {
		d := ce.Data
		e, created, err := g.EnsureEdge(d.Source, d.Target)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s→%s", d.Source, d.Target)
		}
		if !created {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate edge %s→%s", d.Source, d.Target)
		}
		e.SBMLID = d.SBMLID
		e.SharedName = d.SharedName
		e.FluxKey = d.Name
		e.Stoichiometry = d.Stoichiometry
		e.Interaction = community.ParseInteraction(d.SharedInteraction)
		e.Flux, e.MinFlux, e.MaxFlux = d.Flux, d.MinFlux, d.MaxFlux
		e.Visible = visible(d.Visible)
	}

	if in.Data.Collapsed || typed {
		g.MarkCollapsed()
	}
	if in.Data.Annotated {
		g.MarkAnnotated()
	}
	return g, nil
}

// visible decodes an optional "visible" attribute; hosts that omit it show
// every element.
func visible(v *bool) bool { return v == nil || *v }

func boolPtr(v bool) *bool { return &v }
