package graph

import "github.com/scynet/scynet/pkg/community"

// =============================================================================
// Constants - Column Names
// =============================================================================

// Network-level data keys.
const (
	KeyName      = "name"
	KeyCollapsed = "collapsed"
	KeyAnnotated = "annotated"
)

// Element data keys shared by both formats.
const (
	KeyID       = "id"
	KeySource   = "source"
	KeyTarget   = "target"
	KeyDirected = "directed"
)

// =============================================================================
// Network - Input Reaction Network (Cytoscape JSON)
// =============================================================================

// Network is the Cytoscape JSON form of an original reaction network.
//
// Element data is kept as free-form maps: every key seen on a node becomes a
// declared column of the decoded network, which is how collapsibility is
// checked.
//
//	{
//	  "data": {"name": "community"},
//	  "elements": {
//	    "nodes": [{"data": {"id": "1", "sbml type": "species", ...}}],
//	    "edges": [{"data": {"source": "1", "target": "2", "interaction type": "reaction-reactant"}}]
//	  }
//	}
type Network struct {
	Data     map[string]any `json:"data,omitempty"`
	Elements Elements       `json:"elements"`
}

// Elements groups nodes and edges.
type Elements struct {
	Nodes []Element `json:"nodes"`
	Edges []Element `json:"edges"`
}

// Element is one node or edge with its attribute data.
type Element struct {
	Data     map[string]any   `json:"data"`
	Position *community.Point `json:"position,omitempty"`
}

// =============================================================================
// Community - Output Community Network
// =============================================================================

// Community is the Cytoscape JSON form of a community network.
type Community struct {
	Data     CommunityData     `json:"data"`
	Elements CommunityElements `json:"elements"`
}

// CommunityData holds network-level attributes.
type CommunityData struct {
	Name      string `json:"name"`
	Collapsed bool   `json:"collapsed,omitempty"`
	Annotated bool   `json:"annotated,omitempty"`
}

// CommunityElements groups community nodes and edges.
type CommunityElements struct {
	Nodes []CommunityNode `json:"nodes"`
	Edges []CommunityEdge `json:"edges"`
}

// CommunityNode is a serialized organism or exchange metabolite.
type CommunityNode struct {
	Data     NodeData         `json:"data"`
	Position *community.Point `json:"position,omitempty"`
}

// NodeData is the attribute row of a community node.
type NodeData struct {
	ID         string   `json:"id"`
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	SharedName string   `json:"shared name"`
	Type       string   `json:"type"` // "community member" or "exchange metabolite"
	CrossFed   *bool    `json:"cross-fed,omitempty"`
	TotalFlux  *float64 `json:"total flux,omitempty"`
	Visible    *bool    `json:"visible,omitempty"` // absent means visible
}

// CommunityEdge is a serialized aggregated edge.
type CommunityEdge struct {
	Data EdgeData `json:"data"`
}

// EdgeData is the attribute row of a community edge.
type EdgeData struct {
	ID                string   `json:"id"`
	Source            string   `json:"source"`
	Target            string   `json:"target"`
	SourceName        string   `json:"source name"`
	TargetName        string   `json:"target name"`
	EdgeID            string   `json:"edgeID"`
	SBMLID            string   `json:"sbml id"`
	SharedName        string   `json:"shared name,omitempty"`
	Name              string   `json:"name"` // flux key
	Flux              *float64 `json:"flux,omitempty"`
	MinFlux           *float64 `json:"min flux,omitempty"`
	MaxFlux           *float64 `json:"max flux,omitempty"`
	Stoichiometry     float64  `json:"stoichiometry"`
	SharedInteraction string   `json:"shared interaction"` // "IMPORT" or "EXPORT"
	Direction         string   `json:"direction,omitempty"`
	Visible           *bool    `json:"visible,omitempty"` // absent means visible
}
