package network

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Network.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Network.AddNode] when a node with the
	// same ID already exists. Host-assigned IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Network.AddEdge] when the source
	// node does not exist in the network.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Network.AddEdge] when the target
	// node does not exist in the network.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Column names of the host network tables. A network is only collapsible if
// the species columns below were present in its source table.
const (
	ColumnSBMLType        = "sbml type"
	ColumnSBMLID          = "sbml id"
	ColumnCompartment     = "sbml compartment"
	ColumnSharedName      = "shared name"
	ColumnTag             = "cyId"
	ColumnInteractionType = "interaction type"
	ColumnStoichiometry   = "stoichiometry"
)

// Role tags that mark the nodes carrying the shared compartment.
const (
	TagSharedCompartment = "shared_compartment_id"
	TagMedium            = "medium"
)

// NodeKind is the SBML type of an original node.
type NodeKind int

const (
	// KindOther covers any SBML type the collapser does not interpret.
	KindOther NodeKind = iota
	// KindSpecies is a chemical species living in one compartment.
	KindSpecies
	// KindReaction is a reaction connected to species by role-tagged edges.
	KindReaction
	// KindParameter is a model parameter; one may name the shared compartment.
	KindParameter
	// KindCompartment is a compartment node; "medium" may mark the shared one.
	KindCompartment
)

var kindNames = map[NodeKind]string{
	KindOther:       "other",
	KindSpecies:     "species",
	KindReaction:    "reaction",
	KindParameter:   "parameter",
	KindCompartment: "compartment",
}

// String returns the SBML type name.
func (k NodeKind) String() string { return kindNames[k] }

// ParseKind maps an SBML type name to a NodeKind. Matching is
// case-insensitive; unknown names yield KindOther.
func ParseKind(s string) NodeKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "species":
		return KindSpecies
	case "reaction":
		return KindReaction
	case "parameter":
		return KindParameter
	case "compartment":
		return KindCompartment
	}
	return KindOther
}

// Role is the participation of a species in a reaction, as carried by the
// "interaction type" edge column.
type Role int

const (
	RoleUnspecified Role = iota
	RoleReactant
	RoleProduct
)

// Interaction type values recognized on edges.
const (
	InteractionReactant = "reaction-reactant"
	InteractionProduct  = "reaction-product"
)

// ParseRole maps an interaction type value to a Role.
func ParseRole(s string) Role {
	switch s {
	case InteractionReactant:
		return RoleReactant
	case InteractionProduct:
		return RoleProduct
	}
	return RoleUnspecified
}

// String returns the interaction type value for the role.
func (r Role) String() string {
	switch r {
	case RoleReactant:
		return InteractionReactant
	case RoleProduct:
		return InteractionProduct
	}
	return ""
}

// Node is a vertex of the original reaction network.
type Node struct {
	ID          string // Host-assigned unique identifier
	Kind        NodeKind
	SBMLID      string // Raw SBML identifier, e.g. "M_glc__D_ecoli_e0"
	Compartment string // Compartment key of species nodes
	SharedName  string // Display name; value of the shared compartment for tagged parameters
	Tag         string // Role marker ("shared_compartment_id", "medium")
}

// IsSpecies reports whether the node is a chemical species.
func (n *Node) IsSpecies() bool { return n.Kind == KindSpecies }

// IsReaction reports whether the node is a reaction.
func (n *Node) IsReaction() bool { return n.Kind == KindReaction }

// Edge is a connection between a reaction and a species. Undirected edges
// are reachable from both endpoints through [Network.Undirected].
type Edge struct {
	Source        string
	Target        string
	Directed      bool
	Role          Role
	Stoichiometry float64
}

// Other returns the endpoint of e that is not id.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Network is the original, uncollapsed reaction network.
//
// Nodes and edges are kept in insertion order so every traversal is
// deterministic. The zero value is not usable; create instances with [New].
// Network is not safe for concurrent mutation.
type Network struct {
	name       string
	nodes      map[string]*Node
	order      []*Node
	edges      []Edge
	outgoing   map[string][]int
	incoming   map[string][]int
	undirected map[string][]int
	columns    map[string]bool
}

// New creates an empty network with the given display name.
func New(name string) *Network {
	return &Network{
		name:       name,
		nodes:      make(map[string]*Node),
		outgoing:   make(map[string][]int),
		incoming:   make(map[string][]int),
		undirected: make(map[string][]int),
		columns:    make(map[string]bool),
	}
}

// Name returns the network's display name.
func (n *Network) Name() string { return n.name }

// DeclareColumns records that the source node table carried the named
// columns. Readers call this for every attribute key they encounter.
func (n *Network) DeclareColumns(names ...string) {
	for _, c := range names {
		n.columns[c] = true
	}
}

// HasColumn reports whether the node table carried the named column.
func (n *Network) HasColumn(name string) bool { return n.columns[name] }

// Columns returns the declared column names in sorted order.
func (n *Network) Columns() []string {
	out := make([]string, 0, len(n.columns))
	for c := range n.columns {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID or
// ErrDuplicateNodeID when the ID is taken.
func (n *Network) AddNode(node Node) error {
	if node.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := n.nodes[node.ID]; exists {
		return ErrDuplicateNodeID
	}
	p := &node
	n.nodes[p.ID] = p
	n.order = append(n.order, p)
	return nil
}

// AddEdge adds an edge between two existing nodes. Parallel edges are
// allowed; their stoichiometries are summed by consumers.
func (n *Network) AddEdge(e Edge) error {
	if _, ok := n.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := n.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	idx := len(n.edges)
	n.edges = append(n.edges, e)
	if e.Directed {
		n.outgoing[e.Source] = append(n.outgoing[e.Source], idx)
		n.incoming[e.Target] = append(n.incoming[e.Target], idx)
		return nil
	}
	n.undirected[e.Source] = append(n.undirected[e.Source], idx)
	if e.Target != e.Source {
		n.undirected[e.Target] = append(n.undirected[e.Target], idx)
	}
	return nil
}

// Node returns the node with the given ID.
func (n *Network) Node(id string) (*Node, bool) {
	node, ok := n.nodes[id]
	return node, ok
}

// Nodes returns all nodes in insertion order.
func (n *Network) Nodes() []*Node { return slices.Clone(n.order) }

// Edges returns all edges in insertion order.
func (n *Network) Edges() []Edge { return slices.Clone(n.edges) }

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int { return len(n.order) }

// EdgeCount returns the number of edges.
func (n *Network) EdgeCount() int { return len(n.edges) }

// Outgoing returns directed edges whose source is id.
func (n *Network) Outgoing(id string) []Edge { return n.collect(n.outgoing[id]) }

// Incoming returns directed edges whose target is id.
func (n *Network) Incoming(id string) []Edge { return n.collect(n.incoming[id]) }

// Undirected returns undirected edges touching id.
func (n *Network) Undirected(id string) []Edge { return n.collect(n.undirected[id]) }

// Adjacent returns every edge touching id: incoming, then outgoing, then
// undirected.
func (n *Network) Adjacent(id string) []Edge {
	out := n.Incoming(id)
	out = append(out, n.Outgoing(id)...)
	return append(out, n.Undirected(id)...)
}

// Neighbors returns the distinct nodes adjacent to id in edge order.
func (n *Network) Neighbors(id string) []*Node {
	seen := make(map[string]bool)
	var out []*Node
	for _, e := range n.Adjacent(id) {
		other := e.Other(id)
		if seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, n.nodes[other])
	}
	return out
}

// Connecting returns every edge directly joining a and b, in either direction.
func (n *Network) Connecting(a, b string) []Edge {
	var out []Edge
	for _, e := range n.Adjacent(a) {
		if e.Other(a) == b {
			out = append(out, e)
		}
	}
	return out
}

func (n *Network) collect(idx []int) []Edge {
	out := make([]Edge, 0, len(idx))
	for _, i := range idx {
		out = append(out, n.edges[i])
	}
	return out
}
