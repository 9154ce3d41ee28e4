package community

import (
	"errors"
	"math"
	"slices"
)

var (
	// ErrUnknownNode is returned by [Graph.EnsureEdge] when an endpoint does
	// not exist in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.EnsureEdge] when source and target
	// are the same node. Collapsed networks never carry self-loops.
	ErrSelfLoop = errors.New("self-loop")
)

// NodeKind distinguishes organisms from exchanged metabolites.
type NodeKind int

const (
	// KindOrganism is a community member collapsed from all its compartments.
	KindOrganism NodeKind = iota
	// KindExchangeMetabolite is one chemical species of the shared compartment.
	KindExchangeMetabolite
)

// Type column values written for each kind.
const (
	TypeOrganism           = "community member"
	TypeExchangeMetabolite = "exchange metabolite"
)

// String returns the "type" column value of the kind.
func (k NodeKind) String() string {
	if k == KindOrganism {
		return TypeOrganism
	}
	return TypeExchangeMetabolite
}

// ParseKind maps a "type" column value to a NodeKind.
func ParseKind(s string) (NodeKind, bool) {
	switch s {
	case TypeOrganism:
		return KindOrganism, true
	case TypeExchangeMetabolite:
		return KindExchangeMetabolite, true
	}
	return 0, false
}

// Interaction is the role tag of a simplified edge.
type Interaction int

const (
	// Import marks an edge carrying a metabolite out of the shared compartment
	// into an organism or between organisms.
	Import Interaction = iota
	// Export marks an edge whose source is an exchange metabolite.
	Export
)

// String returns "IMPORT" or "EXPORT".
func (i Interaction) String() string {
	if i == Export {
		return "EXPORT"
	}
	return "IMPORT"
}

// ParseInteraction maps "IMPORT"/"EXPORT" to an Interaction.
func ParseInteraction(s string) Interaction {
	if s == "EXPORT" {
		return Export
	}
	return Import
}

// Point is a laid-out coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex of the community network.
type Node struct {
	ID         string // Stable identifier derived from Kind and Key
	Kind       NodeKind
	Key        string // Organism key or chemical identity
	Name       string
	SharedName string

	// CrossFed is nil until flux data has been applied.
	CrossFed *bool
	// TotalFlux is the summed absolute flux over incident edges.
	TotalFlux *float64

	Visible  bool
	Position *Point
}

// IsOrganism reports whether the node is a community member.
func (n *Node) IsOrganism() bool { return n.Kind == KindOrganism }

// IsMetabolite reports whether the node is an exchange metabolite.
func (n *Node) IsMetabolite() bool { return n.Kind == KindExchangeMetabolite }

// IsCrossFed reports whether the node has been classified as cross-fed.
func (n *Node) IsCrossFed() bool { return n.CrossFed != nil && *n.CrossFed }

// Edge is an aggregated connection between two community nodes.
type Edge struct {
	ID            string // "source-target"
	Source        string
	Target        string
	SBMLID        string // Reaction identifier with the "R_" prefix removed
	SharedName    string // Display name of the first contributing reaction
	FluxKey       string
	Stoichiometry float64
	Interaction   Interaction

	// Flux is the FBA value, or max(|min|,|max|) under FVA. Nil means no data.
	Flux    *float64
	MinFlux *float64
	MaxFlux *float64

	Visible bool
}

// Other returns the endpoint that is not id.
func (e *Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// HasFlux reports whether any flux value is attached.
func (e *Edge) HasFlux() bool { return e.Flux != nil || e.MinFlux != nil || e.MaxFlux != nil }

// Direction classifies the flux carried by an edge.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionZero
	DirectionForward
	DirectionReverse
	DirectionBidirectional
)

var directionNames = [...]string{"unknown", "zero", "forward", "reverse", "bidirectional"}

// String returns the lowercase direction name.
func (d Direction) String() string { return directionNames[d] }

// Direction derives the flux direction. FVA ranges spanning zero are
// bidirectional; ranges of [0,0] and FBA fluxes of exactly zero are zero.
func (e *Edge) Direction() Direction {
	if e.MinFlux != nil || e.MaxFlux != nil {
		lo, hi := deref(e.MinFlux), deref(e.MaxFlux)
		switch {
		case lo < 0 && hi > 0:
			return DirectionBidirectional
		case hi > 0:
			return DirectionForward
		case lo < 0:
			return DirectionReverse
		}
		return DirectionZero
	}
	if e.Flux == nil {
		return DirectionUnknown
	}
	switch f := *e.Flux; {
	case f > 0:
		return DirectionForward
	case f < 0:
		return DirectionReverse
	}
	return DirectionZero
}

// IsZeroFlux reports whether flux data is attached and all of it is zero.
func (e *Edge) IsZeroFlux() bool {
	return e.HasFlux() && e.Direction() == DirectionZero
}

// AbsFlux returns |Flux|, or 0 without data.
func (e *Edge) AbsFlux() float64 { return math.Abs(deref(e.Flux)) }

// ClearFlux drops all flux values.
func (e *Edge) ClearFlux() {
	e.Flux, e.MinFlux, e.MaxFlux = nil, nil, nil
}

type pair struct{ source, target string }

// Graph is the collapsed community network.
//
// Topology (nodes, edges, keys) is fixed once the collapser finishes; later
// stages only mutate flux values, cross-fed status, visibility and
// positions. Iteration order is insertion order throughout.
//
// The zero value is not usable; create instances with [New].
type Graph struct {
	name      string
	nodes     map[string]*Node
	order     []*Node
	edges     []*Edge
	byPair    map[pair]*Edge
	incident  map[string][]*Edge
	collapsed bool
	annotated bool
}

// New creates an empty community graph.
func New(name string) *Graph {
	return &Graph{
		name:     name,
		nodes:    make(map[string]*Node),
		byPair:   make(map[pair]*Edge),
		incident: make(map[string][]*Edge),
	}
}

// Name returns the graph's display name.
func (g *Graph) Name() string { return g.name }

// MarkCollapsed flags the graph as the product of a collapse. Layout and
// annotation refuse graphs without this marker.
func (g *Graph) MarkCollapsed() { g.collapsed = true }

// IsCollapsed reports whether the graph carries the collapse marker.
func (g *Graph) IsCollapsed() bool { return g.collapsed }

// MarkAnnotated records that cross-fed status has been computed.
func (g *Graph) MarkAnnotated() { g.annotated = true }

// IsAnnotated reports whether flux data has been applied.
func (g *Graph) IsAnnotated() bool { return g.annotated }

// OrganismID returns the node ID used for an organism key.
func OrganismID(key string) string { return "org:" + key }

// MetaboliteID returns the node ID used for a chemical identity.
func MetaboliteID(identity string) string { return "met:" + identity }

// AddOrganism returns the organism node for key, creating it on first use.
func (g *Graph) AddOrganism(key string) *Node {
	return g.addNode(&Node{
		ID:         OrganismID(key),
		Kind:       KindOrganism,
		Key:        key,
		Name:       key,
		SharedName: key,
		Visible:    true,
	})
}

// AddMetabolite returns the exchange metabolite node for identity, creating
// it on first use. The display name of an existing node is not changed.
func (g *Graph) AddMetabolite(identity, name string) *Node {
	if name == "" {
		name = identity
	}
	return g.addNode(&Node{
		ID:         MetaboliteID(identity),
		Kind:       KindExchangeMetabolite,
		Key:        identity,
		Name:       name,
		SharedName: name,
		Visible:    true,
	})
}

// AddNode inserts a fully specified node, keeping an existing node with the
// same ID. Readers use it to restore serialized graphs.
func (g *Graph) AddNode(n Node) *Node {
	return g.addNode(&n)
}

func (g *Graph) addNode(n *Node) *Node {
	if existing, ok := g.nodes[n.ID]; ok {
		return existing
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n)
	return n
}

// EnsureEdge returns the edge from source to target, creating it if no edge
// with that ordered pair exists. created reports whether a new edge was made.
func (g *Graph) EnsureEdge(source, target string) (e *Edge, created bool, err error) {
	if _, ok := g.nodes[source]; !ok {
		return nil, false, ErrUnknownNode
	}
	if _, ok := g.nodes[target]; !ok {
		return nil, false, ErrUnknownNode
	}
	if source == target {
		return nil, false, ErrSelfLoop
	}
	k := pair{source, target}
	if e, ok := g.byPair[k]; ok {
		return e, false, nil
	}
	e = &Edge{
		ID:      EdgeID(source, target),
		Source:  source,
		Target:  target,
		Visible: true,
	}
	g.byPair[k] = e
	g.edges = append(g.edges, e)
	g.incident[source] = append(g.incident[source], e)
	g.incident[target] = append(g.incident[target], e)
	return e, true, nil
}

// EdgeID returns the identifier of the edge joining two node IDs.
func EdgeID(source, target string) string {
	return source + "-" + target
}

// Edge returns the edge for an ordered pair.
func (g *Graph) Edge(source, target string) (*Edge, bool) {
	e, ok := g.byPair[pair{source, target}]
	return e, ok
}

// Node returns a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.order) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Incident returns the edges touching id in insertion order.
func (g *Graph) Incident(id string) []*Edge { return slices.Clone(g.incident[id]) }

// Organisms returns the organism nodes in insertion order.
func (g *Graph) Organisms() []*Node { return g.filter(KindOrganism) }

// Metabolites returns the exchange metabolite nodes in insertion order.
func (g *Graph) Metabolites() []*Node { return g.filter(KindExchangeMetabolite) }

func (g *Graph) filter(kind NodeKind) []*Node {
	var out []*Node
	for _, n := range g.order {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// VisibleIncident returns the visible edges touching id whose opposite
// endpoint is also visible.
func (g *Graph) VisibleIncident(id string) []*Edge {
	var out []*Edge
	for _, e := range g.incident[id] {
		if !e.Visible {
			continue
		}
		if other := g.nodes[e.Other(id)]; other != nil && other.Visible {
			out = append(out, e)
		}
	}
	return out
}

// ClearPositions removes all coordinates.
func (g *Graph) ClearPositions() {
	for _, n := range g.order {
		n.Position = nil
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
