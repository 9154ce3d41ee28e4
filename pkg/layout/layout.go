package layout

import (
	"math"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
)

// Reference node sizes.
const (
	DefaultOrganismSize   = 150.0
	DefaultMetaboliteSize = 32.0
)

// Options configures [Concentric].
type Options struct {
	OrganismSize   float64 // S_org; defaults to 150
	MetaboliteSize float64 // S_met; defaults to 32
}

// WithDefaults fills zero sizes with the defaults.
func (o Options) WithDefaults() Options {
	if o.OrganismSize <= 0 {
		o.OrganismSize = DefaultOrganismSize
	}
	if o.MetaboliteSize <= 0 {
		o.MetaboliteSize = DefaultMetaboliteSize
	}
	return o
}

// Counts is the number of nodes per ring.
type Counts struct {
	Organisms int `json:"organisms"`
	Singles   int `json:"singles"`
	Doubles   int `json:"doubles"`
	Multis    int `json:"multis"`
}

// Rings holds the radius of each concentric ring.
type Rings struct {
	Multi    float64 `json:"multi"`
	Double   float64 `json:"double"`
	Organism float64 `json:"organism"`
	Single   float64 `json:"single"`
}

// ComputeRings derives ring radii from ring populations. Each ring keeps a
// minimum clearance from the ring inside it.
func ComputeRings(c Counts, opts Options) Rings {
	opts = opts.WithDefaults()
	sOrg, sMet := opts.OrganismSize, opts.MetaboliteSize
	per := func(n int) float64 { return math.Ceil(float64(n) / math.Pi) }

	var r Rings
	r.Multi = per(c.Multis)*sMet + 2*sMet
	r.Double = math.Max(per(c.Doubles)+4*sMet, r.Multi+3*sMet)
	r.Organism = math.Max(per(c.Organisms)*sOrg+2*sOrg, r.Double+2*sOrg)
	r.Single = math.Max(per(c.Singles)*sMet+4*sMet, r.Organism+4*sMet)
	return r
}

// Result describes a computed layout.
type Result struct {
	Rings     Rings                      `json:"rings"`
	Counts    Counts                     `json:"counts"`
	Order     []string                   `json:"order"`            // organism keys in ring order
	Positions map[string]community.Point `json:"positions"`        // by node ID
	Hidden    []string                   `json:"hidden,omitempty"` // metabolites hidden for lack of visible edges
}

// Concentric positions every visible node of g on concentric rings and
// writes the coordinates onto the nodes. Hidden nodes lose their position.
// Metabolites without a visible incident edge are hidden.
//
// g must come from collapsing; otherwise a LAYOUT_PRECONDITION error is
// returned and g is left untouched.
func Concentric(g *community.Graph, opts Options) (*Result, error) {
	if g == nil || !g.IsCollapsed() {
		return nil, errors.New(errors.ErrCodeLayoutPrecondition,
			"network is not a collapsed community network")
	}
	opts = opts.WithDefaults()
	sMet := opts.MetaboliteSize

	g.ClearPositions()
	res := &Result{Positions: make(map[string]community.Point)}

	var organisms []*community.Node
	var singles, doubles, multis []*community.Node
	for _, n := range g.Nodes() {
		if !n.Visible {
			continue
		}
		if n.IsOrganism() {
			organisms = append(organisms, n)
			continue
		}
		switch len(g.VisibleIncident(n.ID)) {
		case 0:
			n.Visible = false
			res.Hidden = append(res.Hidden, n.ID)
		case 1:
			singles = append(singles, n)
		case 2:
			doubles = append(doubles, n)
		default:
			multis = append(multis, n)
		}
	}
	res.Counts = Counts{
		Organisms: len(organisms),
		Singles:   len(singles),
		Doubles:   len(doubles),
		Multis:    len(multis),
	}
	res.Rings = ComputeRings(res.Counts, opts)
	rings := res.Rings

	set := func(n *community.Node, r, theta float64) {
		p := community.Point{X: math.Round(r * math.Cos(theta)), Y: math.Round(r * math.Sin(theta))}
		n.Position = &p
		res.Positions[n.ID] = p
	}

	for i, n := range multis {
		set(n, rings.Multi, 2*math.Pi*float64(i)/float64(len(multis)))
	}

	// Organism ring.
	pairs := NewPairCounts()
	doublePairs := make(map[string][2]string, len(doubles))
	for _, n := range doubles {
		a, b, ok := organismNeighbors(g, n)
		if !ok {
			continue
		}
		doublePairs[n.ID] = [2]string{a, b}
		pairs.Add(a, b)
	}

	keys := make([]string, len(organisms))
	byKey := make(map[string]*community.Node, len(organisms))
	for i, n := range organisms {
		keys[i] = n.Key
		byKey[n.Key] = n
	}
	res.Order = OrderOrganisms(keys, pairs)
	index := make(map[string]int, len(res.Order))
	nOrg := len(res.Order)
	for i, key := range res.Order {
		index[key] = i
		set(byKey[key], rings.Organism, 2*math.Pi*float64(i)/float64(nOrg))
	}

	// Double ring: midpoints of adjacent organisms, the rest spread evenly.
	var spread []*community.Node
	perPair := make(map[Pair]int)
	for _, n := range doubles {
		ends, ok := doublePairs[n.ID]
		if !ok {
			spread = append(spread, n)
			continue
		}
		theta, adjacent := midpoint(index[ends[0]], index[ends[1]], nOrg)
		if !adjacent {
			spread = append(spread, n)
			continue
		}
		p := MakePair(ends[0], ends[1])
		r := rings.Double + 4*sMet + 1.5*sMet*float64(perPair[p])
		perPair[p]++
		set(n, r, theta)
	}
	for i, n := range spread {
		set(n, rings.Double, 2*math.Pi*float64(i)/float64(len(spread)))
	}

	// Single ring: fan out around the neighbor's angle.
	minRad := 2 * sMet / rings.Single
	placedOn := make(map[string]int)
	for _, n := range singles {
		neighbor := g.VisibleIncident(n.ID)[0].Other(n.ID)
		anchor := 0.0
		if other, ok := g.Node(neighbor); ok && other.Position != nil {
			anchor = math.Atan2(other.Position.Y, other.Position.X)
			if other.IsOrganism() {
				anchor = 2 * math.Pi * float64(index[other.Key]) / float64(nOrg)
			}
		}
		k := placedOn[neighbor]
		placedOn[neighbor]++
		set(n, rings.Single, anchor+minRad*fanOffset(k))
	}

	return res, nil
}

// organismNeighbors returns the organism keys at the far end of a double
// metabolite's two visible edges. ok is false unless both are distinct
// organisms.
func organismNeighbors(g *community.Graph, n *community.Node) (a, b string, ok bool) {
	edges := g.VisibleIncident(n.ID)
	if len(edges) != 2 {
		return "", "", false
	}
	x, okX := g.Node(edges[0].Other(n.ID))
	y, okY := g.Node(edges[1].Other(n.ID))
	if !okX || !okY || !x.IsOrganism() || !y.IsOrganism() || x.Key == y.Key {
		return "", "", false
	}
	return x.Key, y.Key, true
}

// midpoint returns the angle halfway between two ring slots and whether
// the slots are adjacent. The first and last slot are adjacent through
// wraparound.
func midpoint(i, j, n int) (float64, bool) {
	if i > j {
		i, j = j, i
	}
	switch {
	case j-i == 1:
	case n > 2 && i == 0 && j == n-1:
		i, j = n-1, n
	default:
		return 0, false
	}
	return 2 * math.Pi * float64(i+j) / float64(2*n), true
}

// fanOffset maps the k-th single on an anchor to a slot offset:
// 0, +1, -1, +2, -2, ...
func fanOffset(k int) float64 {
	off := math.Ceil(float64(k) / 2)
	if k%2 == 0 {
		off = -off
	}
	return off
}
