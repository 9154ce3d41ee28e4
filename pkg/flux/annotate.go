package flux

import (
	"math"

	"github.com/scynet/scynet/pkg/community"
)

// Summary reports what an annotation pass did.
type Summary struct {
	Mode     Mode `json:"mode"`
	Edges    int  `json:"edges"`     // edges that received flux data
	Zero     int  `json:"zero"`      // edges whose flux is exactly zero
	CrossFed int  `json:"cross_fed"` // metabolites classified as cross-fed
	Hidden   int  `json:"hidden"`    // metabolites hidden because no visible edge remained
}

// Annotate writes flux values from t onto every edge of g and classifies
// every exchange metabolite as cross-fed or not. Earlier flux attributes are
// cleared first, so repeated calls never accumulate.
//
// When t carries no data, edges are left without flux and no node is
// classified; the graph is still marked annotated. Visibility derived from
// an earlier table is reset before the new values are applied.
func Annotate(g *community.Graph, t *Table) Summary {
	s := Summary{Mode: ModeNone}
	if t != nil {
		s.Mode = t.Mode
	}
	if g.IsAnnotated() {
		g.ShowAll()
	}

	for _, e := range g.Edges() {
		e.ClearFlux()
		applyEdge(e, t)
		if e.Flux != nil {
			s.Edges++
			if *e.Flux == 0 {
				s.Zero++
			}
		}
	}

	for _, n := range g.Nodes() {
		n.CrossFed = nil
		n.TotalFlux = nil
	}
	if !t.Empty() {
		for _, n := range g.Nodes() {
			total := TotalFlux(g.Incident(n.ID))
			n.TotalFlux = &total
			if !n.IsMetabolite() {
				continue
			}
			var fed bool
			if t.Mode == ModeFVA {
				fed = CrossFedFVA(g, n)
			} else {
				fed = CrossFedFBA(g.Incident(n.ID))
			}
			n.CrossFed = &fed
			if fed {
				s.CrossFed++
			}
		}
		s.Hidden = ApplyVisibility(g)
	}

	g.MarkAnnotated()
	return s
}

func applyEdge(e *community.Edge, t *Table) {
	if t.Empty() || e.FluxKey == "" {
		return
	}
	switch t.Mode {
	case ModeFBA:
		e.Flux = t.Lookup(e.FluxKey)
	case ModeFVA:
		lo, hi, ok := t.Range(e.FluxKey)
		if !ok {
			return
		}
		v := math.Max(math.Abs(lo), math.Abs(hi))
		e.Flux = &v
		e.MinFlux = &lo
		e.MaxFlux = &hi
	}
}

// TotalFlux sums the absolute flux of edges carrying a nonzero value.
func TotalFlux(edges []*community.Edge) float64 {
	var total float64
	for _, e := range edges {
		total += e.AbsFlux()
	}
	return total
}

// CrossFedFBA reports whether edges carry at least one strictly negative and
// at least one strictly positive flux.
func CrossFedFBA(edges []*community.Edge) bool {
	var neg, pos bool
	for _, e := range edges {
		if e.Flux == nil {
			continue
		}
		switch {
		case *e.Flux < 0:
			neg = true
		case *e.Flux > 0:
			pos = true
		}
	}
	return neg && pos
}

// CrossFedFVA classifies a metabolite from the flux ranges of its edges. An
// organism joins the positive set when its edge's max flux is positive and
// the negative set when its min flux is negative. The metabolite is
// cross-fed when some positive organism p satisfies either
//
//   - the negative set has more than one member and contains p, or
//   - the negative set is non-empty and does not contain p.
func CrossFedFVA(g *community.Graph, met *community.Node) bool {
	pos := make(map[string]bool)
	neg := make(map[string]bool)
	for _, e := range g.Incident(met.ID) {
		other, ok := g.Node(e.Other(met.ID))
		if !ok || !other.IsOrganism() {
			continue
		}
		if e.MaxFlux != nil && *e.MaxFlux > 0 {
			pos[other.Key] = true
		}
		if e.MinFlux != nil && *e.MinFlux < 0 {
			neg[other.Key] = true
		}
	}
	return crossFed(pos, neg)
}

func crossFed(pos, neg map[string]bool) bool {
	for p := range pos {
		if (len(neg) > 1 && neg[p]) || (len(neg) > 0 && !neg[p]) {
			return true
		}
	}
	return false
}

// ApplyVisibility hides zero-flux edges and shows edges carrying nonzero
// flux together with their endpoints. Metabolites left without a visible
// edge are hidden; the count of those is returned.
func ApplyVisibility(g *community.Graph) int {
	for _, e := range g.Edges() {
		if e.Flux == nil {
			continue
		}
		if *e.Flux == 0 {
			e.Visible = false
			continue
		}
		e.Visible = true
		for _, id := range []string{e.Source, e.Target} {
			if n, ok := g.Node(id); ok {
				n.Visible = true
			}
		}
	}
	return g.HideSingletons()
}
