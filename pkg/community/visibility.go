package community

// ToggleZeroFlux flips the visibility of edges whose flux is exactly zero.
// If every zero-flux edge is already hidden they are shown again together
// with their endpoints; otherwise they are all hidden. Edges without flux
// data are never touched. Singletons are hidden afterwards.
//
// The returned value reports whether zero-flux edges are now visible.
func (g *Graph) ToggleZeroFlux() bool {
	allHidden := true
	for _, e := range g.edges {
		if e.Flux != nil && *e.Flux == 0 && e.Visible {
			allHidden = false
			break
		}
	}

	for _, e := range g.edges {
		if e.Flux == nil || *e.Flux != 0 {
			continue
		}
		e.Visible = allHidden
		if allHidden {
			g.nodes[e.Source].Visible = true
			g.nodes[e.Target].Visible = true
		}
	}
	g.HideSingletons()
	return allHidden
}

// ToggleOnlyCrossFed flips the visibility of nodes classified as not
// cross-fed. Unclassified nodes are never touched. Singletons are hidden
// afterwards.
//
// The returned value reports whether non-cross-fed nodes are now visible.
func (g *Graph) ToggleOnlyCrossFed() bool {
	var targets []*Node
	allHidden := true
	for _, n := range g.order {
		if n.CrossFed == nil || *n.CrossFed {
			continue
		}
		targets = append(targets, n)
		if n.Visible {
			allHidden = false
		}
	}
	for _, n := range targets {
		n.Visible = allHidden
	}
	g.HideSingletons()
	return allHidden
}

// HideSingletons hides visible exchange metabolites that have no visible
// incident edge. It returns the number of nodes hidden.
func (g *Graph) HideSingletons() int {
	hidden := 0
	for _, n := range g.order {
		if !n.Visible || !n.IsMetabolite() {
			continue
		}
		visible := false
		for _, e := range g.incident[n.ID] {
			if e.Visible {
				visible = true
				break
			}
		}
		if !visible {
			n.Visible = false
			hidden++
		}
	}
	return hidden
}

// ShowAll makes every node and edge visible.
func (g *Graph) ShowAll() {
	for _, n := range g.order {
		n.Visible = true
	}
	for _, e := range g.edges {
		e.Visible = true
	}
}

// VisibleCounts returns the number of visible nodes and edges.
func (g *Graph) VisibleCounts() (nodes, edges int) {
	for _, n := range g.order {
		if n.Visible {
			nodes++
		}
	}
	for _, e := range g.edges {
		if e.Visible {
			edges++
		}
	}
	return nodes, edges
}
