// Package community holds the simplified community network produced by
// collapsing a multi-organism reaction network.
//
// A [Graph] has two kinds of [Node]: one per organism ("community member")
// and one per chemical species exchanged through the shared compartment
// ("exchange metabolite"). Each [Edge] aggregates every reactant/product
// pair of the original network that maps onto the same ordered pair of
// community nodes; [Graph.EnsureEdge] implements that create-or-reuse rule.
//
// After collapsing, topology is frozen. Later stages only write:
//
//   - flux values and cross-fed status (pkg/flux)
//   - visibility ([Graph.ToggleZeroFlux], [Graph.ToggleOnlyCrossFed],
//     [Graph.HideSingletons])
//   - positions (pkg/layout)
//
// All iteration happens in insertion order, which makes every downstream
// result reproducible.
package community
