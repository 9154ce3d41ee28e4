// Package layout places a community network on concentric rings.
//
// The placement is purely topological and deterministic. Exchange
// metabolites are classified by their number of visible edges:
//
//	1 edge    single  outermost ring, fanned around its organism
//	2 edges   double  between the organisms it links
//	3+ edges  multi   innermost ring
//
// Organisms sit on their own ring, ordered by [OrderOrganisms] so that
// organisms sharing many double metabolites are neighbors. From the inside
// out the rings are multi, double, organism, single; see [ComputeRings].
package layout
