// Package flux loads flux tables and annotates community networks with them.
//
// Two table shapes are recognized by their header row:
//
//	reaction_id	flux                 FBA, one value per reaction
//	reaction_id	min_flux	max_flux     FVA, a range per reaction
//
// [Annotate] copies values onto edges through their flux key and classifies
// exchange metabolites as cross-fed. Under FBA a metabolite is cross-fed when
// its edges carry both a negative and a positive flux. Under FVA the test is
// organism-aware; see [CrossFedFVA].
package flux
