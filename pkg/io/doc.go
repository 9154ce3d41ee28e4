// Package io reads and writes scynet's files.
//
// # Input
//
// A reaction network arrives either as Cytoscape JSON ([ImportNetwork]) or
// as a pair of node and edge tables exported from Cytoscape
// ([ImportNetworkTables]). Tables are tab-separated unless the file name
// ends in ".csv". The node table needs an "id" column (or "shared name")
// plus the SBML columns; the edge table needs "source" and "target":
//
//	id	sbml type	sbml id	sbml compartment	shared name
//	s1	species	M_glc__D_e0	e0	D-Glucose
//
//	source	target	interaction type	stoichiometry
//	s1	r1	reaction-reactant	1
//
// Flux tables are read with [ImportFluxTable]; see pkg/flux for the format.
// An unreadable flux file is reported as MALFORMED_FLUX_FILE together with
// an empty table, never as a missing table.
//
// # Output
//
// [ExportCommunity] picks the format from the path: ".json" (or anything
// unrecognized) writes Cytoscape JSON, ".tsv" and ".csv" write a node table
// and an edge table side by side:
//
//	io.ExportCommunity(g, "out/community.tsv")
//	// out/community.nodes.tsv
//	// out/community.edges.tsv
//
// JSON output can be read back with [ImportCommunity].
package io
