// Package graph provides the JSON wire formats of scynet.
//
// Two Cytoscape-style documents are defined here:
//
//   - [Network]: the original reaction network, read as input
//   - [Community]: the collapsed community network, written as output
//
// Both share the Cytoscape JSON envelope of a "data" object plus "elements"
// holding "nodes" and "edges", each element carrying its attributes under
// "data":
//
//	{
//	  "data": {"name": "ScyNet: community", "collapsed": true},
//	  "elements": {
//	    "nodes": [
//	      {"data": {"id": "org:ecoli", "name": "ecoli", "type": "community member", ...},
//	       "position": {"x": 460, "y": 0}}
//	    ],
//	    "edges": [
//	      {"data": {"source": "met:glc", "target": "org:ecoli", "flux": -10,
//	                "shared interaction": "EXPORT", ...}}
//	    ]
//	  }
//	}
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Network] ↔ pkg/network.Network via [ToNetwork]/[FromNetwork]
//   - [Community] ↔ pkg/community.Graph via [ToCommunity]/[FromCommunity]
//
// Input node data is free-form; every key becomes a declared column so the
// collapser can check that the network came from an SBML import.
//
// # Common Operations
//
//	n, _ := graph.ReadNetworkFile("community.cyjs")    // File → Network
//	data, _ := graph.MarshalCommunity(g)                // Graph → []byte
//	g, _ := graph.ReadCommunityFile("collapsed.json")   // File → Graph
//
// Decode failures carry the INVALID_FORMAT code; missing files carry
// FILE_NOT_FOUND.
package graph
