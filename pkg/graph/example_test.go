package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/graph"
)

func ExampleWriteCommunity() {
	g := community.New("ScyNet: demo")
	org := g.AddOrganism("ecoli")
	met := g.AddMetabolite("ac", "Acetate")
	e, _, _ := g.EnsureEdge(org.ID, met.ID)
	e.SBMLID, e.FluxKey = "EX_ac_ecoli", "EX_ac_ecoli"
	e.Stoichiometry = 1
	g.MarkCollapsed()

	var buf bytes.Buffer
	if err := graph.WriteCommunity(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "data": {
	//     "name": "ScyNet: demo",
	//     "collapsed": true
	//   },
	//   "elements": {
	//     "nodes": [
	//       {
	//         "data": {
	//           "id": "org:ecoli",
	//           "key": "ecoli",
	//           "name": "ecoli",
	//           "shared name": "ecoli",
	//           "type": "community member",
	//           "visible": true
	//         }
	//       },
	//       {
	//         "data": {
	//           "id": "met:ac",
	//           "key": "ac",
	//           "name": "Acetate",
	//           "shared name": "Acetate",
	//           "type": "exchange metabolite",
	//           "visible": true
	//         }
	//       }
	//     ],
	//     "edges": [
	//       {
	//         "data": {
	//           "id": "org:ecoli-met:ac",
	//           "source": "org:ecoli",
	//           "target": "met:ac",
	//           "source name": "ecoli",
	//           "target name": "Acetate",
	//           "edgeID": "org:ecoli-met:ac",
	//           "sbml id": "EX_ac_ecoli",
	//           "name": "EX_ac_ecoli",
	//           "stoichiometry": 1,
	//           "shared interaction": "IMPORT",
	//           "visible": true
	//         }
	//       }
	//     ]
	//   }
	// }
}

func ExampleReadNetwork() {
	input := `{
		"data": {"name": "demo"},
		"elements": {
			"nodes": [
				{"data": {"id": "s1", "sbml type": "species", "sbml compartment": "medium"}},
				{"data": {"id": "r1", "sbml type": "reaction"}}
			],
			"edges": [
				{"data": {"source": "s1", "target": "r1", "interaction type": "reaction-reactant", "stoichiometry": 1}}
			]
		}
	}`

	n, err := graph.ReadNetwork(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Name:", n.Name())
	fmt.Println("Nodes:", n.NodeCount())
	fmt.Println("Columns:", n.Columns())
	// Output:
	// Name: demo
	// Nodes: 2
	// Columns: [sbml compartment sbml type]
}
