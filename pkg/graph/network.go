package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/network"
)

// =============================================================================
// Network ↔ network.Network Conversion
// =============================================================================

// ToNetwork decodes the wire form of a reaction network. Every node data key
// is declared as a column. Edges are directed unless "directed" is false.
func ToNetwork(in Network) (*network.Network, error) {
	n := network.New(stringValue(in.Data[KeyName]))

	for i, el := range in.Elements.Nodes {
		id := stringValue(el.Data[KeyID])
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d: missing id", i)
		}
		for k := range el.Data {
			if k != KeyID {
				n.DeclareColumns(k)
			}
		}
		node := network.Node{
			ID:          id,
			Kind:        network.ParseKind(stringValue(el.Data[network.ColumnSBMLType])),
			SBMLID:      stringValue(el.Data[network.ColumnSBMLID]),
			Compartment: stringValue(el.Data[network.ColumnCompartment]),
			SharedName:  stringValue(el.Data[network.ColumnSharedName]),
			Tag:         stringValue(el.Data[network.ColumnTag]),
		}
		if err := n.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %q", id)
		}
	}

	for i, el := range in.Elements.Edges {
		stoich, err := floatValue(el.Data[network.ColumnStoichiometry])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d: stoichiometry", i)
		}
		directed := true
		if d, ok := el.Data[KeyDirected].(bool); ok {
			directed = d
		}
		e := network.Edge{
			Source:        stringValue(el.Data[KeySource]),
			Target:        stringValue(el.Data[KeyTarget]),
			Directed:      directed,
			Role:          network.ParseRole(stringValue(el.Data[network.ColumnInteractionType])),
			Stoichiometry: stoich,
		}
		if err := n.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s→%s", e.Source, e.Target)
		}
	}
	return n, nil
}

// FromNetwork encodes a reaction network. A node field is written when its
// column is declared or the field is set, so decoding the result declares
// every column the network actually uses.
func FromNetwork(n *network.Network) Network {
	out := Network{
		Data: map[string]any{KeyName: n.Name()},
		Elements: Elements{
			Nodes: make([]Element, 0, n.NodeCount()),
			Edges: make([]Element, 0, n.EdgeCount()),
		},
	}
	for _, node := range n.Nodes() {
		data := map[string]any{KeyID: node.ID}
		put := func(col, v string) {
			if v != "" || n.HasColumn(col) {
				data[col] = v
			}
		}
		kind := ""
		if node.Kind != network.KindOther || n.HasColumn(network.ColumnSBMLType) {
			kind = node.Kind.String()
		}
		put(network.ColumnSBMLType, kind)
		put(network.ColumnSBMLID, node.SBMLID)
		put(network.ColumnCompartment, node.Compartment)
		put(network.ColumnSharedName, node.SharedName)
		put(network.ColumnTag, node.Tag)
		out.Elements.Nodes = append(out.Elements.Nodes, Element{Data: data})
	}
	for _, e := range n.Edges() {
		data := map[string]any{
			KeySource:                     e.Source,
			KeyTarget:                     e.Target,
			network.ColumnInteractionType: e.Role.String(),
			network.ColumnStoichiometry:   e.Stoichiometry,
		}
		if !e.Directed {
			data[KeyDirected] = false
		}
		out.Elements.Edges = append(out.Elements.Edges, Element{Data: data})
	}
	return out
}

// =============================================================================
// Internal Helpers
// =============================================================================

// stringValue renders scalar JSON values as strings. Cytoscape exports may
// carry numeric IDs.
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// floatValue accepts numbers and numeric strings. Missing values are zero.
func floatValue(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return x, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return 0, nil
		}
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}
