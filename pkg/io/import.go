package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/graph"
	"github.com/scynet/scynet/pkg/network"
)

// Column names of tabular network exports besides the SBML columns.
const (
	ColumnID       = "id"
	ColumnSource   = "source"
	ColumnTarget   = "target"
	ColumnDirected = "directed"
)

// ImportNetwork reads a reaction network from a Cytoscape JSON file
// (.json or .cyjs).
func ImportNetwork(path string) (*network.Network, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".cyjs":
		return graph.ReadNetworkFile(path)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unsupported network file %s: expected .json or .cyjs", path)
	}
}

// ImportNetworkTables reads a reaction network from a node table and an
// edge table exported from Cytoscape. The separator of each file is chosen
// from its extension: ".csv" is comma-separated, anything else tab.
func ImportNetworkTables(name, nodePath, edgePath string) (*network.Network, error) {
	n := network.New(name)

	nf, err := os.Open(nodePath)
	if err != nil {
		return nil, openError(nodePath, err)
	}
	defer nf.Close()
	if err := ReadNodeTable(nf, Separator(nodePath), n); err != nil {
		return nil, fmt.Errorf("%s: %w", nodePath, err)
	}

	ef, err := os.Open(edgePath)
	if err != nil {
		return nil, openError(edgePath, err)
	}
	defer ef.Close()
	if err := ReadEdgeTable(ef, Separator(edgePath), n); err != nil {
		return nil, fmt.Errorf("%s: %w", edgePath, err)
	}
	return n, nil
}

// ReadNodeTable adds one node per data row of r to n. The header row names
// the columns; every header other than "id" is declared on n. Rows without
// an "id" value fall back to their "shared name".
func ReadNodeTable(r io.Reader, sep rune, n *network.Network) error {
	header, rows, err := readTable(r, sep)
	if err != nil {
		return err
	}
	for _, h := range header {
		if h != ColumnID {
			n.DeclareColumns(h)
		}
	}
	for i, row := range rows {
		get := field(header, row)
		id := get(ColumnID)
		if id == "" {
			id = get(network.ColumnSharedName)
		}
		if id == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "row %d: missing id", i+2)
		}
		node := network.Node{
			ID:          id,
			Kind:        network.ParseKind(get(network.ColumnSBMLType)),
			SBMLID:      get(network.ColumnSBMLID),
			Compartment: get(network.ColumnCompartment),
			SharedName:  get(network.ColumnSharedName),
			Tag:         get(network.ColumnTag),
		}
		if err := n.AddNode(node); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d: node %q", i+2, id)
		}
	}
	return nil
}

// ReadEdgeTable adds one edge per data row of r to n. Rows need "source"
// and "target" columns naming existing nodes. Edges are directed unless the
// "directed" column says "false".
func ReadEdgeTable(r io.Reader, sep rune, n *network.Network) error {
	header, rows, err := readTable(r, sep)
	if err != nil {
		return err
	}
	for i, row := range rows {
		get := field(header, row)
		stoich := 0.0
		if s := get(network.ColumnStoichiometry); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d: stoichiometry", i+2)
			}
			stoich = v
		}
		e := network.Edge{
			Source:        get(ColumnSource),
			Target:        get(ColumnTarget),
			Directed:      !strings.EqualFold(get(ColumnDirected), "false"),
			Role:          network.ParseRole(get(network.ColumnInteractionType)),
			Stoichiometry: stoich,
		}
		if err := n.AddEdge(e); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d: edge %s→%s", i+2, e.Source, e.Target)
		}
	}
	return nil
}

// ImportFluxTable reads a flux table file. An unreadable or malformed file
// yields MALFORMED_FLUX_FILE together with an empty table, so callers may
// continue without flux data.
func ImportFluxTable(path string) (*flux.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return flux.NewTable(flux.ModeNone), errors.Wrap(errors.ErrCodeMalformedFluxFile, err, "open %s", path)
	}
	defer f.Close()
	t, err := flux.Parse(f)
	if err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ImportCommunity reads a community network written by [ExportCommunity]
// in JSON form.
func ImportCommunity(path string) (*community.Graph, error) {
	return graph.ReadCommunityFile(path)
}

// Separator returns ',' for .csv files and '\t' otherwise.
func Separator(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return '\t'
}

// =============================================================================
// Internal Helpers
// =============================================================================

func readTable(r io.Reader, sep rune) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read table")
	}
	if len(records) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "empty table")
	}
	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	return header, records[1:], nil
}

// field returns a lookup of row values by header name.
func field(header, row []string) func(string) string {
	return func(name string) string {
		for i, h := range header {
			if h == name && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}
}

func openError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
