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
	"github.com/scynet/scynet/pkg/graph"
)

// Header rows of the tabular community export.
var (
	NodeTableHeader = []string{"id", "name", "shared name", "type", "cross-fed", "total flux", "visible", "x", "y"}
	EdgeTableHeader = []string{
		"id", "source", "target", "source name", "target name", "sbml id", "name",
		"flux", "min flux", "max flux", "stoichiometry", "shared interaction", "direction", "visible",
	}
)

// ExportCommunity writes g to path. A ".tsv" or ".csv" path produces two
// tables, "<base>.nodes<ext>" and "<base>.edges<ext>"; any other path gets
// Cytoscape JSON. It returns the paths written.
func ExportCommunity(g *community.Graph, path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".tsv" && ext != ".csv" {
		if err := graph.WriteCommunityFile(g, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	nodesPath := base + ".nodes" + ext
	edgesPath := base + ".edges" + ext
	sep := Separator(path)

	if err := writeFile(nodesPath, func(w io.Writer) error { return WriteNodeTable(g, w, sep) }); err != nil {
		return nil, err
	}
	if err := writeFile(edgesPath, func(w io.Writer) error { return WriteEdgeTable(g, w, sep) }); err != nil {
		return nil, err
	}
	return []string{nodesPath, edgesPath}, nil
}

// WriteNodeTable writes one row per community node.
func WriteNodeTable(g *community.Graph, w io.Writer, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(NodeTableHeader); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		var x, y string
		if n.Position != nil {
			x, y = formatFloat(n.Position.X), formatFloat(n.Position.Y)
		}
		row := []string{
			n.ID, n.Name, n.SharedName, n.Kind.String(),
			formatBool(n.CrossFed), formatFloatPtr(n.TotalFlux),
			strconv.FormatBool(n.Visible), x, y,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdgeTable writes one row per community edge.
func WriteEdgeTable(g *community.Graph, w io.Writer, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(EdgeTableHeader); err != nil {
		return err
	}
	name := func(id string) string {
		if n, ok := g.Node(id); ok {
			return n.Name
		}
		return ""
	}
	for _, e := range g.Edges() {
		direction := ""
		if d := e.Direction(); d != community.DirectionUnknown {
			direction = d.String()
		}
		row := []string{
			e.ID, e.Source, e.Target, name(e.Source), name(e.Target), e.SBMLID, e.FluxKey,
			formatFloatPtr(e.Flux), formatFloatPtr(e.MinFlux), formatFloatPtr(e.MaxFlux),
			formatFloat(e.Stoichiometry), e.Interaction.String(), direction,
			strconv.FormatBool(e.Visible),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
