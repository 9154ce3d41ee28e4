package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/network"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportNetworkTables(t *testing.T) {
	nodes := writeTemp(t, "nodes.tsv",
		"id\tsbml type\tsbml id\tsbml compartment\tshared name\tcyId\n"+
			"c\tcompartment\tmedium\t\t\tmedium\n"+
			"s1\tspecies\tM_glc_medium\tmedium\tGlucose\t\n"+
			"s2\tspecies\tM_a_glc_c\ta_c\t\t\n"+
			"r1\treaction\tR_EX_glc\t\tuptake\t\n")
	edges := writeTemp(t, "edges.csv",
		"source,target,interaction type,stoichiometry,directed\n"+
			"s1,r1,reaction-reactant,1,\n"+
			"r1,s2,reaction-product,1.5,false\n")

	n, err := ImportNetworkTables("tables", nodes, edges)
	if err != nil {
		t.Fatalf("ImportNetworkTables: %v", err)
	}
	if n.NodeCount() != 4 || n.EdgeCount() != 2 {
		t.Fatalf("nodes=%d edges=%d", n.NodeCount(), n.EdgeCount())
	}
	if !n.HasColumn(network.ColumnCompartment) || n.HasColumn(ColumnID) {
		t.Errorf("columns = %v", n.Columns())
	}
	c, _ := n.Node("c")
	if c.Kind != network.KindCompartment || c.Tag != "medium" {
		t.Errorf("compartment = %+v", c)
	}
	e := n.Edges()[1]
	if e.Directed || e.Role != network.RoleProduct || e.Stoichiometry != 1.5 {
		t.Errorf("edge = %+v", e)
	}
}

func TestReadTablesErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes string
		edges string
	}{
		{"MissingID", "sbml type\nspecies\n", "source,target\n"},
		{"DanglingEdge", "id\na\n", "source,target\na,b\n"},
		{"BadStoichiometry", "id\na\n", "source,target,stoichiometry\na,a,x\n"},
		{"Empty", "", "source,target\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := network.New("x")
			err := ReadNodeTable(strings.NewReader(tt.nodes), ',', n)
			if err == nil {
				err = ReadEdgeTable(strings.NewReader(tt.edges), ',', n)
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestImportNetworkUnsupported(t *testing.T) {
	_, err := ImportNetwork("network.sbml")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestImportFluxTable(t *testing.T) {
	path := writeTemp(t, "fluxes.tsv", "reaction_id\tflux\nEX_glc\t-10\n")
	tbl, err := ImportFluxTable(path)
	if err != nil {
		t.Fatalf("ImportFluxTable: %v", err)
	}
	if tbl.Mode != flux.ModeFBA || tbl.Len() != 1 {
		t.Errorf("table = %+v", tbl)
	}

	tbl, err = ImportFluxTable(filepath.Join(t.TempDir(), "missing.tsv"))
	if !errors.Is(err, errors.ErrCodeMalformedFluxFile) {
		t.Errorf("err = %v, want MALFORMED_FLUX_FILE", err)
	}
	if tbl == nil || !tbl.Empty() {
		t.Error("expected an empty table")
	}

	bad := writeTemp(t, "bad.tsv", "reaction_id\tflux\nEX_glc\tnope\n")
	tbl, err = ImportFluxTable(bad)
	if !errors.Is(err, errors.ErrCodeMalformedFluxFile) || !tbl.Empty() {
		t.Errorf("err = %v, table empty = %v", err, tbl.Empty())
	}
}

func sample() *community.Graph {
	g := community.New("demo")
	a := g.AddOrganism("a")
	m := g.AddMetabolite("ac", "Acetate")
	e, _, _ := g.EnsureEdge(a.ID, m.ID)
	e.FluxKey, e.SBMLID = "EX_ac", "EX_ac"
	f := 2.5
	e.Flux = &f
	a.Position = &community.Point{X: 460, Y: 0}
	g.MarkCollapsed()
	return g
}

func TestExportCommunityTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "community.tsv")
	paths, err := ExportCommunity(sample(), path)
	if err != nil {
		t.Fatalf("ExportCommunity: %v", err)
	}
	if len(paths) != 2 || !strings.HasSuffix(paths[0], "community.nodes.tsv") || !strings.HasSuffix(paths[1], "community.edges.tsv") {
		t.Fatalf("paths = %v", paths)
	}

	edges, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(edges)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	want := "org:a-met:ac\torg:a\tmet:ac\ta\tAcetate\tEX_ac\tEX_ac\t2.5\t\t\t0\tIMPORT\tforward\ttrue"
	if lines[1] != want {
		t.Errorf("row = %q\nwant  %q", lines[1], want)
	}
}

func TestWriteNodeTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNodeTable(sample(), &buf, ','); err != nil {
		t.Fatalf("WriteNodeTable: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if got, want := lines[1], "org:a,a,a,community member,,,true,460,0"; got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
	if got, want := lines[2], "met:ac,Acetate,Acetate,exchange metabolite,,,true,,"; got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
}

func TestExportImportCommunityJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "community.json")
	paths, err := ExportCommunity(sample(), path)
	if err != nil {
		t.Fatalf("ExportCommunity: %v", err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Fatalf("paths = %v", paths)
	}
	g, err := ImportCommunity(path)
	if err != nil {
		t.Fatalf("ImportCommunity: %v", err)
	}
	if !g.IsCollapsed() || g.EdgeCount() != 1 {
		t.Errorf("collapsed=%v edges=%d", g.IsCollapsed(), g.EdgeCount())
	}
}
