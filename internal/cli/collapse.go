package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scynet/scynet/pkg/io"
	"github.com/scynet/scynet/pkg/network"
	"github.com/scynet/scynet/pkg/pipeline"
)

// networkInput names a reaction network given either as one Cytoscape JSON
// file or as a node table plus an edge table.
type networkInput struct {
	nodes string
	edges string
}

func (in *networkInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.nodes, "nodes", "", "node table (.tsv or .csv) instead of a JSON network")
	cmd.Flags().StringVar(&in.edges, "edges", "", "edge table (.tsv or .csv), used with --nodes")
	cmd.MarkFlagsRequiredTogether("nodes", "edges")
}

// load reads the network and returns it with the path outputs are named
// after.
func (in *networkInput) load(args []string) (*network.Network, string, error) {
	switch {
	case in.nodes != "" && len(args) > 0:
		return nil, "", fmt.Errorf("give either a network file or --nodes/--edges, not both")
	case in.nodes != "":
		name := strings.TrimSuffix(filepath.Base(in.nodes), filepath.Ext(in.nodes))
		n, err := io.ImportNetworkTables(name, in.nodes, in.edges)
		if err != nil {
			return nil, "", fmt.Errorf("load network tables: %w", err)
		}
		return n, in.nodes, nil
	case len(args) == 0:
		return nil, "", fmt.Errorf("missing network file")
	default:
		n, err := io.ImportNetwork(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("load network %s: %w", args[0], err)
		}
		return n, args[0], nil
	}
}

func (c *CLI) collapseCommand() *cobra.Command {
	var (
		in      networkInput
		output  string
		noCache bool
		flags   pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "collapse [network.json]",
		Short: "Collapse a reaction network into a community network",
		Long: `Collapse a multi-organism reaction network into a community network.

Every organism becomes one node and every metabolite of the shared compartment
that some organism exchanges becomes another. Organisms connect to the
metabolites they import or export; reactions disappear.

The network is a Cytoscape JSON export, or a node and edge table given with
--nodes and --edges. The output format follows the -o extension: .json
(default), .tsv or .csv.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCollapse(cmd.Context(), args, &in, c.options(cmd, flags), output, noCache)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.community.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "recompute even when cached")
	addCollapseFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runCollapse(ctx context.Context, args []string, in *networkInput, opts pipeline.Options, output string, noCache bool) error {
	n, input, err := in.load(args)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Collapsing network...")
	spinner.Start()
	out, cacheHit, err := runner.CollapseWithCacheInfo(ctx, n, opts)
	if err != nil {
		spinner.StopWithError("Collapse failed")
		return err
	}
	spinner.Stop()

	outPath := outputPath(output, input, "community")
	paths, err := io.ExportCommunity(out.Graph, outPath)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printWarnings(out.Warnings)
	printSuccess("Collapsed %s", n.Name())
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(out.Graph.Organisms()), len(out.Graph.Metabolites()), out.Graph.EdgeCount(), cacheHit)
	if filepath.Ext(paths[0]) == ".json" {
		printNewline()
		printNextStep("Annotate", fmt.Sprintf("%s annotate %s fluxes.tsv", appName, paths[0]))
	}
	return nil
}
