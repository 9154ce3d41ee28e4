package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/io"
	"github.com/scynet/scynet/pkg/pipeline"
)

func (c *CLI) annotateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "annotate [community.json] [fluxes.tsv]",
		Short: "Annotate a community network with FBA or FVA fluxes",
		Long: `Annotate a community network with fluxes and classify cross-feeding.

The flux table is tab-separated with a "reaction_id" header followed by either
"flux" (FBA) or "min_flux" and "max_flux" (FVA). Rows before the header are
ignored. Edges without flux and edges with zero flux are hidden unless
--show-zero-flux is set; metabolites left without a visible edge are hidden too.

A flux table that cannot be parsed is reported and the network is annotated
as if the table were empty.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnnotate(cmd.Context(), args[0], args[1], c.options(cmd, flags), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.annotated.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "recompute even when cached")
	addAnnotateFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runAnnotate(ctx context.Context, input, fluxPath string, opts pipeline.Options, output string, noCache bool) error {
	g, err := io.ImportCommunity(input)
	if err != nil {
		return fmt.Errorf("load community network %s: %w", input, err)
	}
	t, err := io.ImportFluxTable(fluxPath)
	if err != nil {
		if errors.IsFatal(err) {
			return err
		}
		printWarnings([]error{err})
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Annotating fluxes...")
	spinner.Start()
	out, cacheHit, err := runner.AnnotateWithCacheInfo(ctx, g, t, opts)
	if err != nil {
		spinner.StopWithError("Annotation failed")
		return err
	}
	spinner.Stop()

	if f := opts.FilterOptions(); f != (pipeline.Filters{}) {
		if _, err := pipeline.Filter(out.Graph, f); err != nil {
			return err
		}
	}

	paths, err := io.ExportCommunity(out.Graph, outputPath(output, input, "annotated"))
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Annotated %s", out.Graph.Name())
	for _, p := range paths {
		printFile(p)
	}
	printFluxSummary(out.Summary)
	nodes, edges := out.Graph.VisibleCounts()
	printDetail("%d visible nodes · %d visible edges", nodes, edges)
	printStats(len(out.Graph.Organisms()), len(out.Graph.Metabolites()), out.Graph.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Lay out", fmt.Sprintf("%s layout %s", appName, paths[0]))
	return nil
}
