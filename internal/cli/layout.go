package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scynet/scynet/pkg/io"
	"github.com/scynet/scynet/pkg/pipeline"
)

// layoutCommand creates the layout command for placing a community network.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [community.json]",
		Short: "Place a community network on concentric rings",
		Long: `Place the visible nodes of a community network on concentric rings.

Metabolites shared by three or more organisms sit on the innermost ring,
metabolites between two organisms next, then the organisms, and metabolites
used by a single organism on the outermost ring. The placement is
deterministic; ring radii grow with --org-size and --met-size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], c.options(cmd, flags), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "recompute even when cached")
	addLayoutFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := io.ImportCommunity(input)
	if err != nil {
		return fmt.Errorf("load community network %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	out, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := io.ExportCommunity(out.Graph, outputPath(output, input, "layout"))
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	printRings(out.Layout)
	printStats(len(out.Graph.Organisms()), len(out.Graph.Metabolites()), out.Graph.EdgeCount(), cacheHit)
	return nil
}
