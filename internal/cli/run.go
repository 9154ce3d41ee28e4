package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/io"
	"github.com/scynet/scynet/pkg/pipeline"
)

func (c *CLI) runCommand() *cobra.Command {
	var (
		in       networkInput
		fluxPath string
		output   string
		noCache  bool
		flags    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "run [network.json]",
		Short: "Collapse, annotate and lay out a network in one go",
		Long: `Run the whole pipeline: collapse the reaction network, annotate it with the
flux table given by --flux (if any) and place it on concentric rings.

Each stage is cached separately, so changing only the layout sizes reuses the
collapsed and annotated network.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPipeline(cmd.Context(), args, &in, fluxPath, c.options(cmd, flags), output, noCache)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&fluxPath, "flux", "f", "", "FBA or FVA flux table")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scynet.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&flags.SkipLayout, "skip-layout", false, "stop after annotation")
	addCollapseFlags(cmd, &flags)
	addAnnotateFlags(cmd, &flags)
	addLayoutFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runPipeline(ctx context.Context, args []string, in *networkInput, fluxPath string, opts pipeline.Options, output string, noCache bool) error {
	n, input, err := in.load(args)
	if err != nil {
		return err
	}

	var t *flux.Table
	if fluxPath != "" {
		t, err = io.ImportFluxTable(fluxPath)
		if err != nil {
			if errors.IsFatal(err) {
				return err
			}
			printWarnings([]error{err})
		}
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Running pipeline...")
	spinner.Start()
	result, err := runner.Execute(ctx, n, t, opts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return err
	}
	spinner.Stop()
	prog.done("Pipeline finished")

	paths, err := io.ExportCommunity(result.Graph, outputPath(output, input, "scynet"))
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printWarnings(result.Warnings)
	printSuccess("Community network ready")
	for _, p := range paths {
		printFile(p)
	}
	if result.Flux != nil {
		printFluxSummary(*result.Flux)
	}
	printRings(result.Layout)
	s := result.Stats
	printDetail("%d visible nodes · %d visible edges", s.VisibleNodes, s.VisibleEdges)
	ci := result.CacheInfo
	printStats(s.Organisms, s.Metabolites, s.Edges, ci.CollapseHit && (t == nil || ci.AnnotateHit) && (opts.SkipLayout || ci.LayoutHit))
	return nil
}
