package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scynet/scynet/pkg/io"
	"github.com/scynet/scynet/pkg/pipeline"
)

func (c *CLI) filterCommand() *cobra.Command {
	var (
		output string
		f      pipeline.Filters
	)

	cmd := &cobra.Command{
		Use:   "filter [annotated.json]",
		Short: "Change which parts of an annotated network are visible",
		Long: `Change the visibility of an annotated community network.

The passes run in this order: --show-all, --toggle-zero-flux, --toggle-cross-fed,
--hide-singletons. Toggles flip the current state, so running the same toggle
twice restores the network.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFilter(args[0], f, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.filtered.json)")
	cmd.Flags().BoolVar(&f.ShowAll, "show-all", false, "make every node and edge visible")
	cmd.Flags().BoolVar(&f.ToggleZeroFlux, "toggle-zero-flux", false, "toggle visibility of zero-flux edges")
	cmd.Flags().BoolVar(&f.ToggleCrossFed, "toggle-cross-fed", false, "toggle visibility of metabolites that are not cross-fed")
	cmd.Flags().BoolVar(&f.HideSingletons, "hide-singletons", false, "hide metabolites without a visible edge")

	return cmd
}

func (c *CLI) runFilter(input string, f pipeline.Filters, output string) error {
	g, err := io.ImportCommunity(input)
	if err != nil {
		return fmt.Errorf("load community network %s: %w", input, err)
	}
	res, err := pipeline.Filter(g, f)
	if err != nil {
		return err
	}
	paths, err := io.ExportCommunity(g, outputPath(output, input, "filtered"))
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Filtered %s", g.Name())
	for _, p := range paths {
		printFile(p)
	}
	if res.ZeroFluxVisible != nil {
		printDetail("zero-flux edges %s", shown(*res.ZeroFluxVisible))
	}
	if res.NonCrossFedVisible != nil {
		printDetail("non-cross-fed metabolites %s", shown(*res.NonCrossFedVisible))
	}
	printDetail("%d visible nodes · %d visible edges", res.VisibleNodes, res.VisibleEdges)
	return nil
}

func shown(v bool) string {
	if v {
		return "shown"
	}
	return "hidden"
}
