package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scynet/scynet/pkg/pipeline"
)

// Flag names shared by several commands.
const (
	flagDelimiter    = "delimiter"
	flagShared       = "shared-compartment"
	flagOnlyCrossFed = "only-cross-fed"
	flagShowZeroFlux = "show-zero-flux"
	flagOrgSize      = "org-size"
	flagMetSize      = "met-size"
)

func addCollapseFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Delimiter, flagDelimiter, pipeline.DefaultDelimiter, "token delimiter of species identifiers")
	cmd.Flags().StringVar(&opts.SharedCompartment, flagShared, "", "shared compartment name (default: detect the medium marker)")
}

func addAnnotateFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().BoolVar(&opts.OnlyCrossFed, flagOnlyCrossFed, false, "hide metabolites that are not cross-fed")
	cmd.Flags().BoolVar(&opts.ShowZeroFlux, flagShowZeroFlux, false, "keep zero-flux edges visible")
}

func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.OrganismSize, flagOrgSize, pipeline.DefaultOrganismSize, "organism node size")
	cmd.Flags().Float64Var(&opts.MetaboliteSize, flagMetSize, pipeline.DefaultMetaboliteSize, "metabolite node size")
}

// options starts from the configuration and overrides it with the flags
// the user set on cmd.
func (c *CLI) options(cmd *cobra.Command, flags pipeline.Options) pipeline.Options {
	opts := c.Config.PipelineOptions()
	changed := cmd.Flags().Changed
	if changed(flagDelimiter) {
		opts.Delimiter = flags.Delimiter
	}
	if changed(flagShared) {
		opts.SharedCompartment = flags.SharedCompartment
	}
	if changed(flagOnlyCrossFed) {
		opts.OnlyCrossFed = flags.OnlyCrossFed
	}
	if changed(flagShowZeroFlux) {
		opts.ShowZeroFlux = flags.ShowZeroFlux
	}
	if changed(flagOrgSize) {
		opts.OrganismSize = flags.OrganismSize
	}
	if changed(flagMetSize) {
		opts.MetaboliteSize = flags.MetaboliteSize
	}
	opts.Refresh = flags.Refresh
	opts.SkipLayout = flags.SkipLayout
	opts.Logger = c.Logger
	return opts
}

// outputPath returns output, or input with its extension replaced by
// ".<stage>.json".
func outputPath(output, input, stage string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + stage + ".json"
}
