// Package pkg provides the libraries behind scynet.
//
// # Overview
//
// scynet turns the reaction network of a multi-organism metabolic model into
// a community network: one node per organism, one node per metabolite the
// organisms exchange through the shared compartment, and an edge wherever an
// organism imports or exports a metabolite. Fluxes from FBA or FVA classify
// which metabolites are cross-fed, and a deterministic concentric layout
// places the result.
//
// # Architecture
//
//	Cytoscape JSON / node+edge tables
//	         ↓
//	    [network] reaction network, [io] and [graph] readers
//	         ↓
//	    [resolve] organisms and the shared compartment
//	         ↓
//	    [collapse] community network ([community])
//	         ↓
//	    [flux] FBA/FVA annotation and visibility
//	         ↓
//	    [layout] concentric rings
//	         ↓
//	    Cytoscape JSON / TSV / CSV
//
// [pipeline] chains the stages with a [cache] in front of each, and is what
// the CLI and the HTTP API call.
//
// # Quick Start
//
//	n, _ := io.ImportNetwork("model.json")
//	res, _ := collapse.Collapse(n, collapse.Options{})
//	t, _ := io.ImportFluxTable("fluxes.tsv")
//	flux.Annotate(res.Graph, t)
//	layout.Concentric(res.Graph, layout.Options{})
//	io.ExportCommunity(res.Graph, "community.json")
//
// Or through the pipeline, cached:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, n, t, pipeline.Options{})
//
// # Supporting Packages
//
// [errors] carries the error codes every stage reports. [config] loads TOML,
// .env and SCYNET_* settings. [observability] exposes hooks for stage, cache
// and HTTP events. [buildinfo] holds version information.
package pkg
