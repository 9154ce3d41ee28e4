// Package collapse folds a multi-organism reaction network into a community
// network.
//
// Every organism becomes one node, every chemical species of the shared
// compartment becomes one node, and every reaction touching the shared
// compartment contributes directed edges from the community identity of each
// reactant to the community identity of each product.
//
// # Usage
//
//	res, err := collapse.Collapse(net, collapse.Options{Logger: logger})
//	if err != nil {
//	    return err // CONFIGURATION_MISMATCH
//	}
//	for _, w := range res.Warnings {
//	    logger.Warn(w)
//	}
//	g := res.Graph
package collapse

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/network"
	"github.com/scynet/scynet/pkg/resolve"
)

// DefaultName is used when the source network has no name.
const DefaultName = "Simplified Community Network"

// namePrefix is prepended to the source network's name.
const namePrefix = "ScyNet: "

// RequiredColumns are the node table columns a collapsible network carries.
var RequiredColumns = []string{network.ColumnSBMLType, network.ColumnCompartment}

// Options configures a collapse run.
type Options struct {
	Resolve resolve.Options
	Logger  *log.Logger
}

// Result is the output of [Collapse].
type Result struct {
	// Graph is the community network, marked as collapsed.
	Graph *community.Graph
	// Resolution holds the shared compartment and organism assignment.
	Resolution *resolve.Resolution
	// Mapping maps absorbed original node IDs to community node IDs.
	Mapping map[string]string
	// FluxKeys maps each flux key to the IDs of the edges it created.
	FluxKeys map[string][]string
	// ExchangeReactions lists the IDs of reactions touching the shared
	// compartment, in network order.
	ExchangeReactions []string
	// Warnings are non-fatal conditions encountered while collapsing.
	Warnings []error
}

// Validate checks that n carries the columns of an SBML-imported network.
func Validate(n *network.Network) error {
	var missing []string
	for _, c := range RequiredColumns {
		if !n.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeConfigurationMismatch,
			"network is not in SBML format: missing node columns %q", missing)
	}
	return nil
}

// Collapse builds the community network of n. It returns a
// CONFIGURATION_MISMATCH error and no graph when n lacks the required
// columns; every other condition is reported through Result.Warnings.
func Collapse(n *network.Network, opts Options) (*Result, error) {
	if err := Validate(n); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	res := resolve.Resolve(n, opts.Resolve)
	c := &collapser{
		net:    n,
		res:    res,
		logger: logger,
		graph:  community.New(GraphName(n.Name())),
		result: &Result{
			Resolution: res,
			Mapping:    make(map[string]string),
			FluxKeys:   make(map[string][]string),
			Warnings:   res.Warnings(),
		},
	}
	c.result.Graph = c.graph
	c.graph.MarkCollapsed()

	logger.Debug("resolved organisms", "resolution", res.Describe())
	for _, id := range res.Ignored() {
		node, _ := n.Node(id)
		logger.Debug("ignored species", "id", id, "err", errors.New(errors.ErrCodeMalformedIdentifier,
			"identifier %q does not match compartment %q", node.SBMLID, node.Compartment))
	}

	c.createMetabolites()
	c.createOrganisms()
	c.findExchangeReactions()
	for _, id := range c.result.ExchangeReactions {
		c.createEdges(id)
	}

	logger.Debug("collapsed network",
		"shared", res.SharedCompartment,
		"organisms", len(c.graph.Organisms()),
		"metabolites", len(c.graph.Metabolites()),
		"edges", c.graph.EdgeCount())
	return c.result, nil
}

// GraphName derives the community network name from the source name.
func GraphName(source string) string {
	if source == "" {
		return DefaultName
	}
	return namePrefix + source
}

type collapser struct {
	net    *network.Network
	res    *resolve.Resolution
	logger *log.Logger
	graph  *community.Graph
	result *Result
}

func (c *collapser) shared() string { return c.res.SharedCompartment }

// inShared reports whether a species lives in the shared compartment.
func (c *collapser) inShared(node *network.Node) bool {
	return c.shared() != "" && node.IsSpecies() && node.Compartment == c.shared()
}

func (c *collapser) createMetabolites() {
	for _, node := range c.net.Nodes() {
		if !c.inShared(node) || c.res.IsIgnored(node.ID) {
			continue
		}
		identity := Identity(node, c.shared())
		name := node.SharedName
		if name == "" {
			name = identity
		}
		met := c.graph.AddMetabolite(identity, name)
		c.result.Mapping[node.ID] = met.ID
	}
}

func (c *collapser) createOrganisms() {
	for _, key := range c.res.Organisms() {
		c.graph.AddOrganism(key)
	}
	for _, node := range c.net.Nodes() {
		if !node.IsSpecies() || c.inShared(node) {
			continue
		}
		if id, ok := c.organismNode(node); ok {
			c.result.Mapping[node.ID] = id
		}
	}
}

// organismNode returns the community organism node of an internal species.
func (c *collapser) organismNode(node *network.Node) (string, bool) {
	if c.res.IsIgnored(node.ID) {
		return "", false
	}
	key, ok := c.res.OrganismOfCompartment(node.Compartment)
	if !ok {
		return "", false
	}
	id := community.OrganismID(key)
	if _, exists := c.graph.Node(id); !exists {
		return "", false
	}
	return id, true
}

func (c *collapser) findExchangeReactions() {
	if c.shared() == "" {
		return
	}
	for _, node := range c.net.Nodes() {
		if !node.IsReaction() {
			continue
		}
		for _, nb := range c.net.Neighbors(node.ID) {
			if c.inShared(nb) && c.res.IsRecognized(nb.Compartment) && !c.res.IsIgnored(nb.ID) {
				c.result.ExchangeReactions = append(c.result.ExchangeReactions, node.ID)
				break
			}
		}
	}
}

// participants splits the species adjacent to a reaction into reactants and
// products. Directed and undirected edges are honored alike.
func (c *collapser) participants(reactionID string) (reactants, products []*network.Node) {
	for _, e := range c.net.Adjacent(reactionID) {
		other, ok := c.net.Node(e.Other(reactionID))
		if !ok {
			continue
		}
		switch e.Role {
		case network.RoleReactant:
			reactants = append(reactants, other)
		case network.RoleProduct:
			products = append(products, other)
		}
	}
	return reactants, products
}

// identityOf maps a species to its community node ID.
func (c *collapser) identityOf(node *network.Node) (string, bool) {
	if !node.IsSpecies() || c.res.IsIgnored(node.ID) {
		return "", false
	}
	id, ok := c.result.Mapping[node.ID]
	return id, ok
}

func (c *collapser) createEdges(reactionID string) {
	reaction, _ := c.net.Node(reactionID)
	reactants, products := c.participants(reactionID)
	fluxKey := FluxKey(reaction.SBMLID)

	sourcesVisited := make(map[string]bool)
	targetsVisited := make(map[string]bool)

	for _, reactant := range reactants {
		src, ok := c.identityOf(reactant)
		if !ok || sourcesVisited[src] {
			continue
		}
		for _, product := range products {
			tgt, ok := c.identityOf(product)
			if !ok || targetsVisited[tgt] {
				continue
			}
			targetsVisited[tgt] = true
			if src == tgt {
				continue
			}

			stoich := 0.0
			for _, e := range c.net.Connecting(reactant.ID, product.ID) {
				stoich += e.Stoichiometry
			}

			edge, created, err := c.graph.EnsureEdge(src, tgt)
			if err != nil {
				c.logger.Debug("skipped edge", "reaction", reaction.SBMLID, "source", src, "target", tgt, "err", err)
				continue
			}
			edge.Stoichiometry += stoich
			if !created {
				continue
			}
			edge.SBMLID = fluxKey
			edge.FluxKey = fluxKey
			edge.SharedName = reaction.SharedName
			edge.Interaction = community.Import
			if srcNode, _ := c.graph.Node(src); srcNode.IsMetabolite() {
				edge.Interaction = community.Export
			}
			if fluxKey != "" {
				c.result.FluxKeys[fluxKey] = append(c.result.FluxKeys[fluxKey], edge.ID)
			}
		}
		sourcesVisited[src] = true
	}
}

// FluxKey derives the flux table key of a reaction by removing the SBML
// reaction prefix, so "R_EX_glc__D_e" and "EX_glc__D_e" share a key.
func FluxKey(sbmlID string) string {
	return strings.TrimPrefix(sbmlID, "R_")
}

// Identity returns the chemical identity of a shared-compartment species:
// the identifier without its SBML type prefix and compartment suffix,
// lowercased. Species without an identifier fall back to their name.
func Identity(node *network.Node, shared string) string {
	id := node.SBMLID
	if id == "" {
		return strings.ToLower(strings.TrimSpace(node.SharedName))
	}
	id = strings.TrimPrefix(id, "M_")
	if shared != "" {
		id = strings.TrimSuffix(id, "_"+shared)
	}
	return strings.ToLower(id)
}
