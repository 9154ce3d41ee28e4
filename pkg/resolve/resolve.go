// Package resolve determines the shared compartment of a multi-organism
// network and the organism each species belongs to.
//
// Species identifiers and compartment keys follow a naming convention in
// which the organism identifier is embedded as a prefix:
//
//	sbml id:      M_ecoli_core_glc__D_c0
//	compartment:  ecoli_core_c0
//	organism:     ecoli_core
//
// The identifier's first token is the SBML type prefix ("M") and is skipped.
// The next token must equal the first compartment token; the organism key
// then grows token by token for as long as identifier and compartment agree.
// Species whose identifier does not start with its compartment's organism
// are [Ignored].
package resolve

import (
	"fmt"
	"strings"

	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/network"
)

// DefaultDelimiter separates identifier and compartment tokens.
const DefaultDelimiter = "_"

// MediumKey is the shared compartment key used when only a compartment
// node tagged "medium" is present.
const MediumKey = "medium"

// Organism is the outcome of resolving one species: either a member
// organism key or the Ignored marker.
type Organism struct {
	key     string
	ignored bool
}

// Member returns the Organism for a resolved key.
func Member(key string) Organism { return Organism{key: key} }

// Ignored is the Organism of species that belong to no recognizable organism.
var Ignored = Organism{ignored: true}

// Key returns the organism key, or "" for Ignored.
func (o Organism) Key() string { return o.key }

// IsIgnored reports whether the species is excluded from the network.
func (o Organism) IsIgnored() bool { return o.ignored }

// String implements fmt.Stringer.
func (o Organism) String() string {
	if o.ignored {
		return "IGNORE"
	}
	return o.key
}

// Options configures resolution.
type Options struct {
	// Delimiter splits identifiers and compartment keys. Defaults to "_".
	Delimiter string
	// SharedCompartment overrides marker-based detection when non-empty.
	SharedCompartment string
}

// Resolution is the result of resolving a network.
type Resolution struct {
	// SharedCompartment is the exchange compartment key, "" when unresolved.
	SharedCompartment string

	species       map[string]Organism
	compToOrg     map[string]string
	compOrder     []string
	recognized    map[string]bool
	ignoredIDs    []string
	warnings      []error
	compUsedValid map[string]bool
}

// Resolved reports whether a shared compartment was found.
func (r *Resolution) Resolved() bool { return r.SharedCompartment != "" }

// Organism returns the resolution of a species node ID.
func (r *Resolution) Organism(nodeID string) (Organism, bool) {
	o, ok := r.species[nodeID]
	return o, ok
}

// IsIgnored reports whether the node was resolved to Ignored.
func (r *Resolution) IsIgnored(nodeID string) bool {
	o, ok := r.species[nodeID]
	return ok && o.ignored
}

// OrganismOfCompartment returns the organism key chosen for a compartment.
func (r *Resolution) OrganismOfCompartment(comp string) (string, bool) {
	k, ok := r.compToOrg[comp]
	return k, ok
}

// Organisms returns the distinct member organism keys in first-seen order,
// excluding the shared compartment.
func (r *Resolution) Organisms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, comp := range r.compOrder {
		if comp == r.SharedCompartment {
			continue
		}
		if key := r.compToOrg[comp]; !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// IsRecognized reports whether comp is in the recognized compartment set.
func (r *Resolution) IsRecognized(comp string) bool { return r.recognized[comp] }

// Ignored returns the IDs of ignored species in node order.
func (r *Resolution) Ignored() []string { return r.ignoredIDs }

// Warnings returns the non-fatal conditions met during resolution.
func (r *Resolution) Warnings() []error { return r.warnings }

// Resolve determines the shared compartment and the organism of every
// species. An unresolved shared compartment is recorded as a warning and
// resolution continues with an empty key.
func Resolve(n *network.Network, opts Options) *Resolution {
	delim := opts.Delimiter
	if delim == "" {
		delim = DefaultDelimiter
	}

	r := &Resolution{
		species:       make(map[string]Organism),
		compToOrg:     make(map[string]string),
		recognized:    make(map[string]bool),
		compUsedValid: make(map[string]bool),
	}

	r.SharedCompartment = opts.SharedCompartment
	if r.SharedCompartment == "" {
		shared, ok := SharedCompartment(n)
		if !ok {
			r.warnings = append(r.warnings, errors.New(errors.ErrCodeUnresolvedSharedCompartment,
				"no shared exchange compartment found: expected a compartment tagged %q or a parameter tagged %q",
				network.TagMedium, network.TagSharedCompartment))
		}
		r.SharedCompartment = shared
	}

	var species []*network.Node
	for _, node := range n.Nodes() {
		if node.IsSpecies() {
			species = append(species, node)
			r.recognized[node.Compartment] = true
		}
	}

	var ignoredComps []string
	for _, node := range species {
		org := OrganismOf(node.SBMLID, node.Compartment, r.SharedCompartment, delim)
		r.species[node.ID] = org
		if org.ignored {
			r.ignoredIDs = append(r.ignoredIDs, node.ID)
			ignoredComps = append(ignoredComps, node.Compartment)
			continue
		}
		r.compUsedValid[node.Compartment] = true
		prev, ok := r.compToOrg[node.Compartment]
		if !ok {
			r.compOrder = append(r.compOrder, node.Compartment)
			r.compToOrg[node.Compartment] = org.key
		} else if len(org.key) < len(prev) {
			r.compToOrg[node.Compartment] = org.key
		}
	}

	for _, comp := range ignoredComps {
		if !r.compUsedValid[comp] {
			delete(r.recognized, comp)
		}
	}
	return r
}

// SharedCompartment searches n for the shared compartment marker. A
// parameter tagged "shared_compartment_id" wins over a compartment tagged
// "medium".
func SharedCompartment(n *network.Network) (string, bool) {
	medium := false
	for _, node := range n.Nodes() {
		switch {
		case node.Kind == network.KindParameter && normalizeTag(node.Tag) == network.TagSharedCompartment:
			return node.SharedName, node.SharedName != ""
		case node.Kind == network.KindCompartment && normalizeTag(node.Tag) == network.TagMedium:
			medium = true
		}
	}
	if medium {
		return MediumKey, true
	}
	return "", false
}

func normalizeTag(tag string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), "-", "_")
}

// OrganismOf derives the organism of a single species from its identifier
// and compartment. Species in the shared compartment resolve to the shared
// key itself.
func OrganismOf(sbmlID, compartment, shared, delim string) Organism {
	if compartment == shared && shared != "" {
		return Member(shared)
	}
	idParts := strings.Split(sbmlID, delim)
	compParts := strings.Split(compartment, delim)
	if len(idParts) < 2 || idParts[1] == "" || idParts[1] != compParts[0] {
		return Ignored
	}

	key := idParts[1]
	for i := 2; i < len(idParts); i++ {
		if i-1 >= len(compParts) || idParts[i] != compParts[i-1] {
			break
		}
		key += delim + idParts[i]
	}
	return Member(key)
}

// Describe formats a one-line summary for logs.
func (r *Resolution) Describe() string {
	return fmt.Sprintf("shared=%q organisms=%d ignored=%d", r.SharedCompartment, len(r.Organisms()), len(r.ignoredIDs))
}
