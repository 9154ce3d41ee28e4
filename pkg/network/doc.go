// Package network models the original, uncollapsed metabolic reaction network.
//
// A multi-organism model arrives as a flat network of species, reactions,
// parameters and compartments joined by role-tagged edges. Each organism's
// species live in compartments whose keys are prefixed by the organism
// identifier, and one shared compartment (the medium) links the organisms.
//
// # Typed records
//
// Rather than carrying untyped attribute rows, every node is a [Node] with a
// [NodeKind] and the handful of columns the collapser reads. Edges carry a
// [Role] parsed from the "interaction type" column and a numeric
// stoichiometry.
//
// # Columns
//
// Readers record which table columns were present via
// [Network.DeclareColumns]. The collapser refuses networks that lack the
// [ColumnSBMLType] or [ColumnCompartment] columns, since such a network
// was not produced by an SBML importer.
//
// # Ordering
//
// All accessors return nodes and edges in insertion order. Downstream stages
// depend on this to produce identical output for identical input.
package network
