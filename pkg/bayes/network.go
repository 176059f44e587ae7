/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: network.go
Description: The Network container for the Liora Bayesian network engine.
Owns all nodes and their CPTs, enforces the DAG invariant with a
deterministic topological order, and exposes read-only lookups once
finalized. A finalized Network is never mutated, so concurrent readers need
no coordination.
*/

package bayes

import (
	"fmt"
	"sort"
)

// Node is a variable plus its ordered parent identifiers and its CPT.
type Node struct {
	Variable Variable
	Parents  []string
	CPT      *CPT
}

// Network owns all nodes keyed by variable identifier together with the DAG
// structure. Build it once through NewNetwork (directly, via the builder, or
// via a codec) and treat it as immutable afterwards.
type Network struct {
	nodes map[string]*Node
	order []string // topological order, ties broken lexicographically
	names []string // lexicographically sorted identifiers
}

// NewNetwork finalizes a set of nodes into a validated, immutable network.
// It checks every invariant the way the builder does: unique declarations,
// known parents, acyclicity, variable well-formedness, CPT totality and
// normalization. The first violation halts construction.
func NewNetwork(nodes []*Node) (*Network, error) {
	byName := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		if err := n.Variable.Validate(); err != nil {
			return nil, err
		}
		if _, ok := byName[n.Variable.Name]; ok {
			return nil, fmt.Errorf("node %q: %w", n.Variable.Name, ErrDuplicateDeclaration)
		}
		byName[n.Variable.Name] = n
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := byName[name]
		seen := make(map[string]bool, len(n.Parents))
		for _, p := range n.Parents {
			if _, ok := byName[p]; !ok {
				return nil, fmt.Errorf("node %q references parent %q: %w",
					name, p, ErrUnknownVariable)
			}
			if seen[p] {
				return nil, fmt.Errorf("node %q lists parent %q twice: %w",
					name, p, ErrDuplicateDeclaration)
			}
			seen[p] = true
		}
	}

	order, err := topoSort(byName, names)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		n := byName[name]
		if n.CPT == nil {
			return nil, fmt.Errorf("node %q has no probability table: %w", name, ErrIncompleteCPT)
		}
		cptParents := n.CPT.ParentNames()
		if len(cptParents) != len(n.Parents) {
			return nil, fmt.Errorf("node %q: table conditions on %d parents, node has %d: %w",
				name, len(cptParents), len(n.Parents), ErrIncompleteCPT)
		}
		for i, p := range n.Parents {
			if cptParents[i] != p {
				return nil, fmt.Errorf("node %q: table parent %q does not match node parent %q: %w",
					name, cptParents[i], p, ErrIncompleteCPT)
			}
		}
		if err := n.CPT.Validate(); err != nil {
			return nil, err
		}
	}

	return &Network{nodes: byName, order: order, names: names}, nil
}

// topoSort runs Kahn's algorithm over the parent edges. Ready nodes are
// consumed in lexicographic order so the result is deterministic: all
// parents precede their children, ties broken alphabetically.
func topoSort(nodes map[string]*Node, names []string) ([]string, error) {
	indegree := make(map[string]int, len(nodes))
	children := make(map[string][]string, len(nodes))
	for _, name := range names {
		indegree[name] = len(nodes[name].Parents)
		for _, p := range nodes[name].Parents {
			children[p] = append(children[p], name)
		}
	}

	var ready []string
	for _, name := range names {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for _, child := range children[name] {
			indegree[child]--
			if indegree[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(order) != len(nodes) {
		var stuck []string
		for _, name := range names {
			if indegree[name] > 0 {
				stuck = append(stuck, name)
			}
		}
		return nil, fmt.Errorf("no topological order for %v: %w", stuck, ErrCyclicGraph)
	}
	return order, nil
}

// Len returns the number of nodes in the network.
func (n *Network) Len() int { return len(n.nodes) }

// Names returns the variable identifiers in lexicographic order.
func (n *Network) Names() []string {
	out := make([]string, len(n.names))
	copy(out, n.names)
	return out
}

// TopoOrder returns the identifiers in topological order, parents before
// children, ties broken lexicographically.
func (n *Network) TopoOrder() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Node looks up a node by identifier.
func (n *Network) Node(name string) (*Node, error) {
	node, ok := n.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownVariable)
	}
	return node, nil
}

// Has reports whether the identifier names a network variable.
func (n *Network) Has(name string) bool {
	_, ok := n.nodes[name]
	return ok
}

// Domain returns the ordered value domain of the named variable.
func (n *Network) Domain(name string) ([]string, error) {
	node, err := n.Node(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(node.Variable.Values))
	copy(out, node.Variable.Values)
	return out, nil
}

// Lookup returns the CPT row of the named node selected by a full parent
// assignment.
func (n *Network) Lookup(name string, a Assignment) ([]float64, error) {
	node, err := n.Node(name)
	if err != nil {
		return nil, err
	}
	return node.CPT.Row(a)
}

// Probability returns P(name = value | parents as assigned) from the node's
// CPT.
func (n *Network) Probability(name, value string, a Assignment) (float64, error) {
	node, err := n.Node(name)
	if err != nil {
		return 0, err
	}
	return node.CPT.Probability(a, value)
}

// CheckEvidence validates a partial assignment against the network: every
// key must name an existing variable and every value must lie in that
// variable's domain.
func (n *Network) CheckEvidence(e Evidence) error {
	for name, value := range e {
		node, err := n.Node(name)
		if err != nil {
			return err
		}
		if _, err := node.Variable.ValueIndex(value); err != nil {
			return err
		}
	}
	return nil
}

// Validate re-checks every network invariant. Codecs run this after
// decoding so a hand-edited file cannot smuggle in an invalid network.
func (n *Network) Validate() error {
	nodes := make([]*Node, 0, len(n.nodes))
	for _, name := range n.names {
		nodes = append(nodes, n.nodes[name])
	}
	_, err := NewNetwork(nodes)
	return err
}

// Query identifies one target variable plus the evidence it is conditioned
// on. TargetValue selects a single probability; when empty the full
// posterior distribution over the target's domain is requested.
type Query struct {
	Target      string
	TargetValue string
	Evidence    Evidence
}
