/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: builder.go
Description: Network builder for the Liora Bayesian network engine. Parses
structural "node|parent-list" declarations, materializes implicit root nodes
for identifiers that only ever appear as parents, validates acyclicity with
a topological sort, collects CPT rows from a pluggable source, and finalizes
an immutable network. The first validation error halts construction.
*/

package builder

import (
	"fmt"
	"strings"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/sirupsen/logrus"
)

// Declaration is one parsed structural declaration: a node identifier plus
// its ordered parent identifiers.
type Declaration struct {
	Name    string
	Parents []string
}

// ParseDeclaration parses "node" or "node|parent1,parent2,..." into a
// Declaration. Absence of the pipe means no parents.
func ParseDeclaration(s string) (Declaration, error) {
	name, parentList, hasParents := strings.Cut(s, "|")
	name = strings.TrimSpace(name)
	if err := bayes.CheckIdentifier(name); err != nil {
		return Declaration{}, fmt.Errorf("declaration %q: %w", s, err)
	}

	var parents []string
	if hasParents {
		for _, tok := range strings.Split(parentList, ",") {
			tok = strings.TrimSpace(tok)
			if err := bayes.CheckIdentifier(tok); err != nil {
				return Declaration{}, fmt.Errorf("declaration %q: parent: %w", s, err)
			}
			parents = append(parents, tok)
		}
	}
	return Declaration{Name: name, Parents: parents}, nil
}

// Builder accumulates declarations, domain overrides and a CPT source, then
// produces a finalized network. Zero value is not usable; use New.
type Builder struct {
	decls   []Declaration
	domains map[string][]string
	source  CPTSource
	logger  *logrus.Logger
}

// New creates a builder with the uniform CPT source as default.
func New() *Builder {
	return &Builder{
		domains: make(map[string][]string),
		source:  UniformSource{},
	}
}

// WithSource sets the CPT source used to obtain table rows.
func (b *Builder) WithSource(src CPTSource) *Builder {
	b.source = src
	return b
}

// WithDomain overrides the default boolean domain for one variable.
func (b *Builder) WithDomain(name string, values []string) *Builder {
	b.domains[name] = values
	return b
}

// WithLogger attaches a logger for build progress. Nil disables logging.
func (b *Builder) WithLogger(logger *logrus.Logger) *Builder {
	b.logger = logger
	return b
}

// Add parses and records one structural declaration.
func (b *Builder) Add(decl string) error {
	d, err := ParseDeclaration(decl)
	if err != nil {
		return err
	}
	b.decls = append(b.decls, d)
	return nil
}

// AddDeclaration records an already-parsed declaration.
func (b *Builder) AddDeclaration(d Declaration) {
	b.decls = append(b.decls, d)
}

// Build validates the accumulated structure and finalizes the network:
// duplicate declarations are rejected, identifiers appearing only as parents
// become implicit boolean root nodes, a topological sort proves acyclicity,
// and every CPT obtained from the source is checked for totality and
// normalization before the network is finalized.
func (b *Builder) Build() (*bayes.Network, error) {
	declared := make(map[string]Declaration, len(b.decls))
	for _, d := range b.decls {
		if _, ok := declared[d.Name]; ok {
			return nil, fmt.Errorf("node %q: %w", d.Name, bayes.ErrDuplicateDeclaration)
		}
		declared[d.Name] = d
	}

	// Graph closure: parents never declared as nodes become implicit roots
	// with the default domain.
	all := make([]Declaration, 0, len(b.decls))
	all = append(all, b.decls...)
	for _, d := range b.decls {
		for _, p := range d.Parents {
			if _, ok := declared[p]; !ok {
				implicit := Declaration{Name: p}
				declared[p] = implicit
				all = append(all, implicit)
				if b.logger != nil {
					b.logger.WithFields(logrus.Fields{
						"node":  p,
						"child": d.Name,
					}).Debug("Materialized implicit root node")
				}
			}
		}
	}

	variables := make(map[string]bayes.Variable, len(all))
	for _, d := range all {
		v := bayes.NewVariable(d.Name, b.domains[d.Name])
		if err := v.Validate(); err != nil {
			return nil, err
		}
		variables[d.Name] = v
	}

	nodes := make([]*bayes.Node, 0, len(all))
	for _, d := range all {
		parents := make([]bayes.Variable, len(d.Parents))
		for i, p := range d.Parents {
			parents[i] = variables[p]
		}
		cpt, err := buildCPT(variables[d.Name], parents, b.source)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &bayes.Node{
			Variable: variables[d.Name],
			Parents:  append([]string(nil), d.Parents...),
			CPT:      cpt,
		})
	}

	net, err := bayes.NewNetwork(nodes)
	if err != nil {
		return nil, err
	}
	if b.logger != nil {
		b.logger.WithFields(logrus.Fields{
			"nodes": net.Len(),
			"order": strings.Join(net.TopoOrder(), " "),
		}).Info("Network finalized")
	}
	return net, nil
}

// buildCPT obtains the table rows for one node from the source and installs
// them, leaving final invariant checking to network finalization.
func buildCPT(variable bayes.Variable, parents []bayes.Variable, src CPTSource) (*bayes.CPT, error) {
	rows, err := src.Rows(variable, parents)
	if err != nil {
		return nil, err
	}
	cpt := bayes.NewCPT(variable, parents)
	for _, combo := range bayes.Combinations(parents) {
		probs, ok := rows[bayes.RowKey(combo)]
		if !ok {
			return nil, fmt.Errorf("node %q: source supplied no row for parent assignment %v: %w",
				variable.Name, combo, bayes.ErrIncompleteCPT)
		}
		if err := cpt.SetRow(combo, probs); err != nil {
			return nil, err
		}
	}
	return cpt, nil
}

// Build parses a whole structural specification and finalizes a network in
// one call, supplying CPT rows from src.
func Build(spec []string, src CPTSource) (*bayes.Network, error) {
	b := New().WithSource(src)
	for _, line := range spec {
		if err := b.Add(line); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
