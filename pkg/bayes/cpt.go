/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: cpt.go
Description: Conditional probability table storage for the Liora Bayesian
network engine. A CPT maps every joint assignment of a node's parents to a
probability distribution over the node's own values, with strict totality and
normalization invariants.
*/

package bayes

import (
	"fmt"
	"math"
	"strings"
)

// ProbTolerance is the numerical tolerance used when checking that a
// distribution sums to 1 and when comparing probabilities for equality.
const ProbTolerance = 1e-9

// Assignment maps variable names to one value each. It may be partial.
type Assignment map[string]string

// Evidence is a partial assignment used to condition a query.
type Evidence = Assignment

// Clone returns an independent copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// RowKey builds the canonical CPT row key for an ordered list of parent
// values. The empty list (a root node) keys the single unconditional row.
func RowKey(parentValues []string) string {
	return strings.Join(parentValues, "\x1f")
}

// Combinations enumerates every joint assignment of the given variables in
// canonical order: the last variable's domain varies fastest, each domain in
// its declared value order. An empty variable list yields one empty
// combination.
func Combinations(vars []Variable) [][]string {
	combos := [][]string{{}}
	for _, v := range vars {
		next := make([][]string, 0, len(combos)*len(v.Values))
		for _, combo := range combos {
			for _, val := range v.Values {
				row := make([]string, len(combo), len(combo)+1)
				copy(row, combo)
				next = append(next, append(row, val))
			}
		}
		combos = next
	}
	return combos
}

// CPT is the conditional probability table of one node: one distribution
// over the node's values per joint assignment of its parents.
type CPT struct {
	variable Variable
	parents  []Variable
	rows     map[string][]float64
}

// NewCPT creates an empty table for a node with the given parents. Rows are
// added with SetRow and the table is not usable until Validate passes.
func NewCPT(variable Variable, parents []Variable) *CPT {
	ps := make([]Variable, len(parents))
	copy(ps, parents)
	return &CPT{
		variable: variable,
		parents:  ps,
		rows:     make(map[string][]float64),
	}
}

// Variable returns the node variable this table describes.
func (c *CPT) Variable() Variable { return c.variable }

// Parents returns the ordered parent variables.
func (c *CPT) Parents() []Variable {
	out := make([]Variable, len(c.parents))
	copy(out, c.parents)
	return out
}

// ParentNames returns the ordered parent identifiers.
func (c *CPT) ParentNames() []string {
	names := make([]string, len(c.parents))
	for i, p := range c.parents {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of rows currently stored.
func (c *CPT) Len() int { return len(c.rows) }

// SetRow stores the distribution for one joint parent assignment, given as
// parent values in parent order. The distribution is copied.
func (c *CPT) SetRow(parentValues []string, probs []float64) error {
	if len(parentValues) != len(c.parents) {
		return fmt.Errorf("node %q: row has %d parent values, want %d: %w",
			c.variable.Name, len(parentValues), len(c.parents), ErrIncompleteAssignment)
	}
	for i, val := range parentValues {
		if !c.parents[i].HasValue(val) {
			return fmt.Errorf("node %q parent %q: %q: %w",
				c.variable.Name, c.parents[i].Name, val, ErrDomainMismatch)
		}
	}
	if len(probs) != len(c.variable.Values) {
		return fmt.Errorf("node %q: row has %d probabilities, want %d: %w",
			c.variable.Name, len(probs), len(c.variable.Values), ErrIncompleteCPT)
	}
	row := make([]float64, len(probs))
	copy(row, probs)
	c.rows[RowKey(parentValues)] = row
	return nil
}

// Row returns a copy of the distribution selected by the assignment, which
// must cover every parent. Fails with ErrIncompleteAssignment when a parent
// is missing and ErrDomainMismatch when a supplied value is out of domain.
func (c *CPT) Row(a Assignment) ([]float64, error) {
	row, err := c.row(a)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	copy(out, row)
	return out, nil
}

// Probability returns P(variable = value | parents as assigned). This is the
// inference hot path, so the stored row is read in place.
func (c *CPT) Probability(a Assignment, value string) (float64, error) {
	row, err := c.row(a)
	if err != nil {
		return 0, err
	}
	idx, err := c.variable.ValueIndex(value)
	if err != nil {
		return 0, err
	}
	return row[idx], nil
}

func (c *CPT) row(a Assignment) ([]float64, error) {
	vals := make([]string, len(c.parents))
	for i, p := range c.parents {
		val, ok := a[p.Name]
		if !ok {
			return nil, fmt.Errorf("node %q: parent %q not assigned: %w",
				c.variable.Name, p.Name, ErrIncompleteAssignment)
		}
		if !p.HasValue(val) {
			return nil, fmt.Errorf("node %q parent %q: %q: %w",
				c.variable.Name, p.Name, val, ErrDomainMismatch)
		}
		vals[i] = val
	}
	row, ok := c.rows[RowKey(vals)]
	if !ok {
		return nil, fmt.Errorf("node %q: no row for parent assignment %v: %w",
			c.variable.Name, vals, ErrIncompleteCPT)
	}
	return row, nil
}

// EachRow visits every row in canonical parent-combination order, passing
// the parent values and the stored distribution. Iteration stops at the
// first error. Visiting a missing combination fails with ErrIncompleteCPT.
func (c *CPT) EachRow(fn func(parentValues []string, probs []float64) error) error {
	for _, combo := range Combinations(c.parents) {
		row, ok := c.rows[RowKey(combo)]
		if !ok {
			return fmt.Errorf("node %q: no row for parent assignment %v: %w",
				c.variable.Name, combo, ErrIncompleteCPT)
		}
		if err := fn(combo, row); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the table invariants: one row per combination of parent
// values and nothing else, every probability in [0, 1], and every row
// summing to 1 within ProbTolerance.
func (c *CPT) Validate() error {
	combos := Combinations(c.parents)
	if len(c.rows) != len(combos) {
		return fmt.Errorf("node %q: table has %d rows, want %d: %w",
			c.variable.Name, len(c.rows), len(combos), ErrIncompleteCPT)
	}
	for _, combo := range combos {
		row, ok := c.rows[RowKey(combo)]
		if !ok {
			return fmt.Errorf("node %q: no row for parent assignment %v: %w",
				c.variable.Name, combo, ErrIncompleteCPT)
		}
		sum := 0.0
		for i, p := range row {
			if p < 0 || p > 1 || math.IsNaN(p) {
				return fmt.Errorf("node %q row %v: probability %g for value %q out of range: %w",
					c.variable.Name, combo, p, c.variable.Values[i], ErrUnnormalizedCPT)
			}
			sum += p
		}
		if math.Abs(sum-1) > ProbTolerance {
			return fmt.Errorf("node %q row %v sums to %g, want 1: %w",
				c.variable.Name, combo, sum, ErrUnnormalizedCPT)
		}
	}
	return nil
}
