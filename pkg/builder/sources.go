/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sources.go
Description: CPT value sources for the Liora network builder. How row values
are obtained is a collaborator concern, so the builder only depends on the
CPTSource interface; shipped implementations cover uniform default fill and
explicit literal rows.
*/

package builder

import (
	"fmt"

	"github.com/kleascm/liora/pkg/bayes"
)

// CPTSource supplies the table rows for one node: a distribution over the
// node's values per joint parent assignment, keyed by bayes.RowKey of the
// parent values in parent order. The builder validates whatever a source
// returns, so sources may be naive.
type CPTSource interface {
	Rows(variable bayes.Variable, parents []bayes.Variable) (map[string][]float64, error)
}

// UniformSource fills every row with the uniform distribution over the
// node's values. Useful as a default when no parameters are known yet.
type UniformSource struct{}

// Rows returns a uniform distribution for every parent combination.
func (UniformSource) Rows(variable bayes.Variable, parents []bayes.Variable) (map[string][]float64, error) {
	n := len(variable.Values)
	rows := make(map[string][]float64)
	for _, combo := range bayes.Combinations(parents) {
		row := make([]float64, n)
		for i := range row {
			row[i] = 1.0 / float64(n)
		}
		rows[bayes.RowKey(combo)] = row
	}
	return rows, nil
}

// LiteralSource serves explicitly supplied rows: node name -> row key ->
// distribution. Missing nodes or rows fail with ErrIncompleteCPT.
type LiteralSource map[string]map[string][]float64

// Set records the distribution for one node and parent assignment.
func (s LiteralSource) Set(node string, parentValues []string, probs []float64) {
	if s[node] == nil {
		s[node] = make(map[string][]float64)
	}
	s[node][bayes.RowKey(parentValues)] = probs
}

// Rows returns the recorded rows for one node.
func (s LiteralSource) Rows(variable bayes.Variable, parents []bayes.Variable) (map[string][]float64, error) {
	rows, ok := s[variable.Name]
	if !ok {
		return nil, fmt.Errorf("no rows supplied for node %q: %w", variable.Name, bayes.ErrIncompleteCPT)
	}
	return rows, nil
}
