/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: bayes_test.go
Description: Unit tests for the Liora domain model. Covers variable and CPT
invariants, row lookups, network finalization, topological ordering, and
the typed error kinds.
*/

package bayes_test

import (
	"testing"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booleanCPT(t *testing.T, name string, parents []bayes.Variable, rows map[string][]float64) *bayes.CPT {
	t.Helper()
	v := bayes.NewVariable(name, nil)
	cpt := bayes.NewCPT(v, parents)
	for _, combo := range bayes.Combinations(parents) {
		probs, ok := rows[bayes.RowKey(combo)]
		require.True(t, ok, "missing row for %v", combo)
		require.NoError(t, cpt.SetRow(combo, probs))
	}
	return cpt
}

func TestDefaultDomain(t *testing.T) {
	v := bayes.NewVariable("rain", nil)
	assert.Equal(t, []string{"true", "false"}, v.Values)
	assert.True(t, v.IsBoolean())

	w := bayes.NewVariable("season", []string{"wet", "dry"})
	assert.False(t, w.IsBoolean())
}

func TestVariableValidate(t *testing.T) {
	require.NoError(t, bayes.NewVariable("a", nil).Validate())
	require.NoError(t, bayes.NewVariable("color", []string{"red", "green"}).Validate())

	assert.Error(t, bayes.Variable{Name: "a"}.Validate(), "empty domain")
	assert.Error(t, bayes.Variable{Name: "", Values: []string{"x"}}.Validate(), "empty name")
	assert.Error(t, bayes.NewVariable("a", []string{"x", "x"}).Validate(), "duplicate value")
	assert.Error(t, bayes.NewVariable("a|b", nil).Validate(), "reserved character")
	assert.Error(t, bayes.NewVariable("a", []string{"x y"}).Validate(), "whitespace in value")
}

func TestValueIndex(t *testing.T) {
	v := bayes.NewVariable("color", []string{"red", "green", "blue"})

	idx, err := v.ValueIndex("green")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = v.ValueIndex("magenta")
	assert.ErrorIs(t, err, bayes.ErrDomainMismatch)
}

func TestCombinationsOrder(t *testing.T) {
	a := bayes.NewVariable("a", nil)
	c := bayes.NewVariable("c", []string{"x", "y", "z"})

	combos := bayes.Combinations([]bayes.Variable{a, c})
	require.Len(t, combos, 6)
	assert.Equal(t, []string{"true", "x"}, combos[0])
	assert.Equal(t, []string{"true", "z"}, combos[2])
	assert.Equal(t, []string{"false", "x"}, combos[3])

	assert.Equal(t, [][]string{{}}, bayes.Combinations(nil), "empty list yields one empty combination")
}

func TestCPTRowLookup(t *testing.T) {
	a := bayes.NewVariable("a", nil)
	cpt := booleanCPT(t, "b", []bayes.Variable{a}, map[string][]float64{
		bayes.RowKey([]string{"true"}):  {0.9, 0.1},
		bayes.RowKey([]string{"false"}): {0.1, 0.9},
	})

	row, err := cpt.Row(bayes.Assignment{"a": "true"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.1}, row)

	p, err := cpt.Probability(bayes.Assignment{"a": "false", "b": "ignored-extra"}, "false")
	require.NoError(t, err)
	assert.Equal(t, 0.9, p)

	_, err = cpt.Row(bayes.Assignment{})
	assert.ErrorIs(t, err, bayes.ErrIncompleteAssignment)

	_, err = cpt.Row(bayes.Assignment{"a": "maybe"})
	assert.ErrorIs(t, err, bayes.ErrDomainMismatch)

	_, err = cpt.Probability(bayes.Assignment{"a": "true"}, "maybe")
	assert.ErrorIs(t, err, bayes.ErrDomainMismatch)
}

func TestCPTRowIsCopied(t *testing.T) {
	cpt := booleanCPT(t, "a", nil, map[string][]float64{
		bayes.RowKey(nil): {0.6, 0.4},
	})

	row, err := cpt.Row(bayes.Assignment{})
	require.NoError(t, err)
	row[0] = 99

	again, err := cpt.Row(bayes.Assignment{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.6, 0.4}, again)
}

func TestCPTValidate(t *testing.T) {
	a := bayes.NewVariable("a", nil)

	full := booleanCPT(t, "b", []bayes.Variable{a}, map[string][]float64{
		bayes.RowKey([]string{"true"}):  {0.9, 0.1},
		bayes.RowKey([]string{"false"}): {0.1, 0.9},
	})
	require.NoError(t, full.Validate())

	missing := bayes.NewCPT(bayes.NewVariable("b", nil), []bayes.Variable{a})
	require.NoError(t, missing.SetRow([]string{"true"}, []float64{0.9, 0.1}))
	assert.ErrorIs(t, missing.Validate(), bayes.ErrIncompleteCPT)

	unnormalized := booleanCPT(t, "b", []bayes.Variable{a}, map[string][]float64{
		bayes.RowKey([]string{"true"}):  {0.8, 0.1},
		bayes.RowKey([]string{"false"}): {0.1, 0.9},
	})
	assert.ErrorIs(t, unnormalized.Validate(), bayes.ErrUnnormalizedCPT)

	outOfRange := booleanCPT(t, "b", []bayes.Variable{a}, map[string][]float64{
		bayes.RowKey([]string{"true"}):  {1.5, -0.5},
		bayes.RowKey([]string{"false"}): {0.1, 0.9},
	})
	assert.ErrorIs(t, outOfRange.Validate(), bayes.ErrUnnormalizedCPT)
}

func rootNode(t *testing.T, name string, pTrue float64) *bayes.Node {
	t.Helper()
	v := bayes.NewVariable(name, nil)
	cpt := bayes.NewCPT(v, nil)
	require.NoError(t, cpt.SetRow(nil, []float64{pTrue, 1 - pTrue}))
	return &bayes.Node{Variable: v, CPT: cpt}
}

func childNode(t *testing.T, name string, parent string, pGivenTrue, pGivenFalse float64) *bayes.Node {
	t.Helper()
	v := bayes.NewVariable(name, nil)
	pv := bayes.NewVariable(parent, nil)
	cpt := bayes.NewCPT(v, []bayes.Variable{pv})
	require.NoError(t, cpt.SetRow([]string{"true"}, []float64{pGivenTrue, 1 - pGivenTrue}))
	require.NoError(t, cpt.SetRow([]string{"false"}, []float64{pGivenFalse, 1 - pGivenFalse}))
	return &bayes.Node{Variable: v, Parents: []string{parent}, CPT: cpt}
}

func TestNewNetwork(t *testing.T) {
	net, err := bayes.NewNetwork([]*bayes.Node{
		childNode(t, "b", "a", 0.9, 0.1),
		rootNode(t, "a", 0.6),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, net.Len())
	assert.Equal(t, []string{"a", "b"}, net.TopoOrder())
	assert.Equal(t, []string{"a", "b"}, net.Names())
	assert.True(t, net.Has("a"))
	assert.False(t, net.Has("c"))

	domain, err := net.Domain("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false"}, domain)

	_, err = net.Node("missing")
	assert.ErrorIs(t, err, bayes.ErrUnknownVariable)

	row, err := net.Lookup("b", bayes.Assignment{"a": "true"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.1}, row)

	require.NoError(t, net.Validate())
}

func TestNewNetworkTopoOrderDeterministic(t *testing.T) {
	// Diamond with name ties: roots d and a, children b and c of both.
	mk := func() []*bayes.Node {
		a := rootNode(t, "a", 0.5)
		d := rootNode(t, "d", 0.5)
		av := bayes.NewVariable("a", nil)
		dv := bayes.NewVariable("d", nil)
		child := func(name string) *bayes.Node {
			v := bayes.NewVariable(name, nil)
			cpt := bayes.NewCPT(v, []bayes.Variable{av, dv})
			for _, combo := range bayes.Combinations([]bayes.Variable{av, dv}) {
				require.NoError(t, cpt.SetRow(combo, []float64{0.5, 0.5}))
			}
			return &bayes.Node{Variable: v, Parents: []string{"a", "d"}, CPT: cpt}
		}
		return []*bayes.Node{child("c"), a, child("b"), d}
	}

	net, err := bayes.NewNetwork(mk())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d", "b", "c"}, net.TopoOrder())

	again, err := bayes.NewNetwork(mk())
	require.NoError(t, err)
	assert.Equal(t, net.TopoOrder(), again.TopoOrder())
}

func TestNewNetworkCycle(t *testing.T) {
	_, err := bayes.NewNetwork([]*bayes.Node{
		childNode(t, "a", "b", 0.5, 0.5),
		childNode(t, "b", "a", 0.5, 0.5),
	})
	assert.ErrorIs(t, err, bayes.ErrCyclicGraph)
}

func TestNewNetworkDuplicate(t *testing.T) {
	_, err := bayes.NewNetwork([]*bayes.Node{
		rootNode(t, "a", 0.5),
		rootNode(t, "a", 0.7),
	})
	assert.ErrorIs(t, err, bayes.ErrDuplicateDeclaration)
}

func TestNewNetworkUnknownParent(t *testing.T) {
	_, err := bayes.NewNetwork([]*bayes.Node{
		childNode(t, "b", "ghost", 0.5, 0.5),
	})
	assert.ErrorIs(t, err, bayes.ErrUnknownVariable)
}

func TestCheckEvidence(t *testing.T) {
	net, err := bayes.NewNetwork([]*bayes.Node{
		rootNode(t, "a", 0.6),
		childNode(t, "b", "a", 0.9, 0.1),
	})
	require.NoError(t, err)

	require.NoError(t, net.CheckEvidence(bayes.Evidence{"a": "true"}))
	assert.ErrorIs(t, net.CheckEvidence(bayes.Evidence{"z": "true"}), bayes.ErrUnknownVariable)
	assert.ErrorIs(t, net.CheckEvidence(bayes.Evidence{"a": "perhaps"}), bayes.ErrDomainMismatch)
}
