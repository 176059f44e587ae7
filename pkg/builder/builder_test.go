/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: builder_test.go
Description: Unit tests for the Liora network builder. Covers declaration
parsing, implicit root materialization, acyclicity validation, duplicate
detection, and CPT source handling.
*/

package builder_test

import (
	"testing"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/kleascm/liora/pkg/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclaration(t *testing.T) {
	d, err := builder.ParseDeclaration("alarm|burglary,earthquake")
	require.NoError(t, err)
	assert.Equal(t, "alarm", d.Name)
	assert.Equal(t, []string{"burglary", "earthquake"}, d.Parents)

	d, err = builder.ParseDeclaration("  rain  ")
	require.NoError(t, err)
	assert.Equal(t, "rain", d.Name)
	assert.Empty(t, d.Parents)

	d, err = builder.ParseDeclaration("b| a ")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, d.Parents)

	_, err = builder.ParseDeclaration("")
	assert.Error(t, err)
	_, err = builder.ParseDeclaration("|a")
	assert.Error(t, err)
	_, err = builder.ParseDeclaration("b|a,,c")
	assert.Error(t, err)
	_, err = builder.ParseDeclaration("b|")
	assert.Error(t, err)
}

func TestBuildImplicitRoot(t *testing.T) {
	net, err := builder.Build([]string{"b|a"}, builder.UniformSource{})
	require.NoError(t, err)

	require.Equal(t, 2, net.Len())
	node, err := net.Node("a")
	require.NoError(t, err)
	assert.Empty(t, node.Parents)
	assert.Equal(t, []string{"true", "false"}, node.Variable.Values)
}

func TestBuildCycle(t *testing.T) {
	_, err := builder.Build([]string{"a|b", "b|a"}, builder.UniformSource{})
	assert.ErrorIs(t, err, bayes.ErrCyclicGraph)

	_, err = builder.Build([]string{"a|a"}, builder.UniformSource{})
	assert.ErrorIs(t, err, bayes.ErrCyclicGraph, "self loop")
}

func TestBuildDuplicateDeclaration(t *testing.T) {
	_, err := builder.Build([]string{"a", "a|b"}, builder.UniformSource{})
	assert.ErrorIs(t, err, bayes.ErrDuplicateDeclaration)
}

func TestBuildDuplicateParent(t *testing.T) {
	_, err := builder.Build([]string{"b|a,a"}, builder.UniformSource{})
	assert.ErrorIs(t, err, bayes.ErrDuplicateDeclaration)
}

func TestUniformSource(t *testing.T) {
	b := builder.New().
		WithSource(builder.UniformSource{}).
		WithDomain("color", []string{"red", "green", "blue"})
	require.NoError(t, b.Add("color"))
	require.NoError(t, b.Add("mood|color"))

	net, err := b.Build()
	require.NoError(t, err)

	row, err := net.Lookup("color", bayes.Assignment{})
	require.NoError(t, err)
	require.Len(t, row, 3)
	for _, p := range row {
		assert.InDelta(t, 1.0/3.0, p, 1e-12)
	}

	row, err = net.Lookup("mood", bayes.Assignment{"color": "green"})
	require.NoError(t, err)
	require.Len(t, row, 2)
	assert.InDelta(t, 0.5, row[0], 1e-12)
}

func TestBuildLiteralSource(t *testing.T) {
	src := builder.LiteralSource{}
	src.Set("a", nil, []float64{0.6, 0.4})
	src.Set("b", []string{"true"}, []float64{0.9, 0.1})
	src.Set("b", []string{"false"}, []float64{0.1, 0.9})

	net, err := builder.Build([]string{"a", "b|a"}, src)
	require.NoError(t, err)

	row, err := net.Lookup("b", bayes.Assignment{"a": "true"})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, row[0], 1e-12)
}

func TestBuildLiteralSourceIncomplete(t *testing.T) {
	src := builder.LiteralSource{}
	src.Set("a", nil, []float64{0.6, 0.4})
	src.Set("b", []string{"true"}, []float64{0.9, 0.1})
	// row for a=false missing

	_, err := builder.Build([]string{"a", "b|a"}, src)
	assert.ErrorIs(t, err, bayes.ErrIncompleteCPT)
}

func TestBuildLiteralSourceUnnormalized(t *testing.T) {
	src := builder.LiteralSource{}
	src.Set("a", nil, []float64{0.6, 0.3})

	_, err := builder.Build([]string{"a"}, src)
	assert.ErrorIs(t, err, bayes.ErrUnnormalizedCPT)
}

func TestBuildWithDomain(t *testing.T) {
	src := builder.LiteralSource{}
	src.Set("season", nil, []float64{0.3, 0.3, 0.4})
	src.Set("rain", []string{"wet"}, []float64{0.8, 0.2})
	src.Set("rain", []string{"mild"}, []float64{0.5, 0.5})
	src.Set("rain", []string{"dry"}, []float64{0.1, 0.9})

	b := builder.New().
		WithSource(src).
		WithDomain("season", []string{"wet", "mild", "dry"})
	require.NoError(t, b.Add("season"))
	require.NoError(t, b.Add("rain|season"))

	net, err := b.Build()
	require.NoError(t, err)

	domain, err := net.Domain("season")
	require.NoError(t, err)
	assert.Equal(t, []string{"wet", "mild", "dry"}, domain)

	row, err := net.Lookup("rain", bayes.Assignment{"season": "mild"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, row[0], 1e-12)
}
