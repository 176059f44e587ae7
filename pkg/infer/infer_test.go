/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: infer_test.go
Description: Unit tests for the Liora inference engines. Covers posterior
computation on reference networks, evidence handling, impossible evidence,
joint probabilities, and agreement between the enumeration and elimination
backends.
*/

package infer_test

import (
	"testing"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/kleascm/liora/pkg/builder"
	"github.com/kleascm/liora/pkg/infer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainNet builds a two-node chain: P(a)=0.6, P(b|a)=0.9, P(b|!a)=0.1.
func chainNet(t *testing.T) *bayes.Network {
	t.Helper()
	src := builder.LiteralSource{}
	src.Set("a", nil, []float64{0.6, 0.4})
	src.Set("b", []string{"true"}, []float64{0.9, 0.1})
	src.Set("b", []string{"false"}, []float64{0.1, 0.9})

	net, err := builder.Build([]string{"a", "b|a"}, src)
	require.NoError(t, err)
	return net
}

// alarmNet builds the burglary/earthquake/alarm network with the john and
// mary call nodes.
func alarmNet(t *testing.T) *bayes.Network {
	t.Helper()
	src := builder.LiteralSource{}
	src.Set("burglary", nil, []float64{0.001, 0.999})
	src.Set("earthquake", nil, []float64{0.002, 0.998})
	src.Set("alarm", []string{"true", "true"}, []float64{0.95, 0.05})
	src.Set("alarm", []string{"true", "false"}, []float64{0.94, 0.06})
	src.Set("alarm", []string{"false", "true"}, []float64{0.29, 0.71})
	src.Set("alarm", []string{"false", "false"}, []float64{0.001, 0.999})
	src.Set("john", []string{"true"}, []float64{0.90, 0.10})
	src.Set("john", []string{"false"}, []float64{0.05, 0.95})
	src.Set("mary", []string{"true"}, []float64{0.70, 0.30})
	src.Set("mary", []string{"false"}, []float64{0.01, 0.99})

	net, err := builder.Build([]string{
		"burglary",
		"earthquake",
		"alarm|burglary,earthquake",
		"john|alarm",
		"mary|alarm",
	}, src)
	require.NoError(t, err)
	return net
}

// weatherNet builds a network with a three-valued root to exercise
// non-boolean domains.
func weatherNet(t *testing.T) *bayes.Network {
	t.Helper()
	src := builder.LiteralSource{}
	src.Set("season", nil, []float64{0.25, 0.35, 0.4})
	src.Set("rain", []string{"wet"}, []float64{0.8, 0.2})
	src.Set("rain", []string{"mild"}, []float64{0.5, 0.5})
	src.Set("rain", []string{"dry"}, []float64{0.05, 0.95})
	src.Set("picnic", []string{"true"}, []float64{0.1, 0.9})
	src.Set("picnic", []string{"false"}, []float64{0.7, 0.3})

	b := builder.New().
		WithSource(src).
		WithDomain("season", []string{"wet", "mild", "dry"})
	require.NoError(t, b.Add("season"))
	require.NoError(t, b.Add("rain|season"))
	require.NoError(t, b.Add("picnic|rain"))

	net, err := b.Build()
	require.NoError(t, err)
	return net
}

// engines returns both backends so every behavior test runs against each.
func engines(t *testing.T) map[string]infer.Engine {
	t.Helper()
	enum, err := infer.NewEngine(infer.AlgorithmEnumeration)
	require.NoError(t, err)
	elim, err := infer.NewEngine(infer.AlgorithmElimination)
	require.NoError(t, err)
	return map[string]infer.Engine{"enum": enum, "elim": elim}
}

func TestNewEngine(t *testing.T) {
	eng, err := infer.NewEngine("")
	require.NoError(t, err)
	assert.Equal(t, infer.AlgorithmEnumeration, eng.Algorithm())

	eng, err = infer.NewEngine(infer.AlgorithmElimination)
	require.NoError(t, err)
	assert.Equal(t, infer.AlgorithmElimination, eng.Algorithm())

	_, err = infer.NewEngine("gibbs")
	assert.Error(t, err)
}

func TestChainPosterior(t *testing.T) {
	net := chainNet(t)
	for name, eng := range engines(t) {
		t.Run(name, func(t *testing.T) {
			dist, err := eng.Distribution(net, "b", nil)
			require.NoError(t, err)
			require.Len(t, dist, 2)
			assert.InDelta(t, 0.58, dist[0], bayes.ProbTolerance)
			assert.InDelta(t, 0.42, dist[1], bayes.ProbTolerance)

			p, err := eng.Probability(net, "a", "true", bayes.Evidence{"b": "true"})
			require.NoError(t, err)
			assert.InDelta(t, 0.54/0.58, p, bayes.ProbTolerance)
		})
	}
}

func TestAlarmPosterior(t *testing.T) {
	net := alarmNet(t)
	evidence := bayes.Evidence{"john": "true", "mary": "true"}
	for name, eng := range engines(t) {
		t.Run(name, func(t *testing.T) {
			p, err := eng.Probability(net, "burglary", "true", evidence)
			require.NoError(t, err)
			assert.InDelta(t, 0.2841718, p, 1e-6)
		})
	}
}

func TestDistributionSumsToOne(t *testing.T) {
	nets := map[string]*bayes.Network{
		"alarm":   alarmNet(t),
		"weather": weatherNet(t),
	}
	for netName, net := range nets {
		for engName, eng := range engines(t) {
			t.Run(netName+"/"+engName, func(t *testing.T) {
				for _, target := range net.Names() {
					dist, err := eng.Distribution(net, target, nil)
					require.NoError(t, err)
					sum := 0.0
					for _, p := range dist {
						sum += p
					}
					assert.InDelta(t, 1.0, sum, bayes.ProbTolerance, "target %s", target)
				}
			})
		}
	}
}

func TestEvidenceOnTarget(t *testing.T) {
	net := weatherNet(t)
	for name, eng := range engines(t) {
		t.Run(name, func(t *testing.T) {
			dist, err := eng.Distribution(net, "season", bayes.Evidence{"season": "mild"})
			require.NoError(t, err)
			assert.Equal(t, []float64{0, 1, 0}, dist)
		})
	}
}

func TestZeroProbabilityEvidence(t *testing.T) {
	src := builder.LiteralSource{}
	src.Set("a", nil, []float64{1, 0})
	src.Set("b", []string{"true"}, []float64{0.5, 0.5})
	src.Set("b", []string{"false"}, []float64{0.5, 0.5})
	net, err := builder.Build([]string{"a", "b|a"}, src)
	require.NoError(t, err)

	for name, eng := range engines(t) {
		t.Run(name, func(t *testing.T) {
			_, err := eng.Distribution(net, "b", bayes.Evidence{"a": "false"})
			assert.ErrorIs(t, err, bayes.ErrZeroProbabilityEvidence)
		})
	}
}

func TestEnginesAgree(t *testing.T) {
	enum := infer.NewEnumerationEngine()
	elim := infer.NewEliminationEngine()

	cases := []struct {
		net      *bayes.Network
		target   string
		evidence bayes.Evidence
	}{
		{alarmNet(t), "burglary", bayes.Evidence{"john": "true", "mary": "true"}},
		{alarmNet(t), "earthquake", bayes.Evidence{"john": "true"}},
		{alarmNet(t), "john", bayes.Evidence{"burglary": "true"}},
		{alarmNet(t), "alarm", nil},
		{weatherNet(t), "season", bayes.Evidence{"picnic": "false"}},
		{weatherNet(t), "picnic", bayes.Evidence{"season": "dry"}},
		{weatherNet(t), "rain", bayes.Evidence{"picnic": "true"}},
	}
	for _, tc := range cases {
		want, err := enum.Distribution(tc.net, tc.target, tc.evidence)
		require.NoError(t, err)
		got, err := elim.Distribution(tc.net, tc.target, tc.evidence)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.InDelta(t, want[i], got[i], bayes.ProbTolerance,
				"target %s value index %d", tc.target, i)
		}
	}
}

func TestJointProbability(t *testing.T) {
	net := chainNet(t)
	for name, eng := range engines(t) {
		t.Run(name, func(t *testing.T) {
			p, err := eng.JointProbability(net, bayes.Evidence{"a": "true", "b": "true"})
			require.NoError(t, err)
			assert.InDelta(t, 0.54, p, bayes.ProbTolerance)

			p, err = eng.JointProbability(net, bayes.Evidence{"b": "true"})
			require.NoError(t, err)
			assert.InDelta(t, 0.58, p, bayes.ProbTolerance)

			p, err = eng.JointProbability(net, nil)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, p, bayes.ProbTolerance)
		})
	}
}

func TestQueryValidation(t *testing.T) {
	net := chainNet(t)
	for name, eng := range engines(t) {
		t.Run(name, func(t *testing.T) {
			_, err := eng.Distribution(net, "ghost", nil)
			assert.ErrorIs(t, err, bayes.ErrUnknownVariable)

			_, err = eng.Distribution(net, "b", bayes.Evidence{"ghost": "true"})
			assert.ErrorIs(t, err, bayes.ErrUnknownVariable)

			_, err = eng.Distribution(net, "b", bayes.Evidence{"a": "maybe"})
			assert.ErrorIs(t, err, bayes.ErrDomainMismatch)

			_, err = eng.Probability(net, "b", "maybe", nil)
			assert.ErrorIs(t, err, bayes.ErrDomainMismatch)
		})
	}
}
