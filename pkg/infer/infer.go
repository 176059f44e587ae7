/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: infer.go
Description: Main entry point for exact inference over Liora Bayesian
networks. Provides the Engine interface and the factory that selects between
enumeration and variable-elimination backends. Both backends compute exact
posteriors from the chain-rule factorization and must agree within
bayes.ProbTolerance.
*/

package infer

import (
	"fmt"

	"github.com/kleascm/liora/pkg/bayes"
)

// Algorithm identifiers accepted by NewEngine.
const (
	AlgorithmEnumeration = "enum"
	AlgorithmElimination = "elim"
)

// Engine defines the interface for exact inference engines. Engines treat
// the network as read-only shared state, so one engine may serve concurrent
// queries.
type Engine interface {
	// Distribution computes the posterior P(target | evidence) over the
	// target's value domain, ordered per the domain.
	Distribution(net *bayes.Network, target string, evidence bayes.Evidence) ([]float64, error)

	// Probability computes the scalar P(target = value | evidence).
	Probability(net *bayes.Network, target, value string, evidence bayes.Evidence) (float64, error)

	// JointProbability computes P(evidence): the probability of the given
	// partial assignment with every other variable summed out.
	JointProbability(net *bayes.Network, evidence bayes.Evidence) (float64, error)

	// Algorithm returns the engine's algorithm identifier.
	Algorithm() string
}

// NewEngine returns the inference engine for the given algorithm identifier.
// The empty string selects enumeration, the reference algorithm.
func NewEngine(algorithm string) (Engine, error) {
	switch algorithm {
	case "", AlgorithmEnumeration:
		return NewEnumerationEngine(), nil
	case AlgorithmElimination:
		return NewEliminationEngine(), nil
	default:
		return nil, fmt.Errorf("unknown inference algorithm %q", algorithm)
	}
}

// checkQuery validates the target and evidence against the network before
// any computation runs.
func checkQuery(net *bayes.Network, target string, evidence bayes.Evidence) (*bayes.Node, error) {
	node, err := net.Node(target)
	if err != nil {
		return nil, err
	}
	if err := net.CheckEvidence(evidence); err != nil {
		return nil, err
	}
	return node, nil
}

// indicator returns the degenerate distribution that puts all mass on one
// domain value. A variable is certain given itself.
func indicator(domain []string, value string) []float64 {
	dist := make([]float64, len(domain))
	for i, v := range domain {
		if v == value {
			dist[i] = 1
		}
	}
	return dist
}

// normalize scales weights to sum to 1. An all-zero weight vector means the
// evidence is impossible under the model, which is reported as
// ErrZeroProbabilityEvidence instead of a 0/0 distribution.
func normalize(weights []float64) ([]float64, error) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return nil, bayes.ErrZeroProbabilityEvidence
	}
	dist := make([]float64, len(weights))
	for i, w := range weights {
		dist[i] = w / sum
	}
	return dist, nil
}
