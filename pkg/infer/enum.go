/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: enum.go
Description: Exact inference by full enumeration for Liora. Sums the
factorized joint distribution over every assignment of the hidden variables,
walking the network's deterministic topological order so floating-point
summation order, and therefore rounding, is reproducible across runs.
*/

package infer

import (
	"time"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/sirupsen/logrus"
)

// EnumerationEngine computes posteriors by enumerating the joint
// distribution. Cost is exponential in the number of hidden variables; this
// is the reference algorithm the elimination backend is checked against.
type EnumerationEngine struct {
	// Logger receives per-query debug statistics when set.
	Logger *logrus.Logger
}

// NewEnumerationEngine creates an enumeration engine.
func NewEnumerationEngine() *EnumerationEngine {
	return &EnumerationEngine{}
}

// Algorithm returns the algorithm identifier.
func (e *EnumerationEngine) Algorithm() string { return AlgorithmEnumeration }

// Distribution computes P(target | evidence) over the target's domain. For
// each candidate target value the unnormalized weight is the sum over all
// hidden-variable assignments of the product of CPT entries; weights are
// then normalized.
func (e *EnumerationEngine) Distribution(net *bayes.Network, target string, evidence bayes.Evidence) ([]float64, error) {
	node, err := checkQuery(net, target, evidence)
	if err != nil {
		return nil, err
	}
	domain := node.Variable.Values

	// Evidence fixing the target itself makes the target certain.
	if val, ok := evidence[target]; ok {
		return indicator(domain, val), nil
	}

	start := time.Now()
	order := net.TopoOrder()
	weights := make([]float64, len(domain))
	for i, val := range domain {
		asg := evidence.Clone()
		asg[target] = val
		w, err := enumerateAll(net, order, asg)
		if err != nil {
			return nil, err
		}
		weights[i] = w
	}

	dist, err := normalize(weights)
	if err != nil {
		return nil, err
	}
	if e.Logger != nil {
		e.Logger.WithFields(logrus.Fields{
			"target":   target,
			"evidence": len(evidence),
			"hidden":   net.Len() - len(evidence) - 1,
			"duration": time.Since(start),
		}).Debug("Enumeration query complete")
	}
	return dist, nil
}

// Probability computes the scalar P(target = value | evidence).
func (e *EnumerationEngine) Probability(net *bayes.Network, target, value string, evidence bayes.Evidence) (float64, error) {
	node, err := net.Node(target)
	if err != nil {
		return 0, err
	}
	idx, err := node.Variable.ValueIndex(value)
	if err != nil {
		return 0, err
	}
	dist, err := e.Distribution(net, target, evidence)
	if err != nil {
		return 0, err
	}
	return dist[idx], nil
}

// JointProbability computes P(evidence) by summing out every unassigned
// variable.
func (e *EnumerationEngine) JointProbability(net *bayes.Network, evidence bayes.Evidence) (float64, error) {
	if err := net.CheckEvidence(evidence); err != nil {
		return 0, err
	}
	return enumerateAll(net, net.TopoOrder(), evidence.Clone())
}

// enumerateAll recursively evaluates the chain-rule factorization over vars,
// which must be in topological order so every node's parents are assigned
// before the node is reached. Assigned variables contribute their CPT entry;
// hidden variables are summed over their domain in declared value order.
// The assignment is extended in place and undone after each branch.
func enumerateAll(net *bayes.Network, vars []string, asg bayes.Assignment) (float64, error) {
	if len(vars) == 0 {
		return 1, nil
	}
	name := vars[0]
	rest := vars[1:]

	if val, ok := asg[name]; ok {
		p, err := net.Probability(name, val, asg)
		if err != nil {
			return 0, err
		}
		if p == 0 {
			return 0, nil
		}
		tail, err := enumerateAll(net, rest, asg)
		if err != nil {
			return 0, err
		}
		return p * tail, nil
	}

	node, err := net.Node(name)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, val := range node.Variable.Values {
		asg[name] = val
		p, err := net.Probability(name, val, asg)
		if err != nil {
			delete(asg, name)
			return 0, err
		}
		if p != 0 {
			tail, err := enumerateAll(net, rest, asg)
			if err != nil {
				delete(asg, name)
				return 0, err
			}
			sum += p * tail
		}
	}
	delete(asg, name)
	return sum, nil
}
