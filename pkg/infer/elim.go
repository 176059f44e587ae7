/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: elim.go
Description: Exact inference by variable elimination for Liora. Sums out one
hidden variable at a time through factor creation, pointwise products and
marginalization, choosing the next variable by smallest factor then
alphabetically. Produces results numerically identical to full enumeration
within bayes.ProbTolerance; factor tables are enumerated in canonical domain
order so summation order stays deterministic.
*/

package infer

import (
	"fmt"
	"sort"
	"time"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/sirupsen/logrus"
)

// EliminationEngine computes posteriors by variable elimination. It shares
// validation and error semantics with the enumeration engine.
type EliminationEngine struct {
	// Logger receives per-query debug statistics when set.
	Logger *logrus.Logger
}

// NewEliminationEngine creates a variable elimination engine.
func NewEliminationEngine() *EliminationEngine {
	return &EliminationEngine{}
}

// Algorithm returns the algorithm identifier.
func (e *EliminationEngine) Algorithm() string { return AlgorithmElimination }

// factor is an intermediate table over a sorted set of variables. Keys are
// bayes.RowKey over the variable values in factor order.
type factor struct {
	vars  []string
	table map[string]float64
}

// project builds the key of this factor for a full assignment of its
// variables.
func (f *factor) project(asg bayes.Assignment) string {
	vals := make([]string, len(f.vars))
	for i, v := range f.vars {
		vals[i] = asg[v]
	}
	return bayes.RowKey(vals)
}

// Distribution computes P(target | evidence) by eliminating every hidden
// variable, then normalizing the product of the remaining factors.
func (e *EliminationEngine) Distribution(net *bayes.Network, target string, evidence bayes.Evidence) ([]float64, error) {
	node, err := checkQuery(net, target, evidence)
	if err != nil {
		return nil, err
	}
	domain := node.Variable.Values

	if val, ok := evidence[target]; ok {
		return indicator(domain, val), nil
	}

	start := time.Now()
	children := childrenOf(net)
	eliminated := make(map[string]bool, net.Len())
	var factors []*factor

	for len(eliminated) < net.Len() {
		name, fvars, err := nextVariable(net, children, eliminated, evidence)
		if err != nil {
			return nil, err
		}
		// Even a factor with no free variables is kept: a fully observed
		// family contributes a scalar, and a zero scalar must surface as
		// impossible evidence rather than vanish in normalization.
		f, err := makeFactor(net, name, fvars, evidence)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
		if _, fixed := evidence[name]; name != target && !fixed {
			factors, err = sumOut(net, name, factors)
			if err != nil {
				return nil, err
			}
		}
		eliminated[name] = true
	}

	result, err := multiplyAll(net, factors)
	if err != nil {
		return nil, err
	}

	weights := make([]float64, len(domain))
	for i, val := range domain {
		weights[i] = result.table[bayes.RowKey([]string{val})]
	}
	dist, err := normalize(weights)
	if err != nil {
		return nil, err
	}
	if e.Logger != nil {
		e.Logger.WithFields(logrus.Fields{
			"target":   target,
			"evidence": len(evidence),
			"duration": time.Since(start),
		}).Debug("Elimination query complete")
	}
	return dist, nil
}

// Probability computes the scalar P(target = value | evidence).
func (e *EliminationEngine) Probability(net *bayes.Network, target, value string, evidence bayes.Evidence) (float64, error) {
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

// JointProbability computes P(evidence). The factorized sum is the same for
// both backends, so this delegates to the enumeration walk.
func (e *EliminationEngine) JointProbability(net *bayes.Network, evidence bayes.Evidence) (float64, error) {
	if err := net.CheckEvidence(evidence); err != nil {
		return 0, err
	}
	return enumerateAll(net, net.TopoOrder(), evidence.Clone())
}

// childrenOf inverts the parent relation.
func childrenOf(net *bayes.Network) map[string][]string {
	children := make(map[string][]string, net.Len())
	for _, name := range net.Names() {
		node, _ := net.Node(name)
		for _, p := range node.Parents {
			children[p] = append(children[p], name)
		}
	}
	return children
}

// nextVariable picks the next variable to process: among variables whose
// children have all been eliminated, the one whose factor involves the
// fewest variables, ties broken alphabetically. Evidence variables do not
// count toward factor size.
func nextVariable(net *bayes.Network, children map[string][]string, eliminated map[string]bool, evidence bayes.Evidence) (string, []string, error) {
	bestName := ""
	var bestVars []string
	for _, name := range net.Names() {
		if eliminated[name] {
			continue
		}
		pending := false
		for _, c := range children[name] {
			if !eliminated[c] {
				pending = true
				break
			}
		}
		if pending {
			continue
		}
		node, err := net.Node(name)
		if err != nil {
			return "", nil, err
		}
		var fvars []string
		for _, p := range node.Parents {
			if _, fixed := evidence[p]; !fixed {
				fvars = append(fvars, p)
			}
		}
		if _, fixed := evidence[name]; !fixed {
			fvars = append(fvars, name)
		}
		sort.Strings(fvars)
		if bestName == "" || len(fvars) < len(bestVars) || (len(fvars) == len(bestVars) && name < bestName) {
			bestName = name
			bestVars = fvars
		}
	}
	if bestName == "" {
		return "", nil, fmt.Errorf("no eliminable variable: %w", bayes.ErrCyclicGraph)
	}
	return bestName, bestVars, nil
}

// factorVariables resolves names to network variables.
func factorVariables(net *bayes.Network, names []string) ([]bayes.Variable, error) {
	vars := make([]bayes.Variable, len(names))
	for i, name := range names {
		node, err := net.Node(name)
		if err != nil {
			return nil, err
		}
		vars[i] = node.Variable
	}
	return vars, nil
}

// makeFactor builds the factor for one node over fvars, the node's
// non-evidence family members. Every family assignment consistent with the
// evidence contributes one entry keyed by its fvars projection.
func makeFactor(net *bayes.Network, name string, fvars []string, evidence bayes.Evidence) (*factor, error) {
	node, err := net.Node(name)
	if err != nil {
		return nil, err
	}
	family := append(append([]string(nil), node.Parents...), name)
	familyVars, err := factorVariables(net, family)
	if err != nil {
		return nil, err
	}

	f := &factor{vars: fvars, table: make(map[string]float64)}
	for _, combo := range bayes.Combinations(familyVars) {
		asg := make(bayes.Assignment, len(family))
		consistent := true
		for i, member := range family {
			if fixed, ok := evidence[member]; ok && fixed != combo[i] {
				consistent = false
				break
			}
			asg[member] = combo[i]
		}
		if !consistent {
			continue
		}
		p, err := net.Probability(name, asg[name], asg)
		if err != nil {
			return nil, err
		}
		f.table[f.project(asg)] = p
	}
	return f, nil
}

// pointwise multiplies two factors into one over the sorted union of their
// variables, enumerating the union's domains in canonical order.
func pointwise(net *bayes.Network, f1, f2 *factor) (*factor, error) {
	seen := make(map[string]bool, len(f1.vars)+len(f2.vars))
	var union []string
	for _, v := range f1.vars {
		if !seen[v] {
			seen[v] = true
			union = append(union, v)
		}
	}
	for _, v := range f2.vars {
		if !seen[v] {
			seen[v] = true
			union = append(union, v)
		}
	}
	sort.Strings(union)

	unionVars, err := factorVariables(net, union)
	if err != nil {
		return nil, err
	}
	out := &factor{vars: union, table: make(map[string]float64)}
	for _, combo := range bayes.Combinations(unionVars) {
		asg := make(bayes.Assignment, len(union))
		for i, v := range union {
			asg[v] = combo[i]
		}
		out.table[bayes.RowKey(combo)] = f1.table[f1.project(asg)] * f2.table[f2.project(asg)]
	}
	return out, nil
}

// sumOut multiplies every factor mentioning name into one product, then
// marginalizes name out of it. The summation runs per remaining combination
// over name's domain in declared order, keeping rounding reproducible.
func sumOut(net *bayes.Network, name string, factors []*factor) ([]*factor, error) {
	var holding []*factor
	var rest []*factor
	for _, f := range factors {
		contains := false
		for _, v := range f.vars {
			if v == name {
				contains = true
				break
			}
		}
		if contains {
			holding = append(holding, f)
		} else {
			rest = append(rest, f)
		}
	}
	if len(holding) == 0 {
		return rest, nil
	}

	product := holding[0]
	var err error
	for _, f := range holding[1:] {
		product, err = pointwise(net, product, f)
		if err != nil {
			return nil, err
		}
	}

	var remaining []string
	for _, v := range product.vars {
		if v != name {
			remaining = append(remaining, v)
		}
	}
	node, err := net.Node(name)
	if err != nil {
		return nil, err
	}
	remainingVars, err := factorVariables(net, remaining)
	if err != nil {
		return nil, err
	}

	summed := &factor{vars: remaining, table: make(map[string]float64)}
	for _, combo := range bayes.Combinations(remainingVars) {
		asg := make(bayes.Assignment, len(remaining)+1)
		for i, v := range remaining {
			asg[v] = combo[i]
		}
		total := 0.0
		for _, val := range node.Variable.Values {
			asg[name] = val
			total += product.table[product.project(asg)]
		}
		summed.table[bayes.RowKey(combo)] = total
	}
	return append(rest, summed), nil
}

// multiplyAll folds the remaining factors into one.
func multiplyAll(net *bayes.Network, factors []*factor) (*factor, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("elimination produced no factors: %w", bayes.ErrZeroProbabilityEvidence)
	}
	result := factors[0]
	var err error
	for _, f := range factors[1:] {
		result, err = pointwise(net, result, f)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
