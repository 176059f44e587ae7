/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: query.go
Description: Query expression parsing and resolution for Liora. Accepts the
"target[=value][|var1=val1,var2=val2,...]" grammar, optionally wrapped in a
P(...) shell, resolves identifiers and values against a network, and runs
the resolved query through an inference engine.
*/

package query

import (
	"fmt"
	"strings"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/kleascm/liora/pkg/infer"
)

// Binding is one evidence assignment parsed from a query expression.
type Binding struct {
	Var   string
	Value string
}

// Statement is a parsed but unresolved query expression.
type Statement struct {
	Target      string
	TargetValue string
	Evidence    []Binding
}

// Parse parses a query expression into a Statement. The grammar is
// "target[=value][|var1=val1,...]"; bindings also accept ':' as separator
// and the whole expression may be wrapped in "P(...)". Identifier and value
// validity is checked later by Resolve, which needs the network.
func Parse(expr string) (*Statement, error) {
	s := strings.TrimSpace(expr)
	if wrapped, ok := stripWrapper(s); ok {
		s = wrapped
	}
	if s == "" {
		return nil, fmt.Errorf("empty expression: %w", bayes.ErrMalformedQuery)
	}

	targetPart, evidencePart, hasEvidence := strings.Cut(s, "|")

	stmt := &Statement{}
	var err error
	stmt.Target, stmt.TargetValue, err = splitBinding(targetPart, true)
	if err != nil {
		return nil, err
	}

	if hasEvidence {
		seen := make(map[string]string)
		for _, tok := range strings.Split(evidencePart, ",") {
			name, value, err := splitBinding(tok, false)
			if err != nil {
				return nil, err
			}
			if prev, ok := seen[name]; ok {
				if prev != value {
					return nil, fmt.Errorf("contradictory evidence for %q: %w", name, bayes.ErrMalformedQuery)
				}
				continue
			}
			seen[name] = value
			stmt.Evidence = append(stmt.Evidence, Binding{Var: name, Value: value})
		}
	}
	return stmt, nil
}

// stripWrapper removes an optional leading "P(" / "p(" and trailing ")".
func stripWrapper(s string) (string, bool) {
	if len(s) < 3 {
		return s, false
	}
	if (s[0] == 'P' || s[0] == 'p') && s[1] == '(' && s[len(s)-1] == ')' {
		return strings.TrimSpace(s[2 : len(s)-1]), true
	}
	return s, false
}

// splitBinding splits "name", "name=value" or "name:value". The bare form
// is only legal for the target; evidence bindings must carry a value.
func splitBinding(tok string, valueOptional bool) (string, string, error) {
	tok = strings.TrimSpace(tok)
	idx := strings.IndexAny(tok, "=:")
	if idx < 0 {
		if !valueOptional {
			return "", "", fmt.Errorf("binding %q has no value: %w", tok, bayes.ErrMalformedQuery)
		}
		if tok == "" {
			return "", "", fmt.Errorf("unnamed target: %w", bayes.ErrMalformedQuery)
		}
		return tok, "", nil
	}
	name := strings.TrimSpace(tok[:idx])
	value := strings.TrimSpace(tok[idx+1:])
	if name == "" {
		return "", "", fmt.Errorf("binding %q has no variable: %w", tok, bayes.ErrMalformedQuery)
	}
	if value == "" {
		return "", "", fmt.Errorf("binding %q has no value: %w", tok, bayes.ErrMalformedQuery)
	}
	return name, value, nil
}

// booleanAliases maps shorthand truth tokens onto the default boolean
// domain, so "x=t" and "x=1" work against boolean variables.
var booleanAliases = map[string]string{
	"t": bayes.ValueTrue, "tr": bayes.ValueTrue, "true": bayes.ValueTrue, "1": bayes.ValueTrue,
	"f": bayes.ValueFalse, "fa": bayes.ValueFalse, "false": bayes.ValueFalse, "0": bayes.ValueFalse,
}

// resolveValue checks a value against a variable's domain, admitting the
// boolean shorthand aliases for boolean variables.
func resolveValue(v bayes.Variable, value string) (string, error) {
	if v.HasValue(value) {
		return value, nil
	}
	if v.IsBoolean() {
		if canonical, ok := booleanAliases[strings.ToLower(value)]; ok {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("variable %q has no value %q: %w", v.Name, value, bayes.ErrDomainMismatch)
}

// Resolve validates the statement against a network and produces an
// executable query. Unknown identifiers, out-of-domain values and evidence
// naming the target are rejected.
func (s *Statement) Resolve(net *bayes.Network) (*bayes.Query, error) {
	targetNode, err := net.Node(s.Target)
	if err != nil {
		return nil, err
	}
	q := &bayes.Query{Target: s.Target, Evidence: make(bayes.Evidence, len(s.Evidence))}
	if s.TargetValue != "" {
		q.TargetValue, err = resolveValue(targetNode.Variable, s.TargetValue)
		if err != nil {
			return nil, err
		}
	}
	for _, b := range s.Evidence {
		if b.Var == s.Target {
			return nil, fmt.Errorf("%q: %w", b.Var, bayes.ErrTargetInEvidence)
		}
		node, err := net.Node(b.Var)
		if err != nil {
			return nil, err
		}
		val, err := resolveValue(node.Variable, b.Value)
		if err != nil {
			return nil, err
		}
		q.Evidence[b.Var] = val
	}
	return q, nil
}

// Result is the outcome of running a query expression: either a full
// posterior distribution over the target's domain or a single scalar.
type Result struct {
	Expression string
	Target     string
	Values     []string
	Probs      []float64
	Scalar     float64
	IsScalar   bool
}

// Run parses, resolves and executes a query expression against a network
// using the given engine. This is the library entry point the CLI calls.
func Run(net *bayes.Network, engine infer.Engine, expr string) (*Result, error) {
	stmt, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	q, err := stmt.Resolve(net)
	if err != nil {
		return nil, err
	}

	res := &Result{Expression: expr, Target: q.Target}
	res.Values, err = net.Domain(q.Target)
	if err != nil {
		return nil, err
	}

	if q.TargetValue != "" {
		res.Scalar, err = engine.Probability(net, q.Target, q.TargetValue, q.Evidence)
		if err != nil {
			return nil, err
		}
		res.IsScalar = true
		return res, nil
	}

	res.Probs, err = engine.Distribution(net, q.Target, q.Evidence)
	if err != nil {
		return nil, err
	}
	return res, nil
}
