/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: codec.go
Description: Persistence codec entry points for Liora. Defines the Codec
interface, extension-based codec selection, file helpers, and the shared
assembly path that turns parsed node blocks into a fully re-validated
network. A file that parses but violates a network invariant fails with that
invariant's typed error, never with a silent repair.
*/

package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kleascm/liora/pkg/bayes"
)

// Codec serializes a network to a deterministic byte form and parses that
// form back. decode(encode(n)) is structurally identical to n with
// probabilities equal within bayes.ProbTolerance.
type Codec interface {
	Encode(net *bayes.Network) ([]byte, error)
	Decode(data []byte) (*bayes.Network, error)
	Name() string
}

// ForPath selects a codec by file extension: .bn for the text format,
// .yaml/.yml for YAML.
func ForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bn", ".txt":
		return TextCodec{}, nil
	case ".yaml", ".yml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("no codec for file %q", path)
	}
}

// EncodeFile serializes a network to path, picking the codec by extension.
func EncodeFile(path string, net *bayes.Network) error {
	c, err := ForPath(path)
	if err != nil {
		return err
	}
	data, err := c.Encode(net)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DecodeFile reads and decodes the network at path, picking the codec by
// extension.
func DecodeFile(path string) (*bayes.Network, error) {
	c, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network file: %w", err)
	}
	return c.Decode(data)
}

// rawRow is one parsed CPT row: parent value tokens plus the distribution.
type rawRow struct {
	given []string
	probs []float64
}

// rawNode is one parsed node block before cross-node resolution.
type rawNode struct {
	name    string
	values  []string
	parents []string
	rows    []rawRow
}

// assemble resolves parsed node blocks into a finalized network. Parent
// domains are resolved across blocks, row tokens are canonicalized (with
// t/f shorthand admitted for boolean parents), duplicate rows are rejected,
// and the result passes the full network validation.
func assemble(nodes []rawNode) (*bayes.Network, error) {
	variables := make(map[string]bayes.Variable, len(nodes))
	for _, rn := range nodes {
		if _, ok := variables[rn.name]; ok {
			return nil, fmt.Errorf("node %q: %w", rn.name, bayes.ErrDuplicateDeclaration)
		}
		variables[rn.name] = bayes.NewVariable(rn.name, rn.values)
	}

	out := make([]*bayes.Node, 0, len(nodes))
	for _, rn := range nodes {
		parents := make([]bayes.Variable, len(rn.parents))
		for i, p := range rn.parents {
			v, ok := variables[p]
			if !ok {
				return nil, fmt.Errorf("node %q references parent %q: %w",
					rn.name, p, bayes.ErrUnknownVariable)
			}
			parents[i] = v
		}

		cpt := bayes.NewCPT(variables[rn.name], parents)
		seen := make(map[string]bool, len(rn.rows))
		for _, row := range rn.rows {
			if len(row.given) != len(parents) {
				return nil, fmt.Errorf("node %q: row %v has %d parent values, want %d: %w",
					rn.name, row.given, len(row.given), len(parents), bayes.ErrCorruptFile)
			}
			given := make([]string, len(row.given))
			for i, tok := range row.given {
				val, err := canonicalValue(parents[i], tok)
				if err != nil {
					return nil, err
				}
				given[i] = val
			}
			key := bayes.RowKey(given)
			if seen[key] {
				return nil, fmt.Errorf("node %q: duplicate row for %v: %w",
					rn.name, given, bayes.ErrCorruptFile)
			}
			seen[key] = true
			if err := cpt.SetRow(given, row.probs); err != nil {
				return nil, err
			}
		}

		out = append(out, &bayes.Node{
			Variable: variables[rn.name],
			Parents:  append([]string(nil), rn.parents...),
			CPT:      cpt,
		})
	}

	return bayes.NewNetwork(out)
}

// canonicalValue maps a row token onto a parent's domain, accepting t/f/1/0
// shorthand for boolean parents.
func canonicalValue(v bayes.Variable, tok string) (string, error) {
	if v.HasValue(tok) {
		return tok, nil
	}
	if v.IsBoolean() {
		switch strings.ToLower(tok) {
		case "t", "1", "true":
			return bayes.ValueTrue, nil
		case "f", "0", "false":
			return bayes.ValueFalse, nil
		}
	}
	return "", fmt.Errorf("variable %q has no value %q: %w", v.Name, tok, bayes.ErrDomainMismatch)
}
