/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: text.go
Description: Plain-text .bn codec for Liora. Nodes are written in
topological order as blank-line separated blocks: boolean roots as
"P(A) = 0.6" lines, everything else as a table with the parent list in the
header, an optional values: line for non-boolean domains, and one
distribution row per parent assignment. Encoding order and float formatting
are fixed so the output is byte-stable across save/load cycles.
*/

package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kleascm/liora/pkg/bayes"
)

// TextCodec implements the .bn plain-text network format.
type TextCodec struct{}

// Name returns the codec identifier.
func (TextCodec) Name() string { return "bn" }

// Encode serializes the network deterministically: topological node order,
// canonical row order, shortest round-trip float formatting.
func (TextCodec) Encode(net *bayes.Network) ([]byte, error) {
	var b strings.Builder
	for i, name := range net.TopoOrder() {
		if i > 0 {
			b.WriteString("\n")
		}
		node, err := net.Node(name)
		if err != nil {
			return nil, err
		}
		if err := encodeNode(&b, node); err != nil {
			return nil, err
		}
	}
	return []byte(b.String()), nil
}

func encodeNode(b *strings.Builder, node *bayes.Node) error {
	// Boolean roots use the compact single-line form.
	if len(node.Parents) == 0 && node.Variable.IsBoolean() {
		row, err := node.CPT.Row(bayes.Assignment{})
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "P(%s) = %s\n", node.Variable.Name, formatProb(row[0]))
		return nil
	}

	if len(node.Parents) == 0 {
		fmt.Fprintf(b, "%s\n", node.Variable.Name)
	} else {
		fmt.Fprintf(b, "%s | %s\n", node.Variable.Name, strings.Join(node.Parents, " "))
	}
	if !node.Variable.IsBoolean() {
		fmt.Fprintf(b, "values: %s\n", strings.Join(node.Variable.Values, " "))
	}
	b.WriteString("---\n")

	parents := node.CPT.Parents()
	return node.CPT.EachRow(func(parentValues []string, probs []float64) error {
		tokens := make([]string, len(parentValues))
		for i, val := range parentValues {
			tokens[i] = valueToken(parents[i], val)
		}
		formatted := make([]string, len(probs))
		for i, p := range probs {
			formatted[i] = formatProb(p)
		}
		fmt.Fprintf(b, "%s | %s\n", strings.Join(tokens, " "), strings.Join(formatted, " "))
		return nil
	})
}

// valueToken abbreviates boolean values to the t/f row tokens.
func valueToken(v bayes.Variable, val string) string {
	if v.IsBoolean() {
		if val == bayes.ValueTrue {
			return "t"
		}
		return "f"
	}
	return val
}

// formatProb renders a probability with the shortest representation that
// parses back to exactly the same float64.
func formatProb(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

// Decode parses the text form and re-validates every network invariant.
// Syntax problems fail with ErrCorruptFile; invariant violations fail with
// the invariant's own error.
func (TextCodec) Decode(data []byte) (*bayes.Network, error) {
	var nodes []rawNode
	var block []string
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		rn, err := parseBlock(block)
		if err != nil {
			return err
		}
		nodes = append(nodes, rn)
		block = nil
		return nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no node blocks: %w", bayes.ErrCorruptFile)
	}
	return assemble(nodes)
}

// parseBlock parses one blank-line delimited node block.
func parseBlock(lines []string) (rawNode, error) {
	if len(lines) == 1 {
		return parseRootLine(lines[0])
	}

	var rn rawNode
	header := strings.TrimSpace(lines[0])
	name, parentPart, hasParents := strings.Cut(header, "|")
	rn.name = strings.TrimSpace(name)
	if rn.name == "" {
		return rn, fmt.Errorf("block header %q has no node name: %w", header, bayes.ErrCorruptFile)
	}
	if hasParents {
		rn.parents = strings.Fields(parentPart)
	}

	rest := lines[1:]
	if len(rest) > 0 {
		if tail, ok := strings.CutPrefix(strings.TrimSpace(rest[0]), "values:"); ok {
			rn.values = strings.Fields(tail)
			if len(rn.values) == 0 {
				return rn, fmt.Errorf("node %q: empty values line: %w", rn.name, bayes.ErrCorruptFile)
			}
			rest = rest[1:]
		}
	}

	// The line after the header is a separator; its content is ignored so
	// ruled and column-labeled separators both parse.
	if len(rest) == 0 {
		return rn, fmt.Errorf("node %q: missing separator line: %w", rn.name, bayes.ErrCorruptFile)
	}
	rest = rest[1:]
	if len(rest) == 0 {
		return rn, fmt.Errorf("node %q: no table rows: %w", rn.name, bayes.ErrCorruptFile)
	}

	domainSize := len(rn.values)
	if domainSize == 0 {
		domainSize = 2 // default boolean domain
	}
	for _, line := range rest {
		row, err := parseRow(rn.name, line, domainSize)
		if err != nil {
			return rn, err
		}
		rn.rows = append(rn.rows, row)
	}
	return rn, nil
}

// parseRootLine parses the single-line boolean root form "P(A) = 0.6".
func parseRootLine(line string) (rawNode, error) {
	s := strings.TrimSpace(line)
	inner, ok := strings.CutPrefix(s, "P(")
	if !ok {
		inner, ok = strings.CutPrefix(s, "p(")
	}
	if !ok {
		return rawNode{}, fmt.Errorf("unrecognized single-line block %q: %w", line, bayes.ErrCorruptFile)
	}
	name, rest, ok := strings.Cut(inner, ")")
	if !ok {
		return rawNode{}, fmt.Errorf("unterminated node name in %q: %w", line, bayes.ErrCorruptFile)
	}
	rest = strings.TrimSpace(rest)
	probPart, ok := strings.CutPrefix(rest, "=")
	if !ok {
		return rawNode{}, fmt.Errorf("missing probability in %q: %w", line, bayes.ErrCorruptFile)
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(probPart), 64)
	if err != nil {
		return rawNode{}, fmt.Errorf("bad probability in %q: %v: %w", line, err, bayes.ErrCorruptFile)
	}
	return rawNode{
		name: strings.TrimSpace(name),
		rows: []rawRow{{probs: []float64{p, 1 - p}}},
	}, nil
}

// parseRow parses "t f | 0.9 0.1". A single probability against a
// two-value domain is shorthand for P(first value); the complement is
// filled in.
func parseRow(node, line string, domainSize int) (rawRow, error) {
	left, right, ok := strings.Cut(line, "|")
	if !ok {
		return rawRow{}, fmt.Errorf("node %q: row %q has no separator: %w", node, line, bayes.ErrCorruptFile)
	}
	row := rawRow{given: strings.Fields(left)}
	for _, tok := range strings.Fields(right) {
		p, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return rawRow{}, fmt.Errorf("node %q: bad probability %q: %w", node, tok, bayes.ErrCorruptFile)
		}
		row.probs = append(row.probs, p)
	}
	if len(row.probs) == 1 && domainSize == 2 {
		row.probs = append(row.probs, 1-row.probs[0])
	}
	return row, nil
}
