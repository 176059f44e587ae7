/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: yaml.go
Description: YAML codec for Liora networks. Uses ordered lists rather than
maps so encoding stays deterministic: nodes in topological order, rows in
canonical parent-combination order. Decoding runs the same invariant
validation as the text codec.
*/

package codec

import (
	"fmt"

	"github.com/kleascm/liora/pkg/bayes"
	"gopkg.in/yaml.v3"
)

// yamlFormatVersion is bumped on incompatible schema changes.
const yamlFormatVersion = 1

// networkYAML is the YAML document root.
type networkYAML struct {
	Version int        `yaml:"version"`
	Nodes   []nodeYAML `yaml:"nodes"`
}

// nodeYAML is one node with its domain, parents and table.
type nodeYAML struct {
	Name    string       `yaml:"name"`
	Values  []string     `yaml:"values,omitempty"`
	Parents []string     `yaml:"parents,omitempty"`
	CPT     []cptRowYAML `yaml:"cpt"`
}

// cptRowYAML is one table row: parent values in parent order plus the
// distribution over the node's values in domain order.
type cptRowYAML struct {
	Given []string  `yaml:"given,omitempty,flow"`
	P     []float64 `yaml:"p,flow"`
}

// YAMLCodec implements the YAML network format.
type YAMLCodec struct{}

// Name returns the codec identifier.
func (YAMLCodec) Name() string { return "yaml" }

// Encode serializes the network as a version-tagged YAML document.
func (YAMLCodec) Encode(net *bayes.Network) ([]byte, error) {
	doc := networkYAML{Version: yamlFormatVersion}
	for _, name := range net.TopoOrder() {
		node, err := net.Node(name)
		if err != nil {
			return nil, err
		}
		ny := nodeYAML{
			Name:    name,
			Values:  node.Variable.Values,
			Parents: node.Parents,
		}
		err = node.CPT.EachRow(func(parentValues []string, probs []float64) error {
			given := make([]string, len(parentValues))
			copy(given, parentValues)
			p := make([]float64, len(probs))
			copy(p, probs)
			ny.CPT = append(ny.CPT, cptRowYAML{Given: given, P: p})
			return nil
		})
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, ny)
	}
	return yaml.Marshal(&doc)
}

// Decode parses the YAML form and re-validates every network invariant.
func (YAMLCodec) Decode(data []byte) (*bayes.Network, error) {
	var doc networkYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %v: %w", err, bayes.ErrCorruptFile)
	}
	if doc.Version != yamlFormatVersion {
		return nil, fmt.Errorf("unsupported format version %d: %w", doc.Version, bayes.ErrCorruptFile)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("no nodes: %w", bayes.ErrCorruptFile)
	}

	nodes := make([]rawNode, 0, len(doc.Nodes))
	for _, ny := range doc.Nodes {
		rn := rawNode{
			name:    ny.Name,
			values:  ny.Values,
			parents: ny.Parents,
		}
		for _, row := range ny.CPT {
			rn.rows = append(rn.rows, rawRow{given: row.Given, probs: row.P})
		}
		nodes = append(nodes, rn)
	}
	return assemble(nodes)
}
