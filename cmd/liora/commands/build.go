/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: build.go
Description: Build command implementation for Liora. Reads a structural
specification file and an optional YAML file of domains and CPT rows,
constructs a validated network through the builder, and writes it to a
network file.
*/

package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/kleascm/liora/pkg/builder"
	"github.com/kleascm/liora/pkg/codec"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// cptFileYAML is the build input file: domain overrides plus literal CPT
// rows per node.
type cptFileYAML struct {
	Domains map[string][]string     `yaml:"domains"`
	CPT     map[string][]cptFileRow `yaml:"cpt"`
}

// cptFileRow is one literal row: parent values in parent order plus the
// distribution over the node's values.
type cptFileRow struct {
	Given []string  `yaml:"given"`
	P     []float64 `yaml:"p"`
}

// RunBuild executes the build command
func RunBuild(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return err
	}

	specPath := viper.GetString("spec_file")
	outPath := viper.GetString("out")

	fmt.Println("🌐 Liora - Building Network")
	fmt.Println("===========================")
	fmt.Println()

	decls, err := readSpecFile(specPath)
	if err != nil {
		return err
	}

	var file cptFileYAML
	if cptPath := viper.GetString("cpt_file"); cptPath != "" {
		data, err := os.ReadFile(cptPath)
		if err != nil {
			return fmt.Errorf("failed to read CPT file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse CPT file: %w", err)
		}
	}

	src, err := makeSource(decls, file, viper.GetBool("uniform"))
	if err != nil {
		return err
	}

	b := builder.New().WithSource(src).WithLogger(logger.GetLogger())
	for name, values := range file.Domains {
		b.WithDomain(name, values)
	}
	for _, d := range decls {
		b.AddDeclaration(d)
	}

	start := time.Now()
	net, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to build network: %w", err)
	}
	logger.LogBuild(net.Len(), time.Since(start), nil)

	if err := codec.EncodeFile(outPath, net); err != nil {
		return fmt.Errorf("failed to write network: %w", err)
	}

	fmt.Printf("✨ Network built: %d nodes, written to %s\n", net.Len(), outPath)
	fmt.Printf("   Topological order: %s\n", strings.Join(net.TopoOrder(), " -> "))
	return nil
}

// readSpecFile parses a structural specification file: one declaration per
// line, blank lines and # comments ignored.
func readSpecFile(path string) ([]builder.Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification: %w", err)
	}
	var decls []builder.Declaration
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d, err := builder.ParseDeclaration(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		decls = append(decls, d)
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("specification %q declares no nodes", path)
	}
	return decls, nil
}

// makeSource assembles the CPT source for the build: literal rows from the
// CPT file, optionally backed by uniform fill for unspecified rows.
func makeSource(decls []builder.Declaration, file cptFileYAML, uniform bool) (builder.CPTSource, error) {
	if len(file.CPT) == 0 {
		if !uniform {
			return nil, fmt.Errorf("no CPT rows supplied; pass --cpt-file or --uniform")
		}
		return builder.UniformSource{}, nil
	}

	parentsOf := make(map[string][]string, len(decls))
	for _, d := range decls {
		parentsOf[d.Name] = d.Parents
	}

	lit := builder.LiteralSource{}
	for node, rows := range file.CPT {
		parents := parentsOf[node] // implicit roots have no parents
		for _, row := range rows {
			if len(row.Given) != len(parents) {
				return nil, fmt.Errorf("node %q: row %v names %d parent values, node has %d parents",
					node, row.Given, len(row.Given), len(parents))
			}
			given := make([]string, len(row.Given))
			for i, tok := range row.Given {
				v := bayes.NewVariable(parents[i], file.Domains[parents[i]])
				val, err := canonicalToken(v, tok)
				if err != nil {
					return nil, fmt.Errorf("node %q row %v: %w", node, row.Given, err)
				}
				given[i] = val
			}
			lit.Set(node, given, row.P)
		}
	}
	if uniform {
		return fallbackSource{literal: lit}, nil
	}
	return lit, nil
}

// canonicalToken maps a CPT file token onto a variable's domain, accepting
// t/f/1/0 shorthand for boolean variables.
func canonicalToken(v bayes.Variable, tok string) (string, error) {
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

// fallbackSource serves literal rows where supplied and uniform
// distributions for the rest.
type fallbackSource struct {
	literal builder.LiteralSource
}

// Rows merges literal rows over a uniform base.
func (s fallbackSource) Rows(variable bayes.Variable, parents []bayes.Variable) (map[string][]float64, error) {
	rows, err := builder.UniformSource{}.Rows(variable, parents)
	if err != nil {
		return nil, err
	}
	if supplied, ok := s.literal[variable.Name]; ok {
		for key, probs := range supplied {
			rows[key] = probs
		}
	}
	return rows, nil
}
