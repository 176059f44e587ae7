/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: query.go
Description: Query command implementation for Liora. Loads a network file,
selects the inference algorithm, runs the query expression, and prints the
resulting distribution or scalar probability.
*/

package commands

import (
	"fmt"
	"time"

	"github.com/kleascm/liora/pkg/infer"
	"github.com/kleascm/liora/pkg/query"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunQuery executes the query command
func RunQuery(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return err
	}

	net, err := loadNetwork(viper.GetString("network"))
	if err != nil {
		return err
	}

	engine, err := infer.NewEngine(viper.GetString("algorithm"))
	if err != nil {
		return err
	}
	attachLogger(engine)

	expr := args[0]
	start := time.Now()
	result, err := query.Run(net, engine, expr)
	if err != nil {
		return fmt.Errorf("query %q failed: %w", expr, err)
	}
	logger.LogQuery(expr, engine.Algorithm(), time.Since(start), nil)

	fmt.Println()
	if result.IsScalar {
		fmt.Printf("  %s = %.6f\n", expr, result.Scalar)
		return nil
	}
	printDistribution(result.Target, result.Values, result.Probs)
	return nil
}

// attachLogger wires the command logger into the engine's debug output.
func attachLogger(engine infer.Engine) {
	if logger == nil {
		return
	}
	switch e := engine.(type) {
	case *infer.EnumerationEngine:
		e.Logger = logger.GetLogger()
	case *infer.EliminationEngine:
		e.Logger = logger.GetLogger()
	}
}
