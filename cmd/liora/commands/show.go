/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: show.go
Description: Show command implementation for Liora. Prints a network's
nodes, domains, parents and probability tables in topological order.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunShow executes the show command
func RunShow(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return err
	}

	path := viper.GetString("show_network")
	net, err := loadNetwork(path)
	if err != nil {
		return err
	}

	fmt.Printf("🌐 Network %s: %d nodes\n", path, net.Len())
	fmt.Printf("   Topological order: %s\n\n", strings.Join(net.TopoOrder(), " -> "))

	for _, name := range net.TopoOrder() {
		node, err := net.Node(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s  {%s}\n", name, strings.Join(node.Variable.Values, ", "))
		if len(node.Parents) > 0 {
			fmt.Printf("  parents: %s\n", strings.Join(node.Parents, ", "))
		}
		err = node.CPT.EachRow(func(parentValues []string, probs []float64) error {
			formatted := make([]string, len(probs))
			for i, p := range probs {
				formatted[i] = fmt.Sprintf("%.6g", p)
			}
			if len(parentValues) == 0 {
				fmt.Printf("  p = [%s]\n", strings.Join(formatted, ", "))
			} else {
				fmt.Printf("  given %s: p = [%s]\n",
					strings.Join(parentValues, ", "), strings.Join(formatted, ", "))
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}
