/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for Liora, the exact-inference
engine for discrete Bayesian networks. Provides network construction from
structural specifications, persistence in text and YAML formats, a network
repository, and probability queries with beautiful output.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/liora/cmd/liora/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	logFormat  string
	logDir     string
	noColor    bool

	// Network input/output
	networkPath string
	specFile    string
	cptFile     string
	outPath     string
	uniformFill bool
	inPath      string

	// Inference configuration
	algorithm string

	// Repository configuration
	dbPath    string
	storeName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "liora",
		Short: "Liora - exact inference engine for discrete Bayesian networks",
		Long: `Liora is an exact-inference engine for discrete Bayesian networks. It builds
validated networks from structural specifications, persists them in deterministic
text and YAML formats, keeps a local network repository, and answers marginal and
conditional probability queries by enumeration or variable elimination.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Log output directory (empty: console only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored log output")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	// Build command
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build a validated network from a structural specification",
		Long: `Build parses "node|parent1,parent2,..." declarations, materializes implicit
root nodes, validates acyclicity and CPT normalization, and writes the
finalized network to a .bn or .yaml file.`,
		RunE: commands.RunBuild,
	}
	buildCmd.Flags().StringVar(&specFile, "spec-file", "", "Structural specification file (one declaration per line)")
	buildCmd.Flags().StringVar(&cptFile, "cpt-file", "", "YAML file with domains and CPT rows")
	buildCmd.Flags().StringVar(&outPath, "out", "", "Output network file (.bn, .yaml)")
	buildCmd.Flags().BoolVar(&uniformFill, "uniform", false, "Fill missing CPT rows with uniform distributions")
	buildCmd.MarkFlagRequired("spec-file")
	buildCmd.MarkFlagRequired("out")
	viper.BindPFlag("spec_file", buildCmd.Flags().Lookup("spec-file"))
	viper.BindPFlag("cpt_file", buildCmd.Flags().Lookup("cpt-file"))
	viper.BindPFlag("out", buildCmd.Flags().Lookup("out"))
	viper.BindPFlag("uniform", buildCmd.Flags().Lookup("uniform"))

	// Query command
	queryCmd := &cobra.Command{
		Use:   "query [expression]",
		Short: "Run a probability query against a network",
		Long: `Query computes P(target | evidence) exactly. Expressions follow the
"target[=value][|var1=val1,var2=val2,...]" grammar; a P(...) wrapper is also
accepted. Without a target value the full posterior distribution is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunQuery,
	}
	queryCmd.Flags().StringVar(&networkPath, "network", "", "Network file to query (.bn, .yaml)")
	queryCmd.Flags().StringVar(&algorithm, "algorithm", "enum", "Inference algorithm (enum, elim)")
	queryCmd.MarkFlagRequired("network")
	viper.BindPFlag("network", queryCmd.Flags().Lookup("network"))
	viper.BindPFlag("algorithm", queryCmd.Flags().Lookup("algorithm"))

	// Show command
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a network's structure and probability tables",
		RunE:  commands.RunShow,
	}
	showCmd.Flags().StringVar(&networkPath, "network", "", "Network file to show (.bn, .yaml)")
	showCmd.MarkFlagRequired("network")
	viper.BindPFlag("show_network", showCmd.Flags().Lookup("network"))

	// Convert command
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Re-encode a network between the text and YAML formats",
		RunE:  commands.RunConvert,
	}
	convertCmd.Flags().StringVar(&inPath, "in", "", "Input network file")
	convertCmd.Flags().StringVar(&outPath, "out", "", "Output network file")
	convertCmd.MarkFlagRequired("in")
	convertCmd.MarkFlagRequired("out")
	viper.BindPFlag("convert_in", convertCmd.Flags().Lookup("in"))
	viper.BindPFlag("convert_out", convertCmd.Flags().Lookup("out"))

	// Store command group
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the local network repository",
	}
	storeCmd.PersistentFlags().StringVar(&dbPath, "db", "liora.db", "Repository database path")
	viper.BindPFlag("db", storeCmd.PersistentFlags().Lookup("db"))

	storeSaveCmd := &cobra.Command{
		Use:   "save",
		Short: "Save a network file into the repository",
		RunE:  commands.RunStoreSave,
	}
	storeSaveCmd.Flags().StringVar(&storeName, "name", "", "Name to store the network under")
	storeSaveCmd.Flags().StringVar(&networkPath, "network", "", "Network file to store")
	storeSaveCmd.MarkFlagRequired("name")
	storeSaveCmd.MarkFlagRequired("network")
	viper.BindPFlag("store_name", storeSaveCmd.Flags().Lookup("name"))
	viper.BindPFlag("store_network", storeSaveCmd.Flags().Lookup("network"))

	storeLoadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load a stored network and write it to a file",
		RunE:  commands.RunStoreLoad,
	}
	storeLoadCmd.Flags().StringVar(&storeName, "name", "", "Stored network name")
	storeLoadCmd.Flags().StringVar(&outPath, "out", "", "Output network file")
	storeLoadCmd.MarkFlagRequired("name")
	storeLoadCmd.MarkFlagRequired("out")
	viper.BindPFlag("store_load_name", storeLoadCmd.Flags().Lookup("name"))
	viper.BindPFlag("store_load_out", storeLoadCmd.Flags().Lookup("out"))

	storeListCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored networks",
		RunE:  commands.RunStoreList,
	}

	storeDeleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored network",
		RunE:  commands.RunStoreDelete,
	}
	storeDeleteCmd.Flags().StringVar(&storeName, "name", "", "Stored network name")
	storeDeleteCmd.MarkFlagRequired("name")
	viper.BindPFlag("store_delete_name", storeDeleteCmd.Flags().Lookup("name"))

	storeCmd.AddCommand(storeSaveCmd, storeLoadCmd, storeListCmd, storeDeleteCmd)
	rootCmd.AddCommand(buildCmd, queryCmd, showCmd, convertCmd, storeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
