/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Liora commands. Provides common
configuration loading, logging setup, network file loading, and result
printing used across all command implementations.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/liora/pkg/bayes"
	"github.com/kleascm/liora/pkg/codec"
	"github.com/kleascm/liora/pkg/logging"
	"github.com/spf13/viper"
)

// Global logger instance shared by all commands
var logger *logging.Logger

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("LIORA")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the logging system
func SetupLogging() error {
	config := &logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    logging.LogFormat(viper.GetString("log_format")),
		OutputDir: viper.GetString("log_dir"),
		Timestamp: true,
		Colors:    !viper.GetBool("no_color"),
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}

	l, err := logging.NewLogger(config)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logger = l
	return nil
}

// loadNetwork decodes the network file at path and logs the result.
func loadNetwork(path string) (*bayes.Network, error) {
	net, err := codec.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load network %q: %w", path, err)
	}
	if logger != nil {
		logger.LogNetworkLoaded(path, net.Len(), nil)
	}
	return net, nil
}

// printDistribution prints a posterior distribution as an aligned table.
func printDistribution(target string, values []string, probs []float64) {
	width := len(target)
	for _, v := range values {
		if len(v) > width {
			width = len(v)
		}
	}
	for i, v := range values {
		fmt.Printf("  P(%s = %-*s) = %.6f\n", target, width, v, probs[i])
	}
}
