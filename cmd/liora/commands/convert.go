/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: convert.go
Description: Convert command implementation for Liora. Re-encodes a network
between the text and YAML formats, re-validating every invariant on the way
through.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/liora/pkg/codec"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunConvert executes the convert command
func RunConvert(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return err
	}

	inPath := viper.GetString("convert_in")
	outPath := viper.GetString("convert_out")

	net, err := loadNetwork(inPath)
	if err != nil {
		return err
	}
	if err := codec.EncodeFile(outPath, net); err != nil {
		return fmt.Errorf("failed to write network: %w", err)
	}

	fmt.Printf("✨ Converted %s -> %s (%d nodes)\n", inPath, outPath, net.Len())
	return nil
}
