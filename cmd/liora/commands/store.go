/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: Store command implementations for Liora. Manages the local
SQLite-backed network repository: save, load, list and delete.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/kleascm/liora/pkg/codec"
	"github.com/kleascm/liora/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// openStore opens the repository configured with --db.
func openStore() (*store.Store, error) {
	s, err := store.Open(viper.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return s, nil
}

// RunStoreSave executes the store save command
func RunStoreSave(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return err
	}

	net, err := loadNetwork(viper.GetString("store_network"))
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	name := viper.GetString("store_name")
	if err := s.Save(context.Background(), name, net); err != nil {
		return err
	}
	fmt.Printf("✨ Stored network %q (%d nodes)\n", name, net.Len())
	return nil
}

// RunStoreLoad executes the store load command
func RunStoreLoad(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	name := viper.GetString("store_load_name")
	net, err := s.Load(context.Background(), name)
	if err != nil {
		return err
	}

	outPath := viper.GetString("store_load_out")
	if err := codec.EncodeFile(outPath, net); err != nil {
		return fmt.Errorf("failed to write network: %w", err)
	}
	fmt.Printf("✨ Loaded network %q -> %s (%d nodes)\n", name, outPath, net.Len())
	return nil
}

// RunStoreList executes the store list command
func RunStoreList(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.List(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No stored networks.")
		return nil
	}

	fmt.Printf("%-24s %-8s %-20s\n", "NAME", "NODES", "UPDATED")
	for _, r := range records {
		fmt.Printf("%-24s %-8d %-20s\n", r.Name, r.NodeCount, r.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// RunStoreDelete executes the store delete command
func RunStoreDelete(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	name := viper.GetString("store_delete_name")
	if err := s.Delete(context.Background(), name); err != nil {
		return err
	}
	fmt.Printf("🗑️  Deleted network %q\n", name)
	return nil
}
