// Package cmd implements the mpro CLI commands.
package cmd

import (
	"fmt"

	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = config.DataDir(cfg)
	}
	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", dataDir)
	fmt.Printf("    Database:       %s\n", store.PathIn(dataDir))
	fmt.Println()

	fmt.Println("  [Company]")
	fmt.Printf("    Name:    %s\n", cfg.Company.Name)
	fmt.Printf("    Tagline: %s\n", cfg.Company.Tagline)
	if cfg.Company.CNPJ != "" {
		fmt.Printf("    CNPJ:    %s\n", cfg.Company.CNPJ)
	}
	if cfg.Company.Phone != "" {
		fmt.Printf("    Phone:   %s\n", cfg.Company.Phone)
	}
	if cfg.Company.Email != "" {
		fmt.Printf("    E-mail:  %s\n", cfg.Company.Email)
	}
	fmt.Println()

	fmt.Println("  [Quotes]")
	fmt.Printf("    Validity:      %d days\n", cfg.Quotes.ValidityDays)
	fmt.Printf("    Payment terms: %s\n", cfg.Quotes.PaymentTerms)
	fmt.Printf("    Recent shown:  %d\n", cfg.Quotes.RecentCount)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `mpro setup` to reconfigure.")
	return nil
}
