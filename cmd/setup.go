package cmd

import (
	"fmt"

	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Long:  "Set the company letterhead printed on quotes, the quote defaults and the color theme.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := runForm(tui.NewSetupForm(&vals)); err != nil {
		return err
	}
	if err := vals.Apply(&cfg); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `mpro setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
