package cmd

import (
	"fmt"
	"os"

	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:           "mpro",
	Short:         "Service quote desk",
	Long:          "Register clients and their equipment, build service quotes and print them.",
	RunE:          runDashboard,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default $MPRO_DATA_DIR or ~/.local/share/mpro)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// workspace is the config, store handle and desk shared by one command run.
type workspace struct {
	cfg  config.Config
	st   *store.Store
	desk *desk.Desk
}

// openWorkspace loads config and opens the store. Callers must Close it.
func openWorkspace() (*workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dir := flagDataDir
	if dir == "" {
		dir = config.DataDir(cfg)
	}

	st, err := store.Open(store.PathIn(dir))
	if err != nil {
		return nil, err
	}

	d := desk.New(st, desk.Defaults{
		ValidityDays: cfg.Quotes.ValidityDays,
		PaymentTerms: cfg.Quotes.PaymentTerms,
	})
	return &workspace{cfg: cfg, st: st, desk: d}, nil
}

func (w *workspace) Close() {
	_ = w.st.Close()
}

// progressf writes a progress line to stderr unless --quiet.
func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// anyChanged reports whether any of the named flags were set on the command line.
func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}
