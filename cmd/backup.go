package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup [file]",
	Short: "Export all records as JSON (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace stored records with a backup (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd, restoreCmd)
}

func runBackup(_ *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	if len(args) == 0 || args[0] == "-" {
		return ws.st.Dump(os.Stdout)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}
	if err := ws.st.Dump(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	updated, err := ws.st.Namespaces()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(updated))
	for ns := range updated {
		names = append(names, ns)
	}
	sort.Strings(names)
	for _, ns := range names {
		progressf("  %-16s updated %s\n", ns, cli.FormatAge(updated[ns]))
	}
	progressf("  Backup written to %s\n", args[0])
	return nil
}

func runRestore(_ *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening backup: %w", err)
		}
		defer f.Close()
		r = f
	}

	res, err := ws.st.Restore(r)
	if err != nil {
		return err
	}
	progressf("  Restored %d collections\n", len(res.Restored))
	for _, ns := range res.Skipped {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.Warn("skipped "+ns+": exported as corrupt, stored copy left unchanged"))
	}

	budgets, err := ws.st.Budgets().GetAll()
	if err != nil {
		return err
	}
	for _, err := range staleBudgets(budgets) {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.Warn(err.Error()))
	}
	return nil
}

// staleBudgets returns a pipeline.ErrStaleTotals error for every budget whose
// stored totals disagree with its line items.
func staleBudgets(budgets []model.Budget) []error {
	var errs []error
	for _, b := range budgets {
		if err := pipeline.Verify(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
