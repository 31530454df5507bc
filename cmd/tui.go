package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/tui"
	"github.com/mproservicos/mpro/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	theme.SetActive(ws.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log output would corrupt the alt screen.
	if path := os.Getenv("MPRO_DEBUG_LOG"); path != "" {
		f, err := tea.LogToFile(path, "mpro")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer func() { _ = f.Close() }()
	} else {
		log.SetOutput(io.Discard)
	}

	app := tui.NewApp(ws.desk, ws.cfg, !config.Exists())
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
