package cmd

import (
	"fmt"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"summary"},
	Short:   "Totals per status and recent budgets",
	RunE:    runDashboard,
}

var dashboardTop int

func init() {
	dashboardCmd.Flags().IntVarP(&dashboardTop, "top", "t", 5, "Number of clients to rank by approved revenue")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}

	if len(snap.Clients) == 0 && len(snap.Budgets) == 0 {
		fmt.Println("\n  No records yet.")
		fmt.Println("  Start with `mpro clients add`.")
		return nil
	}

	stats := pipeline.Summarize(snap.Clients, snap.Equipment, snap.Budgets)

	fmt.Println()
	fmt.Println(cli.RenderTitle(ws.cfg.Company.Name))
	fmt.Println()

	rows := [][]string{
		{"Clients", cli.FormatNumber(int64(stats.TotalClients))},
		{"Equipment", cli.FormatNumber(int64(stats.TotalEquipment))},
		{"Budgets", cli.FormatNumber(int64(stats.TotalBudgets))},
		{"---"},
		{"In analysis", cli.FormatNumber(int64(stats.InAnalysis))},
		{"Approved", cli.FormatNumber(int64(stats.Approved))},
		{"Rejected", cli.FormatNumber(int64(stats.Rejected))},
		{"---"},
		{"Approved revenue", cli.Money(cli.FormatMoney(stats.ApprovedRevenue))},
		{"Pipeline value", cli.FormatMoney(stats.PipelineValue)},
		{"Approval rate", cli.RenderRateBar(stats.ApprovalRate, 20)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	recent := pipeline.Recent(snap.Budgets, ws.cfg.Quotes.RecentCount)
	if len(recent) > 0 {
		fmt.Println()
		recentRows := make([][]string, 0, len(recent))
		for _, b := range recent {
			recentRows = append(recentRows, []string{
				cli.FormatBudgetNumber(b.Number),
				cli.Truncate(pipeline.ClientName(snap.Clients, b.ClientID), 28),
				statusLabel(b),
				cli.FormatMoney(b.FinalTotal),
				cli.FormatAge(b.Date),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Recent Activity",
			Headers: []string{"Nº", "Client", "Status", "Total", "Issued"},
			Align:   []lipgloss.Position{lipgloss.Right, lipgloss.Left, lipgloss.Left, lipgloss.Right, lipgloss.Left},
			Rows:    recentRows,
		}))
	}

	ranked := pipeline.AggregateClients(snap.Clients, snap.Equipment, snap.Budgets)
	if dashboardTop > 0 && len(ranked) > dashboardTop {
		ranked = ranked[:dashboardTop]
	}
	if len(ranked) > 0 {
		fmt.Println()
		clientRows := make([][]string, 0, len(ranked))
		for _, c := range ranked {
			clientRows = append(clientRows, []string{
				cli.Truncate(c.Name, 28),
				cli.FormatNumber(int64(c.Equipment)),
				fmt.Sprintf("%d/%d", c.Approved, c.Budgets),
				cli.FormatMoney(c.ApprovedRevenue),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Top Clients",
			Headers: []string{"Client", "Equip.", "Approved", "Revenue"},
			Rows:    clientRows,
		}))
	}

	fmt.Println()
	return nil
}
