package tui

import (
	"fmt"
	"strings"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
	"github.com/mproservicos/mpro/internal/tui/components"
	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const topClientsShown = 5

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	s := a.stats

	metrics := []components.Metric{
		{Label: "Clients", Value: cli.FormatNumber(int64(s.TotalClients)), Color: t.Accent},
		{Label: "Equipment", Value: cli.FormatNumber(int64(s.TotalEquipment)), Color: t.Blue},
		{Label: "Budgets", Value: cli.FormatNumber(int64(s.TotalBudgets)),
			Note: fmt.Sprintf("%d in analysis", s.InAnalysis), Color: t.Yellow},
		{Label: "Approved Revenue", Value: cli.FormatMoney(s.ApprovedRevenue),
			Note: fmt.Sprintf("%d approved", s.Approved), Color: t.Green},
	}
	if !a.isCompactLayout() {
		metrics = append(metrics, components.Metric{
			Label: "Pipeline", Value: cli.FormatMoney(s.PipelineValue), Note: "awaiting decision", Color: t.Orange,
		})
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Budget Status", a.renderStatusMix(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Approved Revenue by Month", a.renderMonthChart(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Recent Budgets", a.renderRecentBudgets(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Top Clients", a.renderTopClients(cw), cw))
		return b.String()
	}

	widths := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Budget Status", a.renderStatusMix(widths[0]), widths[0]),
		components.ContentCard("Approved Revenue by Month", a.renderMonthChart(widths[1]), widths[1]),
	}))
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Recent Budgets", a.renderRecentBudgets(widths[0]), widths[0]),
		components.ContentCard("Top Clients", a.renderTopClients(widths[1]), widths[1]),
	}))
	return b.String()
}

func (a App) renderStatusMix(outerW int) string {
	t := theme.Active
	s := a.stats
	innerW := components.CardInnerWidth(outerW)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	const labelW, countW = 12, 5
	barW := innerW - labelW - countW - 2
	if barW < 5 {
		barW = 5
	}

	rows := []struct {
		label string
		count int
		color lipgloss.Color
	}{
		{string(model.StatusAnalysis), s.InAnalysis, t.Analysis},
		{string(model.StatusApproved), s.Approved, t.Approved},
		{string(model.StatusRejected), s.Rejected, t.Rejected},
	}

	var b strings.Builder
	for _, r := range rows {
		share := 0.0
		if s.TotalBudgets > 0 {
			share = float64(r.count) / float64(s.TotalBudgets)
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, r.label)))
		b.WriteString(space)
		b.WriteString(components.ShareBar(share, barW, r.color))
		b.WriteString(space)
		b.WriteString(valueStyle.Render(fmt.Sprintf("%*d", countW, r.count)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(components.RateBar("Approval", s.ApprovalRate, labelW, barW-2))
	return b.String()
}

func (a App) renderMonthChart(outerW int) string {
	t := theme.Active
	if len(a.months) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No budgets yet")
	}

	bars := make([]components.Bar, len(a.months))
	for i, m := range a.months {
		bars[i] = components.Bar{
			Label: m.Month.Format("Jan 2006"),
			Value: m.ApprovedRevenue,
			Text:  fmt.Sprintf("%s  %d/%d", cli.FormatMoney(m.ApprovedRevenue), m.Approved, m.Issued),
		}
	}
	return components.HBarChart(bars, t.Green, components.CardInnerWidth(outerW))
}

func (a App) renderRecentBudgets(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	recent := pipeline.Recent(a.snap.Budgets, a.cfg.Quotes.RecentCount)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	if len(recent) == 0 {
		return mutedStyle.Render("No budgets yet. Create one with: mpro budgets new")
	}

	const numW, totalW, statusW = 7, 13, 10
	nameW := innerW - numW - totalW - statusW - 3
	if nameW < 8 {
		nameW = 8
	}

	var b strings.Builder
	for _, bud := range recent {
		name := pipeline.ClientName(a.snap.Clients, bud.ClientID)
		statusStyle := lipgloss.NewStyle().Foreground(t.StatusColor(bud.Status)).Background(t.Surface)

		b.WriteString(mutedStyle.Render(fmt.Sprintf("#%-*d", numW-1, bud.Number)))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(name, nameW))))
		b.WriteString(space)
		b.WriteString(rowStyle.Render(fmt.Sprintf("%*s", totalW, cli.FormatMoney(bud.FinalTotal))))
		b.WriteString(space)
		b.WriteString(statusStyle.Render(fmt.Sprintf("%-*s", statusW, truncStr(string(bud.Status), statusW))))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (a App) renderTopClients(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	moneyStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	ranked := a.ranked
	if len(ranked) > topClientsShown {
		ranked = ranked[:topClientsShown]
	}
	if len(ranked) == 0 {
		return mutedStyle.Render("No clients yet")
	}

	const countW, revW = 9, 13
	nameW := innerW - countW - revW - 2
	if nameW < 8 {
		nameW = 8
	}

	var b strings.Builder
	for _, c := range ranked {
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(c.Name, nameW))))
		b.WriteString(space)
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%*s", countW, fmt.Sprintf("%d/%d", c.Approved, c.Budgets))))
		b.WriteString(space)
		b.WriteString(moneyStyle.Render(fmt.Sprintf("%*s", revW, cli.FormatMoney(c.ApprovedRevenue))))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
