package tui

import (
	"fmt"
	"strings"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
	"github.com/mproservicos/mpro/internal/tui/components"
	"github.com/mproservicos/mpro/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a App) updateEquipmentKeys(key string) (App, tea.Cmd, bool) {
	n := len(a.snap.Equipment)
	switch key {
	case "j", "down":
		a.equipment.move(1, n)
	case "k", "up":
		a.equipment.move(-1, n)
	case "g", "home":
		a.equipment.top()
	case "G", "end":
		a.equipment.bottom(n)
	case "ctrl+d":
		a.equipment.move(a.halfPage(), n)
	case "ctrl+u":
		a.equipment.move(-a.halfPage(), n)
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) renderEquipmentTab(cw, h int) string {
	t := theme.Active
	equipment := a.snap.Equipment
	title := fmt.Sprintf("Equipment [%d]", len(equipment))

	if len(equipment) == 0 {
		return components.ContentCard(title,
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
				Render("No equipment yet. Add some with: mpro equipment add"), cw)
	}

	leftW := cw / 2
	rightW := cw - leftW
	innerW := components.CardInnerWidth(leftW)
	nameW := innerW / 2

	rows := make([]string, len(equipment))
	for i, e := range equipment {
		rows[i] = fmt.Sprintf("%-*s %s", nameW, truncStr(e.Label(), nameW),
			pipeline.ClientName(a.snap.Clients, e.ClientID))
	}

	sel := equipment[a.equipment.cursor]
	return components.CardRow([]string{
		components.ContentCard(title, renderRows(rows, a.equipment, h-5, innerW), leftW),
		components.ContentCard(sel.Label(), a.renderEquipmentDetail(sel, rightW), rightW),
	})
}

func (a App) renderEquipmentDetail(e model.Equipment, outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) +
			valueStyle.Render(truncStr(value, innerW-12)) + "\n"
	}

	var b strings.Builder
	b.WriteString(field("Client", pipeline.ClientName(a.snap.Clients, e.ClientID)))
	b.WriteString(field("Type", e.Type))
	b.WriteString(field("Serial", e.SerialNumber))
	b.WriteString(field("Asset", e.AssetNumber))
	b.WriteString(field("Year", e.ManufacturingYear))
	b.WriteString(field("Location", e.InstallationLocation))
	b.WriteString(field("Condition", e.Condition))
	b.WriteString(field("Notes", e.Notes))

	var related []model.Budget
	for _, bud := range a.snap.Budgets {
		if bud.EquipmentID == e.ID {
			related = append(related, bud)
		}
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Budgets (%d)", len(related))))
	b.WriteString("\n")
	for _, bud := range related {
		statusStyle := lipgloss.NewStyle().Foreground(t.StatusColor(bud.Status)).Background(t.Surface)
		b.WriteString(valueStyle.Render(fmt.Sprintf("#%-6d %-12s ", bud.Number, cli.FormatDate(bud.Date))))
		b.WriteString(statusStyle.Render(string(bud.Status)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
