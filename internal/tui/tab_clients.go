package tui

import (
	"fmt"
	"strings"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
	"github.com/mproservicos/mpro/internal/tui/components"
	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// clientsState is the clients tab: a searchable list with a detail pane.
type clientsState struct {
	list      listState
	searching bool
	search    textinput.Model
	query     string
}

func (a App) visibleClients() []model.Client {
	return pipeline.SearchClients(a.snap.Clients, a.clients.query)
}

func (a App) updateClientsKeys(key string) (App, tea.Cmd, bool) {
	n := len(a.visibleClients())
	switch key {
	case "/":
		ti := textinput.New()
		ti.Prompt = "/"
		ti.Placeholder = "name, trading name or CNPJ"
		ti.CharLimit = 64
		ti.SetValue(a.clients.query)
		ti.Focus()
		a.clients.search = ti
		a.clients.searching = true
		return a, textinput.Blink, true
	case "esc":
		if a.clients.query != "" {
			a.clients.query = ""
			a.clients.list.top()
		}
		return a, nil, true
	case "j", "down":
		a.clients.list.move(1, n)
	case "k", "up":
		a.clients.list.move(-1, n)
	case "g", "home":
		a.clients.list.top()
	case "G", "end":
		a.clients.list.bottom(n)
	case "ctrl+d":
		a.clients.list.move(a.halfPage(), n)
	case "ctrl+u":
		a.clients.list.move(-a.halfPage(), n)
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) updateClientsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.clients.searching = false
		a.clients.search.Blur()
		return a, nil
	case "esc":
		a.clients.searching = false
		a.clients.query = ""
		a.clients.list.top()
		return a, nil
	}

	var cmd tea.Cmd
	a.clients.search, cmd = a.clients.search.Update(msg)
	a.clients.query = a.clients.search.Value()
	a.clients.list.top()
	return a, cmd
}

func (a App) renderClientsTab(cw, h int) string {
	t := theme.Active
	clients := a.visibleClients()
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	leftW := cw * 2 / 5
	if a.isCompactLayout() {
		leftW = cw / 2
	}
	rightW := cw - leftW
	innerW := components.CardInnerWidth(leftW)

	var left strings.Builder
	if a.clients.searching {
		left.WriteString(a.clients.search.View())
		left.WriteString("\n")
	} else if a.clients.query != "" {
		left.WriteString(mutedStyle.Render(fmt.Sprintf("filter: %q  [esc] clear", a.clients.query)))
		left.WriteString("\n")
	}

	visible := h - 5
	if left.Len() > 0 {
		visible--
	}

	title := fmt.Sprintf("Clients [%d]", len(clients))
	if len(clients) == 0 {
		msg := "No clients yet. Add one with: mpro clients add"
		if a.clients.query != "" {
			msg = "No clients match"
		}
		left.WriteString(mutedStyle.Render(msg))
		return components.ContentCard(title, left.String(), cw)
	}

	rows := make([]string, len(clients))
	for i, c := range clients {
		rows[i] = fmt.Sprintf("%-*s %s", innerW-20, truncStr(c.Name, innerW-20), c.CNPJ)
	}
	left.WriteString(renderRows(rows, a.clients.list, visible, innerW))

	sel := clients[a.clients.list.cursor]
	return components.CardRow([]string{
		components.ContentCard(title, left.String(), leftW),
		components.ContentCard(sel.Name, a.renderClientDetail(sel, rightW), rightW),
	})
}

func (a App) renderClientDetail(c model.Client, outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return labelStyle.Render(fmt.Sprintf("%-14s", label)) +
			valueStyle.Render(truncStr(value, innerW-14)) + "\n"
	}

	var b strings.Builder
	b.WriteString(field("Trading name", c.TradingName))
	b.WriteString(field("CNPJ", c.CNPJ))
	b.WriteString(field("IE", c.StateRegistration))
	b.WriteString(field("Address", c.Address))
	b.WriteString(field("Phone", c.Phone))
	b.WriteString(field("E-mail", c.Email))
	b.WriteString(field("ID", c.ID))

	equip := pipeline.EquipmentForClient(a.snap.Equipment, c.ID)
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Equipment (%d)", len(equip))))
	b.WriteString("\n")
	for _, e := range equip {
		b.WriteString(valueStyle.Render(truncStr(fmt.Sprintf("%s  S/N %s", e.Label(), e.SerialNumber), innerW)))
		b.WriteString("\n")
	}

	budgets := pipeline.FilterByClient(a.snap.Budgets, c.ID)
	approved := 0.0
	for _, bud := range budgets {
		if bud.Status == model.StatusApproved {
			approved += bud.FinalTotal
		}
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Budgets (%d)", len(budgets))))
	b.WriteString("\n")
	b.WriteString(field("Approved", cli.FormatMoney(approved)))
	return strings.TrimSuffix(b.String(), "\n")
}
