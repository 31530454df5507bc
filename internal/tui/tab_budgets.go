package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
	"github.com/mproservicos/mpro/internal/tui/components"
	"github.com/mproservicos/mpro/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// budgetsState is the budgets tab: a filterable list, newest first, and an
// optional quote preview of the selected budget.
type budgetsState struct {
	list    listState
	filter  int // 0 = all, otherwise index+1 into model.Statuses
	preview bool
	offset  int // preview scroll
}

func (s *budgetsState) scroll(delta int) {
	s.offset += delta
	if s.offset < 0 {
		s.offset = 0
	}
}

func (s budgetsState) filterStatus() (model.BudgetStatus, bool) {
	if s.filter <= 0 || s.filter > len(model.Statuses) {
		return "", false
	}
	return model.Statuses[s.filter-1], true
}

func (a App) visibleBudgets() []model.Budget {
	budgets := pipeline.Recent(a.snap.Budgets, len(a.snap.Budgets))
	if status, ok := a.budgets.filterStatus(); ok {
		budgets = pipeline.FilterByStatus(budgets, status)
	}
	return budgets
}

func (a App) selectedBudget() (model.Budget, bool) {
	budgets := a.visibleBudgets()
	if len(budgets) == 0 {
		return model.Budget{}, false
	}
	return budgets[a.budgets.list.cursor], true
}

func (a App) updateBudgetsKeys(key string) (App, tea.Cmd, bool) {
	if a.budgets.preview {
		switch key {
		case "p", "enter", "esc":
			a.budgets.preview = false
		case "J", "j", "down":
			a.budgets.scroll(1)
		case "K", "k", "up":
			a.budgets.scroll(-1)
		case "ctrl+d":
			a.budgets.scroll(a.halfPage())
		case "ctrl+u":
			a.budgets.scroll(-a.halfPage())
		case "g":
			a.budgets.offset = 0
		default:
			return a, nil, false
		}
		a.clampPreview()
		return a, nil, true
	}

	n := len(a.visibleBudgets())
	switch key {
	case "a":
		return a.changeStatus(model.StatusApproved)
	case "r":
		return a.changeStatus(model.StatusRejected)
	case "o":
		return a.changeStatus(model.StatusAnalysis)
	case "f":
		a.budgets.filter = (a.budgets.filter + 1) % (len(model.Statuses) + 1)
		a.budgets.list.top()
	case "p", "enter":
		if n > 0 {
			a.budgets.preview = true
			a.budgets.offset = 0
		}
	case "j", "down":
		a.budgets.list.move(1, n)
	case "k", "up":
		a.budgets.list.move(-1, n)
	case "g", "home":
		a.budgets.list.top()
	case "G", "end":
		a.budgets.list.bottom(n)
	case "ctrl+d":
		a.budgets.list.move(a.halfPage(), n)
	case "ctrl+u":
		a.budgets.list.move(-a.halfPage(), n)
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) changeStatus(status model.BudgetStatus) (App, tea.Cmd, bool) {
	b, ok := a.selectedBudget()
	if !ok || a.busy {
		return a, nil, true
	}
	if b.Status == status {
		return a, a.setFlash(fmt.Sprintf("Budget %06d is already %s", b.Number, status), false), true
	}
	a.busy = true
	return a, setStatusCmd(a.desk, b.ID, status), true
}

func (a App) renderBudgetsTab(cw, h int) string {
	t := theme.Active
	budgets := a.visibleBudgets()
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	title := fmt.Sprintf("Budgets [%d]", len(budgets))
	if status, ok := a.budgets.filterStatus(); ok {
		title = fmt.Sprintf("Budgets · %s [%d]", status, len(budgets))
	}

	if len(budgets) == 0 {
		msg := "No budgets yet. Create one with: mpro budgets new"
		if a.budgets.filter > 0 {
			msg = "No budgets with this status  [f] next filter"
		}
		return components.ContentCard(title, mutedStyle.Render(msg), cw)
	}

	sel := budgets[a.budgets.list.cursor]
	if a.budgets.preview {
		return a.renderQuotePreview(sel, cw, h)
	}

	leftW := cw * 11 / 20
	if a.isCompactLayout() {
		leftW = cw / 2
	}
	rightW := cw - leftW
	innerW := components.CardInnerWidth(leftW)

	now := time.Now()
	const numW, dateW, totalW = 7, 11, 13
	nameW := innerW - numW - dateW - totalW - 3
	if nameW < 6 {
		nameW = 6
	}
	rows := make([]string, len(budgets))
	for i, b := range budgets {
		mark := " "
		if pipeline.IsExpired(b, now) {
			mark = "!"
		}
		rows[i] = fmt.Sprintf("%s%-*d %-*s %-*s %*s", mark, numW-1, b.Number,
			dateW-1, cli.FormatDate(b.Date),
			nameW, truncStr(pipeline.ClientName(a.snap.Clients, b.ClientID), nameW),
			totalW, cli.FormatMoney(b.FinalTotal))
	}

	return components.CardRow([]string{
		components.ContentCard(title, renderRows(rows, a.budgets.list, h-5, innerW), leftW),
		components.ContentCard(fmt.Sprintf("Orçamento Nº %s", cli.FormatBudgetNumber(sel.Number)),
			a.renderBudgetDetail(sel, rightW, now), rightW),
	})
}

func (a App) renderBudgetDetail(b model.Budget, outerW int, now time.Time) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(t.StatusColor(b.Status)).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)

	const labelW = 13
	field := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
			valueStyle.Render(truncStr(value, innerW-labelW)) + "\n"
	}

	var sb strings.Builder
	status := statusStyle.Render(string(b.Status))
	if pipeline.IsExpired(b, now) {
		status += warnStyle.Render(" (vencido)")
	}
	sb.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, "Status")) + status + "\n")
	sb.WriteString(field("Client", pipeline.ClientName(a.snap.Clients, b.ClientID)))
	sb.WriteString(field("Equipment", pipeline.EquipmentLabel(a.snap.Equipment, b.EquipmentID)))
	sb.WriteString(field("Issued", cli.FormatDate(b.Date)))
	sb.WriteString(field("Valid until", cli.FormatDate(pipeline.ExpiresAt(b))))
	sb.WriteString(field("Payment", b.PaymentTerms))

	sb.WriteString("\n")
	sb.WriteString(headerStyle.Render(fmt.Sprintf("Services (%d)", len(b.Services))))
	sb.WriteString("\n")
	for _, s := range b.Services {
		sb.WriteString(valueStyle.Render(lineItem(fmt.Sprintf("%s (%s)", s.Description, s.Type),
			cli.FormatMoney(s.Price), innerW)))
		sb.WriteString("\n")
	}
	sb.WriteString(headerStyle.Render(fmt.Sprintf("Materials (%d)", len(b.Materials))))
	sb.WriteString("\n")
	for _, m := range b.Materials {
		desc := fmt.Sprintf("%s x%s", m.Description, cli.FormatQuantity(m.Quantity))
		sb.WriteString(valueStyle.Render(lineItem(desc, cli.FormatMoney(m.Quantity*m.UnitPrice), innerW)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render(lineItem("Labor", cli.FormatMoney(b.TotalLabor), innerW)) + "\n")
	sb.WriteString(labelStyle.Render(lineItem("Materials", cli.FormatMoney(b.TotalMaterials), innerW)) + "\n")
	if b.TravelFee > 0 {
		sb.WriteString(labelStyle.Render(lineItem("Travel fee", cli.FormatMoney(b.TravelFee), innerW)) + "\n")
	}
	if b.Discount > 0 {
		sb.WriteString(labelStyle.Render(lineItem("Discount", "- "+cli.FormatMoney(b.Discount), innerW)) + "\n")
	}
	sb.WriteString(totalStyle.Render(lineItem("TOTAL", cli.FormatMoney(b.FinalTotal), innerW)))

	if err := pipeline.Verify(b); err != nil {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render(truncStr(err.Error(), innerW)))
	}
	return sb.String()
}

// lineItem left-aligns desc and right-aligns amount within width.
func lineItem(desc, amount string, width int) string {
	descW := width - lipgloss.Width(amount) - 1
	if descW < 1 {
		descW = 1
	}
	return fmt.Sprintf("%-*s %s", descW, truncStr(desc, descW), amount)
}

// previewLines renders the quote of b, or returns the reason it cannot be printed.
func (a App) previewLines(b model.Budget) ([]string, error) {
	doc, err := cli.NewQuoteDoc(a.cfg.Company, a.snap.Clients, a.snap.Equipment, b)
	if err != nil {
		return nil, err
	}
	return strings.Split(cli.RenderQuote(doc), "\n"), nil
}

// previewVisible is the number of quote lines that fit in content height h.
func previewVisible(h int) int {
	return max(1, h-3)
}

// clampPreview keeps the preview scroll within the rendered quote.
func (a *App) clampPreview() {
	b, ok := a.selectedBudget()
	if !ok {
		a.budgets.offset = 0
		return
	}
	lines, err := a.previewLines(b)
	if err != nil {
		a.budgets.offset = 0
		return
	}
	// Tab bar and status bar take one row each.
	maxOffset := max(0, len(lines)-previewVisible(a.height-2))
	a.budgets.offset = min(a.budgets.offset, maxOffset)
}

func (a App) renderQuotePreview(b model.Budget, cw, h int) string {
	t := theme.Active
	title := fmt.Sprintf("Quote Preview · Nº %s", cli.FormatBudgetNumber(b.Number))

	lines, err := a.previewLines(b)
	if err != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		return components.ContentCard(title, errStyle.Render(err.Error()), cw)
	}

	start := min(a.budgets.offset, max(0, len(lines)-1))
	end := min(start+previewVisible(h), len(lines))

	body := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).
		Render(strings.Join(lines[start:end], "\n"))
	return components.ContentCard(title, body, cw)
}
