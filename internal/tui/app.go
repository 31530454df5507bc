// Package tui provides the interactive Bubble Tea dashboard for mpro.
package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
	"github.com/mproservicos/mpro/internal/tui/components"
	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when all collections have been read.
type DataLoadedMsg struct {
	Snap     desk.Snapshot
	LoadTime time.Duration
	Err      error
}

// BudgetSavedMsg is sent when a status change has been written.
type BudgetSavedMsg struct {
	Budget model.Budget
	Err    error
}

type flashExpiredMsg struct{ seq int }

// App is the root Bubble Tea model.
type App struct {
	desk *desk.Desk
	cfg  config.Config

	// Data
	snap     desk.Snapshot
	loaded   bool
	loadErr  error
	loadTime time.Duration
	busy     bool // a write or reload is in flight

	// Pre-computed for the dashboard
	stats  model.SummaryStats
	months []model.MonthStats
	ranked []model.ClientStats

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	clients   clientsState
	equipment listState
	budgets   budgetsState
	settings  settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model

	flash    string
	flashErr bool
	flashSeq int
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	dashboardMonths = 6
	flashDuration   = 4 * time.Second

	// Scroll navigation
	scrollOverhead    = 8 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// NewApp creates the dashboard over d. needSetup shows the first-run form
// once data has loaded.
func NewApp(d *desk.Desk, cfg config.Config, needSetup bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		desk:      d,
		cfg:       cfg,
		needSetup: needSetup,
		spinner:   sp,
		setupVals: SetupValuesFrom(cfg),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.desk),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	s := a.snap
	a.stats = pipeline.Summarize(s.Clients, s.Equipment, s.Budgets)
	a.months = pipeline.AggregateMonths(s.Budgets, dashboardMonths, time.Now())
	a.ranked = pipeline.AggregateClients(s.Clients, s.Equipment, s.Budgets)

	a.clients.list.clamp(len(a.visibleClients()))
	a.equipment.clamp(len(s.Equipment))
	a.budgets.list.clamp(len(a.visibleBudgets()))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.busy = false
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			// Keep showing the last good snapshot after a failed reload.
			if !a.loaded {
				a.loadErr = msg.Err
			}
			return a, a.setFlash(msg.Err.Error(), true)
		}
		a.snap = msg.Snap
		a.loaded = true
		a.loadErr = nil
		a.recompute()

		if a.needSetup && a.setupForm == nil {
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case BudgetSavedMsg:
		if msg.Err != nil {
			a.busy = false
			log.Printf("saving budget: %v", msg.Err)
			return a, a.setFlash(msg.Err.Error(), true)
		}
		text := fmt.Sprintf("Budget %06d: %s", msg.Budget.Number, msg.Budget.Status)
		return a, tea.Batch(a.setFlash(text, false), loadDataCmd(a.desk))

	case flashExpiredMsg:
		if msg.seq == a.flashSeq {
			a.flash = ""
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		if key == "q" && a.loadErr != nil {
			return a, tea.Quit
		}
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Text inputs own the keyboard while focused
	if a.activeTab == components.TabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.activeTab == components.TabClients && a.clients.searching {
		return a.updateClientsSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	var (
		cmd     tea.Cmd
		handled bool
	)
	switch a.activeTab {
	case components.TabClients:
		a, cmd, handled = a.updateClientsKeys(key)
	case components.TabEquipment:
		a, cmd, handled = a.updateEquipmentKeys(key)
	case components.TabBudgets:
		a, cmd, handled = a.updateBudgetsKeys(key)
	case components.TabSettings:
		a, cmd, handled = a.updateSettingsKeys(key)
	}
	if handled {
		return a, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "ctrl+r", "f5":
		if !a.busy {
			a.busy = true
			return a, loadDataCmd(a.desk)
		}
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.scrollActiveList(-1)
	case tea.MouseButtonWheelDown:
		a.scrollActiveList(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a *App) scrollActiveList(delta int) {
	switch a.activeTab {
	case components.TabClients:
		if !a.clients.searching {
			a.clients.list.move(delta, len(a.visibleClients()))
		}
	case components.TabEquipment:
		a.equipment.move(delta, len(a.snap.Equipment))
	case components.TabBudgets:
		if a.budgets.preview {
			a.budgets.scroll(delta)
			a.clampPreview()
		} else {
			a.budgets.list.move(delta, len(a.visibleBudgets()))
		}
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		if err := a.saveSetupConfig(); err != nil {
			return a, a.setFlash("Could not save config: "+err.Error(), true)
		}
		return a, a.setFlash("Saved to "+config.Path(), false)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// setFlash shows text in the status bar for a few seconds.
func (a *App) setFlash(text string, isErr bool) tea.Cmd {
	a.flashSeq++
	a.flash = text
	a.flashErr = isErr
	seq := a.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) halfPage() int {
	h := (a.height - scrollOverhead) / 2
	if h < minHalfPageScroll {
		h = minHalfPageScroll
	}
	return h
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  mpro needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ mpro"))
	b.WriteString(subtitleStyle.Render(" · " + a.cfg.Company.Name))
	b.WriteString("\n\n")

	if a.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		b.WriteString(errStyle.Render("Could not read records:"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render(a.loadErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render("Press q to quit"))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Loading records..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"d c e b x", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in lists"},
			{"g G", "First / Last"},
			{"J K ^d ^u", "Scroll quote preview"},
		}},
		{"Budgets", []struct{ key, desc string }{
			{"a", "Approve"},
			{"r", "Reject"},
			{"o", "Reopen (back to analysis)"},
			{"f", "Cycle status filter"},
			{"p Enter", "Quote preview"},
		}},
		{"General", []struct{ key, desc string }{
			{"/", "Search clients"},
			{"Esc", "Back / Clear search"},
			{"^r F5", "Reload records"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	dataAge := fmt.Sprintf("%dms", a.loadTime.Milliseconds())
	statusBar := components.RenderStatusBar(w, a.hints(), a.flash, dataAge, a.flashErr, a.busy)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case components.TabDashboard:
		content = a.renderDashboardTab(cw)
	case components.TabClients:
		content = a.renderClientsTab(cw, contentH)
	case components.TabEquipment:
		content = a.renderEquipmentTab(cw, contentH)
	case components.TabBudgets:
		content = a.renderBudgetsTab(cw, contentH)
	case components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// hints is the key summary shown in the status bar for the active tab.
func (a App) hints() string {
	switch a.activeTab {
	case components.TabClients:
		return "[/]search  [j/k]move  [?]help  [q]uit"
	case components.TabBudgets:
		if a.budgets.preview {
			return "[J/K]scroll  [p/esc]close  [?]help"
		}
		return "[a]pprove [r]eject [o]reopen  [f]ilter  [p]review  [?]help"
	case components.TabSettings:
		return "[j/k]move  [enter]edit  [?]help  [q]uit"
	}
	return "[?]help  [q]uit"
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd reads every collection in the background.
func loadDataCmd(d *desk.Desk) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		snap, err := d.Load()
		return DataLoadedMsg{Snap: snap, LoadTime: time.Since(start), Err: err}
	}
}

// setStatusCmd writes a status change through the desk.
func setStatusCmd(d *desk.Desk, id string, status model.BudgetStatus) tea.Cmd {
	return func() tea.Msg {
		b, err := d.SetStatus(id, status)
		return BudgetSavedMsg{Budget: b, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
