package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/store"
	"github.com/mproservicos/mpro/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTestApp(t *testing.T) (App, *desk.Desk) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), store.DBFile))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	d := desk.New(st, desk.Defaults{})
	if _, err := d.SaveClient(model.Client{ID: "c1", Name: "Acme", CNPJ: "1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SaveClient(model.Client{ID: "c2", Name: "Bravo", CNPJ: "2"}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SaveEquipment(model.Equipment{ID: "e1", ClientID: "c1", Brand: "X", Model: "Y", SerialNumber: "S"}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateBudget(desk.Draft{ClientID: "c1", EquipmentID: "e1",
		Services: []model.ServiceItem{{Description: "Revisão", Price: 100}}}); err != nil {
		t.Fatal(err)
	}

	a := NewApp(d, config.DefaultConfig(), false)
	a = update(t, a, tea.WindowSizeMsg{Width: 140, Height: 40})
	a = update(t, a, loadDataCmd(d)())
	if !a.loaded {
		t.Fatalf("app not loaded: %v", a.loadErr)
	}
	return a, d
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	got, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return got
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadComputesStats(t *testing.T) {
	a, _ := newTestApp(t)
	if a.stats.TotalClients != 2 || a.stats.TotalBudgets != 1 || a.stats.InAnalysis != 1 {
		t.Fatalf("stats = %+v, want 2 clients, 1 budget in analysis", a.stats)
	}
	if len(a.months) != dashboardMonths {
		t.Fatalf("months = %d, want %d", len(a.months), dashboardMonths)
	}
}

func TestTabKeys(t *testing.T) {
	a, _ := newTestApp(t)

	tests := []struct {
		key  string
		want int
	}{
		{"b", components.TabBudgets},
		{"c", components.TabClients},
		{"e", components.TabEquipment},
		{"x", components.TabSettings},
		{"d", components.TabDashboard},
	}
	for _, tt := range tests {
		a = update(t, a, keyMsg(tt.key))
		if a.activeTab != tt.want {
			t.Fatalf("after %q activeTab = %d, want %d", tt.key, a.activeTab, tt.want)
		}
	}

	a = update(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	if a.activeTab != components.TabSettings {
		t.Fatalf("left from dashboard = %d, want settings", a.activeTab)
	}
}

func TestApproveFromBudgetsTab(t *testing.T) {
	a, d := newTestApp(t)
	a = update(t, a, keyMsg("b"))

	m, cmd := a.Update(keyMsg("a"))
	a = m.(App)
	if cmd == nil || !a.busy {
		t.Fatal("approve did not start a write")
	}
	saved, ok := cmd().(BudgetSavedMsg)
	if !ok {
		t.Fatal("approve command did not return BudgetSavedMsg")
	}
	if saved.Err != nil || saved.Budget.Status != model.StatusApproved {
		t.Fatalf("saved = %+v, want approved", saved)
	}

	snap, err := d.Load()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Budgets[0].Status != model.StatusApproved || snap.Budgets[0].FinalTotal != 100 {
		t.Fatalf("stored = %q/%v, want approved/100", snap.Budgets[0].Status, snap.Budgets[0].FinalTotal)
	}

	a = update(t, a, saved)
	if !strings.Contains(a.flash, "000001") {
		t.Fatalf("flash = %q, want budget number", a.flash)
	}
}

func TestStatusFilterCycles(t *testing.T) {
	a, _ := newTestApp(t)
	a = update(t, a, keyMsg("b"))

	if got := len(a.visibleBudgets()); got != 1 {
		t.Fatalf("all = %d, want 1", got)
	}
	a = update(t, a, keyMsg("f")) // Em Análise
	if got := len(a.visibleBudgets()); got != 1 {
		t.Fatalf("analysis = %d, want 1", got)
	}
	a = update(t, a, keyMsg("f")) // Aprovado
	if got := len(a.visibleBudgets()); got != 0 {
		t.Fatalf("approved = %d, want 0", got)
	}
	a = update(t, a, keyMsg("f"))
	a = update(t, a, keyMsg("f"))
	if a.budgets.filter != 0 {
		t.Fatalf("filter = %d, want wrap to 0", a.budgets.filter)
	}
}

func TestClientSearch(t *testing.T) {
	a, _ := newTestApp(t)
	a = update(t, a, keyMsg("c"))
	a = update(t, a, keyMsg("/"))
	if !a.clients.searching {
		t.Fatal("/ did not start search")
	}
	a = update(t, a, keyMsg("brav"))
	if got := a.visibleClients(); len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("visible = %+v, want Bravo", got)
	}

	// Tab keys are typed into the search box, not acted on.
	if a.activeTab != components.TabClients {
		t.Fatalf("activeTab = %d, want clients", a.activeTab)
	}

	a = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.clients.searching || a.clients.query != "" {
		t.Fatal("esc did not clear search")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a, _ := newTestApp(t)
	for i := range components.Tabs {
		a.activeTab = i
		if v := a.View(); !strings.Contains(v, "Dashboard") {
			t.Fatalf("tab %d view has no tab bar", i)
		}
	}

	a.activeTab = components.TabBudgets
	a.budgets.preview = true
	if v := a.View(); !strings.Contains(v, "000001") {
		t.Fatal("quote preview missing budget number")
	}
}

func TestViewTooNarrow(t *testing.T) {
	a, _ := newTestApp(t)
	a = update(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	if v := a.View(); !strings.Contains(v, "too narrow") {
		t.Fatalf("narrow view = %q", v)
	}
}

func TestApplySetting(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := applySetting(&cfg, settingsFieldValidity, " 30 "); err != nil {
		t.Fatal(err)
	}
	if cfg.Quotes.ValidityDays != 30 {
		t.Fatalf("ValidityDays = %d, want 30", cfg.Quotes.ValidityDays)
	}
	if err := applySetting(&cfg, settingsFieldValidity, "0"); err == nil {
		t.Fatal("validity 0 accepted")
	}
	if err := applySetting(&cfg, settingsFieldTheme, "nope"); err == nil {
		t.Fatal("unknown theme accepted")
	}
	if err := applySetting(&cfg, settingsFieldCompany, "  "); err == nil {
		t.Fatal("blank company name accepted")
	}
	if got := settingsValue(cfg, settingsFieldValidity); got != "30" {
		t.Fatalf("settingsValue = %q, want 30", got)
	}
}
