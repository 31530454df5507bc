package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/tui/components"
	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldCompany = iota
	settingsFieldTagline
	settingsFieldCNPJ
	settingsFieldPhone
	settingsFieldEmail
	settingsFieldValidity
	settingsFieldPayment
	settingsFieldRecent
	settingsFieldTheme
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

// settingsValue returns the current text of field i in cfg.
func settingsValue(cfg config.Config, i int) string {
	switch i {
	case settingsFieldCompany:
		return cfg.Company.Name
	case settingsFieldTagline:
		return cfg.Company.Tagline
	case settingsFieldCNPJ:
		return cfg.Company.CNPJ
	case settingsFieldPhone:
		return cfg.Company.Phone
	case settingsFieldEmail:
		return cfg.Company.Email
	case settingsFieldValidity:
		return strconv.Itoa(cfg.Quotes.ValidityDays)
	case settingsFieldPayment:
		return cfg.Quotes.PaymentTerms
	case settingsFieldRecent:
		return strconv.Itoa(cfg.Quotes.RecentCount)
	case settingsFieldTheme:
		return cfg.Appearance.Theme
	}
	return ""
}

// applySetting stores val into field i of cfg.
func applySetting(cfg *config.Config, i int, val string) error {
	val = strings.TrimSpace(val)
	switch i {
	case settingsFieldCompany:
		if val == "" {
			return fmt.Errorf("company name is required")
		}
		cfg.Company.Name = val
	case settingsFieldTagline:
		cfg.Company.Tagline = val
	case settingsFieldCNPJ:
		cfg.Company.CNPJ = val
	case settingsFieldPhone:
		cfg.Company.Phone = val
	case settingsFieldEmail:
		cfg.Company.Email = val
	case settingsFieldValidity:
		days, err := parseDays(val)
		if err != nil {
			return err
		}
		cfg.Quotes.ValidityDays = days
	case settingsFieldPayment:
		if val == "" {
			return fmt.Errorf("payment terms are required")
		}
		cfg.Quotes.PaymentTerms = val
	case settingsFieldRecent:
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return fmt.Errorf("recent count must be a positive number")
		}
		cfg.Quotes.RecentCount = n
	case settingsFieldTheme:
		found := false
		for _, name := range theme.Names() {
			if name == val {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown theme %q (one of %s)", val, strings.Join(theme.Names(), ", "))
		}
		cfg.Appearance.Theme = val
	}
	return nil
}

func (a App) updateSettingsKeys(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		edit, cmd := a.settingsStartEdit()
		return edit, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) settingsStartEdit() (App, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldValidity, settingsFieldRecent:
		ti.Placeholder = "positive number"
		ti.CharLimit = 4
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
	}
	ti.SetValue(settingsValue(a.cfg, a.settings.cursor))
	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsSave() {
	cfg := a.cfg
	if err := applySetting(&cfg, a.settings.cursor, a.settings.input.Value()); err != nil {
		a.settings.saveErr = err
		return
	}
	if err := config.Save(cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.cfg = cfg
	a.settings.saveErr = nil
	theme.SetActive(cfg.Appearance.Theme)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	labels := [settingsFieldCount]string{
		"Company Name", "Tagline", "CNPJ", "Phone", "E-mail",
		"Validity (days)", "Payment Terms", "Recent Count", "Theme",
	}

	var formBody strings.Builder
	for i, label := range labels {
		value := settingsValue(a.cfg, i)
		if value == "" {
			value = "(not set)"
		}

		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			lbl := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", label+":"))
			val := selectedStyle.Render(value)
			formBody.WriteString(marker)
			formBody.WriteString(lbl)
			formBody.WriteString(val)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(lbl) + lipgloss.Width(val)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", label+":")))
			formBody.WriteString(valueStyle.Render(value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	// Quote defaults apply to budgets created after the next start.
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Database:        ") + valueStyle.Render(a.desk.Store().Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("Records loaded:  ") + valueStyle.Render(fmt.Sprintf("%s clients, %s equipment, %s budgets",
		cli.FormatNumber(int64(len(a.snap.Clients))),
		cli.FormatNumber(int64(len(a.snap.Equipment))),
		cli.FormatNumber(int64(len(a.snap.Budgets))))) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%dms", a.loadTime.Milliseconds())))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
