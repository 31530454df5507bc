package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup form.
type SetupValues struct {
	CompanyName  string
	Tagline      string
	CNPJ         string
	Phone        string
	Email        string
	ValidityDays string
	PaymentTerms string
	Theme        string
}

// SetupValuesFrom prefills the form from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		CompanyName:  cfg.Company.Name,
		Tagline:      cfg.Company.Tagline,
		CNPJ:         cfg.Company.CNPJ,
		Phone:        cfg.Company.Phone,
		Email:        cfg.Company.Email,
		ValidityDays: strconv.Itoa(cfg.Quotes.ValidityDays),
		PaymentTerms: cfg.Quotes.PaymentTerms,
		Theme:        cfg.Appearance.Theme,
	}
}

// Apply copies the answers onto cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	days, err := parseDays(v.ValidityDays)
	if err != nil {
		return err
	}
	cfg.Company.Name = strings.TrimSpace(v.CompanyName)
	cfg.Company.Tagline = strings.TrimSpace(v.Tagline)
	cfg.Company.CNPJ = strings.TrimSpace(v.CNPJ)
	cfg.Company.Phone = strings.TrimSpace(v.Phone)
	cfg.Company.Email = strings.TrimSpace(v.Email)
	cfg.Quotes.ValidityDays = days
	cfg.Quotes.PaymentTerms = strings.TrimSpace(v.PaymentTerms)
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	return nil
}

func parseDays(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, errors.New("validity must be a positive number of days")
	}
	return n, nil
}

// NewSetupForm builds the first-run form: letterhead, quote defaults, theme.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to mpro").
				Description("The letterhead below is printed on every quote."),
			huh.NewInput().Title("Company name").Value(&v.CompanyName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("company name is required")
					}
					return nil
				}),
			huh.NewInput().Title("Tagline").Value(&v.Tagline),
			huh.NewInput().Title("CNPJ").Value(&v.CNPJ),
			huh.NewInput().Title("Phone").Value(&v.Phone),
			huh.NewInput().Title("E-mail").Value(&v.Email),
		),
		huh.NewGroup(
			huh.NewInput().Title("Quote validity (days)").Value(&v.ValidityDays).
				Validate(func(s string) error {
					_, err := parseDays(s)
					return err
				}),
			huh.NewInput().Title("Default payment terms").Value(&v.PaymentTerms),
			huh.NewSelect[string]().Title("Color theme").Options(themeOpts...).Value(&v.Theme),
		),
	).WithShowHelp(true)
}

// saveSetupConfig applies the completed first-run form and writes the config.
func (a *App) saveSetupConfig() error {
	cfg := a.cfg
	if err := a.setupVals.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}
