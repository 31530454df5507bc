// Package config loads and saves the mpro TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all mpro configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Company    CompanyConfig    `toml:"company"`
	Quotes     QuotesConfig     `toml:"quotes"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
}

// CompanyConfig is the letterhead printed on every quote.
type CompanyConfig struct {
	Name    string `toml:"name"`
	Tagline string `toml:"tagline"`
	CNPJ    string `toml:"cnpj,omitempty"`
	Phone   string `toml:"phone,omitempty"`
	Email   string `toml:"email,omitempty"`
}

// QuotesConfig holds defaults applied to new budgets.
type QuotesConfig struct {
	ValidityDays int    `toml:"validity_days"`
	PaymentTerms string `toml:"payment_terms"`
	RecentCount  int    `toml:"recent_count"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Company: CompanyConfig{
			Name:    "MPro SERVIÇOS TÉCNICOS",
			Tagline: "Soluções em Manutenção Preditiva e Corretiva",
		},
		Quotes: QuotesConfig{
			ValidityDays: 15,
			PaymentTerms: "A vista",
			RecentCount:  5,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory. MPRO_CONFIG_DIR wins.
func Dir() string {
	if dir := os.Getenv("MPRO_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mpro")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mpro")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir returns the XDG data directory for the record store.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mpro")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mpro")
}

// DataDir resolves where the record store lives: MPRO_DATA_DIR, then the
// config file, then the XDG default.
func DataDir(cfg Config) string {
	if dir := os.Getenv("MPRO_DATA_DIR"); dir != "" {
		return dir
	}
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	return DefaultDataDir()
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize restores defaults for values a hand-edited file left invalid.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Quotes.ValidityDays <= 0 {
		c.Quotes.ValidityDays = def.Quotes.ValidityDays
	}
	if c.Quotes.RecentCount <= 0 {
		c.Quotes.RecentCount = def.Quotes.RecentCount
	}
	if c.Company.Name == "" {
		c.Company.Name = def.Company.Name
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
