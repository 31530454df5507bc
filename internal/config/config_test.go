package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Quotes.ValidityDays != 15 || cfg.Quotes.PaymentTerms != "A vista" {
		t.Fatalf("quotes = %+v, want 15 days / A vista", cfg.Quotes)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Company.Name = "Refrigeração Silva"
	cfg.Quotes.ValidityDays = 30
	cfg.General.DataDir = "/srv/mpro"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoadNormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[company]\nname = \"\"\n\n[quotes]\nvalidity_days = -3\npayment_terms = \"30 dias\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Quotes.ValidityDays != 15 {
		t.Fatalf("ValidityDays = %d, want 15", cfg.Quotes.ValidityDays)
	}
	if cfg.Quotes.PaymentTerms != "30 dias" {
		t.Fatalf("PaymentTerms = %q, want %q", cfg.Quotes.PaymentTerms, "30 dias")
	}
	if cfg.Company.Name != DefaultConfig().Company.Name {
		t.Fatalf("Company.Name = %q, want default", cfg.Company.Name)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quotes\nvalidity_days = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom accepted malformed TOML")
	}
}

func TestDataDirPrecedence(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("MPRO_DATA_DIR", "")
	t.Setenv("XDG_DATA_HOME", "/xdg")
	if got := DataDir(cfg); got != filepath.Join("/xdg", "mpro") {
		t.Fatalf("DataDir default = %q", got)
	}

	cfg.General.DataDir = "/from/config"
	if got := DataDir(cfg); got != "/from/config" {
		t.Fatalf("DataDir config = %q", got)
	}

	t.Setenv("MPRO_DATA_DIR", "/from/env")
	if got := DataDir(cfg); got != "/from/env" {
		t.Fatalf("DataDir env = %q", got)
	}
}
