package cmd

import (
	"errors"
	"testing"

	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/model"
)

func TestParseServiceSpec(t *testing.T) {
	got, err := parseServiceArg("Revisão geral, completa; preventiva; 100,50; 2")
	if err != nil {
		t.Fatalf("parseServiceArg: %v", err)
	}
	want := model.ServiceItem{Description: "Revisão geral, completa", Type: model.ServicePreventive, Price: 100.5, EstimatedHours: 2}
	if got != want {
		t.Fatalf("parseServiceArg = %+v, want %+v", got, want)
	}

	for _, bad := range []string{"só descrição", "x;urgente;10", "x;corretiva;dez", "a;b;c;d;e"} {
		if _, err := parseServiceArg(bad); err == nil {
			t.Errorf("parseServiceArg(%q) accepted", bad)
		}
	}
}

func TestParseMaterialSpec(t *testing.T) {
	got, err := parseMaterialArg("Filtro de ar;2;R$ 25;FA-1")
	if err != nil {
		t.Fatalf("parseMaterialArg: %v", err)
	}
	want := model.MaterialItem{Description: "Filtro de ar", Quantity: 2, UnitPrice: 25, PartCode: "FA-1"}
	if got != want {
		t.Fatalf("parseMaterialArg = %+v, want %+v", got, want)
	}

	if _, err := parseMaterialArg("Filtro;dois;25"); err == nil {
		t.Fatal("non-numeric quantity accepted")
	}
}

func TestParseAmount(t *testing.T) {
	tests := map[string]float64{
		"":             0,
		"10":           10,
		"10.5":         10.5,
		"10,5":         10.5,
		"R$ 1234.56":   1234.56,
		"-20":          -20,
		"1.234":        1234,
		"1.234,50":     1234.5,
		"R$ 1.234.567": 1234567,
		"-1.234,5":     -1234.5,
		"0.125":        0.125,
	}
	for in, want := range tests {
		got, err := parseAmount(in)
		if err != nil {
			t.Fatalf("parseAmount(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseAmount(%q) = %v, want %v", in, got, want)
		}
	}

	for _, bad := range []string{"NaN", "Inf", "-inf", "dez", "12.34,56", "1,2,3"} {
		if _, err := parseAmount(bad); err == nil {
			t.Errorf("parseAmount(%q) accepted", bad)
		}
	}
}

func TestMatchID(t *testing.T) {
	clients := []model.Client{
		{ID: "a1b2c3d4-0000", Name: "Acme"},
		{ID: "a1b2ffff-0000", Name: "Beta"},
		{ID: "9f00", Name: "Gama"},
	}

	c, err := matchID(clients, "client", "9f00")
	if err != nil || c.Name != "Gama" {
		t.Fatalf("exact match = %+v, %v", c, err)
	}
	c, err = matchID(clients, "client", "a1b2c")
	if err != nil || c.Name != "Acme" {
		t.Fatalf("prefix match = %+v, %v", c, err)
	}
	if _, err := matchID(clients, "client", "a1b2"); err == nil || errors.Is(err, desk.ErrNotFound) {
		t.Fatalf("ambiguous prefix err = %v", err)
	}
	if _, err := matchID(clients, "client", "zz"); !errors.Is(err, desk.ErrNotFound) {
		t.Fatalf("missing err = %v, want ErrNotFound", err)
	}
}

func TestResolveBudget(t *testing.T) {
	budgets := []model.Budget{
		{ID: "123abc", Number: 1},
		{ID: "f00d", Number: 2},
	}

	for ref, wantID := range map[string]string{"2": "f00d", "#000001": "123abc", "123a": "123abc", "f00d": "f00d"} {
		b, err := resolveBudget(budgets, ref)
		if err != nil {
			t.Fatalf("resolveBudget(%q): %v", ref, err)
		}
		if b.ID != wantID {
			t.Fatalf("resolveBudget(%q) = %s, want %s", ref, b.ID, wantID)
		}
	}
	if _, err := resolveBudget(budgets, "7"); !errors.Is(err, desk.ErrNotFound) {
		t.Fatalf("unknown number err = %v, want ErrNotFound", err)
	}
}

func TestKeepLines(t *testing.T) {
	lines := []model.ServiceItem{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	got := keepLines(lines, []int{2, 0, 2, 7})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("keepLines = %+v, want [a c]", got)
	}
	if got := keepLines(lines, nil); len(got) != 0 {
		t.Fatalf("keepLines(nil) = %+v, want empty", got)
	}

	got[0].ID = "changed"
	if lines[0].ID != "a" {
		t.Fatal("keepLines aliased the input")
	}
}

func TestFormatEditAmountReadsBack(t *testing.T) {
	for _, v := range []float64{0, 100, 1.125, 1234.5, 0.1, -20} {
		got, err := parseAmount(formatEditAmount(v))
		if err != nil {
			t.Fatalf("parseAmount(formatEditAmount(%v)): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip of %v = %v", v, got)
		}
	}
}
