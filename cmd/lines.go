package cmd

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mproservicos/mpro/internal/model"
)

// Line item flags use ';' between fields so descriptions may contain commas:
//
//	--service "Revisão geral;preventiva;100;2"   description;type;price[;hours]
//	--material "Filtro de ar;2;25;FA-1"          description;qty;unit price[;part code]

func parseServiceArg(arg string) (model.ServiceItem, error) {
	parts := splitArg(arg)
	if len(parts) < 3 || len(parts) > 4 {
		return model.ServiceItem{}, fmt.Errorf("service %q: want description;type;price[;hours]", arg)
	}

	typ, err := model.ParseServiceType(parts[1])
	if err != nil {
		return model.ServiceItem{}, fmt.Errorf("service %q: %w", arg, err)
	}
	price, err := parseAmount(parts[2])
	if err != nil {
		return model.ServiceItem{}, fmt.Errorf("service %q: price: %w", arg, err)
	}

	item := model.ServiceItem{Description: parts[0], Type: typ, Price: price}
	if len(parts) == 4 && parts[3] != "" {
		if item.EstimatedHours, err = parseAmount(parts[3]); err != nil {
			return model.ServiceItem{}, fmt.Errorf("service %q: hours: %w", arg, err)
		}
	}
	return item, nil
}

func parseMaterialArg(arg string) (model.MaterialItem, error) {
	parts := splitArg(arg)
	if len(parts) < 3 || len(parts) > 4 {
		return model.MaterialItem{}, fmt.Errorf("material %q: want description;qty;unit price[;part code]", arg)
	}

	qty, err := parseAmount(parts[1])
	if err != nil {
		return model.MaterialItem{}, fmt.Errorf("material %q: quantity: %w", arg, err)
	}
	unit, err := parseAmount(parts[2])
	if err != nil {
		return model.MaterialItem{}, fmt.Errorf("material %q: unit price: %w", arg, err)
	}

	item := model.MaterialItem{Description: parts[0], Quantity: qty, UnitPrice: unit}
	if len(parts) == 4 {
		item.PartCode = parts[3]
	}
	return item, nil
}

func splitArg(arg string) []string {
	parts := strings.Split(arg, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// thousandsDots matches an integer grouped with dots, as in "1.234.567".
var thousandsDots = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3})+$`)

// parseAmount accepts "100", "100.50" and the Brazilian "100,50" and
// "1.234,50". With a comma present dots group thousands; without one a dot is
// a thousands separator only when every group after it has three digits. An
// empty string is zero.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	raw := s

	switch {
	case strings.Contains(s, ","):
		whole, frac, _ := strings.Cut(s, ",")
		if strings.Contains(whole, ".") {
			if !thousandsDots.MatchString(whole) {
				return 0, fmt.Errorf("invalid amount %q", raw)
			}
			whole = strings.ReplaceAll(whole, ".", "")
		}
		s = whole + "." + frac
	case thousandsDots.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}

func parseServices(args []string) ([]model.ServiceItem, error) {
	out := make([]model.ServiceItem, 0, len(args))
	for _, s := range args {
		item, err := parseServiceArg(s)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func parseMaterials(args []string) ([]model.MaterialItem, error) {
	out := make([]model.MaterialItem, 0, len(args))
	for _, s := range args {
		item, err := parseMaterialArg(s)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// keepLines returns the lines at the given indexes in their original order.
// Unknown and repeated indexes are ignored.
func keepLines[T any](lines []T, keep []int) []T {
	wanted := make(map[int]bool, len(keep))
	for _, i := range keep {
		wanted[i] = true
	}
	out := make([]T, 0, len(keep))
	for i, l := range lines {
		if wanted[i] {
			out = append(out, l)
		}
	}
	return out
}

// formatEditAmount prints v for an edit field using a decimal comma, so the
// value reads back through parseAmount unchanged.
// e.g., 1.125 -> "1,125", 100 -> "100"
func formatEditAmount(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}
