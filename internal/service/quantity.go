package service

import (
	"strconv"
	"strings"

	"github.com/rithankoushik/fitz-cli/internal/errs"
)

// grams per unit
var massUnits = map[string]float64{
	"mg":  0.001,
	"g":   1,
	"kg":  1000,
	"oz":  28.349523125,
	"lb":  453.59237,
	"lbs": 453.59237,
}

// ParseQuantity reads "150", "150g", "0.2 kg" or "5oz" and returns grams.
func ParseQuantity(raw string) (float64, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return 0, errs.Invalid("quantity", "is required")
	}
	split := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			split = i
			break
		}
	}
	number := strings.TrimSpace(s[:split])
	unit := strings.TrimSpace(s[split:])
	if unit == "" {
		unit = "g"
	}
	factor, ok := massUnits[unit]
	if !ok {
		return 0, errs.Invalid("quantity", "unsupported unit %q", unit)
	}
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, errs.Invalid("quantity", "invalid amount %q", raw)
	}
	grams := v * factor
	if err := ValidateQuantity(grams); err != nil {
		return 0, err
	}
	return grams, nil
}
