package service

import (
	"math"
	"strings"
	"time"

	"github.com/rithankoushik/fitz-cli/internal/errs"
)

const dateLayout = "2006-01-02"

func validateNonNegativeFloat(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errs.Invalid(name, "must be a finite number")
	}
	if value < 0 {
		return errs.Invalid(name, "must be >= 0")
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// FormatDate renders t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate accepts YYYY-MM-DD, "today" and "yesterday". Dates after today are rejected.
func ParseDate(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "", "today":
		return FormatDate(now), nil
	case "yesterday":
		return FormatDate(now.AddDate(0, 0, -1)), nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, now.Location())
	if err != nil {
		return "", errs.Invalid("date", "invalid date %q (expected YYYY-MM-DD)", raw)
	}
	if FormatDate(d) > FormatDate(now) {
		return "", errs.Invalid("date", "%s is in the future", raw)
	}
	return FormatDate(d), nil
}

// ShiftDate moves an ISO date by days; the result is not clamped.
func ShiftDate(date string, days int) (string, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", errs.Invalid("date", "invalid date %q (expected YYYY-MM-DD)", date)
	}
	return FormatDate(d.AddDate(0, 0, days)), nil
}
