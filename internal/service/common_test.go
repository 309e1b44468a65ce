package service_test

import (
	"testing"
	"time"

	"github.com/rithankoushik/fitz-cli/internal/service"
)

func TestParseDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC)

	cases := map[string]string{
		"":           "2026-03-02",
		"today":      "2026-03-02",
		"Yesterday":  "2026-03-01",
		"2026-02-28": "2026-02-28",
		"2026-03-02": "2026-03-02",
	}
	for in, want := range cases {
		got, err := service.ParseDate(in, now)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}

	if _, err := service.ParseDate("2026-03-03", now); err == nil {
		t.Fatalf("expected future date to be rejected")
	}
	if _, err := service.ParseDate("March 1", now); err == nil {
		t.Fatalf("expected malformed date to be rejected")
	}
}

func TestShiftDate(t *testing.T) {
	t.Parallel()
	got, err := service.ShiftDate("2026-03-01", -1)
	if err != nil {
		t.Fatalf("shift date: %v", err)
	}
	if got != "2026-02-28" {
		t.Fatalf("expected 2026-02-28, got %s", got)
	}
}
