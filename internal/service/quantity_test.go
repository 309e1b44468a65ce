package service_test

import (
	"math"
	"testing"

	"github.com/rithankoushik/fitz-cli/internal/service"
)

func TestParseQuantity(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want float64
	}{
		{"150", 150},
		{"150g", 150},
		{" 0.2 kg ", 200},
		{"5oz", 141.747615625},
		{"1 lb", 453.59237},
		{"500mg", 0.5},
	}
	for _, tc := range cases {
		got, err := service.ParseQuantity(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("parse %q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseQuantityRejectsBadInput(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "0", "-5", "abc", "10 cups", "1.2.3g"} {
		if _, err := service.ParseQuantity(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
