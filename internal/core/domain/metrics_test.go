package domain_test

import (
	"testing"

	"github.com/roadbook/roadbook/internal/core/domain"
)

func TestTripMetrics(t *testing.T) {
	cases := []struct {
		name      string
		meters    float64
		seconds   float64
		wantMiles int
		wantTime  string
	}{
		{"thirty miles ninety minutes", 48280, 5400, 30, "1h 30m"},
		{"under an hour", 16093, 1800, 10, "30m"},
		{"zero", 0, 0, 0, "0m"},
		{"exact hour", 0, 3600, 0, "1h 0m"},
		{"rounds up to next mile", 2500, 60, 2, "1m"},
		{"rounds down", 2400, 90, 1, "2m"},
	}

	for _, tc := range cases {
		miles, est := domain.TripMetrics(tc.meters, tc.seconds)
		if miles != tc.wantMiles {
			t.Errorf("%s: miles = %d, want %d", tc.name, miles, tc.wantMiles)
		}
		if est != tc.wantTime {
			t.Errorf("%s: estimatedTime = %q, want %q", tc.name, est, tc.wantTime)
		}
	}
}

// Minute rounding must carry into hours: 1h59m59s is "2h 0m", never "1h 60m".
func TestTripMetrics_MinuteCarry(t *testing.T) {
	_, est := domain.TripMetrics(0, 7199)
	if est == "1h 60m" {
		t.Fatal("minute carry missing: got invalid 1h 60m")
	}
	if est != "2h 0m" {
		t.Errorf("expected 2h 0m, got %q", est)
	}

	// Carry from zero hours: 59m30s rounds to 60m and must become 1h 0m.
	_, est = domain.TripMetrics(0, 3570)
	if est != "1h 0m" {
		t.Errorf("expected 1h 0m, got %q", est)
	}
}

func TestTripMetrics_NegativeInputsClamped(t *testing.T) {
	miles, est := domain.TripMetrics(-100, -60)
	if miles != 0 {
		t.Errorf("expected 0 miles, got %d", miles)
	}
	if est != "0m" {
		t.Errorf("expected 0m, got %q", est)
	}
}
