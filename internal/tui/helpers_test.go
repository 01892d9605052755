package tui

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5.5, "$5.50"},
		{999.999, "$1,000.00"},
		{1234567.89, "$1,234,567.89"},
		{-2500, "-$2,500.00"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.in); got != tt.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "-"},
		{float64(12), "12"},
		{12.5, "12.50"},
		{true, "yes"},
		{"active", "active"},
		{map[string]any{"a": 1, "b": 2}, "2 entries"},
		{[]any{1}, "1 entries"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	if got := humanize("occupancy_rate"); got != "Occupancy rate" {
		t.Errorf("humanize = %q", got)
	}
	if got := humanize(""); got != "" {
		t.Errorf("humanize(\"\") = %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{72 * time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		if got := formatTime(time.Now().Add(-tt.ago)); got != tt.want {
			t.Errorf("formatTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
	if got := formatTime(time.Time{}); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
}
