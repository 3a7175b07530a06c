package cmd

import "testing"

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{75, "1:15"},
		{3600, "1:00:00"},
		{3725.5, "1:02:05"},
	}

	for _, tt := range tests {
		if got := formatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
