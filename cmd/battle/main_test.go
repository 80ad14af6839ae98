package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/robo-code/robocode-sub000/internal/event"
)

func TestOrdinal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"},
		{11, "11th"}, {12, "12th"}, {13, "13th"},
		{21, "21st"}, {22, "22nd"}, {111, "111th"},
	}
	for _, tt := range tests {
		if got := ordinal(tt.n); got != tt.want {
			t.Errorf("ordinal(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPrintResults(t *testing.T) {
	results := []event.BattleResults{
		{TeamLeaderName: "Tracker", Rank: 1, Score: 300, Survival: 100, Firsts: 2},
		{TeamLeaderName: "SittingDuck", Rank: 2, Score: 100, Seconds: 2},
	}

	var buf bytes.Buffer
	printResults(&buf, results, true)
	out := buf.String()

	for _, want := range []string{"Results (aborted)", "Robot Name", "1st", "Tracker", "300 (75%)", "100 (25%)", "SittingDuck"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Tracker") > strings.Index(out, "SittingDuck") {
		t.Error("results should keep their order")
	}
}
