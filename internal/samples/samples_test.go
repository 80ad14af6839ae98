package samples

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/config"
	"github.com/robo-code/robocode-sub000/internal/robot"
)

func TestGet(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"duck", "SittingDuck"},
		{"crawler", "Crawler"},
		{"Tracker", "Tracker"},
		{"spinner", "Spinner"},
		{"leader", "Leader"},
		{"droid", "Droid"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, ok := Get(tt.id)
			if !ok {
				t.Fatalf("sample %q not found", tt.id)
			}
			if s.Name != tt.expected {
				t.Errorf("Expected name '%s', got '%s'", tt.expected, s.Name)
			}
		})
	}

	if _, ok := Get("nobody"); ok {
		t.Error("unknown sample should not be found")
	}
}

func TestAllSamplesAttach(t *testing.T) {
	all := All()
	if len(all) != len(Samples) {
		t.Fatalf("All returned %d samples, want %d", len(all), len(Samples))
	}

	for i, s := range all {
		if i > 0 && all[i-1].ID >= s.ID {
			t.Errorf("samples not sorted: %s before %s", all[i-1].ID, s.ID)
		}
		if s.Description == "" {
			t.Errorf("sample %s has no description", s.ID)
		}
		p := robot.NewProxy(robot.Setup{Name: s.Name, Output: io.Discard}, nil)
		if err := robot.Attach(s.New(), p); err != nil {
			t.Errorf("sample %s cannot attach: %v", s.ID, err)
		}
	}
}

func TestContestants(t *testing.T) {
	roster := []config.RosterEntry{
		{Robot: "tracker"},
		{Robot: "leader", Name: "Red Leader", Team: "red"},
		{Robot: "droid", Team: "red"},
	}

	cs, err := Contestants(roster)
	if err != nil {
		t.Fatalf("Contestants: %v", err)
	}
	want := []battle.Contestant{
		{Name: "Tracker"},
		{Name: "Red Leader", Team: "red"},
		{Name: "Droid", Team: "red"},
	}
	for i, c := range cs {
		if c.Name != want[i].Name || c.Team != want[i].Team || c.New == nil {
			t.Errorf("contestant %d = %+v, want %+v", i, c, want[i])
		}
	}

	_, err = Contestants([]config.RosterEntry{{Robot: "walls"}})
	if !errors.Is(err, ErrUnknownSample) {
		t.Errorf("expected ErrUnknownSample, got %v", err)
	}
}

func fight(t *testing.T, roster []config.RosterEntry, maxTurns int) ([]string, []string) {
	t.Helper()

	cs, err := Contestants(roster)
	if err != nil {
		t.Fatalf("Contestants: %v", err)
	}
	cfg := battle.DefaultConfig()
	cfg.NumRounds = 1
	cfg.MaxTurns = maxTurns
	cfg.TurnTimeout = time.Second
	cfg.Seed = 3
	cfg.Output = io.Discard

	e, err := battle.NewEngine(cfg, cs)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	var deaths, placing []string
	e.SetCallbacks(battle.Callbacks{
		OnDeath:      func(name string, round int) { deaths = append(deaths, name) },
		OnRoundEnded: func(round int, p []string) { placing = p },
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := e.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return deaths, placing
}

func TestTrackerBeatsSittingDuck(t *testing.T) {
	deaths, placing := fight(t, []config.RosterEntry{{Robot: "tracker"}, {Robot: "duck"}}, 3000)

	if len(deaths) != 1 || deaths[0] != "SittingDuck" {
		t.Errorf("deaths = %v, want [SittingDuck]", deaths)
	}
	if len(placing) == 0 || placing[0] != "Tracker" {
		t.Errorf("placing = %v, want Tracker first", placing)
	}
}

func TestDroidFiresOnLeaderReports(t *testing.T) {
	deaths, _ := fight(t, []config.RosterEntry{
		{Robot: "leader", Team: "blue"},
		{Robot: "droid", Team: "blue"},
		{Robot: "duck"},
	}, 5000)

	found := false
	for _, d := range deaths {
		if d == "SittingDuck" {
			found = true
		}
	}
	if !found {
		t.Errorf("the duck survived; deaths = %v", deaths)
	}
}

func TestEveryoneCanFight(t *testing.T) {
	roster := []config.RosterEntry{
		{Robot: "crawler"},
		{Robot: "spinner"},
		{Robot: "tracker"},
		{Robot: "duck"},
	}
	_, placing := fight(t, roster, 400)
	if len(placing) != len(roster) {
		t.Errorf("placing = %v, want %d robots", placing, len(roster))
	}
}
