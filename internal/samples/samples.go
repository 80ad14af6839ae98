// Package samples holds ready-made robots for demos and tests.
package samples

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/config"
	"github.com/robo-code/robocode-sub000/internal/robot"
)

// Sample describes a robot that can be entered by id.
type Sample struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Team        bool   `json:"team"` // Needs teammates to be useful

	New func() robot.Bot `json:"-"`
}

// Samples is the map of all registered robots.
var Samples = map[string]Sample{
	"duck": {
		ID:          "duck",
		Name:        "SittingDuck",
		Description: "Sits still and waits",
		New:         func() robot.Bot { return new(SittingDuck) },
	},
	"crawler": {
		ID:          "crawler",
		Name:        "Crawler",
		Description: "Drives along the walls with its gun facing the field",
		New:         func() robot.Bot { return new(Crawler) },
	},
	"tracker": {
		ID:          "tracker",
		Name:        "Tracker",
		Description: "Locks its radar on one target, closes in and waits for a clean shot",
		New:         func() robot.Bot { return new(Tracker) },
	},
	"spinner": {
		ID:          "spinner",
		Name:        "Spinner",
		Description: "Circles at constant rates and fires at anything it sees",
		New:         func() robot.Bot { return new(Spinner) },
	},
	"leader": {
		ID:          "leader",
		Name:        "Leader",
		Description: "Scans for enemies and tells its team where they are",
		Team:        true,
		New:         func() robot.Bot { return new(Leader) },
	},
	"droid": {
		ID:          "droid",
		Name:        "Droid",
		Description: "Has no use for its radar and fires where its leader says",
		Team:        true,
		New:         func() robot.Bot { return new(Droid) },
	},
}

var ErrUnknownSample = errors.New("unknown sample robot")

// Get returns a sample by id.
func Get(id string) (Sample, bool) {
	s, ok := Samples[strings.ToLower(id)]
	return s, ok
}

// All returns every sample, sorted by id.
func All() []Sample {
	out := make([]Sample, 0, len(Samples))
	for _, s := range Samples {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Sample) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Contestants turns a roster into battle entries.
func Contestants(roster []config.RosterEntry) ([]battle.Contestant, error) {
	out := make([]battle.Contestant, 0, len(roster))
	for _, e := range roster {
		s, ok := Get(e.Robot)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSample, e.Robot)
		}
		name := e.Name
		if name == "" {
			name = s.Name
		}
		out = append(out, battle.Contestant{Name: name, Team: e.Team, New: s.New})
	}
	return out, nil
}
