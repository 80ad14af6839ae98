package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BattleFile is a battle described in YAML:
//
//	battle:
//	  width: 1000
//	  height: 1000
//	  rounds: 5
//	  turnTimeout: 30ms
//	robots:
//	  - robot: tracker
//	  - robot: crawler
//	    name: Crawler
//	  - robot: leader
//	    team: red
//	  - robot: droid
//	    team: red
type BattleFile struct {
	Battle BattleRules   `yaml:"battle"`
	Robots []RosterEntry `yaml:"robots"`
}

// BattleRules overrides the defaults. Zero values keep the default.
type BattleRules struct {
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	Rounds         int           `yaml:"rounds"`
	GunCoolingRate float64       `yaml:"gunCoolingRate"`
	MaxTurns       int           `yaml:"maxTurns"`
	TurnTimeout    time.Duration `yaml:"turnTimeout"`
	TPS            *int          `yaml:"tps"`
	Seed           int64         `yaml:"seed"`
}

// RosterEntry enters one robot. Robot names a registered sample; Name
// defaults to it.
type RosterEntry struct {
	Robot string `yaml:"robot" json:"robot"`
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Team  string `yaml:"team,omitempty" json:"team,omitempty"`
}

// DisplayName is the name the robot fights under.
func (e RosterEntry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Robot
}

// LoadBattleFile reads and validates a battle file.
func LoadBattleFile(path string) (*BattleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read battle file")
	}
	f, err := ParseBattleFile(data)
	if err != nil {
		return nil, errors.Wrapf(err, "battle file %s", path)
	}
	return f, nil
}

// ParseBattleFile decodes and validates a battle file.
func ParseBattleFile(data []byte) (*BattleFile, error) {
	var f BattleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *BattleFile) validate() error {
	if len(f.Robots) == 0 {
		return errors.New("no robots entered")
	}
	for i, e := range f.Robots {
		if e.Robot == "" {
			return errors.Errorf("robot %d has no type", i+1)
		}
	}
	b := f.Battle
	if b.Width < 0 || b.Height < 0 || b.Rounds < 0 || b.MaxTurns < 0 || b.TurnTimeout < 0 {
		return errors.New("battle settings must not be negative")
	}
	if b.GunCoolingRate < 0 || b.GunCoolingRate > 0.7 {
		return errors.Errorf("gun cooling rate %v out of range", b.GunCoolingRate)
	}
	if b.TPS != nil && *b.TPS < 0 {
		return errors.New("tps must not be negative")
	}
	return nil
}

// Apply overlays the file's rules on base.
func (f *BattleFile) Apply(base BattleConfig) BattleConfig {
	b := f.Battle
	if b.Width > 0 {
		base.FieldWidth = b.Width
	}
	if b.Height > 0 {
		base.FieldHeight = b.Height
	}
	if b.Rounds > 0 {
		base.NumRounds = b.Rounds
	}
	if b.GunCoolingRate > 0 {
		base.GunCoolingRate = b.GunCoolingRate
	}
	if b.MaxTurns > 0 {
		base.MaxTurns = b.MaxTurns
	}
	if b.TurnTimeout > 0 {
		base.TurnTimeout = b.TurnTimeout
	}
	if b.TPS != nil {
		base.TPS = *b.TPS
	}
	if b.Seed != 0 {
		base.Seed = b.Seed
	}
	return base
}
