package battle

import (
	"time"

	"github.com/robo-code/robocode-sub000/internal/rules"
)

// RobotSnapshot is an immutable copy of a robot's state. Angles are in
// degrees for display.
type RobotSnapshot struct {
	Name         string  `json:"name"`
	Team         string  `json:"team,omitempty"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Heading      float64 `json:"heading"`
	GunHeading   float64 `json:"gunHeading"`
	RadarHeading float64 `json:"radarHeading"`
	Velocity     float64 `json:"velocity"`
	Energy       float64 `json:"energy"`
	GunHeat      float64 `json:"gunHeat"`
	Alive        bool    `json:"alive"`
	Disabled     bool    `json:"disabled,omitempty"`
	Skipped      int     `json:"skipped,omitempty"`
}

// BulletSnapshot is an immutable copy of a bullet in flight.
type BulletSnapshot struct {
	Owner   string  `json:"owner"`
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Power   float64 `json:"power"`
	Heading float64 `json:"heading"`
}

// Snapshot is the battle state at the end of a turn. Values are copies,
// so readers never race with the engine.
type Snapshot struct {
	Sequence   uint64    `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	Round      int       `json:"round"`
	NumRounds  int       `json:"numRounds"`
	Turn       int64     `json:"turn"`
	TotalTurns int64     `json:"totalTurns"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Robots  []RobotSnapshot  `json:"robots"`
	Bullets []BulletSnapshot `json:"bullets"`

	AliveCount int  `json:"aliveCount"`
	RoundOver  bool `json:"roundOver"`
	Finished   bool `json:"finished"`
}

// produceSnapshot publishes the current state. Caller holds e.mu.
func (e *Engine) produceSnapshot() *Snapshot {
	e.sequence++
	snap := &Snapshot{
		Sequence:   e.sequence,
		Timestamp:  time.Now(),
		Round:      e.round,
		NumRounds:  e.cfg.NumRounds,
		Turn:       e.turn,
		TotalTurns: e.totalTurns,
		Width:      e.cfg.FieldWidth,
		Height:     e.cfg.FieldHeight,
		Robots:     make([]RobotSnapshot, 0, len(e.peers)),
		Bullets:    make([]BulletSnapshot, 0, len(e.bullets)),
		RoundOver:  e.roundOver,
		Finished:   e.finished,
	}

	for _, p := range e.peers {
		if p.alive {
			snap.AliveCount++
		}
		snap.Robots = append(snap.Robots, RobotSnapshot{
			Name:         p.name,
			Team:         p.team,
			X:            p.x,
			Y:            p.y,
			Heading:      rules.ToDegrees(p.heading),
			GunHeading:   rules.ToDegrees(p.gunHeading),
			RadarHeading: rules.ToDegrees(p.radarHeading),
			Velocity:     p.velocity,
			Energy:       p.energy,
			GunHeat:      p.gunHeat,
			Alive:        p.alive,
			Disabled:     p.disabled,
			Skipped:      p.skipped,
		})
	}
	for _, b := range e.bullets {
		snap.Bullets = append(snap.Bullets, BulletSnapshot{
			Owner:   b.owner.name,
			ID:      b.id,
			X:       b.x,
			Y:       b.y,
			Power:   b.power,
			Heading: rules.ToDegrees(b.heading),
		})
	}

	e.snapshot.Store(snap)
	return snap
}
