package battle

import (
	"math"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/robot"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

// MaxSkippedTurns is how many turns in a row a robot may miss before it
// is removed from the round.
const MaxSkippedTurns = 30

// peer is the engine's view of one robot during a round: its body, the
// commands it last committed and what is waiting to be delivered to it.
type peer struct {
	index     int
	name      string
	team      string
	teammates []string

	gate      *gate
	exited    chan struct{}
	connected bool

	x, y             float64
	heading          float64
	gunHeading       float64
	radarHeading     float64
	lastRadarHeading float64
	velocity         float64
	energy           float64
	gunHeat          float64
	overDriving      bool

	// cmds holds the committed commands; the engine counts the remaining
	// amounts down as the robot moves.
	cmds robot.Commands

	alive     bool
	disabled  bool
	skipped   int
	committed bool
	// pendingRemoval marks a robot that skipped too many turns.
	pendingRemoval bool
	reported       bool

	pending  []event.Event
	messages []robot.TeamMessage
	updates  []event.BulletStatus

	score        roundScore
	bulletDamage map[int]float64 // damage taken, by attacker index
	ramDamage    map[int]float64
}

func newPeer(index int, c Contestant, teammates []string) *peer {
	return &peer{
		index:        index,
		name:         c.Name,
		team:         c.Team,
		teammates:    teammates,
		gate:         newGate(),
		exited:       make(chan struct{}),
		connected:    true,
		energy:       rules.StartingEnergy,
		gunHeat:      rules.InitialGunHeat,
		cmds:         *robot.NewCommands(),
		alive:        true,
		bulletDamage: make(map[int]float64),
		ramDamage:    make(map[int]float64),
	}
}

func (p *peer) sameTeam(o *peer) bool {
	return p.team != "" && p.team == o.team
}

func (p *peer) status(turn int64, others, round, numRounds int) event.RobotStatus {
	return event.RobotStatus{
		Energy:             p.energy,
		X:                  p.x,
		Y:                  p.y,
		Heading:            p.heading,
		GunHeading:         p.gunHeading,
		RadarHeading:       p.radarHeading,
		Velocity:           p.velocity,
		BodyTurnRemaining:  p.cmds.BodyTurn,
		RadarTurnRemaining: p.cmds.RadarTurn,
		GunTurnRemaining:   p.cmds.GunTurn,
		DistanceRemaining:  p.cmds.Distance,
		GunHeat:            p.gunHeat,
		Others:             others,
		RoundNum:           round,
		NumRounds:          numRounds,
		Time:               turn,
	}
}

// accept takes a robot's commit for this turn.
func (p *peer) accept(c *robot.Commands) {
	p.committed = true
	p.skipped = 0
	if !p.alive {
		return
	}
	prev := p.cmds
	p.cmds = *c
	p.sanitize(prev)
	if p.disabled {
		p.cmds.Distance = 0
		p.cmds.BodyTurn = 0
		p.cmds.Fire = nil
	}
}

// sanitize keeps values the physics cannot use out of the committed
// commands. NaN amounts become 0, NaN limits keep the previous commit's and
// a NaN bullet is not fired.
func (p *peer) sanitize(prev robot.Commands) {
	c := &p.cmds
	for _, v := range []*float64{&c.Distance, &c.BodyTurn, &c.GunTurn, &c.RadarTurn} {
		if math.IsNaN(*v) {
			*v = 0
		}
	}
	if math.IsNaN(c.MaxVelocity) {
		c.MaxVelocity = prev.MaxVelocity
	}
	c.MaxVelocity = math.Min(rules.MaxVelocity, math.Abs(c.MaxVelocity))
	if math.IsNaN(c.MaxTurnRate) {
		c.MaxTurnRate = prev.MaxTurnRate
	}
	c.MaxTurnRate = math.Min(rules.MaxTurnRate, math.Abs(c.MaxTurnRate))
	if c.Fire != nil && math.IsNaN(c.Fire.Power) {
		c.Fire = nil
	}
}

// queue adds an event for the robot's next delivered turn. A robot out of
// play only receives critical events.
func (p *peer) queue(e event.Event) {
	if !p.connected {
		return
	}
	if !p.alive && !e.Kind().IsCritical() {
		return
	}
	p.pending = append(p.pending, e)
}

// drain hands over everything pending and resets the turn state.
func (p *peer) drain() ([]event.Event, []event.BulletStatus, []robot.TeamMessage) {
	events, updates, messages := p.pending, p.updates, p.messages
	p.pending, p.updates, p.messages = nil, nil, nil
	p.committed = false
	return events, updates, messages
}

// damage removes energy and reports whether the robot has none left.
func (p *peer) damage(amount float64) bool {
	p.energy -= amount
	if p.energy <= 0 {
		p.energy = 0
		return true
	}
	return false
}
