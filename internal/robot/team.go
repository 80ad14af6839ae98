package robot

import (
	"math"
	"slices"

	"github.com/robo-code/robocode-sub000/internal/rules"
)

// TeamRobot is a Robot that can message its teammates. Messages sent
// during a turn are delivered as MessageEvents on the recipients' next turn.
type TeamRobot struct {
	Robot
}

// Teammates returns the names of the other team members.
func (r *TeamRobot) Teammates() []string {
	return slices.Clone(r.proxy("Teammates").setup.Teammates)
}

func (r *TeamRobot) IsTeammate(name string) bool {
	return r.proxy("IsTeammate").isTeammate(name)
}

// SendMessage sends a gob encodable message to one teammate.
func (r *TeamRobot) SendMessage(name string, message any) error {
	return r.proxy("SendMessage").sendMessage(name, message)
}

// BroadcastMessage sends a gob encodable message to every teammate.
func (r *TeamRobot) BroadcastMessage(message any) error {
	return r.proxy("BroadcastMessage").sendMessage("", message)
}

// RateControlRobot moves by rates: every Execute applies the velocity and
// turn rates for one more turn.
type RateControlRobot struct {
	Robot

	velocityRate float64
	turnRate     float64
	gunRate      float64
	radarRate    float64
}

// SetVelocityRate sets the velocity to keep each turn; negative is backward.
func (r *RateControlRobot) SetVelocityRate(rate float64) { r.velocityRate = rate }
func (r *RateControlRobot) VelocityRate() float64        { return r.velocityRate }

func (r *RateControlRobot) SetTurnRate(degrees float64) { r.turnRate = rules.ToRadians(degrees) }
func (r *RateControlRobot) TurnRate() float64           { return rules.ToDegrees(r.turnRate) }

func (r *RateControlRobot) SetGunRotationRate(degrees float64) {
	r.gunRate = rules.ToRadians(degrees)
}

func (r *RateControlRobot) GunRotationRate() float64 { return rules.ToDegrees(r.gunRate) }

func (r *RateControlRobot) SetRadarRotationRate(degrees float64) {
	r.radarRate = rules.ToRadians(degrees)
}

func (r *RateControlRobot) RadarRotationRate() float64 { return rules.ToDegrees(r.radarRate) }

// Execute applies the rates to the action buffer and commits it.
func (r *RateControlRobot) Execute() {
	p := r.proxy("Execute")
	p.setMaxVelocity(r.velocityRate)
	switch {
	case r.velocityRate > 0:
		p.setMove(math.Inf(1))
	case r.velocityRate < 0:
		p.setMove(math.Inf(-1))
	default:
		p.setMove(0)
	}
	p.setTurnGun(r.gunRate)
	p.setTurnRadar(r.radarRate)
	p.setTurnBody(r.turnRate)
	p.execute()
}
