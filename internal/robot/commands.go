package robot

import (
	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

// BulletCommand asks the engine to fire one bullet this turn.
type BulletCommand struct {
	Power float64
	ID    int
}

// TeamMessage is a message between teammates. An empty Recipient means
// every teammate.
type TeamMessage struct {
	Sender    string
	Recipient string
	Payload   []byte
}

// Commands is the action buffer a robot commits on Execute. Every setter
// overwrites its slot; nothing accumulates within a turn.
type Commands struct {
	Distance  float64
	BodyTurn  float64
	GunTurn   float64
	RadarTurn float64

	MaxVelocity float64
	MaxTurnRate float64

	AdjustGunForBody   bool
	AdjustRadarForBody bool
	AdjustRadarForGun  bool

	Scan     bool
	Fire     *BulletCommand
	Messages []TeamMessage
}

func NewCommands() *Commands {
	return &Commands{
		MaxVelocity: rules.MaxVelocity,
		MaxTurnRate: rules.MaxTurnRate,
	}
}

// next prepares the buffer for the following turn: remaining amounts come
// from the engine, one-shot slots are cleared and settings persist.
func (c *Commands) next(s event.RobotStatus) {
	c.Distance = s.DistanceRemaining
	c.BodyTurn = s.BodyTurnRemaining
	c.GunTurn = s.GunTurnRemaining
	c.RadarTurn = s.RadarTurnRemaining
	c.Scan = false
	c.Fire = nil
	c.Messages = nil
}

// Clone returns a copy the engine may keep after the robot moves on.
func (c *Commands) Clone() *Commands {
	cp := *c
	if c.Fire != nil {
		f := *c.Fire
		cp.Fire = &f
	}
	cp.Messages = append([]TeamMessage(nil), c.Messages...)
	return &cp
}

// TurnResult is what the engine hands back when a robot's turn resumes.
type TurnResult struct {
	Status   event.RobotStatus
	Events   []event.Event
	Bullets  []event.BulletStatus
	Messages []TeamMessage

	// Halt means the robot is out of play for the rest of the round.
	Halt bool
	// Final means the round is over and the robot's goroutine must end.
	Final bool
}

// Host is the engine side of a robot's isolation boundary.
type Host interface {
	// Exchange commits the robot's commands and blocks until its next
	// turn. It returns false once the engine has disconnected the robot.
	Exchange(c *Commands) (*TurnResult, bool)

	// Disable drains the robot's energy for the rest of the round.
	Disable(reason string)
}
