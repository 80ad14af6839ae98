package robot

import (
	"log"

	"github.com/robo-code/robocode-sub000/internal/event"
)

// Basic is the blocking robot API: each call returns once its action has
// completed.
type Basic interface {
	Ahead(distance float64)
	Back(distance float64)
	TurnLeft(degrees float64)
	TurnRight(degrees float64)
	TurnGunLeft(degrees float64)
	TurnGunRight(degrees float64)
	TurnRadarLeft(degrees float64)
	TurnRadarRight(degrees float64)
	Fire(power float64)
	FireBullet(power float64) *event.Bullet
	Scan()
	Stop()
	Resume()
	DoNothing()

	SetAdjustGunForRobotTurn(independent bool)
	SetAdjustRadarForRobotTurn(independent bool)
	SetAdjustRadarForGunTurn(independent bool)

	Name() string
	X() float64
	Y() float64
	Heading() float64
	GunHeading() float64
	RadarHeading() float64
	Velocity() float64
	Energy() float64
	GunHeat() float64
	GunCoolingRate() float64
	Time() int64
	Others() int
	RoundNum() int
	NumRounds() int
	BattleFieldWidth() float64
	BattleFieldHeight() float64
	Out() *log.Logger
}

// Advanced adds non-blocking actions committed by Execute, custom events
// and control over event priorities.
type Advanced interface {
	Basic

	SetAhead(distance float64)
	SetBack(distance float64)
	SetTurnLeft(degrees float64)
	SetTurnRight(degrees float64)
	SetTurnGunLeft(degrees float64)
	SetTurnGunRight(degrees float64)
	SetTurnRadarLeft(degrees float64)
	SetTurnRadarRight(degrees float64)
	SetFire(power float64) *event.Bullet
	SetStop(overwrite bool)
	SetResume()
	SetMaxVelocity(v float64)
	SetMaxTurnRate(degrees float64)
	Execute()
	WaitFor(c *event.Condition)

	AddCustomEvent(c *event.Condition)
	RemoveCustomEvent(c *event.Condition)
	ClearAllEvents()
	AllEvents() []event.Event
	EventPriority(name string) int
	SetEventPriority(name string, priority int)
	SetInterruptible(interruptible bool)

	DistanceRemaining() float64
	TurnRemaining() float64
	GunTurnRemaining() float64
	RadarTurnRemaining() float64
}

// Team adds messaging between teammates.
type Team interface {
	Advanced

	Teammates() []string
	IsTeammate(name string) bool
	SendMessage(name string, message any) error
	BroadcastMessage(message any) error
}

// RateControl drives the robot by per-turn rates instead of distances.
type RateControl interface {
	Advanced

	SetVelocityRate(rate float64)
	SetTurnRate(degrees float64)
	SetGunRotationRate(degrees float64)
	SetRadarRotationRate(degrees float64)
}

var (
	_ Advanced    = (*Robot)(nil)
	_ Team        = (*TeamRobot)(nil)
	_ RateControl = (*RateControlRobot)(nil)
)
