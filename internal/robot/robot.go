// Package robot is the robot side of a battle: the embeddable robot types
// authors build on, the proxy that buffers their actions and the event
// manager that dispatches events to their handlers.
//
// A robot is a struct embedding Robot (or TeamRobot, RateControlRobot)
// with a Run method and any handler methods it needs:
//
//	type Spinner struct{ robot.Robot }
//
//	func (s *Spinner) Run() {
//		for {
//			s.TurnRight(360)
//		}
//	}
//
//	func (s *Spinner) OnScannedRobot(e *event.ScannedRobotEvent) { s.Fire(1) }
//
// Robot methods may only be called from Run and handlers, after the engine
// attached the robot. Calling them earlier panics with ErrUninitialized.
package robot

import (
	"errors"
	"log"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

// Bot is a robot program.
type Bot interface {
	Run()
}

// embedsRobot is satisfied by any type embedding Robot.
type embedsRobot interface {
	robotState() *Robot
}

// Robot is the state every robot type embeds. Its methods cover the basic
// blocking API and the non-blocking set/execute API.
type Robot struct {
	peer *Proxy
}

func (r *Robot) robotState() *Robot { return r }

// Attach connects bot to its proxy and resolves its event handlers.
func Attach(bot Bot, p *Proxy) error {
	b, ok := bot.(embedsRobot)
	if !ok {
		return errors.New("robot type must embed robot.Robot")
	}
	b.robotState().peer = p
	p.events.handlers = newHandlerTable(bot)
	return nil
}

func (r *Robot) proxy(op string) *Proxy {
	if r.peer == nil {
		panic(uninitialized(op))
	}
	return r.peer
}

// ═══════════════════════════════════════════════════════════════════════════
// BLOCKING MOVEMENT (degrees)
// ═══════════════════════════════════════════════════════════════════════════

// Ahead moves forward by distance, returning when the move is complete.
func (r *Robot) Ahead(distance float64) { r.proxy("Ahead").move(distance) }

// Back moves backward by distance, returning when the move is complete.
func (r *Robot) Back(distance float64) { r.proxy("Back").move(-distance) }

func (r *Robot) TurnLeft(degrees float64) {
	r.proxy("TurnLeft").turnBody(-rules.ToRadians(degrees))
}

func (r *Robot) TurnRight(degrees float64) {
	r.proxy("TurnRight").turnBody(rules.ToRadians(degrees))
}

func (r *Robot) TurnGunLeft(degrees float64) {
	r.proxy("TurnGunLeft").turnGun(-rules.ToRadians(degrees))
}

func (r *Robot) TurnGunRight(degrees float64) {
	r.proxy("TurnGunRight").turnGun(rules.ToRadians(degrees))
}

func (r *Robot) TurnRadarLeft(degrees float64) {
	r.proxy("TurnRadarLeft").turnRadar(-rules.ToRadians(degrees))
}

func (r *Robot) TurnRadarRight(degrees float64) {
	r.proxy("TurnRadarRight").turnRadar(rules.ToRadians(degrees))
}

// Fire fires a bullet and waits one turn.
func (r *Robot) Fire(power float64) { r.proxy("Fire").fire(power) }

// FireBullet is Fire returning the bullet, or nil if the gun could not fire.
func (r *Robot) FireBullet(power float64) *event.Bullet {
	return r.proxy("FireBullet").fire(power)
}

// Scan rescans with the radar this turn.
func (r *Robot) Scan() { r.proxy("Scan").rescan() }

// DoNothing waits one turn.
func (r *Robot) DoNothing() { r.proxy("DoNothing").execute() }

// Stop halts all movement, saving what remains for Resume.
func (r *Robot) Stop() {
	p := r.proxy("Stop")
	p.setStop(false)
	p.execute()
}

// Resume restores the movement saved by Stop.
func (r *Robot) Resume() {
	p := r.proxy("Resume")
	p.setResume()
	p.execute()
}

func (r *Robot) SetAdjustGunForRobotTurn(independent bool) {
	p := r.proxy("SetAdjustGunForRobotTurn")
	p.setCall()
	p.cmds.AdjustGunForBody = independent
}

func (r *Robot) SetAdjustRadarForRobotTurn(independent bool) {
	p := r.proxy("SetAdjustRadarForRobotTurn")
	p.setCall()
	p.cmds.AdjustRadarForBody = independent
}

func (r *Robot) SetAdjustRadarForGunTurn(independent bool) {
	p := r.proxy("SetAdjustRadarForGunTurn")
	p.setCall()
	p.cmds.AdjustRadarForGun = independent
}

// ═══════════════════════════════════════════════════════════════════════════
// NON-BLOCKING ACTIONS
// ═══════════════════════════════════════════════════════════════════════════

func (r *Robot) SetAhead(distance float64) { r.proxy("SetAhead").setMove(distance) }
func (r *Robot) SetBack(distance float64)  { r.proxy("SetBack").setMove(-distance) }

func (r *Robot) SetTurnLeft(degrees float64) {
	r.proxy("SetTurnLeft").setTurnBody(-rules.ToRadians(degrees))
}

func (r *Robot) SetTurnRight(degrees float64) {
	r.proxy("SetTurnRight").setTurnBody(rules.ToRadians(degrees))
}

func (r *Robot) SetTurnGunLeft(degrees float64) {
	r.proxy("SetTurnGunLeft").setTurnGun(-rules.ToRadians(degrees))
}

func (r *Robot) SetTurnGunRight(degrees float64) {
	r.proxy("SetTurnGunRight").setTurnGun(rules.ToRadians(degrees))
}

func (r *Robot) SetTurnRadarLeft(degrees float64) {
	r.proxy("SetTurnRadarLeft").setTurnRadar(-rules.ToRadians(degrees))
}

func (r *Robot) SetTurnRadarRight(degrees float64) {
	r.proxy("SetTurnRadarRight").setTurnRadar(rules.ToRadians(degrees))
}

func (r *Robot) SetTurnRightRadians(radians float64) {
	r.proxy("SetTurnRightRadians").setTurnBody(radians)
}

func (r *Robot) SetTurnGunRightRadians(radians float64) {
	r.proxy("SetTurnGunRightRadians").setTurnGun(radians)
}

func (r *Robot) SetTurnRadarRightRadians(radians float64) {
	r.proxy("SetTurnRadarRightRadians").setTurnRadar(radians)
}

// SetFire queues a bullet for the next execute and returns it, or nil if
// the gun is hot or the robot has no energy.
func (r *Robot) SetFire(power float64) *event.Bullet {
	return r.proxy("SetFire").setFire(power)
}

// SetStop stops movement on the next execute. With overwrite it replaces
// amounts saved by an earlier stop.
func (r *Robot) SetStop(overwrite bool) { r.proxy("SetStop").setStop(overwrite) }

func (r *Robot) SetResume() { r.proxy("SetResume").setResume() }

// SetMaxVelocity caps the velocity, at most 8.
func (r *Robot) SetMaxVelocity(v float64) { r.proxy("SetMaxVelocity").setMaxVelocity(v) }

// SetMaxTurnRate caps the body turn rate in degrees, at most 10.
func (r *Robot) SetMaxTurnRate(degrees float64) {
	r.proxy("SetMaxTurnRate").setMaxTurnRate(rules.ToRadians(degrees))
}

// Execute commits all pending actions and blocks until the next turn.
func (r *Robot) Execute() { r.proxy("Execute").execute() }

// WaitFor commits turns until c.Test returns true.
func (r *Robot) WaitFor(c *event.Condition) { r.proxy("WaitFor").waitFor(c) }

// ═══════════════════════════════════════════════════════════════════════════
// EVENTS
// ═══════════════════════════════════════════════════════════════════════════

// AddCustomEvent registers c. A CustomEvent is queued every turn c.Test
// returns true, until RemoveCustomEvent.
func (r *Robot) AddCustomEvent(c *event.Condition) {
	r.proxy("AddCustomEvent").events.AddCondition(c)
}

func (r *Robot) RemoveCustomEvent(c *event.Condition) {
	r.proxy("RemoveCustomEvent").events.RemoveCondition(c)
}

// ClearAllEvents drops pending events other than critical ones.
func (r *Robot) ClearAllEvents() { r.proxy("ClearAllEvents").events.ClearAll(false) }

// AllEvents returns the pending events.
func (r *Robot) AllEvents() []event.Event {
	return r.proxy("AllEvents").events.Queue().Events()
}

// Events returns the pending events of kind k.
func (r *Robot) Events(k event.Kind) []event.Event {
	return r.proxy("Events").events.Queue().OfKind(k)
}

// ScannedRobotEvents returns the pending scans.
func (r *Robot) ScannedRobotEvents() []*event.ScannedRobotEvent {
	return eventsOf[*event.ScannedRobotEvent](r.proxy("ScannedRobotEvents"), event.KindScannedRobot)
}

// HitByBulletEvents returns the pending bullet hits on this robot.
func (r *Robot) HitByBulletEvents() []*event.HitByBulletEvent {
	return eventsOf[*event.HitByBulletEvent](r.proxy("HitByBulletEvents"), event.KindHitByBullet)
}

// StatusEvents returns the pending status events.
func (r *Robot) StatusEvents() []*event.StatusEvent {
	return eventsOf[*event.StatusEvent](r.proxy("StatusEvents"), event.KindStatus)
}

func eventsOf[E event.Event](p *Proxy, k event.Kind) []E {
	var out []E
	for _, e := range p.events.Queue().OfKind(k) {
		out = append(out, e.(E))
	}
	return out
}

// EventPriority returns the priority for an event class name such as
// "ScannedRobotEvent".
func (r *Robot) EventPriority(name string) int {
	return r.proxy("EventPriority").events.Priorities().GetByName(name)
}

// SetEventPriority changes the default priority of an event class.
// System events and CustomEvent cannot be changed.
func (r *Robot) SetEventPriority(name string, priority int) {
	r.proxy("SetEventPriority").events.Priorities().SetByName(name, priority)
}

// SetInterruptible lets a new event of the current handler's priority
// restart that handler.
func (r *Robot) SetInterruptible(interruptible bool) {
	m := r.proxy("SetInterruptible").events
	m.SetInterruptible(m.TopPriority(), interruptible)
}

// ═══════════════════════════════════════════════════════════════════════════
// STATE
// ═══════════════════════════════════════════════════════════════════════════

func (r *Robot) Name() string { return r.proxy("Name").setup.Name }

func (r *Robot) X() float64 { return r.proxy("X").state().X }
func (r *Robot) Y() float64 { return r.proxy("Y").state().Y }

func (r *Robot) Heading() float64 { return rules.ToDegrees(r.HeadingRadians()) }
func (r *Robot) HeadingRadians() float64 {
	return r.proxy("HeadingRadians").state().Heading
}

func (r *Robot) GunHeading() float64 { return rules.ToDegrees(r.GunHeadingRadians()) }
func (r *Robot) GunHeadingRadians() float64 {
	return r.proxy("GunHeadingRadians").state().GunHeading
}

func (r *Robot) RadarHeading() float64 { return rules.ToDegrees(r.RadarHeadingRadians()) }
func (r *Robot) RadarHeadingRadians() float64 {
	return r.proxy("RadarHeadingRadians").state().RadarHeading
}

func (r *Robot) Velocity() float64 { return r.proxy("Velocity").state().Velocity }
func (r *Robot) Energy() float64   { return r.proxy("Energy").energy() }
func (r *Robot) GunHeat() float64  { return r.proxy("GunHeat").gunHeat() }
func (r *Robot) Time() int64       { return r.proxy("Time").state().Time }
func (r *Robot) Others() int       { return r.proxy("Others").state().Others }
func (r *Robot) RoundNum() int     { return r.proxy("RoundNum").state().RoundNum }
func (r *Robot) NumRounds() int    { return r.proxy("NumRounds").state().NumRounds }

func (r *Robot) GunCoolingRate() float64 {
	return r.proxy("GunCoolingRate").setup.GunCoolingRate
}

func (r *Robot) BattleFieldWidth() float64 {
	return r.proxy("BattleFieldWidth").setup.FieldWidth
}

func (r *Robot) BattleFieldHeight() float64 {
	return r.proxy("BattleFieldHeight").setup.FieldHeight
}

// DistanceRemaining is the distance left to move.
func (r *Robot) DistanceRemaining() float64 {
	p := r.proxy("DistanceRemaining")
	p.getCall()
	return p.cmds.Distance
}

// TurnRemaining is the body turn left, in degrees.
func (r *Robot) TurnRemaining() float64 {
	p := r.proxy("TurnRemaining")
	p.getCall()
	return rules.ToDegrees(p.cmds.BodyTurn)
}

func (r *Robot) GunTurnRemaining() float64 {
	p := r.proxy("GunTurnRemaining")
	p.getCall()
	return rules.ToDegrees(p.cmds.GunTurn)
}

func (r *Robot) RadarTurnRemaining() float64 {
	p := r.proxy("RadarTurnRemaining")
	p.getCall()
	return rules.ToDegrees(p.cmds.RadarTurn)
}

// Out is the robot's console.
func (r *Robot) Out() *log.Logger { return r.proxy("Out").console }
