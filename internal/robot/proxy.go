package robot

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"slices"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

const (
	// MaxSetCallCount and MaxGetCallCount bound the calls a robot may make
	// between two executes before it is disabled.
	MaxSetCallCount = 10000
	MaxGetCallCount = 10000
)

// Setup describes a robot for one round.
type Setup struct {
	Name           string
	Teammates      []string
	FieldWidth     float64
	FieldHeight    float64
	GunCoolingRate float64
	Status         event.RobotStatus
	Output         io.Writer
}

// budget counts calls between executes. It belongs to one robot and is
// reset on every turn.
type budget struct {
	setCalls int
	getCalls int
}

// stopState holds the remaining amounts saved by Stop.
type stopState struct {
	distance, body, gun, radar float64
}

// Proxy is the peer a robot's code talks to. It keeps the action buffer,
// the event manager and the robot's view of its bullets, and crosses into
// the engine only through Host.Exchange.
type Proxy struct {
	setup   Setup
	host    Host
	console *log.Logger

	status  event.RobotStatus
	cmds    *Commands
	events  *Manager
	bullets *event.Bullets

	nextBulletID int
	budget       budget
	stopped      *stopState

	waitCondition *event.Condition
	halted        bool
	final         bool
}

func NewProxy(setup Setup, host Host) *Proxy {
	out := setup.Output
	if out == nil {
		out = os.Stdout
	}
	if setup.GunCoolingRate <= 0 {
		setup.GunCoolingRate = 0.1
	}

	p := &Proxy{
		setup:   setup,
		host:    host,
		console: log.New(out, "["+setup.Name+"] ", 0),
		status:  setup.Status,
		cmds:    NewCommands(),
		bullets: event.NewBullets(),
	}
	p.events = NewManager(setup.Name, p.console, func() int64 { return p.status.Time })
	return p
}

// Console is the robot's output, prefixed with its name.
func (p *Proxy) Console() *log.Logger { return p.console }

// Events exposes the robot's event manager.
func (p *Proxy) Events() *Manager { return p.events }

// Bullets exposes the robot's live bullets.
func (p *Proxy) Bullets() *event.Bullets { return p.bullets }

func (p *Proxy) Name() string { return p.setup.Name }

// ═══════════════════════════════════════════════════════════════════════════
// ISOLATION BOUNDARY
// ═══════════════════════════════════════════════════════════════════════════

// Run executes bot until the round ends for it. Panics raised by the robot
// are contained here: control signals end the run normally, anything else
// is reported, disables the robot and is returned.
func (p *Proxy) Run(bot Bot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = p.recoverRun(r)
		}
		p.waitForBattleEnd()
	}()

	bot.Run()
	for {
		p.execute()
	}
}

func (p *Proxy) recoverRun(r any) error {
	switch x := r.(type) {
	case haltSignal, interruptSignal:
		return nil
	case error:
		p.console.Printf("SYSTEM: %v", x)
		if errors.Is(x, ErrDisabled) {
			p.console.Printf("SYSTEM: Robot disabled")
		}
		p.host.Disable(x.Error())
		return x
	default:
		err := fmt.Errorf("robot panicked: %v", r)
		p.console.Printf("SYSTEM: %v", err)
		p.host.Disable(err.Error())
		return err
	}
}

// waitForBattleEnd keeps the robot exchanging empty turns after it left
// play, so it still receives the critical events of the round.
func (p *Proxy) waitForBattleEnd() {
	p.halted = true
	p.events.skipConditions = true
	if p.final {
		// The final turn may have ended inside a handler; deliver what the
		// unwinding left queued.
		p.processSafely()
		return
	}
	p.events.ClearAll(false)

	for {
		cmds := NewCommands()
		res, ok := p.host.Exchange(cmds)
		if !ok {
			p.final = true
			return
		}
		p.status = res.Status
		for _, e := range res.Events {
			if e.Kind().IsCritical() {
				p.bullets.Patch(e)
				p.events.Add(e)
			}
		}
		p.final = res.Final
		p.processSafely()
		if p.final {
			return
		}
	}
}

func (p *Proxy) processSafely() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(haltSignal); !ok {
				p.console.Printf("SYSTEM: %v", r)
			}
		}
	}()
	p.events.Process()
}

// ═══════════════════════════════════════════════════════════════════════════
// TURN COMMIT
// ═══════════════════════════════════════════════════════════════════════════

// execute commits the action buffer and blocks until the robot's next turn,
// then processes that turn's events.
func (p *Proxy) execute() {
	if p.halted || p.final {
		panic(haltSignal{reason: "robot is no longer in play"})
	}
	if p.events.testing {
		panic(ErrActionInCondition)
	}
	p.budget = budget{}

	if p.waitCondition != nil && p.testCondition(p.waitCondition) {
		p.waitCondition = nil
		p.cmds.Scan = true
	}

	res, ok := p.host.Exchange(p.cmds)
	if !ok {
		p.final = true
		panic(haltSignal{reason: "disconnected"})
	}

	p.halted = res.Halt
	p.final = res.Final
	p.apply(res)
	p.events.Process()

	if p.final || p.halted {
		panic(haltSignal{reason: "round over"})
	}
}

func (p *Proxy) apply(res *TurnResult) {
	p.status = res.Status
	p.cmds.next(res.Status)

	p.events.Add(event.NewStatusEvent(res.Status))
	if p.events.handlers.has(event.KindPaint) {
		p.events.Add(event.NewPaintEvent())
	}
	for _, e := range res.Events {
		p.bullets.Patch(e)
		p.events.Add(e)
	}
	for _, b := range res.Bullets {
		p.bullets.Apply(b)
	}
	for _, m := range res.Messages {
		p.events.Add(event.NewMessageEvent(m.Sender, m.Payload))
	}
}

func (p *Proxy) testCondition(c *event.Condition) bool {
	p.events.testing = true
	defer func() { p.events.testing = false }()
	return c.Test()
}

func (p *Proxy) setCall() {
	p.budget.setCalls++
	if p.budget.setCalls == MaxSetCallCount {
		p.console.Printf("SYSTEM: You have made %d calls to setXX methods without calling execute()", p.budget.setCalls)
		panic(fmt.Errorf("too many calls to setXX methods: %w", ErrDisabled))
	}
}

func (p *Proxy) getCall() {
	p.budget.getCalls++
	if p.budget.getCalls == MaxGetCallCount {
		p.console.Printf("SYSTEM: You have made %d calls to getXX methods without calling execute()", p.budget.getCalls)
		panic(fmt.Errorf("too many calls to getXX methods: %w", ErrDisabled))
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// ACTIONS
// ═══════════════════════════════════════════════════════════════════════════

// rejectNaN reports a NaN argument on the robot console.
func (p *Proxy) rejectNaN(call string, v float64) bool {
	if !math.IsNaN(v) {
		return false
	}
	p.console.Printf("SYSTEM: You cannot call %s(NaN)", call)
	return true
}

func (p *Proxy) setMove(distance float64) {
	p.setCall()
	if p.rejectNaN("move", distance) || p.status.Energy == 0 {
		return
	}
	p.cmds.Distance = distance
}

func (p *Proxy) setTurnBody(radians float64) {
	p.setCall()
	if p.rejectNaN("turnBody", radians) {
		return
	}
	if p.status.Energy > 0 {
		p.cmds.BodyTurn = radians
	}
}

func (p *Proxy) setTurnGun(radians float64) {
	p.setCall()
	if p.rejectNaN("turnGun", radians) {
		return
	}
	p.cmds.GunTurn = radians
}

func (p *Proxy) setTurnRadar(radians float64) {
	p.setCall()
	if p.rejectNaN("turnRadar", radians) {
		return
	}
	p.cmds.RadarTurn = radians
}

func (p *Proxy) move(distance float64) {
	p.setMove(distance)
	for {
		p.execute()
		if p.cmds.Distance == 0 {
			return
		}
	}
}

func (p *Proxy) turnBody(radians float64) {
	p.setTurnBody(radians)
	for {
		p.execute()
		if p.cmds.BodyTurn == 0 {
			return
		}
	}
}

func (p *Proxy) turnGun(radians float64) {
	p.setTurnGun(radians)
	for {
		p.execute()
		if p.cmds.GunTurn == 0 {
			return
		}
	}
}

func (p *Proxy) turnRadar(radians float64) {
	p.setTurnRadar(radians)
	for {
		p.execute()
		if p.cmds.RadarTurn == 0 {
			return
		}
	}
}

// setFire fills the fire slot. It returns nil when the gun is hot, the
// robot has no energy or power is NaN. A second call in the same turn
// replaces the first, whose bullet is never fired.
func (p *Proxy) setFire(power float64) *event.Bullet {
	p.setCall()
	if p.rejectNaN("fire", power) {
		return nil
	}
	if p.status.GunHeat > 0 || p.status.Energy == 0 {
		return nil
	}

	power = math.Min(p.status.Energy, math.Min(math.Max(power, rules.MinBulletPower), rules.MaxBulletPower))

	if p.cmds.Fire != nil {
		p.bullets.Deactivate(p.cmds.Fire.ID)
	}
	p.nextBulletID++
	b := event.NewBullet(p.status.GunHeading, p.status.X, p.status.Y, power, p.setup.Name, "", true, p.nextBulletID)
	p.cmds.Fire = &BulletCommand{Power: power, ID: b.ID()}
	p.bullets.Track(b)
	return b
}

func (p *Proxy) fire(power float64) *event.Bullet {
	b := p.setFire(power)
	p.execute()
	return b
}

// rescan forces a radar scan this turn. Called from a ScannedRobot handler
// it makes that handler interruptible so a new scan restarts it.
func (p *Proxy) rescan() {
	scanPriority := p.events.Priorities().Get(event.KindScannedRobot)
	reset := false
	previous := false
	if p.events.TopPriority() == scanPriority {
		reset = true
		previous = p.events.IsInterruptible(scanPriority)
		p.events.SetInterruptible(scanPriority, true)
	}
	p.cmds.Scan = true
	p.execute()
	if reset {
		p.events.SetInterruptible(scanPriority, previous)
	}
}

func (p *Proxy) setStop(overwrite bool) {
	p.setCall()
	if p.stopped == nil || overwrite {
		p.stopped = &stopState{
			distance: p.cmds.Distance,
			body:     p.cmds.BodyTurn,
			gun:      p.cmds.GunTurn,
			radar:    p.cmds.RadarTurn,
		}
	}
	p.cmds.Distance = 0
	p.cmds.BodyTurn = 0
	p.cmds.GunTurn = 0
	p.cmds.RadarTurn = 0
}

func (p *Proxy) setResume() {
	p.setCall()
	if p.stopped == nil {
		return
	}
	p.cmds.Distance = p.stopped.distance
	p.cmds.BodyTurn = p.stopped.body
	p.cmds.GunTurn = p.stopped.gun
	p.cmds.RadarTurn = p.stopped.radar
	p.stopped = nil
}

func (p *Proxy) setMaxVelocity(v float64) {
	p.setCall()
	if p.rejectNaN("setMaxVelocity", v) {
		return
	}
	p.cmds.MaxVelocity = math.Min(rules.MaxVelocity, math.Abs(v))
}

func (p *Proxy) setMaxTurnRate(radians float64) {
	p.setCall()
	if p.rejectNaN("setMaxTurnRate", radians) {
		return
	}
	p.cmds.MaxTurnRate = math.Min(rules.MaxTurnRate, math.Abs(radians))
}

// waitFor commits turns until c holds. Registered custom conditions are
// not evaluated while waiting.
func (p *Proxy) waitFor(c *event.Condition) {
	if c == nil {
		return
	}
	p.waitCondition = c
	p.events.skipConditions = true
	defer func() {
		p.waitCondition = nil
		p.events.skipConditions = false
	}()

	for {
		p.execute()
		if p.testCondition(c) {
			return
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// TEAM
// ═══════════════════════════════════════════════════════════════════════════

func (p *Proxy) isTeammate(name string) bool {
	return slices.Contains(p.setup.Teammates, name)
}

func (p *Proxy) sendMessage(recipient string, v any) error {
	p.setCall()
	if len(p.setup.Teammates) == 0 {
		return ErrNotTeamMember
	}
	if recipient != "" && !p.isTeammate(recipient) {
		return fmt.Errorf("send message to %s: %w", recipient, ErrNotTeamMember)
	}
	payload, err := event.EncodeMessage(v)
	if err != nil {
		return err
	}
	p.cmds.Messages = append(p.cmds.Messages, TeamMessage{Sender: p.setup.Name, Recipient: recipient, Payload: payload})
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// STATE
// ═══════════════════════════════════════════════════════════════════════════

// energy and gunHeat include the effect of a bullet queued this turn.
func (p *Proxy) energy() float64 {
	p.getCall()
	if p.cmds.Fire != nil {
		return p.status.Energy - p.cmds.Fire.Power
	}
	return p.status.Energy
}

func (p *Proxy) gunHeat() float64 {
	p.getCall()
	if p.cmds.Fire != nil {
		return p.status.GunHeat + rules.GunHeat(p.cmds.Fire.Power)
	}
	return p.status.GunHeat
}

func (p *Proxy) state() *event.RobotStatus {
	p.getCall()
	return &p.status
}
