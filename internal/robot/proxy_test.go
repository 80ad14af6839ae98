package robot

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

// fakeHost is a synchronous engine: every Exchange advances one turn,
// moves the robot toward its commanded amounts and hands back whatever
// the test scripted for that turn.
type fakeHost struct {
	turn     int64
	status   event.RobotStatus
	commits  []*Commands
	events   map[int64][]event.Event
	bullets  map[int64][]event.BulletStatus
	messages map[int64][]TeamMessage
	haltAt   int64
	finalAt  int64
	disabled string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		status:   event.RobotStatus{Energy: 100, X: 400, Y: 300, NumRounds: 1},
		events:   make(map[int64][]event.Event),
		bullets:  make(map[int64][]event.BulletStatus),
		messages: make(map[int64][]TeamMessage),
		finalAt:  1000,
	}
}

func toward(remaining, step float64) float64 {
	if math.Abs(remaining) <= step {
		return 0
	}
	if remaining > 0 {
		return remaining - step
	}
	return remaining + step
}

func (h *fakeHost) Exchange(c *Commands) (*TurnResult, bool) {
	h.commits = append(h.commits, c.Clone())
	h.turn++

	st := h.status
	st.Time = h.turn
	st.DistanceRemaining = toward(c.Distance, rules.MaxVelocity)
	st.BodyTurnRemaining = toward(c.BodyTurn, rules.MaxTurnRate)
	st.GunTurnRemaining = toward(c.GunTurn, rules.GunTurnRate)
	st.RadarTurnRemaining = toward(c.RadarTurn, rules.RadarTurnRate)
	if c.Fire != nil {
		st.Energy -= c.Fire.Power
		st.GunHeat = rules.GunHeat(c.Fire.Power)
	}
	h.status = st

	return &TurnResult{
		Status:   st,
		Events:   h.events[h.turn],
		Bullets:  h.bullets[h.turn],
		Messages: h.messages[h.turn],
		Halt:     h.haltAt > 0 && h.turn >= h.haltAt,
		Final:    h.turn >= h.finalAt,
	}, true
}

func (h *fakeHost) Disable(reason string) { h.disabled = reason }

type recorderBot struct {
	TeamRobot
	run   func()
	calls []string
	hit   *event.Bullet
}

func (b *recorderBot) Run() {
	if b.run != nil {
		b.run()
	}
}

func (b *recorderBot) OnStatus(e *event.StatusEvent) {}

func (b *recorderBot) OnHitWall(e *event.HitWallEvent) {
	b.calls = append(b.calls, "HitWall")
}

func (b *recorderBot) OnBulletHit(e *event.BulletHitEvent) {
	b.hit = e.Bullet
}

func (b *recorderBot) OnRobotDeath(e *event.RobotDeathEvent) {
	b.calls = append(b.calls, "RobotDeath:"+e.Name)
}

func (b *recorderBot) OnCustomEvent(e *event.CustomEvent) {
	b.calls = append(b.calls, "Custom:"+e.Condition.Name())
}

func (b *recorderBot) OnDeath(e *event.DeathEvent) {
	b.calls = append(b.calls, "Death")
}

func (b *recorderBot) OnRoundEnded(e *event.RoundEndedEvent) {
	b.calls = append(b.calls, "RoundEnded")
}

func (b *recorderBot) OnMouseExited(e *event.MouseEvent) {
	b.calls = append(b.calls, "MouseExited")
}

func (b *recorderBot) OnMouseReleased(e *event.MouseEvent) {
	b.calls = append(b.calls, "MouseReleased")
}

func (b *recorderBot) OnMouseDragged(e *event.MouseEvent) {
	b.calls = append(b.calls, "MouseDragged")
}

func (b *recorderBot) OnMessageReceived(e *event.MessageEvent) {
	var text string
	if err := e.Decode(&text); err == nil {
		b.calls = append(b.calls, "Message:"+e.Sender+":"+text)
	}
}

func attach(t *testing.T, bot Bot, host Host, teammates ...string) (*Proxy, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	p := NewProxy(Setup{
		Name:        "tester",
		Teammates:   teammates,
		FieldWidth:  800,
		FieldHeight: 600,
		Status:      event.RobotStatus{Energy: 100, X: 400, Y: 300},
		Output:      out,
	}, host)
	if err := Attach(bot, p); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return p, out
}

func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

func TestUninitializedAccess(t *testing.T) {
	tests := []struct {
		name string
		call func(b *recorderBot)
	}{
		{"SetAhead", func(b *recorderBot) { b.SetAhead(10) }},
		{"Execute", func(b *recorderBot) { b.Execute() }},
		{"Energy", func(b *recorderBot) { b.Energy() }},
		{"SendMessage", func(b *recorderBot) { _ = b.SendMessage("x", 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &recorderBot{}
			err := recoverError(func() { tt.call(bot) })
			if !errors.Is(err, ErrUninitialized) {
				t.Fatalf("err = %v, want ErrUninitialized", err)
			}
			if !strings.Contains(err.Error(), tt.name) {
				t.Errorf("error %q does not name %s", err, tt.name)
			}
		})
	}
}

func TestAttachRequiresRobot(t *testing.T) {
	type loose struct{ Bot }
	if err := Attach(loose{}, NewProxy(Setup{Name: "x"}, newFakeHost())); err == nil {
		t.Error("expected error for a bot that does not embed Robot")
	}
}

func TestSetOverwritesWithinTurn(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	bot.SetAhead(50)
	bot.SetAhead(20)
	bot.SetTurnRight(10)
	bot.SetTurnLeft(30)
	bot.Execute()

	c := host.commits[0]
	if c.Distance != 20 {
		t.Errorf("distance = %v, want 20", c.Distance)
	}
	if !rules.IsNear(c.BodyTurn, -rules.ToRadians(30)) {
		t.Errorf("body turn = %v, want -30 degrees", c.BodyTurn)
	}
}

func TestBlockingCallsMatchSetAndExecute(t *testing.T) {
	blocking := newFakeHost()
	b1 := &recorderBot{}
	attach(t, b1, blocking)
	b1.Ahead(30)
	b1.TurnGunRight(50)

	manual := newFakeHost()
	b2 := &recorderBot{}
	attach(t, b2, manual)
	b2.SetAhead(30)
	for {
		b2.Execute()
		if b2.DistanceRemaining() == 0 {
			break
		}
	}
	b2.SetTurnGunRight(50)
	for {
		b2.Execute()
		if b2.GunTurnRemaining() == 0 {
			break
		}
	}

	if len(blocking.commits) != len(manual.commits) {
		t.Fatalf("blocking took %d turns, manual took %d", len(blocking.commits), len(manual.commits))
	}
	for i := range blocking.commits {
		a, b := blocking.commits[i], manual.commits[i]
		if a.Distance != b.Distance || a.GunTurn != b.GunTurn {
			t.Errorf("turn %d: blocking %+v, manual %+v", i, a, b)
		}
	}
	if len(blocking.commits) != 4+3 {
		t.Errorf("turns = %d, want 7", len(blocking.commits))
	}
}

func TestFireCreatesActiveBullet(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	if host.status.GunHeat != 0 {
		t.Fatal("gun should start cool in this test")
	}
	b := bot.SetFire(3)
	if b == nil {
		t.Fatal("SetFire returned nil with a cool gun")
	}
	if b.Power() != 3 || !b.IsActive() || b.Owner() != "tester" {
		t.Errorf("bullet = power %v active %v owner %q", b.Power(), b.IsActive(), b.Owner())
	}
	if got := bot.Energy(); got != 97 {
		t.Errorf("energy with pending fire = %v, want 97", got)
	}

	host.bullets[2] = []event.BulletStatus{{ID: b.ID(), X: 500, Y: 300, Active: true}}
	host.bullets[3] = []event.BulletStatus{{ID: b.ID(), X: 520, Y: 300, Victim: "enemy", Active: false}}
	host.events[3] = []event.Event{event.NewBulletHitEvent("enemy", 84, event.BulletRef(b.ID()))}

	bot.Execute()
	if host.commits[0].Fire == nil || host.commits[0].Fire.Power != 3 {
		t.Fatalf("fire command = %+v", host.commits[0].Fire)
	}
	if bot.SetFire(1) != nil {
		t.Error("SetFire succeeded with a hot gun")
	}

	bot.Execute()
	if !b.IsActive() || b.X() != 500 {
		t.Errorf("bullet after update: active %v x %v", b.IsActive(), b.X())
	}

	bot.Execute()
	if b.IsActive() || b.Victim() != "enemy" {
		t.Errorf("bullet after hit: active %v victim %q", b.IsActive(), b.Victim())
	}
	if bot.hit != b {
		t.Error("BulletHitEvent does not reference the fired bullet")
	}
}

func TestFireRejectsNaN(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	_, out := attach(t, bot, host)

	if bot.SetFire(math.NaN()) != nil {
		t.Error("SetFire(NaN) returned a bullet")
	}
	if !strings.Contains(out.String(), "[tester] SYSTEM: You cannot call fire(NaN)") {
		t.Errorf("console = %q", out.String())
	}
}

func TestSettersRejectNaN(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	_, out := attach(t, bot, host)

	bot.SetMaxVelocity(5)
	bot.SetMaxTurnRate(4)
	bot.SetAhead(40)
	bot.SetTurnRight(20)

	bot.SetMaxVelocity(math.NaN())
	bot.SetMaxTurnRate(math.NaN())
	bot.SetAhead(math.NaN())
	bot.SetTurnRight(math.NaN())
	bot.SetTurnGunRight(math.NaN())
	bot.SetTurnRadarRight(math.NaN())
	bot.Execute()

	c := host.commits[0]
	if c.MaxVelocity != 5 {
		t.Errorf("max velocity = %v, want 5", c.MaxVelocity)
	}
	if !rules.IsNear(c.MaxTurnRate, rules.ToRadians(4)) {
		t.Errorf("max turn rate = %v, want 4 degrees", c.MaxTurnRate)
	}
	if c.Distance != 40 {
		t.Errorf("distance = %v, want 40", c.Distance)
	}
	if !rules.IsNear(c.BodyTurn, rules.ToRadians(20)) {
		t.Errorf("body turn = %v, want 20 degrees", c.BodyTurn)
	}
	if c.GunTurn != 0 || c.RadarTurn != 0 {
		t.Errorf("gun turn = %v, radar turn = %v, want 0", c.GunTurn, c.RadarTurn)
	}

	for _, call := range []string{"setMaxVelocity", "setMaxTurnRate", "move", "turnBody", "turnGun", "turnRadar"} {
		if !strings.Contains(out.String(), "SYSTEM: You cannot call "+call+"(NaN)") {
			t.Errorf("console missing %s warning: %q", call, out.String())
		}
	}
}

func TestSecondSetFireReplacesFirst(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	first := bot.SetFire(1)
	second := bot.SetFire(2)
	bot.Execute()

	if first.IsActive() {
		t.Error("replaced bullet is still active")
	}
	if host.commits[0].Fire.ID != second.ID() || host.commits[0].Fire.Power != 2 {
		t.Errorf("fire command = %+v, want second bullet", host.commits[0].Fire)
	}
}

func TestConditionRefiresUntilRemoved(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	always := event.NewConditionFunc("always", func() bool { return true })
	bot.AddCustomEvent(always)
	bot.Execute()
	bot.Execute()
	bot.RemoveCustomEvent(always)
	bot.Execute()

	want := []string{"Custom:always", "Custom:always"}
	if strings.Join(bot.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", bot.calls, want)
	}
}

func TestEventsDispatchInPriorityOrder(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	host.events[1] = []event.Event{
		event.NewHitWallEvent(0),
		event.NewRobotDeathEvent("enemy"),
	}
	bot.AddCustomEvent(event.NewConditionFunc("once", func() bool { return host.turn == 1 }))
	bot.Execute()

	want := "Custom:once,RobotDeath:enemy,HitWall"
	if got := strings.Join(bot.calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestSetEventPriorityChangesOrder(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	_, out := attach(t, bot, host)

	bot.SetEventPriority("HitWallEvent", 90)
	bot.SetEventPriority("DeathEvent", 50)
	host.events[1] = []event.Event{
		event.NewRobotDeathEvent("enemy"),
		event.NewHitWallEvent(0),
	}
	bot.Execute()

	if got := strings.Join(bot.calls, ","); got != "HitWall,RobotDeath:enemy" {
		t.Errorf("calls = %s", got)
	}
	if bot.EventPriority("DeathEvent") != -1 {
		t.Errorf("DeathEvent priority changed to %d", bot.EventPriority("DeathEvent"))
	}
	if !strings.Contains(out.String(), "[tester] SYSTEM: You may not change the priority of DeathEvent") {
		t.Errorf("console = %q", out.String())
	}
}

// scanBot handles scans by moving, optionally letting a newer scan
// interrupt the move.
type scanBot struct {
	Robot
	interruptible bool
	calls         []string
}

func (b *scanBot) Run() {}

func (b *scanBot) OnScannedRobot(e *event.ScannedRobotEvent) {
	b.calls = append(b.calls, "start:"+e.Name)
	if e.Name == "first" {
		b.SetInterruptible(b.interruptible)
		b.Execute()
	}
	b.calls = append(b.calls, "end:"+e.Name)
}

func TestInterruptibleHandler(t *testing.T) {
	tests := []struct {
		name          string
		interruptible bool
		want          string
	}{
		{"restarts on new scan", true, "start:first,start:second,end:second"},
		{"finishes before new scan", false, "start:first,end:first,start:second,end:second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			bot := &scanBot{interruptible: tt.interruptible}
			attach(t, bot, host)

			host.events[1] = []event.Event{event.NewScannedRobotEvent("first", 100, 0, 100, 0, 0, false)}
			host.events[2] = []event.Event{event.NewScannedRobotEvent("second", 100, 0, 100, 0, 0, false)}
			bot.Execute()

			if got := strings.Join(bot.calls, ","); got != tt.want {
				t.Errorf("calls = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWaitForSkipsCustomConditions(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	tested := 0
	bot.AddCustomEvent(event.NewConditionFunc("other", func() bool { tested++; return false }))

	bot.WaitFor(event.NewConditionFunc("third turn", func() bool { return host.turn >= 3 }))

	if host.turn != 3 {
		t.Errorf("WaitFor returned at turn %d, want 3", host.turn)
	}
	if tested != 0 {
		t.Errorf("other condition tested %d times while waiting", tested)
	}

	bot.Execute()
	if tested != 1 {
		t.Errorf("other condition tested %d times after waiting, want 1", tested)
	}
}

func TestActionInsideConditionFails(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	bot.AddCustomEvent(event.NewConditionFunc("greedy", func() bool {
		bot.Execute()
		return true
	}))

	err := recoverError(bot.Execute)
	if !errors.Is(err, ErrActionInCondition) {
		t.Fatalf("err = %v, want ErrActionInCondition", err)
	}
}

func TestMouseEventsDispatchToMatchingHandlers(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	host.events[1] = []event.Event{
		event.NewMouseEvent(event.KindMouseExited, 0, 0, 1, 1, 0, 0, 0),
		event.NewMouseEvent(event.KindMouseReleased, 1, 1, 1, 1, 0, 0, 0),
	}
	bot.Execute()

	if got := strings.Join(bot.calls, ","); got != "MouseExited,MouseReleased" {
		t.Errorf("calls = %s", got)
	}
}

func TestDeathEndsRunAndWaitsForRoundEnd(t *testing.T) {
	host := newFakeHost()
	host.haltAt = 2
	host.finalAt = 4
	host.events[2] = []event.Event{event.NewDeathEvent(), event.NewHitWallEvent(0)}
	host.events[4] = []event.Event{event.NewRoundEndedEvent(0, 4, 4), event.NewHitWallEvent(0)}

	bot := &recorderBot{}
	bot.run = func() {
		for {
			bot.Ahead(100)
		}
	}
	p, _ := attach(t, bot, host)

	if err := p.Run(bot); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "HitWall,Death,RoundEnded"
	if got := strings.Join(bot.calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
	if host.turn != 4 {
		t.Errorf("exchanged %d turns, want 4", host.turn)
	}
	if host.commits[2].Distance != 0 {
		t.Error("robot kept moving after death")
	}
}

func TestTooManySetCallsDisablesRobot(t *testing.T) {
	host := newFakeHost()
	host.finalAt = 2

	bot := &recorderBot{}
	bot.run = func() {
		for {
			bot.SetAhead(1)
		}
	}
	p, out := attach(t, bot, host)

	err := p.Run(bot)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("Run err = %v, want ErrDisabled", err)
	}
	if host.disabled == "" {
		t.Error("host was not told to disable the robot")
	}
	if !strings.Contains(out.String(), "10000 calls to setXX methods") {
		t.Errorf("console = %q", out.String())
	}
}

func TestRobotPanicIsContained(t *testing.T) {
	host := newFakeHost()
	host.finalAt = 1

	bot := &recorderBot{}
	bot.run = func() { panic("boom") }
	p, _ := attach(t, bot, host)

	err := p.Run(bot)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Run err = %v", err)
	}
	if host.disabled == "" {
		t.Error("panicking robot was not disabled")
	}
}

func TestHandlerPanicIsReported(t *testing.T) {
	host := newFakeHost()
	bot := &panicBot{}
	_, out := attach(t, bot, host)

	host.events[1] = []event.Event{event.NewHitWallEvent(0)}
	bot.Execute()

	if !strings.Contains(out.String(), "SYSTEM: wall occurred on HitWallEvent") {
		t.Errorf("console = %q", out.String())
	}
}

type panicBot struct{ Robot }

func (b *panicBot) Run() {}

func (b *panicBot) OnHitWall(e *event.HitWallEvent) { panic("wall") }

func TestTeamMessaging(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host, "mate")

	if !bot.IsTeammate("mate") || bot.IsTeammate("enemy") {
		t.Error("IsTeammate mismatch")
	}
	if err := bot.SendMessage("enemy", "hi"); !errors.Is(err, ErrNotTeamMember) {
		t.Errorf("SendMessage to enemy err = %v", err)
	}
	if err := bot.BroadcastMessage("attack"); err != nil {
		t.Fatalf("BroadcastMessage: %v", err)
	}

	payload, _ := event.EncodeMessage("roger")
	host.messages[1] = []TeamMessage{{Sender: "mate", Recipient: "tester", Payload: payload}}
	bot.Execute()

	if msgs := host.commits[0].Messages; len(msgs) != 1 || msgs[0].Recipient != "" || msgs[0].Sender != "tester" {
		t.Errorf("committed messages = %+v", msgs)
	}
	if got := strings.Join(bot.calls, ","); got != "Message:mate:roger" {
		t.Errorf("calls = %s", got)
	}
}

type rateBot struct{ RateControlRobot }

func (b *rateBot) Run() {}

func TestRateControlExecute(t *testing.T) {
	host := newFakeHost()
	bot := &rateBot{}
	attach(t, bot, host)

	bot.SetVelocityRate(-5)
	bot.SetTurnRate(4)
	bot.SetRadarRotationRate(45)
	bot.Execute()

	c := host.commits[0]
	if !math.IsInf(c.Distance, -1) || c.MaxVelocity != 5 {
		t.Errorf("distance %v max velocity %v", c.Distance, c.MaxVelocity)
	}
	if !rules.IsNear(c.BodyTurn, rules.ToRadians(4)) || !rules.IsNear(c.RadarTurn, rules.RadarTurnRate) {
		t.Errorf("body %v radar %v", c.BodyTurn, c.RadarTurn)
	}
}

func TestStopAndResume(t *testing.T) {
	host := newFakeHost()
	bot := &recorderBot{}
	attach(t, bot, host)

	bot.SetAhead(100)
	bot.Execute()
	bot.Stop()
	if host.commits[1].Distance != 0 {
		t.Errorf("stop committed distance %v", host.commits[1].Distance)
	}
	bot.Resume()
	if host.commits[2].Distance != 92 {
		t.Errorf("resume committed distance %v, want 92", host.commits[2].Distance)
	}
}
