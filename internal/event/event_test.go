package event

import (
	"fmt"
	"strings"
	"testing"
)

// consoleRecorder captures console output for assertions.
type consoleRecorder struct {
	lines []string
}

func (c *consoleRecorder) Printf(format string, v ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, v...))
}

func (c *consoleRecorder) contains(substr string) bool {
	for _, l := range c.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func at(e Event, time int64, priority int) Event {
	e.SetTime(time)
	assignPriority(e, priority)
	return e
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Event
		want int
	}{
		{
			name: "earlier time wins over higher priority",
			a:    at(NewScannedRobotEvent("a", 100, 0, 10, 0, 0, false), 1, 10),
			b:    at(NewStatusEvent(RobotStatus{}), 2, 99),
			want: -1,
		},
		{
			name: "higher priority first at equal time",
			a:    at(NewHitWallEvent(0), 5, 30),
			b:    at(NewHitRobotEvent("b", 0, 100, false), 5, 20),
			want: -1,
		},
		{
			name: "at fault robot hit first",
			a:    at(NewHitRobotEvent("a", 0, 100, true), 5, 20),
			b:    at(NewHitRobotEvent("b", 0, 100, false), 5, 20),
			want: -1,
		},
		{
			name: "not at fault after at fault",
			a:    at(NewHitRobotEvent("a", 0, 100, false), 5, 20),
			b:    at(NewHitRobotEvent("b", 0, 100, true), 5, 20),
			want: 1,
		},
		{
			name: "closer scan first",
			a:    at(NewScannedRobotEvent("a", 100, 0, 10, 0, 0, false), 3, 10),
			b:    at(NewScannedRobotEvent("b", 100, 0, 50, 0, 0, false), 3, 10),
			want: -1,
		},
		{
			name: "unrelated kinds tie",
			a:    at(NewHitWallEvent(0), 3, 40),
			b:    at(NewRobotDeathEvent("x"), 3, 40),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			if sign(got) != tt.want {
				t.Errorf("Compare() = %d, want sign %d", got, tt.want)
			}
		})
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func TestQueueOrderingIsStable(t *testing.T) {
	q := NewQueue("tester", &consoleRecorder{})

	first := NewRobotDeathEvent("first")
	wall := NewHitWallEvent(0)
	second := NewRobotDeathEvent("second")
	status := NewStatusEvent(RobotStatus{})

	for _, e := range []Event{first, wall, second, status} {
		q.Add(e, 7)
	}
	q.Sort()

	want := []Event{status, first, second, wall}
	got := q.Events()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Kind(), want[i].Kind())
		}
	}
}

func TestQueueAddAssignsPriorityAndTime(t *testing.T) {
	q := NewQueue("tester", &consoleRecorder{})
	q.Priorities().Set(KindScannedRobot, 42)

	scan := NewScannedRobotEvent("x", 100, 0, 100, 0, 0, false)
	q.Add(scan, 12)
	if scan.Priority() != 42 {
		t.Errorf("priority = %d, want 42", scan.Priority())
	}
	if scan.Time() != 12 {
		t.Errorf("time = %d, want 12", scan.Time())
	}

	death := NewDeathEvent()
	q.Add(death, 12)
	if death.Priority() != -1 {
		t.Errorf("death priority = %d, want -1", death.Priority())
	}

	c := NewConditionFunc("near", func() bool { return true })
	c.SetPriority(63)
	custom := NewCustomEvent(c)
	q.Add(custom, 12)
	if custom.Priority() != 63 {
		t.Errorf("custom priority = %d, want 63", custom.Priority())
	}
}

func TestEventTimeOnlyMovesForward(t *testing.T) {
	q := NewQueue("tester", &consoleRecorder{})

	future := NewHitWallEvent(0)
	future.SetTime(50)
	q.Add(future, 10)
	if future.Time() != 50 {
		t.Errorf("future time = %d, want 50", future.Time())
	}

	past := NewHitWallEvent(0)
	past.SetTime(3)
	q.Add(past, 10)
	if past.Time() != 10 {
		t.Errorf("past time = %d, want 10", past.Time())
	}
}

func TestQueuedEventRejectsMutation(t *testing.T) {
	console := &consoleRecorder{}
	q := NewQueue("tester", console)

	e := NewHitWallEvent(0)
	q.Add(e, 4)
	e.SetPriority(70)
	e.SetTime(99)

	if e.Priority() != 30 {
		t.Errorf("priority = %d, want 30", e.Priority())
	}
	if e.Time() != 4 {
		t.Errorf("time = %d, want 4", e.Time())
	}
	if !console.contains("cannot be changed after it has been added") {
		t.Errorf("expected mutation warning, got %v", console.lines)
	}
}

func TestPriorityClamping(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  int
		warn  string
	}{
		{"too low", -5, 0, "will be 0"},
		{"too high", 150, 99, "will be 99"},
		{"in range", 42, 42, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := &consoleRecorder{}

			e := NewHitWallEvent(0)
			e.console = console
			e.SetPriority(tt.value)
			if e.Priority() != tt.want {
				t.Errorf("event priority = %d, want %d", e.Priority(), tt.want)
			}

			c := NewConditionFunc("clamp", func() bool { return false })
			c.SetConsole(console)
			c.SetPriority(tt.value)
			if c.Priority() != tt.want {
				t.Errorf("condition priority = %d, want %d", c.Priority(), tt.want)
			}

			if tt.warn != "" && !console.contains(tt.warn) {
				t.Errorf("missing warning %q in %v", tt.warn, console.lines)
			}
			if tt.warn == "" && len(console.lines) != 0 {
				t.Errorf("unexpected warnings %v", console.lines)
			}
		})
	}
}

func TestPrioritiesRejectReservedKinds(t *testing.T) {
	console := &consoleRecorder{}
	p := NewPriorities(console)

	for _, k := range []Kind{KindDeath, KindWin, KindSkippedTurn, KindBattleEnded, KindRoundEnded, KindCustom} {
		before := p.Get(k)
		p.Set(k, 50)
		if p.Get(k) != before {
			t.Errorf("%s priority changed to %d", k, p.Get(k))
		}
	}
	if len(console.lines) != 6 {
		t.Errorf("expected 6 warnings, got %d", len(console.lines))
	}

	p.SetByName("HitWallEvent", 77)
	if got := p.GetByName("HitWallEvent"); got != 77 {
		t.Errorf("HitWallEvent priority = %d, want 77", got)
	}
}

func TestDefaultPriorities(t *testing.T) {
	want := map[Kind]int{
		KindWin: 100, KindSkippedTurn: 100, KindBattleEnded: 100, KindRoundEnded: 100,
		KindStatus: 99, KindKeyTyped: 98, KindMouseWheelMoved: 98, KindCustom: 80,
		KindMessage: 75, KindRobotDeath: 70, KindBulletMissed: 60, KindBulletHitBullet: 55,
		KindBulletHit: 50, KindHitByBullet: 40, KindHitWall: 30, KindHitRobot: 20,
		KindScannedRobot: 10, KindPaint: 5, KindDeath: -1,
	}
	for k, p := range want {
		if got := k.DefaultPriority(); got != p {
			t.Errorf("%s default = %d, want %d", k, got, p)
		}
	}
}

func TestQueueLimitKeepsCriticalEvents(t *testing.T) {
	console := &consoleRecorder{}
	q := NewQueue("spammer", console)

	for i := 0; i < MaxQueueSize; i++ {
		q.Add(NewHitWallEvent(0), 1)
	}
	if q.Add(NewHitWallEvent(0), 1) {
		t.Error("expected queue overflow to reject event")
	}
	if !console.contains("Not adding to spammer's queue") {
		t.Errorf("missing overflow warning: %v", console.lines)
	}
	if !q.Add(NewDeathEvent(), 1) {
		t.Error("critical event was rejected on a full queue")
	}
}

func TestQueueClearOlderThan(t *testing.T) {
	q := NewQueue("tester", &consoleRecorder{})
	q.Add(NewHitWallEvent(0), 1)
	q.Add(NewSkippedTurnEvent(1), 1)
	q.Add(NewHitWallEvent(0), 3)

	q.ClearOlderThan(2)
	if q.Len() != 2 {
		t.Fatalf("len = %d, want 2", q.Len())
	}
	if len(q.OfKind(KindSkippedTurn)) != 1 {
		t.Error("critical event was cleared")
	}

	q.Clear(false)
	if q.Len() != 1 {
		t.Errorf("Clear(false) left %d events, want 1", q.Len())
	}
	q.Clear(true)
	if q.Len() != 0 {
		t.Errorf("Clear(true) left %d events", q.Len())
	}
}

type enemyNear struct{}

func (enemyNear) Test() bool { return true }

func TestConditionDefaults(t *testing.T) {
	c := NewCondition("", enemyNear{})
	if c.Name() != "enemyNear" {
		t.Errorf("name = %q, want enemyNear", c.Name())
	}
	if c.Priority() != DefaultConditionPriority {
		t.Errorf("priority = %d, want %d", c.Priority(), DefaultConditionPriority)
	}
	if !c.Test() {
		t.Error("Test() = false")
	}

	var empty Condition
	if empty.Test() {
		t.Error("nil tester fired")
	}
}

func TestBulletsPatchPreservesIdentity(t *testing.T) {
	bs := NewBullets()
	live := NewBullet(1, 100, 100, 3, "me", "", true, 7)
	bs.Track(live)

	hit := NewBulletHitEvent("enemy", 84, BulletRef(7))
	missed := NewBulletMissedEvent(BulletRef(8))
	bs.Patch(hit)
	bs.Patch(missed)

	if hit.Bullet != live {
		t.Error("BulletHitEvent was not patched to the live bullet")
	}
	if missed.Bullet.ID() != 8 || missed.Bullet == live {
		t.Error("unknown id should keep its placeholder")
	}

	bs.Apply(BulletStatus{ID: 7, X: 120, Y: 130, Victim: "enemy", Active: false})
	if live.IsActive() || live.Victim() != "enemy" || live.X() != 120 {
		t.Errorf("bullet not updated: active=%v victim=%q x=%v", live.IsActive(), live.Victim(), live.X())
	}
	if bs.Get(7) != nil {
		t.Error("inactive bullet still tracked")
	}
}

func TestResultsRounding(t *testing.T) {
	r := &BattleResults{TeamLeaderName: "a", Score: 10.5, BulletDamage: 3.49}
	line := r.Rounded()
	if line.Score != 11 || line.BulletDamage != 3 {
		t.Errorf("rounded = %+v", line)
	}
	if CompareResults(r, &BattleResults{Score: 20}) >= 0 {
		t.Error("lower score should compare before higher")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	type target struct {
		Name string
		X, Y float64
	}
	payload, err := EncodeMessage(target{Name: "enemy", X: 1, Y: 2})
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	e := NewMessageEvent("leader", payload)

	var got target
	if err := e.Decode(&got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "enemy" || got.X != 1 || got.Y != 2 {
		t.Errorf("decoded %+v", got)
	}
}
