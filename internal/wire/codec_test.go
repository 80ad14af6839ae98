package wire

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/robo-code/robocode-sub000/internal/event"
)

func TestEventRoundTrip(t *testing.T) {
	enemyBullet := event.NewBullet(1.5, 300, 400, 2, "enemy", "me", true, 3)
	results := &event.BattleResults{
		TeamLeaderName: "me", Rank: 1, Score: 120.5, Survival: 50, LastSurvivorBonus: 10,
		BulletDamage: 40, BulletDamageBonus: 8, RamDamage: 12, RamDamageBonus: 0.5,
		Firsts: 3, Seconds: 1, Thirds: 0,
	}

	wheel := event.NewMouseEvent(event.KindMouseWheelMoved, 0, 0, 10, 20, 507, 0, 99)
	wheel.ScrollType = 1
	wheel.ScrollAmount = 3
	wheel.WheelRotation = -1

	tests := []struct {
		name string
		e    event.Event
	}{
		{"status", event.NewStatusEvent(event.RobotStatus{Energy: 80, X: 10, Y: 20, Heading: 1, GunHeat: 0.4, Others: 2, RoundNum: 1, NumRounds: 3, Time: 77})},
		{"scanned robot", event.NewScannedRobotEvent("enemy", 90, -0.5, 250, 3.1, 8, true)},
		{"hit robot", event.NewHitRobotEvent("enemy", 0.2, 64, true)},
		{"hit wall", event.NewHitWallEvent(-1.2)},
		{"hit by bullet", event.NewHitByBulletEvent(0.7, enemyBullet)},
		{"robot death", event.NewRobotDeathEvent("enemy")},
		{"death", event.NewDeathEvent()},
		{"win", event.NewWinEvent()},
		{"skipped turn", event.NewSkippedTurnEvent(1234)},
		{"key typed", event.NewKeyEvent(event.KindKeyTyped, 'w', 87, 1, 400, 0, 55)},
		{"mouse exited", event.NewMouseEvent(event.KindMouseExited, 1, 0, 5, 6, 505, 0, 12)},
		{"mouse wheel", wheel},
		{"battle ended", event.NewBattleEndedEvent(false, results)},
		{"battle aborted", event.NewBattleEndedEvent(true, nil)},
		{"round ended", event.NewRoundEndedEvent(2, 1500, 4000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Marshal(tt.e)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, err := Unmarshal(frame)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(got, tt.e) {
				t.Errorf("round trip mismatch:\n got  %#v\n want %#v", got, tt.e)
			}
		})
	}
}

func TestBulletEventsPatchedAfterDecode(t *testing.T) {
	own := event.NewBullet(0.3, 50, 60, 3, "me", "", true, 9)
	other := event.NewBullet(2.1, 55, 65, 1, "enemy", "", false, 4)

	tracked := event.NewBullets()
	tracked.Track(own)

	tests := []struct {
		name   string
		e      event.Event
		bullet func(event.Event) *event.Bullet
	}{
		{"bullet hit", event.NewBulletHitEvent("enemy", 70, own), func(e event.Event) *event.Bullet { return e.(*event.BulletHitEvent).Bullet }},
		{"bullet missed", event.NewBulletMissedEvent(own), func(e event.Event) *event.Bullet { return e.(*event.BulletMissedEvent).Bullet }},
		{"bullet hit bullet", event.NewBulletHitBulletEvent(own, other), func(e event.Event) *event.Bullet { return e.(*event.BulletHitBulletEvent).Bullet }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			copied, err := CopyEvent(tt.e)
			if err != nil {
				t.Fatalf("CopyEvent: %v", err)
			}

			placeholder := tt.bullet(copied)
			if placeholder == own {
				t.Fatal("decoded event already references the live bullet")
			}
			if placeholder.ID() != own.ID() || placeholder.Power() != 0 {
				t.Errorf("placeholder = id %d power %v, want id %d power 0", placeholder.ID(), placeholder.Power(), own.ID())
			}

			tracked.Patch(copied)
			if tt.bullet(copied) != own {
				t.Error("patched event does not reference the live bullet")
			}
			if !reflect.DeepEqual(copied, tt.e) {
				t.Errorf("patched event differs:\n got  %#v\n want %#v", copied, tt.e)
			}
		})
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	values := []any{
		event.NewBullet(1, 2, 3, 0.5, "a", "b", true, 42),
		&event.BattleResults{TeamLeaderName: "a", Rank: 2, Score: 3.5, Firsts: 1},
		event.RobotStatus{Energy: 1, X: 2, Y: 3, Time: 4},
		event.BulletStatus{ID: 5, X: 6, Y: 7, Victim: "c", Active: true},
	}
	for _, v := range values {
		frame, err := Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%T): %v", v, err)
		}
		got, err := Unmarshal(frame)
		if err != nil {
			t.Fatalf("Unmarshal(%T): %v", v, err)
		}
		if !reflect.DeepEqual(got, v) {
			t.Errorf("%T: got %#v, want %#v", v, got, v)
		}
	}
}

func TestUnsupportedEvents(t *testing.T) {
	c := event.NewConditionFunc("c", func() bool { return true })
	for _, e := range []event.Event{
		event.NewCustomEvent(c),
		event.NewMessageEvent("a", []byte{1}),
		event.NewPaintEvent(),
	} {
		if _, err := Marshal(e); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: err = %v, want ErrUnsupported", e.Kind(), err)
		}
		if _, err := CopyEvent(e); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s copy: err = %v, want ErrUnsupported", e.Kind(), err)
		}
	}
}

func TestFrameValidation(t *testing.T) {
	frame, err := Marshal(event.NewWinEvent())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	badMagic := bytes.Clone(frame)
	badMagic[0] = 0
	if _, err := Unmarshal(badMagic); err == nil {
		t.Error("expected bad magic error")
	}

	if _, err := Unmarshal(frame[:HeaderSize-1]); err == nil {
		t.Error("expected short header error")
	}

	truncated, _ := Marshal(event.NewScannedRobotEvent("x", 1, 2, 3, 4, 5, false))
	if _, err := UnmarshalRecord(truncated[HeaderSize : len(truncated)-3]); err == nil {
		t.Error("expected truncated record error")
	}
}

func TestStreamFrames(t *testing.T) {
	var buf bytes.Buffer
	events := []event.Event{
		event.NewHitWallEvent(1),
		event.NewRobotDeathEvent("a"),
		event.NewRoundEndedEvent(0, 10, 10),
	}
	for _, e := range events {
		if err := WriteFrame(&buf, e); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	for i, want := range events {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame %d: %v", i, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("frame %d: got %#v, want %#v", i, got, want)
		}
	}
}

func TestSize(t *testing.T) {
	n, err := Size(event.NewHitWallEvent(0))
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 1+8 {
		t.Errorf("size = %d, want 9", n)
	}
	if _, err := Size(struct{}{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Size(struct{}{}) err = %v", err)
	}
}
