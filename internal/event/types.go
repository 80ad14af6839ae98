package event

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/robo-code/robocode-sub000/internal/rules"
)

// StatusEvent is delivered every turn with the robot's current state.
type StatusEvent struct {
	Base
	Status RobotStatus
}

func NewStatusEvent(status RobotStatus) *StatusEvent {
	return &StatusEvent{Base: newBase(KindStatus), Status: status}
}

// ScannedRobotEvent is sent when the radar sweeps over another robot.
// Bearing is relative to the scanning robot's body heading.
type ScannedRobotEvent struct {
	Base
	Name     string
	Energy   float64
	Heading  float64
	Bearing  float64
	Distance float64
	Velocity float64
	Sentry   bool
}

func NewScannedRobotEvent(name string, energy, bearing, distance, heading, velocity float64, sentry bool) *ScannedRobotEvent {
	return &ScannedRobotEvent{
		Base:     newBase(KindScannedRobot),
		Name:     name,
		Energy:   energy,
		Heading:  heading,
		Bearing:  bearing,
		Distance: distance,
		Velocity: velocity,
		Sentry:   sentry,
	}
}

func (e *ScannedRobotEvent) BearingDegrees() float64 { return rules.ToDegrees(e.Bearing) }
func (e *ScannedRobotEvent) HeadingDegrees() float64 { return rules.ToDegrees(e.Heading) }

// HitRobotEvent is sent when the robot collides with another robot.
// AtFault is true when this robot was moving toward the other one.
type HitRobotEvent struct {
	Base
	Name    string
	Bearing float64
	Energy  float64
	AtFault bool
}

func NewHitRobotEvent(name string, bearing, energy float64, atFault bool) *HitRobotEvent {
	return &HitRobotEvent{Base: newBase(KindHitRobot), Name: name, Bearing: bearing, Energy: energy, AtFault: atFault}
}

func (e *HitRobotEvent) BearingDegrees() float64 { return rules.ToDegrees(e.Bearing) }

type HitWallEvent struct {
	Base
	Bearing float64
}

func NewHitWallEvent(bearing float64) *HitWallEvent {
	return &HitWallEvent{Base: newBase(KindHitWall), Bearing: bearing}
}

func (e *HitWallEvent) BearingDegrees() float64 { return rules.ToDegrees(e.Bearing) }

// HitByBulletEvent is sent when an enemy bullet hits this robot.
type HitByBulletEvent struct {
	Base
	Bearing float64
	Bullet  *Bullet
}

func NewHitByBulletEvent(bearing float64, bullet *Bullet) *HitByBulletEvent {
	return &HitByBulletEvent{Base: newBase(KindHitByBullet), Bearing: bearing, Bullet: bullet}
}

func (e *HitByBulletEvent) BearingDegrees() float64 { return rules.ToDegrees(e.Bearing) }

// BulletHitEvent is sent when one of this robot's bullets hits a robot.
// Name and Energy describe the victim after the hit.
type BulletHitEvent struct {
	Base
	Name   string
	Energy float64
	Bullet *Bullet
}

func NewBulletHitEvent(name string, energy float64, bullet *Bullet) *BulletHitEvent {
	return &BulletHitEvent{Base: newBase(KindBulletHit), Name: name, Energy: energy, Bullet: bullet}
}

// BulletHitBulletEvent is sent when one of this robot's bullets collides
// with another bullet.
type BulletHitBulletEvent struct {
	Base
	Bullet    *Bullet
	HitBullet *Bullet
}

func NewBulletHitBulletEvent(bullet, hitBullet *Bullet) *BulletHitBulletEvent {
	return &BulletHitBulletEvent{Base: newBase(KindBulletHitBullet), Bullet: bullet, HitBullet: hitBullet}
}

// BulletMissedEvent is sent when one of this robot's bullets leaves the field.
type BulletMissedEvent struct {
	Base
	Bullet *Bullet
}

func NewBulletMissedEvent(bullet *Bullet) *BulletMissedEvent {
	return &BulletMissedEvent{Base: newBase(KindBulletMissed), Bullet: bullet}
}

type RobotDeathEvent struct {
	Base
	Name string
}

func NewRobotDeathEvent(name string) *RobotDeathEvent {
	return &RobotDeathEvent{Base: newBase(KindRobotDeath), Name: name}
}

type DeathEvent struct{ Base }

func NewDeathEvent() *DeathEvent { return &DeathEvent{Base: newBase(KindDeath)} }

type WinEvent struct{ Base }

func NewWinEvent() *WinEvent { return &WinEvent{Base: newBase(KindWin)} }

// SkippedTurnEvent reports a turn the robot did not commit in time.
type SkippedTurnEvent struct {
	Base
	SkippedTurn int64
}

func NewSkippedTurnEvent(turn int64) *SkippedTurnEvent {
	return &SkippedTurnEvent{Base: newBase(KindSkippedTurn), SkippedTurn: turn}
}

// CustomEvent wraps a Condition whose test returned true. It takes the
// condition's priority at creation.
type CustomEvent struct {
	Base
	Condition *Condition
}

func NewCustomEvent(c *Condition) *CustomEvent {
	e := &CustomEvent{Base: newBase(KindCustom), Condition: c}
	if c != nil {
		e.priority = c.Priority()
	}
	return e
}

// MessageEvent carries a team message. The payload is gob encoded.
type MessageEvent struct {
	Base
	Sender  string
	payload []byte
}

func NewMessageEvent(sender string, payload []byte) *MessageEvent {
	return &MessageEvent{Base: newBase(KindMessage), Sender: sender, payload: payload}
}

// Payload returns the raw encoded message.
func (e *MessageEvent) Payload() []byte { return e.payload }

// Decode decodes the message into v, which must be a pointer to the type
// the sender encoded.
func (e *MessageEvent) Decode(v any) error {
	if err := gob.NewDecoder(bytes.NewReader(e.payload)).Decode(v); err != nil {
		return fmt.Errorf("decode message from %s: %w", e.Sender, err)
	}
	return nil
}

// EncodeMessage gob encodes a team message payload.
func EncodeMessage(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return buf.Bytes(), nil
}

// KeyEvent covers KeyPressed, KeyReleased and KeyTyped.
type KeyEvent struct {
	Base
	KeyChar   rune
	KeyCode   int
	Location  int
	ID        int
	Modifiers int
	When      int64
}

func NewKeyEvent(kind Kind, keyChar rune, keyCode, location, id, modifiers int, when int64) *KeyEvent {
	if kind < KindKeyPressed || kind > KindKeyTyped {
		kind = KindKeyPressed
	}
	return &KeyEvent{Base: newBase(kind), KeyChar: keyChar, KeyCode: keyCode, Location: location, ID: id, Modifiers: modifiers, When: when}
}

// MouseEvent covers all mouse kinds. The wheel fields are only meaningful
// for MouseWheelMoved.
type MouseEvent struct {
	Base
	Button        int
	ClickCount    int
	X, Y          int
	ID            int
	Modifiers     int
	When          int64
	ScrollType    int
	ScrollAmount  int
	WheelRotation int
}

func NewMouseEvent(kind Kind, button, clickCount, x, y, id, modifiers int, when int64) *MouseEvent {
	if kind < KindMouseClicked || kind > KindMouseWheelMoved {
		kind = KindMouseMoved
	}
	return &MouseEvent{Base: newBase(kind), Button: button, ClickCount: clickCount, X: x, Y: y, ID: id, Modifiers: modifiers, When: when}
}

// BattleEndedEvent is the last event of a battle. Results is nil when the
// battle was aborted.
type BattleEndedEvent struct {
	Base
	Aborted bool
	Results *BattleResults
}

func NewBattleEndedEvent(aborted bool, results *BattleResults) *BattleEndedEvent {
	return &BattleEndedEvent{Base: newBase(KindBattleEnded), Aborted: aborted, Results: results}
}

type RoundEndedEvent struct {
	Base
	Round      int
	Turns      int
	TotalTurns int
}

func NewRoundEndedEvent(round, turns, totalTurns int) *RoundEndedEvent {
	return &RoundEndedEvent{Base: newBase(KindRoundEnded), Round: round, Turns: turns, TotalTurns: totalTurns}
}

// PaintEvent asks the robot to paint its debug graphics. Local only.
type PaintEvent struct{ Base }

func NewPaintEvent() *PaintEvent { return &PaintEvent{Base: newBase(KindPaint)} }
