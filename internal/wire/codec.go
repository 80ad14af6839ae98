package wire

import (
	"errors"
	"fmt"

	"github.com/robo-code/robocode-sub000/internal/event"
)

// ErrUnsupported is returned for values that never cross the boundary:
// custom, message and paint events, and unknown types.
var ErrUnsupported = errors.New("wire: unsupported type")

// Marshal encodes v as a framed record.
func Marshal(v any) ([]byte, error) {
	body, err := AppendRecord(nil, v)
	if err != nil {
		return nil, err
	}
	if len(body) > MaxMessageSize {
		return nil, fmt.Errorf("message too large: %d > %d", len(body), MaxMessageSize)
	}
	frame := make([]byte, 0, HeaderSize+len(body))
	frame = appendHeader(frame, len(body))
	return append(frame, body...), nil
}

// Unmarshal decodes a framed record produced by Marshal.
func Unmarshal(frame []byte) (any, error) {
	h, err := parseHeader(frame)
	if err != nil {
		return nil, err
	}
	body := frame[HeaderSize:]
	if int(h.Length) != len(body) {
		return nil, fmt.Errorf("length mismatch: header %d, body %d", h.Length, len(body))
	}
	return UnmarshalRecord(body)
}

// Size returns the encoded size of v's record, without the frame header.
func Size(v any) (int, error) {
	b, err := AppendRecord(nil, v)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// AppendRecord appends the record for v to dst.
func AppendRecord(dst []byte, v any) ([]byte, error) {
	e := &encoder{buf: dst}
	if err := e.record(v); err != nil {
		return dst, err
	}
	return e.buf, nil
}

// UnmarshalRecord decodes one unframed record.
func UnmarshalRecord(b []byte) (any, error) {
	d := &decoder{buf: b}
	v := d.record()
	if d.err != nil {
		return nil, fmt.Errorf("decode record: %w", d.err)
	}
	return v, nil
}

// CopyEvent deep copies e through the codec. Bullets that the format
// carries by id only come back as placeholders; the receiver resolves
// them with event.Bullets.Patch.
func CopyEvent(e event.Event) (event.Event, error) {
	b, err := AppendRecord(nil, e)
	if err != nil {
		return nil, err
	}
	v, err := UnmarshalRecord(b)
	if err != nil {
		return nil, err
	}
	copied, ok := v.(event.Event)
	if !ok {
		return nil, fmt.Errorf("decoded %T is not an event", v)
	}
	return copied, nil
}

func (e *encoder) record(v any) error {
	switch x := v.(type) {
	case nil:
		e.byte(TypeTerminator)
	case *event.Bullet:
		e.bullet(x)
	case *event.BattleResults:
		if x == nil {
			e.byte(TypeTerminator)
			return nil
		}
		e.byte(TypeBattleResults)
		e.string(x.TeamLeaderName)
		e.int(x.Rank)
		e.double(x.Score)
		e.double(x.Survival)
		e.double(x.LastSurvivorBonus)
		e.double(x.BulletDamage)
		e.double(x.BulletDamageBonus)
		e.double(x.RamDamage)
		e.double(x.RamDamageBonus)
		e.int(x.Firsts)
		e.int(x.Seconds)
		e.int(x.Thirds)
	case event.RobotStatus:
		e.status(&x)
	case *event.RobotStatus:
		e.status(x)
	case event.BulletStatus:
		e.byte(TypeBulletStatus)
		e.int(x.ID)
		e.double(x.X)
		e.double(x.Y)
		e.string(x.Victim)
		e.bool(x.Active)
	case event.Event:
		return e.event(x)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
	return nil
}

func (e *encoder) bullet(b *event.Bullet) {
	if b == nil {
		e.byte(TypeTerminator)
		return
	}
	e.byte(TypeBullet)
	e.double(b.Heading())
	e.double(b.X())
	e.double(b.Y())
	e.double(b.Power())
	e.string(b.Owner())
	e.string(b.Victim())
	e.bool(b.IsActive())
	e.int(b.ID())
}

func (e *encoder) status(s *event.RobotStatus) {
	e.byte(TypeRobotStatus)
	e.double(s.Energy)
	e.double(s.X)
	e.double(s.Y)
	e.double(s.Heading)
	e.double(s.GunHeading)
	e.double(s.RadarHeading)
	e.double(s.Velocity)
	e.double(s.BodyTurnRemaining)
	e.double(s.RadarTurnRemaining)
	e.double(s.GunTurnRemaining)
	e.double(s.DistanceRemaining)
	e.double(s.GunHeat)
	e.int(s.Others)
	e.int(s.RoundNum)
	e.int(s.NumRounds)
	e.long(s.Time)
}

func bulletID(b *event.Bullet) int {
	if b == nil {
		return -1
	}
	return b.ID()
}

func (e *encoder) event(ev event.Event) error {
	switch x := ev.(type) {
	case *event.StatusEvent:
		e.byte(TypeStatus)
		e.status(&x.Status)
	case *event.ScannedRobotEvent:
		e.byte(TypeScannedRobot)
		e.string(x.Name)
		e.double(x.Energy)
		e.double(x.Heading)
		e.double(x.Bearing)
		e.double(x.Distance)
		e.double(x.Velocity)
		e.bool(x.Sentry)
	case *event.HitRobotEvent:
		e.byte(TypeHitRobot)
		e.string(x.Name)
		e.double(x.Bearing)
		e.double(x.Energy)
		e.bool(x.AtFault)
	case *event.HitWallEvent:
		e.byte(TypeHitWall)
		e.double(x.Bearing)
	case *event.HitByBulletEvent:
		e.byte(TypeHitByBullet)
		e.bullet(x.Bullet)
		e.double(x.Bearing)
	case *event.BulletHitEvent:
		e.byte(TypeBulletHit)
		e.int(bulletID(x.Bullet))
		e.string(x.Name)
		e.double(x.Energy)
	case *event.BulletHitBulletEvent:
		e.byte(TypeBulletHitBullet)
		e.int(bulletID(x.Bullet))
		e.bullet(x.HitBullet)
	case *event.BulletMissedEvent:
		e.byte(TypeBulletMissed)
		e.int(bulletID(x.Bullet))
	case *event.RobotDeathEvent:
		e.byte(TypeRobotDeath)
		e.string(x.Name)
	case *event.DeathEvent:
		e.byte(TypeDeath)
	case *event.WinEvent:
		e.byte(TypeWin)
	case *event.SkippedTurnEvent:
		e.byte(TypeSkippedTurn)
		e.long(x.SkippedTurn)
	case *event.KeyEvent:
		e.byte(TypeKeyPressed + byte(x.Kind()-event.KindKeyPressed))
		e.int(int(x.KeyChar))
		e.int(x.KeyCode)
		e.int(x.Location)
		e.int(x.ID)
		e.int(x.Modifiers)
		e.long(x.When)
	case *event.MouseEvent:
		e.byte(TypeMouseClicked + byte(x.Kind()-event.KindMouseClicked))
		e.int(x.Button)
		e.int(x.ClickCount)
		e.int(x.X)
		e.int(x.Y)
		e.int(x.ID)
		e.int(x.Modifiers)
		e.long(x.When)
		if x.Kind() == event.KindMouseWheelMoved {
			e.int(x.ScrollType)
			e.int(x.ScrollAmount)
			e.int(x.WheelRotation)
		}
	case *event.BattleEndedEvent:
		e.byte(TypeBattleEnded)
		e.bool(x.Aborted)
		return e.record(x.Results)
	case *event.RoundEndedEvent:
		e.byte(TypeRoundEnded)
		e.int(x.Round)
		e.int(x.Turns)
		e.int(x.TotalTurns)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, ev.Kind())
	}
	return nil
}

func (d *decoder) record() any {
	tag := d.byte()
	if d.err != nil {
		return nil
	}
	switch tag {
	case TypeTerminator:
		return nil
	case TypeBullet:
		return d.bulletBody()
	case TypeBattleResults:
		return d.resultsBody()
	case TypeRobotStatus:
		s := d.statusBody()
		return s
	case TypeBulletStatus:
		return event.BulletStatus{
			ID:     d.int(),
			X:      d.double(),
			Y:      d.double(),
			Victim: d.string(),
			Active: d.bool(),
		}
	}
	return d.eventBody(tag)
}

func (d *decoder) bulletBody() *event.Bullet {
	heading := d.double()
	x := d.double()
	y := d.double()
	power := d.double()
	owner := d.string()
	victim := d.string()
	active := d.bool()
	id := d.int()
	return event.NewBullet(heading, x, y, power, owner, victim, active, id)
}

func (d *decoder) bulletRecord() *event.Bullet {
	switch d.byte() {
	case TypeBullet:
		return d.bulletBody()
	case TypeTerminator:
		return nil
	}
	if d.err == nil {
		d.err = errors.New("expected bullet record")
	}
	return nil
}

func (d *decoder) resultsBody() *event.BattleResults {
	return &event.BattleResults{
		TeamLeaderName:    d.string(),
		Rank:              d.int(),
		Score:             d.double(),
		Survival:          d.double(),
		LastSurvivorBonus: d.double(),
		BulletDamage:      d.double(),
		BulletDamageBonus: d.double(),
		RamDamage:         d.double(),
		RamDamageBonus:    d.double(),
		Firsts:            d.int(),
		Seconds:           d.int(),
		Thirds:            d.int(),
	}
}

func (d *decoder) statusBody() event.RobotStatus {
	return event.RobotStatus{
		Energy:             d.double(),
		X:                  d.double(),
		Y:                  d.double(),
		Heading:            d.double(),
		GunHeading:         d.double(),
		RadarHeading:       d.double(),
		Velocity:           d.double(),
		BodyTurnRemaining:  d.double(),
		RadarTurnRemaining: d.double(),
		GunTurnRemaining:   d.double(),
		DistanceRemaining:  d.double(),
		GunHeat:            d.double(),
		Others:             d.int(),
		RoundNum:           d.int(),
		NumRounds:          d.int(),
		Time:               d.long(),
	}
}

func (d *decoder) eventBody(tag byte) any {
	switch tag {
	case TypeStatus:
		if d.byte() != TypeRobotStatus && d.err == nil {
			d.err = errors.New("expected robot status record")
		}
		return event.NewStatusEvent(d.statusBody())
	case TypeScannedRobot:
		name := d.string()
		energy := d.double()
		heading := d.double()
		bearing := d.double()
		distance := d.double()
		velocity := d.double()
		sentry := d.bool()
		return event.NewScannedRobotEvent(name, energy, bearing, distance, heading, velocity, sentry)
	case TypeHitRobot:
		name := d.string()
		bearing := d.double()
		energy := d.double()
		return event.NewHitRobotEvent(name, bearing, energy, d.bool())
	case TypeHitWall:
		return event.NewHitWallEvent(d.double())
	case TypeHitByBullet:
		b := d.bulletRecord()
		return event.NewHitByBulletEvent(d.double(), b)
	case TypeBulletHit:
		id := d.int()
		name := d.string()
		return event.NewBulletHitEvent(name, d.double(), event.BulletRef(id))
	case TypeBulletHitBullet:
		id := d.int()
		return event.NewBulletHitBulletEvent(event.BulletRef(id), d.bulletRecord())
	case TypeBulletMissed:
		return event.NewBulletMissedEvent(event.BulletRef(d.int()))
	case TypeRobotDeath:
		return event.NewRobotDeathEvent(d.string())
	case TypeDeath:
		return event.NewDeathEvent()
	case TypeWin:
		return event.NewWinEvent()
	case TypeSkippedTurn:
		return event.NewSkippedTurnEvent(d.long())
	case TypeKeyPressed, TypeKeyReleased, TypeKeyTyped:
		kind := event.KindKeyPressed + event.Kind(tag-TypeKeyPressed)
		keyChar := rune(d.int())
		keyCode := d.int()
		location := d.int()
		id := d.int()
		modifiers := d.int()
		return event.NewKeyEvent(kind, keyChar, keyCode, location, id, modifiers, d.long())
	case TypeMouseClicked, TypeMouseDragged, TypeMouseEntered, TypeMouseExited,
		TypeMouseMoved, TypeMousePressed, TypeMouseReleased, TypeMouseWheelMoved:
		kind := event.KindMouseClicked + event.Kind(tag-TypeMouseClicked)
		button := d.int()
		clicks := d.int()
		x := d.int()
		y := d.int()
		id := d.int()
		modifiers := d.int()
		m := event.NewMouseEvent(kind, button, clicks, x, y, id, modifiers, d.long())
		if kind == event.KindMouseWheelMoved {
			m.ScrollType = d.int()
			m.ScrollAmount = d.int()
			m.WheelRotation = d.int()
		}
		return m
	case TypeBattleEnded:
		aborted := d.bool()
		var results *event.BattleResults
		switch d.byte() {
		case TypeBattleResults:
			results = d.resultsBody()
		case TypeTerminator:
		default:
			if d.err == nil {
				d.err = errors.New("expected battle results record")
			}
		}
		return event.NewBattleEndedEvent(aborted, results)
	case TypeRoundEnded:
		round := d.int()
		turns := d.int()
		return event.NewRoundEndedEvent(round, turns, d.int())
	}
	if d.err == nil {
		d.err = fmt.Errorf("%w: tag %d", ErrUnsupported, tag)
	}
	return nil
}
