package event

// Kind discriminates the event variants a robot can receive.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindStatus
	KindScannedRobot
	KindHitRobot
	KindHitWall
	KindHitByBullet
	KindBulletHit
	KindBulletHitBullet
	KindBulletMissed
	KindRobotDeath
	KindDeath
	KindWin
	KindSkippedTurn
	KindCustom
	KindMessage
	KindKeyPressed
	KindKeyReleased
	KindKeyTyped
	KindMouseClicked
	KindMouseDragged
	KindMouseEntered
	KindMouseExited
	KindMouseMoved
	KindMousePressed
	KindMouseReleased
	KindMouseWheelMoved
	KindBattleEnded
	KindRoundEnded
	KindPaint

	numKinds
)

// NumKinds is the size of tables indexed by Kind.
const NumKinds = int(numKinds)

var kindNames = [numKinds]string{
	KindUnknown:         "UnknownEvent",
	KindStatus:          "StatusEvent",
	KindScannedRobot:    "ScannedRobotEvent",
	KindHitRobot:        "HitRobotEvent",
	KindHitWall:         "HitWallEvent",
	KindHitByBullet:     "HitByBulletEvent",
	KindBulletHit:       "BulletHitEvent",
	KindBulletHitBullet: "BulletHitBulletEvent",
	KindBulletMissed:    "BulletMissedEvent",
	KindRobotDeath:      "RobotDeathEvent",
	KindDeath:           "DeathEvent",
	KindWin:             "WinEvent",
	KindSkippedTurn:     "SkippedTurnEvent",
	KindCustom:          "CustomEvent",
	KindMessage:         "MessageEvent",
	KindKeyPressed:      "KeyPressedEvent",
	KindKeyReleased:     "KeyReleasedEvent",
	KindKeyTyped:        "KeyTypedEvent",
	KindMouseClicked:    "MouseClickedEvent",
	KindMouseDragged:    "MouseDraggedEvent",
	KindMouseEntered:    "MouseEnteredEvent",
	KindMouseExited:     "MouseExitedEvent",
	KindMouseMoved:      "MouseMovedEvent",
	KindMousePressed:    "MousePressedEvent",
	KindMouseReleased:   "MouseReleasedEvent",
	KindMouseWheelMoved: "MouseWheelMovedEvent",
	KindBattleEnded:     "BattleEndedEvent",
	KindRoundEnded:      "RoundEndedEvent",
	KindPaint:           "PaintEvent",
}

// String returns the event class name, e.g. "ScannedRobotEvent".
func (k Kind) String() string {
	if k >= numKinds {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// KindByName resolves an event class name to its Kind.
func KindByName(name string) (Kind, bool) {
	for k := KindStatus; k < numKinds; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindUnknown, false
}

// IsCritical reports whether events of this kind must be delivered even
// when the robot is behind or skipping turns.
func (k Kind) IsCritical() bool {
	switch k {
	case KindDeath, KindWin, KindSkippedTurn, KindBattleEnded, KindRoundEnded:
		return true
	default:
		return false
	}
}

// IsReserved reports whether the default priority of this kind is fixed.
func (k Kind) IsReserved() bool {
	return k.IsCritical() || k == KindCustom
}

// IsInteractive reports whether this is a keyboard or mouse event.
func (k Kind) IsInteractive() bool {
	return k >= KindKeyPressed && k <= KindMouseWheelMoved
}

// DefaultPriority is the priority events of this kind get unless the
// robot overrides it.
func (k Kind) DefaultPriority() int {
	switch k {
	case KindWin, KindSkippedTurn, KindBattleEnded, KindRoundEnded:
		return 100
	case KindStatus:
		return 99
	case KindCustom:
		return 80
	case KindMessage:
		return 75
	case KindRobotDeath:
		return 70
	case KindBulletMissed:
		return 60
	case KindBulletHitBullet:
		return 55
	case KindBulletHit:
		return 50
	case KindHitByBullet:
		return 40
	case KindHitWall:
		return 30
	case KindHitRobot:
		return 20
	case KindScannedRobot:
		return 10
	case KindPaint:
		return 5
	case KindDeath:
		return -1
	}
	if k.IsInteractive() {
		return 98
	}
	return 0
}
