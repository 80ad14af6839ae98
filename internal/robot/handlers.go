package robot

import "github.com/robo-code/robocode-sub000/internal/event"

// Handler interfaces. A robot implements the ones it cares about; the rest
// of the events it receives are dropped after dispatch.
type (
	StatusHandler          interface{ OnStatus(e *event.StatusEvent) }
	ScannedRobotHandler    interface{ OnScannedRobot(e *event.ScannedRobotEvent) }
	HitRobotHandler        interface{ OnHitRobot(e *event.HitRobotEvent) }
	HitWallHandler         interface{ OnHitWall(e *event.HitWallEvent) }
	HitByBulletHandler     interface{ OnHitByBullet(e *event.HitByBulletEvent) }
	BulletHitHandler       interface{ OnBulletHit(e *event.BulletHitEvent) }
	BulletHitBulletHandler interface{ OnBulletHitBullet(e *event.BulletHitBulletEvent) }
	BulletMissedHandler    interface{ OnBulletMissed(e *event.BulletMissedEvent) }
	RobotDeathHandler      interface{ OnRobotDeath(e *event.RobotDeathEvent) }
	DeathHandler           interface{ OnDeath(e *event.DeathEvent) }
	WinHandler             interface{ OnWin(e *event.WinEvent) }
	SkippedTurnHandler     interface{ OnSkippedTurn(e *event.SkippedTurnEvent) }
	CustomEventHandler     interface{ OnCustomEvent(e *event.CustomEvent) }
	MessageHandler         interface{ OnMessageReceived(e *event.MessageEvent) }
	BattleEndedHandler     interface{ OnBattleEnded(e *event.BattleEndedEvent) }
	RoundEndedHandler      interface{ OnRoundEnded(e *event.RoundEndedEvent) }
	PaintHandler           interface{ OnPaint(e *event.PaintEvent) }

	KeyPressedHandler      interface{ OnKeyPressed(e *event.KeyEvent) }
	KeyReleasedHandler     interface{ OnKeyReleased(e *event.KeyEvent) }
	KeyTypedHandler        interface{ OnKeyTyped(e *event.KeyEvent) }
	MouseClickedHandler    interface{ OnMouseClicked(e *event.MouseEvent) }
	MouseDraggedHandler    interface{ OnMouseDragged(e *event.MouseEvent) }
	MouseEnteredHandler    interface{ OnMouseEntered(e *event.MouseEvent) }
	MouseExitedHandler     interface{ OnMouseExited(e *event.MouseEvent) }
	MouseMovedHandler      interface{ OnMouseMoved(e *event.MouseEvent) }
	MousePressedHandler    interface{ OnMousePressed(e *event.MouseEvent) }
	MouseReleasedHandler   interface{ OnMouseReleased(e *event.MouseEvent) }
	MouseWheelMovedHandler interface{ OnMouseWheelMoved(e *event.MouseEvent) }
)

// handlerTable maps each event kind to the robot's handler, resolved once
// when the robot is attached.
type handlerTable [event.NumKinds]func(event.Event)

func bind[E event.Event](t *handlerTable, k event.Kind, fn func(E)) {
	t[k] = func(e event.Event) { fn(e.(E)) }
}

func newHandlerTable(bot any) *handlerTable {
	t := new(handlerTable)

	if h, ok := bot.(StatusHandler); ok {
		bind(t, event.KindStatus, h.OnStatus)
	}
	if h, ok := bot.(ScannedRobotHandler); ok {
		bind(t, event.KindScannedRobot, h.OnScannedRobot)
	}
	if h, ok := bot.(HitRobotHandler); ok {
		bind(t, event.KindHitRobot, h.OnHitRobot)
	}
	if h, ok := bot.(HitWallHandler); ok {
		bind(t, event.KindHitWall, h.OnHitWall)
	}
	if h, ok := bot.(HitByBulletHandler); ok {
		bind(t, event.KindHitByBullet, h.OnHitByBullet)
	}
	if h, ok := bot.(BulletHitHandler); ok {
		bind(t, event.KindBulletHit, h.OnBulletHit)
	}
	if h, ok := bot.(BulletHitBulletHandler); ok {
		bind(t, event.KindBulletHitBullet, h.OnBulletHitBullet)
	}
	if h, ok := bot.(BulletMissedHandler); ok {
		bind(t, event.KindBulletMissed, h.OnBulletMissed)
	}
	if h, ok := bot.(RobotDeathHandler); ok {
		bind(t, event.KindRobotDeath, h.OnRobotDeath)
	}
	if h, ok := bot.(DeathHandler); ok {
		bind(t, event.KindDeath, h.OnDeath)
	}
	if h, ok := bot.(WinHandler); ok {
		bind(t, event.KindWin, h.OnWin)
	}
	if h, ok := bot.(SkippedTurnHandler); ok {
		bind(t, event.KindSkippedTurn, h.OnSkippedTurn)
	}
	if h, ok := bot.(CustomEventHandler); ok {
		bind(t, event.KindCustom, h.OnCustomEvent)
	}
	if h, ok := bot.(MessageHandler); ok {
		bind(t, event.KindMessage, h.OnMessageReceived)
	}
	if h, ok := bot.(BattleEndedHandler); ok {
		bind(t, event.KindBattleEnded, h.OnBattleEnded)
	}
	if h, ok := bot.(RoundEndedHandler); ok {
		bind(t, event.KindRoundEnded, h.OnRoundEnded)
	}
	if h, ok := bot.(PaintHandler); ok {
		bind(t, event.KindPaint, h.OnPaint)
	}

	if h, ok := bot.(KeyPressedHandler); ok {
		bind(t, event.KindKeyPressed, h.OnKeyPressed)
	}
	if h, ok := bot.(KeyReleasedHandler); ok {
		bind(t, event.KindKeyReleased, h.OnKeyReleased)
	}
	if h, ok := bot.(KeyTypedHandler); ok {
		bind(t, event.KindKeyTyped, h.OnKeyTyped)
	}
	if h, ok := bot.(MouseClickedHandler); ok {
		bind(t, event.KindMouseClicked, h.OnMouseClicked)
	}
	if h, ok := bot.(MouseDraggedHandler); ok {
		bind(t, event.KindMouseDragged, h.OnMouseDragged)
	}
	if h, ok := bot.(MouseEnteredHandler); ok {
		bind(t, event.KindMouseEntered, h.OnMouseEntered)
	}
	if h, ok := bot.(MouseExitedHandler); ok {
		bind(t, event.KindMouseExited, h.OnMouseExited)
	}
	if h, ok := bot.(MouseMovedHandler); ok {
		bind(t, event.KindMouseMoved, h.OnMouseMoved)
	}
	if h, ok := bot.(MousePressedHandler); ok {
		bind(t, event.KindMousePressed, h.OnMousePressed)
	}
	if h, ok := bot.(MouseReleasedHandler); ok {
		bind(t, event.KindMouseReleased, h.OnMouseReleased)
	}
	if h, ok := bot.(MouseWheelMovedHandler); ok {
		bind(t, event.KindMouseWheelMoved, h.OnMouseWheelMoved)
	}

	return t
}

func (t *handlerTable) has(k event.Kind) bool {
	return int(k) < len(t) && t[k] != nil
}

func (t *handlerTable) call(e event.Event) {
	if fn := t[e.Kind()]; fn != nil {
		fn(e)
	}
}
