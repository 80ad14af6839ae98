package battle

import (
	"math"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

// scanning reports whether p's radar sweeps this turn: it moved, or the
// robot asked for a scan.
func (p *peer) scanning() bool {
	return p.cmds.Scan || p.radarHeading != p.lastRadarHeading
}

// sees reports whether o lies in the arc p's radar swept this turn.
func (p *peer) sees(o *peer) bool {
	dx, dy := o.x-p.x, o.y-p.y
	dist := math.Hypot(dx, dy)
	if dist > rules.RadarScanRadius {
		return false
	}

	halfWidth := math.Atan(rules.RobotHalfSize * math.Sqrt2 / dist)
	offset := rules.NormalRelativeAngle(math.Atan2(dx, dy) - p.lastRadarHeading)
	extent := rules.NormalRelativeAngle(p.radarHeading - p.lastRadarHeading)

	if extent >= 0 {
		return offset >= -halfWidth && offset <= extent+halfWidth
	}
	return offset <= halfWidth && offset >= extent-halfWidth
}

// scanEvent describes o as p's radar saw it.
func (p *peer) scanEvent(o *peer) *event.ScannedRobotEvent {
	return event.NewScannedRobotEvent(
		o.name,
		o.energy,
		p.bearingTo(o),
		math.Hypot(o.x-p.x, o.y-p.y),
		o.heading,
		o.velocity,
		false,
	)
}
