package battle

import (
	"math"

	"github.com/robo-code/robocode-sub000/internal/rules"
)

// clampTurn limits a remaining turn to what one turn at rate allows.
func clampTurn(remaining, rate float64) float64 {
	if remaining > 0 {
		return math.Min(remaining, rate)
	}
	return math.Max(remaining, -rate)
}

func (p *peer) coolGun(rate float64) {
	p.gunHeat = math.Max(0, p.gunHeat-rate)
}

// turnBody turns the body. The gun and radar follow unless the robot
// asked them to turn independently.
func (p *peer) turnBody() {
	rate := math.Min(p.cmds.MaxTurnRate, rules.TurnRate(p.velocity))
	turn := clampTurn(p.cmds.BodyTurn, rate)
	if turn == 0 {
		return
	}
	p.heading = rules.NormalAbsoluteAngle(p.heading + turn)
	p.cmds.BodyTurn -= turn
	if rules.IsNear(p.cmds.BodyTurn, 0) {
		p.cmds.BodyTurn = 0
	}
	if !p.cmds.AdjustGunForBody {
		p.gunHeading = rules.NormalAbsoluteAngle(p.gunHeading + turn)
	}
	if !p.cmds.AdjustRadarForBody {
		p.radarHeading = rules.NormalAbsoluteAngle(p.radarHeading + turn)
	}
}

func (p *peer) turnGun() {
	turn := clampTurn(p.cmds.GunTurn, rules.GunTurnRate)
	if turn == 0 {
		return
	}
	p.gunHeading = rules.NormalAbsoluteAngle(p.gunHeading + turn)
	p.cmds.GunTurn -= turn
	if rules.IsNear(p.cmds.GunTurn, 0) {
		p.cmds.GunTurn = 0
	}
	if !p.cmds.AdjustRadarForGun {
		p.radarHeading = rules.NormalAbsoluteAngle(p.radarHeading + turn)
	}
}

func (p *peer) turnRadar() {
	turn := clampTurn(p.cmds.RadarTurn, rules.RadarTurnRate)
	if turn == 0 {
		return
	}
	p.radarHeading = rules.NormalAbsoluteAngle(p.radarHeading + turn)
	p.cmds.RadarTurn -= turn
	if rules.IsNear(p.cmds.RadarTurn, 0) {
		p.cmds.RadarTurn = 0
	}
}

// move advances the body one turn along its heading. A robot that cannot
// stop within the remaining distance overshoots and comes back; once it
// has stopped the remaining distance is cleared.
func (p *peer) move() {
	distance := p.cmds.Distance
	if math.IsNaN(distance) {
		distance = 0
	}

	p.velocity = nextVelocity(p.velocity, distance, p.cmds.MaxVelocity)

	if rules.IsNear(p.velocity, 0) && p.overDriving {
		distance = 0
		p.overDriving = false
	}
	if distance*p.velocity >= 0 {
		p.overDriving = stoppingDistance(p.velocity) > math.Abs(distance)
	}

	if !math.IsInf(distance, 0) {
		distance -= p.velocity
		if rules.IsNear(distance, 0) {
			distance = 0
		}
	}
	p.cmds.Distance = distance

	if p.velocity != 0 {
		p.x += p.velocity * math.Sin(p.heading)
		p.y += p.velocity * math.Cos(p.heading)
	}
}

// nextVelocity accelerates toward the fastest velocity that can still stop
// within distance, capped at maxVelocity.
func nextVelocity(velocity, distance, maxVelocity float64) float64 {
	if distance < 0 {
		return -nextVelocity(-velocity, -distance, maxVelocity)
	}

	goal := maxVelocity
	if !math.IsInf(distance, 1) {
		goal = math.Min(maxVelocityFor(distance), maxVelocity)
	}

	if velocity >= 0 {
		return math.Max(velocity-rules.Deceleration, math.Min(goal, velocity+rules.Acceleration))
	}
	return math.Max(velocity-rules.Acceleration, math.Min(goal, velocity+maxDeceleration(-velocity)))
}

// maxVelocityFor is the highest velocity from which the robot can still
// come to rest after exactly distance.
func maxVelocityFor(distance float64) float64 {
	decelTime := math.Max(1, math.Ceil((math.Sqrt((4*2/rules.Deceleration)*distance+1)-1)/2))
	if math.IsInf(decelTime, 1) {
		return rules.MaxVelocity
	}
	decelDist := (decelTime / 2.0) * (decelTime - 1) * rules.Deceleration
	return ((decelTime - 1) * rules.Deceleration) + ((distance - decelDist) / decelTime)
}

// maxDeceleration is how much speed can change in one turn when moving
// backward toward zero and beyond.
func maxDeceleration(speed float64) float64 {
	decelTime := speed / rules.Deceleration
	accelTime := 1 - decelTime
	return math.Min(1, decelTime)*rules.Deceleration + math.Max(0, accelTime)*rules.Acceleration
}

func stoppingDistance(velocity float64) float64 {
	speed := math.Abs(velocity)
	distance := 0.0
	for speed > 0 {
		speed = nextVelocity(speed, 0, rules.MaxVelocity)
		distance += speed
	}
	return distance
}

// Wall angles, clockwise from north.
var (
	northWall = 0.0
	eastWall  = math.Pi / 2
	southWall = math.Pi
	westWall  = 3 * math.Pi / 2
)

// hitWall keeps the body inside the field. It returns the wall's bearing
// relative to the body and the damage taken, or ok false if the robot is
// clear of every wall.
func (p *peer) hitWall(width, height float64) (bearing, damage float64, ok bool) {
	const half = rules.RobotHalfSize

	wall := 0.0
	switch {
	case p.x < half:
		wall, p.x = westWall, half
	case p.x > width-half:
		wall, p.x = eastWall, width-half
	case p.y < half:
		wall, p.y = southWall, half
	case p.y > height-half:
		wall, p.y = northWall, height-half
	default:
		return 0, 0, false
	}
	// A robot pressed into a corner may touch a second wall.
	p.x = math.Min(math.Max(p.x, half), width-half)
	p.y = math.Min(math.Max(p.y, half), height-half)

	damage = rules.WallHitDamage(p.velocity)
	p.velocity = 0
	p.cmds.Distance = 0
	p.overDriving = false
	return rules.NormalRelativeAngle(wall - p.heading), damage, true
}

// overlaps reports whether the square bodies of p and o intersect.
func (p *peer) overlaps(o *peer) bool {
	return math.Abs(p.x-o.x) < rules.RobotSize && math.Abs(p.y-o.y) < rules.RobotSize
}

// bearingTo is the angle from p's body heading to o, in (-pi, pi].
func (p *peer) bearingTo(o *peer) float64 {
	return rules.NormalRelativeAngle(math.Atan2(o.x-p.x, o.y-p.y) - p.heading)
}

// rams reports whether p drove into o: o lies ahead of p's direction of
// travel.
func (p *peer) rams(o *peer) bool {
	b := p.bearingTo(o)
	switch {
	case p.velocity > 0:
		return b > -math.Pi/2 && b < math.Pi/2
	case p.velocity < 0:
		return b < -math.Pi/2 || b > math.Pi/2
	default:
		return false
	}
}
