package battle

import (
	"math"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

// MaxBullets is a hard cap on bullets in flight.
const MaxBullets = 512

type bulletState uint8

const (
	bulletFlying bulletState = iota
	bulletHitRobot
	bulletHitBullet
	bulletHitWall
)

// projectile is a bullet in flight. Its id is the one the owner's proxy
// assigned, so the owner's Bullet objects can be updated in place.
type projectile struct {
	id      int
	owner   *peer
	victim  *peer
	power   float64
	heading float64

	x, y         float64
	lastX, lastY float64
	state        bulletState
}

func newProjectile(owner *peer, id int, power float64) *projectile {
	return &projectile{
		id:      id,
		owner:   owner,
		power:   power,
		heading: owner.gunHeading,
		x:       owner.x,
		y:       owner.y,
		lastX:   owner.x,
		lastY:   owner.y,
	}
}

func (b *projectile) active() bool { return b.state == bulletFlying }

// update moves the bullet one turn along its heading.
func (b *projectile) update() {
	speed := rules.BulletSpeed(b.power)
	b.lastX, b.lastY = b.x, b.y
	b.x += speed * math.Sin(b.heading)
	b.y += speed * math.Cos(b.heading)
}

// outside reports whether the bullet has left the field.
func (b *projectile) outside(width, height float64) bool {
	return b.x < 0 || b.y < 0 || b.x > width || b.y > height
}

// hits reports whether the bullet's path this turn crossed the body of p.
func (b *projectile) hits(p *peer) bool {
	const half = rules.RobotHalfSize
	return segmentHitsRect(b.lastX, b.lastY, b.x, b.y, p.x-half, p.y-half, p.x+half, p.y+half)
}

// crosses reports whether two bullet paths intersected this turn.
func (b *projectile) crosses(o *projectile) bool {
	return segmentsIntersect(b.lastX, b.lastY, b.x, b.y, o.lastX, o.lastY, o.x, o.y)
}

func (b *projectile) victimName() string {
	if b.victim == nil {
		return ""
	}
	return b.victim.name
}

// bullet renders the projectile as the object robots see.
func (b *projectile) bullet() *event.Bullet {
	return event.NewBullet(b.heading, b.x, b.y, b.power, b.owner.name, b.victimName(), b.active(), b.id)
}

func (b *projectile) status() event.BulletStatus {
	return event.BulletStatus{
		ID:     b.id,
		X:      b.x,
		Y:      b.y,
		Victim: b.victimName(),
		Active: b.active(),
	}
}

// segmentHitsRect clips the segment against the rectangle (Liang-Barsky).
func segmentHitsRect(x1, y1, x2, y2, minX, minY, maxX, maxY float64) bool {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return false
			}
			t1 = math.Min(t1, r)
		}
		return true
	}

	return clip(-dx, x1-minX) && clip(dx, maxX-x1) &&
		clip(-dy, y1-minY) && clip(dy, maxY-y1)
}

func segmentsIntersect(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 float64) bool {
	cross := func(ox, oy, ax, ay, bx, by float64) float64 {
		return (ax-ox)*(by-oy) - (ay-oy)*(bx-ox)
	}
	d1 := cross(bx1, by1, bx2, by2, ax1, ay1)
	d2 := cross(bx1, by1, bx2, by2, ax2, ay2)
	d3 := cross(ax1, ay1, ax2, ay2, bx1, by1)
	d4 := cross(ax1, ay1, ax2, ay2, bx2, by2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
