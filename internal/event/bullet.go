package event

import "github.com/robo-code/robocode-sub000/internal/rules"

// Bullet is a robot's handle on a fired bullet. Only the engine side moves
// it; robot code can read it but has no way to change it.
type Bullet struct {
	heading float64
	x, y    float64
	power   float64
	owner   string
	victim  string
	active  bool
	id      int
}

func NewBullet(heading, x, y, power float64, owner, victim string, active bool, id int) *Bullet {
	return &Bullet{
		heading: heading,
		x:       x,
		y:       y,
		power:   power,
		owner:   owner,
		victim:  victim,
		active:  active,
		id:      id,
	}
}

// placeholderBullet stands in for a bullet decoded from an id-only record
// until Bullets.Patch swaps in the live object.
func placeholderBullet(id int) *Bullet {
	return &Bullet{id: id}
}

// BulletRef returns an id-only placeholder for the bullet with that id.
func BulletRef(id int) *Bullet { return placeholderBullet(id) }

func (b *Bullet) Heading() float64        { return b.heading }
func (b *Bullet) HeadingDegrees() float64 { return rules.ToDegrees(b.heading) }
func (b *Bullet) X() float64              { return b.x }
func (b *Bullet) Y() float64              { return b.y }
func (b *Bullet) Power() float64          { return b.power }
func (b *Bullet) Velocity() float64       { return rules.BulletSpeed(b.power) }
func (b *Bullet) Owner() string           { return b.owner }
func (b *Bullet) Victim() string          { return b.victim }
func (b *Bullet) IsActive() bool          { return b.active }
func (b *Bullet) ID() int                 { return b.id }

func (b *Bullet) update(x, y float64, victim string, active bool) {
	b.x = x
	b.y = y
	b.victim = victim
	b.active = active
}

// BulletStatus is the per-turn engine update for one live bullet.
type BulletStatus struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Victim string  `json:"victim,omitempty"`
	Active bool    `json:"active"`
}

// Bullets tracks the live bullets a robot has fired, keyed by id. It is
// the robot side of the two-phase bullet protocol: events decoded with
// placeholder bullets are patched to reference the tracked objects.
type Bullets struct {
	live map[int]*Bullet
}

func NewBullets() *Bullets {
	return &Bullets{live: make(map[int]*Bullet)}
}

// Track starts tracking a newly fired bullet.
func (bs *Bullets) Track(b *Bullet) {
	bs.live[b.id] = b
}

// Get returns the live bullet with the id, or nil.
func (bs *Bullets) Get(id int) *Bullet {
	return bs.live[id]
}

func (bs *Bullets) Len() int { return len(bs.live) }

// Apply updates a tracked bullet from the engine and forgets it once it is
// no longer active.
func (bs *Bullets) Apply(s BulletStatus) {
	b, ok := bs.live[s.ID]
	if !ok {
		return
	}
	b.update(s.X, s.Y, s.Victim, s.Active)
	if !s.Active {
		delete(bs.live, s.ID)
	}
}

// Deactivate marks a tracked bullet as spent without an engine update.
func (bs *Bullets) Deactivate(id int) {
	if b, ok := bs.live[id]; ok {
		b.active = false
		delete(bs.live, id)
	}
}

// Patch replaces the robot's own bullets referenced by e with the tracked
// objects of the same id, so identity comparisons hold.
func (bs *Bullets) Patch(e Event) {
	switch x := e.(type) {
	case *BulletHitEvent:
		x.Bullet = bs.resolve(x.Bullet)
	case *BulletMissedEvent:
		x.Bullet = bs.resolve(x.Bullet)
	case *BulletHitBulletEvent:
		x.Bullet = bs.resolve(x.Bullet)
	}
}

func (bs *Bullets) resolve(b *Bullet) *Bullet {
	if b == nil {
		return nil
	}
	if live, ok := bs.live[b.id]; ok {
		return live
	}
	return b
}

// Reset forgets all bullets, e.g. at the start of a round.
func (bs *Bullets) Reset() {
	clear(bs.live)
}
