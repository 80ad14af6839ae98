package samples

import (
	"math"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/robot"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

// SittingDuck does nothing at all.
type SittingDuck struct {
	robot.Robot
}

func (d *SittingDuck) Run() {
	for {
		d.DoNothing()
	}
}

// Crawler drives around the battlefield along the walls, gun pointed
// inward.
type Crawler struct {
	robot.Robot

	// peek makes the crawler rescan before it turns a corner.
	peek bool
}

func (c *Crawler) Run() {
	moveAmount := math.Max(c.BattleFieldWidth(), c.BattleFieldHeight())

	c.TurnLeft(math.Mod(c.Heading(), 90))
	c.Ahead(moveAmount)
	c.peek = true
	c.TurnGunRight(90)
	c.TurnRight(90)

	for {
		c.peek = true
		c.Ahead(moveAmount)
		c.peek = false
		c.TurnRight(90)
	}
}

func (c *Crawler) OnHitRobot(e *event.HitRobotEvent) {
	if e.Bearing > -math.Pi/2 && e.Bearing < math.Pi/2 {
		c.Back(100)
	} else {
		c.Ahead(100)
	}
}

func (c *Crawler) OnScannedRobot(e *event.ScannedRobotEvent) {
	c.Fire(2)
	if c.peek {
		c.Scan()
	}
}

// Tracker locks its radar on the first robot it sees, keeps a fixed
// distance and fires once its gun is cool and on target.
type Tracker struct {
	robot.Robot

	target    string
	power     float64
	lowEnergy *event.Condition
}

const trackerDistance = 150

func (t *Tracker) Run() {
	t.power = rules.MaxBulletPower
	t.SetAdjustGunForRobotTurn(true)
	t.SetAdjustRadarForGunTurn(true)

	t.lowEnergy = event.NewConditionFunc("lowEnergy", func() bool { return t.Energy() < 20 })
	t.AddCustomEvent(t.lowEnergy)

	onTarget := event.NewConditionFunc("onTarget", func() bool {
		return t.target != "" && t.GunHeat() == 0 && math.Abs(t.GunTurnRemaining()) < 2
	})

	t.SetTurnRadarRightRadians(math.Inf(1))
	for {
		t.WaitFor(onTarget)
		t.SetFire(t.power)
		t.Execute()
	}
}

func (t *Tracker) OnScannedRobot(e *event.ScannedRobotEvent) {
	if t.target != "" && e.Name != t.target {
		return
	}
	t.target = e.Name

	absolute := t.HeadingRadians() + e.Bearing
	t.SetTurnRadarRightRadians(2 * rules.NormalRelativeAngle(absolute-t.RadarHeadingRadians()))
	t.SetTurnGunRightRadians(rules.NormalRelativeAngle(absolute - t.GunHeadingRadians()))
	t.SetTurnRightRadians(e.Bearing)
	t.SetAhead(e.Distance - trackerDistance)
}

func (t *Tracker) OnRobotDeath(e *event.RobotDeathEvent) {
	if e.Name == t.target {
		t.target = ""
		t.SetTurnRadarRightRadians(math.Inf(1))
	}
}

func (t *Tracker) OnCustomEvent(e *event.CustomEvent) {
	if e.Condition == t.lowEnergy {
		t.power = 1
		t.RemoveCustomEvent(t.lowEnergy)
		t.Out().Println("energy low, firing light bullets")
	}
}

// Spinner circles at constant rates.
type Spinner struct {
	robot.RateControlRobot
}

func (s *Spinner) Run() {
	s.SetVelocityRate(5)
	s.SetTurnRate(6)
	s.SetGunRotationRate(-12)
	s.SetRadarRotationRate(30)
	for {
		s.Execute()
	}
}

func (s *Spinner) OnScannedRobot(e *event.ScannedRobotEvent) {
	if e.Distance < 300 {
		s.SetFire(2)
	} else {
		s.SetFire(1)
	}
}

func (s *Spinner) OnHitWall(e *event.HitWallEvent) {
	s.SetVelocityRate(-s.VelocityRate())
}
