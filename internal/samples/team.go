package samples

import (
	"math"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/robot"
	"github.com/robo-code/robocode-sub000/internal/rules"
)

// Target is what a Leader tells its team about an enemy.
type Target struct {
	Name string
	X, Y float64
}

// Leader patrols and reports every enemy it scans to the team.
type Leader struct {
	robot.TeamRobot
}

func (l *Leader) Run() {
	l.SetAdjustRadarForRobotTurn(true)
	l.SetTurnRadarRightRadians(math.Inf(1))
	for {
		l.Ahead(120)
		l.TurnRight(60)
	}
}

func (l *Leader) OnScannedRobot(e *event.ScannedRobotEvent) {
	if l.IsTeammate(e.Name) {
		return
	}
	angle := l.HeadingRadians() + e.Bearing
	t := Target{
		Name: e.Name,
		X:    l.X() + e.Distance*math.Sin(angle),
		Y:    l.Y() + e.Distance*math.Cos(angle),
	}
	if err := l.BroadcastMessage(t); err != nil {
		l.Out().Printf("cannot report %s: %v", e.Name, err)
	}
}

func (l *Leader) OnHitWall(e *event.HitWallEvent) {
	l.TurnRight(90)
}

// Droid never scans; it aims and fires at the last position its leader
// reported.
type Droid struct {
	robot.TeamRobot

	target *Target
}

func (d *Droid) Run() {
	d.SetAdjustGunForRobotTurn(true)
	for {
		if d.target != nil && d.GunHeat() == 0 && math.Abs(d.GunTurnRemaining()) < 1 {
			d.SetFire(2)
		}
		d.Execute()
	}
}

func (d *Droid) OnMessageReceived(e *event.MessageEvent) {
	var t Target
	if err := e.Decode(&t); err != nil {
		d.Out().Printf("ignoring message from %s: %v", e.Sender, err)
		return
	}
	d.target = &t
	bearing := math.Atan2(t.X-d.X(), t.Y-d.Y())
	d.SetTurnGunRightRadians(rules.NormalRelativeAngle(bearing - d.GunHeadingRadians()))
}

func (d *Droid) OnRobotDeath(e *event.RobotDeathEvent) {
	if d.target != nil && d.target.Name == e.Name {
		d.target = nil
	}
}
