// Package rules holds the physics constants and formulas shared by the
// battle engine and robot code. Angles are in radians unless a name says
// otherwise; distances are in pixels and velocities in pixels per turn.
package rules

import "math"

// ═══════════════════════════════════════════════════════════════════════════
// MOVEMENT
// ═══════════════════════════════════════════════════════════════════════════

const (
	Acceleration = 1.0
	Deceleration = 2.0
	MaxVelocity  = 8.0

	RobotSize = 36.0
	// RobotHalfSize is the half-width of the square robot body.
	RobotHalfSize = RobotSize / 2
)

// ═══════════════════════════════════════════════════════════════════════════
// TURNING
// ═══════════════════════════════════════════════════════════════════════════

const (
	MaxTurnRateDegrees   = 10.0
	GunTurnRateDegrees   = 20.0
	RadarTurnRateDegrees = 45.0
)

var (
	MaxTurnRate   = toRadians(MaxTurnRateDegrees)
	GunTurnRate   = toRadians(GunTurnRateDegrees)
	RadarTurnRate = toRadians(RadarTurnRateDegrees)
)

// ═══════════════════════════════════════════════════════════════════════════
// COMBAT
// ═══════════════════════════════════════════════════════════════════════════

const (
	RadarScanRadius = 1200.0

	MinBulletPower = 0.1
	MaxBulletPower = 3.0

	RobotHitDamage = 0.6
	RobotHitBonus  = 1.2

	// InitialGunHeat is the gun heat every robot starts a round with.
	InitialGunHeat = 3.0
	StartingEnergy = 100.0
)

// TurnRateDegrees returns the body turn rate in degrees for a velocity.
func TurnRateDegrees(velocity float64) float64 {
	return MaxTurnRateDegrees - 0.75*math.Abs(velocity)
}

// TurnRate returns the body turn rate in radians for a velocity.
func TurnRate(velocity float64) float64 {
	return toRadians(TurnRateDegrees(velocity))
}

// WallHitDamage is the energy lost when hitting a wall at velocity.
func WallHitDamage(velocity float64) float64 {
	return math.Max(math.Abs(velocity)/2-1, 0)
}

// BulletDamage is the damage a bullet of the given power inflicts.
func BulletDamage(power float64) float64 {
	damage := 4 * power
	if power > 1 {
		damage += 2 * (power - 1)
	}
	return damage
}

// BulletHitBonus is the energy returned to the shooter on a hit.
func BulletHitBonus(power float64) float64 {
	return 3 * power
}

// BulletSpeed is the speed of a bullet of the given power.
func BulletSpeed(power float64) float64 {
	power = math.Min(math.Max(power, MinBulletPower), MaxBulletPower)
	return 20 - 3*power
}

// GunHeat is the heat generated by firing a bullet of the given power.
func GunHeat(power float64) float64 {
	return 1 + power/5
}

// ═══════════════════════════════════════════════════════════════════════════
// ANGLES
// ═══════════════════════════════════════════════════════════════════════════

// NormalAbsoluteAngle maps an angle to [0, 2π).
func NormalAbsoluteAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// NormalRelativeAngle maps an angle to [-π, π).
func NormalRelativeAngle(angle float64) float64 {
	angle = math.Mod(angle+math.Pi, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle - math.Pi
}

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 { return toRadians(degrees) }

// ToDegrees converts radians to degrees.
func ToDegrees(radians float64) float64 { return radians * 180 / math.Pi }

func toRadians(degrees float64) float64 { return degrees * math.Pi / 180 }

// IsNear reports whether two values differ by less than a small epsilon.
func IsNear(a, b float64) bool {
	return math.Abs(a-b) < 1e-5
}
