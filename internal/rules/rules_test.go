package rules

import (
	"math"
	"testing"
)

func TestFormulas(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"turn rate at rest", TurnRateDegrees(0), 10},
		{"turn rate at full speed", TurnRateDegrees(-8), 4},
		{"wall damage slow", WallHitDamage(1), 0},
		{"wall damage fast", WallHitDamage(8), 3},
		{"bullet damage low power", BulletDamage(1), 4},
		{"bullet damage full power", BulletDamage(3), 16},
		{"hit bonus", BulletHitBonus(2), 6},
		{"bullet speed", BulletSpeed(3), 11},
		{"bullet speed clamps", BulletSpeed(10), 11},
		{"gun heat", GunHeat(3), 1.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsNear(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestNormalAngles(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		absolute float64
		relative float64
	}{
		{"zero", 0, 0, 0},
		{"negative quarter", -math.Pi / 2, 3 * math.Pi / 2, -math.Pi / 2},
		{"past full turn", 2*math.Pi + 0.5, 0.5, 0.5},
		{"three quarters", 3 * math.Pi / 2, 3 * math.Pi / 2, -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalAbsoluteAngle(tt.angle); !IsNear(got, tt.absolute) {
				t.Errorf("NormalAbsoluteAngle(%v) = %v, want %v", tt.angle, got, tt.absolute)
			}
			if got := NormalRelativeAngle(tt.angle); !IsNear(got, tt.relative) {
				t.Errorf("NormalRelativeAngle(%v) = %v, want %v", tt.angle, got, tt.relative)
			}
		})
	}
}
