package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

func testShipStats() ShipStats {
	return ShipStats{
		Radius:           20,
		Mass:             5000,
		MaxFuel:          1000,
		MaxHealth:        100,
		MaxAmmo:          3,
		RotationSpeed:    0.05,
		RotationFuelRate: 0.1,
		Thrust:           0.1,
		FuelRate:         0.5,
		ReloadFrames:     9,
		MuzzleOffset:     5,
		RepairRate:       0.1,
		RefuelRate:       1,
		Bullet:           BulletStats{Speed: 10, Radius: 3, Mass: 1, Damage: 10},
	}
}

func testEnemyStats() EnemyStats {
	return EnemyStats{
		Radius:           15,
		Mass:             1000,
		Health:           100,
		Accel:            0.05,
		Difficulty:       1,
		MaxSpeed:         6,
		ShootRange:       800,
		BulletCooldown:   30,
		RocketCooldown:   120,
		ActionDuration:   240,
		OrbitRadius:      300,
		OrbitStep:        0.02,
		BrakeFactor:      0.2,
		EvadeFactor:      1.5,
		FormationSpacing: 50,
		RandomWalkFactor: 0.2,
		Bullet:           BulletStats{Speed: 10, Radius: 3, Mass: 1, Damage: 10},
		Rocket:           testRocketStats(),
	}
}

func testRocketStats() RocketStats {
	return RocketStats{Radius: 5, Mass: 1, HomingThrust: 0.1, HomingFrames: 60, CoastFrames: 180, Damage: 10}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindPlanet, "planet"},
		{KindAsteroid, "asteroid"},
		{KindShip, "ship"},
		{KindEnemy, "enemy"},
		{KindBullet, "bullet"},
		{KindRocket, "rocket"},
		{KindTurretShot, "turret_shot"},
		{KindZone, "zone"},
		{KindProjectile, "projectile"},
		{Kind(200), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestHandle_IsZero(t *testing.T) {
	assert.True(t, Handle{}.IsZero())
	assert.False(t, Handle{Kind: KindShip, Index: 0, Generation: 1}.IsZero())
}

func TestConstructionError_WrapsSentinel(t *testing.T) {
	_, err := NewAsteroid(physics.Vector2D{}, physics.Vector2D{}, -1, 1)
	require.Error(t, err)

	var ce *ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindAsteroid, ce.Kind)
	assert.Equal(t, "radius", ce.Field)
	assert.ErrorIs(t, err, ErrInvalidBody)
	assert.Contains(t, err.Error(), "asteroid")
}

func TestCheckInside(t *testing.T) {
	bounds := physics.Bounds{Width: 100, Height: 100}

	assert.NoError(t, CheckInside(KindEnemy, bounds, physics.Vector2D{X: 50, Y: 100}))

	err := CheckInside(KindEnemy, bounds, physics.Vector2D{X: 50, Y: 101})
	assert.ErrorIs(t, err, ErrOutsideWorld)
	var ce *ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "y", ce.Field)

	err = CheckInside(KindTurret, bounds, physics.Vector2D{X: -1, Y: 50})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "x", ce.Field)
}
