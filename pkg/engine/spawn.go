package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-spacecombat/pkg/entity"
	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// ErrSpawnFailed is returned when random placement runs out of attempts
var ErrSpawnFailed = errors.New("spawn failed")

// populate fills the world from the spawn section: zones first, then
// planets, asteroids, enemies and turrets, each kept clear of what was
// placed before it.
func (w *World) populate() error {
	for _, zc := range w.cfg.Zones {
		action, err := entity.ParseZoneAction(zc.Action)
		if err != nil {
			return err
		}
		if err := w.AddZone(zc.X, zc.Y, zc.Width, zc.Height, action); err != nil {
			return err
		}
	}

	sp := w.cfg.Spawn
	placed := []physics.Circle{w.ship.Collider()}

	for i := 0; i < sp.Planets; i++ {
		radius := w.uniform(sp.PlanetRadiusMin, sp.PlanetRadiusMax)
		pos, err := w.findSpot(entity.KindPlanet, radius, placed, true)
		if err != nil {
			return err
		}
		if _, err := w.AddPlanet(pos, radius); err != nil {
			return err
		}
		placed = append(placed, physics.Circle{Center: pos, Radius: radius})
	}

	for i := 0; i < sp.Asteroids; i++ {
		radius := w.uniform(sp.AsteroidRadiusMin, sp.AsteroidRadiusMax)
		pos, err := w.findSpot(entity.KindAsteroid, radius, placed, false)
		if err != nil {
			return err
		}
		velocity := physics.Vector2D{
			X: w.uniform(-sp.AsteroidJitter, sp.AsteroidJitter),
			Y: w.uniform(-sp.AsteroidJitter, sp.AsteroidJitter),
		}
		if _, err := w.AddAsteroid(pos, velocity, radius); err != nil {
			return err
		}
		placed = append(placed, physics.Circle{Center: pos, Radius: radius})
	}

	for i := 0; i < sp.Enemies; i++ {
		weapon := entity.WeaponBullet
		if w.rng.Float64() < sp.RocketEnemyRatio {
			weapon = entity.WeaponRocket
		}
		action := entity.Action(1 + w.rng.IntN(entity.ActionCount))
		radius := w.cfg.Enemy.Radius
		pos, err := w.findSpot(entity.KindEnemy, radius, placed, false)
		if err != nil {
			return err
		}
		if _, err := w.AddEnemy(pos, weapon, action); err != nil {
			return err
		}
		placed = append(placed, physics.Circle{Center: pos, Radius: radius})
	}

	for i := 0; i < sp.Turrets; i++ {
		// circumscribed circle of the square footprint
		radius := w.cfg.Turret.Size / 2 * math.Sqrt2
		pos, err := w.findSpot(entity.KindTurret, radius, placed, true)
		if err != nil {
			return err
		}
		if _, err := w.AddTurret(pos); err != nil {
			return err
		}
		placed = append(placed, physics.Circle{Center: pos, Radius: radius})
	}
	return nil
}

// findSpot rejection-samples a centre for a circle of radius inside the
// spawn margin, keeping the clearance from every placed circle and, when
// avoidZones is set, from every pickup zone.
func (w *World) findSpot(kind entity.Kind, radius float64, placed []physics.Circle, avoidZones bool) (physics.Vector2D, error) {
	sp := w.cfg.Spawn
	lo := sp.Margin + radius
	hiX := w.bounds.Width - sp.Margin - radius
	hiY := w.bounds.Height - sp.Margin - radius
	if hiX < lo || hiY < lo {
		return physics.Vector2D{}, fmt.Errorf("%w: %s of radius %g does not fit inside the margin", ErrSpawnFailed, kind, radius)
	}

	for attempt := 0; attempt < sp.MaxAttempts; attempt++ {
		pos := physics.Vector2D{X: w.uniform(lo, hiX), Y: w.uniform(lo, hiY)}
		if w.isClear(pos, radius, placed, avoidZones) {
			return pos, nil
		}
	}
	return physics.Vector2D{}, fmt.Errorf("%w: no room for %s after %d attempts", ErrSpawnFailed, kind, sp.MaxAttempts)
}

func (w *World) isClear(pos physics.Vector2D, radius float64, placed []physics.Circle, avoidZones bool) bool {
	clearance := w.cfg.Spawn.Clearance
	for _, c := range placed {
		if pos.Distance(c.Center) < radius+c.Radius+clearance {
			return false
		}
	}
	if avoidZones {
		padded := physics.Circle{Center: pos, Radius: radius + clearance}
		for _, z := range w.zones {
			if z.Rect.IntersectsCircle(padded) {
				return false
			}
		}
	}
	return true
}

// uniform draws from [lo, hi) on the world stream
func (w *World) uniform(lo, hi float64) float64 {
	return lo + w.rng.Float64()*(hi-lo)
}
