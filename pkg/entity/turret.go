// pkg/entity/turret.go
package entity

import (
	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// TurretStats holds turret tuning. Times are in frames.
type TurretStats struct {
	Size          float64
	ShootInterval float64
	MuzzleSpeed   float64
	BulletTTL     float64
	BulletRadius  float64
	BulletMass    float64
	Damage        float64
}

// TurretShot is a bullet owned by the turret that fired it
type TurretShot struct {
	physics.Body
	Born float64
	Dead bool
}

// Turret is a stationary gun that fires at the ship on a fixed interval
type Turret struct {
	Position physics.Vector2D
	Stats    TurretStats
	LastShot float64
	Shots    []TurretShot
}

// NewTurret creates a turret that first fires one interval after now
func NewTurret(position physics.Vector2D, stats TurretStats, now float64) (*Turret, error) {
	if err := positive(KindTurret, "size", stats.Size); err != nil {
		return nil, err
	}
	if err := positive(KindTurret, "shoot_interval", stats.ShootInterval); err != nil {
		return nil, err
	}
	if err := positive(KindTurret, "bullet_ttl", stats.BulletTTL); err != nil {
		return nil, err
	}
	if err := validateBody(KindTurretShot, stats.BulletMass, stats.BulletRadius); err != nil {
		return nil, err
	}
	return &Turret{Position: position, Stats: stats, LastShot: now}, nil
}

// Bounds returns the turret's square footprint
func (t *Turret) Bounds() physics.Rect {
	return physics.Rect{Center: t.Position, Width: t.Stats.Size, Height: t.Stats.Size}
}

// Update fires at target when the interval has elapsed on the frame clock
// now, then steps every shot and expires those past their TTL or outside
// bounds. Reports whether a shot was fired.
func (t *Turret) Update(now float64, target physics.Vector2D, bounds physics.Bounds, dt float64) bool {
	fired := false
	if now-t.LastShot >= t.Stats.ShootInterval {
		dir := t.Position.DirectionTo(target)
		t.Shots = append(t.Shots, TurretShot{
			Body: physics.Body{
				Position: t.Position.Add(dir.Scale(t.Stats.Size/2 + t.Stats.BulletRadius)),
				Velocity: dir.Scale(t.Stats.MuzzleSpeed),
				Mass:     t.Stats.BulletMass,
				Radius:   t.Stats.BulletRadius,
			},
			Born: now,
		})
		t.LastShot = now
		fired = true
	}

	for i := range t.Shots {
		shot := &t.Shots[i]
		if shot.Dead {
			continue
		}
		shot.Step(dt)
		if now-shot.Born >= t.Stats.BulletTTL || !bounds.Contains(shot.Position) {
			shot.Dead = true
		}
	}
	return fired
}

// Compact drops dead shots and returns how many were removed
func (t *Turret) Compact() int {
	kept := t.Shots[:0]
	for _, shot := range t.Shots {
		if !shot.Dead {
			kept = append(kept, shot)
		}
	}
	removed := len(t.Shots) - len(kept)
	clear(t.Shots[len(kept):])
	t.Shots = kept
	return removed
}
