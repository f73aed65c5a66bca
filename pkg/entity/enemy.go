// pkg/entity/enemy.go
package entity

import (
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// Action is one of the seven steering behaviours an enemy runs for an
// action interval
type Action uint8

const (
	ActionPursue Action = iota + 1
	ActionWander
	ActionBrake
	ActionOrbit
	ActionEvade
	ActionFormation
	ActionRandomWalk
)

// ActionCount is the number of behaviours drawn from
const ActionCount = 7

var actionNames = [...]string{"", "pursue", "wander", "brake", "orbit", "evade", "formation", "random_walk"}

// String returns the action name, or "unknown" outside 1..7
func (a Action) String() string {
	if int(a) < len(actionNames) && a > 0 {
		return actionNames[a]
	}
	return "unknown"
}

// Weapon selects what an enemy fires
type Weapon uint8

const (
	WeaponBullet Weapon = iota
	WeaponRocket
)

// String returns the weapon name
func (w Weapon) String() string {
	if w == WeaponRocket {
		return "rocket"
	}
	return "bullet"
}

// EnemyStats holds the AI tuning shared by all enemies
type EnemyStats struct {
	Radius           float64
	Mass             float64
	Health           float64
	Accel            float64
	Difficulty       float64
	MaxSpeed         float64
	ShootRange       float64
	BulletCooldown   float64
	RocketCooldown   float64
	ActionDuration   float64
	OrbitRadius      float64
	OrbitStep        float64
	BrakeFactor      float64
	EvadeFactor      float64
	FormationSpacing float64
	RandomWalkFactor float64
	Bullet           BulletStats
	Rocket           RocketStats
}

// AIContext is what an enemy may observe when deciding how to steer
type AIContext struct {
	Ship physics.Vector2D
	// Index is the enemy's position in the world's enemy list
	Index int
	// Leader is the position of the first enemy; nil when this enemy leads
	Leader *physics.Vector2D
}

// Enemy is an AI-controlled craft
type Enemy struct {
	physics.Body
	Stats         EnemyStats
	Weapon        Weapon
	Health        float64
	Action        Action
	ActionTimer   float64
	ShootCooldown float64

	RandomDirection physics.Vector2D
	OrbitAngle      float64
	RandSpeed       physics.Vector2D
	wanderPicked    bool
}

// NewEnemy creates an enemy running action for a full interval
func NewEnemy(position physics.Vector2D, weapon Weapon, action Action, stats EnemyStats) (*Enemy, error) {
	if err := validateBody(KindEnemy, stats.Mass, stats.Radius); err != nil {
		return nil, err
	}
	if err := positive(KindEnemy, "health", stats.Health); err != nil {
		return nil, err
	}
	if err := positive(KindEnemy, "action_duration", stats.ActionDuration); err != nil {
		return nil, err
	}
	if action < ActionPursue || action > ActionRandomWalk {
		return nil, &ConstructionError{Kind: KindEnemy, Field: "action", Value: float64(action), Reason: "must be in 1..7", Err: ErrInvalidBody}
	}
	return &Enemy{
		Body: physics.Body{
			Position: position,
			Mass:     stats.Mass,
			Radius:   stats.Radius,
		},
		Stats:       stats,
		Weapon:      weapon,
		Health:      stats.Health,
		Action:      action,
		ActionTimer: stats.ActionDuration,
	}, nil
}

// Dead reports whether the enemy should be removed
func (e *Enemy) Dead() bool {
	return e.Health <= 0
}

// Kill drops health to zero
func (e *Enemy) Kill() {
	e.Health = 0
}

// Think advances the action timer, picks a new action when it underflows
// and applies the chosen steering acceleration to the velocity.
func (e *Enemy) Think(ctx AIContext, rng *rand.Rand, dt float64) {
	e.ActionTimer -= dt
	if e.ActionTimer <= 0 {
		e.pickAction(ctx, rng)
	}
	e.ShootCooldown = math.Max(0, e.ShootCooldown-dt)

	accel := e.steer(ctx, rng, dt)
	e.Velocity = e.Velocity.Add(accel.Scale(dt))

	if limit := e.Stats.MaxSpeed; limit > 0 && e.Speed() > limit {
		e.Velocity = e.Velocity.Normalize().Scale(limit)
	}
}

func (e *Enemy) pickAction(ctx AIContext, rng *rand.Rand) {
	e.Action = Action(1 + rng.IntN(ActionCount))
	e.ActionTimer = e.Stats.ActionDuration
	e.wanderPicked = false
	e.RandSpeed = physics.Vector2D{}
	e.OrbitAngle = e.Position.Sub(ctx.Ship).Angle()
}

func (e *Enemy) steer(ctx AIContext, rng *rand.Rand, dt float64) physics.Vector2D {
	accel := e.Stats.Accel * e.Stats.Difficulty

	switch e.Action {
	case ActionPursue:
		return e.Position.DirectionTo(ctx.Ship).Scale(accel)

	case ActionWander:
		if !e.wanderPicked {
			e.RandomDirection = physics.FromAngle(rng.Float64()*2*math.Pi, 1)
			e.wanderPicked = true
		}
		return e.RandomDirection.Scale(accel)

	case ActionBrake:
		brake := e.Stats.Accel * e.Stats.BrakeFactor
		return physics.Vector2D{
			X: -physics.Signum(e.Velocity.X) * brake,
			Y: -physics.Signum(e.Velocity.Y) * brake,
		}

	case ActionOrbit:
		e.OrbitAngle += e.Stats.OrbitStep * dt
		target := ctx.Ship.Add(physics.FromAngle(e.OrbitAngle, e.Stats.OrbitRadius))
		return e.Position.DirectionTo(target).Scale(accel)

	case ActionEvade:
		return ctx.Ship.DirectionTo(e.Position).Scale(e.Stats.Accel * e.Stats.EvadeFactor)

	case ActionFormation:
		if ctx.Leader == nil {
			return e.Position.DirectionTo(ctx.Ship).Scale(accel)
		}
		offset := e.Stats.FormationSpacing * float64(ctx.Index+1)
		slot := ctx.Leader.Add(physics.Vector2D{X: offset, Y: offset})
		return e.Position.DirectionTo(slot).Scale(accel)

	case ActionRandomWalk:
		e.RandSpeed = e.RandSpeed.Add(physics.Vector2D{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
		})
		return e.RandSpeed.Scale(e.Stats.RandomWalkFactor * e.Stats.Accel)
	}
	return physics.Vector2D{}
}

// TryFire emits a projectile aimed at the ship when it is in range and
// the weapon has cooled down. Rockets lock onto target.
func (e *Enemy) TryFire(ship physics.Vector2D, target Handle) (*Projectile, bool) {
	if e.ShootCooldown > 0 || e.Position.Distance(ship) >= e.Stats.ShootRange {
		return nil, false
	}
	dir := e.Position.DirectionTo(ship)

	var (
		p   *Projectile
		err error
	)
	switch e.Weapon {
	case WeaponRocket:
		muzzle := e.Position.Add(dir.Scale(e.Radius + e.Stats.Rocket.Radius))
		p, err = NewRocket(muzzle, e.Velocity, e.Stats.Rocket, OwnerEnemy, target)
		e.ShootCooldown = e.Stats.RocketCooldown
	default:
		muzzle := e.Position.Add(dir.Scale(e.Radius + e.Stats.Bullet.Radius))
		velocity := e.Velocity.Add(dir.Scale(e.Stats.Bullet.Speed))
		p, err = NewBullet(muzzle, velocity, e.Stats.Bullet, OwnerEnemy)
		e.ShootCooldown = e.Stats.BulletCooldown
	}
	if err != nil {
		return nil, false
	}
	return p, true
}
