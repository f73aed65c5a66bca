// pkg/entity/projectile.go
package entity

import (
	"math"

	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// RocketPhase is the current stage of a rocket's homing cycle
type RocketPhase uint8

const (
	PhaseHoming RocketPhase = iota
	PhaseCoasting
)

// String returns "homing" or "coasting"
func (p RocketPhase) String() string {
	if p == PhaseHoming {
		return "homing"
	}
	return "coasting"
}

// BulletStats describes a ballistic round
type BulletStats struct {
	Speed  float64
	Radius float64
	Mass   float64
	Damage float64
}

// RocketStats describes a homing rocket. Durations are in frames.
type RocketStats struct {
	Radius       float64
	Mass         float64
	HomingThrust float64
	HomingFrames float64
	CoastFrames  float64
	Damage       float64
}

// Projectile is a bullet or a rocket owned by the world. Rockets carry a
// weak Target handle that may stop resolving between ticks.
type Projectile struct {
	physics.Body
	Kind   Kind // KindBullet or KindRocket
	Owner  Owner
	Damage float64
	Dead   bool

	Phase      RocketPhase
	PhaseTimer float64
	Target     Handle
	rocket     RocketStats
}

// NewBullet creates a ballistic projectile
func NewBullet(position, velocity physics.Vector2D, stats BulletStats, owner Owner) (*Projectile, error) {
	if err := validateBody(KindBullet, stats.Mass, stats.Radius); err != nil {
		return nil, err
	}
	return &Projectile{
		Body: physics.Body{
			Position: position,
			Velocity: velocity,
			Mass:     stats.Mass,
			Radius:   stats.Radius,
		},
		Kind:   KindBullet,
		Owner:  owner,
		Damage: stats.Damage,
	}, nil
}

// NewRocket creates a rocket that starts in the homing phase
func NewRocket(position, velocity physics.Vector2D, stats RocketStats, owner Owner, target Handle) (*Projectile, error) {
	if err := validateBody(KindRocket, stats.Mass, stats.Radius); err != nil {
		return nil, err
	}
	if err := positive(KindRocket, "homing_frames", stats.HomingFrames); err != nil {
		return nil, err
	}
	if err := nonNegative(KindRocket, "coast_frames", stats.CoastFrames); err != nil {
		return nil, err
	}
	return &Projectile{
		Body: physics.Body{
			Position: position,
			Velocity: velocity,
			Mass:     stats.Mass,
			Radius:   stats.Radius,
		},
		Kind:   KindRocket,
		Owner:  owner,
		Damage: stats.Damage,
		Phase:  PhaseHoming,
		Target: target,
		rocket: stats,
	}, nil
}

// IsRocket reports whether the projectile homes
func (p *Projectile) IsRocket() bool {
	return p.Kind == KindRocket
}

// Steer runs one tick of the rocket phase machine. While homing and with
// a live target it applies HomingThrust toward target; a lost target
// means the rocket coasts. Bullets are unaffected.
func (p *Projectile) Steer(target physics.Vector2D, found bool, dt float64) {
	if !p.IsRocket() {
		return
	}
	cycle := p.rocket.HomingFrames + p.rocket.CoastFrames

	if p.PhaseTimer < p.rocket.HomingFrames {
		p.Phase = PhaseHoming
		if found {
			force := p.Position.DirectionTo(target).Scale(p.rocket.HomingThrust)
			p.ApplyForce(force, dt)
		}
	} else {
		p.Phase = PhaseCoasting
	}

	p.PhaseTimer = math.Mod(p.PhaseTimer+dt, cycle)
}

// Update steps the projectile and flags it dead once it leaves bounds
func (p *Projectile) Update(bounds physics.Bounds, dt float64) {
	p.Step(dt)
	if !bounds.Contains(p.Position) {
		p.Dead = true
	}
}
