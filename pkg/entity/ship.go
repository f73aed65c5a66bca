// pkg/entity/ship.go
package entity

import (
	"math"

	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// ShipStats contains the tuning for the player ship. Rates are per frame.
type ShipStats struct {
	Radius           float64
	Mass             float64
	MaxFuel          float64
	MaxHealth        float64
	MaxAmmo          int
	RotationSpeed    float64 // radians per frame
	RotationFuelRate float64
	Thrust           float64
	FuelRate         float64
	ReloadFrames     float64
	MuzzleOffset     float64
	RepairRate       float64
	RefuelRate       float64
	Bullet           BulletStats
}

// Thrusters records which thrusters fired this frame. Renderers use it
// to draw exhaust; the repair and refuel holds require all of them off.
type Thrusters struct {
	Left     bool `msgpack:"l" json:"left"`
	Right    bool `msgpack:"r" json:"right"`
	Forward  bool `msgpack:"f" json:"forward"`
	Backward bool `msgpack:"b" json:"backward"`
}

// Any reports whether a thruster fired
func (t Thrusters) Any() bool {
	return t.Left || t.Right || t.Forward || t.Backward
}

// Ship is the player's craft. Heading is in radians and positions are in
// screen coordinates, so Y grows downward and forward is (cos θ, −sin θ).
type Ship struct {
	physics.Body
	Stats       ShipStats
	Heading     float64
	Fuel        float64
	Health      float64
	Ammo        int
	GunCooldown float64
	Thrusters   Thrusters
}

// NewShip creates a fully fuelled, armed and repaired ship
func NewShip(position physics.Vector2D, stats ShipStats) (*Ship, error) {
	if err := validateBody(KindShip, stats.Mass, stats.Radius); err != nil {
		return nil, err
	}
	if err := positive(KindShip, "max_fuel", stats.MaxFuel); err != nil {
		return nil, err
	}
	if err := positive(KindShip, "max_health", stats.MaxHealth); err != nil {
		return nil, err
	}
	if err := nonNegative(KindShip, "max_ammo", float64(stats.MaxAmmo)); err != nil {
		return nil, err
	}
	return &Ship{
		Body: physics.Body{
			Position: position,
			Mass:     stats.Mass,
			Radius:   stats.Radius,
		},
		Stats:  stats,
		Fuel:   stats.MaxFuel,
		Health: stats.MaxHealth,
		Ammo:   stats.MaxAmmo,
	}, nil
}

// Forward returns the unit vector the nose points along
func (s *Ship) Forward() physics.Vector2D {
	return physics.Vector2D{X: math.Cos(s.Heading), Y: -math.Sin(s.Heading)}
}

// BeginFrame clears the thruster flags and counts the gun cooldown down
func (s *Ship) BeginFrame(dt float64) {
	s.Thrusters = Thrusters{}
	s.GunCooldown = math.Max(0, s.GunCooldown-dt)
}

func (s *Ship) burn(amount float64) {
	s.Fuel = math.Max(0, s.Fuel-amount)
}

// RotateLeft turns counter-clockwise on screen
func (s *Ship) RotateLeft(dt float64) {
	if s.Fuel <= 0 {
		return
	}
	s.Heading += s.Stats.RotationSpeed * dt
	s.burn(s.Stats.RotationFuelRate * dt)
	s.Thrusters.Left = true
}

// RotateRight turns clockwise on screen
func (s *Ship) RotateRight(dt float64) {
	if s.Fuel <= 0 {
		return
	}
	s.Heading -= s.Stats.RotationSpeed * dt
	s.burn(s.Stats.RotationFuelRate * dt)
	s.Thrusters.Right = true
}

// ThrustForward accelerates along the heading
func (s *Ship) ThrustForward(dt float64) {
	if s.Fuel <= 0 {
		return
	}
	s.Velocity = s.Velocity.Add(s.Forward().Scale(s.Stats.Thrust * dt))
	s.burn(s.Stats.FuelRate * dt)
	s.Thrusters.Forward = true
}

// ThrustBackward accelerates against the heading
func (s *Ship) ThrustBackward(dt float64) {
	if s.Fuel <= 0 {
		return
	}
	s.Velocity = s.Velocity.Sub(s.Forward().Scale(s.Stats.Thrust * dt))
	s.burn(s.Stats.FuelRate * dt)
	s.Thrusters.Backward = true
}

// Shoot emits a bullet from the nose when the gun is loaded. The bullet
// gets the ship's speed added along the heading plus the ship's velocity.
func (s *Ship) Shoot() (*Projectile, bool) {
	if s.GunCooldown > 0 || s.Ammo <= 0 {
		return nil, false
	}
	forward := s.Forward()
	position := s.Position.Add(forward.Scale(s.Radius + s.Stats.MuzzleOffset))
	velocity := forward.Scale(s.Stats.Bullet.Speed + s.Speed()).Add(s.Velocity)

	bullet, err := NewBullet(position, velocity, s.Stats.Bullet, OwnerPlayer)
	if err != nil {
		return nil, false
	}
	s.GunCooldown = s.Stats.ReloadFrames
	s.Ammo--
	return bullet, true
}

// RepairHold restores health while no thruster is firing
func (s *Ship) RepairHold(dt float64) bool {
	if s.Thrusters.Any() {
		return false
	}
	s.Health = math.Min(s.Stats.MaxHealth, s.Health+s.Stats.RepairRate*dt)
	return true
}

// RefuelHold restores fuel while no thruster is firing
func (s *Ship) RefuelHold(dt float64) bool {
	if s.Thrusters.Any() {
		return false
	}
	s.Fuel = math.Min(s.Stats.MaxFuel, s.Fuel+s.Stats.RefuelRate*dt)
	return true
}

// Refill tops the tank up to MaxFuel
func (s *Ship) Refill() {
	s.Fuel = s.Stats.MaxFuel
}

// TakeDamage reduces health, never below zero, and reports whether the
// ship is destroyed
func (s *Ship) TakeDamage(amount float64) bool {
	if amount > 0 {
		s.Health = math.Max(0, s.Health-amount)
	}
	return s.Destroyed()
}

// Destroyed reports whether health has run out
func (s *Ship) Destroyed() bool {
	return s.Health <= 0
}
