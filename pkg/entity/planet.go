// pkg/entity/planet.go
package entity

import (
	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// Planet is a stationary massive body. It exerts gravity and acts as an
// immovable wall in collisions. Its velocity stays zero.
type Planet struct {
	physics.Body
	Density float64
}

// NewPlanet creates a planet whose mass follows from radius and density
func NewPlanet(position physics.Vector2D, radius, density float64) (*Planet, error) {
	if err := positive(KindPlanet, "radius", radius); err != nil {
		return nil, err
	}
	if err := positive(KindPlanet, "density", density); err != nil {
		return nil, err
	}
	return &Planet{
		Body: physics.Body{
			Position: position,
			Mass:     physics.PlanetMass(radius, density),
			Radius:   radius,
		},
		Density: density,
	}, nil
}

// Attractor returns the planet as a gravity source
func (p *Planet) Attractor() physics.Attractor {
	return physics.Attractor{Position: p.Position, Mass: p.Mass}
}

// Asteroid is a free body that receives gravity but does not exert it
type Asteroid struct {
	physics.Body
}

// NewAsteroid creates an asteroid with mass derived from its volume
func NewAsteroid(position, velocity physics.Vector2D, radius, density float64) (*Asteroid, error) {
	if err := positive(KindAsteroid, "radius", radius); err != nil {
		return nil, err
	}
	if err := positive(KindAsteroid, "density", density); err != nil {
		return nil, err
	}
	return &Asteroid{
		Body: physics.Body{
			Position: position,
			Velocity: velocity,
			Mass:     physics.PlanetMass(radius, density),
			Radius:   radius,
		},
	}, nil
}
