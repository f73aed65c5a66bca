package physics

import "math"

// GravityEpsilon is the squared distance below which an attractor is
// ignored to avoid the 1/r² singularity.
const GravityEpsilon = 1e-6

// Attractor is a massive body that exerts gravity
type Attractor struct {
	Position Vector2D
	Mass     float64
}

// PlanetMass returns the mass of a sphere with the given radius and density
func PlanetMass(radius, density float64) float64 {
	return 4.0 / 3.0 * math.Pi * radius * radius * radius * density
}

// GravityForce sums the inverse-square pull of every attractor on b
func GravityForce(b *Body, attractors []Attractor, g float64) Vector2D {
	var total Vector2D
	for _, a := range attractors {
		delta := a.Position.Sub(b.Position)
		r2 := delta.LengthSquared()
		if r2 < GravityEpsilon {
			continue
		}
		magnitude := g * a.Mass * b.Mass / r2
		total = total.Add(delta.Scale(magnitude / math.Sqrt(r2)))
	}
	return total
}

// ApplyGravity accumulates the field on b and applies it once over dt
func ApplyGravity(b *Body, attractors []Attractor, g, dt float64) Vector2D {
	force := GravityForce(b, attractors, g)
	b.ApplyForce(force, dt)
	return force
}
