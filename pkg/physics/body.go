package physics

// Body is the movable state shared by every circular entity in the world.
// Time is measured in simulation frames, so velocities are in units per
// frame and dt is nominally 1.
type Body struct {
	Position Vector2D
	Velocity Vector2D
	Mass     float64
	Radius   float64
}

// Step advances the position by one explicit Euler step
func (b *Body) Step(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// AddImpulse changes velocity by j/m
func (b *Body) AddImpulse(j Vector2D) {
	b.Velocity = b.Velocity.Add(j.Scale(1 / b.Mass))
}

// ApplyForce applies force f over dt frames as an impulse
func (b *Body) ApplyForce(f Vector2D, dt float64) {
	b.AddImpulse(f.Scale(dt))
}

// Speed returns the magnitude of the velocity
func (b *Body) Speed() float64 {
	return b.Velocity.Length()
}

// Collider returns the collision circle at the current position
func (b *Body) Collider() Circle {
	return Circle{Center: b.Position, Radius: b.Radius}
}

// Bounds is the world rectangle with its origin at the top-left corner.
type Bounds struct {
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the closed rectangle [0,W]x[0,H].
func (w Bounds) Contains(p Vector2D) bool {
	return p.X >= 0 && p.X <= w.Width && p.Y >= 0 && p.Y <= w.Height
}

// ClampBody keeps b inside the world. Any velocity component that pushed
// the body across an edge is zeroed. Returns true if b was clamped.
func (w Bounds) ClampBody(b *Body) bool {
	clamped := false
	if b.Position.X < 0 {
		b.Position.X = 0
		b.Velocity.X = 0
		clamped = true
	} else if b.Position.X >= w.Width {
		b.Position.X = w.Width
		b.Velocity.X = 0
		clamped = true
	}
	if b.Position.Y < 0 {
		b.Position.Y = 0
		b.Velocity.Y = 0
		clamped = true
	} else if b.Position.Y >= w.Height {
		b.Position.Y = w.Height
		b.Velocity.Y = 0
		clamped = true
	}
	return clamped
}

// Center returns the middle of the world
func (w Bounds) Center() Vector2D {
	return Vector2D{X: w.Width / 2, Y: w.Height / 2}
}
