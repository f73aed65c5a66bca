// pkg/physics/collision.go
package physics

// Restitution is the coefficient used for every bounce in the world.
const Restitution = 1.0

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are colliding
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Overlaps reports whether two bodies overlap: ‖p1−p2‖ < r1+r2
func Overlaps(a, b *Body) bool {
	return a.Collider().Collides(b.Collider())
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided    bool
	Normal      Vector2D // points from b towards a
	Penetration float64
	Impulse     float64 // magnitude of the applied impulse, 0 if separating
}

// CheckCollision performs detailed collision detection between two circles
func CheckCollision(a, b Circle) CollisionResult {
	delta := a.Center.Sub(b.Center)
	distance := delta.Length()

	if distance >= a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	// Coincident centres fall back to UnitX via Normalize.
	return CollisionResult{
		Collided:    true,
		Normal:      delta.Normalize(),
		Penetration: a.Radius + b.Radius - distance,
	}
}

// ResolveElastic resolves an overlap between two dynamic bodies with an
// impulse along the contact normal and a positional correction split
// inversely to mass. Approaching bodies exchange momentum; bodies that are
// already separating only get pushed apart.
func ResolveElastic(a, b *Body, restitution float64) CollisionResult {
	result := CheckCollision(a.Collider(), b.Collider())
	if !result.Collided {
		return result
	}

	n := result.Normal
	invA := 1 / a.Mass
	invB := 1 / b.Mass
	invSum := invA + invB

	relNormal := a.Velocity.Sub(b.Velocity).Dot(n)
	if relNormal < 0 {
		j := -(1 + restitution) * relNormal / invSum
		a.Velocity = a.Velocity.Add(n.Scale(j * invA))
		b.Velocity = b.Velocity.Sub(n.Scale(j * invB))
		result.Impulse = j
	}

	a.Position = a.Position.Add(n.Scale(result.Penetration * invA / invSum))
	b.Position = b.Position.Sub(n.Scale(result.Penetration * invB / invSum))
	return result
}

// ResolveStatic bounces b off an immovable circle. Only b moves, which
// gives the wall an infinite effective mass.
func ResolveStatic(b *Body, wall Circle, restitution float64) CollisionResult {
	result := CheckCollision(b.Collider(), wall)
	if !result.Collided {
		return result
	}

	n := result.Normal
	relNormal := b.Velocity.Dot(n)
	if relNormal < 0 {
		j := -(1 + restitution) * relNormal * b.Mass
		b.Velocity = b.Velocity.Add(n.Scale(j / b.Mass))
		result.Impulse = j
	}
	b.Position = b.Position.Add(n.Scale(result.Penetration))
	return result
}

// Rect represents a rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// RectFromCorner builds a Rect from its top-left corner and size
func RectFromCorner(x, y, w, h float64) Rect {
	return Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}
}

// Min returns the top-left corner
func (r Rect) Min() Vector2D {
	return Vector2D{X: r.Center.X - r.Width/2, Y: r.Center.Y - r.Height/2}
}

// Max returns the bottom-right corner
func (r Rect) Max() Vector2D {
	return Vector2D{X: r.Center.X + r.Width/2, Y: r.Center.Y + r.Height/2}
}

// Contains reports whether point lies inside, min edges inclusive and max
// edges exclusive
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// IntersectsCircle reports whether the circle overlaps the rectangle
func (r Rect) IntersectsCircle(c Circle) bool {
	lo, hi := r.Min(), r.Max()
	nearest := Vector2D{
		X: Clamp(c.Center.X, lo.X, hi.X),
		Y: Clamp(c.Center.Y, lo.Y, hi.Y),
	}
	return nearest.Sub(c.Center).LengthSquared() < c.Radius*c.Radius ||
		r.Contains(c.Center)
}
