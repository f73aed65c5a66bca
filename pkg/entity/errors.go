package entity

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

var (
	// ErrInvalidBody is wrapped by construction errors for non-positive
	// mass, radius or other physical parameters.
	ErrInvalidBody = errors.New("invalid body")
	// ErrOutsideWorld is wrapped when an entity would be placed outside
	// the world rectangle.
	ErrOutsideWorld = errors.New("outside world")
)

// ConstructionError reports a rejected constructor argument
type ConstructionError struct {
	Kind   Kind
	Field  string
	Value  float64
	Reason string
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %s: %s=%g: %s", e.Kind, e.Field, e.Value, e.Reason)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func positive(kind Kind, field string, v float64) error {
	if v > 0 {
		return nil
	}
	return &ConstructionError{Kind: kind, Field: field, Value: v, Reason: "must be positive", Err: ErrInvalidBody}
}

func nonNegative(kind Kind, field string, v float64) error {
	if v >= 0 {
		return nil
	}
	return &ConstructionError{Kind: kind, Field: field, Value: v, Reason: "must not be negative", Err: ErrInvalidBody}
}

// validateBody checks the mass and radius invariants shared by every body
func validateBody(kind Kind, mass, radius float64) error {
	if err := positive(kind, "mass", mass); err != nil {
		return err
	}
	return positive(kind, "radius", radius)
}

// CheckInside returns a ConstructionError wrapping ErrOutsideWorld if p is
// not within bounds.
func CheckInside(kind Kind, bounds physics.Bounds, p physics.Vector2D) error {
	if bounds.Contains(p) {
		return nil
	}
	field, value := "x", p.X
	if p.X >= 0 && p.X <= bounds.Width {
		field, value = "y", p.Y
	}
	return &ConstructionError{Kind: kind, Field: field, Value: value, Reason: "outside world", Err: ErrOutsideWorld}
}
