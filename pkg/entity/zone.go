// pkg/entity/zone.go
package entity

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// ZoneAction is what a pickup zone does to the ship that touches it
type ZoneAction uint8

const (
	ZoneRefuel ZoneAction = iota
	ZoneAcquireItem
	ZoneDeliverItem
)

// String returns the config spelling of the action
func (a ZoneAction) String() string {
	switch a {
	case ZoneRefuel:
		return "refuel"
	case ZoneAcquireItem:
		return "acquire_item"
	case ZoneDeliverItem:
		return "deliver_item"
	default:
		return "unknown"
	}
}

// ParseZoneAction converts a config name to a ZoneAction
func ParseZoneAction(s string) (ZoneAction, error) {
	switch strings.ToLower(s) {
	case "refuel":
		return ZoneRefuel, nil
	case "acquire_item", "item":
		return ZoneAcquireItem, nil
	case "deliver_item", "deliver":
		return ZoneDeliverItem, nil
	default:
		return 0, fmt.Errorf("unknown zone action %q", s)
	}
}

// PickupZone is an axis-aligned rectangle that triggers a mission action
type PickupZone struct {
	Rect   physics.Rect
	Action ZoneAction
}

// NewPickupZone creates a zone from its top-left corner and size
func NewPickupZone(x, y, width, height float64, action ZoneAction) (*PickupZone, error) {
	if err := positive(KindZone, "width", width); err != nil {
		return nil, err
	}
	if err := positive(KindZone, "height", height); err != nil {
		return nil, err
	}
	return &PickupZone{Rect: physics.RectFromCorner(x, y, width, height), Action: action}, nil
}

// Touches reports whether the body overlaps the zone
func (z *PickupZone) Touches(b *physics.Body) bool {
	return z.Rect.IntersectsCircle(b.Collider())
}
