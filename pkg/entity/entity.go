// pkg/entity/entity.go
package entity

// Kind tags every object the world tracks
type Kind uint8

const (
	KindNone Kind = iota
	KindPlanet
	KindAsteroid
	KindShip
	KindEnemy
	KindBullet
	KindRocket
	KindTurret
	KindTurretShot
	KindZone
	KindProjectile // bullets and rockets share one registry and handle kind
)

var kindNames = [...]string{
	KindNone:       "none",
	KindPlanet:     "planet",
	KindAsteroid:   "asteroid",
	KindShip:       "ship",
	KindEnemy:      "enemy",
	KindBullet:     "bullet",
	KindRocket:     "rocket",
	KindTurret:     "turret",
	KindTurretShot: "turret_shot",
	KindZone:       "zone",
	KindProjectile: "projectile",
}

// String returns the lower-case kind name used in logs, events and metrics
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Handle is a weak reference into one of the world registries. The
// generation changes every time a slot is reused, so a handle to a
// removed entity never resolves to its successor. The zero Handle
// refers to nothing.
type Handle struct {
	Kind       Kind   `msgpack:"k" json:"kind"`
	Index      uint32 `msgpack:"i" json:"index"`
	Generation uint32 `msgpack:"g" json:"generation"`
}

// IsZero reports whether h refers to nothing
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

// Owner identifies which side fired a projectile
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
	OwnerTurret
)

// String returns the owner name
func (o Owner) String() string {
	switch o {
	case OwnerPlayer:
		return "player"
	case OwnerEnemy:
		return "enemy"
	case OwnerTurret:
		return "turret"
	default:
		return "unknown"
	}
}
