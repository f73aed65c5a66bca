// Package snapshot defines the read-only view of a world that renderers,
// recorders and tests consume after every tick.
package snapshot

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-spacecombat/pkg/entity"
	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// WorldInfo carries the dimensions renderers need to set up a camera
type WorldInfo struct {
	Width        float64 `json:"w"`
	Height       float64 `json:"h"`
	ScreenWidth  float64 `json:"sw"`
	ScreenHeight float64 `json:"sh"`
	GridSpacing  float64 `json:"grid"`
}

// Planet is a drawable planet
type Planet struct {
	Position physics.Vector2D `json:"p"`
	Radius   float64          `json:"r"`
	Color    Color            `json:"c"`
}

// Asteroid is a drawable asteroid
type Asteroid struct {
	Position physics.Vector2D `json:"p"`
	Radius   float64          `json:"r"`
	Color    Color            `json:"c"`
}

// Ship is the drawable player ship
type Ship struct {
	Position  physics.Vector2D `json:"p"`
	Velocity  physics.Vector2D `json:"v"`
	Heading   float64          `json:"a"`
	Radius    float64          `json:"r"`
	Thrusters entity.Thrusters `json:"t"`
	Color     Color            `json:"c"`
}

// Enemy is a drawable enemy
type Enemy struct {
	Position physics.Vector2D `json:"p"`
	Radius   float64          `json:"r"`
	Weapon   string           `json:"k"`
	Action   string           `json:"act"`
	Color    Color            `json:"c"`
}

// Projectile covers bullets, rockets and turret shots
type Projectile struct {
	Position physics.Vector2D `json:"p"`
	Velocity physics.Vector2D `json:"v"`
	Radius   float64          `json:"r"`
	Kind     string           `json:"k"`
	Owner    string           `json:"o"`
	Color    Color            `json:"c"`
}

// Turret is a drawable turret
type Turret struct {
	Position physics.Vector2D `json:"p"`
	Size     float64          `json:"s"`
	Color    Color            `json:"c"`
}

// Zone is a drawable pickup zone. Min is the top-left corner.
type Zone struct {
	Min    physics.Vector2D `json:"p"`
	Width  float64          `json:"w"`
	Height float64          `json:"h"`
	Action string           `json:"act"`
	Color  Color            `json:"c"`
}

// Snapshot is the complete state published after a tick
type Snapshot struct {
	Frame       uint64       `json:"tick"`
	World       WorldInfo    `json:"world"`
	Planets     []Planet     `json:"pl"`
	Asteroids   []Asteroid   `json:"a"`
	Ship        Ship         `json:"s"`
	Enemies     []Enemy      `json:"e"`
	Projectiles []Projectile `json:"pr"`
	Turrets     []Turret     `json:"tu"`
	Zones       []Zone       `json:"z"`

	Fuel            float64 `json:"fuel"`
	Health          float64 `json:"hp"`
	Ammo            int     `json:"ammo"`
	HasItem         bool    `json:"item"`
	MissionComplete bool    `json:"done"`
	GameOver        bool    `json:"over"`
	Reason          string  `json:"reason,omitempty"`
}

// wireSnapshot drops the BinaryMarshaler methods so msgpack encodes the
// fields instead of recursing into MarshalBinary.
type wireSnapshot Snapshot

// MarshalBinary encodes the snapshot as msgpack using the JSON field names
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode((*wireSnapshot)(s)); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a snapshot produced by MarshalBinary
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode((*wireSnapshot)(s)); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}
