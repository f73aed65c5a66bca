// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/opd-ai/go-spacecombat/pkg/entity"
	"github.com/opd-ai/go-spacecombat/pkg/physics"
	"github.com/opd-ai/go-spacecombat/pkg/snapshot"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every gameplay constant of a simulation run. Rates and
// durations are per frame and tuned for a nominal dt of 1 at 60 Hz.
type Config struct {
	Seed       uint64           `json:"seed" mapstructure:"seed"`
	TestMode   bool             `json:"test_mode" mapstructure:"test_mode"`
	World      WorldConfig      `json:"world" mapstructure:"world"`
	Physics    PhysicsConfig    `json:"physics" mapstructure:"physics"`
	Ship       ShipConfig       `json:"ship" mapstructure:"ship"`
	Enemy      EnemyConfig      `json:"enemy" mapstructure:"enemy"`
	Projectile ProjectileConfig `json:"projectile" mapstructure:"projectile"`
	Rocket     RocketConfig     `json:"rocket" mapstructure:"rocket"`
	Turret     TurretConfig     `json:"turret" mapstructure:"turret"`
	Spawn      SpawnConfig      `json:"spawn" mapstructure:"spawn"`
	Zones      []ZoneConfig     `json:"zones" mapstructure:"zones"`
	Palette    PaletteConfig    `json:"palette" mapstructure:"palette"`
}

// WorldConfig describes the play area. Screen size and grid spacing are
// only forwarded to renderers.
type WorldConfig struct {
	Width          float64 `json:"width" mapstructure:"width"`
	Height         float64 `json:"height" mapstructure:"height"`
	ScreenWidth    float64 `json:"screen_width" mapstructure:"screen_width"`
	ScreenHeight   float64 `json:"screen_height" mapstructure:"screen_height"`
	GridSpacing    float64 `json:"grid_spacing" mapstructure:"grid_spacing"`
	BroadphaseCell float64 `json:"broadphase_cell" mapstructure:"broadphase_cell"`
	DT             float64 `json:"dt" mapstructure:"dt"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity                  float64 `json:"gravity" mapstructure:"gravity"`
	Restitution              float64 `json:"restitution" mapstructure:"restitution"`
	PlanetDensity            float64 `json:"planet_density" mapstructure:"planet_density"`
	AsteroidDensity          float64 `json:"asteroid_density" mapstructure:"asteroid_density"`
	PlanetDamageMultiplier   float64 `json:"planet_damage_multiplier" mapstructure:"planet_damage_multiplier"`
	AsteroidDamageMultiplier float64 `json:"asteroid_damage_multiplier" mapstructure:"asteroid_damage_multiplier"`
	ShipAsteroidDamping      float64 `json:"ship_asteroid_damping" mapstructure:"ship_asteroid_damping"`
}

// ShipConfig contains the player ship tuning
type ShipConfig struct {
	Radius           float64 `json:"radius" mapstructure:"radius"`
	Mass             float64 `json:"mass" mapstructure:"mass"`
	MaxFuel          float64 `json:"max_fuel" mapstructure:"max_fuel"`
	MaxHealth        float64 `json:"max_health" mapstructure:"max_health"`
	MaxAmmo          int     `json:"max_ammo" mapstructure:"max_ammo"`
	RotationSpeed    float64 `json:"rotation_speed" mapstructure:"rotation_speed"`
	RotationFuelRate float64 `json:"rotation_fuel_rate" mapstructure:"rotation_fuel_rate"`
	Thrust           float64 `json:"thrust" mapstructure:"thrust"`
	FuelRate         float64 `json:"fuel_rate" mapstructure:"fuel_rate"`
	ReloadFrames     float64 `json:"reload_frames" mapstructure:"reload_frames"`
	MuzzleOffset     float64 `json:"muzzle_offset" mapstructure:"muzzle_offset"`
	RepairRate       float64 `json:"repair_rate" mapstructure:"repair_rate"`
	RefuelRate       float64 `json:"refuel_rate" mapstructure:"refuel_rate"`
}

// EnemyConfig contains the enemy AI tuning
type EnemyConfig struct {
	Radius           float64 `json:"radius" mapstructure:"radius"`
	Mass             float64 `json:"mass" mapstructure:"mass"`
	Health           float64 `json:"health" mapstructure:"health"`
	OneHitKill       bool    `json:"one_hit_kill" mapstructure:"one_hit_kill"`
	Accel            float64 `json:"accel" mapstructure:"accel"`
	Difficulty       float64 `json:"difficulty" mapstructure:"difficulty"`
	MaxSpeed         float64 `json:"max_speed" mapstructure:"max_speed"`
	ShootRange       float64 `json:"shoot_range" mapstructure:"shoot_range"`
	BulletCooldown   float64 `json:"bullet_cooldown" mapstructure:"bullet_cooldown"`
	RocketCooldown   float64 `json:"rocket_cooldown" mapstructure:"rocket_cooldown"`
	ActionDuration   float64 `json:"action_duration" mapstructure:"action_duration"`
	OrbitRadius      float64 `json:"orbit_radius" mapstructure:"orbit_radius"`
	OrbitStep        float64 `json:"orbit_step" mapstructure:"orbit_step"`
	BrakeFactor      float64 `json:"brake_factor" mapstructure:"brake_factor"`
	EvadeFactor      float64 `json:"evade_factor" mapstructure:"evade_factor"`
	FormationSpacing float64 `json:"formation_spacing" mapstructure:"formation_spacing"`
	RandomWalkFactor float64 `json:"random_walk_factor" mapstructure:"random_walk_factor"`
}

// ProjectileConfig describes bullets fired by the ship and by enemies
type ProjectileConfig struct {
	BulletSpeed        float64 `json:"bullet_speed" mapstructure:"bullet_speed"`
	BulletRadius       float64 `json:"bullet_radius" mapstructure:"bullet_radius"`
	BulletMass         float64 `json:"bullet_mass" mapstructure:"bullet_mass"`
	PlayerBulletDamage float64 `json:"player_bullet_damage" mapstructure:"player_bullet_damage"`
	EnemyBulletDamage  float64 `json:"enemy_bullet_damage" mapstructure:"enemy_bullet_damage"`
}

// RocketConfig describes enemy homing rockets
type RocketConfig struct {
	Radius       float64 `json:"radius" mapstructure:"radius"`
	Mass         float64 `json:"mass" mapstructure:"mass"`
	HomingThrust float64 `json:"homing_thrust" mapstructure:"homing_thrust"`
	HomingFrames float64 `json:"homing_frames" mapstructure:"homing_frames"`
	CoastFrames  float64 `json:"coast_frames" mapstructure:"coast_frames"`
	Damage       float64 `json:"damage" mapstructure:"damage"`
}

// TurretConfig describes stationary guns
type TurretConfig struct {
	Size          float64 `json:"size" mapstructure:"size"`
	ShootInterval float64 `json:"shoot_interval" mapstructure:"shoot_interval"`
	MuzzleSpeed   float64 `json:"muzzle_speed" mapstructure:"muzzle_speed"`
	BulletTTL     float64 `json:"bullet_ttl" mapstructure:"bullet_ttl"`
	BulletRadius  float64 `json:"bullet_radius" mapstructure:"bullet_radius"`
	BulletMass    float64 `json:"bullet_mass" mapstructure:"bullet_mass"`
	Damage        float64 `json:"damage" mapstructure:"damage"`
}

// SpawnConfig controls random world population
type SpawnConfig struct {
	Planets           int     `json:"planets" mapstructure:"planets"`
	PlanetRadiusMin   float64 `json:"planet_radius_min" mapstructure:"planet_radius_min"`
	PlanetRadiusMax   float64 `json:"planet_radius_max" mapstructure:"planet_radius_max"`
	Asteroids         int     `json:"asteroids" mapstructure:"asteroids"`
	AsteroidRadiusMin float64 `json:"asteroid_radius_min" mapstructure:"asteroid_radius_min"`
	AsteroidRadiusMax float64 `json:"asteroid_radius_max" mapstructure:"asteroid_radius_max"`
	AsteroidJitter    float64 `json:"asteroid_jitter" mapstructure:"asteroid_jitter"`
	Enemies           int     `json:"enemies" mapstructure:"enemies"`
	RocketEnemyRatio  float64 `json:"rocket_enemy_ratio" mapstructure:"rocket_enemy_ratio"`
	Turrets           int     `json:"turrets" mapstructure:"turrets"`
	Margin            float64 `json:"margin" mapstructure:"margin"`
	Clearance         float64 `json:"clearance" mapstructure:"clearance"`
	MaxAttempts       int     `json:"max_attempts" mapstructure:"max_attempts"`
}

// ZoneConfig places one pickup zone by its top-left corner
type ZoneConfig struct {
	X      float64 `json:"x" mapstructure:"x"`
	Y      float64 `json:"y" mapstructure:"y"`
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
	Action string  `json:"action" mapstructure:"action"`
}

// PaletteConfig holds "#RRGGBB" or "#RRGGBBAA" colors passed to renderers
type PaletteConfig struct {
	Ship         string   `json:"ship" mapstructure:"ship"`
	Planets      []string `json:"planets" mapstructure:"planets"`
	Asteroid     string   `json:"asteroid" mapstructure:"asteroid"`
	BulletEnemy  string   `json:"bullet_enemy" mapstructure:"bullet_enemy"`
	RocketEnemy  string   `json:"rocket_enemy" mapstructure:"rocket_enemy"`
	PlayerBullet string   `json:"player_bullet" mapstructure:"player_bullet"`
	EnemyBullet  string   `json:"enemy_bullet" mapstructure:"enemy_bullet"`
	Rocket       string   `json:"rocket" mapstructure:"rocket"`
	Turret       string   `json:"turret" mapstructure:"turret"`
	TurretShot   string   `json:"turret_shot" mapstructure:"turret_shot"`
	ZoneRefuel   string   `json:"zone_refuel" mapstructure:"zone_refuel"`
	ZoneItem     string   `json:"zone_item" mapstructure:"zone_item"`
	ZoneDeliver  string   `json:"zone_deliver" mapstructure:"zone_deliver"`
}

// DefaultConfig returns the canonical tuning
func DefaultConfig() *Config {
	return &Config{
		Seed: 1,
		World: WorldConfig{
			Width:          10000,
			Height:         10000,
			ScreenWidth:    1280,
			ScreenHeight:   720,
			GridSpacing:    100,
			BroadphaseCell: 500,
			DT:             1,
		},
		Physics: PhysicsConfig{
			Gravity:                  1e-4,
			Restitution:              physics.Restitution,
			PlanetDensity:            1,
			AsteroidDensity:          0.01,
			PlanetDamageMultiplier:   0.5,
			AsteroidDamageMultiplier: 0.5,
			ShipAsteroidDamping:      0.5,
		},
		Ship: ShipConfig{
			Radius:           20,
			Mass:             5000,
			MaxFuel:          1000,
			MaxHealth:        100,
			MaxAmmo:          200,
			RotationSpeed:    0.05,
			RotationFuelRate: 0.1,
			Thrust:           0.1,
			FuelRate:         0.5,
			ReloadFrames:     9,
			MuzzleOffset:     5,
			RepairRate:       0.1,
			RefuelRate:       1,
		},
		Enemy: EnemyConfig{
			Radius:           15,
			Mass:             1000,
			Health:           100,
			OneHitKill:       true,
			Accel:            0.05,
			Difficulty:       1,
			MaxSpeed:         6,
			ShootRange:       800,
			BulletCooldown:   30,
			RocketCooldown:   120,
			ActionDuration:   240,
			OrbitRadius:      300,
			OrbitStep:        0.02,
			BrakeFactor:      0.2,
			EvadeFactor:      1.5,
			FormationSpacing: 50,
			RandomWalkFactor: 0.2,
		},
		Projectile: ProjectileConfig{
			BulletSpeed:        10,
			BulletRadius:       3,
			BulletMass:         1,
			PlayerBulletDamage: 50,
			EnemyBulletDamage:  10,
		},
		Rocket: RocketConfig{
			Radius:       5,
			Mass:         1,
			HomingThrust: 0.1,
			HomingFrames: 60,
			CoastFrames:  180,
			Damage:       10,
		},
		Turret: TurretConfig{
			Size:          30,
			ShootInterval: 90,
			MuzzleSpeed:   6,
			BulletTTL:     300,
			BulletRadius:  4,
			BulletMass:    1,
			Damage:        15,
		},
		Spawn: SpawnConfig{
			Planets:           6,
			PlanetRadiusMin:   150,
			PlanetRadiusMax:   450,
			Asteroids:         40,
			AsteroidRadiusMin: 15,
			AsteroidRadiusMax: 50,
			AsteroidJitter:    1,
			Enemies:           8,
			RocketEnemyRatio:  0.25,
			Turrets:           3,
			Margin:            300,
			Clearance:         100,
			MaxAttempts:       500,
		},
		Zones: []ZoneConfig{
			{X: 4850, Y: 850, Width: 300, Height: 300, Action: "refuel"},
			{X: 2850, Y: 4850, Width: 300, Height: 300, Action: "acquire_item"},
			{X: 850, Y: 4850, Width: 300, Height: 300, Action: "deliver_item"},
		},
		Palette: PaletteConfig{
			Ship:         "#E0E0FF",
			Planets:      []string{"#3A7BD5", "#C0392B", "#27AE60", "#8E44AD", "#D35400", "#16A085"},
			Asteroid:     "#8B7D6B",
			BulletEnemy:  "#FF5050",
			RocketEnemy:  "#FFA030",
			PlayerBullet: "#FFFF80",
			EnemyBullet:  "#FF8080",
			Rocket:       "#FFB000",
			Turret:       "#A0A0A0",
			TurretShot:   "#FF40FF",
			ZoneRefuel:   "#00C0FF40",
			ZoneItem:     "#FFD70040",
			ZoneDeliver:  "#00FF6040",
		},
	}
}

// TestModeConfig halves the world and thins out the population
func TestModeConfig() *Config {
	cfg := DefaultConfig()
	cfg.ApplyTestMode()
	return cfg
}

// ApplyTestMode halves the world size, scales zones with it and reduces
// entity counts. Calling it twice has no further effect.
func (c *Config) ApplyTestMode() {
	if c.TestMode {
		return
	}
	c.TestMode = true
	c.World.Width /= 2
	c.World.Height /= 2
	for i := range c.Zones {
		c.Zones[i].X /= 2
		c.Zones[i].Y /= 2
		c.Zones[i].Width /= 2
		c.Zones[i].Height /= 2
	}
	c.Spawn.Planets = 3
	c.Spawn.Asteroids = 15
	c.Spawn.Enemies = 3
	c.Spawn.Turrets = 1
	c.Spawn.Margin /= 2
}

// Bounds returns the world rectangle
func (c *Config) Bounds() physics.Bounds {
	return physics.Bounds{Width: c.World.Width, Height: c.World.Height}
}

// ShipStats converts the ship section to entity tuning
func (c *Config) ShipStats() entity.ShipStats {
	s := c.Ship
	return entity.ShipStats{
		Radius:           s.Radius,
		Mass:             s.Mass,
		MaxFuel:          s.MaxFuel,
		MaxHealth:        s.MaxHealth,
		MaxAmmo:          s.MaxAmmo,
		RotationSpeed:    s.RotationSpeed,
		RotationFuelRate: s.RotationFuelRate,
		Thrust:           s.Thrust,
		FuelRate:         s.FuelRate,
		ReloadFrames:     s.ReloadFrames,
		MuzzleOffset:     s.MuzzleOffset,
		RepairRate:       s.RepairRate,
		RefuelRate:       s.RefuelRate,
		Bullet: entity.BulletStats{
			Speed:  c.Projectile.BulletSpeed,
			Radius: c.Projectile.BulletRadius,
			Mass:   c.Projectile.BulletMass,
			Damage: c.Projectile.PlayerBulletDamage,
		},
	}
}

// RocketStats converts the rocket section to entity tuning
func (c *Config) RocketStats() entity.RocketStats {
	r := c.Rocket
	return entity.RocketStats{
		Radius:       r.Radius,
		Mass:         r.Mass,
		HomingThrust: r.HomingThrust,
		HomingFrames: r.HomingFrames,
		CoastFrames:  r.CoastFrames,
		Damage:       r.Damage,
	}
}

// EnemyStats converts the enemy section to entity tuning
func (c *Config) EnemyStats() entity.EnemyStats {
	e := c.Enemy
	return entity.EnemyStats{
		Radius:           e.Radius,
		Mass:             e.Mass,
		Health:           e.Health,
		Accel:            e.Accel,
		Difficulty:       e.Difficulty,
		MaxSpeed:         e.MaxSpeed,
		ShootRange:       e.ShootRange,
		BulletCooldown:   e.BulletCooldown,
		RocketCooldown:   e.RocketCooldown,
		ActionDuration:   e.ActionDuration,
		OrbitRadius:      e.OrbitRadius,
		OrbitStep:        e.OrbitStep,
		BrakeFactor:      e.BrakeFactor,
		EvadeFactor:      e.EvadeFactor,
		FormationSpacing: e.FormationSpacing,
		RandomWalkFactor: e.RandomWalkFactor,
		Bullet: entity.BulletStats{
			Speed:  c.Projectile.BulletSpeed,
			Radius: c.Projectile.BulletRadius,
			Mass:   c.Projectile.BulletMass,
			Damage: c.Projectile.EnemyBulletDamage,
		},
		Rocket: c.RocketStats(),
	}
}

// TurretStats converts the turret section to entity tuning
func (c *Config) TurretStats() entity.TurretStats {
	t := c.Turret
	return entity.TurretStats{
		Size:          t.Size,
		ShootInterval: t.ShootInterval,
		MuzzleSpeed:   t.MuzzleSpeed,
		BulletTTL:     t.BulletTTL,
		BulletRadius:  t.BulletRadius,
		BulletMass:    t.BulletMass,
		Damage:        t.Damage,
	}
}

// Validate checks the configuration for values the simulation cannot run with
func (c *Config) Validate() error {
	positives := []struct {
		name  string
		value float64
	}{
		{"world.width", c.World.Width},
		{"world.height", c.World.Height},
		{"world.dt", c.World.DT},
		{"world.broadphase_cell", c.World.BroadphaseCell},
		{"physics.planet_density", c.Physics.PlanetDensity},
		{"physics.asteroid_density", c.Physics.AsteroidDensity},
		{"ship.radius", c.Ship.Radius},
		{"ship.mass", c.Ship.Mass},
		{"ship.max_fuel", c.Ship.MaxFuel},
		{"ship.max_health", c.Ship.MaxHealth},
		{"enemy.radius", c.Enemy.Radius},
		{"enemy.mass", c.Enemy.Mass},
		{"enemy.health", c.Enemy.Health},
		{"enemy.action_duration", c.Enemy.ActionDuration},
		{"projectile.bullet_radius", c.Projectile.BulletRadius},
		{"projectile.bullet_mass", c.Projectile.BulletMass},
		{"rocket.radius", c.Rocket.Radius},
		{"rocket.mass", c.Rocket.Mass},
		{"rocket.homing_frames", c.Rocket.HomingFrames},
		{"turret.size", c.Turret.Size},
		{"turret.shoot_interval", c.Turret.ShootInterval},
		{"turret.bullet_ttl", c.Turret.BulletTTL},
		{"turret.bullet_radius", c.Turret.BulletRadius},
		{"turret.bullet_mass", c.Turret.BulletMass},
		{"spawn.planet_radius_min", c.Spawn.PlanetRadiusMin},
		{"spawn.asteroid_radius_min", c.Spawn.AsteroidRadiusMin},
	}
	for _, p := range positives {
		if !(p.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.Physics.Gravity < 0 {
		return fmt.Errorf("%w: physics.gravity must not be negative", ErrInvalidConfig)
	}
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		return fmt.Errorf("%w: physics.restitution must be in [0,1], got %g", ErrInvalidConfig, c.Physics.Restitution)
	}
	if c.Ship.MaxAmmo < 0 {
		return fmt.Errorf("%w: ship.max_ammo must not be negative", ErrInvalidConfig)
	}
	if c.Spawn.PlanetRadiusMax < c.Spawn.PlanetRadiusMin {
		return fmt.Errorf("%w: spawn.planet_radius_max below planet_radius_min", ErrInvalidConfig)
	}
	if c.Spawn.AsteroidRadiusMax < c.Spawn.AsteroidRadiusMin {
		return fmt.Errorf("%w: spawn.asteroid_radius_max below asteroid_radius_min", ErrInvalidConfig)
	}
	if c.Spawn.Planets < 0 || c.Spawn.Asteroids < 0 || c.Spawn.Enemies < 0 || c.Spawn.Turrets < 0 {
		return fmt.Errorf("%w: spawn counts must not be negative", ErrInvalidConfig)
	}
	if c.Spawn.RocketEnemyRatio < 0 || c.Spawn.RocketEnemyRatio > 1 {
		return fmt.Errorf("%w: spawn.rocket_enemy_ratio must be in [0,1]", ErrInvalidConfig)
	}
	if 2*c.Spawn.Margin >= c.World.Width || 2*c.Spawn.Margin >= c.World.Height {
		return fmt.Errorf("%w: spawn.margin leaves no room inside the world", ErrInvalidConfig)
	}

	for i, z := range c.Zones {
		if _, err := entity.ParseZoneAction(z.Action); err != nil {
			return fmt.Errorf("%w: zones[%d]: %v", ErrInvalidConfig, i, err)
		}
		if z.Width <= 0 || z.Height <= 0 {
			return fmt.Errorf("%w: zones[%d] must have a positive size", ErrInvalidConfig, i)
		}
	}

	if len(c.Palette.Planets) == 0 {
		return fmt.Errorf("%w: palette.planets must not be empty", ErrInvalidConfig)
	}
	colors := append([]string{
		c.Palette.Ship, c.Palette.Asteroid, c.Palette.BulletEnemy, c.Palette.RocketEnemy,
		c.Palette.PlayerBullet, c.Palette.EnemyBullet, c.Palette.Rocket, c.Palette.Turret,
		c.Palette.TurretShot, c.Palette.ZoneRefuel, c.Palette.ZoneItem, c.Palette.ZoneDeliver,
	}, c.Palette.Planets...)
	for _, hex := range colors {
		if _, err := snapshot.ParseColor(hex); err != nil {
			return fmt.Errorf("%w: palette: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// SaveConfig saves a configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
