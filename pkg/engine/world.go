// pkg/engine/world.go
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-spacecombat/pkg/config"
	"github.com/opd-ai/go-spacecombat/pkg/entity"
	"github.com/opd-ai/go-spacecombat/pkg/event"
	"github.com/opd-ai/go-spacecombat/pkg/logging"
	"github.com/opd-ai/go-spacecombat/pkg/physics"
)

// pcgStream is the second PCG word; the seed supplies the first
const pcgStream = 0x5ca1ab1e

// World owns every entity of a run and advances them one tick at a time.
// It is not safe for concurrent use: the driver owns it and is the only
// caller of Step.
type World struct {
	cfg     *config.Config
	bounds  physics.Bounds
	rng     *rand.Rand
	logger  *logging.Logger
	bus     *event.Bus
	meter   metric.Meter
	metrics *worldMetrics
	ctx     context.Context
	runID   string

	frame uint64
	clock float64 // frames elapsed, the turret clock

	ship        *entity.Ship
	shipHandle  entity.Handle
	planets     *Registry[entity.Planet]
	asteroids   *Registry[entity.Asteroid]
	enemies     *Registry[entity.Enemy]
	projectiles *Registry[entity.Projectile]
	turrets     *Registry[entity.Turret]
	zones       []*entity.PickupZone

	attractors []physics.Attractor
	grid       *physics.Grid
	gridKeys   []*entity.Asteroid
	queryBuf   []int

	mission Mission
	colors  palette
}

// Option configures optional World collaborators
type Option func(*World)

// WithLogger sets the logger. Worlds log nothing by default.
func WithLogger(l *logging.Logger) Option {
	return func(w *World) {
		w.logger = l
	}
}

// WithEventBus publishes world events on bus instead of a private one
func WithEventBus(bus *event.Bus) Option {
	return func(w *World) {
		w.bus = bus
	}
}

// WithMeter reports metrics to m instead of the global meter provider
func WithMeter(m metric.Meter) Option {
	return func(w *World) {
		w.meter = m
	}
}

// WithRunID sets the correlation id attached to every log line
func WithRunID(id string) Option {
	return func(w *World) {
		w.runID = id
	}
}

// NewWorld validates cfg and populates a world from it. Every random
// choice, from spawn positions to enemy decisions, draws from one PCG
// stream seeded with cfg.Seed.
func NewWorld(cfg *config.Config, opts ...Option) (*World, error) {
	w, err := newWorld(cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := w.populate(); err != nil {
		return nil, err
	}
	w.logger.Info(w.ctx, "world created",
		"seed", cfg.Seed,
		"test_mode", cfg.TestMode,
		"width", w.bounds.Width,
		"height", w.bounds.Height,
		"planets", w.planets.Len(),
		"asteroids", w.asteroids.Len(),
		"enemies", w.enemies.Len(),
		"turrets", w.turrets.Len(),
		"zones", len(w.zones),
	)
	return w, nil
}

// NewEmptyWorld builds a world holding only the ship, parked at the
// centre. Scenarios populate it with the Add methods.
func NewEmptyWorld(cfg *config.Config, opts ...Option) (*World, error) {
	return newWorld(cfg, opts)
}

func newWorld(cfg *config.Config, opts []Option) (*World, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	own := *cfg

	w := &World{
		cfg:         &own,
		bounds:      own.Bounds(),
		rng:         rand.New(rand.NewPCG(own.Seed, pcgStream)),
		planets:     NewRegistry[entity.Planet](entity.KindPlanet),
		asteroids:   NewRegistry[entity.Asteroid](entity.KindAsteroid),
		enemies:     NewRegistry[entity.Enemy](entity.KindEnemy),
		projectiles: NewRegistry[entity.Projectile](entity.KindProjectile),
		turrets:     NewRegistry[entity.Turret](entity.KindTurret),
		shipHandle:  entity.Handle{Kind: entity.KindShip, Generation: 1},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.NewNopLogger()
	}
	if w.bus == nil {
		w.bus = event.NewEventBus()
	}
	if w.meter == nil {
		w.meter = defaultMeter()
	}
	if w.runID == "" {
		w.runID = logging.GenerateCorrelationID()
	}
	w.ctx = logging.WithCorrelationID(context.Background(), w.runID)

	var err error
	if w.metrics, err = newWorldMetrics(w.meter); err != nil {
		return nil, err
	}
	if w.colors, err = newPalette(own.Palette); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if w.ship, err = entity.NewShip(w.bounds.Center(), own.ShipStats()); err != nil {
		return nil, err
	}
	w.grid = physics.NewGrid(w.bounds, own.World.BroadphaseCell)
	return w, nil
}

// AddPlanet places a stationary planet with the configured density
func (w *World) AddPlanet(position physics.Vector2D, radius float64) (entity.Handle, error) {
	if err := entity.CheckInside(entity.KindPlanet, w.bounds, position); err != nil {
		return entity.Handle{}, err
	}
	p, err := entity.NewPlanet(position, radius, w.cfg.Physics.PlanetDensity)
	if err != nil {
		return entity.Handle{}, err
	}
	h := w.planets.Add(p)
	w.attractors = append(w.attractors, p.Attractor())
	return h, nil
}

// AddAsteroid places a free asteroid with the configured density
func (w *World) AddAsteroid(position, velocity physics.Vector2D, radius float64) (entity.Handle, error) {
	if err := entity.CheckInside(entity.KindAsteroid, w.bounds, position); err != nil {
		return entity.Handle{}, err
	}
	a, err := entity.NewAsteroid(position, velocity, radius, w.cfg.Physics.AsteroidDensity)
	if err != nil {
		return entity.Handle{}, err
	}
	return w.asteroids.Add(a), nil
}

// AddEnemy places an enemy that starts a full interval of action
func (w *World) AddEnemy(position physics.Vector2D, weapon entity.Weapon, action entity.Action) (entity.Handle, error) {
	if err := entity.CheckInside(entity.KindEnemy, w.bounds, position); err != nil {
		return entity.Handle{}, err
	}
	e, err := entity.NewEnemy(position, weapon, action, w.cfg.EnemyStats())
	if err != nil {
		return entity.Handle{}, err
	}
	return w.enemies.Add(e), nil
}

// AddTurret places a turret whose first shot comes one interval from now
func (w *World) AddTurret(position physics.Vector2D) (entity.Handle, error) {
	if err := entity.CheckInside(entity.KindTurret, w.bounds, position); err != nil {
		return entity.Handle{}, err
	}
	t, err := entity.NewTurret(position, w.cfg.TurretStats(), w.clock)
	if err != nil {
		return entity.Handle{}, err
	}
	return w.turrets.Add(t), nil
}

// AddZone adds a pickup zone given its top-left corner and size
func (w *World) AddZone(x, y, width, height float64, action entity.ZoneAction) error {
	corner := physics.Vector2D{X: x, Y: y}
	if err := entity.CheckInside(entity.KindZone, w.bounds, corner); err != nil {
		return err
	}
	z, err := entity.NewPickupZone(x, y, width, height, action)
	if err != nil {
		return err
	}
	w.zones = append(w.zones, z)
	return nil
}

// AddRocket launches an enemy rocket homing on target
func (w *World) AddRocket(position, velocity physics.Vector2D, target entity.Handle) (entity.Handle, error) {
	if err := entity.CheckInside(entity.KindRocket, w.bounds, position); err != nil {
		return entity.Handle{}, err
	}
	p, err := entity.NewRocket(position, velocity, w.cfg.RocketStats(), entity.OwnerEnemy, target)
	if err != nil {
		return entity.Handle{}, err
	}
	return w.projectiles.Add(p), nil
}

// AddBullet launches a bullet with the tuning of owner's gun
func (w *World) AddBullet(position, velocity physics.Vector2D, owner entity.Owner) (entity.Handle, error) {
	if err := entity.CheckInside(entity.KindBullet, w.bounds, position); err != nil {
		return entity.Handle{}, err
	}
	stats := w.cfg.ShipStats().Bullet
	if owner != entity.OwnerPlayer {
		stats = w.cfg.EnemyStats().Bullet
	}
	p, err := entity.NewBullet(position, velocity, stats, owner)
	if err != nil {
		return entity.Handle{}, err
	}
	return w.projectiles.Add(p), nil
}

// PlaceShip moves the ship to position at rest with the given heading
func (w *World) PlaceShip(position physics.Vector2D, heading float64) error {
	if err := entity.CheckInside(entity.KindShip, w.bounds, position); err != nil {
		return err
	}
	w.ship.Position = position
	w.ship.Velocity = physics.Vector2D{}
	w.ship.Heading = heading
	return nil
}

// Ship returns a copy of the player ship
func (w *World) Ship() entity.Ship {
	return *w.ship
}

// ShipHandle is the handle rockets use to target the ship
func (w *World) ShipHandle() entity.Handle {
	return w.shipHandle
}

// Frame returns the number of ticks advanced so far
func (w *World) Frame() uint64 {
	return w.frame
}

// Clock returns the elapsed simulation time in frames
func (w *World) Clock() float64 {
	return w.clock
}

// Mission returns the mission flags and the terminal state
func (w *World) Mission() Mission {
	return w.mission
}

// GameOver reports whether the run has ended
func (w *World) GameOver() bool {
	return w.mission.GameOver
}

// Bounds returns the world rectangle
func (w *World) Bounds() physics.Bounds {
	return w.bounds
}

// Events returns the bus world events are published on
func (w *World) Events() *event.Bus {
	return w.bus
}

// RunID returns the correlation id of this run
func (w *World) RunID() string {
	return w.runID
}

// PlanetCount returns the number of planets
func (w *World) PlanetCount() int { return w.planets.Len() }

// AsteroidCount returns the number of asteroids
func (w *World) AsteroidCount() int { return w.asteroids.Len() }

// EnemyCount returns the number of live enemies
func (w *World) EnemyCount() int { return w.enemies.Len() }

// TurretCount returns the number of turrets
func (w *World) TurretCount() int { return w.turrets.Len() }

// ProjectileCount returns the number of bullets and rockets in flight,
// not counting turret shots
func (w *World) ProjectileCount() int { return w.projectiles.Len() }

// TurretShotCount returns the number of turret shots in flight
func (w *World) TurretShotCount() int {
	n := 0
	w.turrets.Each(func(_ entity.Handle, t *entity.Turret) bool {
		for _, s := range t.Shots {
			if !s.Dead {
				n++
			}
		}
		return true
	})
	return n
}

// Planets returns copies of the planets in creation order
func (w *World) Planets() []entity.Planet {
	return copies(w.planets)
}

// Asteroids returns copies of the asteroids in creation order
func (w *World) Asteroids() []entity.Asteroid {
	return copies(w.asteroids)
}

// Enemies returns copies of the live enemies in creation order
func (w *World) Enemies() []entity.Enemy {
	return copies(w.enemies)
}

// Projectiles returns copies of the bullets and rockets in flight
func (w *World) Projectiles() []entity.Projectile {
	return copies(w.projectiles)
}

func copies[T any](r *Registry[T]) []T {
	out := make([]T, 0, r.Len())
	r.Each(func(_ entity.Handle, v *T) bool {
		out = append(out, *v)
		return true
	})
	return out
}
