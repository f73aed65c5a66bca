package engine

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-spacecombat/pkg/config"
	"github.com/opd-ai/go-spacecombat/pkg/entity"
	"github.com/opd-ai/go-spacecombat/pkg/event"
	"github.com/opd-ai/go-spacecombat/pkg/input"
	"github.com/opd-ai/go-spacecombat/pkg/physics"
	"github.com/opd-ai/go-spacecombat/pkg/snapshot"
)

var idle = input.Frame{}

// randomInput mimics a player mashing keys; quit is never pressed
func randomInput(rng *rand.Rand) input.Frame {
	return input.Frame{
		RotateLeft:     rng.IntN(4) == 0,
		RotateRight:    rng.IntN(4) == 0,
		ThrustForward:  rng.IntN(3) == 0,
		ThrustBackward: rng.IntN(6) == 0,
		Fire:           rng.IntN(2) == 0,
		RepairHold:     rng.IntN(5) == 0,
		RefuelHold:     rng.IntN(5) == 0,
	}
}

func TestStep_GravityFall(t *testing.T) {
	w := emptyWorld(t)
	require.NoError(t, w.PlaceShip(physics.Vector2D{X: 9000, Y: 9000}, 0))

	_, err := w.AddPlanet(physics.Vector2D{X: 5000, Y: 5000}, 400)
	require.NoError(t, err)
	_, err = w.AddAsteroid(physics.Vector2D{X: 5000, Y: 3000}, physics.Vector2D{}, 20)
	require.NoError(t, err)

	planet := w.Planets()[0]
	require.InDelta(t, physics.PlanetMass(400, 1), planet.Mass, 1e-6)

	for tick := 1; tick <= 600; tick++ {
		w.Step(1, idle)
		a := w.Asteroids()[0]
		require.GreaterOrEqual(t, a.Position.Distance(planet.Position), planet.Radius+a.Radius-1e-6, "tick %d", tick)
	}

	a := w.Asteroids()[0]
	assert.Greater(t, a.Position.Y, 3000.0)
	assert.InDelta(t, 5000, a.Position.X, 1e-9, "pull is straight down")
}

func TestStep_ElasticHeadOn(t *testing.T) {
	w := emptyWorld(t)
	_, err := w.AddAsteroid(physics.Vector2D{X: 1000, Y: 5000}, physics.Vector2D{X: 5}, 30)
	require.NoError(t, err)
	_, err = w.AddAsteroid(physics.Vector2D{X: 2000, Y: 5000}, physics.Vector2D{X: -5}, 30)
	require.NoError(t, err)

	momentum := func() physics.Vector2D {
		var p physics.Vector2D
		for _, a := range w.Asteroids() {
			p = p.Add(a.Velocity.Scale(a.Mass))
		}
		return p
	}
	p0 := momentum()

	for tick := 0; tick < 200; tick++ {
		w.Step(1, idle)
		p := momentum()
		require.InDelta(t, p0.X, p.X, 1e-6)
		require.InDelta(t, p0.Y, p.Y, 1e-6)
	}

	as := w.Asteroids()
	require.Len(t, as, 2)
	assert.InDelta(t, -5, as[0].Velocity.X, 1e-6)
	assert.InDelta(t, 5, as[1].Velocity.X, 1e-6)
	assert.InDelta(t, 0, as[0].Velocity.Y, 1e-12)
	assert.GreaterOrEqual(t, as[0].Position.Distance(as[1].Position), 60-1e-9)
}

func TestStep_CollisionPassLeavesPairsSeparating(t *testing.T) {
	w := emptyWorld(t)
	lanes := []struct {
		y, speedA, speedB, radius float64
	}{
		{2000, 3, -7, 25},
		{4000, 8, 0, 40},
		{7000, 0.5, -0.5, 15},
	}
	for _, l := range lanes {
		_, err := w.AddAsteroid(physics.Vector2D{X: 3000, Y: l.y}, physics.Vector2D{X: l.speedA}, l.radius)
		require.NoError(t, err)
		_, err = w.AddAsteroid(physics.Vector2D{X: 3400, Y: l.y}, physics.Vector2D{X: l.speedB}, l.radius*1.5)
		require.NoError(t, err)
	}

	for tick := 0; tick < 400; tick++ {
		w.Step(1, idle)
		as := w.Asteroids()
		for i := range as {
			for j := i + 1; j < len(as); j++ {
				a, b := &as[i].Body, &as[j].Body
				if !physics.Overlaps(a, b) {
					continue
				}
				n := a.Position.Sub(b.Position).Normalize()
				require.GreaterOrEqual(t, a.Velocity.Sub(b.Velocity).Dot(n), 0.0, "tick %d pair %d,%d", tick, i, j)
			}
		}
	}
}

func TestStep_BulletLifetime(t *testing.T) {
	w := emptyWorld(t)
	w.ship.Velocity = physics.Vector2D{X: 1, Y: 0.5}
	ship := w.Ship()
	cfg := config.DefaultConfig()

	w.Step(1, input.Frame{Fire: true})
	require.Equal(t, 1, w.ProjectileCount())

	speed := ship.Velocity.Length()
	velocity := physics.Vector2D{X: cfg.Projectile.BulletSpeed + speed}.Add(ship.Velocity)
	spawn := ship.Position.Add(physics.Vector2D{X: ship.Radius + cfg.Ship.MuzzleOffset})

	for tick := 2; tick <= 100; tick++ {
		w.Step(1, idle)
	}
	b := w.Projectiles()[0]
	assert.InDelta(t, spawn.X+velocity.X*100, b.Position.X, 1e-6)
	assert.InDelta(t, spawn.Y+velocity.Y*100, b.Position.Y, 1e-6)
	assert.InDelta(t, velocity.X, b.Velocity.X, 1e-9)
	assert.InDelta(t, velocity.Y, b.Velocity.Y, 1e-9)

	for w.ProjectileCount() > 0 {
		p := w.Projectiles()[0]
		next := p.Position.Add(p.Velocity)
		w.Step(1, idle)
		if !w.Bounds().Contains(next) {
			assert.Zero(t, w.ProjectileCount(), "retired on the tick it left")
			break
		}
		require.Equal(t, 1, w.ProjectileCount())
	}
	assert.Zero(t, w.ProjectileCount())
}

func TestStep_EnemyKill(t *testing.T) {
	w := emptyWorld(t)
	var destroyed []event.Event
	w.Events().Subscribe(event.EnemyDestroyed, func(e event.Event) {
		destroyed = append(destroyed, e)
	})

	// bullet spawns at x=5025 moving +10, so it is at 5035 after the tick
	_, err := w.AddEnemy(physics.Vector2D{X: 5035, Y: 5000}, entity.WeaponBullet, entity.ActionBrake)
	require.NoError(t, err)

	w.Step(1, input.Frame{Fire: true})

	assert.Zero(t, w.EnemyCount())
	for _, p := range w.Projectiles() {
		assert.NotEqual(t, entity.OwnerPlayer, p.Owner)
	}
	require.Len(t, destroyed, 1)
	assert.Equal(t, uint64(1), destroyed[0].GetFrame())
}

func TestStep_EnemyDamageWithoutOneHitKill(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Enemy.OneHitKill = false
	cfg.Enemy.Health = 80
	w, err := NewEmptyWorld(cfg)
	require.NoError(t, err)

	_, err = w.AddEnemy(physics.Vector2D{X: 5035, Y: 5000}, entity.WeaponBullet, entity.ActionBrake)
	require.NoError(t, err)

	w.Step(1, input.Frame{Fire: true})
	require.Equal(t, 1, w.EnemyCount())
	assert.InDelta(t, 80-cfg.Projectile.PlayerBulletDamage, w.Enemies()[0].Health, 1e-9)
}

func TestStep_RocketHoming(t *testing.T) {
	w := emptyWorld(t)
	require.NoError(t, w.PlaceShip(physics.Vector2D{X: 9000, Y: 9000}, 0))
	_, err := w.AddRocket(physics.Vector2D{X: 1000, Y: 1000}, physics.Vector2D{}, w.ShipHandle())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	homing := int(cfg.Rocket.HomingFrames)
	coast := int(cfg.Rocket.CoastFrames)

	prev := 0.0
	for tick := 1; tick <= homing; tick++ {
		w.Step(1, idle)
		r := w.Projectiles()[0]
		require.Greater(t, r.Speed(), prev, "tick %d", tick)
		require.Equal(t, entity.PhaseHoming, r.Phase)
		prev = r.Speed()
	}

	for tick := 1; tick <= coast; tick++ {
		w.Step(1, idle)
		r := w.Projectiles()[0]
		require.Equal(t, prev, r.Speed(), "coast tick %d", tick)
		require.Equal(t, entity.PhaseCoasting, r.Phase)
	}

	w.Step(1, idle)
	assert.Greater(t, w.Projectiles()[0].Speed(), prev, "cycle wraps back to homing")
}

func TestStep_RocketCoastsWithoutTarget(t *testing.T) {
	w := emptyWorld(t)
	stale := entity.Handle{Kind: entity.KindEnemy, Index: 3, Generation: 7}
	_, err := w.AddRocket(physics.Vector2D{X: 1000, Y: 1000}, physics.Vector2D{X: 1}, stale)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		w.Step(1, idle)
	}
	r := w.Projectiles()[0]
	assert.Equal(t, physics.Vector2D{X: 1}, r.Velocity)
	assert.Equal(t, physics.Vector2D{X: 1010, Y: 1000}, r.Position)
}

func TestStep_RocketHitsShip(t *testing.T) {
	w := emptyWorld(t)
	_, err := w.AddRocket(physics.Vector2D{X: 5100, Y: 5000}, physics.Vector2D{X: -5}, w.ShipHandle())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	for i := 0; i < 30 && w.ProjectileCount() > 0; i++ {
		w.Step(1, idle)
	}
	assert.Zero(t, w.ProjectileCount())
	assert.Equal(t, cfg.Ship.MaxHealth-cfg.Rocket.Damage, w.Ship().Health)
}

func TestStep_MissionFlow(t *testing.T) {
	w := emptyWorld(t)
	cfg := config.DefaultConfig()
	for _, z := range cfg.Zones {
		action, err := entity.ParseZoneAction(z.Action)
		require.NoError(t, err)
		require.NoError(t, w.AddZone(z.X, z.Y, z.Width, z.Height, action))
	}

	var completed int
	w.Events().Subscribe(event.MissionCompleted, func(event.Event) { completed++ })

	w.ship.Fuel = 10
	require.NoError(t, w.PlaceShip(physics.Vector2D{X: 5000, Y: 1000}, 0))
	w.Step(1, idle)
	assert.Equal(t, cfg.Ship.MaxFuel, w.Ship().Fuel)

	require.NoError(t, w.PlaceShip(physics.Vector2D{X: 1000, Y: 5000}, 0))
	w.Step(1, idle)
	assert.False(t, w.Mission().Complete, "delivering without the item does nothing")

	require.NoError(t, w.PlaceShip(physics.Vector2D{X: 3000, Y: 5000}, 0))
	w.Step(1, idle)
	assert.True(t, w.Mission().HasItem)
	assert.False(t, w.Mission().Complete)

	require.NoError(t, w.PlaceShip(physics.Vector2D{X: 1000, Y: 5000}, 0))
	s := w.Step(1, idle)
	assert.True(t, w.Mission().Complete)
	assert.True(t, s.MissionComplete)
	assert.True(t, s.HasItem)

	w.Step(1, idle)
	assert.Equal(t, 1, completed)
	assert.False(t, w.GameOver(), "completing the mission does not end the run")
}

func TestStep_TurretFiresOnInterval(t *testing.T) {
	w := emptyWorld(t)
	_, err := w.AddTurret(physics.Vector2D{X: 5300, Y: 5000})
	require.NoError(t, err)

	for tick := 1; tick < 90; tick++ {
		w.Step(1, idle)
	}
	assert.Zero(t, w.TurretShotCount())

	w.Step(1, idle)
	assert.Equal(t, 1, w.TurretShotCount())

	for tick := 91; tick < 132; tick++ {
		w.Step(1, idle)
	}
	assert.Equal(t, 100.0, w.Ship().Health)

	s := w.Step(1, idle)
	assert.Equal(t, 85.0, w.Ship().Health)
	assert.Zero(t, w.TurretShotCount())
	assert.Empty(t, s.Projectiles)
}

func TestStep_ShipPlanetCrash(t *testing.T) {
	w := emptyWorld(t)
	_, err := w.AddPlanet(physics.Vector2D{X: 5300, Y: 5000}, 250)
	require.NoError(t, err)
	w.ship.Velocity = physics.Vector2D{X: 6}

	for i := 0; i < 10; i++ {
		w.Step(1, idle)
	}
	ship := w.Ship()
	assert.Less(t, ship.Velocity.X, 0.0, "bounced back")
	assert.Less(t, ship.Health, 100.0)
	assert.Greater(t, ship.Health, 90.0)
	assert.GreaterOrEqual(t, ship.Position.Distance(physics.Vector2D{X: 5300, Y: 5000}), 270-1e-6)
}

func TestStep_ShipAsteroidDamping(t *testing.T) {
	w := emptyWorld(t)
	_, err := w.AddAsteroid(physics.Vector2D{X: 5100, Y: 5000}, physics.Vector2D{}, 40)
	require.NoError(t, err)
	w.ship.Velocity = physics.Vector2D{X: 8}

	var damage []*event.DamageEvent
	w.Events().Subscribe(event.ShipDamaged, func(e event.Event) {
		damage = append(damage, e.(*event.DamageEvent))
	})

	for i := 0; i < 10 && len(damage) == 0; i++ {
		w.Step(1, idle)
	}
	require.Len(t, damage, 1)
	assert.Equal(t, "asteroid", damage[0].Cause)
	assert.InDelta(t, 8*0.5, damage[0].Amount, 1e-9)
	assert.Greater(t, w.Asteroids()[0].Velocity.X, 0.0, "asteroid pushed away")
}

func TestStep_PlayerBulletsStopAtAsteroids(t *testing.T) {
	w := emptyWorld(t)
	_, err := w.AddAsteroid(physics.Vector2D{X: 3000, Y: 3000}, physics.Vector2D{}, 30)
	require.NoError(t, err)
	_, err = w.AddBullet(physics.Vector2D{X: 2950, Y: 3000}, physics.Vector2D{X: 10}, entity.OwnerPlayer)
	require.NoError(t, err)
	_, err = w.AddBullet(physics.Vector2D{X: 2950, Y: 3010}, physics.Vector2D{X: 10}, entity.OwnerEnemy)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		w.Step(1, idle)
	}
	ps := w.Projectiles()
	require.Len(t, ps, 1)
	assert.Equal(t, entity.OwnerEnemy, ps[0].Owner, "enemy rounds pass through asteroids")
}

func TestStep_BulletsStopAtPlanets(t *testing.T) {
	w := emptyWorld(t)
	_, err := w.AddPlanet(physics.Vector2D{X: 2000, Y: 2000}, 100)
	require.NoError(t, err)
	_, err = w.AddBullet(physics.Vector2D{X: 1880, Y: 2000}, physics.Vector2D{X: 10}, entity.OwnerEnemy)
	require.NoError(t, err)

	w.Step(1, idle)
	w.Step(1, idle)
	assert.Zero(t, w.ProjectileCount())
}

func TestStep_GameOverAtBorder(t *testing.T) {
	w := emptyWorld(t)
	require.NoError(t, w.PlaceShip(physics.Vector2D{X: 10, Y: 5000}, 0))
	w.ship.Velocity = physics.Vector2D{X: -20}

	var ended []string
	w.Events().Subscribe(event.GameEnded, func(e event.Event) {
		ended = append(ended, e.(*event.GameEvent).Detail)
	})

	s := w.Step(1, idle)
	assert.True(t, s.GameOver)
	assert.Equal(t, string(ReasonBorder), s.Reason)
	assert.Equal(t, 0.0, w.Ship().Position.X)
	assert.Zero(t, w.Ship().Velocity.X)
	assert.Equal(t, []string{"border"}, ended)

	frame := w.Frame()
	after := w.Step(1, input.Frame{ThrustForward: true, Fire: true})
	assert.Equal(t, frame, w.Frame(), "step is a no-op after game over")
	assert.Equal(t, s, after)
	assert.Len(t, ended, 1)
}

func TestStep_GameOverWhenDestroyed(t *testing.T) {
	w := emptyWorld(t)
	w.ship.Health = 5
	_, err := w.AddBullet(physics.Vector2D{X: 5020, Y: 5000}, physics.Vector2D{X: -1}, entity.OwnerEnemy)
	require.NoError(t, err)

	s := w.Step(1, idle)
	assert.True(t, s.GameOver)
	assert.Equal(t, string(ReasonDestroyed), s.Reason)
	assert.Zero(t, s.Health)
}

func TestStep_Quit(t *testing.T) {
	w := emptyWorld(t)
	s := w.Step(1, input.Frame{Quit: true, ThrustForward: true})
	assert.True(t, s.GameOver)
	assert.Equal(t, ReasonQuit, w.Mission().Reason)
	assert.Zero(t, w.Frame())
	assert.Equal(t, config.DefaultConfig().Ship.MaxFuel, s.Fuel, "quit frame applies no input")
}

func TestStep_RepairNeedsNoMovement(t *testing.T) {
	w := emptyWorld(t)
	w.ship.Health = 50
	w.ship.Fuel = 0

	// no fuel: thrust does nothing, but the movement bit still blocks repair
	w.Step(1, input.Frame{ThrustForward: true, RepairHold: true})
	assert.Equal(t, 50.0, w.Ship().Health)

	w.Step(1, input.Frame{RepairHold: true, RefuelHold: true})
	assert.Greater(t, w.Ship().Health, 50.0)
	assert.Greater(t, w.Ship().Fuel, 0.0)
}

func TestStep_NonPositiveDTFallsBack(t *testing.T) {
	w := emptyWorld(t)
	w.Step(0, idle)
	w.Step(-3, idle)
	assert.Equal(t, 2.0, w.Clock())
	assert.Equal(t, uint64(2), w.Frame())
}

func TestStep_Invariants(t *testing.T) {
	w := seededWorld(t, 7)
	rng := rand.New(rand.NewPCG(7, 7))
	cfg := config.TestModeConfig()
	bounds := w.Bounds()

	type aiState struct {
		action entity.Action
		timer  float64
	}
	previous := map[entity.Handle]aiState{}

	for tick := 1; tick <= 1500; tick++ {
		w.enemies.Each(func(h entity.Handle, e *entity.Enemy) bool {
			previous[h] = aiState{e.Action, e.ActionTimer}
			return true
		})

		s := w.Step(1, randomInput(rng))

		// positions stay inside the world
		require.True(t, bounds.Contains(s.Ship.Position), "tick %d ship", tick)
		for _, a := range s.Asteroids {
			require.True(t, bounds.Contains(a.Position), "tick %d asteroid", tick)
		}
		for _, e := range s.Enemies {
			require.True(t, bounds.Contains(e.Position), "tick %d enemy", tick)
		}
		for _, p := range s.Projectiles {
			require.True(t, bounds.Contains(p.Position), "tick %d %s", tick, p.Kind)
		}

		// ship resources stay in range
		ship := w.Ship()
		require.GreaterOrEqual(t, ship.Fuel, 0.0)
		require.LessOrEqual(t, ship.Fuel, cfg.Ship.MaxFuel)
		require.GreaterOrEqual(t, ship.Health, 0.0)
		require.LessOrEqual(t, ship.Health, cfg.Ship.MaxHealth)
		require.GreaterOrEqual(t, ship.Ammo, 0)
		require.GreaterOrEqual(t, ship.GunCooldown, 0.0)

		// actions only change when the timer runs out
		if w.GameOver() {
			continue
		}
		w.enemies.Each(func(h entity.Handle, e *entity.Enemy) bool {
			prev, ok := previous[h]
			if !ok {
				return true
			}
			if prev.timer-1 > 0 {
				require.Equal(t, prev.action, e.Action, "tick %d", tick)
				require.Equal(t, prev.timer-1, e.ActionTimer)
			} else {
				require.Equal(t, cfg.Enemy.ActionDuration, e.ActionTimer)
			}
			return true
		})
	}
}

func TestStep_Deterministic(t *testing.T) {
	a := seededWorld(t, 99)
	b := seededWorld(t, 99)
	rng := rand.New(rand.NewPCG(1, 2))

	trace := input.NewTrace(a.cfg)
	for tick := 0; tick < 800; tick++ {
		in := randomInput(rng)
		trace.Append(in)
		require.Equal(t, a.Step(1, in), b.Step(1, in), "tick %d", tick)
	}

	var buf bytes.Buffer
	require.NoError(t, trace.Encode(&buf))
	replayed, err := input.DecodeTrace(&buf)
	require.NoError(t, err)

	c, err := NewWorld(replayed.Config)
	require.NoError(t, err)
	var last snapshot.Snapshot
	for i := 0; i < replayed.Len(); i++ {
		last = c.Step(replayed.DT, replayed.At(i))
	}
	assert.Equal(t, a.Snapshot(), last)
}

func TestStep_EnemyBouncesOffPlanet(t *testing.T) {
	w := emptyWorld(t)
	planet := physics.Vector2D{X: 3000, Y: 3000}
	_, err := w.AddPlanet(planet, 200)
	require.NoError(t, err)
	h, err := w.AddEnemy(physics.Vector2D{X: 3220, Y: 3000}, entity.WeaponBullet, entity.ActionBrake)
	require.NoError(t, err)
	e, ok := w.enemies.Get(h)
	require.True(t, ok)
	e.Velocity = physics.Vector2D{X: -5}

	var hits []*event.CollisionEvent
	w.Events().Subscribe(event.EntityCollision, func(ev event.Event) {
		hits = append(hits, ev.(*event.CollisionEvent))
	})

	contact := 200 + config.DefaultConfig().Enemy.Radius
	w.Step(1, idle)
	enemy := w.Enemies()[0]
	assert.Greater(t, enemy.Velocity.X, 0.0, "velocity reflected off the surface")
	assert.GreaterOrEqual(t, enemy.Position.Distance(planet), contact-1e-6)
	require.Len(t, hits, 1)
	assert.Equal(t, "enemy", hits[0].KindA)
	assert.Equal(t, "planet", hits[0].KindB)

	for tick := 2; tick <= 30; tick++ {
		w.Step(1, idle)
		require.GreaterOrEqual(t, w.Enemies()[0].Position.Distance(planet), contact-1e-6, "tick %d", tick)
	}
	assert.Greater(t, w.Enemies()[0].Position.Distance(planet), contact+50, "moving away")
	assert.Len(t, hits, 1)
}

func TestStep_EnemyFireDamagesShip(t *testing.T) {
	tests := []struct {
		name   string
		weapon entity.Weapon
		ticks  int
	}{
		{"bullet", entity.WeaponBullet, 90},
		{"rocket", entity.WeaponRocket, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := emptyWorld(t)
			_, err := w.AddEnemy(physics.Vector2D{X: 5300, Y: 5000}, tt.weapon, entity.ActionBrake)
			require.NoError(t, err)

			var fired []*event.ProjectileEvent
			var damage []*event.DamageEvent
			w.Events().Subscribe(event.ProjectileFired, func(ev event.Event) {
				fired = append(fired, ev.(*event.ProjectileEvent))
			})
			w.Events().Subscribe(event.ShipDamaged, func(ev event.Event) {
				damage = append(damage, ev.(*event.DamageEvent))
			})

			for tick := 0; tick < tt.ticks; tick++ {
				w.Step(1, idle)
			}

			require.NotEmpty(t, fired)
			for _, f := range fired {
				assert.Equal(t, tt.weapon.String(), f.Kind)
				assert.Equal(t, entity.OwnerEnemy.String(), f.Owner)
			}
			require.NotEmpty(t, damage)
			for _, d := range damage {
				assert.Equal(t, tt.weapon.String(), d.Cause)
				assert.Equal(t, 10.0, d.Amount)
			}
			assert.Equal(t, 100-10*float64(len(damage)), w.Ship().Health)
			assert.LessOrEqual(t, len(damage), len(fired))
		})
	}
}

func TestStep_HullOnBorderIsNotGameOver(t *testing.T) {
	w := emptyWorld(t)
	radius := w.Ship().Radius
	edges := []physics.Vector2D{
		{X: radius - 5, Y: 5000},
		{X: w.Bounds().Width - radius + 5, Y: 5000},
		{X: 5000, Y: 1},
	}

	for _, pos := range edges {
		require.NoError(t, w.PlaceShip(pos, 0))
		s := w.Step(1, idle)
		assert.False(t, s.GameOver, "centre at %v is inside", pos)
		assert.Equal(t, pos, w.Ship().Position)
	}
}

func TestWorld_ProjectileHandles(t *testing.T) {
	w := emptyWorld(t)
	rocket, err := w.AddRocket(physics.Vector2D{X: 1000, Y: 1000}, physics.Vector2D{}, w.ShipHandle())
	require.NoError(t, err)
	bullet, err := w.AddBullet(physics.Vector2D{X: 2000, Y: 1000}, physics.Vector2D{X: 1}, entity.OwnerEnemy)
	require.NoError(t, err)

	assert.Equal(t, entity.KindProjectile, rocket.Kind)
	assert.Equal(t, entity.KindProjectile, bullet.Kind)
	assert.NotEqual(t, rocket, bullet)

	p, ok := w.projectiles.Get(rocket)
	require.True(t, ok)
	assert.Equal(t, entity.KindRocket, p.Kind)

	_, ok = w.projectiles.Get(entity.Handle{Kind: entity.KindBullet, Index: bullet.Index, Generation: bullet.Generation})
	assert.False(t, ok, "handles of another kind do not resolve")
}
