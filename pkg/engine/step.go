// pkg/engine/step.go
package engine

import (
	"github.com/opd-ai/go-spacecombat/pkg/entity"
	"github.com/opd-ai/go-spacecombat/pkg/event"
	"github.com/opd-ai/go-spacecombat/pkg/input"
	"github.com/opd-ai/go-spacecombat/pkg/physics"
	"github.com/opd-ai/go-spacecombat/pkg/snapshot"
)

// Step advances the world by dt frames using the input sampled for this
// tick and returns the resulting snapshot. A non-positive dt falls back to
// world.dt. Once the game is over Step changes nothing and keeps returning
// the final snapshot.
func (w *World) Step(dt float64, in input.Frame) snapshot.Snapshot {
	if w.mission.GameOver {
		return w.Snapshot()
	}
	if dt <= 0 {
		dt = w.cfg.World.DT
	}
	if in.Quit {
		w.endGame(ReasonQuit)
		return w.Snapshot()
	}

	w.frame++
	w.clock += dt
	w.metrics.tick(w.ctx)

	w.applyInput(in, dt)
	w.updateShip(dt)
	w.updateEnemies(dt)
	w.updateAsteroids(dt)
	w.updateProjectiles(dt)
	w.updateTurrets(dt)
	w.resolveBounces()
	w.enforceBounds()
	w.checkZones()
	w.compact()

	return w.Snapshot()
}

// applyInput turns the input frame into ship actions
func (w *World) applyInput(in input.Frame, dt float64) {
	s := w.ship
	s.BeginFrame(dt)

	if in.RotateLeft {
		s.RotateLeft(dt)
	}
	if in.RotateRight {
		s.RotateRight(dt)
	}
	if in.ThrustForward {
		s.ThrustForward(dt)
	}
	if in.ThrustBackward {
		s.ThrustBackward(dt)
	}
	if in.Fire {
		if p, ok := s.Shoot(); ok {
			w.spawnProjectile(p, w.shipHandle)
		}
	}
	if !in.Moving() {
		if in.RepairHold {
			s.RepairHold(dt)
		}
		if in.RefuelHold {
			s.RefuelHold(dt)
		}
	}
}

func (w *World) updateShip(dt float64) {
	physics.ApplyGravity(&w.ship.Body, w.attractors, w.cfg.Physics.Gravity, dt)
	w.ship.Step(dt)
}

// updateEnemies runs gravity, AI, integration, planet bounces and firing
// for each enemy in list order. The first enemy leads the formation.
func (w *World) updateEnemies(dt float64) {
	var leader *physics.Vector2D
	index := 0

	w.enemies.Each(func(h entity.Handle, e *entity.Enemy) bool {
		physics.ApplyGravity(&e.Body, w.attractors, w.cfg.Physics.Gravity, dt)
		e.Think(entity.AIContext{Ship: w.ship.Position, Index: index, Leader: leader}, w.rng, dt)
		e.Step(dt)
		w.bounceOffPlanets(&e.Body, entity.KindEnemy)

		if p, ok := e.TryFire(w.ship.Position, w.shipHandle); ok {
			w.spawnProjectile(p, h)
		}
		if index == 0 {
			pos := e.Position
			leader = &pos
		}
		index++
		return true
	})
}

func (w *World) updateAsteroids(dt float64) {
	w.asteroids.Each(func(_ entity.Handle, a *entity.Asteroid) bool {
		physics.ApplyGravity(&a.Body, w.attractors, w.cfg.Physics.Gravity, dt)
		a.Step(dt)
		w.bounds.ClampBody(&a.Body)
		return true
	})
}

// updateProjectiles steers rockets, moves every projectile and retires
// those that left the world or hit something
func (w *World) updateProjectiles(dt float64) {
	w.rebuildGrid()

	w.projectiles.Each(func(_ entity.Handle, p *entity.Projectile) bool {
		if p.Dead {
			return true
		}
		if p.IsRocket() {
			target, found := w.resolve(p.Target)
			p.Steer(target, found, dt)
		}
		p.Update(w.bounds, dt)
		if !p.Dead {
			w.hitTest(p)
		}
		return true
	})
}

func (w *World) hitTest(p *entity.Projectile) {
	if w.hitsPlanet(&p.Body) {
		p.Dead = true
		w.collided(p.Kind, entity.KindPlanet)
		return
	}
	if p.Owner == entity.OwnerPlayer && w.hitsAsteroid(&p.Body) {
		p.Dead = true
		w.collided(p.Kind, entity.KindAsteroid)
		return
	}

	if p.Owner == entity.OwnerPlayer {
		w.enemies.Each(func(h entity.Handle, e *entity.Enemy) bool {
			if e.Dead() || !physics.Overlaps(&p.Body, &e.Body) {
				return true
			}
			p.Dead = true
			w.collided(p.Kind, entity.KindEnemy)
			w.damageEnemy(h, e, p.Damage)
			return false
		})
		return
	}

	if physics.Overlaps(&p.Body, &w.ship.Body) {
		p.Dead = true
		w.collided(p.Kind, entity.KindShip)
		w.damageShip(p.Kind.String(), p.Damage)
	}
}

// updateTurrets fires, moves turret shots and applies their hits on the ship
func (w *World) updateTurrets(dt float64) {
	w.turrets.Each(func(h entity.Handle, t *entity.Turret) bool {
		if t.Update(w.clock, w.ship.Position, w.bounds, dt) {
			kind, owner := entity.KindTurretShot.String(), entity.OwnerTurret.String()
			w.metrics.projectileFired(w.ctx, kind, owner)
			w.bus.Publish(event.NewProjectileEvent(h, w.frame, kind, owner))
		}
		for i := range t.Shots {
			shot := &t.Shots[i]
			if shot.Dead || !physics.Overlaps(&shot.Body, &w.ship.Body) {
				continue
			}
			shot.Dead = true
			w.collided(entity.KindTurretShot, entity.KindShip)
			w.damageShip(entity.KindTurretShot.String(), t.Stats.Damage)
		}
		return true
	})
}

// resolveBounces runs the pairwise bounce pass: ship with planets, ship
// with asteroids, asteroid pairs, then asteroids with planets. Enemies
// already bounced off planets during their own update.
func (w *World) resolveBounces() {
	restitution := w.cfg.Physics.Restitution
	ship := w.ship

	w.planets.Each(func(_ entity.Handle, pl *entity.Planet) bool {
		speed := ship.Speed()
		res := physics.ResolveStatic(&ship.Body, pl.Collider(), restitution)
		if res.Collided && res.Impulse > 0 {
			w.collided(entity.KindShip, entity.KindPlanet)
			w.damageShip(entity.KindPlanet.String(), speed*w.cfg.Physics.PlanetDamageMultiplier)
		}
		return true
	})

	asteroids := w.asteroids.Values()
	for _, a := range asteroids {
		speed := ship.Speed()
		res := physics.ResolveElastic(&ship.Body, &a.Body, restitution)
		if res.Collided && res.Impulse > 0 {
			ship.Velocity = ship.Velocity.Scale(w.cfg.Physics.ShipAsteroidDamping)
			w.collided(entity.KindShip, entity.KindAsteroid)
			w.damageShip(entity.KindAsteroid.String(), speed*w.cfg.Physics.AsteroidDamageMultiplier)
		}
	}

	for i := range asteroids {
		for j := i + 1; j < len(asteroids); j++ {
			res := physics.ResolveElastic(&asteroids[i].Body, &asteroids[j].Body, restitution)
			if res.Collided && res.Impulse > 0 {
				w.collided(entity.KindAsteroid, entity.KindAsteroid)
			}
		}
	}

	for _, a := range asteroids {
		w.bounceOffPlanets(&a.Body, entity.KindAsteroid)
	}
}

// enforceBounds ends the game on a destroyed ship or a ship that reached
// the border, then clamps every free body back into the world
func (w *World) enforceBounds() {
	if w.ship.Destroyed() {
		w.endGame(ReasonDestroyed)
	}
	p := w.ship.Position
	atBorder := p.X <= 0 || p.Y <= 0 || p.X >= w.bounds.Width || p.Y >= w.bounds.Height
	w.bounds.ClampBody(&w.ship.Body)
	if atBorder {
		w.endGame(ReasonBorder)
	}

	w.asteroids.Each(func(_ entity.Handle, a *entity.Asteroid) bool {
		w.bounds.ClampBody(&a.Body)
		return true
	})
	w.enemies.Each(func(_ entity.Handle, e *entity.Enemy) bool {
		w.bounds.ClampBody(&e.Body)
		return true
	})
}

// checkZones applies the pickup zones the ship overlaps
func (w *World) checkZones() {
	if w.mission.GameOver {
		return
	}
	for _, z := range w.zones {
		if !z.Touches(&w.ship.Body) {
			continue
		}
		switch z.Action {
		case entity.ZoneRefuel:
			if w.ship.Fuel < w.ship.Stats.MaxFuel {
				w.ship.Refill()
				w.bus.Publish(event.NewGameEvent(event.ShipRefueled, w.shipHandle, w.frame, z.Action.String()))
			}
		case entity.ZoneAcquireItem:
			if !w.mission.HasItem {
				w.mission.HasItem = true
				w.logger.Info(w.ctx, "item acquired", "frame", w.frame)
				w.bus.Publish(event.NewGameEvent(event.ItemAcquired, w.shipHandle, w.frame, z.Action.String()))
			}
		case entity.ZoneDeliverItem:
			if w.mission.HasItem && !w.mission.Complete {
				w.mission.Complete = true
				w.logger.Info(w.ctx, "mission complete", "frame", w.frame)
				w.bus.Publish(event.NewGameEvent(event.MissionCompleted, w.shipHandle, w.frame, z.Action.String()))
			}
		}
	}
}

// compact removes dead enemies and projectiles and drops expired turret
// shots. Nothing is removed while a pass is iterating.
func (w *World) compact() {
	w.enemies.Each(func(h entity.Handle, e *entity.Enemy) bool {
		if e.Dead() {
			w.enemies.Remove(h)
		}
		return true
	})
	w.projectiles.Each(func(h entity.Handle, p *entity.Projectile) bool {
		if p.Dead {
			w.projectiles.Remove(h)
		}
		return true
	})

	w.metrics.entitiesRemoved(w.ctx, entity.KindEnemy.String(), w.enemies.Compact())
	w.metrics.entitiesRemoved(w.ctx, entity.KindProjectile.String(), w.projectiles.Compact())

	shots := 0
	w.turrets.Each(func(_ entity.Handle, t *entity.Turret) bool {
		shots += t.Compact()
		return true
	})
	w.metrics.entitiesRemoved(w.ctx, entity.KindTurretShot.String(), shots)
}

func (w *World) spawnProjectile(p *entity.Projectile, source entity.Handle) {
	w.projectiles.Add(p)
	kind, owner := p.Kind.String(), p.Owner.String()
	w.metrics.projectileFired(w.ctx, kind, owner)
	w.bus.Publish(event.NewProjectileEvent(source, w.frame, kind, owner))
}

func (w *World) damageShip(cause string, amount float64) {
	before := w.ship.Health
	w.ship.TakeDamage(amount)
	lost := before - w.ship.Health
	if lost <= 0 {
		return
	}
	w.metrics.shipDamaged(w.ctx, cause, lost)
	w.bus.Publish(event.NewDamageEvent(w.shipHandle, w.frame, cause, lost, w.ship.Health))
}

func (w *World) damageEnemy(h entity.Handle, e *entity.Enemy, amount float64) {
	if w.cfg.Enemy.OneHitKill {
		e.Kill()
	} else {
		e.Health -= amount
	}
	if !e.Dead() {
		return
	}
	w.enemies.Remove(h)
	w.logger.Debug(w.ctx, "enemy destroyed", "frame", w.frame, "weapon", e.Weapon.String())
	w.bus.Publish(event.NewGameEvent(event.EnemyDestroyed, h, w.frame, e.Weapon.String()))
}

func (w *World) endGame(reason Reason) {
	if w.mission.GameOver {
		return
	}
	w.mission.GameOver = true
	w.mission.Reason = reason
	w.logger.Info(w.ctx, "game over",
		"reason", string(reason),
		"frame", w.frame,
		"health", w.ship.Health,
		"mission_complete", w.mission.Complete,
	)
	w.bus.Publish(event.NewGameEvent(event.GameEnded, w.shipHandle, w.frame, string(reason)))
}

func (w *World) collided(a, b entity.Kind) {
	w.metrics.collision(w.ctx, a.String(), b.String())
	w.bus.Publish(event.NewCollisionEvent(w, w.frame, a.String(), b.String()))
}

func (w *World) bounceOffPlanets(b *physics.Body, kind entity.Kind) {
	w.planets.Each(func(_ entity.Handle, pl *entity.Planet) bool {
		res := physics.ResolveStatic(b, pl.Collider(), w.cfg.Physics.Restitution)
		if res.Collided && res.Impulse > 0 {
			w.collided(kind, entity.KindPlanet)
		}
		return true
	})
}

func (w *World) hitsPlanet(b *physics.Body) bool {
	hit := false
	w.planets.Each(func(_ entity.Handle, pl *entity.Planet) bool {
		hit = physics.Overlaps(b, &pl.Body)
		return !hit
	})
	return hit
}

func (w *World) rebuildGrid() {
	w.grid.Clear()
	clear(w.gridKeys)
	w.gridKeys = w.gridKeys[:0]
	w.asteroids.Each(func(_ entity.Handle, a *entity.Asteroid) bool {
		w.grid.Insert(a.Collider(), len(w.gridKeys))
		w.gridKeys = append(w.gridKeys, a)
		return true
	})
}

func (w *World) hitsAsteroid(b *physics.Body) bool {
	w.queryBuf = w.grid.Query(b.Collider(), w.queryBuf[:0])
	for _, k := range w.queryBuf {
		if physics.Overlaps(b, &w.gridKeys[k].Body) {
			return true
		}
	}
	return false
}

// resolve looks a weak target handle up. A target that no longer exists
// reports false and the caller coasts.
func (w *World) resolve(h entity.Handle) (physics.Vector2D, bool) {
	switch h.Kind {
	case entity.KindShip:
		if h == w.shipHandle && !w.ship.Destroyed() {
			return w.ship.Position, true
		}
	case entity.KindEnemy:
		if e, ok := w.enemies.Get(h); ok {
			return e.Position, true
		}
	case entity.KindAsteroid:
		if a, ok := w.asteroids.Get(h); ok {
			return a.Position, true
		}
	}
	return physics.Vector2D{}, false
}
