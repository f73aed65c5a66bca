package engine

import (
	"github.com/opd-ai/go-spacecombat/pkg/config"
	"github.com/opd-ai/go-spacecombat/pkg/entity"
	"github.com/opd-ai/go-spacecombat/pkg/snapshot"
)

// palette is the parsed form of config.PaletteConfig
type palette struct {
	ship         snapshot.Color
	planets      []snapshot.Color
	asteroid     snapshot.Color
	bulletEnemy  snapshot.Color
	rocketEnemy  snapshot.Color
	playerBullet snapshot.Color
	enemyBullet  snapshot.Color
	rocket       snapshot.Color
	turret       snapshot.Color
	turretShot   snapshot.Color
	zoneRefuel   snapshot.Color
	zoneItem     snapshot.Color
	zoneDeliver  snapshot.Color
}

func newPalette(pc config.PaletteConfig) (palette, error) {
	var p palette
	fields := []struct {
		dst *snapshot.Color
		src string
	}{
		{&p.ship, pc.Ship},
		{&p.asteroid, pc.Asteroid},
		{&p.bulletEnemy, pc.BulletEnemy},
		{&p.rocketEnemy, pc.RocketEnemy},
		{&p.playerBullet, pc.PlayerBullet},
		{&p.enemyBullet, pc.EnemyBullet},
		{&p.rocket, pc.Rocket},
		{&p.turret, pc.Turret},
		{&p.turretShot, pc.TurretShot},
		{&p.zoneRefuel, pc.ZoneRefuel},
		{&p.zoneItem, pc.ZoneItem},
		{&p.zoneDeliver, pc.ZoneDeliver},
	}
	for _, f := range fields {
		c, err := snapshot.ParseColor(f.src)
		if err != nil {
			return palette{}, err
		}
		*f.dst = c
	}
	for _, s := range pc.Planets {
		c, err := snapshot.ParseColor(s)
		if err != nil {
			return palette{}, err
		}
		p.planets = append(p.planets, c)
	}
	return p, nil
}

func (p palette) planet(i int) snapshot.Color {
	if len(p.planets) == 0 {
		return snapshot.Color{A: 0xFF}
	}
	return p.planets[i%len(p.planets)]
}

func (p palette) enemy(w entity.Weapon) snapshot.Color {
	if w == entity.WeaponRocket {
		return p.rocketEnemy
	}
	return p.bulletEnemy
}

func (p palette) projectile(pr *entity.Projectile) snapshot.Color {
	switch {
	case pr.IsRocket():
		return p.rocket
	case pr.Owner == entity.OwnerPlayer:
		return p.playerBullet
	default:
		return p.enemyBullet
	}
}

func (p palette) zone(a entity.ZoneAction) snapshot.Color {
	switch a {
	case entity.ZoneAcquireItem:
		return p.zoneItem
	case entity.ZoneDeliverItem:
		return p.zoneDeliver
	default:
		return p.zoneRefuel
	}
}

// Snapshot builds the read-only view published after every tick
func (w *World) Snapshot() snapshot.Snapshot {
	ship := w.ship
	s := snapshot.Snapshot{
		Frame: w.frame,
		World: snapshot.WorldInfo{
			Width:        w.bounds.Width,
			Height:       w.bounds.Height,
			ScreenWidth:  w.cfg.World.ScreenWidth,
			ScreenHeight: w.cfg.World.ScreenHeight,
			GridSpacing:  w.cfg.World.GridSpacing,
		},
		Ship: snapshot.Ship{
			Position:  ship.Position,
			Velocity:  ship.Velocity,
			Heading:   ship.Heading,
			Radius:    ship.Radius,
			Thrusters: ship.Thrusters,
			Color:     w.colors.ship,
		},
		Planets:     make([]snapshot.Planet, 0, w.planets.Len()),
		Asteroids:   make([]snapshot.Asteroid, 0, w.asteroids.Len()),
		Enemies:     make([]snapshot.Enemy, 0, w.enemies.Len()),
		Projectiles: make([]snapshot.Projectile, 0, w.projectiles.Len()),
		Turrets:     make([]snapshot.Turret, 0, w.turrets.Len()),
		Zones:       make([]snapshot.Zone, 0, len(w.zones)),

		Fuel:            ship.Fuel,
		Health:          ship.Health,
		Ammo:            ship.Ammo,
		HasItem:         w.mission.HasItem,
		MissionComplete: w.mission.Complete,
		GameOver:        w.mission.GameOver,
		Reason:          string(w.mission.Reason),
	}

	i := 0
	w.planets.Each(func(_ entity.Handle, p *entity.Planet) bool {
		s.Planets = append(s.Planets, snapshot.Planet{Position: p.Position, Radius: p.Radius, Color: w.colors.planet(i)})
		i++
		return true
	})
	w.asteroids.Each(func(_ entity.Handle, a *entity.Asteroid) bool {
		s.Asteroids = append(s.Asteroids, snapshot.Asteroid{Position: a.Position, Radius: a.Radius, Color: w.colors.asteroid})
		return true
	})
	w.enemies.Each(func(_ entity.Handle, e *entity.Enemy) bool {
		s.Enemies = append(s.Enemies, snapshot.Enemy{
			Position: e.Position,
			Radius:   e.Radius,
			Weapon:   e.Weapon.String(),
			Action:   e.Action.String(),
			Color:    w.colors.enemy(e.Weapon),
		})
		return true
	})
	w.projectiles.Each(func(_ entity.Handle, p *entity.Projectile) bool {
		s.Projectiles = append(s.Projectiles, snapshot.Projectile{
			Position: p.Position,
			Velocity: p.Velocity,
			Radius:   p.Radius,
			Kind:     p.Kind.String(),
			Owner:    p.Owner.String(),
			Color:    w.colors.projectile(p),
		})
		return true
	})
	w.turrets.Each(func(_ entity.Handle, t *entity.Turret) bool {
		s.Turrets = append(s.Turrets, snapshot.Turret{Position: t.Position, Size: t.Stats.Size, Color: w.colors.turret})
		for _, shot := range t.Shots {
			if shot.Dead {
				continue
			}
			s.Projectiles = append(s.Projectiles, snapshot.Projectile{
				Position: shot.Position,
				Velocity: shot.Velocity,
				Radius:   shot.Radius,
				Kind:     entity.KindTurretShot.String(),
				Owner:    entity.OwnerTurret.String(),
				Color:    w.colors.turretShot,
			})
		}
		return true
	})
	for _, z := range w.zones {
		s.Zones = append(s.Zones, snapshot.Zone{
			Min:    z.Rect.Min(),
			Width:  z.Rect.Width,
			Height: z.Rect.Height,
			Action: z.Action.String(),
			Color:  w.colors.zone(z.Action),
		})
	}
	return s
}
