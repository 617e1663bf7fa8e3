package sim

import (
	"fmt"
	"math"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// updateCop runs one tick of the cop state machine for entity i.
//
//	Idle      → Reloading (magazine empty) | Aiming (zombie found)
//	Aiming    → Idle (target gone | shot fired)
//	Moving    → Idle (last waypoint reached)
//	Reloading → Idle (cooldown elapsed)
func (w *World) updateCop(i int, dt float64) {
	e := &w.entities[i]
	c := e.Cop()

	switch c.Mode {
	case CopIdle:
		if c.Rounds <= 0 {
			w.startReload(i)
			return
		}
		if t := w.copTarget(i); t >= 0 {
			w.startAiming(i, t)
		}

	case CopAiming:
		tgt := &w.entities[c.Target]
		if !tgt.IsZombie() {
			w.setCopMode(i, CopIdle, "target lost")
			return
		}
		dir := tgt.Position.Sub(e.Position)
		e.lookAlong(dir, dt)
		c.AimRemaining -= dt
		if c.AimRemaining > 0 {
			return
		}
		if c.Rounds <= 0 {
			w.startReload(i)
			return
		}
		w.fire(i, dir)
		w.setCopMode(i, CopIdle, "shot fired")

	case CopMoving:
		to := c.Waypoint.Sub(e.Position)
		if to.LenSq() < CopWaypointReachedSq {
			if len(c.Route) > 0 {
				c.Waypoint = c.Route[0]
				c.Route = c.Route[1:]
				return
			}
			w.setCopMode(i, CopIdle, "arrived")
			return
		}
		e.accelerateAlong(to, CopAccel, dt)

	case CopReloading:
		c.ReloadRemaining -= dt
		if c.ReloadRemaining > 0 {
			return
		}
		c.ReloadRemaining = 0
		c.Rounds = CopMagazineCapacity
		w.emit(SignalReloaded, e.Position, i)
		w.setCopMode(i, CopIdle, "reloaded")

	default:
		panic(fmt.Sprintf("sim: cop %s in unknown mode %d", e.Label(), c.Mode))
	}
}

// copTarget picks the nearest living zombie for cop i, or -1. With line of
// sight enabled, zombies hidden behind buildings are ignored.
func (w *World) copTarget(i int) int {
	if !w.copLineOfSight {
		return w.nearest(i, (*Entity).IsZombie)
	}
	from := w.entities[i].Position
	return w.nearest(i, func(o *Entity) bool {
		return o.IsZombie() && geom.HasLineOfSight(from, o.Position, w.shapes)
	})
}

func (w *World) startAiming(i, target int) {
	c := w.entities[i].Cop()
	c.Target = target
	c.AimRemaining = w.sampleAimTime()
	w.setCopMode(i, CopAiming, fmt.Sprintf("target %s aim %.2fs", w.entities[target].Label(), c.AimRemaining))
}

func (w *World) startReload(i int) {
	c := w.entities[i].Cop()
	c.ReloadRemaining = CopReloadCooldown
	w.setCopMode(i, CopReloading, "magazine empty")
}

// sampleAimTime draws a log-normal aim duration from the world rng.
func (w *World) sampleAimTime() float64 {
	return math.Exp(CopAimTimeMu + CopAimTimeSigma*w.rng.NormFloat64())
}

// fire spawns a bullet from cop i along dir, perturbed by a normally
// distributed angular error.
func (w *World) fire(i int, dir geom.Vec2) {
	e := &w.entities[i]
	c := e.Cop()
	aim := dir.Normalize()
	if aim.IsZero() {
		aim = e.FacingNormal()
	}
	deviation := w.rng.NormFloat64() * CopAccuracyStdDev
	aim = aim.Rotate(deviation)

	muzzle := e.Position.Add(aim.Scale(MuzzleOffset * EntityRadius))
	w.projectiles = append(w.projectiles, Projectile{
		Position: muzzle,
		Velocity: aim.Scale(BulletSpeed),
	})
	c.Rounds--
	w.emit(SignalGunshot, muzzle, i)
	w.record(i, "combat", "shot", fmt.Sprintf("deviation %+.3f rad, %d left", deviation, c.Rounds), deviation)
}

// setCopMode switches cop i to mode and logs the transition.
func (w *World) setCopMode(i int, mode CopMode, reason string) {
	c := w.entities[i].Cop()
	prev := c.Mode
	c.Mode = mode
	if mode != CopMoving {
		c.Route = nil
	}
	w.record(i, "cop", "state_change", fmt.Sprintf("%s → %s (%s)", prev, mode, reason), float64(mode))
}
