package sim

import (
	"fmt"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// Step advances the world by dt seconds and returns the signals the tick
// produced. The passes run in a fixed order, each over the whole world:
// behaviour, collisions, kinematics, projectiles.
//
// A non-positive dt leaves the world untouched.
func (w *World) Step(dt float64) TickResult {
	if dt <= 0 {
		return TickResult{Tick: w.tick}
	}
	w.signals = nil

	w.behave(dt)
	w.collide(dt)
	w.integrate(dt)
	w.moveProjectiles(dt)

	w.tick++
	w.elapsed += dt

	res := TickResult{Tick: w.tick, Signals: w.signals}
	w.signals = nil
	return res
}

// SetPairObserver installs fn to be called for every pair of living
// entities the collision pass tests. Pass nil to remove it.
func (w *World) SetPairObserver(fn func(i, j int)) {
	w.onPair = fn
}

// behave runs the per-entity decision pass.
func (w *World) behave(dt float64) {
	for i := range w.entities {
		e := &w.entities[i]
		if !e.IsAlive() {
			continue
		}
		switch {
		case e.IsZombie():
			if j := w.nearest(i, (*Entity).IsHuman); j >= 0 {
				e.accelerateAlong(w.entities[j].Position.Sub(e.Position), ZombieAccel, dt)
			}
		case e.IsCop():
			w.updateCop(i, dt)
		case e.IsCivilian():
			if j := w.nearest(i, (*Entity).IsZombie); j >= 0 {
				e.accelerateAlong(e.Position.Sub(w.entities[j].Position), CivilianAccel, dt)
			}
		}
		w.incubate(i, dt)
	}
}

// incubate advances a partial infection. Humans with no infection are left
// alone; only contact with a zombie starts the clock.
func (w *World) incubate(i int, dt float64) {
	e := &w.entities[i]
	if !e.IsHuman() {
		return
	}
	level := e.Status.Affiliation.Infection
	if level <= InfectionMin || level >= InfectionMax {
		return
	}
	if e.raiseInfection(InfectionRate * dt) {
		w.emit(SignalPersonInfected, e.Position, i)
		w.record(i, "infection", "turned", "incubation complete", InfectionMax)
	}
}

// nearest returns the index of the entity closest to i that satisfies
// match, or -1. Ties keep the lower index.
func (w *World) nearest(i int, match func(*Entity) bool) int {
	from := w.entities[i].Position
	best := -1
	bestD := 0.0
	for j := range w.entities {
		if j == i {
			continue
		}
		o := &w.entities[j]
		if !match(o) {
			continue
		}
		d := from.DistSq(o.Position)
		if best < 0 || d < bestD {
			best = j
			bestD = d
		}
	}
	return best
}

// collide resolves overlaps between every unordered pair of living
// entities exactly once.
func (w *World) collide(dt float64) {
	const touchSq = (2 * EntityRadius) * (2 * EntityRadius)
	for i := 0; i < len(w.entities); i++ {
		if !w.entities[i].IsAlive() {
			continue
		}
		for j := i + 1; j < len(w.entities); j++ {
			if !w.entities[j].IsAlive() {
				continue
			}
			if w.onPair != nil {
				w.onPair(i, j)
			}
			a, b := &w.entities[i], &w.entities[j]
			d := b.Position.Sub(a.Position)
			distSq := d.LenSq()
			if distSq >= touchSq {
				continue
			}

			switch {
			case a.IsZombie() && b.IsHuman():
				w.infect(j, i)
			case b.IsZombie() && a.IsHuman():
				w.infect(i, j)
			}

			if distSq == 0 {
				continue
			}
			vc := d.Scale(dt / distSq)
			a.Velocity = a.Velocity.Sub(vc)
			b.Velocity = b.Velocity.Add(vc)
		}
	}
}

// infect converts human h after contact with zombie z.
func (w *World) infect(h, z int) {
	e := &w.entities[h]
	before := e.Label()
	if !e.raiseInfection(InfectionMax) {
		return
	}
	w.emit(SignalPersonInfected, e.Position, h)
	w.record(h, "infection", "bitten", fmt.Sprintf("%s bitten by %s", before, w.entities[z].Label()), InfectionMax)
}

// integrate moves every living entity. Displacement uses the velocity from
// before damping.
func (w *World) integrate(dt float64) {
	for i := range w.entities {
		e := &w.entities[i]
		if !e.IsAlive() {
			continue
		}
		disp := e.Velocity.Scale(dt)
		e.Position = e.Position.Add(disp)
		e.Velocity = e.Velocity.Sub(disp.Scale(VelocityDamping))
	}
}

// livingAt returns the living entity nearest to p within radius, or -1.
func (w *World) livingAt(p geom.Vec2, radius float64, match func(*Entity) bool) int {
	best := -1
	bestD := radius * radius
	for i := range w.entities {
		e := &w.entities[i]
		if !e.IsAlive() || (match != nil && !match(e)) {
			continue
		}
		if d := p.DistSq(e.Position); d <= bestD {
			if best < 0 || d < bestD {
				best = i
				bestD = d
			}
		}
	}
	return best
}
