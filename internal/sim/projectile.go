package sim

import (
	"fmt"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// moveProjectiles prunes spent rounds, then sweeps each remaining round
// along its sub-step segment. The entity with the smallest hit parameter
// dies. A building edge crossed earlier stops the round instead.
func (w *World) moveProjectiles(dt float64) {
	kept := w.projectiles[:0]
	for _, p := range w.projectiles {
		if !p.Spent() {
			kept = append(kept, p)
		}
	}
	w.projectiles = kept

	for k := range w.projectiles {
		p := &w.projectiles[k]
		seg := geom.Segment{A: p.Position, B: p.Position.Add(p.Velocity.Scale(dt))}

		hit := -1
		hitT := 0.0
		for i := range w.entities {
			e := &w.entities[i]
			if !e.IsAlive() {
				continue
			}
			t, ok := geom.SegmentCircleMinT(seg, geom.Circle{Center: e.Position, Radius: EntityRadius})
			if ok && (hit < 0 || t < hitT) {
				hit = i
				hitT = t
			}
		}

		if wallT, ok := w.wallHit(seg); ok && (hit < 0 || wallT < hitT) {
			p.Position = seg.Point(wallT)
			p.Velocity = geom.Vec2{}
			continue
		}

		if hit >= 0 {
			w.bulletKill(hit)
			p.Velocity = geom.Vec2{}
		}
		p.Position = seg.B
	}
}

// wallHit returns the first parameter at which seg crosses a building.
func (w *World) wallHit(seg geom.Segment) (float64, bool) {
	best := 0.0
	found := false
	for _, s := range w.shapes {
		lo, hi := s.Bounds()
		if _, ok := geom.SegmentAABBT(seg, lo, hi); !ok {
			continue
		}
		if t, ok := geom.SegmentPolygonMinT(seg, s); ok && (!found || t < best) {
			best = t
			found = true
		}
	}
	return best, found
}

// bulletKill marks entity i dead and pays the bounty for zombies.
func (w *World) bulletKill(i int) {
	e := &w.entities[i]
	wasZombie := e.IsZombie()
	label := e.Label()
	pos := e.Position
	w.record(i, "combat", "killed", label+" shot", 0)
	e.kill()

	if wasZombie {
		w.money += ZombieBounty
		w.emit(SignalZombieKilled, pos, i)
		w.log.Add(w.tick, "--", "--", "outcome", "bounty", fmt.Sprintf("+%d for %s", ZombieBounty, label), float64(w.money))
		return
	}
	w.emit(SignalHumanKilled, pos, i)
}
