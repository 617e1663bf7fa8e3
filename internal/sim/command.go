package sim

import (
	"fmt"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// OrderKind is what a player order asks the selected cops to do.
type OrderKind int

const (
	OrderMove OrderKind = iota
	OrderAttack
)

func (k OrderKind) String() string {
	switch k {
	case OrderMove:
		return "move"
	case OrderAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Order is a player command with a world-space click position.
type Order struct {
	Kind   OrderKind
	Target geom.Vec2
}

// Select picks the living entity nearest to pos within SelectRadius. Unless
// additive, the previous selection is cleared first; a click on empty
// ground with additive off leaves nothing selected. Returns the picked
// index or -1.
func (w *World) Select(pos geom.Vec2, additive bool) int {
	if !additive {
		w.ClearSelection()
	}
	i := w.livingAt(pos, SelectRadius, nil)
	if i >= 0 {
		w.selected[i] = true
	}
	return i
}

// ClearSelection deselects everything.
func (w *World) ClearSelection() {
	for i := range w.selected {
		w.selected[i] = false
	}
}

// IssueOrder applies o to every selected living cop and returns how many
// cops took it.
func (w *World) IssueOrder(o Order) int {
	switch o.Kind {
	case OrderMove:
		return w.orderMove(o.Target)
	case OrderAttack:
		return w.orderAttack(o.Target)
	default:
		panic(fmt.Sprintf("sim: unknown order kind %d", o.Kind))
	}
}

// selectedCops returns indices of selected entities that are living cops.
func (w *World) selectedCops() []int {
	var out []int
	for i, s := range w.selected {
		if s && w.entities[i].IsCop() {
			out = append(out, i)
		}
	}
	return out
}

func (w *World) orderMove(target geom.Vec2) int {
	cops := w.selectedCops()
	for _, i := range cops {
		e := &w.entities[i]
		var route []geom.Vec2
		if w.nav != nil {
			route = w.nav.FindPath(e.Position, target)
		}
		if len(route) == 0 {
			route = []geom.Vec2{target}
		}
		c := e.Cop()
		c.Waypoint = route[0]
		c.Route = route[1:]
		w.setCopMode(i, CopMoving, fmt.Sprintf("order to (%.1f, %.1f) via %d waypoints", target.X, target.Y, len(route)))
	}
	return len(cops)
}

func (w *World) orderAttack(click geom.Vec2) int {
	target := w.livingAt(click, SelectRadius, (*Entity).IsZombie)
	if target < 0 {
		return 0
	}
	cops := w.selectedCops()
	for _, i := range cops {
		c := w.entities[i].Cop()
		if c.Rounds <= 0 {
			if c.Mode != CopReloading {
				w.startReload(i)
			}
			continue
		}
		w.startAiming(i, target)
	}
	return len(cops)
}
