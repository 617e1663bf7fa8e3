package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Outbreak/internal/geom"
	"github.com/Garsondee/Outbreak/internal/sim"
)

// inspectorEvents is how many of the selected entity's log lines to show.
const inspectorEvents = 6

// primarySelection returns the lowest selected index, or -1.
func (g *Game) primarySelection() int {
	sel := g.world.Selected()
	if len(sel) == 0 {
		return -1
	}
	return sel[0]
}

// selectionCentre averages the selected entities' positions; with nothing
// selected the camera stays put.
func (g *Game) selectionCentre() geom.Vec2 {
	sel := g.world.Selected()
	if len(sel) == 0 {
		return g.cam.Center
	}
	var sum geom.Vec2
	for _, i := range sel {
		sum = sum.Add(g.world.Entity(i).Position)
	}
	return sum.Scale(1 / float64(len(sel)))
}

// inspectLines describes one entity for the inspector and the report.
func inspectLines(e sim.Entity) []string {
	lines := []string{
		fmt.Sprintf("[ %s %s ]", e.Label(), e.Kind()),
		fmt.Sprintf("pos (%.1f, %.1f)  vel %.2f m/s", e.Position.X, e.Position.Y, e.Velocity.Len()),
	}
	if e.IsDead() {
		return lines
	}
	lines = append(lines, fmt.Sprintf("health %.0f", e.Status.Health))
	if e.IsHuman() {
		lines = append(lines, fmt.Sprintf("infection %.0f%%", e.Infection()*100))
	}
	if e.IsCop() {
		c := e.Cop()
		lines = append(lines, fmt.Sprintf("mode %s  rounds %d/%d", c.Mode, c.Rounds, sim.CopMagazineCapacity))
		switch c.Mode {
		case sim.CopAiming:
			lines = append(lines, fmt.Sprintf("aiming at #%d  %.2fs left", c.Target, c.AimRemaining))
		case sim.CopReloading:
			lines = append(lines, fmt.Sprintf("reloading  %.2fs left", c.ReloadRemaining))
		case sim.CopMoving:
			lines = append(lines, fmt.Sprintf("waypoint (%.1f, %.1f)  +%d", c.Waypoint.X, c.Waypoint.Y, len(c.Route)))
		}
	}
	return lines
}

// drawInspector shows the primary selection in the bottom-left corner.
func (g *Game) drawInspector(screen *ebiten.Image) {
	i := g.primarySelection()
	if i < 0 {
		return
	}
	e := g.world.Entity(i)
	lines := inspectLines(e)
	if n := len(g.world.Selected()); n > 1 {
		lines = append(lines, fmt.Sprintf("(+%d more selected)", n-1))
	}

	events := g.world.EventLog().FilterEntity(e.Label())
	if len(events) > inspectorEvents {
		events = events[len(events)-inspectorEvents:]
	}
	if len(events) > 0 {
		lines = append(lines, "")
		for _, ev := range events {
			lines = append(lines, fmt.Sprintf("%4d %s %s", ev.Tick, ev.Key, ev.Value))
		}
	}

	y := g.height - len(lines)*hudLineH - 20
	drawBox(screen, g.face, lines, 8, y, color.RGBA{R: 230, G: 225, B: 200, A: 255})
}
