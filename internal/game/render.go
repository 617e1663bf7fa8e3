package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ojrac/opensimplex-go"

	"github.com/Garsondee/Outbreak/internal/geom"
	"github.com/Garsondee/Outbreak/internal/sim"
)

// groundCell is the size in metres of one ground shading tile.
const groundCell = 4.0

var buildingColors = map[sim.BuildingType]color.RGBA{
	sim.BuildingHouse:         {R: 120, G: 92, B: 70, A: 255},
	sim.BuildingShop:          {R: 110, G: 110, B: 130, A: 255},
	sim.BuildingWarehouse:     {R: 90, G: 90, B: 86, A: 255},
	sim.BuildingPoliceStation: {R: 50, G: 70, B: 130, A: 255},
	sim.BuildingHospital:      {R: 200, G: 200, B: 205, A: 255},
	sim.BuildingChurch:        {R: 150, G: 130, B: 100, A: 255},
	sim.BuildingKiosk:         {R: 160, G: 80, B: 60, A: 255},
	sim.BuildingBoundary:      {R: 40, G: 40, B: 44, A: 255},
}

var (
	colCivilian = color.RGBA{R: 215, G: 215, B: 225, A: 255}
	colCop      = color.RGBA{R: 70, G: 120, B: 255, A: 255}
	colZombie   = color.RGBA{R: 90, G: 200, B: 70, A: 255}
	colDead     = color.RGBA{R: 80, G: 60, B: 60, A: 255}
	colSelected = color.RGBA{R: 255, G: 230, B: 60, A: 255}
)

// octaveNoise layers several noise frequencies into one [0,1] value.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

// groundShade is the ground colour for the tile whose corner is (x, y).
func (g *Game) groundShade(x, y float64) color.RGBA {
	v := octaveNoise(g.noise, x, y, 3, 0.03, 0.5)
	return color.RGBA{
		R: uint8(34 + 18*v),
		G: uint8(42 + 26*v),
		B: uint8(32 + 12*v),
		A: 255,
	}
}

func (g *Game) drawGround(screen *ebiten.Image) {
	minX, minY, maxX, maxY := g.cam.Visible()
	minX = math.Max(minX, -sim.WorldHalf)
	minY = math.Max(minY, -sim.WorldHalf)
	maxX = math.Min(maxX, sim.WorldHalf)
	maxY = math.Min(maxY, sim.WorldHalf)

	x0 := math.Floor(minX/groundCell) * groundCell
	y0 := math.Floor(minY/groundCell) * groundCell
	size := g.cam.Scale(groundCell) + 1
	for x := x0; x < maxX; x += groundCell {
		for y := y0; y < maxY; y += groundCell {
			// Top-left on screen is the cell's (minX, maxY) corner.
			sx, sy := g.cam.WorldToScreen(geom.V(x, y+groundCell))
			vector.FillRect(screen, sx, sy, size, size, g.groundShade(x, y), false)
		}
	}
}

func (g *Game) polygonPath(p geom.Polygon) *vector.Path {
	var path vector.Path
	for i, v := range p {
		sx, sy := g.cam.WorldToScreen(v)
		if i == 0 {
			path.MoveTo(sx, sy)
		} else {
			path.LineTo(sx, sy)
		}
	}
	path.Close()
	return &path
}

func pathOptions(c color.Color) *vector.DrawPathOptions {
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(c)
	return op
}

func darken(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}

func (g *Game) drawBuildings(screen *ebiten.Image) {
	for _, b := range g.world.Buildings() {
		col, ok := buildingColors[b.Type]
		if !ok {
			col = buildingColors[sim.BuildingWarehouse]
		}
		path := g.polygonPath(b.Shape)
		vector.FillPath(screen, path, &vector.FillOptions{}, pathOptions(col))
		vector.StrokePath(screen, path, &vector.StrokeOptions{Width: 1.5}, pathOptions(darken(col, 0.6)))

		if g.showOutlines {
			vector.StrokePath(screen, g.polygonPath(b.Outline), &vector.StrokeOptions{Width: 1},
				pathOptions(color.RGBA{R: 255, G: 80, B: 80, A: 140}))
		}
	}
}

// entityColor picks the body colour; incubating humans drift toward
// zombie green as infection rises.
func entityColor(e *sim.Entity) color.RGBA {
	switch {
	case e.IsDead():
		return colDead
	case e.IsZombie():
		return colZombie
	}
	base := colCivilian
	if e.IsCop() {
		base = colCop
	}
	t := e.Infection()
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.RGBA{R: lerp(base.R, colZombie.R), G: lerp(base.G, colZombie.G), B: lerp(base.B, colZombie.B), A: 255}
}

func (g *Game) drawEntities(screen *ebiten.Image) {
	entities := g.world.Entities()
	r := g.cam.Scale(sim.EntityRadius)

	// Dead first so the living draw over corpses.
	for i := range entities {
		e := &entities[i]
		if !e.IsDead() {
			continue
		}
		sx, sy := g.cam.WorldToScreen(e.Position)
		vector.FillCircle(screen, sx, sy, r*0.8, colDead, true)
	}

	for i := range entities {
		e := &entities[i]
		if e.IsDead() {
			continue
		}
		sx, sy := g.cam.WorldToScreen(e.Position)
		if e.IsCop() {
			g.drawCopIntent(screen, e, sx, sy)
		}
		vector.FillCircle(screen, sx, sy, r, entityColor(e), true)

		// Facing tick.
		tip := e.Position.Add(e.FacingNormal().Scale(sim.EntityRadius * 1.4))
		tx, ty := g.cam.WorldToScreen(tip)
		vector.StrokeLine(screen, sx, sy, tx, ty, 1.5, darken(entityColor(e), 0.5), true)

		if g.world.IsSelected(i) {
			vector.StrokeCircle(screen, sx, sy, r+3, 1.5, colSelected, true)
		}
	}
}

// drawCopIntent shows where a cop is heading or aiming.
func (g *Game) drawCopIntent(screen *ebiten.Image, e *sim.Entity, sx, sy float32) {
	c := e.Cop()
	switch c.Mode {
	case sim.CopMoving:
		prevX, prevY := sx, sy
		for _, wp := range append([]geom.Vec2{c.Waypoint}, c.Route...) {
			wx, wy := g.cam.WorldToScreen(wp)
			vector.StrokeLine(screen, prevX, prevY, wx, wy, 1, color.RGBA{R: 120, G: 160, B: 255, A: 120}, true)
			prevX, prevY = wx, wy
		}
		vector.FillCircle(screen, prevX, prevY, 3, color.RGBA{R: 120, G: 160, B: 255, A: 200}, true)
	case sim.CopAiming:
		t := g.world.Entity(c.Target)
		tx, ty := g.cam.WorldToScreen(t.Position)
		vector.StrokeLine(screen, sx, sy, tx, ty, 1, color.RGBA{R: 255, G: 60, B: 60, A: 140}, true)
	case sim.CopReloading:
		vector.StrokeCircle(screen, sx, sy, g.cam.Scale(sim.EntityRadius)+5, 1, color.RGBA{R: 255, G: 160, B: 40, A: 200}, true)
	}
}

func (g *Game) drawProjectiles(screen *ebiten.Image) {
	for _, p := range g.world.Projectiles() {
		tail := p.Position.Sub(p.Velocity.Scale(0.015))
		x0, y0 := g.cam.WorldToScreen(tail)
		x1, y1 := g.cam.WorldToScreen(p.Position)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, color.RGBA{R: 255, G: 240, B: 150, A: 255}, true)
	}
}

func (g *Game) drawFlashes(screen *ebiten.Image) {
	for _, f := range g.flashes {
		fade := float32(f.ttl) / flashFrames
		sx, sy := g.cam.WorldToScreen(f.pos)
		vector.FillCircle(screen, sx, sy, g.cam.Scale(1.2)*fade, color.RGBA{R: 255, G: 180, B: 60, A: uint8(90 * fade)}, true)
		vector.FillCircle(screen, sx, sy, g.cam.Scale(0.4)*fade, color.RGBA{R: 255, G: 250, B: 210, A: uint8(220 * fade)}, true)
	}
}
