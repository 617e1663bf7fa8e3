package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Outbreak/internal/sim"
)

const hudLineH = 15

func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

// drawBox draws a translucent panel with a border and the given lines.
func drawBox(dst *ebiten.Image, face text.Face, lines []string, x, y int, clr color.Color) {
	w := 0
	for _, l := range lines {
		lw, _ := text.Measure(l, face, 0)
		w = max(w, int(lw))
	}
	const pad = 6
	bw := float32(w + 2*pad)
	bh := float32(len(lines)*hudLineH + 2*pad)
	vector.FillRect(dst, float32(x), float32(y), bw, bh, color.RGBA{R: 8, G: 8, B: 10, A: 210}, false)
	vector.StrokeRect(dst, float32(x), float32(y), bw, bh, 1, color.RGBA{R: 90, G: 80, B: 80, A: 200}, false)
	for i, l := range lines {
		drawText(dst, face, l, x+pad, y+pad+i*hudLineH, clr)
	}
}

func (g *Game) speedLabel() string {
	switch g.simSpeed {
	case 0:
		return "PAUSED"
	case 1:
		return "1x"
	default:
		return fmt.Sprintf("%gx", g.simSpeed)
	}
}

func (g *Game) hudLines() []string {
	c := g.world.Census()
	lines := []string{
		fmt.Sprintf("T=%d  %.1fs  %s", g.world.Tick(), g.world.Elapsed(), g.speedLabel()),
		fmt.Sprintf("money $%d", g.world.Money()),
		fmt.Sprintf("civilians %d  cops %d  zombies %d", c.Civilians, c.Cops, c.Zombies),
		fmt.Sprintf("dead %d  incubating %d  rounds %d", c.Dead, c.Incubating, c.Rounds),
		"",
		"L-click select (shift adds)  R-click move",
		"ctrl+R-click attack  Esc deselect",
		"P pause  ,/. speed  WASD pan  wheel zoom",
		"C copy report  O outlines  M mute  H hud",
	}
	if g.status != "" && g.statusFrames > 0 {
		lines = append(lines, "", "> "+g.status)
	}
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	drawBox(screen, g.face, g.hudLines(), 8, 8, color.RGBA{R: 220, G: 220, B: 220, A: 255})
}

func outcomeColor(o sim.Outcome) color.RGBA {
	switch o {
	case sim.OutcomeHumansWin:
		return color.RGBA{R: 120, G: 170, B: 255, A: 255}
	case sim.OutcomeZombiesWin:
		return colZombie
	default:
		return color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
}

// drawBanner announces a finished outbreak across the middle of the view.
func (g *Game) drawBanner(screen *ebiten.Image) {
	if !g.outcome.Outcome.Finished() {
		return
	}
	title := map[sim.Outcome]string{
		sim.OutcomeHumansWin:  "THE TOWN IS SAFE",
		sim.OutcomeZombiesWin: "THE TOWN HAS FALLEN",
		sim.OutcomeExtinction: "NOBODY IS LEFT",
	}[g.outcome.Outcome]

	lines := []string{
		title,
		g.outcome.Description,
		fmt.Sprintf("tick %d  money $%d", g.world.Tick(), g.world.Money()),
	}
	x := g.cam.ViewW/2 - 140
	y := g.cam.ViewH/2 - 40
	drawBox(screen, g.face, lines, x, y, outcomeColor(g.outcome.Outcome))
}
