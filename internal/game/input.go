package game

import (
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Outbreak/internal/sim"
)

const panSpeedPx = 8.0

// handleInput turns this frame's keyboard and mouse state into camera
// moves, toggles and queued commands.
func (g *Game) handleInput() {
	// P=pause, ,/. = slower/faster.
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.speedStep(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.speedStep(+1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		log.Printf("dt=%.4f fps=%.1f tps=%.1f tick=%d entities=%d projectiles=%d",
			g.frameDT, ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.world.Tick(), g.world.EntityCount(), g.world.ProjectileCount())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.showOutlines = !g.showOutlines
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) && g.sound != nil {
		g.sound.SetMuted(!g.sound.Muted())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.world.ClearSelection()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.cam.Center = g.selectionCentre()
	}

	// Camera pan: WASD or arrow keys.
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.Pan(0, -panSpeedPx)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.Pan(0, panSpeedPx)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.Pan(-panSpeedPx, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.Pan(panSpeedPx, 0)
	}

	mx, my := ebiten.CursorPosition()
	inView := mx >= 0 && mx < g.cam.ViewW && my >= 0 && my < g.cam.ViewH

	// Zoom: wheel around the cursor, =/- around the centre.
	if _, wy := ebiten.Wheel(); wy != 0 && inView {
		g.cam.ZoomAt(math.Pow(1.12, wy), mx, my)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.cam.ZoomAt(1.25, g.cam.ViewW/2, g.cam.ViewH/2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.cam.ZoomAt(1/1.25, g.cam.ViewW/2, g.cam.ViewH/2)
	}
	g.cam.Clamp(sim.WorldHalf)

	if !inView {
		return
	}
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.queue(command{kind: cmdSelect, pos: g.cam.ScreenToWorld(mx, my), additive: shift})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		kind := cmdMove
		if ctrl {
			kind = cmdAttack
		}
		g.queue(command{kind: kind, pos: g.cam.ScreenToWorld(mx, my)})
	}
}
