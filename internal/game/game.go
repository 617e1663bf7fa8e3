// Package game is the windowed frontend: it drives the simulation at a
// fixed step, renders it and turns mouse and keyboard input into commands.
package game

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/ojrac/opensimplex-go"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Outbreak/internal/geom"
	"github.com/Garsondee/Outbreak/internal/metrics"
	"github.com/Garsondee/Outbreak/internal/sim"
)

// simSpeeds are the selectable multipliers; 0 is paused.
var simSpeeds = []float64{0, 0.25, 0.5, 1, 2, 4}

// SignalPlayer consumes per-tick signals, e.g. audio.SoundBoard.
type SignalPlayer interface {
	Play(signals []sim.Signal) int
	SetListener(x, halfWidth float64)
	SetMuted(muted bool)
	Muted() bool
}

// Options configures a Game.
type Options struct {
	Width, Height int     // window size, event panel included
	Zoom          float64 // initial pixels per metre
	DT            float64 // fixed step in seconds
	ReportEvery   int     // ticks between reporter samples
	Seed          int64   // world seed, shown in reports

	Sound   SignalPlayer      // nil disables audio
	Metrics *metrics.Recorder // nil disables metrics
}

type commandKind int

const (
	cmdSelect commandKind = iota
	cmdMove
	cmdAttack
)

// command is one discrete player action, queued by input and applied
// between ticks.
type command struct {
	kind     commandKind
	pos      geom.Vec2
	additive bool
}

// flash is a short-lived muzzle flash at a gunshot signal.
type flash struct {
	pos geom.Vec2
	ttl int
}

const flashFrames = 6

type Game struct {
	world *sim.World
	cam   Camera

	width, height int
	dt            float64
	seed          int64
	reportEvery   int

	simSpeed  float64
	tickAccum float64
	pending   []command

	panel    *EventPanel
	reporter *sim.Reporter
	sound    SignalPlayer
	metrics  *metrics.Recorder
	outcome  sim.OutcomeReason
	finished bool

	face    text.Face
	noise   opensimplex.Noise
	flashes []flash

	showHUD      bool
	showOutlines bool
	status       string
	statusFrames int

	lastUpdate time.Time
	frameDT    float64
}

// New wraps a generated world in a frontend.
func New(w *sim.World, opts Options) *Game {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Zoom <= 0 {
		opts.Zoom = 8
	}
	if opts.DT <= 0 {
		opts.DT = 1.0 / 60
	}
	if opts.ReportEvery <= 0 {
		opts.ReportEvery = 60
	}
	viewW := max(opts.Width-panelWidth, 1)
	g := &Game{
		world:       w,
		cam:         Camera{Zoom: opts.Zoom, ViewW: viewW, ViewH: opts.Height},
		width:       opts.Width,
		height:      opts.Height,
		dt:          opts.DT,
		seed:        opts.Seed,
		reportEvery: opts.ReportEvery,
		simSpeed:    1,
		panel:       NewEventPanel(),
		reporter:    sim.NewReporter(0),
		sound:       opts.Sound,
		metrics:     opts.Metrics,
		outcome:     w.Outcome(),
		face:        text.NewGoXFace(basicfont.Face7x13),
		noise:       opensimplex.NewNormalized(opts.Seed),
		showHUD:     true,
	}
	g.panel.Sync(w.EventLog())
	g.reporter.Collect(w)
	return g
}

// World exposes the simulated world.
func (g *Game) World() *sim.World { return g.world }

func (g *Game) Update() error {
	now := time.Now()
	if !g.lastUpdate.IsZero() {
		g.frameDT = now.Sub(g.lastUpdate).Seconds()
	}
	g.lastUpdate = now

	g.handleInput()
	g.applyCommands()
	g.advance()
	g.fadeEffects()

	if g.sound != nil {
		minX, _, maxX, _ := g.cam.Visible()
		g.sound.SetListener(g.cam.Center.X, (maxX-minX)/2)
	}
	return nil
}

// advance runs as many fixed steps as the speed multiplier has accrued.
func (g *Game) advance() {
	if g.simSpeed <= 0 {
		return
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick()
	}
}

// simTick runs one simulation step and fans its results out.
func (g *Game) simTick() {
	var res sim.TickResult
	if g.metrics != nil {
		res = g.metrics.Step(g.world, g.dt)
		g.metrics.ObserveWorld(g.world)
	} else {
		res = g.world.Step(g.dt)
	}

	g.reporter.Observe(res)
	if res.Tick%g.reportEvery == 0 {
		g.reporter.Collect(g.world)
	}

	for _, s := range res.Signals {
		if s.Kind == sim.SignalGunshot {
			g.flashes = append(g.flashes, flash{pos: s.Position, ttl: flashFrames})
		}
	}
	if g.sound != nil {
		g.sound.Play(res.Signals)
	}
	g.panel.Sync(g.world.EventLog())

	g.outcome = g.world.Outcome()
	if g.outcome.Outcome.Finished() && !g.finished {
		g.finished = true
		log.Printf("outbreak: %s at tick %d", g.outcome, res.Tick)
		if g.metrics != nil {
			g.metrics.ObserveOutcome(g.outcome.Outcome)
		}
	}
}

func (g *Game) queue(c command) {
	g.pending = append(g.pending, c)
}

// applyCommands drains the queue. Update calls it before stepping, so
// commands never land mid-tick.
func (g *Game) applyCommands() {
	for _, c := range g.pending {
		switch c.kind {
		case cmdSelect:
			if i := g.world.Select(c.pos, c.additive); i >= 0 {
				e := g.world.Entity(i)
				g.setStatus(fmt.Sprintf("selected %s", e.Label()))
			}
		case cmdMove:
			n := g.world.IssueOrder(sim.Order{Kind: sim.OrderMove, Target: c.pos})
			g.setStatus(fmt.Sprintf("move: %d cops", n))
		case cmdAttack:
			n := g.world.IssueOrder(sim.Order{Kind: sim.OrderAttack, Target: c.pos})
			if n == 0 {
				g.setStatus("attack: no zombie there")
			} else {
				g.setStatus(fmt.Sprintf("attack: %d cops", n))
			}
		}
	}
	g.pending = g.pending[:0]
}

func (g *Game) fadeEffects() {
	kept := g.flashes[:0]
	for _, f := range g.flashes {
		f.ttl--
		if f.ttl > 0 {
			kept = append(kept, f)
		}
	}
	g.flashes = kept
	if g.statusFrames > 0 {
		g.statusFrames--
	}
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusFrames = 120
}

// speedStep moves the speed multiplier one notch up (+1) or down (-1).
func (g *Game) speedStep(dir int) {
	idx := 0
	for i, s := range simSpeeds {
		if s <= g.simSpeed {
			idx = i
		}
	}
	idx = max(0, min(len(simSpeeds)-1, idx+dir))
	g.simSpeed = simSpeeds[idx]
}

func (g *Game) togglePause() {
	if g.simSpeed > 0 {
		g.simSpeed = 0
	} else {
		g.simSpeed = 1
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 14, G: 14, B: 16, A: 255})

	g.drawGround(screen)
	g.drawBuildings(screen)
	g.drawEntities(screen)
	g.drawProjectiles(screen)
	g.drawFlashes(screen)

	// Zoom indicator.
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom %.1f px/m", g.cam.Zoom), g.cam.ViewW-100, g.cam.ViewH-20)

	g.panel.Draw(screen, g.face, g.cam.ViewW, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
	g.drawBanner(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
