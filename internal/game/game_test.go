package game

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/Outbreak/internal/geom"
	"github.com/Garsondee/Outbreak/internal/sim"
)

func testCamera() Camera {
	return Camera{Center: geom.V(5, -3), Zoom: 10, ViewW: 800, ViewH: 600}
}

func TestCamera_RoundTrip(t *testing.T) {
	c := testCamera()
	for _, p := range []geom.Vec2{geom.V(5, -3), geom.V(0, 0), geom.V(-20, 14.5)} {
		sx, sy := c.WorldToScreen(p)
		back := c.ScreenToWorld(int(math.Round(float64(sx))), int(math.Round(float64(sy))))
		if back.DistSq(p) > 0.01 {
			t.Fatalf("round trip %v → (%.1f,%.1f) → %v", p, sx, sy, back)
		}
	}
}

func TestCamera_CentreMapsToViewCentre(t *testing.T) {
	c := testCamera()
	sx, sy := c.WorldToScreen(c.Center)
	if sx != 400 || sy != 300 {
		t.Fatalf("centre at (%.1f,%.1f), want (400,300)", sx, sy)
	}
	// y up in the world is up on screen.
	_, above := c.WorldToScreen(c.Center.Add(geom.V(0, 1)))
	if above >= sy {
		t.Fatalf("world +y drew below the centre: %.1f >= %.1f", above, sy)
	}
}

func TestCamera_ZoomAtKeepsCursorPoint(t *testing.T) {
	c := testCamera()
	before := c.ScreenToWorld(100, 500)
	c.ZoomAt(2, 100, 500)
	after := c.ScreenToWorld(100, 500)
	if before.DistSq(after) > 1e-9 {
		t.Fatalf("cursor point drifted: %v → %v", before, after)
	}
	if c.Zoom != 20 {
		t.Fatalf("zoom = %.1f, want 20", c.Zoom)
	}

	c.ZoomAt(1000, 0, 0)
	if c.Zoom != zoomMax {
		t.Fatalf("zoom = %.1f, want clamped to %.1f", c.Zoom, zoomMax)
	}
}

func TestCamera_PanAndClamp(t *testing.T) {
	c := testCamera()
	c.Pan(100, 0) // 10 m right
	if math.Abs(c.Center.X-15) > 1e-9 {
		t.Fatalf("pan x: %.2f", c.Center.X)
	}
	c.Pan(0, 50) // screen down is world down
	if math.Abs(c.Center.Y+8) > 1e-9 {
		t.Fatalf("pan y: %.2f", c.Center.Y)
	}
	c.Center = geom.V(500, -500)
	c.Clamp(60)
	if c.Center != geom.V(60, -60) {
		t.Fatalf("clamp: %v", c.Center)
	}
}

func TestEventPanel_RingBuffer(t *testing.T) {
	p := NewEventPanel()
	for i := 0; i < panelMaxEntries+5; i++ {
		p.Add(sim.EventEntry{Tick: i, Category: "cop"})
	}
	got := p.Recent()
	if len(got) != panelMaxEntries {
		t.Fatalf("len = %d, want %d", len(got), panelMaxEntries)
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != panelMaxEntries+4 {
		t.Fatalf("window = T%d..T%d", got[0].Tick, got[len(got)-1].Tick)
	}
}

func TestEventPanel_SyncSkipsMovementAndOnlyTakesNew(t *testing.T) {
	log := sim.NewEventLog(true)
	log.Add(1, "P0", "cop", "cop", "state_change", "idle → aiming", 0)
	log.AddVerbose(1, "P0", "cop", "move", "position", "(0,0)", 0)

	p := NewEventPanel()
	p.Sync(log)
	p.Sync(log)
	if got := p.Recent(); len(got) != 1 || got[0].Key != "state_change" {
		t.Fatalf("after sync: %+v", got)
	}

	log.Add(2, "P0", "cop", "combat", "shot", "fired", 0)
	p.Sync(log)
	if got := p.Recent(); len(got) != 2 || got[1].Key != "shot" {
		t.Fatalf("after second sync: %+v", got)
	}
}

func newTestGame(opts ...sim.SimOption) (*Game, *sim.TestSim) {
	ts := sim.NewTestSim(opts...)
	return New(ts.World, Options{DT: ts.DT, Seed: 7, ReportEvery: 5}), ts
}

func TestCommands_SelectThenMove(t *testing.T) {
	g, ts := newTestGame(sim.WithCop(0, 0), sim.WithZombie(30, 30))

	g.queue(command{kind: cmdSelect, pos: geom.V(0.2, 0.1)})
	g.queue(command{kind: cmdMove, pos: geom.V(0, 10)})
	g.applyCommands()

	if len(g.pending) != 0 {
		t.Fatalf("%d commands left queued", len(g.pending))
	}
	if !ts.World.IsSelected(0) {
		t.Fatal("cop should be selected")
	}
	cop := ts.World.Entity(0)
	if cop.Cop().Mode != sim.CopMoving {
		t.Fatalf("cop mode = %s, want moving", cop.Cop().Mode)
	}
	if g.status != "move: 1 cops" {
		t.Fatalf("status = %q", g.status)
	}
}

func TestCommands_AttackEmptyGround(t *testing.T) {
	g, ts := newTestGame(sim.WithCop(0, 0), sim.WithZombie(30, 30))
	g.queue(command{kind: cmdSelect, pos: geom.V(0, 0)})
	g.queue(command{kind: cmdAttack, pos: geom.V(-10, -10)})
	g.applyCommands()

	cop := ts.World.Entity(0)
	if cop.Cop().Mode != sim.CopIdle {
		t.Fatalf("cop mode = %s, want idle", cop.Cop().Mode)
	}
	if !strings.Contains(g.status, "no zombie") {
		t.Fatalf("status = %q", g.status)
	}
}

func TestCommands_ShiftSelectAdds(t *testing.T) {
	g, ts := newTestGame(sim.WithCop(0, 0), sim.WithCop(5, 0))
	g.queue(command{kind: cmdSelect, pos: geom.V(0, 0)})
	g.queue(command{kind: cmdSelect, pos: geom.V(5, 0), additive: true})
	g.applyCommands()
	if got := ts.World.Selected(); len(got) != 2 {
		t.Fatalf("selected = %v, want both cops", got)
	}
	if c := g.selectionCentre(); c.DistSq(geom.V(2.5, 0)) > 1e-9 {
		t.Fatalf("selection centre = %v", c)
	}
}

func TestSpeedSteps(t *testing.T) {
	g, _ := newTestGame(sim.WithCivilian(0, 0))
	if g.simSpeed != 1 {
		t.Fatalf("default speed %.2f", g.simSpeed)
	}
	g.speedStep(+1)
	g.speedStep(+1)
	g.speedStep(+1)
	if g.simSpeed != 4 {
		t.Fatalf("speed after three ups = %.2f, want 4 (capped)", g.simSpeed)
	}
	for i := 0; i < 10; i++ {
		g.speedStep(-1)
	}
	if g.simSpeed != 0 || g.speedLabel() != "PAUSED" {
		t.Fatalf("speed after many downs = %.2f", g.simSpeed)
	}
	g.togglePause()
	if g.simSpeed != 1 {
		t.Fatalf("unpause speed = %.2f", g.simSpeed)
	}
}

func TestAdvance_FixedStepAccumulates(t *testing.T) {
	g, ts := newTestGame(sim.WithCivilian(0, 0))
	g.simSpeed = 0.5
	for i := 0; i < 4; i++ {
		g.advance()
	}
	if ts.World.Tick() != 2 {
		t.Fatalf("tick = %d after 4 frames at 0.5x, want 2", ts.World.Tick())
	}

	g.simSpeed = 0
	g.advance()
	if ts.World.Tick() != 2 {
		t.Fatal("paused game stepped")
	}

	g.simSpeed = 2
	g.advance()
	if ts.World.Tick() != 4 {
		t.Fatalf("tick = %d after one frame at 2x, want 4", ts.World.Tick())
	}
}

type fakePlayer struct {
	played []sim.Signal
	muted  bool
}

func (f *fakePlayer) Play(s []sim.Signal) int {
	f.played = append(f.played, s...)
	return len(s)
}
func (f *fakePlayer) SetListener(float64, float64) {}
func (f *fakePlayer) SetMuted(m bool)              { f.muted = m }
func (f *fakePlayer) Muted() bool                  { return f.muted }

func TestSimTick_FansOutSignals(t *testing.T) {
	ts := sim.NewTestSim(sim.WithCop(0, 0), sim.WithZombie(3, 0))
	player := &fakePlayer{}
	g := New(ts.World, Options{DT: ts.DT, Sound: player})

	shots := 0
	for i := 0; i < 40 && shots == 0; i++ {
		g.simTick()
		for _, s := range player.played {
			if s.Kind == sim.SignalGunshot {
				shots++
			}
		}
		player.played = player.played[:0]
	}
	if shots == 0 {
		t.Fatal("player heard no gunshot in 4s")
	}
	if len(g.flashes) == 0 {
		t.Fatal("gunshot should leave a muzzle flash")
	}
	if len(g.panel.Recent()) == 0 {
		t.Fatal("event panel stayed empty")
	}
	if g.finished != g.outcome.Outcome.Finished() {
		t.Fatalf("finished=%v but outcome %s", g.finished, g.outcome)
	}
}

func TestDebugReport(t *testing.T) {
	g, ts := newTestGame(sim.WithCop(0, 0), sim.WithZombie(30, 30))
	g.queue(command{kind: cmdSelect, pos: geom.V(0, 0)})
	g.applyCommands()
	for i := 0; i < 10; i++ {
		g.simTick()
	}

	r := g.debugReport(0)
	for _, want := range []string{
		"--- Outbreak debug report ---",
		"seed=7",
		"tick=10",
		ts.World.Census().String(),
		"== selection ==",
		"[ P0 cop ]",
		"== window ==",
		"== events T=0..10 ==",
	} {
		if !strings.Contains(r, want) {
			t.Fatalf("report missing %q:\n%s", want, r)
		}
	}
}

func TestCopyReport(t *testing.T) {
	g, _ := newTestGame(sim.WithCivilian(0, 0))

	var got string
	orig := writeClipboard
	defer func() { writeClipboard = orig }()
	writeClipboard = func(s string) error { got = s; return nil }

	g.copyReport()
	if !strings.HasPrefix(got, "--- Outbreak debug report ---") {
		t.Fatalf("clipboard got %q", got)
	}
	if !strings.HasPrefix(g.status, "report copied") {
		t.Fatalf("status = %q", g.status)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	g.copyReport()
	if g.status != "copy failed: no clipboard" {
		t.Fatalf("status = %q", g.status)
	}
}

func TestEntityColor_InfectionTint(t *testing.T) {
	healthy := sim.NewCivilian(1, geom.Zero())
	if entityColor(&healthy) != colCivilian {
		t.Fatal("healthy civilian should use the civilian colour")
	}
	sick := sim.NewCivilian(2, geom.Zero())
	sick.Status.Affiliation.Infection = 0.5
	c := entityColor(&sick)
	if c.G <= colCivilian.G-60 || c.R >= colCivilian.R {
		t.Fatalf("half-infected colour %v should sit between civilian and zombie", c)
	}
	z := sim.NewZombie(3, geom.Zero())
	if entityColor(&z) != colZombie {
		t.Fatal("zombie colour")
	}
}

func TestGroundShade_Deterministic(t *testing.T) {
	a, _ := newTestGame(sim.WithCivilian(0, 0))
	b, _ := newTestGame(sim.WithCivilian(0, 0))
	for _, p := range []geom.Vec2{geom.V(0, 0), geom.V(12, -40), geom.V(-60, 60)} {
		if a.groundShade(p.X, p.Y) != b.groundShade(p.X, p.Y) {
			t.Fatalf("ground shade differs at %v", p)
		}
	}
}
