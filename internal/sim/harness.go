package sim

import (
	"fmt"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// TestSim is a headless harness around a hand-built World. It is used by
// tests and the headless report to script small scenarios.
type TestSim struct {
	World *World
	DT    float64

	// Signals accumulates every signal since construction.
	Signals []Signal

	seed        int64
	verbose     bool
	navCell     float64
	lineOfSight bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, dt, verbose: applied before the world exists
	simOptWorld                       // buildings: applied before the nav grid
	simOptEntity                      // entities: applied last
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the world rng seed.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.seed = seed }}
}

// WithDT sets the tick length RunTicks uses.
func WithDT(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.DT = dt }}
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.verbose = v }}
}

// WithNavGrid builds a nav grid with the given cell size after buildings are added.
func WithNavGrid(cell float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.navCell = cell }}
}

// WithCopLineOfSight makes cops ignore zombies hidden by buildings.
func WithCopLineOfSight() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.lineOfSight = true }}
}

// WithBuilding adds an axis-aligned building with its lower-left corner at (x, y).
func WithBuilding(x, y, w, h float64) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.World.AddBuilding(geom.Rect(geom.V(x, y), w, h), BuildingHouse)
	}}
}

// WithCivilian adds a civilian at (x, y).
func WithCivilian(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.AddEntity(NewCivilian(0, geom.V(x, y)))
	}}
}

// WithCop adds an idle cop with a full magazine at (x, y).
func WithCop(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.AddEntity(NewCop(0, geom.V(x, y)))
	}}
}

// WithZombie adds a zombie at (x, y).
func WithZombie(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.AddEntity(NewZombie(0, geom.V(x, y)))
	}}
}

// WithEntity adds a prepared entity, for states the other options don't cover.
func WithEntity(e Entity) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.AddEntity(e)
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (seed, dt, verbose)
//  2. Buildings, then the nav grid if requested
//  3. Entities, in option order
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{DT: 0.1, seed: 1}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.World = NewWorld(ts.seed)
	ts.World.SetEventLog(NewEventLog(ts.verbose))
	ts.World.SetCopLineOfSight(ts.lineOfSight)
	for _, o := range opts {
		if o.kind == simOptWorld {
			o.fn(ts)
		}
	}
	if ts.navCell > 0 {
		ts.World.BuildNavGrid(ts.navCell)
	}
	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	return ts
}

// FromWorld wraps an existing world, e.g. one made by Generate.
func FromWorld(w *World, dt float64) *TestSim {
	return &TestSim{World: w, DT: dt}
}

// Log returns the world's event log.
func (ts *TestSim) Log() *EventLog {
	return ts.World.EventLog()
}

// Entity returns a copy of entity i.
func (ts *TestSim) Entity(i int) Entity {
	return ts.World.Entity(i)
}

// RunTicks advances the world n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.step()
	}
}

// RunUntil advances up to maxTicks, stopping early once predicate holds.
// Returns the tick at which it held, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.step()
		if predicate(ts) {
			return ts.World.Tick()
		}
	}
	return -1
}

func (ts *TestSim) step() {
	res := ts.World.Step(ts.DT)
	ts.Signals = append(ts.Signals, res.Signals...)

	log := ts.World.EventLog()
	if !log.Verbose() {
		return
	}
	for i := range ts.World.entities {
		e := &ts.World.entities[i]
		log.AddVerbose(res.Tick, e.Label(), e.Kind(), "move", "position",
			fmt.Sprintf("(%.2f,%.2f)", e.Position.X, e.Position.Y), e.Velocity.Len())
	}
}

// CountSignals returns how many signals of kind were seen.
func (ts *TestSim) CountSignals(kind SignalKind) int {
	n := 0
	for _, s := range ts.Signals {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Snapshot captures a lightweight state summary.
type SimSnapshot struct {
	Tick     int
	Entities []EntitySnapshot
}

// EntitySnapshot is a lightweight copy of an entity's state at a tick.
type EntitySnapshot struct {
	Index     int
	Label     string
	Kind      string
	Position  geom.Vec2
	Infection float64
}

// Snapshot returns the current state of all entities.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: ts.World.Tick()}
	for i := range ts.World.entities {
		e := &ts.World.entities[i]
		snap.Entities = append(snap.Entities, EntitySnapshot{
			Index:     i,
			Label:     e.Label(),
			Kind:      e.Kind(),
			Position:  e.Position,
			Infection: e.Infection(),
		})
	}
	return snap
}
