package sim

import (
	"math/rand"
	"slices"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// BuildingType tags a building for rendering and later AI use.
type BuildingType int

const (
	BuildingHouse BuildingType = iota
	BuildingShop
	BuildingWarehouse
	BuildingPoliceStation
	BuildingHospital
	BuildingChurch
	BuildingKiosk
	BuildingBoundary
)

func (t BuildingType) String() string {
	switch t {
	case BuildingHouse:
		return "house"
	case BuildingShop:
		return "shop"
	case BuildingWarehouse:
		return "warehouse"
	case BuildingPoliceStation:
		return "police_station"
	case BuildingHospital:
		return "hospital"
	case BuildingChurch:
		return "church"
	case BuildingKiosk:
		return "kiosk"
	case BuildingBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// Building is a static obstacle and its navigation outline.
type Building struct {
	Shape   geom.Polygon
	Outline geom.Polygon
	Type    BuildingType
}

// Projectile is a bullet in flight.
type Projectile struct {
	Position geom.Vec2
	Velocity geom.Vec2
}

// Spent reports whether the projectile is too slow to matter.
func (p *Projectile) Spent() bool {
	return p.Velocity.LenSq() < MinProjectileSpeedSq
}

// SignalKind enumerates the side effects a tick can produce.
type SignalKind int

const (
	SignalGunshot SignalKind = iota
	SignalPersonInfected
	SignalZombieKilled
	SignalHumanKilled
	SignalReloaded
)

func (k SignalKind) String() string {
	switch k {
	case SignalGunshot:
		return "gunshot"
	case SignalPersonInfected:
		return "person_infected"
	case SignalZombieKilled:
		return "zombie_killed"
	case SignalHumanKilled:
		return "human_killed"
	case SignalReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// Signal is a side effect for the presentation layer (sound, flashes).
type Signal struct {
	Kind     SignalKind
	Position geom.Vec2
	Entity   int // index of the entity involved
}

// TickResult is what one Step hands back to the frame driver.
type TickResult struct {
	Tick    int
	Signals []Signal
}

// World is the whole mutable simulation state. It owns every entity,
// projectile and building, the selection set and the random source.
// Entities are never removed, so indices stay valid for the whole run.
type World struct {
	entities      []Entity
	projectiles   []Projectile
	buildings     []Building
	shapes        []geom.Polygon
	outlines      []geom.Polygon
	buildingTypes map[int]BuildingType
	selected      []bool

	rng     *rand.Rand
	money   int
	tick    int
	elapsed float64
	nextID  int

	signals []Signal
	log     *EventLog
	nav     *NavGrid

	// copLineOfSight restricts cop targeting to zombies not hidden by buildings.
	copLineOfSight bool

	// onPair, when set, is called for every pair the collision pass tests.
	onPair func(i, j int)
}

// NewWorld returns an empty world with its own seeded random source.
func NewWorld(seed int64) *World {
	return &World{
		buildingTypes: make(map[int]BuildingType),
		rng:           rand.New(rand.NewSource(seed)), // #nosec G404 -- simulation only
		log:           NewEventLog(false),
	}
}

// AddEntity appends e, assigns it the next ID and returns its index.
func (w *World) AddEntity(e Entity) int {
	e.ID = w.nextID
	w.nextID++
	w.entities = append(w.entities, e)
	w.selected = append(w.selected, false)
	return len(w.entities) - 1
}

// AddBuilding stores shape (rewound CCW if needed) with its outline and type.
// Returns the building index.
func (w *World) AddBuilding(shape geom.Polygon, typ BuildingType) int {
	shape = shape.CCW()
	b := Building{Shape: shape, Outline: shape.Offset(OutlineMargin), Type: typ}
	w.buildings = append(w.buildings, b)
	w.shapes = append(w.shapes, b.Shape)
	w.outlines = append(w.outlines, b.Outline)
	idx := len(w.buildings) - 1
	w.buildingTypes[idx] = typ
	return idx
}

// SetEventLog replaces the event log.
func (w *World) SetEventLog(l *EventLog) {
	if l == nil {
		l = NewEventLog(false)
	}
	w.log = l
}

// EventLog returns the structured event log.
func (w *World) EventLog() *EventLog {
	return w.log
}

// SetCopLineOfSight toggles building occlusion for cop targeting.
func (w *World) SetCopLineOfSight(on bool) {
	w.copLineOfSight = on
}

// BuildNavGrid rasterizes the building outlines at the given cell size.
func (w *World) BuildNavGrid(cell float64) {
	w.nav = NewNavGrid(-WorldHalf, -WorldHalf, 2*WorldHalf, 2*WorldHalf, cell, w.outlines)
}

// NavGrid returns the navigation grid, or nil when none was built.
func (w *World) NavGrid() *NavGrid {
	return w.nav
}

// Entities returns a copy of the entity list. Cop routes are cloned too.
func (w *World) Entities() []Entity {
	out := make([]Entity, len(w.entities))
	for i := range w.entities {
		out[i] = w.Entity(i)
	}
	return out
}

// Entity returns a copy of the entity at index i.
func (w *World) Entity(i int) Entity {
	e := w.entities[i]
	cop := &e.Status.Affiliation.Role.Cop
	cop.Route = slices.Clone(cop.Route)
	return e
}

// Projectiles returns a copy of the projectiles in flight.
func (w *World) Projectiles() []Projectile {
	out := make([]Projectile, len(w.projectiles))
	copy(out, w.projectiles)
	return out
}

// Buildings returns the static buildings. They never change after generation.
func (w *World) Buildings() []Building {
	return w.buildings
}

// Shapes returns the solid building polygons, index-matched to Buildings.
func (w *World) Shapes() []geom.Polygon {
	return w.shapes
}

// Outlines returns the navigation outlines, index-matched to Buildings.
func (w *World) Outlines() []geom.Polygon {
	return w.outlines
}

// BuildingType looks up the type tag of building i.
func (w *World) BuildingType(i int) (BuildingType, bool) {
	t, ok := w.buildingTypes[i]
	return t, ok
}

// Selected returns the indices of selected entities in ascending order.
func (w *World) Selected() []int {
	var out []int
	for i, s := range w.selected {
		if s {
			out = append(out, i)
		}
	}
	return out
}

// IsSelected reports whether entity i is selected.
func (w *World) IsSelected(i int) bool {
	return i >= 0 && i < len(w.selected) && w.selected[i]
}

func (w *World) EntityCount() int     { return len(w.entities) }
func (w *World) ProjectileCount() int { return len(w.projectiles) }
func (w *World) Money() int           { return w.money }
func (w *World) Tick() int            { return w.tick }
func (w *World) Elapsed() float64     { return w.elapsed }

// emit queues a signal for the current tick.
func (w *World) emit(kind SignalKind, pos geom.Vec2, entity int) {
	w.signals = append(w.signals, Signal{Kind: kind, Position: pos, Entity: entity})
}

// record writes an event for entity i to the log.
func (w *World) record(i int, category, key, value string, num float64) {
	e := &w.entities[i]
	w.log.Add(w.tick, e.Label(), e.Kind(), category, key, value, num)
}
