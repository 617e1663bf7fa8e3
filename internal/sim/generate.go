package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// ErrInvalidPopulation is returned by Generate for population settings that
// cannot be satisfied.
var ErrInvalidPopulation = errors.New("invalid population")

// GenConfig describes the world to generate.
type GenConfig struct {
	Entities           int
	CopFraction        float64
	InfectedFraction   float64
	IncubatingFraction float64 // share of civilians starting partially infected
	Seed               int64

	CopLineOfSight bool
	VerboseLog     bool
}

// DefaultGenConfig returns a hundred-strong town with a handful of cops
// and zombies.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Entities:         100,
		CopFraction:      0.1,
		InfectedFraction: 0.05,
		Seed:             1,
	}
}

// Population is the head count derived from a GenConfig.
type Population struct {
	Civilians  int
	Cops       int
	Zombies    int
	Incubating int
}

// Population computes the head count. Cops and zombies are rounded with a
// minimum of one each; civilians take the remainder.
func (c GenConfig) Population() (Population, error) {
	n := c.Entities
	if n <= 0 {
		return Population{}, fmt.Errorf("%w: entity count %d must be positive", ErrInvalidPopulation, n)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"cop fraction", c.CopFraction},
		{"infected fraction", c.InfectedFraction},
		{"incubating fraction", c.IncubatingFraction},
	} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return Population{}, fmt.Errorf("%w: %s %.3f outside [0,1]", ErrInvalidPopulation, f.name, f.v)
		}
	}
	if c.CopFraction+c.InfectedFraction >= 1 {
		return Population{}, fmt.Errorf("%w: cop %.3f + infected %.3f leaves no civilians",
			ErrInvalidPopulation, c.CopFraction, c.InfectedFraction)
	}

	cops := max(1, int(math.Round(c.CopFraction*float64(n))))
	zombies := max(1, int(math.Round(c.InfectedFraction*float64(n))))
	if cops+zombies > n {
		return Population{}, fmt.Errorf("%w: %d cops + %d zombies exceed %d entities",
			ErrInvalidPopulation, cops, zombies, n)
	}
	civilians := n - cops - zombies
	return Population{
		Civilians:  civilians,
		Cops:       cops,
		Zombies:    zombies,
		Incubating: int(math.Round(c.IncubatingFraction * float64(civilians))),
	}, nil
}

// Generate builds a world from cfg. The same config always yields the same
// entities and buildings.
func Generate(cfg GenConfig) (*World, error) {
	pop, err := cfg.Population()
	if err != nil {
		return nil, err
	}

	w := NewWorld(cfg.Seed)
	w.SetEventLog(NewEventLog(cfg.VerboseLog))
	w.SetCopLineOfSight(cfg.CopLineOfSight)

	for _, b := range layout(w.rng) {
		w.AddBuilding(b.Shape, b.Type)
	}

	for k := 0; k < pop.Civilians; k++ {
		e := NewCivilian(0, w.spawnPoint())
		if k < pop.Incubating {
			e.Status.Affiliation.Infection = IncubatingStart
		}
		w.AddEntity(e)
	}
	for k := 0; k < pop.Cops; k++ {
		w.AddEntity(NewCop(0, w.spawnPoint()))
	}
	for k := 0; k < pop.Zombies; k++ {
		w.AddEntity(NewZombie(0, w.spawnPoint()))
	}

	w.BuildNavGrid(NavCellSize)
	w.log.Add(0, "--", "--", "outcome", "generated",
		fmt.Sprintf("%d civilians (%d incubating), %d cops, %d zombies, %d buildings",
			pop.Civilians, pop.Incubating, pop.Cops, pop.Zombies, len(w.buildings)),
		float64(cfg.Entities))
	return w, nil
}

const spawnAttempts = 32

// spawnLattice is the spacing of the fallback search in spawnPoint.
const spawnLattice = 1.0

// spawnPoint draws a uniform point in the spawn square, retrying a bounded
// number of times when it lands inside a building outline. When every draw
// is blocked it falls back to the nearest free lattice point, and only
// returns a blocked point if the whole square is covered.
func (w *World) spawnPoint() geom.Vec2 {
	var p geom.Vec2
	for a := 0; a < spawnAttempts; a++ {
		p = geom.V(
			(w.rng.Float64()*2-1)*SpawnHalf,
			(w.rng.Float64()*2-1)*SpawnHalf,
		)
		if !w.insideOutline(p) {
			return p
		}
	}
	if q, ok := w.nearestFreeSpawn(p); ok {
		return q
	}
	return p
}

func (w *World) nearestFreeSpawn(p geom.Vec2) (geom.Vec2, bool) {
	best, bestD := geom.Vec2{}, math.Inf(1)
	for y := -SpawnHalf; y <= SpawnHalf; y += spawnLattice {
		for x := -SpawnHalf; x <= SpawnHalf; x += spawnLattice {
			q := geom.V(x, y)
			if d := q.DistSq(p); d < bestD && !w.insideOutline(q) {
				best, bestD = q, d
			}
		}
	}
	return best, !math.IsInf(bestD, 1)
}

func (w *World) insideOutline(p geom.Vec2) bool {
	for _, o := range w.outlines {
		if o.Contains(p) {
			return true
		}
	}
	return false
}

// --- layout ---

// blockTemplate is one axis-aligned building in the layout table.
type blockTemplate struct {
	X, Y, W, H float64
	Type       BuildingType
}

func (b blockTemplate) polygon() geom.Polygon {
	return geom.Rect(geom.V(b.X, b.Y), b.W, b.H)
}

// landmark is a hand-placed building with an arbitrary footprint.
type landmark struct {
	Shape geom.Polygon
	Type  BuildingType
}

// gridTypes is the pool block types are drawn from; repeats weight the draw.
var gridTypes = []BuildingType{
	BuildingHouse, BuildingHouse, BuildingHouse,
	BuildingShop, BuildingShop,
	BuildingWarehouse,
}

// landmarks sit between the town grid and the boundary.
var landmarks = []landmark{
	{Type: BuildingPoliceStation, Shape: geom.Rect(geom.V(-48, 34), 12, 9)},
	{Type: BuildingHospital, Shape: geom.Polygon{ // L-shaped wing
		geom.V(34, 34), geom.V(50, 34), geom.V(50, 40),
		geom.V(41, 40), geom.V(41, 48), geom.V(34, 48),
	}},
	{Type: BuildingChurch, Shape: geom.Polygon{ // nave with pointed apse
		geom.V(36, -48), geom.V(44, -48), geom.V(44, -38),
		geom.V(40, -34), geom.V(36, -38),
	}},
	{Type: BuildingKiosk, Shape: octagon(geom.V(-42, -42), 2.5)},
}

// octagon returns a regular octagon, counter-clockwise.
func octagon(c geom.Vec2, r float64) geom.Polygon {
	p := make(geom.Polygon, 8)
	for k := range p {
		p[k] = c.Add(geom.FromAngle(math.Pi/8 + float64(k)*math.Pi/4).Scale(r))
	}
	return p
}

// gridBlocks lays the procedural town grid. The rng decides each lot's
// type and whether it stays empty.
func gridBlocks(rng *rand.Rand) []blockTemplate {
	span := GridBlocks*BlockSize + (GridBlocks-1)*BlockGap
	origin := -span / 2
	var out []blockTemplate
	for row := 0; row < GridBlocks; row++ {
		for col := 0; col < GridBlocks; col++ {
			empty := rng.Float64() < EmptyLotChance
			typ := gridTypes[rng.Intn(len(gridTypes))]
			if empty {
				continue
			}
			out = append(out, blockTemplate{
				X:    origin + float64(col)*(BlockSize+BlockGap),
				Y:    origin + float64(row)*(BlockSize+BlockGap),
				W:    BlockSize,
				H:    BlockSize,
				Type: typ,
			})
		}
	}
	return out
}

// boundaryWalls encloses [-WorldHalf, WorldHalf]² with thin rectangles.
func boundaryWalls() []blockTemplate {
	const h, t = WorldHalf, BoundaryThickness
	return []blockTemplate{
		{X: -h - t, Y: -h - t, W: 2*h + 2*t, H: t, Type: BuildingBoundary}, // south
		{X: -h - t, Y: h, W: 2*h + 2*t, H: t, Type: BuildingBoundary},      // north
		{X: -h - t, Y: -h, W: t, H: 2 * h, Type: BuildingBoundary},         // west
		{X: h, Y: -h, W: t, H: 2 * h, Type: BuildingBoundary},              // east
	}
}

// layout returns every building in placement order: grid, landmarks, walls.
func layout(rng *rand.Rand) []landmark {
	var out []landmark
	for _, b := range gridBlocks(rng) {
		out = append(out, landmark{Shape: b.polygon(), Type: b.Type})
	}
	out = append(out, landmarks...)
	for _, b := range boundaryWalls() {
		out = append(out, landmark{Shape: b.polygon(), Type: b.Type})
	}
	return out
}
