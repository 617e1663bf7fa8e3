package sim

import (
	"container/heap"
	"math"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// NavGrid is a walkability raster over the world where true = blocked.
// A cell is blocked when its centre lies inside any building outline.
type NavGrid struct {
	originX, originY float64
	cell             float64
	cols, rows       int
	blocked          []bool
	outlines         []geom.Polygon
}

// NewNavGrid rasterizes outlines onto a grid covering the w×h rectangle
// whose lower-left corner is (originX, originY).
func NewNavGrid(originX, originY, w, h, cell float64, outlines []geom.Polygon) *NavGrid {
	if cell <= 0 {
		cell = 1
	}
	cols := int(math.Ceil(w / cell))
	rows := int(math.Ceil(h / cell))
	ng := &NavGrid{
		originX:  originX,
		originY:  originY,
		cell:     cell,
		cols:     cols,
		rows:     rows,
		blocked:  make([]bool, cols*rows),
		outlines: outlines,
	}

	for _, o := range outlines {
		lo, hi := o.Bounds()
		cMinX, cMinY := ng.WorldToCell(lo)
		cMaxX, cMaxY := ng.WorldToCell(hi)
		cMinX, cMinY = max(0, cMinX), max(0, cMinY)
		cMaxX, cMaxY = min(cols-1, cMaxX), min(rows-1, cMaxY)
		for cy := cMinY; cy <= cMaxY; cy++ {
			for cx := cMinX; cx <= cMaxX; cx++ {
				if o.Contains(ng.CellToWorld(cx, cy)) {
					ng.blocked[cy*cols+cx] = true
				}
			}
		}
	}
	return ng
}

func (ng *NavGrid) Cols() int         { return ng.cols }
func (ng *NavGrid) Rows() int         { return ng.rows }
func (ng *NavGrid) CellSize() float64 { return ng.cell }

// IsBlocked returns true if the cell at (cx, cy) is not walkable.
func (ng *NavGrid) IsBlocked(cx, cy int) bool {
	if cx < 0 || cy < 0 || cx >= ng.cols || cy >= ng.rows {
		return true
	}
	return ng.blocked[cy*ng.cols+cx]
}

// WorldToCell converts a world position to grid cell coordinates.
func (ng *NavGrid) WorldToCell(p geom.Vec2) (int, int) {
	return int(math.Floor((p.X - ng.originX) / ng.cell)), int(math.Floor((p.Y - ng.originY) / ng.cell))
}

// CellToWorld returns the world-space centre of a cell.
func (ng *NavGrid) CellToWorld(cx, cy int) geom.Vec2 {
	return geom.V(
		ng.originX+(float64(cx)+0.5)*ng.cell,
		ng.originY+(float64(cy)+0.5)*ng.cell,
	)
}

// --- A* pathfinding ---

type pathNode struct {
	cx, cy int
	g, h   float64
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}
func (ol *openList) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath returns world-space waypoints from start to goal, ending exactly
// at goal. Returns nil if either end is blocked or no path exists.
func (ng *NavGrid) FindPath(start, goal geom.Vec2) []geom.Vec2 {
	scx, scy := ng.WorldToCell(start)
	gcx, gcy := ng.WorldToCell(goal)

	if ng.IsBlocked(scx, scy) || ng.IsBlocked(gcx, gcy) {
		return nil
	}

	key := func(cx, cy int) int { return cy*ng.cols + cx }
	heuristic := func(ax, ay, bx, by int) float64 {
		dx := math.Abs(float64(ax - bx))
		dy := math.Abs(float64(ay - by))
		return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
	}

	first := &pathNode{cx: scx, cy: scy, h: heuristic(scx, scy, gcx, gcy)}
	ol := &openList{first}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := make(map[int]*pathNode)
	best[key(scx, scy)] = first

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cx == gcx && cur.cy == gcy {
			return ng.smooth(start, ng.buildPath(cur, goal))
		}
		k := key(cur.cx, cur.cy)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			nx, ny := cur.cx+d[0], cur.cy+d[1]
			if ng.IsBlocked(nx, ny) {
				continue
			}
			// No diagonal corner-cutting through blocked cells.
			if d[0] != 0 && d[1] != 0 {
				if ng.IsBlocked(cur.cx+d[0], cur.cy) || ng.IsBlocked(cur.cx, cur.cy+d[1]) {
					continue
				}
			}
			nk := key(nx, ny)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cy: ny, g: g, h: heuristic(nx, ny, gcx, gcy), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

// buildPath walks parents back to the start cell. The start cell is
// dropped and the goal cell's centre is replaced by the exact goal.
func (ng *NavGrid) buildPath(end *pathNode, goal geom.Vec2) []geom.Vec2 {
	var cells [][2]int
	for n := end; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.cx, n.cy})
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	path := make([]geom.Vec2, 0, len(cells))
	for _, c := range cells[1:] {
		path = append(path, ng.CellToWorld(c[0], c[1]))
	}
	if len(path) == 0 {
		return []geom.Vec2{goal}
	}
	path[len(path)-1] = goal
	return path
}

// smooth drops waypoints that can be skipped without crossing an outline.
func (ng *NavGrid) smooth(start geom.Vec2, path []geom.Vec2) []geom.Vec2 {
	if len(path) < 2 {
		return path
	}
	out := make([]geom.Vec2, 0, len(path))
	from := start
	i := 0
	for i < len(path) {
		far := i
		for j := len(path) - 1; j > i; j-- {
			if geom.HasLineOfSight(from, path[j], ng.outlines) {
				far = j
				break
			}
		}
		out = append(out, path[far])
		from = path[far]
		i = far + 1
	}
	return out
}
