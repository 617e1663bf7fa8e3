package sim

import (
	"testing"

	"github.com/Garsondee/Outbreak/internal/geom"
)

func TestNavGrid_UnblockedByDefault(t *testing.T) {
	ng := NewNavGrid(0, 0, 40, 30, 1, nil)
	if ng.IsBlocked(0, 0) {
		t.Fatal("empty grid should have no blocked cells")
	}
	if ng.IsBlocked(ng.Cols()-1, ng.Rows()-1) {
		t.Fatal("corner cell should not be blocked")
	}
}

func TestNavGrid_OutlineBlocksCells(t *testing.T) {
	sq := geom.Rect(geom.V(4, 4), 4, 4)
	ng := NewNavGrid(0, 0, 20, 20, 1, []geom.Polygon{sq})
	if !ng.IsBlocked(4, 4) || !ng.IsBlocked(7, 7) {
		t.Fatal("cells whose centre lies inside the outline should be blocked")
	}
	if ng.IsBlocked(3, 4) || ng.IsBlocked(8, 8) {
		t.Fatal("cells outside the outline should stay walkable")
	}
}

func TestNavGrid_OOBIsBlocked(t *testing.T) {
	ng := NewNavGrid(0, 0, 10, 10, 1, nil)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {ng.Cols(), 0}, {0, ng.Rows()}} {
		if !ng.IsBlocked(c[0], c[1]) {
			t.Fatalf("out-of-bounds cell %v should be blocked", c)
		}
	}
}

func TestNavGrid_WorldCellRoundTrip(t *testing.T) {
	ng := NewNavGrid(-10, -10, 20, 20, 2, nil)
	cx, cy := ng.WorldToCell(geom.V(-9.5, 3.2))
	if cx != 0 || cy != 6 {
		t.Fatalf("cell = (%d,%d), want (0,6)", cx, cy)
	}
	if c := ng.CellToWorld(0, 6); c != geom.V(-9, 3) {
		t.Fatalf("cell centre = %+v, want (-9,3)", c)
	}
}

func TestNavGrid_DirectPathWhenOpen(t *testing.T) {
	ng := NewNavGrid(0, 0, 20, 20, 1, nil)
	goal := geom.V(15.2, 12.7)
	path := ng.FindPath(geom.V(2.5, 2.5), goal)
	if len(path) != 1 || path[0] != goal {
		t.Fatalf("open field path = %v, want just the goal", path)
	}
}

func TestNavGrid_PathAvoidsWall(t *testing.T) {
	wall := geom.Rect(geom.V(9, 0), 2, 16)
	outlines := []geom.Polygon{wall.Offset(OutlineMargin)}
	ng := NewNavGrid(0, 0, 20, 20, 1, outlines)

	start, goal := geom.V(3, 3), geom.V(17, 3)
	path := ng.FindPath(start, goal)
	if path == nil {
		t.Fatal("expected a path over the top of the wall")
	}
	prev := start
	for _, p := range path {
		if !geom.HasLineOfSight(prev, p, []geom.Polygon{wall}) {
			t.Fatalf("leg %+v → %+v crosses the wall", prev, p)
		}
		prev = p
	}
	if path[len(path)-1] != goal {
		t.Fatalf("path ends at %+v, want the goal", path[len(path)-1])
	}
}

func TestNavGrid_NoPathWhenSealed(t *testing.T) {
	wall := geom.Rect(geom.V(9, -1), 2, 22)
	ng := NewNavGrid(0, 0, 20, 20, 1, []geom.Polygon{wall})
	if p := ng.FindPath(geom.V(3, 3), geom.V(17, 3)); p != nil {
		t.Fatalf("sealed wall should give no path, got %v", p)
	}
}

func TestNavGrid_BlockedGoal(t *testing.T) {
	sq := geom.Rect(geom.V(8, 8), 4, 4)
	ng := NewNavGrid(0, 0, 20, 20, 1, []geom.Polygon{sq})
	if p := ng.FindPath(geom.V(1, 1), geom.V(10, 10)); p != nil {
		t.Fatalf("goal inside a building should give no path, got %v", p)
	}
}
