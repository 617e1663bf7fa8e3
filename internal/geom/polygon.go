package geom

import "math"

// Polygon is a closed, non-self-intersecting vertex loop. Polygons built by
// this package are wound counter-clockwise in y-up coordinates, so the
// right-hand perpendicular of each edge points outward.
type Polygon []Vec2

// Rect returns the CCW rectangle with corner min and size (w, h).
func Rect(min Vec2, w, h float64) Polygon {
	return Polygon{
		min,
		V(min.X+w, min.Y),
		V(min.X+w, min.Y+h),
		V(min.X, min.Y+h),
	}
}

// Sides returns the number of edges.
func (p Polygon) Sides() int {
	return len(p)
}

// Edge returns the edge from vertex i to vertex i+1 (wrapping).
func (p Polygon) Edge(i int) Segment {
	return Segment{A: p[i], B: p[(i+1)%len(p)]}
}

// Normal returns the outward unit normal of edge i. Degenerate edges have a
// zero normal.
func (p Polygon) Normal(i int) Vec2 {
	e := p.Edge(i)
	return e.B.Sub(e.A).Right().Normalize()
}

// SignedArea is positive for counter-clockwise winding.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	a := 0.0
	for i := range p {
		a += p[i].Cross(p[(i+1)%len(p)])
	}
	return a / 2
}

// Area returns the absolute area.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Centroid returns the area-weighted centroid. Zero-area polygons fall back
// to the vertex average; an empty polygon yields the zero vector.
func (p Polygon) Centroid() Vec2 {
	if len(p) == 0 {
		return Vec2{}
	}
	a := p.SignedArea()
	if math.Abs(a) < 1e-12 {
		var sum Vec2
		for _, v := range p {
			sum = sum.Add(v)
		}
		return sum.Scale(1 / float64(len(p)))
	}
	var cx, cy float64
	for i := range p {
		v0 := p[i]
		v1 := p[(i+1)%len(p)]
		c := v0.Cross(v1)
		cx += (v0.X + v1.X) * c
		cy += (v0.Y + v1.Y) * c
	}
	return V(cx/(6*a), cy/(6*a))
}

// Contains reports whether pt lies inside the polygon (even-odd rule).
func (p Polygon) Contains(pt Vec2) bool {
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the axis-aligned bounding box as (min, max).
func (p Polygon) Bounds() (Vec2, Vec2) {
	if len(p) == 0 {
		return Vec2{}, Vec2{}
	}
	lo, hi := p[0], p[0]
	for _, v := range p[1:] {
		lo.X = math.Min(lo.X, v.X)
		lo.Y = math.Min(lo.Y, v.Y)
		hi.X = math.Max(hi.X, v.X)
		hi.Y = math.Max(hi.Y, v.Y)
	}
	return lo, hi
}

// Offset pushes every vertex outward by d along the normalized sum of its
// two adjacent edge normals. This is the navigation outline used for path
// clearance around buildings.
func (p Polygon) Offset(d float64) Polygon {
	n := len(p)
	out := make(Polygon, n)
	for i := range p {
		prev := p.Normal((i - 1 + n) % n)
		next := p.Normal(i)
		dir := prev.Add(next).Normalize()
		out[i] = p[i].Add(dir.Scale(d))
	}
	return out
}

// CCW returns p wound counter-clockwise, reversing a clockwise copy.
func (p Polygon) CCW() Polygon {
	if p.SignedArea() >= 0 {
		return p
	}
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}
