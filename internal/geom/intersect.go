package geom

import "math"

// Segment is the directed line segment A->B, parameterised as A + t(B-A).
type Segment struct {
	A, B Vec2
}

// Circle is a disc with centre and radius.
type Circle struct {
	Center Vec2
	Radius float64
}

// Point returns the point at parameter t.
func (s Segment) Point(t float64) Vec2 {
	return s.A.Lerp(s.B, t)
}

// Delta returns B-A.
func (s Segment) Delta() Vec2 {
	return s.B.Sub(s.A)
}

// tangentEpsilon bounds how far below zero a discriminant may fall from
// rounding alone and still count as a grazing hit.
const tangentEpsilon = 1e-9

// SegmentCircleMinT returns the smallest t in (0,1] at which the segment
// meets the circle. A zero-length segment never intersects.
func SegmentCircleMinT(s Segment, c Circle) (float64, bool) {
	d := s.Delta()
	f := s.A.Sub(c.Center)

	a := d.LenSq()
	if a == 0 {
		return 0, false
	}
	b := 2 * f.Dot(d)
	cc := f.LenSq() - c.Radius*c.Radius

	disc := b*b - 4*a*cc
	if disc < 0 {
		// Near-tangent: a tiny negative discriminant relative to the terms
		// that produced it is rounding noise.
		scale := math.Max(b*b, math.Abs(4*a*cc))
		if disc < -tangentEpsilon*scale {
			return 0, false
		}
		disc = 0
	}
	sq := math.Sqrt(disc)

	// Stable quadratic roots: avoid cancellation between -b and sq.
	var q float64
	if b < 0 {
		q = -0.5 * (b - sq)
	} else {
		q = -0.5 * (b + sq)
	}
	var t1, t2 float64
	if q == 0 {
		// b == 0 and disc == 0: start point sits on the tangent's foot.
		t1, t2 = 0, 0
	} else {
		t1 = q / a
		t2 = cc / q
	}
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > 0 && t1 <= 1 {
		return t1, true
	}
	if t2 > 0 && t2 <= 1 {
		return t2, true
	}
	return 0, false
}

// SegmentSegmentT returns the parameter along s where it crosses o.
// Parallel or collinear segments report no crossing.
func SegmentSegmentT(s, o Segment) (float64, bool) {
	r := s.Delta()
	q := o.Delta()
	denom := r.Cross(q)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	ao := o.A.Sub(s.A)
	t := ao.Cross(q) / denom
	u := ao.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

// SegmentPolygonMinT returns the first parameter along s at which it
// crosses any edge of p.
func SegmentPolygonMinT(s Segment, p Polygon) (float64, bool) {
	best := math.Inf(1)
	hit := false
	for i := 0; i < p.Sides(); i++ {
		t, ok := SegmentSegmentT(s, p.Edge(i))
		if ok && t < best {
			best = t
			hit = true
		}
	}
	return best, hit
}

// SegmentAABBT returns the first segment parameter t in [0,1] where the
// segment enters the box [lo, hi]. The bool is false when no hit exists.
func SegmentAABBT(s Segment, lo, hi Vec2) (float64, bool) {
	d := s.Delta()

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(d.X) < 1e-12 {
		if s.A.X < lo.X || s.A.X > hi.X {
			return 0, false
		}
	} else {
		inv := 1.0 / d.X
		t1 := (lo.X - s.A.X) * inv
		t2 := (hi.X - s.A.X) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(d.Y) < 1e-12 {
		if s.A.Y < lo.Y || s.A.Y > hi.Y {
			return 0, false
		}
	} else {
		inv := 1.0 / d.Y
		t1 := (lo.Y - s.A.Y) * inv
		t2 := (hi.Y - s.A.Y) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}

// HasLineOfSight reports whether the segment a->b crosses none of the
// polygons. Bounding boxes are checked first.
func HasLineOfSight(a, b Vec2, polys []Polygon) bool {
	s := Segment{A: a, B: b}
	for _, p := range polys {
		lo, hi := p.Bounds()
		if _, ok := SegmentAABBT(s, lo, hi); !ok {
			continue
		}
		if _, ok := SegmentPolygonMinT(s, p); ok {
			return false
		}
	}
	return true
}

// PointSegmentDistance returns the distance from p to the closest point of s.
func PointSegmentDistance(p Vec2, s Segment) float64 {
	d := s.Delta()
	lenSq := d.LenSq()
	if lenSq < 1e-12 {
		return p.Sub(s.A).Len()
	}
	t := p.Sub(s.A).Dot(d) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Sub(s.Point(t)).Len()
}
