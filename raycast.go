package impulse

import "math"

// RayHit reports the closest intersection found by Raycast.
type RayHit struct {
	Body     *Body
	Point    Vec2
	Normal   Vec2
	Distance float64
}

// Raycast casts a ray from origin along dir (normalized internally) and
// returns the closest hit within maxDistance across the given bodies.
// Intersections behind the origin are rejected.
func Raycast(origin, dir Vec2, maxDistance float64, bodies []*Body) (RayHit, bool) {
	d := dir.Normalize()
	if d.LenSq() == 0 || maxDistance <= 0 {
		return RayHit{}, false
	}

	best := RayHit{Distance: math.Inf(1)}
	found := false

	for _, b := range bodies {
		var t float64
		var ok bool
		switch s := b.Shape.(type) {
		case Circle:
			t, ok = rayCircle(origin, d, b.Position, s.Radius)
		case Rectangle:
			t, ok = rayAABB(origin, d, s.Bounds(b.Position))
		}
		if !ok || t > maxDistance || t >= best.Distance {
			continue
		}

		point := origin.Add(d.Scale(t))
		best = RayHit{
			Body:     b,
			Point:    point,
			Normal:   hitNormal(b, point),
			Distance: t,
		}
		found = true
	}
	return best, found
}

// rayCircle solves the ray/circle intersection by projecting the center
// onto the ray and intersecting the chord. Returns the smallest t >= 0.
func rayCircle(origin, dir, center Vec2, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.LenSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := math.Sqrt(disc)
	t := -b - sqrtDisc
	if t < 0 {
		// Origin inside the circle, take the far intersection.
		t = -b + sqrtDisc
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// rayAABB is the standard slab test: intersect the parametric t-interval
// against each axis.
func rayAABB(origin, dir Vec2, box AABB) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 2; axis++ {
		var o, d, lo, hi float64
		if axis == 0 {
			o, d, lo, hi = origin.X, dir.X, box.Min.X, box.Max.X
		} else {
			o, d, lo, hi = origin.Y, dir.Y, box.Min.Y, box.Max.Y
		}

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		// Origin inside the box.
		return tMax, true
	}
	return tMin, true
}

// hitNormal derives the surface normal at a hit point.
func hitNormal(b *Body, point Vec2) Vec2 {
	switch s := b.Shape.(type) {
	case Circle:
		return point.Sub(b.Position).Normalize()
	case Rectangle:
		bounds := s.Bounds(b.Position)
		left := math.Abs(point.X - bounds.Min.X)
		right := math.Abs(point.X - bounds.Max.X)
		bottom := math.Abs(point.Y - bounds.Min.Y)
		top := math.Abs(point.Y - bounds.Max.Y)

		minDist := left
		normal := Vec2{-1, 0}
		if right < minDist {
			minDist = right
			normal = Vec2{1, 0}
		}
		if bottom < minDist {
			minDist = bottom
			normal = Vec2{0, -1}
		}
		if top < minDist {
			normal = Vec2{0, 1}
		}
		return normal
	}
	return Vec2{}
}
