package impulse

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact describes a detected overlap between two bodies. By convention
// the unit Normal points from the first body toward the second; Depth is
// the penetration distance. Contacts are transient and recomputed every
// detection pass.
type Contact struct {
	Normal Vec2
	Depth  float64
	Point  Vec2
}

// Collision pairs two overlapping bodies with their contact.
type Collision struct {
	A       *Body
	B       *Body
	Contact Contact
}

// Detector runs broad- and narrow-phase collision detection over a set of
// bodies, backed by a spatial grid that is rebuilt each pass.
type Detector struct {
	grid *SpatialGrid
}

func NewDetector() *Detector {
	return &Detector{grid: NewSpatialGrid(DefaultCellSize)}
}

// Detect resets per-body contact scratch, rebuilds the grid, prunes
// candidate pairs by grid cell and AABB overlap, and narrow-phases each
// unordered pair once. The returned collisions are in pass order.
func (d *Detector) Detect(bodies []*Body) []Collision {
	for _, b := range bodies {
		b.resetContact()
	}

	d.grid.Clear()
	for _, b := range bodies {
		d.grid.Insert(b)
	}

	var collisions []Collision
	seen := make(map[[2]string]struct{})

	for _, a := range bodies {
		for _, b := range d.grid.Query(a) {
			key := pairKey(a, b)
			if _, done := seen[key]; done {
				continue
			}
			seen[key] = struct{}{}

			if a.Static && b.Static {
				continue
			}
			if !a.Bounds().Overlaps(b.Bounds()) {
				continue
			}

			contact, ok := collide(a, b)
			if !ok {
				continue
			}

			a.Colliding = true
			a.ContactNormal = contact.Normal
			a.ContactDepth = contact.Depth
			b.Colliding = true
			b.ContactNormal = contact.Normal.Negate()
			b.ContactDepth = contact.Depth

			collisions = append(collisions, Collision{A: a, B: b, Contact: contact})
		}
	}
	return collisions
}

// pairKey orders the two body identities so each unordered pair is
// visited once per pass.
func pairKey(a, b *Body) [2]string {
	if a.ID < b.ID {
		return [2]string{a.ID, b.ID}
	}
	return [2]string{b.ID, a.ID}
}

// collide dispatches the narrow phase on the shape pair. The returned
// contact normal points from a toward b.
func collide(a, b *Body) (Contact, bool) {
	switch sa := a.Shape.(type) {
	case Circle:
		switch sb := b.Shape.(type) {
		case Circle:
			return collideCircles(a.Position, sa, b.Position, sb)
		case Rectangle:
			return collideCircleRect(a.Position, sa, b.Position, sb)
		}
	case Rectangle:
		switch sb := b.Shape.(type) {
		case Circle:
			// Delegate with operands swapped, then flip the normal.
			contact, ok := collideCircleRect(b.Position, sb, a.Position, sa)
			if ok {
				contact.Normal = contact.Normal.Negate()
			}
			return contact, ok
		case Rectangle:
			return collideRects(a.Position, sa, b.Position, sb)
		}
	}
	return Contact{}, false
}

func collideCircles(posA Vec2, a Circle, posB Vec2, b Circle) (Contact, bool) {
	delta := posB.Sub(posA)
	distSq := delta.LenSq()
	radiusSum := a.Radius + b.Radius
	if distSq >= radiusSum*radiusSum {
		return Contact{}, false
	}

	dist := math.Sqrt(distSq)
	if dist == 0 {
		// Coincident centers: arbitrary fixed normal avoids a zero
		// division.
		return Contact{
			Normal: Vec2{1, 0},
			Depth:  radiusSum,
			Point:  posA,
		}, true
	}

	normal := delta.Scale(1 / dist)
	depth := radiusSum - dist
	return Contact{
		Normal: normal,
		Depth:  depth,
		Point:  posA.Add(normal.Scale(a.Radius - depth*0.5)),
	}, true
}

func collideCircleRect(circlePos Vec2, c Circle, rectPos Vec2, r Rectangle) (Contact, bool) {
	bounds := r.Bounds(rectPos)
	closest := Vec2{
		X: mgl64.Clamp(circlePos.X, bounds.Min.X, bounds.Max.X),
		Y: mgl64.Clamp(circlePos.Y, bounds.Min.Y, bounds.Max.Y),
	}

	delta := circlePos.Sub(closest)
	distSq := delta.LenSq()
	if distSq > 0 {
		if distSq >= c.Radius*c.Radius {
			return Contact{}, false
		}
		dist := math.Sqrt(distSq)
		// Normal points from the circle toward the rectangle.
		return Contact{
			Normal: delta.Scale(1 / dist).Negate(),
			Depth:  c.Radius - dist,
			Point:  closest,
		}, true
	}

	// Center inside the rectangle: push out along the nearest edge.
	left := circlePos.X - bounds.Min.X
	right := bounds.Max.X - circlePos.X
	bottom := circlePos.Y - bounds.Min.Y
	top := bounds.Max.Y - circlePos.Y

	minDist := left
	normal := Vec2{1, 0}
	if right < minDist {
		minDist = right
		normal = Vec2{-1, 0}
	}
	if bottom < minDist {
		minDist = bottom
		normal = Vec2{0, 1}
	}
	if top < minDist {
		minDist = top
		normal = Vec2{0, -1}
	}
	return Contact{
		Normal: normal,
		Depth:  minDist + c.Radius,
		Point:  circlePos,
	}, true
}

func collideRects(posA Vec2, a Rectangle, posB Vec2, b Rectangle) (Contact, bool) {
	boundsA := a.Bounds(posA)
	boundsB := b.Bounds(posB)

	overlapX := math.Min(boundsA.Max.X, boundsB.Max.X) - math.Max(boundsA.Min.X, boundsB.Min.X)
	overlapY := math.Min(boundsA.Max.Y, boundsB.Max.Y) - math.Max(boundsA.Min.Y, boundsB.Min.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return Contact{}, false
	}

	// Minimum-translation-vector heuristic: separate along the axis with
	// the smaller overlap, signed by relative center position.
	var normal Vec2
	var depth float64
	if overlapX < overlapY {
		depth = overlapX
		if posA.X < posB.X {
			normal = Vec2{1, 0}
		} else {
			normal = Vec2{-1, 0}
		}
	} else {
		depth = overlapY
		if posA.Y < posB.Y {
			normal = Vec2{0, 1}
		} else {
			normal = Vec2{0, -1}
		}
	}

	return Contact{
		Normal: normal,
		Depth:  depth,
		Point:  posA.Add(posB).Scale(0.5),
	}, true
}
