package impulse

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownShape is returned when deserializing a shape kind the engine
// does not recognize.
var ErrUnknownShape = errors.New("impulse: unknown shape")

// ShapeKind discriminates the closed set of collision shapes.
type ShapeKind int

const (
	KindCircle ShapeKind = iota
	KindRectangle
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRectangle:
		return "rectangle"
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// ParseShapeKind maps the serialized name back to a kind.
func ParseShapeKind(name string) (ShapeKind, error) {
	switch name {
	case "circle":
		return KindCircle, nil
	case "rectangle":
		return KindRectangle, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Shape is the closed sum of collision shapes. It is sealed: only Circle
// and Rectangle implement it, so shape dispatch can switch exhaustively.
type Shape interface {
	Kind() ShapeKind
	// Bounds returns the axis-aligned box of the shape centered at pos.
	// Rectangle bounds ignore body rotation; bounds are axis-aligned
	// regardless of angle.
	Bounds(pos Vec2) AABB
	// MomentOfInertia returns the rotational inertia about the center
	// for the given mass.
	MomentOfInertia(mass float64) float64
	// Contains reports whether point lies inside the shape centered at
	// pos. Exact for circles, AABB-based for rectangles.
	Contains(pos, point Vec2) bool

	sealedShape()
}

// Circle is a collision disc.
type Circle struct {
	Radius float64
}

func (c Circle) Kind() ShapeKind { return KindCircle }

func (c Circle) Bounds(pos Vec2) AABB {
	r := Vec2{c.Radius, c.Radius}
	return AABB{Min: pos.Sub(r), Max: pos.Add(r)}
}

func (c Circle) MomentOfInertia(mass float64) float64 {
	return 0.5 * mass * c.Radius * c.Radius
}

func (c Circle) Contains(pos, point Vec2) bool {
	return pos.DistanceSq(point) <= c.Radius*c.Radius
}

func (c Circle) sealedShape() {}

// Rectangle is an axis-aligned collision box.
type Rectangle struct {
	Width  float64
	Height float64
}

func (r Rectangle) Kind() ShapeKind { return KindRectangle }

func (r Rectangle) Bounds(pos Vec2) AABB {
	half := Vec2{r.Width * 0.5, r.Height * 0.5}
	return AABB{Min: pos.Sub(half), Max: pos.Add(half)}
}

func (r Rectangle) MomentOfInertia(mass float64) float64 {
	return mass * (r.Width*r.Width + r.Height*r.Height) / 12.0
}

func (r Rectangle) Contains(pos, point Vec2) bool {
	return r.Bounds(pos).Contains(point)
}

func (r Rectangle) sealedShape() {}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec2 `yaml:"min" json:"min"`
	Max Vec2 `yaml:"max" json:"max"`
}

func NewAABB(minX, minY, maxX, maxY float64) AABB {
	return AABB{Min: Vec2{minX, minY}, Max: Vec2{maxX, maxY}}
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func (a AABB) Contains(p Vec2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

func (a AABB) Width() float64  { return a.Max.X - a.Min.X }
func (a AABB) Height() float64 { return a.Max.Y - a.Min.Y }

func (a AABB) Center() Vec2 {
	return Vec2{(a.Min.X + a.Max.X) * 0.5, (a.Min.Y + a.Max.Y) * 0.5}
}

func (a AABB) Expand(margin float64) AABB {
	m := Vec2{margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// shapeFrontalSize is the characteristic cross-section length used by the
// quadratic air-drag force: diameter for circles, mean side for
// rectangles.
func shapeFrontalSize(s Shape) float64 {
	switch sh := s.(type) {
	case Circle:
		return 2 * sh.Radius
	case Rectangle:
		return (sh.Width + sh.Height) * 0.5
	}
	return 0
}

// clamp01 keeps restitution in its contract range.
func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
