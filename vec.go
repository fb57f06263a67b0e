package impulse

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDivideByZero is returned by Div and DivSelf for a zero divisor.
var ErrDivideByZero = errors.New("impulse: vector division by zero")

// vecEpsilon is the magnitude below which a vector is treated as zero.
const vecEpsilon = 1e-9

// Vec2 is a 2D vector. Every binary operation exists in a value-returning
// flavor on a value receiver and an in-place flavor (the *Self methods) on
// a pointer receiver.
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v *Vec2) AddSelf(o Vec2) *Vec2 {
	v.X += o.X
	v.Y += o.Y
	return v
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v *Vec2) SubSelf(o Vec2) *Vec2 {
	v.X -= o.X
	v.Y -= o.Y
	return v
}

// Scale multiplies the vector by a scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v *Vec2) ScaleSelf(s float64) *Vec2 {
	v.X *= s
	v.Y *= s
	return v
}

// Div divides the vector by a scalar. A zero divisor is a contract
// violation and fails with ErrDivideByZero.
func (v Vec2) Div(s float64) (Vec2, error) {
	if s == 0 {
		return Vec2{}, fmt.Errorf("div %v: %w", v, ErrDivideByZero)
	}
	return Vec2{v.X / s, v.Y / s}, nil
}

func (v *Vec2) DivSelf(s float64) error {
	if s == 0 {
		return fmt.Errorf("div %v: %w", *v, ErrDivideByZero)
	}
	v.X /= s
	v.Y /= s
	return nil
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the scalar 2D cross product x1*y2 - y1*x2, used for
// torque computation.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Len()
}

func (v Vec2) DistanceSq(o Vec2) float64 {
	return v.Sub(o).LenSq()
}

// Normalize returns the unit vector in the same direction. Vectors with
// magnitude below vecEpsilon normalize to the zero vector, never NaN.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < vecEpsilon {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

func (v *Vec2) NormalizeSelf() *Vec2 {
	*v = v.Normalize()
	return v
}

// Rotate returns the vector rotated by angle radians, counter-clockwise.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Reflect mirrors the vector across a surface with the given normal. The
// normal need not be pre-normalized.
func (v Vec2) Reflect(normal Vec2) Vec2 {
	n := normal.Normalize()
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Limit clamps the magnitude to max without changing direction.
func (v Vec2) Limit(max float64) Vec2 {
	if max <= 0 {
		return Vec2{}
	}
	lsq := v.LenSq()
	if lsq <= max*max {
		return v
	}
	return v.Normalize().Scale(max)
}

func (v *Vec2) LimitSelf(max float64) *Vec2 {
	*v = v.Limit(max)
	return v
}

func (v Vec2) Negate() Vec2 {
	return Vec2{-v.X, -v.Y}
}

func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	t = mgl64.Clamp(t, 0, 1)
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Equal compares component-wise within vecEpsilon.
func (v Vec2) Equal(o Vec2) bool {
	return mgl64.FloatEqualThreshold(v.X, o.X, vecEpsilon) &&
		mgl64.FloatEqualThreshold(v.Y, o.Y, vecEpsilon)
}

// Mgl converts to a mathgl vector for interop with mgl64 helpers.
func (v Vec2) Mgl() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

func FromMgl(m mgl64.Vec2) Vec2 {
	return Vec2{m.X(), m.Y()}
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
