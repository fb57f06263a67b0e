package impulse

// Constraint is the extension point solved once per fixed step, before
// integration. Concrete solvers live with the consuming layer; the engine
// ships a distance spring.
type Constraint interface {
	Solve(dt float64)
}

// DistanceConstraint is a damped spring holding two bodies near a rest
// length.
type DistanceConstraint struct {
	A          *Body
	B          *Body
	RestLength float64
	Stiffness  float64
	Damping    float64
}

func NewDistanceConstraint(a, b *Body, restLength, stiffness, damping float64) *DistanceConstraint {
	if restLength <= 0 {
		restLength = a.Position.Distance(b.Position)
	}
	return &DistanceConstraint{
		A:          a,
		B:          b,
		RestLength: restLength,
		Stiffness:  stiffness,
		Damping:    damping,
	}
}

// Solve applies equal and opposite spring forces along the axis between
// the two bodies. Coincident bodies are left alone. The spring is
// force-based: the computed force does not depend on the step size, which
// only enters when the accumulated force is integrated.
func (c *DistanceConstraint) Solve(_ float64) {
	axis := c.B.Position.Sub(c.A.Position)
	dist := axis.Len()
	if dist < vecEpsilon {
		return
	}
	dir := axis.Scale(1 / dist)

	stretch := dist - c.RestLength
	relVel := c.B.Velocity.Sub(c.A.Velocity).Dot(dir)
	magnitude := c.Stiffness*stretch + c.Damping*relVel

	force := dir.Scale(magnitude)
	c.A.ApplyForce(force)
	c.B.ApplyForce(force.Negate())
}
