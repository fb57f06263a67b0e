package impulse

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// sleepEnergyThreshold is the kinetic energy below which a body is put to
// sleep after integration.
const sleepEnergyThreshold = 1e-4

// Body is a simulated rigid object. Fields are exported for the consuming
// game layer to read back for rendering; mutation during a world step is
// reserved for the world.
type Body struct {
	ID  string
	Tag string

	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	// PrevPosition is the position before the most recent integration
	// step, kept for positional correction and render interpolation.
	PrevPosition Vec2

	Angle           float64
	AngularVelocity float64

	Mass       float64
	InvMass    float64
	Inertia    float64
	InvInertia float64

	Restitution float64
	Friction    float64
	// Drag is the quadratic air-drag coefficient used by the world's
	// global drag force. AngularDrag damps angular velocity during
	// integration.
	Drag        float64
	AngularDrag float64

	Shape Shape

	Static    bool
	Kinematic bool
	Sleeping  bool

	// Rendering passthrough, no physical effect.
	Material string
	Color    string

	// Per-step accumulators, cleared by Integrate.
	force  Vec2
	torque float64

	// Per-pass collision scratch, reset by the detector.
	Colliding     bool
	ContactNormal Vec2
	ContactDepth  float64
}

// Options configures a new body. Zero values fall back to the defaults
// noted per field. Restitution and Friction are optional so that an
// explicit zero (perfectly inelastic, frictionless) stays distinct from
// "unset"; build them with Coef.
type Options struct {
	Position Vec2
	Velocity Vec2

	Angle           float64
	AngularVelocity float64

	Mass        float64  // default 1, ignored for static bodies
	Restitution *float64 // default 0.5, clamped to [0,1]
	Friction    *float64 // default 0.3, clamped to >= 0
	Drag        float64
	AngularDrag float64

	Shape Shape // default Circle{Radius: 10}

	Static    bool
	Kinematic bool

	Material string
	Color    string
	Tag      string
}

// Coef wraps a coefficient value for the optional Options fields.
func Coef(v float64) *float64 { return &v }

// NewBody builds a body from opts, deriving inverse mass and moment of
// inertia. Static bodies and non-positive masses get zero inverse mass
// and zero inertia.
func NewBody(opts Options) *Body {
	shape := opts.Shape
	if shape == nil {
		shape = Circle{Radius: 10}
	}

	mass := opts.Mass
	if mass == 0 && !opts.Static {
		mass = 1
	}

	restitution := 0.5
	if opts.Restitution != nil {
		restitution = *opts.Restitution
	}
	friction := 0.3
	if opts.Friction != nil {
		friction = *opts.Friction
	}

	b := &Body{
		ID:              uuid.NewString(),
		Tag:             opts.Tag,
		Position:        opts.Position,
		Velocity:        opts.Velocity,
		PrevPosition:    opts.Position,
		Angle:           opts.Angle,
		AngularVelocity: opts.AngularVelocity,
		Mass:            mass,
		Restitution:     clamp01(restitution),
		Friction:        math.Max(0, friction),
		Drag:            math.Max(0, opts.Drag),
		AngularDrag:     math.Max(0, opts.AngularDrag),
		Shape:           shape,
		Static:          opts.Static,
		Kinematic:       opts.Kinematic,
		Material:        opts.Material,
		Color:           opts.Color,
	}
	b.recomputeMassData()
	return b
}

// recomputeMassData derives InvMass, Inertia and InvInertia from Mass,
// Shape and the Static flag.
func (b *Body) recomputeMassData() {
	if b.Static || b.Mass <= 0 {
		b.InvMass = 0
		b.Inertia = 0
		b.InvInertia = 0
		return
	}
	b.InvMass = 1.0 / b.Mass
	b.Inertia = b.Shape.MomentOfInertia(b.Mass)
	if b.Inertia > 0 {
		b.InvInertia = 1.0 / b.Inertia
	} else {
		b.InvInertia = 0
	}
}

// Wake clears the sleeping flag so the body resumes integration.
func (b *Body) Wake() {
	b.Sleeping = false
}

// Sleep zeroes velocities and marks the body sleeping.
func (b *Body) Sleep() {
	if b.Static {
		return
	}
	b.Sleeping = true
	b.Velocity = Vec2{}
	b.AngularVelocity = 0
	b.force = Vec2{}
	b.torque = 0
}

// ApplyForce accumulates a force through the center of mass for the next
// integration step. No-op on static bodies. Forces do not persist across
// steps; continuous forces must be re-applied every step.
func (b *Body) ApplyForce(f Vec2) {
	if b.Static {
		return
	}
	b.Wake()
	b.force.AddSelf(f)
}

// ApplyForceAt accumulates a force applied at a world-space point,
// producing torque from the offset to the center of mass.
func (b *Body) ApplyForceAt(f, point Vec2) {
	if b.Static {
		return
	}
	b.Wake()
	b.force.AddSelf(f)
	r := point.Sub(b.Position)
	b.torque += r.Cross(f)
}

// ApplyImpulse immediately changes velocity by impulse * InvMass.
func (b *Body) ApplyImpulse(impulse Vec2) {
	if b.Static || b.Kinematic {
		return
	}
	b.Wake()
	b.Velocity.AddSelf(impulse.Scale(b.InvMass))
}

// ApplyImpulseAt applies an impulse at a world-space point, also changing
// angular velocity by (r x impulse) * InvInertia.
func (b *Body) ApplyImpulseAt(impulse, point Vec2) {
	if b.Static || b.Kinematic {
		return
	}
	b.Wake()
	b.Velocity.AddSelf(impulse.Scale(b.InvMass))
	r := point.Sub(b.Position)
	b.AngularVelocity += r.Cross(impulse) * b.InvInertia
}

// NetForce returns the force accumulated so far this step.
func (b *Body) NetForce() Vec2 { return b.force }

// NetTorque returns the torque accumulated so far this step.
func (b *Body) NetTorque() float64 { return b.torque }

// Integrate advances position and angle one step with semi-implicit
// Euler: velocity from the accumulated force first, then position from
// the new velocity. Accumulators are cleared at the end of the step.
// Static and sleeping bodies are skipped.
func (b *Body) Integrate(dt float64) {
	if b.Static || b.Sleeping || dt <= 0 {
		return
	}

	b.PrevPosition = b.Position

	if b.Kinematic {
		// Kinematic bodies follow their velocity, immune to forces.
		b.Position.AddSelf(b.Velocity.Scale(dt))
		b.Angle += b.AngularVelocity * dt
		b.force = Vec2{}
		b.torque = 0
		return
	}

	b.Acceleration = b.force.Scale(b.InvMass)
	b.Velocity.AddSelf(b.Acceleration.Scale(dt))
	b.Position.AddSelf(b.Velocity.Scale(dt))

	angularAcceleration := b.torque * b.InvInertia
	b.AngularVelocity += angularAcceleration * dt
	if b.AngularDrag > 0 {
		b.AngularVelocity /= 1 + b.AngularDrag*dt
	}
	b.Angle += b.AngularVelocity * dt

	b.force = Vec2{}
	b.torque = 0

	if b.KineticEnergy() < sleepEnergyThreshold {
		b.Sleep()
	}
}

// KineticEnergy returns 1/2 m v^2 + 1/2 I w^2.
func (b *Body) KineticEnergy() float64 {
	linear := 0.5 * b.Mass * b.Velocity.LenSq()
	angular := 0.5 * b.Inertia * b.AngularVelocity * b.AngularVelocity
	return linear + angular
}

// effectiveInvMass is zero for bodies that collision response may not
// move: static and kinematic ones.
func (b *Body) effectiveInvMass() float64 {
	if b.Static || b.Kinematic {
		return 0
	}
	return b.InvMass
}

// ResolveCollision separates two overlapping bodies and applies the
// restitution and friction impulses for the given contact. The contact
// normal points from b toward other. Both bodies are woken.
func (b *Body) ResolveCollision(other *Body, contact Contact) {
	invA := b.effectiveInvMass()
	invB := other.effectiveInvMass()
	totalInv := invA + invB
	if totalInv == 0 {
		return
	}

	b.Wake()
	other.Wake()

	// Positional separation proportional to each inverse-mass share.
	if contact.Depth > 0 {
		separation := contact.Normal.Scale(contact.Depth / totalInv)
		b.Position.SubSelf(separation.Scale(invA))
		other.Position.AddSelf(separation.Scale(invB))
	}

	relVel := other.Velocity.Sub(b.Velocity)
	velAlongNormal := relVel.Dot(contact.Normal)
	if velAlongNormal > 0 {
		// Already separating.
		return
	}

	e := math.Min(b.Restitution, other.Restitution)
	j := -(1 + e) * velAlongNormal / totalInv
	impulse := contact.Normal.Scale(j)
	b.ApplyImpulseAt(impulse.Negate(), contact.Point)
	other.ApplyImpulseAt(impulse, contact.Point)

	b.applyFriction(other, contact, j)
}

// applyFriction applies a Coulomb-style friction impulse along the
// contact tangent, clamped by the normal impulse magnitude.
func (b *Body) applyFriction(other *Body, contact Contact, normalImpulse float64) {
	invA := b.effectiveInvMass()
	invB := other.effectiveInvMass()
	totalInv := invA + invB

	relVel := other.Velocity.Sub(b.Velocity)
	tangent := relVel.Sub(contact.Normal.Scale(relVel.Dot(contact.Normal)))
	if tangent.LenSq() < vecEpsilon*vecEpsilon {
		// Degenerate tangent, no sliding to oppose.
		return
	}
	tangent = tangent.Normalize()

	jt := -relVel.Dot(tangent) / totalInv
	mu := math.Sqrt(b.Friction * other.Friction)
	maxFriction := math.Abs(normalImpulse) * mu
	jt = mgl64.Clamp(jt, -maxFriction, maxFriction)

	frictionImpulse := tangent.Scale(jt)
	b.ApplyImpulseAt(frictionImpulse.Negate(), contact.Point)
	other.ApplyImpulseAt(frictionImpulse, contact.Point)
}

// Bounds returns the body's axis-aligned bounding box at its current
// position. Rotation is ignored for rectangles.
func (b *Body) Bounds() AABB {
	return b.Shape.Bounds(b.Position)
}

// Contains reports whether a world-space point lies inside the body.
func (b *Body) Contains(point Vec2) bool {
	return b.Shape.Contains(b.Position, point)
}

// resetContact clears the per-pass collision scratch state.
func (b *Body) resetContact() {
	b.Colliding = false
	b.ContactNormal = Vec2{}
	b.ContactDepth = 0
}
