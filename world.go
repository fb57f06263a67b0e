package impulse

import (
	"errors"
	"fmt"
	"math"
)

// ErrBodyNotFound is returned by BodyByID for an unknown id.
var ErrBodyNotFound = errors.New("impulse: body not found")

const (
	// DefaultTimeStep is the fixed simulation step.
	DefaultTimeStep = 1.0 / 60.0
	// DefaultMaxSubSteps bounds the fixed steps run per Update call, the
	// guard against unbounded catch-up work after a long stall.
	DefaultMaxSubSteps = 5
)

// WorldOptions configures a new world. Build it with DefaultWorldOptions
// and override fields as needed.
type WorldOptions struct {
	Gravity           Vec2
	AirDensity        float64
	Bounds            AABB
	BoundsEnabled     bool
	CollisionsEnabled bool
	TimeStep          float64
	MaxSubSteps       int
	TimeScale         float64
	Logger            Logger
}

// DefaultWorldOptions returns Earth gravity and atmosphere, collisions
// on, bounds off, a 1/60 s step and unit time scale.
func DefaultWorldOptions() WorldOptions {
	return WorldOptions{
		Gravity:           EarthGravity(),
		AirDensity:        EarthAirDensity,
		CollisionsEnabled: true,
		TimeStep:          DefaultTimeStep,
		MaxSubSteps:       DefaultMaxSubSteps,
		TimeScale:         1,
	}
}

// World owns the body, constraint and global-force collections and runs
// the fixed-timestep simulation loop. A body belongs to at most one
// world. All mutation happens synchronously inside Update on the caller's
// goroutine; add and remove bodies between frames only.
type World struct {
	bodies      []*Body
	byID        map[string]*Body
	constraints []Constraint
	forces      []globalForce

	gravity    Vec2
	airDensity float64

	bounds        AABB
	boundsEnabled bool

	collisionsEnabled bool

	timeStep    float64
	maxSubSteps int
	timeScale   float64
	accumulator float64
	elapsed     float64
	stepCount   uint64
	paused      bool

	detector *Detector
	bus      *EventBus
	log      Logger
}

func NewWorld(opts WorldOptions) *World {
	if opts.TimeStep <= 0 {
		opts.TimeStep = DefaultTimeStep
	}
	if opts.MaxSubSteps <= 0 {
		opts.MaxSubSteps = DefaultMaxSubSteps
	}
	if opts.TimeScale <= 0 {
		opts.TimeScale = 1
	}
	log := opts.Logger
	if log == nil {
		log = NewNopLogger()
	}

	return &World{
		byID:              make(map[string]*Body),
		gravity:           opts.Gravity,
		airDensity:        opts.AirDensity,
		bounds:            opts.Bounds,
		boundsEnabled:     opts.BoundsEnabled,
		collisionsEnabled: opts.CollisionsEnabled,
		timeStep:          opts.TimeStep,
		maxSubSteps:       opts.MaxSubSteps,
		timeScale:         opts.TimeScale,
		detector:          NewDetector(),
		bus:               NewEventBus(log),
		log:               log,
	}
}

// On subscribes a handler to a named world event and returns a
// subscription id for Off.
func (w *World) On(event string, fn Handler) int {
	return w.bus.On(event, fn)
}

// Off removes a previously registered handler.
func (w *World) Off(event string, id int) {
	w.bus.Off(event, id)
}

// AddBody inserts a body into the world. Adding a body already present is
// a no-op.
func (w *World) AddBody(b *Body) {
	if b == nil {
		return
	}
	if _, ok := w.byID[b.ID]; ok {
		return
	}
	w.byID[b.ID] = b
	w.bodies = append(w.bodies, b)
	w.bus.Emit(EventBodyAdded, BodyEvent{Body: b})
}

// RemoveBody removes a body. Removing an absent body is a no-op.
func (w *World) RemoveBody(b *Body) {
	if b == nil {
		return
	}
	if _, ok := w.byID[b.ID]; !ok {
		w.log.Debugf("remove: body %s not in world", b.ID)
		return
	}
	delete(w.byID, b.ID)
	for i, existing := range w.bodies {
		if existing == b {
			w.bodies = append(w.bodies[:i:i], w.bodies[i+1:]...)
			break
		}
	}
	w.bus.Emit(EventBodyRemoved, BodyEvent{Body: b})
}

// Bodies returns the live body slice. Callers must not mutate it during a
// step.
func (w *World) Bodies() []*Body { return w.bodies }

func (w *World) BodyCount() int { return len(w.bodies) }

// BodyByID resolves a body by its id, or ErrBodyNotFound.
func (w *World) BodyByID(id string) (*Body, error) {
	b, ok := w.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	return b, nil
}

// BodiesByTag returns every body carrying the tag.
func (w *World) BodiesByTag(tag string) []*Body {
	var out []*Body
	for _, b := range w.bodies {
		if b.Tag == tag {
			out = append(out, b)
		}
	}
	return out
}

// QueryPoint returns every body containing the point. Linear scan.
func (w *World) QueryPoint(p Vec2) []*Body {
	var out []*Body
	for _, b := range w.bodies {
		if b.Contains(p) {
			out = append(out, b)
		}
	}
	return out
}

// QueryRegion returns every body whose AABB overlaps the region. Linear
// scan, not grid-accelerated.
func (w *World) QueryRegion(region AABB) []*Body {
	var out []*Body
	for _, b := range w.bodies {
		if b.Bounds().Overlaps(region) {
			out = append(out, b)
		}
	}
	return out
}

// Raycast casts against all bodies in the world.
func (w *World) Raycast(origin, dir Vec2, maxDistance float64) (RayHit, bool) {
	return Raycast(origin, dir, maxDistance, w.bodies)
}

func (w *World) AddConstraint(c Constraint) {
	if c == nil {
		return
	}
	w.constraints = append(w.constraints, c)
}

func (w *World) RemoveConstraint(c Constraint) {
	for i, existing := range w.constraints {
		if existing == c {
			w.constraints = append(w.constraints[:i:i], w.constraints[i+1:]...)
			return
		}
	}
}

func (w *World) Gravity() Vec2 { return w.gravity }

// SetGravity replaces the gravity vector and notifies subscribers.
func (w *World) SetGravity(g Vec2) {
	w.gravity = g
	w.bus.Emit(EventGravityChanged, GravityEvent{Gravity: g})
}

// SetPlanet applies a preset environment's gravity and air density.
func (w *World) SetPlanet(name string) error {
	p, ok := PlanetByName(name)
	if !ok {
		return fmt.Errorf("impulse: unknown planet %q", name)
	}
	w.airDensity = p.AirDensity
	w.SetGravity(p.Gravity)
	return nil
}

func (w *World) AirDensity() float64         { return w.airDensity }
func (w *World) SetAirDensity(d float64)     { w.airDensity = math.Max(0, d) }
func (w *World) TimeScale() float64          { return w.timeScale }
func (w *World) TimeStep() float64           { return w.timeStep }
func (w *World) Bounds() AABB                { return w.bounds }
func (w *World) BoundsEnabled() bool         { return w.boundsEnabled }
func (w *World) CollisionsEnabled() bool     { return w.collisionsEnabled }
func (w *World) SetCollisionsEnabled(e bool) { w.collisionsEnabled = e }
func (w *World) Paused() bool                { return w.paused }
func (w *World) Elapsed() float64            { return w.elapsed }
func (w *World) StepCount() uint64           { return w.stepCount }

// SetTimeScale changes the simulation speed factor and notifies
// subscribers. Non-positive values are ignored.
func (w *World) SetTimeScale(scale float64) {
	if scale <= 0 {
		return
	}
	w.timeScale = scale
	w.bus.Emit(EventTimeScaleChanged, TimeScaleEvent{TimeScale: scale})
}

// SetBounds replaces the world bounds rectangle and enables enforcement.
func (w *World) SetBounds(bounds AABB) {
	w.bounds = bounds
	w.boundsEnabled = true
	w.bus.Emit(EventBoundsChanged, BoundsEvent{Bounds: bounds, Enabled: true})
}

// DisableBounds turns bounds enforcement off.
func (w *World) DisableBounds() {
	w.boundsEnabled = false
	w.bus.Emit(EventBoundsChanged, BoundsEvent{Bounds: w.bounds, Enabled: false})
}

func (w *World) Pause() {
	if w.paused {
		return
	}
	w.paused = true
	w.bus.Emit(EventPaused, nil)
}

func (w *World) Resume() {
	if !w.paused {
		return
	}
	w.paused = false
	w.bus.Emit(EventResumed, nil)
}

// Clear removes all bodies, constraints and global forces, keeping the
// world configuration.
func (w *World) Clear() {
	w.bodies = nil
	w.byID = make(map[string]*Body)
	w.constraints = nil
	w.forces = nil
	w.accumulator = 0
	w.bus.Emit(EventWorldCleared, nil)
}

// Update advances the simulation by deltaTime seconds of real time,
// scaled by the time-scale factor and consumed in fixed steps. At most
// maxSubSteps fixed steps run per call; excess accumulated time beyond
// one step is dropped. Returns the leftover accumulator as a fraction of
// the step, for render interpolation.
func (w *World) Update(deltaTime float64) float64 {
	if w.paused || deltaTime <= 0 {
		return w.accumulator / w.timeStep
	}

	w.accumulator += deltaTime * w.timeScale

	steps := 0
	for w.accumulator >= w.timeStep && steps < w.maxSubSteps {
		w.step(w.timeStep)
		w.accumulator -= w.timeStep
		steps++
	}
	if w.accumulator > w.timeStep {
		// Spiral-of-death guard: drop time we cannot catch up on.
		w.accumulator = w.timeStep
	}
	return w.accumulator / w.timeStep
}

// Step runs exactly one fixed step, ignoring the accumulator. Useful for
// deterministic tests and lock-step callers.
func (w *World) Step() {
	if w.paused {
		return
	}
	w.step(w.timeStep)
}

func (w *World) step(dt float64) {
	w.applyGlobalForces()
	w.solveConstraints(dt)
	w.integrateBodies(dt)
	if w.collisionsEnabled {
		w.handleCollisions()
	}
	if w.boundsEnabled {
		w.enforceBounds()
	}

	w.stepCount++
	w.elapsed += dt
	w.bus.Emit(EventStep, StepEvent{Dt: dt, Elapsed: w.elapsed, Steps: w.stepCount})
}

// applyGlobalForces applies gravity, the registered global forces and
// quadratic air drag to every dynamic, awake body.
func (w *World) applyGlobalForces() {
	for _, b := range w.bodies {
		if b.Static || b.Kinematic || b.Sleeping {
			continue
		}

		b.ApplyForce(w.gravity.Scale(b.Mass))

		for _, f := range w.forces {
			b.ApplyForce(f.value(b, w))
		}

		if w.airDensity > 0 && b.Drag > 0 {
			speedSq := b.Velocity.LenSq()
			if speedSq > 0 {
				magnitude := 0.5 * w.airDensity * speedSq * b.Drag * shapeFrontalSize(b.Shape)
				b.ApplyForce(b.Velocity.Normalize().Scale(-magnitude))
			}
		}
	}
}

func (w *World) solveConstraints(dt float64) {
	for _, c := range w.constraints {
		c.Solve(dt)
	}
}

func (w *World) integrateBodies(dt float64) {
	for _, b := range w.bodies {
		b.Integrate(dt)
	}
}

func (w *World) handleCollisions() {
	for _, col := range w.detector.Detect(w.bodies) {
		col.A.ResolveCollision(col.B, col.Contact)
		w.bus.Emit(EventCollision, CollisionEvent{A: col.A, B: col.B, Contact: col.Contact})
	}
}

// enforceBounds clamps every non-static body back inside the world
// rectangle and bounces the offending velocity component, scaled by the
// body's restitution. A body clipping a corner violates both axes; one
// boundsCollision event is emitted per corrected side.
func (w *World) enforceBounds() {
	for _, b := range w.bodies {
		if b.Static {
			continue
		}

		bb := b.Bounds()
		var corrected []string

		if bb.Min.X < w.bounds.Min.X {
			b.Position.X += w.bounds.Min.X - bb.Min.X
			if b.Velocity.X < 0 {
				b.Velocity.X = -b.Velocity.X * b.Restitution
			}
			corrected = append(corrected, "left")
		} else if bb.Max.X > w.bounds.Max.X {
			b.Position.X -= bb.Max.X - w.bounds.Max.X
			if b.Velocity.X > 0 {
				b.Velocity.X = -b.Velocity.X * b.Restitution
			}
			corrected = append(corrected, "right")
		}

		if bb.Min.Y < w.bounds.Min.Y {
			b.Position.Y += w.bounds.Min.Y - bb.Min.Y
			if b.Velocity.Y < 0 {
				b.Velocity.Y = -b.Velocity.Y * b.Restitution
			}
			corrected = append(corrected, "bottom")
		} else if bb.Max.Y > w.bounds.Max.Y {
			b.Position.Y -= bb.Max.Y - w.bounds.Max.Y
			if b.Velocity.Y > 0 {
				b.Velocity.Y = -b.Velocity.Y * b.Restitution
			}
			corrected = append(corrected, "top")
		}

		if len(corrected) > 0 {
			b.Wake()
			for _, side := range corrected {
				w.bus.Emit(EventBoundsCollision, BoundsCollisionEvent{Body: b, Side: side})
			}
		}
	}
}
