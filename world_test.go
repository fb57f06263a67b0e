package impulse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietWorld builds a collision-enabled world with no gravity, no
// atmosphere and no bounds, the baseline for deterministic step tests.
func quietWorld() *World {
	return NewWorld(WorldOptions{CollisionsEnabled: true})
}

func TestWorldAddRemoveBody(t *testing.T) {
	w := quietWorld()

	added, removed := 0, 0
	w.On(EventBodyAdded, func(any) { added++ })
	w.On(EventBodyRemoved, func(any) { removed++ })

	b := NewBody(Options{Shape: Circle{Radius: 5}})
	w.AddBody(b)
	w.AddBody(b) // duplicate is a no-op
	assert.Equal(t, 1, w.BodyCount())
	assert.Equal(t, 1, added)

	got, err := w.BodyByID(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)

	w.RemoveBody(b)
	w.RemoveBody(b) // absent is a no-op
	assert.Equal(t, 0, w.BodyCount())
	assert.Equal(t, 1, removed)

	_, err = w.BodyByID(b.ID)
	assert.True(t, errors.Is(err, ErrBodyNotFound))
}

func TestWorldQueries(t *testing.T) {
	w := quietWorld()

	ball := NewBody(Options{Tag: "ball", Position: V(0, 0), Shape: Circle{Radius: 10}})
	crate := NewBody(Options{Tag: "crate", Position: V(100, 0), Shape: Rectangle{Width: 20, Height: 20}})
	w.AddBody(ball)
	w.AddBody(crate)

	assert.Equal(t, []*Body{ball}, w.BodiesByTag("ball"))
	assert.Empty(t, w.BodiesByTag("missing"))

	assert.Equal(t, []*Body{ball}, w.QueryPoint(V(3, 3)))
	assert.Empty(t, w.QueryPoint(V(50, 50)))

	region := AABB{Min: V(80, -20), Max: V(120, 20)}
	assert.Equal(t, []*Body{crate}, w.QueryRegion(region))

	hit, ok := w.Raycast(V(-50, 0), V(1, 0), 500)
	require.True(t, ok)
	assert.Same(t, ball, hit.Body)
}

func TestWorldGravityAccelerates(t *testing.T) {
	w := NewWorld(WorldOptions{Gravity: V(0, -9.81)})
	b := NewBody(Options{Mass: 2, Shape: Circle{Radius: 5}})
	w.AddBody(b)

	w.Step()

	// Gravity scales with mass, so acceleration does not.
	assert.InDelta(t, -9.81*w.TimeStep(), b.Velocity.Y, 1e-12)
}

func TestWorldUpdateAccumulatesFixedSteps(t *testing.T) {
	w := quietWorld()
	ts := w.TimeStep()

	alpha := w.Update(0.5 * ts)
	assert.Equal(t, uint64(0), w.StepCount())
	assert.InDelta(t, 0.5, alpha, 1e-9)

	alpha = w.Update(0.75 * ts)
	assert.Equal(t, uint64(1), w.StepCount())
	assert.InDelta(t, 0.25, alpha, 1e-9)
}

func TestWorldUpdateCapsSubSteps(t *testing.T) {
	w := quietWorld()

	// Ten simulated seconds in one call: only maxSubSteps run, the rest
	// of the backlog is dropped.
	alpha := w.Update(10)
	assert.Equal(t, uint64(DefaultMaxSubSteps), w.StepCount())
	assert.InDelta(t, 1.0, alpha, 1e-9)

	// The clamp left exactly one step of debt; the next frame pays it
	// plus its own step.
	steps := w.StepCount()
	w.Update(w.TimeStep())
	assert.Equal(t, steps+2, w.StepCount())
}

func TestWorldTimeScale(t *testing.T) {
	w := quietWorld()
	scaled := 0
	w.On(EventTimeScaleChanged, func(any) { scaled++ })

	w.SetTimeScale(2)
	assert.Equal(t, 1, scaled)

	// One real half-step at double speed is one full fixed step.
	w.Update(0.5 * w.TimeStep())
	assert.Equal(t, uint64(1), w.StepCount())

	w.SetTimeScale(0) // ignored
	assert.Equal(t, 2.0, w.TimeScale())
}

func TestWorldPauseResume(t *testing.T) {
	w := quietWorld()
	paused, resumed := 0, 0
	w.On(EventPaused, func(any) { paused++ })
	w.On(EventResumed, func(any) { resumed++ })

	w.Pause()
	w.Pause() // already paused, no second event
	w.Step()
	w.Update(1)
	assert.Equal(t, uint64(0), w.StepCount())
	assert.Equal(t, 1, paused)

	w.Resume()
	w.Resume()
	assert.Equal(t, 1, resumed)
	w.Step()
	assert.Equal(t, uint64(1), w.StepCount())
}

func TestWorldSetPlanet(t *testing.T) {
	w := quietWorld()
	var gravityEvents int
	w.On(EventGravityChanged, func(any) { gravityEvents++ })

	require.NoError(t, w.SetPlanet("Moon"))
	assert.Equal(t, V(0, -1.62), w.Gravity())
	assert.Equal(t, 0.0, w.AirDensity())
	assert.Equal(t, 1, gravityEvents)

	assert.Error(t, w.SetPlanet("krypton"))
}

func TestWorldGlobalForces(t *testing.T) {
	w := quietWorld()
	b := NewBody(Options{Mass: 2, Shape: Circle{Radius: 5}})
	w.AddBody(b)

	w.AddForce("wind", V(6, 0))
	w.Step()
	assert.InDelta(t, 3*w.TimeStep(), b.Velocity.X, 1e-12)

	// Re-registering the name replaces the force.
	w.AddForce("wind", V(-6, 0))
	w.Step()
	assert.InDelta(t, 0.0, b.Velocity.X, 1e-9)

	w.RemoveForce("wind")
	vx := b.Velocity.X
	w.Step()
	assert.InDelta(t, vx, b.Velocity.X, 1e-12)
}

func TestWorldForceFunc(t *testing.T) {
	w := quietWorld()
	b := NewBody(Options{Mass: 1, Position: V(0, 100), Shape: Circle{Radius: 5}})
	w.AddBody(b)

	// Altitude-proportional lift.
	w.AddForceFunc("lift", func(body *Body, _ *World) Vec2 {
		return V(0, body.Position.Y*0.1)
	})
	w.Step()
	assert.InDelta(t, 10*w.TimeStep(), b.Velocity.Y, 1e-9)
}

func TestWorldAirDragSlowsBody(t *testing.T) {
	w := NewWorld(WorldOptions{AirDensity: 2, CollisionsEnabled: true})
	b := NewBody(Options{Mass: 1, Velocity: V(10, 0), Drag: 0.01, Shape: Circle{Radius: 5}})
	w.AddBody(b)

	w.Step()

	// Drag force: 0.5 * rho * |v|^2 * cd * frontal = 0.5*2*100*0.01*10 = 10.
	assert.InDelta(t, 10-10*w.TimeStep(), b.Velocity.X, 1e-9)

	for i := 0; i < 600; i++ {
		w.Step()
	}
	assert.Greater(t, b.Velocity.X, 0.0, "drag never reverses motion")
	assert.Less(t, b.Velocity.X, 10.0)
}

func TestWorldBoundsEnforcement(t *testing.T) {
	w := NewWorld(WorldOptions{
		CollisionsEnabled: true,
		Bounds:            AABB{Min: V(0, 0), Max: V(800, 600)},
		BoundsEnabled:     true,
	})

	var sides []string
	w.On(EventBoundsCollision, func(payload any) {
		sides = append(sides, payload.(BoundsCollisionEvent).Side)
	})

	b := NewBody(Options{Position: V(850, 300), Velocity: V(20, 0), Restitution: Coef(0.5), Shape: Circle{Radius: 10}})
	w.AddBody(b)

	w.Step()

	// Clamped flush against the right edge, velocity flipped and damped.
	assert.InDelta(t, 790.0, b.Position.X, 1e-9)
	assert.InDelta(t, -10.0, b.Velocity.X, 1e-9)
	assert.Equal(t, []string{"right"}, sides)
}

func TestWorldBoundsCornerReportsBothSides(t *testing.T) {
	w := NewWorld(WorldOptions{
		CollisionsEnabled: true,
		Bounds:            AABB{Min: V(0, 0), Max: V(800, 600)},
		BoundsEnabled:     true,
	})

	var sides []string
	w.On(EventBoundsCollision, func(payload any) {
		sides = append(sides, payload.(BoundsCollisionEvent).Side)
	})

	// Clips the top-right corner: both axes are corrected in one step.
	b := NewBody(Options{Position: V(850, 650), Velocity: V(20, 30), Restitution: Coef(0.5), Shape: Circle{Radius: 10}})
	w.AddBody(b)

	w.Step()

	assert.Equal(t, []string{"right", "top"}, sides)
	assert.InDelta(t, 790.0, b.Position.X, 1e-9)
	assert.InDelta(t, 590.0, b.Position.Y, 1e-9)
	assert.InDelta(t, -10.0, b.Velocity.X, 1e-9)
	assert.InDelta(t, -15.0, b.Velocity.Y, 1e-9)
}

func TestWorldBoundsKeepBodiesInside(t *testing.T) {
	w := NewWorld(WorldOptions{
		Gravity:           V(0, -9.81),
		CollisionsEnabled: true,
		Bounds:            AABB{Min: V(0, 0), Max: V(800, 600)},
		BoundsEnabled:     true,
	})
	b := NewBody(Options{Position: V(400, 50), Restitution: Coef(0.6), Shape: Circle{Radius: 10}})
	w.AddBody(b)

	for i := 0; i < 3000; i++ {
		w.Step()
		bb := b.Bounds()
		require.GreaterOrEqual(t, bb.Min.Y, -1e-9, "step %d", i)
		require.LessOrEqual(t, bb.Max.Y, 600.0+1e-9, "step %d", i)
	}
}

func TestWorldBallBouncesOffStaticGround(t *testing.T) {
	w := NewWorld(WorldOptions{Gravity: V(0, -9.81), CollisionsEnabled: true})

	ground := NewBody(Options{Static: true, Position: V(100, -10), Restitution: Coef(1), Shape: Rectangle{Width: 400, Height: 20}})
	ball := NewBody(Options{Position: V(100, 500), Mass: 1, Restitution: Coef(0.8), Shape: Circle{Radius: 10}})
	w.AddBody(ground)
	w.AddBody(ball)

	collided := false
	w.On(EventCollision, func(any) { collided = true })

	var vyBefore float64
	for i := 0; i < 2000 && !collided; i++ {
		vyBefore = ball.Velocity.Y
		w.Step()
	}
	require.True(t, collided, "ball never reached the ground")

	// Impact speed is the recorded velocity plus one step of gravity;
	// restitution min(0.8, 1) scales the rebound.
	impact := -vyBefore + 9.81*w.TimeStep()
	assert.Greater(t, ball.Velocity.Y, 0.0, "ball moving up after the bounce")
	assert.InDelta(t, 0.8*impact, ball.Velocity.Y, 1e-6)
}

func TestWorldHeadOnElasticExchange(t *testing.T) {
	w := quietWorld()

	a := NewBody(Options{Position: V(0, 0), Velocity: V(50, 0), Mass: 1, Restitution: Coef(1), Friction: Coef(0), Shape: Circle{Radius: 10}})
	b := NewBody(Options{Position: V(100, 0), Mass: 1, Restitution: Coef(1), Friction: Coef(0), Shape: Circle{Radius: 10}})
	w.AddBody(a)
	w.AddBody(b)

	for i := 0; i < 150; i++ {
		w.Step()
	}

	// Momentum transferred wholesale to b.
	assert.InDelta(t, 0.0, a.Velocity.X, 1e-6)
	assert.InDelta(t, 50.0, b.Velocity.X, 1e-6)
	assert.Greater(t, b.Position.X, 140.0)
}

func TestWorldDistanceConstraintPullsBodiesTogether(t *testing.T) {
	w := quietWorld()

	anchor := NewBody(Options{Static: true, Position: V(0, 0), Shape: Circle{Radius: 2}})
	bob := NewBody(Options{Position: V(100, 0), Mass: 1, Shape: Circle{Radius: 5}})
	w.AddBody(anchor)
	w.AddBody(bob)

	spring := NewDistanceConstraint(anchor, bob, 50, 10, 1)
	w.AddConstraint(spring)

	w.Step()
	assert.Less(t, bob.Velocity.X, 0.0, "stretched spring pulls the bob back")

	startDist := 100.0
	for i := 0; i < 90; i++ {
		w.Step()
	}
	assert.Less(t, bob.Position.Distance(anchor.Position), startDist)

	w.RemoveConstraint(spring)
	v := bob.Velocity
	w.Step()
	assert.True(t, bob.Velocity.Equal(v), "no spring force after removal")
}

func TestWorldKinematicBodyIgnoresGravity(t *testing.T) {
	w := NewWorld(WorldOptions{Gravity: V(0, -9.81), CollisionsEnabled: true})
	platform := NewBody(Options{Kinematic: true, Velocity: V(10, 0), Shape: Rectangle{Width: 40, Height: 10}})
	w.AddBody(platform)

	for i := 0; i < 60; i++ {
		w.Step()
	}

	assert.InDelta(t, 10.0, platform.Position.X, 1e-9)
	assert.Equal(t, V(10, 0), platform.Velocity)
	assert.Equal(t, 0.0, platform.Position.Y)
}

func TestWorldStepEventCarriesClock(t *testing.T) {
	w := quietWorld()

	var last StepEvent
	w.On(EventStep, func(payload any) { last = payload.(StepEvent) })

	w.Step()
	w.Step()

	assert.Equal(t, uint64(2), last.Steps)
	assert.InDelta(t, 2*w.TimeStep(), last.Elapsed, 1e-12)
	assert.Equal(t, w.TimeStep(), last.Dt)
}

func TestWorldClear(t *testing.T) {
	w := quietWorld()
	cleared := 0
	w.On(EventWorldCleared, func(any) { cleared++ })

	w.AddBody(NewBody(Options{Shape: Circle{Radius: 5}}))
	w.AddForce("wind", V(1, 0))
	w.SetGravity(V(0, -3))

	w.Clear()

	assert.Equal(t, 0, w.BodyCount())
	assert.Equal(t, 1, cleared)
	assert.Equal(t, V(0, -3), w.Gravity(), "configuration survives a clear")
}

func TestWorldDisabledCollisionsSkipResolution(t *testing.T) {
	w := NewWorld(WorldOptions{CollisionsEnabled: false})

	a := NewBody(Options{Position: V(0, 0), Velocity: V(50, 0), Mass: 1, Shape: Circle{Radius: 10}})
	b := NewBody(Options{Position: V(30, 0), Mass: 1, Shape: Circle{Radius: 10}})
	w.AddBody(a)
	w.AddBody(b)

	for i := 0; i < 120; i++ {
		w.Step()
	}

	// a passes straight through b.
	assert.InDelta(t, 50.0, a.Velocity.X, 1e-9)
	assert.InDelta(t, 0.0, b.Velocity.X, 1e-9)
}
