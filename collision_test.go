package impulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollideCircles(t *testing.T) {
	a := NewBody(Options{Position: V(0, 0), Shape: Circle{Radius: 10}})
	b := NewBody(Options{Position: V(15, 0), Shape: Circle{Radius: 10}})

	contact, ok := collide(a, b)
	require.True(t, ok)
	assert.True(t, contact.Normal.Equal(V(1, 0)), "normal points from a toward b")
	assert.InDelta(t, 5.0, contact.Depth, 1e-12)

	// Touching-but-not-overlapping is not a collision.
	b.Position = V(20, 0)
	_, ok = collide(a, b)
	assert.False(t, ok)
}

func TestCollideCirclesCoincidentCenters(t *testing.T) {
	a := NewBody(Options{Position: V(5, 5), Shape: Circle{Radius: 10}})
	b := NewBody(Options{Position: V(5, 5), Shape: Circle{Radius: 4}})

	contact, ok := collide(a, b)
	require.True(t, ok)
	// Arbitrary fixed normal for the degenerate case, never NaN.
	assert.Equal(t, V(1, 0), contact.Normal)
	assert.InDelta(t, 14.0, contact.Depth, 1e-12)
}

func TestCollideCircleRect(t *testing.T) {
	circle := NewBody(Options{Position: V(0, 14), Shape: Circle{Radius: 10}})
	rect := NewBody(Options{Position: V(0, 0), Shape: Rectangle{Width: 40, Height: 10}})

	contact, ok := collide(circle, rect)
	require.True(t, ok)
	// Circle above the box: normal points down, from circle toward box.
	assert.True(t, contact.Normal.Equal(V(0, -1)), "got %v", contact.Normal)
	assert.InDelta(t, 1.0, contact.Depth, 1e-12)
	assert.True(t, contact.Point.Equal(V(0, 5)))
}

func TestCollideCircleRectCenterInside(t *testing.T) {
	circle := NewBody(Options{Position: V(18, 0), Shape: Circle{Radius: 3}})
	rect := NewBody(Options{Position: V(0, 0), Shape: Rectangle{Width: 40, Height: 40}})

	contact, ok := collide(circle, rect)
	require.True(t, ok)
	// Closest escape is the right edge (2 units away).
	assert.True(t, contact.Normal.Equal(V(-1, 0)), "got %v", contact.Normal)
	assert.InDelta(t, 5.0, contact.Depth, 1e-12)
}

func TestCollideRectCircleSwapsAndNegates(t *testing.T) {
	rect := NewBody(Options{Position: V(0, 0), Shape: Rectangle{Width: 40, Height: 10}})
	circle := NewBody(Options{Position: V(0, 14), Shape: Circle{Radius: 10}})

	contact, ok := collide(rect, circle)
	require.True(t, ok)
	// First body is the rectangle now, so the normal points up.
	assert.True(t, contact.Normal.Equal(V(0, 1)), "got %v", contact.Normal)
	assert.InDelta(t, 1.0, contact.Depth, 1e-12)
}

func TestCollideRectsMinimumTranslationAxis(t *testing.T) {
	a := NewBody(Options{Position: V(0, 0), Shape: Rectangle{Width: 20, Height: 20}})
	b := NewBody(Options{Position: V(18, 5), Shape: Rectangle{Width: 20, Height: 20}})

	contact, ok := collide(a, b)
	require.True(t, ok)
	// X overlap (2) is smaller than Y overlap (15): separate along x.
	assert.True(t, contact.Normal.Equal(V(1, 0)))
	assert.InDelta(t, 2.0, contact.Depth, 1e-12)

	// Flip relative position, the sign follows.
	b.Position = V(-18, 5)
	contact, ok = collide(a, b)
	require.True(t, ok)
	assert.True(t, contact.Normal.Equal(V(-1, 0)))
}

func TestDetectorBroadPhasePrunesAndDeduplicates(t *testing.T) {
	detector := NewDetector()

	a := NewBody(Options{Position: V(0, 0), Shape: Circle{Radius: 10}})
	b := NewBody(Options{Position: V(15, 0), Shape: Circle{Radius: 10}})
	c := NewBody(Options{Position: V(1000, 1000), Shape: Circle{Radius: 10}})

	collisions := detector.Detect([]*Body{a, b, c})
	require.Len(t, collisions, 1, "one unordered pair, visited once")
	assert.Same(t, a, collisions[0].A)
	assert.Same(t, b, collisions[0].B)
}

func TestDetectorSkipsStaticPairs(t *testing.T) {
	detector := NewDetector()
	a := NewBody(Options{Static: true, Position: V(0, 0), Shape: Rectangle{Width: 20, Height: 20}})
	b := NewBody(Options{Static: true, Position: V(5, 0), Shape: Rectangle{Width: 20, Height: 20}})

	assert.Empty(t, detector.Detect([]*Body{a, b}))
}

func TestDetectorSetsAndResetsScratchState(t *testing.T) {
	detector := NewDetector()
	a := NewBody(Options{Position: V(0, 0), Shape: Circle{Radius: 10}})
	b := NewBody(Options{Position: V(15, 0), Shape: Circle{Radius: 10}})

	detector.Detect([]*Body{a, b})
	require.True(t, a.Colliding)
	require.True(t, b.Colliding)
	assert.True(t, a.ContactNormal.Equal(V(1, 0)))
	assert.True(t, b.ContactNormal.Equal(V(-1, 0)), "scratch normal flipped for the second body")

	// Separate them; the next pass clears the scratch state.
	b.Position = V(100, 100)
	detector.Detect([]*Body{a, b})
	assert.False(t, a.Colliding)
	assert.False(t, b.Colliding)
	assert.Equal(t, 0.0, a.ContactDepth)
}
