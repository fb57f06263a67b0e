package impulse

// Event names emitted by the world.
const (
	EventBodyAdded        = "bodyAdded"
	EventBodyRemoved      = "bodyRemoved"
	EventStep             = "step"
	EventCollision        = "collision"
	EventBoundsCollision  = "boundsCollision"
	EventGravityChanged   = "gravityChanged"
	EventTimeScaleChanged = "timeScaleChanged"
	EventBoundsChanged    = "boundsChanged"
	EventWorldCleared     = "worldCleared"
	EventPaused           = "paused"
	EventResumed          = "resumed"
)

// Event payloads.
type (
	// BodyEvent accompanies bodyAdded and bodyRemoved.
	BodyEvent struct {
		Body *Body
	}

	// StepEvent accompanies step, after a fixed step completes.
	StepEvent struct {
		Dt      float64
		Elapsed float64
		Steps   uint64
	}

	// CollisionEvent accompanies collision, after the pair is resolved.
	CollisionEvent struct {
		A       *Body
		B       *Body
		Contact Contact
	}

	// BoundsCollisionEvent accompanies boundsCollision. Side is one of
	// "left", "right", "bottom", "top".
	BoundsCollisionEvent struct {
		Body *Body
		Side string
	}

	// GravityEvent accompanies gravityChanged.
	GravityEvent struct {
		Gravity Vec2
	}

	// TimeScaleEvent accompanies timeScaleChanged.
	TimeScaleEvent struct {
		TimeScale float64
	}

	// BoundsEvent accompanies boundsChanged.
	BoundsEvent struct {
		Bounds  AABB
		Enabled bool
	}
)

// Handler receives an event payload. Payload types are documented per
// event above.
type Handler func(payload any)

type subscription struct {
	id int
	fn Handler
}

// EventBus is a synchronous, same-goroutine fan-out of named events. A
// panicking handler is recovered and logged; the remaining handlers for
// the event still run.
type EventBus struct {
	log      Logger
	nextID   int
	handlers map[string][]subscription
}

func NewEventBus(log Logger) *EventBus {
	if log == nil {
		log = NewNopLogger()
	}
	return &EventBus{
		log:      log,
		handlers: make(map[string][]subscription),
	}
}

// On registers a handler for the named event and returns a subscription
// id for Off.
func (bus *EventBus) On(event string, fn Handler) int {
	bus.nextID++
	id := bus.nextID
	bus.handlers[event] = append(bus.handlers[event], subscription{id: id, fn: fn})
	return id
}

// Off removes the handler with the given subscription id. Unknown ids are
// a no-op.
func (bus *EventBus) Off(event string, id int) {
	subs := bus.handlers[event]
	for i, s := range subs {
		if s.id == id {
			bus.handlers[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit invokes every handler registered for the event, in registration
// order. Handler failures are isolated: a panic is recovered and logged
// without aborting the remaining handlers.
func (bus *EventBus) Emit(event string, payload any) {
	subs := bus.handlers[event]
	if len(subs) == 0 {
		return
	}
	// Snapshot so handlers can subscribe/unsubscribe during emission.
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)

	for _, s := range snapshot {
		bus.dispatch(event, s, payload)
	}
}

func (bus *EventBus) dispatch(event string, s subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			bus.log.Errorf("event %q handler %d panicked: %v", event, s.id, r)
		}
	}()
	s.fn(payload)
}
