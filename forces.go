package impulse

// ForceFunc computes a per-body force each step, from the body's current
// state and the owning world.
type ForceFunc func(b *Body, w *World) Vec2

// globalForce is either a constant vector or a position/velocity-
// dependent function, applied to every dynamic body each step.
type globalForce struct {
	name     string
	constant Vec2
	fn       ForceFunc
}

func (f globalForce) value(b *Body, w *World) Vec2 {
	if f.fn != nil {
		return f.fn(b, w)
	}
	return f.constant
}

// AddForce registers a named constant force applied to every dynamic,
// awake body each step. Re-registering a name replaces the force.
func (w *World) AddForce(name string, force Vec2) {
	w.removeForce(name)
	w.forces = append(w.forces, globalForce{name: name, constant: force})
}

// AddForceFunc registers a named per-body force function.
func (w *World) AddForceFunc(name string, fn ForceFunc) {
	if fn == nil {
		return
	}
	w.removeForce(name)
	w.forces = append(w.forces, globalForce{name: name, fn: fn})
}

// RemoveForce unregisters a named global force. Unknown names are a
// no-op.
func (w *World) RemoveForce(name string) {
	w.removeForce(name)
}

func (w *World) removeForce(name string) {
	for i, f := range w.forces {
		if f.name == name {
			w.forces = append(w.forces[:i:i], w.forces[i+1:]...)
			return
		}
	}
}
