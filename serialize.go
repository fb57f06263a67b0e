package impulse

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BodySnapshot is the flat serialized form of a body. Transient collision
// scratch state is not part of it.
type BodySnapshot struct {
	ID              string  `yaml:"id" json:"id"`
	Tag             string  `yaml:"tag,omitempty" json:"tag,omitempty"`
	Position        Vec2    `yaml:"position" json:"position"`
	Velocity        Vec2    `yaml:"velocity" json:"velocity"`
	Angle           float64 `yaml:"angle" json:"angle"`
	AngularVelocity float64 `yaml:"angularVelocity" json:"angularVelocity"`
	Mass            float64 `yaml:"mass" json:"mass"`
	Restitution     float64 `yaml:"restitution" json:"restitution"`
	Friction        float64 `yaml:"friction" json:"friction"`
	Drag            float64 `yaml:"drag" json:"drag"`
	AngularDrag     float64 `yaml:"angularDrag" json:"angularDrag"`
	Shape           string  `yaml:"shape" json:"shape"`
	Radius          float64 `yaml:"radius,omitempty" json:"radius,omitempty"`
	Width           float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Height          float64 `yaml:"height,omitempty" json:"height,omitempty"`
	Static          bool    `yaml:"static,omitempty" json:"static,omitempty"`
	Kinematic       bool    `yaml:"kinematic,omitempty" json:"kinematic,omitempty"`
	Material        string  `yaml:"material,omitempty" json:"material,omitempty"`
	Color           string  `yaml:"color,omitempty" json:"color,omitempty"`
}

// WorldSnapshot is the flat serialized form of a world.
type WorldSnapshot struct {
	Gravity           Vec2           `yaml:"gravity" json:"gravity"`
	AirDensity        float64        `yaml:"airDensity" json:"airDensity"`
	TimeScale         float64        `yaml:"timeScale" json:"timeScale"`
	TimeStep          float64        `yaml:"timeStep" json:"timeStep"`
	MaxSubSteps       int            `yaml:"maxSubSteps" json:"maxSubSteps"`
	Bounds            AABB           `yaml:"bounds" json:"bounds"`
	BoundsEnabled     bool           `yaml:"boundsEnabled" json:"boundsEnabled"`
	CollisionsEnabled bool           `yaml:"collisionsEnabled" json:"collisionsEnabled"`
	Bodies            []BodySnapshot `yaml:"bodies" json:"bodies"`
}

// Snapshot captures the body's persistent state.
func (b *Body) Snapshot() BodySnapshot {
	s := BodySnapshot{
		ID:              b.ID,
		Tag:             b.Tag,
		Position:        b.Position,
		Velocity:        b.Velocity,
		Angle:           b.Angle,
		AngularVelocity: b.AngularVelocity,
		Mass:            b.Mass,
		Restitution:     b.Restitution,
		Friction:        b.Friction,
		Drag:            b.Drag,
		AngularDrag:     b.AngularDrag,
		Shape:           b.Shape.Kind().String(),
		Static:          b.Static,
		Kinematic:       b.Kinematic,
		Material:        b.Material,
		Color:           b.Color,
	}
	switch sh := b.Shape.(type) {
	case Circle:
		s.Radius = sh.Radius
	case Rectangle:
		s.Width = sh.Width
		s.Height = sh.Height
	}
	return s
}

// BodyFromSnapshot rebuilds a body, preserving its id. Unknown shape
// names fail with ErrUnknownShape.
func BodyFromSnapshot(s BodySnapshot) (*Body, error) {
	kind, err := ParseShapeKind(s.Shape)
	if err != nil {
		return nil, err
	}

	var shape Shape
	switch kind {
	case KindCircle:
		shape = Circle{Radius: s.Radius}
	case KindRectangle:
		shape = Rectangle{Width: s.Width, Height: s.Height}
	}

	b := NewBody(Options{
		Position:        s.Position,
		Velocity:        s.Velocity,
		Angle:           s.Angle,
		AngularVelocity: s.AngularVelocity,
		Mass:            s.Mass,
		Restitution:     Coef(s.Restitution),
		Friction:        Coef(s.Friction),
		Drag:            s.Drag,
		AngularDrag:     s.AngularDrag,
		Shape:           shape,
		Static:          s.Static,
		Kinematic:       s.Kinematic,
		Material:        s.Material,
		Color:           s.Color,
		Tag:             s.Tag,
	})
	if s.ID != "" {
		b.ID = s.ID
	}
	return b, nil
}

// Snapshot captures the world configuration and every body.
func (w *World) Snapshot() WorldSnapshot {
	s := WorldSnapshot{
		Gravity:           w.gravity,
		AirDensity:        w.airDensity,
		TimeScale:         w.timeScale,
		TimeStep:          w.timeStep,
		MaxSubSteps:       w.maxSubSteps,
		Bounds:            w.bounds,
		BoundsEnabled:     w.boundsEnabled,
		CollisionsEnabled: w.collisionsEnabled,
		Bodies:            make([]BodySnapshot, 0, len(w.bodies)),
	}
	for _, b := range w.bodies {
		s.Bodies = append(s.Bodies, b.Snapshot())
	}
	return s
}

// WorldFromSnapshot rebuilds a world with equivalent simulation state.
func WorldFromSnapshot(s WorldSnapshot, log Logger) (*World, error) {
	w := NewWorld(WorldOptions{
		Gravity:           s.Gravity,
		AirDensity:        s.AirDensity,
		Bounds:            s.Bounds,
		BoundsEnabled:     s.BoundsEnabled,
		CollisionsEnabled: s.CollisionsEnabled,
		TimeStep:          s.TimeStep,
		MaxSubSteps:       s.MaxSubSteps,
		TimeScale:         s.TimeScale,
		Logger:            log,
	})
	for i, bs := range s.Bodies {
		b, err := BodyFromSnapshot(bs)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		w.AddBody(b)
	}
	return w, nil
}

// SaveFile writes the world snapshot as YAML.
func (w *World) SaveFile(path string) error {
	data, err := yaml.Marshal(w.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal world: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a YAML world snapshot and rebuilds the world.
func LoadFile(path string, log Logger) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s WorldSnapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return WorldFromSnapshot(s, log)
}
