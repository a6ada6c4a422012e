package ecs

import (
	"fmt"

	"runner3d/internal/config"
	"runner3d/internal/gpu"
	"runner3d/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Library resolves the mesh and material names used by mesh renderers.
// Unknown names resolve to nil.
type Library interface {
	Mesh(name string) gpu.Mesh
	Material(name string) *material.Material
}

// World owns the entities of a scene. Entities are kept in insertion order.
type World struct {
	entities []*Entity
	marked   map[*Entity]struct{}
}

func NewWorld() *World {
	return &World{marked: make(map[*Entity]struct{})}
}

// Add creates an entity with an identity transform under parent (nil for a
// root entity).
func (w *World) Add(name string, parent *Entity) *Entity {
	e := &Entity{
		Name:   name,
		Parent: parent,
		Local:  Identity(),
		world:  w,
	}
	w.entities = append(w.entities, e)
	return e
}

// Entities returns every entity in insertion order. The slice must not be
// modified.
func (w *World) Entities() []*Entity { return w.entities }

// Len returns the number of entities.
func (w *World) Len() int { return len(w.entities) }

// MarkForRemoval schedules e for deletion by the next DeleteMarked call.
func (w *World) MarkForRemoval(e *Entity) {
	if e != nil && e.world == w {
		w.marked[e] = struct{}{}
	}
}

// DeleteMarked removes the marked entities and all of their descendants.
func (w *World) DeleteMarked() {
	if len(w.marked) == 0 {
		return
	}
	kept := w.entities[:0]
	for _, e := range w.entities {
		if w.removed(e) {
			e.world = nil
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(w.entities); i++ {
		w.entities[i] = nil
	}
	w.entities = kept
	clear(w.marked)
}

func (w *World) removed(e *Entity) bool {
	for p := e; p != nil; p = p.Parent {
		if _, ok := w.marked[p]; ok {
			return true
		}
	}
	return false
}

// Clear removes every entity.
func (w *World) Clear() {
	for _, e := range w.entities {
		e.world = nil
	}
	w.entities = nil
	clear(w.marked)
}

// Deserialize adds the described entities, and recursively their children,
// under parent.
func (w *World) Deserialize(entities []config.Entity, parent *Entity, lib Library) error {
	for _, ec := range entities {
		e := w.Add(ec.Name, parent)
		if ec.Position != nil {
			e.Local.Position = *ec.Position
		}
		if ec.Rotation != nil {
			r := *ec.Rotation
			e.Local.Rotation = mgl32.Vec3{mgl32.DegToRad(r[0]), mgl32.DegToRad(r[1]), mgl32.DegToRad(r[2])}
		}
		if ec.Scale != nil {
			e.Local.Scale = *ec.Scale
		}
		for _, cc := range ec.Components {
			if err := deserializeComponent(e, cc, lib); err != nil {
				return fmt.Errorf("entity %q: %w", ec.Name, err)
			}
		}
		if err := w.Deserialize(ec.Children, e, lib); err != nil {
			return err
		}
	}
	return nil
}

func deserializeComponent(e *Entity, cfg config.Component, lib Library) error {
	switch cfg.Type {
	case "Camera", "camera":
		c := NewCamera()
		if cfg.CameraType == "orthographic" {
			c.Type = Orthographic
		}
		setFloat(&c.Near, cfg.Near)
		setFloat(&c.Far, cfg.Far)
		setFloat(&c.OrthoHeight, cfg.OrthoHeight)
		if cfg.FovY != nil {
			c.FovY = mgl32.DegToRad(*cfg.FovY)
		}
		AddComponent(e, c)
	case "Mesh Renderer", "mesh-renderer", "meshRenderer":
		if lib == nil {
			return fmt.Errorf("mesh renderer: no asset library")
		}
		r := &MeshRenderer{Mesh: lib.Mesh(cfg.Mesh), Material: lib.Material(cfg.Material)}
		if r.Mesh == nil {
			return fmt.Errorf("mesh renderer: unknown mesh %q", cfg.Mesh)
		}
		if r.Material == nil {
			return fmt.Errorf("mesh renderer: unknown material %q", cfg.Material)
		}
		AddComponent(e, r)
	case "Light", "light":
		l := NewLight()
		switch cfg.LightType {
		case "point":
			l.Type = Point
		case "spot":
			l.Type = Spot
		}
		setVec3(&l.Diffuse, cfg.Diffuse)
		setVec3(&l.Specular, cfg.SpecularRGB)
		setVec3(&l.Attenuation, cfg.Attenuation)
		if cfg.ConeAngles != nil {
			a := *cfg.ConeAngles
			l.ConeAngles = mgl32.Vec2{mgl32.DegToRad(a[0]), mgl32.DegToRad(a[1])}
		}
		AddComponent(e, l)
	case "Movement", "movement":
		m := &Movement{}
		setVec3(&m.LinearVelocity, cfg.LinearVelocity)
		if cfg.AngularVelocity != nil {
			a := *cfg.AngularVelocity
			m.AngularVelocity = mgl32.Vec3{mgl32.DegToRad(a[0]), mgl32.DegToRad(a[1]), mgl32.DegToRad(a[2])}
		}
		AddComponent(e, m)
	case "Free Camera Controller", "free-camera-controller", "freeCameraController":
		f := NewFreeCameraController()
		setFloat(&f.RotationSensitivity, cfg.RotationSensitivity)
		if cfg.FovSensitivity != nil {
			f.FovSensitivity = mgl32.DegToRad(*cfg.FovSensitivity)
		}
		setVec3(&f.PositionSensitivity, cfg.PositionSensitivity)
		setFloat(&f.SpeedupFactor, cfg.SpeedupFactor)
		AddComponent(e, f)
	default:
		return fmt.Errorf("unknown component type %q", cfg.Type)
	}
	return nil
}

func setFloat(dst *float32, v *float32) {
	if v != nil {
		*dst = *v
	}
}

func setVec3(dst *mgl32.Vec3, v *mgl32.Vec3) {
	if v != nil {
		*dst = *v
	}
}
