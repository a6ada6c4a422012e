package ecs

import "github.com/go-gl/mathgl/mgl32"

// Component is data attached to an entity.
type Component interface {
	Owner() *Entity
	setOwner(e *Entity)
}

// Base is embedded by every component to track its owner.
type Base struct {
	owner *Entity
}

func (b *Base) Owner() *Entity { return b.owner }

func (b *Base) setOwner(e *Entity) { b.owner = e }

// Entity is a node of the scene graph.
type Entity struct {
	Name   string
	Parent *Entity
	Local  Transform

	world      *World
	components []Component
}

// World returns the world the entity belongs to.
func (e *Entity) World() *World { return e.world }

// Components returns the entity's components in the order they were added.
func (e *Entity) Components() []Component { return e.components }

// LocalToWorld composes the local transforms from the root down to e.
func (e *Entity) LocalToWorld() mgl32.Mat4 {
	m := e.Local.Mat4()
	for p := e.Parent; p != nil; p = p.Parent {
		m = p.Local.Mat4().Mul4(m)
	}
	return m
}

// Position returns the entity's origin in world space.
func (e *Entity) Position() mgl32.Vec3 {
	return e.LocalToWorld().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

// AddComponent attaches c to e and returns it.
func AddComponent[T Component](e *Entity, c T) T {
	c.setOwner(e)
	e.components = append(e.components, c)
	return c
}

// Get returns the first component of e that is a T.
func Get[T any](e *Entity) (T, bool) {
	for _, c := range e.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
