package ecs

import (
	"runner3d/internal/gpu"
	"runner3d/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

type CameraType int

const (
	Perspective CameraType = iota
	Orthographic
)

// Camera projects the world as seen from its owner, looking down the
// owner's local -Z axis with +Y up.
type Camera struct {
	Base
	Type        CameraType
	FovY        float32 // radians
	Near        float32
	Far         float32
	OrthoHeight float32
}

func NewCamera() *Camera {
	return &Camera{
		Type:        Perspective,
		FovY:        mgl32.DegToRad(90),
		Near:        0.01,
		Far:         100,
		OrthoHeight: 1,
	}
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl32.Vec3 {
	return c.owner.LocalToWorld().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

// Forward returns the normalized viewing direction in world space.
func (c *Camera) Forward() mgl32.Vec3 {
	m := c.owner.LocalToWorld()
	eye := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	center := m.Mul4x1(mgl32.Vec4{0, 0, -1, 1}).Vec3()
	return center.Sub(eye).Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	m := c.owner.LocalToWorld()
	eye := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	center := m.Mul4x1(mgl32.Vec4{0, 0, -1, 1}).Vec3()
	up := m.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	return mgl32.LookAtV(eye, center, up)
}

// ProjectionMatrix returns the projection for a viewport of the given size.
func (c *Camera) ProjectionMatrix(size [2]int) mgl32.Mat4 {
	aspect := float32(1)
	if size[1] > 0 {
		aspect = float32(size[0]) / float32(size[1])
	}
	if c.Type == Orthographic {
		halfH := c.OrthoHeight / 2
		halfW := halfH * aspect
		return mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// MeshRenderer draws Mesh with Material at its owner's transform.
type MeshRenderer struct {
	Base
	Mesh     gpu.Mesh
	Material *material.Material
}

type LightType int

const (
	Directional LightType = iota
	Point
	Spot
)

func (t LightType) String() string {
	switch t {
	case Point:
		return "point"
	case Spot:
		return "spot"
	}
	return "directional"
}

// Light illuminates lit materials. Directional and spot lights shine along
// the owner's local -Z axis.
type Light struct {
	Base
	Type        LightType
	Diffuse     mgl32.Vec3
	Specular    mgl32.Vec3
	Attenuation mgl32.Vec3 // quadratic, linear, constant
	ConeAngles  mgl32.Vec2 // inner, outer; radians
}

func NewLight() *Light {
	return &Light{
		Type:        Directional,
		Diffuse:     mgl32.Vec3{1, 1, 1},
		Specular:    mgl32.Vec3{1, 1, 1},
		Attenuation: mgl32.Vec3{0, 0, 1},
		ConeAngles:  mgl32.Vec2{mgl32.DegToRad(15), mgl32.DegToRad(30)},
	}
}

// Direction returns the light direction in world space.
func (l *Light) Direction() mgl32.Vec3 {
	d := l.owner.LocalToWorld().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// Movement moves its owner at a constant rate. AngularVelocity is in
// radians per second.
type Movement struct {
	Base
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3
}

// FreeCameraController lets the user fly its owner around with the
// keyboard and mouse.
type FreeCameraController struct {
	Base
	RotationSensitivity float32 // radians per pixel
	FovSensitivity      float32 // radians per scroll step
	PositionSensitivity mgl32.Vec3
	SpeedupFactor       float32
}

func NewFreeCameraController() *FreeCameraController {
	return &FreeCameraController{
		RotationSensitivity: 0.01,
		FovSensitivity:      mgl32.DegToRad(0.3),
		PositionSensitivity: mgl32.Vec3{3, 3, 3},
		SpeedupFactor:       5,
	}
}
