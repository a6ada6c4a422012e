package ecs

import "github.com/go-gl/mathgl/mgl32"

// Transform is an entity's placement relative to its parent. Rotation holds
// Euler angles in radians applied in yaw (Y), pitch (X), roll (Z) order.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// Identity returns a transform with unit scale.
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Mat4 returns translate × rotate × scale.
func (t Transform) Mat4() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DY(t.Rotation.Y()).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z()))
	return mgl32.Translate3D(t.Position.Elem()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(t.Scale.Elem()))
}
