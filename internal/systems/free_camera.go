package systems

import (
	"runner3d/internal/ecs"
	"runner3d/internal/input"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Controls is the input state the free camera reads.
type Controls interface {
	IsActive(action input.Action) bool
	MouseDelta() mgl32.Vec2
	ScrollDelta() float32
}

const (
	maxPitch = math32.Pi / 2 * 0.99
	minFov   = math32.Pi * 0.01
	maxFov   = math32.Pi * 0.99
)

// FreeCameraController flies the first entity that has both a camera and a
// FreeCameraController component. The view rotates while the look action
// (right mouse button) is held.
type FreeCameraController struct {
	controls Controls

	// LockCursor, when set, is called as the look action starts and stops.
	LockCursor func(locked bool)
	locked     bool
}

func NewFreeCameraController(controls Controls) *FreeCameraController {
	return &FreeCameraController{controls: controls}
}

func (s *FreeCameraController) Update(world *ecs.World, dt float32) {
	var (
		camera     *ecs.Camera
		controller *ecs.FreeCameraController
	)
	for _, e := range world.Entities() {
		c, ok := ecs.Get[*ecs.Camera](e)
		if !ok {
			continue
		}
		fc, ok := ecs.Get[*ecs.FreeCameraController](e)
		if !ok {
			continue
		}
		camera, controller = c, fc
		break
	}
	if controller == nil {
		return
	}
	e := controller.Owner()
	in := s.controls

	look := in.IsActive(input.ActionLook)
	if look != s.locked {
		s.locked = look
		if s.LockCursor != nil {
			s.LockCursor(look)
		}
	}

	rot := &e.Local.Rotation
	if look {
		delta := in.MouseDelta()
		rot[0] -= delta.Y() * controller.RotationSensitivity
		rot[1] -= delta.X() * controller.RotationSensitivity
	}
	rot[0] = mgl32.Clamp(rot[0], -maxPitch, maxPitch)
	rot[1] = wrapAngle(rot[1])

	if scroll := in.ScrollDelta(); scroll != 0 {
		camera.FovY = mgl32.Clamp(camera.FovY-scroll*controller.FovSensitivity, minFov, maxFov)
	}

	m := e.Local.Mat4()
	front := m.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	up := m.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	right := m.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()

	speed := controller.PositionSensitivity
	if in.IsActive(input.ActionSpeedUp) {
		speed = speed.Mul(controller.SpeedupFactor)
	}

	pos := e.Local.Position
	if in.IsActive(input.ActionMoveForward) {
		pos = pos.Add(front.Mul(dt * speed.Z()))
	}
	if in.IsActive(input.ActionMoveBackward) {
		pos = pos.Sub(front.Mul(dt * speed.Z()))
	}
	if in.IsActive(input.ActionMoveUp) {
		pos = pos.Add(up.Mul(dt * speed.Y()))
	}
	if in.IsActive(input.ActionMoveDown) {
		pos = pos.Sub(up.Mul(dt * speed.Y()))
	}
	if in.IsActive(input.ActionMoveRight) {
		pos = pos.Add(right.Mul(dt * speed.X()))
	}
	if in.IsActive(input.ActionMoveLeft) {
		pos = pos.Sub(right.Mul(dt * speed.X()))
	}
	e.Local.Position = pos
}

// Exit releases the cursor if the controller locked it.
func (s *FreeCameraController) Exit() {
	if s.locked && s.LockCursor != nil {
		s.LockCursor(false)
	}
	s.locked = false
}

// wrapAngle keeps a to [0, 2π) so it does not grow without bound.
func wrapAngle(a float32) float32 {
	a = math32.Mod(a, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a
}
