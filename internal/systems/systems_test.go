package systems

import (
	"testing"

	"runner3d/internal/ecs"
	"runner3d/internal/input"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type fakeControls struct {
	active map[input.Action]bool
	mouse  mgl32.Vec2
	scroll float32
}

func (f *fakeControls) IsActive(a input.Action) bool { return f.active[a] }
func (f *fakeControls) MouseDelta() mgl32.Vec2       { return f.mouse }
func (f *fakeControls) ScrollDelta() float32         { return f.scroll }

func vecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v, got %v", want, got)
}

func TestMovement(t *testing.T) {
	w := ecs.NewWorld()
	e := w.Add("moon", nil)
	ecs.AddComponent(e, &ecs.Movement{
		LinearVelocity:  mgl32.Vec3{1, 0, -2},
		AngularVelocity: mgl32.Vec3{0, 1, 0},
	})
	still := w.Add("rock", nil)

	Movement{}.Update(w, 0.5)
	Movement{}.Update(w, 0.5)

	vecNear(t, mgl32.Vec3{1, 0, -2}, e.Local.Position)
	vecNear(t, mgl32.Vec3{0, 1, 0}, e.Local.Rotation)
	assert.Equal(t, mgl32.Vec3{}, still.Local.Position)
}

func newFlyer(w *ecs.World) (*ecs.Entity, *ecs.Camera) {
	e := w.Add("camera", nil)
	cam := ecs.AddComponent(e, ecs.NewCamera())
	ecs.AddComponent(e, ecs.NewFreeCameraController())
	return e, cam
}

func TestFreeCameraMovesAlongView(t *testing.T) {
	w := ecs.NewWorld()
	e, _ := newFlyer(w)
	in := &fakeControls{active: map[input.Action]bool{input.ActionMoveForward: true}}
	s := NewFreeCameraController(in)

	s.Update(w, 1)
	vecNear(t, mgl32.Vec3{0, 0, -3}, e.Local.Position)

	in.active = map[input.Action]bool{input.ActionMoveRight: true, input.ActionSpeedUp: true}
	s.Update(w, 1)
	vecNear(t, mgl32.Vec3{15, 0, -3}, e.Local.Position)
}

func TestFreeCameraLooksOnlyWhileHeld(t *testing.T) {
	w := ecs.NewWorld()
	e, _ := newFlyer(w)
	in := &fakeControls{active: map[input.Action]bool{}, mouse: mgl32.Vec2{10, 0}}
	var locks []bool
	s := NewFreeCameraController(in)
	s.LockCursor = func(l bool) { locks = append(locks, l) }

	s.Update(w, 1)
	assert.Zero(t, e.Local.Rotation.Y())

	in.active[input.ActionLook] = true
	s.Update(w, 1)
	assert.InDelta(t, 2*math32.Pi-0.1, e.Local.Rotation.Y(), 1e-5, "yaw wraps to [0, 2π)")

	in.active[input.ActionLook] = false
	s.Update(w, 1)
	assert.Equal(t, []bool{true, false}, locks)
}

func TestFreeCameraClampsPitchAndFov(t *testing.T) {
	w := ecs.NewWorld()
	e, cam := newFlyer(w)
	in := &fakeControls{
		active: map[input.Action]bool{input.ActionLook: true},
		mouse:  mgl32.Vec2{0, -10000},
		scroll: 1000,
	}
	s := NewFreeCameraController(in)

	s.Update(w, 1)

	assert.InDelta(t, maxPitch, e.Local.Rotation.X(), 1e-6)
	assert.InDelta(t, minFov, cam.FovY, 1e-6)
}

func TestFreeCameraNeedsCameraAndController(t *testing.T) {
	w := ecs.NewWorld()
	e := w.Add("camera", nil)
	ecs.AddComponent(e, ecs.NewCamera())
	in := &fakeControls{active: map[input.Action]bool{input.ActionMoveForward: true}}

	NewFreeCameraController(in).Update(w, 1)

	assert.Equal(t, mgl32.Vec3{}, e.Local.Position)
}
