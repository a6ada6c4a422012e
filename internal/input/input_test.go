package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestKeyEdges(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyEnter, glfw.Press)
	assert.True(t, im.JustPressed(ActionConfirm))
	assert.True(t, im.IsActive(ActionConfirm))

	im.PostUpdate()
	im.HandleKeyEvent(glfw.KeyEnter, glfw.Repeat)
	assert.False(t, im.JustPressed(ActionConfirm), "repeat is not a new press")
	assert.True(t, im.IsActive(ActionConfirm))

	im.HandleKeyEvent(glfw.KeyEnter, glfw.Release)
	assert.True(t, im.JustReleased(ActionConfirm))
	assert.False(t, im.IsActive(ActionConfirm))
}

func TestMultipleKeysForOneAction(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	assert.True(t, im.IsActive(ActionMoveForward))
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	assert.True(t, im.IsActive(ActionMoveForward))

	im.UnbindKey(glfw.KeyW)
	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	assert.True(t, im.IsActive(ActionMoveForward), "unbound key events are ignored")
}

func TestMouseLookButton(t *testing.T) {
	im := NewInputManager()

	im.HandleMouseButtonEvent(glfw.MouseButtonRight, glfw.Press)
	assert.True(t, im.IsActive(ActionLook))
	im.HandleMouseButtonEvent(glfw.MouseButtonRight, glfw.Release)
	assert.False(t, im.IsActive(ActionLook))
}

func TestCursorAndScrollDeltas(t *testing.T) {
	im := NewInputManager()

	im.HandleCursorPos(100, 100)
	assert.Equal(t, mgl32.Vec2{}, im.MouseDelta(), "first position sets the origin")

	im.HandleCursorPos(110, 95)
	im.HandleCursorPos(112, 90)
	im.HandleScroll(1)
	im.HandleScroll(-3)
	assert.Equal(t, mgl32.Vec2{12, -10}, im.MouseDelta())
	assert.Equal(t, float32(-2), im.ScrollDelta())

	im.PostUpdate()
	assert.Equal(t, mgl32.Vec2{}, im.MouseDelta())
	assert.Zero(t, im.ScrollDelta())
}

func TestOutOfRangeActions(t *testing.T) {
	im := NewInputManager()
	assert.False(t, im.IsActive(ActionCount))
	assert.False(t, im.JustPressed(-1))
	im.BindKey(glfw.KeyZ, ActionCount)
	im.HandleKeyEvent(glfw.KeyZ, glfw.Press)
}
