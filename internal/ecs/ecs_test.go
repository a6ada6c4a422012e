package ecs

import (
	"testing"

	"runner3d/internal/config"
	"runner3d/internal/gpu"
	"runner3d/internal/gpu/gputest"
	"runner3d/internal/material"
	"runner3d/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "want %v, got %v", want, got)
}

func TestTransformMat4(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.Vec3{0, mgl32.DegToRad(90), 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	p := tr.Mat4().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	// scale to (2,0,0), yaw 90 degrees to (0,0,-2), then translate
	vecNear(t, mgl32.Vec3{1, 2, 1}, p)

	assert.Equal(t, mgl32.Ident4(), Identity().Mat4())
}

func TestLocalToWorldComposesParents(t *testing.T) {
	w := NewWorld()
	root := w.Add("root", nil)
	root.Local.Position = mgl32.Vec3{10, 0, 0}
	child := w.Add("child", root)
	child.Local.Position = mgl32.Vec3{0, 5, 0}
	grandchild := w.Add("grandchild", child)
	grandchild.Local.Position = mgl32.Vec3{0, 0, -1}

	vecNear(t, mgl32.Vec3{10, 5, -1}, grandchild.Position())
}

func TestGetReturnsFirstComponentOfType(t *testing.T) {
	w := NewWorld()
	e := w.Add("e", nil)

	_, ok := Get[*Camera](e)
	assert.False(t, ok)

	first := AddComponent(e, NewCamera())
	AddComponent(e, NewCamera())
	AddComponent(e, &Movement{})

	cam, ok := Get[*Camera](e)
	require.True(t, ok)
	assert.Same(t, first, cam)
	assert.Same(t, e, cam.Owner())
}

func TestCameraLooksDownNegativeZ(t *testing.T) {
	w := NewWorld()
	e := w.Add("camera", nil)
	e.Local.Position = mgl32.Vec3{0, 1, 0}
	cam := AddComponent(e, NewCamera())

	vecNear(t, mgl32.Vec3{0, 0, -1}, cam.Forward())
	vecNear(t, mgl32.Vec3{0, 1, 0}, cam.Eye())

	view := cam.ViewMatrix()
	p := view.Mul4x1(mgl32.Vec4{0, 1, -5, 1}).Vec3()
	vecNear(t, mgl32.Vec3{0, 0, -5}, p)

	e.Local.Rotation = mgl32.Vec3{0, mgl32.DegToRad(90), 0}
	vecNear(t, mgl32.Vec3{-1, 0, 0}, cam.Forward())
}

func TestCameraProjection(t *testing.T) {
	w := NewWorld()
	cam := AddComponent(w.Add("camera", nil), NewCamera())
	cam.Near, cam.Far = 1, 10

	clip := cam.ProjectionMatrix([2]int{200, 100}).Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	assert.InDelta(t, 1.0, clip.Z()/clip.W(), 1e-5, "far plane maps to ndc z=1")

	cam.Type = Orthographic
	cam.OrthoHeight = 2
	p := cam.ProjectionMatrix([2]int{200, 100}).Mul4x1(mgl32.Vec4{2, 1, -5, 1})
	assert.InDelta(t, 1.0, p.X(), 1e-5)
	assert.InDelta(t, 1.0, p.Y(), 1e-5)
}

func TestDeleteMarkedRemovesDescendants(t *testing.T) {
	w := NewWorld()
	a := w.Add("a", nil)
	b := w.Add("b", a)
	c := w.Add("c", nil)
	w.Add("d", b)

	w.MarkForRemoval(b)
	w.DeleteMarked()

	require.Equal(t, []*Entity{a, c}, w.Entities())
	assert.Nil(t, b.World())

	w.Clear()
	assert.Zero(t, w.Len())
}

type testLibrary struct {
	meshes    map[string]gpu.Mesh
	materials map[string]*material.Material
}

func (l testLibrary) Mesh(name string) gpu.Mesh               { return l.meshes[name] }
func (l testLibrary) Material(name string) *material.Material { return l.materials[name] }

const scene = `
world:
  - name: camera
    position: [0, 0, 10]
    components:
      - type: Camera
        fovY: 60
      - type: Free Camera Controller
  - name: moon
    rotation: [0, 90, 0]
    components:
      - type: Mesh Renderer
        mesh: sphere
        material: moon
      - type: Movement
        angularVelocity: [0, 45, 0]
    children:
      - name: sun
        scale: [2, 2, 2]
        components:
          - type: Light
            lightType: spot
            coneAngles: [10, 20]
`

func byName(w *World, name string) *Entity {
	for _, e := range w.Entities() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func TestDeserialize(t *testing.T) {
	cfg, err := config.Parse(".yaml", []byte(scene))
	require.NoError(t, err)

	dev := gputest.NewDevice(4, 4)
	v, i := mesh.Sphere([2]int{4, 4})
	sphere, err := dev.NewMesh(v, i)
	require.NoError(t, err)
	moon := material.New(material.Tinted)
	lib := testLibrary{
		meshes:    map[string]gpu.Mesh{"sphere": sphere},
		materials: map[string]*material.Material{"moon": moon},
	}

	w := NewWorld()
	require.NoError(t, w.Deserialize(cfg.World, nil, lib))
	require.Equal(t, 3, w.Len())

	cam, ok := Get[*Camera](byName(w, "camera"))
	require.True(t, ok)
	assert.InDelta(t, mgl32.DegToRad(60), cam.FovY, 1e-6)
	_, ok = Get[*FreeCameraController](byName(w, "camera"))
	assert.True(t, ok)

	m := byName(w, "moon")
	r, ok := Get[*MeshRenderer](m)
	require.True(t, ok)
	assert.Same(t, moon, r.Material)
	assert.InDelta(t, mgl32.DegToRad(90), m.Local.Rotation.Y(), 1e-6)
	mv, _ := Get[*Movement](m)
	assert.InDelta(t, mgl32.DegToRad(45), mv.AngularVelocity.Y(), 1e-6)

	sun := byName(w, "sun")
	assert.Same(t, m, sun.Parent)
	light, ok := Get[*Light](sun)
	require.True(t, ok)
	assert.Equal(t, Spot, light.Type)
	assert.InDelta(t, mgl32.DegToRad(20), light.ConeAngles.Y(), 1e-6)
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Component
	}{
		{"unknown type", config.Component{Type: "Collision"}},
		{"missing mesh", config.Component{Type: "Mesh Renderer", Mesh: "nope", Material: "moon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			err := w.Deserialize([]config.Entity{{Name: "x", Components: []config.Component{tt.cfg}}}, nil, testLibrary{})
			assert.ErrorContains(t, err, `entity "x"`)
		})
	}
}
