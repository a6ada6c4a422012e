package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"runner3d/internal/config"
	"runner3d/internal/gpu"
	"runner3d/internal/gpu/gputest"
	"runner3d/internal/material"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, top, bottom color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetRGBA(x, 0, top)
		img.SetRGBA(x, 1, bottom)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"shaders/tinted.vert": {Data: []byte("vertex")},
		"shaders/tinted.frag": {Data: []byte("fragment")},
		"textures/sky.png":    {Data: encodePNG(t, red, blue)},
		"textures/bad.png":    {Data: []byte("not a png")},
	}
}

func TestShaderSource(t *testing.T) {
	l := NewLoader(testFS(t), gputest.NewDevice(1, 1))

	src, err := l.ShaderSource("shaders/tinted.vert")
	require.NoError(t, err)
	assert.Equal(t, "vertex", src)

	_, err = l.ShaderSource("shaders/missing.vert")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgram(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	l := NewLoader(testFS(t), dev)

	p, err := l.Program("shaders/tinted.vert", "shaders/tinted.frag")
	require.NoError(t, err)
	prog := p.(*gputest.Program)
	assert.Equal(t, "vertex", prog.VertexSource)
	assert.Equal(t, "fragment", prog.FragmentSource)

	dev.FailPrograms = true
	_, err = l.Program("shaders/tinted.vert", "shaders/tinted.frag")
	assert.ErrorContains(t, err, "shaders/tinted.vert")
}

func TestImageIsBottomUp(t *testing.T) {
	l := NewLoader(testFS(t), gputest.NewDevice(1, 1))

	img, err := l.Image("textures/sky.png")
	require.NoError(t, err)
	assert.Equal(t, blue, img.RGBAAt(0, 0), "first row is the bottom of the file")
	assert.Equal(t, red, img.RGBAAt(1, 1))

	_, err = l.Image("textures/bad.png")
	assert.ErrorContains(t, err, "decode")
	_, err = l.Image("textures/nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTexture(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	l := NewLoader(testFS(t), dev)

	tex, err := l.Texture("textures/sky.png", false)
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, gpu.RGBA8, tex.(*gputest.Texture).Desc.Format)
	assert.Equal(t, blue, tex.(*gputest.Texture).Pixels().RGBAAt(0, 0))
}

func TestMesh(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	l := NewLoader(testFS(t), dev)

	for _, name := range []string{MeshSphere, MeshPlane, MeshCube} {
		m, err := l.Mesh(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, m.(*gputest.Mesh).Indices, name)
	}

	_, err := l.Mesh("models/ship.obj")
	assert.ErrorContains(t, err, "unsupported")
	_, err = l.Mesh("models/ship.glb")
	assert.ErrorIs(t, err, ErrNotFound)
}

func sceneAssets() config.Assets {
	threshold := float32(0.5)
	return config.Assets{
		Shaders:  map[string]config.Shader{"tinted": {Vertex: "shaders/tinted.vert", Fragment: "shaders/tinted.frag"}},
		Textures: map[string]string{"sky": "textures/sky.png"},
		Samplers: map[string]gpu.SamplerDesc{"default": gpu.DefaultSamplerDesc()},
		Meshes:   map[string]string{"ball": MeshSphere},
		Materials: map[string]config.Material{
			"glass": {Type: "textured", Shader: "tinted", Transparent: true, Texture: "sky", Sampler: "default", AlphaThreshold: &threshold},
		},
	}
}

func TestLoadLibrary(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	lib, err := LoadLibrary(NewLoader(testFS(t), dev), sceneAssets())
	require.NoError(t, err)

	glass := lib.Material("glass")
	require.NotNil(t, glass)
	assert.Equal(t, material.Textured, glass.Kind)
	assert.True(t, glass.Transparent)
	assert.Same(t, lib.Shader("tinted"), glass.Shader)
	assert.Same(t, lib.Texture("sky"), glass.Texture)
	assert.Same(t, lib.Sampler("default"), glass.Sampler)
	assert.NotNil(t, lib.Mesh("ball"))
	assert.Equal(t, 4, dev.Live())

	lib.Destroy()
	assert.Zero(t, dev.Live())
	assert.Empty(t, dev.DoubleDeletes())
	assert.Nil(t, lib.Material("glass"))
}

func TestLoadLibraryReleasesOnError(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	cfg := sceneAssets()
	cfg.Meshes["broken"] = "models/missing.gltf"

	_, err := LoadLibrary(NewLoader(testFS(t), dev), cfg)
	require.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, `mesh "broken"`)
	assert.Zero(t, dev.Live())
}

func TestLoadLibraryUnknownShader(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	cfg := sceneAssets()
	cfg.Materials["bad"] = config.Material{Type: "tinted", Shader: "missing"}

	_, err := LoadLibrary(NewLoader(testFS(t), dev), cfg)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, dev.Live())
}
