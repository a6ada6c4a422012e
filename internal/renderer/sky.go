package renderer

import (
	"fmt"

	"runner3d/internal/assets"
	"runner3d/internal/gpu"
	"runner3d/internal/material"
	"runner3d/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	texturedVertexShader   = "shaders/textured.vert"
	texturedFragmentShader = "shaders/textured.frag"
)

// alwaysBehind replaces clip z with clip w so every fragment lands on the
// far plane (ndc z = 1).
var alwaysBehind = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0, 0,
	0, 0, 1, 1,
}

type sky struct {
	sphere   gpu.Mesh
	program  gpu.Program
	texture  gpu.Texture
	sampler  gpu.Sampler
	material *material.Material
}

func newSky(loader *assets.Loader, image string) (*sky, error) {
	s := &sky{}
	if err := s.init(loader, image); err != nil {
		s.destroy()
		return nil, err
	}
	return s, nil
}

func (s *sky) init(loader *assets.Loader, image string) error {
	dev := loader.Device()
	vertices, indices := mesh.Sphere([2]int{16, 16})
	var err error
	if s.sphere, err = dev.NewMesh(vertices, indices); err != nil {
		return fmt.Errorf("sphere: %w", err)
	}
	if s.program, err = loader.Program(texturedVertexShader, texturedFragmentShader); err != nil {
		return err
	}
	if s.texture, err = loader.Texture(image, false); err != nil {
		return err
	}
	s.sampler = dev.NewSampler(gpu.SamplerDesc{
		MinFilter: gpu.Linear,
		MagFilter: gpu.Linear,
		WrapS:     gpu.Repeat,
		WrapT:     gpu.ClampToEdge,
	})

	m := material.New(material.Textured)
	m.Shader = s.program
	m.Texture = s.texture
	m.Sampler = s.sampler
	m.AlphaThreshold = 1
	// the camera sits inside the sphere
	m.Pipeline.DepthTest.Enabled = true
	m.Pipeline.DepthTest.Func = gpu.LessOrEqual
	m.Pipeline.FaceCulling.Enabled = true
	m.Pipeline.FaceCulling.CulledFace = gpu.Front
	s.material = m
	return nil
}

func (s *sky) draw(cache *gpu.StateCache, vp mgl32.Mat4, eye mgl32.Vec3) {
	s.material.Setup(cache)
	model := mgl32.Translate3D(eye.Elem())
	s.program.SetMat4("transform", alwaysBehind.Mul4(vp).Mul4(model))
	s.sphere.Draw()
}

func (s *sky) destroy() {
	if s.sphere != nil {
		s.sphere.Delete()
	}
	if s.program != nil {
		s.program.Delete()
	}
	if s.texture != nil {
		s.texture.Delete()
	}
	if s.sampler != nil {
		s.sampler.Delete()
	}
	*s = sky{}
}
