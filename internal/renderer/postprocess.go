package renderer

import (
	"fmt"

	"runner3d/internal/assets"
	"runner3d/internal/gpu"
	"runner3d/internal/material"
)

const fullscreenVertexShader = "shaders/fullscreen.vert"

// postProcess is the offscreen target the scene is drawn into and the
// material that resolves it onto the default framebuffer.
type postProcess struct {
	framebuffer gpu.Framebuffer
	color       gpu.Texture
	depth       gpu.Texture
	vertexArray gpu.VertexArray
	program     gpu.Program
	sampler     gpu.Sampler
	material    *material.Material
}

func newPostProcess(loader *assets.Loader, size [2]int, fragmentShader string) (*postProcess, error) {
	p := &postProcess{}
	if err := p.init(loader, size, fragmentShader); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *postProcess) init(loader *assets.Loader, size [2]int, fragmentShader string) error {
	dev := loader.Device()
	var err error
	if p.color, err = dev.NewTexture2D(gpu.TextureDesc{Format: gpu.RGBA8, Width: size[0], Height: size[1]}, nil); err != nil {
		return fmt.Errorf("color target: %w", err)
	}
	if p.depth, err = dev.NewTexture2D(gpu.TextureDesc{Format: gpu.Depth24, Width: size[0], Height: size[1]}, nil); err != nil {
		return fmt.Errorf("depth target: %w", err)
	}
	if p.framebuffer, err = dev.NewFramebuffer(p.color, p.depth); err != nil {
		return err
	}
	p.vertexArray = dev.NewVertexArray()
	if p.program, err = loader.Program(fullscreenVertexShader, fragmentShader); err != nil {
		return err
	}
	p.sampler = dev.NewSampler(gpu.SamplerDesc{
		MinFilter: gpu.Linear,
		MagFilter: gpu.Linear,
		WrapS:     gpu.ClampToEdge,
		WrapT:     gpu.ClampToEdge,
	})

	m := material.New(material.Textured)
	m.Shader = p.program
	m.Texture = p.color
	m.Sampler = p.sampler
	m.Pipeline.DepthMask = false
	p.material = m
	return nil
}

// resolve draws the offscreen color onto the default framebuffer with a
// single fullscreen triangle.
func (p *postProcess) resolve(dev gpu.Device, cache *gpu.StateCache) {
	dev.BindFramebuffer(nil)
	p.material.Setup(cache)
	dev.DrawArrays(p.vertexArray, 0, 3)
}

func (p *postProcess) destroy() {
	if p.framebuffer != nil {
		p.framebuffer.Delete()
	}
	if p.color != nil {
		p.color.Delete()
	}
	if p.depth != nil {
		p.depth.Delete()
	}
	if p.vertexArray != nil {
		p.vertexArray.Delete()
	}
	if p.program != nil {
		p.program.Delete()
	}
	if p.sampler != nil {
		p.sampler.Delete()
	}
	*p = postProcess{}
}
