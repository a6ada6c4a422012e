// Package overlay draws short lines of text over the finished frame.
package overlay

import (
	"fmt"
	"image"
	"slices"

	"runner3d/internal/assets"
	"runner3d/internal/gpu"
	"runner3d/internal/material"
	"runner3d/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	vertexShader   = "shaders/textured.vert"
	fragmentShader = "shaders/textured.frag"

	// margin from the top-left window corner, and padding around the text, in pixels
	margin  = 8
	padding = 4
)

// Text is a block of lines rasterized into a texture and drawn in the
// top-left corner of the window. The texture is rebuilt only when the lines
// change.
type Text struct {
	dev      gpu.Device
	cache    *gpu.StateCache
	face     font.Face
	quad     gpu.Mesh
	material *material.Material

	lines []string
	size  [2]int
}

// New builds the text overlay with the bundled Go Regular font at the given
// pixel size.
func New(loader *assets.Loader, pixels float64) (*Text, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: pixels, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}

	dev := loader.Device()
	t := &Text{dev: dev, cache: gpu.NewStateCache(dev), face: face}

	program, err := loader.Program(vertexShader, fragmentShader)
	if err != nil {
		t.Destroy()
		return nil, err
	}
	m := material.New(material.Textured)
	m.Shader = program
	m.Transparent = true
	m.Pipeline.Blending.Enabled = true
	m.Pipeline.DepthMask = false
	m.Sampler = dev.NewSampler(gpu.SamplerDesc{
		MinFilter: gpu.Nearest,
		MagFilter: gpu.Nearest,
		WrapS:     gpu.ClampToEdge,
		WrapT:     gpu.ClampToEdge,
	})
	t.material = m

	vertices, indices := mesh.Plane()
	if t.quad, err = dev.NewMesh(vertices, indices); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// Lines returns the lines currently shown.
func (t *Text) Lines() []string { return t.lines }

// SetLines replaces the shown text. Passing no lines hides the overlay.
func (t *Text) SetLines(lines ...string) error {
	if slices.Equal(lines, t.lines) {
		return nil
	}
	if t.material.Texture != nil {
		t.material.Texture.Delete()
		t.material.Texture = nil
	}
	t.lines = slices.Clone(lines)
	t.size = [2]int{}
	if len(lines) == 0 {
		return nil
	}

	img := Rasterize(t.face, lines)
	b := img.Bounds()
	assets.FlipRows(img)
	tex, err := t.dev.NewTexture2D(gpu.TextureDesc{Format: gpu.RGBA8, Width: b.Dx(), Height: b.Dy()}, img)
	if err != nil {
		t.lines = nil
		return fmt.Errorf("overlay texture: %w", err)
	}
	t.material.Texture = tex
	t.size = [2]int{b.Dx(), b.Dy()}
	return nil
}

// Draw renders the overlay into the currently bound framebuffer.
func (t *Text) Draw(windowSize [2]int) {
	if t.material.Texture == nil || windowSize[0] <= 0 || windowSize[1] <= 0 {
		return
	}
	// the renderer has touched the device since our last draw
	t.cache.Invalidate()
	t.material.Setup(t.cache)
	t.material.Shader.SetMat4("transform", placement(t.size, windowSize))
	t.quad.Draw()
}

// Destroy releases the GPU resources. It is safe to call more than once.
func (t *Text) Destroy() {
	if t.quad != nil {
		t.quad.Delete()
		t.quad = nil
	}
	if m := t.material; m != nil {
		if m.Texture != nil {
			m.Texture.Delete()
		}
		if m.Sampler != nil {
			m.Sampler.Delete()
		}
		if m.Shader != nil {
			m.Shader.Delete()
		}
		t.material = nil
	}
	if t.face != nil {
		_ = t.face.Close()
		t.face = nil
	}
	t.lines = nil
}

// placement maps the unit quad to a size[0] x size[1] pixel rectangle at the
// top-left corner of the window, in clip space.
func placement(size, window [2]int) mgl32.Mat4 {
	w, h := float32(window[0]), float32(window[1])
	sx, sy := float32(size[0])/w*2, float32(size[1])/h*2
	cx := (margin+float32(size[0])/2)/w*2 - 1
	cy := 1 - (margin+float32(size[1])/2)/h*2
	return mgl32.Translate3D(cx, cy, 0).Mul4(mgl32.Scale3D(sx, sy, 1))
}

// Rasterize draws lines in white on a transparent background, top row first.
func Rasterize(face font.Face, lines []string) *image.RGBA {
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}
	img := image.NewRGBA(image.Rect(0, 0, width+2*padding, len(lines)*lineHeight+2*padding))

	d := font.Drawer{Dst: img, Src: image.White, Face: face}
	for i, line := range lines {
		d.Dot = fixed.P(padding, padding+metrics.Ascent.Ceil()+i*lineHeight)
		d.DrawString(line)
	}
	return img
}
