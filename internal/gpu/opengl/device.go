// Package opengl implements gpu.Device on top of OpenGL 4.1 core.
// All calls must happen on the thread that owns the GL context.
package opengl

import (
	"image"

	"runner3d/internal/gpu"
	"runner3d/internal/logger"
	"runner3d/internal/mesh"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Device issues OpenGL calls. It must be created after gl.Init.
type Device struct{}

func NewDevice() *Device {
	logger.Log.Info("opengl device",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return &Device{}
}

// CheckError drains the GL error queue, logging every error under label.
// It reports whether any error was pending.
func CheckError(label string) bool {
	found := false
	for {
		err := gl.GetError()
		if err == gl.NO_ERROR {
			return found
		}
		found = true
		logger.Log.Warn("gl error", zap.String("at", label), zap.Uint32("code", err))
	}
}

func (d *Device) SetDepthTest(enabled bool) { toggle(gl.DEPTH_TEST, enabled) }

func (d *Device) SetDepthFunc(f gpu.CompareFunc) { gl.DepthFunc(compareEnum(f)) }

func (d *Device) SetCulling(enabled bool) { toggle(gl.CULL_FACE, enabled) }

func (d *Device) SetCullFace(f gpu.Face) { gl.CullFace(faceEnum(f)) }

func (d *Device) SetFrontFace(w gpu.Winding) {
	if w == gpu.CW {
		gl.FrontFace(gl.CW)
		return
	}
	gl.FrontFace(gl.CCW)
}

func (d *Device) SetBlending(enabled bool) { toggle(gl.BLEND, enabled) }

func (d *Device) SetBlendEquation(e gpu.BlendEquation) { gl.BlendEquation(equationEnum(e)) }

func (d *Device) SetBlendFunc(src, dst gpu.BlendFactor) {
	gl.BlendFunc(factorEnum(src), factorEnum(dst))
}

func (d *Device) SetBlendColor(c mgl32.Vec4) { gl.BlendColor(c[0], c[1], c[2], c[3]) }

func (d *Device) SetColorMask(m [4]bool) { gl.ColorMask(m[0], m[1], m[2], m[3]) }

func (d *Device) SetDepthMask(enabled bool) { gl.DepthMask(enabled) }

func (d *Device) SetViewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *Device) SetClearColor(c mgl32.Vec4) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (d *Device) SetClearDepth(v float32) { gl.ClearDepthf(v) }

func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	if fb == nil {
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
		return
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.(*Framebuffer).ID)
}

func (d *Device) DrawArrays(vao gpu.VertexArray, first, count int32) {
	gl.BindVertexArray(vao.(*VertexArray).ID)
	gl.DrawArrays(gl.TRIANGLES, first, count)
	gl.BindVertexArray(0)
}

// ReadPixels reads the current read framebuffer. Rows are returned top-down.
func (d *Device) ReadPixels(x, y, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	stride := img.Stride
	row := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*stride : (top+1)*stride]
		b := img.Pix[bottom*stride : (bottom+1)*stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
	return img
}

func (d *Device) NewProgram(vertexSource, fragmentSource string) (gpu.Program, error) {
	id, err := compileProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	return &Program{ID: id, locations: make(map[string]int32)}, nil
}

func (d *Device) NewTexture2D(desc gpu.TextureDesc, pixels *image.RGBA) (gpu.Texture, error) {
	t, err := newTexture2D(desc, pixels)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (d *Device) NewSampler(desc gpu.SamplerDesc) gpu.Sampler {
	return newSampler(desc)
}

func (d *Device) NewMesh(vertices []mesh.Vertex, indices []uint32) (gpu.Mesh, error) {
	m, err := newMesh(vertices, indices)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (d *Device) NewFramebuffer(color, depth gpu.Texture) (gpu.Framebuffer, error) {
	var c, z *Texture
	if color != nil {
		c = color.(*Texture)
	}
	if depth != nil {
		z = depth.(*Texture)
	}
	fb, err := newFramebuffer(c, z)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

func (d *Device) NewVertexArray() gpu.VertexArray {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return &VertexArray{ID: vao}
}

func toggle(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

var _ gpu.Device = (*Device)(nil)
