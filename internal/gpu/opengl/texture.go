package opengl

import (
	"fmt"
	"image"
	"unsafe"

	"runner3d/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture is an OpenGL 2D texture.
type Texture struct {
	ID            uint32
	width, height int
}

func (t *Texture) Bind(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

func (t *Texture) Size() (int, int) { return t.width, t.height }

func (t *Texture) Delete() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}

func newTexture2D(desc gpu.TextureDesc, pixels *image.RGBA) (*Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	switch desc.Format {
	case gpu.RGBA8:
		var data unsafe.Pointer
		if pixels != nil {
			if pixels.Rect.Dx() != desc.Width || pixels.Rect.Dy() != desc.Height {
				gl.DeleteTextures(1, &texture)
				return nil, fmt.Errorf("pixel data is %v, texture is %dx%d", pixels.Rect.Size(), desc.Width, desc.Height)
			}
			data = gl.Ptr(pixels.Pix)
		}
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
		gl.TexImage2D(
			gl.TEXTURE_2D,
			0,
			gl.RGBA8,
			int32(desc.Width),
			int32(desc.Height),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			data,
		)
		if desc.Mipmaps {
			gl.GenerateMipmap(gl.TEXTURE_2D)
		}
	case gpu.Depth24:
		gl.TexImage2D(
			gl.TEXTURE_2D,
			0,
			gl.DEPTH_COMPONENT24,
			int32(desc.Width),
			int32(desc.Height),
			0,
			gl.DEPTH_COMPONENT,
			gl.UNSIGNED_INT,
			nil,
		)
	default:
		gl.DeleteTextures(1, &texture)
		return nil, fmt.Errorf("unsupported pixel format %d", desc.Format)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return &Texture{ID: texture, width: desc.Width, height: desc.Height}, nil
}

// Sampler is an OpenGL sampler object.
type Sampler struct {
	ID uint32
}

func newSampler(desc gpu.SamplerDesc) *Sampler {
	var s uint32
	gl.GenSamplers(1, &s)
	gl.SamplerParameteri(s, gl.TEXTURE_MIN_FILTER, filterEnum(desc.MinFilter))
	gl.SamplerParameteri(s, gl.TEXTURE_MAG_FILTER, filterEnum(magFilter(desc.MagFilter)))
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_S, wrapEnum(desc.WrapS))
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_T, wrapEnum(desc.WrapT))
	return &Sampler{ID: s}
}

// magnification has no mipmap variants
func magFilter(f gpu.Filter) gpu.Filter {
	switch f {
	case gpu.LinearMipmapLinear:
		return gpu.Linear
	case gpu.NearestMipmapNearest:
		return gpu.Nearest
	}
	return f
}

func (s *Sampler) Bind(unit int) {
	gl.BindSampler(uint32(unit), s.ID)
}

func (s *Sampler) Delete() {
	if s.ID != 0 {
		gl.DeleteSamplers(1, &s.ID)
		s.ID = 0
	}
}

// Framebuffer is an OpenGL framebuffer object.
type Framebuffer struct {
	ID uint32
}

func newFramebuffer(color, depth *Texture) (*Framebuffer, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbo)
	if color != nil {
		gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, color.ID, 0)
	}
	if depth != nil {
		gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, depth.ID, 0)
	}
	status := gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return &Framebuffer{ID: fbo}, nil
}

func (f *Framebuffer) Delete() {
	if f.ID != 0 {
		gl.DeleteFramebuffers(1, &f.ID)
		f.ID = 0
	}
}

// VertexArray is an OpenGL vertex array object.
type VertexArray struct {
	ID uint32
}

func (v *VertexArray) Delete() {
	if v.ID != 0 {
		gl.DeleteVertexArrays(1, &v.ID)
		v.ID = 0
	}
}
