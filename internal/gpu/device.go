package gpu

import (
	"image"

	"runner3d/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Program is a linked shader program.
type Program interface {
	Use()
	SetInt(name string, value int32)
	SetFloat(name string, value float32)
	SetVec3(name string, value mgl32.Vec3)
	SetVec4(name string, value mgl32.Vec4)
	SetMat4(name string, value mgl32.Mat4)
	Delete()
}

// Texture is a GPU image.
type Texture interface {
	Bind(unit int)
	Size() (width, height int)
	Delete()
}

// Sampler holds filtering and wrapping parameters independently of any texture.
type Sampler interface {
	Bind(unit int)
	Delete()
}

// Mesh is an uploaded vertex/index buffer pair.
type Mesh interface {
	Draw()
	Delete()
}

// Framebuffer is an offscreen render target. A nil Framebuffer passed to
// Device.BindFramebuffer selects the default (window) framebuffer.
type Framebuffer interface {
	Delete()
}

// VertexArray is a vertex array object. An empty one is enough to issue
// draws whose vertices are generated in the vertex shader.
type VertexArray interface {
	Delete()
}

// TextureDesc describes the storage of a 2D texture.
type TextureDesc struct {
	Format  PixelFormat
	Width   int
	Height  int
	Mipmaps bool
}

// SamplerDesc describes a sampler object.
type SamplerDesc struct {
	MinFilter Filter `yaml:"minFilter"`
	MagFilter Filter `yaml:"magFilter"`
	WrapS     Wrap   `yaml:"wrapS"`
	WrapT     Wrap   `yaml:"wrapT"`
}

// DefaultSamplerDesc matches the OpenGL sampler defaults for magnification
// and uses linear minification.
func DefaultSamplerDesc() SamplerDesc {
	return SamplerDesc{
		MinFilter: Linear,
		MagFilter: Linear,
		WrapS:     Repeat,
		WrapT:     Repeat,
	}
}

// UnmarshalYAML decodes a partial description on top of DefaultSamplerDesc.
func (d *SamplerDesc) UnmarshalYAML(n *yaml.Node) error {
	type plain SamplerDesc
	p := plain(DefaultSamplerDesc())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*d = SamplerDesc(p)
	return nil
}

// StateSetter issues fixed-function state changes. Callers normally go
// through a StateCache rather than calling these directly.
type StateSetter interface {
	SetDepthTest(enabled bool)
	SetDepthFunc(f CompareFunc)
	SetCulling(enabled bool)
	SetCullFace(f Face)
	SetFrontFace(w Winding)
	SetBlending(enabled bool)
	SetBlendEquation(e BlendEquation)
	SetBlendFunc(src, dst BlendFactor)
	SetBlendColor(c mgl32.Vec4)
	SetColorMask(mask [4]bool)
	SetDepthMask(enabled bool)
}

// Device is the graphics API surface used by the renderer and asset loaders.
type Device interface {
	StateSetter

	SetViewport(x, y, width, height int32)
	SetClearColor(c mgl32.Vec4)
	SetClearDepth(d float32)
	Clear(mask ClearMask)
	BindFramebuffer(fb Framebuffer)
	DrawArrays(vao VertexArray, first, count int32)
	ReadPixels(x, y, width, height int) *image.RGBA

	NewProgram(vertexSource, fragmentSource string) (Program, error)
	NewTexture2D(desc TextureDesc, pixels *image.RGBA) (Texture, error)
	NewSampler(desc SamplerDesc) Sampler
	NewMesh(vertices []mesh.Vertex, indices []uint32) (Mesh, error)
	NewFramebuffer(color, depth Texture) (Framebuffer, error)
	NewVertexArray() VertexArray
}
