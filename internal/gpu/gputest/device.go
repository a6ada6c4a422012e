// Package gputest provides an in-memory gpu.Device for tests.
//
// The device records every call and tracks live handles. It also runs a
// tiny software rasterizer so tests can check what a frame actually looks
// like: triangles are transformed by the "transform" uniform, depth tested,
// culled and blended according to the device state, and shaded flat with
// the "tint" uniform (white when unset). Drawing three vertices from a
// vertex array writes the texture bound to unit 0 over the whole target,
// which is what a passthrough fullscreen-triangle post-process does.
package gputest

import (
	"fmt"
	"image"
	"image/color"

	"runner3d/internal/gpu"
	"runner3d/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device or handle call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Op, c.Args) }

// Device is a recording gpu.Device.
type Device struct {
	Calls []Call

	nextID  int
	live    map[int]string
	created int
	deleted int
	doubles []string

	// fixed-function state as the device currently sees it
	State       gpu.PipelineState
	Viewport    [4]int32
	ClearColor  mgl32.Vec4
	ClearDepth  float32
	Framebuffer *Framebuffer

	program  *Program
	textures map[int]*Texture

	screen *target

	// FailPrograms makes NewProgram return an error.
	FailPrograms bool
}

// NewDevice creates a device whose default framebuffer is width x height.
func NewDevice(width, height int) *Device {
	return &Device{
		live:     make(map[int]string),
		textures: make(map[int]*Texture),
		State:    gpu.DefaultPipelineState(),
		screen:   newTarget(width, height),
	}
}

func (d *Device) record(op string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Args: args})
}

func (d *Device) alloc(kind string) int {
	d.nextID++
	d.live[d.nextID] = kind
	d.created++
	return d.nextID
}

func (d *Device) free(id int) {
	if _, ok := d.live[id]; !ok {
		d.doubles = append(d.doubles, fmt.Sprintf("handle %d", id))
		return
	}
	delete(d.live, id)
	d.deleted++
}

// Live returns the number of handles created and not yet deleted.
func (d *Device) Live() int { return len(d.live) }

// LiveKinds returns the kinds of the live handles.
func (d *Device) LiveKinds() []string {
	out := make([]string, 0, len(d.live))
	for _, k := range d.live {
		out = append(out, k)
	}
	return out
}

// Created returns the total number of handles ever created.
func (d *Device) Created() int { return d.created }

// Deleted returns the total number of handle deletions.
func (d *Device) Deleted() int { return d.deleted }

// DoubleDeletes lists handles deleted more than once.
func (d *Device) DoubleDeletes() []string { return d.doubles }

// ResetCalls clears the call log.
func (d *Device) ResetCalls() { d.Calls = d.Calls[:0] }

// Ops returns the recorded operation names in order.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was recorded.
func (d *Device) Count(op string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Screen returns a copy of the default framebuffer's color buffer.
func (d *Device) Screen() *image.RGBA {
	return cloneRGBA(d.screen.color)
}

// ScreenDepth returns the depth of the default framebuffer at (x, y).
func (d *Device) ScreenDepth(x, y int) float32 {
	return d.screen.depthAt(x, y)
}

func (d *Device) SetDepthTest(enabled bool) {
	d.record("SetDepthTest", enabled)
	d.State.DepthTest.Enabled = enabled
}

func (d *Device) SetDepthFunc(f gpu.CompareFunc) {
	d.record("SetDepthFunc", f)
	d.State.DepthTest.Func = f
}

func (d *Device) SetCulling(enabled bool) {
	d.record("SetCulling", enabled)
	d.State.FaceCulling.Enabled = enabled
}

func (d *Device) SetCullFace(f gpu.Face) {
	d.record("SetCullFace", f)
	d.State.FaceCulling.CulledFace = f
}

func (d *Device) SetFrontFace(w gpu.Winding) {
	d.record("SetFrontFace", w)
	d.State.FaceCulling.FrontFace = w
}

func (d *Device) SetBlending(enabled bool) {
	d.record("SetBlending", enabled)
	d.State.Blending.Enabled = enabled
}

func (d *Device) SetBlendEquation(e gpu.BlendEquation) {
	d.record("SetBlendEquation", e)
	d.State.Blending.Equation = e
}

func (d *Device) SetBlendFunc(src, dst gpu.BlendFactor) {
	d.record("SetBlendFunc", src, dst)
	d.State.Blending.Source = src
	d.State.Blending.Destination = dst
}

func (d *Device) SetBlendColor(c mgl32.Vec4) {
	d.record("SetBlendColor", c)
	d.State.Blending.Color = c
}

func (d *Device) SetColorMask(mask [4]bool) {
	d.record("SetColorMask", mask)
	d.State.ColorMask = mask
}

func (d *Device) SetDepthMask(enabled bool) {
	d.record("SetDepthMask", enabled)
	d.State.DepthMask = enabled
}

func (d *Device) SetViewport(x, y, width, height int32) {
	d.record("SetViewport", x, y, width, height)
	d.Viewport = [4]int32{x, y, width, height}
}

func (d *Device) SetClearColor(c mgl32.Vec4) {
	d.record("SetClearColor", c)
	d.ClearColor = c
}

func (d *Device) SetClearDepth(v float32) {
	d.record("SetClearDepth", v)
	d.ClearDepth = v
}

func (d *Device) Clear(mask gpu.ClearMask) {
	d.record("Clear", mask)
	t := d.current()
	if mask&gpu.ClearColor != 0 && t.color != nil {
		c := toRGBA(d.ClearColor)
		for i := 0; i < len(t.color.Pix); i += 4 {
			if d.State.ColorMask[0] {
				t.color.Pix[i] = c.R
			}
			if d.State.ColorMask[1] {
				t.color.Pix[i+1] = c.G
			}
			if d.State.ColorMask[2] {
				t.color.Pix[i+2] = c.B
			}
			if d.State.ColorMask[3] {
				t.color.Pix[i+3] = c.A
			}
		}
	}
	if mask&gpu.ClearDepth != 0 && t.depth != nil && d.State.DepthMask {
		for i := range t.depth {
			t.depth[i] = d.ClearDepth
		}
	}
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	if fb == nil {
		d.record("BindFramebuffer", nil)
		d.Framebuffer = nil
		return
	}
	f := fb.(*Framebuffer)
	d.record("BindFramebuffer", f.ID)
	d.Framebuffer = f
}

func (d *Device) DrawArrays(vao gpu.VertexArray, first, count int32) {
	va := vao.(*VertexArray)
	d.record("DrawArrays", va.ID, first, count)
	if count != 3 {
		return
	}
	src, ok := d.textures[0]
	if !ok || src.pixels == nil {
		return
	}
	t := d.current()
	if t.color == nil {
		return
	}
	b := t.color.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t.color.SetRGBA(x, y, src.pixels.RGBAAt(x, y))
		}
	}
}

func (d *Device) ReadPixels(x, y, width, height int) *image.RGBA {
	d.record("ReadPixels", x, y, width, height)
	t := d.current()
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	if t.color == nil {
		return out
	}
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			out.SetRGBA(i, j, t.color.RGBAAt(x+i, y+j))
		}
	}
	return out
}

func (d *Device) NewProgram(vertexSource, fragmentSource string) (gpu.Program, error) {
	d.record("NewProgram")
	if d.FailPrograms {
		return nil, fmt.Errorf("failed to link program: forced failure")
	}
	p := &Program{
		dev:            d,
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Uniforms:       make(map[string]any),
	}
	p.ID = d.alloc("program")
	return p, nil
}

func (d *Device) NewTexture2D(desc gpu.TextureDesc, pixels *image.RGBA) (gpu.Texture, error) {
	d.record("NewTexture2D", desc)
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	t := &Texture{dev: d, Desc: desc}
	switch desc.Format {
	case gpu.RGBA8:
		t.pixels = image.NewRGBA(image.Rect(0, 0, desc.Width, desc.Height))
		if pixels != nil {
			copy(t.pixels.Pix, pixels.Pix)
		}
	case gpu.Depth24:
		t.depth = make([]float32, desc.Width*desc.Height)
	}
	t.ID = d.alloc("texture")
	return t, nil
}

func (d *Device) NewSampler(desc gpu.SamplerDesc) gpu.Sampler {
	d.record("NewSampler", desc)
	s := &Sampler{dev: d, Desc: desc}
	s.ID = d.alloc("sampler")
	return s
}

func (d *Device) NewMesh(vertices []mesh.Vertex, indices []uint32) (gpu.Mesh, error) {
	d.record("NewMesh", len(vertices), len(indices))
	if len(vertices) == 0 {
		return nil, fmt.Errorf("empty mesh")
	}
	m := &Mesh{dev: d, Vertices: vertices, Indices: indices}
	m.ID = d.alloc("mesh")
	return m, nil
}

func (d *Device) NewFramebuffer(colorTex, depthTex gpu.Texture) (gpu.Framebuffer, error) {
	d.record("NewFramebuffer")
	f := &Framebuffer{dev: d}
	if colorTex != nil {
		f.Color = colorTex.(*Texture)
	}
	if depthTex != nil {
		f.Depth = depthTex.(*Texture)
	}
	f.ID = d.alloc("framebuffer")
	return f, nil
}

func (d *Device) NewVertexArray() gpu.VertexArray {
	d.record("NewVertexArray")
	v := &VertexArray{dev: d}
	v.ID = d.alloc("vertexarray")
	return v
}

func (d *Device) current() *target {
	if d.Framebuffer == nil {
		return d.screen
	}
	t := &target{}
	if d.Framebuffer.Color != nil {
		t.color = d.Framebuffer.Color.pixels
		t.w, t.h = d.Framebuffer.Color.Desc.Width, d.Framebuffer.Color.Desc.Height
	}
	if d.Framebuffer.Depth != nil {
		t.depth = d.Framebuffer.Depth.depth
		t.w, t.h = d.Framebuffer.Depth.Desc.Width, d.Framebuffer.Depth.Desc.Height
	}
	return t
}

// Program is a recorded shader program.
type Program struct {
	dev            *Device
	ID             int
	VertexSource   string
	FragmentSource string
	Uniforms       map[string]any
}

func (p *Program) Use() {
	p.dev.record("UseProgram", p.ID)
	p.dev.program = p
}

func (p *Program) set(name string, v any) {
	p.dev.record("SetUniform", p.ID, name)
	p.Uniforms[name] = v
}

func (p *Program) SetInt(name string, value int32)       { p.set(name, value) }
func (p *Program) SetFloat(name string, value float32)   { p.set(name, value) }
func (p *Program) SetVec3(name string, value mgl32.Vec3) { p.set(name, value) }
func (p *Program) SetVec4(name string, value mgl32.Vec4) { p.set(name, value) }
func (p *Program) SetMat4(name string, value mgl32.Mat4) { p.set(name, value) }

func (p *Program) Delete() {
	p.dev.record("DeleteProgram", p.ID)
	p.dev.free(p.ID)
}

// Texture is a recorded texture with CPU-side storage.
type Texture struct {
	dev    *Device
	ID     int
	Desc   gpu.TextureDesc
	pixels *image.RGBA
	depth  []float32
}

func (t *Texture) Bind(unit int) {
	t.dev.record("BindTexture", unit, t.ID)
	t.dev.textures[unit] = t
}

func (t *Texture) Size() (int, int) { return t.Desc.Width, t.Desc.Height }

// Pixels returns a copy of the texture's color data.
func (t *Texture) Pixels() *image.RGBA { return cloneRGBA(t.pixels) }

func (t *Texture) Delete() {
	t.dev.record("DeleteTexture", t.ID)
	t.dev.free(t.ID)
}

// Sampler is a recorded sampler.
type Sampler struct {
	dev  *Device
	ID   int
	Desc gpu.SamplerDesc
}

func (s *Sampler) Bind(unit int) { s.dev.record("BindSampler", unit, s.ID) }

func (s *Sampler) Delete() {
	s.dev.record("DeleteSampler", s.ID)
	s.dev.free(s.ID)
}

// Mesh keeps its geometry so draws can be rasterized.
type Mesh struct {
	dev      *Device
	ID       int
	Vertices []mesh.Vertex
	Indices  []uint32
}

func (m *Mesh) Draw() {
	m.dev.record("DrawMesh", m.ID)
	m.dev.rasterize(m)
}

func (m *Mesh) Delete() {
	m.dev.record("DeleteMesh", m.ID)
	m.dev.free(m.ID)
}

// Framebuffer is a recorded framebuffer.
type Framebuffer struct {
	dev   *Device
	ID    int
	Color *Texture
	Depth *Texture
}

func (f *Framebuffer) Delete() {
	f.dev.record("DeleteFramebuffer", f.ID)
	f.dev.free(f.ID)
}

// VertexArray is a recorded vertex array.
type VertexArray struct {
	dev *Device
	ID  int
}

func (v *VertexArray) Delete() {
	v.dev.record("DeleteVertexArray", v.ID)
	v.dev.free(v.ID)
}

func toRGBA(c mgl32.Vec4) color.RGBA {
	return color.RGBA{
		R: unit8(c[0]),
		G: unit8(c[1]),
		B: unit8(c[2]),
		A: unit8(c[3]),
	}
}

func unit8(f float32) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
