package gputest

import (
	"image"
	"image/color"

	"runner3d/internal/gpu"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type target struct {
	color *image.RGBA
	depth []float32
	w, h  int
}

func newTarget(w, h int) *target {
	t := &target{
		color: image.NewRGBA(image.Rect(0, 0, w, h)),
		depth: make([]float32, w*h),
		w:     w,
		h:     h,
	}
	for i := range t.depth {
		t.depth[i] = 1
	}
	return t
}

func (t *target) depthAt(x, y int) float32 {
	if t.depth == nil || x < 0 || y < 0 || x >= t.w || y >= t.h {
		return 1
	}
	return t.depth[y*t.w+x]
}

type screenVertex struct {
	x, y, z float32
}

func (d *Device) rasterize(m *Mesh) {
	p := d.program
	if p == nil {
		return
	}
	transform := mgl32.Ident4()
	if v, ok := p.Uniforms["transform"].(mgl32.Mat4); ok {
		transform = v
	}
	tint := mgl32.Vec4{1, 1, 1, 1}
	if v, ok := p.Uniforms["tint"].(mgl32.Vec4); ok {
		tint = v
	}

	t := d.current()
	if t.w == 0 || t.h == 0 {
		return
	}

	project := func(i uint32) (screenVertex, bool) {
		pos := m.Vertices[i].Position
		clip := transform.Mul4x1(pos.Vec4(1))
		if clip[3] <= 0 {
			return screenVertex{}, false
		}
		ndc := clip.Vec3().Mul(1 / clip[3])
		return screenVertex{
			x: (ndc[0]*0.5 + 0.5) * float32(t.w),
			y: (ndc[1]*0.5 + 0.5) * float32(t.h),
			z: ndc[2]*0.5 + 0.5,
		}, true
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, okA := project(m.Indices[i])
		b, okB := project(m.Indices[i+1])
		c, okC := project(m.Indices[i+2])
		if !okA || !okB || !okC {
			continue
		}
		d.fillTriangle(t, a, b, c, tint)
	}
}

func edge(a, b screenVertex, x, y float32) float32 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

func (d *Device) fillTriangle(t *target, a, b, c screenVertex, tint mgl32.Vec4) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	front := area > 0
	if d.State.FaceCulling.FrontFace == gpu.CW {
		front = !front
	}
	if d.State.FaceCulling.Enabled {
		switch d.State.FaceCulling.CulledFace {
		case gpu.Back:
			if !front {
				return
			}
		case gpu.Front:
			if front {
				return
			}
		case gpu.FrontAndBack:
			return
		}
	}

	minX := int(math32.Max(0, math32.Floor(math32.Min(a.x, math32.Min(b.x, c.x)))))
	maxX := int(math32.Min(float32(t.w-1), math32.Ceil(math32.Max(a.x, math32.Max(b.x, c.x)))))
	minY := int(math32.Max(0, math32.Floor(math32.Min(a.y, math32.Min(b.y, c.y)))))
	maxY := int(math32.Min(float32(t.h-1), math32.Ceil(math32.Max(a.y, math32.Max(b.y, c.y)))))

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			x, y := float32(px)+0.5, float32(py)+0.5
			w0 := edge(b, c, x, y) / area
			w1 := edge(c, a, x, y) / area
			w2 := edge(a, b, x, y) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			if z < 0 || z > 1+1e-5 {
				continue
			}
			d.shade(t, px, py, z, tint)
		}
	}
}

func (d *Device) shade(t *target, x, y int, z float32, src mgl32.Vec4) {
	if t.depth != nil && d.State.DepthTest.Enabled {
		if !compare(d.State.DepthTest.Func, z, t.depth[y*t.w+x]) {
			return
		}
	}
	if t.depth != nil && d.State.DepthTest.Enabled && d.State.DepthMask {
		t.depth[y*t.w+x] = math32.Min(z, 1)
	}
	if t.color == nil {
		return
	}
	// framebuffer rows are stored top-down while clip space is bottom-up
	iy := t.h - 1 - y
	out := src
	if d.State.Blending.Enabled {
		dst := fromRGBA(t.color.RGBAAt(x, iy))
		bl := d.State.Blending
		sf := factor(bl.Source, src, dst, bl.Color)
		df := factor(bl.Destination, src, dst, bl.Color)
		for i := 0; i < 4; i++ {
			out[i] = src[i]*sf[i] + dst[i]*df[i]
		}
	}
	prev := t.color.RGBAAt(x, iy)
	next := toRGBA(out)
	mask := d.State.ColorMask
	if !mask[0] {
		next.R = prev.R
	}
	if !mask[1] {
		next.G = prev.G
	}
	if !mask[2] {
		next.B = prev.B
	}
	if !mask[3] {
		next.A = prev.A
	}
	t.color.SetRGBA(x, iy, next)
}

func compare(f gpu.CompareFunc, z, stored float32) bool {
	switch f {
	case gpu.Less:
		return z < stored
	case gpu.LessOrEqual:
		return z <= stored+1e-6
	case gpu.Equal:
		return math32.Abs(z-stored) <= 1e-6
	case gpu.Greater:
		return z > stored
	case gpu.GreaterOrEqual:
		return z >= stored-1e-6
	case gpu.NotEqual:
		return math32.Abs(z-stored) > 1e-6
	case gpu.Always:
		return true
	}
	return false
}

func factor(f gpu.BlendFactor, src, dst, constant mgl32.Vec4) mgl32.Vec4 {
	switch f {
	case gpu.Zero:
		return mgl32.Vec4{}
	case gpu.One:
		return mgl32.Vec4{1, 1, 1, 1}
	case gpu.SrcColor:
		return src
	case gpu.OneMinusSrcColor:
		return mgl32.Vec4{1 - src[0], 1 - src[1], 1 - src[2], 1 - src[3]}
	case gpu.DstColor:
		return dst
	case gpu.OneMinusDstColor:
		return mgl32.Vec4{1 - dst[0], 1 - dst[1], 1 - dst[2], 1 - dst[3]}
	case gpu.SrcAlpha:
		return mgl32.Vec4{src[3], src[3], src[3], src[3]}
	case gpu.OneMinusSrcAlpha:
		a := 1 - src[3]
		return mgl32.Vec4{a, a, a, a}
	case gpu.DstAlpha:
		return mgl32.Vec4{dst[3], dst[3], dst[3], dst[3]}
	case gpu.OneMinusDstAlpha:
		a := 1 - dst[3]
		return mgl32.Vec4{a, a, a, a}
	case gpu.ConstantColor:
		return constant
	case gpu.OneMinusConstantColor:
		return mgl32.Vec4{1 - constant[0], 1 - constant[1], 1 - constant[2], 1 - constant[3]}
	case gpu.ConstantAlpha:
		return mgl32.Vec4{constant[3], constant[3], constant[3], constant[3]}
	case gpu.OneMinusConstantAlpha:
		a := 1 - constant[3]
		return mgl32.Vec4{a, a, a, a}
	}
	return mgl32.Vec4{1, 1, 1, 1}
}

func fromRGBA(c color.RGBA) mgl32.Vec4 {
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}
