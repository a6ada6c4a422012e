package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex attribute locations shared by every shader in assets/shaders.
const (
	AttribPosition = 0
	AttribColor    = 1
	AttribTexCoord = 2
	AttribNormal   = 3
)

// Vertex is the interleaved vertex format uploaded to the GPU.
type Vertex struct {
	Position mgl32.Vec3
	Color    [4]uint8
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

// VertexSize is the byte stride of Vertex.
const VertexSize = 3*4 + 4 + 2*4 + 3*4

var white = [4]uint8{255, 255, 255, 255}

// Sphere builds a unit UV sphere centered at the origin. segments[0] is the
// number of slices around the Y axis and segments[1] the number of stacks.
// Triangles wind counter-clockwise when seen from outside.
func Sphere(segments [2]int) ([]Vertex, []uint32) {
	cols, rows := segments[0], segments[1]
	if cols < 3 {
		cols = 3
	}
	if rows < 2 {
		rows = 2
	}

	vertices := make([]Vertex, 0, (rows+1)*(cols+1))
	for r := 0; r <= rows; r++ {
		v := float32(r) / float32(rows)
		pitch := v*math32.Pi - math32.Pi/2
		cp, sp := math32.Cos(pitch), math32.Sin(pitch)
		for c := 0; c <= cols; c++ {
			u := float32(c) / float32(cols)
			yaw := u * 2 * math32.Pi
			n := mgl32.Vec3{cp * math32.Cos(yaw), sp, cp * math32.Sin(yaw)}
			vertices = append(vertices, Vertex{
				Position: n,
				Color:    white,
				TexCoord: mgl32.Vec2{u, v},
				Normal:   n,
			})
		}
	}

	indices := make([]uint32, 0, rows*cols*6)
	stride := uint32(cols + 1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i0 := uint32(r)*stride + uint32(c)
			i1 := i0 + 1
			i3 := i0 + stride
			i2 := i3 + 1
			indices = append(indices, i0, i3, i1, i1, i3, i2)
		}
	}
	return vertices, indices
}

// Plane builds a unit quad in the XY plane facing +Z.
func Plane() ([]Vertex, []uint32) {
	n := mgl32.Vec3{0, 0, 1}
	vertices := []Vertex{
		{Position: mgl32.Vec3{-0.5, -0.5, 0}, Color: white, TexCoord: mgl32.Vec2{0, 0}, Normal: n},
		{Position: mgl32.Vec3{0.5, -0.5, 0}, Color: white, TexCoord: mgl32.Vec2{1, 0}, Normal: n},
		{Position: mgl32.Vec3{0.5, 0.5, 0}, Color: white, TexCoord: mgl32.Vec2{1, 1}, Normal: n},
		{Position: mgl32.Vec3{-0.5, 0.5, 0}, Color: white, TexCoord: mgl32.Vec2{0, 1}, Normal: n},
	}
	return vertices, []uint32{0, 1, 2, 0, 2, 3}
}

type cubeFace struct {
	normal, tangent, bitangent mgl32.Vec3
}

// tangent x bitangent == normal for every face, which keeps the winding CCW
// from outside.
var cubeFaces = [6]cubeFace{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// Cuboid builds a unit cube centered at the origin with per-face normals.
func Cuboid() ([]Vertex, []uint32) {
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		for _, k := range corners {
			p := f.normal.Add(f.tangent.Mul(k[0])).Add(f.bitangent.Mul(k[1])).Mul(0.5)
			vertices = append(vertices, Vertex{
				Position: p,
				Color:    white,
				TexCoord: mgl32.Vec2{(k[0] + 1) / 2, (k[1] + 1) / 2},
				Normal:   f.normal,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// Bounds returns the axis-aligned bounding box of vertices.
func Bounds(vertices []Vertex) (min, max mgl32.Vec3) {
	if len(vertices) == 0 {
		return
	}
	min, max = vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math32.Min(min[i], v.Position[i])
			max[i] = math32.Max(max[i], v.Position[i])
		}
	}
	return min, max
}
