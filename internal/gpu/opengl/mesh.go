package opengl

import (
	"fmt"

	"runner3d/internal/mesh"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mesh owns a VAO with an interleaved vertex buffer and an index buffer.
type Mesh struct {
	vao, vbo, ebo uint32
	count         int32
}

func newMesh(vertices []mesh.Vertex, indices []uint32) (*Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("empty mesh: %d vertices, %d indices", len(vertices), len(indices))
	}

	m := &Mesh{count: int32(len(indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*mesh.VertexSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(mesh.VertexSize)
	gl.EnableVertexAttribArray(mesh.AttribPosition)
	gl.VertexAttribPointerWithOffset(mesh.AttribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(mesh.AttribColor)
	gl.VertexAttribPointerWithOffset(mesh.AttribColor, 4, gl.UNSIGNED_BYTE, true, stride, 12)
	gl.EnableVertexAttribArray(mesh.AttribTexCoord)
	gl.VertexAttribPointerWithOffset(mesh.AttribTexCoord, 2, gl.FLOAT, false, stride, 16)
	gl.EnableVertexAttribArray(mesh.AttribNormal)
	gl.VertexAttribPointerWithOffset(mesh.AttribNormal, 3, gl.FLOAT, false, stride, 24)

	gl.BindVertexArray(0)
	return m, nil
}

// Draw issues the indexed draw call for this mesh.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (m *Mesh) Delete() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}
