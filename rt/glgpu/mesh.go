package glgpu

import (
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// attribute locations shared by every vertex shader
const (
	attribPosition = 0
	attribNormal   = 1
	attribUV       = 2
	attribTangent  = 3
)

type mesh struct {
	vao     uint32
	buffers []uint32
	count   int32
	indexed bool
}

func newMesh(data gpu.MeshData) *mesh {
	m := &mesh{count: int32(data.VertexCount())}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	m.attribute(attribPosition, 3, data.Positions)
	m.attribute(attribNormal, 3, data.Normals)
	m.attribute(attribUV, 2, data.UVs)
	m.attribute(attribTangent, 3, data.Tangents)

	if len(data.Indices) > 0 {
		var ebo uint32
		gl.GenBuffers(1, &ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)
		m.buffers = append(m.buffers, ebo)
		m.count = int32(len(data.Indices))
		m.indexed = true
	}
	gl.BindVertexArray(0)
	return m
}

// attribute uploads one tightly packed float stream; empty streams leave
// the attribute disabled.
func (m *mesh) attribute(loc uint32, size int32, values []float32) {
	if len(values) == 0 {
		return
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(values)*4, gl.Ptr(values), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, size, gl.FLOAT, false, 0, gl.PtrOffset(0))
	m.buffers = append(m.buffers, vbo)
}

func (m *mesh) draw(mode uint32) {
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElements(mode, m.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	} else {
		gl.DrawArrays(mode, 0, m.count)
	}
	gl.BindVertexArray(0)
}

func (m *mesh) delete() {
	if len(m.buffers) > 0 {
		gl.DeleteBuffers(int32(len(m.buffers)), &m.buffers[0])
	}
	gl.DeleteVertexArrays(1, &m.vao)
	m.buffers = nil
}
