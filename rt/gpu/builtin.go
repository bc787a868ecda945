package gpu

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	sphereSlices = 16
	sphereStacks = 10
)

// BuiltinData is the vertex stream of a builtin mesh. All builtins are
// non-indexed triangle lists except the line, which is two points.
//
//	MeshLine     (0,0,0) to (1,0,0)
//	MeshSquare   [0,1]^2 at z=0
//	MeshCube     [0,1]^3
//	MeshSphere   unit sphere around the origin
//	MeshPyramid  apex (0,0,1), base [-1,1]^2 at z=0
func BuiltinData(b Builtin) MeshData {
	var m meshBuilder
	switch b {
	case MeshLine:
		m.vertex(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec2{0, 0})
		m.vertex(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec2{1, 0})
	case MeshSquare:
		m.quad(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0, 1, 0})
	case MeshCube:
		buildCube(&m)
	case MeshSphere:
		buildSphere(&m)
	case MeshPyramid:
		buildPyramid(&m)
	default:
		panic(fmt.Sprintf("gpu: unknown builtin mesh %d", b))
	}
	return m.data
}

type meshBuilder struct {
	data MeshData
}

func (m *meshBuilder) vertex(p, n mgl32.Vec3, uv mgl32.Vec2) {
	m.data.Positions = append(m.data.Positions, p[:]...)
	m.data.Normals = append(m.data.Normals, n[:]...)
	m.data.UVs = append(m.data.UVs, uv[:]...)
}

// triangle appends a counter-clockwise triangle with a flat normal.
func (m *meshBuilder) triangle(a, b, c mgl32.Vec3) {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	m.vertex(a, n, mgl32.Vec2{0, 0})
	m.vertex(b, n, mgl32.Vec2{1, 0})
	m.vertex(c, n, mgl32.Vec2{1, 1})
}

// quad appends a, b, c, d counter-clockwise as two triangles.
func (m *meshBuilder) quad(a, b, c, d mgl32.Vec3) {
	n := b.Sub(a).Cross(d.Sub(a)).Normalize()
	uv := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
		m.vertex([4]mgl32.Vec3{a, b, c, d}[i], n, uv[i])
	}
}

func buildCube(m *meshBuilder) {
	v := func(x, y, z float32) mgl32.Vec3 { return mgl32.Vec3{x, y, z} }
	m.quad(v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0)) // -z
	m.quad(v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1)) // +z
	m.quad(v(0, 0, 0), v(1, 0, 0), v(1, 0, 1), v(0, 0, 1)) // -y
	m.quad(v(0, 1, 0), v(0, 1, 1), v(1, 1, 1), v(1, 1, 0)) // +y
	m.quad(v(0, 0, 0), v(0, 0, 1), v(0, 1, 1), v(0, 1, 0)) // -x
	m.quad(v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)) // +x
}

func buildSphere(m *meshBuilder) {
	point := func(slice, stack int) mgl32.Vec3 {
		theta := float64(stack) / sphereStacks * math.Pi
		phi := float64(slice) / sphereSlices * 2 * math.Pi
		return mgl32.Vec3{
			float32(math.Sin(theta) * math.Cos(phi)),
			float32(math.Sin(theta) * math.Sin(phi)),
			float32(math.Cos(theta)),
		}
	}
	for st := 0; st < sphereStacks; st++ {
		for sl := 0; sl < sphereSlices; sl++ {
			corners := [4]mgl32.Vec3{point(sl, st), point(sl, st+1), point(sl+1, st+1), point(sl+1, st)}
			for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
				p := corners[i]
				uv := mgl32.Vec2{float32(sl) / sphereSlices, float32(st) / sphereStacks}
				m.vertex(p, p, uv)
			}
		}
	}
}

func buildPyramid(m *meshBuilder) {
	apex := mgl32.Vec3{0, 0, 1}
	base := [4]mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	for i := range base {
		m.triangle(base[i], base[(i+1)%4], apex)
	}
	m.quad(base[0], base[3], base[2], base[1])
}
