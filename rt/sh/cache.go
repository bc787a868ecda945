// Package sh projects cubemap captures onto a fixed order-4 real
// spherical-harmonic basis (bands 0, 1, 2 and 4; 18 coefficients).
package sh

import (
	"fmt"

	"github.com/gekko3d/lumen/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxCoefficients is the number of basis functions this package knows how to
// evaluate and normalize.
const MaxCoefficients = 18

// Cache holds basis values for every texel of every cubemap face. It depends
// only on the face resolution and coefficient count.
type Cache struct {
	Res    int
	Coeffs int
	// table[face][coeff][texel], texel = x*Res + y
	table [core.FaceCount][][]float32
}

// TexelDir is the unit direction through the center of texel (x, y) of face.
func TexelDir(face core.Face, res, x, y int) mgl32.Vec3 {
	half := float32(res) / 2
	q := mgl32.Vec4{float32(x) + 0.5 - half, float32(y) + 0.5 - half, -half, 1}
	return core.FaceRotation(face).Mul4x1(q).Vec3().Normalize()
}

// BuildCache evaluates the first coeffs basis functions at every texel
// direction of a res x res cubemap.
func BuildCache(res, coeffs int) *Cache {
	if res <= 0 {
		panic(fmt.Sprintf("sh: invalid face resolution %d", res))
	}
	if coeffs <= 0 || coeffs > MaxCoefficients {
		panic(fmt.Sprintf("sh: coefficient count %d out of range [1, %d]", coeffs, MaxCoefficients))
	}
	c := &Cache{Res: res, Coeffs: coeffs}
	var basis [MaxCoefficients]float32
	for f := core.Face(0); f < core.FaceCount; f++ {
		rows := make([][]float32, coeffs)
		for i := range rows {
			rows[i] = make([]float32, res*res)
		}
		texel := 0
		for x := 0; x < res; x++ {
			for y := 0; y < res; y++ {
				evalBasis(TexelDir(f, res, x, y), &basis)
				for i := range rows {
					rows[i][texel] = basis[i]
				}
				texel++
			}
		}
		c.table[f] = rows
	}
	return c
}

// Basis returns the basis values of coefficient coeff over the texels of face.
func (c *Cache) Basis(face core.Face, coeff int) []float32 {
	return c.table[face][coeff]
}

func evalBasis(p mgl32.Vec3, out *[MaxCoefficients]float32) {
	x, y, z := p[0], p[1], p[2]
	xx, yy, zz := x*x, y*y, z*z
	xy, yz, xz := x*y, y*z, x*z

	out[0] = 1

	out[1] = y
	out[2] = z
	out[3] = x

	out[4] = xy
	out[5] = yz
	out[6] = 3*zz - 1
	out[7] = xz
	out[8] = xx - yy

	out[9] = xy * (xx - yy)
	out[10] = yz * (3*xx - yy)
	out[11] = xy * (7*zz - 1)
	out[12] = yz * (7*zz - 3)
	out[13] = zz*(35*zz-30) + 3
	out[14] = xz * (7*zz - 3)
	out[15] = (xx - yy) * (7*zz - 1)
	out[16] = xz * (xx - 3*yy)
	out[17] = xx*(xx-3*yy) - yy*(3*xx-yy)
}
