package sh

import (
	"fmt"
	"math"

	"github.com/gekko3d/lumen/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Coeff is one SH coefficient slot of a probe.
type Coeff struct {
	Diffuse      mgl32.Vec3
	Illumination mgl32.Vec3
	Depth        float32
}

// band area (clamped cosine lobe) times basis normalization, per coefficient
var bandScale = func() [MaxCoefficients]float32 {
	type band struct {
		area  float32
		norms []float32
	}
	bands := []band{
		{3.141593, []float32{0.282095}},
		{2.094395, []float32{0.488603, 0.488603, 0.488603}},
		{0.785298, []float32{1.092548, 1.092548, 0.315392, 1.092548, 0.546274}},
		{-0.130900, []float32{2.503342, 1.77013, 0.946174, 0.669046, 0.105785, 0.669046, 0.473087, 1.77013, 0.625835}},
	}
	var out [MaxCoefficients]float32
	i := 0
	for _, b := range bands {
		for _, n := range b.norms {
			out[i] = n * b.area
			i++
		}
	}
	return out
}()

// BandScale is the normalization numerator applied to coefficient i.
func BandScale(i int) float32 {
	return bandScale[i]
}

// SolidAngleNorm is the sample-count normalization k for a res x res cubemap.
func SolidAngleNorm(res int) float32 {
	return float32(float64(res*res*6) / (2 * math.Pi * math.Pi) * 20)
}

// DefaultMaxDepth clamps linearized capture depth before normalization.
const DefaultMaxDepth = 100

// DepthCorrection undoes the projective depth of a capture camera.
type DepthCorrection [4]float32

// NewDepthCorrection reads the depth terms of a perspective projection with
// the given planes. Only near and far contribute.
func NewDepthCorrection(near, far float32) DepthCorrection {
	m := mgl32.Perspective(mgl32.DegToRad(90), 1, near, far)
	return DepthCorrection{m.At(2, 2), m.At(3, 2), m.At(2, 3), m.At(3, 3)}
}

// CaptureDepth matches the planes the projector assumes for probe captures.
var CaptureDepth = NewDepthCorrection(0.5, 200)

// Linear maps a stored depth sample back to view distance.
func (d DepthCorrection) Linear(v float32) float32 {
	return -(d[3]*v - d[1]) / (d[0] - d[2]*v + 0.001)
}

// Faces is one full cubemap capture. Illumination and Diffuse hold tightly
// packed RGB floats, Depth one float per texel.
type Faces struct {
	Res          int
	Diffuse      [core.FaceCount][]float32
	Illumination [core.FaceCount][]float32
	Depth        [core.FaceCount][]float32
}

// NewFaces allocates zeroed capture buffers for a res x res cubemap.
func NewFaces(res int) *Faces {
	f := &Faces{Res: res}
	for i := 0; i < core.FaceCount; i++ {
		f.Diffuse[i] = make([]float32, res*res*3)
		f.Illumination[i] = make([]float32, res*res*3)
		f.Depth[i] = make([]float32, res*res)
	}
	return f
}

// Projector turns captures into probe coefficients.
type Projector struct {
	Cache    *Cache
	Depth    DepthCorrection
	MaxDepth float32
}

func NewProjector(res, coeffs int) *Projector {
	return &Projector{
		Cache:    BuildCache(res, coeffs),
		Depth:    CaptureDepth,
		MaxDepth: DefaultMaxDepth,
	}
}

// Project replaces dst with the SH projection of faces. len(dst) must equal
// the cache's coefficient count.
func (p *Projector) Project(dst []Coeff, faces *Faces) {
	if len(dst) != p.Cache.Coeffs {
		panic(fmt.Sprintf("sh: projecting into %d coefficients, cache has %d", len(dst), p.Cache.Coeffs))
	}
	if faces.Res != p.Cache.Res {
		panic(fmt.Sprintf("sh: capture resolution %d, cache resolution %d", faces.Res, p.Cache.Res))
	}
	for i := range dst {
		dst[i] = Coeff{}
	}

	p.accumulate(dst, &faces.Diffuse, 3, func(c *Coeff, d int) *float32 { return &c.Diffuse[d] })
	p.accumulate(dst, &faces.Illumination, 3, func(c *Coeff, d int) *float32 { return &c.Illumination[d] })
	p.accumulate(dst, &faces.Depth, 1, func(c *Coeff, _ int) *float32 { return &c.Depth })
}

func (p *Projector) accumulate(dst []Coeff, bufs *[core.FaceCount][]float32, dim int, acc func(*Coeff, int) *float32) {
	res := p.Cache.Res
	texels := res * res
	for f := core.Face(0); f < core.FaceCount; f++ {
		buf := bufs[f]
		if len(buf) != texels*dim {
			panic(fmt.Sprintf("sh: face %d buffer has %d floats, want %d", f, len(buf), texels*dim))
		}
		basis := p.Cache.table[f]
		for t := 0; t < texels; t++ {
			for d := 0; d < dim; d++ {
				v := buf[t*dim+d]
				if dim == 1 {
					v = p.depthSample(v, t/res)
				}
				for c := range dst {
					*acc(&dst[c], d) += v * basis[c][t]
				}
			}
		}
	}

	k := SolidAngleNorm(res)
	for c := range dst {
		for d := 0; d < dim; d++ {
			*acc(&dst[c], d) *= bandScale[c] / k
		}
	}
}

// depthSample linearizes v, weights it by the texel's outer index and clamps
// it into [.., 1].
func (p *Projector) depthSample(v float32, x int) float32 {
	v = p.Depth.Linear(v)
	v *= float32(x) / float32(p.Cache.Res)
	v = min(p.MaxDepth, v)
	return v / p.MaxDepth
}
