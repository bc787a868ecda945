package sh

import (
	"testing"

	"github.com/gekko3d/lumen/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(buf []float32, v float32) {
	for i := range buf {
		buf[i] = v
	}
}

func TestTexelDirCoversFaces(t *testing.T) {
	for f := core.Face(0); f < core.FaceCount; f++ {
		// average of the four center texels points along the face axis
		var sum mgl32.Vec3
		for _, xy := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}} {
			sum = sum.Add(TexelDir(f, 4, xy[0], xy[1]))
		}
		dir := sum.Normalize()
		want := core.FaceForward(f)
		assert.InDelta(t, 1, dir.Dot(want), 1e-5, "face %d", f)
	}
}

func TestBuildCacheDeterministic(t *testing.T) {
	a := BuildCache(8, MaxCoefficients)
	b := BuildCache(8, MaxCoefficients)
	for f := core.Face(0); f < core.FaceCount; f++ {
		for c := 0; c < MaxCoefficients; c++ {
			require.Equal(t, a.Basis(f, c), b.Basis(f, c))
		}
		for _, v := range a.Basis(f, 0) {
			assert.Equal(t, float32(1), v)
		}
	}
	assert.Panics(t, func() { BuildCache(8, MaxCoefficients+1) })
	assert.Panics(t, func() { BuildCache(0, 4) })
}

func TestProjectUniformWhite(t *testing.T) {
	const res = 16
	p := NewProjector(res, MaxCoefficients)
	faces := NewFaces(res)
	for f := 0; f < core.FaceCount; f++ {
		fill(faces.Illumination[f], 1)
		fill(faces.Diffuse[f], 1)
	}

	dst := make([]Coeff, MaxCoefficients)
	p.Project(dst, faces)

	want := float32(res*res*core.FaceCount) * BandScale(0) / SolidAngleNorm(res)
	for d := 0; d < 3; d++ {
		assert.InEpsilon(t, want, dst[0].Illumination[d], 1e-4)
		assert.InEpsilon(t, want, dst[0].Diffuse[d], 1e-4)
	}
	assert.InDelta(t, 0.8747, dst[0].Illumination[0], 1e-3)

	for c := 1; c < MaxCoefficients; c++ {
		tol := 1e-3
		// the cube sampling is not rotation invariant about the
		// zonal and sectoral band-4 terms
		if c == 13 || c == 17 {
			tol = 0.02
		}
		for d := 0; d < 3; d++ {
			assert.InDelta(t, 0, dst[c].Illumination[d], tol, "coefficient %d", c)
		}
	}
}

func TestProjectReplacesPrevious(t *testing.T) {
	p := NewProjector(4, 9)
	faces := NewFaces(4)
	for f := 0; f < core.FaceCount; f++ {
		fill(faces.Illumination[f], 2)
	}

	dst := make([]Coeff, 9)
	p.Project(dst, faces)
	first := dst[0].Illumination
	p.Project(dst, faces)
	assert.Equal(t, first, dst[0].Illumination)
	assert.Equal(t, float32(0), dst[0].Diffuse[1])
}

func TestProjectDepthClamp(t *testing.T) {
	const res = 4
	p := NewProjector(res, 1)
	faces := NewFaces(res)
	for f := 0; f < core.FaceCount; f++ {
		// the far plane linearizes well past the clamp
		fill(faces.Depth[f], 1)
	}

	dst := make([]Coeff, 1)
	p.Project(dst, faces)

	// the first outer row is weighted by zero, every other texel clamps to 1
	clamped := float32(core.FaceCount * res * (res - 1))
	assert.InEpsilon(t, clamped*BandScale(0)/SolidAngleNorm(res), dst[0].Depth, 1e-5)
	assert.Greater(t, p.Depth.Linear(1), float32(DefaultMaxDepth))
}

func TestProjectBufferSizeChecked(t *testing.T) {
	p := NewProjector(4, 4)
	faces := NewFaces(4)
	faces.Depth[3] = faces.Depth[3][:5]
	assert.Panics(t, func() { p.Project(make([]Coeff, 4), faces) })
	assert.Panics(t, func() { p.Project(make([]Coeff, 3), NewFaces(4)) })
	assert.Panics(t, func() { p.Project(make([]Coeff, 4), NewFaces(8)) })
}
