// Package probe owns the irradiance probe grid of a chamber, its padded
// SH atlas, and the cursor that bakes it one cubemap face per frame.
package probe

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/sh"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Params is the SH coefficient count stored per probe.
	Params = sh.MaxCoefficients
	// MinGap keeps probes off the chamber walls.
	MinGap float32 = 4

	captureNear float32 = 0.2
	captureFar  float32 = 200
)

// Probe is one sample point of the grid.
type Probe struct {
	Pos mgl32.Vec3
	SH  []sh.Coeff
}

// Volume is the probe grid of one chamber and the flattened atlas the
// irradiance shader samples. Atlas layout is X fastest, then Y, then Z,
// with one border cell on every side, and the Params coefficient volumes
// stacked along Z.
type Volume struct {
	projector *sh.Projector
	roomSize  mgl32.Vec3

	number   core.Vec3i
	cellSize mgl32.Vec3
	offset   mgl32.Vec3
	probes   []Probe

	textureSize  core.Vec3i
	diffuse      []float32
	illumination []float32
	depth        []float32
}

// NewVolume lays out a grid over roomSize with roughly spacing between
// probes. Placeholder coefficients are drawn from rng, or from the global
// source when rng is nil.
func NewVolume(roomSize mgl32.Vec3, spacing float32, res int, rng *rand.Rand) (*Volume, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("probe spacing must be positive, got %v", spacing)
	}
	if res <= 0 {
		return nil, fmt.Errorf("probe resolution must be positive, got %d", res)
	}
	shrunk := roomSize.Sub(core.Splat(MinGap * 2))

	v := &Volume{roomSize: roomSize}
	for i := 0; i < 3; i++ {
		n := int(math.Round(float64(shrunk[i] / spacing)))
		if n <= 0 {
			return nil, fmt.Errorf("room size %v too small for probe spacing %v", roomSize, spacing)
		}
		v.cellSize[i] = shrunk[i] / float32(n)
		v.number[i] = n + 1
	}

	unit := func() float32 {
		if rng != nil {
			return rng.Float32()
		}
		return rand.Float32()
	}
	signed := func() float32 { return unit()*2 - 1 }

	grid := core.Grid3{Size: v.number}
	v.probes = make([]Probe, grid.Len())
	center := mgl32.Vec3{roomSize.X(), roomSize.Y(), 0}.Mul(0.5)
	core.Each3(v.number, func(p core.Vec3i) {
		coeffs := make([]sh.Coeff, Params)
		for c := range coeffs {
			coeffs[c] = sh.Coeff{
				Diffuse:      mgl32.Vec3{signed(), signed(), signed()},
				Illumination: mgl32.Vec3{signed(), signed(), signed()},
				Depth:        unit(),
			}
		}
		idx := mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
		v.probes[grid.Index(p)] = Probe{
			Pos: core.CompMul(idx, v.cellSize).Add(core.Splat(MinGap)).Sub(center),
			SH:  coeffs,
		}
	})
	v.offset = v.probes[0].Pos.Add(center)

	v.textureSize = core.Vec3i{v.number[0] + 2, v.number[1] + 2, (v.number[2] + 2) * Params}
	texels := v.textureSize.Volume()
	v.diffuse = make([]float32, texels*3)
	v.illumination = make([]float32, texels*3)
	v.depth = make([]float32, texels)

	v.projector = sh.NewProjector(res, Params)
	return v, nil
}

func (v *Volume) Number() core.Vec3i             { return v.number }
func (v *Volume) CellSize() mgl32.Vec3           { return v.cellSize }
func (v *Volume) RoomSize() mgl32.Vec3           { return v.roomSize }
func (v *Volume) Resolution() int                { return v.projector.Cache.Res }
func (v *Volume) Probes() []Probe                { return v.probes }
func (v *Volume) TextureSize() core.Vec3i        { return v.textureSize }
func (v *Volume) TextureIllumination() []float32 { return v.illumination }
func (v *Volume) TextureDepth() []float32        { return v.depth }
func (v *Volume) TextureDiffuse() []float32      { return v.diffuse }

// Offset is the position of probe (0,0,0) relative to the chamber floor corner.
func (v *Volume) Offset() mgl32.Vec3 { return v.offset }

// Probe returns the probe at grid index idx.
func (v *Volume) Probe(idx core.Vec3i) *Probe {
	return &v.probes[core.Grid3{Size: v.number}.Index(idx)]
}

// Camera is the capture camera for face of the probe at idx.
func (v *Volume) Camera(idx core.Vec3i, face core.Face) core.Camera {
	pos := v.Probe(idx).Pos
	_, up := core.FaceAxes(face)
	return core.NewCamera(pos, pos.Add(core.FaceForward(face)), up,
		mgl32.DegToRad(90), 1, captureNear, captureFar)
}

// UpdateProbe rebakes the probe at idx from a full cubemap capture. Prior
// coefficients are discarded.
func (v *Volume) UpdateProbe(idx core.Vec3i, faces *sh.Faces) {
	v.projector.Project(v.Probe(idx).SH, faces)
}

// AtlasIndex is the texel index of grid cell loc (which may lie on the
// border, -1 or n) in coefficient volume t.
func (v *Volume) AtlasIndex(loc core.Vec3i, t int) int {
	padded := core.Grid3{Size: core.Vec3i{v.number[2] + 2, v.number[1] + 2, v.number[0] + 2}}
	return padded.Index(core.Vec3i{loc[2] + 1, loc[1] + 1, loc[0] + 1}) + t*padded.Len()
}

func (v *Volume) copyTexel(dst, src core.Vec3i) {
	for t := 0; t < Params; t++ {
		d, s := v.AtlasIndex(dst, t), v.AtlasIndex(src, t)
		copy(v.diffuse[d*3:d*3+3], v.diffuse[s*3:s*3+3])
		copy(v.illumination[d*3:d*3+3], v.illumination[s*3:s*3+3])
		v.depth[d] = v.depth[s]
	}
}

// UpdateTexture rewrites the atlas from the probe coefficients and clamps
// every border cell to its nearest interior cell.
func (v *Volume) UpdateTexture() {
	grid := core.Grid3{Size: v.number}
	core.Each3(v.number, func(p core.Vec3i) {
		coeffs := v.probes[grid.Index(p)].SH
		for t, c := range coeffs {
			i := v.AtlasIndex(p, t)
			copy(v.diffuse[i*3:i*3+3], c.Diffuse[:])
			copy(v.illumination[i*3:i*3+3], c.Illumination[:])
			v.depth[i] = c.Depth
		}
	})

	n := v.number
	last := core.Vec3i{n[0] - 1, n[1] - 1, n[2] - 1}

	// faces: two free axes span the interior, the third sits on a border
	for _, plane := range [...]struct {
		free0, free1, fixed int
		pad, src            int
	}{
		{0, 1, 2, -1, 0},
		{1, 2, 0, -1, 0},
		{0, 2, 1, -1, 0},
		{0, 1, 2, n[2], last[2]},
		{1, 2, 0, n[0], last[0]},
		{0, 2, 1, n[1], last[1]},
	} {
		core.Each2(n[plane.free0], n[plane.free1], func(a, b int) {
			var dst, src core.Vec3i
			dst[plane.free0], src[plane.free0] = a, a
			dst[plane.free1], src[plane.free1] = b, b
			dst[plane.fixed], src[plane.fixed] = plane.pad, plane.src
			v.copyTexel(dst, src)
		})
	}

	// edges: one free axis, the other two on borders
	for axis := 0; axis < 3; axis++ {
		o0, o1 := (axis+1)%3, (axis+2)%3
		for _, s0 := range [2][2]int{{-1, 0}, {n[o0], last[o0]}} {
			for _, s1 := range [2][2]int{{-1, 0}, {n[o1], last[o1]}} {
				for i := 0; i < n[axis]; i++ {
					var dst, src core.Vec3i
					dst[axis], src[axis] = i, i
					dst[o0], src[o0] = s0[0], s0[1]
					dst[o1], src[o1] = s1[0], s1[1]
					v.copyTexel(dst, src)
				}
			}
		}
	}

	// corners
	for _, sx := range [2][2]int{{-1, 0}, {n[0], last[0]}} {
		for _, sy := range [2][2]int{{-1, 0}, {n[1], last[1]}} {
			for _, sz := range [2][2]int{{-1, 0}, {n[2], last[2]}} {
				v.copyTexel(core.Vec3i{sx[0], sy[0], sz[0]}, core.Vec3i{sx[1], sy[1], sz[1]})
			}
		}
	}
}

// Room is the shader-side description of the volume placed in a chamber.
func (v *Volume) Room(weight float32) core.ProbeVolumeRoom {
	return core.ProbeVolumeRoom{
		Trans:          mgl32.Ident4(),
		Offset:         v.offset,
		CellSize:       v.cellSize,
		Nums:           v.number,
		RoomSize:       v.roomSize,
		PaddedRoomSize: core.CompMul(v.cellSize, mgl32.Vec3{float32(v.number[0]), float32(v.number[1]), float32(v.number[2])}),
		Params:         Params,
		Weight:         weight,
	}
}
