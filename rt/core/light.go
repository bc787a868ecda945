package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light is the shared part of every shaded light.
type Light struct {
	Pos    mgl32.Vec4
	Color  mgl32.Vec3
	Shadow bool
}

// LightUni is an omni-directional light bounded by a sphere volume.
type LightUni struct {
	Light
	Radius float32
}

// LightDir is a spot light bounded by a pyramid volume and shadowed with Trans.
type LightDir struct {
	Light
	Radius     float32
	XDir       mgl32.Vec3
	YDir       mgl32.Vec3
	Angle      float32
	Round      bool
	Smoothness float32
	Trans      mgl32.Mat4
}

// ProbeVolumeRoom describes the irradiance atlas placement for the GI shading pass.
type ProbeVolumeRoom struct {
	Trans          mgl32.Mat4
	Offset         mgl32.Vec3
	CellSize       mgl32.Vec3
	Nums           Vec3i
	RoomSize       mgl32.Vec3
	PaddedRoomSize mgl32.Vec3
	Params         int
	Weight         float32
}

// LightVolumeDirTransform maps the unit pyramid mesh onto the light's cone.
func LightVolumeDirTransform(l LightDir) mgl32.Mat4 {
	halfTan := float32(math.Tan(float64(l.Angle / 2)))
	trans := mgl32.Translate3D(l.Pos.X(), l.Pos.Y(), l.Pos.Z())
	trans = trans.Mul4(RotationBetween(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}, l.XDir, l.YDir))
	trans = trans.Mul4(mgl32.Scale3D(l.Radius, l.Radius, l.Radius))
	trans = trans.Mul4(mgl32.Scale3D(halfTan, halfTan, 1))
	trans = trans.Mul4(mgl32.Translate3D(0, 0, 1))
	return trans.Mul4(mgl32.HomogRotate3DX(math.Pi))
}

const (
	linear1End       = 127
	linear1EndWeight = 32.0
	linear2EndWeight = 4096.0
)

// IntensityToWeight maps [0, 255] to [0, 4096], linear up to 127 -> 32 then steeper.
func IntensityToWeight(intensity uint8) float32 {
	if intensity <= linear1End {
		return float32(intensity) / linear1End * linear1EndWeight
	}
	return float32(intensity-linear1End)/float32(255-linear1End)*(linear2EndWeight-linear1EndWeight) + linear1EndWeight
}

// WeightToIntensity is the inverse of IntensityToWeight.
func WeightToIntensity(weight float32) uint8 {
	if weight >= linear1EndWeight {
		if weight > linear2EndWeight {
			weight = linear2EndWeight
		}
		return linear1End + uint8(math.Round(float64((weight-linear1EndWeight)/(linear2EndWeight-linear1EndWeight)*float32(255-linear1End))))
	}
	return uint8(math.Round(float64(weight / linear1EndWeight * linear1End)))
}
