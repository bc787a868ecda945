package lumen

import (
	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// texture slots shared by every program
const (
	slotBaseColor   = 0
	slotNormal      = 1
	slotGBuffer     = 0
	slotShadowMap   = 6
	slotProbeVolume = 8
	slotImage       = 0
)

func uniformModel(dev gpu.Device, p gpu.Program, trans mgl32.Mat4) {
	dev.UniformMat4(p, gpu.UniformModel, trans)
	dev.UniformMat4(p, gpu.UniformNormalTransform, trans.Inv().Transpose())
}

func uniformCamera(dev gpu.Device, p gpu.Program, cam core.Camera) {
	dev.UniformMat4(p, gpu.UniformProjection, cam.Projection())
	dev.UniformMat4(p, gpu.UniformView, cam.View())
	dev.UniformVec3(p, gpu.UniformCameraPos, cam.Pos)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func bindGeneral(dev gpu.Device, p gpu.Program, s core.GeneralSurface, m Materials) {
	dev.UniformVec3(p, gpu.UniformBaseColor, s.BaseColor)
	dev.UniformFloat(p, gpu.UniformRoughness, s.Roughness)
	dev.UniformFloat(p, gpu.UniformMetalness, s.Metalness)
	dev.UniformInt(p, gpu.UniformUseBaseColorTex, boolInt(m.BaseColor != nil))
	dev.UniformInt(p, gpu.UniformUseNormalTex, boolInt(m.Normal != nil))
	if m.BaseColor != nil {
		dev.BindTexture(p, slotBaseColor, *m.BaseColor)
	}
	if m.Normal != nil {
		dev.BindTexture(p, slotNormal, *m.Normal)
	}
}

func bindEmission(dev gpu.Device, p gpu.Program, emission mgl32.Vec3, weight float32) {
	dev.UniformVec3(p, gpu.UniformEmission, emission)
	dev.UniformFloat(p, gpu.UniformEmissionWeight, weight)
}

// colorVec normalizes an 8-bit RGBA color.
func colorVec(c [4]uint8) mgl32.Vec4 {
	return mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}.Mul(1.0 / 255)
}

func bindFixedColor(dev gpu.Device, p gpu.Program, c [4]uint8) {
	dev.UniformVec4(p, gpu.UniformFixedColor, colorVec(c))
}
