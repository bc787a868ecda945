package lumen

import (
	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	majorLightRadius     = 500
	majorLightSmoothness = 0.5
	majorLightNear       = 0.1
	majorLightFar        = 1000
	pointLightRadius     = 200
)

// shadowUnit writes depth only.
var shadowUnit = gpu.RenderUnit{Depth: true, DepthTest: true}

// prepareMajorLight builds the shading record and the shadow camera of l.
func prepareMajorLight(l AddMajorLight) (core.LightDir, core.Camera) {
	dir := l.XDir.Cross(l.YDir).Normalize().Mul(-1)
	cam := core.NewCamera(l.Pos, l.Pos.Add(dir), l.YDir, l.Perspective, 1, majorLightNear, majorLightFar)
	return core.LightDir{
		Light: core.Light{
			Pos:    l.Pos.Vec4(1),
			Color:  l.Color,
			Shadow: true,
		},
		Radius:     majorLightRadius,
		XDir:       l.XDir,
		YDir:       l.YDir,
		Angle:      l.Perspective,
		Smoothness: majorLightSmoothness,
		Trans:      cam.ViewProjection(),
	}, cam
}

func uniformLight(dev gpu.Device, p gpu.Program, l core.Light, radius float32) {
	dev.UniformVec4(p, gpu.UniformLightPos, l.Pos)
	dev.UniformVec3(p, gpu.UniformLightColor, l.Color)
	dev.UniformInt(p, gpu.UniformLightShadow, boolInt(l.Shadow))
	dev.UniformFloat(p, gpu.UniformLightRadius, radius)
}

func uniformLightDir(dev gpu.Device, p gpu.Program, l core.LightDir) {
	uniformLight(dev, p, l.Light, l.Radius)
	dev.UniformVec3(p, gpu.UniformLightXDir, l.XDir)
	dev.UniformVec3(p, gpu.UniformLightYDir, l.YDir)
	dev.UniformFloat(p, gpu.UniformLightAngle, l.Angle)
	dev.UniformFloat(p, gpu.UniformLightSmoothness, l.Smoothness)
	dev.UniformMat4(p, gpu.UniformLightTrans, l.Trans)
}

func uniformProbeVolume(dev gpu.Device, p gpu.Program, room core.ProbeVolumeRoom) {
	dev.UniformMat4(p, gpu.UniformPVTrans, room.Trans)
	dev.UniformVec3(p, gpu.UniformPVOffset, room.Offset)
	dev.UniformVec3(p, gpu.UniformPVCellSize, room.CellSize)
	dev.UniformVec3(p, gpu.UniformPVNums, mgl32.Vec3{float32(room.Nums[0]), float32(room.Nums[1]), float32(room.Nums[2])})
	dev.UniformVec3(p, gpu.UniformPVRoomSize, room.RoomSize)
	dev.UniformVec3(p, gpu.UniformPVPaddedRoomSize, room.PaddedRoomSize)
	dev.UniformInt(p, gpu.UniformPVParams, int32(room.Params))
	dev.UniformFloat(p, gpu.UniformPVWeight, room.Weight)
}

func (ctx *renderContext) drawLightVolume(p gpu.Program, mesh gpu.Builtin, model mgl32.Mat4) {
	uniformModel(ctx.dev, p, model)
	ctx.dev.DrawLightVolume(ctx.dev.BuiltinMesh(mesh))
	ctx.profiler.AddCount("light-volumes", 1)
}

func (ctx *renderContext) renderShadowWorld(c *chamberContext) {
	p := gpu.ProgShadow
	ctx.dev.SetRenderUnit(p, shadowUnit)
	for _, o := range c.shadowObjects {
		uniformModel(ctx.dev, p, o.trans)
		ctx.dev.Draw(o.mesh)
	}
}

// shade accumulates the direct and irradiance lighting of chamber i into
// the second deferred pass.
func (ctx *renderContext) shade(i int) {
	c := ctx.chambers[i]
	if c == nil {
		return
	}
	ctx.mustCamera("shading")
	dev := ctx.dev
	dev.BindPass(gpu.PassDeferred2, 0, false)
	volume := c.chamber.lightVolume()

	for _, omni := range []bool{true, false} {
		p := gpu.ProgLightAmbient
		if omni {
			p = gpu.ProgLightOmni
		}
		dev.UseProgram(p)
		dev.BindGBuffer(p, slotGBuffer)
		for _, l := range c.ambientLights {
			if l.Omni != omni {
				continue
			}
			dev.UniformVec3(p, gpu.UniformAmbient, l.Color)
			ctx.drawLightVolume(p, gpu.MeshCube, volume)
		}
	}

	for _, ml := range c.majorLights {
		light, lightCam := prepareMajorLight(ml)
		if ctx.params.enableShadow {
			dev.BindPass(gpu.PassShadow, 0, true)
			dev.UseProgram(gpu.ProgShadow)
			uniformCamera(dev, gpu.ProgShadow, lightCam)
			ctx.renderShadowWorld(c)
			dev.BindPass(gpu.PassDeferred2, 0, false)
		} else {
			light.Shadow = false
		}

		p := gpu.ProgLight
		dev.UseProgram(p)
		dev.BindGBuffer(p, slotGBuffer)
		if light.Shadow {
			dev.BindShadowMap(p, slotShadowMap, 0)
		}
		uniformLightDir(dev, p, light)
		ctx.drawLightVolume(p, gpu.MeshPyramid, core.LightVolumeDirTransform(light))
	}

	p := gpu.ProgLight
	dev.UseProgram(p)
	dev.BindGBuffer(p, slotGBuffer)
	for _, pl := range c.pointLights {
		light := core.LightUni{
			Light:  core.Light{Pos: pl.Pos.Vec4(1), Color: pl.Color, Shadow: true},
			Radius: pointLightRadius,
		}
		uniformLight(dev, p, light.Light, light.Radius)
		// a zero cone angle selects the omni falloff
		dev.UniformFloat(p, gpu.UniformLightAngle, 0)
		model := mgl32.Translate3D(pl.Pos.X(), pl.Pos.Y(), pl.Pos.Z()).
			Mul4(mgl32.Scale3D(light.Radius, light.Radius, light.Radius))
		ctx.drawLightVolume(p, gpu.MeshSphere, model)
	}

	if c.shadeWithIv != nil && ctx.params.enableIrradianceVolume {
		suite := c.chamber.State.Suite
		room := suite.Volume().Room(c.shadeWithIv.Weight)
		room.RoomSize = c.chamber.Config.Size
		bpos := c.chamber.Config.BPos
		room.Trans = mgl32.Translate3D(-bpos.X(), -bpos.Y(), -bpos.Z())

		p := gpu.ProgLightIrradiance
		dev.UseProgram(p)
		dev.BindGBuffer(p, slotGBuffer)
		dev.BindTexture(p, slotProbeVolume, suite.IlluminationTexture())
		dev.BindTexture(p, slotProbeVolume+1, suite.DepthTexture())
		uniformProbeVolume(dev, p, room)
		ctx.drawLightVolume(p, gpu.MeshCube, volume)
	}
}
