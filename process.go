package lumen

import (
	"fmt"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

var outlineColor = [4]uint8{0, 255, 255, 255}

// geometryUnit is the render unit of lit geometry in the first deferred pass.
var geometryUnit = gpu.RenderUnit{Color: true, Depth: true, DepthTest: true, Lighting: gpu.LightingDefFull}

// fixedUnit draws debug geometry with a fixed color.
var fixedUnit = gpu.RenderUnit{Color: true, Depth: true, DepthTest: true, Lighting: gpu.LightingDefFixed}

// processOp dispatches one op. It may return a follow-up op to dispatch
// after the ones already queued.
func (ctx *renderContext) processOp(op RenderOp) (RenderOp, error) {
	dev := ctx.dev
	switch op := op.(type) {
	case Multiple:
		panic("lumen: Multiple reached processOp")

	case startFrame:
		dev.BindPass(gpu.PassDeferred1, 0, true)

	case SetCamera:
		for _, p := range gpu.CameraPrograms {
			uniformCamera(dev, p, op.Camera)
		}
		cam := op.Camera
		ctx.camera = &cam

	case DrawLine:
		p := gpu.ProgStandard
		dev.UseProgram(p)
		dev.SetRenderUnit(p, fixedUnit)
		bindFixedColor(dev, p, op.Color)
		dev.UniformVec3(p, gpu.UniformLinePos1, op.Pos1)
		dev.UniformVec3(p, gpu.UniformLinePos2, op.Pos2)
		dev.UniformFloat(p, gpu.UniformLineWidth, op.Width)
		dev.DrawLine()
		ctx.profiler.AddCount("draws", 1)

	case DrawWireFrame:
		p := gpu.ProgStandard
		dev.UseProgram(p)
		dev.SetRenderUnit(p, fixedUnit)
		uniformModel(dev, p, op.Trans)
		bindFixedColor(dev, p, op.Color)
		dev.UniformFloat(p, gpu.UniformLineWidth, op.Width)
		dev.DrawWireframe(op.Mesh)
		ctx.profiler.AddCount("draws", 1)

	case DrawGeneral:
		c, err := ctx.chamber(op.Object.Chamber)
		if err != nil {
			return nil, err
		}
		ctx.drawObject(op.Object, func(p gpu.Program) {
			bindGeneral(dev, p, op.Surface, op.Materials)
			bindEmission(dev, p, mgl32.Vec3{}, 0)
		})
		if op.Object.Shadow {
			c.shadowObjects = append(c.shadowObjects, shadowObject{mesh: op.Object.Mesh, trans: op.Object.Trans})
		}

	case DrawEmissiveStatic:
		c, err := ctx.chamber(op.Object.Chamber)
		if err != nil {
			return nil, err
		}
		ctx.drawObject(op.Object, func(p gpu.Program) {
			bindGeneral(dev, p, op.Surface.GeneralSurface, op.Materials)
			bindEmission(dev, p, op.Surface.Emission, op.Surface.EmissionWeight())
		})
		if op.Object.Shadow {
			c.shadowObjects = append(c.shadowObjects, shadowObject{mesh: op.Object.Mesh, trans: op.Object.Trans})
		}
		c.emissiveObjects = append(c.emissiveObjects, emissiveObject{
			mesh:      op.Object.Mesh,
			trans:     op.Object.Trans,
			surface:   op.Surface,
			materials: op.Materials,
		})
		if op.PointLight > 0 {
			return AddPointLight{
				Pos:     core.Translation(op.Object.Trans),
				Color:   op.Surface.Emission.Mul(op.Surface.EmissionWeight() * min(op.PointLight, 1)),
				Chamber: op.Object.Chamber,
			}, nil
		}

	case DrawEmissiveDynamic:
		c, err := ctx.chamber(op.Object.Chamber)
		if err != nil {
			return nil, err
		}
		ctx.drawObject(op.Object, func(p gpu.Program) {
			bindGeneral(dev, p, op.Surface.GeneralSurface, op.Materials)
			bindEmission(dev, p, op.Surface.Emission, op.Surface.EmissionWeight())
		})
		if op.Object.Shadow {
			c.shadowObjects = append(c.shadowObjects, shadowObject{mesh: op.Object.Mesh, trans: op.Object.Trans})
		}

	case AddMajorLight:
		c, err := ctx.chamber(op.Chamber)
		if err != nil {
			return nil, err
		}
		c.majorLights = append(c.majorLights, op)
		ctx.profiler.AddCount("lights", 1)
		if ctx.params.debugLightVolumeOutline {
			light, _ := prepareMajorLight(op)
			return DrawWireFrame{
				Mesh:  dev.BuiltinMesh(gpu.MeshPyramid),
				Trans: core.LightVolumeDirTransform(light),
				Color: outlineColor,
				Width: 1,
			}, nil
		}

	case AddAmbientLight:
		c, err := ctx.chamber(op.Chamber)
		if err != nil {
			return nil, err
		}
		c.ambientLights = append(c.ambientLights, op)
		ctx.profiler.AddCount("lights", 1)

	case AddPointLight:
		c, err := ctx.chamber(op.Chamber)
		if err != nil {
			return nil, err
		}
		c.pointLights = append(c.pointLights, op)
		ctx.profiler.AddCount("lights", 1)

	case ShadeWithIv:
		c, err := ctx.chamber(op.Chamber)
		if err != nil {
			return nil, err
		}
		if c.shadeWithIv != nil {
			return nil, &OpError{
				Kind:    KindInvalidShade,
				Chamber: op.Chamber,
				Detail:  fmt.Sprintf("ShadeWithIv on chamber #%d", op.Chamber),
			}
		}
		c.shadeWithIv = &op

	case VisualizeProbes:
		c, err := ctx.chamber(op.Chamber)
		if err != nil {
			return nil, err
		}
		ctx.visualizeProbes(c)

	case DrawImage:
		ctx.images = append(ctx.images, op)

	case DrawBillboard:
		ctx.billboards = append(ctx.billboards, op)

	case ShowInternalTexture:
		ctx.internalTextures = append(ctx.internalTextures, op)

	default:
		panic(fmt.Sprintf("lumen: %T must not reach processOp", op))
	}
	return nil, nil
}

// drawObject issues one lit draw of o with the standard program; bind sets
// the surface uniforms.
func (ctx *renderContext) drawObject(o Object, bind func(p gpu.Program)) {
	p := gpu.ProgStandard
	ctx.dev.UseProgram(p)
	ctx.dev.SetRenderUnit(p, geometryUnit)
	uniformModel(ctx.dev, p, o.Trans)
	bind(p)
	ctx.dev.Draw(o.Mesh)
	ctx.profiler.AddCount("draws", 1)
}

const probeMarkerScale = 4

func (ctx *renderContext) visualizeProbes(c *chamberContext) {
	p := gpu.ProgSHVisualizeSingle
	dev := ctx.dev
	dev.UseProgram(p)
	sphere := dev.BuiltinMesh(gpu.MeshSphere)
	for _, pr := range c.chamber.State.Suite.Volume().Probes() {
		sh := make([]mgl32.Vec3, len(pr.SH))
		for i, coeff := range pr.SH {
			sh[i] = coeff.Illumination
		}
		dev.UniformVec3s(p, gpu.UniformSH, sh)
		trans := mgl32.Translate3D(pr.Pos.X(), pr.Pos.Y(), pr.Pos.Z()).
			Mul4(mgl32.Scale3D(probeMarkerScale, probeMarkerScale, probeMarkerScale))
		uniformModel(dev, p, trans)
		dev.Draw(sphere)
	}
}
