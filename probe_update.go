package lumen

import "github.com/gekko3d/lumen/rt/gpu"

// captureUnit renders emissive geometry unlit into the probe pass.
var captureUnit = gpu.RenderUnit{Color: true, Depth: true, DepthTest: true}

// updateProbe captures the cursor's current face of chamber c, bakes the
// probe once its sixth face is in, and advances the cursor.
func (ctx *renderContext) updateProbe(c *chamberContext) {
	dev := ctx.dev
	dev.BindPass(gpu.PassProbe, 0, true)

	state := &c.chamber.State
	cur := state.Cursor
	cam := state.Suite.Volume().Camera(cur.Index, cur.Face)

	p := gpu.ProgStandardProbe
	dev.UseProgram(p)
	uniformCamera(dev, p, cam)
	dev.SetRenderUnit(p, captureUnit)
	for _, o := range c.emissiveObjects {
		bindGeneral(dev, p, o.surface.GeneralSurface, o.materials)
		bindEmission(dev, p, o.surface.Emission, o.surface.EmissionWeight())
		uniformModel(dev, p, o.trans)
		dev.Draw(o.mesh)
	}

	state.Suite.WriteFace(dev, cur.Face)
	if cur.Complete() {
		state.Suite.UpdateProbe(dev, cur.Index)
		ctx.profiler.AddCount("probes-baked", 1)
	}
	state.advanceProbe()
}
