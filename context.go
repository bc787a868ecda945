package lumen

import (
	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

type shadowObject struct {
	mesh  gpu.Mesh
	trans mgl32.Mat4
}

type emissiveObject struct {
	mesh      gpu.Mesh
	trans     mgl32.Mat4
	surface   core.EmissiveStaticSurface
	materials Materials
}

// chamberContext accumulates what the op stream says about one chamber
// during a frame. It owns the chamber until the frame ends.
type chamberContext struct {
	chamber *Chamber

	majorLights   []AddMajorLight
	ambientLights []AddAmbientLight
	pointLights   []AddPointLight

	shadowObjects   []shadowObject
	emissiveObjects []emissiveObject

	shadeWithIv *ShadeWithIv
}

// renderContext is the per-frame owner of the device and every chamber.
type renderContext struct {
	dev      gpu.Device
	params   rendererParams
	logs     []FrameLog
	camera   *core.Camera
	chambers []*chamberContext
	profiler *Profiler

	images           []DrawImage
	billboards       []DrawBillboard
	internalTextures []ShowInternalTexture
}

func newRenderContext(dev gpu.Device, params rendererParams, chambers []*Chamber, profiler *Profiler) *renderContext {
	ctx := &renderContext{
		dev:      dev,
		params:   params,
		chambers: make([]*chamberContext, len(chambers)),
		profiler: profiler,
	}
	for i, c := range chambers {
		if c != nil {
			ctx.chambers[i] = &chamberContext{chamber: c}
		}
	}
	return ctx
}

func (ctx *renderContext) chamber(i ChamberIndex) (*chamberContext, error) {
	if int(i) >= len(ctx.chambers) || ctx.chambers[i] == nil {
		return nil, invalidChamber(i)
	}
	return ctx.chambers[i], nil
}

// mustCamera is the frame camera; ops that need it before SetCamera are a
// protocol violation.
func (ctx *renderContext) mustCamera(what string) core.Camera {
	if ctx.camera == nil {
		panic("lumen: camera not set before " + what)
	}
	return *ctx.camera
}

// release folds every chamber context back into its chamber.
func (ctx *renderContext) release() []*Chamber {
	out := make([]*Chamber, len(ctx.chambers))
	for i, c := range ctx.chambers {
		if c != nil {
			out[i] = c.chamber
		}
	}
	return out
}
