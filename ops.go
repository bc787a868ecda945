package lumen

import (
	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// ChamberIndex addresses a chamber slot of an Instance.
type ChamberIndex uint32

// RenderOp is one unit of rendering work pushed through a Frame. The set of
// ops is closed.
type RenderOp interface {
	renderOp()
}

// Frame control markers. Only Frame emits these.
type (
	startFrame struct{}
	endFrame   struct{}
	abortFrame struct{}
)

// SetCamera replaces the frame camera.
type SetCamera struct {
	Camera core.Camera
}

// Object is a mesh placed in a chamber.
type Object struct {
	Mesh gpu.Mesh
	// Shadow includes the object in the shadow pass of major lights.
	Shadow  bool
	Trans   mgl32.Mat4
	Chamber ChamberIndex
}

// Materials are optional texture sources overriding surface constants.
type Materials struct {
	BaseColor *gpu.Texture
	Normal    *gpu.Texture
}

type DrawGeneral struct {
	Object    Object
	Surface   core.GeneralSurface
	Materials Materials
}

type DrawEmissiveStatic struct {
	Object    Object
	Surface   core.EmissiveStaticSurface
	Materials Materials
	// PointLight, when in (0, 1], adds a point light at the object's
	// origin approximating its emission scaled by the value.
	PointLight float32
}

// DrawEmissiveDynamic is drawn like DrawEmissiveStatic but is never seen by
// probe captures.
type DrawEmissiveDynamic struct {
	Object    Object
	Surface   core.EmissiveDynamicSurface
	Materials Materials
}

type DrawLine struct {
	Pos1, Pos2 mgl32.Vec3
	Color      [4]uint8
	Width      float32
}

type DrawWireFrame struct {
	Mesh  gpu.Mesh
	Trans mgl32.Mat4
	Color [4]uint8
	Width float32
}

// AddMajorLight is a shadowed spot light. XDir and YDir are the camera-space
// axes of the light; Perspective is its field of view in radians.
type AddMajorLight struct {
	Pos         mgl32.Vec3
	Color       mgl32.Vec3
	XDir, YDir  mgl32.Vec3
	Perspective float32
	Chamber     ChamberIndex
}

// MajorLightOmni is an omni-directional major light, realized as six 90
// degree spot lights. Push its Op.
type MajorLightOmni struct {
	Pos     mgl32.Vec3
	Color   mgl32.Vec3
	Chamber ChamberIndex
}

func (m MajorLightOmni) Op() Multiple {
	ops := make(Multiple, 0, core.FaceCount)
	for f := core.Face(0); f < core.FaceCount; f++ {
		x, y := core.FaceAxes(f)
		ops = append(ops, AddMajorLight{
			Pos:         m.Pos,
			Color:       m.Color,
			XDir:        x,
			YDir:        y,
			Perspective: mgl32.DegToRad(90),
			Chamber:     m.Chamber,
		})
	}
	return ops
}

type AddPointLight struct {
	Pos     mgl32.Vec3
	Color   mgl32.Vec3
	Chamber ChamberIndex
}

type AddAmbientLight struct {
	Color mgl32.Vec3
	// Omni selects the omni-lighting program over plain ambient.
	Omni    bool
	Chamber ChamberIndex
}

// ShadeWithIv shades a chamber with its irradiance volume. At most one per
// chamber per frame; Weight is in [0, 1].
type ShadeWithIv struct {
	Chamber ChamberIndex
	Weight  float32
}

// DrawImage draws a texture in screen space. Pos is in pixels from the
// lower-left screen corner, Size scales the texture's own size.
type DrawImage struct {
	Texture  gpu.Texture
	Pos      mgl32.Vec2
	Size     mgl32.Vec2
	Rotation float32
	Color    mgl32.Vec4
}

// DrawBillboard draws a texture facing the screen at a world position.
type DrawBillboard struct {
	Texture    gpu.Texture
	DepthTest  bool
	DepthWrite bool
	Pos        mgl32.Vec3
	Size       mgl32.Vec2
	Rotation   float32
	Color      mgl32.Vec4
}

// VisualizeProbes draws every probe of a chamber as a small sphere shaded
// with its illumination coefficients.
type VisualizeProbes struct {
	Chamber ChamberIndex
}

// ShowInternalTexture blits a named internal texture for debugging.
type ShowInternalTexture struct {
	Name string
	Pos  mgl32.Vec2
	Size mgl32.Vec2
}

// Multiple is an ordered batch of ops, dispatched as if pushed one by one.
type Multiple []RenderOp

func (startFrame) renderOp()          {}
func (endFrame) renderOp()            {}
func (abortFrame) renderOp()          {}
func (SetCamera) renderOp()           {}
func (DrawGeneral) renderOp()         {}
func (DrawEmissiveStatic) renderOp()  {}
func (DrawEmissiveDynamic) renderOp() {}
func (DrawLine) renderOp()            {}
func (DrawWireFrame) renderOp()       {}
func (AddMajorLight) renderOp()       {}
func (AddPointLight) renderOp()       {}
func (AddAmbientLight) renderOp()     {}
func (ShadeWithIv) renderOp()         {}
func (DrawImage) renderOp()           {}
func (DrawBillboard) renderOp()       {}
func (VisualizeProbes) renderOp()     {}
func (ShowInternalTexture) renderOp() {}
func (Multiple) renderOp()            {}
