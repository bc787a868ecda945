package lumen

import (
	"fmt"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

var imageUnit = gpu.RenderUnit{Color: true}

// internal textures ShowInternalTexture accepts
var internalTextureNames = map[string]bool{
	"iv_illusion": true,
}

// screenQuad is the model transform of the unit square with its corner at
// pos and extent size, both in normalized device units, rotated clockwise
// by rotation.
func screenQuad(pos, size mgl32.Vec2, rotation float32) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), 0).
		Mul4(mgl32.Scale3D(size.X(), size.Y(), 1)).
		Mul4(mgl32.HomogRotate3D(rotation, mgl32.Vec3{0, 0, -1}))
}

func compDiv2(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{a.X() / b.X(), a.Y() / b.Y()}
}

func compMul2(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{a.X() * b.X(), a.Y() * b.Y()}
}

func textureSize2(t gpu.Texture) mgl32.Vec2 {
	return mgl32.Vec2{float32(t.Size[0]), float32(t.Size[1])}
}

// imageScale converts a texture-relative size to normalized device units.
func imageScale(size mgl32.Vec2, tex gpu.Texture, screen mgl32.Vec2) mgl32.Vec2 {
	return compDiv2(compMul2(size, textureSize2(tex)), screen).Mul(2)
}

// renderImages draws the frame's images and billboards over the lit image.
func (ctx *renderContext) renderImages() {
	dev := ctx.dev
	p := gpu.ProgImage
	dev.UseProgram(p)
	dev.SetRenderUnit(p, imageUnit)
	square := dev.BuiltinMesh(gpu.MeshSquare)
	ss := dev.ScreenSize()
	screen := mgl32.Vec2{float32(ss[0]), float32(ss[1])}

	for _, img := range ctx.images {
		dev.BindTexture(p, slotImage, img.Texture)
		dev.UniformVec4(p, gpu.UniformFixedColor, img.Color)
		pos := compDiv2(img.Pos, screen).Mul(2).Sub(mgl32.Vec2{1, 1})
		uniformModel(dev, p, screenQuad(pos, imageScale(img.Size, img.Texture, screen), img.Rotation))
		dev.Draw(square)
		ctx.profiler.AddCount("images", 1)
	}

	for _, tex := range ctx.internalTextures {
		if !internalTextureNames[tex.Name] {
			ctx.logs = append(ctx.logs, newFrameLog(KindOther, fmt.Sprintf("Invalid internal texture name: %s", tex.Name)))
		}
		// TODO: blit a slice of the irradiance atlas once the image program samples 3D textures.
	}

	if len(ctx.billboards) == 0 {
		return
	}
	cam := ctx.mustCamera("DrawBillboard")
	vp := cam.ViewProjection()
	frustum := core.ExtractFrustum(vp)
	for _, bb := range ctx.billboards {
		if !core.PointInFrustum(bb.Pos, frustum) {
			continue
		}
		dev.SetRenderUnit(p, gpu.RenderUnit{Color: true, Depth: bb.DepthWrite, DepthTest: bb.DepthTest})
		dev.BindTexture(p, slotImage, bb.Texture)
		dev.UniformVec4(p, gpu.UniformFixedColor, bb.Color)
		ndc := core.ProjectNDC(vp, bb.Pos)
		uniformModel(dev, p, screenQuad(ndc.Vec2(), imageScale(bb.Size, bb.Texture, screen), bb.Rotation))
		dev.Draw(square)
		ctx.profiler.AddCount("billboards", 1)
	}
}
