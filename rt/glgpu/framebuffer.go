package glgpu

import (
	"fmt"

	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// framebuffer is an offscreen render target with any number of color
// attachments and an optional depth attachment.
type framebuffer struct {
	name    string
	handle  uint32
	w, h    int
	formats []gpu.TexFormat
	colors  []*texture
	depth   *texture
	stencil bool
	owned   bool // depth is deleted with the framebuffer
}

// newFramebuffer creates the color attachments in formats and attaches
// depth. With depth nil a private depth texture is created.
func newFramebuffer(name string, w, h int, formats []gpu.TexFormat, depth *texture, stencil bool) (*framebuffer, error) {
	fb := &framebuffer{name: name, w: w, h: h, formats: formats, depth: depth, stencil: stencil}
	gl.GenFramebuffers(1, &fb.handle)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.handle)

	buffers := make([]uint32, len(formats))
	for i, f := range formats {
		tex := newTexture2D(f, w, h, nil)
		fb.colors = append(fb.colors, tex)
		buffers[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, buffers[i], gl.TEXTURE_2D, tex.handle, 0)
	}
	if len(buffers) > 0 {
		gl.DrawBuffers(int32(len(buffers)), &buffers[0])
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	if fb.depth == nil {
		fb.owned = true
		if stencil {
			fb.depth = newDepthStencil(w, h)
		} else {
			fb.depth = newTexture2D(gpu.FormatDepth, w, h, nil)
		}
	}
	attachment := uint32(gl.DEPTH_ATTACHMENT)
	if stencil {
		attachment = gl.DEPTH_STENCIL_ATTACHMENT
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, fb.depth.handle, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.delete()
		return nil, fmt.Errorf("framebuffer %s incomplete: 0x%x", name, status)
	}
	return fb, nil
}

func (fb *framebuffer) bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.handle)
	gl.Viewport(0, 0, int32(fb.w), int32(fb.h))
}

// clear resets every attachment of the bound framebuffer.
func (fb *framebuffer) clear() {
	fb.clearColors()
	gl.DepthMask(true)
	if fb.stencil {
		gl.StencilMask(0xff)
		gl.ClearBufferfi(gl.DEPTH_STENCIL, 0, 1, 0)
	} else {
		one := float32(1)
		gl.ClearBufferfv(gl.DEPTH, 0, &one)
	}
}

func (fb *framebuffer) clearColors() {
	black := [4]float32{}
	zero := [4]uint32{}
	for i, f := range fb.formats {
		if isInteger(f) {
			gl.ClearBufferuiv(gl.COLOR, int32(i), &zero[0])
		} else {
			gl.ClearBufferfv(gl.COLOR, int32(i), &black[0])
		}
	}
}

// blitColor copies color attachment src of fb into dst's first color
// attachment, or into the default framebuffer when dst is nil.
func (fb *framebuffer) blitColor(src int, dst *framebuffer, w, h int) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.handle)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + uint32(src))
	var target uint32
	if dst != nil {
		target = dst.handle
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, target)
	gl.BlitFramebuffer(0, 0, int32(fb.w), int32(fb.h), 0, 0, int32(w), int32(h), gl.COLOR_BUFFER_BIT, gl.NEAREST)
}

func (fb *framebuffer) delete() {
	for _, c := range fb.colors {
		c.delete()
	}
	if fb.owned && fb.depth != nil {
		fb.depth.delete()
	}
	gl.DeleteFramebuffers(1, &fb.handle)
	fb.colors, fb.depth = nil, nil
}
