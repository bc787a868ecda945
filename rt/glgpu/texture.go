package glgpu

import (
	"fmt"

	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type glFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var glFormats = [...]glFormat{
	gpu.FormatFloat1:     {gl.R32F, gl.RED, gl.FLOAT},
	gpu.FormatFloat3:     {gl.RGB32F, gl.RGB, gl.FLOAT},
	gpu.FormatHalfFloat3: {gl.RGB16F, gl.RGB, gl.FLOAT},
	gpu.FormatColor:      {gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE},
	gpu.FormatIndex:      {gl.R32UI, gl.RED_INTEGER, gl.UNSIGNED_INT},
	gpu.FormatFlag:       {gl.R8UI, gl.RED_INTEGER, gl.UNSIGNED_BYTE},
	gpu.FormatMaterial:   {gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE},
	gpu.FormatDepth:      {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
	gpu.FormatYUV:        {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	gpu.FormatRGBA8:      {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
}

func formatOf(f gpu.TexFormat) glFormat {
	if int(f) >= len(glFormats) {
		panic(fmt.Sprintf("glgpu: unknown texture format %d", f))
	}
	return glFormats[f]
}

func isInteger(f gpu.TexFormat) bool {
	format := formatOf(f).format
	return format == gl.RED_INTEGER
}

type texture struct {
	handle uint32
	target uint32
	tex    gpu.Texture
}

func newTexture2D(format gpu.TexFormat, w, h int, pixels []byte) *texture {
	t := &texture{target: gl.TEXTURE_2D}
	gl.GenTextures(1, &t.handle)
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	setSampling(gl.TEXTURE_2D, !isInteger(format) && format != gpu.FormatDepth)

	f := formatOf(format)
	var data any
	if len(pixels) > 0 {
		data = pixels
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.internal, int32(w), int32(h), 0, f.format, f.xtype, gl.Ptr(data))
	return t
}

func newTexture3D(format gpu.TexFormat, w, h, d int) *texture {
	t := &texture{target: gl.TEXTURE_3D}
	gl.GenTextures(1, &t.handle)
	gl.BindTexture(gl.TEXTURE_3D, t.handle)
	setSampling(gl.TEXTURE_3D, true)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	f := formatOf(format)
	gl.TexImage3D(gl.TEXTURE_3D, 0, f.internal, int32(w), int32(h), int32(d), 0, f.format, f.xtype, nil)
	return t
}

// newDepthStencil allocates a combined depth-stencil texture.
func newDepthStencil(w, h int) *texture {
	t := &texture{target: gl.TEXTURE_2D}
	gl.GenTextures(1, &t.handle)
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	setSampling(gl.TEXTURE_2D, false)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH24_STENCIL8, int32(w), int32(h), 0,
		gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8, nil)
	return t
}

func setSampling(target uint32, linear bool) {
	filter := int32(gl.NEAREST)
	if linear {
		filter = gl.LINEAR
	}
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

func (t *texture) delete() {
	gl.DeleteTextures(1, &t.handle)
	t.handle = 0
}
