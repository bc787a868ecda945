// Package glgpu implements gpu.Device on OpenGL 4.1 core. Every method must
// run on the thread that owns the current GL context.
package glgpu

import (
	"errors"
	"fmt"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Logger receives GL errors found after each frame.
type Logger interface {
	Warnf(format string, args ...any)
}

// g-buffer color attachments of the first deferred pass
const (
	gbufPosition = iota
	gbufNormal
	gbufBaseColor
	gbufMaterial
	gbufEmission
	gbufIndex

	// attachments BindGBuffer exposes to light programs
	gbufSampled = gbufMaterial + 1
)

var gbufFormats = []gpu.TexFormat{
	gbufPosition:  gpu.FormatFloat3,
	gbufNormal:    gpu.FormatHalfFloat3,
	gbufBaseColor: gpu.FormatColor,
	gbufMaterial:  gpu.FormatMaterial,
	gbufEmission:  gpu.FormatFloat3,
	gbufIndex:     gpu.FormatIndex,
}

// probe pass color attachments
const (
	probeDiffuse = iota
	probeIllumination
)

type Device struct {
	cfg    gpu.DeviceConfig
	logger Logger

	programs [gpu.ProgramCount]*program
	meshes   *gpu.Registry[*mesh]
	textures *gpu.Registry[*texture]
	builtins [gpu.BuiltinCount]gpu.Mesh

	deferred1 *framebuffer
	deferred2 *framebuffer
	shadows   []*framebuffer
	probe     *framebuffer
	composite *framebuffer

	current gpu.Program
	bound   *framebuffer
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL bindings, compiles every program and allocates the
// passes sized by cfg.
func New(cfg gpu.DeviceConfig, logger Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgpu: init: %w", err)
	}
	d := &Device{
		cfg:      cfg,
		logger:   logger,
		meshes:   gpu.NewRegistry[*mesh](),
		textures: gpu.NewRegistry[*texture](),
		current:  gpu.ProgramCount,
	}
	if err := d.init(); err != nil {
		d.Release()
		return nil, err
	}
	return d, nil
}

func (d *Device) init() error {
	var errs []error
	for p := gpu.Program(0); p < gpu.ProgramCount; p++ {
		pr, err := newProgram(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		d.programs[p] = pr
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("glgpu: programs: %w", err)
	}

	w, h := d.cfg.Resolution[0], d.cfg.Resolution[1]
	var err error
	if d.deferred1, err = newFramebuffer("deferred1", w, h, gbufFormats, nil, true); err != nil {
		return err
	}
	if d.deferred2, err = newFramebuffer("deferred2", w, h, []gpu.TexFormat{gpu.FormatFloat3}, d.deferred1.depth, true); err != nil {
		return err
	}
	for i := 0; i < max(1, d.cfg.MaxMajorLights); i++ {
		s := d.cfg.ShadowResolution
		fb, err := newFramebuffer(fmt.Sprintf("shadow%d", i), s, s, nil, nil, false)
		if err != nil {
			return err
		}
		d.shadows = append(d.shadows, fb)
	}
	r := d.cfg.ProbeResolution
	if d.probe, err = newFramebuffer("probe", r, r, []gpu.TexFormat{gpu.FormatFloat3, gpu.FormatFloat3}, nil, false); err != nil {
		return err
	}
	if d.composite, err = newFramebuffer("composite", w, h, []gpu.TexFormat{gpu.FormatRGBA8}, nil, false); err != nil {
		return err
	}

	for b := gpu.Builtin(0); b < gpu.BuiltinCount; b++ {
		d.builtins[b] = d.CreateMesh(gpu.BuiltinData(b))
	}
	return nil
}

// Release frees every GL object the device created.
func (d *Device) Release() {
	for i, p := range d.programs {
		if p != nil {
			p.delete()
			d.programs[i] = nil
		}
	}
	for _, fb := range append([]*framebuffer{d.deferred2, d.deferred1, d.probe, d.composite}, d.shadows...) {
		if fb != nil {
			fb.delete()
		}
	}
	d.deferred1, d.deferred2, d.probe, d.composite, d.shadows = nil, nil, nil, nil, nil
	for _, id := range registryIDs(d.meshes) {
		d.meshes.MustGet(id).delete()
		d.meshes.Remove(id)
	}
	for _, id := range registryIDs(d.textures) {
		d.textures.MustGet(id).delete()
		d.textures.Remove(id)
	}
}

func registryIDs[T any](r *gpu.Registry[T]) []core.AssetID {
	var ids []core.AssetID
	r.Each(func(id core.AssetID, _ T) { ids = append(ids, id) })
	return ids
}

func (d *Device) ScreenSize() [2]int   { return d.cfg.Resolution }
func (d *Device) ProbeResolution() int { return d.cfg.ProbeResolution }

func (d *Device) CreateMesh(data gpu.MeshData) gpu.Mesh {
	m := newMesh(data)
	id := d.meshes.Add(m)
	return gpu.Mesh{ID: id, Vertices: data.VertexCount(), Indices: len(data.Indices)}
}

func (d *Device) BuiltinMesh(b gpu.Builtin) gpu.Mesh {
	return d.builtins[b]
}

func (d *Device) CreateTexture2D(format gpu.TexFormat, width, height int, pixels []byte) gpu.Texture {
	if pixels != nil && len(pixels) != width*height*format.TexelSize() {
		panic(fmt.Sprintf("glgpu: texture data is %d bytes, want %d", len(pixels), width*height*format.TexelSize()))
	}
	t := newTexture2D(format, width, height, pixels)
	t.tex = gpu.Texture{Format: format, Size: core.Vec3i{width, height, 1}}
	t.tex.ID = d.textures.Add(t)
	return t.tex
}

func (d *Device) CreateTexture3D(format gpu.TexFormat, size core.Vec3i) gpu.Texture {
	t := newTexture3D(format, size[0], size[1], size[2])
	t.tex = gpu.Texture{Format: format, Size: size}
	t.tex.ID = d.textures.Add(t)
	return t.tex
}

func (d *Device) UploadTexture3D(tex gpu.Texture, data []float32) {
	t := d.textures.MustGet(tex.ID)
	if want := tex.Size.Volume() * tex.Format.Channels(); len(data) != want {
		panic(fmt.Sprintf("glgpu: 3D upload of %d floats, want %d", len(data), want))
	}
	f := formatOf(tex.Format)
	gl.BindTexture(gl.TEXTURE_3D, t.handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexSubImage3D(gl.TEXTURE_3D, 0, 0, 0, 0, int32(tex.Size[0]), int32(tex.Size[1]), int32(tex.Size[2]),
		f.format, gl.FLOAT, gl.Ptr(data))
}

func (d *Device) ReleaseTexture(tex gpu.Texture) {
	t := d.textures.MustGet(tex.ID)
	t.delete()
	d.textures.Remove(tex.ID)
}

func (d *Device) BindPass(pass gpu.Pass, index int, clear bool) {
	gl.Disable(gl.BLEND)
	switch pass {
	case gpu.PassDeferred1:
		d.bindFramebuffer(d.deferred1, clear)
	case gpu.PassDeferred2:
		d.bindFramebuffer(d.deferred2, false)
		if clear {
			// lighting accumulates on top of the emission
			d.deferred2.clearColors()
			d.deferred1.blitColor(gbufEmission, d.deferred2, d.deferred2.w, d.deferred2.h)
			d.deferred2.bind()
		}
	case gpu.PassShadow:
		if index < 0 || index >= len(d.shadows) {
			panic(fmt.Sprintf("glgpu: shadow map %d out of range", index))
		}
		d.bindFramebuffer(d.shadows[index], clear)
	case gpu.PassProbe:
		d.bindFramebuffer(d.probe, clear)
	case gpu.Pass2D:
		d.bindFramebuffer(d.composite, clear)
		if clear {
			d.deferred2.blitColor(0, d.composite, d.composite.w, d.composite.h)
			d.composite.bind()
		}
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case gpu.PassFinal:
		d.bound = nil
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(d.cfg.Resolution[0]), int32(d.cfg.Resolution[1]))
		if clear {
			gl.ClearColor(0, 0, 0, 1)
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		}
	default:
		panic(fmt.Sprintf("glgpu: unknown pass %d", pass))
	}
}

func (d *Device) bindFramebuffer(fb *framebuffer, clear bool) {
	d.bound = fb
	fb.bind()
	if clear {
		fb.clear()
	}
}

func (d *Device) UseProgram(p gpu.Program) {
	d.current = p
	gl.UseProgram(d.program(p).handle)
}

func (d *Device) program(p gpu.Program) *program {
	if p >= gpu.ProgramCount {
		panic(fmt.Sprintf("glgpu: unknown program %d", p))
	}
	return d.programs[p]
}

func (d *Device) SetRenderUnit(p gpu.Program, ru gpu.RenderUnit) {
	gl.ColorMask(ru.Color, ru.Color, ru.Color, ru.Color)
	gl.DepthMask(ru.Depth)
	if ru.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	pr := d.program(p)
	gl.ProgramUniform1i(pr.handle, pr.uniforms[gpu.UniformLighting], int32(ru.Lighting))
	var id uint32
	if ru.HasID {
		id = ru.ID
	}
	gl.ProgramUniform1ui(pr.handle, pr.uniforms[gpu.UniformObjectIndex], id)
}

func (d *Device) UniformMat4(p gpu.Program, u gpu.Uniform, v mgl32.Mat4) {
	pr := d.program(p)
	gl.ProgramUniformMatrix4fv(pr.handle, pr.uniforms[u], 1, false, &v[0])
}

func (d *Device) UniformVec3(p gpu.Program, u gpu.Uniform, v mgl32.Vec3) {
	pr := d.program(p)
	gl.ProgramUniform3fv(pr.handle, pr.uniforms[u], 1, &v[0])
}

func (d *Device) UniformVec4(p gpu.Program, u gpu.Uniform, v mgl32.Vec4) {
	pr := d.program(p)
	gl.ProgramUniform4fv(pr.handle, pr.uniforms[u], 1, &v[0])
}

func (d *Device) UniformVec3s(p gpu.Program, u gpu.Uniform, v []mgl32.Vec3) {
	if len(v) == 0 {
		return
	}
	pr := d.program(p)
	gl.ProgramUniform3fv(pr.handle, pr.uniforms[u], int32(len(v)), &v[0][0])
}

func (d *Device) UniformFloat(p gpu.Program, u gpu.Uniform, v float32) {
	pr := d.program(p)
	gl.ProgramUniform1f(pr.handle, pr.uniforms[u], v)
}

func (d *Device) UniformInt(p gpu.Program, u gpu.Uniform, v int32) {
	pr := d.program(p)
	gl.ProgramUniform1i(pr.handle, pr.uniforms[u], v)
}

func (d *Device) bindSampler(p gpu.Program, slot int, t *texture) {
	if slot < 0 || slot >= gpu.MaxTextureSlots {
		panic(fmt.Sprintf("glgpu: texture slot %d out of range", slot))
	}
	pr := d.program(p)
	gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	gl.BindTexture(t.target, t.handle)
	gl.ProgramUniform1i(pr.handle, pr.samplers[slot], int32(slot))
}

func (d *Device) BindTexture(p gpu.Program, slot int, tex gpu.Texture) {
	d.bindSampler(p, slot, d.textures.MustGet(tex.ID))
}

func (d *Device) BindGBuffer(p gpu.Program, slot int) {
	for i, t := range d.deferred1.colors[:gbufSampled] {
		d.bindSampler(p, slot+i, t)
	}
}

func (d *Device) BindShadowMap(p gpu.Program, slot int, index int) {
	d.bindSampler(p, slot, d.shadows[index].depth)
}

func (d *Device) Draw(mesh gpu.Mesh) {
	d.meshes.MustGet(mesh.ID).draw(gl.TRIANGLES)
}

func (d *Device) DrawWireframe(mesh gpu.Mesh) {
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	d.meshes.MustGet(mesh.ID).draw(gl.TRIANGLES)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// DrawLine draws the segment between the program's line endpoints. Core
// profiles only guarantee one pixel wide lines, so the width uniform is
// left to the shader.
func (d *Device) DrawLine() {
	pr := d.program(d.current)
	gl.ProgramUniform1i(pr.handle, pr.drawLine, 1)
	d.meshes.MustGet(d.builtins[gpu.MeshLine].ID).draw(gl.LINES)
	gl.ProgramUniform1i(pr.handle, pr.drawLine, 0)
}

func (d *Device) DrawLightVolume(mesh gpu.Mesh) {
	m := d.meshes.MustGet(mesh.ID)

	// mark the g-buffer fragments enclosed by the volume
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilMask(0xff)
	gl.Clear(gl.STENCIL_BUFFER_BIT)
	gl.ColorMask(false, false, false, false)
	gl.DepthMask(false)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)
	gl.StencilFunc(gl.ALWAYS, 0, 0)
	gl.StencilOpSeparate(gl.BACK, gl.KEEP, gl.INCR_WRAP, gl.KEEP)
	gl.StencilOpSeparate(gl.FRONT, gl.KEEP, gl.DECR_WRAP, gl.KEEP)
	m.draw(gl.TRIANGLES)

	// add the light where the stencil is set
	gl.StencilFunc(gl.NOTEQUAL, 0, 0xff)
	gl.Disable(gl.DEPTH_TEST)
	gl.ColorMask(true, true, true, true)
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.ONE, gl.ONE)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
	m.draw(gl.TRIANGLES)

	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.STENCIL_TEST)
}

// readTarget resolves which buffer of pass holds att.
func (d *Device) readTarget(pass gpu.Pass, att gpu.Attachment) (*framebuffer, int) {
	switch pass {
	case gpu.PassProbe:
		switch att {
		case gpu.AttachDiffuse:
			return d.probe, probeDiffuse
		case gpu.AttachIllumination:
			return d.probe, probeIllumination
		case gpu.AttachDepth:
			return d.probe, -1
		}
	case gpu.PassDeferred1:
		switch att {
		case gpu.AttachDiffuse:
			return d.deferred1, gbufBaseColor
		case gpu.AttachIllumination:
			return d.deferred1, gbufEmission
		case gpu.AttachDepth:
			return d.deferred1, -1
		}
	case gpu.PassDeferred2:
		switch att {
		case gpu.AttachIllumination:
			return d.deferred2, 0
		case gpu.AttachDepth:
			return d.deferred2, -1
		}
	}
	panic(fmt.Sprintf("glgpu: pass %s has no %d attachment", pass, att))
}

func (d *Device) ReadPixels(pass gpu.Pass, att gpu.Attachment, dst []float32) {
	fb, buffer := d.readTarget(pass, att)
	if want := fb.w * fb.h * att.Format().Channels(); len(dst) != want {
		panic(fmt.Sprintf("glgpu: readback buffer is %d floats, want %d", len(dst), want))
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.handle)
	format := uint32(gl.DEPTH_COMPONENT)
	if buffer >= 0 {
		gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + uint32(buffer))
		format = gl.RGB
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.ReadPixels(0, 0, int32(fb.w), int32(fb.h), format, gl.FLOAT, gl.Ptr(dst))
	d.rebind()
}

// rebind restores the framebuffer of the current pass after a blit or
// readback moved the read or draw binding.
func (d *Device) rebind() {
	if d.bound != nil {
		d.bound.bind()
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
}

func (d *Device) ResolveFinal() {
	w, h := d.cfg.Resolution[0], d.cfg.Resolution[1]
	d.composite.blitColor(0, nil, w, h)
	d.bound = nil
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	d.checkError("ResolveFinal")
}

func (d *Device) checkError(what string) {
	for e := gl.GetError(); e != gl.NO_ERROR; e = gl.GetError() {
		if d.logger != nil {
			d.logger.Warnf("gl error 0x%x before %s", e, what)
		}
	}
}
