package gpu

import (
	"fmt"

	"github.com/gekko3d/lumen/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device command.
type Call struct {
	Op      string
	Pass    Pass
	Index   int
	Program Program
	Uniform Uniform
	Mesh    core.AssetID
	Value   any
}

type recordedTexture struct {
	tex  Texture
	data []float32
}

// Recorder is a headless Device that records every command. ReadPixels is
// served by Readback when set and leaves dst zeroed otherwise.
type Recorder struct {
	Calls    []Call
	Readback func(pass Pass, att Attachment, dst []float32)

	cfg      DeviceConfig
	meshes   *Registry[Mesh]
	textures *Registry[*recordedTexture]
	builtins [BuiltinCount]Mesh
	program  Program
	pass     Pass
}

var _ Device = (*Recorder)(nil)

func NewRecorder(cfg DeviceConfig) *Recorder {
	r := &Recorder{
		cfg:      cfg,
		meshes:   NewRegistry[Mesh](),
		textures: NewRegistry[*recordedTexture](),
		program:  ProgramCount,
	}
	for b := Builtin(0); b < BuiltinCount; b++ {
		r.builtins[b] = r.CreateMesh(BuiltinData(b))
	}
	r.Calls = nil
	return r
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// CallsOf returns the recorded calls of op in order.
func (r *Recorder) CallsOf(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.Calls = nil
}

// CurrentPass is the last bound pass.
func (r *Recorder) CurrentPass() Pass { return r.pass }

// TextureData returns the last upload into tex.
func (r *Recorder) TextureData(tex Texture) []float32 {
	return r.textures.MustGet(tex.ID).data
}

func (r *Recorder) ScreenSize() [2]int   { return r.cfg.Resolution }
func (r *Recorder) ProbeResolution() int { return r.cfg.ProbeResolution }

func (r *Recorder) CreateMesh(data MeshData) Mesh {
	m := Mesh{Vertices: data.VertexCount(), Indices: len(data.Indices)}
	m.ID = r.meshes.Add(m)
	r.meshes.items[m.ID] = m
	r.record(Call{Op: "CreateMesh", Mesh: m.ID})
	return m
}

func (r *Recorder) BuiltinMesh(b Builtin) Mesh {
	return r.builtins[b]
}

func (r *Recorder) CreateTexture2D(format TexFormat, width, height int, pixels []byte) Texture {
	if pixels != nil && len(pixels) != width*height*format.TexelSize() {
		panic(fmt.Sprintf("gpu: texture data is %d bytes, want %d", len(pixels), width*height*format.TexelSize()))
	}
	t := &recordedTexture{tex: Texture{Format: format, Size: core.Vec3i{width, height, 1}}}
	t.tex.ID = r.textures.Add(t)
	r.record(Call{Op: "CreateTexture2D", Value: t.tex})
	return t.tex
}

func (r *Recorder) CreateTexture3D(format TexFormat, size core.Vec3i) Texture {
	t := &recordedTexture{tex: Texture{Format: format, Size: size}}
	t.tex.ID = r.textures.Add(t)
	r.record(Call{Op: "CreateTexture3D", Value: t.tex})
	return t.tex
}

func (r *Recorder) UploadTexture3D(tex Texture, data []float32) {
	t := r.textures.MustGet(tex.ID)
	if want := tex.Size.Volume() * tex.Format.Channels(); len(data) != want {
		panic(fmt.Sprintf("gpu: 3D upload of %d floats, want %d", len(data), want))
	}
	t.data = append(t.data[:0], data...)
	r.record(Call{Op: "UploadTexture3D", Value: tex})
}

func (r *Recorder) ReleaseTexture(tex Texture) {
	r.textures.Remove(tex.ID)
	r.record(Call{Op: "ReleaseTexture", Value: tex})
}

func (r *Recorder) BindPass(pass Pass, index int, clear bool) {
	if pass == PassShadow && (index < 0 || index >= max(1, r.cfg.MaxMajorLights)) {
		panic(fmt.Sprintf("gpu: shadow map %d out of range", index))
	}
	r.pass = pass
	r.record(Call{Op: "BindPass", Pass: pass, Index: index, Value: clear})
}

func (r *Recorder) UseProgram(p Program) {
	r.program = p
	r.record(Call{Op: "UseProgram", Program: p})
}

func (r *Recorder) SetRenderUnit(p Program, ru RenderUnit) {
	r.record(Call{Op: "SetRenderUnit", Program: p, Value: ru})
}

func (r *Recorder) uniform(p Program, u Uniform, v any) {
	r.record(Call{Op: "Uniform", Program: p, Uniform: u, Value: v})
}

func (r *Recorder) UniformMat4(p Program, u Uniform, v mgl32.Mat4)    { r.uniform(p, u, v) }
func (r *Recorder) UniformVec3(p Program, u Uniform, v mgl32.Vec3)    { r.uniform(p, u, v) }
func (r *Recorder) UniformVec4(p Program, u Uniform, v mgl32.Vec4)    { r.uniform(p, u, v) }
func (r *Recorder) UniformFloat(p Program, u Uniform, v float32)      { r.uniform(p, u, v) }
func (r *Recorder) UniformInt(p Program, u Uniform, v int32)          { r.uniform(p, u, v) }
func (r *Recorder) UniformVec3s(p Program, u Uniform, v []mgl32.Vec3) { r.uniform(p, u, append([]mgl32.Vec3(nil), v...)) }

func (r *Recorder) BindTexture(p Program, slot int, tex Texture) {
	r.record(Call{Op: "BindTexture", Program: p, Index: slot, Value: tex})
}

func (r *Recorder) BindGBuffer(p Program, slot int) {
	r.record(Call{Op: "BindGBuffer", Program: p, Index: slot})
}

func (r *Recorder) BindShadowMap(p Program, slot int, index int) {
	r.record(Call{Op: "BindShadowMap", Program: p, Index: slot, Value: index})
}

func (r *Recorder) Draw(mesh Mesh) {
	r.meshes.MustGet(mesh.ID)
	r.record(Call{Op: "Draw", Pass: r.pass, Program: r.program, Mesh: mesh.ID})
}

func (r *Recorder) DrawWireframe(mesh Mesh) {
	r.meshes.MustGet(mesh.ID)
	r.record(Call{Op: "DrawWireframe", Pass: r.pass, Program: r.program, Mesh: mesh.ID})
}

func (r *Recorder) DrawLine() {
	r.record(Call{Op: "DrawLine", Pass: r.pass, Program: r.program, Mesh: r.builtins[MeshLine].ID})
}

func (r *Recorder) DrawLightVolume(mesh Mesh) {
	r.meshes.MustGet(mesh.ID)
	r.record(Call{Op: "DrawLightVolume", Pass: r.pass, Program: r.program, Mesh: mesh.ID})
}

func (r *Recorder) ReadPixels(pass Pass, att Attachment, dst []float32) {
	w, h := r.cfg.Resolution[0], r.cfg.Resolution[1]
	if pass == PassProbe {
		w, h = r.cfg.ProbeResolution, r.cfg.ProbeResolution
	}
	if want := w * h * att.Format().Channels(); len(dst) != want {
		panic(fmt.Sprintf("gpu: readback buffer is %d floats, want %d", len(dst), want))
	}
	if r.Readback != nil {
		r.Readback(pass, att, dst)
	}
	r.record(Call{Op: "ReadPixels", Pass: pass, Value: att})
}

func (r *Recorder) ResolveFinal() {
	r.record(Call{Op: "ResolveFinal", Pass: PassFinal})
}
