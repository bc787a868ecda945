package gpu

import (
	"github.com/gekko3d/lumen/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Pass is a render target owned by the device, created eagerly from DeviceConfig.
type Pass uint8

const (
	PassDeferred1 Pass = iota // geometry: color, depth, object index
	PassDeferred2             // light accumulation over the g-buffer
	PassShadow                // per major light depth map, indexed
	PassProbe                 // cubemap face capture
	Pass2D                    // 2D composition on top of the lit image
	PassFinal                 // visible framebuffer
)

func (p Pass) String() string {
	switch p {
	case PassDeferred1:
		return "deferred1"
	case PassDeferred2:
		return "deferred2"
	case PassShadow:
		return "shadow"
	case PassProbe:
		return "probe"
	case Pass2D:
		return "2d"
	case PassFinal:
		return "final"
	}
	return "unknown"
}

// Attachment selects which output of a pass to read back.
type Attachment uint8

const (
	AttachDiffuse      Attachment = iota // RGB float
	AttachIllumination                   // RGB float
	AttachDepth                          // float
)

// Format is the readback layout of the attachment.
func (a Attachment) Format() TexFormat {
	if a == AttachDepth {
		return FormatDepth
	}
	return FormatFloat3
}

// Lighting selects how the deferred pass treats a fragment.
type Lighting int32

const (
	LightingNone Lighting = iota
	LightingDefFull
	LightingDefFixed
)

// RenderUnit is the fixed-function state for the next draws.
type RenderUnit struct {
	Color     bool
	Depth     bool
	DepthTest bool
	HasID     bool
	ID        uint32
	Lighting  Lighting
}

// Builtin meshes are allocated by every device at startup.
type Builtin uint8

const (
	MeshLine Builtin = iota
	MeshSquare
	MeshCube
	MeshSphere
	MeshPyramid
	BuiltinCount
)

// Mesh is a drawable handle with a vertex count.
type Mesh struct {
	ID       core.AssetID
	Vertices int
	Indices  int
}

// Texture is a bindable handle.
type Texture struct {
	ID     core.AssetID
	Format TexFormat
	Size   core.Vec3i // Z is 1 for 2D textures
}

// MeshData is the vertex stream supplied by asset loading. All attribute
// arrays are tightly packed; Indices may be empty for non-indexed meshes.
type MeshData struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Tangents  []float32
	Indices   []uint32
}

func (d MeshData) VertexCount() int {
	return len(d.Positions) / 3
}

// DeviceConfig sizes the passes a device creates at startup.
type DeviceConfig struct {
	Resolution       [2]int
	ShadowResolution int
	ProbeResolution  int
	MaxMajorLights   int
}

// Device is the immediate-mode graphics collaborator. It is owned by exactly
// one goroutine at a time and is not safe for concurrent use.
type Device interface {
	ScreenSize() [2]int
	ProbeResolution() int

	CreateMesh(data MeshData) Mesh
	BuiltinMesh(b Builtin) Mesh
	CreateTexture2D(format TexFormat, width, height int, pixels []byte) Texture
	CreateTexture3D(format TexFormat, size core.Vec3i) Texture
	UploadTexture3D(tex Texture, data []float32)
	ReleaseTexture(tex Texture)

	// BindPass binds the framebuffer of pass; index selects the shadow map.
	BindPass(pass Pass, index int, clear bool)
	UseProgram(p Program)
	SetRenderUnit(p Program, ru RenderUnit)

	UniformMat4(p Program, u Uniform, v mgl32.Mat4)
	UniformVec3(p Program, u Uniform, v mgl32.Vec3)
	UniformVec4(p Program, u Uniform, v mgl32.Vec4)
	UniformVec3s(p Program, u Uniform, v []mgl32.Vec3)
	UniformFloat(p Program, u Uniform, v float32)
	UniformInt(p Program, u Uniform, v int32)

	BindTexture(p Program, slot int, tex Texture)
	// BindGBuffer binds the deferred attachments starting at slot.
	BindGBuffer(p Program, slot int)
	BindShadowMap(p Program, slot int, index int)

	Draw(mesh Mesh)
	DrawWireframe(mesh Mesh)
	DrawLine()
	// DrawLightVolume draws mesh twice with the stencil trick so that only
	// fragments inside the volume receive additive light.
	DrawLightVolume(mesh Mesh)

	// ReadPixels copies the whole attachment of pass into dst, tightly packed,
	// row-major, channel order of the attachment format.
	ReadPixels(pass Pass, att Attachment, dst []float32)

	// ResolveFinal blits the composed image onto the visible framebuffer.
	ResolveFinal()
}
