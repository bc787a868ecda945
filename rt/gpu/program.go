package gpu

import "fmt"

// Program is the closed set of shader programs compiled at device creation.
type Program uint8

const (
	ProgBasic Program = iota
	ProgStandard
	ProgStandardProbe
	ProgShadow
	ProgSHVisualize
	ProgSHVisualizeSingle
	ProgGeoVisualize
	ProgLight
	ProgLightIrradiance
	ProgLightAmbient
	ProgLightOmni
	ProgImage
	ProgramCount
)

var programNames = [ProgramCount]string{
	"basic", "standard", "standard_probe", "shadow", "sh_visualize", "sh_visualize_single",
	"geo_visualize", "dr_2", "dr_2_irradiance", "dr_2_ambient", "dr_2_omni", "image",
}

func (p Program) String() string {
	if p >= ProgramCount {
		return fmt.Sprintf("program(%d)", p)
	}
	return programNames[p]
}

// CameraPrograms receive the frame camera's projection and view on SetCamera.
var CameraPrograms = []Program{
	ProgBasic,
	ProgStandard,
	ProgSHVisualize,
	ProgSHVisualizeSingle,
	ProgGeoVisualize,
	ProgLight,
	ProgLightIrradiance,
	ProgLightAmbient,
	ProgLightOmni,
}

// Uniform is the closed set of uniforms any program may declare. The GLSL
// name of each is fixed; backends resolve locations once at link time.
type Uniform uint8

const (
	UniformProjection Uniform = iota
	UniformView
	UniformModel
	UniformNormalTransform
	UniformCameraPos
	UniformObjectIndex
	UniformLighting

	UniformBaseColor
	UniformRoughness
	UniformMetalness
	UniformEmission
	UniformEmissionWeight
	UniformUseBaseColorTex
	UniformUseNormalTex
	UniformFixedColor

	UniformLinePos1
	UniformLinePos2
	UniformLineWidth

	UniformLightPos
	UniformLightColor
	UniformLightShadow
	UniformLightRadius
	UniformLightXDir
	UniformLightYDir
	UniformLightAngle
	UniformLightSmoothness
	UniformLightTrans
	UniformAmbient

	UniformSH

	UniformPVTrans
	UniformPVOffset
	UniformPVCellSize
	UniformPVNums
	UniformPVRoomSize
	UniformPVPaddedRoomSize
	UniformPVParams
	UniformPVWeight

	UniformCount
)

var uniformNames = [UniformCount]string{
	"u_projection", "u_view", "u_model", "u_normal_transform", "u_camera_pos", "u_object_index", "u_lighting",
	"u_base_color", "u_roughness", "u_metalness", "u_emission", "u_emission_weight", "u_use_base_color_tex", "u_use_normal_tex", "u_fixed_color",
	"u_line_pos1", "u_line_pos2", "u_line_width",
	"u_light.pos", "u_light.color", "u_light.shadow", "u_light.radius", "u_light.xdir", "u_light.ydir",
	"u_light.angle", "u_light.smoothness", "u_light.trans", "u_ambient",
	"u_sh",
	"u_pv.trans", "u_pv.offset", "u_pv.cell_size", "u_pv.nums", "u_pv.room_size", "u_pv.padded_room_size",
	"u_pv.params", "u_pv.weight",
}

// Name is the shader-side identifier of u.
func (u Uniform) Name() string {
	if u >= UniformCount {
		panic(fmt.Sprintf("gpu: unknown uniform %d", u))
	}
	return uniformNames[u]
}

func (u Uniform) String() string { return u.Name() }

// MaxTextureSlots bounds the texture units a program may sample from.
const MaxTextureSlots = 12

// TextureSlotName is the shader-side sampler bound to slot i. Slots are
// separate uniforms so 2D and 3D samplers can share the numbering.
func TextureSlotName(i int) string {
	return fmt.Sprintf("u_tex%d", i)
}
