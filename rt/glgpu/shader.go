package glgpu

import (
	"bufio"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

//go:embed shaders
var shaderFS embed.FS

const includeDirective = "#include "

type programSource struct {
	vert, frag string
}

var programSources = [gpu.ProgramCount]programSource{
	gpu.ProgBasic:             {"mesh.vert", "gbuffer.frag"},
	gpu.ProgStandard:          {"mesh.vert", "gbuffer.frag"},
	gpu.ProgStandardProbe:     {"mesh.vert", "probe.frag"},
	gpu.ProgShadow:            {"mesh.vert", "depth.frag"},
	gpu.ProgSHVisualize:       {"mesh.vert", "sh.frag"},
	gpu.ProgSHVisualizeSingle: {"mesh.vert", "sh.frag"},
	gpu.ProgGeoVisualize:      {"mesh.vert", "gbuffer.frag"},
	gpu.ProgLight:             {"volume.vert", "light.frag"},
	gpu.ProgLightIrradiance:   {"volume.vert", "irradiance.frag"},
	gpu.ProgLightAmbient:      {"volume.vert", "ambient.frag"},
	gpu.ProgLightOmni:         {"volume.vert", "omni.frag"},
	gpu.ProgImage:             {"image.vert", "image.frag"},
}

// loadShader returns the GLSL source of name with #include lines expanded
// in place. Includes do not nest.
func loadShader(name string) (string, error) {
	data, err := shaderFS.ReadFile(path.Join("shaders", name))
	if err != nil {
		return "", fmt.Errorf("load shader %s: %w", name, err)
	}
	var sb strings.Builder
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := sc.Text()
		if inc, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective); ok {
			body, err := shaderFS.ReadFile(path.Join("shaders", strings.TrimSpace(inc)))
			if err != nil {
				return "", fmt.Errorf("load shader %s: %w", name, err)
			}
			sb.Write(body)
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String(), sc.Err()
}

func compileShader(name, src string, typ uint32) (uint32, error) {
	handle := gl.CreateShader(typ)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("compile %s: %s", name, strings.TrimRight(msg, "\x00"))
	}
	return handle, nil
}

// program is a linked GL program with every uniform location resolved.
// Locations of uniforms the program does not declare are -1, which GL
// ignores on upload.
type program struct {
	handle   uint32
	uniforms [gpu.UniformCount]int32
	samplers [gpu.MaxTextureSlots]int32
	drawLine int32
}

func newProgram(p gpu.Program) (*program, error) {
	src := programSources[p]
	vsrc, err := loadShader(src.vert)
	if err != nil {
		return nil, err
	}
	fsrc, err := loadShader(src.frag)
	if err != nil {
		return nil, err
	}
	vs, err := compileShader(src.vert, vsrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(src.frag, fsrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("link %s: %s", p, strings.TrimRight(msg, "\x00"))
	}

	pr := &program{handle: handle}
	for u := gpu.Uniform(0); u < gpu.UniformCount; u++ {
		pr.uniforms[u] = uniformLocation(handle, u.Name())
	}
	for i := range pr.samplers {
		pr.samplers[i] = uniformLocation(handle, gpu.TextureSlotName(i))
	}
	pr.drawLine = uniformLocation(handle, "u_draw_line")
	return pr, nil
}

func uniformLocation(handle uint32, name string) int32 {
	return gl.GetUniformLocation(handle, gl.Str(name+"\x00"))
}

func (p *program) delete() {
	gl.DeleteProgram(p.handle)
	p.handle = 0
}
