package glgpu

import (
	"strings"
	"testing"

	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramSources(t *testing.T) {
	for p := gpu.Program(0); p < gpu.ProgramCount; p++ {
		src := programSources[p]
		for _, name := range []string{src.vert, src.frag} {
			require.NotEmpty(t, name, "program %s", p)
			code, err := loadShader(name)
			require.NoError(t, err, "program %s", p)
			assert.True(t, strings.HasPrefix(code, "#version 410 core"), "%s", name)
			assert.NotContains(t, code, includeDirective, "%s", name)
		}
	}
}

func TestLoadShaderExpandsIncludes(t *testing.T) {
	code, err := loadShader("ambient.frag")
	require.NoError(t, err)
	assert.Contains(t, code, "bool readSurface(out Surface s)")
	assert.Equal(t, 1, strings.Count(code, "#version"))

	_, err = loadShader("missing.frag")
	assert.Error(t, err)
}

// Every uniform a shader declares must be one the renderer can address.
func TestShaderUniformsAreKnown(t *testing.T) {
	known := map[string]bool{"u_draw_line": true}
	for u := gpu.Uniform(0); u < gpu.UniformCount; u++ {
		name := u.Name()
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[:i]
		}
		known[name] = true
	}
	for i := 0; i < gpu.MaxTextureSlots; i++ {
		known[gpu.TextureSlotName(i)] = true
	}

	for p := gpu.Program(0); p < gpu.ProgramCount; p++ {
		for _, name := range []string{programSources[p].vert, programSources[p].frag} {
			code, err := loadShader(name)
			require.NoError(t, err)
			for _, line := range strings.Split(code, "\n") {
				fields := strings.Fields(line)
				if len(fields) < 3 || fields[0] != "uniform" {
					continue
				}
				ident := strings.TrimRight(fields[2], ";")
				if i := strings.IndexByte(ident, '['); i >= 0 {
					ident = ident[:i]
				}
				assert.True(t, known[ident], "%s declares unknown uniform %s", name, ident)
			}
		}
	}
}

func TestFormatTable(t *testing.T) {
	assert.Len(t, glFormats, int(gpu.FormatRGBA8)+1)
	for f := gpu.TexFormat(0); int(f) < len(glFormats); f++ {
		assert.NotZero(t, formatOf(f).internal, "format %s", f)
	}
	assert.True(t, isInteger(gpu.FormatIndex))
	assert.False(t, isInteger(gpu.FormatFloat3))
	assert.Panics(t, func() { formatOf(gpu.TexFormat(200)) })
}

func TestGBufferLayout(t *testing.T) {
	require.Len(t, gbufFormats, gbufIndex+1)
	assert.Equal(t, gpu.FormatIndex, gbufFormats[gbufIndex])
	assert.Equal(t, 4, gbufSampled)
}
