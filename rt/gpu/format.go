package gpu

import "fmt"

// TexFormat is the closed set of internal texture formats the renderer allocates.
type TexFormat uint8

const (
	FormatFloat1     TexFormat = iota // single float (probe depth atlas)
	FormatFloat3                      // position, emission, probe illumination atlas
	FormatHalfFloat3                  // normals
	FormatColor                       // 8-bit base color triple
	FormatIndex                       // object index
	FormatFlag                        // lighting mode
	FormatMaterial                    // roughness, metalness
	FormatDepth
	FormatYUV
	FormatRGBA8 // decoded images
)

type formatInfo struct {
	name     string
	channels int
	bytes    int // per channel
	float    bool
}

var formats = [...]formatInfo{
	FormatFloat1:     {"float1", 1, 4, true},
	FormatFloat3:     {"float3", 3, 4, true},
	FormatHalfFloat3: {"half-float3", 3, 2, true},
	FormatColor:      {"color", 3, 1, false},
	FormatIndex:      {"index", 1, 4, false},
	FormatFlag:       {"flag", 1, 1, false},
	FormatMaterial:   {"material", 1, 1, false},
	FormatDepth:      {"depth", 1, 4, true},
	FormatYUV:        {"yuv", 1, 1, false},
	FormatRGBA8:      {"rgba8", 4, 1, false},
}

func (f TexFormat) info() formatInfo {
	if int(f) >= len(formats) {
		panic(fmt.Sprintf("gpu: unknown texture format %d", f))
	}
	return formats[f]
}

func (f TexFormat) String() string { return f.info().name }

// Channels is the number of components per texel.
func (f TexFormat) Channels() int { return f.info().channels }

// TexelSize is the tightly packed size of one texel in bytes.
func (f TexFormat) TexelSize() int {
	info := f.info()
	return info.channels * info.bytes
}

// IsFloat reports whether readback of this format yields float components.
func (f TexFormat) IsFloat() bool { return f.info().float }
