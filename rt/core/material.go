package core

import "github.com/go-gl/mathgl/mgl32"

// GeneralSurface is a lit opaque surface.
type GeneralSurface struct {
	BaseColor mgl32.Vec3
	Roughness float32
	Metalness float32
}

// EmissiveStaticSurface is a surface that also emits light into the
// irradiance volume capture.
type EmissiveStaticSurface struct {
	GeneralSurface
	Emission  mgl32.Vec3
	Intensity uint8
}

// EmissiveDynamicSurface emits light but is never captured by probes.
type EmissiveDynamicSurface struct {
	GeneralSurface
	Emission  mgl32.Vec3
	Intensity uint8
}

func DefaultSurface() GeneralSurface {
	return GeneralSurface{
		BaseColor: mgl32.Vec3{1, 1, 1},
		Roughness: 1.0,
		Metalness: 0.0,
	}
}

// EmissionWeight is the linear emission multiplier for the surface intensity.
func (s EmissiveStaticSurface) EmissionWeight() float32 {
	return IntensityToWeight(s.Intensity)
}

func (s EmissiveDynamicSurface) EmissionWeight() float32 {
	return IntensityToWeight(s.Intensity)
}
