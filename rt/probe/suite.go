package probe

import (
	"math/rand/v2"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"
	"github.com/gekko3d/lumen/rt/sh"

	"github.com/go-gl/mathgl/mgl32"
)

// Suite pairs a Volume with its capture buffers and the device-side atlas
// textures the irradiance pass samples.
type Suite struct {
	volume  *Volume
	capture *sh.Faces

	illumination gpu.Texture
	depth        gpu.Texture
}

// NewSuite builds the volume and allocates its atlas on dev. The
// placeholder coefficients are uploaded immediately.
func NewSuite(dev gpu.Device, roomSize mgl32.Vec3, spacing float32, rng *rand.Rand) (*Suite, error) {
	res := dev.ProbeResolution()
	v, err := NewVolume(roomSize, spacing, res, rng)
	if err != nil {
		return nil, err
	}
	s := &Suite{
		volume:       v,
		capture:      sh.NewFaces(res),
		illumination: dev.CreateTexture3D(gpu.FormatFloat3, v.TextureSize()),
		depth:        dev.CreateTexture3D(gpu.FormatFloat1, v.TextureSize()),
	}
	v.UpdateTexture()
	s.upload(dev)
	return s, nil
}

func (s *Suite) Volume() *Volume                  { return s.volume }
func (s *Suite) Capture() *sh.Faces               { return s.capture }
func (s *Suite) IlluminationTexture() gpu.Texture { return s.illumination }
func (s *Suite) DepthTexture() gpu.Texture        { return s.depth }

// WriteFace reads the probe pass attachments into the capture buffers of
// face. Diffuse is not captured.
func (s *Suite) WriteFace(dev gpu.Device, face core.Face) {
	dev.ReadPixels(gpu.PassProbe, gpu.AttachIllumination, s.capture.Illumination[face])
	dev.ReadPixels(gpu.PassProbe, gpu.AttachDepth, s.capture.Depth[face])
}

// UpdateProbe bakes the captured cubemap into the probe at idx and
// refreshes the atlas on the device.
func (s *Suite) UpdateProbe(dev gpu.Device, idx core.Vec3i) {
	s.volume.UpdateProbe(idx, s.capture)
	s.volume.UpdateTexture()
	s.upload(dev)
}

func (s *Suite) upload(dev gpu.Device) {
	dev.UploadTexture3D(s.illumination, s.volume.TextureIllumination())
	dev.UploadTexture3D(s.depth, s.volume.TextureDepth())
}

// Release frees the atlas textures.
func (s *Suite) Release(dev gpu.Device) {
	dev.ReleaseTexture(s.illumination)
	dev.ReleaseTexture(s.depth)
}
