package lumen

import (
	"math/rand/v2"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"
	"github.com/gekko3d/lumen/rt/probe"

	"github.com/go-gl/mathgl/mgl32"
)

// ChamberConfig places a chamber. BPos is the floor corner, Size its extent.
type ChamberConfig struct {
	BPos mgl32.Vec3
	Size mgl32.Vec3
}

// ChamberState persists across frames: the probe cursor and the probe volume.
type ChamberState struct {
	Cursor probe.Cursor
	Suite  *probe.Suite
}

// advanceProbe moves the cursor to the next face capture.
func (s *ChamberState) advanceProbe() {
	s.Cursor.Advance(s.Suite.Volume().Number())
}

type Chamber struct {
	Config ChamberConfig
	State  ChamberState
}

func newChamber(dev gpu.Device, config ChamberConfig, spacing float32, rng *rand.Rand) (*Chamber, error) {
	suite, err := probe.NewSuite(dev, config.Size, spacing, rng)
	if err != nil {
		return nil, err
	}
	return &Chamber{Config: config, State: ChamberState{Suite: suite}}, nil
}

// lightVolume is the model transform of the unit cube covering the chamber
// with half a unit of slack on every side.
func (c *Chamber) lightVolume() mgl32.Mat4 {
	pos := c.Config.BPos.Sub(core.Splat(0.5))
	size := c.Config.Size.Add(core.Splat(1))
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.Scale3D(size.X(), size.Y(), size.Z()))
}

func (c *Chamber) release(dev gpu.Device) {
	c.State.Suite.Release(dev)
}
