package lumen

import (
	"math/rand/v2"
	"testing"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Resolution = [2]int{16, 16}
	cfg.ShadowResolution = 16
	cfg.ProbeResolution = 4
	cfg.MaxMajorLights = 2
	cfg.MaxChamberNum = 2
	cfg.PVScale = 8
	return cfg
}

var testRoom = ChamberConfig{BPos: mgl32.Vec3{-12, -12, 0}, Size: mgl32.Vec3{24, 24, 24}}

func testCamera() core.Camera {
	return core.NewCamera(mgl32.Vec3{0, -20, 10}, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 1},
		mgl32.DegToRad(60), 1, 0.1, 100)
}

func newTestInstance(t *testing.T, cfg Config) (*Instance, *gpu.Recorder) {
	t.Helper()
	rec := gpu.NewRecorder(cfg.DeviceConfig())
	in, err := NewBuilder(cfg).
		UseDevice(rec).
		UseLogger(NewNopLogger()).
		UseRand(rand.New(rand.NewPCG(1, 1))).
		Build()
	require.NoError(t, err)
	return in, rec
}

// newTestChamber fills slot 0 and clears the recorded setup calls.
func newTestChamber(t *testing.T, in *Instance, rec *gpu.Recorder) ChamberIndex {
	t.Helper()
	idx, err := in.AddChamber(testRoom)
	require.NoError(t, err)
	rec.Reset()
	return idx
}

func runFrame(in *Instance, ops ...RenderOp) RenderEnd {
	frame, r := in.NewFrame(FrameConfig{Camera: testCamera()})
	for _, op := range ops {
		frame.Push(op)
	}
	frame.End()
	end := r.Render()
	in.EndFrame(end)
	return end
}

func testObject(rec *gpu.Recorder, chamber ChamberIndex, shadow bool) Object {
	return Object{
		Mesh:    rec.BuiltinMesh(gpu.MeshCube),
		Shadow:  shadow,
		Trans:   mgl32.Translate3D(0, 0, 2),
		Chamber: chamber,
	}
}

// callIndex is the position of the first recorded call of op, or -1.
func callIndex(rec *gpu.Recorder, op string) int {
	for i, c := range rec.Calls {
		if c.Op == op {
			return i
		}
	}
	return -1
}

// uniformValues returns the values set on u in call order.
func uniformValues(rec *gpu.Recorder, u gpu.Uniform) []any {
	var out []any
	for _, c := range rec.CallsOf("Uniform") {
		if c.Uniform == u {
			out = append(out, c.Value)
		}
	}
	return out
}
