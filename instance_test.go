package lumen

import (
	"testing"

	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderValidates(t *testing.T) {
	cfg := testConfig()
	cfg.MaxChamberNum = 0
	_, err := NewBuilder(cfg).UseDevice(gpu.NewRecorder(cfg.DeviceConfig())).Build()
	assert.Error(t, err)

	_, err = NewBuilder(testConfig()).Build()
	assert.Error(t, err)

	in, err := NewBuilder(testConfig()).UseDevice(gpu.NewRecorder(testConfig().DeviceConfig())).Build()
	require.NoError(t, err)
	assert.NotNil(t, in.Logger())
}

func TestChamberCapacity(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())

	a, err := in.AddChamber(testRoom)
	require.NoError(t, err)
	b, err := in.AddChamber(testRoom)
	require.NoError(t, err)
	assert.Equal(t, ChamberIndex(0), a)
	assert.Equal(t, ChamberIndex(1), b)

	_, err = in.AddChamber(testRoom)
	assert.ErrorIs(t, err, ErrChamberCapacity)

	require.NoError(t, in.RemoveChamber(a))
	assert.Nil(t, in.Chamber(a))
	assert.Equal(t, 2, rec.Count("ReleaseTexture"))

	c, err := in.AddChamber(testRoom)
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestAddChamberRejectsDegenerateRoom(t *testing.T) {
	in, _ := newTestInstance(t, testConfig())
	_, err := in.AddChamber(ChamberConfig{Size: mgl32.Vec3{1, 24, 24}})
	assert.Error(t, err)
	assert.Nil(t, in.Chamber(0))
}

func TestRemoveChamberInvalid(t *testing.T) {
	in, _ := newTestInstance(t, testConfig())
	assert.ErrorIs(t, in.RemoveChamber(0), ErrInvalidChamberAccess)
	assert.ErrorIs(t, in.RemoveChamber(7), ErrInvalidChamberAccess)
	assert.Nil(t, in.Chamber(7))
}

func TestFrameProtocol(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)

	frame, r := in.NewFrame(FrameConfig{Camera: testCamera()})
	assert.Panics(t, func() { in.NewFrame(FrameConfig{}) }, "second frame in flight")
	assert.Panics(t, func() { in.Device() })
	assert.Panics(t, func() { _, _ = in.AddChamber(testRoom) })
	assert.Panics(t, func() { _ = in.RemoveChamber(0) })
	assert.Nil(t, in.Chamber(0), "chambers move with the frame")

	frame.End()
	end := r.Render()
	in.EndFrame(end)
	assert.Same(t, rec, in.Device())
	assert.NotNil(t, in.Chamber(0))

	assert.Panics(t, func() { in.EndFrame(end) }, "EndFrame without NewFrame")
}
