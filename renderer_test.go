package lumen

import (
	"errors"
	"testing"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestDrawGeneralRecordsShadowCaster(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)

	end := runFrame(in,
		DrawGeneral{Object: testObject(rec, idx, true), Surface: core.DefaultSurface()},
		AddMajorLight{
			Pos: mgl32.Vec3{0, 0, 20}, Color: mgl32.Vec3{1, 1, 1},
			XDir: mgl32.Vec3{1, 0, 0}, YDir: mgl32.Vec3{0, 1, 0},
			Perspective: mgl32.DegToRad(90), Chamber: idx,
		},
	)

	assert.Empty(t, end.Logs)
	require.NotNil(t, end.Chambers()[idx])
	assert.Same(t, in.Chamber(idx), end.Chambers()[idx])

	var shadowDraws int
	for _, c := range rec.CallsOf("Draw") {
		if c.Pass == gpu.PassShadow {
			shadowDraws++
		}
	}
	assert.Equal(t, 1, shadowDraws)
	assert.Equal(t, 1, rec.Count("ResolveFinal"))
}

func TestChamberContextAccumulates(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)
	ctx := newRenderContext(rec, rendererParams{}, []*Chamber{in.Chamber(idx)}, NewProfiler())

	for _, op := range []RenderOp{
		DrawGeneral{Object: testObject(rec, idx, true)},
		DrawGeneral{Object: testObject(rec, idx, false)},
		DrawEmissiveStatic{Object: testObject(rec, idx, false)},
		DrawEmissiveDynamic{Object: testObject(rec, idx, true)},
		AddAmbientLight{Chamber: idx, Omni: true},
		AddPointLight{Chamber: idx},
	} {
		next, err := ctx.processOp(op)
		require.NoError(t, err)
		require.Nil(t, next)
	}

	c := ctx.chambers[idx]
	assert.Len(t, c.shadowObjects, 2)
	assert.Len(t, c.emissiveObjects, 1)
	assert.Len(t, c.ambientLights, 1)
	assert.Len(t, c.pointLights, 1)
	assert.Equal(t, 4, rec.Count("Draw"))
}

func TestInvalidChamberIsLogged(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)

	var end RenderEnd
	require.NotPanics(t, func() {
		end = runFrame(in, AddAmbientLight{Color: mgl32.Vec3{1, 1, 1}, Chamber: 99})
	})
	require.Len(t, end.Logs, 1)
	assert.Equal(t, KindInvalidChamberAccess, end.Logs[0].Kind)
	assert.Contains(t, end.Logs[0].Message, "99")
}

func TestInvalidChamberErrors(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)
	ctx := newRenderContext(rec, rendererParams{}, []*Chamber{in.Chamber(0), nil}, NewProfiler())

	tests := []struct {
		name string
		op   RenderOp
	}{
		{"out of range", AddPointLight{Chamber: 5}},
		{"empty slot", AddPointLight{Chamber: 1}},
		{"draw", DrawGeneral{Object: testObject(rec, 3, true)}},
		{"major light", AddMajorLight{Chamber: 2}},
		{"shade", ShadeWithIv{Chamber: 1}},
		{"visualize", VisualizeProbes{Chamber: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ctx.processOp(tt.op)
			assert.ErrorIs(t, err, ErrInvalidChamberAccess)
			assert.False(t, errors.Is(err, ErrInvalidShade))
		})
	}
}

func TestDuplicateShadeWithIvKeepsFirst(t *testing.T) {
	cfg := testConfig()
	cfg.IrradianceVolume = &IrradianceVolumeConfig{Weight: 1}
	in, rec := newTestInstance(t, cfg)
	idx := newTestChamber(t, in, rec)

	end := runFrame(in,
		ShadeWithIv{Chamber: idx, Weight: 0.25},
		ShadeWithIv{Chamber: idx, Weight: 0.75},
	)

	require.Len(t, end.Logs, 1)
	assert.Equal(t, KindInvalidShade, end.Logs[0].Kind)
	assert.Contains(t, end.Logs[0].Message, "ShadeWithIv on chamber #0")
	assert.Equal(t, []any{float32(0.25)}, uniformValues(rec, gpu.UniformPVWeight))
}

func TestShadeWithIvNeedsGI(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)

	end := runFrame(in, ShadeWithIv{Chamber: idx, Weight: 0.5})
	assert.Empty(t, end.Logs)
	assert.Empty(t, uniformValues(rec, gpu.UniformPVWeight))
	assert.Zero(t, rec.Count("ReadPixels"))
}

func TestMultipleIsFlattened(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)

	runFrame(in,
		Multiple{
			DrawLine{Width: 1},
			Multiple{DrawLine{Width: 2}, Multiple{DrawLine{Width: 3}}},
			DrawLine{Width: 4},
		},
		DrawLine{Width: 5},
	)

	assert.Equal(t, 5, rec.Count("DrawLine"))
	assert.Equal(t, []any{float32(1), float32(2), float32(3), float32(4), float32(5)},
		uniformValues(rec, gpu.UniformLineWidth))
}

func TestProcessOpRejectsMultiple(t *testing.T) {
	rec := gpu.NewRecorder(testConfig().DeviceConfig())
	ctx := newRenderContext(rec, rendererParams{}, nil, NewProfiler())
	assert.Panics(t, func() { _, _ = ctx.processOp(Multiple{DrawLine{}}) })
	assert.Panics(t, func() { _, _ = ctx.processOp(endFrame{}) })
}

// Follow-up ops queue behind the members of the batch that produced them.
func TestFollowUpOpsAreFIFO(t *testing.T) {
	cfg := testConfig()
	cfg.DebugLightVolumeOutline = true
	in, rec := newTestInstance(t, cfg)
	idx := newTestChamber(t, in, rec)

	frame, r := in.NewFrame(FrameConfig{Camera: testCamera()})
	frame.Push(Multiple{Multiple{
		AddMajorLight{
			Pos: mgl32.Vec3{0, 0, 10}, XDir: mgl32.Vec3{1, 0, 0}, YDir: mgl32.Vec3{0, 1, 0},
			Perspective: mgl32.DegToRad(60), Chamber: idx,
		},
		DrawLine{Width: 2},
	}})
	frame.End()
	in.EndFrame(r.Render())

	line, wire := callIndex(rec, "DrawLine"), callIndex(rec, "DrawWireframe")
	require.NotEqual(t, -1, line)
	require.NotEqual(t, -1, wire)
	assert.Less(t, line, wire)

	wires := rec.CallsOf("DrawWireframe")
	require.Len(t, wires, 1)
	assert.Equal(t, rec.BuiltinMesh(gpu.MeshPyramid).ID, wires[0].Mesh)
}

func TestMajorLightOmni(t *testing.T) {
	omni := MajorLightOmni{Pos: mgl32.Vec3{1, 2, 3}, Color: mgl32.Vec3{1, 1, 1}}
	ops := omni.Op()
	require.Len(t, ops, core.FaceCount)
	for i, op := range ops {
		l, ok := op.(AddMajorLight)
		require.True(t, ok)
		x, y := core.FaceAxes(core.Face(i))
		assert.Equal(t, x, l.XDir)
		assert.Equal(t, y, l.YDir)
		assert.InDelta(t, mgl32.DegToRad(90), l.Perspective, 1e-6)
	}

	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)
	end := runFrame(in, omni.Op())
	assert.Equal(t, core.FaceCount, end.Stats.Counts["lights"])

	var shadowPasses int
	for _, c := range rec.CallsOf("BindPass") {
		if c.Pass == gpu.PassShadow {
			shadowPasses++
		}
	}
	assert.Equal(t, core.FaceCount, shadowPasses)
}

func TestShadowDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableShadow = false
	in, rec := newTestInstance(t, cfg)
	idx := newTestChamber(t, in, rec)

	runFrame(in, AddMajorLight{
		XDir: mgl32.Vec3{1, 0, 0}, YDir: mgl32.Vec3{0, 1, 0},
		Perspective: mgl32.DegToRad(60), Chamber: idx,
	})
	assert.Zero(t, rec.Count("BindShadowMap"))
	assert.Equal(t, []any{int32(0)}, uniformValues(rec, gpu.UniformLightShadow))
}

func TestEmissivePointLightFollowUp(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)

	surface := core.EmissiveStaticSurface{GeneralSurface: core.DefaultSurface(), Emission: mgl32.Vec3{1, 0.5, 0}, Intensity: 127}
	end := runFrame(in, DrawEmissiveStatic{Object: testObject(rec, idx, false), Surface: surface, PointLight: 0.5})
	assert.Equal(t, 1, end.Stats.Counts["lights"])

	var spheres int
	for _, c := range rec.CallsOf("DrawLightVolume") {
		if c.Mesh == rec.BuiltinMesh(gpu.MeshSphere).ID {
			spheres++
		}
	}
	assert.Equal(t, 1, spheres)

	colors := uniformValues(rec, gpu.UniformLightColor)
	require.Len(t, colors, 1)
	assert.True(t, colors[0].(mgl32.Vec3).ApproxEqual(mgl32.Vec3{16, 8, 0}))
}

func TestChambersShadeInIndexOrder(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	first := newTestChamber(t, in, rec)
	second, err := in.AddChamber(testRoom)
	require.NoError(t, err)
	rec.Reset()

	runFrame(in,
		AddAmbientLight{Color: mgl32.Vec3{0, 0, 2}, Chamber: second},
		AddAmbientLight{Color: mgl32.Vec3{0, 0, 1}, Chamber: first},
	)
	assert.Equal(t, []any{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, 2}}, uniformValues(rec, gpu.UniformAmbient))
	assert.Equal(t, 2, rec.Count("DrawLightVolume"))
}

func TestAmbientLightPrograms(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)

	runFrame(in,
		AddAmbientLight{Color: mgl32.Vec3{1, 0, 0}, Chamber: idx},
		AddAmbientLight{Color: mgl32.Vec3{0, 1, 0}, Omni: true, Chamber: idx},
	)
	volumes := rec.CallsOf("DrawLightVolume")
	require.Len(t, volumes, 2)
	assert.Equal(t, gpu.ProgLightOmni, volumes[0].Program)
	assert.Equal(t, gpu.ProgLightAmbient, volumes[1].Program)
}

func TestAbortSkipsShading(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)

	frame, r := in.NewFrame(FrameConfig{Camera: testCamera()})
	frame.Push(AddPointLight{Chamber: idx})
	frame.Abort()
	end := r.Render()
	in.EndFrame(end)

	require.Len(t, end.Logs, 1)
	assert.Equal(t, "frame aborted", end.Logs[0].Message)
	assert.Zero(t, rec.Count("DrawLightVolume"))
	assert.Equal(t, 1, rec.Count("ResolveFinal"))
	assert.NotNil(t, in.Device())
}

func TestRendererStates(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)

	frame, r := in.NewFrame(FrameConfig{Camera: testCamera()})
	assert.Equal(t, StateIdle, r.State())
	frame.End()
	end := r.Render()
	assert.Equal(t, StateDone, r.State())
	assert.Panics(t, func() { r.Render() })
	in.EndFrame(end)

	assert.Panics(t, func() { frame.Push(DrawLine{}) })
	assert.Panics(t, func() { frame.End() })
}

func TestConcurrentProducer(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)

	const n = 500
	frame, r := in.NewFrame(FrameConfig{Camera: testCamera()})

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < n; i++ {
			frame.Push(DrawLine{Width: float32(i)})
		}
		frame.End()
		return nil
	})
	end := r.Render()
	require.NoError(t, g.Wait())
	in.EndFrame(end)

	assert.Equal(t, n, rec.Count("DrawLine"))
	widths := uniformValues(rec, gpu.UniformLineWidth)
	require.Len(t, widths, n)
	for i, w := range widths {
		require.Equal(t, float32(i), w)
	}
}

func TestMissingCameraPanics(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)
	ctx := newRenderContext(rec, rendererParams{}, []*Chamber{in.Chamber(idx)}, NewProfiler())

	assert.Panics(t, func() { ctx.shade(int(idx)) })

	ctx.billboards = append(ctx.billboards, DrawBillboard{})
	assert.Panics(t, func() { ctx.renderImages() })
}

func TestImagesAndBillboards(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)
	tex := rec.CreateTexture2D(gpu.FormatRGBA8, 4, 2, nil)

	end := runFrame(in,
		DrawImage{Texture: tex, Pos: mgl32.Vec2{8, 8}, Size: mgl32.Vec2{1, 1}, Color: mgl32.Vec4{1, 1, 1, 1}},
		DrawBillboard{Texture: tex, Pos: mgl32.Vec3{0, 0, 10}, Size: mgl32.Vec2{1, 1}},
		DrawBillboard{Texture: tex, Pos: mgl32.Vec3{0, -40, 10}, Size: mgl32.Vec2{1, 1}},
		ShowInternalTexture{Name: "iv_illusion"},
		ShowInternalTexture{Name: "bogus"},
	)

	assert.Equal(t, 1, end.Stats.Counts["images"])
	assert.Equal(t, 1, end.Stats.Counts["billboards"])
	require.Len(t, end.Logs, 1)
	assert.Equal(t, "Invalid internal texture name: bogus", end.Logs[0].Message)

	var quads []gpu.Call
	for _, c := range rec.CallsOf("Uniform") {
		if c.Program == gpu.ProgImage && c.Uniform == gpu.UniformModel {
			quads = append(quads, c)
		}
	}
	require.Len(t, quads, 2)
	// centered image: origin at the screen center, a quarter screen wide
	img := quads[0].Value.(mgl32.Mat4)
	assert.InDelta(t, 0, img.At(0, 3), 1e-6)
	assert.InDelta(t, 0.5, img.At(0, 0), 1e-6)
	assert.InDelta(t, 0.25, img.At(1, 1), 1e-6)
	// billboard straight ahead projects to the screen center
	bb := quads[1].Value.(mgl32.Mat4)
	assert.InDelta(t, 0, bb.At(0, 3), 1e-5)
	assert.InDelta(t, 0, bb.At(1, 3), 1e-5)
}

func TestVisualizeProbes(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)

	runFrame(in, VisualizeProbes{Chamber: idx})
	probes := in.Chamber(idx).State.Suite.Volume().Probes()

	var draws int
	for _, c := range rec.CallsOf("Draw") {
		if c.Program == gpu.ProgSHVisualizeSingle {
			draws++
		}
	}
	assert.Equal(t, len(probes), draws)
	sh := uniformValues(rec, gpu.UniformSH)
	require.Len(t, sh, len(probes))
	assert.Equal(t, probes[0].SH[3].Illumination, sh[0].([]mgl32.Vec3)[3])
}

func TestLogsSortedByTime(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	newTestChamber(t, in, rec)

	end := runFrame(in,
		ShowInternalTexture{Name: "bogus"},
		AddPointLight{Chamber: 7},
		ShadeWithIv{Chamber: 9},
	)
	require.Len(t, end.Logs, 3)
	for i := 1; i < len(end.Logs); i++ {
		assert.False(t, end.Logs[i].Timestamp.Before(end.Logs[i-1].Timestamp))
	}
	// internal textures are checked while composing, after every op
	assert.Equal(t, KindOther, end.Logs[2].Kind)
}

func TestProbeCaptureCycle(t *testing.T) {
	cfg := testConfig()
	cfg.IrradianceVolume = &IrradianceVolumeConfig{Weight: 1}
	in, rec := newTestInstance(t, cfg)
	idx := newTestChamber(t, in, rec)

	surface := core.EmissiveStaticSurface{GeneralSurface: core.DefaultSurface(), Emission: mgl32.Vec3{1, 1, 1}, Intensity: 127}
	for frame := 1; frame <= core.FaceCount; frame++ {
		rec.Reset()
		end := runFrame(in,
			DrawEmissiveStatic{Object: testObject(rec, idx, false), Surface: surface},
			ShadeWithIv{Chamber: idx, Weight: 1},
		)
		require.Empty(t, end.Logs)
		assert.Equal(t, 2, rec.Count("ReadPixels"), "frame %d", frame)

		captures := 0
		for _, c := range rec.CallsOf("Draw") {
			if c.Program == gpu.ProgStandardProbe {
				captures++
			}
		}
		assert.Equal(t, 1, captures)

		if frame < core.FaceCount {
			assert.Zero(t, end.Stats.Counts["probes-baked"], "frame %d", frame)
			assert.Zero(t, rec.Count("UploadTexture3D"))
		} else {
			assert.Equal(t, 1, end.Stats.Counts["probes-baked"])
			assert.Equal(t, 2, rec.Count("UploadTexture3D"))
		}
	}

	cur := in.Chamber(idx).State.Cursor
	assert.Equal(t, core.Vec3i{1, 0, 0}, cur.Index)
	assert.Equal(t, core.Face(0), cur.Face)
}

func TestProbeCaptureSkippedWithoutGI(t *testing.T) {
	in, rec := newTestInstance(t, testConfig())
	idx := newTestChamber(t, in, rec)

	runFrame(in)
	assert.Zero(t, rec.Count("ReadPixels"))
	assert.Zero(t, in.Chamber(idx).State.Cursor)
}
