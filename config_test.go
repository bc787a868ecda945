package lumen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
resolution: [640, 480]
probe_resolution: 16
max_chamber_num: 2
irradiance_volume:
  weight: 0.5
enable_shadow: false
`))
	require.NoError(t, err)
	assert.Equal(t, [2]int{640, 480}, cfg.Resolution)
	assert.Equal(t, 16, cfg.ProbeResolution)
	assert.Equal(t, 2, cfg.MaxChamberNum)
	assert.False(t, cfg.EnableShadow)
	require.True(t, cfg.GIEnabled())
	assert.Equal(t, float32(0.5), cfg.IrradianceVolume.Weight)

	// unset keys keep their defaults
	def := DefaultConfig()
	assert.Equal(t, def.ShadowResolution, cfg.ShadowResolution)
	assert.Equal(t, def.PVScale, cfg.PVScale)
	assert.Equal(t, def.MaxMajorLights, cfg.MaxMajorLights)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.GIEnabled())
	assert.True(t, cfg.EnableShadow)

	dc := cfg.DeviceConfig()
	assert.Equal(t, cfg.Resolution, dc.Resolution)
	assert.Equal(t, cfg.MaxMajorLights, dc.MaxMajorLights)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"resolution", func(c *Config) { c.Resolution[1] = 0 }, "resolution"},
		{"shadow", func(c *Config) { c.ShadowResolution = -1 }, "shadow_resolution"},
		{"probe", func(c *Config) { c.ProbeResolution = 0 }, "probe_resolution"},
		{"lights", func(c *Config) { c.MaxMajorLights = -2 }, "max_major_lights"},
		{"chambers", func(c *Config) { c.MaxChamberNum = 0 }, "max_chamber_num"},
		{"spacing", func(c *Config) { c.PVScale = 0 }, "pv_scale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	cfg := DefaultConfig()
	cfg.ProbeResolution = 0
	cfg.PVScale = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe_resolution")
	assert.Contains(t, err.Error(), "pv_scale")
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("resolution: [1, 2, 3"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("max_chamber_num: 0"))
	assert.ErrorContains(t, err, "max_chamber_num")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pv_scale: 4\ndebug_lightvolume_outline: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(4), cfg.PVScale)
	assert.True(t, cfg.DebugLightVolumeOutline)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRendererParams(t *testing.T) {
	cfg := DefaultConfig()
	p := newRendererParams(cfg, FrameConfig{ShowLightVolumeOutline: true})
	assert.True(t, p.debugLightVolumeOutline)
	assert.True(t, p.enableShadow)
	assert.False(t, p.enableIrradianceVolume)

	cfg.IrradianceVolume = &IrradianceVolumeConfig{}
	p = newRendererParams(cfg, FrameConfig{})
	assert.False(t, p.debugLightVolumeOutline)
	assert.True(t, p.enableIrradianceVolume)
}
