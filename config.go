package lumen

import (
	"errors"
	"fmt"
	"os"

	"github.com/gekko3d/lumen/rt/core"
	"github.com/gekko3d/lumen/rt/gpu"

	"gopkg.in/yaml.v3"
)

// IrradianceVolumeConfig enables global illumination when present.
type IrradianceVolumeConfig struct {
	// Weight is the default ShadeWithIv weight used by helpers.
	Weight float32 `yaml:"weight"`
}

// Config sizes the device passes and the chamber slots of an Instance.
type Config struct {
	Resolution       [2]int                  `yaml:"resolution"`
	ShadowResolution int                     `yaml:"shadow_resolution"`
	ProbeResolution  int                     `yaml:"probe_resolution"`
	MaxMajorLights   int                     `yaml:"max_major_lights"`
	MaxChamberNum    int                     `yaml:"max_chamber_num"`
	PVScale          float32                 `yaml:"pv_scale"`
	IrradianceVolume *IrradianceVolumeConfig `yaml:"irradiance_volume,omitempty"`

	DebugLightVolumeOutline bool `yaml:"debug_lightvolume_outline"`
	EnableShadow            bool `yaml:"enable_shadow"`
}

func DefaultConfig() Config {
	return Config{
		Resolution:       [2]int{1280, 720},
		ShadowResolution: 2048,
		ProbeResolution:  32,
		MaxMajorLights:   8,
		MaxChamberNum:    4,
		PVScale:          8,
		EnableShadow:     true,
	}
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

func (c Config) Validate() error {
	var errs []error
	if c.Resolution[0] <= 0 || c.Resolution[1] <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %v", c.Resolution))
	}
	if c.ShadowResolution <= 0 {
		errs = append(errs, fmt.Errorf("shadow_resolution must be positive, got %d", c.ShadowResolution))
	}
	if c.ProbeResolution <= 0 {
		errs = append(errs, fmt.Errorf("probe_resolution must be positive, got %d", c.ProbeResolution))
	}
	if c.MaxMajorLights < 0 {
		errs = append(errs, fmt.Errorf("max_major_lights must not be negative, got %d", c.MaxMajorLights))
	}
	if c.MaxChamberNum <= 0 {
		errs = append(errs, fmt.Errorf("max_chamber_num must be positive, got %d", c.MaxChamberNum))
	}
	if c.PVScale <= 0 {
		errs = append(errs, fmt.Errorf("pv_scale must be positive, got %v", c.PVScale))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GIEnabled reports whether probe capture and irradiance shading run.
func (c Config) GIEnabled() bool {
	return c.IrradianceVolume != nil
}

// DeviceConfig is the subset of c a device backend needs.
func (c Config) DeviceConfig() gpu.DeviceConfig {
	return gpu.DeviceConfig{
		Resolution:       c.Resolution,
		ShadowResolution: c.ShadowResolution,
		ProbeResolution:  c.ProbeResolution,
		MaxMajorLights:   c.MaxMajorLights,
	}
}

// FrameConfig describes one frame.
type FrameConfig struct {
	Camera                 core.Camera
	ShowLightVolumeOutline bool
}

// rendererParams are the per-frame switches derived from Config and FrameConfig.
type rendererParams struct {
	debugLightVolumeOutline bool
	enableShadow            bool
	enableIrradianceVolume  bool
}

func newRendererParams(cfg Config, frame FrameConfig) rendererParams {
	return rendererParams{
		debugLightVolumeOutline: cfg.DebugLightVolumeOutline || frame.ShowLightVolumeOutline,
		enableShadow:            cfg.EnableShadow,
		enableIrradianceVolume:  cfg.GIEnabled(),
	}
}
