package lumen

import (
	"fmt"
	"math/rand/v2"

	"github.com/gekko3d/lumen/rt/gpu"
)

// Instance owns the device and the chamber slots between frames.
type Instance struct {
	cfg      Config
	slot     deviceSlot
	chambers []*Chamber
	logger   Logger
	rng      *rand.Rand
}

type Builder struct {
	cfg    Config
	dev    gpu.Device
	logger Logger
	rng    *rand.Rand
}

func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

func (b *Builder) UseDevice(dev gpu.Device) *Builder {
	b.dev = dev
	return b
}

func (b *Builder) UseLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// UseRand seeds probe placeholder coefficients; tests use it for
// reproducible volumes.
func (b *Builder) UseRand(rng *rand.Rand) *Builder {
	b.rng = rng
	return b
}

func (b *Builder) Build() (*Instance, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	if b.dev == nil {
		return nil, fmt.Errorf("lumen: no device")
	}
	logger := b.logger
	if logger == nil {
		logger = NewDefaultLogger("lumen", false)
	}
	return &Instance{
		cfg:      b.cfg,
		slot:     deviceSlot{dev: b.dev, logger: logger},
		chambers: make([]*Chamber, b.cfg.MaxChamberNum),
		logger:   logger,
		rng:      b.rng,
	}, nil
}

func (in *Instance) Config() Config { return in.cfg }
func (in *Instance) Logger() Logger { return in.logger }

// Device is the owned device; it panics while a frame is in flight.
func (in *Instance) Device() gpu.Device {
	if !in.slot.held() {
		panic("lumen: device accessed while a frame is in flight")
	}
	return in.slot.dev
}

// Chamber returns the chamber at i, or nil when the slot is empty.
func (in *Instance) Chamber(i ChamberIndex) *Chamber {
	if int(i) >= len(in.chambers) {
		return nil
	}
	return in.chambers[i]
}

// AddChamber places a chamber in the first free slot.
func (in *Instance) AddChamber(config ChamberConfig) (ChamberIndex, error) {
	in.mustBeIdle("AddChamber")
	for i, c := range in.chambers {
		if c != nil {
			continue
		}
		chamber, err := newChamber(in.slot.dev, config, in.cfg.PVScale, in.rng)
		if err != nil {
			return 0, fmt.Errorf("add chamber: %w", err)
		}
		in.chambers[i] = chamber
		n := chamber.State.Suite.Volume().Number()
		in.logger.Infof("chamber #%d added: %d probes (%dx%dx%d)", i, n.Volume(), n[0], n[1], n[2])
		return ChamberIndex(i), nil
	}
	return 0, ErrChamberCapacity
}

// RemoveChamber empties slot i and frees its probe atlas.
func (in *Instance) RemoveChamber(i ChamberIndex) error {
	in.mustBeIdle("RemoveChamber")
	if int(i) >= len(in.chambers) || in.chambers[i] == nil {
		return fmt.Errorf("remove chamber #%d: %w", i, ErrInvalidChamberAccess)
	}
	in.chambers[i].release(in.slot.dev)
	in.chambers[i] = nil
	return nil
}

// NewFrame moves the device and chambers into a Renderer and returns the
// Frame feeding it. Frame and Renderer may run on different goroutines.
// Only one frame may be in flight.
func (in *Instance) NewFrame(config FrameConfig) (*Frame, *Renderer) {
	dev := in.slot.take()

	chambers := in.chambers
	in.chambers = make([]*Chamber, len(chambers))

	queue := newOpQueue()
	renderer := newRenderer(dev, queue, newRendererParams(in.cfg, config), chambers)
	return newFrame(config, queue), renderer
}

// EndFrame takes back what a finished Renderer returned and reports the
// frame's logs.
func (in *Instance) EndFrame(end RenderEnd) {
	in.slot.put(end.dev)
	in.chambers = end.chambers

	logFrame(in.logger, end.Logs)
	if end.Stats != nil && in.logger.DebugEnabled() {
		in.logger.Debugf("frame stats:\n%s", end.Stats.StatsString())
	}
}

func (in *Instance) mustBeIdle(what string) {
	if !in.slot.held() {
		panic(fmt.Sprintf("lumen: %s called while a frame is in flight", what))
	}
}
