package lumen

import (
	"fmt"

	"github.com/gekko3d/lumen/rt/gpu"
)

// deviceSlot holds the device between frames. Exactly one side owns the
// device at any instant: the slot, or the Renderer of the frame in flight.
type deviceSlot struct {
	dev    gpu.Device
	logger Logger
}

// take moves the device out for a new frame.
func (s *deviceSlot) take() gpu.Device {
	if s.dev == nil {
		s.logger.Errorf("NewFrame called while a frame is in flight")
		panic("lumen: NewFrame called while a frame is in flight")
	}
	dev := s.dev
	s.dev = nil
	return dev
}

// put returns the device at frame end.
func (s *deviceSlot) put(dev gpu.Device) {
	if dev == nil {
		panic("lumen: frame ended without returning the device")
	}
	if s.dev != nil {
		s.logger.Errorf("EndFrame called without NewFrame")
		panic(fmt.Sprintf("lumen: EndFrame called without NewFrame (device %T already held)", s.dev))
	}
	s.dev = dev
}

func (s *deviceSlot) held() bool {
	return s.dev != nil
}
