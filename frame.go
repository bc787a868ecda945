package lumen

// Frame is the producer side of one frame. It is created by
// Instance.NewFrame, which has already queued the frame start and camera.
// A Frame may be used from any one goroutine; End or Abort must be called
// exactly once.
type Frame struct {
	config FrameConfig
	queue  *opQueue
	ended  bool
}

func newFrame(config FrameConfig, queue *opQueue) *Frame {
	queue.send(startFrame{})
	queue.send(SetCamera{Camera: config.Camera})
	return &Frame{config: config, queue: queue}
}

func (f *Frame) Config() FrameConfig { return f.config }

// Push queues op. The members of a Multiple are queued individually and
// in order.
func (f *Frame) Push(op RenderOp) {
	f.mustBeOpen()
	if m, ok := op.(Multiple); ok {
		for _, member := range m {
			f.queue.send(member)
		}
		return
	}
	f.queue.send(op)
}

// End closes the frame; the renderer shades and composes it.
func (f *Frame) End() {
	f.mustBeOpen()
	f.ended = true
	f.queue.send(endFrame{})
}

// Abort closes the frame without shading it. Probe capture and lighting are
// skipped; the device and chambers are still handed back.
func (f *Frame) Abort() {
	f.mustBeOpen()
	f.ended = true
	f.queue.send(abortFrame{})
}

func (f *Frame) mustBeOpen() {
	if f.ended {
		panic("lumen: op pushed to a frame that already ended")
	}
}
