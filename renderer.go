package lumen

import (
	"fmt"
	"sort"

	"github.com/gekko3d/lumen/rt/gpu"
)

// RendererState is the stage of a Renderer's single run.
type RendererState uint8

const (
	StateIdle RendererState = iota
	StateDraining
	StateShading
	StateFinalizing
	StateDone
)

func (s RendererState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	case StateShading:
		return "shading"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", s)
}

// Renderer is the consumer side of one frame. It owns the device and every
// chamber from NewFrame until Render returns, and runs exactly once.
type Renderer struct {
	state    RendererState
	queue    *opQueue
	dev      gpu.Device
	params   rendererParams
	chambers []*Chamber
	logs     []FrameLog
	profiler *Profiler
}

// RenderEnd hands the device and chambers back to the Instance.
type RenderEnd struct {
	// Logs are the frame's recoverable errors, oldest first.
	Logs  []FrameLog
	Stats *Profiler

	dev      gpu.Device
	chambers []*Chamber
}

// Chambers are the chamber slots as they stand after the frame.
func (e RenderEnd) Chambers() []*Chamber { return e.chambers }

func newRenderer(dev gpu.Device, queue *opQueue, params rendererParams, chambers []*Chamber) *Renderer {
	return &Renderer{
		queue:    queue,
		dev:      dev,
		params:   params,
		chambers: chambers,
		profiler: NewProfiler(),
	}
}

func (r *Renderer) State() RendererState { return r.state }

// Render drains the frame's ops until the frame ends, then shades every
// chamber and composes the final image. It blocks while the producer is
// still pushing.
func (r *Renderer) Render() RenderEnd {
	if r.state != StateIdle {
		panic(fmt.Sprintf("lumen: Render called on a renderer in state %s", r.state))
	}
	ctx := newRenderContext(r.dev, r.params, r.chambers, r.profiler)
	r.dev, r.chambers = nil, nil

	r.state = StateDraining
	r.profiler.BeginScope("drain")
	aborted := r.drain(ctx)
	r.profiler.EndScope("drain")

	r.state = StateShading
	if !aborted {
		ctx.dev.BindPass(gpu.PassDeferred2, 0, true)
		if r.params.enableIrradianceVolume {
			r.profiler.BeginScope("gi-capture")
			for _, c := range ctx.chambers {
				if c != nil {
					ctx.updateProbe(c)
				}
			}
			r.profiler.EndScope("gi-capture")
		}
		r.profiler.BeginScope("shading")
		for i := range ctx.chambers {
			ctx.shade(i)
		}
		r.profiler.EndScope("shading")
	}

	r.state = StateFinalizing
	r.profiler.BeginScope("composite")
	ctx.dev.BindPass(gpu.Pass2D, 0, true)
	ctx.renderImages()
	ctx.dev.ResolveFinal()
	r.profiler.EndScope("composite")
	r.queue.close()

	logs := append(r.logs, ctx.logs...)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Timestamp.Before(logs[j].Timestamp) })
	r.logs = nil
	r.profiler.SetCount("logs", len(logs))

	r.state = StateDone
	return RenderEnd{
		Logs:     logs,
		Stats:    r.profiler,
		dev:      ctx.dev,
		chambers: ctx.release(),
	}
}

// drain dispatches queued ops until the frame ends. It reports whether the
// frame was aborted.
func (r *Renderer) drain(ctx *renderContext) bool {
	for {
		switch op := r.queue.recv().(type) {
		case endFrame:
			return false
		case abortFrame:
			r.logs = append(r.logs, newFrameLog(KindOther, "frame aborted"))
			return true
		case Multiple:
			r.dispatch(ctx, op...)
		default:
			r.dispatch(ctx, op)
		}
	}
}

// dispatch processes ops and everything they expand into in FIFO order:
// nested Multiple members take their parent's place, follow-up ops queue
// behind the work already pending.
func (r *Renderer) dispatch(ctx *renderContext, ops ...RenderOp) {
	work := append([]RenderOp(nil), ops...)
	for len(work) > 0 {
		op := work[0]
		work = work[1:]
		if m, ok := op.(Multiple); ok {
			work = append(append([]RenderOp(nil), m...), work...)
			continue
		}

		next, err := ctx.processOp(op)
		if err != nil {
			r.logs = append(r.logs, frameLogFromErr(err))
			continue
		}
		switch next.(type) {
		case nil:
		case startFrame, endFrame, abortFrame:
			panic(fmt.Sprintf("lumen: %T must not be emitted as a follow-up op", next))
		default:
			work = append(work, next)
		}
	}
}
