package vtest

import "github.com/glint-ui/glint/pkg/glint"

// Pump is a hand-driven glint.Dispatcher. Posted jobs and frame callbacks
// queue up until the test advances the clock explicitly, so every scheduler
// boundary is observable.
type Pump struct {
	jobs   []func()
	frames []func()
}

func (p *Pump) Post(fn func())      { p.jobs = append(p.jobs, fn) }
func (p *Pump) PostFrame(fn func()) { p.frames = append(p.frames, fn) }

// JobsPending reports whether any microtask jobs are queued.
func (p *Pump) JobsPending() bool { return len(p.jobs) > 0 }

// FramesPending reports whether any frame callbacks are queued.
func (p *Pump) FramesPending() bool { return len(p.frames) > 0 }

// Flush runs queued jobs in order until none remain, like draining the
// microtask queue. Jobs queued by running jobs run in the same flush.
func (p *Pump) Flush() {
	for len(p.jobs) > 0 {
		fn := p.jobs[0]
		p.jobs = p.jobs[1:]
		fn()
	}
}

// Frame flushes jobs, fires one frame tick with the callbacks queued so
// far, then flushes jobs again.
func (p *Pump) Frame() {
	p.Flush()
	frames := p.frames
	p.frames = nil
	for _, fn := range frames {
		fn()
	}
	p.Flush()
}

// Settle advances until no jobs and no frame callbacks remain.
func (p *Pump) Settle() {
	for len(p.jobs) > 0 || len(p.frames) > 0 {
		p.Frame()
	}
}

// NewRuntime wires a fresh runtime to a recording host and a pump.
func NewRuntime() (*glint.Runtime, *Host, *Pump) {
	host := NewHost()
	pump := &Pump{}
	rt := glint.New(host, glint.WithDispatcher(pump))
	return rt, host, pump
}
