package glint

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a display refresh for deferred passive
// effects when the Loop is not told otherwise.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop is the production Dispatcher: a single-goroutine event loop with a
// job queue (the microtask boundary) and a frame queue drained on a fixed
// tick (the display-refresh boundary). All component renders, effects, and
// event handlers for one runtime execute on its goroutine.
type Loop struct {
	mu     sync.Mutex
	jobs   []func()
	frames []func()
	wake   chan struct{}
	every  time.Duration
}

// NewLoop returns a stopped loop; call Run to start it.
func NewLoop(frameInterval time.Duration) *Loop {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		wake:  make(chan struct{}, 1),
		every: frameInterval,
	}
}

// Post queues fn to run before the next frame tick. Safe from any
// goroutine; this is also how external code hands work (for example event
// dispatch) to the loop's thread.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.jobs = append(l.jobs, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// PostFrame queues fn for the next frame tick.
func (l *Loop) PostFrame(fn func()) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// Run processes jobs and frame ticks until ctx is done. Jobs queued before
// a tick always complete before the tick's frame callbacks run.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			l.runJobs()
		case <-ticker.C:
			l.runJobs()
			l.runFrames()
			l.runJobs()
		}
	}
}

func (l *Loop) runJobs() {
	for {
		l.mu.Lock()
		if len(l.jobs) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.jobs[0]
		l.jobs = l.jobs[1:]
		l.mu.Unlock()
		fn()
	}
}

func (l *Loop) runFrames() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()
	for _, fn := range frames {
		fn()
	}
}
