package glint

import "container/heap"

// Dispatcher supplies the scheduler's two suspension boundaries: Post runs
// a job at the next microtask-equivalent opportunity, PostFrame at the next
// display-refresh-equivalent tick. Jobs must execute on the single logical
// thread that owns the tree. Loop is the production implementation;
// pkg/vtest pumps the boundaries by hand.
type Dispatcher interface {
	Post(fn func())
	PostFrame(fn func())
}

// scheduler owns the dirty-component heap and the two effect stacks.
type scheduler struct {
	disp Dispatcher

	dirty     dirtyHeap
	seq       uint64
	scheduled bool // a drain is already posted

	layout  []func() // flushed synchronously per drain cycle, LIFO
	passive []func() // flushed on the next frame tick, LIFO

	framePending bool
}

// requestRerender marks the component dirty and queues it by depth. The
// first entry since the last drain posts the drain loop; everything else
// rides along.
func (s *scheduler) requestRerender(c *componentNode) {
	if c.dirty || !c.mounted {
		return
	}
	c.dirty = true
	s.seq++
	c.seq = s.seq
	heap.Push(&s.dirty, c)
	if !s.scheduled {
		s.scheduled = true
		s.disp.Post(s.drain)
	}
}

// drain re-renders dirty components shallowest-first, then flushes layout
// effects, repeating the two-phase cycle until neither produced new work.
// Passive effects collected along the way are handed to the frame boundary.
func (s *scheduler) drain() {
	s.scheduled = false
	for s.dirty.Len() > 0 || len(s.layout) > 0 {
		for s.dirty.Len() > 0 {
			c := heap.Pop(&s.dirty).(*componentNode)
			if !c.dirty || !c.mounted {
				continue
			}
			c.rerender()
		}
		s.flushLayout()
	}
	if len(s.passive) > 0 && !s.framePending {
		s.framePending = true
		s.disp.PostFrame(s.flushPassive)
	}
}

func (s *scheduler) pushLayout(fn func())  { s.layout = append(s.layout, fn) }
func (s *scheduler) pushPassive(fn func()) { s.passive = append(s.passive, fn) }

// flushLayout runs the layout stack last-registered-first.
func (s *scheduler) flushLayout() {
	for len(s.layout) > 0 {
		fn := s.layout[len(s.layout)-1]
		s.layout = s.layout[:len(s.layout)-1]
		fn()
	}
}

// flushPassive runs the passive stack last-registered-first as one batch.
func (s *scheduler) flushPassive() {
	s.framePending = false
	for len(s.passive) > 0 {
		fn := s.passive[len(s.passive)-1]
		s.passive = s.passive[:len(s.passive)-1]
		fn()
	}
}

// dirtyHeap is a binary heap of dirty components ordered by ascending
// depth, ties broken by push order. Shallower components re-render first so
// a parent that unmounts a descendant wins over the descendant's own stale
// entry.
type dirtyHeap []*componentNode

func (h dirtyHeap) Len() int { return len(h) }

func (h dirtyHeap) Less(i, j int) bool {
	if h[i].depth != h[j].depth {
		return h[i].depth < h[j].depth
	}
	return h[i].seq < h[j].seq
}

func (h dirtyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *dirtyHeap) Push(x any) { *h = append(*h, x.(*componentNode)) }

func (h *dirtyHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}
