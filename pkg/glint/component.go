package glint

// componentNode owns one mounted instance of a function component: its
// current props, its hook State, the reconciled child subtree, and the
// depth used to order scheduled re-renders.
type componentNode struct {
	rt      *Runtime
	fn      ComponentFunc
	props   Props
	state   *State
	child   node
	scope   *providerScope
	depth   int
	seq     uint64 // scheduler push order, breaks depth ties
	dirty   bool
	mounted bool
}

func mountComponent(rt *Runtime, d Descriptor, scope *providerScope, depth int) *componentNode {
	c := &componentNode{
		rt:      rt,
		fn:      d.Fn,
		props:   d.Props,
		scope:   scope,
		depth:   depth,
		mounted: true,
	}
	out := c.render(creationHooks{})
	c.child = mountNode(rt, out, scope, depth+1)
	return c
}

// render invokes the component function under the given hook strategy.
// Hook calls are only legal while the invocation is on the stack.
func (c *componentNode) render(mode hookMode) Descriptor {
	rc := &Ctx{rt: c.rt, comp: c, mode: mode, active: true}
	defer func() { rc.active = false }()
	return c.fn(rc, c.props)
}

func (c *componentNode) ensureState() *State {
	if c.state == nil {
		c.state = &State{}
	}
	return c.state
}

func (c *componentNode) firstHost() HostNode { return c.child.firstHost() }
func (c *componentNode) lastHost() HostNode  { return c.child.lastHost() }

func (c *componentNode) insert(rt *Runtime, parent, ref HostNode) {
	c.child.insert(rt, parent, ref)
}

// update adopts a new descriptor from the parent. A reference-identical
// props bag short-circuits without re-rendering; otherwise the component
// re-renders synchronously within the parent's patch pass.
func (c *componentNode) update(d Descriptor) {
	if sameProps(c.props, d.Props) {
		return
	}
	c.props = d.Props
	c.rerender()
}

// rerender clears the dirty flag, re-invokes the component function in
// update mode, and reconciles the result against the existing child.
func (c *componentNode) rerender() {
	if !c.mounted {
		return
	}
	c.dirty = false
	out := c.render(updateHooks{})
	c.child = patchNode(c.rt, c.child, out, c.scope, c.depth+1)
}

// scheduleEffect queues an effect run on the appropriate scheduler phase.
// The run invokes the previous cleanup, then the body; it becomes a no-op
// if the component unmounted while queued.
func (c *componentNode) scheduleEffect(rec *effectRecord, body func() Cleanup) {
	run := func() {
		if !c.mounted {
			return
		}
		if rec.cleanup != nil {
			rec.cleanup()
			rec.cleanup = nil
		}
		rec.cleanup = body()
	}
	if rec.layout {
		c.rt.sched.pushLayout(run)
	} else {
		c.rt.sched.pushPassive(run)
	}
}

// unmount marks the instance dead (turning any queued re-render into a
// no-op), releases context subscriptions, runs every effect cleanup in
// registration order, and only then unmounts the child subtree.
func (c *componentNode) unmount(rt *Runtime, detach bool) {
	c.mounted = false
	if c.state != nil {
		for _, sub := range c.state.contexts {
			if sub.provider != nil {
				sub.provider.removeSubscriber(c)
			}
		}
		for _, rec := range c.state.effects {
			if rec.cleanup != nil {
				rec.cleanup()
				rec.cleanup = nil
			}
		}
	}
	c.child.unmount(rt, detach)
}
