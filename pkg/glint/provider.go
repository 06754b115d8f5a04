package glint

// providerScope is the ambient, depth-scoped mapping from context token to
// nearest enclosing provider, threaded read-only through reconciliation.
// Provider nodes extend it; nothing ever removes an entry.
type providerScope struct {
	parent *providerScope
	ctx    *Context
	node   *providerNode
}

// lookup resolves the nearest provider for the token, or nil.
func (s *providerScope) lookup(ctx *Context) *providerNode {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.ctx == ctx {
			return cur.node
		}
	}
	return nil
}

// providerNode supplies a context value to the fragment it wraps and tracks
// the components currently reading it. A value change schedules every
// subscriber; subscription membership itself only changes when a reader
// mounts, unmounts, or switches tokens.
type providerNode struct {
	ctx         *Context
	value       any
	frag        *fragmentNode
	scope       *providerScope // scope seen by children, includes self
	subscribers map[*componentNode]struct{}
}

func mountProvider(rt *Runtime, d Descriptor, scope *providerScope, depth int) *providerNode {
	n := &providerNode{
		ctx:         d.Context,
		value:       d.Value,
		subscribers: make(map[*componentNode]struct{}),
	}
	n.scope = &providerScope{parent: scope, ctx: d.Context, node: n}
	n.frag = mountFragment(rt, d.Children, n.scope, depth)
	return n
}

func (n *providerNode) firstHost() HostNode { return n.frag.firstHost() }
func (n *providerNode) lastHost() HostNode  { return n.frag.lastHost() }

func (n *providerNode) insert(rt *Runtime, parent, ref HostNode) {
	n.frag.insert(rt, parent, ref)
}

func (n *providerNode) update(rt *Runtime, d Descriptor, _ *providerScope, depth int) {
	if !strictEqual(n.value, d.Value) {
		n.value = d.Value
		for sub := range n.subscribers {
			rt.sched.requestRerender(sub)
		}
	}
	n.frag.update(rt, d.Children, n.scope, depth)
}

func (n *providerNode) addSubscriber(c *componentNode)    { n.subscribers[c] = struct{}{} }
func (n *providerNode) removeSubscriber(c *componentNode) { delete(n.subscribers, c) }

func (n *providerNode) unmount(rt *Runtime, detach bool) {
	n.frag.unmount(rt, detach)
	clear(n.subscribers)
}
