package glint

// node is the mounted, mutable counterpart of a descriptor. One concrete
// type per descriptor kind; dispatch is by type switch in patchNode.
type node interface {
	// firstHost and lastHost return the node's boundary host nodes. While
	// the node is mounted these are attached to the host tree; Null nodes
	// and empty fragments report their placeholder marker.
	firstHost() HostNode
	lastHost() HostNode

	// insert attaches the node's host node(s) into parent before ref.
	// A nil ref appends.
	insert(rt *Runtime, parent, ref HostNode)

	// unmount releases owned resources (effect cleanups, context
	// subscriptions, refs) and, when detach is true, removes the node's
	// host node(s) from the host tree. Children of a removed element are
	// unmounted with detach=false since removing the element already
	// detached them.
	unmount(rt *Runtime, detach bool)
}

// mountNode builds a detached virtual node for the descriptor. The caller
// is responsible for inserting it.
func mountNode(rt *Runtime, d Descriptor, scope *providerScope, depth int) node {
	switch d.Kind {
	case KindNull:
		return &nullNode{marker: rt.host.CreatePlaceholder()}
	case KindText:
		return &textNode{value: d.Text, host: rt.host.CreateText(formatText(d.Text))}
	case KindElement:
		return mountElement(rt, d, scope, depth)
	case KindFragment:
		return mountFragment(rt, d.Children, scope, depth)
	case KindComponent:
		return mountComponent(rt, d, scope, depth)
	case KindProvider:
		return mountProvider(rt, d, scope, depth)
	default:
		return &nullNode{marker: rt.host.CreatePlaceholder()}
	}
}

// canPatch reports whether old can be diffed in place against d: the kind
// must match and, for elements, components, and providers, so must the
// defining tag, function, or token.
func canPatch(old node, d Descriptor) bool {
	switch n := old.(type) {
	case *nullNode:
		return d.Kind == KindNull
	case *textNode:
		return d.Kind == KindText
	case *elementNode:
		return d.Kind == KindElement && n.tag == d.Tag
	case *fragmentNode:
		return d.Kind == KindFragment
	case *componentNode:
		return d.Kind == KindComponent && sameFunc(n.fn, d.Fn)
	case *providerNode:
		return d.Kind == KindProvider && n.ctx == d.Context
	default:
		return false
	}
}

// patchNode reconciles the mounted node against the new descriptor:
// diff in place when canPatch allows it, otherwise mount a replacement and
// splice it in at the old node's position. Returns the surviving node.
func patchNode(rt *Runtime, old node, d Descriptor, scope *providerScope, depth int) node {
	if !canPatch(old, d) {
		fresh := mountNode(rt, d, scope, depth)
		replaceNode(rt, old, fresh)
		return fresh
	}
	switch n := old.(type) {
	case *nullNode:
		// Nothing visible on either side.
	case *textNode:
		n.update(rt, d.Text)
	case *elementNode:
		n.update(rt, d.Props, scope, depth)
	case *fragmentNode:
		n.update(rt, d.Children, scope, depth)
	case *componentNode:
		n.update(d)
	case *providerNode:
		n.update(rt, d, scope, depth)
	}
	return old
}

// replaceNode splices fresh into the host tree at old's position and
// unmounts old. When both sides span exactly one host node the swap is a
// single host Replace; otherwise the new nodes are inserted before the old
// ones, which are then removed.
func replaceNode(rt *Runtime, old, fresh node) {
	ref := old.firstHost()
	if old.lastHost() == ref && fresh.firstHost() == fresh.lastHost() && fresh.firstHost() != nil {
		// Resources release first so effect cleanups observe the old node
		// still in place, then the hosts swap one for one.
		old.unmount(rt, false)
		rt.host.Replace(ref, fresh.firstHost())
		return
	}
	parent := rt.host.Parent(ref)
	fresh.insert(rt, parent, ref)
	old.unmount(rt, true)
}

// nullNode renders nothing, anchored by a single placeholder marker so
// siblings keep a stable insertion point.
type nullNode struct {
	marker HostNode
}

func (n *nullNode) firstHost() HostNode { return n.marker }
func (n *nullNode) lastHost() HostNode  { return n.marker }

func (n *nullNode) insert(rt *Runtime, parent, ref HostNode) {
	rt.host.InsertBefore(parent, n.marker, ref)
}

func (n *nullNode) unmount(rt *Runtime, detach bool) {
	if detach {
		rt.host.Remove(n.marker)
	}
}

// textNode wraps a single text host node.
type textNode struct {
	value any
	host  HostNode
}

func (n *textNode) firstHost() HostNode { return n.host }
func (n *textNode) lastHost() HostNode  { return n.host }

func (n *textNode) insert(rt *Runtime, parent, ref HostNode) {
	rt.host.InsertBefore(parent, n.host, ref)
}

func (n *textNode) update(rt *Runtime, v any) {
	if strictEqual(n.value, v) {
		return
	}
	n.value = v
	rt.host.SetProperty(n.host, "data", formatText(v))
}

func (n *textNode) unmount(rt *Runtime, detach bool) {
	if detach {
		rt.host.Remove(n.host)
	}
}
