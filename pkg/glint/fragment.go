package glint

// childList is the ordered list of mounted children shared by fragments and
// by an element's "children" prop. Reconciliation is positional: children
// are matched by index, never by key.
type childList struct {
	nodes []node
}

// mount builds detached nodes for the descriptors.
func (l *childList) mount(rt *Runtime, descs []Descriptor, scope *providerScope, depth int) {
	l.nodes = make([]node, 0, len(descs))
	for _, d := range descs {
		l.nodes = append(l.nodes, mountNode(rt, d, scope, depth))
	}
}

// insertAll inserts every child into parent before ref, preserving order.
func (l *childList) insertAll(rt *Runtime, parent, ref HostNode) {
	for _, n := range l.nodes {
		n.insert(rt, parent, ref)
	}
}

// reconcile walks old children and new descriptors in lockstep: matching
// positions diff in place (or replace-in-place on a kind/tag mismatch),
// surplus old children unmount, and extra descriptors mount after the
// current last host node. parent and appendRef locate the insertion point
// used when the list is currently empty.
func (l *childList) reconcile(rt *Runtime, descs []Descriptor, scope *providerScope, depth int, parent, appendRef HostNode) {
	old := l.nodes
	common := len(old)
	if len(descs) < common {
		common = len(descs)
	}
	for i := 0; i < common; i++ {
		l.nodes[i] = patchNode(rt, old[i], descs[i], scope, depth)
	}
	switch {
	case len(descs) < len(old):
		for _, n := range old[len(descs):] {
			n.unmount(rt, true)
		}
		l.nodes = l.nodes[:len(descs)]
	case len(descs) > len(old):
		ref := appendRef
		p := parent
		if len(old) > 0 {
			tail := l.nodes[len(old)-1].lastHost()
			ref = rt.host.NextSibling(tail)
			p = rt.host.Parent(tail)
		}
		for _, d := range descs[len(old):] {
			child := mountNode(rt, d, scope, depth)
			child.insert(rt, p, ref)
			l.nodes = append(l.nodes, child)
		}
	}
}

func (l *childList) unmount(rt *Runtime, detach bool) {
	for _, n := range l.nodes {
		n.unmount(rt, detach)
	}
}

// fragmentNode represents an ordered sequence with no wrapping host
// element. While the sequence is empty it is anchored by a placeholder
// marker; otherwise its children's host nodes stand in directly.
type fragmentNode struct {
	children childList
	marker   HostNode // non-nil only while the child list is empty
}

func mountFragment(rt *Runtime, descs []Descriptor, scope *providerScope, depth int) *fragmentNode {
	n := &fragmentNode{}
	if len(descs) == 0 {
		n.marker = rt.host.CreatePlaceholder()
		return n
	}
	n.children.mount(rt, descs, scope, depth)
	return n
}

func (n *fragmentNode) firstHost() HostNode {
	if n.marker != nil {
		return n.marker
	}
	return n.children.nodes[0].firstHost()
}

func (n *fragmentNode) lastHost() HostNode {
	if n.marker != nil {
		return n.marker
	}
	return n.children.nodes[len(n.children.nodes)-1].lastHost()
}

func (n *fragmentNode) insert(rt *Runtime, parent, ref HostNode) {
	if n.marker != nil {
		rt.host.InsertBefore(parent, n.marker, ref)
		return
	}
	n.children.insertAll(rt, parent, ref)
}

func (n *fragmentNode) update(rt *Runtime, descs []Descriptor, scope *providerScope, depth int) {
	switch {
	case n.marker != nil && len(descs) == 0:
		// Still empty.
	case n.marker != nil:
		// Empty to non-empty: the new children take the marker's position.
		n.children.mount(rt, descs, scope, depth)
		n.children.insertAll(rt, rt.host.Parent(n.marker), n.marker)
		rt.host.Remove(n.marker)
		n.marker = nil
	case len(descs) == 0:
		// Non-empty to empty: a fresh marker takes the first child's
		// position, the remaining children unmount.
		marker := rt.host.CreatePlaceholder()
		first := n.children.nodes[0]
		if first.firstHost() == first.lastHost() {
			ref := first.firstHost()
			first.unmount(rt, false)
			rt.host.Replace(ref, marker)
		} else {
			rt.host.InsertBefore(rt.host.Parent(first.firstHost()), marker, first.firstHost())
			first.unmount(rt, true)
		}
		for _, c := range n.children.nodes[1:] {
			c.unmount(rt, true)
		}
		n.children.nodes = nil
		n.marker = marker
	default:
		parent := rt.host.Parent(n.children.nodes[0].firstHost())
		n.children.reconcile(rt, descs, scope, depth, parent, nil)
	}
}

func (n *fragmentNode) unmount(rt *Runtime, detach bool) {
	if n.marker != nil {
		if detach {
			rt.host.Remove(n.marker)
		}
		return
	}
	n.children.unmount(rt, detach)
}
