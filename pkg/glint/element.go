package glint

import "sort"

// attr is one [name, value] attribute pair. An element's attrs list is kept
// sorted by name so updates are a linear merge with deterministic,
// alphabetically-ordered host mutations.
type attr struct {
	name  string
	value any
}

// elementNode wraps a single host element plus its mounted children.
type elementNode struct {
	tag      string
	props    Props
	attrs    []attr
	children childList
	host     HostNode
}

func mountElement(rt *Runtime, d Descriptor, scope *providerScope, depth int) *elementNode {
	n := &elementNode{
		tag:   d.Tag,
		props: d.Props,
		attrs: sortedAttrs(d.Props),
		host:  rt.host.CreateElement(d.Tag),
	}
	for _, a := range n.attrs {
		n.setAttr(rt, a.name, a.value)
	}
	n.children.mount(rt, childDescriptors(d.Props), scope, depth)
	n.children.insertAll(rt, n.host, nil)
	return n
}

func (n *elementNode) firstHost() HostNode { return n.host }
func (n *elementNode) lastHost() HostNode  { return n.host }

func (n *elementNode) insert(rt *Runtime, parent, ref HostNode) {
	rt.host.InsertBefore(parent, n.host, ref)
}

// update diffs the element against a new props bag. A reference-identical
// bag is a guaranteed no-op.
func (n *elementNode) update(rt *Runtime, props Props, scope *providerScope, depth int) {
	if sameProps(n.props, props) {
		return
	}
	n.props = props
	next := sortedAttrs(props)
	n.mergeAttrs(rt, next)
	n.attrs = next
	n.children.reconcile(rt, childDescriptors(props), scope, depth, n.host, nil)
}

// mergeAttrs walks the old and new sorted attribute lists with two pointers,
// applying removals, updates, and additions in name order.
func (n *elementNode) mergeAttrs(rt *Runtime, next []attr) {
	old := n.attrs
	if len(next) == 0 {
		for _, a := range old {
			n.removeAttr(rt, a.name, a.value)
		}
		return
	}
	if len(old) == 0 {
		for _, a := range next {
			n.setAttr(rt, a.name, a.value)
		}
		return
	}
	i, j := 0, 0
	for i < len(old) && j < len(next) {
		switch {
		case old[i].name == next[j].name:
			if !strictEqual(old[i].value, next[j].value) {
				n.updateAttr(rt, old[i].name, old[i].value, next[j].value)
			}
			i++
			j++
		case old[i].name < next[j].name:
			n.removeAttr(rt, old[i].name, old[i].value)
			i++
		default:
			n.setAttr(rt, next[j].name, next[j].value)
			j++
		}
	}
	for ; i < len(old); i++ {
		n.removeAttr(rt, old[i].name, old[i].value)
	}
	for ; j < len(next); j++ {
		n.setAttr(rt, next[j].name, next[j].value)
	}
}

func (n *elementNode) setAttr(rt *Runtime, name string, value any) {
	if name == "ref" {
		attachRef(value, n.host)
		return
	}
	rt.host.SetProperty(n.host, name, value)
}

func (n *elementNode) removeAttr(rt *Runtime, name string, value any) {
	if name == "ref" {
		detachRef(value)
		return
	}
	rt.host.ClearProperty(n.host, name)
}

func (n *elementNode) updateAttr(rt *Runtime, name string, oldValue, value any) {
	if name == "ref" {
		detachRef(oldValue)
		attachRef(value, n.host)
		return
	}
	rt.host.SetProperty(n.host, name, value)
}

func (n *elementNode) unmount(rt *Runtime, detach bool) {
	for _, a := range n.attrs {
		if a.name == "ref" {
			detachRef(a.value)
		}
	}
	if detach {
		rt.host.Remove(n.host)
	}
	n.children.unmount(rt, false)
}

// sortedAttrs extracts an element's attribute pairs from its props bag:
// "children" is handled by the child reconciler, nil values are dropped,
// and the result is sorted by name.
func sortedAttrs(props Props) []attr {
	if len(props) == 0 {
		return nil
	}
	attrs := make([]attr, 0, len(props))
	for name, value := range props {
		if name == "children" || value == nil {
			continue
		}
		attrs = append(attrs, attr{name: name, value: value})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].name < attrs[j].name })
	return attrs
}

// childDescriptors normalizes the reserved "children" prop.
func childDescriptors(props Props) []Descriptor {
	switch v := props["children"].(type) {
	case nil:
		return nil
	case []Descriptor:
		return v
	case Descriptor:
		return []Descriptor{v}
	default:
		return []Descriptor{ToDescriptor(v)}
	}
}

// attachRef delivers the host node to a ref target: a callback is invoked
// with the node, a box gets its Current assigned.
func attachRef(target any, n HostNode) {
	switch t := target.(type) {
	case func(HostNode):
		t(n)
	case *Ref[HostNode]:
		t.Current = n
	}
}

// detachRef clears a ref target: a callback is invoked with nil, a box gets
// its Current cleared.
func detachRef(target any) {
	switch t := target.(type) {
	case func(HostNode):
		t(nil)
	case *Ref[HostNode]:
		t.Current = nil
	}
}
