package remote

import (
	"fmt"
	"strings"

	"github.com/glint-ui/glint/pkg/glint"
	"github.com/glint-ui/glint/pkg/protocol"
)

type nodeKind uint8

const (
	kindElement nodeKind = iota
	kindText
	kindMarker
)

// Node is one entry in the host's mirror of the client tree. The mirror
// exists so Parent and NextSibling can be answered locally and so removed
// subtrees can release their handlers.
type Node struct {
	id       uint64
	kind     nodeKind
	parent   *Node
	children []*Node

	// event name -> handler id, for handler release and id reuse
	handlers map[string]uint64
}

// ID returns the node's wire id. The mount root is id 0.
func (n *Node) ID() uint64 { return n.id }

// Event is what a handler with a func(Event) signature receives.
type Event struct {
	Name   string // "click", "input", ...
	Detail string // event-specific payload, often empty
}

// Host captures glint host mutations as protocol patches.
type Host struct {
	root        *Node
	nextNode    uint64
	nextHandler uint64
	nextSeq     uint64
	patches     []protocol.Patch
	handlers    map[uint64]handlerEntry
}

// handlerEntry keeps the event name server-side so a dispatching client
// cannot spoof it.
type handlerEntry struct {
	name string
	fn   any
}

// NewHost creates a host. The mount root is pre-created with wire id 0;
// the client treats id 0 as its mount point.
func NewHost() *Host {
	return &Host{
		root:     &Node{id: 0, kind: kindElement},
		handlers: make(map[uint64]handlerEntry),
	}
}

// Root returns the mount root to pass to Runtime.Mount.
func (h *Host) Root() *Node { return h.root }

// TakeBatch removes and returns the buffered patches as a sequenced batch,
// or nil if nothing was buffered.
func (h *Host) TakeBatch() *protocol.Batch {
	if len(h.patches) == 0 {
		return nil
	}
	h.nextSeq++
	b := &protocol.Batch{Seq: h.nextSeq, Patches: h.patches}
	h.patches = nil
	return b
}

// PendingPatches returns how many patches are buffered.
func (h *Host) PendingPatches() int { return len(h.patches) }

// Dispatch invokes the handler registered under id. It returns an error
// for unknown ids, which happens legitimately when an event races a
// re-render that removed the handler.
func (h *Host) Dispatch(id uint64, detail string) error {
	entry, ok := h.handlers[id]
	if !ok {
		return fmt.Errorf("remote: no handler %d", id)
	}
	switch f := entry.fn.(type) {
	case func():
		f()
	case func(Event):
		f(Event{Name: entry.name, Detail: detail})
	default:
		return fmt.Errorf("remote: handler %d has unsupported type %T", id, entry.fn)
	}
	return nil
}

// HandlerCount returns the number of live registered handlers.
func (h *Host) HandlerCount() int { return len(h.handlers) }

func (h *Host) newNode(kind nodeKind) *Node {
	h.nextNode++
	return &Node{id: h.nextNode, kind: kind}
}

func (h *Host) emit(p protocol.Patch) {
	h.patches = append(h.patches, p)
}

// CreateElement implements glint.Host.
func (h *Host) CreateElement(tag string) glint.HostNode {
	n := h.newNode(kindElement)
	h.emit(protocol.NewCreateElement(n.id, tag))
	return n
}

// CreateText implements glint.Host.
func (h *Host) CreateText(text string) glint.HostNode {
	n := h.newNode(kindText)
	h.emit(protocol.NewCreateText(n.id, text))
	return n
}

// CreatePlaceholder implements glint.Host.
func (h *Host) CreatePlaceholder() glint.HostNode {
	n := h.newNode(kindMarker)
	h.emit(protocol.NewCreateMarker(n.id))
	return n
}

// SetProperty implements glint.Host. Text content arrives as the "data"
// property on text nodes. Function values under "on*" keys register as
// handlers; re-setting a handler reuses its id so nothing goes on the wire.
func (h *Host) SetProperty(hn glint.HostNode, key string, value any) {
	n := mustNode(hn)
	if n.kind == kindText && key == "data" {
		h.emit(protocol.NewSetText(n.id, value.(string)))
		return
	}
	if isHandlerFunc(key, value) {
		h.setHandler(n, key, value)
		return
	}
	h.emit(protocol.NewSetProp(n.id, key, protocol.FromAny(value)))
}

// ClearProperty implements glint.Host.
func (h *Host) ClearProperty(hn glint.HostNode, key string) {
	n := mustNode(hn)
	if id, ok := n.handlers[key]; ok {
		delete(n.handlers, key)
		delete(h.handlers, id)
		h.emit(protocol.NewClearHandler(n.id, key))
		return
	}
	h.emit(protocol.NewClearProp(n.id, key))
}

// InsertBefore implements glint.Host. A nil ref appends.
func (h *Host) InsertBefore(parent, hn, ref glint.HostNode) {
	p := mustNode(parent)
	n := mustNode(hn)
	n.detach()
	var refID uint64
	idx := len(p.children)
	if ref != nil {
		r := mustNode(ref)
		refID = r.id
		idx = p.childIndex(r)
		if idx < 0 {
			panic("remote: insert ref is not a child of parent")
		}
	}
	n.parent = p
	p.children = append(p.children, nil)
	copy(p.children[idx+1:], p.children[idx:])
	p.children[idx] = n
	h.emit(protocol.NewInsertBefore(p.id, n.id, refID))
}

// Remove implements glint.Host. The subtree's handlers are released.
func (h *Host) Remove(hn glint.HostNode) {
	n := mustNode(hn)
	n.detach()
	h.releaseHandlers(n)
	h.emit(protocol.NewRemove(n.id))
}

// Replace implements glint.Host, swapping old for new in place.
func (h *Host) Replace(oldHN, newHN glint.HostNode) {
	old := mustNode(oldHN)
	fresh := mustNode(newHN)
	p := old.parent
	if p == nil {
		panic("remote: replace target has no parent")
	}
	idx := p.childIndex(old)
	fresh.detach()
	old.parent = nil
	fresh.parent = p
	p.children[idx] = fresh
	h.releaseHandlers(old)
	h.emit(protocol.NewReplace(old.id, fresh.id))
}

// Parent implements glint.Host.
func (h *Host) Parent(hn glint.HostNode) glint.HostNode {
	n := mustNode(hn)
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// NextSibling implements glint.Host.
func (h *Host) NextSibling(hn glint.HostNode) glint.HostNode {
	n := mustNode(hn)
	if n.parent == nil {
		return nil
	}
	idx := n.parent.childIndex(n)
	if idx+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[idx+1]
}

func (h *Host) setHandler(n *Node, key string, fn any) {
	if n.handlers == nil {
		n.handlers = make(map[string]uint64)
	}
	name := strings.TrimPrefix(key, "on")
	if id, ok := n.handlers[key]; ok {
		// Same slot re-bound on re-render. Swap the function behind
		// the existing id; the client binding stays valid.
		h.handlers[id] = handlerEntry{name: name, fn: fn}
		return
	}
	h.nextHandler++
	id := h.nextHandler
	n.handlers[key] = id
	h.handlers[id] = handlerEntry{name: name, fn: fn}
	h.emit(protocol.NewSetHandler(n.id, key, id))
}

func (h *Host) releaseHandlers(n *Node) {
	for _, id := range n.handlers {
		delete(h.handlers, id)
	}
	n.handlers = nil
	for _, c := range n.children {
		h.releaseHandlers(c)
	}
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	idx := p.childIndex(n)
	p.children = append(p.children[:idx], p.children[idx+1:]...)
	n.parent = nil
}

func (n *Node) childIndex(c *Node) int {
	for i, x := range n.children {
		if x == c {
			return i
		}
	}
	return -1
}

func mustNode(hn glint.HostNode) *Node {
	n, ok := hn.(*Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("remote: foreign host node %T", hn))
	}
	return n
}

func isHandlerFunc(key string, value any) bool {
	if !strings.HasPrefix(key, "on") {
		return false
	}
	switch value.(type) {
	case func(), func(Event):
		return true
	}
	return false
}
