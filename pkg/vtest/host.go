package vtest

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/glint-ui/glint/pkg/glint"
)

// NodeKind distinguishes recorded node flavors.
type NodeKind uint8

const (
	KindContainer NodeKind = iota
	KindElement
	KindText
	KindMarker
)

// Node is one node of the recording host's tree.
type Node struct {
	ID    int
	Kind  NodeKind
	Tag   string
	Text  string
	Props map[string]any

	parent   *Node
	children []*Node
}

// Children returns the node's children in order.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// label renders a node as tag#id for the op trace.
func (n *Node) label() string {
	if n == nil {
		return "nil"
	}
	switch n.Kind {
	case KindContainer:
		return fmt.Sprintf("#container%d", n.ID)
	case KindText:
		return fmt.Sprintf("#text%d", n.ID)
	case KindMarker:
		return fmt.Sprintf("#marker%d", n.ID)
	default:
		return fmt.Sprintf("%s#%d", n.Tag, n.ID)
	}
}

// Host is a glint.Host that maintains a plain in-memory tree and records
// every mutation as one trace line. Tests assert on the trace for "exactly
// these side effects" properties and on the tree for end states.
type Host struct {
	Ops []string

	nextID int
	root   *Node
}

// NewHost creates a recording host with an empty container.
func NewHost() *Host {
	h := &Host{}
	h.root = &Node{ID: h.id(), Kind: KindContainer}
	return h
}

// Container returns the root container to mount into.
func (h *Host) Container() glint.HostNode { return h.root }

// ContainerNode returns the root container as a *Node for tree assertions.
func (h *Host) ContainerNode() *Node { return h.root }

// ResetOps clears the recorded trace, keeping the tree.
func (h *Host) ResetOps() { h.Ops = nil }

// OpCount returns how many trace lines start with the given prefix.
func (h *Host) OpCount(prefix string) int {
	count := 0
	for _, op := range h.Ops {
		if strings.HasPrefix(op, prefix) {
			count++
		}
	}
	return count
}

func (h *Host) id() int {
	id := h.nextID
	h.nextID++
	return id
}

func (h *Host) record(format string, args ...any) {
	h.Ops = append(h.Ops, fmt.Sprintf(format, args...))
}

func (h *Host) CreateElement(tag string) glint.HostNode {
	n := &Node{ID: h.id(), Kind: KindElement, Tag: tag, Props: map[string]any{}}
	h.record("createElement(%s)", n.label())
	return n
}

func (h *Host) CreateText(text string) glint.HostNode {
	n := &Node{ID: h.id(), Kind: KindText, Text: text}
	h.record("createText(%s, %q)", n.label(), text)
	return n
}

func (h *Host) CreatePlaceholder() glint.HostNode {
	n := &Node{ID: h.id(), Kind: KindMarker}
	h.record("createPlaceholder(%s)", n.label())
	return n
}

func (h *Host) SetProperty(hn glint.HostNode, name string, value any) {
	n := hn.(*Node)
	if n.Kind == KindText && name == "data" {
		n.Text = value.(string)
		h.record("setText(%s, %q)", n.label(), n.Text)
		return
	}
	if n.Props == nil {
		n.Props = map[string]any{}
	}
	n.Props[name] = value
	h.record("setProperty(%s, %s=%s)", n.label(), name, formatPropValue(value))
}

func (h *Host) ClearProperty(hn glint.HostNode, name string) {
	n := hn.(*Node)
	delete(n.Props, name)
	h.record("clearProperty(%s, %s)", n.label(), name)
}

func (h *Host) InsertBefore(parent, hn, ref glint.HostNode) {
	p := parent.(*Node)
	n := hn.(*Node)
	detach(n)
	idx := len(p.children)
	var refNode *Node
	if ref != nil {
		refNode = ref.(*Node)
		for i, c := range p.children {
			if c == refNode {
				idx = i
				break
			}
		}
	}
	p.children = append(p.children, nil)
	copy(p.children[idx+1:], p.children[idx:])
	p.children[idx] = n
	n.parent = p
	h.record("insertBefore(%s, %s, %s)", p.label(), n.label(), refNode.label())
}

func (h *Host) Remove(hn glint.HostNode) {
	n := hn.(*Node)
	detach(n)
	h.record("remove(%s)", n.label())
}

func (h *Host) Replace(oldNode, newNode glint.HostNode) {
	o := oldNode.(*Node)
	n := newNode.(*Node)
	p := o.parent
	if p == nil {
		panic("vtest: replace of detached node " + o.label())
	}
	detach(n)
	for i, c := range p.children {
		if c == o {
			p.children[i] = n
			n.parent = p
			o.parent = nil
			break
		}
	}
	h.record("replace(%s, %s)", o.label(), n.label())
}

func (h *Host) Parent(hn glint.HostNode) glint.HostNode {
	n := hn.(*Node)
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (h *Host) NextSibling(hn glint.HostNode) glint.HostNode {
	n := hn.(*Node)
	if n.parent == nil {
		return nil
	}
	sibs := n.parent.children
	for i, c := range sibs {
		if c == n && i+1 < len(sibs) {
			return sibs[i+1]
		}
	}
	return nil
}

func detach(n *Node) {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Markup renders the subtree as compact HTML-ish text. Markers render as
// comments, function-valued props render as fn, the ref prop is skipped.
func Markup(hn glint.HostNode) string {
	var b strings.Builder
	writeMarkup(&b, hn.(*Node))
	return b.String()
}

func writeMarkup(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindContainer:
		for _, c := range n.children {
			writeMarkup(b, c)
		}
	case KindText:
		b.WriteString(n.Text)
	case KindMarker:
		b.WriteString("<!---->")
	case KindElement:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		names := make([]string, 0, len(n.Props))
		for name := range n.Props {
			if name == "ref" {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(b, " %s=%s", name, formatPropValue(n.Props[name]))
		}
		b.WriteByte('>')
		for _, c := range n.children {
			writeMarkup(b, c)
		}
		b.WriteString("</" + n.Tag + ">")
	}
}

func formatPropValue(v any) string {
	if v == nil {
		return "nil"
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "fn"
	}
	return fmt.Sprintf("%q", fmt.Sprint(v))
}
