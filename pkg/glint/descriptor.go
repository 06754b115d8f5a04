package glint

import (
	"fmt"
	"reflect"
	"strconv"
	"sync/atomic"
)

// Kind is the descriptor type discriminator.
type Kind uint8

const (
	KindNull      Kind = iota // Renders nothing (nil, false)
	KindText                  // Plain text
	KindElement               // Host element ("div", "button", ...)
	KindFragment              // Ordered sequence without a wrapper
	KindComponent             // Function component
	KindProvider              // Context provider
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindProvider:
		return "Provider"
	default:
		return "Unknown"
	}
}

// Props holds an element's attributes and event handlers, or a component's
// input values. The reserved "children" key carries nested descriptors;
// the reserved "ref" key carries a ref target (func(HostNode) or
// *Ref[HostNode]). A props map is treated as immutable once handed to the
// runtime; map identity doubles as the fast "nothing changed" signal.
type Props map[string]any

// ComponentFunc is a function component. It receives the render context for
// hook calls and its current props, and returns the descriptor to render.
// It must make the same hook calls in the same order on every invocation
// for the lifetime of one mounted instance.
type ComponentFunc func(rc *Ctx, props Props) Descriptor

// Descriptor is the immutable description of a desired node. The zero value
// renders nothing.
type Descriptor struct {
	Kind     Kind
	Tag      string        // KindElement
	Props    Props         // KindElement, KindComponent
	Text     any           // KindText: string, integer, or float
	Children []Descriptor  // KindFragment, KindProvider
	Fn       ComponentFunc // KindComponent
	Context  *Context      // KindProvider
	Value    any           // KindProvider
}

// Context is a token for a value broadcast down the tree. Create one with
// NewContext; render Provide(...) to supply a value; read it during render
// with UseContext. Token identity is pointer identity.
type Context struct {
	id  uint64
	def any
}

var contextIDs atomic.Uint64

// NewContext creates a context token with the given default value. The
// default is observed by readers with no enclosing provider.
func NewContext(def any) *Context {
	return &Context{id: contextIDs.Add(1), def: def}
}

// Default returns the token's default value.
func (c *Context) Default() any { return c.def }

// Provide returns a provider descriptor supplying value to children.
func (c *Context) Provide(value any, children ...Descriptor) Descriptor {
	return Descriptor{Kind: KindProvider, Context: c, Value: value, Children: children}
}

// Text returns a text descriptor.
func Text(v any) Descriptor {
	return Descriptor{Kind: KindText, Text: v}
}

// Element returns a host element descriptor. The caller's props map is
// not touched: inserting the reserved children key works on a copy.
func Element(tag string, props Props, children ...Descriptor) Descriptor {
	if len(children) > 0 {
		merged := make(Props, len(props)+1)
		for name, value := range props {
			merged[name] = value
		}
		merged["children"] = children
		props = merged
	}
	return Descriptor{Kind: KindElement, Tag: tag, Props: props}
}

// Component returns a component descriptor.
func Component(fn ComponentFunc, props Props) Descriptor {
	return Descriptor{Kind: KindComponent, Fn: fn, Props: props}
}

// Fragment returns a fragment descriptor over the given children.
func Fragment(children ...Descriptor) Descriptor {
	return Descriptor{Kind: KindFragment, Children: children}
}

// ToDescriptor converts a plain value to a descriptor: nil and booleans
// render nothing, strings and numbers render text, descriptors and
// descriptor slices pass through (slices as fragments).
func ToDescriptor(v any) Descriptor {
	switch val := v.(type) {
	case nil, bool:
		return Descriptor{Kind: KindNull}
	case Descriptor:
		return val
	case []Descriptor:
		return Fragment(val...)
	case string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return Text(val)
	default:
		return Text(fmt.Sprint(val))
	}
}

// formatText coerces a text descriptor's value to its canonical string form.
func formatText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

// strictEqual reports whether two values are identical under interface
// comparison. Values of non-comparable dynamic types never compare equal,
// so handler funcs and slices always read as "changed".
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// sameProps reports whether two props maps are the same map instance.
func sameProps(a, b Props) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// sameFunc reports whether two component functions share an entry point.
func sameFunc(a, b ComponentFunc) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// depsEqual implements the dependency comparison shared by memo, effects,
// and imperative handles: a nil list always re-runs; otherwise the lists
// must have equal length and pairwise strictly-equal elements.
func depsEqual(old, next []any) bool {
	if old == nil || next == nil {
		return false
	}
	if len(old) != len(next) {
		return false
	}
	for i := range old {
		if !strictEqual(old[i], next[i]) {
			return false
		}
	}
	return true
}
