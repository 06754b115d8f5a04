package el

import (
	"fmt"

	"github.com/glint-ui/glint/pkg/glint"
)

// Descriptor aliases the runtime descriptor so callers rarely need to
// import pkg/glint for pure view code.
type Descriptor = glint.Descriptor

// Attr is a single element attribute or event handler.
type Attr struct {
	Name  string
	Value any
}

// FragmentTag is the marker tag recognized by H: children splice directly
// into the parent with no wrapping element.
const FragmentTag = "#fragment"

// H assembles an element descriptor from a tag and a variadic argument
// list. Arguments fold by type: Attr and []Attr become props, glint.Props
// merges wholesale, descriptors, descriptor slices, strings, and numbers
// become children, component functions become component children, and nil
// is skipped. The FragmentTag tag yields a wrapperless fragment.
func H(tag string, args ...any) Descriptor {
	props := glint.Props{}
	var children []Descriptor

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if v.Name != "" {
				props[v.Name] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if a.Name != "" {
					props[a.Name] = a.Value
				}
			}
		case glint.Props:
			for name, value := range v {
				props[name] = value
			}
		case Descriptor:
			children = append(children, v)
		case []Descriptor:
			children = append(children, v...)
		case glint.ComponentFunc:
			children = append(children, glint.Component(v, nil))
		case string, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, float32, float64:
			children = append(children, glint.Text(v))
		default:
			children = append(children, glint.Text(fmt.Sprint(v)))
		}
	}

	if tag == FragmentTag {
		return glint.Fragment(children...)
	}
	if len(props) == 0 {
		props = nil
	}
	return glint.Element(tag, props, children...)
}

// Text creates a text descriptor.
func Text(content string) Descriptor {
	return glint.Text(content)
}

// Textf creates a formatted text descriptor.
func Textf(format string, args ...any) Descriptor {
	return glint.Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(args ...any) Descriptor {
	return H(FragmentTag, args...)
}

// Nothing renders nothing while keeping a stable position in the tree.
func Nothing() Descriptor {
	return Descriptor{}
}

// C creates a component child with the given props.
func C(fn glint.ComponentFunc, props glint.Props) Descriptor {
	return glint.Component(fn, props)
}

// If returns the node if condition is true, Nothing otherwise.
func If(condition bool, node Descriptor) Descriptor {
	if condition {
		return node
	}
	return Nothing()
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse Descriptor) Descriptor {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If with lazy evaluation: fn runs only when condition holds.
func When(condition bool, fn func() Descriptor) Descriptor {
	if condition {
		return fn()
	}
	return Nothing()
}

// Range maps a slice to descriptors, usable directly as element children.
func Range[T any](items []T, fn func(item T, index int) Descriptor) []Descriptor {
	out := make([]Descriptor, len(items))
	for i, item := range items {
		out[i] = fn(item, i)
	}
	return out
}

// Repeat builds n descriptors from an index function.
func Repeat(n int, fn func(i int) Descriptor) []Descriptor {
	out := make([]Descriptor, n)
	for i := range out {
		out[i] = fn(i)
	}
	return out
}
