package el

import (
	"strings"

	"github.com/glint-ui/glint/pkg/glint"
)

func ID(id string) Attr {
	return Attr{Name: "id", Value: id}
}

func Class(classes ...string) Attr {
	return Attr{Name: "class", Value: strings.Join(classes, " ")}
}

func Style(style string) Attr {
	return Attr{Name: "style", Value: style}
}

func Title(title string) Attr {
	return Attr{Name: "title", Value: title}
}

func Href(href string) Attr {
	return Attr{Name: "href", Value: href}
}

func Src(src string) Attr {
	return Attr{Name: "src", Value: src}
}

func Alt(alt string) Attr {
	return Attr{Name: "alt", Value: alt}
}

func Type(t string) Attr {
	return Attr{Name: "type", Value: t}
}

func Name(name string) Attr {
	return Attr{Name: "name", Value: name}
}

func Value(value any) Attr {
	return Attr{Name: "value", Value: value}
}

func Placeholder(text string) Attr {
	return Attr{Name: "placeholder", Value: text}
}

// Disabled emits the attribute only when disabled is true; a nil value is
// dropped by the runtime, so the attribute is absent otherwise.
func Disabled(disabled bool) Attr {
	if !disabled {
		return Attr{Name: "disabled", Value: nil}
	}
	return Attr{Name: "disabled", Value: true}
}

func Checked(checked bool) Attr {
	if !checked {
		return Attr{Name: "checked", Value: nil}
	}
	return Attr{Name: "checked", Value: true}
}

func For(id string) Attr {
	return Attr{Name: "for", Value: id}
}

func Role(role string) Attr {
	return Attr{Name: "role", Value: role}
}

func AriaLabel(label string) Attr {
	return Attr{Name: "aria-label", Value: label}
}

func Data(key, value string) Attr {
	return Attr{Name: "data-" + key, Value: value}
}

// RefFunc attaches a callback ref: invoked with the host node on attach and
// with nil on detach.
func RefFunc(fn func(glint.HostNode)) Attr {
	return Attr{Name: "ref", Value: fn}
}

// RefBox attaches a box ref: Current is assigned on attach, cleared on
// detach.
func RefBox(ref *glint.Ref[glint.HostNode]) Attr {
	return Attr{Name: "ref", Value: ref}
}
