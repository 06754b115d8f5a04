// Package el is the descriptor-construction DSL for Glint.
//
// It assembles glint.Descriptor values from element constructors, attribute
// helpers, and event helpers:
//
//	el.Div(el.Class("counter"),
//	    el.Button(el.OnClick(increment), el.Text("+")),
//	    el.Span(el.Textf("%d", n)),
//	)
//
// Arguments to an element constructor fold positionally: Attr values become
// props, descriptors and strings become children, nil is ignored (which
// makes conditional attributes and children cheap to express).
package el
