package el_test

import (
	"testing"

	"github.com/glint-ui/glint/pkg/el"
	"github.com/glint-ui/glint/pkg/glint"
)

func TestHFoldsAttrsAndChildren(t *testing.T) {
	d := el.H("div", el.ID("box"), el.Class("a", "b"), el.Text("hi"), 42)

	if d.Kind != glint.KindElement || d.Tag != "div" {
		t.Fatalf("got %s %q, want Element div", d.Kind, d.Tag)
	}
	if got := d.Props["id"]; got != "box" {
		t.Errorf("id = %v, want box", got)
	}
	if got := d.Props["class"]; got != "a b" {
		t.Errorf("class = %v, want %q", got, "a b")
	}
	children, ok := d.Props["children"].([]glint.Descriptor)
	if !ok || len(children) != 2 {
		t.Fatalf("children = %v, want 2 descriptors", d.Props["children"])
	}
	if children[0].Kind != glint.KindText || children[0].Text != "hi" {
		t.Errorf("first child = %+v, want text hi", children[0])
	}
	if children[1].Kind != glint.KindText || children[1].Text != 42 {
		t.Errorf("second child = %+v, want text 42", children[1])
	}
}

func TestHWithoutArgsHasNilProps(t *testing.T) {
	d := el.Br()
	if d.Props != nil {
		t.Errorf("props = %v, want nil", d.Props)
	}
}

func TestHMergesAttrSlices(t *testing.T) {
	attrs := []el.Attr{el.Type("text"), el.Placeholder("name")}
	d := el.Input(attrs, el.Value("x"))
	if got := d.Props["type"]; got != "text" {
		t.Errorf("type = %v, want text", got)
	}
	if got := d.Props["placeholder"]; got != "name" {
		t.Errorf("placeholder = %v, want name", got)
	}
	if got := d.Props["value"]; got != "x" {
		t.Errorf("value = %v, want x", got)
	}
}

func TestFragmentHasNoWrapper(t *testing.T) {
	d := el.Fragment(el.Span("a"), el.Span("b"))
	if d.Kind != glint.KindFragment {
		t.Fatalf("kind = %s, want Fragment", d.Kind)
	}
	if len(d.Children) != 2 {
		t.Errorf("children = %d, want 2", len(d.Children))
	}
}

func TestIfAndIfElse(t *testing.T) {
	if got := el.If(false, el.Span()); got.Kind != glint.KindNull {
		t.Errorf("If(false) kind = %s, want Null", got.Kind)
	}
	if got := el.If(true, el.Span()); got.Kind != glint.KindElement {
		t.Errorf("If(true) kind = %s, want Element", got.Kind)
	}
	got := el.IfElse(false, el.Span(), el.P())
	if got.Tag != "p" {
		t.Errorf("IfElse(false) tag = %q, want p", got.Tag)
	}
}

func TestWhenIsLazy(t *testing.T) {
	called := false
	el.When(false, func() el.Descriptor {
		called = true
		return el.Span()
	})
	if called {
		t.Error("fn ran for a false condition")
	}
	d := el.When(true, func() el.Descriptor { return el.Span() })
	if d.Tag != "span" {
		t.Errorf("tag = %q, want span", d.Tag)
	}
}

func TestRangeAndRepeat(t *testing.T) {
	items := el.Range([]string{"a", "b", "c"}, func(s string, i int) el.Descriptor {
		return el.Li(s)
	})
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[2].Tag != "li" {
		t.Errorf("tag = %q, want li", items[2].Tag)
	}

	rows := el.Repeat(2, func(i int) el.Descriptor { return el.Tr() })
	if len(rows) != 2 {
		t.Errorf("len = %d, want 2", len(rows))
	}
}

func TestDisabledOmitsFalse(t *testing.T) {
	d := el.Button(el.Disabled(false))
	if v, ok := d.Props["disabled"]; !ok || v != nil {
		t.Errorf("disabled = %v (present %v), want nil value", v, ok)
	}
	d = el.Button(el.Disabled(true))
	if d.Props["disabled"] != true {
		t.Errorf("disabled = %v, want true", d.Props["disabled"])
	}
}

func TestOnPrefixesEventName(t *testing.T) {
	a := el.OnClick(func() {})
	if a.Name != "onclick" {
		t.Errorf("name = %q, want onclick", a.Name)
	}
}
