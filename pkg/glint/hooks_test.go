package glint_test

import (
	"testing"

	"github.com/glint-ui/glint/pkg/el"
	"github.com/glint-ui/glint/pkg/glint"
	"github.com/glint-ui/glint/pkg/vtest"
)

func TestUseStateSchedulesOneRerender(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	renders := 0
	var set *glint.Setter[int]
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		renders++
		var n int
		n, set = glint.UseState(rc, 0)
		return el.Span(el.Textf("%d", n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()
	if renders != 1 {
		t.Fatalf("renders after mount = %d, want 1", renders)
	}

	set.Set(1)
	set.Set(2) // coalesces into the same scheduled re-render
	pump.Flush()

	if renders != 2 {
		t.Errorf("renders = %d, want 2 (batched)", renders)
	}
	if got := vtest.Markup(host.Container()); got != "<span>2</span>" {
		t.Errorf("markup = %s, want <span>2</span>", got)
	}
}

func TestUseStateEqualValueIsNoOp(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	renders := 0
	var set *glint.Setter[int]
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		renders++
		var n int
		n, set = glint.UseState(rc, 7)
		return el.Span(el.Textf("%d", n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()

	set.Set(7)
	pump.Flush()

	if renders != 1 {
		t.Errorf("renders = %d, want 1 (setting the current value re-renders nothing)", renders)
	}
}

func TestUseStateUpdateDerives(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	var set *glint.Setter[int]
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		var n int
		n, set = glint.UseState(rc, 10)
		return el.Span(el.Textf("%d", n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()

	set.Update(func(n int) int { return n * 2 })
	pump.Flush()

	if got := vtest.Markup(host.Container()); got != "<span>20</span>" {
		t.Errorf("markup = %s, want <span>20</span>", got)
	}
}

func TestUseMemoDependencyLaw(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	computes := 0
	var set *glint.Setter[int]
	var dep any = "a"
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		var n int
		n, set = glint.UseState(rc, 0)
		v := glint.UseMemo(rc, func() string {
			computes++
			return dep.(string)
		}, []any{dep})
		return el.Span(el.Textf("%s%d", v, n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()
	if computes != 1 {
		t.Fatalf("computes after mount = %d, want 1", computes)
	}

	// Same deps: no recompute.
	set.Set(1)
	pump.Flush()
	if computes != 1 {
		t.Errorf("computes = %d, want 1 after unchanged deps", computes)
	}

	// Changed dep: recompute.
	dep = "b"
	set.Set(2)
	pump.Flush()
	if computes != 2 {
		t.Errorf("computes = %d, want 2 after changed deps", computes)
	}
	if got := vtest.Markup(host.Container()); got != "<span>b2</span>" {
		t.Errorf("markup = %s", got)
	}
}

func TestUseRefStableAcrossRenders(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	var boxes []*glint.Ref[int]
	var set *glint.Setter[int]
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		var n int
		n, set = glint.UseState(rc, 0)
		boxes = append(boxes, glint.UseRef(rc, 41))
		return el.Span(el.Textf("%d", n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()

	boxes[0].Current = 42
	set.Set(1)
	pump.Flush()

	if len(boxes) != 2 || boxes[0] != boxes[1] {
		t.Fatalf("ref box not stable across renders")
	}
	if boxes[1].Current != 42 {
		t.Errorf("ref.Current = %d, want 42", boxes[1].Current)
	}
}

func TestUseEffectDependencyLaw(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	var log []string
	var set *glint.Setter[int]
	var dep any = 1
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		var n int
		n, set = glint.UseState(rc, 0)
		glint.UseEffect(rc, func() glint.Cleanup {
			log = append(log, "run")
			return func() { log = append(log, "cleanup") }
		}, []any{dep})
		return el.Span(el.Textf("%d", n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()
	if len(log) != 1 || log[0] != "run" {
		t.Fatalf("log after mount = %v, want [run]", log)
	}

	// Unchanged deps: nothing scheduled.
	set.Set(1)
	pump.Settle()
	if len(log) != 1 {
		t.Errorf("log = %v, want no re-run for unchanged deps", log)
	}

	// Changed deps: previous cleanup runs before the new body.
	dep = 2
	set.Set(2)
	pump.Settle()
	want := []string{"run", "cleanup", "run"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestUseEffectNilDepsAlwaysRuns(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	runs := 0
	var set *glint.Setter[int]
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		var n int
		n, set = glint.UseState(rc, 0)
		glint.UseEffect(rc, func() glint.Cleanup {
			runs++
			return nil
		}, nil)
		return el.Span(el.Textf("%d", n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()

	set.Set(1)
	pump.Settle()

	if runs != 2 {
		t.Errorf("runs = %d, want 2 (nil deps re-run every render)", runs)
	}
}

func TestLayoutEffectRunsBeforeFrame(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	var log []string
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		glint.UseEffect(rc, func() glint.Cleanup {
			log = append(log, "passive")
			return nil
		}, []any{})
		glint.UseLayoutEffect(rc, func() glint.Cleanup {
			log = append(log, "layout")
			return nil
		}, []any{})
		return el.Span("x")
	}
	rt.Mount(glint.Component(comp, nil), host.Container())

	// Mount flushes layout effects synchronously; passive waits for the
	// frame tick.
	if !equalStrings(log, []string{"layout"}) {
		t.Fatalf("log after mount = %v, want [layout]", log)
	}
	pump.Flush()
	if !equalStrings(log, []string{"layout"}) {
		t.Fatalf("log after microtasks = %v, passive must wait for the frame", log)
	}
	pump.Frame()
	if !equalStrings(log, []string{"layout", "passive"}) {
		t.Errorf("log after frame = %v, want [layout passive]", log)
	}
	_ = host
}

func TestEffectStacksFlushLastRegisteredFirst(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	var log []string
	note := func(s string) glint.Cleanup {
		log = append(log, s)
		return nil
	}
	inner := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		glint.UseLayoutEffect(rc, func() glint.Cleanup { return note("layout-inner") }, []any{})
		glint.UseEffect(rc, func() glint.Cleanup { return note("passive-inner") }, []any{})
		return el.Span("i")
	}
	outer := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		glint.UseLayoutEffect(rc, func() glint.Cleanup { return note("layout-outer") }, []any{})
		glint.UseEffect(rc, func() glint.Cleanup { return note("passive-outer") }, []any{})
		return el.Div(el.C(inner, nil))
	}
	rt.Mount(glint.Component(outer, nil), host.Container())
	pump.Settle()

	want := []string{"layout-inner", "layout-outer", "passive-inner", "passive-outer"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestUnmountRunsCleanupOnceBeforeRemoval(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	var events []string
	child := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		glint.UseEffect(rc, func() glint.Cleanup {
			return func() { events = append(events, "cleanup") }
		}, []any{})
		return el.Button("x")
	}
	var set *glint.Setter[bool]
	parent := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		var show bool
		show, set = glint.UseState(rc, true)
		return el.If(show, el.C(child, nil))
	}
	rt.Mount(glint.Component(parent, nil), host.Container())
	pump.Settle()

	host.ResetOps()
	removed := func() {
		for _, op := range host.Ops {
			events = append(events, op)
		}
		host.ResetOps()
	}

	set.Set(false)
	pump.Settle()
	removed()

	if len(events) == 0 || events[0] != "cleanup" {
		t.Fatalf("events = %v, want cleanup first", events)
	}
	count := 0
	for _, e := range events {
		if e == "cleanup" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("cleanup ran %d times, want exactly once", count)
	}
}

func TestUseImperativeHandle(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	produced := 0
	handleRef := &glint.Ref[string]{}
	var set *glint.Setter[int]
	var dep any = "v1"
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		var n int
		n, set = glint.UseState(rc, 0)
		glint.UseImperativeHandle(rc, handleRef, func() string {
			produced++
			return dep.(string)
		}, []any{dep})
		return el.Span(el.Textf("%d", n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()
	if handleRef.Current != "v1" || produced != 1 {
		t.Fatalf("handle = %q, produced = %d", handleRef.Current, produced)
	}

	// Unchanged deps and target: nothing recomputes.
	set.Set(1)
	pump.Flush()
	if produced != 1 {
		t.Errorf("produced = %d, want 1", produced)
	}

	// Changed deps: recompute and re-attach.
	dep = "v2"
	set.Set(2)
	pump.Flush()
	if handleRef.Current != "v2" || produced != 2 {
		t.Errorf("handle = %q, produced = %d, want v2 and 2", handleRef.Current, produced)
	}
}

func TestHookOutsideRenderPanics(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	var leaked *glint.Ctx
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		leaked = rc
		return el.Span("x")
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()

	defer func() {
		if recover() == nil {
			t.Errorf("UseState outside render did not panic")
		}
	}()
	glint.UseState(leaked, 0)
}

func TestHookOrderDriftPanics(t *testing.T) {
	rt, host, pump := vtest.NewRuntime()
	var set *glint.Setter[int]
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		var n int
		n, set = glint.UseState(rc, 0)
		if n == 0 {
			glint.UseRef(rc, 0)
		} else {
			glint.UseMemo(rc, func() int { return n }, []any{n})
		}
		return el.Span(el.Textf("%d", n))
	}
	rt.Mount(glint.Component(comp, nil), host.Container())
	pump.Settle()

	defer func() {
		if recover() == nil {
			t.Errorf("hook order drift did not panic")
		}
	}()
	set.Set(1)
	pump.Flush()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
