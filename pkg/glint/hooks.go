package glint

import "reflect"

// Ctx is the render context passed to every component function. It carries
// the hook strategy for the current render phase (creation or update) and
// the positional counters for the component's slot arrays. Hooks must be
// called through it, unconditionally and in the same order on every render.
type Ctx struct {
	rt      *Runtime
	comp    *componentNode
	mode    hookMode
	cellIdx int
	effIdx  int
	ctxIdx  int
	active  bool
}

func (rc *Ctx) guard(op string) {
	if !rc.active {
		panic("glint: " + op + " called outside the component's synchronous render")
	}
}

// hookMode is the capability interface behind the hook operations. Two
// strategies implement it: creationHooks appends fresh slots on first
// render, updateHooks reads slots back by position on re-renders.
type hookMode interface {
	stateCell(rc *Ctx, init func() any) *stateCell
	memoValue(rc *Ctx, compute func() any, deps []any) any
	runEffect(rc *Ctx, layout bool, body func() Cleanup, deps []any)
	contextValue(rc *Ctx, token *Context) any
	refCell(rc *Ctx, init func() any) any
	handle(rc *Ctx, target any, produce func() any, attach func(target, value any), detach func(target any), deps []any)
}

// Ref is a stable mutable box, created once per slot and returned unchanged
// on every subsequent render.
type Ref[T any] struct {
	Current T
}

// Setter mutates a state cell. Setting a strictly-unequal value marks the
// owning component dirty with the scheduler; the re-render itself is always
// deferred, never run inside the call.
type Setter[T any] struct {
	cell *stateCell
	comp *componentNode
}

// Set replaces the cell's value.
func (s *Setter[T]) Set(v T) {
	s.apply(func(T) T { return v })
}

// Update derives the new value from the current one.
func (s *Setter[T]) Update(fn func(T) T) {
	s.apply(fn)
}

func (s *Setter[T]) apply(fn func(T) T) {
	old := s.cell.value.(T)
	next := fn(old)
	if strictEqual(old, next) {
		return
	}
	s.cell.value = next
	s.comp.rt.sched.requestRerender(s.comp)
}

// UseState returns the slot's current value and its stable setter. The
// initial value is used only on the component's first render.
func UseState[T any](rc *Ctx, initial T) (T, *Setter[T]) {
	rc.guard("UseState")
	cell := rc.mode.stateCell(rc, func() any { return initial })
	if cell.setter == nil {
		cell.setter = &Setter[T]{cell: cell, comp: rc.comp}
	}
	return cell.value.(T), cell.setter.(*Setter[T])
}

// UseMemo returns compute()'s result, re-running it only when deps changed:
// different length, or some element strictly unequal to its predecessor.
func UseMemo[T any](rc *Ctx, compute func() T, deps []any) T {
	rc.guard("UseMemo")
	v := rc.mode.memoValue(rc, func() any { return compute() }, deps)
	return v.(T)
}

// UseEffect registers a passive effect: the body runs after the scheduler's
// drain cycle, batched on the next frame tick. A nil deps list re-runs the
// body after every render; otherwise it re-runs only when deps changed.
func UseEffect(rc *Ctx, body func() Cleanup, deps []any) {
	rc.guard("UseEffect")
	rc.mode.runEffect(rc, false, body, deps)
}

// UseLayoutEffect registers a layout effect: the body runs synchronously at
// the end of the drain cycle that produced it, before control returns to
// the host's event loop.
func UseLayoutEffect(rc *Ctx, body func() Cleanup, deps []any) {
	rc.guard("UseLayoutEffect")
	rc.mode.runEffect(rc, true, body, deps)
}

// UseContext reads the token's value from the nearest enclosing provider,
// or the token's default when none encloses the component. Reading
// subscribes the component to the provider's value changes.
func UseContext(rc *Ctx, token *Context) any {
	rc.guard("UseContext")
	return rc.mode.contextValue(rc, token)
}

// UseRef returns the slot's stable Ref box, created with initial on the
// first render.
func UseRef[T any](rc *Ctx, initial T) *Ref[T] {
	rc.guard("UseRef")
	v := rc.mode.refCell(rc, func() any { return &Ref[T]{Current: initial} })
	return v.(*Ref[T])
}

// UseImperativeHandle attaches produce()'s result to target, which is
// either a *Ref[T] or a func(T). The handle is recomputed (detach, produce,
// attach) when deps changed, and re-attached without recomputation when
// only the target identity changed.
func UseImperativeHandle[T any](rc *Ctx, target any, produce func() T, deps []any) {
	rc.guard("UseImperativeHandle")
	rc.mode.handle(rc,
		target,
		func() any { return produce() },
		func(tgt, value any) {
			switch t := tgt.(type) {
			case *Ref[T]:
				t.Current = value.(T)
			case func(T):
				t(value.(T))
			}
		},
		func(tgt any) {
			var zero T
			switch t := tgt.(type) {
			case *Ref[T]:
				t.Current = zero
			case func(T):
				t(zero)
			}
		},
		deps)
}

// creationHooks is the first-render strategy: every call appends a fresh
// slot and computes a fresh value.
type creationHooks struct{}

func (creationHooks) stateCell(rc *Ctx, init func() any) *stateCell {
	cell := &stateCell{value: init()}
	st := rc.comp.ensureState()
	st.cells = append(st.cells, cell)
	rc.cellIdx++
	return cell
}

func (creationHooks) memoValue(rc *Ctx, compute func() any, deps []any) any {
	cell := &memoCell{deps: deps, value: compute()}
	st := rc.comp.ensureState()
	st.cells = append(st.cells, cell)
	rc.cellIdx++
	return cell.value
}

func (creationHooks) runEffect(rc *Ctx, layout bool, body func() Cleanup, deps []any) {
	rec := &effectRecord{layout: layout, deps: deps}
	st := rc.comp.ensureState()
	st.effects = append(st.effects, rec)
	rc.effIdx++
	rc.comp.scheduleEffect(rec, body)
}

func (creationHooks) contextValue(rc *Ctx, token *Context) any {
	sub := &contextSub{ctx: token, provider: rc.comp.scope.lookup(token)}
	if sub.provider != nil {
		sub.provider.addSubscriber(rc.comp)
	}
	st := rc.comp.ensureState()
	st.contexts = append(st.contexts, sub)
	rc.ctxIdx++
	return sub.resolve()
}

func (creationHooks) refCell(rc *Ctx, init func() any) any {
	v := init()
	st := rc.comp.ensureState()
	st.cells = append(st.cells, v)
	rc.cellIdx++
	return v
}

func (creationHooks) handle(rc *Ctx, target any, produce func() any, attach func(target, value any), detach func(target any), deps []any) {
	cell := &handleCell{deps: deps, target: target, value: produce()}
	st := rc.comp.ensureState()
	st.cells = append(st.cells, cell)
	rc.cellIdx++
	attach(target, cell.value)
}

// updateHooks is the re-render strategy: every call reads the slot at the
// next positional index and applies the hook's memoization rule. A missing
// or differently-typed slot means the component broke the fixed hook
// sequence, which is a programming error.
type updateHooks struct{}

func takeCell[T any](rc *Ctx, op string) T {
	st := rc.comp.ensureState()
	if rc.cellIdx >= len(st.cells) {
		panic("glint: " + op + ": more hook calls than the previous render")
	}
	v := st.cells[rc.cellIdx]
	rc.cellIdx++
	cell, ok := v.(T)
	if !ok {
		panic("glint: " + op + ": hook call order changed between renders")
	}
	return cell
}

func (updateHooks) stateCell(rc *Ctx, _ func() any) *stateCell {
	return takeCell[*stateCell](rc, "UseState")
}

func (updateHooks) memoValue(rc *Ctx, compute func() any, deps []any) any {
	cell := takeCell[*memoCell](rc, "UseMemo")
	if !depsEqual(cell.deps, deps) {
		cell.deps = deps
		cell.value = compute()
	}
	return cell.value
}

func (updateHooks) runEffect(rc *Ctx, layout bool, body func() Cleanup, deps []any) {
	st := rc.comp.ensureState()
	if rc.effIdx >= len(st.effects) {
		panic("glint: UseEffect: more hook calls than the previous render")
	}
	rec := st.effects[rc.effIdx]
	rc.effIdx++
	if rec.layout != layout {
		panic("glint: UseEffect: hook call order changed between renders")
	}
	if depsEqual(rec.deps, deps) {
		return
	}
	rec.deps = deps
	rc.comp.scheduleEffect(rec, body)
}

func (updateHooks) contextValue(rc *Ctx, token *Context) any {
	st := rc.comp.ensureState()
	if rc.ctxIdx >= len(st.contexts) {
		panic("glint: UseContext: more hook calls than the previous render")
	}
	sub := st.contexts[rc.ctxIdx]
	rc.ctxIdx++
	if sub.ctx != token {
		if sub.provider != nil {
			sub.provider.removeSubscriber(rc.comp)
		}
		sub.ctx = token
		sub.provider = rc.comp.scope.lookup(token)
		if sub.provider != nil {
			sub.provider.addSubscriber(rc.comp)
		}
	}
	return sub.resolve()
}

func (updateHooks) refCell(rc *Ctx, _ func() any) any {
	st := rc.comp.ensureState()
	if rc.cellIdx >= len(st.cells) {
		panic("glint: UseRef: more hook calls than the previous render")
	}
	v := st.cells[rc.cellIdx]
	rc.cellIdx++
	return v
}

func (updateHooks) handle(rc *Ctx, target any, produce func() any, attach func(target, value any), detach func(target any), deps []any) {
	cell := takeCell[*handleCell](rc, "UseImperativeHandle")
	switch {
	case !depsEqual(cell.deps, deps):
		detach(cell.target)
		cell.deps = deps
		cell.target = target
		cell.value = produce()
		attach(target, cell.value)
	case !sameRefTarget(cell.target, target):
		detach(cell.target)
		cell.target = target
		attach(target, cell.value)
	}
}

// sameRefTarget compares ref targets by identity: funcs by entry point,
// everything else by strict equality.
func sameRefTarget(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	return strictEqual(a, b)
}
