package glint

// Cleanup is the optional teardown returned by an effect body. It runs
// before the effect's next invocation and when the owning component
// unmounts.
type Cleanup func()

// State holds a component instance's ordered hook slots. It is created
// lazily on the first hook call and addressed purely by call order: state,
// memo, ref, and handle cells share one array and one counter, effects and
// context subscriptions each have their own.
type State struct {
	cells    []any
	effects  []*effectRecord
	contexts []*contextSub
}

// stateCell is the slot behind UseState: the current value plus the stable
// typed setter handed back on every render.
type stateCell struct {
	value  any
	setter any
}

// memoCell caches a computed value with the dependency list it was
// computed under.
type memoCell struct {
	deps  []any
	value any
}

// handleCell tracks an imperative handle: the produced value, the ref
// target it is attached to, and the dependency list.
type handleCell struct {
	deps   []any
	target any
	value  any
}

// effectRecord is one registered effect slot. A nil deps list means the
// body re-runs on every render.
type effectRecord struct {
	layout  bool
	deps    []any
	cleanup Cleanup
}

// contextSub is one context-subscription slot: the token read at this call
// position and the provider resolved for it (nil when no provider
// encloses the component).
type contextSub struct {
	ctx      *Context
	provider *providerNode
}

// resolve returns the provider's current value, or the token's default.
func (s *contextSub) resolve() any {
	if s.provider != nil {
		return s.provider.value
	}
	return s.ctx.def
}
