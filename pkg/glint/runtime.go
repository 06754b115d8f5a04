package glint

// Runtime ties one host, one dispatcher, and one mounted tree together.
type Runtime struct {
	host  Host
	sched *scheduler
	root  node
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithDispatcher sets the dispatcher driving the scheduler's deferred work.
// The default is a Loop with the default frame interval, which the caller
// must Run. Tests typically install a hand-pumped dispatcher instead.
func WithDispatcher(d Dispatcher) Option {
	return func(rt *Runtime) {
		rt.sched.disp = d
	}
}

// New creates a runtime rendering into the given host.
func New(host Host, opts ...Option) *Runtime {
	rt := &Runtime{
		host:  host,
		sched: &scheduler{},
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.sched.disp == nil {
		rt.sched.disp = NewLoop(0)
	}
	return rt
}

// Host returns the host the runtime renders into.
func (rt *Runtime) Host() Host { return rt.host }

// Dispatcher returns the dispatcher driving the scheduler.
func (rt *Runtime) Dispatcher() Dispatcher { return rt.sched.disp }

// Mount builds the tree for the descriptor, appends its host node(s) to
// container, synchronously flushes the layout effects the first render
// registered, and enters the scheduler's drain loop so effects that set
// state during mount are handled. Panics from components or the host
// propagate to the caller; the tree is then in an undefined state.
func (rt *Runtime) Mount(d Descriptor, container HostNode) {
	if rt.root != nil {
		panic("glint: runtime already mounted")
	}
	root := mountNode(rt, d, nil, 0)
	root.insert(rt, container, nil)
	rt.root = root
	rt.sched.flushLayout()
	rt.sched.drain()
}

// Unmount tears the mounted tree down: effect cleanups and context
// subscriptions release, then the host nodes are removed from container.
func (rt *Runtime) Unmount() {
	if rt.root == nil {
		return
	}
	rt.root.unmount(rt, true)
	rt.root = nil
}
