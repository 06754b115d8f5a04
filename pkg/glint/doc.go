// Package glint implements the Glint rendering core: the virtual node
// tree, the reconciler that patches a mounted tree against new descriptors,
// the ordered-slot hooks runtime attached to component nodes, and the
// depth-ordered scheduler that batches re-renders and effect flushes.
//
// The runtime is host-agnostic. Concrete node creation and mutation go
// through the Host interface; pkg/vtest provides a recording host for tests
// and pkg/remote provides a host that streams mutations as protocol patches.
//
// Rendering is synchronous and run-to-completion. All tree and slot state
// belongs to a single logical thread: the event loop that drives the
// scheduler. State setters may be called from that loop only (event
// handlers and effects already run there).
package glint
