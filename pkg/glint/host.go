package glint

// HostNode is an opaque handle to a node owned by the host platform.
// The runtime never inspects it; it only passes it back to the Host.
// Handles must be comparable (pointers, in practice): the runtime relies
// on == to recognize node boundaries.
type HostNode any

// Host is the platform the runtime renders into. Implementations own the
// concrete node tree (a browser DOM mirror, a test recorder, ...).
//
// Text content updates arrive as SetProperty(node, "data", string), matching
// the character-data property of DOM text nodes.
//
// Host operations have no error returns: a host that cannot perform an
// operation (for example an invalid tag name) should panic, which propagates
// out of Mount or the scheduler drain exactly like a component panic.
type Host interface {
	// CreateElement creates a detached element node for the given tag.
	CreateElement(tag string) HostNode

	// CreateText creates a detached text node with the given content.
	CreateText(text string) HostNode

	// CreatePlaceholder creates an invisible marker node. Null nodes and
	// empty fragments anchor their position in the host tree with one.
	CreatePlaceholder() HostNode

	// SetProperty sets a named property on the node.
	SetProperty(n HostNode, name string, value any)

	// ClearProperty removes a named property from the node.
	ClearProperty(n HostNode, name string)

	// InsertBefore inserts n into parent before ref. A nil ref appends.
	InsertBefore(parent, n, ref HostNode)

	// Remove detaches n from its parent.
	Remove(n HostNode)

	// Replace swaps oldNode for newNode in place.
	Replace(oldNode, newNode HostNode)

	// Parent returns the node's current parent, or nil if detached.
	Parent(n HostNode) HostNode

	// NextSibling returns the node following n, or nil if n is last.
	NextSibling(n HostNode) HostNode
}
