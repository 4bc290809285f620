package rendertree

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// --- ID counter ---

// nodeIDCounter is a plain counter; nodes are built on one goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single concrete struct is
// used for every node; children are kept in an intrusive doubly linked list so
// insertion next to a known sibling and removal during iteration are O(1).
//
// A parent owns its children. The parent pointer is a back reference only.
type Node struct {
	// Identity
	id   uint32
	name string

	// Hierarchy
	parent      *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node
	nChildren   int
	age         uint64

	// Geometry
	bounds            Rect
	transform         mgl32.Mat4
	childTransform    mgl32.Mat4
	transformSet      bool
	childTransformSet bool

	// Computed, valid while needsWorldMatrixUpdate is false
	worldMatrix            mgl32.Mat4
	needsWorldMatrixUpdate bool

	// Render attributes
	opacity float64
	hidden  bool
	opaque  bool

	// Lifecycle
	isMutable bool
	disposed  bool

	surface Surface
}

// NewNode creates a mutable root node with no children, zero bounds, identity
// transforms and full opacity.
func NewNode() *Node {
	return &Node{
		id:                     nextNodeID(),
		transform:              mgl32.Ident4(),
		childTransform:         mgl32.Ident4(),
		worldMatrix:            mgl32.Ident4(),
		needsWorldMatrixUpdate: true,
		opacity:                1,
		isMutable:              true,
	}
}

// --- Accessors ---

// ID returns the node's process-unique identifier. It is only meant for
// debugging output.
func (n *Node) ID() uint32 {
	if n == nil {
		return 0
	}
	return n.id
}

// Name returns the debugging name, or "" if none was set.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	return n.name
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// FirstChild returns the first child in sibling order.
func (n *Node) FirstChild() *Node {
	if n == nil {
		return nil
	}
	return n.firstChild
}

// LastChild returns the last child in sibling order.
func (n *Node) LastChild() *Node {
	if n == nil {
		return nil
	}
	return n.lastChild
}

// NextSibling returns the sibling following n, or nil.
func (n *Node) NextSibling() *Node {
	if n == nil {
		return nil
	}
	return n.nextSibling
}

// PrevSibling returns the sibling preceding n, or nil.
func (n *Node) PrevSibling() *Node {
	if n == nil {
		return nil
	}
	return n.prevSibling
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int {
	if n == nil {
		return 0
	}
	return n.nChildren
}

// ChildAt returns the child at the given index, or nil when out of range.
// It walks the sibling chain.
func (n *Node) ChildAt(index int) *Node {
	if n == nil || index < 0 || index >= n.nChildren {
		return nil
	}
	c := n.firstChild
	for i := 0; c != nil && i < index; i++ {
		c = c.nextSibling
	}
	return c
}

// Bounds returns the node's bounds.
func (n *Node) Bounds() Rect {
	if n == nil {
		return ZeroRect
	}
	return n.bounds
}

// Opacity returns the node's opacity in [0, 1].
func (n *Node) Opacity() float64 {
	if n == nil {
		return 0
	}
	return n.opacity
}

// IsHidden reports whether the renderer must skip this node's subtree.
// A nil node reports true.
func (n *Node) IsHidden() bool {
	if n == nil {
		return true
	}
	return n.hidden
}

// IsOpaque reports whether the subtree is declared fully opaque.
func (n *Node) IsOpaque() bool {
	if n == nil {
		return false
	}
	return n.opaque
}

// IsDisposed reports whether Dispose has been called on the node.
func (n *Node) IsDisposed() bool {
	if n == nil {
		return false
	}
	return n.disposed
}

// Contains reports whether descendant is n or lies somewhere below n.
func (n *Node) Contains(descendant *Node) bool {
	if n == nil || descendant == nil {
		return false
	}
	return isAncestor(n, descendant)
}

// Toplevel returns the root of the tree n belongs to.
func (n *Node) Toplevel() *Node {
	if n == nil {
		return nil
	}
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// --- Property setters ---

// SetBounds sets the node's geometry. A surface that no longer matches the
// new pixel size is released and will be re-created on the next DrawContext.
func (n *Node) SetBounds(r Rect) {
	if !n.checkMutable("SetBounds") {
		return
	}
	n.setBounds(r)
}

// ResetBounds resets the bounds to ZeroRect.
func (n *Node) ResetBounds() {
	if !n.checkMutable("ResetBounds") {
		return
	}
	n.setBounds(ZeroRect)
}

func (n *Node) setBounds(r Rect) {
	if n.surface != nil {
		ow, oh := n.bounds.PixelSize()
		nw, nh := r.PixelSize()
		if ow != nw || oh != nh {
			n.releaseSurface()
		}
	}
	n.bounds = r
}

// SetOpacity sets the node's opacity, clamped to [0, 1]. NaN is stored as 0.
func (n *Node) SetOpacity(opacity float64) {
	if !n.checkMutable("SetOpacity") {
		return
	}
	if math.IsNaN(opacity) {
		opacity = 0
	}
	n.opacity = min(1, max(0, opacity))
}

// SetHidden sets whether the renderer must skip this node's subtree.
func (n *Node) SetHidden(hidden bool) {
	if !n.checkMutable("SetHidden") {
		return
	}
	n.hidden = hidden
}

// SetOpaque declares the subtree fully opaque. Changing the hint releases an
// existing surface, since the surface color model follows it.
func (n *Node) SetOpaque(opaque bool) {
	if !n.checkMutable("SetOpaque") {
		return
	}
	if n.opaque != opaque {
		n.releaseSurface()
	}
	n.opaque = opaque
}

// SetName sets the debugging name. An empty string clears it.
func (n *Node) SetName(name string) {
	if !n.checkMutable("SetName") {
		return
	}
	n.name = name
}

// --- Disposal ---

// Dispose ends the node's life: it detaches n from its parent, removes every
// child (children become roots and stay usable by any other holder), then
// releases the surface and the name. A frozen node, and therefore any child of
// a frozen parent, refuses to be disposed: its links are part of the frozen
// tree.
func (n *Node) Dispose() {
	if n == nil || n.disposed {
		return
	}
	if !n.isMutable {
		critical("Dispose", "cannot dispose an immutable render node", "node", n, "parent", n.parent)
		return
	}
	if p := n.parent; p != nil {
		p.unlinkChild(n)
	}
	for n.firstChild != nil {
		n.unlinkChild(n.firstChild)
	}
	n.releaseSurface()
	n.name = ""
	n.disposed = true
}

// --- Debug formatting ---

// String returns "name#id", or "#id" for unnamed nodes.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.name == "" {
		return fmt.Sprintf("#%d", n.id)
	}
	return fmt.Sprintf("%s#%d", n.name, n.id)
}

// LogValue implements slog.LogValuer so nodes can be passed straight to the
// diagnostics logger.
func (n *Node) LogValue() slog.Value {
	if n == nil {
		return slog.StringValue("<nil>")
	}
	return slog.GroupValue(
		slog.Uint64("id", uint64(n.id)),
		slog.String("name", n.name),
	)
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}
