package rendertree

import "github.com/go-gl/mathgl/mgl32"

// Composition order, for a node N with parent P:
//
//	world(N) = world(P) * P.childTransform * N.transform
//
// so a point in N's local frame is moved by N's own transform first, then by
// the parent's child-space frame, then by the parent's world frame. Unset
// matrices (equal to the identity) are skipped.

// --- Transform property setters ---

// SetTransform sets the node's local transform and marks the node and its
// subtree stale.
func (n *Node) SetTransform(m mgl32.Mat4) {
	if !n.checkMutable("SetTransform") {
		return
	}
	n.setTransform(m)
}

// ResetTransform restores the identity local transform.
func (n *Node) ResetTransform() {
	if !n.checkMutable("ResetTransform") {
		return
	}
	n.setTransform(mgl32.Ident4())
}

func (n *Node) setTransform(m mgl32.Mat4) {
	n.transform = m
	n.transformSet = !isIdentity(m)
	markSubtreeStale(n)
}

// SetChildTransform sets the matrix applied to every child's local frame and
// marks the node and its subtree stale.
func (n *Node) SetChildTransform(m mgl32.Mat4) {
	if !n.checkMutable("SetChildTransform") {
		return
	}
	n.setChildTransform(m)
}

// ResetChildTransform restores the identity child transform.
func (n *Node) ResetChildTransform() {
	if !n.checkMutable("ResetChildTransform") {
		return
	}
	n.setChildTransform(mgl32.Ident4())
}

func (n *Node) setChildTransform(m mgl32.Mat4) {
	n.childTransform = m
	n.childTransformSet = !isIdentity(m)
	markSubtreeStale(n)
}

// Transform returns the node's local transform.
func (n *Node) Transform() mgl32.Mat4 {
	if n == nil {
		return mgl32.Ident4()
	}
	return n.transform
}

// ChildTransform returns the node's child-space transform.
func (n *Node) ChildTransform() mgl32.Mat4 {
	if n == nil {
		return mgl32.Ident4()
	}
	return n.childTransform
}

// IsTransformSet reports whether the local transform differs from the identity.
func (n *Node) IsTransformSet() bool {
	return n != nil && n.transformSet
}

// IsChildTransformSet reports whether the child transform differs from the identity.
func (n *Node) IsChildTransformSet() bool {
	return n != nil && n.childTransformSet
}

// NeedsWorldMatrixUpdate reports whether the cached world matrix is stale.
func (n *Node) NeedsWorldMatrixUpdate() bool {
	return n != nil && n.needsWorldMatrixUpdate
}

// --- World matrix cache ---

// WorldMatrix returns the matrix mapping the node's local coordinates to the
// frame of its root. A stale cache triggers a recomputation of the whole tree
// from the root.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n == nil {
		critical("WorldMatrix", ErrNilNode.Error())
		return mgl32.Ident4()
	}
	if n.needsWorldMatrixUpdate {
		n.Toplevel().updateWorldMatrix(true)
	}
	return n.worldMatrix
}

// computeWorldMatrix assumes the parent's cached world matrix is current.
func (n *Node) computeWorldMatrix() mgl32.Mat4 {
	p := n.parent
	if p == nil {
		if n.transformSet {
			return n.transform
		}
		return mgl32.Ident4()
	}

	step := mgl32.Ident4()
	if p.childTransformSet {
		step = p.childTransform
	}
	if n.transformSet {
		step = step.Mul4(n.transform)
	}
	return p.worldMatrix.Mul4(step)
}

type worldUpdate struct {
	node  *Node
	force bool
}

// updateWorldMatrix recomputes the cached world matrix of n and its
// descendants top-down. A node is recomputed when forced or stale; children
// are forced whenever their parent was recomputed. Uses an explicit stack so
// deep trees do not grow the goroutine stack.
func (n *Node) updateWorldMatrix(force bool) {
	stack := []worldUpdate{{node: n, force: force}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur := top.node
		recompute := top.force || cur.needsWorldMatrixUpdate
		if recompute {
			cur.worldMatrix = cur.computeWorldMatrix()
			cur.needsWorldMatrixUpdate = false
		}

		// Push in reverse so siblings pop in order.
		for c := cur.lastChild; c != nil; c = c.prevSibling {
			stack = append(stack, worldUpdate{node: c, force: recompute})
		}
	}
}

// markSubtreeStale sets needsWorldMatrixUpdate on node and all its descendants.
func markSubtreeStale(node *Node) {
	stack := []*Node{node}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur.needsWorldMatrixUpdate = true
		for c := cur.firstChild; c != nil; c = c.nextSibling {
			stack = append(stack, c)
		}
	}
}

// --- Coordinate conversion ---

// LocalToWorld converts a point in the node's local space to its root's frame.
func (n *Node) LocalToWorld(lx, ly float32) (wx, wy float32) {
	v := n.WorldMatrix().Mul4x1(mgl32.Vec4{lx, ly, 0, 1})
	return v.X(), v.Y()
}

// WorldToLocal converts a point in the root's frame to the node's local space.
// A singular world matrix leaves the point unchanged.
func (n *Node) WorldToLocal(wx, wy float32) (lx, ly float32) {
	m := n.WorldMatrix()
	if d := m.Det(); d > -1e-12 && d < 1e-12 {
		return wx, wy
	}
	v := m.Inv().Mul4x1(mgl32.Vec4{wx, wy, 0, 1})
	return v.X(), v.Y()
}
