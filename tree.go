package rendertree

// --- Tree manipulation ---
//
// Every structural edit funnels through insertChild or unlinkChild so the
// sibling chain, child count, parent pointer and age move together.

// AppendChild adds child after the current last child.
func (n *Node) AppendChild(child *Node) {
	n.insertChild("AppendChild", child, n.linkAppend)
}

// PrependChild adds child before the current first child.
func (n *Node) PrependChild(child *Node) {
	n.insertChild("PrependChild", child, n.linkPrepend)
}

// InsertChildAtPos inserts child so that it ends up at index pos. A pos of 0
// prepends; a negative pos, or one at or past NumChildren, appends.
func (n *Node) InsertChildAtPos(child *Node, pos int) {
	n.insertChild("InsertChildAtPos", child, func(c *Node) {
		n.linkAtPos(c, pos)
	})
}

// InsertChildBefore inserts child immediately before sibling. A nil sibling
// prepends. sibling must be a child of n.
func (n *Node) InsertChildBefore(child, sibling *Node) {
	if sibling != nil && n != nil && sibling.parent != n {
		critical("InsertChildBefore", "sibling is not a child of this render node", "node", n, "sibling", sibling)
		return
	}
	n.insertChild("InsertChildBefore", child, func(c *Node) {
		n.linkBefore(c, sibling)
	})
}

// InsertChildAfter inserts child immediately after sibling. A nil sibling
// appends. sibling must be a child of n.
func (n *Node) InsertChildAfter(child, sibling *Node) {
	if sibling != nil && n != nil && sibling.parent != n {
		critical("InsertChildAfter", "sibling is not a child of this render node", "node", n, "sibling", sibling)
		return
	}
	n.insertChild("InsertChildAfter", child, func(c *Node) {
		n.linkAfter(c, sibling)
	})
}

// ReplaceChild puts newChild in oldChild's slot, keeping the same neighbors,
// and detaches oldChild. newChild must be parentless and oldChild must be a
// child of n.
func (n *Node) ReplaceChild(newChild, oldChild *Node) {
	const op = "ReplaceChild"
	if !n.checkMutable(op) {
		return
	}
	if newChild == nil || oldChild == nil {
		critical(op, "nil render node", "node", n, "new", newChild, "old", oldChild)
		return
	}
	if newChild.parent != nil {
		critical(op, "replacement render node already has a parent", "node", n, "new", newChild, "parent", newChild.parent)
		return
	}
	if oldChild.parent != n {
		critical(op, "replaced render node is not a child of this render node", "node", n, "old", oldChild)
		return
	}
	if !n.checkAttachable(op, newChild) {
		return
	}
	prev, next := oldChild.prevSibling, oldChild.nextSibling
	n.unlinkChild(oldChild)
	n.insertChild(op, newChild, func(c *Node) {
		linkBetween(c, prev, next)
	})
}

// RemoveChild detaches child from n. The detached child becomes a root.
func (n *Node) RemoveChild(child *Node) {
	const op = "RemoveChild"
	if !n.checkMutable(op) {
		return
	}
	if child == nil {
		critical(op, "nil render node", "node", n)
		return
	}
	if child.parent != n {
		critical(op, "render node is not a child of this render node", "node", n, "child", child)
		return
	}
	n.unlinkChild(child)
	if globalDebug {
		debugVerifyLinks(op, n)
	}
}

// RemoveAllChildren detaches every child of n.
func (n *Node) RemoveAllChildren() {
	if !n.checkMutable("RemoveAllChildren") {
		return
	}
	if n.nChildren == 0 {
		return
	}
	var it ChildIter
	it.Init(n)
	for it.Next() {
		it.Remove()
	}
}

// RemoveFromParent detaches n from its parent.
// No-op if n has no parent.
func (n *Node) RemoveFromParent() {
	if n == nil || n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// --- Internals ---

// checkAttachable validates that child may become a child of n.
func (n *Node) checkAttachable(op string, child *Node) bool {
	switch {
	case child == nil:
		critical(op, "nil render node", "node", n)
		return false
	case child == n:
		critical(op, "render node cannot be added to itself", "node", n)
		return false
	case child.parent != nil:
		critical(op, "render node already has a parent; render nodes cannot be added to multiple parents",
			"child", child, "parent", child.parent, "node", n)
		return false
	case child.disposed:
		critical(op, ErrDisposed.Error(), "child", child, "node", n)
		return false
	case isAncestor(child, n):
		critical(op, "adding child would create a cycle", "child", child, "node", n)
		return false
	}
	return true
}

// insertChild runs the preconditions, lets link splice child into the
// sibling chain, then updates the bookkeeping shared by every insertion.
func (n *Node) insertChild(op string, child *Node, link func(child *Node)) {
	if !n.checkMutable(op) {
		return
	}
	if !n.checkAttachable(op, child) {
		return
	}

	link(child)

	child.parent = n
	child.age = 0
	markSubtreeStale(child)

	n.nChildren++
	n.age++
	n.needsWorldMatrixUpdate = true

	if child.prevSibling == nil {
		n.firstChild = child
	}
	if child.nextSibling == nil {
		n.lastChild = child
	}

	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
		debugVerifyLinks(op, n)
	}
}

// unlinkChild removes child from n's chain without any precondition checks.
func (n *Node) unlinkChild(child *Node) {
	prev, next := child.prevSibling, child.nextSibling

	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil
	child.age = 0
	markSubtreeStale(child)

	if prev != nil {
		prev.nextSibling = next
	}
	if next != nil {
		next.prevSibling = prev
	}

	n.age++
	n.nChildren--

	if n.firstChild == child {
		n.firstChild = next
	}
	if n.lastChild == child {
		n.lastChild = prev
	}
}

func (n *Node) linkAppend(child *Node) {
	last := n.lastChild
	if last != nil {
		last.nextSibling = child
	}
	child.prevSibling = last
	child.nextSibling = nil
}

// linkPrepend only wires child and the old first child; insertChild updates
// firstChild (and lastChild for an empty list) from child's nil links.
func (n *Node) linkPrepend(child *Node) {
	first := n.firstChild
	if first != nil {
		first.prevSibling = child
	}
	child.prevSibling = nil
	child.nextSibling = first
}

func (n *Node) linkAtPos(child *Node, pos int) {
	if pos == 0 {
		n.linkPrepend(child)
		return
	}
	if pos < 0 || pos >= n.nChildren {
		n.linkAppend(child)
		return
	}
	at := n.ChildAt(pos)
	if at == nil {
		// n.nChildren disagrees with the chain.
		critical("InsertChildAtPos", "child count does not match sibling chain", "node", n, "pos", pos, "count", n.nChildren)
		n.linkAppend(child)
		return
	}
	linkBetween(child, at.prevSibling, at)
}

func (n *Node) linkBefore(child, sibling *Node) {
	if sibling == nil {
		sibling = n.firstChild
	}
	if sibling == nil {
		child.prevSibling = nil
		child.nextSibling = nil
		return
	}
	linkBetween(child, sibling.prevSibling, sibling)
}

func (n *Node) linkAfter(child, sibling *Node) {
	if sibling == nil {
		sibling = n.lastChild
	}
	if sibling == nil {
		child.prevSibling = nil
		child.nextSibling = nil
		return
	}
	linkBetween(child, sibling, sibling.nextSibling)
}

// linkBetween splices child between prev and next, either of which may be nil.
func linkBetween(child, prev, next *Node) {
	child.prevSibling = prev
	child.nextSibling = next
	if prev != nil {
		prev.nextSibling = child
	}
	if next != nil {
		next.prevSibling = child
	}
}
