package rendertree

import "iter"

// ChildIter walks the direct children of a node. It snapshots the node's age
// at Init; any structural edit of the node other than the iterator's own
// Remove is reported as a critical diagnostic and ends the iteration.
//
//	var it ChildIter
//	it.Init(parent)
//	for it.Next() {
//		if it.Child().IsHidden() {
//			it.Remove()
//		}
//	}
type ChildIter struct {
	root  *Node
	child *Node // last yielded child, nil before the first step and after Remove
	age   uint64
	done  bool

	// Neighbours of the child removed last. Valid while removed is set; any
	// other edit of root changes its age and ends the iteration.
	removed        bool
	prevOf, nextOf *Node
}

// Iter returns an iterator over n's children.
func (n *Node) Iter() *ChildIter {
	it := &ChildIter{}
	it.Init(n)
	return it
}

// Init (re)starts the iterator on n.
func (it *ChildIter) Init(n *Node) {
	*it = ChildIter{root: n}
	if n != nil {
		it.age = n.age
	}
}

// Child returns the child yielded by the last successful Next or Prev.
func (it *ChildIter) Child() *Node {
	return it.child
}

// Next advances to the next sibling and reports whether there is one. The
// first step yields the first child.
func (it *ChildIter) Next() bool {
	if !it.checkAge("ChildIter.Next") || it.done {
		return false
	}
	var c *Node
	switch {
	case it.removed:
		c = it.nextOf
	case it.child != nil:
		c = it.child.nextSibling
	default:
		c = it.root.firstChild
	}
	return it.settle(c)
}

// Prev steps back to the previous sibling and reports whether there is one.
// The first step yields the last child.
func (it *ChildIter) Prev() bool {
	if !it.checkAge("ChildIter.Prev") || it.done {
		return false
	}
	var c *Node
	switch {
	case it.removed:
		c = it.prevOf
	case it.child != nil:
		c = it.child.prevSibling
	default:
		c = it.root.lastChild
	}
	return it.settle(c)
}

func (it *ChildIter) settle(c *Node) bool {
	it.child = c
	it.removed = false
	it.prevOf, it.nextOf = nil, nil
	if c == nil {
		it.done = true
		return false
	}
	return true
}

// Remove detaches the child yielded last and keeps the iterator usable: the
// following Next yields the sibling that came after the removed child, and
// the following Prev the one that came before it, whichever direction the
// walk had.
func (it *ChildIter) Remove() {
	const op = "ChildIter.Remove"
	if !it.checkAge(op) {
		return
	}
	if it.child == nil {
		critical(op, "no current child to remove", "node", it.root)
		return
	}
	if !it.root.checkMutable(op) {
		return
	}
	gone := it.child
	it.prevOf, it.nextOf = gone.prevSibling, gone.nextSibling
	it.root.unlinkChild(gone)
	it.age = it.root.age
	it.child = nil
	it.removed = true
}

func (it *ChildIter) checkAge(op string) bool {
	if it.root == nil {
		critical(op, "iterator is not initialized")
		return false
	}
	if it.age != it.root.age {
		critical(op, "render node was modified during iteration",
			"node", it.root, "want_age", it.age, "age", it.root.age)
		return false
	}
	return true
}

// Children returns a sequence over n's direct children in sibling order.
// Structural edits of n while ranging end the sequence with a diagnostic.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}
		var it ChildIter
		it.Init(n)
		for it.Next() {
			if !yield(it.Child()) {
				return
			}
		}
	}
}
