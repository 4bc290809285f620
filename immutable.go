package rendertree

import "errors"

var (
	// ErrNilNode is reported when a nil *Node is used where a node is required.
	ErrNilNode = errors.New("rendertree: nil render node")
	// ErrImmutable is reported when a frozen node is asked to change.
	ErrImmutable = errors.New("rendertree: render node is immutable")
	// ErrDisposed is reported when a disposed node is asked to change.
	ErrDisposed = errors.New("rendertree: render node is disposed")
)

// IsMutable reports whether the node still accepts edits.
func (n *Node) IsMutable() bool {
	return n != nil && n.isMutable
}

// MakeImmutable freezes n and its whole subtree. Once frozen, every property
// setter and structural edit is refused with a diagnostic; reads, iteration
// and world-matrix recomputation keep working. Freezing is one-way.
func (n *Node) MakeImmutable() {
	if n == nil {
		critical("MakeImmutable", ErrNilNode.Error())
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// A frozen node cannot gain children, so its subtree is frozen too.
		if !cur.isMutable {
			continue
		}
		cur.isMutable = false
		for c := cur.firstChild; c != nil; c = c.nextSibling {
			stack = append(stack, c)
		}
	}
}

// mutationError returns why n refuses edits, or nil.
func (n *Node) mutationError() error {
	switch {
	case n == nil:
		return ErrNilNode
	case n.disposed:
		return ErrDisposed
	case !n.isMutable:
		return ErrImmutable
	}
	return nil
}

// checkMutable reports a critical diagnostic and returns false when n refuses
// edits.
func (n *Node) checkMutable(op string) bool {
	if err := n.mutationError(); err != nil {
		critical(op, err.Error(), "node", n)
		return false
	}
	return true
}
