package rendertree

import "github.com/go-gl/mathgl/mgl32"

// RenderState is what a renderer needs to paint one node.
type RenderState struct {
	// World maps the node's local coordinates to the root frame.
	World mgl32.Mat4
	// Opacity is the node's opacity combined with its ancestors'.
	Opacity float64
	// Blend is false when the node may be copied without alpha blending: it
	// is opaque and no ancestor is translucent.
	Blend bool
	// Depth is 0 for the traversal root.
	Depth int
}

type traverseFrame struct {
	node      *Node
	inherited float64
	depth     int
}

// Traverse walks the subtree rooted at root depth-first, parents before
// children and siblings in order, calling fn for every node that is not
// hidden. Hidden nodes are skipped with their whole subtree. If fn returns
// false the node's children are skipped. The tree must not be changed until
// Traverse returns.
//
// An opaque node whose ancestors are fully opaque ignores its own opacity.
func Traverse(root *Node, fn func(n *Node, st RenderState) bool) {
	if root == nil {
		return
	}
	root.Toplevel().updateWorldMatrix(false)

	stack := []traverseFrame{{node: root, inherited: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.node
		if n.hidden {
			continue
		}

		st := RenderState{World: n.worldMatrix, Depth: f.depth}
		if n.opaque && f.inherited >= 1 {
			st.Opacity = 1
		} else {
			st.Opacity = f.inherited * n.opacity
			st.Blend = true
		}

		if !fn(n, st) {
			continue
		}
		for c := n.lastChild; c != nil; c = c.prevSibling {
			stack = append(stack, traverseFrame{node: c, inherited: st.Opacity, depth: f.depth + 1})
		}
	}
}

// Traverse walks the scene tree. See the package-level Traverse.
func (s *Scene) Traverse(fn func(n *Node, st RenderState) bool) {
	Traverse(s.root, fn)
}
