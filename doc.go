// Package rendertree is a retained-mode 2D scene graph: a tree of nodes, each
// carrying bounds, a local transform, a child-space transform, opacity,
// visibility flags and an optional raster surface. It is the data a renderer
// walks to produce frames; the renderer itself lives outside this package.
//
// # Scene graph
//
// Every element is a [Node]. A node is created as a mutable root with
// [NewNode]. Attaching a node to a parent hands ownership to the parent; a
// node can only have one parent at a time and cannot be attached below
// itself.
//
//	root := rendertree.NewNode()
//	panel := rendertree.NewNode()
//	panel.SetBounds(rendertree.Rect{Width: 200, Height: 100})
//	root.AppendChild(panel)
//
// Children keep their insertion order, adjusted by [Node.PrependChild],
// [Node.InsertChildAtPos], [Node.InsertChildBefore], [Node.InsertChildAfter]
// and [Node.ReplaceChild]. Walk them with [Node.Children] or, when children
// must be removed along the way, with a [ChildIter].
//
// # Transforms
//
// A node's world matrix maps its local coordinates to its root's frame:
//
//	world(N) = world(parent) * parent.ChildTransform() * N.Transform()
//
// World matrices are cached. Setting a transform or attaching a node marks the
// affected subtree stale; [Node.WorldMatrix] and [Scene.Update] recompute stale
// matrices top-down from the root.
//
// # Freezing
//
// [Node.MakeImmutable] freezes a subtree once it is complete. Frozen nodes
// refuse every edit; reads, iteration and matrix recomputation still work.
//
// # Diagnostics
//
// Misusing the API (attaching a node that already has a parent, editing a
// frozen node, removing a node from the wrong parent, ...) never panics. The
// call does nothing and a record at [LevelCritical] is sent to the logger
// configured with [SetLogger]. [SetDebugMode] adds consistency checks after
// every structural edit.
//
// # Surfaces
//
// [Node.DrawContext] lazily creates a surface sized to the node's bounds and
// returns a drawing context clipped to them. The default [GGProvider]
// rasterizes on the CPU with [gg]; the ebitensurface package provides
// GPU-backed surfaces for [Ebitengine]. Install a provider with
// [SetSurfaceProvider].
//
// [gg]: https://github.com/gogpu/gg
// [Ebitengine]: https://ebitengine.org
package rendertree
