package rendertree

// Scene owns a root node and the per-frame bookkeeping around it. Using a
// Scene is optional; any Node can serve as a root on its own.
type Scene struct {
	root  *Node
	debug bool
}

// NewScene creates a new scene with a pre-created root named "root".
func NewScene() *Scene {
	root := NewNode()
	root.SetName("root")
	return &Scene{root: root}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Update refreshes every stale world matrix in the tree, so renderers can read
// cached matrices without further work this frame.
func (s *Scene) Update() {
	s.root.Toplevel().updateWorldMatrix(false)
}

// Freeze makes the whole tree immutable.
func (s *Scene) Freeze() {
	s.root.MakeImmutable()
}

// SetDebugMode enables or disables debug mode. When enabled, structural edits
// verify the sibling chain and warn about very deep or wide trees.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	SetDebugMode(enabled)
}

// DebugMode reports whether this scene enabled debug mode.
func (s *Scene) DebugMode() bool {
	return s.debug
}
