package rendertree

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Surface is a raster buffer owned by a node.
type Surface interface {
	Width() int
	Height() int
	// HasAlpha reports whether the surface stores an alpha channel.
	HasAlpha() bool
	// Release frees the surface's pixels. The surface must not be used after.
	Release()
}

// DrawContext draws on a Surface. The caller of Node.DrawContext owns it and
// must Close it when done. *gg.Context satisfies this interface.
type DrawContext interface {
	ClipRect(x, y, w, h float64)
	Close() error
}

// SurfaceProvider creates surfaces and drawing contexts for nodes.
type SurfaceProvider interface {
	CreateSurface(width, height int, hasAlpha bool) (Surface, error)
	CreateContext(s Surface) (DrawContext, error)
}

// ErrSurfaceReleased is returned when drawing on a released surface.
var ErrSurfaceReleased = errors.New("rendertree: surface has been released")

type providerSlot struct {
	p SurfaceProvider
}

// providerPtr stores the active provider, swapped atomically like the logger.
var providerPtr atomic.Pointer[providerSlot]

func init() {
	providerPtr.Store(&providerSlot{p: GGProvider{}})
}

// SetSurfaceProvider installs the provider used by every node to create
// surfaces. Pass nil to restore the default GGProvider. Surfaces created by a
// previous provider stay attached to their nodes.
func SetSurfaceProvider(p SurfaceProvider) {
	if p == nil {
		p = GGProvider{}
	}
	providerPtr.Store(&providerSlot{p: p})
}

// CurrentSurfaceProvider returns the provider installed by SetSurfaceProvider.
func CurrentSurfaceProvider() SurfaceProvider {
	return providerPtr.Load().p
}

// Surface returns the node's surface, or nil if none has been created yet.
func (n *Node) Surface() Surface {
	if n == nil {
		return nil
	}
	return n.surface
}

// DrawContext returns a drawing context on the node's surface, creating the
// surface first if needed. The surface is sized to the node's bounds (rounded
// up) and has an alpha channel unless the node is opaque. The context is
// clipped to the node's bounds.
//
// Only mutable nodes hand out drawing contexts: paint nodes before freezing
// the tree.
func (n *Node) DrawContext() (DrawContext, error) {
	const op = "DrawContext"
	if err := n.mutationError(); err != nil {
		critical(op, err.Error(), "node", n)
		return nil, err
	}

	p := CurrentSurfaceProvider()
	if n.surface == nil {
		w, h := n.bounds.PixelSize()
		s, err := p.CreateSurface(w, h, !n.opaque)
		if err != nil {
			return nil, fmt.Errorf("rendertree: create %dx%d surface for %v: %w", w, h, n, err)
		}
		n.surface = s
	}

	dc, err := p.CreateContext(n.surface)
	if err != nil {
		return nil, fmt.Errorf("rendertree: create draw context for %v: %w", n, err)
	}
	b := n.bounds
	dc.ClipRect(float64(b.X), float64(b.Y), float64(b.Width), float64(b.Height))
	return dc, nil
}

func (n *Node) releaseSurface() {
	if n.surface == nil {
		return
	}
	n.surface.Release()
	n.surface = nil
}
