// Package ebitensurface provides GPU-backed node surfaces for rendertree using
// Ebitengine images.
//
//	rendertree.SetSurfaceProvider(ebitensurface.Provider{})
//	dc, err := node.DrawContext()
//	if err != nil { ... }
//	ctx := dc.(*ebitensurface.Context)
//	ctx.Fill(color.White)
//	ctx.Close()
package ebitensurface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/rendertree"
)

// Provider implements rendertree.SurfaceProvider with *ebiten.Image surfaces.
type Provider struct {
	// Pool, when set, supplies the backing images and takes them back when a
	// surface is released. Without a pool, released images are deallocated.
	Pool *Pool
}

// CreateSurface allocates an offscreen image. Ebitengine cannot allocate
// empty images, so zero-sized surfaces are backed by a 1x1 image while still
// reporting their requested size. Surfaces without alpha start opaque black.
func (p Provider) CreateSurface(width, height int, hasAlpha bool) (rendertree.Surface, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	var img *ebiten.Image
	if p.Pool != nil {
		img = p.Pool.Acquire(width, height)
	} else {
		img = ebiten.NewImage(max(width, 1), max(height, 1))
	}
	s := &Surface{image: img, pool: p.Pool, w: width, h: height, hasAlpha: hasAlpha}
	if !hasAlpha && width > 0 && height > 0 {
		s.Image().Fill(color.Black)
	}
	return s, nil
}

// CreateContext returns a *Context drawing on the surface.
func (Provider) CreateContext(s rendertree.Surface) (rendertree.DrawContext, error) {
	es, ok := s.(*Surface)
	if !ok {
		return nil, fmt.Errorf("ebiten provider cannot draw on %T", s)
	}
	if es.image == nil {
		return nil, rendertree.ErrSurfaceReleased
	}
	full := image.Rect(0, 0, es.w, es.h)
	return &Context{surface: es, clip: full, target: subImage(es.image, full)}, nil
}

// Surface is a node surface backed by an *ebiten.Image.
type Surface struct {
	image    *ebiten.Image
	pool     *Pool
	w, h     int
	hasAlpha bool
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.w
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.h
}

// HasAlpha reports whether the surface was created with an alpha channel.
func (s *Surface) HasAlpha() bool {
	return s.hasAlpha
}

// Image returns the whole backing image, or nil once released. Renderers draw
// it onto the screen.
func (s *Surface) Image() *ebiten.Image {
	if s.image == nil {
		return nil
	}
	return subImage(s.image, image.Rect(0, 0, s.w, s.h))
}

// Release hands the backing image back to the pool, or deallocates it.
func (s *Surface) Release() {
	if s.image == nil {
		return
	}
	if s.pool != nil {
		s.pool.Release(s.image)
	} else {
		s.image.Deallocate()
	}
	s.image = nil
}

var errContextClosed = errors.New("ebitensurface: context is closed")

// Context draws on a Surface through a clipped sub-image.
type Context struct {
	surface *Surface
	clip    image.Rectangle
	target  *ebiten.Image
	closed  bool
}

// ClipRect intersects the current clip with the given rectangle. The
// rectangle is expanded outward to whole pixels.
func (c *Context) ClipRect(x, y, w, h float64) {
	if c.closed {
		return
	}
	r := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
	c.clip = c.clip.Intersect(r)
	c.target = subImage(c.surface.image, c.clip)
}

// Clip returns the current clip rectangle in surface pixels.
func (c *Context) Clip() image.Rectangle {
	return c.clip
}

// Image returns the clipped image to draw on, or nil once closed.
func (c *Context) Image() *ebiten.Image {
	if c.closed {
		return nil
	}
	return c.target
}

// Fill fills the clipped area with col.
func (c *Context) Fill(col color.Color) error {
	if c.closed {
		return errContextClosed
	}
	if c.clip.Empty() {
		return nil
	}
	c.target.Fill(col)
	return nil
}

// DrawImage draws src into the clipped area. Translations in op are relative
// to the surface origin.
func (c *Context) DrawImage(src *ebiten.Image, op *ebiten.DrawImageOptions) error {
	if c.closed {
		return errContextClosed
	}
	if c.clip.Empty() {
		return nil
	}
	c.target.DrawImage(src, op)
	return nil
}

// Close releases the context. The surface stays owned by its node.
func (c *Context) Close() error {
	c.closed = true
	c.target = nil
	return nil
}

func subImage(img *ebiten.Image, r image.Rectangle) *ebiten.Image {
	return img.SubImage(r).(*ebiten.Image)
}
