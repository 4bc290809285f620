package rendertree

import (
	"fmt"

	"github.com/gogpu/gg"
)

// GGProvider is the default SurfaceProvider. It rasterizes on the CPU with
// gogpu/gg: surfaces are *PixmapSurface and contexts are *gg.Context.
type GGProvider struct{}

// CreateSurface allocates a pixmap. Surfaces without alpha start opaque black.
func (GGProvider) CreateSurface(width, height int, hasAlpha bool) (Surface, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	pm := gg.NewPixmap(width, height)
	if !hasAlpha {
		pm.Clear(gg.Black)
	}
	return &PixmapSurface{pixmap: pm, hasAlpha: hasAlpha}, nil
}

// CreateContext returns a *gg.Context drawing directly into the surface's pixmap.
func (GGProvider) CreateContext(s Surface) (DrawContext, error) {
	ps, ok := s.(*PixmapSurface)
	if !ok {
		return nil, fmt.Errorf("gg provider cannot draw on %T", s)
	}
	if ps.pixmap == nil {
		return nil, ErrSurfaceReleased
	}
	return gg.NewContext(ps.pixmap.Width(), ps.pixmap.Height(), gg.WithPixmap(ps.pixmap)), nil
}

// PixmapSurface is a CPU surface backed by a *gg.Pixmap.
type PixmapSurface struct {
	pixmap   *gg.Pixmap
	hasAlpha bool
}

// Width returns the surface width in pixels, 0 once released.
func (s *PixmapSurface) Width() int {
	if s.pixmap == nil {
		return 0
	}
	return s.pixmap.Width()
}

// Height returns the surface height in pixels, 0 once released.
func (s *PixmapSurface) Height() int {
	if s.pixmap == nil {
		return 0
	}
	return s.pixmap.Height()
}

// HasAlpha reports whether the surface was created with an alpha channel.
func (s *PixmapSurface) HasAlpha() bool {
	return s.hasAlpha
}

// Format returns the pixel format matching the surface's color model.
func (s *PixmapSurface) Format() gg.ImageFormat {
	if s.hasAlpha {
		return gg.FormatRGBA8
	}
	return gg.FormatRGB8
}

// Pixmap returns the backing pixmap, or nil once released.
func (s *PixmapSurface) Pixmap() *gg.Pixmap {
	return s.pixmap
}

// Release drops the pixmap.
func (s *PixmapSurface) Release() {
	s.pixmap = nil
}

// SavePNG writes the surface contents to path.
func (s *PixmapSurface) SavePNG(path string) error {
	if s.pixmap == nil {
		return ErrSurfaceReleased
	}
	if err := s.pixmap.SavePNG(path); err != nil {
		return fmt.Errorf("rendertree: save surface: %w", err)
	}
	return nil
}
