package rendertree

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float32
}

// ZeroRect is the default bounds of a new node.
var ZeroRect = Rect{}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// PixelSize returns the integer surface dimensions needed to hold r. Fractional
// sizes are rounded up; negative sizes become zero.
func (r Rect) PixelSize() (w, h int) {
	return ceilDim(r.Width), ceilDim(r.Height)
}

func ceilDim(v float32) int {
	if !(v > 0) {
		return 0
	}
	return int(math.Ceil(float64(v)))
}

// Identity returns the 4x4 identity matrix.
func Identity() mgl32.Mat4 {
	return mgl32.Ident4()
}

// isIdentity compares exactly, so a matrix that only approximates the
// identity still counts as set.
func isIdentity(m mgl32.Mat4) bool {
	return m == mgl32.Ident4()
}
