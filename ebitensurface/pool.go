package ebitensurface

import (
	"image"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
)

// Pool keeps released surface images for reuse by later surfaces of a similar
// size. Backing images are allocated at power-of-two sizes, so a node whose
// bounds drift within the same size class gets its old image back instead of
// a fresh GPU allocation.
//
// A Pool is not safe for concurrent use; share one per render goroutine.
//
//	pool := &ebitensurface.Pool{MaxIdle: 4}
//	rendertree.SetSurfaceProvider(ebitensurface.Provider{Pool: pool})
type Pool struct {
	// MaxIdle caps the idle images kept per size class. Images released past
	// the cap are deallocated. Zero means no cap.
	MaxIdle int

	free map[image.Point][]*ebiten.Image
	idle int
}

// sizeClass rounds w and h up to the backing size used for them.
func sizeClass(w, h int) image.Point {
	return image.Pt(nextPowerOfTwo(w), nextPowerOfTwo(h))
}

// Acquire hands out a transparent image at least w by h pixels large.
func (p *Pool) Acquire(w, h int) *ebiten.Image {
	size := sizeClass(w, h)
	if free := p.free[size]; len(free) > 0 {
		img := free[len(free)-1]
		free[len(free)-1] = nil
		p.free[size] = free[:len(free)-1]
		p.idle--
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(image.Rectangle{Max: size}, &ebiten.NewImageOptions{Unmanaged: true})
}

// Release puts img back for reuse. Its pixels are kept until the next Acquire
// of its size class clears them.
func (p *Pool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	size := img.Bounds().Size()
	if p.MaxIdle > 0 && len(p.free[size]) >= p.MaxIdle {
		img.Deallocate()
		return
	}
	if p.free == nil {
		p.free = make(map[image.Point][]*ebiten.Image)
	}
	p.free[size] = append(p.free[size], img)
	p.idle++
}

// Len reports how many released images are waiting for reuse.
func (p *Pool) Len() int { return p.idle }

// Purge deallocates every idle image.
func (p *Pool) Purge() {
	for _, free := range p.free {
		for _, img := range free {
			img.Deallocate()
		}
	}
	clear(p.free)
	p.idle = 0
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
