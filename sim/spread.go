package sim

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Perceptual cutoffs: texels below these contribute nothing to the
// render field. The size floor also keeps sigma away from zero before
// any Gaussian evaluation.
const (
	minSpreadSize       = 1e-5
	minSpreadActivation = 0.001
)

// Gaussian evaluates the 1D normal density at distance d with spread
// sigma. The spread pass divides by Gaussian(0, sigma), so the center
// weight is exactly 1 and neighbors fall off as a fraction of it.
func Gaussian(d, sigma float32) float32 {
	s := float64(sigma)
	return float32(1 / (s * math.Sqrt(2*math.Pi)) * math.Exp(-float64(d*d)/(2*s*s)))
}

// atomicAddFloat32 accumulates delta into *addr with a CAS loop, so
// overlapping spread footprints never lose contributions when texels are
// processed concurrently.
func atomicAddFloat32(addr *float32, delta float32) {
	bits := (*uint32)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint32(bits)
		cur := math.Float32frombits(old)
		next := math.Float32bits(cur + delta)
		if atomic.CompareAndSwapUint32(bits, old, next) {
			return
		}
	}
}

// addRender accumulates (v, v, v, 0) into the render field at (x, y) for
// one eye. Destinations outside the raster are skipped; clamping them
// would pile spread energy onto the border texels.
func (s *Simulator) addRender(eye, x, y int, v float32) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	pix := s.render.Pix[eye]
	i := (y*s.w + x) * 4
	atomicAddFloat32(&pix[i], v)
	atomicAddFloat32(&pix[i+1], v)
	atomicAddFloat32(&pix[i+2], v)
}

// spreadTexel convolves the Gaussian footprint of one activation-field
// texel into the render field, additively. The destination row is
// vertically flipped relative to the activation field.
//
// The center texel is set by a plain overwrite to (act, act, act, 1)
// before the neighbor loop and is never revisited by it; sigma is twice
// the phosphene radius and weights are normalized so the center receives
// weight 1. The search is bounded at size*4*W pixels, with the inner
// loop exiting as soon as the squared radius passes the bound (valid
// because dy only grows). Each retained offset is mirrored into all four
// quadrants, which reconstructs the full symmetric footprint while
// iterating only one quadrant; offsets on an axis land on two distinct
// texels twice each, a carry-over from the mirror arithmetic that is
// kept as-is.
func (s *Simulator) spreadTexel(eye, x, y int) {
	t := s.act.At(eye, x, y)
	if t.Size < minSpreadSize || t.Act < minSpreadActivation {
		return
	}

	fy := s.h - 1 - y
	pix := s.render.Pix[eye]
	ci := (fy*s.w + x) * 4
	pix[ci] = t.Act
	pix[ci+1] = t.Act
	pix[ci+2] = t.Act
	pix[ci+3] = 1

	sigma := 2 * t.Size
	scale := Gaussian(0, sigma)
	invW := 1 / float32(s.w)
	invH := 1 / float32(s.h)

	// ~2 standard deviations in pixel units; contributions beyond this
	// are treated as negligible.
	maxR := t.Size * 4 * float32(s.w)
	maxR2 := maxR * maxR

	for dx := 0; float32(dx) < maxR; dx++ {
		for dy := 0; float32(dy) < maxR; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if float32(dx*dx+dy*dy) >= maxR2 {
				break
			}
			nx := float32(dx) * invW
			ny := float32(dy) * invH
			d := float32(math.Sqrt(float64(nx*nx + ny*ny)))
			spread := t.Act * Gaussian(d, sigma) / scale

			s.addRender(eye, x+dx, fy+dy, spread)
			s.addRender(eye, x+dx, fy-dy, spread)
			s.addRender(eye, x-dx, fy+dy, spread)
			s.addRender(eye, x-dx, fy-dy, spread)
		}
	}
}
