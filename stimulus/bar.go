package stimulus

import (
	"math"

	"github.com/lucent-sim/phosphene/sim"
)

// BarPattern is a bright vertical bar drifting horizontally across the
// field, wrapping at the right edge. A classic probe for habituation:
// phosphenes under the bar light up, adapt, and recover after it passes.
type BarPattern struct {
	images    [sim.NumEyes]*sim.Image
	width     float32 // normalized bar width
	speed     float32 // normalized units per second
	disparity float32
	x         float32 // current left edge, normalized
}

// NewBarPattern creates a drifting-bar stimulus.
func NewBarPattern(w, h int, width, speed, disparity float32) *BarPattern {
	b := &BarPattern{width: width, speed: speed, disparity: disparity}
	for eye := 0; eye < sim.NumEyes; eye++ {
		b.images[eye] = sim.NewImage(w, h)
	}
	b.draw()
	return b
}

// Step advances the bar by dt seconds and redraws both eye images.
func (b *BarPattern) Step(dt float32) {
	b.x += b.speed * dt
	for b.x >= 1 {
		b.x -= 1 + b.width
	}
	b.draw()
}

// Images returns the per-eye stimulation images.
func (b *BarPattern) Images() [sim.NumEyes]*sim.Image {
	return b.images
}

func (b *BarPattern) draw() {
	offsets := [sim.NumEyes]float32{-b.disparity / 2, b.disparity / 2}
	for eye := 0; eye < sim.NumEyes; eye++ {
		img := b.images[eye]
		img.Clear()

		x0 := int((b.x + offsets[eye]) * float32(img.W))
		x1 := int((b.x + offsets[eye] + b.width) * float32(img.W))
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= img.W {
				continue
			}
			for y := 0; y < img.H; y++ {
				img.Set(x, y, 1)
			}
		}
	}
}

func cos32(a float64) float32 {
	return float32(math.Cos(a))
}

func sin32(a float64) float32 {
	return float32(math.Sin(a))
}
