package sim

// Image is a single-channel float32 raster, row-major. Stimulation images
// are sampled through the first channel only, so one channel is all the
// simulator ever needs from upstream producers.
type Image struct {
	W, H int
	Pix  []float32
}

// NewImage creates a zeroed image.
func NewImage(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]float32, w*h)}
}

// At returns the value at (x, y). Coordinates outside the raster clamp to
// the nearest edge texel.
func (im *Image) At(x, y int) float32 {
	if x < 0 {
		x = 0
	} else if x >= im.W {
		x = im.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= im.H {
		y = im.H - 1
	}
	return im.Pix[y*im.W+x]
}

// Set writes the value at (x, y). Out-of-range coordinates are ignored.
func (im *Image) Set(x, y int, v float32) {
	if x < 0 || x >= im.W || y < 0 || y >= im.H {
		return
	}
	im.Pix[y*im.W+x] = v
}

// Clear zeroes all pixels.
func (im *Image) Clear() {
	for i := range im.Pix {
		im.Pix[i] = 0
	}
}
