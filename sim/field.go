package sim

// ActTexel is one activation-field entry: the activation written by the
// phosphene that mapped to this texel, plus that phosphene's size so the
// spread pass knows its footprint.
type ActTexel struct {
	Act  float32
	Size float32
}

// ActivationField is the per-eye raster holding the most recent
// (activation, size) written by phosphenes at their mapped output
// positions. Transient: reset, written, and consumed every frame.
type ActivationField struct {
	W, H   int
	Texels [NumEyes][]ActTexel
}

// NewActivationField creates a zeroed activation field.
func NewActivationField(w, h int) *ActivationField {
	f := &ActivationField{W: w, H: h}
	for eye := 0; eye < NumEyes; eye++ {
		f.Texels[eye] = make([]ActTexel, w*h)
	}
	return f
}

// At returns the texel at (x, y) for the given eye.
func (f *ActivationField) At(eye, x, y int) ActTexel {
	return f.Texels[eye][y*f.W+x]
}

// Set overwrites the texel at (x, y) for the given eye. A plain
// overwrite: when two phosphenes map to the same output texel in the same
// frame, whichever write lands last wins.
func (f *ActivationField) Set(eye, x, y int, t ActTexel) {
	f.Texels[eye][y*f.W+x] = t
}

// Reset zeroes every texel for both eyes.
func (f *ActivationField) Reset() {
	f.ResetRows(0, f.H)
}

// ResetRows zeroes rows [loY, hiY) for both eyes.
func (f *ActivationField) ResetRows(loY, hiY int) {
	for eye := 0; eye < NumEyes; eye++ {
		texels := f.Texels[eye][loY*f.W : hiY*f.W]
		for i := range texels {
			texels[i] = ActTexel{}
		}
	}
}

// RenderField is the per-eye RGBA intensity raster the spread pass
// accumulates into. Pixels are stored as flat float32 with stride 4 so
// the spread pass can accumulate into individual channels atomically.
type RenderField struct {
	W, H int
	Pix  [NumEyes][]float32 // RGBA, stride 4, row-major
}

// NewRenderField creates a render field with every pixel set to (0,0,0,1).
func NewRenderField(w, h int) *RenderField {
	f := &RenderField{W: w, H: h}
	for eye := 0; eye < NumEyes; eye++ {
		f.Pix[eye] = make([]float32, w*h*4)
	}
	f.Reset()
	return f
}

// At returns the RGBA value at (x, y) for the given eye.
func (f *RenderField) At(eye, x, y int) [4]float32 {
	i := (y*f.W + x) * 4
	p := f.Pix[eye]
	return [4]float32{p[i], p[i+1], p[i+2], p[i+3]}
}

// Reset sets every pixel to (0,0,0,1) for both eyes.
func (f *RenderField) Reset() {
	f.ResetRows(0, f.H)
}

// ResetRows sets rows [loY, hiY) to (0,0,0,1) for both eyes.
func (f *RenderField) ResetRows(loY, hiY int) {
	for eye := 0; eye < NumEyes; eye++ {
		pix := f.Pix[eye][loY*f.W*4 : hiY*f.W*4]
		for i := 0; i < len(pix); i += 4 {
			pix[i] = 0
			pix[i+1] = 0
			pix[i+2] = 0
			pix[i+3] = 1
		}
	}
}

// Export copies one eye's pixels into a flat buffer indexed as
// (x + y*W)*4, for diagnostic inspection. If dst is too small a new
// buffer is allocated. Returns the buffer.
func (f *RenderField) Export(eye int, dst []float32) []float32 {
	n := f.W * f.H * 4
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	copy(dst, f.Pix[eye])
	return dst
}
