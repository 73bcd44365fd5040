package sim

// Sampler maps normalized phosphene positions to pixel coordinates, for
// both stimulation sampling and activation-field output. The two uses
// may follow different gaze policies: sampling follows the gaze-assisted
// flag, output follows the gaze-locked flag.
type Sampler struct {
	W, H int
}

// Center computes the effective normalized position of a phosphene for
// one eye: the nominal position recentered on either the live gaze or
// the fixed eye-center reference, selected by followGaze.
func (s Sampler) Center(pos Vec2, eye int, followGaze bool, gaze, center [NumEyes]Vec2) Vec2 {
	ref := center[eye]
	if followGaze {
		ref = gaze[eye]
	}
	return Vec2{X: pos.X - 0.5 + ref.X, Y: pos.Y - 0.5 + ref.Y}
}

// Pixel converts a normalized position to integer pixel coordinates by
// truncation. Out-of-range results clamp to the nearest edge texel; the
// conversion itself performs no bounds check, so everything downstream
// relies on this clamp.
func (s Sampler) Pixel(p Vec2) (int, int) {
	x := int(p.X * float32(s.W))
	y := int(p.Y * float32(s.H))
	if x < 0 {
		x = 0
	} else if x >= s.W {
		x = s.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= s.H {
		y = s.H - 1
	}
	return x, y
}

// Sample returns the scalar stimulation value for a phosphene. A nil
// image reads as zero stimulation.
func (s Sampler) Sample(img *Image, pos Vec2, eye int, followGaze bool, gaze, center [NumEyes]Vec2) float32 {
	if img == nil {
		return 0
	}
	x, y := s.Pixel(s.Center(pos, eye, followGaze, gaze, center))
	return img.At(x, y)
}
