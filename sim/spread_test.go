package sim

import (
	"math"
	"testing"
)

// fullStimulus returns an all-ones stimulation image pair.
func fullStimulus(w, h int) [NumEyes]*Image {
	img := NewImage(w, h)
	for i := range img.Pix {
		img.Pix[i] = 1
	}
	return [NumEyes]*Image{img, img}
}

func TestGaussianPeakNormalization(t *testing.T) {
	for _, sigma := range []float32{0.001, 0.02, 0.5, 2} {
		scale := Gaussian(0, sigma)
		if got := Gaussian(0, sigma) / scale; got != 1 {
			t.Errorf("sigma %v: normalized center weight = %v, want exactly 1", sigma, got)
		}
		// Density decreases with distance.
		if Gaussian(0.1, sigma) >= scale {
			t.Errorf("sigma %v: off-center density not below peak", sigma)
		}
	}
}

func TestSpreadCenterOverwrite(t *testing.T) {
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.01},
	})
	s, err := NewSimulator(store, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Step(&FrameInput{Stimulus: fullStimulus(64, 64)})

	// Activation lands at (32,32); the render center sits on the
	// vertically flipped row.
	flipped := 64 - 1 - 32
	got := s.Render().At(EyeLeft, 32, flipped)
	if !approxEq(got[0], 1.0, 1e-6) || !approxEq(got[1], 1.0, 1e-6) || !approxEq(got[2], 1.0, 1e-6) {
		t.Errorf("center pixel = %v, want RGB = activation 1.0", got)
	}
	if !approxEq(got[3], 1.0, 1e-6) {
		t.Errorf("center alpha = %v, want 1", got[3])
	}

	// The unflipped row must not hold the center.
	if other := s.Render().At(EyeLeft, 32, 32); approxEq(other[0], 1.0, 1e-6) {
		t.Errorf("center found at unflipped row: %v", other)
	}
}

func TestSpreadQuadrantSymmetry(t *testing.T) {
	// size 0.02 bounds the search at 5.12 pixels, so every offset the
	// test probes lies inside the footprint.
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.02},
	})
	s, err := NewSimulator(store, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Step(&FrameInput{Stimulus: fullStimulus(64, 64)})

	cx, cy := 32, 64-1-32
	r := s.Render()
	for _, off := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		dx, dy := off[0], off[1]
		q1 := r.At(EyeLeft, cx+dx, cy+dy)[0]
		q2 := r.At(EyeLeft, cx+dx, cy-dy)[0]
		q3 := r.At(EyeLeft, cx-dx, cy+dy)[0]
		q4 := r.At(EyeLeft, cx-dx, cy-dy)[0]

		if q1 <= 0 {
			t.Errorf("offset (%d,%d): no spread contribution", dx, dy)
		}
		if q1 != q2 || q1 != q3 || q1 != q4 {
			t.Errorf("offset (%d,%d): quadrants differ: %v %v %v %v", dx, dy, q1, q2, q3, q4)
		}
		// Neighbors receive a fraction of the center activation.
		if q1 >= 1 {
			t.Errorf("offset (%d,%d): neighbor weight %v, want < 1", dx, dy, q1)
		}
	}
}

func TestSpreadSkipsSubThresholdSize(t *testing.T) {
	// Below the 1e-5 size cutoff the phosphene must contribute nothing,
	// even at full activation.
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 1e-6},
	})
	s, err := NewSimulator(store, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Step(&FrameInput{Stimulus: fullStimulus(64, 64)})

	if texel := s.Activation().At(EyeLeft, 32, 32); !approxEq(texel.Act, 1.0, 1e-6) {
		t.Fatalf("activation texel = %v, want 1.0 (update still runs)", texel.Act)
	}
	assertRenderBlank(t, s.Render(), EyeLeft)
}

func TestSpreadSkipsSubThresholdActivation(t *testing.T) {
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.01},
	})
	p := testParams()
	p.InputEffect = 0.0005 // activation stays below the 0.001 cutoff
	s, err := NewSimulator(store, p, 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Step(&FrameInput{Stimulus: fullStimulus(64, 64)})
	assertRenderBlank(t, s.Render(), EyeLeft)
}

func TestSpreadZeroSizeTerminates(t *testing.T) {
	// size=0 must not reach the Gaussian at all; the threshold check
	// guards the division by sigma.
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0},
	})
	s, err := NewSimulator(store, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Step(&FrameInput{Stimulus: fullStimulus(64, 64)})
	assertRenderBlank(t, s.Render(), EyeLeft)

	for _, v := range s.Render().Pix[EyeLeft] {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatal("render field holds NaN/Inf after zero-size spread")
		}
	}
}

func TestSpreadAccumulatesOverlap(t *testing.T) {
	// Two phosphenes one texel apart: footprints overlap and overlap
	// texels accumulate additively.
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.02},
		{Pos: Vec2{X: 0.5 + 1.0/64, Y: 0.5}, Size: 0.02},
	})
	s, err := NewSimulator(store, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Step(&FrameInput{Stimulus: fullStimulus(64, 64)})

	single := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.02},
	})
	ref, err := NewSimulator(single, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()
	ref.Step(&FrameInput{Stimulus: fullStimulus(64, 64)})

	// A texel inside both footprints but on neither center must exceed
	// the single-phosphene contribution.
	y := 64 - 1 - 32 + 2
	if got, one := s.Render().At(EyeLeft, 32, y)[0], ref.Render().At(EyeLeft, 32, y)[0]; got <= one {
		t.Errorf("overlap texel = %v, want > single contribution %v", got, one)
	}
}

func assertRenderBlank(t *testing.T, r *RenderField, eye int) {
	t.Helper()
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			got := r.At(eye, x, y)
			if got != [4]float32{0, 0, 0, 1} {
				t.Fatalf("pixel (%d,%d) = %v, want untouched (0,0,0,1)", x, y, got)
			}
		}
	}
}
