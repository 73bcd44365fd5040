package sim

import (
	"math"
	"testing"
)

func testParams() Params {
	return Params{
		InputEffect:    1.0,
		IntensityDecay: 0.9,
		TraceIncrease:  0.5,
		TraceDecay:     0.8,
		EyeCenter: [NumEyes]Vec2{
			{X: 0.5, Y: 0.5},
			{X: 0.5, Y: 0.5},
		},
	}
}

func approxEq(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestStepActivationScenario(t *testing.T) {
	p := testParams()

	// First frame: stim=1 from rest.
	act, trace := StepActivation(0, 0, 1.0, &p)
	if !approxEq(act, 1.0, 1e-6) {
		t.Errorf("first step activation = %v, want 1.0", act)
	}
	if !approxEq(trace, 0.5, 1e-6) {
		t.Errorf("first step trace = %v, want 0.5", trace)
	}

	// Second frame: stim=1 again. Habituation lags one frame, so the
	// activation update subtracts the first frame's trace.
	act, trace = StepActivation(act, trace, 1.0, &p)
	if !approxEq(act, 1.4, 1e-6) {
		t.Errorf("second step activation = %v, want 1.4", act)
	}
	if !approxEq(trace, 0.9, 1e-6) {
		t.Errorf("second step trace = %v, want 0.9", trace)
	}
}

func TestStepActivationNeverNegative(t *testing.T) {
	tests := []struct {
		name       string
		act, trace float32
		stim       float32
	}{
		{"zero stim, high trace", 0, 5, 0},
		{"negative stim", 0.1, 0, -10},
		{"large trace dominates", 1, 100, 1},
		{"all zero", 0, 0, 0},
	}

	p := testParams()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act, trace := StepActivation(tt.act, tt.trace, tt.stim, &p)
			if act < 0 {
				t.Errorf("activation = %v, want >= 0", act)
			}
			_ = trace
		})
	}
}

func TestStepActivationDecayToZero(t *testing.T) {
	p := testParams()

	// With no stimulation both accumulators decay geometrically.
	act, trace := float32(3.0), float32(2.0)
	for i := 0; i < 400; i++ {
		act, trace = StepActivation(act, trace, 0, &p)
	}
	if act > 1e-4 {
		t.Errorf("activation after decay = %v, want ~0", act)
	}
	if trace > 1e-4 {
		t.Errorf("trace after decay = %v, want ~0", trace)
	}
}

func TestUpdateWritesActivationField(t *testing.T) {
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.01},
	})
	s, err := NewSimulator(store, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	img := NewImage(64, 64)
	for i := range img.Pix {
		img.Pix[i] = 1
	}

	s.Step(&FrameInput{Stimulus: [NumEyes]*Image{img, img}})

	// Eye center (0.5,0.5) puts the output texel at screen center.
	for eye := 0; eye < NumEyes; eye++ {
		texel := s.Activation().At(eye, 32, 32)
		if !approxEq(texel.Act, 1.0, 1e-6) {
			t.Errorf("eye %d activation texel = %v, want 1.0", eye, texel.Act)
		}
		if !approxEq(texel.Size, 0.01, 1e-6) {
			t.Errorf("eye %d size texel = %v, want 0.01", eye, texel.Size)
		}
	}
}

func TestUpdateLastWriterWins(t *testing.T) {
	// Two phosphenes mapping to the same output texel: the field holds
	// whichever update ran last (serial execution makes that the second).
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.01},
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.02},
	})
	p := testParams()
	s, err := NewSimulator(store, p, 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	img := NewImage(64, 64)
	for i := range img.Pix {
		img.Pix[i] = 1
	}
	s.Step(&FrameInput{Stimulus: [NumEyes]*Image{img, img}})

	texel := s.Activation().At(EyeLeft, 32, 32)
	if !approxEq(texel.Size, 0.02, 1e-6) {
		t.Errorf("collision texel size = %v, want second writer's 0.02", texel.Size)
	}
}
