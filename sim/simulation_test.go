package sim

import (
	"math/rand"
	"testing"
)

func testStore(n int, rng *rand.Rand) *Store {
	phosphenes := make([]Phosphene, n)
	for i := range phosphenes {
		phosphenes[i] = Phosphene{
			Pos:  Vec2{X: rng.Float32(), Y: rng.Float32()},
			Size: 0.005 + rng.Float32()*0.01,
		}
	}
	return NewStore(phosphenes)
}

func TestNewSimulatorRejectsDegenerateInput(t *testing.T) {
	store := testStore(4, rand.New(rand.NewSource(1)))

	if _, err := NewSimulator(store, testParams(), 0, 64, false); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := NewSimulator(store, testParams(), 64, -1, false); err == nil {
		t.Error("expected error for negative height")
	}
	if _, err := NewSimulator(NewStore(nil), testParams(), 64, 64, false); err == nil {
		t.Error("expected error for empty store")
	}
}

func TestStepResetsFieldsEachFrame(t *testing.T) {
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.01},
	})
	s, err := NewSimulator(store, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Step(&FrameInput{Stimulus: fullStimulus(64, 64)})
	lit := s.Render().At(EyeLeft, 32, 64-1-32)[0]
	if lit <= 0 {
		t.Fatal("expected lit center after stimulated frame")
	}

	// Park the phosphene below threshold and step with no stimulation:
	// the previous frame's render must not leak through.
	s.store.Phosphenes[0].Activation = [NumEyes]float32{}
	s.store.Phosphenes[0].Trace = [NumEyes]float32{}
	s.Step(&FrameInput{})
	assertRenderBlank(t, s.Render(), EyeLeft)

	if s.Frame() != 2 {
		t.Errorf("frame counter = %d, want 2", s.Frame())
	}
}

func TestGazeLockedMovesOutputPosition(t *testing.T) {
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.01},
	})
	p := testParams()
	p.GazeLocked = true
	s, err := NewSimulator(store, p, 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	gaze := [NumEyes]Vec2{{X: 0.25, Y: 0.5}, {X: 0.25, Y: 0.5}}
	s.Step(&FrameInput{Stimulus: fullStimulus(64, 64), Gaze: gaze})

	// Output follows gaze: (0.5 - 0.5 + 0.25) * 64 = 16.
	if texel := s.Activation().At(EyeLeft, 16, 32); texel.Act <= 0 {
		t.Error("expected activation at gaze-shifted output texel")
	}
	if texel := s.Activation().At(EyeLeft, 32, 32); texel.Act != 0 {
		t.Error("activation still written at eye-center texel")
	}
}

func TestGazeAssistedMovesSamplePosition(t *testing.T) {
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.01},
	})
	p := testParams()
	p.GazeAssisted = true
	s, err := NewSimulator(store, p, 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Stimulus lit only in the left quarter of the image.
	img := NewImage(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, 1)
		}
	}
	stim := [NumEyes]*Image{img, img}

	// Gazing at center: sample lands at (32,32), unlit.
	s.Step(&FrameInput{Stimulus: stim, Gaze: [NumEyes]Vec2{{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}}})
	if ph := s.store.Phosphenes[0]; ph.Activation[EyeLeft] != 0 {
		t.Errorf("centered gaze activation = %v, want 0", ph.Activation[EyeLeft])
	}

	// Gazing left: sample lands at (8,32), lit.
	s.Step(&FrameInput{Stimulus: stim, Gaze: [NumEyes]Vec2{{X: 0.125, Y: 0.5}, {X: 0.125, Y: 0.5}}})
	if ph := s.store.Phosphenes[0]; ph.Activation[EyeLeft] <= 0 {
		t.Error("expected activation when gaze moves the sample into the lit region")
	}
}

func TestEyesUpdateIndependently(t *testing.T) {
	store := NewStore([]Phosphene{
		{Pos: Vec2{X: 0.5, Y: 0.5}, Size: 0.01},
	})
	s, err := NewSimulator(store, testParams(), 64, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Only the left eye is stimulated.
	img := NewImage(64, 64)
	for i := range img.Pix {
		img.Pix[i] = 1
	}
	s.Step(&FrameInput{Stimulus: [NumEyes]*Image{img, nil}})

	ph := s.store.Phosphenes[0]
	if ph.Activation[EyeLeft] <= 0 {
		t.Error("left eye saw no activation")
	}
	if ph.Activation[EyeRight] != 0 {
		t.Errorf("right eye activation = %v, want 0", ph.Activation[EyeRight])
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// A spaced grid keeps output texels distinct and footprints apart,
	// so none of the documented write-order races can fire and the two
	// schedules must agree.
	layout := make([]Phosphene, 0, 12*12)
	for r := 0; r < 12; r++ {
		for c := 0; c < 12; c++ {
			layout = append(layout, Phosphene{
				Pos:  Vec2{X: (float32(c) + 0.5) / 12, Y: (float32(r) + 0.5) / 12},
				Size: 0.004 + 0.006*float32(r*12+c)/144,
			})
		}
	}

	// Same layout for both simulators; stores are stepped separately so
	// each evolves its own copy of the state.
	serialStore := NewStore(append([]Phosphene(nil), layout...))
	parallelStore := NewStore(append([]Phosphene(nil), layout...))

	serial, err := NewSimulator(serialStore, testParams(), 96, 96, false)
	if err != nil {
		t.Fatal(err)
	}
	defer serial.Close()
	parallel, err := NewSimulator(parallelStore, testParams(), 96, 96, true)
	if err != nil {
		t.Fatal(err)
	}
	defer parallel.Close()

	img := NewImage(96, 96)
	for i := range img.Pix {
		img.Pix[i] = rng.Float32()
	}
	in := &FrameInput{Stimulus: [NumEyes]*Image{img, img}}

	for frame := 0; frame < 3; frame++ {
		serial.Step(in)
		parallel.Step(in)
	}

	// Atomic accumulation reorders float adds, so allow a small tolerance.
	for eye := 0; eye < NumEyes; eye++ {
		sp := serial.Render().Pix[eye]
		pp := parallel.Render().Pix[eye]
		for i := range sp {
			if !approxEq(sp[i], pp[i], 1e-3) {
				t.Fatalf("eye %d pixel %d: serial %v vs parallel %v", eye, i, sp[i], pp[i])
			}
		}
	}
}
