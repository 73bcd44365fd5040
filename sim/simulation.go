package sim

import "fmt"

// FrameInput carries the per-frame external inputs: one stimulation
// image and one gaze position per eye. A nil image means zero
// stimulation for that eye.
type FrameInput struct {
	Stimulus [NumEyes]*Image
	Gaze     [NumEyes]Vec2 // normalized live gaze per eye
}

// Simulator owns the phosphene store, the transient fields, and the
// worker pool, and runs the per-frame protocol:
//
//	reset fields -> temporal update (per phosphene, per eye)
//	             -> Gaussian spread (per texel, per eye)
//
// Phases are separated by full barriers; within a phase every unit is
// independent and may run on any worker.
type Simulator struct {
	store   *Store
	params  Params
	sampler Sampler

	act    *ActivationField
	render *RenderField

	pool *workerPool
	w, h int

	frame int64
}

// NewSimulator creates a simulator over the given store at the given
// output resolution. Parallel dispatch is enabled with parallel=true;
// a single-threaded simulator produces identical results.
func NewSimulator(store *Store, params Params, w, h int, parallel bool) (*Simulator, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sim: resolution must be positive, got %dx%d", w, h)
	}
	if store == nil || store.Count() == 0 {
		return nil, fmt.Errorf("sim: store must hold at least one phosphene")
	}

	s := &Simulator{
		store:   store,
		params:  params,
		sampler: Sampler{W: w, H: h},
		act:     NewActivationField(w, h),
		render:  NewRenderField(w, h),
		pool:    newWorkerPool(),
		w:       w,
		h:       h,
	}
	if parallel {
		s.pool.start()
	}
	return s, nil
}

// Step advances the simulation by one frame for both eyes. The render
// field is valid for reading between calls.
func (s *Simulator) Step(in *FrameInput) {
	// Reset must fully complete before any update write is observed.
	s.pool.run(s.h, func(lo, hi int) {
		s.act.ResetRows(lo, hi)
		s.render.ResetRows(lo, hi)
	})

	for eye := 0; eye < NumEyes; eye++ {
		img := in.Stimulus[eye]
		gaze := in.Gaze
		s.pool.run(s.store.Count(), func(lo, hi int) {
			s.updateRange(eye, lo, hi, img, gaze)
		})
	}

	for eye := 0; eye < NumEyes; eye++ {
		e := eye
		s.pool.run(s.h, func(lo, hi int) {
			for y := lo; y < hi; y++ {
				for x := 0; x < s.w; x++ {
					s.spreadTexel(e, x, y)
				}
			}
		})
	}

	s.frame++
}

// Render returns the render field. Read it after Step returns and before
// the next Step begins.
func (s *Simulator) Render() *RenderField {
	return s.render
}

// Activation returns the activation field, for diagnostics and tests.
func (s *Simulator) Activation() *ActivationField {
	return s.act
}

// Store returns the phosphene store.
func (s *Simulator) Store() *Store {
	return s.store
}

// Params returns the current simulation parameters.
func (s *Simulator) Params() Params {
	return s.params
}

// SetParams replaces the simulation parameters. Call between frames.
func (s *Simulator) SetParams(p Params) {
	s.params = p
}

// Frame returns the number of completed frames.
func (s *Simulator) Frame() int64 {
	return s.frame
}

// Close stops the worker pool.
func (s *Simulator) Close() {
	s.pool.stop()
}
