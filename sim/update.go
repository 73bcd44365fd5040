package sim

import "github.com/lucent-sim/phosphene/config"

// Params holds the process-wide simulation parameters. Set once at
// startup or updated between frames, never per-phosphene.
type Params struct {
	InputEffect    float32 // stimulation -> activation gain
	IntensityDecay float32 // activation carry-over factor, [0,1)
	TraceIncrease  float32 // stimulation -> trace gain
	TraceDecay     float32 // trace carry-over factor, [0,1)

	GazeAssisted bool // sampling position follows live gaze
	GazeLocked   bool // output position follows live gaze

	EyeCenter [NumEyes]Vec2 // fixed per-eye reference when a flag is off
}

// ParamsFromConfig builds simulation parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		InputEffect:    float32(cfg.Temporal.InputEffect),
		IntensityDecay: float32(cfg.Temporal.IntensityDecay),
		TraceIncrease:  float32(cfg.Temporal.TraceIncrease),
		TraceDecay:     float32(cfg.Temporal.TraceDecay),
		GazeAssisted:   cfg.Gaze.Assisted,
		GazeLocked:     cfg.Gaze.Locked,
		EyeCenter: [NumEyes]Vec2{
			EyeLeft:  {X: float32(cfg.Gaze.LeftCenter.X), Y: float32(cfg.Gaze.LeftCenter.Y)},
			EyeRight: {X: float32(cfg.Gaze.RightCenter.X), Y: float32(cfg.Gaze.RightCenter.Y)},
		},
	}
}

// StepActivation advances one phosphene eye-state by a single frame.
// Both outputs are computed from the prior state: the activation formula
// subtracts the pre-update trace, giving habituation an adaptation lag
// of exactly one frame. Negative activation clamps to zero.
func StepActivation(act, trace, stim float32, p *Params) (newAct, newTrace float32) {
	newAct = p.IntensityDecay*act + p.InputEffect*(stim-trace)
	if newAct < 0 {
		newAct = 0
	}
	newTrace = p.TraceDecay*trace + p.TraceIncrease*stim
	return newAct, newTrace
}

// updateRange runs the temporal update for phosphenes [start, end) of one
// eye: sample the stimulation image, advance activation/trace, and write
// (activation, size) into the activation field at the output texel.
//
// Each phosphene touches only its own state, so ranges can run in
// parallel without synchronization. The activation-field destination is
// shared: colliding output texels resolve last-writer-wins, an accepted
// nondeterminism under parallel execution.
func (s *Simulator) updateRange(eye, start, end int, img *Image, gaze [NumEyes]Vec2) {
	p := &s.params
	for i := start; i < end; i++ {
		ph := &s.store.Phosphenes[i]

		stim := s.sampler.Sample(img, ph.Pos, eye, p.GazeAssisted, gaze, p.EyeCenter)
		act, trace := StepActivation(ph.Activation[eye], ph.Trace[eye], stim, p)
		ph.Activation[eye] = act
		ph.Trace[eye] = trace

		ox, oy := s.sampler.Pixel(s.sampler.Center(ph.Pos, eye, p.GazeLocked, gaze, p.EyeCenter))
		s.act.Set(eye, ox, oy, ActTexel{Act: act, Size: ph.Size})
	}
}
