// Package stimulus provides demo stimulation-image producers for the
// simulator: the live camera / preprocessing pipeline of a real
// prosthesis is out of scope, so these sources stand in for it.
package stimulus

import (
	"fmt"
	"math/rand"

	"github.com/lucent-sim/phosphene/config"
	"github.com/lucent-sim/phosphene/sim"
)

// Source produces one stimulation image per eye per frame.
type Source interface {
	// Step advances the source by dt seconds and redraws its images.
	Step(dt float32)
	// Images returns the per-eye stimulation images for the current frame.
	Images() [sim.NumEyes]*sim.Image
}

// NewFromConfig builds the stimulus source selected in the config.
func NewFromConfig(cfg *config.Config, rng *rand.Rand) (Source, error) {
	w, h := cfg.Screen.Width, cfg.Screen.Height
	st := cfg.Stimulus

	switch st.Source {
	case "targets":
		return NewTargetScene(w, h, st.Targets,
			float32(st.TargetSpeed), float32(st.TargetSize), float32(st.Disparity), rng), nil
	case "bar":
		return NewBarPattern(w, h,
			float32(st.BarWidth), float32(st.BarSpeed), float32(st.Disparity)), nil
	default:
		return nil, fmt.Errorf("stimulus: unknown source %q", st.Source)
	}
}
