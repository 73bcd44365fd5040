// Package sim implements the phosphene simulation kernels: the per-frame
// temporal activation/habituation update and the Gaussian spread pass that
// turns sparse phosphene activations into a displayable intensity field.
package sim

// Eye indices for the stereo pair. One phosphene layout is shared across
// both eyes; only the activation/trace state is per-eye.
const (
	EyeLeft  = 0
	EyeRight = 1
	NumEyes  = 2
)

// Vec2 is a normalized 2D coordinate (0..1 over the visual field).
type Vec2 struct {
	X, Y float32
}

// Phosphene is one discrete perceptual light point. Position and Size are
// fixed at construction; Activation and Trace evolve once per frame per eye.
type Phosphene struct {
	Pos  Vec2    // nominal center before gaze correction, normalized
	Size float32 // radius in the same normalized units as Pos

	Activation [NumEyes]float32 // current perceived brightness, >= 0
	Trace      [NumEyes]float32 // habituation memory, >= 0
}

// Store holds the phosphene array for one simulation. Created once at
// startup; the layout never changes afterwards.
type Store struct {
	Phosphenes []Phosphene
}

// NewStore wraps a prepared phosphene slice.
func NewStore(phosphenes []Phosphene) *Store {
	return &Store{Phosphenes: phosphenes}
}

// Count returns the number of phosphenes.
func (s *Store) Count() int {
	return len(s.Phosphenes)
}

// ResetState zeroes all activation and trace values, leaving the layout
// untouched.
func (s *Store) ResetState() {
	for i := range s.Phosphenes {
		ph := &s.Phosphenes[i]
		for eye := 0; eye < NumEyes; eye++ {
			ph.Activation[eye] = 0
			ph.Trace[eye] = 0
		}
	}
}
