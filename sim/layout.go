package sim

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/lucent-sim/phosphene/config"
)

// LayoutEntry is one phosphene record in a layout CSV. Layouts come from
// an external electrode/optics model; the simulator only consumes them.
type LayoutEntry struct {
	X    float64 `csv:"x"`
	Y    float64 `csv:"y"`
	Size float64 `csv:"size"`
}

// LoadLayout reads a phosphene layout CSV and builds a store.
func LoadLayout(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout file: %w", err)
	}
	defer f.Close()

	var entries []LayoutEntry
	if err := gocsv.Unmarshal(f, &entries); err != nil {
		return nil, fmt.Errorf("parsing layout file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("layout file %s holds no phosphenes", path)
	}

	phosphenes := make([]Phosphene, len(entries))
	for i, e := range entries {
		phosphenes[i] = Phosphene{
			Pos:  Vec2{X: float32(e.X), Y: float32(e.Y)},
			Size: float32(e.Size),
		}
	}
	return NewStore(phosphenes), nil
}

// SaveLayout writes a store's layout (positions and sizes only) as CSV.
func SaveLayout(store *Store, path string) error {
	entries := make([]LayoutEntry, store.Count())
	for i, ph := range store.Phosphenes {
		entries[i] = LayoutEntry{
			X:    float64(ph.Pos.X),
			Y:    float64(ph.Pos.Y),
			Size: float64(ph.Size),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating layout file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(entries, f); err != nil {
		return fmt.Errorf("writing layout file: %w", err)
	}
	return nil
}

// GridLayout generates a cols x rows phosphene grid over the central
// visual field, with per-phosphene positional jitter and size jitter.
// Positions stay inside (0, 1) on both axes.
func GridLayout(cols, rows int, size, sizeJitter, posJitter float64, rng *rand.Rand) *Store {
	phosphenes := make([]Phosphene, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := (float64(c) + 0.5) / float64(cols)
			y := (float64(r) + 0.5) / float64(rows)
			if posJitter > 0 {
				x += (rng.Float64()*2 - 1) * posJitter
				y += (rng.Float64()*2 - 1) * posJitter
			}
			s := size
			if sizeJitter > 0 {
				s *= 1 + (rng.Float64()*2-1)*sizeJitter
			}

			phosphenes = append(phosphenes, Phosphene{
				Pos:  Vec2{X: clamp01(float32(x)), Y: clamp01(float32(y))},
				Size: float32(s),
			})
		}
	}
	return NewStore(phosphenes)
}

// StoreFromConfig builds a store from the phosphene section of the
// config: a layout file when given, a generated grid otherwise.
func StoreFromConfig(cfg *config.Config, rng *rand.Rand) (*Store, error) {
	p := cfg.Phosphenes
	if p.LayoutFile != "" {
		return LoadLayout(p.LayoutFile)
	}
	return GridLayout(p.Cols, p.Rows, p.Size, p.SizeJitter, p.PositionJitter, rng), nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
