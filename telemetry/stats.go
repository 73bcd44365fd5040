package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/lucent-sim/phosphene/sim"
)

// WindowStats holds activation statistics sampled at the end of a
// stats window.
type WindowStats struct {
	WindowEnd int64 `csv:"window_end"`

	// Per-eye activation distribution over all phosphenes
	ActMeanLeft  float64 `csv:"act_mean_left"`
	ActMeanRight float64 `csv:"act_mean_right"`
	ActStdLeft   float64 `csv:"act_std_left"`
	ActStdRight  float64 `csv:"act_std_right"`
	ActMaxLeft   float64 `csv:"act_max_left"`
	ActMaxRight  float64 `csv:"act_max_right"`

	// Per-eye habituation distribution
	TraceMeanLeft  float64 `csv:"trace_mean_left"`
	TraceMeanRight float64 `csv:"trace_mean_right"`

	// Phosphenes above the perceptual cutoff per eye
	VisibleLeft  int `csv:"visible_left"`
	VisibleRight int `csv:"visible_right"`
}

// Collector aggregates simulator state into window stats.
type Collector struct {
	window int
	actBuf []float64
}

// NewCollector creates a stats collector emitting once per window frames.
func NewCollector(window int) *Collector {
	if window < 1 {
		window = 60
	}
	return &Collector{window: window}
}

// Collect samples the simulator after a frame. Returns stats once per
// window, nil otherwise.
func (c *Collector) Collect(s *sim.Simulator) *WindowStats {
	frame := s.Frame()
	if frame == 0 || frame%int64(c.window) != 0 {
		return nil
	}
	ws := c.Snapshot(s)
	return &ws
}

// Snapshot computes activation statistics for the simulator's current state.
func (c *Collector) Snapshot(s *sim.Simulator) WindowStats {
	store := s.Store()
	n := store.Count()
	if cap(c.actBuf) < n {
		c.actBuf = make([]float64, n)
	}

	ws := WindowStats{WindowEnd: s.Frame()}
	for eye := 0; eye < sim.NumEyes; eye++ {
		buf := c.actBuf[:0]
		var maxAct, traceSum float64
		visible := 0
		for i := range store.Phosphenes {
			ph := &store.Phosphenes[i]
			act := float64(ph.Activation[eye])
			buf = append(buf, act)
			if act > maxAct {
				maxAct = act
			}
			if act >= 0.001 {
				visible++
			}
			traceSum += float64(ph.Trace[eye])
		}

		mean := stat.Mean(buf, nil)
		std := stat.StdDev(buf, nil)
		traceMean := traceSum / float64(n)

		switch eye {
		case sim.EyeLeft:
			ws.ActMeanLeft = mean
			ws.ActStdLeft = std
			ws.ActMaxLeft = maxAct
			ws.TraceMeanLeft = traceMean
			ws.VisibleLeft = visible
		case sim.EyeRight:
			ws.ActMeanRight = mean
			ws.ActStdRight = std
			ws.ActMaxRight = maxAct
			ws.TraceMeanRight = traceMean
			ws.VisibleRight = visible
		}
	}
	return ws
}

// LogStats logs the window stats via slog.
func (ws WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", ws.WindowEnd,
		"act_mean_left", ws.ActMeanLeft,
		"act_mean_right", ws.ActMeanRight,
		"act_max_left", ws.ActMaxLeft,
		"act_max_right", ws.ActMaxRight,
		"trace_mean_left", ws.TraceMeanLeft,
		"trace_mean_right", ws.TraceMeanRight,
		"visible_left", ws.VisibleLeft,
		"visible_right", ws.VisibleRight,
	)
}
