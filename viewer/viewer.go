// Package viewer runs the interactive stereo display of the phosphene
// simulation: stimulus generation, one simulation step per rendered
// frame, and the side-by-side per-eye view with a parameter panel.
package viewer

import (
	"fmt"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lucent-sim/phosphene/config"
	"github.com/lucent-sim/phosphene/sim"
	"github.com/lucent-sim/phosphene/stimulus"
	"github.com/lucent-sim/phosphene/telemetry"
)

// Options configures a viewer instance.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
}

// Viewer owns the simulator, the stimulus source, and the display state.
type Viewer struct {
	cfg    *config.Config
	sim    *sim.Simulator
	source stimulus.Source

	perf   *telemetry.PerfCollector
	stats  *telemetry.Collector
	output *telemetry.OutputManager

	opts  Options
	gaze  [sim.NumEyes]sim.Vec2
	dt    float32 // fixed step for headless mode

	paused    bool
	showPanel bool
	showPerf  bool

	// Display resources, created lazily once a window exists
	textures    [sim.NumEyes]rl.Texture2D
	pixels      []rl.Color
	initialized bool
}

// New builds a viewer from the loaded config.
func New(opts Options) (*Viewer, error) {
	cfg := config.Cfg()
	rng := rand.New(rand.NewSource(opts.Seed))

	store, err := sim.StoreFromConfig(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("building phosphene store: %w", err)
	}

	params := sim.ParamsFromConfig(cfg)
	simulator, err := sim.NewSimulator(store, params, cfg.Screen.Width, cfg.Screen.Height, true)
	if err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}

	source, err := stimulus.NewFromConfig(cfg, rng)
	if err != nil {
		simulator.Close()
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		simulator.Close()
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		simulator.Close()
		return nil, err
	}

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}

	v := &Viewer{
		cfg:    cfg,
		sim:    simulator,
		source: source,
		perf:   telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		stats:  telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		output: output,
		opts:   opts,
		dt:     1 / float32(fps),
	}

	// Start with gaze at both eye centers.
	v.gaze = params.EyeCenter

	return v, nil
}

// Update runs input handling and one simulation frame (graphics mode).
func (v *Viewer) Update() {
	v.handleInput()

	if v.paused {
		return
	}
	v.step(rl.GetFrameTime())
}

// UpdateHeadless runs one fixed-step simulation frame without graphics.
func (v *Viewer) UpdateHeadless() {
	v.step(v.dt)
}

// step advances stimulus and simulation by dt seconds and collects
// telemetry.
func (v *Viewer) step(dt float32) {
	v.perf.StartFrame()

	v.perf.StartPhase(telemetry.PhaseStimulus)
	v.source.Step(dt)

	v.perf.StartPhase(telemetry.PhaseSimulate)
	v.sim.Step(&sim.FrameInput{
		Stimulus: v.source.Images(),
		Gaze:     v.gaze,
	})

	v.perf.StartPhase(telemetry.PhaseStats)
	if ws := v.stats.Collect(v.sim); ws != nil {
		if v.opts.LogStats {
			ws.LogStats()
			v.perf.Stats().LogStats()
		}
		if err := v.output.WriteTelemetry(*ws); err != nil {
			Logf("telemetry write failed: %v", err)
		}
		if err := v.output.WritePerf(v.perf.Stats(), ws.WindowEnd); err != nil {
			Logf("perf write failed: %v", err)
		}
	}

	v.perf.EndFrame()
}

// Frame returns the number of completed simulation frames.
func (v *Viewer) Frame() int64 {
	return v.sim.Frame()
}

// Unload releases simulator workers, telemetry files, and GPU resources.
func (v *Viewer) Unload() {
	v.sim.Close()
	if err := v.output.Close(); err != nil {
		Logf("closing telemetry output: %v", err)
	}
	if v.initialized {
		for eye := 0; eye < sim.NumEyes; eye++ {
			rl.UnloadTexture(v.textures[eye])
		}
		v.initialized = false
	}
}
