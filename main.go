package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lucent-sim/phosphene/config"
	"github.com/lucent-sim/phosphene/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := viewer.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Headless:  *headless,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		v, err := viewer.New(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer v.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_frames", *maxFrames,
		)

		for {
			v.UpdateHeadless()

			if *maxFrames > 0 && v.Frame() >= *maxFrames {
				slog.Info("max frames reached", "frame", v.Frame())
				return
			}
		}
	} else {
		// Graphical mode: both eye views side by side
		rl.InitWindow(int32(cfg.Screen.Width*2), int32(cfg.Screen.Height), "Phosphene Viewer")
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		v, err := viewer.New(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer v.Unload()

		for !rl.WindowShouldClose() {
			v.Update()
			v.Draw()

			if *maxFrames > 0 && v.Frame() >= *maxFrames {
				break
			}
		}
	}
}
