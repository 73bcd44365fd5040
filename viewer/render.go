package viewer

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lucent-sim/phosphene/sim"
	"github.com/lucent-sim/phosphene/telemetry"
)

// initDisplay creates the per-eye textures. Must run after the raylib
// window exists, so it is called lazily from Draw.
func (v *Viewer) initDisplay() {
	if v.initialized {
		return
	}

	w, h := v.cfg.Screen.Width, v.cfg.Screen.Height
	img := rl.GenImageColor(w, h, rl.Black)
	for eye := 0; eye < sim.NumEyes; eye++ {
		v.textures[eye] = rl.LoadTextureFromImage(img)
		rl.SetTextureFilter(v.textures[eye], rl.FilterBilinear)
	}
	rl.UnloadImage(img)

	v.pixels = make([]rl.Color, w*h)
	v.initialized = true
}

// Draw renders both eye views side by side.
func (v *Viewer) Draw() {
	v.perf.RecordDraw()
	v.initDisplay()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	w, h := v.cfg.Screen.Width, v.cfg.Screen.Height
	render := v.sim.Render()
	for eye := 0; eye < sim.NumEyes; eye++ {
		v.uploadEye(render, eye)
		rl.DrawTexture(v.textures[eye], int32(eye*w), 0, rl.White)
	}

	// Stereo divider
	rl.DrawLine(int32(w), 0, int32(w), int32(h), rl.DarkGray)

	v.drawGazeMarkers()

	if v.paused {
		rl.DrawText("PAUSED", int32(w)-40, 10, 20, rl.Gray)
	}
	if v.showPerf {
		v.drawPerfOverlay()
	}
	if v.showPanel {
		v.drawParamPanel()
	}

	rl.EndDrawing()
}

// uploadEye converts one eye's render field to 8-bit pixels and uploads
// it to that eye's texture.
func (v *Viewer) uploadEye(render *sim.RenderField, eye int) {
	pix := render.Pix[eye]
	for i := range v.pixels {
		j := i * 4
		v.pixels[i] = rl.Color{
			R: toByte(pix[j]),
			G: toByte(pix[j+1]),
			B: toByte(pix[j+2]),
			A: 255,
		}
	}
	rl.UpdateTexture(v.textures[eye], v.pixels)
}

// toByte clamps an intensity to [0,1] and scales to 0-255. Overlapping
// spread footprints can push accumulated values past 1.
func toByte(val float32) uint8 {
	if val <= 0 {
		return 0
	}
	if val >= 1 {
		return 255
	}
	return uint8(val * 255)
}

// drawGazeMarkers marks the live gaze position in each eye view.
func (v *Viewer) drawGazeMarkers() {
	w, h := v.cfg.Derived.ScreenW32, v.cfg.Derived.ScreenH32
	for eye := 0; eye < sim.NumEyes; eye++ {
		gx := v.gaze[eye].X*w + float32(eye)*w
		gy := v.gaze[eye].Y * h
		rl.DrawCircleLines(int32(gx), int32(gy), 6, rl.Red)
	}
}

// drawPerfOverlay prints frame timing in the top-left corner.
func (v *Viewer) drawPerfOverlay() {
	stats := v.perf.Stats()
	y := int32(10)
	rl.DrawText(fmt.Sprintf("sim frame: %s (%.0f/s)",
		stats.AvgFrameDuration.Round(10*time.Microsecond), stats.FramesPerSecond), 10, y, 14, rl.Green)
	y += 18
	for _, phase := range []string{telemetry.PhaseStimulus, telemetry.PhaseSimulate, telemetry.PhaseStats} {
		if dur, ok := stats.PhaseAvg[phase]; ok {
			rl.DrawText(fmt.Sprintf("  %-8s %8s  %4.1f%%",
				phase, dur.Round(time.Microsecond), stats.PhasePct[phase]), 10, y, 14, rl.Green)
			y += 18
		}
	}
	rl.DrawText(fmt.Sprintf("display: %.0f fps", stats.FPS), 10, y, 14, rl.Green)
}
