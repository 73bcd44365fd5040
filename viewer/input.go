package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lucent-sim/phosphene/sim"
)

// handleInput processes keyboard and mouse input. The mouse position
// over either eye view stands in for a live eye tracker: both eyes get
// the same normalized gaze.
func (v *Viewer) handleInput() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		v.paused = !v.paused
	case rl.IsKeyPressed(rl.KeyTab):
		v.showPanel = !v.showPanel
	case rl.IsKeyPressed(rl.KeyP):
		v.showPerf = !v.showPerf
	case rl.IsKeyPressed(rl.KeyG):
		p := v.sim.Params()
		p.GazeAssisted = !p.GazeAssisted
		v.sim.SetParams(p)
		Logf("gaze assisted: %v", p.GazeAssisted)
	case rl.IsKeyPressed(rl.KeyL):
		p := v.sim.Params()
		p.GazeLocked = !p.GazeLocked
		v.sim.SetParams(p)
		Logf("gaze locked: %v", p.GazeLocked)
	case rl.IsKeyPressed(rl.KeyR):
		v.sim.Store().ResetState()
		Logf("phosphene state reset")
	}

	// Panel interaction takes the mouse; do not treat it as gaze then.
	if v.showPanel {
		return
	}

	mouse := rl.GetMousePosition()
	w, h := v.cfg.Derived.ScreenW32, v.cfg.Derived.ScreenH32

	gx := mouse.X / w
	if gx >= 1 {
		gx -= 1 // mouse over the right eye view
	}
	gy := mouse.Y / h

	gaze := sim.Vec2{X: clampUnit(gx), Y: clampUnit(gy)}
	for eye := 0; eye < sim.NumEyes; eye++ {
		v.gaze[eye] = gaze
	}
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
