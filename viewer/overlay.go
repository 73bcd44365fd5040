package viewer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	panelWidth  = 300
	sliderWidth = panelWidth - 90
)

// drawParamPanel draws the interactive parameter panel and applies any
// changes to the simulator between frames.
func (v *Viewer) drawParamPanel() {
	p := v.sim.Params()
	changed := false

	x := float32(10)
	y := float32(40)

	rl.DrawRectangle(int32(x)-5, int32(y)-10, panelWidth, 260, rl.Fade(rl.Black, 0.7))
	rl.DrawText("Temporal Parameters", int32(x), int32(y), 16, rl.RayWhite)
	y += 28

	slider := func(label string, value, min, max float32) float32 {
		rl.DrawText(label, int32(x), int32(y), 12, rl.LightGray)
		y += 16
		got := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 18},
			"", "",
			value, min, max,
		)
		rl.DrawText(fmt.Sprintf("%.3f", got), int32(x+sliderWidth+8), int32(y+2), 14, rl.RayWhite)
		y += 28
		if got != value {
			changed = true
		}
		return got
	}

	p.InputEffect = slider("input effect", p.InputEffect, 0, 2)
	p.IntensityDecay = slider("intensity decay", p.IntensityDecay, 0, 0.99)
	p.TraceIncrease = slider("trace increase", p.TraceIncrease, 0, 1)
	p.TraceDecay = slider("trace decay", p.TraceDecay, 0, 0.99)

	assisted := gui.CheckBox(
		rl.Rectangle{X: x, Y: y, Width: 18, Height: 18},
		"gaze assisted (sampling)", p.GazeAssisted)
	y += 26
	locked := gui.CheckBox(
		rl.Rectangle{X: x, Y: y, Width: 18, Height: 18},
		"gaze locked (rendering)", p.GazeLocked)

	if assisted != p.GazeAssisted || locked != p.GazeLocked {
		p.GazeAssisted = assisted
		p.GazeLocked = locked
		changed = true
	}

	if changed {
		v.sim.SetParams(p)
	}
}
