package main

import (
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/lucent-sim/phosphene/sim"
)

// TargetSample is one point of the target step response.
type TargetSample struct {
	Frame      int     `csv:"frame"`
	Activation float64 `csv:"activation"`
}

// LoadTargetCurve reads a target step response from CSV.
func LoadTargetCurve(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening target curve: %w", err)
	}
	defer f.Close()

	var samples []TargetSample
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		return nil, fmt.Errorf("parsing target curve: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("target curve %s is empty", path)
	}

	curve := make([]float64, len(samples))
	for i, s := range samples {
		curve[i] = s.Activation
	}
	return curve, nil
}

// StepResponse simulates a single phosphene through a constant-on then
// constant-off stimulation sequence and returns the activation per frame.
func StepResponse(raw []float64, onFrames, offFrames int) []float64 {
	p := &sim.Params{
		InputEffect:    float32(raw[0]),
		IntensityDecay: float32(raw[1]),
		TraceIncrease:  float32(raw[2]),
		TraceDecay:     float32(raw[3]),
	}

	curve := make([]float64, 0, onFrames+offFrames)
	var act, trace float32
	for frame := 0; frame < onFrames+offFrames; frame++ {
		var stim float32
		if frame < onFrames {
			stim = 1
		}
		act, trace = sim.StepActivation(act, trace, stim, p)
		curve = append(curve, float64(act))
	}
	return curve
}

// FitnessEvaluator scores parameter vectors against the target curve.
type FitnessEvaluator struct {
	params    *ParamVector
	target    []float64
	onFrames  int
	offFrames int

	lastRMSE float64
}

// NewFitnessEvaluator creates an evaluator. The step sequence length is
// clamped to the target curve; a longer target is truncated.
func NewFitnessEvaluator(params *ParamVector, target []float64, onFrames, offFrames int) *FitnessEvaluator {
	if onFrames+offFrames > len(target) {
		offFrames = len(target) - onFrames
		if offFrames < 0 {
			onFrames = len(target)
			offFrames = 0
		}
	}
	return &FitnessEvaluator{
		params:    params,
		target:    target,
		onFrames:  onFrames,
		offFrames: offFrames,
	}
}

// Evaluate returns the mean squared error between the simulated step
// response under the given raw parameters and the target curve.
func (e *FitnessEvaluator) Evaluate(raw []float64) float64 {
	clamped := e.params.Clamp(raw)
	curve := StepResponse(clamped, e.onFrames, e.offFrames)

	var sse float64
	for i, v := range curve {
		d := v - e.target[i]
		sse += d * d
	}
	mse := sse / float64(len(curve))
	e.lastRMSE = math.Sqrt(mse)
	return mse
}

// LastRMSE returns the root mean squared error of the most recent
// evaluation, for progress reporting.
func (e *FitnessEvaluator) LastRMSE() float64 {
	return e.lastRMSE
}
