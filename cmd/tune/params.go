// Package main provides CMA-ES tuning of the temporal activation
// parameters against a target step response.
package main

import (
	"github.com/lucent-sim/phosphene/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters: the
// four temporal dynamics coefficients.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "input_effect", Path: "temporal.input_effect", Min: 0.0, Max: 2.0, Default: 0.7},
			{Name: "intensity_decay", Path: "temporal.intensity_decay", Min: 0.0, Max: 0.99, Default: 0.4},
			{Name: "trace_increase", Path: "temporal.trace_increase", Min: 0.0, Max: 1.0, Default: 0.1},
			{Name: "trace_decay", Path: "temporal.trace_decay", Min: 0.0, Max: 0.99, Default: 0.9},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Temporal.InputEffect = clamped[0]
	cfg.Temporal.IntensityDecay = clamped[1]
	cfg.Temporal.TraceIncrease = clamped[2]
	cfg.Temporal.TraceDecay = clamped[3]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Temporal.InputEffect,
		cfg.Temporal.IntensityDecay,
		cfg.Temporal.TraceIncrease,
		cfg.Temporal.TraceDecay,
	}
}
