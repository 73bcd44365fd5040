// Package telemetry collects per-frame statistics and timing for the
// phosphene simulator and writes them as CSV.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one simulator frame.
const (
	PhaseStimulus = "stimulus"
	PhaseSimulate = "simulate"
	PhaseStats    = "stats"
)

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Display frame timing (graphics mode)
	lastDrawTime time.Time
	drawInterval time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new simulation frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordDraw records display frame timing for graphics mode.
func (p *PerfCollector) RecordDraw() {
	now := time.Now()
	if !p.lastDrawTime.IsZero() {
		p.drawInterval = now.Sub(p.lastDrawTime)
	}
	p.lastDrawTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total frame time
	PhasePct map[string]float64

	FramesPerSecond float64

	// Display timing (graphics mode)
	DrawInterval time.Duration
	FPS          float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.drawInterval > 0 {
		fps = float64(time.Second) / float64(p.drawInterval)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:     make(map[string]time.Duration),
			PhasePct:     make(map[string]float64),
			DrawInterval: p.drawInterval,
			FPS:          fps,
		}
	}

	var total time.Duration
	var minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration

		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgFrameDuration: avg,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		FramesPerSecond:  perSec,
		DrawInterval:     p.drawInterval,
		FPS:              fps,
	}
}

// LogStats logs performance statistics via slog.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}
	for phase, dur := range s.PhaseAvg {
		attrs = append(attrs, phase+"_us", dur.Microseconds())
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is the flattened CSV record for a perf window.
type PerfStatsCSV struct {
	WindowEnd   int64   `csv:"window_end"`
	AvgFrameUs  int64   `csv:"avg_frame_us"`
	MinFrameUs  int64   `csv:"min_frame_us"`
	MaxFrameUs  int64   `csv:"max_frame_us"`
	FramesPerS  float64 `csv:"frames_per_sec"`
	StimulusUs  int64   `csv:"stimulus_us"`
	SimulateUs  int64   `csv:"simulate_us"`
	StatsUs     int64   `csv:"stats_us"`
	DisplayFPS  float64 `csv:"display_fps"`
}

// ToCSV flattens the stats for CSV output.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:  windowEnd,
		AvgFrameUs: s.AvgFrameDuration.Microseconds(),
		MinFrameUs: s.MinFrameDuration.Microseconds(),
		MaxFrameUs: s.MaxFrameDuration.Microseconds(),
		FramesPerS: s.FramesPerSecond,
		StimulusUs: s.PhaseAvg[PhaseStimulus].Microseconds(),
		SimulateUs: s.PhaseAvg[PhaseSimulate].Microseconds(),
		StatsUs:    s.PhaseAvg[PhaseStats].Microseconds(),
		DisplayFPS: s.FPS,
	}
}
