package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorWindow(t *testing.T) {
	p := NewPerfCollector(4)

	for i := 0; i < 6; i++ {
		p.StartFrame()
		p.StartPhase(PhaseSimulate)
		time.Sleep(time.Millisecond)
		p.EndFrame()
	}

	stats := p.Stats()
	if stats.AvgFrameDuration < time.Millisecond {
		t.Errorf("avg frame duration = %v, want >= 1ms", stats.AvgFrameDuration)
	}
	if stats.MinFrameDuration > stats.MaxFrameDuration {
		t.Errorf("min %v > max %v", stats.MinFrameDuration, stats.MaxFrameDuration)
	}
	if stats.PhaseAvg[PhaseSimulate] == 0 {
		t.Error("simulate phase not recorded")
	}
	if stats.FramesPerSecond <= 0 {
		t.Errorf("frames per second = %v, want > 0", stats.FramesPerSecond)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(8)
	stats := p.Stats()
	if stats.AvgFrameDuration != 0 {
		t.Errorf("empty collector avg = %v, want 0", stats.AvgFrameDuration)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("empty collector must still return maps")
	}
}

func TestPerfCollectorPhaseSplit(t *testing.T) {
	p := NewPerfCollector(2)

	p.StartFrame()
	p.StartPhase(PhaseStimulus)
	time.Sleep(2 * time.Millisecond)
	p.StartPhase(PhaseSimulate)
	time.Sleep(2 * time.Millisecond)
	p.EndFrame()

	stats := p.Stats()
	if stats.PhaseAvg[PhaseStimulus] == 0 || stats.PhaseAvg[PhaseSimulate] == 0 {
		t.Fatalf("phases not split: %v", stats.PhaseAvg)
	}

	csv := stats.ToCSV(42)
	if csv.WindowEnd != 42 {
		t.Errorf("window end = %d, want 42", csv.WindowEnd)
	}
	if csv.StimulusUs == 0 || csv.SimulateUs == 0 {
		t.Errorf("phase columns empty: %+v", csv)
	}
}
