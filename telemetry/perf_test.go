package telemetry

import (
	"math"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(windowSize int) (*PerfCollector, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(windowSize)
	pc.now = clock.now
	return pc, clock
}

// step is one phase of a scripted tick.
type step struct {
	phase string
	d     time.Duration
}

func runTick(pc *PerfCollector, clock *fakeClock, steps ...step) {
	pc.StartTick()
	for _, s := range steps {
		pc.StartPhase(s.phase)
		clock.advance(s.d)
	}
	pc.EndTick()
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	tests := []struct {
		name    string
		steps   []step
		wantAvg time.Duration
		wantPct map[string]float64
	}{
		{
			name: "one pass",
			steps: []step{
				{PhaseInput, 1 * time.Millisecond},
				{PhaseSimulate, 6 * time.Millisecond},
				{PhaseScene, 2 * time.Millisecond},
				{PhaseTelemetry, 1 * time.Millisecond},
			},
			wantAvg: 10 * time.Millisecond,
			wantPct: map[string]float64{
				PhaseInput:     10,
				PhaseSimulate:  60,
				PhaseScene:     20,
				PhaseTelemetry: 10,
			},
		},
		{
			name: "re-entered phase accumulates",
			steps: []step{
				{PhaseSimulate, 4 * time.Millisecond},
				{PhaseTelemetry, 1 * time.Millisecond},
				{PhaseScene, 2 * time.Millisecond},
				{PhaseTelemetry, 3 * time.Millisecond},
			},
			wantAvg: 10 * time.Millisecond,
			wantPct: map[string]float64{
				PhaseSimulate:  40,
				PhaseScene:     20,
				PhaseTelemetry: 40,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, clock := newTestCollector(10)
			for i := 0; i < 3; i++ {
				runTick(pc, clock, tt.steps...)
			}

			stats := pc.Stats()
			if stats.AvgTickDuration != tt.wantAvg {
				t.Errorf("AvgTickDuration = %v, want %v", stats.AvgTickDuration, tt.wantAvg)
			}
			if len(stats.PhasePct) != len(tt.wantPct) {
				t.Errorf("PhasePct = %v, want %v", stats.PhasePct, tt.wantPct)
			}
			for phase, want := range tt.wantPct {
				if got := stats.PhasePct[phase]; !approx(got, want) {
					t.Errorf("PhasePct[%s] = %v, want %v", phase, got, want)
				}
			}
		})
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clock := newTestCollector(2)

	for _, d := range []time.Duration{9 * time.Millisecond, 1 * time.Millisecond, 4 * time.Millisecond} {
		runTick(pc, clock, step{PhaseSimulate, d})
	}

	stats := pc.Stats()
	// The first 9ms tick has left the window.
	if stats.AvgTickDuration != 2500*time.Microsecond {
		t.Errorf("AvgTickDuration = %v, want 2.5ms", stats.AvgTickDuration)
	}
	if stats.MinTickDuration != 1*time.Millisecond {
		t.Errorf("MinTickDuration = %v, want 1ms", stats.MinTickDuration)
	}
	if stats.MaxTickDuration != 4*time.Millisecond {
		t.Errorf("MaxTickDuration = %v, want 4ms", stats.MaxTickDuration)
	}
	if !approx(stats.TicksPerSecond, 400) {
		t.Errorf("TicksPerSecond = %v, want 400", stats.TicksPerSecond)
	}
	if stats.PhaseAvg[PhaseSimulate] != 2500*time.Microsecond {
		t.Errorf("PhaseAvg[simulate] = %v, want 2.5ms", stats.PhaseAvg[PhaseSimulate])
	}
}

func TestPerfCollector_TimeOutsidePhases(t *testing.T) {
	pc, clock := newTestCollector(4)

	pc.StartTick()
	clock.advance(2 * time.Millisecond)
	pc.StartPhase(PhaseSimulate)
	clock.advance(2 * time.Millisecond)
	pc.EndTick()

	stats := pc.Stats()
	if stats.AvgTickDuration != 4*time.Millisecond {
		t.Errorf("AvgTickDuration = %v, want 4ms", stats.AvgTickDuration)
	}
	if got := stats.PhasePct[PhaseSimulate]; !approx(got, 50) {
		t.Errorf("PhasePct[simulate] = %v, want 50", got)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("stats = %+v, want zero timing", stats)
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc, clock := newTestCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	if stats := pc.Stats(); stats.FPS != 0 {
		t.Errorf("FPS after one frame = %v, want 0", stats.FPS)
	}

	clock.advance(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 16*time.Millisecond {
		t.Errorf("FrameDuration = %v, want 16ms", stats.FrameDuration)
	}
	if !approx(stats.FPS, 62.5) {
		t.Errorf("FPS = %v, want 62.5", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseSimulate: 60,
			PhaseScene:    30,
		},
	}

	row := s.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.SimulatePct != 60 || row.ScenePct != 30 || row.InputPct != 0 {
		t.Errorf("phase pct = %v/%v/%v, want 0/60/30", row.InputPct, row.SimulatePct, row.ScenePct)
	}
}
