package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/bowshot/sim"
)

func TestComputeFlightStats(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantStd  float64
		wantP50  float64
	}{
		{"empty slice", nil, 0, 0, 0},
		{"single element", []float64{27}, 27, 0, 27},
		{"three elements", []float64{40, 20, 30}, 30, 10, 30},
		{"constant", []float64{5, 5, 5, 5, 5}, 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, p50 := ComputeFlightStats(tt.values)
			if math.Abs(mean-tt.wantMean) > 0.001 {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if math.Abs(std-tt.wantStd) > 0.001 {
				t.Errorf("std = %v, want %v", std, tt.wantStd)
			}
			if math.Abs(p50-tt.wantP50) > 0.001 {
				t.Errorf("p50 = %v, want %v", p50, tt.wantP50)
			}
		})
	}
}

func TestComputeFlightStatsLeavesInputUnsorted(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeFlightStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func shot(outcome sim.Event, ticks int, apex float64) ShotRecord {
	return ShotRecord{Outcome: outcome.String(), FlightTicks: ticks, ApexY: apex}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(100)

	c.RecordShot(shot(sim.EventHit, 20, 400), 45)
	c.RecordShot(shot(sim.EventHit, 30, 380), 45)
	c.RecordShot(shot(sim.EventMiss, 40, 420), 45)

	if c.ShouldFlush(99) {
		t.Error("ShouldFlush(99) = true before the window ended")
	}
	if !c.ShouldFlush(100) {
		t.Fatal("ShouldFlush(100) = false at the window end")
	}

	s := c.Flush(100, 90)
	if s.Shots != 3 || s.Hits != 2 || s.Misses != 1 {
		t.Errorf("shots/hits/misses = %d/%d/%d, want 3/2/1", s.Shots, s.Hits, s.Misses)
	}
	if math.Abs(s.HitRate-2.0/3.0) > 1e-9 {
		t.Errorf("hit rate = %v, want 0.667", s.HitRate)
	}
	if s.Points != 90 || s.Score != 90 {
		t.Errorf("points = %d, score = %d, want 90, 90", s.Points, s.Score)
	}
	if s.FlightTicksMean != 30 || s.FlightTicksP50 != 30 {
		t.Errorf("flight ticks mean/p50 = %v/%v, want 30/30", s.FlightTicksMean, s.FlightTicksP50)
	}
	if s.ApexMin != 380 {
		t.Errorf("apex min = %v, want 380", s.ApexMin)
	}
	if s.BestStreak != 2 {
		t.Errorf("best streak = %d, want 2", s.BestStreak)
	}
	if s.WindowStartTick != 0 || s.WindowEndTick != 100 {
		t.Errorf("window = [%d, %d], want [0, 100]", s.WindowStartTick, s.WindowEndTick)
	}

	next := c.Flush(200, 90)
	if next.Shots != 0 || next.HitRate != 0 || next.WindowStartTick != 100 {
		t.Errorf("empty window = %+v", next)
	}
}

func TestCollectorStreakSpansWindows(t *testing.T) {
	c := NewCollector(10)

	c.RecordShot(shot(sim.EventHit, 20, 400), 45)
	c.RecordShot(shot(sim.EventHit, 20, 400), 45)
	c.Flush(10, 90)

	c.RecordShot(shot(sim.EventHit, 20, 400), 45)
	if c.Streak() != 3 {
		t.Errorf("streak = %d, want 3", c.Streak())
	}
	if s := c.Flush(20, 135); s.BestStreak != 3 {
		t.Errorf("best streak = %d, want 3", s.BestStreak)
	}

	c.RecordShot(shot(sim.EventMiss, 20, 400), 45)
	if c.Streak() != 0 {
		t.Errorf("streak after miss = %d, want 0", c.Streak())
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(10)
	c.RecordShot(shot(sim.EventHit, 20, 400), 45)
	c.Reset(7)

	if c.Streak() != 0 {
		t.Errorf("streak = %d, want 0", c.Streak())
	}
	s := c.Flush(17, 0)
	if s.Shots != 0 || s.BestStreak != 0 || s.WindowStartTick != 7 {
		t.Errorf("window after reset = %+v", s)
	}
}
