package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Shots completed during the window
	Shots   int     `csv:"shots"`
	Hits    int     `csv:"hits"`
	Misses  int     `csv:"misses"`
	HitRate float64 `csv:"hit_rate"`
	Points  int     `csv:"points"`
	Score   int     `csv:"score"` // session total at window end

	// Flight length distribution
	FlightTicksMean float64 `csv:"flight_ticks_mean"`
	FlightTicksStd  float64 `csv:"flight_ticks_std"`
	FlightTicksP50  float64 `csv:"flight_ticks_p50"`
	ApexMin         float64 `csv:"apex_min"` // smallest y reached; screen y grows downward

	BestStreak int `csv:"best_streak"`
}

// ComputeFlightStats returns the mean, sample standard deviation and median
// of flight lengths. Empty input yields zeros; a single sample has zero spread.
func ComputeFlightStats(values []float64) (mean, std, p50 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n == 1 {
		return sorted[0], 0, sorted[0]
	}
	mean, std = stat.MeanStdDev(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return mean, std, p50
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("shots", s.Shots),
		slog.Int("hits", s.Hits),
		slog.Int("misses", s.Misses),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("points", s.Points),
		slog.Int("score", s.Score),
		slog.Float64("flight_ticks_mean", s.FlightTicksMean),
		slog.Float64("flight_ticks_std", s.FlightTicksStd),
		slog.Float64("flight_ticks_p50", s.FlightTicksP50),
		slog.Float64("apex_min", s.ApexMin),
		slog.Int("best_streak", s.BestStreak),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"shots", s.Shots,
		"hits", s.Hits,
		"misses", s.Misses,
		"hit_rate", s.HitRate,
		"points", s.Points,
		"score", s.Score,
		"flight_ticks_mean", s.FlightTicksMean,
		"flight_ticks_p50", s.FlightTicksP50,
		"best_streak", s.BestStreak,
	)
}
