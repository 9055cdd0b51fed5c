package game

import (
	"log/slog"

	"github.com/pthm-cable/bowshot/sim"
)

// finishShot closes the pending shot record with the tick that ended it.
func (g *Game) finishShot(res sim.Result) {
	if g.pending == nil {
		return
	}
	rec := *g.pending
	g.pending = nil
	rec.Complete(g.tick, res)

	g.collector.RecordShot(rec, g.sim.Params().Award)

	g.totals.Shots++
	if rec.Hit() {
		g.totals.Hits++
	} else {
		g.totals.Misses++
	}
	g.totals.Streak = g.collector.Streak()
	g.totals.BestStreak = max(g.totals.BestStreak, g.totals.Streak)
	g.totals.LastOutcome = rec.Outcome
	g.totals.LastTicks = rec.FlightTicks

	slog.Debug("shot finished", "record", rec)

	if err := g.outputManager.WriteShot(rec); err != nil {
		slog.Error("failed to write shot", "error", err)
	}

	if bm := g.bookmarkDetector.CheckShot(rec, g.collector.Streak()); bm != nil {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(*bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sim.Score())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
