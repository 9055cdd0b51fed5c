package telemetry

// Collector accumulates shots within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	shots       int
	hits        int
	misses      int
	points      int
	flightTicks []float64
	apexMin     float64
	bestStreak  int

	// Carried across windows
	streak int
}

// NewCollector creates a new stats collector.
// windowTicks: how many simulation ticks each stats window lasts.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// RecordShot records a completed shot.
func (c *Collector) RecordShot(r ShotRecord, award int) {
	c.shots++
	c.flightTicks = append(c.flightTicks, float64(r.FlightTicks))
	if c.shots == 1 || r.ApexY < c.apexMin {
		c.apexMin = r.ApexY
	}

	if r.Hit() {
		c.hits++
		c.points += award
		c.streak++
		if c.streak > c.bestStreak {
			c.bestStreak = c.streak
		}
		return
	}
	c.misses++
	c.streak = 0
}

// Streak returns the current run of consecutive hits.
func (c *Collector) Streak() int {
	return c.streak
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// score is the session total at currentTick.
func (c *Collector) Flush(currentTick int32, score int) WindowStats {
	var hitRate float64
	if c.shots > 0 {
		hitRate = float64(c.hits) / float64(c.shots)
	}
	mean, std, p50 := ComputeFlightStats(c.flightTicks)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Shots:   c.shots,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
		Points:  c.points,
		Score:   score,

		FlightTicksMean: mean,
		FlightTicksStd:  std,
		FlightTicksP50:  p50,
		ApexMin:         c.apexMin,

		BestStreak: c.bestStreak,
	}

	c.windowStartTick = currentTick
	c.shots = 0
	c.hits = 0
	c.misses = 0
	c.points = 0
	c.flightTicks = c.flightTicks[:0]
	c.apexMin = 0
	c.bestStreak = c.streak

	return stats
}

// Reset drops the current window and streak, starting over at tick.
func (c *Collector) Reset(tick int32) {
	c.Flush(tick, 0)
	c.streak = 0
	c.bestStreak = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
