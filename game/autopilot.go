package game

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/bowshot/aim"
	"github.com/pthm-cable/bowshot/config"
	"github.com/pthm-cable/bowshot/sim"
)

// autopilot is the scripted archer. It holds the solved pull for interval
// ticks, then releases it with Gaussian pointer noise.
type autopilot struct {
	pointer  sim.Vec2
	interval int
	jitter   float64
	held     int
}

// newAutopilot solves for a scoring pull. When none exists it falls back to
// the closest sweep point so the archer still shoots.
func newAutopilot(solver *aim.Solver, cfg config.AutopilotConfig) *autopilot {
	a := &autopilot{interval: cfg.IntervalTicks, jitter: cfg.Jitter}

	sol, err := solver.Solve()
	if err != nil {
		best := aim.Ranked(solver.Sweep())[0]
		slog.Warn("autopilot has no scoring pull, using closest",
			"error", err,
			"pointer_x", best.Pointer.X,
			"pointer_y", best.Pointer.Y,
			"closest", best.Closest,
		)
		a.pointer = best.Pointer
		return a
	}

	slog.Info("autopilot solved",
		"pointer_x", sol.Pointer.X,
		"pointer_y", sol.Pointer.Y,
		"flight_ticks", sol.Outcome.Ticks,
		"evals", sol.Evals,
		"refined", sol.Refined,
	)
	a.pointer = sol.Pointer
	return a
}

// next returns this tick's pointer and whether to release. Call only while
// aiming.
func (a *autopilot) next(rng *rand.Rand) (sim.Vec2, bool) {
	if a.held < a.interval {
		a.held++
		return a.pointer, false
	}
	a.held = 0
	if a.jitter <= 0 {
		return a.pointer, true
	}
	return sim.Vec2{
		X: a.pointer.X + rng.NormFloat64()*a.jitter,
		Y: a.pointer.Y + rng.NormFloat64()*a.jitter,
	}, true
}
