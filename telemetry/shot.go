// Package telemetry records shots, windowed accuracy statistics, bookmarks and
// per-tick performance, and writes them as CSV.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/bowshot/sim"
)

// ShotRecord is one row of shots.csv: a release and how its flight ended.
type ShotRecord struct {
	Session     string  `csv:"session"`
	Shot        int     `csv:"shot"`
	FireTick    int32   `csv:"fire_tick"`
	EndTick     int32   `csv:"end_tick"`
	PointerX    float64 `csv:"pointer_x"`
	PointerY    float64 `csv:"pointer_y"`
	VelocityX   float64 `csv:"velocity_x"`
	VelocityY   float64 `csv:"velocity_y"`
	Heading     float64 `csv:"heading"`
	Outcome     string  `csv:"outcome"`
	FlightTicks int     `csv:"flight_ticks"`
	ApexY       float64 `csv:"apex_y"`
	ScoreAfter  int     `csv:"score_after"`
}

// NewShotRecord opens a record for a shot released on tick.
func NewShotRecord(session string, n int, tick int32, shot sim.Shot) ShotRecord {
	return ShotRecord{
		Session:   session,
		Shot:      n,
		FireTick:  tick,
		PointerX:  shot.Pointer.X,
		PointerY:  shot.Pointer.Y,
		VelocityX: shot.Velocity.X,
		VelocityY: shot.Velocity.Y,
		Heading:   shot.Heading,
	}
}

// Complete fills in the end of the flight from the tick result that ended it.
func (r *ShotRecord) Complete(tick int32, res sim.Result) {
	r.EndTick = tick
	r.Outcome = res.Event.String()
	r.FlightTicks = res.FlightTicks
	r.ApexY = res.ApexY
	r.ScoreAfter = res.Score
}

// Hit reports whether the shot scored.
func (r ShotRecord) Hit() bool {
	return r.Outcome == sim.EventHit.String()
}

// LogValue implements slog.LogValuer for structured logging.
func (r ShotRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("shot", r.Shot),
		slog.Int("fire_tick", int(r.FireTick)),
		slog.Int("end_tick", int(r.EndTick)),
		slog.String("outcome", r.Outcome),
		slog.Int("flight_ticks", r.FlightTicks),
		slog.Float64("apex_y", r.ApexY),
		slog.Int("score", r.ScoreAfter),
	)
}
