// Package aim searches for pointer positions whose release scores a hit.
//
// Flights are replayed on a private simulator whose fall-out threshold is
// pinned to the bottom of the miss band, the earliest a live flight can be
// abandoned, so a pull that scores here scores for every threshold draw.
package aim

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/bowshot/sim"
)

// ErrNoSolution is returned when neither the sweep nor the refinement found
// a scoring pull.
var ErrNoSolution = errors.New("aim: no scoring pull found")

// Options bounds the search.
type Options struct {
	GridSteps      int     // sweep points per axis, endpoints included
	MaxEvals       int     // Nelder-Mead function evaluation cap
	MaxPull        float64 // largest pointer offset from the launch point on either axis
	MaxFlightTicks int     // replay cap for flights that never come down
}

// DefaultOptions returns the search bounds used by the headless archer.
func DefaultOptions() Options {
	return Options{
		GridSteps:      25,
		MaxEvals:       300,
		MaxPull:        240,
		MaxFlightTicks: 2000,
	}
}

// Outcome is the result of replaying one release.
type Outcome struct {
	Pointer sim.Vec2  `csv:"-"`
	PullX   float64   `csv:"pull_x"`
	PullY   float64   `csv:"pull_y"`
	Event   sim.Event `csv:"-"`
	Result  string    `csv:"result"`
	Ticks   int       `csv:"ticks"`
	ApexY   float64   `csv:"apex_y"`
	// Closest is the smallest distance between the arrow footprint centre
	// and the target centre over the flight.
	Closest float64 `csv:"closest"`
}

// Hit reports whether the replay scored.
func (o Outcome) Hit() bool {
	return o.Event == sim.EventHit
}

// cost is what the optimizer minimizes: zero for any hit, otherwise the
// closest approach.
func (o Outcome) cost() float64 {
	if o.Hit() {
		return 0
	}
	return o.Closest
}

// better orders outcomes: hits first, then by closest approach.
func (o Outcome) better(other Outcome) bool {
	if o.Hit() != other.Hit() {
		return o.Hit()
	}
	return o.Closest < other.Closest
}

// Solution is the pull chosen by Solve.
type Solution struct {
	Pointer sim.Vec2
	Outcome Outcome
	Evals   int  // replays spent, sweep included
	Refined bool // true when Nelder-Mead produced the answer
}

// Solver replays flights for one set of session constants.
type Solver struct {
	params sim.Params
	opts   Options

	// pull direction on X: away from the target
	signX float64
}

// lowestDraw pins the fall-out threshold to the bottom of the band.
type lowestDraw struct{}

func (lowestDraw) Float64() float64 { return 0 }

// NewSolver validates params and opts.
func NewSolver(params sim.Params, opts Options) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if opts.GridSteps < 2 {
		return nil, fmt.Errorf("grid steps must be at least 2, got %d", opts.GridSteps)
	}
	if opts.MaxPull <= 0 || opts.MaxFlightTicks <= 0 {
		return nil, errors.New("max pull and max flight ticks must be positive")
	}

	s := &Solver{params: params, opts: opts, signX: -1}
	targetCX := params.TargetZone.X + params.TargetZone.W/2
	if targetCX < params.LaunchPoint.X {
		s.signX = 1
	}
	return s, nil
}

// Replay fires one arrow from pointer and follows it until it lands.
func (s *Solver) Replay(pointer sim.Vec2) Outcome {
	out := Outcome{
		Pointer: pointer,
		PullX:   pointer.X - s.params.LaunchPoint.X,
		PullY:   pointer.Y - s.params.LaunchPoint.Y,
		Closest: math.Inf(1),
	}

	sm, err := sim.New(s.params, lowestDraw{})
	if err != nil {
		out.Event = sim.EventMiss
		out.Result = out.Event.String()
		return out
	}
	if _, ok := sm.TriggerShot(pointer); !ok {
		out.Event = sim.EventMiss
		out.Result = out.Event.String()
		return out
	}

	tz := s.params.TargetZone
	tcx, tcy := tz.X+tz.W/2, tz.Y+tz.H/2
	half := sim.Vec2{X: s.params.ArrowSize.X / 2, Y: s.params.ArrowSize.Y / 2}

	for i := 0; i < s.opts.MaxFlightTicks; i++ {
		r := sm.Tick()
		switch r.Event {
		case sim.EventNone:
			d := math.Hypot(r.Position.X+half.X-tcx, r.Position.Y+half.Y-tcy)
			out.Closest = math.Min(out.Closest, d)
			continue
		case sim.EventHit:
			out.Closest = 0
		}

		// r.Position is already back on the bow here.
		out.Event = r.Event
		out.Ticks = r.FlightTicks
		out.ApexY = r.ApexY
		out.Result = out.Event.String()
		return out
	}

	st := sm.State()
	out.Event = sim.EventMiss
	out.Ticks = s.opts.MaxFlightTicks
	out.ApexY = math.Min(s.params.LaunchPoint.Y, st.Position.Y)
	out.Result = out.Event.String()
	return out
}

// Sweep replays every pull on the search grid, row by row.
func (s *Solver) Sweep() []Outcome {
	n := s.opts.GridSteps
	out := make([]Outcome, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			u := float64(i) / float64(n-1)
			v := float64(j) / float64(n-1)
			out = append(out, s.Replay(s.pointerAt([]float64{u, v})))
		}
	}
	return out
}

// Solve returns a scoring pull. It takes the best sweep point and, when that
// misses, refines it with Nelder-Mead over the normalized pull square.
func (s *Solver) Solve() (Solution, error) {
	sweep := s.Sweep()
	best := sweep[0]
	for _, o := range sweep[1:] {
		if o.better(best) {
			best = o
		}
	}
	evals := len(sweep)

	if best.Hit() {
		return Solution{Pointer: best.Pointer, Outcome: best, Evals: evals}, nil
	}

	refined, n, err := s.refine(best)
	evals += n
	if refined.better(best) {
		best = refined
	}
	if !best.Hit() {
		if err != nil {
			return Solution{}, fmt.Errorf("%w: %v", ErrNoSolution, err)
		}
		return Solution{}, fmt.Errorf("%w: closest approach %.1f", ErrNoSolution, best.Closest)
	}
	return Solution{Pointer: best.Pointer, Outcome: best, Evals: evals, Refined: true}, nil
}

// Ranked returns outcomes sorted best first.
func Ranked(outcomes []Outcome) []Outcome {
	ranked := make([]Outcome, len(outcomes))
	copy(ranked, outcomes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].better(ranked[j])
	})
	return ranked
}

func (s *Solver) refine(start Outcome) (Outcome, int, error) {
	best := start
	evals := 0

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			o := s.Replay(s.pointerAt(x))
			evals++
			if o.better(best) {
				best = o
			}
			return o.cost()
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: s.opts.MaxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-3,
			Iterations: 50,
		},
	}

	_, err := optimize.Minimize(problem, s.normalize(start.Pointer), settings, &optimize.NelderMead{})
	return best, evals, err
}

// pointerAt maps a point of the unit square to a pointer position. Values
// outside [0, 1] are clamped so the optimizer cannot wander off the grid.
func (s *Solver) pointerAt(x []float64) sim.Vec2 {
	u, v := clamp01(x[0]), clamp01(x[1])
	return sim.Vec2{
		X: s.params.LaunchPoint.X + s.signX*u*s.opts.MaxPull,
		Y: s.params.LaunchPoint.Y + (2*v-1)*s.opts.MaxPull,
	}
}

func (s *Solver) normalize(p sim.Vec2) []float64 {
	u := (p.X - s.params.LaunchPoint.X) / (s.signX * s.opts.MaxPull)
	v := ((p.Y-s.params.LaunchPoint.Y)/s.opts.MaxPull + 1) / 2
	return []float64{clamp01(u), clamp01(v)}
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}
