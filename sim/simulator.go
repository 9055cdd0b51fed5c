// Package sim implements the single-arrow aim/flight simulation: Euler
// integration under constant gravity, box-overlap scoring against a fixed
// target, and a randomized fall-out threshold.
package sim

import (
	"errors"
	"fmt"
	"math"
)

// Phase is the discrete state of the arrow.
type Phase uint8

const (
	Aiming Phase = iota
	InFlight
)

func (p Phase) String() string {
	switch p {
	case Aiming:
		return "aiming"
	case InFlight:
		return "in_flight"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Event describes what a tick produced.
type Event uint8

const (
	EventNone Event = iota
	EventHit        // arrow overlapped the target; score awarded
	EventMiss       // arrow fell past the threshold or left finite space
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	default:
		return fmt.Sprintf("event(%d)", uint8(e))
	}
}

// Rand is the random source used for the fall-out threshold.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Params holds the constants of a session.
type Params struct {
	LaunchPoint     Vec2
	TargetZone      Rect
	ArrowSize       Vec2    // footprint width (X) and height (Y)
	Gravity         float64 // added to velocity.Y every tick
	VelocityDivisor float64 // launch velocity = -(pointer - launch) / divisor
	Award           int
	MissBandMin     float64 // fall-out threshold is drawn from [MissBandMin, MissBandMax)
	MissBandMax     float64
}

// DefaultParams returns the classic bow layout: bow at (120, 450), bag at (700, 450).
func DefaultParams() Params {
	return Params{
		LaunchPoint:     Vec2{X: 120, Y: 450},
		TargetZone:      Rect{X: 700, Y: 450, W: 96, H: 128},
		ArrowSize:       Vec2{X: 48, Y: 12},
		Gravity:         0.25,
		VelocityDivisor: 6,
		Award:           45,
		MissBandMin:     500,
		MissBandMax:     580,
	}
}

// Validate checks that p describes a usable session.
func (p Params) Validate() error {
	if !p.LaunchPoint.Finite() || !p.TargetZone.Finite() || !p.ArrowSize.Finite() {
		return errors.New("geometry must be finite")
	}
	if !isFinite(p.Gravity) {
		return errors.New("gravity must be finite")
	}
	if !isFinite(p.VelocityDivisor) || p.VelocityDivisor == 0 {
		return errors.New("velocity divisor must be finite and non-zero")
	}
	if !isFinite(p.MissBandMin) || !isFinite(p.MissBandMax) || p.MissBandMax <= p.MissBandMin {
		return fmt.Errorf("miss band [%v, %v) is empty", p.MissBandMin, p.MissBandMax)
	}
	if p.Award < 0 {
		return errors.New("award must not be negative")
	}
	return nil
}

// ArrowState is the single mutable entity of a session.
type ArrowState struct {
	Phase            Phase
	Position         Vec2
	PreviousPosition Vec2
	Velocity         Vec2
	Heading          float64 // degrees, 0 = up
}

// Shot summarizes a launch accepted by TriggerShot.
type Shot struct {
	Pointer  Vec2
	Velocity Vec2
	Heading  float64
}

// Result is returned to the presentation layer every tick.
type Result struct {
	Phase    Phase
	Position Vec2
	Heading  float64
	Score    int
	Event    Event

	// FlightTicks counts ticks of the current flight, or of the flight that
	// just ended when Event is EventHit or EventMiss.
	FlightTicks int
	// ApexY is the smallest Y reached by the same flight.
	ApexY float64
}

// Simulator owns the arrow and the score. It is not safe for concurrent use;
// the presentation layer drives it from a single loop.
type Simulator struct {
	params Params
	rng    Rand

	arrow ArrowState
	score int

	flightTicks int
	apexY       float64
}

// New creates a simulator in the Aiming phase at the launch point with a
// zero score.
func New(params Params, rng Rand) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	s := &Simulator{params: params, rng: rng}
	s.reset()
	return s, nil
}

// Aim points the bow at pointer and returns the new heading. While the arrow
// is in flight, or when pointer is not finite, it returns the current
// heading unchanged.
func (s *Simulator) Aim(pointer Vec2) float64 {
	if s.arrow.Phase != Aiming || !pointer.Finite() {
		return s.arrow.Heading
	}
	s.arrow.Heading = s.aimHeading(pointer)
	return s.arrow.Heading
}

// TriggerShot launches the arrow away from pointer, like releasing a drawn
// bowstring. Only the first release counts: while in flight it returns false
// and leaves the state untouched.
func (s *Simulator) TriggerShot(pointer Vec2) (Shot, bool) {
	if s.arrow.Phase != Aiming || !pointer.Finite() {
		return Shot{}, false
	}

	vel := pointer.Sub(s.params.LaunchPoint).Scale(-1 / s.params.VelocityDivisor)
	if !vel.Finite() {
		return Shot{}, false
	}

	s.arrow.Phase = InFlight
	s.arrow.Heading = s.aimHeading(pointer)
	s.arrow.Velocity = vel
	s.arrow.Position = s.params.LaunchPoint
	s.arrow.PreviousPosition = s.params.LaunchPoint

	return Shot{Pointer: pointer, Velocity: vel, Heading: s.arrow.Heading}, true
}

// Tick advances one time step. While aiming nothing moves.
func (s *Simulator) Tick() Result {
	if s.arrow.Phase != InFlight {
		return s.result(EventNone)
	}

	a := &s.arrow
	a.PreviousPosition = a.Position
	a.Position = a.Position.Add(a.Velocity)
	a.Velocity.Y += s.params.Gravity

	d := a.Position.Sub(a.PreviousPosition)
	a.Heading = headingDegrees(d.X, d.Y)

	s.flightTicks++
	s.apexY = math.Min(s.apexY, a.Position.Y)

	if !a.Position.Finite() || !a.Velocity.Finite() {
		return s.finish(EventMiss)
	}

	if Overlaps(s.Footprint(), s.params.TargetZone) {
		s.score += s.params.Award
		return s.finish(EventHit)
	}

	// The threshold is re-drawn every tick, not once per flight.
	if a.Position.Y > s.missThreshold() {
		return s.finish(EventMiss)
	}

	return s.result(EventNone)
}

// State returns a copy of the arrow.
func (s *Simulator) State() ArrowState {
	return s.arrow
}

// Score returns the accumulated score.
func (s *Simulator) Score() int {
	return s.score
}

// Params returns the session constants.
func (s *Simulator) Params() Params {
	return s.params
}

// Footprint returns the arrow's collision box at its current position.
func (s *Simulator) Footprint() Rect {
	return Rect{
		X: s.arrow.Position.X,
		Y: s.arrow.Position.Y,
		W: s.params.ArrowSize.X,
		H: s.params.ArrowSize.Y,
	}
}

func (s *Simulator) aimHeading(pointer Vec2) float64 {
	d := pointer.Sub(s.params.LaunchPoint)
	return headingDegrees(d.X, d.Y) + 180
}

func (s *Simulator) missThreshold() float64 {
	return s.params.MissBandMin + s.rng.Float64()*(s.params.MissBandMax-s.params.MissBandMin)
}

// finish reports the end of a flight and puts the arrow back on the bow.
func (s *Simulator) finish(ev Event) Result {
	r := s.result(ev)
	s.reset()
	r.Phase = s.arrow.Phase
	r.Position = s.arrow.Position
	r.Heading = s.arrow.Heading
	return r
}

// reset returns the arrow to Aiming at the launch point. Heading is kept so
// the bow does not snap between the last frame of flight and the next aim.
func (s *Simulator) reset() {
	s.arrow.Phase = Aiming
	s.arrow.Position = s.params.LaunchPoint
	s.arrow.PreviousPosition = s.params.LaunchPoint
	s.arrow.Velocity = Vec2{}
	s.flightTicks = 0
	s.apexY = s.params.LaunchPoint.Y
}

func (s *Simulator) result(ev Event) Result {
	return Result{
		Phase:       s.arrow.Phase,
		Position:    s.arrow.Position,
		Heading:     s.arrow.Heading,
		Score:       s.score,
		Event:       ev,
		FlightTicks: s.flightTicks,
		ApexY:       s.apexY,
	}
}
