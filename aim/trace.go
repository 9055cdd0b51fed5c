package aim

import "github.com/pthm-cable/bowshot/sim"

// Trace returns the arrow positions, footprint top-left corners, of the
// flight a release at pointer would produce, up to but not including the
// tick it scores or falls out. Releases the simulator refuses give nil.
func (s *Solver) Trace(pointer sim.Vec2) []sim.Vec2 {
	sm, err := sim.New(s.params, lowestDraw{})
	if err != nil {
		return nil
	}
	if _, ok := sm.TriggerShot(pointer); !ok {
		return nil
	}

	path := []sim.Vec2{s.params.LaunchPoint}
	for i := 0; i < s.opts.MaxFlightTicks; i++ {
		r := sm.Tick()
		if r.Event != sim.EventNone {
			break
		}
		path = append(path, r.Position)
	}
	return path
}
