// Package scene keeps the drawable entities of a session in an ECS world.
//
// The simulator owns the game state; the scene mirrors it once per tick so
// the renderer and the inspector never read the simulator directly.
package scene

import (
	"math"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bowshot/components"
	"github.com/pthm-cable/bowshot/sim"
)

// Bow sprite size in world units.
const (
	BowWidth  = 28
	BowHeight = 110
)

// Drawable is a flattened sprite ready for the renderer.
type Drawable struct {
	Entity ecs.Entity
	Kind   components.SpriteKind
	X, Y   float32
	W, H   float32
	Angle  float32
	Layer  int

	// Set for the bow only.
	String *components.Bowstring
}

// Frame is what Sync needs from a tick.
type Frame struct {
	Arrow       sim.ArrowState
	FlightTicks int
	Pull        sim.Vec2 // pointer offset from the launch point
	Drawing     bool     // pointer held while aiming
}

// Scene holds the bow, the arrow and the target.
type Scene struct {
	world *ecs.World

	bowMapper    *ecs.Map3[components.Transform, components.Sprite, components.Bowstring]
	arrowMapper  *ecs.Map3[components.Transform, components.Sprite, components.Flight]
	targetMapper *ecs.Map2[components.Transform, components.Sprite]
	spriteFilter *ecs.Filter2[components.Transform, components.Sprite]

	transformMap *ecs.Map[components.Transform]
	spriteMap    *ecs.Map[components.Sprite]
	stringMap    *ecs.Map[components.Bowstring]
	flightMap    *ecs.Map[components.Flight]

	bow, arrow, target ecs.Entity
}

// New builds the scene for the given session constants. The arrow rests on
// the bow.
func New(p sim.Params) *Scene {
	world := ecs.NewWorld()

	s := &Scene{
		world:        world,
		bowMapper:    ecs.NewMap3[components.Transform, components.Sprite, components.Bowstring](world),
		arrowMapper:  ecs.NewMap3[components.Transform, components.Sprite, components.Flight](world),
		targetMapper: ecs.NewMap2[components.Transform, components.Sprite](world),
		spriteFilter: ecs.NewFilter2[components.Transform, components.Sprite](world),
		transformMap: ecs.NewMap[components.Transform](world),
		spriteMap:    ecs.NewMap[components.Sprite](world),
		stringMap:    ecs.NewMap[components.Bowstring](world),
		flightMap:    ecs.NewMap[components.Flight](world),
	}

	tz := p.TargetZone
	s.target = s.targetMapper.NewEntity(
		&components.Transform{X: float32(tz.X), Y: float32(tz.Y)},
		&components.Sprite{Kind: components.KindTarget, W: float32(tz.W), H: float32(tz.H), Layer: 0},
	)

	// The bow is centred on the resting arrow.
	cx := float32(p.LaunchPoint.X + p.ArrowSize.X/2)
	cy := float32(p.LaunchPoint.Y + p.ArrowSize.Y/2)
	s.bow = s.bowMapper.NewEntity(
		&components.Transform{X: cx - BowWidth/2, Y: cy - BowHeight/2},
		&components.Sprite{Kind: components.KindBow, W: BowWidth, H: BowHeight, Layer: 1},
		&components.Bowstring{},
	)

	s.arrow = s.arrowMapper.NewEntity(
		&components.Transform{X: float32(p.LaunchPoint.X), Y: float32(p.LaunchPoint.Y)},
		&components.Sprite{Kind: components.KindArrow, W: float32(p.ArrowSize.X), H: float32(p.ArrowSize.Y), Layer: 2},
		&components.Flight{},
	)

	return s
}

// spriteAngle turns a heading (0 = up, clockwise) into the rotation of a
// sprite drawn pointing right.
func spriteAngle(heading float64) float32 {
	return float32(heading - 90)
}

// Sync copies one tick of simulator state into the scene.
func (s *Scene) Sync(f Frame) {
	angle := spriteAngle(f.Arrow.Heading)

	at := s.transformMap.Get(s.arrow)
	at.X = float32(f.Arrow.Position.X)
	at.Y = float32(f.Arrow.Position.Y)
	at.Angle = angle

	fl := s.flightMap.Get(s.arrow)
	fl.VX = float32(f.Arrow.Velocity.X)
	fl.VY = float32(f.Arrow.Velocity.Y)
	fl.Speed = float32(math.Hypot(f.Arrow.Velocity.X, f.Arrow.Velocity.Y))
	fl.InFlight = f.Arrow.Phase == sim.InFlight
	fl.Ticks = f.FlightTicks

	s.transformMap.Get(s.bow).Angle = angle

	str := s.stringMap.Get(s.bow)
	str.Drawn = f.Drawing && f.Arrow.Phase == sim.Aiming
	if str.Drawn {
		str.PullX, str.PullY = float32(f.Pull.X), float32(f.Pull.Y)
	} else {
		str.PullX, str.PullY = 0, 0
	}
}

// Snapshot returns every sprite in draw order.
func (s *Scene) Snapshot() []Drawable {
	out := make([]Drawable, 0, 3)

	query := s.spriteFilter.Query()
	for query.Next() {
		tr, sp := query.Get()
		d := Drawable{
			Entity: query.Entity(),
			Kind:   sp.Kind,
			X:      tr.X,
			Y:      tr.Y,
			W:      sp.W,
			H:      sp.H,
			Angle:  tr.Angle,
			Layer:  sp.Layer,
		}
		if d.Kind == components.KindBow {
			str := *s.stringMap.Get(d.Entity)
			d.String = &str
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Layer < out[j].Layer
	})
	return out
}

// Pick returns the topmost sprite whose unrotated box contains the world point.
func (s *Scene) Pick(wx, wy float32) (ecs.Entity, bool) {
	var picked ecs.Entity
	layer, found := -1, false

	query := s.spriteFilter.Query()
	for query.Next() {
		tr, sp := query.Get()
		if wx < tr.X || wx > tr.X+sp.W || wy < tr.Y || wy > tr.Y+sp.H {
			continue
		}
		if sp.Layer > layer {
			picked, layer, found = query.Entity(), sp.Layer, true
		}
	}
	return picked, found
}

// Inspect returns copies of the components attached to e, for display.
func (s *Scene) Inspect(e ecs.Entity) []any {
	if !s.world.Alive(e) {
		return nil
	}
	out := []any{*s.spriteMap.Get(e), *s.transformMap.Get(e)}
	if s.stringMap.Has(e) {
		out = append(out, *s.stringMap.Get(e))
	}
	if s.flightMap.Has(e) {
		out = append(out, *s.flightMap.Get(e))
	}
	return out
}

// Arrow returns the arrow entity.
func (s *Scene) Arrow() ecs.Entity { return s.arrow }

// Bow returns the bow entity.
func (s *Scene) Bow() ecs.Entity { return s.bow }

// Target returns the target entity.
func (s *Scene) Target() ecs.Entity { return s.target }
