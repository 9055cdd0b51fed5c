// Package components defines ECS components for the scene.
package components

// SpriteKind identifies what a sprite entity draws.
type SpriteKind uint8

const (
	KindTarget SpriteKind = iota
	KindBow
	KindArrow
)

func (k SpriteKind) String() string {
	switch k {
	case KindTarget:
		return "target"
	case KindBow:
		return "bow"
	case KindArrow:
		return "arrow"
	default:
		return "unknown"
	}
}

// Transform places a sprite. X, Y is the top-left corner of the unrotated
// sprite; Angle is a clockwise rotation in degrees about its centre.
type Transform struct {
	X     float32 `inspect:"label,fmt:%.1f"`
	Y     float32 `inspect:"label,fmt:%.1f"`
	Angle float32 `inspect:"angle"`
}

// Sprite describes how an entity is drawn.
type Sprite struct {
	Kind  SpriteKind `inspect:"label"`
	W, H  float32    `inspect:"label,fmt:%.0f"`
	Layer int        `inspect:"skip"` // draw order, low first
}

// Bowstring is the pull held on the bow while the pointer is down.
type Bowstring struct {
	PullX, PullY float32 `inspect:"label,fmt:%.0f"`
	Drawn        bool    `inspect:"bool"`
}

// Flight mirrors the arrow's motion for display.
type Flight struct {
	VX, VY   float32 `inspect:"label,fmt:%.2f"`
	Speed    float32 `inspect:"bar,max:40"`
	InFlight bool    `inspect:"bool"`
	Ticks    int     `inspect:"label"`
}
