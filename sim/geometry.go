package sim

import "math"

// Vec2 is a 2D coordinate or vector in screen space (Y grows downward).
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Finite reports whether both components are neither NaN nor infinite.
func (v Vec2) Finite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Rect is an axis-aligned box anchored at its top-left corner.
// The box covers [X, X+W] x [Y, Y+H].
type Rect struct {
	X, Y float64
	W, H float64
}

// Finite reports whether every field is neither NaN nor infinite.
func (r Rect) Finite() bool {
	return isFinite(r.X) && isFinite(r.Y) && isFinite(r.W) && isFinite(r.H)
}

// Overlaps reports whether a and b intersect on both axes.
//
// Coordinates are truncated to integers first, so sub-pixel contact at an
// edge does not count. Intervals are closed: boxes that share a single
// boundary pixel overlap.
func Overlaps(a, b Rect) bool {
	ax, ay, aw, ah := trunc(a.X), trunc(a.Y), trunc(a.W), trunc(a.H)
	bx, by, bw, bh := trunc(b.X), trunc(b.Y), trunc(b.W), trunc(b.H)

	horizontal := within(ax, bx, bx+bw) || within(bx, ax, ax+aw)
	vertical := within(ay, by, by+bh) || within(by, ay, ay+ah)
	return horizontal && vertical
}

// within reports whether v lies in the closed interval [lo, hi].
func within(v, lo, hi int64) bool {
	return v >= lo && v <= hi
}

func trunc(f float64) int64 {
	return int64(f)
}

// headingDegrees converts a screen-space direction into a sprite angle in
// degrees where 0 points up.
func headingDegrees(dx, dy float64) float64 {
	return math.Atan2(dx, -dy) * 180 / math.Pi
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
