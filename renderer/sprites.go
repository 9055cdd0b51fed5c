// Package renderer draws the playfield and its sprites with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bowshot/camera"
	"github.com/pthm-cable/bowshot/components"
	"github.com/pthm-cable/bowshot/scene"
)

// Sprite colors
var (
	ColorBowWood   = rl.Color{R: 120, G: 72, B: 36, A: 255}
	ColorString    = rl.Color{R: 235, G: 235, B: 220, A: 255}
	ColorShaft     = rl.Color{R: 190, G: 150, B: 90, A: 255}
	ColorHead      = rl.Color{R: 170, G: 170, B: 180, A: 255}
	ColorFletching = rl.Color{R: 200, G: 60, B: 50, A: 255}
	ColorBag       = rl.Color{R: 196, G: 164, B: 112, A: 255}
	ColorBagRing   = rl.Color{R: 180, G: 40, B: 40, A: 255}
	ColorBagLine   = rl.Color{R: 120, G: 96, B: 60, A: 255}
)

// bowSegments is the number of line segments in the bow limb curve.
const bowSegments = 12

// SpriteRenderer draws scene snapshots.
type SpriteRenderer struct{}

// NewSpriteRenderer creates a new sprite renderer.
func NewSpriteRenderer() *SpriteRenderer {
	return &SpriteRenderer{}
}

// Draw renders every visible drawable in order.
func (r *SpriteRenderer) Draw(cam *camera.Camera, drawables []scene.Drawable) {
	for _, d := range drawables {
		if !cam.IsVisible(d.X, d.Y, d.W, d.H) {
			continue
		}
		switch d.Kind {
		case components.KindTarget:
			r.drawBag(cam, d)
		case components.KindBow:
			r.drawBow(cam, d)
		case components.KindArrow:
			r.drawArrow(cam, d)
		}
	}
}

// drawBag draws the target as a hanging sandbag with rings.
func (r *SpriteRenderer) drawBag(cam *camera.Camera, d scene.Drawable) {
	x, y := cam.WorldToScreen(d.X, d.Y)
	w, h := d.W*cam.Zoom, d.H*cam.Zoom
	rec := rl.Rectangle{X: x, Y: y, Width: w, Height: h}

	topX, _ := cam.WorldToScreen(d.X+d.W/2, 0)
	rl.DrawLineEx(rl.Vector2{X: topX, Y: y - 60*cam.Zoom}, rl.Vector2{X: topX, Y: y}, 2, ColorBagLine)

	rl.DrawRectangleRounded(rec, 0.3, 8, ColorBag)
	rl.DrawRectangleRoundedLinesEx(rec, 0.3, 8, 2, ColorBagLine)

	cx, cy := x+w/2, y+h/2
	radius := float32(math.Min(float64(w), float64(h))) * 0.35
	rl.DrawCircleLines(int32(cx), int32(cy), radius, ColorBagRing)
	rl.DrawCircleLines(int32(cx), int32(cy), radius*0.6, ColorBagRing)
	rl.DrawCircle(int32(cx), int32(cy), radius*0.2, ColorBagRing)
}

// drawBow draws the limb as a curve and the string, pulled back when drawn.
func (r *SpriteRenderer) drawBow(cam *camera.Camera, d scene.Drawable) {
	cx, cy := d.X+d.W/2, d.Y+d.H/2
	limb := BowLimb(cx, cy, d.W, d.H, d.Angle)

	points := make([]rl.Vector2, len(limb))
	for i, p := range limb {
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		points[i] = rl.Vector2{X: sx, Y: sy}
	}
	for i := 1; i < len(points); i++ {
		rl.DrawLineEx(points[i-1], points[i], 4*cam.Zoom, ColorBowWood)
	}

	top, bottom := points[0], points[len(points)-1]
	if d.String == nil || !d.String.Drawn {
		rl.DrawLineEx(top, bottom, 1.5, ColorString)
		return
	}
	nx, ny := cam.WorldToScreen(cx+d.String.PullX, cy+d.String.PullY)
	nock := rl.Vector2{X: nx, Y: ny}
	rl.DrawLineEx(top, nock, 1.5, ColorString)
	rl.DrawLineEx(nock, bottom, 1.5, ColorString)
}

// drawArrow draws shaft, head and fletching rotated about the sprite centre.
func (r *SpriteRenderer) drawArrow(cam *camera.Camera, d scene.Drawable) {
	cx, cy := cam.WorldToScreen(d.X+d.W/2, d.Y+d.H/2)
	w, h := d.W*cam.Zoom, d.H*cam.Zoom

	// Local frame: +x along the shaft towards the head.
	at := func(lx, ly float32) rl.Vector2 {
		x, y := Rotate(lx, ly, d.Angle)
		return rl.Vector2{X: cx + x, Y: cy + y}
	}

	rl.DrawLineEx(at(-w/2, 0), at(w/2-h, 0), maxf(1, h/4), ColorShaft)
	rl.DrawTriangle(at(w/2, 0), at(w/2-h, -h/2), at(w/2-h, h/2), ColorHead)
	rl.DrawTriangle(at(-w/2+h, 0), at(-w/2, -h/2), at(-w/2, 0), ColorFletching)
	rl.DrawTriangle(at(-w/2+h, 0), at(-w/2, 0), at(-w/2, h/2), ColorFletching)
}

// Rotate turns a local offset clockwise by degrees, with y pointing down.
func Rotate(x, y, degrees float32) (float32, float32) {
	s, c := math.Sincos(float64(degrees) * math.Pi / 180)
	fx, fy := float64(x), float64(y)
	return float32(fx*c - fy*s), float32(fx*s + fy*c)
}

// BowLimb returns the limb curve of a bow centred on (cx, cy), from the top
// tip to the bottom tip, rotated by degrees. Unrotated, the limb bulges to
// the right, the direction the arrow points.
func BowLimb(cx, cy, w, h, degrees float32) []rl.Vector2 {
	out := make([]rl.Vector2, bowSegments+1)
	for i := range out {
		t := float64(i)/bowSegments*2 - 1 // -1 at the top tip, 1 at the bottom
		lx := float32(1-t*t)*w - w/2
		ly := float32(t) * h / 2
		rx, ry := Rotate(lx, ly, degrees)
		out[i] = rl.Vector2{X: cx + rx, Y: cy + ry}
	}
	return out
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
