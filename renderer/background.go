package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bowshot/camera"
)

// Playfield colors
var (
	ColorLetterbox = rl.Color{R: 20, G: 24, B: 30, A: 255}
	ColorSky       = rl.Color{R: 0x3d, G: 0x6f, B: 0x9c, A: 255}
	ColorSkyLow    = rl.Color{R: 0x6a, G: 0x96, B: 0xbd, A: 255}
	ColorGround    = rl.Color{R: 74, G: 104, B: 58, A: 255}
	ColorBand      = rl.Color{R: 255, G: 255, B: 255, A: 24}
)

// BackgroundRenderer draws the playfield behind the sprites.
type BackgroundRenderer struct {
	// miss band in world y: arrows falling past it are lost
	bandMin, bandMax float32
	showBand         bool
}

// NewBackgroundRenderer creates a background with the miss band at [bandMin, bandMax).
func NewBackgroundRenderer(bandMin, bandMax float32) *BackgroundRenderer {
	return &BackgroundRenderer{bandMin: bandMin, bandMax: bandMax}
}

// SetShowBand shows or hides the miss band overlay.
func (b *BackgroundRenderer) SetShowBand(show bool) {
	b.showBand = show
}

// ShowBand reports whether the miss band overlay is visible.
func (b *BackgroundRenderer) ShowBand() bool {
	return b.showBand
}

// Draw fills the window, then the playfield with a sky gradient and the
// ground below the bottom of the miss band.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(ColorLetterbox)

	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(cam.WorldW, cam.WorldH)
	_, gy := cam.WorldToScreen(0, b.bandMax)

	rl.DrawRectangleGradientV(int32(x0), int32(y0), int32(x1-x0), int32(gy-y0), ColorSky, ColorSkyLow)
	rl.DrawRectangle(int32(x0), int32(gy), int32(x1-x0), int32(y1-gy), ColorGround)

	if b.showBand {
		_, by := cam.WorldToScreen(0, b.bandMin)
		rl.DrawRectangle(int32(x0), int32(by), int32(x1-x0), int32(gy-by), ColorBand)
	}
}
