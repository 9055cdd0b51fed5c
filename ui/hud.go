package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bowshot/camera"
	"github.com/pthm-cable/bowshot/telemetry"
)

// Playfield positions and sizes of the title and the score, in world units.
const (
	TitleX, TitleY = 60, 20
	TitleSize      = 20
	ScoreX, ScoreY = 600, 20
	ScoreSize      = 30
)

// Action is a request made through a HUD button.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionRestart
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Score        int
	Tick         int32
	FPS          int32
	Paused       bool
	Aiming       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// ScoreText is the score label.
func ScoreText(score int) string {
	return fmt.Sprintf("Score %d", score)
}

// StatusText summarises the loop state for the status line.
func StatusText(data HUDData) string {
	state := "In flight"
	switch {
	case data.Paused:
		state = "PAUSED"
	case data.Aiming:
		state = "Aiming"
	}
	return fmt.Sprintf("%s | Tick: %d | FPS: %d", state, data.Tick, data.FPS)
}

// Draw renders the title and score on the playfield, the status line, and
// the Pause and Restart buttons. It returns the button pressed, if any.
func (h *HUD) Draw(cam *camera.Camera, data HUDData) Action {
	drawWorldText(cam, data.Title, TitleX, TitleY, TitleSize, rl.Yellow)
	drawWorldText(cam, ScoreText(data.Score), ScoreX, ScoreY, ScoreSize, rl.Yellow)

	statusColor := rl.LightGray
	if data.Paused {
		statusColor = rl.Yellow
	}
	rl.DrawText(StatusText(data), 10, data.ScreenHeight-50, 16, statusColor)

	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	bx := float32(data.ScreenWidth) - 230
	action := ActionNone
	if gui.Button(rl.Rectangle{X: bx, Y: 10, Width: 100, Height: 30}, pauseLabel) {
		action = ActionTogglePause
	}
	if gui.Button(rl.Rectangle{X: bx + 110, Y: 10, Width: 100, Height: 30}, "Restart") {
		action = ActionRestart
	}
	return action
}

// ButtonsContain reports whether a screen point lies on the HUD buttons, so
// clicks there do not start a draw.
func ButtonsContain(screenWidth int32, sx, sy float32) bool {
	bx := float32(screenWidth) - 230
	return sx >= bx && sx <= bx+210 && sy >= 10 && sy <= 40
}

// drawWorldText draws text anchored at a playfield position, scaled with the camera.
func drawWorldText(cam *camera.Camera, text string, wx, wy float32, size int32, color rl.Color) {
	sx, sy := cam.WorldToScreen(wx, wy)
	scaled := int32(float32(size) * cam.Zoom)
	if scaled < 10 {
		scaled = 10
	}
	rl.DrawText(text, int32(sx), int32(sy), scaled, color)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders tick phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	padding := r.Theme.Padding
	phases := []string{
		telemetry.PhaseInput, telemetry.PhaseSimulate,
		telemetry.PhaseScene, telemetry.PhaseTelemetry,
	}
	height := r.Theme.LineHeight*int32(len(phases)+3) + padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Performance")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%s avg, %s max",
		stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.0f", stats.FPS))
	for _, phase := range phases {
		y = r.DrawLabelValue(x, y, phase, fmt.Sprintf("%5.1f%%", stats.PhasePct[phase]))
	}
}
