package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bowshot/sim"
	"github.com/pthm-cable/bowshot/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := g.Restart(); err != nil {
			slog.Error("failed to restart", "error", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyA) {
		slog.Info("autopilot toggled", "on", g.ToggleAutopilot())
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < MaxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	g.handleOverlayKeys()
	g.handleCameraInput()

	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	if g.inspector.HandleInput(mouse.X, mouse.Y, wx, wy, g.scene) {
		return
	}
	if g.paused || g.archer != nil {
		return
	}

	pressed := rl.IsMouseButtonPressed(rl.MouseButtonLeft) &&
		!ui.ButtonsContain(int32(g.screenWidth), mouse.X, mouse.Y)
	g.pointerInput(
		sim.Vec2{X: float64(wx), Y: float64(wy)},
		pressed,
		rl.IsMouseButtonReleased(rl.MouseButtonLeft),
	)
}

// pointerInput applies one frame of pointer state in world coordinates.
// The bow follows the pointer while aiming; a press starts a draw and the
// release that ends it fires the arrow.
func (g *Game) pointerInput(pointer sim.Vec2, pressed, released bool) {
	if g.sim.State().Phase != sim.Aiming {
		g.drawing = false
		return
	}
	g.aim(pointer)

	if pressed {
		g.drawing = true
	}
	if released && g.drawing {
		g.release(pointer)
	}
}

// handleOverlayKeys toggles the overlays bound to the keys pressed this frame.
func (g *Game) handleOverlayKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", string(id), "on", on)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.inspector.Resize(int32(w))
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
