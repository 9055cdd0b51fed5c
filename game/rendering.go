package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bowshot/camera"
	"github.com/pthm-cable/bowshot/inspector"
	"github.com/pthm-cable/bowshot/renderer"
	"github.com/pthm-cable/bowshot/sim"
	"github.com/pthm-cable/bowshot/ui"
)

var (
	colorTrajectory = rl.Color{R: 255, G: 255, B: 255, A: 140}
	colorSelection  = rl.Color{R: 255, G: 220, B: 80, A: 255}
)

// initRendering creates the camera, renderers and panels.
func (g *Game) initRendering() {
	cfg := g.cfg
	g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	g.background = renderer.NewBackgroundRenderer(float32(cfg.MissBand.Min), float32(cfg.MissBand.Max))
	g.sprites = renderer.NewSpriteRenderer()
	g.inspector = inspector.NewInspector(int32(g.screenWidth))
	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(10, 70, 220, ui.Bindings())
	g.legend = ui.Legend(ui.Bindings())
	g.statsPanel = ui.NewShotStatsPanel(10, 70, 260)
	g.perfPanel = ui.NewPerfPanel(10, 70, 260)
}

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()

	g.background.SetShowBand(g.overlays.IsEnabled(ui.OverlayMissBand))
	g.background.Draw(g.camera)

	if g.overlays.IsEnabled(ui.OverlayTrajectory) {
		g.drawTrajectory()
	}

	g.sprites.Draw(g.camera, g.scene.Snapshot())
	g.drawSelection()
	g.drawUI()

	rl.EndDrawing()
}

// drawTrajectory previews the flight the current draw would produce.
func (g *Game) drawTrajectory() {
	if !g.drawing {
		g.trajectory = nil
		return
	}
	g.trajectory = g.solver.Trace(g.pointer)

	half := g.sim.Params().ArrowSize.Scale(0.5)
	for i, p := range g.trajectory {
		if i%3 != 0 {
			continue
		}
		c := p.Add(half)
		sx, sy := g.camera.WorldToScreen(float32(c.X), float32(c.Y))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, 2.5, colorTrajectory)
	}
}

// drawSelection outlines the sprite shown in the inspector.
func (g *Game) drawSelection() {
	e, ok := g.inspector.Selected()
	if !ok {
		return
	}
	for _, d := range g.scene.Snapshot() {
		if d.Entity != e {
			continue
		}
		x, y := g.camera.WorldToScreen(d.X, d.Y)
		rec := rl.Rectangle{X: x - 2, Y: y - 2, Width: d.W*g.camera.Zoom + 4, Height: d.H*g.camera.Zoom + 4}
		rl.DrawRectangleLinesEx(rec, 1.5, colorSelection)
		return
	}
}

// drawUI renders the HUD and panels and applies HUD button presses.
func (g *Game) drawUI() {
	action := g.hud.Draw(g.camera, ui.HUDData{
		Title:        g.cfg.Screen.Title,
		Score:        g.sim.Score(),
		Tick:         g.tick,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Aiming:       g.sim.State().Phase == sim.Aiming,
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})
	switch action {
	case ui.ActionTogglePause:
		g.paused = !g.paused
	case ui.ActionRestart:
		if err := g.Restart(); err != nil {
			slog.Error("failed to restart", "error", err)
		}
	}

	y := g.controls.Draw(g.overlays)
	if g.controls.IsVisible() {
		y += 8
	}
	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.statsPanel.SetPosition(10, y)
		y = g.statsPanel.Draw(g.totals) + 8
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(10, y)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	g.inspector.Draw(g.scene)
	g.hud.DrawControls(int32(g.screenHeight), g.legend)
}
