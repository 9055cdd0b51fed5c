// Package game runs a bowshot session: it feeds pointer input to the
// simulator, mirrors each tick into the scene, and records telemetry.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/pthm-cable/bowshot/aim"
	"github.com/pthm-cable/bowshot/camera"
	"github.com/pthm-cable/bowshot/config"
	"github.com/pthm-cable/bowshot/inspector"
	"github.com/pthm-cable/bowshot/renderer"
	"github.com/pthm-cable/bowshot/scene"
	"github.com/pthm-cable/bowshot/sim"
	"github.com/pthm-cable/bowshot/telemetry"
	"github.com/pthm-cable/bowshot/ui"
)

// MaxStepsPerUpdate caps the simulation speed multiplier.
const MaxStepsPerUpdate = 10

// Options configures a game session.
type Options struct {
	Seed           int64
	Headless       bool
	OutputDir      string // empty = no CSV output
	LogStats       bool
	StatsWindow    int // ticks per stats window, 0 = config value
	StepsPerUpdate int
	Autopilot      bool // scripted archer in graphics mode; always on when headless

	Config        *config.Config // nil = config.Cfg()
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete session state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	sessionID string
	sim       *sim.Simulator
	scene     *scene.Scene
	solver    *aim.Solver
	archer    *autopilot

	// Pointer state
	pointer sim.Vec2
	drawing bool

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	shotCount        int
	pending          *telemetry.ShotRecord
	totals           ui.ShotStatsData

	// Rendering, nil when headless
	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	sprites    *renderer.SpriteRenderer
	inspector  *inspector.Inspector
	overlays   *ui.OverlayRegistry
	hud        *ui.HUD
	controls   *ui.ControlsPanel
	legend     string
	statsPanel *ui.ShotStatsPanel
	perfPanel  *ui.PerfPanel
	trajectory []sim.Vec2

	// State
	tick           int32
	paused         bool
	headless       bool
	logStats       bool
	stepsPerUpdate int

	screenWidth, screenHeight float32
}

// NewGame creates a graphical session with default options.
func NewGame() (*Game, error) {
	return NewGameWithOptions(Options{Seed: 42, StepsPerUpdate: 1})
}

// NewGameWithOptions creates a session. In graphics mode the raylib window
// must already be open. It fails when the config does not describe a
// playable game.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:              cfg,
		rng:              rand.New(rand.NewSource(opts.Seed)),
		rngSeed:          opts.Seed,
		headless:         opts.Headless,
		logStats:         opts.LogStats,
		stepsPerUpdate:   min(steps, MaxStepsPerUpdate),
		statsCallback:    opts.StatsCallback,
		collector:        telemetry.NewCollector(statsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		screenWidth:      cfg.Derived.ScreenW32,
		screenHeight:     cfg.Derived.ScreenH32,
	}

	params := cfg.SimParams()
	var err error
	if g.sim, err = sim.New(params, g.rng); err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}
	g.scene = scene.New(params)
	g.solver, err = aim.NewSolver(params, aim.Options{
		GridSteps:      cfg.Autopilot.GridSteps,
		MaxEvals:       cfg.Autopilot.MaxEvals,
		MaxPull:        cfg.Autopilot.MaxPull,
		MaxFlightTicks: aim.DefaultOptions().MaxFlightTicks,
	})
	if err != nil {
		return nil, fmt.Errorf("creating aim solver: %w", err)
	}
	g.sessionID = uuid.NewString()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if opts.Headless || opts.Autopilot {
		g.archer = newAutopilot(g.solver, cfg.Autopilot)
	}
	if !opts.Headless {
		g.initRendering()
	}

	slog.Info("session started",
		"session", g.sessionID,
		"seed", g.rngSeed,
		"headless", g.headless,
		"autopilot", g.archer != nil,
		"stats_window", statsWindow,
	)
	return g, nil
}

// Update runs one frame in graphics mode: input, then the simulation steps.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	if g.paused {
		g.perfCollector.EndTick()
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		if i > 0 {
			g.perfCollector.StartTick()
		}
		g.simulationStep()
		g.perfCollector.EndTick()
	}
}

// UpdateHeadless runs the simulation steps without input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.perfCollector.StartTick()
		g.simulationStep()
		g.perfCollector.EndTick()
	}
}

// simulationStep advances the session by one tick.
func (g *Game) simulationStep() {
	g.perfCollector.StartPhase(telemetry.PhaseSimulate)
	if g.archer != nil && g.sim.State().Phase == sim.Aiming {
		ptr, release := g.archer.next(g.rng)
		g.aim(ptr)
		g.drawing = !release
		if release {
			g.release(ptr)
		}
	}

	res := g.sim.Tick()
	g.tick++
	if res.Event != sim.EventNone {
		g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
		g.finishShot(res)
	}

	g.perfCollector.StartPhase(telemetry.PhaseScene)
	g.syncScene(res)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// aim points the bow at a world-space pointer while aiming.
func (g *Game) aim(pointer sim.Vec2) {
	g.pointer = pointer
	g.sim.Aim(pointer)
}

// release fires the arrow from pointer. Releases during a flight are ignored.
func (g *Game) release(pointer sim.Vec2) {
	g.drawing = false
	shot, ok := g.sim.TriggerShot(pointer)
	if !ok {
		return
	}
	g.shotCount++
	rec := telemetry.NewShotRecord(g.sessionID, g.shotCount, g.tick, shot)
	g.pending = &rec
	slog.Debug("shot released",
		"shot", rec.Shot,
		"tick", g.tick,
		"heading", shot.Heading,
		"vx", shot.Velocity.X,
		"vy", shot.Velocity.Y,
	)
}

// syncScene mirrors the simulator into the scene.
func (g *Game) syncScene(res sim.Result) {
	launch := g.sim.Params().LaunchPoint
	g.scene.Sync(scene.Frame{
		Arrow:       g.sim.State(),
		FlightTicks: res.FlightTicks,
		Pull:        g.pointer.Sub(launch),
		Drawing:     g.drawing && res.Phase == sim.Aiming,
	})
}

// Restart starts a fresh session with a new simulator, a zero score and a
// new session ID. The random stream carries on so restarted sessions differ.
// On error the current session is left untouched.
func (g *Game) Restart() error {
	s, err := sim.New(g.cfg.SimParams(), g.rng)
	if err != nil {
		return fmt.Errorf("restarting session: %w", err)
	}
	if g.pending != nil {
		slog.Info("shot abandoned by restart", "shot", g.pending.Shot)
		g.pending = nil
	}
	g.sim = s
	g.sessionID = uuid.NewString()
	g.shotCount = 0
	g.totals = ui.ShotStatsData{}
	g.drawing = false
	g.trajectory = nil
	g.collector.Reset(g.tick)
	if g.archer != nil {
		g.archer.held = 0
	}
	g.syncScene(sim.Result{Phase: sim.Aiming})
	slog.Info("session restarted", "session", g.sessionID, "tick", g.tick)
	return nil
}

// ToggleAutopilot switches the scripted archer on or off.
func (g *Game) ToggleAutopilot() bool {
	if g.archer != nil {
		g.archer = nil
		g.drawing = false
		return false
	}
	g.archer = newAutopilot(g.solver, g.cfg.Autopilot)
	return true
}

// Unload flushes output and releases resources.
func (g *Game) Unload() {
	if g.pending != nil {
		slog.Info("session ended mid-flight", "shot", g.pending.Shot)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	slog.Info("session ended",
		"session", g.sessionID,
		"tick", g.tick,
		"shots", g.totals.Shots,
		"hits", g.totals.Hits,
		"score", g.sim.Score(),
	)
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Score returns the session score.
func (g *Game) Score() int {
	return g.sim.Score()
}

// SessionID returns the ID written to shots.csv.
func (g *Game) SessionID() string {
	return g.sessionID
}

// Totals returns shot counts for the current session.
func (g *Game) Totals() ui.ShotStatsData {
	return g.totals
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}
