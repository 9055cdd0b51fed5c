package game

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/bowshot/config"
	"github.com/pthm-cable/bowshot/sim"
	"github.com/pthm-cable/bowshot/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Autopilot.Jitter = 0
	cfg.Autopilot.IntervalTicks = 5
	return cfg
}

func newHeadless(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	opts.Config = cfg
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func run(g *Game, ticks int) {
	for int(g.Tick()) < ticks {
		g.UpdateHeadless()
	}
}

func TestHeadlessAutopilotScores(t *testing.T) {
	cfg := testConfig(t)
	g := newHeadless(t, cfg, Options{})

	run(g, 600)

	totals := g.Totals()
	if totals.Shots < 5 {
		t.Fatalf("shots = %d, want at least 5 in 600 ticks", totals.Shots)
	}
	if totals.Hits != totals.Shots {
		t.Errorf("hits = %d, want every one of %d noiseless shots", totals.Hits, totals.Shots)
	}
	if want := totals.Hits * cfg.Scoring.Award; g.Score() != want {
		t.Errorf("Score() = %d, want %d", g.Score(), want)
	}
	if totals.BestStreak != totals.Hits {
		t.Errorf("best streak = %d, want %d", totals.BestStreak, totals.Hits)
	}
}

func TestHeadlessDeterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Autopilot.Jitter = 40

	a := newHeadless(t, cfg, Options{Seed: 99})
	b := newHeadless(t, cfg, Options{Seed: 99})
	run(a, 800)
	run(b, 800)

	if a.Totals() != b.Totals() || a.Score() != b.Score() {
		t.Errorf("same seed diverged: %+v score %d vs %+v score %d",
			a.Totals(), a.Score(), b.Totals(), b.Score())
	}
}

func TestStepsPerUpdate(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{StepsPerUpdate: 4})
	g.UpdateHeadless()
	if g.Tick() != 4 {
		t.Errorf("Tick() = %d, want 4", g.Tick())
	}

	capped := newHeadless(t, testConfig(t), Options{StepsPerUpdate: 50})
	capped.UpdateHeadless()
	if capped.Tick() != MaxStepsPerUpdate {
		t.Errorf("Tick() = %d, want %d", capped.Tick(), MaxStepsPerUpdate)
	}
}

func TestStatsCallbackPerWindow(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newHeadless(t, testConfig(t), Options{
		StatsWindow:   100,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	run(g, 300)

	if len(windows) != 3 {
		t.Fatalf("windows = %d, want 3", len(windows))
	}
	shots := 0
	for i, w := range windows {
		if w.WindowEndTick != int32(100*(i+1)) {
			t.Errorf("window %d ends at %d, want %d", i, w.WindowEndTick, 100*(i+1))
		}
		shots += w.Shots
	}
	if shots != g.Totals().Shots {
		t.Errorf("window shots sum = %d, want %d", shots, g.Totals().Shots)
	}
}

func TestHeadlessWritesOutput(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGameWithOptions(Options{
		Headless:    true,
		Seed:        3,
		OutputDir:   dir,
		StatsWindow: 200,
		Config:      testConfig(t),
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	run(g, 400)
	g.Unload()

	for _, name := range []string{"config.yaml", "shots.csv", "telemetry.csv", "perf.csv", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "shots.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var shots []telemetry.ShotRecord
	if err := gocsv.UnmarshalBytes(data, &shots); err != nil {
		t.Fatalf("parsing shots.csv: %v", err)
	}
	if len(shots) != g.Totals().Shots {
		t.Fatalf("shots.csv rows = %d, want %d", len(shots), g.Totals().Shots)
	}
	for i, s := range shots {
		if s.Session != g.SessionID() {
			t.Errorf("row %d session = %q, want %q", i, s.Session, g.SessionID())
		}
		if s.Shot != i+1 {
			t.Errorf("row %d shot = %d, want %d", i, s.Shot, i+1)
		}
		if s.EndTick <= s.FireTick {
			t.Errorf("row %d ends at %d, fired at %d", i, s.EndTick, s.FireTick)
		}
	}

	// Five straight hits make a hot streak.
	if len(shots) < 5 {
		t.Fatalf("only %d shots, want at least 5", len(shots))
	}
	bm, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var bookmarks []telemetry.Bookmark
	if err := gocsv.UnmarshalBytes(bm, &bookmarks); err != nil {
		t.Fatalf("parsing bookmarks.csv: %v", err)
	}
	if len(bookmarks) == 0 || bookmarks[0].Type != telemetry.BookmarkHotStreak {
		t.Errorf("bookmarks = %+v, want a hot streak first", bookmarks)
	}
}

func TestNewGameWithOptionsRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero velocity divisor", func(c *config.Config) { c.Physics.VelocityDivisor = 0 }},
		{"zero max pull", func(c *config.Config) { c.Autopilot.MaxPull = 0 }},
		{"empty miss band", func(c *config.Config) { c.MissBand.Min, c.MissBand.Max = 500, 400 }},
		{"non-finite gravity", func(c *config.Config) { c.Physics.Gravity = math.Inf(1) }},
		{"one grid step", func(c *config.Config) { c.Autopilot.GridSteps = 1 }},
	}

	for _, tt := range tests {
		for _, autopilot := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/autopilot=%v", tt.name, autopilot), func(t *testing.T) {
				cfg := testConfig(t)
				tt.mutate(cfg)

				g, err := NewGameWithOptions(Options{
					Headless:  !autopilot,
					Autopilot: autopilot,
					Seed:      1,
					Config:    cfg,
				})
				if err == nil {
					g.Unload()
					t.Fatal("NewGameWithOptions accepted an invalid config")
				}
				if g != nil {
					t.Errorf("game = %v, want nil on error", g)
				}
			})
		}
	}
}

func TestRestartKeepsSessionOnError(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})
	run(g, 300)
	score, session := g.Score(), g.SessionID()
	divisor := g.cfg.Physics.VelocityDivisor

	g.cfg.Physics.VelocityDivisor = 0
	if err := g.Restart(); err == nil {
		t.Fatal("Restart accepted an invalid config")
	}
	if g.Score() != score || g.SessionID() != session {
		t.Errorf("failed restart changed the session: score %d -> %d, session %q -> %q",
			score, g.Score(), session, g.SessionID())
	}

	g.cfg.Physics.VelocityDivisor = divisor
	run(g, 600)
	if g.Score() <= score {
		t.Errorf("Score() = %d after more ticks, want above %d", g.Score(), score)
	}
}

func TestPointerInput(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})
	g.archer = nil

	ptr := sim.Vec2{X: 0, Y: 468}
	g.pointerInput(ptr, false, false)
	if g.drawing {
		t.Error("hover should not start a draw")
	}
	if h := g.sim.State().Heading; h == 0 {
		t.Error("hover should aim the bow")
	}

	// A release without a press does not fire.
	g.pointerInput(ptr, false, true)
	if g.sim.State().Phase != sim.Aiming {
		t.Fatal("release without a draw fired the arrow")
	}

	g.pointerInput(ptr, true, false)
	if !g.drawing {
		t.Fatal("press should start a draw")
	}
	g.pointerInput(ptr, false, true)
	if g.sim.State().Phase != sim.InFlight {
		t.Fatal("release should fire the arrow")
	}
	if g.pending == nil || g.pending.Shot != 1 {
		t.Fatalf("pending = %+v, want shot 1", g.pending)
	}

	// Input during the flight changes nothing.
	before := g.sim.State()
	g.pointerInput(sim.Vec2{X: 10, Y: 10}, true, true)
	if g.sim.State() != before || g.drawing {
		t.Error("pointer input in flight changed state")
	}

	// The known pull hits on tick 27.
	for i := 0; i < 27; i++ {
		g.simulationStep()
	}
	if g.Score() != g.cfg.Scoring.Award {
		t.Errorf("Score() = %d, want %d", g.Score(), g.cfg.Scoring.Award)
	}
	if g.pending != nil {
		t.Error("pending shot not closed")
	}
	if got := g.Totals(); got.Shots != 1 || got.Hits != 1 || got.LastTicks != 27 || got.LastOutcome != "hit" {
		t.Errorf("Totals() = %+v", got)
	}
}

func TestRestart(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})
	run(g, 300)
	if g.Score() == 0 {
		t.Fatal("expected some score before restart")
	}
	oldSession := g.SessionID()
	tick := g.Tick()

	if err := g.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}

	if g.Score() != 0 {
		t.Errorf("Score() after restart = %d, want 0", g.Score())
	}
	if g.Totals().Shots != 0 {
		t.Errorf("shots after restart = %d, want 0", g.Totals().Shots)
	}
	if g.SessionID() == oldSession {
		t.Error("restart kept the session ID")
	}
	if g.Tick() != tick {
		t.Errorf("restart moved the tick from %d to %d", tick, g.Tick())
	}
	if g.pending != nil || g.sim.State().Phase != sim.Aiming {
		t.Error("restart should leave the arrow on the bow")
	}
}

func TestAutopilotNext(t *testing.T) {
	a := &autopilot{pointer: sim.Vec2{X: 1, Y: 2}, interval: 2}

	var releases []bool
	for i := 0; i < 6; i++ {
		p, release := a.next(nil)
		if p != a.pointer {
			t.Errorf("call %d pointer = %v, want %v without jitter", i, p, a.pointer)
		}
		releases = append(releases, release)
	}
	want := []bool{false, false, true, false, false, true}
	for i := range want {
		if releases[i] != want[i] {
			t.Errorf("release pattern = %v, want %v", releases, want)
			break
		}
	}
}

func TestToggleAutopilot(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})
	if g.ToggleAutopilot() {
		t.Error("headless game starts with the autopilot on; toggle should turn it off")
	}
	if g.archer != nil {
		t.Error("archer still set")
	}
	if !g.ToggleAutopilot() || g.archer == nil {
		t.Error("second toggle should turn the autopilot on")
	}
}
