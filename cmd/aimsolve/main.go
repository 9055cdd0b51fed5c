// Package main searches for a pointer release that scores, writing the full
// sweep and the chosen pull to an output directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/bowshot/aim"
	"github.com/pthm-cable/bowshot/config"
	"github.com/pthm-cable/bowshot/sim"
)

// solutionFile is the layout of solution.yaml.
type solutionFile struct {
	Found       bool    `yaml:"found"`
	PointerX    float64 `yaml:"pointer_x"`
	PointerY    float64 `yaml:"pointer_y"`
	PullX       float64 `yaml:"pull_x"`
	PullY       float64 `yaml:"pull_y"`
	FlightTicks int     `yaml:"flight_ticks"`
	ApexY       float64 `yaml:"apex_y"`
	Evals       int     `yaml:"evals"`
	Refined     bool    `yaml:"refined"`
	LiveHits    int     `yaml:"live_hits"`
	LiveShots   int     `yaml:"live_shots"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	outputDir := flag.String("output", "", "Output directory for results")
	gridSteps := flag.Int("grid-steps", 0, "Sweep points per axis (0 = use config)")
	maxEvals := flag.Int("max-evals", 0, "Nelder-Mead evaluation cap (0 = use config)")
	seeds := flag.Int("seeds", 20, "Random-threshold flights used to verify the pull")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	opts := aim.DefaultOptions()
	opts.GridSteps = cfg.Autopilot.GridSteps
	opts.MaxEvals = cfg.Autopilot.MaxEvals
	opts.MaxPull = cfg.Autopilot.MaxPull
	if *gridSteps > 0 {
		opts.GridSteps = *gridSteps
	}
	if *maxEvals > 0 {
		opts.MaxEvals = *maxEvals
	}

	params := cfg.SimParams()
	solver, err := aim.NewSolver(params, opts)
	if err != nil {
		log.Fatalf("failed to create solver: %v", err)
	}

	start := time.Now()
	sweep := solver.Sweep()
	hits := 0
	for _, o := range sweep {
		if o.Hit() {
			hits++
		}
	}
	fmt.Printf("Sweep: %d pulls, %d hits (%.1f%%) in %s\n",
		len(sweep), hits, 100*float64(hits)/float64(len(sweep)), time.Since(start).Round(time.Millisecond))

	sweepPath := filepath.Join(*outputDir, "sweep.csv")
	if err := writeSweep(sweepPath, aim.Ranked(sweep)); err != nil {
		log.Printf("failed to write sweep: %v", err)
	} else {
		fmt.Printf("Sweep saved to: %s\n", sweepPath)
	}

	out := solutionFile{}
	sol, err := solver.Solve()
	switch {
	case errors.Is(err, aim.ErrNoSolution):
		fmt.Printf("No scoring pull: %v\n", err)
	case err != nil:
		log.Fatalf("solve failed: %v", err)
	default:
		out = solutionFile{
			Found:       true,
			PointerX:    sol.Pointer.X,
			PointerY:    sol.Pointer.Y,
			PullX:       sol.Outcome.PullX,
			PullY:       sol.Outcome.PullY,
			FlightTicks: sol.Outcome.Ticks,
			ApexY:       sol.Outcome.ApexY,
			Evals:       sol.Evals,
			Refined:     sol.Refined,
		}
		out.LiveHits, out.LiveShots = verify(params, sol.Pointer, *seeds)

		fmt.Printf("\nScoring pull found after %d evaluations (refined: %v)\n", sol.Evals, sol.Refined)
		fmt.Printf("  pointer: (%.2f, %.2f)\n", sol.Pointer.X, sol.Pointer.Y)
		fmt.Printf("  pull:    (%.2f, %.2f)\n", sol.Outcome.PullX, sol.Outcome.PullY)
		fmt.Printf("  flight:  %d ticks, apex y %.1f\n", sol.Outcome.Ticks, sol.Outcome.ApexY)
		fmt.Printf("  live:    %d/%d hits\n", out.LiveHits, out.LiveShots)
	}

	solPath := filepath.Join(*outputDir, "solution.yaml")
	if err := writeSolution(solPath, out); err != nil {
		log.Printf("failed to write solution: %v", err)
	} else {
		fmt.Printf("Solution saved to: %s\n", solPath)
	}
}

// verify fires pointer in live sessions with random fall-out thresholds.
func verify(params sim.Params, pointer sim.Vec2, seeds int) (hits, shots int) {
	for i := 0; i < seeds; i++ {
		s, err := sim.New(params, rand.New(rand.NewSource(int64(i*1000+42))))
		if err != nil {
			return hits, shots
		}
		if _, ok := s.TriggerShot(pointer); !ok {
			continue
		}
		shots++
		for t := 0; t < aim.DefaultOptions().MaxFlightTicks; t++ {
			if r := s.Tick(); r.Event != sim.EventNone {
				if r.Event == sim.EventHit {
					hits++
				}
				break
			}
		}
	}
	return hits, shots
}

func writeSweep(path string, outcomes []aim.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&outcomes, f)
}

func writeSolution(path string, sol solutionFile) error {
	data, err := yaml.Marshal(sol)
	if err != nil {
		return fmt.Errorf("marshaling solution: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
