package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	fixedDT := flag.Float64("fixed-dt", 1.0/60.0, "Tick length in headless mode (seconds)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := sim.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Headless:  *headless,
	}

	if *headless {
		// Headless mode - pure CPU simulation with a fixed tick, no raylib needed
		s, err := sim.New(opts)
		if err != nil {
			slog.Error("failed to create simulation", "error", err)
			os.Exit(1)
		}
		defer s.Close()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"fixed_dt", *fixedDT,
			"max_ticks", *maxTicks,
		)

		for {
			s.Step(*fixedDT)

			if *maxTicks > 0 && int(s.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", s.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "ripple")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	s, err := sim.New(opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	for !rl.WindowShouldClose() {
		s.HandleInput()
		s.Step(float64(rl.GetFrameTime()))
		s.Draw()

		if *maxTicks > 0 && int(s.Tick()) >= *maxTicks {
			break
		}
	}
}
