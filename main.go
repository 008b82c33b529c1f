package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/sim"
	"github.com/pthm-cable/antfarm/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 36000, "Stop after N ticks")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot (empty = config default)")
	statsWindow := flag.Int64("stats-window", 0, "Stats window size in ticks (0 = use config)")
	logStats := flag.Bool("log-stats", true, "Output window stats via slog")
	snapshotEvery := flag.Int64("snapshot-every", 0, "Save a world snapshot every N ticks (0 = final only)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	// Set up slog (JSON to stderr for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	windowTicks := cfg.Telemetry.WindowTicks
	if *statsWindow > 0 {
		windowTicks = *statsWindow
	}

	dir := cfg.Telemetry.OutputDir
	if *outputDir != "" {
		dir = *outputDir
	}
	if !cfg.Telemetry.Enabled {
		dir = ""
	}

	output, err := telemetry.NewOutputManager(dir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	s := sim.New(cfg)
	collector := telemetry.NewCollector(windowTicks, cfg.World.DT)
	s.Colony.SetRecorder(collector)

	perf := telemetry.NewPerfCollector(int(windowTicks))
	s.SetPerf(perf)

	slog.Info("starting simulation",
		"run_id", output.RunID(),
		"seed", cfg.World.Seed,
		"max_ticks", *maxTicks,
		"stats_window", windowTicks,
		"world", fmt.Sprintf("%gx%g", cfg.World.Width, cfg.World.Height),
		"initial_ants", cfg.Colony.InitialAnts,
		"food_sources", cfg.Food.Sources,
	)

	for s.Tick() < *maxTicks {
		s.Step()

		if collector.ShouldFlush(s.Tick()) {
			// Window aggregation and CSV writes count as their own
			// perf sample under the telemetry phase.
			perf.StartTick()
			perf.StartPhase(telemetry.PhaseTelemetry)
			stats := collector.Flush(
				s.Tick(),
				s.Colony.Stats(),
				s.Field.Stats(),
				s.Field.Strengths(),
				s.Field.Qualities(),
				s.Food.TotalAvailable(),
			)
			if *logStats {
				stats.LogStats()
			}
			if err := output.WriteTelemetry(stats); err != nil {
				slog.Error("failed to write telemetry", "error", err)
			}
			perf.EndTick()

			perfStats := perf.Stats()
			if *logStats {
				perfStats.LogStats()
			}
			if err := output.WritePerf(perfStats, s.Tick()); err != nil {
				slog.Error("failed to write perf stats", "error", err)
			}
		}

		if output != nil && *snapshotEvery > 0 && s.Tick()%*snapshotEvery == 0 {
			saveSnapshot(s, output)
		}
	}

	if output != nil {
		saveSnapshot(s, output)
	}

	printSummary(s)
	slog.Info("simulation finished", "tick", s.Tick(), "output", output.Dir())
}

func saveSnapshot(s *sim.Simulation, output *telemetry.OutputManager) {
	path, err := telemetry.SaveSnapshot(s.Snapshot(), output.Dir())
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "tick", s.Tick(), "path", path)
}

var (
	summaryHeader = color.New(color.FgCyan, color.Bold)
	summaryLabel  = color.New(color.FgHiBlack)
	summaryValue  = color.New(color.FgGreen)
)

// printSummary writes a human-readable end-of-run report to stdout, apart
// from the structured log stream.
func printSummary(s *sim.Simulation) {
	cs := s.Colony.Stats()
	ps := s.Field.Stats()

	summaryHeader.Println("=== colony summary ===")
	row := func(label string, format string, args ...any) {
		summaryLabel.Printf("%-16s", label)
		summaryValue.Printf(format+"\n", args...)
	}
	row("ticks", "%d", cs.Tick)
	row("population", "%d / %d", cs.Population, cs.MaxPopulation)
	row("brood", "%d eggs, %d pupae", cs.Eggs, cs.Pupae)
	row("level", "%d", cs.Level)
	row("food stored", "%.1f / %.1f", cs.FoodStorage, cs.MaxFoodStorage)
	row("food collected", "%.1f", cs.TotalCollected)
	row("spawned", "%d", cs.TotalSpawned)
	row("died", "%d", cs.TotalDied)
	row("trail deposits", "%d (%d spread, %d high quality)", ps.Total, ps.SpreadDeposits, ps.HighQuality)
}
