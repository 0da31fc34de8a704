// Command civilsim runs the civil violence model to completion and reports
// how rebellion and arrests evolved.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/civil-violence/internal/agents"
	"github.com/talgya/civil-violence/internal/collector"
	"github.com/talgya/civil-violence/internal/config"
	"github.com/talgya/civil-violence/internal/engine"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("CIVILSIM_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		slog.Error("civilsim failed", "error", err)
		os.Exit(1)
	}
}

// run builds and runs one model from the environment and writes the summary
// to out. An interrupted run still reports what it collected.
func run(ctx context.Context, out io.Writer) error {
	// ── Configuration ─────────────────────────────────────────────────
	cfg := config.Default()
	if path := os.Getenv("CIVILSIM_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
		slog.Info("config loaded", "path", path)
	}
	if v := os.Getenv("CIVILSIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CIVILSIM_SEED %q: %w", v, err)
		}
		cfg.Seed = seed
	}
	interval := time.Duration(envIntOrDefault("CIVILSIM_INTERVAL_MS", 0)) * time.Millisecond

	// ── Model ─────────────────────────────────────────────────────────
	col, err := collector.New()
	if err != nil {
		return fmt.Errorf("open collector: %w", err)
	}
	defer col.Close()

	model, err := engine.NewModel(cfg, col)
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}

	breeds := model.BreedCounts()
	slog.Info("population ready",
		"run", col.RunID(),
		"citizens", breeds[agents.BreedCitizen],
		"cops", breeds[agents.BreedCop],
		"blocks", breeds[agents.BreedBlock],
		"layout", cfg.Layout,
	)

	// ── Run ───────────────────────────────────────────────────────────
	eng := engine.NewEngine(model)
	eng.Interval = interval
	eng.OnStep = func(iteration int, n engine.Counts) {
		slog.Debug("step",
			"iteration", iteration,
			"quiescent", n.Quiescent,
			"active", n.Active,
			"deviant", n.Deviant,
			"jailed", n.Jailed,
		)
	}

	start := time.Now()
	if err := eng.Run(ctx); err != nil {
		slog.Warn("run interrupted", "error", err)
	}

	// ── Summary ───────────────────────────────────────────────────────
	series, err := col.ModelSeries()
	if err != nil {
		return fmt.Errorf("read collected series: %w", err)
	}
	peakActive, peakStep := 0, 0
	for _, mv := range series {
		if rebels := mv.Active + mv.Deviant; rebels > peakActive {
			peakActive, peakStep = rebels, mv.Step
		}
	}

	final := model.Counts()
	fmt.Fprintf(out, "\nRun %s finished after %s steps in %s.\n",
		col.RunID(), humanize.Comma(int64(model.Iteration())), time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "Quiescent %s, active %s, deviant %s, jailed %s.\n",
		humanize.Comma(int64(final.Quiescent)),
		humanize.Comma(int64(final.Active)),
		humanize.Comma(int64(final.Deviant)),
		humanize.Comma(int64(final.Jailed)),
	)
	fmt.Fprintf(out, "%s arrests in total; rebellion peaked at %s citizens on step %s.\n",
		humanize.Comma(int64(final.Arrests)),
		humanize.Comma(int64(peakActive)),
		humanize.Comma(int64(peakStep)),
	)
	return nil
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
