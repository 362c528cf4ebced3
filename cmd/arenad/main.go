package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/topdown/internal/ai"
	"github.com/udisondev/topdown/internal/config"
	"github.com/udisondev/topdown/internal/db"
	"github.com/udisondev/topdown/internal/sim"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	cfgPath := flag.String("config", config.Path(), "arena config file")
	duration := flag.Duration("duration", 30*time.Second, "how long to simulate (0 = until interrupted)")
	bot := flag.Bool("autopilot", true, "let a bot drive the player")
	flag.Parse()

	if err := run(ctx, *cfgPath, *duration, *bot); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string, duration time.Duration, bot bool) error {
	cfg, err := config.LoadArena(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(cfg.DebugAI)

	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	simulation, err := sim.New(cfg)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}
	simulation.OnDeath(func(objectID uint32, isPlayer bool) {
		slog.Info("death", "objectID", objectID, "player", isPlayer)
	})

	slog.Info("headless arena starting",
		"config", cfgPath,
		"encounter", simulation.EncounterID(),
		"duration", duration,
		"autopilot", bot,
		"enemies", len(simulation.Enemies()))

	g, gctx := errgroup.WithContext(ctx)

	var journal *db.Journal
	if cfg.Database.Enabled {
		database, j, err := db.OpenJournal(ctx, cfg.Database, simulation.EncounterID())
		if err != nil {
			return fmt.Errorf("opening combat journal: %w", err)
		}
		defer database.Close()

		journal = j
		simulation.SetRecorder(journal)
		g.Go(func() error {
			return journal.Run(gctx)
		})
	}

	g.Go(func() error {
		return simulation.Run(gctx)
	})
	if bot {
		pilot := newAutopilot(simulation, cfg.Player.Stats.AttackRange)
		g.Go(func() error {
			return pilot.Run(gctx, simulation.FrameInterval())
		})
	}

	err = g.Wait()

	snap := simulation.Snapshot()
	slog.Info("headless arena stopped",
		"ticks", snap.Tick,
		"elapsed", snap.Elapsed,
		"kills", snap.Kills,
		"player_health", snap.Player.Health,
		"player_dead", snap.Player.Dead)
	if journal != nil {
		slog.Info("combat journal closed",
			"written", journal.Written(),
			"dropped", journal.Dropped(),
			"failed", journal.Failed())
	}

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("running arena: %w", err)
	}
	return nil
}
