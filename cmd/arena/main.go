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

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/topdown/internal/ai"
	"github.com/udisondev/topdown/internal/audio"
	"github.com/udisondev/topdown/internal/config"
	"github.com/udisondev/topdown/internal/db"
	"github.com/udisondev/topdown/internal/sim"
	"github.com/udisondev/topdown/internal/tui"
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
	logPath := flag.String("log", "arena.log", "log file (the terminal is used for rendering)")
	flag.Parse()

	if err := run(ctx, *cfgPath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "arena:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, logPath string) error {
	cfg, err := config.LoadArena(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	logLevel, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(cfg.DebugAI)

	simulation, err := sim.New(cfg)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}
	slog.Info("arena starting",
		"config", cfgPath,
		"encounter", simulation.EncounterID(),
		"enemies", len(simulation.Enemies()))

	if cfg.Audio.Enabled {
		cues := audio.NewCues(cfg.Audio.Volume)
		if err := cues.Init(); err != nil {
			slog.Warn("audio unavailable, continuing without sound", "error", err)
		} else {
			defer cues.Close()
			simulation.OnHit(cues.Hit)
			simulation.OnDeath(cues.Death)
		}
	}

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

	term, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	keys := tui.NewKeyMapper(cfg.Terminal.KeyHoldTimeout)
	app := tui.NewApp(term, simulation, keys, cfg.Terminal.UnitsPerCell, simulation.FrameInterval())

	g.Go(func() error {
		return simulation.Run(gctx)
	})
	g.Go(func() error {
		return app.Run(gctx)
	})

	err = g.Wait()
	slog.Info("arena stopped",
		"ticks", simulation.Tick(),
		"kills", simulation.Kills())
	if journal != nil {
		slog.Info("combat journal closed",
			"written", journal.Written(),
			"dropped", journal.Dropped(),
			"failed", journal.Failed())
	}

	if err != nil && !errors.Is(err, tui.ErrQuit) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("running arena: %w", err)
	}
	return nil
}
