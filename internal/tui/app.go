package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/topdown/internal/player"
	"github.com/udisondev/topdown/internal/sim"
)

// ErrQuit is returned by Run when the user asks to quit.
var ErrQuit = errors.New("quit requested")

// Arena is the simulation surface the terminal front end drives.
type Arena interface {
	ApplyInput(ev player.InputEvent)
	Snapshot() sim.Snapshot
}

// App couples a terminal screen with an arena.
type App struct {
	term          tcell.Screen
	screen        *Screen
	keys          *KeyMapper
	arena         Arena
	frameInterval time.Duration
}

// NewApp creates a front end. term must already be initialized.
func NewApp(term tcell.Screen, arena Arena, keys *KeyMapper, unitsPerCell float64, frameInterval time.Duration) *App {
	if frameInterval <= 0 {
		frameInterval = time.Second / 60
	}
	return &App{
		term:          term,
		screen:        NewScreen(term, unitsPerCell),
		keys:          keys,
		arena:         arena,
		frameInterval: frameInterval,
	}
}

// Run polls terminal events and redraws until ctx is done or the user quits.
// It finalizes the terminal before returning.
func (a *App) Run(ctx context.Context) error {
	defer a.term.Fini()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go func() {
		for {
			ev := a.term.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	ticker := time.NewTicker(a.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if a.handle(ev) == ActionQuit {
				slog.Info("quit requested from terminal")
				return ErrQuit
			}

		case <-ticker.C:
			a.apply(a.keys.Expire())
			a.screen.Draw(a.arena.Snapshot())
		}
	}
}

func (a *App) handle(ev tcell.Event) Action {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		inputs, action := a.keys.HandleKey(ev)
		a.apply(inputs)
		return action
	case *tcell.EventResize:
		a.term.Sync()
	}
	return ActionNone
}

func (a *App) apply(inputs []player.InputEvent) {
	for _, ev := range inputs {
		a.arena.ApplyInput(ev)
	}
}
