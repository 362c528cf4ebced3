package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/topdown/internal/player"
	"github.com/udisondev/topdown/internal/sim"
	"github.com/udisondev/topdown/internal/testutil"
)

type fakeArena struct {
	mu     sync.Mutex
	inputs []player.InputEvent
	frames int
}

func (a *fakeArena) ApplyInput(ev player.InputEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inputs = append(a.inputs, ev)
}

func (a *fakeArena) Snapshot() sim.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frames++
	return testSnapshot()
}

func (a *fakeArena) received() []player.InputEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]player.InputEvent(nil), a.inputs...)
}

func (a *fakeArena) frameCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen, *fakeArena) {
	t.Helper()
	term := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, term.Init())
	term.SetSize(40, 20)
	arena := &fakeArena{}
	app := NewApp(term, arena, NewKeyMapper(time.Second), 0.5, 5*time.Millisecond)
	return app, term, arena
}

func TestApp_QuitKey(t *testing.T) {
	app, term, arena := newTestApp(t)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	term.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	term.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQuit)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not quit")
	}
	assert.Contains(t, arena.received(), player.InputEvent(player.AttackTriggered{}))
}

func TestApp_StopsOnContextCancel(t *testing.T) {
	app, _, arena := newTestApp(t)

	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	testutil.WaitFor(t, func() bool { return arena.frameCount() > 0 }, time.Second)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}
