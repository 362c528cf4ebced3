package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/player"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMapper(t *testing.T) (*KeyMapper, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1000, 0)}
	km := NewKeyMapper(150 * time.Millisecond)
	km.now = clk.now
	return km, clk
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestKeyMapper_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)},
		{"q", runeKey('q')},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, _ := newTestMapper(t)
			events, action := km.HandleKey(tt.ev)
			assert.Equal(t, ActionQuit, action)
			assert.Empty(t, events)
		})
	}
}

func TestKeyMapper_Movement(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want model.Vec2
	}{
		{"w", runeKey('w'), model.Vec2{X: 0, Y: 1}},
		{"s", runeKey('s'), model.Vec2{X: 0, Y: -1}},
		{"a", runeKey('a'), model.Vec2{X: -1, Y: 0}},
		{"d", runeKey('d'), model.Vec2{X: 1, Y: 0}},
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), model.Vec2{X: 0, Y: 1}},
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), model.Vec2{X: -1, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, _ := newTestMapper(t)
			events, action := km.HandleKey(tt.ev)
			assert.Equal(t, ActionNone, action)
			require.Len(t, events, 1)
			assert.Equal(t, player.MovementChanged{Vector: tt.want}, events[0])
		})
	}
}

func TestKeyMapper_RepeatEmitsNothingNew(t *testing.T) {
	km, clk := newTestMapper(t)

	events, _ := km.HandleKey(runeKey('d'))
	require.Len(t, events, 1)

	clk.advance(50 * time.Millisecond)
	events, _ = km.HandleKey(runeKey('d'))
	assert.Empty(t, events, "auto-repeat must not re-emit the same vector")
}

func TestKeyMapper_Diagonal(t *testing.T) {
	km, _ := newTestMapper(t)

	km.HandleKey(runeKey('w'))
	events, _ := km.HandleKey(runeKey('d'))
	require.Len(t, events, 1)
	assert.Equal(t, player.MovementChanged{Vector: model.Vec2{X: 1, Y: 1}}, events[0])
}

func TestKeyMapper_OppositeReleases(t *testing.T) {
	km, _ := newTestMapper(t)

	km.HandleKey(runeKey('a'))
	events, _ := km.HandleKey(runeKey('d'))
	require.Len(t, events, 1)
	assert.Equal(t, player.MovementChanged{Vector: model.Vec2{X: 1, Y: 0}}, events[0])
}

func TestKeyMapper_ExpireReleasesMovement(t *testing.T) {
	km, clk := newTestMapper(t)

	km.HandleKey(runeKey('w'))

	clk.advance(100 * time.Millisecond)
	assert.Empty(t, km.Expire(), "key still within hold timeout")

	clk.advance(100 * time.Millisecond)
	events := km.Expire()
	require.Len(t, events, 1)
	assert.Equal(t, player.MovementChanged{Vector: model.Vec2{}}, events[0])

	assert.Empty(t, km.Expire(), "nothing left to release")
}

func TestKeyMapper_ShiftSprint(t *testing.T) {
	km, clk := newTestMapper(t)

	events, _ := km.HandleKey(runeKey('W'))
	require.Len(t, events, 2)
	assert.Equal(t, player.SprintStarted{}, events[0])
	assert.Equal(t, player.MovementChanged{Vector: model.Vec2{X: 0, Y: 1}}, events[1])

	// Releasing every key also ends a shift sprint.
	clk.advance(time.Second)
	events = km.Expire()
	require.Len(t, events, 2)
	assert.Equal(t, player.SprintEnded{}, events[0])
	assert.Equal(t, player.MovementChanged{Vector: model.Vec2{}}, events[1])
}

func TestKeyMapper_ShiftSprintEndsOnPlainKey(t *testing.T) {
	km, _ := newTestMapper(t)

	km.HandleKey(runeKey('D'))
	events, _ := km.HandleKey(runeKey('d'))
	require.Len(t, events, 1)
	assert.Equal(t, player.SprintEnded{}, events[0])
}

func TestKeyMapper_ToggleSprint(t *testing.T) {
	km, clk := newTestMapper(t)

	events, _ := km.HandleKey(runeKey('r'))
	require.Equal(t, []player.InputEvent{player.SprintStarted{}}, events)

	// Toggled sprint survives key release.
	km.HandleKey(runeKey('w'))
	clk.advance(time.Second)
	events = km.Expire()
	require.Len(t, events, 1)
	assert.Equal(t, player.MovementChanged{Vector: model.Vec2{}}, events[0])

	events, _ = km.HandleKey(runeKey('r'))
	assert.Equal(t, []player.InputEvent{player.SprintEnded{}}, events)
}

func TestKeyMapper_Attack(t *testing.T) {
	km, _ := newTestMapper(t)

	events, action := km.HandleKey(runeKey(' '))
	assert.Equal(t, ActionNone, action)
	assert.Equal(t, []player.InputEvent{player.AttackTriggered{}}, events)
}

func TestKeyMapper_UnmappedKey(t *testing.T) {
	km, _ := newTestMapper(t)

	events, action := km.HandleKey(runeKey('z'))
	assert.Equal(t, ActionNone, action)
	assert.Empty(t, events)

	events, action = km.HandleKey(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone))
	assert.Equal(t, ActionNone, action)
	assert.Empty(t, events)
}
