package tui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/player"
)

// Action is a front-end command that is not player input.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
)

type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
)

var dirVectors = [...]model.Vec2{
	dirUp:    {X: 0, Y: 1},
	dirDown:  {X: 0, Y: -1},
	dirLeft:  {X: -1, Y: 0},
	dirRight: {X: 1, Y: 0},
}

// KeyMapper turns terminal key events into player input events.
//
// Terminals report key presses and auto-repeat but no releases, so a movement
// key counts as held until holdTimeout passes without a repeat.
// WASD and arrows move, uppercase WASD (Shift) moves while sprinting,
// r toggles sprint, space attacks, q/Esc/Ctrl-C quit.
type KeyMapper struct {
	holdTimeout time.Duration
	now         func() time.Time

	mu            sync.Mutex
	held          map[direction]time.Time // last press or repeat
	move          model.Vec2              // last emitted movement vector
	sprinting     bool
	sprintByShift bool
}

// NewKeyMapper creates a mapper with the given hold timeout.
func NewKeyMapper(holdTimeout time.Duration) *KeyMapper {
	return &KeyMapper{
		holdTimeout: holdTimeout,
		now:         time.Now,
		held:        make(map[direction]time.Time),
	}
}

// HandleKey maps one key event.
func (k *KeyMapper) HandleKey(ev *tcell.EventKey) ([]player.InputEvent, Action) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, ActionQuit
	case tcell.KeyUp:
		return k.press(dirUp, false), ActionNone
	case tcell.KeyDown:
		return k.press(dirDown, false), ActionNone
	case tcell.KeyLeft:
		return k.press(dirLeft, false), ActionNone
	case tcell.KeyRight:
		return k.press(dirRight, false), ActionNone
	case tcell.KeyRune:
	default:
		return nil, ActionNone
	}

	switch r := ev.Rune(); r {
	case 'q', 'Q':
		return nil, ActionQuit
	case ' ':
		return []player.InputEvent{player.AttackTriggered{}}, ActionNone
	case 'r', 'R':
		k.sprintByShift = false
		return []player.InputEvent{k.setSprint(!k.sprinting)}, ActionNone
	case 'w', 'W':
		return k.press(dirUp, r == 'W'), ActionNone
	case 's', 'S':
		return k.press(dirDown, r == 'S'), ActionNone
	case 'a', 'A':
		return k.press(dirLeft, r == 'A'), ActionNone
	case 'd', 'D':
		return k.press(dirRight, r == 'D'), ActionNone
	}
	return nil, ActionNone
}

// Expire releases movement keys not repeated within the hold timeout.
func (k *KeyMapper) Expire() []player.InputEvent {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	changed := false
	for d, at := range k.held {
		if now.Sub(at) > k.holdTimeout {
			delete(k.held, d)
			changed = true
		}
	}
	if !changed {
		return nil
	}

	var out []player.InputEvent
	if len(k.held) == 0 && k.sprintByShift {
		k.sprintByShift = false
		out = append(out, k.setSprint(false))
	}
	if ev, ok := k.movementChanged(); ok {
		out = append(out, ev)
	}
	return out
}

func (k *KeyMapper) press(d direction, shift bool) []player.InputEvent {
	k.held[d] = k.now()
	// Opposite direction is released by the press.
	delete(k.held, opposite(d))

	var out []player.InputEvent
	switch {
	case shift && !k.sprinting:
		k.sprintByShift = true
		out = append(out, k.setSprint(true))
	case !shift && k.sprintByShift:
		k.sprintByShift = false
		out = append(out, k.setSprint(false))
	}

	if ev, ok := k.movementChanged(); ok {
		out = append(out, ev)
	}
	return out
}

func (k *KeyMapper) setSprint(on bool) player.InputEvent {
	k.sprinting = on
	if on {
		return player.SprintStarted{}
	}
	return player.SprintEnded{}
}

func (k *KeyMapper) movementChanged() (player.InputEvent, bool) {
	var v model.Vec2
	for d := range k.held {
		v = v.Add(dirVectors[d])
	}
	if v == k.move {
		return nil, false
	}
	k.move = v
	return player.MovementChanged{Vector: v}, true
}

func opposite(d direction) direction {
	switch d {
	case dirUp:
		return dirDown
	case dirDown:
		return dirUp
	case dirLeft:
		return dirRight
	}
	return dirLeft
}
