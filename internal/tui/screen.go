package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/sim"
)

// Terminal cells are about twice as tall as wide.
const cellAspect = 2.0

var (
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleDead    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleIdle    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleChasing = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleGrid    = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
)

// Screen renders simulation snapshots with a camera centered on the player.
type Screen struct {
	screen       tcell.Screen
	unitsPerCell float64 // world units per terminal column
}

// NewScreen wraps an initialized tcell screen.
func NewScreen(screen tcell.Screen, unitsPerCell float64) *Screen {
	if !(unitsPerCell > 0) {
		unitsPerCell = 0.5
	}
	return &Screen{screen: screen, unitsPerCell: unitsPerCell}
}

// Draw renders one frame. Row 0 is the HUD.
func (s *Screen) Draw(snap sim.Snapshot) {
	s.screen.Clear()
	w, h := s.screen.Size()
	center := snap.Player.Position

	s.drawGrid(center, w, h)

	for _, e := range snap.Enemies {
		x, y := s.project(e.Position, center, w, h)
		style := styleIdle
		if e.State == model.AggroChasing {
			style = styleChasing
		}
		s.set(x, y, 'e', style, w, h)
		s.set(x+1, y, facingGlyph(e.Facing), style, w, h)
	}

	px, py := s.project(center, center, w, h)
	if snap.Player.Dead {
		s.set(px, py, 'x', styleDead, w, h)
	} else {
		s.set(px, py, '@', stylePlayer, w, h)
		s.set(px+1, py, facingGlyph(snap.Player.Facing), stylePlayer, w, h)
	}

	s.drawHUD(snap, w)
	s.screen.Show()
}

// project maps a world position to a terminal cell, +Y up.
func (s *Screen) project(pos, center model.Vec2, w, h int) (int, int) {
	x := w/2 + int(math.Round((pos.X-center.X)/s.unitsPerCell))
	y := h/2 - int(math.Round((pos.Y-center.Y)/(s.unitsPerCell*cellAspect)))
	return x, y
}

// drawGrid marks every whole world unit to make movement visible.
func (s *Screen) drawGrid(center model.Vec2, w, h int) {
	spanX := float64(w) / 2 * s.unitsPerCell
	spanY := float64(h) / 2 * s.unitsPerCell * cellAspect
	for gx := math.Floor(center.X - spanX); gx <= center.X+spanX; gx++ {
		for gy := math.Floor(center.Y - spanY); gy <= center.Y+spanY; gy++ {
			x, y := s.project(model.Vec2{X: gx, Y: gy}, center, w, h)
			s.set(x, y, '·', styleGrid, w, h)
		}
	}
}

func (s *Screen) drawHUD(snap sim.Snapshot, w int) {
	p := snap.Player
	status := fmt.Sprintf(" HP %3.0f/%-3.0f  CD %.1fs  kills %d  enemies %d  t %.1fs ",
		p.Health, p.MaxHealth, p.Cooldown, snap.Kills, len(snap.Enemies), snap.Elapsed)
	if p.Sprinting {
		status += " SPRINT "
	}
	if p.Dead {
		status += " YOU DIED (q to quit) "
	}

	for x := range w {
		s.screen.SetContent(x, 0, ' ', nil, styleHUD)
	}
	for i, r := range []rune(status) {
		if i >= w {
			break
		}
		s.screen.SetContent(i, 0, r, nil, styleHUD)
	}
}

// set draws r at (x, y) if it is inside the map area below the HUD.
func (s *Screen) set(x, y int, r rune, style tcell.Style, w, h int) {
	if x < 0 || x >= w || y < 1 || y >= h {
		return
	}
	s.screen.SetContent(x, y, r, nil, style)
}

// facingGlyph returns an arrow for a facing angle (0 = up, 90 = left).
func facingGlyph(facing float64) rune {
	f := model.NormalizeAngle(facing)
	switch {
	case f > -45 && f <= 45:
		return '^'
	case f > 45 && f <= 135:
		return '<'
	case f > -135 && f <= -45:
		return '>'
	}
	return 'v'
}
