package main

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nightfore/nf/internal/engine/loop"
	"github.com/nightfore/nf/internal/platform/graphics"
	"github.com/nightfore/nf/internal/platform/window"
)

// Game adapts the engine loop to the ebiten driver. Ebiten calls Update
// at a fixed TPS, so every tick advances by the same dt and a recorded
// session replays against identical timing.
type Game struct {
	loop     *loop.Loop
	renderer *graphics.Renderer
	win      *window.Manager
	dt       time.Duration
	overlay  bool
}

// NewGame wires the loop, renderer and window manager into an
// ebiten.Game.
func NewGame(l *loop.Loop, r *graphics.Renderer, win *window.Manager, tps int, overlay bool) *Game {
	return &Game{
		loop:     l,
		renderer: r,
		win:      win,
		dt:       time.Second / time.Duration(tps),
		overlay:  overlay,
	}
}

// Update runs one engine tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		g.win.ToggleFullscreen()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF4) {
		g.overlay = !g.overlay
		if !g.overlay {
			g.win.ResetTitle()
		}
	}

	if err := g.loop.Tick(g.dt); err != nil {
		if errors.Is(err, loop.ErrStopped) {
			return ebiten.Termination
		}
		return err
	}

	if g.overlay {
		g.win.ShowFPS()
	}
	return nil
}

// Draw replays the tick's queued commands onto the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

// Layout reports the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.win.Layout(outsideWidth, outsideHeight)
}
